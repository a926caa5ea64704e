package command

import (
	"fmt"
	"strings"
)

func registry() []Spec {
	return []Spec{
		{Command: Hello, Name: "hello", Summary: "Greet the assistant", handler: hello},
		{Command: Help, Name: "help", Summary: "List available commands", handler: help},

		{
			Command: AddContact, Name: "add_contact", Required: 2, Optional: 3,
			Hints:   []string{"<name>", "<phone>", "[email]", "[birthday]", "[address]"},
			Summary: "Add a contact", Target: TargetContacts, Mutates: true, handler: addContact,
		},
		{
			Command: ChangeContact, Name: "change_contact", Required: 3,
			Hints:   []string{"<name>", "<phone|birthday|address|email>", "<new_value>"},
			Summary: "Change one field of a contact", Target: TargetContacts, Mutates: true, handler: changeContact,
		},
		{
			Command: ShowPhone, Name: "phone", Required: 1, Hints: []string{"<name>"},
			Summary: "Show a contact's phones", Target: TargetContacts, handler: showPhone,
		},
		{
			Command: AllContacts, Name: "all_contacts",
			Summary: "Show all contacts", Target: TargetContacts, handler: allContacts,
		},
		{
			Command: AddPhone, Name: "add_phone", Required: 2, Hints: []string{"<name>", "<phone>"},
			Summary: "Add a phone to a contact", Target: TargetContacts, Mutates: true, handler: addPhone,
		},
		{
			Command: EditPhone, Name: "edit_phone", Required: 3, Hints: []string{"<name>", "<old_phone>", "<new_phone>"},
			Summary: "Replace one phone of a contact", Target: TargetContacts, Mutates: true, handler: editPhone,
		},
		{
			Command: RemovePhone, Name: "remove_phone", Required: 2, Hints: []string{"<name>", "<phone>"},
			Summary: "Remove a phone from a contact", Target: TargetContacts, Mutates: true, handler: removePhone,
		},
		{
			Command: AddEmail, Name: "add_email", Required: 2, Hints: []string{"<name>", "<email>"},
			Summary: "Add an email to a contact", Target: TargetContacts, Mutates: true, handler: addEmail,
		},
		{
			Command: EditEmail, Name: "edit_email", Required: 3, Hints: []string{"<name>", "<old_email>", "<new_email>"},
			Summary: "Replace one email of a contact", Target: TargetContacts, Mutates: true, handler: editEmail,
		},
		{
			Command: RemoveEmail, Name: "remove_email", Required: 2, Hints: []string{"<name>", "<email>"},
			Summary: "Remove an email from a contact", Target: TargetContacts, Mutates: true, handler: removeEmail,
		},
		{
			Command: AddAddress, Name: "add_address", Required: 2, Hints: []string{"<name>", "<address>"},
			Summary: "Set a contact's address", Target: TargetContacts, Mutates: true, handler: addAddress,
		},
		{
			Command: AddBirthday, Name: "add_birthday", Required: 2, Hints: []string{"<name>", "<DD.MM.YYYY>"},
			Summary: "Set a contact's birthday", Target: TargetContacts, Mutates: true, handler: addBirthday,
		},
		{
			Command: ShowBirthday, Name: "show_birthday", Required: 1, Hints: []string{"<name>"},
			Summary: "Show a contact's birthday", Target: TargetContacts, handler: showBirthday,
		},
		{
			Command: UpcomingBirthdays, Name: "upcoming_birthdays", Optional: 1, Hints: []string{"[days]"},
			Summary: "Show birthdays in the coming days", Target: TargetContacts, handler: upcomingBirthdays,
		},
		{
			Command: SearchContacts, Name: "search_contacts", Required: 1, Hints: []string{"<query>"},
			Summary: "Search contacts by any field", Target: TargetContacts, handler: searchContacts,
		},
		{
			Command: DeleteContact, Name: "delete_contact", Required: 1, Hints: []string{"<name>"},
			Summary: "Delete a contact", Target: TargetContacts, Mutates: true, handler: deleteContact,
		},

		{
			Command: AddNote, Name: "add_note", Required: 2, Optional: Variadic,
			Hints:   []string{"<title>", "<text>", "[tags...]"},
			Summary: "Add a note", Target: TargetNotes, Mutates: true, handler: addNote,
		},
		{
			Command: EditNote, Name: "edit_note", Required: 1, Optional: Variadic,
			Hints:   []string{"<id>", "[title]", "[text]", "[tags...]"},
			Summary: "Edit a note; pass \"\" to keep a field", Target: TargetNotes, Mutates: true, handler: editNote,
		},
		{
			Command: DeleteNote, Name: "delete_note", Required: 1, Hints: []string{"<id>"},
			Summary: "Delete a note", Target: TargetNotes, Mutates: true, handler: deleteNote,
		},
		{
			Command: SearchNotes, Name: "search_notes", Required: 1, Hints: []string{"<query>"},
			Summary: "Search notes by title, text or tag", Target: TargetNotes, handler: searchNotes,
		},
		{
			Command: AllNotes, Name: "all_notes",
			Summary: "Show all notes", Target: TargetNotes, handler: allNotes,
		},
		{
			Command: AddTag, Name: "add_tag", Required: 2, Hints: []string{"<id>", "<tag>"},
			Summary: "Tag a note", Target: TargetNotes, Mutates: true, handler: addTag,
		},
		{
			Command: RemoveTag, Name: "remove_tag", Required: 2, Hints: []string{"<id>", "<tag>"},
			Summary: "Remove a tag from a note", Target: TargetNotes, Mutates: true, handler: removeTag,
		},

		{Command: Save, Name: "save", Summary: "Save contacts and notes now", handler: save},
		{Command: Exit, Name: "exit", Aliases: []string{"close"}, Summary: "Save and quit", handler: exit},
	}
}

// validate checks that every Command has exactly one spec and that names are unique.
func validate(specs []Spec) error {
	seen := make(map[Command]bool, len(specs))
	names := make(map[string]Command, len(specs))
	for _, s := range specs {
		if s.Command <= 0 || s.Command >= numCommands {
			return fmt.Errorf("command: spec %q has unknown command %d", s.Name, s.Command)
		}
		if seen[s.Command] {
			return fmt.Errorf("command: duplicate spec for %q", s.Name)
		}
		seen[s.Command] = true
		if s.handler == nil {
			return fmt.Errorf("command: %q has no handler", s.Name)
		}
		if s.Required < 0 || s.Optional < Variadic {
			return fmt.Errorf("command: %q has invalid arity", s.Name)
		}
		for _, n := range s.Names() {
			if n == "" || n != strings.ToLower(n) || strings.ContainsAny(n, " \t") {
				return fmt.Errorf("command: invalid name %q", n)
			}
			if other, dup := names[n]; dup {
				return fmt.Errorf("command: name %q used by %d and %d", n, other, s.Command)
			}
			names[n] = s.Command
		}
	}
	for c := Command(1); c < numCommands; c++ {
		if !seen[c] {
			return fmt.Errorf("command: no spec for command %d", c)
		}
	}
	return nil
}
