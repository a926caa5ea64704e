// Package command routes textual command lines to handlers operating on a Session.
package command

import (
	"fmt"
	"strings"

	"github.com/starford/kith/internal/apperr"
)

// Command identifies a dispatchable command.
type Command int

const (
	Hello Command = iota + 1
	Help
	AddContact
	ChangeContact
	ShowPhone
	AllContacts
	AddPhone
	EditPhone
	RemovePhone
	AddEmail
	EditEmail
	RemoveEmail
	AddAddress
	AddBirthday
	ShowBirthday
	UpcomingBirthdays
	SearchContacts
	DeleteContact
	AddNote
	EditNote
	DeleteNote
	SearchNotes
	AllNotes
	AddTag
	RemoveTag
	Save
	Exit

	numCommands
)

// Target is the collection a command reads or changes.
type Target int

const (
	TargetNone Target = iota
	TargetContacts
	TargetNotes
)

func (t Target) String() string {
	switch t {
	case TargetContacts:
		return "contacts"
	case TargetNotes:
		return "notes"
	default:
		return "none"
	}
}

// Variadic as Spec.Optional accepts any number of trailing arguments.
const Variadic = -1

// Handler runs one command. The returned string is shown to the user.
type Handler func(s *Session, args []string) (string, error)

// Spec is one row of the command metadata table.
type Spec struct {
	Command  Command
	Name     string
	Aliases  []string
	Required int
	Optional int
	Hints    []string
	Summary  string
	Target   Target
	Mutates  bool

	handler Handler
}

// Usage renders the command name with its argument hints.
func (s Spec) Usage() string {
	return strings.TrimSpace(s.Name + " " + strings.Join(s.Hints, " "))
}

// Names returns the primary name followed by aliases.
func (s Spec) Names() []string {
	return append([]string{s.Name}, s.Aliases...)
}

// MaxArgs returns the argument limit, or Variadic.
func (s Spec) MaxArgs() int {
	if s.Optional == Variadic {
		return Variadic
	}
	return s.Required + s.Optional
}

func (s Spec) checkArity(n int) error {
	if n < s.Required || (s.Optional != Variadic && n > s.Required+s.Optional) {
		return apperr.Usagef("Usage: %s", s.Usage())
	}
	return nil
}

func (c Command) String() string {
	for _, s := range registry() {
		if s.Command == c {
			return s.Name
		}
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Specs returns the metadata table in command order. Help and the MCP tool
// list are built from it.
func Specs() []Spec {
	return registry()
}
