package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/kith/internal/apperr"
	"github.com/starford/kith/internal/models"
)

// dateShape marks birthday candidates. They are validated as dates and
// never fall through to the address.
var dateShape = regexp.MustCompile(`^[\d./-]+$`)

func addContact(s *Session, args []string) (string, error) {
	name := args[0]
	if _, err := s.Contacts.Find(name); err == nil {
		return "", apperr.AlreadyExistsf("contact %q already exists", strings.TrimSpace(name))
	}
	r, err := models.NewRecord(name)
	if err != nil {
		return "", err
	}
	if err := r.AddPhone(args[1]); err != nil {
		return "", err
	}

	var email, birthday, address string
	for _, raw := range args[2:] {
		slot := &address
		switch {
		case strings.Contains(raw, "@"):
			slot = &email
		case dateShape.MatchString(strings.TrimSpace(raw)):
			slot = &birthday
		}
		if *slot != "" {
			return "", apperr.Usagef("Usage: add_contact accepts at most one email, birthday and address")
		}
		*slot = raw
	}
	if email != "" {
		if err := r.AddEmail(email); err != nil {
			return "", err
		}
	}
	if birthday != "" {
		if err := r.AddBirthday(birthday); err != nil {
			return "", err
		}
	}
	if address != "" {
		if err := r.AddAddress(address); err != nil {
			return "", err
		}
	}

	s.Contacts.Add(r)
	return "Contact added.", nil
}

func changeContact(s *Session, args []string) (string, error) {
	r, err := s.Contacts.Find(args[0])
	if err != nil {
		return "", err
	}
	field, value := strings.ToLower(strings.TrimSpace(args[1])), args[2]
	switch field {
	case "phone":
		err = replaceOnly(len(r.Phones), "phone", "edit_phone",
			func() error { return r.AddPhone(value) },
			func() error { return r.EditPhone(string(r.Phones[0]), value) })
	case "email":
		err = replaceOnly(len(r.Emails), "email", "edit_email",
			func() error { return r.AddEmail(value) },
			func() error { return r.EditEmail(string(r.Emails[0]), value) })
	case "birthday":
		err = r.AddBirthday(value)
	case "address":
		err = r.AddAddress(value)
	default:
		return "", apperr.Usagef("Usage: change_contact <name> <phone|birthday|address|email> <new_value>")
	}
	if err != nil {
		return "", err
	}
	return "Contact updated.", nil
}

// replaceOnly adds the value when the list is empty and replaces it when it
// holds exactly one entry. Longer lists are ambiguous.
func replaceOnly(n int, what, editCmd string, add, replace func() error) error {
	switch n {
	case 0:
		return add()
	case 1:
		return replace()
	default:
		return apperr.Usagef("Usage: contact has %d %ss; use %s to pick one", n, what, editCmd)
	}
}

func showPhone(s *Session, args []string) (string, error) {
	r, err := s.Contacts.Find(args[0])
	if err != nil {
		return "", err
	}
	if len(r.Phones) == 0 {
		return fmt.Sprintf("%s has no phones.", r.Name), nil
	}
	return fmt.Sprintf("%s: %s", r.Name, r.PhoneList()), nil
}

func allContacts(s *Session, _ []string) (string, error) {
	rs := s.Contacts.All()
	if len(rs) == 0 {
		return "No contacts saved.", nil
	}
	return contactsTable(rs), nil
}

func withRecord(args []string, s *Session, fn func(r *models.Record) error, done string) (string, error) {
	r, err := s.Contacts.Find(args[0])
	if err != nil {
		return "", err
	}
	if err := fn(r); err != nil {
		return "", err
	}
	return done, nil
}

func addPhone(s *Session, args []string) (string, error) {
	return withRecord(args, s, func(r *models.Record) error { return r.AddPhone(args[1]) }, "Phone added.")
}

func editPhone(s *Session, args []string) (string, error) {
	return withRecord(args, s, func(r *models.Record) error { return r.EditPhone(args[1], args[2]) }, "Phone updated.")
}

func removePhone(s *Session, args []string) (string, error) {
	return withRecord(args, s, func(r *models.Record) error { return r.RemovePhone(args[1]) }, "Phone removed.")
}

func addEmail(s *Session, args []string) (string, error) {
	return withRecord(args, s, func(r *models.Record) error { return r.AddEmail(args[1]) }, "Email added.")
}

func editEmail(s *Session, args []string) (string, error) {
	return withRecord(args, s, func(r *models.Record) error { return r.EditEmail(args[1], args[2]) }, "Email updated.")
}

func removeEmail(s *Session, args []string) (string, error) {
	return withRecord(args, s, func(r *models.Record) error { return r.RemoveEmail(args[1]) }, "Email removed.")
}

func addAddress(s *Session, args []string) (string, error) {
	return withRecord(args, s, func(r *models.Record) error { return r.AddAddress(args[1]) }, "Address added.")
}

func addBirthday(s *Session, args []string) (string, error) {
	return withRecord(args, s, func(r *models.Record) error { return r.AddBirthday(args[1]) }, "Birthday added.")
}

func showBirthday(s *Session, args []string) (string, error) {
	r, err := s.Contacts.Find(args[0])
	if err != nil {
		return "", err
	}
	days, ok := r.DaysToBirthday(s.Now())
	if !ok {
		return "", apperr.NotFoundf("no birthday set for %q", string(r.Name))
	}
	when := fmt.Sprintf("in %d days", days)
	switch days {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	}
	return fmt.Sprintf("%s: %s (%s)", r.Name, r.Birthday, when), nil
}

func upcomingBirthdays(s *Session, args []string) (string, error) {
	days := s.UpcomingDays
	if len(args) == 1 {
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return "", apperr.Validationf("days must be a whole number, got %q", args[0])
		}
		if err := validation.Validate(n, validation.Min(0).Error("days cannot be negative")); err != nil {
			return "", apperr.Validation(err)
		}
		days = n
	}
	now := s.Now()
	list, err := s.Contacts.UpcomingBirthdays(now, days)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return fmt.Sprintf("No birthdays in the next %d days.", days), nil
	}
	return upcomingTable(now, list), nil
}

func searchContacts(s *Session, args []string) (string, error) {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return "", apperr.Validationf("search query cannot be empty")
	}
	rs := s.Contacts.Search(query)
	if len(rs) == 0 {
		return "No contacts found.", nil
	}
	return contactsTable(rs), nil
}

func deleteContact(s *Session, args []string) (string, error) {
	if err := s.Contacts.Delete(args[0]); err != nil {
		return "", err
	}
	return fmt.Sprintf("Contact %q deleted.", strings.TrimSpace(args[0])), nil
}
