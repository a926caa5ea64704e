package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/starford/kith/internal/apperr"
)

// Record aggregates one contact's fields.
type Record struct {
	Name     Name      `json:"name"`
	Phones   []Phone   `json:"phones"`
	Emails   []Email   `json:"emails"`
	Birthday *Birthday `json:"birthday,omitempty"`
	Address  *Address  `json:"address,omitempty"`
}

// NewRecord creates an empty record for the given name.
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	return &Record{Name: n}, nil
}

// AddPhone validates and appends a phone. Duplicates are kept.
func (r *Record) AddPhone(raw string) error {
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	r.Phones = append(r.Phones, p)
	return nil
}

// EditPhone replaces the phone equal to old with a validated replacement.
func (r *Record) EditPhone(old, replacement string) error {
	i := slices.Index(r.Phones, Phone(strings.TrimSpace(old)))
	if i < 0 {
		return apperr.NotFoundf("phone %s not found for %s", old, r.Name)
	}
	p, err := NewPhone(replacement)
	if err != nil {
		return err
	}
	r.Phones[i] = p
	return nil
}

// RemovePhone removes every occurrence of the given phone.
func (r *Record) RemovePhone(raw string) error {
	target := Phone(strings.TrimSpace(raw))
	if !slices.Contains(r.Phones, target) {
		return apperr.NotFoundf("phone %s not found for %s", raw, r.Name)
	}
	r.Phones = slices.DeleteFunc(r.Phones, func(p Phone) bool { return p == target })
	return nil
}

// AddEmail validates and appends an email. Duplicates are kept.
func (r *Record) AddEmail(raw string) error {
	e, err := NewEmail(raw)
	if err != nil {
		return err
	}
	r.Emails = append(r.Emails, e)
	return nil
}

// EditEmail replaces the email equal to old with a validated replacement.
func (r *Record) EditEmail(old, replacement string) error {
	i := slices.Index(r.Emails, Email(strings.TrimSpace(old)))
	if i < 0 {
		return apperr.NotFoundf("email %s not found for %s", old, r.Name)
	}
	e, err := NewEmail(replacement)
	if err != nil {
		return err
	}
	r.Emails[i] = e
	return nil
}

// RemoveEmail removes every occurrence of the given email.
func (r *Record) RemoveEmail(raw string) error {
	target := Email(strings.TrimSpace(raw))
	if !slices.Contains(r.Emails, target) {
		return apperr.NotFoundf("email %s not found for %s", raw, r.Name)
	}
	r.Emails = slices.DeleteFunc(r.Emails, func(e Email) bool { return e == target })
	return nil
}

// AddAddress validates and sets the address, replacing any previous one.
func (r *Record) AddAddress(raw string) error {
	a, err := NewAddress(raw)
	if err != nil {
		return err
	}
	r.Address = &a
	return nil
}

// AddBirthday validates and sets the birthday, replacing any previous one.
func (r *Record) AddBirthday(raw string) error {
	b, err := NewBirthday(raw)
	if err != nil {
		return err
	}
	r.Birthday = &b
	return nil
}

// DaysToBirthday returns the days from today until the next birthday.
// ok is false when no birthday is set.
func (r *Record) DaysToBirthday(today time.Time) (days int, ok bool) {
	if r.Birthday == nil {
		return 0, false
	}
	return DaysBetween(today, r.Birthday.NextOccurrence(today)), true
}

// Matches reports whether the lower-cased query is a substring of any field.
func (r *Record) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(string(r.Name)), q) {
		return true
	}
	for _, p := range r.Phones {
		if strings.Contains(string(p), q) {
			return true
		}
	}
	for _, e := range r.Emails {
		if e != "" && strings.Contains(strings.ToLower(string(e)), q) {
			return true
		}
	}
	if r.Birthday != nil && strings.Contains(r.Birthday.String(), q) {
		return true
	}
	if r.Address != nil && strings.Contains(strings.ToLower(string(*r.Address)), q) {
		return true
	}
	return false
}

// PhoneList joins the phones for display.
func (r *Record) PhoneList() string { return joinValues(r.Phones) }

// EmailList joins the emails for display.
func (r *Record) EmailList() string { return joinValues(r.Emails) }

// BirthdayString returns the birthday or an empty string.
func (r *Record) BirthdayString() string {
	if r.Birthday == nil {
		return ""
	}
	return r.Birthday.String()
}

// AddressString returns the address or an empty string.
func (r *Record) AddressString() string {
	if r.Address == nil {
		return ""
	}
	return string(*r.Address)
}

func (r *Record) String() string {
	return fmt.Sprintf("Name: %s\nPhones: %s\nEmails: %s\nBirthday: %s\nAddress: %s",
		r.Name, orNA(r.PhoneList()), orNA(r.EmailList()), orNA(r.BirthdayString()), orNA(r.AddressString()))
}

func joinValues[T ~string](vs []T) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = string(v)
	}
	return strings.Join(parts, "; ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
