// Package models defines the validated contact fields, contact records and notes.
package models

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/kith/internal/apperr"
)

// BirthdayLayout is the display and storage layout of a birthday.
const BirthdayLayout = "02.01.2006"

// birthdayInputLayout also accepts single-digit day and month.
const birthdayInputLayout = "2.1.2006"

var (
	phoneRe = regexp.MustCompile(`^\d{10}$`)
	emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

var (
	nameRules = []validation.Rule{
		validation.Required.Error("name cannot be empty"),
	}
	phoneRules = []validation.Rule{
		validation.Required.Error("phone cannot be empty"),
		validation.Match(phoneRe).Error("phone number must consist of exactly 10 digits"),
	}
	emailRules = []validation.Rule{
		validation.Required.Error("email cannot be empty"),
		validation.Match(emailRe).Error("invalid email format, expected local@domain.tld"),
	}
	birthdayRules = []validation.Rule{
		validation.Required.Error("birthday cannot be empty"),
		validation.Date(birthdayInputLayout).Error("invalid date, use DD.MM.YYYY"),
	}
	addressRules = []validation.Rule{
		validation.Required.Error("address cannot be empty"),
	}
)

func check(raw string, rules []validation.Rule) error {
	return apperr.Validation(validation.Validate(strings.TrimSpace(raw), rules...))
}

// Name is a contact name, the AddressBook key.
type Name string

// NewName validates raw as a contact name.
func NewName(raw string) (Name, error) {
	if err := check(raw, nameRules); err != nil {
		return "", err
	}
	return Name(strings.TrimSpace(raw)), nil
}

func (n Name) String() string { return string(n) }

func (n Name) MarshalText() ([]byte, error) { return []byte(n), nil }

func (n *Name) UnmarshalText(b []byte) error {
	v, err := NewName(string(b))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Phone is a ten digit phone number.
type Phone string

// NewPhone validates raw as a phone number.
func NewPhone(raw string) (Phone, error) {
	if err := check(raw, phoneRules); err != nil {
		return "", err
	}
	return Phone(strings.TrimSpace(raw)), nil
}

func (p Phone) String() string { return string(p) }

func (p Phone) MarshalText() ([]byte, error) { return []byte(p), nil }

func (p *Phone) UnmarshalText(b []byte) error {
	v, err := NewPhone(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Email is an email address of the local@domain.tld shape.
type Email string

// NewEmail validates raw as an email address.
func NewEmail(raw string) (Email, error) {
	if err := check(raw, emailRules); err != nil {
		return "", err
	}
	return Email(strings.TrimSpace(raw)), nil
}

func (e Email) String() string { return string(e) }

func (e Email) MarshalText() ([]byte, error) { return []byte(e), nil }

func (e *Email) UnmarshalText(b []byte) error {
	v, err := NewEmail(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Address is a free-form postal address.
type Address string

// NewAddress validates raw as an address.
func NewAddress(raw string) (Address, error) {
	if err := check(raw, addressRules); err != nil {
		return "", err
	}
	return Address(strings.TrimSpace(raw)), nil
}

func (a Address) String() string { return string(a) }

func (a Address) MarshalText() ([]byte, error) { return []byte(a), nil }

func (a *Address) UnmarshalText(b []byte) error {
	v, err := NewAddress(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Birthday is a calendar date. Only the date part is meaningful.
type Birthday struct {
	date time.Time
}

// NewBirthday validates raw as a D.M.YYYY date.
func NewBirthday(raw string) (Birthday, error) {
	raw = strings.TrimSpace(raw)
	if err := check(raw, birthdayRules); err != nil {
		return Birthday{}, err
	}
	t, err := time.Parse(birthdayInputLayout, raw)
	if err != nil {
		return Birthday{}, apperr.Validationf("invalid date, use DD.MM.YYYY")
	}
	return Birthday{date: t}, nil
}

// Month returns the birthday month.
func (b Birthday) Month() time.Month { return b.date.Month() }

// Day returns the birthday day of month.
func (b Birthday) Day() int { return b.date.Day() }

// Year returns the birth year.
func (b Birthday) Year() int { return b.date.Year() }

// IsZero reports whether b was never set.
func (b Birthday) IsZero() bool { return b.date.IsZero() }

func (b Birthday) String() string { return b.date.Format(BirthdayLayout) }

func (b Birthday) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Birthday) UnmarshalText(text []byte) error {
	v, err := NewBirthday(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// OccurrenceIn returns the birthday's date in the given year, at midnight in loc.
// 29 February falls back to 28 February in non-leap years.
func (b Birthday) OccurrenceIn(year int, loc *time.Location) time.Time {
	month, day := b.Month(), b.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// NextOccurrence returns the first occurrence of the birthday on or after today.
func (b Birthday) NextOccurrence(today time.Time) time.Time {
	today = truncateDay(today)
	next := b.OccurrenceIn(today.Year(), today.Location())
	if next.Before(today) {
		next = b.OccurrenceIn(today.Year()+1, today.Location())
	}
	return next
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b, ignoring clock time.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
