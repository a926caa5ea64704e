package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/kith/internal/apperr"
)

func newTestRecord(t *testing.T) *Record {
	t.Helper()
	r, err := NewRecord("John")
	require.NoError(t, err)
	require.NoError(t, r.AddPhone("1234567890"))
	return r
}

func TestRecord_AddPhoneKeepsDuplicates(t *testing.T) {
	r := newTestRecord(t)
	require.NoError(t, r.AddPhone("1234567890"))
	assert.Equal(t, []Phone{"1234567890", "1234567890"}, r.Phones)
}

func TestRecord_AddPhoneRejectsInvalid(t *testing.T) {
	r := newTestRecord(t)
	assert.ErrorIs(t, r.AddPhone("123456789"), apperr.ErrValidation)
	assert.ErrorIs(t, r.AddPhone("abcdefghij"), apperr.ErrValidation)
	assert.Len(t, r.Phones, 1)
}

func TestRecord_EditPhone(t *testing.T) {
	r := newTestRecord(t)
	require.NoError(t, r.AddPhone("1111111111"))

	require.NoError(t, r.EditPhone("1111111111", "2222222222"))
	assert.Equal(t, []Phone{"1234567890", "2222222222"}, r.Phones)

	assert.ErrorIs(t, r.EditPhone("9999999999", "3333333333"), apperr.ErrNotFound)
	assert.ErrorIs(t, r.EditPhone("1234567890", "bad"), apperr.ErrValidation)
	assert.Equal(t, []Phone{"1234567890", "2222222222"}, r.Phones)
}

func TestRecord_RemovePhone(t *testing.T) {
	r := newTestRecord(t)
	require.NoError(t, r.RemovePhone("1234567890"))
	assert.Empty(t, r.Phones)
	assert.ErrorIs(t, r.RemovePhone("1234567890"), apperr.ErrNotFound)
}

func TestRecord_Emails(t *testing.T) {
	r := newTestRecord(t)
	require.NoError(t, r.AddEmail("john@example.com"))
	require.NoError(t, r.EditEmail("john@example.com", "john@work.org"))
	assert.Equal(t, []Email{"john@work.org"}, r.Emails)

	assert.ErrorIs(t, r.EditEmail("nobody@x.y", "a@b.c"), apperr.ErrNotFound)
	assert.ErrorIs(t, r.AddEmail("not-an-email"), apperr.ErrValidation)

	require.NoError(t, r.RemoveEmail("john@work.org"))
	assert.Empty(t, r.Emails)
	assert.ErrorIs(t, r.RemoveEmail("john@work.org"), apperr.ErrNotFound)
}

func TestRecord_AddressAndBirthdayOverwrite(t *testing.T) {
	r := newTestRecord(t)
	require.NoError(t, r.AddAddress("Old street 1"))
	require.NoError(t, r.AddAddress("New street 2"))
	assert.Equal(t, "New street 2", r.AddressString())

	require.NoError(t, r.AddBirthday("01.01.1990"))
	require.NoError(t, r.AddBirthday("02.02.1992"))
	assert.Equal(t, "02.02.1992", r.BirthdayString())

	assert.ErrorIs(t, r.AddBirthday("30.02.1992"), apperr.ErrValidation)
	assert.Equal(t, "02.02.1992", r.BirthdayString())
}

func TestRecord_DaysToBirthday(t *testing.T) {
	r := newTestRecord(t)
	today := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	_, ok := r.DaysToBirthday(today)
	assert.False(t, ok)

	require.NoError(t, r.AddBirthday("06.06.1990"))
	days, ok := r.DaysToBirthday(today)
	require.True(t, ok)
	assert.Equal(t, 5, days)

	require.NoError(t, r.AddBirthday("31.05.1990"))
	days, _ = r.DaysToBirthday(today)
	assert.Equal(t, 364, days)

	require.NoError(t, r.AddBirthday("01.06.1990"))
	days, _ = r.DaysToBirthday(today)
	assert.Equal(t, 0, days)
}

func TestRecord_Matches(t *testing.T) {
	r := newTestRecord(t)
	require.NoError(t, r.AddEmail("JD@Example.com"))
	require.NoError(t, r.AddBirthday("06.06.1990"))
	require.NoError(t, r.AddAddress("Baker Street 221b"))

	for _, q := range []string{"jo", "JOHN", "4567", "example", "06.06", "baker"} {
		assert.True(t, r.Matches(q), q)
	}
	assert.False(t, r.Matches("amy"))

	amy, err := NewRecord("Amy")
	require.NoError(t, err)
	assert.False(t, amy.Matches("jo"))
}

func TestRecord_String(t *testing.T) {
	r := newTestRecord(t)
	s := r.String()
	assert.Contains(t, s, "Name: John")
	assert.Contains(t, s, "Phones: 1234567890")
	assert.Contains(t, s, "Birthday: N/A")
}
