package command

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/kith/internal/book"
	"github.com/starford/kith/internal/models"
)

const timestampLayout = "02.01.2006 15:04"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func na(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func contactsTable(rs []*models.Record) string {
	t := newTable("Name", "Phones", "Emails", "Birthday", "Address")
	for _, r := range rs {
		t.Row(string(r.Name), na(r.PhoneList()), na(r.EmailList()), na(r.BirthdayString()), na(r.AddressString()))
	}
	return t.String()
}

func upcomingTable(today time.Time, list []book.Upcoming) string {
	t := newTable("Name", "Birthday", "Congratulate on", "In days")
	for _, u := range list {
		t.Row(string(u.Record.Name), u.Record.BirthdayString(),
			u.Date.Format(models.BirthdayLayout), strconv.Itoa(models.DaysBetween(today, u.Date)))
	}
	return t.String()
}

func notesTable(ns []*models.Note) string {
	t := newTable("ID", "Title", "Text", "Tags", "Edited")
	for _, n := range ns {
		t.Row(strconv.Itoa(n.ID), n.Title, na(n.Text), na(strings.Join(n.Tags, ", ")), n.EditedAt.Format(timestampLayout))
	}
	return t.String()
}

func helpTable(specs []Spec) string {
	t := newTable("Command", "Arguments", "Description")
	for _, s := range specs {
		name := strings.Join(s.Names(), ", ")
		t.Row(name, strings.Join(s.Hints, " "), s.Summary)
	}
	return t.String()
}
