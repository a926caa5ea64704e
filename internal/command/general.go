package command

import (
	"fmt"
)

func hello(*Session, []string) (string, error) {
	return "How can I help you?", nil
}

func help(*Session, []string) (string, error) {
	return helpTable(Specs()), nil
}

func save(s *Session, _ []string) (string, error) {
	if s.Save == nil {
		return "Persistence is disabled; nothing saved.", nil
	}
	if err := s.Save(); err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	return fmt.Sprintf("Saved %d contacts and %d notes.", s.Contacts.Len(), s.Notes.Len()), nil
}

// exit only says goodbye. The caller saves and stops on Result.Exit.
func exit(*Session, []string) (string, error) {
	return "Good bye!", nil
}
