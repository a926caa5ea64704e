package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("KITH_TEST_NAME", "contacts")
	path := writeFile(t, "name: ${KITH_TEST_NAME}\ncount: 3\n")

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "contacts" || s.Count != 3 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_Validates(t *testing.T) {
	path := writeFile(t, "count: -1\n")
	var s sample
	if err := Load(path, &s); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadOptional_MissingKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Count: 7}
	if err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "default" || s.Count != 7 {
		t.Errorf("defaults changed: %+v", s)
	}
}

func TestLoadOptional_MissingStillValidates(t *testing.T) {
	s := sample{Count: -2}
	if err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &s); err == nil {
		t.Fatal("expected validation error for invalid defaults")
	}
}

func TestLoadOptional_OverridesPresentKeys(t *testing.T) {
	path := writeFile(t, "count: 2\n")
	s := sample{Name: "default", Count: 7}
	if err := LoadOptional(path, &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "default" || s.Count != 2 {
		t.Errorf("got %+v", s)
	}
}
