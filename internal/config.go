package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/kith/internal/book"
	"github.com/starford/kith/internal/storage"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Storage   StorageConfig     `yaml:"storage"`
	Watch     WatchConfig       `yaml:"watch"`
	Birthdays BirthdaysConfig   `yaml:"birthdays"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	return c.Birthdays.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile receives the JSON log. Empty means stderr.
	LogFile string `yaml:"log_file"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In(
			slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError,
		)),
	)
}

// StorageConfig selects the snapshot driver and file locations.
type StorageConfig struct {
	Driver       string `yaml:"driver"`
	ContactsPath string `yaml:"contacts_path"`
	NotesPath    string `yaml:"notes_path"`
	AutoSave     bool   `yaml:"autosave"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = storage.DriverJSON
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(storage.DriverJSON, storage.DriverSQLite)),
		validation.Field(&c.ContactsPath, validation.Required),
		validation.Field(&c.NotesPath, validation.Required, validation.NotIn(c.ContactsPath).Error("must differ from contacts_path")),
	)
}

// WatchConfig toggles detection of snapshot changes made by other processes.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

// BirthdaysConfig holds defaults for birthday queries.
type BirthdaysConfig struct {
	DefaultDays int `yaml:"default_days"`
}

// Validate validates the birthdays configuration.
func (c *BirthdaysConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultDays, validation.Min(0), validation.Max(366)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Storage: StorageConfig{
			Driver:       storage.DriverJSON,
			ContactsPath: "./data/contacts.json",
			NotesPath:    "./data/notes.json",
			AutoSave:     true,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
		Birthdays: BirthdaysConfig{
			DefaultDays: book.DefaultUpcomingDays,
		},
	}
}
