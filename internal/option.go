package internal

import (
	"io"
	"os"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	in     io.Reader
	out    io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithInput sets where command lines are read from. Defaults to stdin.
func WithInput(r io.Reader) Option {
	return func(a *application) {
		a.in = r
	}
}

// WithOutput sets where results are written. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

func newApplication(opts []Option) *application {
	app := &application{in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	return app
}
