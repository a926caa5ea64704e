// Package console runs the interactive read-dispatch-print loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/kith/internal/command"
)

const (
	// Prompt is printed before every line is read.
	Prompt = "Enter a command: "
	// Welcome is printed once when the loop starts.
	Welcome = "Welcome to the assistant bot!"
	// Farewell is printed when input ends without an exit command.
	Farewell = "Good bye!"
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
)

// Option configures a Console.
type Option func(*Console)

// WithNotices sets a channel of messages printed between commands.
func WithNotices(ch <-chan string) Option {
	return func(c *Console) { c.notices = ch }
}

// WithAutoSave saves the session after each successful mutating command.
func WithAutoSave(enabled bool) Option {
	return func(c *Console) { c.autosave = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) { c.logger = l }
}

// Console reads command lines from in and writes results to out.
type Console struct {
	dispatcher *command.Dispatcher
	session    *command.Session
	in         io.Reader
	out        io.Writer

	notices  <-chan string
	autosave bool
	logger   *slog.Logger
}

// New creates a console over the given dispatcher and session.
func New(d *command.Dispatcher, s *command.Session, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{dispatcher: d, session: s, in: in, out: out, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run loops until an exit command, end of input or ctx cancellation. The
// caller is responsible for the final save.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go c.read(ctx, lines, readErr)

	c.println(Welcome)
	for {
		c.drainNotices()
		c.print(Prompt)

		select {
		case <-ctx.Done():
			c.println("")
			return nil

		case n := <-c.notices:
			c.println("")
			c.println(noticeStyle.Render(n))

		case line, ok := <-lines:
			if !ok {
				c.println("")
				c.println(Farewell)
				return <-readErr
			}
			if c.handle(line) {
				return nil
			}
		}
	}
}

// handle runs one line and reports whether the loop should stop.
func (c *Console) handle(line string) bool {
	res := c.dispatcher.Dispatch(c.session, line)
	switch {
	case res.Output == "":
	case res.Failed:
		c.println(errorStyle.Render(res.Output))
	default:
		c.println(res.Output)
	}

	if res.Mutated && c.autosave && c.session.Save != nil {
		if err := c.session.Save(); err != nil {
			c.logger.Error("autosave failed", slog.String("command", res.Command.String()), slog.String("error", err.Error()))
			c.println(errorStyle.Render("Error: autosave failed: " + err.Error()))
		}
	}
	return res.Exit
}

func (c *Console) read(ctx context.Context, lines chan<- string, readErr chan<- error) {
	defer close(lines)
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	readErr <- sc.Err()
}

func (c *Console) drainNotices() {
	for {
		select {
		case n := <-c.notices:
			c.println(noticeStyle.Render(n))
		default:
			return
		}
	}
}

func (c *Console) print(s string) {
	_, _ = fmt.Fprint(c.out, s)
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}
