package command

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/starford/kith/internal/apperr"
)

// InvalidCommand is printed for an unrecognised command name.
const InvalidCommand = "Invalid command."

// Result is the outcome of one dispatched line.
type Result struct {
	Command Command
	Output  string
	Failed  bool
	Exit    bool
	Mutated bool
}

// Dispatcher resolves command names through the metadata table.
type Dispatcher struct {
	specs  []Spec
	byName map[string]int
	logger *slog.Logger
}

// NewDispatcher builds a dispatcher over the command table.
func NewDispatcher(logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	specs := registry()
	if err := validate(specs); err != nil {
		return nil, err
	}
	d := &Dispatcher{specs: specs, byName: make(map[string]int), logger: logger}
	for i, s := range specs {
		for _, n := range s.Names() {
			d.byName[n] = i
		}
	}
	return d, nil
}

// Lookup returns the spec registered under name or alias.
func (d *Dispatcher) Lookup(name string) (Spec, bool) {
	i, ok := d.byName[strings.ToLower(name)]
	if !ok {
		return Spec{}, false
	}
	return d.specs[i], true
}

// Parse splits a line into a lower-cased command name and its arguments.
// Quoting follows shell rules, so "John Doe" is one argument.
func Parse(line string) (name string, args []string, err error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return "", nil, apperr.Parsef("cannot parse input: %v", err)
	}
	if len(words) == 0 {
		return "", nil, nil
	}
	return strings.ToLower(words[0]), words[1:], nil
}

// Dispatch parses line and runs the matching handler against s. Every error
// is turned into user-facing text here and nowhere else.
func (d *Dispatcher) Dispatch(s *Session, line string) Result {
	name, args, err := Parse(line)
	if err != nil {
		return d.failure(0, err)
	}
	if name == "" {
		return Result{}
	}
	spec, ok := d.Lookup(name)
	if !ok {
		return Result{Output: InvalidCommand, Failed: true}
	}
	return d.Run(s, spec, args)
}

// Run executes spec with already split arguments.
func (d *Dispatcher) Run(s *Session, spec Spec, args []string) Result {
	if err := spec.checkArity(len(args)); err != nil {
		return d.failure(spec.Command, err)
	}
	out, err := spec.handler(s, args)
	if err != nil {
		return d.failure(spec.Command, err)
	}
	return Result{
		Command: spec.Command,
		Output:  out,
		Exit:    spec.Command == Exit,
		Mutated: spec.Mutates,
	}
}

func (d *Dispatcher) failure(c Command, err error) Result {
	return Result{Command: c, Output: d.errorText(c, err), Failed: true}
}

func (d *Dispatcher) errorText(c Command, err error) string {
	switch {
	case errors.Is(err, apperr.ErrUsage):
		return apperr.Message(err)
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrAlreadyExists),
		errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrParse):
		return "Error: " + apperr.Message(err)
	default:
		d.logger.Error("command failed", "command", c.String(), "error", err)
		return "Error: " + err.Error()
	}
}
