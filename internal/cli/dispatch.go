// Package cli maps mktodo subcommands onto todo.Service operations.
package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/MihkelHunter/mktodo/internal/output"
	"github.com/MihkelHunter/mktodo/internal/todo"
)

// Version is reported by the version command.
const Version = "0.2.0"

// Exit codes.
const (
	// ExitSuccess indicates successful completion.
	ExitSuccess = 0

	// ExitUserError indicates bad arguments, unknown ids or a rejected import.
	ExitUserError = 1

	// ExitStorageError indicates the snapshot could not be written or read.
	ExitStorageError = 2
)

// usageError is returned for malformed command lines.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	svc    *todo.Service
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	print  *output.Printer
	cmds   map[string]*command
}

// NewDispatcher creates a dispatcher bound to svc. in feeds "import -".
func NewDispatcher(svc *todo.Service, in io.Reader, out, errOut io.Writer) *Dispatcher {
	d := &Dispatcher{
		svc:    svc,
		in:     in,
		out:    out,
		errOut: errOut,
		print:  output.New(out),
		cmds:   make(map[string]*command),
	}
	for _, c := range commands() {
		d.cmds[c.name] = c
		for _, a := range c.aliases {
			d.cmds[a] = c
		}
	}
	return d
}

// Run executes args and returns the exit code. No args lists the tasks.
func (d *Dispatcher) Run(args []string) int {
	if len(args) == 0 {
		args = []string{"ls"}
	}

	name := args[0]
	cmd, ok := d.cmds[name]
	if !ok {
		fmt.Fprintf(d.errOut, "error: unknown command: %s\n", name)
		return ExitUserError
	}

	if err := cmd.run(d, args[1:]); err != nil {
		fmt.Fprintf(d.errOut, "error: %s\n", err)
		return exitCode(err)
	}
	return ExitSuccess
}

func exitCode(err error) int {
	var ue *usageError
	switch {
	case errors.As(err, &ue),
		errors.Is(err, todo.ErrInvalidArgument),
		errors.Is(err, todo.ErrParseFailure):
		return ExitUserError
	default:
		return ExitStorageError
	}
}

// all returns unique commands sorted by name.
func (d *Dispatcher) all() []*command {
	seen := make(map[string]*command)
	for _, c := range d.cmds {
		seen[c.name] = c
	}
	out := make([]*command, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// parseID accepts "3" or "#3".
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id < 1 {
		return 0, usagef("invalid task id: %s", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, usagef("task id required")
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// requireTask reports unknown ids; the service itself treats them as no-ops.
func (d *Dispatcher) requireTask(id int64) error {
	if _, ok := d.svc.Get(id); !ok {
		return usagef("task not found: #%d", id)
	}
	return nil
}
