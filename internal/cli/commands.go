package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/MihkelHunter/mktodo/internal/todo"
)

type command struct {
	name     string
	aliases  []string
	usage    string
	synopsis string
	run      func(d *Dispatcher, args []string) error
}

func commands() []*command {
	return []*command{
		{name: "add", aliases: []string{"a"}, usage: "add <text...>", synopsis: "Add a task", run: runAdd},
		{name: "ls", aliases: []string{"list"}, usage: "ls [--all] [--priority <level>]", synopsis: "List tasks under the current filter", run: runList},
		{name: "filter", usage: "filter [all|active|completed]", synopsis: "Show or set the filter", run: runFilter},
		{name: "toggle", aliases: []string{"t"}, usage: "toggle <id>", synopsis: "Flip a task between active and completed", run: runToggle},
		{name: "check", aliases: []string{"done"}, usage: "check <id>...", synopsis: "Mark tasks completed", run: bulkToggle(true)},
		{name: "uncheck", usage: "uncheck <id>...", synopsis: "Mark tasks active", run: bulkToggle(false)},
		{name: "rm", aliases: []string{"delete"}, usage: "rm <id>...", synopsis: "Delete tasks", run: runRemove},
		{name: "edit", usage: "edit <id> <text...>", synopsis: "Replace a task's text", run: runEdit},
		{name: "pri", aliases: []string{"priority"}, usage: "pri <low|medium|high> <id>...", synopsis: "Set task priority", run: runPriority},
		{name: "clear", usage: "clear", synopsis: "Delete completed tasks", run: runClear},
		{name: "toggle-all", usage: "toggle-all", synopsis: "Complete all tasks, or reopen them if all are complete", run: runToggleAll},
		{name: "mv", aliases: []string{"move"}, usage: "mv <from> <to>", synopsis: "Move a task to another position (1-based, full list)", run: runMove},
		{name: "search", aliases: []string{"find"}, usage: "search <query...>", synopsis: "Find tasks containing text", run: runSearch},
		{name: "stats", usage: "stats", synopsis: "Show completion statistics", run: runStats},
		{name: "export", usage: "export [file]", synopsis: "Write tasks as JSON to file or stdout", run: runExport},
		{name: "import", usage: "import <file|->", synopsis: "Append tasks from a JSON export", run: runImport},
		{name: "reset", usage: "reset", synopsis: "Delete every task and restart ids", run: runReset},
		{name: "help", usage: "help", synopsis: "Show this help", run: runHelp},
		{name: "version", usage: "version", synopsis: "Print the version", run: runVersion},
	}
}

func runAdd(d *Dispatcher, args []string) error {
	t, err := d.svc.Add(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if t.IsZero() {
		return usagef("task text is empty")
	}
	fmt.Fprintf(d.out, "added #%d\n", t.ID)
	return nil
}

func runList(d *Dispatcher, args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	all := fs.Bool("all", false, "")
	fs.BoolVar(all, "a", false, "")
	level := fs.String("priority", "", "")
	fs.StringVar(level, "p", "", "")
	if err := fs.Parse(args); err != nil {
		return usagef("%s", err)
	}
	if fs.NArg() > 0 {
		return usagef("unexpected argument: %s", fs.Arg(0))
	}

	filter := d.svc.Filter()
	if *all {
		filter = todo.FilterAll
	}
	if *level == "" {
		tasks := d.svc.Filtered()
		if *all {
			tasks = d.svc.Tasks()
		}
		d.print.Tasks(tasks, filter, len(d.svc.Tasks()))
		return nil
	}

	p, err := todo.ParsePriority(*level)
	if err != nil {
		return err
	}
	var tasks []todo.Task
	for _, t := range d.svc.ByPriority(p) {
		if filter.Match(t) {
			tasks = append(tasks, t)
		}
	}
	if len(tasks) == 0 {
		fmt.Fprintln(d.out, "No matching tasks.")
		return nil
	}
	for i, t := range tasks {
		d.print.Task(i+1, t)
	}
	return nil
}

func runFilter(d *Dispatcher, args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprintln(d.out, d.svc.Filter())
		return nil
	case 1:
		f, err := todo.ParseFilter(args[0])
		if err != nil {
			return err
		}
		return d.svc.SetFilter(f)
	default:
		return usagef("usage: filter [all|active|completed]")
	}
}

func runToggle(d *Dispatcher, args []string) error {
	if len(args) != 1 {
		return usagef("usage: toggle <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := d.requireTask(id); err != nil {
		return err
	}
	return d.svc.Toggle(id)
}

func bulkToggle(completed bool) func(*Dispatcher, []string) error {
	return func(d *Dispatcher, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		return d.svc.BulkToggle(ids, completed)
	}
}

func runRemove(d *Dispatcher, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	if len(ids) == 1 {
		if err := d.requireTask(ids[0]); err != nil {
			return err
		}
		return d.svc.Delete(ids[0])
	}
	return d.svc.BulkDelete(ids)
}

func runEdit(d *Dispatcher, args []string) error {
	if len(args) < 2 {
		return usagef("usage: edit <id> <text...>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := d.requireTask(id); err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		return usagef("task text is empty")
	}
	return d.svc.Edit(id, text)
}

func runPriority(d *Dispatcher, args []string) error {
	if len(args) < 2 {
		return usagef("usage: pri <low|medium|high> <id>...")
	}
	p, err := todo.ParsePriority(args[0])
	if err != nil {
		return err
	}
	ids, err := parseIDs(args[1:])
	if err != nil {
		return err
	}
	if len(ids) == 1 {
		if err := d.requireTask(ids[0]); err != nil {
			return err
		}
		return d.svc.SetPriority(ids[0], p)
	}
	return d.svc.BulkSetPriority(ids, p)
}

func runClear(d *Dispatcher, args []string) error {
	before := d.svc.Stats().Completed
	if err := d.svc.ClearCompleted(); err != nil {
		return err
	}
	fmt.Fprintf(d.out, "removed %d completed\n", before)
	return nil
}

func runToggleAll(d *Dispatcher, args []string) error {
	return d.svc.ToggleAll()
}

func runMove(d *Dispatcher, args []string) error {
	if len(args) != 2 {
		return usagef("usage: mv <from> <to>")
	}
	from, err1 := strconv.Atoi(args[0])
	to, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return usagef("positions must be numbers: %s %s", args[0], args[1])
	}
	return d.svc.Reorder(from-1, to-1)
}

func runSearch(d *Dispatcher, args []string) error {
	matches := d.svc.Search(strings.Join(args, " "))
	if len(matches) == 0 {
		fmt.Fprintln(d.out, "No matching tasks.")
		return nil
	}
	for i, t := range matches {
		d.print.Task(i+1, t)
	}
	return nil
}

func runStats(d *Dispatcher, args []string) error {
	d.print.Stats(d.svc.Stats())
	return nil
}

func runExport(d *Dispatcher, args []string) error {
	data, err := d.svc.Export()
	if err != nil {
		return err
	}
	switch len(args) {
	case 0:
		_, err = d.out.Write(data)
		return err
	case 1:
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(d.out, "exported %d tasks to %s\n", len(d.svc.Tasks()), args[0])
		return nil
	default:
		return usagef("usage: export [file]")
	}
}

func runImport(d *Dispatcher, args []string) error {
	if len(args) != 1 {
		return usagef("usage: import <file|->")
	}
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(d.in)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return usagef("read import: %s", err)
	}
	n, err := d.svc.Import(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "imported %d tasks\n", n)
	return nil
}

func runReset(d *Dispatcher, args []string) error {
	return d.svc.Reset()
}

func runHelp(d *Dispatcher, args []string) error {
	fmt.Fprintln(d.out, "Usage: mktodo [flags] <command> [args]")
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, "Commands:")
	for _, c := range d.all() {
		fmt.Fprintf(d.out, "  %-34s %s\n", c.usage, c.synopsis)
	}
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, "Flags:")
	fmt.Fprintln(d.out, "  -config <file>     config file (default $XDG_CONFIG_HOME/mktodo/config.toml)")
	fmt.Fprintln(d.out, "  -db <file>         SQLite database path")
	fmt.Fprintln(d.out, "  -log-level <lvl>   debug, info, warn or error")
	return nil
}

func runVersion(d *Dispatcher, args []string) error {
	fmt.Fprintf(d.out, "mktodo %s\n", Version)
	return nil
}
