package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/mktodo/internal/store"
	"github.com/MihkelHunter/mktodo/internal/todo"
)

type harness struct {
	repo *store.MemoryStore
	svc  *todo.Service
	in   *bytes.Buffer
	out  *bytes.Buffer
	err  *bytes.Buffer
	d    *Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		repo: store.NewMemory(),
		in:   &bytes.Buffer{},
		out:  &bytes.Buffer{},
		err:  &bytes.Buffer{},
	}
	h.svc = todo.NewService(h.repo, todo.WithLogger(log.New(io.Discard)))
	h.d = NewDispatcher(h.svc, h.in, h.out, h.err)
	return h
}

// run executes a command line and returns its stdout, resetting both buffers.
func (h *harness) run(t *testing.T, want int, args ...string) string {
	t.Helper()
	h.out.Reset()
	h.err.Reset()
	code := h.d.Run(args)
	require.Equal(t, want, code, "stderr: %s", h.err.String())
	return h.out.String()
}

func TestRun_AddAndList(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "added #1\n", h.run(t, ExitSuccess, "add", "buy", "milk"))
	assert.Equal(t, "added #2\n", h.run(t, ExitSuccess, "a", "walk dog"))

	assert.Equal(t,
		"   1  [ ] #1  buy milk  (medium)\n"+
			"   2  [ ] #2  walk dog  (medium)\n",
		h.run(t, ExitSuccess))
}

func TestRun_EmptyAddIsUsageError(t *testing.T) {
	h := newHarness(t)

	h.run(t, ExitUserError, "add", "   ")
	assert.Contains(t, h.err.String(), "task text is empty")
	assert.Empty(t, h.svc.Tasks())
}

func TestRun_FilterAndToggle(t *testing.T) {
	h := newHarness(t)
	h.run(t, ExitSuccess, "add", "a")
	h.run(t, ExitSuccess, "add", "b")
	h.run(t, ExitSuccess, "toggle", "#1")

	h.run(t, ExitSuccess, "filter", "active")
	assert.Equal(t, "active\n", h.run(t, ExitSuccess, "filter"))
	assert.Equal(t, "   1  [ ] #2  b  (medium)\n", h.run(t, ExitSuccess, "ls"))
	assert.Contains(t, h.run(t, ExitSuccess, "ls", "--all"), "[x] #1  a")

	h.run(t, ExitSuccess, "check", "2")
	assert.Equal(t, "No active tasks!\n", h.run(t, ExitSuccess, "ls"))

	h.run(t, ExitUserError, "filter", "done")
	assert.Equal(t, todo.FilterActive, h.svc.Filter())
}

func TestRun_UnknownTask(t *testing.T) {
	h := newHarness(t)

	h.run(t, ExitUserError, "toggle", "5")
	assert.Equal(t, "error: task not found: #5\n", h.err.String())

	h.run(t, ExitUserError, "rm", "abc")
	assert.Contains(t, h.err.String(), "invalid task id: abc")
}

func TestRun_EditPriorityMove(t *testing.T) {
	h := newHarness(t)
	for _, text := range []string{"a", "b", "c"} {
		h.run(t, ExitSuccess, "add", text)
	}

	h.run(t, ExitSuccess, "edit", "2", "bee")
	h.run(t, ExitSuccess, "pri", "high", "2", "3")
	h.run(t, ExitSuccess, "mv", "3", "1")

	var got []string
	for _, task := range h.svc.Tasks() {
		got = append(got, task.Text+":"+task.Priority.String())
	}
	assert.Equal(t, []string{"c:high", "a:medium", "bee:high"}, got)

	h.run(t, ExitUserError, "pri", "urgent", "1")
	h.run(t, ExitUserError, "mv", "1", "9")
	h.run(t, ExitUserError, "mv", "x", "1")
}

func TestRun_ListByPriority(t *testing.T) {
	h := newHarness(t)
	for _, text := range []string{"a", "b", "c"} {
		h.run(t, ExitSuccess, "add", text)
	}
	h.run(t, ExitSuccess, "pri", "high", "1", "3")
	h.run(t, ExitSuccess, "check", "3")

	assert.Equal(t,
		"   1  [ ] #1  a  (high)\n"+
			"   2  [x] #3  c  (high)\n",
		h.run(t, ExitSuccess, "ls", "--priority", "high"))

	h.run(t, ExitSuccess, "filter", "active")
	assert.Equal(t, "   1  [ ] #1  a  (high)\n", h.run(t, ExitSuccess, "ls", "-p", "HIGH"))
	assert.Contains(t, h.run(t, ExitSuccess, "ls", "-p", "high", "--all"), "#3  c")
	assert.Equal(t, "No matching tasks.\n", h.run(t, ExitSuccess, "ls", "-p", "low"))

	h.run(t, ExitUserError, "ls", "-p", "urgent")
}

func TestRun_ClearAndStats(t *testing.T) {
	h := newHarness(t)
	h.run(t, ExitSuccess, "add", "a")
	h.run(t, ExitSuccess, "add", "b")
	h.run(t, ExitSuccess, "add", "c")
	h.run(t, ExitSuccess, "check", "1")

	assert.Contains(t, h.run(t, ExitSuccess, "stats"), "3 total · 2 active · 1 completed · 33% done")
	assert.Equal(t, "removed 1 completed\n", h.run(t, ExitSuccess, "clear"))

	h.run(t, ExitSuccess, "toggle-all")
	assert.Contains(t, h.run(t, ExitSuccess, "stats"), "100% done")
}

func TestRun_Search(t *testing.T) {
	h := newHarness(t)
	h.run(t, ExitSuccess, "add", "Buy milk")
	h.run(t, ExitSuccess, "add", "walk dog")

	assert.Equal(t, "   1  [ ] #1  Buy milk  (medium)\n", h.run(t, ExitSuccess, "find", "MILK"))
	assert.Equal(t, "No matching tasks.\n", h.run(t, ExitSuccess, "search", "cat"))
}

func TestRun_ExportImport(t *testing.T) {
	h := newHarness(t)
	h.run(t, ExitSuccess, "add", "a")
	h.run(t, ExitSuccess, "add", "b")

	path := filepath.Join(t.TempDir(), "tasks.json")
	assert.Equal(t, "exported 2 tasks to "+path+"\n", h.run(t, ExitSuccess, "export", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := h.run(t, ExitSuccess, "export")
	assert.Equal(t, string(data), out)

	other := newHarness(t)
	assert.Equal(t, "imported 2 tasks\n", other.run(t, ExitSuccess, "import", path))
	assert.Len(t, other.svc.Tasks(), 2)

	other.in.WriteString(`[{"text": "from stdin", "priority": "low"}]`)
	assert.Equal(t, "imported 1 tasks\n", other.run(t, ExitSuccess, "import", "-"))
	assert.Len(t, other.svc.Tasks(), 3)

	other.in.WriteString(`{"not": "an array"}`)
	other.run(t, ExitUserError, "import", "-")
	assert.Len(t, other.svc.Tasks(), 3)

	other.run(t, ExitUserError, "import", filepath.Join(t.TempDir(), "missing.json"))
}

func TestRun_Reset(t *testing.T) {
	h := newHarness(t)
	h.run(t, ExitSuccess, "add", "a")
	h.run(t, ExitSuccess, "reset")

	assert.Empty(t, h.svc.Tasks())
	assert.Equal(t, "added #1\n", h.run(t, ExitSuccess, "add", "again"))
}

func TestRun_StorageFailure(t *testing.T) {
	h := newHarness(t)
	h.repo.SaveErr = errors.New("disk full")

	h.run(t, ExitStorageError, "add", "a")
	assert.Contains(t, h.err.String(), "disk full")
}

func TestRun_MetaCommands(t *testing.T) {
	h := newHarness(t)

	h.run(t, ExitUserError, "frobnicate")
	assert.Equal(t, "error: unknown command: frobnicate\n", h.err.String())

	assert.Equal(t, "mktodo "+Version+"\n", h.run(t, ExitSuccess, "version"))

	help := h.run(t, ExitSuccess, "help")
	assert.True(t, strings.HasPrefix(help, "Usage: mktodo [flags] <command> [args]"))
	for _, c := range commands() {
		assert.Contains(t, help, c.usage)
	}
}
