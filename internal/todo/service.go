package todo

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Service owns the task list. Every read and write goes through it, and every
// applied mutation is mirrored to the repository before the call returns.
type Service struct {
	mu   sync.Mutex
	repo Repository
	key  string
	now  func() time.Time
	log  *log.Logger
	st   state
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for persistence warnings and mutation traces.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStorageKey sets the key the snapshot is stored under.
func WithStorageKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.key = key
		}
	}
}

// NewService builds a Service and restores the last snapshot from repo.
// Restore problems are logged and leave the service empty; they never fail construction.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		key:  DefaultStorageKey,
		now:  time.Now,
		log:  log.Default(),
		st:   defaultState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restore()
	return s
}

func (s *Service) restore() {
	rec, ok, err := s.repo.Load(s.key)
	if err != nil {
		s.log.Warn("load snapshot failed, starting empty", "key", s.key, "err", err)
		return
	}
	if !ok {
		s.log.Debug("no snapshot stored, starting empty", "key", s.key)
		return
	}
	st, err := decodeState(rec)
	if err != nil {
		s.log.Warn("snapshot unreadable, starting empty", "key", s.key, "version", rec.Version, "err", err)
		return
	}
	if rec.Version < SchemaVersion {
		s.log.Info("snapshot migrated", "key", s.key, "from", rec.Version, "to", SchemaVersion)
	}
	s.st = st
}

// commit writes the current state. Callers hold s.mu.
func (s *Service) commit(op string, keyvals ...interface{}) error {
	s.log.Debug(op, keyvals...)
	data, err := s.st.encode()
	if err != nil {
		s.log.Warn("encode snapshot failed", "op", op, "err", err)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	rec := Record{Version: SchemaVersion, Data: data, SavedAt: s.now().UTC()}
	if err := s.repo.Save(s.key, rec); err != nil {
		s.log.Warn("save snapshot failed", "op", op, "key", s.key, "err", err)
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *Service) indexOf(id int64) int {
	for i := range s.st.Todos {
		if s.st.Todos[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a task with the next id. Blank text is a no-op and returns the zero Task.
func (s *Service) Add(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:        s.st.NextID,
		Text:      text,
		CreatedAt: s.now().UTC(),
		Priority:  PriorityMedium,
	}
	s.st.Todos = append(s.st.Todos, t)
	s.st.NextID++
	return t, s.commit("task added", "id", t.ID)
}

func (s *Service) Toggle(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.st.Todos[i].Completed = !s.st.Todos[i].Completed
	return s.commit("task toggled", "id", id, "completed", s.st.Todos[i].Completed)
}

func (s *Service) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.st.Todos = append(s.st.Todos[:i:i], s.st.Todos[i+1:]...)
	return s.commit("task deleted", "id", id)
}

// Edit replaces the text of a task. Blank text or an unknown id is a no-op.
func (s *Service) Edit(id int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.st.Todos[i].Text = text
	return s.commit("task edited", "id", id)
}

// Upsert adds a task with the given priority when id is 0, otherwise replaces
// the text and priority of task id. Either way the change is a single commit,
// and nothing is written when it changes nothing. Blank text or an unknown id
// returns the zero Task.
func (s *Service) Upsert(id int64, text string, p Priority) (Task, error) {
	if !p.Valid() {
		return Task{}, fmt.Errorf("upsert priority %d: %w", int(p), ErrInvalidArgument)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == 0 {
		t := Task{
			ID:        s.st.NextID,
			Text:      text,
			CreatedAt: s.now().UTC(),
			Priority:  p,
		}
		s.st.Todos = append(s.st.Todos, t)
		s.st.NextID++
		return t, s.commit("task added", "id", t.ID, "priority", p)
	}

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, nil
	}
	t := &s.st.Todos[i]
	if t.Text == text && t.Priority == p {
		return *t, nil
	}
	t.Text = text
	t.Priority = p
	return *t, s.commit("task edited", "id", id, "priority", p)
}

// SetPriority rejects unknown levels with ErrInvalidArgument; an unknown id is a no-op.
func (s *Service) SetPriority(id int64, p Priority) error {
	if !p.Valid() {
		return fmt.Errorf("set priority %d: %w", int(p), ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.st.Todos[i].Priority = p
	return s.commit("priority set", "id", id, "priority", p)
}

func (s *Service) ClearCompleted() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Task, 0, len(s.st.Todos))
	for _, t := range s.st.Todos {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.st.Todos) - len(kept)
	if removed == 0 {
		return nil
	}
	s.st.Todos = kept
	return s.commit("completed cleared", "removed", removed)
}

// ToggleAll completes every task unless all are already completed, in which
// case it marks them all active again.
func (s *Service) ToggleAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.st.Todos) == 0 {
		return nil
	}
	allCompleted := true
	for _, t := range s.st.Todos {
		if !t.Completed {
			allCompleted = false
			break
		}
	}
	for i := range s.st.Todos {
		s.st.Todos[i].Completed = !allCompleted
	}
	return s.commit("all toggled", "completed", !allCompleted)
}

func (s *Service) SetFilter(f Filter) error {
	if !f.Valid() {
		return fmt.Errorf("set filter %q: %w", string(f), ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.Filter == f {
		return nil
	}
	s.st.Filter = f
	return s.commit("filter set", "filter", f)
}

// Reorder moves the task at index from to index to, shifting the tasks between.
// Indices refer to the full list, not the filtered view.
func (s *Service) Reorder(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.st.Todos)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("reorder %d -> %d with %d tasks: %w", from, to, n, ErrInvalidArgument)
	}
	if from == to {
		return nil
	}

	moved := s.st.Todos[from]
	out := make([]Task, 0, n)
	out = append(out, s.st.Todos[:from]...)
	out = append(out, s.st.Todos[from+1:]...)
	out = append(out[:to], append([]Task{moved}, out[to:]...)...)
	s.st.Todos = out
	return s.commit("task moved", "id", moved.ID, "from", from, "to", to)
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// BulkDelete removes every listed task; unknown ids are skipped.
func (s *Service) BulkDelete(ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := idSet(ids)
	kept := make([]Task, 0, len(s.st.Todos))
	for _, t := range s.st.Todos {
		if !set[t.ID] {
			kept = append(kept, t)
		}
	}
	removed := len(s.st.Todos) - len(kept)
	if removed == 0 {
		return nil
	}
	s.st.Todos = kept
	return s.commit("tasks deleted", "removed", removed)
}

// BulkToggle sets Completed on every listed task; unknown ids are skipped.
func (s *Service) BulkToggle(ids []int64, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := idSet(ids)
	changed := 0
	for i := range s.st.Todos {
		if set[s.st.Todos[i].ID] && s.st.Todos[i].Completed != completed {
			s.st.Todos[i].Completed = completed
			changed++
		}
	}
	if changed == 0 {
		return nil
	}
	return s.commit("tasks toggled", "changed", changed, "completed", completed)
}

// BulkSetPriority sets the priority of every listed task; unknown ids are skipped.
func (s *Service) BulkSetPriority(ids []int64, p Priority) error {
	if !p.Valid() {
		return fmt.Errorf("bulk set priority %d: %w", int(p), ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := idSet(ids)
	changed := 0
	for i := range s.st.Todos {
		if set[s.st.Todos[i].ID] && s.st.Todos[i].Priority != p {
			s.st.Todos[i].Priority = p
			changed++
		}
	}
	if changed == 0 {
		return nil
	}
	return s.commit("priorities set", "changed", changed, "priority", p)
}

// Export encodes the task list in the import format.
func (s *Service) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return exportTasks(s.st.Todos)
}

// Import appends the tasks encoded in data and returns how many were added.
// On any decode or validation error the state is left untouched and the
// error wraps ErrParseFailure. Missing, zero or colliding ids are replaced
// by fresh ones; the counter always ends past every id seen.
func (s *Service) Import(data []byte) (int, error) {
	imported, err := parseImport(data, s.now().UTC())
	if err != nil {
		s.log.Warn("import rejected", "err", err)
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(imported) == 0 {
		return 0, nil
	}

	highest := maxID(s.st.Todos)
	if h := maxID(imported); h > highest {
		highest = h
	}
	next := s.st.NextID
	if next <= highest {
		next = highest + 1
	}

	used := make(map[int64]bool, len(s.st.Todos)+len(imported))
	for _, t := range s.st.Todos {
		used[t.ID] = true
	}
	renumbered := 0
	for i := range imported {
		if imported[i].ID <= 0 || used[imported[i].ID] {
			imported[i].ID = next
			next++
			renumbered++
		}
		used[imported[i].ID] = true
	}

	todos := make([]Task, 0, len(s.st.Todos)+len(imported))
	todos = append(todos, s.st.Todos...)
	todos = append(todos, imported...)
	s.st.Todos = todos
	s.st.NextID = next
	return len(imported), s.commit("tasks imported", "count", len(imported), "renumbered", renumbered)
}

// Reset empties the list, resets the filter and restarts ids at 1.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st = defaultState()
	return s.commit("store reset")
}

func (s *Service) Close() error {
	return s.repo.Close()
}
