package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SchemaVersion is the version written with every snapshot.
const SchemaVersion = 1

// DefaultStorageKey names the snapshot when no key is configured.
const DefaultStorageKey = "mktodo-storage"

// state is the durable part of the container.
type state struct {
	Todos  []Task `json:"todos"`
	Filter Filter `json:"filter"`
	NextID int64  `json:"nextId"`
}

func defaultState() state {
	return state{Todos: []Task{}, Filter: FilterAll, NextID: 1}
}

func (st state) encode() ([]byte, error) {
	if st.Todos == nil {
		st.Todos = []Task{}
	}
	return json.Marshal(st)
}

// decodeState turns a stored record into state, migrating older versions.
func decodeState(rec Record) (state, error) {
	if rec.Version > SchemaVersion {
		return state{}, newParseError("decode snapshot",
			fmt.Errorf("version %d is newer than supported version %d", rec.Version, SchemaVersion))
	}
	schema := stateSchema
	if rec.Version < SchemaVersion {
		schema = legacyStateSchema
	}
	if errs := validateJSON(schema, rec.Data); len(errs) > 0 {
		return state{}, newParseError("decode snapshot", errs...)
	}

	st := defaultState()
	if err := json.Unmarshal(rec.Data, &st); err != nil {
		return state{}, newParseError("decode snapshot", err)
	}
	if st.Todos == nil {
		st.Todos = []Task{}
	}
	if st.Filter == "" {
		st.Filter = FilterAll
	}

	migrate(&st, rec.Version)

	// A hand-edited snapshot may carry a stale counter; never hand out a used id.
	if highest := maxID(st.Todos); st.NextID <= highest {
		st.NextID = highest + 1
	}
	if st.NextID < 1 {
		st.NextID = 1
	}
	return st, nil
}

// migrations[v] upgrades a snapshot from version v to v+1.
var migrations = map[int]func(*state){
	0: migrateV0,
}

func migrate(st *state, from int) {
	if from < 0 {
		from = 0
	}
	for v := from; v < SchemaVersion; v++ {
		if m, ok := migrations[v]; ok {
			m(st)
		}
	}
}

// migrateV0 recomputes the counter, which version 0 did not track reliably,
// and fills in the priority older tasks were saved without.
func migrateV0(st *state) {
	for i := range st.Todos {
		if !st.Todos[i].Priority.Valid() {
			st.Todos[i].Priority = PriorityMedium
		}
	}
	highest := maxID(st.Todos)
	if highest < 1 {
		highest = 1
	}
	st.NextID = highest + 1
}

func maxID(tasks []Task) int64 {
	var highest int64
	for _, t := range tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest
}

// exportTasks encodes tasks as a 2-space indented JSON array with a trailing newline.
func exportTasks(tasks []Task) ([]byte, error) {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

// importItem mirrors Task with every field optional except text.
type importItem struct {
	ID        *int64     `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	CreatedAt *time.Time `json:"createdAt"`
	Priority  *Priority  `json:"priority"`
}

// parseImport validates and decodes an export payload. It does not assign ids.
func parseImport(data []byte, now time.Time) ([]Task, error) {
	if errs := validateJSON(exportSchema, data); len(errs) > 0 {
		return nil, newParseError("import", errs...)
	}

	var items []importItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, newParseError("import", err)
	}

	tasks := make([]Task, 0, len(items))
	for i, it := range items {
		// The schema pattern only knows ASCII whitespace; TrimSpace also strips
		// NBSP, EM SPACE and friends.
		if strings.TrimSpace(it.Text) == "" {
			return nil, newParseError("import", &ValidationError{
				Path: fmt.Sprintf("[%d].text", i),
				Err:  errors.New("text is blank"),
			})
		}
		t := Task{
			Text:      strings.TrimSpace(it.Text),
			Completed: it.Completed,
			CreatedAt: now,
			Priority:  PriorityMedium,
		}
		if it.ID != nil {
			t.ID = *it.ID
		}
		if it.CreatedAt != nil {
			t.CreatedAt = *it.CreatedAt
		}
		if it.Priority != nil {
			t.Priority = *it.Priority
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
