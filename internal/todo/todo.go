// Package todo defines the core domain model and the state container.
// The Repository interface allows swapping snapshot backends (SQLite, in-memory, etc.)
// without changing any view layer: desktop, CLI and web all drive the same Service.
package todo

import (
	"fmt"
	"strings"
	"time"
)

// Priority levels for a task.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// Priorities lists the levels from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// Valid reports whether p is one of the three known levels.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority accepts the lowercase level names, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return 0, fmt.Errorf("priority %q: %w", s, ErrInvalidArgument)
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("priority %d: %w", int(p), ErrInvalidArgument)
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every valid filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// Valid reports whether f is a known filter.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// ParseFilter validates s as a filter name.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("filter %q: %w", s, ErrInvalidArgument)
	}
	return f, nil
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Task is the central domain object. Only these fields are durable;
// edit-in-progress state belongs to the views.
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	Priority  Priority  `json:"priority"`
}

// IsZero returns true for the value returned by a no-op Add.
func (t Task) IsZero() bool {
	return t.ID == 0
}

// Stats summarises the task list for a view footer.
type Stats struct {
	Total          int           `json:"total"`
	Completed      int           `json:"completed"`
	Active         int           `json:"active"`
	CompletionRate int           `json:"completionRate"`
	PriorityStats  PriorityStats `json:"priorityStats"`
}

// PriorityStats counts incomplete tasks per priority level.
type PriorityStats struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Record is one persisted snapshot as a repository sees it.
type Record struct {
	Version int
	Data    []byte
	SavedAt time.Time
}

// Repository is the storage contract for snapshots. Any backend (SQLite, memory)
// must satisfy this interface; the Service never sees a concrete type.
type Repository interface {
	// Load returns the record stored under key. ok is false when nothing is stored.
	Load(key string) (rec Record, ok bool, err error)
	// Save overwrites the record stored under key.
	Save(key string, rec Record) error
	Close() error
}
