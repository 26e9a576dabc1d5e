package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MihkelHunter/mktodo/internal/todo"
)

func TestPrinter_Task(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Task(1, todo.Task{ID: 7, Text: "buy\nmilk", Priority: todo.PriorityHigh, CreatedAt: time.Now()})
	p.Task(12, todo.Task{ID: 9, Text: "walk dog", Completed: true, Priority: todo.PriorityLow})

	assert.Equal(t,
		"   1  [ ] #7  buy milk  (high)\n"+
			"  12  [x] #9  walk dog  (low)\n",
		buf.String())
}

func TestPrinter_TasksEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter todo.Filter
		total  int
		want   string
	}{
		{"nothing stored", todo.FilterActive, 0, "No tasks yet!\n"},
		{"all filter", todo.FilterAll, 3, "No tasks yet!\n"},
		{"active filter", todo.FilterActive, 3, "No active tasks!\n"},
		{"completed filter", todo.FilterCompleted, 1, "No completed tasks!\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf).Tasks(nil, tt.filter, tt.total)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_Stats(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Stats(todo.Stats{
		Total:          3,
		Completed:      1,
		Active:         2,
		CompletionRate: 33,
		PriorityStats:  todo.PriorityStats{High: 1, Medium: 1},
	})

	assert.Equal(t,
		"3 total · 2 active · 1 completed · 33% done\n"+
			"open by priority: high 1 · medium 1 · low 0\n",
		buf.String())
}
