// Package output renders tasks and stats for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MihkelHunter/mktodo/internal/todo"
)

// Printer writes styled task lines. Colour is dropped automatically when w is not a terminal.
type Printer struct {
	w    io.Writer
	done lipgloss.Style
	pri  map[todo.Priority]lipgloss.Style
	dim  lipgloss.Style
}

func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:    w,
		done: r.NewStyle().Faint(true).Strikethrough(true),
		dim:  r.NewStyle().Faint(true),
		pri: map[todo.Priority]lipgloss.Style{
			todo.PriorityHigh:   r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
			todo.PriorityMedium: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
			todo.PriorityLow:    r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		},
	}
}

// Task writes one line: position, checkbox, id, text and priority.
// Format: "{POS:>4}  [x] #{ID}  {TEXT}  ({PRIORITY})\n"
func (p *Printer) Task(pos int, t todo.Task) {
	box := "[ ]"
	text := normalizeText(t.Text)
	if t.Completed {
		box = "[x]"
		text = p.done.Render(text)
	}
	pri := p.pri[t.Priority].Render(t.Priority.String())
	fmt.Fprintf(p.w, "%4d  %s #%d  %s  (%s)\n", pos, box, t.ID, text, pri)
}

// Tasks writes every task numbered from 1, or an empty-list message.
// total is the size of the unfiltered list.
func (p *Printer) Tasks(tasks []todo.Task, filter todo.Filter, total int) {
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, p.dim.Render(EmptyMessage(filter, total)))
		return
	}
	for i, t := range tasks {
		p.Task(i+1, t)
	}
}

// Stats writes the summary footer.
func (p *Printer) Stats(s todo.Stats) {
	fmt.Fprintf(p.w, "%d total · %d active · %d completed · %d%% done\n",
		s.Total, s.Active, s.Completed, s.CompletionRate)
	fmt.Fprintf(p.w, "open by priority: %s %d · %s %d · %s %d\n",
		p.pri[todo.PriorityHigh].Render("high"), s.PriorityStats.High,
		p.pri[todo.PriorityMedium].Render("medium"), s.PriorityStats.Medium,
		p.pri[todo.PriorityLow].Render("low"), s.PriorityStats.Low)
}

// EmptyMessage is what a view shows when no task is visible.
func EmptyMessage(filter todo.Filter, total int) string {
	if total == 0 || filter == todo.FilterAll {
		return "No tasks yet!"
	}
	return fmt.Sprintf("No %s tasks!", filter)
}

// normalizeText keeps each task on one line.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
