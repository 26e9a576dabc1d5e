package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/MihkelHunter/mktodo/internal/todo"
)

// taskRow is one recycled list entry. bind points it at a task.
type taskRow struct {
	widget.BaseWidget

	bg    *canvas.Rectangle
	dot   *canvas.Circle
	check *widget.Check
	text  *widget.Label
	meta  *widget.Label
	up    *widget.Button
	down  *widget.Button
	edit  *widget.Button
	del   *widget.Button
}

func newTaskRow() *taskRow {
	r := &taskRow{
		bg:    canvas.NewRectangle(colSurface),
		dot:   canvas.NewCircle(priorityColors[todo.PriorityLow]),
		check: widget.NewCheck("", nil),
		text:  widget.NewLabel(""),
		meta:  widget.NewLabel(""),
		up:    widget.NewButtonWithIcon("", theme.MoveUpIcon(), nil),
		down:  widget.NewButtonWithIcon("", theme.MoveDownIcon(), nil),
		edit:  widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil),
		del:   widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
	}
	r.bg.CornerRadius = 8
	r.dot.Resize(fyne.NewSize(12, 12))
	r.meta.Importance = widget.LowImportance
	for _, b := range []*widget.Button{r.up, r.down, r.edit} {
		b.Importance = widget.LowImportance
	}
	r.del.Importance = widget.DangerImportance
	r.ExtendBaseWidget(r)
	return r
}

func (r *taskRow) CreateRenderer() fyne.WidgetRenderer {
	left := container.NewHBox(
		container.NewCenter(r.dot),
		r.check,
		container.NewVBox(r.text, r.meta),
	)
	right := container.NewHBox(r.up, r.down, r.edit, r.del)
	body := container.NewBorder(nil, nil, left, right)
	return widget.NewSimpleRenderer(container.NewStack(r.bg, container.NewPadded(body)))
}

// bind shows t. pos is t's index in the full list and last the final index,
// which decide whether the move buttons apply.
func (r *taskRow) bind(b *board, t todo.Task, pos, last int) {
	r.dot.FillColor = priorityColors[t.Priority]
	r.dot.Refresh()

	if t.Completed {
		r.bg.FillColor = colDone
		r.text.TextStyle = fyne.TextStyle{Italic: true}
	} else {
		r.bg.FillColor = colSurface
		r.text.TextStyle = fyne.TextStyle{Bold: true}
	}
	r.bg.Refresh()

	r.text.SetText(t.Text)
	r.meta.SetText(fmt.Sprintf("#%d · %s priority · %s", t.ID, t.Priority, t.CreatedAt.Local().Format("Jan 2")))

	// Detach before SetChecked so recycling a row does not toggle a task.
	r.check.OnChanged = nil
	r.check.SetChecked(t.Completed)
	r.check.OnChanged = func(bool) { b.apply(b.svc.Toggle(t.ID)) }

	setEnabled(r.up, pos > 0)
	setEnabled(r.down, pos >= 0 && pos < last)
	r.up.OnTapped = func() { b.apply(b.svc.Reorder(pos, pos-1)) }
	r.down.OnTapped = func() { b.apply(b.svc.Reorder(pos, pos+1)) }
	r.edit.OnTapped = func() { b.showTaskForm(&t) }
	r.del.OnTapped = func() { b.confirmDelete(t) }
}

func setEnabled(w fyne.Disableable, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}
