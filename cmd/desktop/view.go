package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/charmbracelet/log"

	"github.com/MihkelHunter/mktodo/internal/output"
	"github.com/MihkelHunter/mktodo/internal/todo"
)

// board is the main window: filter tabs, search box, task list and stats footer.
type board struct {
	svc *todo.Service
	log *log.Logger
	win fyne.Window

	list    *widget.List
	empty   *widget.Label
	stats   *widget.Label
	search  *widget.Entry
	filters map[todo.Filter]*widget.Button

	// visible is what the list shows; positions maps ids to full-list indices.
	visible   []todo.Task
	positions map[int64]int
}

func newBoard(svc *todo.Service, logger *log.Logger, win fyne.Window) *board {
	return &board{
		svc:     svc,
		log:     logger,
		win:     win,
		filters: make(map[todo.Filter]*widget.Button),
	}
}

func (b *board) content() fyne.CanvasObject {
	title := canvas.NewText("  ✓  mkToDo", color.White)
	title.TextSize = 20
	title.TextStyle = fyne.TextStyle{Bold: true}

	add := widget.NewButtonWithIcon("Add Task", theme.ContentAddIcon(), func() { b.showTaskForm(nil) })
	add.Importance = widget.HighImportance
	menu := container.NewHBox(
		widget.NewButtonWithIcon("", theme.DownloadIcon(), b.exportTasks),
		widget.NewButtonWithIcon("", theme.UploadIcon(), b.importTasks),
		add,
	)
	header := container.NewStack(
		canvas.NewRectangle(colSurface),
		container.NewPadded(container.NewBorder(nil, nil, title, menu)),
	)

	tabs := container.NewHBox()
	for _, f := range todo.Filters {
		btn := widget.NewButton(strings.ToUpper(string(f[:1]))+string(f[1:]), func() { b.apply(b.svc.SetFilter(f)) })
		b.filters[f] = btn
		tabs.Add(btn)
	}
	clearBtn := widget.NewButton("Clear completed", func() { b.apply(b.svc.ClearCompleted()) })
	clearBtn.Importance = widget.DangerImportance
	toolbar := container.NewHBox(
		tabs,
		layout.NewSpacer(),
		widget.NewButton("Toggle all", func() { b.apply(b.svc.ToggleAll()) }),
		clearBtn,
	)

	b.search = widget.NewEntry()
	b.search.SetPlaceHolder("Search…")
	b.search.OnChanged = func(string) { b.refresh() }

	b.list = widget.NewList(
		func() int { return len(b.visible) },
		func() fyne.CanvasObject { return newTaskRow() },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i >= len(b.visible) {
				return
			}
			t := b.visible[i]
			pos, ok := b.positions[t.ID]
			if !ok {
				pos = -1
			}
			obj.(*taskRow).bind(b, t, pos, len(b.positions)-1)
		},
	)
	b.list.OnSelected = func(id widget.ListItemID) { b.list.Unselect(id) }

	b.empty = widget.NewLabel("")
	b.empty.Alignment = fyne.TextAlignCenter
	b.stats = widget.NewLabel("")

	footer := container.NewStack(
		canvas.NewRectangle(colSurface),
		container.NewPadded(container.NewCenter(b.stats)),
	)
	return container.NewStack(
		canvas.NewRectangle(colBackground),
		container.NewBorder(
			container.NewVBox(header, toolbar, b.search),
			footer,
			nil, nil,
			container.NewStack(b.list, container.NewCenter(b.empty)),
		),
	)
}

// refresh reloads everything from the service.
func (b *board) refresh() {
	all := b.svc.Tasks()
	b.positions = make(map[int64]int, len(all))
	for i, t := range all {
		b.positions[t.ID] = i
	}

	filter := b.svc.Filter()
	b.visible = b.svc.Filtered()
	if q := strings.TrimSpace(b.search.Text); q != "" {
		b.visible = b.visible[:0]
		for _, t := range b.svc.Search(q) {
			if filter.Match(t) {
				b.visible = append(b.visible, t)
			}
		}
	}
	b.list.Refresh()

	for f, btn := range b.filters {
		if f == filter {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}

	stats := b.svc.Stats()
	switch {
	case len(b.visible) > 0:
		b.empty.Hide()
	case b.search.Text != "" && stats.Total > 0:
		b.empty.SetText("No matching tasks.")
		b.empty.Show()
	default:
		b.empty.SetText(output.EmptyMessage(filter, stats.Total))
		b.empty.Show()
	}
	b.stats.SetText(fmt.Sprintf("%d / %d completed (%d%%) · open: %d high, %d medium, %d low",
		stats.Completed, stats.Total, stats.CompletionRate,
		stats.PriorityStats.High, stats.PriorityStats.Medium, stats.PriorityStats.Low))
}

// apply reports a failed operation and redraws either way.
func (b *board) apply(err error) {
	if err != nil {
		b.log.Error("operation failed", "err", err)
		dialog.ShowError(err, b.win)
	}
	b.refresh()
}

func (b *board) confirmDelete(t todo.Task) {
	dialog.ShowConfirm("Delete Task", fmt.Sprintf("Delete %q?", t.Text), func(ok bool) {
		if ok {
			b.apply(b.svc.Delete(t.ID))
		}
	}, b.win)
}

func (b *board) showTaskForm(existing *todo.Task) {
	text := widget.NewEntry()
	text.SetPlaceHolder("What needs doing…")

	names := make([]string, len(todo.Priorities))
	for i, p := range todo.Priorities {
		names[i] = p.String()
	}
	priority := widget.NewSelect(names, nil)
	priority.SetSelected(todo.PriorityMedium.String())

	title := "Add Task"
	if existing != nil {
		title = "Edit Task"
		text.SetText(existing.Text)
		priority.SetSelected(existing.Priority.String())
	}

	form := widget.NewForm(
		widget.NewFormItem("Task", text),
		widget.NewFormItem("Priority", priority),
	)
	dialog.ShowCustomConfirm(title, "Save", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		if strings.TrimSpace(text.Text) == "" {
			dialog.ShowError(errors.New("task text cannot be empty"), b.win)
			return
		}
		p, err := todo.ParsePriority(priority.Selected)
		if err != nil {
			p = todo.PriorityMedium
		}

		var id int64
		if existing != nil {
			id = existing.ID
		}
		_, err = b.svc.Upsert(id, text.Text, p)
		b.apply(err)
	}, b.win)
}

func (b *board) exportTasks() {
	dialog.ShowFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			b.apply(err)
			return
		}
		defer w.Close()

		data, err := b.svc.Export()
		if err == nil {
			_, err = w.Write(data)
		}
		if err != nil {
			b.apply(fmt.Errorf("export: %w", err))
			return
		}
		b.log.Info("tasks exported", "uri", w.URI().String())
	}, b.win)
}

func (b *board) importTasks() {
	dialog.ShowFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			b.apply(err)
			return
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			b.apply(fmt.Errorf("import: %w", err))
			return
		}
		n, err := b.svc.Import(data)
		if err != nil {
			b.apply(err)
			return
		}
		dialog.ShowInformation("Import", fmt.Sprintf("Imported %d tasks.", n), b.win)
		b.refresh()
	}, b.win)
}
