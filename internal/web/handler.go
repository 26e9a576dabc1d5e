// Package web serves a single-page HTML view of the task list on a loopback address.
// It holds no state of its own: every request reads from or mutates the todo.Service.
package web

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/MihkelHunter/mktodo/internal/output"
	"github.com/MihkelHunter/mktodo/internal/todo"
)

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>mkToDo</title></head>
<body>
<h1>mkToDo</h1>
<form method="post" action="/add"><input name="text" placeholder="What needs doing…" autofocus> <button>Add</button></form>
<p>{{range .Filters}}<form method="post" action="/filter" style="display:inline"><button name="filter" value="{{.}}"{{if eq . $.Filter}} disabled{{end}}>{{.}}</button></form> {{end}}
<form method="post" action="/toggle-all" style="display:inline"><button>toggle all</button></form>
<form method="post" action="/clear" style="display:inline"><button>clear completed</button></form></p>
{{if .Tasks}}<ul>
{{range .Tasks}}<li class="{{.Priority}}">
<form method="post" action="/toggle" style="display:inline"><button name="id" value="{{.ID}}">{{if .Completed}}☑{{else}}☐{{end}}</button></form>
{{if .Completed}}<s>{{.Text}}</s>{{else}}{{.Text}}{{end}} <small>#{{.ID}} · {{.Priority}}</small>
<form method="post" action="/delete" style="display:inline"><button name="id" value="{{.ID}}">✕</button></form>
</li>
{{end}}</ul>{{else}}<p>{{.Empty}}</p>{{end}}
<footer>{{.Stats.Completed}} / {{.Stats.Total}} completed ({{.Stats.CompletionRate}}%) · open: {{.Stats.PriorityStats.High}} high, {{.Stats.PriorityStats.Medium}} medium, {{.Stats.PriorityStats.Low}} low</footer>
</body>
</html>
`))

type pageData struct {
	Tasks   []todo.Task
	Filter  todo.Filter
	Filters []todo.Filter
	Stats   todo.Stats
	Empty   string
}

// Handler renders the list and accepts form posts for mutations.
type Handler struct {
	svc *todo.Service
	log *log.Logger
	mux *http.ServeMux
}

func NewHandler(svc *todo.Service, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{svc: svc, log: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /{$}", h.index)
	h.mux.HandleFunc("POST /add", h.mutate(func(r *http.Request) error {
		_, err := svc.Add(r.FormValue("text"))
		return err
	}))
	h.mux.HandleFunc("POST /toggle", h.withID(svc.Toggle))
	h.mux.HandleFunc("POST /delete", h.withID(svc.Delete))
	h.mux.HandleFunc("POST /filter", h.mutate(func(r *http.Request) error {
		return svc.SetFilter(todo.Filter(r.FormValue("filter")))
	}))
	h.mux.HandleFunc("POST /clear", h.mutate(func(*http.Request) error { return svc.ClearCompleted() }))
	h.mux.HandleFunc("POST /toggle-all", h.mutate(func(*http.Request) error { return svc.ToggleAll() }))
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.Stats()
	filter := h.svc.Filter()
	data := pageData{
		Tasks:   h.svc.Filtered(),
		Filter:  filter,
		Filters: todo.Filters,
		Stats:   stats,
		Empty:   output.EmptyMessage(filter, stats.Total),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		h.log.Error("render page", "err", err)
	}
}

// mutate runs op and redirects back to the list (post/redirect/get).
func (h *Handler) mutate(op func(*http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := op(r); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, todo.ErrInvalidArgument) {
				status = http.StatusBadRequest
			}
			h.log.Warn("request failed", "path", r.URL.Path, "err", err)
			http.Error(w, err.Error(), status)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *Handler) withID(op func(int64) error) http.HandlerFunc {
	return h.mutate(func(r *http.Request) error {
		id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
		if err != nil {
			return errors.Join(todo.ErrInvalidArgument, err)
		}
		return op(id)
	})
}
