// Package web provides a simple web view of the kanban board.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/kanbohq/kanbo/internal/assist"
	"github.com/kanbohq/kanbo/internal/board"
	"github.com/kanbohq/kanbo/internal/settings"
)

// Server provides the web view handlers and state. The task store is the
// process's in-memory board; tasks do not outlive the server.
type Server struct {
	store *board.Store
	flows *assist.Workflows
	prefs settings.Store
}

// NewServer creates a new web server over the shared board state.
func NewServer(store *board.Store, flows *assist.Workflows, prefs settings.Store) *Server {
	return &Server{store: store, flows: flows, prefs: prefs}
}

//go:embed templates/*.html
var templatesFS embed.FS

// Routes returns the router for the web view.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("POST /tasks", s.handleAdd)
	mux.HandleFunc("POST /tasks/{id}/move", s.handleMove)
	mux.HandleFunc("POST /tasks/{id}/toggle", s.handleToggle)
	mux.HandleFunc("POST /tasks/{id}/delete", s.handleDelete)
	mux.HandleFunc("POST /tasks/{id}/subtasks", s.handleToggleSubTasks)
	mux.HandleFunc("POST /tasks/{id}/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /tasks/{id}/breakdown", s.handleBreakdown)
	mux.HandleFunc("POST /theme", s.handleThemeToggle)
	return mux
}

type column struct {
	Status board.Status
	Title  string
	Tasks  []board.Task
}

type indexData struct {
	Theme    string
	Columns  []column
	Statuses []board.Status
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := indexData{
		Theme:    settings.Theme(r.Context(), s.prefs),
		Statuses: board.Statuses,
	}
	for _, status := range board.Statuses {
		data.Columns = append(data.Columns, column{
			Status: status,
			Title:  status.Title(),
			Tasks:  s.store.Column(status),
		})
	}

	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	// Blank text is dropped by the store; the board simply re-renders.
	s.store.Add(r.FormValue("text"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	status, err := board.ParseStatus(r.FormValue("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.store.Move(r.PathValue("id"), status)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.store.ToggleComplete(r.PathValue("id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(r.PathValue("id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleToggleSubTasks(w http.ResponseWriter, r *http.Request) {
	s.store.ToggleSubTasks(r.PathValue("id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	s.runWorkflow(w, r, assist.KindAnalysis)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	s.runWorkflow(w, r, assist.KindBreakdown)
}

// runWorkflow executes one AI workflow synchronously. Failures are stored
// in-band on the task, so the redirect still shows the outcome; only a
// concurrent duplicate is reported as a conflict.
func (s *Server) runWorkflow(w http.ResponseWriter, r *http.Request, kind assist.Kind) {
	id := r.PathValue("id")
	var err error
	if kind == assist.KindAnalysis {
		err = s.flows.Analyze(r.Context(), id)
	} else {
		err = s.flows.Breakdown(r.Context(), id)
	}
	if errors.Is(err, assist.ErrBusy) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	theme := settings.Theme(r.Context(), s.prefs)
	next := settings.ThemeDark
	if theme == settings.ThemeDark {
		next = settings.ThemeLight
	}
	if err := s.prefs.Set(r.Context(), settings.KeyTheme, next); err != nil {
		log.Warn().Err(err).Msg("theme not saved")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
