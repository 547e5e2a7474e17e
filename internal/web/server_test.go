package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanbohq/kanbo/internal/assist"
	"github.com/kanbohq/kanbo/internal/board"
	"github.com/kanbohq/kanbo/internal/genai"
	"github.com/kanbohq/kanbo/internal/settings"
)

type stubGenerator struct {
	payload json.RawMessage
	err     error
}

func (s *stubGenerator) Generate(context.Context, genai.Request) (json.RawMessage, error) {
	return s.payload, s.err
}

func newTestServer(gen assist.Generator) (*Server, *board.Store, *settings.Memory) {
	store := board.NewStore()
	prefs := settings.NewMemory()
	return NewServer(store, assist.New(store, gen), prefs), store, prefs
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersBoard(t *testing.T) {
	srv, store, _ := newTestServer(&stubGenerator{})
	store.Add("alpha")
	task, _ := store.Add("beta")
	store.Move(task.ID, board.StatusDone)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "To Do (1)")
	assert.Contains(t, body, "Done (1)")
	assert.Contains(t, body, "alpha")
	assert.Contains(t, body, `class="light"`)
}

func TestAddTask(t *testing.T) {
	srv, store, _ := newTestServer(&stubGenerator{})

	rec := postForm(t, srv.Routes(), "/tasks", url.Values{"text": {"Buy milk"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	tasks := store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
}

func TestAddBlankTaskDropped(t *testing.T) {
	srv, store, _ := newTestServer(&stubGenerator{})

	rec := postForm(t, srv.Routes(), "/tasks", url.Values{"text": {"   "}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, store.Len())
}

func TestMoveTask(t *testing.T) {
	srv, store, _ := newTestServer(&stubGenerator{})
	task, _ := store.Add("Buy milk")
	store.ToggleComplete(task.ID)

	rec := postForm(t, srv.Routes(), "/tasks/"+task.ID+"/move", url.Values{"status": {"in-progress"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got, _ := store.Get(task.ID)
	assert.Equal(t, board.StatusInProgress, got.Status)
	assert.False(t, got.Completed)
}

func TestMoveRejectsUnknownStatus(t *testing.T) {
	srv, store, _ := newTestServer(&stubGenerator{})
	task, _ := store.Add("Buy milk")

	rec := postForm(t, srv.Routes(), "/tasks/"+task.ID+"/move", url.Values{"status": {"archived"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTask(t *testing.T) {
	srv, store, _ := newTestServer(&stubGenerator{})
	task, _ := store.Add("Buy milk")

	rec := postForm(t, srv.Routes(), "/tasks/"+task.ID+"/delete", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, store.Len())
}

func TestAnalyzeEndpoint(t *testing.T) {
	gen := &stubGenerator{payload: json.RawMessage(`{"category":"Work","priority":"High","notes":"due soon"}`)}
	srv, store, _ := newTestServer(gen)
	task, _ := store.Add("Buy milk")

	rec := postForm(t, srv.Routes(), "/tasks/"+task.ID+"/analyze", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got, _ := store.Get(task.ID)
	require.NotNil(t, got.Analysis)
	assert.Equal(t, board.Analysis{Category: "Work", Priority: "High", Notes: "due soon"}, *got.Analysis)
}

func TestAnalyzeUnknownTask(t *testing.T) {
	srv, _, _ := newTestServer(&stubGenerator{})
	rec := postForm(t, srv.Routes(), "/tasks/nope/analyze", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBreakdownEndpointFailureStoredInBand(t *testing.T) {
	gen := &stubGenerator{err: genai.ErrTransport}
	srv, store, _ := newTestServer(gen)
	task, _ := store.Add("Plan trip")

	rec := postForm(t, srv.Routes(), "/tasks/"+task.ID+"/breakdown", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got, _ := store.Get(task.ID)
	require.Len(t, got.SubTasks, 1)
	assert.Contains(t, got.SubTasks[0], "Breakdown failed: ")
	assert.True(t, got.ShowSubTasks)
}

func TestThemeToggle(t *testing.T) {
	srv, _, prefs := newTestServer(&stubGenerator{})

	rec := postForm(t, srv.Routes(), "/theme", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, settings.ThemeDark, settings.Theme(context.Background(), prefs))

	rec = postForm(t, srv.Routes(), "/theme", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, settings.ThemeLight, settings.Theme(context.Background(), prefs))
}
