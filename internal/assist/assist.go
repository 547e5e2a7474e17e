// Package assist runs the AI workflows that annotate board tasks.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/kanbohq/kanbo/internal/board"
	"github.com/kanbohq/kanbo/internal/genai"
)

// Kind names a workflow.
type Kind string

const (
	KindAnalysis  Kind = "analysis"
	KindBreakdown Kind = "breakdown"
)

// ErrBusy reports that the same workflow is already running for the task.
var ErrBusy = errors.New("assist: workflow already in flight for task")

// ErrEmptyText reports a task with no text to work from.
var ErrEmptyText = errors.New("assist: task text is empty")

const analysisSchema = `{
  "type": "object",
  "properties": {
    "category": {"type": "string"},
    "priority": {"type": "string"},
    "notes": {"type": "string"}
  }
}`

const breakdownSchema = `{
  "type": "array",
  "items": {"type": "string"}
}`

// Generator is the structured-output client used by the workflows.
type Generator interface {
	Generate(ctx context.Context, req genai.Request) (json.RawMessage, error)
}

// Workflows coordinates AI calls against a single task store. Each
// (task id, kind) pair is hard-serialized: a second invocation while one
// is outstanding fails fast with ErrBusy and sends nothing.
type Workflows struct {
	store *board.Store
	gen   Generator

	mu       sync.Mutex
	inFlight map[flightKey]bool
}

type flightKey struct {
	id   string
	kind Kind
}

// New creates workflows over the given store and generator.
func New(store *board.Store, gen Generator) *Workflows {
	return &Workflows{
		store:    store,
		gen:      gen,
		inFlight: make(map[flightKey]bool),
	}
}

// Loading reports whether a workflow of the given kind is running for the task.
func (w *Workflows) Loading(id string, kind Kind) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight[flightKey{id: id, kind: kind}]
}

// Analyze categorizes one task. Every failure class is written back to the
// task as an error-marked analysis record; the in-flight marker is cleared
// unconditionally, so a task can never stay stuck loading.
func (w *Workflows) Analyze(ctx context.Context, id string) error {
	task, release, err := w.begin(id, KindAnalysis)
	if err != nil {
		return err
	}
	defer release()

	prompt := fmt.Sprintf(
		"Analyze the following task and return a JSON object with the fields "+
			"category (a short label like Work, Personal or Errand), priority (High, Medium or Low) "+
			"and notes (one brief actionable suggestion). Task: %q", task.Text)

	payload, err := w.gen.Generate(ctx, genai.Request{Prompt: prompt, Schema: analysisSchema})
	if err != nil {
		log.Debug().Err(err).Str("task", id).Msg("analysis failed")
		w.store.SetAnalysis(id, errorAnalysis(err))
		return nil
	}

	var a board.Analysis
	if err := json.Unmarshal(payload, &a); err != nil {
		w.store.SetAnalysis(id, errorAnalysis(fmt.Errorf("could not analyze task: %w", err)))
		return nil
	}
	w.store.SetAnalysis(id, a)
	return nil
}

// Breakdown splits one task into sub-task descriptions. Failures are
// stored as a single explanatory sub-task; either way the sub-task list
// is forced visible and the in-flight marker is cleared.
func (w *Workflows) Breakdown(ctx context.Context, id string) error {
	task, release, err := w.begin(id, KindBreakdown)
	if err != nil {
		return err
	}
	defer release()

	prompt := fmt.Sprintf(
		"Break the following task down into a short ordered list of concrete sub-tasks. "+
			"Return a JSON array of strings, one per sub-task. Task: %q", task.Text)

	payload, err := w.gen.Generate(ctx, genai.Request{Prompt: prompt, Schema: breakdownSchema})
	if err != nil {
		log.Debug().Err(err).Str("task", id).Msg("breakdown failed")
		w.store.SetSubTasks(id, []string{fmt.Sprintf("Breakdown failed: %s", reason(err))})
		return nil
	}

	var subTasks []string
	if err := json.Unmarshal(payload, &subTasks); err != nil {
		w.store.SetSubTasks(id, []string{fmt.Sprintf("Breakdown failed: %s", err)})
		return nil
	}
	w.store.SetSubTasks(id, subTasks)
	return nil
}

// begin validates the task and claims the in-flight slot for (id, kind).
func (w *Workflows) begin(id string, kind Kind) (board.Task, func(), error) {
	task, ok := w.store.Get(id)
	if !ok {
		return board.Task{}, nil, fmt.Errorf("task %s not found", id)
	}
	if task.Text == "" {
		return board.Task{}, nil, ErrEmptyText
	}

	key := flightKey{id: id, kind: kind}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[key] {
		return board.Task{}, nil, ErrBusy
	}
	w.inFlight[key] = true

	release := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.inFlight, key)
	}
	return task, release, nil
}

// errorAnalysis converts a workflow failure into the in-band error record.
func errorAnalysis(err error) board.Analysis {
	return board.Analysis{
		Category: "Error",
		Priority: "Error",
		Notes:    fmt.Sprintf("Could not analyze task: %s", reason(err)),
	}
}

// reason strips the package error-class prefix for user-facing text.
func reason(err error) string {
	switch {
	case errors.Is(err, genai.ErrTransport):
		return "the AI service could not be reached"
	case errors.Is(err, genai.ErrMalformed):
		return "the AI service returned an empty response"
	case errors.Is(err, genai.ErrParse):
		return "the AI service returned an unreadable response"
	default:
		return err.Error()
	}
}
