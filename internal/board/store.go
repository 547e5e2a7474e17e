package board

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store is the in-memory task collection. Tasks live only for the
// process lifetime. All mutations are keyed by task id and are no-ops
// when the id is absent, so a late AI result for a deleted task cannot
// recreate it. The mutex covers concurrent access from web handlers and
// TUI command goroutines.
type Store struct {
	mu    sync.Mutex
	tasks []*Task
}

// NewStore creates an empty task store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a new task with the given text and returns it.
// Blank or whitespace-only text is rejected and nothing is added.
func (s *Store) Add(text string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Task{
		ID:     uuid.NewString(),
		Text:   text,
		Status: StatusTodo,
	}
	s.tasks = append(s.tasks, t)
	return *t, true
}

// Delete removes the task with the given id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// ToggleComplete flips a task's completed flag. Completing moves the
// task to done; uncompleting always returns it to todo, even if it was
// in progress before it was completed.
func (s *Store) ToggleComplete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.find(id); t != nil {
		t.Completed = !t.Completed
		if t.Completed {
			t.Status = StatusDone
		} else {
			t.Status = StatusTodo
		}
	}
}

// Move sets a task's status and keeps the completed flag consistent:
// a task is completed exactly when it sits in the done column.
func (s *Store) Move(id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.find(id); t != nil {
		t.Status = status
		t.Completed = status == StatusDone
	}
}

// ToggleSubTasks flips the sub-task visibility flag.
func (s *Store) ToggleSubTasks(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.find(id); t != nil {
		t.ShowSubTasks = !t.ShowSubTasks
	}
}

// SetAnalysis stores an AI analysis result on a task.
func (s *Store) SetAnalysis(id string, a Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.find(id); t != nil {
		t.Analysis = &a
	}
}

// SetSubTasks stores an AI breakdown result on a task and forces the
// sub-task list visible, for success and failure payloads alike.
func (s *Store) SetSubTasks(id string, subTasks []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.find(id); t != nil {
		t.SubTasks = subTasks
		t.ShowSubTasks = true
	}
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.find(id); t != nil {
		return *t, true
	}
	return Task{}, false
}

// Tasks returns a snapshot of all tasks in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	return out
}

// Column returns the tasks with the given status in insertion order.
func (s *Store) Column(status Status) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Task
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	return out
}

// Columns returns the three-column board projection keyed by status.
func (s *Store) Columns() map[Status][]Task {
	out := make(map[Status][]Task, len(Statuses))
	for _, status := range Statuses {
		out[status] = s.Column(status)
	}
	return out
}

// Len reports the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Store) find(id string) *Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
