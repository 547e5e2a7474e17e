// Package board holds the in-memory task collection behind the kanban views.
package board

import "fmt"

// Status is a task's board column.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// ParseStatus converts a string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Title returns the column heading for a status.
func (s Status) Title() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return "To Do"
	}
}

// Analysis is the AI annotation for a task. On a failed analysis run
// Category and Priority are set to "Error" and Notes carries the reason.
type Analysis struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Notes    string `json:"notes"`
}

// Task is a single board item.
type Task struct {
	ID           string
	Text         string
	Completed    bool
	Status       Status
	Analysis     *Analysis
	SubTasks     []string
	ShowSubTasks bool
}
