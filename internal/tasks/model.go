package tasks

import "github.com/campusweb/portal-backend/pkg/enums"

// Task is a graded deliverable tied to a course.
type Task struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Type        enums.TaskType     `json:"type"`
	Course      string             `json:"course"`
	DueDate     string             `json:"dueDate"`
	Priority    enums.TaskPriority `json:"priority"`
	Status      enums.TaskStatus   `json:"status"`
	Description string             `json:"description,omitempty"`
}

func (t Task) DocumentKey() string { return t.ID }

func (t Task) WithDocumentKey(key string) Task {
	t.ID = key
	return t
}
