package enums

import "fmt"

// TaskType classifies an academic task.
type TaskType string

const (
	TaskTypeExam         TaskType = "exam"
	TaskTypeAssignment   TaskType = "assignment"
	TaskTypeHomework     TaskType = "homework"
	TaskTypeQuiz         TaskType = "quiz"
	TaskTypePresentation TaskType = "presentation"
)

var validTaskTypes = []TaskType{
	TaskTypeExam,
	TaskTypeAssignment,
	TaskTypeHomework,
	TaskTypeQuiz,
	TaskTypePresentation,
}

// IsValid reports whether the value is a known TaskType.
func (t TaskType) IsValid() bool {
	for _, candidate := range validTaskTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaskType converts raw input into a TaskType.
func ParseTaskType(value string) (TaskType, error) {
	for _, candidate := range validTaskTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task type %q", value)
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	TaskPriorityUrgent TaskPriority = "urgent"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// IsValid reports whether the value is a known TaskPriority.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityUrgent, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

// TaskStatus tracks task completion.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether the value is a known TaskStatus.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}
