package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEmptyField is returned when a title or description is empty after trimming.
	ErrEmptyField = errors.New("title and description must not be empty")
	// ErrNotFound is returned when no task has the requested ID.
	ErrNotFound = errors.New("task not found")
	// ErrDuplicateID is returned when a task ID is already on the board.
	ErrDuplicateID = errors.New("duplicate task id")
)

// Collection names one of the two ordered groups on a board.
type Collection string

const (
	Pending   Collection = "pending"
	Completed Collection = "completed"
)

// CollectionFor returns the collection a task with the given completion
// state belongs to.
func CollectionFor(isCompleted bool) Collection {
	if isCompleted {
		return Completed
	}
	return Pending
}

// Task is a single to-do item.
type Task struct {
	ID          string
	Title       string
	Desc        string
	IsCompleted bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

// Check reports the first invariant the task breaks, if any.
func (t *Task) Check() error {
	if t.ID == "" {
		return fmt.Errorf("missing id")
	}
	if strings.TrimSpace(t.Title) == "" || strings.TrimSpace(t.Desc) == "" {
		return fmt.Errorf("task %s: %w", t.ID, ErrEmptyField)
	}
	if t.IsCompleted != (t.CompletedAt != nil) {
		return fmt.Errorf("task %s: completedAt must be set only when completed", t.ID)
	}
	return nil
}

// Fields trims title and desc and rejects them if either ends up empty.
func Fields(title, desc string) (string, string, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if title == "" || desc == "" {
		return "", "", ErrEmptyField
	}
	return title, desc, nil
}

// New builds a pending task from raw form input.
func New(id, title, desc string, createdAt time.Time) (Task, error) {
	title, desc, err := Fields(title, desc)
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:        id,
		Title:     title,
		Desc:      desc,
		CreatedAt: createdAt,
	}, nil
}
