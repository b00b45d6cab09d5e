package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nibzard/taskboard/internal/task"
)

// TimeLayout is the timestamp layout used in snapshots.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Snapshot is the persisted form of a board.
type Snapshot struct {
	Pending   []Record `json:"pending"`
	Completed []Record `json:"completed"`
}

// Record is the persisted form of a task.
type Record struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Desc        string  `json:"desc"`
	IsCompleted bool    `json:"isCompleted"`
	CreatedAt   string  `json:"createdAt"`
	CompletedAt *string `json:"completedAt"`
}

// FormatTime formats t for a snapshot.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// SnapshotOf captures both collections of b in order.
func SnapshotOf(b *task.Board) Snapshot {
	return NewSnapshot(b.Pending(), b.Completed())
}

// NewSnapshot builds a snapshot from the two collections.
func NewSnapshot(pending, completed []task.Task) Snapshot {
	return Snapshot{
		Pending:   recordsOf(pending),
		Completed: recordsOf(completed),
	}
}

func recordsOf(tasks []task.Task) []Record {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		r := Record{
			ID:          t.ID,
			Title:       t.Title,
			Desc:        t.Desc,
			IsCompleted: t.IsCompleted,
			CreatedAt:   FormatTime(t.CreatedAt),
		}
		if t.CompletedAt != nil {
			at := FormatTime(*t.CompletedAt)
			r.CompletedAt = &at
		}
		records = append(records, r)
	}
	return records
}

// Encode marshals the snapshot.
func (s Snapshot) Encode() ([]byte, error) {
	if s.Pending == nil {
		s.Pending = []Record{}
	}
	if s.Completed == nil {
		s.Completed = []Record{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Board rebuilds a board from the snapshot. Every problem found is returned;
// the board is nil when there is at least one.
func (s Snapshot) Board() (*task.Board, []error) {
	b := task.NewBoard()
	var problems []error

	add := func(c task.Collection, records []Record) {
		for i, r := range records {
			path := fmt.Sprintf("%s[%d]", c, i)
			t, err := r.task()
			if err != nil {
				problems = append(problems, &ValidationError{Path: path, Err: err})
				continue
			}
			if task.CollectionFor(t.IsCompleted) != c {
				problems = append(problems, &ValidationError{
					Path: path + ".isCompleted",
					Err:  fmt.Errorf("task %s does not belong in %s", t.ID, c),
				})
				continue
			}
			if err := b.Add(t); err != nil {
				problems = append(problems, &ValidationError{Path: path, Err: err})
			}
		}
	}
	add(task.Pending, s.Pending)
	add(task.Completed, s.Completed)

	if len(problems) > 0 {
		return nil, problems
	}
	return b, nil
}

// task converts r to a board task. Text is trimmed and timestamps are cut
// to milliseconds, so a loaded task saves back exactly as it loaded.
func (r Record) task() (task.Task, error) {
	title, desc, err := task.Fields(r.Title, r.Desc)
	if err != nil {
		return task.Task{}, err
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("createdAt: %w", err)
	}
	t := task.Task{
		ID:          r.ID,
		Title:       title,
		Desc:        desc,
		IsCompleted: r.IsCompleted,
		CreatedAt:   createdAt,
	}
	if r.CompletedAt != nil {
		completedAt, err := parseTime(*r.CompletedAt)
		if err != nil {
			return task.Task{}, fmt.Errorf("completedAt: %w", err)
		}
		t.CompletedAt = &completedAt
	}
	return t, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(time.Millisecond), nil
}
