package task

import (
	"fmt"
	"time"
)

// Board holds the pending and completed collections.
type Board struct {
	pending   []Task
	completed []Task
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Pending returns a copy of the pending collection in order.
func (b *Board) Pending() []Task {
	return cloneAll(b.pending)
}

// Completed returns a copy of the completed collection in order.
func (b *Board) Completed() []Task {
	return cloneAll(b.completed)
}

// Tasks returns a copy of the named collection.
func (b *Board) Tasks(c Collection) []Task {
	if c == Completed {
		return b.Completed()
	}
	return b.Pending()
}

// Len returns the total number of tasks on the board.
func (b *Board) Len() int {
	return len(b.pending) + len(b.completed)
}

// Find returns the task with the given ID, the collection holding it and its
// index in that collection.
func (b *Board) Find(id string) (Task, Collection, int, bool) {
	for i := range b.pending {
		if b.pending[i].ID == id {
			return b.pending[i].Clone(), Pending, i, true
		}
	}
	for i := range b.completed {
		if b.completed[i].ID == id {
			return b.completed[i].Clone(), Completed, i, true
		}
	}
	return Task{}, "", -1, false
}

// Add appends t to the end of the collection matching its completion state.
func (b *Board) Add(t Task) error {
	if err := t.Check(); err != nil {
		return err
	}
	if _, _, _, ok := b.Find(t.ID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	t = t.Clone()
	if t.IsCompleted {
		b.completed = append(b.completed, t)
	} else {
		b.pending = append(b.pending, t)
	}
	return nil
}

// Toggle moves a task to the completed collection (completed=true) or back to
// pending. CompletedAt is set to now when completing and cleared when
// reverting. The task is appended to the end of the target collection.
// A task already in the target state is left where it is.
func (b *Board) Toggle(id string, completed bool, now time.Time) (Task, error) {
	t, from, idx, ok := b.Find(id)
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if t.IsCompleted == completed {
		return t, nil
	}

	b.removeAt(from, idx)
	t.IsCompleted = completed
	if completed {
		at := now
		t.CompletedAt = &at
		b.completed = append(b.completed, t)
	} else {
		t.CompletedAt = nil
		b.pending = append(b.pending, t)
	}
	return t.Clone(), nil
}

// Update replaces a task's title and description in place. Both values are
// trimmed and must be non-empty.
func (b *Board) Update(id, title, desc string) (Task, error) {
	title, desc, err := Fields(title, desc)
	if err != nil {
		return Task{}, err
	}
	list := b.lookup(id)
	if list == nil {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for i := range *list {
		if (*list)[i].ID == id {
			(*list)[i].Title = title
			(*list)[i].Desc = desc
			return (*list)[i].Clone(), nil
		}
	}
	return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Remove deletes a task from whichever collection holds it.
func (b *Board) Remove(id string) (Task, error) {
	t, from, idx, ok := b.Find(id)
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	b.removeAt(from, idx)
	return t, nil
}

// Validate checks every board invariant. Boards built through Add always
// pass; it exists for boards decoded from storage.
func (b *Board) Validate() error {
	seen := make(map[string]Collection, b.Len())
	check := func(c Collection, tasks []Task) error {
		for i := range tasks {
			t := &tasks[i]
			if err := t.Check(); err != nil {
				return fmt.Errorf("%s[%d]: %w", c, i, err)
			}
			if CollectionFor(t.IsCompleted) != c {
				return fmt.Errorf("%s[%d]: task %s is in the wrong collection", c, i, t.ID)
			}
			if prev, dup := seen[t.ID]; dup {
				return fmt.Errorf("%s[%d]: %w: %s (also in %s)", c, i, ErrDuplicateID, t.ID, prev)
			}
			seen[t.ID] = c
		}
		return nil
	}
	if err := check(Pending, b.pending); err != nil {
		return err
	}
	return check(Completed, b.completed)
}

func (b *Board) lookup(id string) *[]Task {
	_, c, _, ok := b.Find(id)
	if !ok {
		return nil
	}
	if c == Completed {
		return &b.completed
	}
	return &b.pending
}

func (b *Board) removeAt(c Collection, idx int) {
	if c == Completed {
		b.completed = append(b.completed[:idx], b.completed[idx+1:]...)
		return
	}
	b.pending = append(b.pending[:idx], b.pending[idx+1:]...)
}

func cloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}
