package app

import (
	"context"
	"fmt"

	"github.com/nibzard/taskboard/internal/task"
)

// BeginEdit opens an edit session on a task, seeded with its current title
// and description. Any other open session is discarded.
func (c *Controller) BeginEdit(id string) (EditSession, error) {
	t, ok := c.Find(id)
	if !ok {
		return EditSession{}, fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}
	if c.state.Edit != nil && c.state.Edit.TaskID != id {
		c.logger.Debug("edit discarded", "id", c.state.Edit.TaskID)
	}
	c.state.Edit = &EditSession{TaskID: t.ID, Title: t.Title, Desc: t.Desc}
	return *c.state.Edit, nil
}

// Editing returns the open edit session, if any.
func (c *Controller) Editing() (EditSession, bool) {
	if c.state.Edit == nil {
		return EditSession{}, false
	}
	return *c.state.Edit, true
}

// SetEditFields replaces the in-progress values of the open session.
func (c *Controller) SetEditFields(title, desc string) error {
	if c.state.Edit == nil {
		return ErrNoEditSession
	}
	c.state.Edit.Title = title
	c.state.Edit.Desc = desc
	return nil
}

// SaveEdit commits the open session. Empty values return task.ErrEmptyField
// and keep the session open. On success the task keeps its position, ID,
// timestamps and completion state, and the session closes.
func (c *Controller) SaveEdit(ctx context.Context) (task.Task, error) {
	s := c.state.Edit
	if s == nil {
		return task.Task{}, ErrNoEditSession
	}
	t, err := c.state.Board.Update(s.TaskID, s.Title, s.Desc)
	if err != nil {
		return task.Task{}, err
	}
	c.state.Edit = nil
	c.logger.Debug("task edited", "id", t.ID)
	return t, c.persist(ctx, EventEdited, t.ID)
}

// CancelEdit closes the open session without changing the task.
func (c *Controller) CancelEdit() {
	c.state.Edit = nil
}

// Edit updates a task in one step. Empty values keep the task's current
// title or description.
func (c *Controller) Edit(ctx context.Context, id, title, desc string) (task.Task, error) {
	s, err := c.BeginEdit(id)
	if err != nil {
		return task.Task{}, err
	}
	if title == "" {
		title = s.Title
	}
	if desc == "" {
		desc = s.Desc
	}
	if err := c.SetEditFields(title, desc); err != nil {
		return task.Task{}, err
	}
	t, err := c.SaveEdit(ctx)
	if err != nil {
		c.CancelEdit()
		return task.Task{}, err
	}
	return t, nil
}

func (c *Controller) editing(id string) bool {
	return c.state.Edit != nil && c.state.Edit.TaskID == id
}
