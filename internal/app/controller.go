// Package app owns the task board state and applies user actions to it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/hooks"
	"github.com/nibzard/taskboard/internal/storage"
	"github.com/nibzard/taskboard/internal/task"
)

var (
	// ErrPersist wraps a failed snapshot save. The in-memory change it
	// accompanies has already been applied.
	ErrPersist = errors.New("tasks changed but could not be saved")
	// ErrEditInProgress is returned when toggling or deleting the task that
	// is currently being edited.
	ErrEditInProgress = errors.New("task is being edited")
	// ErrNoEditSession is returned by edit operations when no session is open.
	ErrNoEditSession = errors.New("no edit in progress")
)

// Event names a saved mutation. Hooks receive it as their first argument.
type Event string

const (
	EventCreated   Event = "created"
	EventCompleted Event = "completed"
	EventReopened  Event = "reopened"
	EventEdited    Event = "edited"
	EventDeleted   Event = "deleted"
)

// Store loads and saves boards.
type Store interface {
	Load(ctx context.Context) (*task.Board, *storage.LoadReport, error)
	Save(ctx context.Context, b *task.Board) error
}

// Form holds the values typed into the new-task form.
type Form struct {
	Title string
	Desc  string
}

// EditSession is an open in-place edit of one task.
type EditSession struct {
	TaskID string
	Title  string
	Desc   string
}

// State is everything the controller owns.
type State struct {
	Board *task.Board
	Form  Form
	Edit  *EditSession
}

// Options configures a controller.
type Options struct {
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// Logger receives diagnostics. Defaults to discarding.
	Logger *log.Logger
	// HookCommand runs after every successful save when set.
	HookCommand string
	// WorkDir is the hook working directory.
	WorkDir string
}

// Controller applies user actions to the state and saves after each one.
type Controller struct {
	state   State
	store   Store
	ids     *task.IDGenerator
	now     func() time.Time
	logger  *log.Logger
	hook    string
	workDir string
}

// Open loads the board from store and returns a controller for it.
func Open(ctx context.Context, store Store, opts Options) (*Controller, *storage.LoadReport, error) {
	if store == nil {
		return nil, nil, fmt.Errorf("store is nil")
	}
	board, report, err := store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return newController(store, board, opts), report, nil
}

func newController(store Store, board *task.Board, opts Options) *Controller {
	clock := opts.Now
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if board == nil {
		board = task.NewBoard()
	}
	// Snapshots keep millisecond precision; match it so reloads compare equal.
	now := func() time.Time {
		return clock().UTC().Truncate(time.Millisecond)
	}
	ids := task.NewIDGenerator(now)
	ids.ObserveBoard(board)

	return &Controller{
		state:   State{Board: board},
		store:   store,
		ids:     ids,
		now:     now,
		logger:  logger,
		hook:    opts.HookCommand,
		workDir: opts.WorkDir,
	}
}

// Pending returns the pending tasks in order.
func (c *Controller) Pending() []task.Task {
	return c.state.Board.Pending()
}

// Completed returns the completed tasks in order.
func (c *Controller) Completed() []task.Task {
	return c.state.Board.Completed()
}

// Find returns the task with the given ID.
func (c *Controller) Find(id string) (task.Task, bool) {
	t, _, _, ok := c.state.Board.Find(id)
	return t, ok
}

// Form returns the current form values.
func (c *Controller) Form() Form {
	return c.state.Form
}

// SetForm replaces the form values.
func (c *Controller) SetForm(title, desc string) {
	c.state.Form = Form{Title: title, Desc: desc}
}

// Submit creates a task from the form. An empty title or description leaves
// the board and the form untouched and returns task.ErrEmptyField. On success
// the task is appended to the pending collection and the form is cleared.
func (c *Controller) Submit(ctx context.Context) (task.Task, error) {
	t, err := task.New(c.ids.Next(), c.state.Form.Title, c.state.Form.Desc, c.now())
	if err != nil {
		return task.Task{}, err
	}
	if err := c.state.Board.Add(t); err != nil {
		return task.Task{}, err
	}
	c.state.Form = Form{}
	c.logger.Debug("task created", "id", t.ID, "title", t.Title)
	return t, c.persist(ctx, EventCreated, t.ID)
}

// Toggle moves a task to the completed collection or back to pending.
func (c *Controller) Toggle(ctx context.Context, id string, completed bool) (task.Task, error) {
	if c.editing(id) {
		return task.Task{}, ErrEditInProgress
	}
	before, ok := c.Find(id)
	if !ok {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}
	if before.IsCompleted == completed {
		return before, nil
	}

	t, err := c.state.Board.Toggle(id, completed, c.now())
	if err != nil {
		return task.Task{}, err
	}
	event := EventReopened
	if completed {
		event = EventCompleted
	}
	c.logger.Debug("task "+string(event), "id", id)
	return t, c.persist(ctx, event, id)
}

// Complete marks a task completed.
func (c *Controller) Complete(ctx context.Context, id string) (task.Task, error) {
	return c.Toggle(ctx, id, true)
}

// Undo moves a completed task back to pending.
func (c *Controller) Undo(ctx context.Context, id string) (task.Task, error) {
	return c.Toggle(ctx, id, false)
}

// Delete removes a task from whichever collection holds it.
func (c *Controller) Delete(ctx context.Context, id string) (task.Task, error) {
	if c.editing(id) {
		return task.Task{}, ErrEditInProgress
	}
	t, err := c.state.Board.Remove(id)
	if err != nil {
		return task.Task{}, err
	}
	c.logger.Debug("task deleted", "id", id)
	return t, c.persist(ctx, EventDeleted, id)
}

// persist saves the board and runs the hook. A save failure is logged and
// returned wrapped in ErrPersist.
func (c *Controller) persist(ctx context.Context, event Event, id string) error {
	if err := c.store.Save(ctx, c.state.Board); err != nil {
		c.logger.Error("save failed", "event", event, "id", id, "err", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	c.runHook(ctx, event, id)
	return nil
}

func (c *Controller) runHook(ctx context.Context, event Event, id string) {
	if c.hook == "" {
		return
	}
	result, err := hooks.Invoke(ctx, hooks.Options{
		Command: c.hook,
		Event:   string(event),
		TaskID:  id,
		WorkDir: c.workDir,
	})
	if err != nil {
		c.logger.Warn("hook failed", "event", event, "id", id, "exit_code", result.ExitCode, "err", err, "output", result.Output)
		return
	}
	c.logger.Debug("hook ran", "event", event, "id", id, "output", result.Output)
}
