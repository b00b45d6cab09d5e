package task

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func mustNew(t *testing.T, id, title, desc string) Task {
	t.Helper()
	tk, err := New(id, title, desc, t0)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", id, err)
	}
	return tk
}

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(got []Task, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestNewTrimsAndRejectsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		desc    string
		wantErr bool
	}{
		{name: "valid", title: "  Buy milk ", desc: " 2 litres\n"},
		{name: "empty title", title: "", desc: "desc", wantErr: true},
		{name: "blank title", title: "   ", desc: "desc", wantErr: true},
		{name: "empty desc", title: "title", desc: "", wantErr: true},
		{name: "blank desc", title: "title", desc: "\t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk, err := New("1", tt.title, tt.desc, t0)
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyField) {
					t.Fatalf("New() error = %v, want ErrEmptyField", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if tk.Title != "Buy milk" || tk.Desc != "2 litres" {
				t.Errorf("fields not trimmed: %q / %q", tk.Title, tk.Desc)
			}
			if tk.IsCompleted || tk.CompletedAt != nil {
				t.Errorf("new task should be pending with no completedAt")
			}
		})
	}
}

func TestAddAppendsInOrder(t *testing.T) {
	b := NewBoard()
	for _, id := range []string{"1", "2", "3"} {
		if err := b.Add(mustNew(t, id, "t"+id, "d"+id)); err != nil {
			t.Fatalf("Add(%s) failed: %v", id, err)
		}
	}
	if !equalIDs(b.Pending(), "1", "2", "3") {
		t.Errorf("pending order: got %v", ids(b.Pending()))
	}
	if len(b.Completed()) != 0 {
		t.Errorf("completed should be empty")
	}

	if err := b.Add(mustNew(t, "2", "dup", "dup")); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Add duplicate: got %v, want ErrDuplicateID", err)
	}
}

func TestToggleMovesBetweenCollections(t *testing.T) {
	b := NewBoard()
	_ = b.Add(mustNew(t, "1", "a", "a"))
	_ = b.Add(mustNew(t, "2", "b", "b"))
	_ = b.Add(mustNew(t, "3", "c", "c"))

	doneAt := t0.Add(time.Hour)
	got, err := b.Toggle("2", true, doneAt)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !got.IsCompleted || got.CompletedAt == nil || !got.CompletedAt.Equal(doneAt) {
		t.Errorf("completed task: got %+v", got)
	}
	if !got.CreatedAt.Equal(t0) {
		t.Errorf("CreatedAt changed: got %v", got.CreatedAt)
	}
	if !equalIDs(b.Pending(), "1", "3") || !equalIDs(b.Completed(), "2") {
		t.Errorf("after complete: pending=%v completed=%v", ids(b.Pending()), ids(b.Completed()))
	}

	// Reverting appends to the end of pending.
	got, err = b.Toggle("2", false, doneAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("Toggle back failed: %v", err)
	}
	if got.IsCompleted || got.CompletedAt != nil {
		t.Errorf("reverted task should have no completedAt: %+v", got)
	}
	if !equalIDs(b.Pending(), "1", "3", "2") || len(b.Completed()) != 0 {
		t.Errorf("after undo: pending=%v completed=%v", ids(b.Pending()), ids(b.Completed()))
	}

	if err := b.Validate(); err != nil {
		t.Errorf("Validate after toggles: %v", err)
	}
}

func TestToggleSameStateIsNoop(t *testing.T) {
	b := NewBoard()
	_ = b.Add(mustNew(t, "1", "a", "a"))
	_ = b.Add(mustNew(t, "2", "b", "b"))

	if _, err := b.Toggle("1", false, t0); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !equalIDs(b.Pending(), "1", "2") {
		t.Errorf("order changed: %v", ids(b.Pending()))
	}
}

func TestToggleUnknown(t *testing.T) {
	b := NewBoard()
	if _, err := b.Toggle("nope", true, t0); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateInPlace(t *testing.T) {
	b := NewBoard()
	_ = b.Add(mustNew(t, "1", "a", "a"))
	_ = b.Add(mustNew(t, "2", "b", "b"))
	_, _ = b.Toggle("1", true, t0.Add(time.Minute))
	_ = b.Add(mustNew(t, "3", "c", "c"))

	before, _, _, _ := b.Find("1")
	got, err := b.Update("1", " new title ", " new desc ")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Title != "new title" || got.Desc != "new desc" {
		t.Errorf("fields: got %q / %q", got.Title, got.Desc)
	}
	if got.ID != before.ID || !got.CreatedAt.Equal(before.CreatedAt) ||
		got.IsCompleted != before.IsCompleted || !got.CompletedAt.Equal(*before.CompletedAt) {
		t.Errorf("update touched more than title/desc: before=%+v after=%+v", before, got)
	}
	if !equalIDs(b.Completed(), "1") || !equalIDs(b.Pending(), "2", "3") {
		t.Errorf("membership changed: pending=%v completed=%v", ids(b.Pending()), ids(b.Completed()))
	}

	if _, err := b.Update("2", "", "x"); !errors.Is(err, ErrEmptyField) {
		t.Errorf("empty title: got %v, want ErrEmptyField", err)
	}
	if tk, _, _, _ := b.Find("2"); tk.Title != "b" {
		t.Errorf("rejected update changed the task: %+v", tk)
	}
	if _, err := b.Update("9", "x", "y"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	b := NewBoard()
	_ = b.Add(mustNew(t, "1", "a", "a"))
	_ = b.Add(mustNew(t, "2", "b", "b"))
	_, _ = b.Toggle("2", true, t0)

	if _, err := b.Remove("2"); err != nil {
		t.Fatalf("Remove completed failed: %v", err)
	}
	if _, err := b.Remove("1"); err != nil {
		t.Fatalf("Remove pending failed: %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("board should be empty, has %d", b.Len())
	}
	if _, err := b.Remove("1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove: got %v, want ErrNotFound", err)
	}
}

func TestCopiesDoNotAlias(t *testing.T) {
	b := NewBoard()
	_ = b.Add(mustNew(t, "1", "a", "a"))
	_, _ = b.Toggle("1", true, t0)

	got := b.Completed()
	got[0].Title = "mutated"
	*got[0].CompletedAt = time.Time{}

	again, _, _, _ := b.Find("1")
	if again.Title != "a" || !again.CompletedAt.Equal(t0) {
		t.Errorf("board mutated through a copy: %+v", again)
	}
}

func TestValidate(t *testing.T) {
	at := t0
	tests := []struct {
		name    string
		board   *Board
		wantErr bool
	}{
		{
			name:  "empty",
			board: NewBoard(),
		},
		{
			name: "pending with completedAt",
			board: &Board{pending: []Task{
				{ID: "1", Title: "a", Desc: "a", CreatedAt: t0, CompletedAt: &at},
			}},
			wantErr: true,
		},
		{
			name: "completed without completedAt",
			board: &Board{completed: []Task{
				{ID: "1", Title: "a", Desc: "a", IsCompleted: true, CreatedAt: t0},
			}},
			wantErr: true,
		},
		{
			name: "completed task in pending",
			board: &Board{pending: []Task{
				{ID: "1", Title: "a", Desc: "a", IsCompleted: true, CreatedAt: t0, CompletedAt: &at},
			}},
			wantErr: true,
		},
		{
			name: "duplicate across collections",
			board: &Board{
				pending:   []Task{{ID: "1", Title: "a", Desc: "a", CreatedAt: t0}},
				completed: []Task{{ID: "1", Title: "a", Desc: "a", IsCompleted: true, CreatedAt: t0, CompletedAt: &at}},
			},
			wantErr: true,
		},
		{
			name: "missing title",
			board: &Board{pending: []Task{
				{ID: "1", Desc: "a", CreatedAt: t0},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.board.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
