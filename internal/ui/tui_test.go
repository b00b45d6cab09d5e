package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskboard/internal/app"
	"github.com/nibzard/taskboard/internal/render"
	"github.com/nibzard/taskboard/internal/storage"
	"github.com/nibzard/taskboard/internal/task"
)

func newTestModel(t *testing.T) (*tuiModel, *app.Controller) {
	t.Helper()
	adapter, err := storage.NewAdapter(storage.NewMemory(), "", nil)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ctrl, _, err := app.Open(context.Background(), adapter, app.Options{Now: func() time.Time { return clock }})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return newTUIModel(context.Background(), ctrl, render.Options{TimeFormat: "15:04:05", Location: time.UTC}), ctrl
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *tuiModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func addTask(t *testing.T, m *tuiModel, title, desc string) {
	t.Helper()
	m.setFocus(focusTitle)
	send(m, runes(title), key(tea.KeyEnter), runes(desc), key(tea.KeyEnter))
}

func TestFormSubmit(t *testing.T) {
	m, ctrl := newTestModel(t)
	addTask(t, m, "Buy milk", "two litres")

	pending := ctrl.Pending()
	if len(pending) != 1 || pending[0].Title != "Buy milk" || pending[0].Desc != "two litres" {
		t.Fatalf("pending: %+v", pending)
	}
	if m.title.Value() != "" || m.desc.Value() != "" {
		t.Errorf("form not cleared: %q %q", m.title.Value(), m.desc.Value())
	}
	if m.focus != focusTitle {
		t.Errorf("focus after submit: %v", m.focus)
	}
}

func TestFormRejectsEmpty(t *testing.T) {
	m, ctrl := newTestModel(t)
	send(m, runes("Only title"), key(tea.KeyCtrlS))

	if n := len(ctrl.Pending()); n != 0 {
		t.Fatalf("empty description accepted, %d tasks", n)
	}
	if m.title.Value() != "Only title" {
		t.Errorf("rejected submit cleared the title: %q", m.title.Value())
	}
	if m.status != "" {
		t.Errorf("rejected submit set status %q", m.status)
	}
}

func TestToggleMovesBetweenLists(t *testing.T) {
	m, ctrl := newTestModel(t)
	addTask(t, m, "a", "a")
	addTask(t, m, "b", "b")

	send(m, key(tea.KeyTab), key(tea.KeyTab)) // title -> desc -> pending
	if m.focus != focusPending {
		t.Fatalf("focus: %v", m.focus)
	}
	send(m, runes("j"), runes("c"))

	if p := ctrl.Pending(); len(p) != 1 || p[0].Title != "a" {
		t.Errorf("pending: %+v", p)
	}
	if c := ctrl.Completed(); len(c) != 1 || c[0].Title != "b" || c[0].CompletedAt == nil {
		t.Errorf("completed: %+v", c)
	}
	if m.cursor[0] != 0 {
		t.Errorf("cursor not clamped: %d", m.cursor[0])
	}

	send(m, key(tea.KeyTab), key(tea.KeySpace))
	if len(ctrl.Completed()) != 0 || len(ctrl.Pending()) != 2 {
		t.Errorf("undo did not move the task back")
	}
	if !strings.Contains(m.status, "Reopened b") {
		t.Errorf("status: %q", m.status)
	}
}

func TestEditSaveAndCancel(t *testing.T) {
	m, ctrl := newTestModel(t)
	addTask(t, m, "a", "a")
	m.setFocus(focusPending)

	send(m, runes("e"))
	if _, ok := ctrl.Editing(); !ok {
		t.Fatal("edit session not opened")
	}
	if m.editTitle.Value() != "a" {
		t.Errorf("edit input not seeded: %q", m.editTitle.Value())
	}

	// Keys go to the edit inputs, so "d" does not delete.
	send(m, runes("d"), key(tea.KeyEnter))
	if got := ctrl.Pending()[0]; got.Title != "ad" {
		t.Errorf("edited title: %q", got.Title)
	}
	if _, ok := ctrl.Editing(); ok {
		t.Error("session still open after save")
	}

	send(m, runes("e"), runes("zzz"), key(tea.KeyEsc))
	if got := ctrl.Pending()[0]; got.Title != "ad" {
		t.Errorf("cancel changed title: %q", got.Title)
	}
	if _, ok := ctrl.Editing(); ok {
		t.Error("session still open after cancel")
	}
}

func TestEditEmptyKeepsSession(t *testing.T) {
	m, ctrl := newTestModel(t)
	addTask(t, m, "a", "a")
	m.setFocus(focusPending)

	send(m, runes("e"))
	m.editTitle.SetValue("   ")
	send(m, key(tea.KeyEnter))

	if _, ok := ctrl.Editing(); !ok {
		t.Fatal("session closed on empty title")
	}
	if !m.statusErr {
		t.Errorf("expected error status, got %q", m.status)
	}
	if got := ctrl.Pending()[0]; got.Title != "a" {
		t.Errorf("task changed: %+v", got)
	}
}

func TestDelete(t *testing.T) {
	m, ctrl := newTestModel(t)
	addTask(t, m, "a", "a")
	addTask(t, m, "b", "b")
	m.setFocus(focusPending)

	send(m, runes("x"))
	if p := ctrl.Pending(); len(p) != 1 || p[0].Title != "b" {
		t.Errorf("pending after delete: %+v", p)
	}
	send(m, runes("d"))
	if len(ctrl.Pending()) != 0 {
		t.Errorf("second delete failed")
	}
	// Nothing selected: further deletes are ignored.
	send(m, runes("d"))
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)

	// "q" is typed into the form.
	send(m, runes("q"))
	if m.title.Value() != "q" {
		t.Errorf("title: %q", m.title.Value())
	}

	m.setFocus(focusPending)
	cmd := send(m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit from the list")
	}
}

func TestView(t *testing.T) {
	m, ctrl := newTestModel(t)
	view := m.View()
	for _, want := range []string{"Taskboard", "New task", "Pending (0)", "Completed (0)", "(none)"} {
		if !strings.Contains(view, want) {
			t.Errorf("empty view missing %q:\n%s", want, view)
		}
	}

	addTask(t, m, "Buy milk", "two litres")
	tk := ctrl.Pending()[0]
	if _, err := ctrl.Complete(context.Background(), tk.ID); err != nil {
		t.Fatal(err)
	}
	m.setFocus(focusCompleted)
	view = m.View()
	for _, want := range []string{"Completed (1)", "Buy milk", "two litres", "Created: 12:00:00", "Completed: 12:00:00", "Undo"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	send(m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help not shown")
	}
}

func TestPersistErrorShownInStatus(t *testing.T) {
	ctrl, _, err := app.Open(context.Background(), brokenStore{}, app.Options{})
	if err != nil {
		t.Fatal(err)
	}
	m := newTUIModel(context.Background(), ctrl, render.Options{})
	addTask(t, m, "a", "a")

	if len(ctrl.Pending()) != 1 {
		t.Fatal("task not added in memory")
	}
	if !m.statusErr || !strings.Contains(m.status, "could not be saved") {
		t.Errorf("status: %q", m.status)
	}
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) (*task.Board, *storage.LoadReport, error) {
	return task.NewBoard(), &storage.LoadReport{}, nil
}

func (brokenStore) Save(context.Context, *task.Board) error {
	return context.DeadlineExceeded
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer reported as TTY")
	}
}
