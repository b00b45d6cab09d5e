// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskboard/internal/app"
	"github.com/nibzard/taskboard/internal/render"
	"github.com/nibzard/taskboard/internal/task"
)

// RunTUI starts the interactive board for ctrl. It requires a terminal.
func RunTUI(ctx context.Context, ctrl *app.Controller, opts render.Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(newTUIModel(ctx, ctrl, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// focus is the part of the screen receiving keys.
type focus int

const (
	focusTitle focus = iota
	focusDesc
	focusPending
	focusCompleted
	focusCount
)

const inputCharLimit = 256

type tuiModel struct {
	ctx  context.Context
	ctrl *app.Controller
	opts render.Options

	title textinput.Model
	desc  textinput.Model

	// Inputs of the open edit session. editField is 0 for title, 1 for desc.
	editTitle textinput.Model
	editDesc  textinput.Model
	editField int

	focus     focus
	cursor    [2]int
	status    string
	statusErr bool
	showHelp  bool
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = inputCharLimit
	ti.Width = 48
	return ti
}

func newTUIModel(ctx context.Context, ctrl *app.Controller, opts render.Options) *tuiModel {
	m := &tuiModel{
		ctx:       ctx,
		ctrl:      ctrl,
		opts:      opts,
		title:     newInput("Title"),
		desc:      newInput("Description"),
		editTitle: newInput("Title"),
		editDesc:  newInput("Description"),
	}
	m.title.Prompt = "Title: "
	m.desc.Prompt = "Desc:  "
	m.editTitle.Prompt = ""
	m.editDesc.Prompt = ""
	m.title.Focus()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 12
		if width < 20 {
			width = 20
		}
		m.title.Width, m.desc.Width = width, width
		m.editTitle.Width, m.editDesc.Width = width, width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if _, editing := m.ctrl.Editing(); editing {
			return m.updateEditing(msg)
		}
		if m.focus == focusTitle || m.focus == focusDesc {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

// updateForm handles keys while a form input has focus.
func (m *tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "ctrl+s":
		m.submit()
		return m, nil
	case "enter":
		if m.focus == focusTitle {
			m.setFocus(focusDesc)
			return m, nil
		}
		m.submit()
		return m, nil
	case "esc":
		m.setFocus(focusPending)
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

// updateList handles keys while one of the task lists has focus.
func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?", "h":
		m.showHelp = !m.showHelp
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
	case "a", "n":
		m.setFocus(focusTitle)
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "c", " ":
		if t, ok := m.selected(); ok {
			_, err := m.ctrl.Toggle(m.ctx, t.ID, !t.IsCompleted)
			verb := "Completed"
			if t.IsCompleted {
				verb = "Reopened"
			}
			m.report(verb+" "+t.Title, err)
			m.clampCursors()
		}
	case "e":
		if t, ok := m.selected(); ok {
			m.beginEdit(t)
		}
	case "d", "x":
		if t, ok := m.selected(); ok {
			_, err := m.ctrl.Delete(m.ctx, t.ID)
			m.report("Deleted "+t.Title, err)
			m.clampCursors()
		}
	}
	return m, nil
}

// updateEditing handles keys while an edit session is open.
func (m *tuiModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.CancelEdit()
		m.blurEdit()
		m.report("Edit cancelled", nil)
		return m, nil
	case "tab", "shift+tab":
		m.editField = 1 - m.editField
		m.focusEditField()
		return m, nil
	case "enter", "ctrl+s":
		if err := m.ctrl.SetEditFields(m.editTitle.Value(), m.editDesc.Value()); err != nil {
			m.report("", err)
			return m, nil
		}
		t, err := m.ctrl.SaveEdit(m.ctx)
		if errors.Is(err, task.ErrEmptyField) {
			// The session stays open so the user can fix the value.
			m.report("", err)
			return m, nil
		}
		m.blurEdit()
		m.report("Saved "+t.Title, err)
		return m, nil
	}

	var cmd tea.Cmd
	if m.editField == 0 {
		m.editTitle, cmd = m.editTitle.Update(msg)
	} else {
		m.editDesc, cmd = m.editDesc.Update(msg)
	}
	return m, cmd
}

func (m *tuiModel) submit() {
	m.ctrl.SetForm(m.title.Value(), m.desc.Value())
	t, err := m.ctrl.Submit(m.ctx)
	if errors.Is(err, task.ErrEmptyField) {
		// Rejected: the inputs keep their text.
		return
	}
	m.title.Reset()
	m.desc.Reset()
	m.setFocus(focusTitle)
	m.report("Added "+t.Title, err)
}

func (m *tuiModel) beginEdit(t task.Task) {
	s, err := m.ctrl.BeginEdit(t.ID)
	if err != nil {
		m.report("", err)
		return
	}
	m.editTitle.SetValue(s.Title)
	m.editDesc.SetValue(s.Desc)
	m.editField = 0
	m.focusEditField()
	m.status = ""
}

func (m *tuiModel) focusEditField() {
	if m.editField == 0 {
		m.editTitle.Focus()
		m.editDesc.Blur()
		return
	}
	m.editDesc.Focus()
	m.editTitle.Blur()
}

func (m *tuiModel) blurEdit() {
	m.editTitle.Blur()
	m.editDesc.Blur()
}

func (m *tuiModel) setFocus(f focus) {
	m.focus = f
	m.title.Blur()
	m.desc.Blur()
	switch f {
	case focusTitle:
		m.title.Focus()
	case focusDesc:
		m.desc.Focus()
	}
}

// report sets the status line. A persistence error still means the change
// was applied, so both the message and the error are shown.
func (m *tuiModel) report(msg string, err error) {
	switch {
	case err == nil:
		m.status, m.statusErr = msg, false
	case errors.Is(err, app.ErrPersist) && msg != "":
		m.status, m.statusErr = msg+" ("+err.Error()+")", true
	default:
		m.status, m.statusErr = err.Error(), true
	}
}

// tasks returns the tasks of the focused list, or nil when the form has focus.
func (m *tuiModel) tasks() []task.Task {
	switch m.focus {
	case focusPending:
		return m.ctrl.Pending()
	case focusCompleted:
		return m.ctrl.Completed()
	}
	return nil
}

func (m *tuiModel) listIndex() int {
	return listIndexFor(m.focus)
}

func (m *tuiModel) selected() (task.Task, bool) {
	tasks := m.tasks()
	if len(tasks) == 0 {
		return task.Task{}, false
	}
	i := clampCursor(m.cursor[m.listIndex()], len(tasks))
	return tasks[i], true
}

func (m *tuiModel) moveCursor(delta int) {
	tasks := m.tasks()
	if tasks == nil {
		return
	}
	i := m.listIndex()
	m.cursor[i] = clampCursor(m.cursor[i]+delta, len(tasks))
}

func (m *tuiModel) clampCursors() {
	m.cursor[0] = clampCursor(m.cursor[0], len(m.ctrl.Pending()))
	m.cursor[1] = clampCursor(m.cursor[1], len(m.ctrl.Completed()))
}

func clampCursor(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	b.WriteString(sectionStyle(m.focus == focusTitle || m.focus == focusDesc).Render("New task") + "\n\n")
	b.WriteString("  " + m.title.View() + "\n")
	b.WriteString("  " + m.desc.View() + "\n\n")

	session, editing := m.ctrl.Editing()
	b.WriteString(m.renderList("Pending", m.ctrl.Pending(), focusPending, session, editing))
	b.WriteString("\n")
	b.WriteString(m.renderList("Completed", m.ctrl.Completed(), focusCompleted, session, editing))
	b.WriteString("\n")

	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status) + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func (m *tuiModel) renderList(title string, tasks []task.Task, f focus, session app.EditSession, editing bool) string {
	cursor := -1
	if m.focus == f && len(tasks) > 0 {
		cursor = clampCursor(m.cursor[listIndexFor(f)], len(tasks))
	}
	units := make([]render.Unit, 0, len(tasks))
	for i, t := range tasks {
		v := render.View{Selected: i == cursor}
		if editing && session.TaskID == t.ID {
			v = render.View{
				Mode:      render.ModeEditing,
				Selected:  true,
				EditTitle: m.editTitle.View(),
				EditDesc:  m.editDesc.View(),
			}
		}
		units = append(units, render.Render(t, v, m.opts))
	}
	header := fmt.Sprintf("%s (%d)", title, len(tasks))
	if m.focus == f {
		header = "▸ " + header
	}
	return render.RenderList(header, units)
}

func listIndexFor(f focus) int {
	if f == focusCompleted {
		return 1
	}
	return 0
}

func writeTitle(b *strings.Builder) {
	title := "Taskboard"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  tab, shift+tab  Move between form, pending and completed\n")
	b.WriteString("  enter           Next field / add task (form), save (edit)\n")
	b.WriteString("  ctrl+s          Add task (form), save (edit)\n")
	b.WriteString("  up/k, down/j    Move selection\n")
	b.WriteString("  c, space        Complete or undo the selected task\n")
	b.WriteString("  e               Edit the selected task\n")
	b.WriteString("  d, x            Delete the selected task\n")
	b.WriteString("  a, n            Jump to the new task form\n")
	b.WriteString("  esc             Cancel edit / leave the form\n")
	b.WriteString("  ?, h            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c       Quit\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render("Press ? for help | tab to switch | q to quit") + "\n")
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	idleStyle   = lipgloss.NewStyle().Bold(true)
)

func sectionStyle(active bool) lipgloss.Style {
	if active {
		return activeStyle
	}
	return idleStyle
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
