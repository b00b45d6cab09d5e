// Package render turns tasks into display units for the terminal UI and the
// list command. It is a pure projection: nothing rendered here is ever read
// back into the board.
package render

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskboard/internal/task"
)

// DefaultTimeFormat is the layout used for Created/Completed lines.
const DefaultTimeFormat = "Jan 2, 2006 3:04:05 PM"

// Mode selects how a task is drawn.
type Mode int

const (
	// ModeNormal shows the stored title and description.
	ModeNormal Mode = iota
	// ModeEditing shows in-progress values and the Save/Cancel controls.
	ModeEditing
)

// Control is an action offered on a rendered task.
type Control string

const (
	ControlComplete Control = "Complete"
	ControlUndo     Control = "Undo"
	ControlEdit     Control = "Edit"
	ControlDelete   Control = "Delete"
	ControlSave     Control = "Save"
	ControlCancel   Control = "Cancel"
)

// Key returns the key binding the terminal UI uses for the control.
func (c Control) Key() string {
	switch c {
	case ControlComplete, ControlUndo:
		return "c"
	case ControlEdit:
		return "e"
	case ControlDelete:
		return "d"
	case ControlSave:
		return "enter"
	case ControlCancel:
		return "esc"
	}
	return ""
}

// Options controls timestamp formatting.
type Options struct {
	TimeFormat string
	// Location defaults to time.Local.
	Location *time.Location
}

func (o Options) format(t time.Time) string {
	layout := o.TimeFormat
	if layout == "" {
		layout = DefaultTimeFormat
	}
	loc := o.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}

// View describes the presentation state of one task.
type View struct {
	Mode     Mode
	Selected bool
	// EditTitle and EditDesc are drawn instead of the stored values in
	// ModeEditing.
	EditTitle string
	EditDesc  string
}

// Unit is a rendered task.
type Unit struct {
	ID          string
	Title       string
	Desc        string
	Created     string
	Completed   string
	IsCompleted bool
	Editing     bool
	Selected    bool
	Controls    []Control
}

// Render projects a task into a Unit.
func Render(t task.Task, v View, opts Options) Unit {
	u := Unit{
		ID:          t.ID,
		Title:       t.Title,
		Desc:        t.Desc,
		Created:     "Created: " + opts.format(t.CreatedAt),
		IsCompleted: t.IsCompleted,
		Selected:    v.Selected,
	}
	if t.CompletedAt != nil {
		u.Completed = "Completed: " + opts.format(*t.CompletedAt)
	}

	switch {
	case v.Mode == ModeEditing:
		u.Editing = true
		u.Title = v.EditTitle
		u.Desc = v.EditDesc
		u.Controls = []Control{ControlSave, ControlCancel}
	case t.IsCompleted:
		u.Controls = []Control{ControlUndo, ControlEdit, ControlDelete}
	default:
		u.Controls = []Control{ControlComplete, ControlEdit, ControlDelete}
	}
	return u
}

// HasControl reports whether c is offered on the unit.
func (u Unit) HasControl(c Control) bool {
	for _, have := range u.Controls {
		if have == c {
			return true
		}
	}
	return false
}

// String draws the unit. Controls are shown only on the selected unit.
func (u Unit) String() string {
	var b strings.Builder

	marker := "  "
	if u.Selected {
		marker = cursorStyle.Render("> ")
	}
	title := titleStyle.Render(u.Title)
	if u.IsCompleted && !u.Editing {
		title = doneTitleStyle.Render(u.Title)
	}
	b.WriteString(marker + title + "  " + metaStyle.Render("#"+u.ID) + "\n")
	b.WriteString("    " + descStyle.Render(u.Desc) + "\n")
	b.WriteString("    " + metaStyle.Render(u.Created) + "\n")
	if u.Completed != "" {
		b.WriteString("    " + metaStyle.Render(u.Completed) + "\n")
	}
	if u.Selected {
		b.WriteString("    " + renderControls(u.Controls) + "\n")
	}
	return b.String()
}

func renderControls(controls []Control) string {
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		parts = append(parts, buttonStyle.Render("["+c.Key()+"] "+string(c)))
	}
	return strings.Join(parts, " ")
}

// RenderList draws a titled collection. An empty collection shows "(none)".
func RenderList(title string, units []Unit) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title) + "\n\n")
	if len(units) == 0 {
		b.WriteString("  " + metaStyle.Render("(none)") + "\n")
		return b.String()
	}
	for _, u := range units {
		b.WriteString(u.String())
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTasks renders every task in normal mode, marking the one at
// selected (use -1 for none).
func RenderTasks(tasks []task.Task, selected int, opts Options) []Unit {
	units := make([]Unit, 0, len(tasks))
	for i, t := range tasks {
		units = append(units, Render(t, View{Selected: i == selected}, opts))
	}
	return units
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	doneTitleStyle = lipgloss.NewStyle().Bold(true).Strikethrough(true).Foreground(lipgloss.Color("241"))
	descStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	buttonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("62")).Padding(0, 1)
)
