package tui

import (
	"fmt"
	"strings"

	"taskline/internal/docs"
	"taskline/internal/engine"
	"taskline/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeNormal mode = iota
	modeAdding
	modeEditing
)

// engineChangedMsg arrives whenever the engine committed new visible state,
// including deferred filter commits that happen after SetFilter returned.
type engineChangedMsg struct{}

type appModel struct {
	eng *engine.Engine

	width  int
	height int

	mode     mode
	cursor   int
	editID   string
	input    textinput.Model
	showHelp bool

	state engine.State
}

func newAppModel(eng *engine.Engine) appModel {
	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.Prompt = "> "

	m := appModel{
		eng:   eng,
		input: input,
		state: eng.State(),
	}
	return m
}

func (m appModel) Init() tea.Cmd { return waitChanges(m.eng) }

func waitChanges(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		<-eng.Changes()
		return engineChangedMsg{}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := m.width - 6
		if w < 20 {
			w = 20
		}
		m.input.Width = w
		return m, nil

	case engineChangedMsg:
		m.refresh()
		return m, waitChanges(m.eng)

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "?", "esc", "q", "ctrl+c":
				m.showHelp = false
			}
			return m, nil
		}
		switch m.mode {
		case modeAdding, modeEditing:
			return m.updateInputMode(msg)
		default:
			return m.updateNormalMode(msg)
		}
	}
	return m, nil
}

func (m appModel) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.input.Value()
		if m.mode == modeAdding {
			m.eng.AddTask(text)
		} else {
			// Empty text cancels the edit; the engine keeps the prior value.
			m.eng.EditTask(m.editID, text)
		}
		m.leaveInputMode()
		m.refresh()
		return m, nil
	case "esc":
		m.leaveInputMode()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m appModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "a":
		m.mode = modeAdding
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case "e":
		if t, ok := m.selected(); ok {
			m.mode = modeEditing
			m.editID = t.ID
			m.input.SetValue(t.Text)
			m.input.CursorEnd()
			m.input.Focus()
			return m, textinput.Blink
		}
	case " ", "x":
		if t, ok := m.selected(); ok {
			m.eng.ToggleTask(t.ID)
			m.refresh()
		}
	case "d":
		if t, ok := m.selected(); ok {
			m.eng.DeleteTask(t.ID)
			m.refresh()
		}
	case "C":
		m.eng.ClearCompleted()
		m.refresh()
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "f":
		m.setFilter(nextFilter(m.state.Filter))
	case "1":
		m.setFilter(model.FilterAll)
	case "2":
		m.setFilter(model.FilterActive)
	case "3":
		m.setFilter(model.FilterCompleted)
	case "?":
		m.showHelp = true
	}
	return m, nil
}

// setFilter hands the criterion to the engine and refreshes immediately: the
// filter value and pending flag are observable right away, while the new
// visible sequence arrives later via engineChangedMsg.
func (m *appModel) setFilter(f model.Filter) {
	m.eng.SetFilter(f)
	m.refresh()
}

func nextFilter(f model.Filter) model.Filter {
	switch f {
	case model.FilterAll:
		return model.FilterActive
	case model.FilterActive:
		return model.FilterCompleted
	default:
		return model.FilterAll
	}
}

func (m *appModel) leaveInputMode() {
	m.mode = modeNormal
	m.editID = ""
	m.input.Blur()
	m.input.SetValue("")
}

func (m *appModel) refresh() {
	m.state = m.eng.State()
	if m.cursor >= len(m.state.Visible) {
		m.cursor = len(m.state.Visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if max := len(m.state.Visible) - 1; m.cursor > max {
		if max < 0 {
			max = 0
		}
		m.cursor = max
	}
}

func (m appModel) selected() (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Visible) {
		return model.Task{}, false
	}
	return m.state.Visible[m.cursor], true
}

func (m appModel) View() string {
	if m.showHelp {
		return m.viewHelp()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	if m.mode == modeAdding || m.mode == modeEditing {
		label := "Add task"
		if m.mode == modeEditing {
			label = "Edit task (empty cancels)"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(colorMuted).Render(label))
		b.WriteString("\n")
		b.WriteString(renderInputLine(m.bodyWidth(), m.input.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.viewTasks())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m appModel) viewHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("taskline")
	if m.state.Pending {
		return title + " " + lipgloss.NewStyle().Foreground(colorMuted).Render(glyphEllipsis())
	}
	return title
}

func (m appModel) viewTasks() string {
	vis := m.state.Visible
	if len(vis) == 0 {
		msg := "Nothing here. Press a to add a task."
		if m.state.Stats.Total > 0 {
			msg = fmt.Sprintf("No %s tasks.", m.state.Filter)
		}
		return lipgloss.NewStyle().Foreground(colorMuted).Render(msg) + "\n"
	}

	var b strings.Builder
	for i, t := range vis {
		b.WriteString(m.renderRow(t, i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) renderRow(t model.Task, selected bool) string {
	box := glyphUnchecked()
	if t.Completed {
		box = glyphChecked()
	}

	text := t.Text
	textStyle := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	if t.Completed {
		textStyle = lipgloss.NewStyle().Foreground(colorDoneFg).Strikethrough(true)
	}

	row := " " + box + " " + textStyle.Render(text) + " "
	if selected {
		return lipgloss.NewStyle().
			Background(colorSelectedBg).
			Foreground(colorSelectedFg).
			Render(row)
	}
	return row
}

func (m appModel) viewFooter() string {
	tabs := m.viewFilterTabs()

	st := m.state.Stats
	counts := fmt.Sprintf("%d active %s %d done %s %d total",
		st.Active, glyphDot(), st.Completed, glyphDot(), st.Total)
	stats := lipgloss.NewStyle().Foreground(colorMuted).Render(counts)

	hints := faintIfDark(lipgloss.NewStyle().Foreground(colorMuted)).
		Render("a add  e edit  space toggle  d delete  C clear  f filter  ? help  q quit")

	return strings.Join([]string{tabs, stats, hints}, "\n")
}

func (m appModel) viewFilterTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	var parts []string
	for _, f := range []model.Filter{model.FilterAll, model.FilterActive, model.FilterCompleted} {
		label := tabLabel(f)
		if f == m.state.Filter {
			parts = append(parts, active.Render(label))
		} else {
			parts = append(parts, inactive.Render(label))
		}
	}
	row := strings.Join(parts, " ")

	// While the deferred filter recomputation is outstanding, dim the tabs so
	// it is visible that the list has not caught up yet.
	if m.state.Pending {
		return lipgloss.NewStyle().Faint(true).Render(row) + " " + glyphEllipsis()
	}
	return row
}

func tabLabel(f model.Filter) string {
	switch f {
	case model.FilterActive:
		return "Active"
	case model.FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

func (m appModel) viewHelp() string {
	body, ok := docs.Get("keys")
	if !ok {
		body = "No help available."
	}
	rendered := renderMarkdown(body, m.bodyWidth())
	hint := faintIfDark(lipgloss.NewStyle().Foreground(colorMuted)).Render("?: close help")
	return rendered + "\n\n" + hint
}

func (m appModel) bodyWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	return w
}
