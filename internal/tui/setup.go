package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zattend/internal/setup"
)

const (
	setupSchool = iota
	setupClass
	setupStudents
	setupFieldCount
)

var setupLabels = [setupFieldCount]string{
	"school",
	"class",
	"students",
}

// setupModel edits the class setup form.
type setupModel struct {
	inputs  [setupFieldCount]textinput.Model
	focused int
}

// saveSetupMsg asks the root model to store the form.
type saveSetupMsg struct {
	data setup.Data
}

func newSetupModel(d setup.Data) setupModel {
	var m setupModel
	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 50
		m.inputs[i] = ti
	}

	m.inputs[setupSchool].Placeholder = "Demo School"
	m.inputs[setupClass].Placeholder = "7B"
	m.inputs[setupStudents].Placeholder = "Ann, Ben, Cy"
	m.inputs[setupStudents].CharLimit = 2048

	m.inputs[setupSchool].SetValue(d.School)
	m.inputs[setupClass].SetValue(d.ClassName)
	m.inputs[setupStudents].SetValue(strings.Join(d.Students, ", "))

	return m.focus(setupSchool)
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) Update(msg tea.Msg) (setupModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlS:
			return m, m.save()
		case tea.KeyTab, tea.KeyDown:
			return m.focus((m.focused + 1) % setupFieldCount), nil
		case tea.KeyShiftTab, tea.KeyUp:
			return m.focus((m.focused + setupFieldCount - 1) % setupFieldCount), nil
		}

		if key.Matches(msg, zstyle.KeyBack) {
			return m, func() tea.Msg { return navigateMsg{view: viewDashboard} }
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			if m.focused < setupFieldCount-1 {
				return m.focus(m.focused + 1), nil
			}
			return m, m.save()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m setupModel) focus(i int) setupModel {
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	m.focused = i
	return m
}

func (m setupModel) data() setup.Data {
	return setup.Data{
		School:    m.inputs[setupSchool].Value(),
		ClassName: m.inputs[setupClass].Value(),
		Students:  setup.ParseStudents(m.inputs[setupStudents].Value()),
	}
}

func (m setupModel) save() tea.Cmd {
	d := m.data()
	return func() tea.Msg { return saveSetupMsg{data: d} }
}

func (m setupModel) View() string {
	s := "\n"
	for i, in := range m.inputs {
		label := zstyle.MutedText.Render(fmt.Sprintf("%-10s", setupLabels[i]))
		if i == m.focused {
			label = zstyle.Highlight.Render(fmt.Sprintf("%-10s", setupLabels[i]))
		}
		s += fmt.Sprintf("  %s %s\n", label, in.View())
	}
	s += "\n  " + zstyle.MutedText.Render("students are comma separated") + "\n"
	return s
}
