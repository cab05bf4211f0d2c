package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zattend/internal/auth"
)

// field names of the sign-in form
const (
	loginFieldEmail    = "email"
	loginFieldPassword = "password"
)

const (
	fieldEmail = iota
	fieldPassword
	loginFieldCount
)

// loginModel is the sign-in form.
type loginModel struct {
	inputs  [loginFieldCount]textinput.Model
	focused int
}

// loginSubmitMsg is sent when the form is submitted.
type loginSubmitMsg struct {
	creds auth.Credentials
}

func newLoginModel() loginModel {
	email := textinput.New()
	email.Placeholder = "name@school.org"
	email.CharLimit = 254
	email.Width = 40
	email.Focus()

	pass := textinput.New()
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '*'
	pass.CharLimit = 128
	pass.Width = 40

	return loginModel{inputs: [loginFieldCount]textinput.Model{email, pass}}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		// only ctrl+c quits; q and friends are ordinary input here
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m.focus((m.focused + 1) % loginFieldCount), nil
		case tea.KeyShiftTab, tea.KeyUp:
			return m.focus((m.focused + loginFieldCount - 1) % loginFieldCount), nil
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			if m.focused == fieldEmail {
				return m.focus(fieldPassword), nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m loginModel) focus(i int) loginModel {
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

func (m loginModel) submit() (loginModel, tea.Cmd) {
	creds := auth.Credentials{
		Email:    m.inputs[fieldEmail].Value(),
		Password: m.inputs[fieldPassword].Value(),
	}
	return m, func() tea.Msg { return loginSubmitMsg{creds: creds} }
}

// failed clears the password and returns focus to the email field so the
// user can correct and resubmit.
func (m loginModel) failed() loginModel {
	m.inputs[fieldPassword].SetValue("")
	return m.focus(fieldEmail)
}

func (m loginModel) View() string {
	indent := lipgloss.NewStyle().MarginLeft(2)
	logo := indent.Render(
		zstyle.StyledLogo(lipgloss.NewStyle().Foreground(accent)),
	)
	toolName := indent.Render(zstyle.MutedText.Render("zattend"))

	s := fmt.Sprintf("\n%s\n%s\n\n  %s\n  %s\n\n",
		logo, toolName,
		zstyle.Title.Render("sign in"),
		zstyle.MutedText.Render("demo mode: any email works, the password is not checked"),
	)

	labels := [loginFieldCount]string{loginFieldEmail, loginFieldPassword}
	for i, in := range m.inputs {
		label := zstyle.MutedText.Render(fmt.Sprintf("%-9s", labels[i]))
		if i == m.focused {
			label = zstyle.Highlight.Render(fmt.Sprintf("%-9s", labels[i]))
		}
		s += fmt.Sprintf("  %s %s\n", label, in.View())
	}

	s += "\n  " + zstyle.MutedText.Render("tab next  enter sign in  ctrl+c quit") + "\n"
	return s
}
