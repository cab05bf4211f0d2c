package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zattend/internal/auth"
	"github.com/zarlcorp/zattend/internal/identity"
	"github.com/zarlcorp/zattend/internal/setup"
)

type dashboardChoice int

const (
	dashboardSetup dashboardChoice = iota
	dashboardCopyID
	dashboardLogout
	dashboardQuit
)

var dashboardItems = []string{
	"class setup",
	"copy id",
	"sign out",
	"quit",
}

// dashboardModel is the landing view after sign-in.
type dashboardModel struct {
	identity identity.Identity
	setup    *setup.Data
	version  string
	cursor   int
}

// navigateMsg tells the root model to switch views.
type navigateMsg struct {
	view viewID
}

// logoutMsg asks the root model to sign out.
type logoutMsg struct{}

func newDashboardModel(id identity.Identity, version string) dashboardModel {
	return dashboardModel{identity: id, version: version}
}

func (m dashboardModel) Init() tea.Cmd {
	return nil
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Matches(km, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(km, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(km, zstyle.KeyDown) {
		if m.cursor < len(dashboardItems)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(km, zstyle.KeyEnter) {
		return m, m.selectItem(dashboardChoice(m.cursor))
	}

	switch km.String() {
	case "s":
		return m, m.selectItem(dashboardSetup)
	case "c":
		return m, m.selectItem(dashboardCopyID)
	case "l":
		return m, m.selectItem(dashboardLogout)
	}

	return m, nil
}

func (m dashboardModel) selectItem(c dashboardChoice) tea.Cmd {
	switch c {
	case dashboardSetup:
		return func() tea.Msg { return navigateMsg{view: viewSetup} }
	case dashboardCopyID:
		id := m.identity.ID
		return func() tea.Msg {
			if err := copyToClipboard(id); err != nil {
				return notifyMsg{message: "copy: " + err.Error(), kind: auth.KindError}
			}
			return notifyMsg{message: "copied!", kind: auth.KindSuccess}
		}
	case dashboardLogout:
		return func() tea.Msg { return logoutMsg{} }
	case dashboardQuit:
		return tea.Quit
	}
	return nil
}

func (m dashboardModel) View() string {
	id := m.identity
	s := fmt.Sprintf("\n  %s %s\n", zstyle.Title.Render("welcome, "+id.Name), zstyle.MutedText.Render(m.version))
	if id.Demo {
		s += "  " + zstyle.StatusWarn.Render("demo account") + "\n"
	}
	s += "\n"

	rows := [][2]string{
		{"email", id.Email},
		{"role", string(id.Role)},
		{"school", id.Organization},
		{"id", id.ID},
	}
	if m.setup != nil {
		rows = append(rows,
			[2]string{"class", m.setup.School + " / " + m.setup.ClassName},
			[2]string{"students", studentSummary(m.setup.Students)},
		)
	} else {
		rows = append(rows, [2]string{"class", "not set up"})
	}

	for _, r := range rows {
		s += fmt.Sprintf("    %s %s\n", zstyle.MutedText.Render(fmt.Sprintf("%-10s", r[0])), r[1])
	}
	s += "\n"

	for i, item := range dashboardItems {
		mi := zstyle.MenuItem{
			Label:  item,
			Active: m.cursor == i,
		}
		s += zstyle.RenderMenuItem(mi, accent) + "\n"
	}

	return s
}

func studentSummary(names []string) string {
	switch n := len(names); {
	case n == 0:
		return "none"
	case n <= 3:
		return strings.Join(names, ", ")
	default:
		return fmt.Sprintf("%s and %d more", strings.Join(names[:3], ", "), n-3)
	}
}
