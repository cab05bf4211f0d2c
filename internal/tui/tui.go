// Package tui implements the root Bubble Tea model for zattend.
package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zattend/internal/auth"
	"github.com/zarlcorp/zattend/internal/identity"
	"github.com/zarlcorp/zattend/internal/session"
	"github.com/zarlcorp/zattend/internal/setup"
)

type viewID int

const (
	viewLogin viewID = iota
	viewDashboard
	viewSetup
)

// accent is the zattend brand color.
var accent = lipgloss.Color("#5FAFD7")

// Deps are the collaborators the root model drives.
type Deps struct {
	Sessions *session.Store
	Setups   *setup.Store
	IDs      identity.IDGenerator
	Logger   *slog.Logger
}

// Model is the root TUI model.
type Model struct {
	ctx     context.Context
	version string
	flow    *auth.Flow
	fx      *effects
	setups  *setup.Store
	log     *slog.Logger

	active    viewID
	login     loginModel
	dashboard dashboardModel
	setupForm setupModel
	toast     toast

	width int
}

// New creates the root TUI model. The starting view is the dashboard when
// the session store already holds an identity.
func New(ctx context.Context, version string, d Deps) Model {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	fx := &effects{}
	m := Model{
		ctx:     ctx,
		version: version,
		flow:    auth.NewFlow(d.Sessions, d.IDs, fx, fx, log),
		fx:      fx,
		setups:  d.Setups,
		log:     log,
		active:  viewLogin,
		login:   newLoginModel(),
	}

	if m.flow.State() == auth.StateAuthenticated {
		m = m.showDashboard()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.active == viewLogin {
		return m.login.Init()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loginSubmitMsg:
		return m.handleLogin(msg.creds)

	case logoutMsg:
		return m.handleLogout()

	case navigateMsg:
		return m.navigate(msg.view)

	case saveSetupMsg:
		return m.handleSaveSetup(msg.data)

	case notifyMsg:
		cmd := m.showToast(msg.message, msg.kind)
		return m, cmd

	case toastExpiredMsg:
		m.toast = m.toast.expire(msg.seq)
		return m, nil
	}

	return m.updateActive(msg)
}

func (m Model) View() string {
	if m.active == viewLogin {
		return m.login.View() + m.toast.View() + "\n"
	}

	var content string
	switch m.active {
	case viewDashboard:
		content = m.dashboard.View()
	case viewSetup:
		content = m.setupForm.View()
	}

	header := zstyle.RenderHeader("zattend", viewTitle(m.active), accent)
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(helpFor(m.active))

	return "\n" + header + "\n" + sep + "\n" + content + m.toast.View() + "\n" + footer + "\n"
}

// viewTitle returns the display title for each view.
func viewTitle(id viewID) string {
	switch id {
	case viewLogin:
		return "Sign In"
	case viewDashboard:
		return "Dashboard"
	case viewSetup:
		return "Class Setup"
	}
	return ""
}

// helpFor returns keybinding pairs for each view's footer.
func helpFor(id viewID) []zstyle.HelpPair {
	switch id {
	case viewDashboard:
		return []zstyle.HelpPair{
			{Key: "j/k", Desc: "navigate"},
			{Key: "enter", Desc: "select"},
			{Key: "s", Desc: "setup"},
			{Key: "c", Desc: "copy id"},
			{Key: "l", Desc: "sign out"},
			{Key: "q", Desc: "quit"},
		}
	case viewSetup:
		return []zstyle.HelpPair{
			{Key: "tab", Desc: "next"},
			{Key: "shift+tab", Desc: "prev"},
			{Key: "ctrl+s", Desc: "save"},
			{Key: "esc", Desc: "back"},
		}
	}
	return nil
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case viewLogin:
		m.login, cmd = m.login.Update(msg)
	case viewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case viewSetup:
		m.setupForm, cmd = m.setupForm.Update(msg)
	}

	return m, cmd
}

func (m Model) handleLogin(creds auth.Credentials) (tea.Model, tea.Cmd) {
	m.fx.reset()
	if _, err := m.flow.Login(m.ctx, creds); err != nil {
		m.login = m.login.failed()
	} else {
		m.login = newLoginModel()
	}
	cmd := m.applyEffects()
	return m, cmd
}

func (m Model) handleLogout() (tea.Model, tea.Cmd) {
	m.fx.reset()
	m.flow.Logout(m.ctx)
	cmd := m.applyEffects()
	return m, cmd
}

func (m Model) navigate(view viewID) (tea.Model, tea.Cmd) {
	// everything past the login view needs a session
	if view != viewLogin && m.flow.State() != auth.StateAuthenticated {
		view = viewLogin
	}

	switch view {
	case viewLogin:
		m.active = viewLogin
		return m, tea.Batch(tea.ClearScreen, m.login.Init())

	case viewDashboard:
		m = m.showDashboard()
		return m, tea.ClearScreen

	case viewSetup:
		data, _, err := m.setups.Load()
		if err != nil {
			m.log.Warn("load setup", "err", err)
		}
		m.setupForm = newSetupModel(data)
		m.active = viewSetup
		return m, tea.Batch(tea.ClearScreen, m.setupForm.Init())
	}

	return m, nil
}

func (m Model) showDashboard() Model {
	id, _ := m.flow.Current()

	data, ok, err := m.setups.Load()
	if err != nil {
		m.log.Warn("load setup", "err", err)
	}

	m.dashboard = newDashboardModel(id, m.version)
	if ok {
		m.dashboard.setup = &data
	}
	m.active = viewDashboard
	return m
}

func (m Model) handleSaveSetup(d setup.Data) (tea.Model, tea.Cmd) {
	if _, err := m.setups.Save(d); err != nil {
		m.log.Warn("save setup", "err", err)
		cmd := m.showToast("save: "+err.Error(), auth.KindError)
		return m, cmd
	}

	m = m.showDashboard()
	cmd := m.showToast("setup saved", auth.KindSuccess)
	return m, tea.Batch(tea.ClearScreen, cmd)
}

// applyEffects turns the notifications and navigation recorded during a
// flow call into model state and commands.
func (m *Model) applyEffects() tea.Cmd {
	var cmds []tea.Cmd

	if n, ok := m.fx.lastNotice(); ok {
		cmds = append(cmds, m.showToast(n.message, n.kind))
	}

	if v, ok := m.fx.lastView(); ok {
		target := viewFor(v)
		cmds = append(cmds, func() tea.Msg { return navigateMsg{view: target} })
	}

	return tea.Batch(cmds...)
}

func (m *Model) showToast(message string, kind auth.Kind) tea.Cmd {
	m.toast = m.toast.show(message, kind)
	return clearToastAfter(m.toast.seq)
}

// viewFor maps flow view names onto TUI views.
func viewFor(v auth.View) viewID {
	switch v {
	case auth.ViewDashboard:
		return viewDashboard
	case auth.ViewSetup:
		return viewSetup
	}
	return viewLogin
}

// Active reports the name of the visible view.
func (m Model) Active() string {
	switch m.active {
	case viewDashboard:
		return string(auth.ViewDashboard)
	case viewSetup:
		return string(auth.ViewSetup)
	}
	return string(auth.ViewLogin)
}
