package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zattend/internal/auth"
)

// toastTTL is how long a notification stays on screen.
const toastTTL = 3 * time.Second

// notifyMsg asks the root model to show a toast.
type notifyMsg struct {
	message string
	kind    auth.Kind
}

// toastExpiredMsg clears the toast with the matching sequence number.
type toastExpiredMsg struct {
	seq int
}

// toast is the single notification line under the active view.
type toast struct {
	message string
	kind    auth.Kind
	seq     int
}

func (t toast) show(message string, kind auth.Kind) toast {
	return toast{message: message, kind: kind, seq: t.seq + 1}
}

// expire clears the toast unless a newer one replaced it.
func (t toast) expire(seq int) toast {
	if seq != t.seq {
		return t
	}
	t.message = ""
	t.kind = ""
	return t
}

func (t toast) View() string {
	// always reserve a line to prevent layout shift
	if t.message == "" {
		return "\n"
	}
	if t.kind == auth.KindError {
		return "  " + zstyle.StatusErr.Render(t.message) + "\n"
	}
	return "  " + zstyle.StatusOK.Render(t.message) + "\n"
}

func clearToastAfter(seq int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// effects records what the login flow asked for during one call. The root
// model applies them after the call returns, inside the update loop.
type effects struct {
	notices []notifyMsg
	views   []auth.View
}

func (e *effects) Notify(message string, kind auth.Kind) {
	e.notices = append(e.notices, notifyMsg{message: message, kind: kind})
}

func (e *effects) NavigateTo(v auth.View) {
	e.views = append(e.views, v)
}

func (e *effects) reset() {
	e.notices = e.notices[:0]
	e.views = e.views[:0]
}

func (e *effects) lastNotice() (notifyMsg, bool) {
	if len(e.notices) == 0 {
		return notifyMsg{}, false
	}
	return e.notices[len(e.notices)-1], true
}

func (e *effects) lastView() (auth.View, bool) {
	if len(e.views) == 0 {
		return "", false
	}
	return e.views[len(e.views)-1], true
}
