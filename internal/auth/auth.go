// Package auth implements the demo login flow. There is no credential check:
// any well-formed email logs in as a synthesized teacher identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zarlcorp/zattend/internal/identity"
	"github.com/zarlcorp/zattend/internal/session"
)

var (
	// ErrStorageFailure is returned when the session could not be written.
	ErrStorageFailure = errors.New("storage failure")
	// ErrMalformedCredential is returned for an email with no usable local part.
	ErrMalformedCredential = errors.New("malformed credential")
)

// State is the login state.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// View names a screen the flow can move to.
type View string

const (
	ViewLogin     View = "login"
	ViewDashboard View = "dashboard"
	ViewSetup     View = "setup"
)

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(message string, kind Kind)
}

// Navigator switches the visible view.
type Navigator interface {
	NavigateTo(view View)
}

// Credentials is what the login form submits. Password is never checked.
type Credentials struct {
	Email    string
	Password string
}

// Flow moves between the anonymous and authenticated states.
type Flow struct {
	sessions *session.Store
	ids      identity.IDGenerator
	notify   Notifier
	nav      Navigator
	log      *slog.Logger
	now      func() time.Time
}

// NewFlow wires a login flow. A nil logger falls back to slog.Default.
func NewFlow(s *session.Store, ids identity.IDGenerator, n Notifier, nav Navigator, log *slog.Logger) *Flow {
	if log == nil {
		log = slog.Default()
	}
	return &Flow{
		sessions: s,
		ids:      ids,
		notify:   n,
		nav:      nav,
		log:      log,
		now:      time.Now,
	}
}

// State reports whether an identity is logged in.
func (f *Flow) State() State {
	if _, ok := f.sessions.Get(); ok {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Current returns the logged-in identity, if any.
func (f *Flow) Current() (identity.Identity, bool) {
	return f.sessions.Get()
}

// Login synthesizes a demo identity from the email and stores it.
// On failure the flow stays anonymous, an error notification is shown and the
// returned error wraps ErrMalformedCredential or ErrStorageFailure.
func (f *Flow) Login(ctx context.Context, creds Credentials) (identity.Identity, error) {
	email := strings.TrimSpace(creds.Email)

	name, err := NameFromEmail(email)
	if err != nil {
		f.log.InfoContext(ctx, "login rejected", "err", err)
		f.notify.Notify("enter an email like name@school.org", KindError)
		return identity.Identity{}, err
	}

	id := identity.Identity{
		ID:           f.ids.NewID(),
		Name:         name,
		Email:        email,
		Role:         identity.RoleTeacher,
		Organization: identity.DemoOrganization,
		Demo:         true,
		CreatedAt:    f.now(),
	}

	if err := f.store(id); err != nil {
		f.log.ErrorContext(ctx, "login", "email", email, "err", err)
		f.rollback(ctx)
		f.notify.Notify("login failed, please try again", KindError)
		return identity.Identity{}, fmt.Errorf("login: %w: %w", ErrStorageFailure, err)
	}

	f.log.InfoContext(ctx, "login", "id", id.ID, "name", id.Name)
	f.notify.Notify("welcome, "+id.Name, KindSuccess)
	f.nav.NavigateTo(ViewDashboard)
	return id, nil
}

// Logout clears the session and returns to the login view.
// Cache errors are logged; logout itself always succeeds.
func (f *Flow) Logout(ctx context.Context) {
	if err := f.sessions.Clear(); err != nil {
		f.log.WarnContext(ctx, "logout", "err", err)
	} else {
		f.log.InfoContext(ctx, "logout")
	}

	f.notify.Notify("signed out", KindSuccess)
	f.nav.NavigateTo(ViewLogin)
}

func (f *Flow) store(id identity.Identity) error {
	if err := f.sessions.Set(id); err != nil {
		return err
	}
	return f.sessions.SetDemoMode(true)
}

// rollback drops a partially written session so a failed login always
// ends anonymous.
func (f *Flow) rollback(ctx context.Context) {
	if err := f.sessions.Clear(); err != nil {
		f.log.WarnContext(ctx, "login rollback", "err", err)
	}
}

// NameFromEmail returns the part of email before the first '@'.
// Emails without '@' or with an empty local part are rejected.
func NameFromEmail(email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrMalformedCredential)
	}

	local, _, found := strings.Cut(email, "@")
	if !found {
		return "", fmt.Errorf("%w: %q has no @", ErrMalformedCredential, email)
	}
	if local == "" {
		return "", fmt.Errorf("%w: %q has no name before @", ErrMalformedCredential, email)
	}

	return local, nil
}
