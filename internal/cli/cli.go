// Package cli implements zattend's command-line subcommands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstore"
	"github.com/zarlcorp/zattend/internal/auth"
	"github.com/zarlcorp/zattend/internal/cache"
	"github.com/zarlcorp/zattend/internal/config"
	"github.com/zarlcorp/zattend/internal/identity"
	"github.com/zarlcorp/zattend/internal/session"
	"github.com/zarlcorp/zattend/internal/setup"
	"golang.org/x/term"
)

// ErrUsage is returned for bad arguments.
var ErrUsage = errors.New("usage")

// OpenCache creates the data dir and opens the configured cache backend.
// The returned close func releases it.
func OpenCache(cfg config.Config) (cache.Cache, func() error, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	fsys := zfilesystem.NewOSFileSystem(cfg.DataDir)

	switch cfg.Backend {
	case config.BackendZstore:
		s, err := zstore.Open(fsys, []byte(cfg.Passphrase))
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		c, err := cache.NewCollection(s)
		if err != nil {
			s.Close()
			return nil, nil, err
		}
		return c, func() error { s.Close(); return nil }, nil

	default:
		c, err := cache.OpenFile(fsys, cfg.Passphrase)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
}

// ReadPassword prompts on w and reads a line from the terminal without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// Env carries what the subcommands operate on.
type Env struct {
	Sessions *session.Store
	Setups   *setup.Store
	IDs      identity.IDGenerator
	Logger   *slog.Logger
	Stdout   io.Writer
	Stderr   io.Writer

	// ReadPassword defaults to the package-level ReadPassword on Stderr.
	ReadPassword func(prompt string) (string, error)
}

// printer shows flow notifications on stderr and ignores navigation.
type printer struct {
	w io.Writer
}

func (p printer) Notify(message string, kind auth.Kind) {
	if kind == auth.KindError {
		fmt.Fprintf(p.w, "zattend: %s\n", message)
		return
	}
	fmt.Fprintln(p.w, message)
}

func (p printer) NavigateTo(auth.View) {}

func (e Env) flow() *auth.Flow {
	p := printer{w: e.Stderr}
	return auth.NewFlow(e.Sessions, e.IDs, p, p, e.Logger)
}

// Whoami prints the logged-in identity.
func (e Env) Whoami(args []string) error {
	id, ok := e.Sessions.Get()
	if !ok {
		fmt.Fprintln(e.Stdout, "not signed in")
		return nil
	}

	if hasFlag(args, "--json") {
		return printJSON(e.Stdout, id)
	}

	printIdentity(e.Stdout, id, e.Sessions.DemoMode())
	return nil
}

// Login signs in with the given email. The password prompt is for show.
func (e Env) Login(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: zattend login <email>", ErrUsage)
	}

	read := e.ReadPassword
	if read == nil {
		read = func(prompt string) (string, error) { return ReadPassword(prompt, e.Stderr) }
	}
	pass, err := read("password: ")
	if err != nil {
		return err
	}

	id, err := e.flow().Login(ctx, auth.Credentials{Email: args[0], Password: pass})
	if err != nil {
		return err
	}

	printIdentity(e.Stdout, id, e.Sessions.DemoMode())
	return nil
}

// Logout clears the session.
func (e Env) Logout(ctx context.Context) error {
	e.flow().Logout(ctx)
	return nil
}

// Setup prints the saved class setup.
func (e Env) Setup(args []string) error {
	d, ok, err := e.Setups.Load()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(e.Stdout, "no class setup saved")
		return nil
	}

	if hasFlag(args, "--json") {
		return printJSON(e.Stdout, d)
	}

	fmt.Fprintf(e.Stdout, "  school:   %s\n", d.School)
	fmt.Fprintf(e.Stdout, "  class:    %s\n", d.ClassName)
	fmt.Fprintf(e.Stdout, "  students: %s\n", strings.Join(d.Students, ", "))
	fmt.Fprintf(e.Stdout, "  updated:  %s\n", d.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}

func printIdentity(w io.Writer, id identity.Identity, demo bool) {
	fmt.Fprintf(w, "  id:     %s\n", id.ID)
	fmt.Fprintf(w, "  name:   %s\n", id.Name)
	fmt.Fprintf(w, "  email:  %s\n", id.Email)
	fmt.Fprintf(w, "  role:   %s\n", id.Role)
	fmt.Fprintf(w, "  school: %s\n", id.Organization)
	if demo {
		fmt.Fprintln(w, "  mode:   demo")
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}
