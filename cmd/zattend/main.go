package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zattend/internal/cli"
	"github.com/zarlcorp/zattend/internal/config"
	"github.com/zarlcorp/zattend/internal/identity"
	"github.com/zarlcorp/zattend/internal/session"
	"github.com/zarlcorp/zattend/internal/setup"
	"github.com/zarlcorp/zattend/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zattend"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("zattend %s\n", version)
		_ = app.Close()
		return
	}

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "zattend: %v\n", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	logFile, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	c, closeCache, err := cli.OpenCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	sessions, err := session.Open(c)
	if err != nil {
		return err
	}

	log := slog.Default()
	setups := setup.NewStore(c)
	ids := identity.UUIDGenerator{}

	if len(args) == 0 {
		return runTUI(ctx, tui.Deps{
			Sessions: sessions,
			Setups:   setups,
			IDs:      ids,
			Logger:   log,
		})
	}

	env := cli.Env{
		Sessions: sessions,
		Setups:   setups,
		IDs:      ids,
		Logger:   log,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
	return runCLI(ctx, env, args)
}

// openLog routes slog to a file in the data dir; the TUI owns the terminal.
func openLog(cfg config.Config) (*os.File, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})))
	return f, nil
}

func runCLI(ctx context.Context, env cli.Env, args []string) error {
	switch args[0] {
	case "whoami":
		return env.Whoami(args[1:])
	case "login":
		return env.Login(ctx, args[1:])
	case "logout":
		return env.Logout(ctx)
	case "setup":
		return env.Setup(args[1:])
	}
	return fmt.Errorf("%w: unknown command %q", cli.ErrUsage, args[0])
}

func runTUI(ctx context.Context, d tui.Deps) error {
	m := tui.New(ctx, version, d)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
