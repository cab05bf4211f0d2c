package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/zattend/internal/auth"
	"github.com/zarlcorp/zattend/internal/cache"
	"github.com/zarlcorp/zattend/internal/config"
	"github.com/zarlcorp/zattend/internal/identity"
	"github.com/zarlcorp/zattend/internal/session"
	"github.com/zarlcorp/zattend/internal/setup"
)

type fixedIDs string

func (f fixedIDs) NewID() string { return string(f) }

func newTestEnv(t *testing.T) (Env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	c, err := cache.OpenFile(zfilesystem.NewMemFS(), "testpass")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	s, err := session.Open(c)
	if err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	env := Env{
		Sessions:     s,
		Setups:       setup.NewStore(c),
		IDs:          fixedIDs("abc12345"),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdout:       &stdout,
		Stderr:       &stderr,
		ReadPassword: func(string) (string, error) { return "x", nil },
	}
	return env, &stdout, &stderr
}

func TestWhoamiSignedOut(t *testing.T) {
	env, out, _ := newTestEnv(t)

	if err := env.Whoami(nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "not signed in") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLoginThenWhoami(t *testing.T) {
	env, out, errOut := newTestEnv(t)
	ctx := context.Background()

	if err := env.Login(ctx, []string{"alice@example.com"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(errOut.String(), "welcome, alice") {
		t.Errorf("stderr = %q, want welcome notice", errOut.String())
	}

	out.Reset()
	if err := env.Whoami([]string{"--json"}); err != nil {
		t.Fatal(err)
	}

	var id identity.Identity
	if err := json.Unmarshal(out.Bytes(), &id); err != nil {
		t.Fatalf("decode whoami: %v", err)
	}
	if id.Name != "alice" || id.Role != identity.RoleTeacher || !id.Demo {
		t.Errorf("identity = %+v", id)
	}
}

func TestLoginMalformed(t *testing.T) {
	env, _, errOut := newTestEnv(t)

	err := env.Login(context.Background(), []string{"alice"})
	if !errors.Is(err, auth.ErrMalformedCredential) {
		t.Fatalf("got %v, want ErrMalformedCredential", err)
	}
	if !strings.Contains(errOut.String(), "zattend:") {
		t.Errorf("stderr = %q, want error notice", errOut.String())
	}
}

func TestLoginUsage(t *testing.T) {
	env, _, _ := newTestEnv(t)

	if err := env.Login(context.Background(), nil); !errors.Is(err, ErrUsage) {
		t.Fatalf("got %v, want ErrUsage", err)
	}
}

func TestLoginPasswordError(t *testing.T) {
	env, _, _ := newTestEnv(t)
	boom := errors.New("no tty")
	env.ReadPassword = func(string) (string, error) { return "", boom }

	if err := env.Login(context.Background(), []string{"alice@example.com"}); !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
	if _, ok := env.Sessions.Get(); ok {
		t.Error("should not sign in when the prompt fails")
	}
}

func TestLogout(t *testing.T) {
	env, out, errOut := newTestEnv(t)
	ctx := context.Background()

	if err := env.Login(ctx, []string{"alice@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := env.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut.String(), "signed out") {
		t.Errorf("stderr = %q", errOut.String())
	}

	out.Reset()
	if err := env.Whoami(nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "not signed in") {
		t.Errorf("whoami after logout = %q", out.String())
	}
}

func TestSetup(t *testing.T) {
	env, out, _ := newTestEnv(t)

	if err := env.Setup(nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "no class setup") {
		t.Errorf("output = %q", out.String())
	}

	if _, err := env.Setups.Save(setup.Data{School: "Demo School", ClassName: "7B", Students: []string{"Ann"}}); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := env.Setup(nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "7B") || !strings.Contains(out.String(), "Ann") {
		t.Errorf("output = %q", out.String())
	}
}

func TestOpenCacheBackends(t *testing.T) {
	for _, b := range []config.Backend{config.BackendFile, config.BackendZstore} {
		t.Run(string(b), func(t *testing.T) {
			cfg := config.Default()
			cfg.DataDir = t.TempDir()
			cfg.Backend = b

			c, closeFn, err := OpenCache(cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer closeFn()

			if err := c.Put(cache.KeyDemoMode, []byte("true")); err != nil {
				t.Fatal(err)
			}
			got, err := c.Get(cache.KeyDemoMode)
			if err != nil || string(got) != "true" {
				t.Errorf("get = %q, %v", got, err)
			}
		})
	}
}
