package cache

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstore"
)

func openFileCache(t *testing.T) (*FileCache, *zfilesystem.MemFS) {
	t.Helper()
	fs := zfilesystem.NewMemFS()
	c, err := OpenFile(fs, "testpass")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, fs
}

func openCollectionCache(t *testing.T) *CollectionCache {
	t.Helper()
	s, err := zstore.Open(zfilesystem.NewMemFS(), []byte("testpass"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	c, err := NewCollection(s)
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	return c
}

// backends runs fn against every Cache implementation.
func backends(t *testing.T, fn func(t *testing.T, c Cache)) {
	t.Run("file", func(t *testing.T) {
		c, _ := openFileCache(t)
		fn(t, c)
	})
	t.Run("collection", func(t *testing.T) {
		fn(t, openCollectionCache(t))
	})
}

func TestPutGet(t *testing.T) {
	backends(t, func(t *testing.T, c Cache) {
		want := []byte(`{"name":"alice"}`)
		if err := c.Put(KeyUser, want); err != nil {
			t.Fatalf("put: %v", err)
		}

		got, err := c.Get(KeyUser)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestPutOverwrites(t *testing.T) {
	backends(t, func(t *testing.T, c Cache) {
		if err := c.Put(KeyDemoMode, []byte("false")); err != nil {
			t.Fatalf("put: %v", err)
		}
		if err := c.Put(KeyDemoMode, []byte("true")); err != nil {
			t.Fatalf("put: %v", err)
		}

		got, err := c.Get(KeyDemoMode)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(got) != "true" {
			t.Errorf("got %q, want %q", got, "true")
		}
	})
}

func TestGetMissing(t *testing.T) {
	backends(t, func(t *testing.T, c Cache) {
		_, err := c.Get(KeySetup)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("get missing: got %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteIdempotent(t *testing.T) {
	backends(t, func(t *testing.T, c Cache) {
		if err := c.Put(KeyUser, []byte("x")); err != nil {
			t.Fatalf("put: %v", err)
		}

		for i := range 2 {
			if err := c.Delete(KeyUser); err != nil {
				t.Fatalf("delete #%d: %v", i+1, err)
			}
		}

		if _, err := c.Get(KeyUser); !errors.Is(err, ErrNotFound) {
			t.Fatalf("get after delete: got %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteLeavesOtherKeys(t *testing.T) {
	backends(t, func(t *testing.T, c Cache) {
		if err := c.Put(KeyUser, []byte("u")); err != nil {
			t.Fatal(err)
		}
		if err := c.Put(KeySetup, []byte("s")); err != nil {
			t.Fatal(err)
		}

		if err := c.Delete(KeyUser); err != nil {
			t.Fatal(err)
		}

		got, err := c.Get(KeySetup)
		if err != nil {
			t.Fatalf("get setup: %v", err)
		}
		if string(got) != "s" {
			t.Errorf("setup = %q, want %q", got, "s")
		}
	})
}

func TestJSONHelpers(t *testing.T) {
	type record struct {
		Name string `json:"name"`
		Demo bool   `json:"demo"`
	}

	backends(t, func(t *testing.T, c Cache) {
		want := record{Name: "alice", Demo: true}
		if err := PutJSON(c, KeyUser, want); err != nil {
			t.Fatalf("put json: %v", err)
		}

		got, err := GetJSON[record](c, KeyUser)
		if err != nil {
			t.Fatalf("get json: %v", err)
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})
}

func TestGetJSONMalformed(t *testing.T) {
	c, _ := openFileCache(t)
	if err := c.Put(KeyUser, []byte("not json")); err != nil {
		t.Fatal(err)
	}

	if _, err := GetJSON[map[string]any](c, KeyUser); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFileCacheEncryptsAtRest(t *testing.T) {
	c, fs := openFileCache(t)
	if err := c.Put(KeyUser, []byte("alice@example.com")); err != nil {
		t.Fatal(err)
	}

	raw, err := fs.ReadFile(entryPath(KeyUser))
	if err != nil {
		t.Fatalf("read raw entry: %v", err)
	}
	if bytes.Contains(raw, []byte("alice")) {
		t.Error("entry on disk should not contain plaintext")
	}
}

func TestFileCacheReopen(t *testing.T) {
	fs := zfilesystem.NewMemFS()

	c1, err := OpenFile(fs, "testpass")
	if err != nil {
		t.Fatal(err)
	}
	if err := c1.Put(KeyDemoMode, []byte("true")); err != nil {
		t.Fatal(err)
	}
	c1.Close()

	c2, err := OpenFile(fs, "testpass")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()

	got, err := c2.Get(KeyDemoMode)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != "true" {
		t.Errorf("got %q, want %q", got, "true")
	}
}

func TestFileCacheWrongPassphrase(t *testing.T) {
	fs := zfilesystem.NewMemFS()

	c, err := OpenFile(fs, "right")
	if err != nil {
		t.Fatal(err)
	}
	c.Close()

	_, err = OpenFile(fs, "wrong")
	if !errors.Is(err, ErrWrongPassphrase) {
		t.Fatalf("got %v, want ErrWrongPassphrase", err)
	}
}
