package identity

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator(t *testing.T) {
	var g UUIDGenerator
	id := g.NewID()

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewID() = %q, not a uuid: %v", id, err)
	}
}

func TestUUIDGeneratorUnique(t *testing.T) {
	var g UUIDGenerator
	seen := make(map[string]bool)
	for range 1000 {
		id := g.NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestHexGenerator(t *testing.T) {
	var g HexGenerator
	re := regexp.MustCompile(`^[0-9a-f]{8}$`)

	for range 100 {
		id := g.NewID()
		if !re.MatchString(id) {
			t.Fatalf("NewID() = %q, want 8 hex chars", id)
		}
	}
}

func TestGeneratorsSatisfyInterface(t *testing.T) {
	gens := []IDGenerator{UUIDGenerator{}, HexGenerator{}}
	for _, g := range gens {
		if g.NewID() == "" {
			t.Errorf("%T returned empty id", g)
		}
	}
}
