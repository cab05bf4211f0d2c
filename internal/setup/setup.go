// Package setup stores the class setup form.
package setup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zarlcorp/zattend/internal/cache"
)

// ErrSchoolRequired is returned when saving a form with no school name.
var ErrSchoolRequired = errors.New("school is required")

// Data is the saved setup form.
type Data struct {
	School    string    `json:"school"`
	ClassName string    `json:"class_name"`
	Students  []string  `json:"students"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store reads and writes the setup_data cache entry.
type Store struct {
	cache cache.Cache
	now   func() time.Time
}

func NewStore(c cache.Cache) *Store {
	return &Store{cache: c, now: time.Now}
}

// Load returns the saved form, or false if none was saved yet.
func (s *Store) Load() (Data, bool, error) {
	d, err := cache.GetJSON[Data](s.cache, cache.KeySetup)
	if errors.Is(err, cache.ErrNotFound) {
		return Data{}, false, nil
	}
	if err != nil {
		return Data{}, false, fmt.Errorf("load setup: %w", err)
	}
	return d, true, nil
}

// Save validates and stores d, stamping UpdatedAt. It returns what was stored.
func (s *Store) Save(d Data) (Data, error) {
	d.School = strings.TrimSpace(d.School)
	d.ClassName = strings.TrimSpace(d.ClassName)
	if d.School == "" {
		return Data{}, ErrSchoolRequired
	}

	d.UpdatedAt = s.now()
	if err := cache.PutJSON(s.cache, cache.KeySetup, d); err != nil {
		return Data{}, fmt.Errorf("save setup: %w", err)
	}
	return d, nil
}

// ParseStudents splits a comma-separated roster, trimming names and
// dropping blanks.
func ParseStudents(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
