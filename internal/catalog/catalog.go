// Package catalog holds the scholarship catalog as an immutable in-memory
// snapshot. The snapshot is replaced wholesale on reload; readers always see
// a consistent catalog and entry indexes are stable within one snapshot.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"scholar_bot/internal/model"
)

// Catalog is a read-only view over the loaded scholarship entries.
type Catalog struct {
	entries atomic.Pointer[[]model.Scholarship]
}

// Load reads the catalog JSON file at path.
func Load(path string) (*Catalog, error) {
	entries, err := readFile(path)
	if err != nil {
		return nil, err
	}
	c := &Catalog{}
	c.entries.Store(&entries)
	return c, nil
}

// New creates a catalog from an in-memory entry slice (used in tests).
func New(entries []model.Scholarship) *Catalog {
	c := &Catalog{}
	c.entries.Store(&entries)
	return c
}

// Reload replaces the snapshot with the current contents of the file.
// On error the previous snapshot stays in place.
func (c *Catalog) Reload(path string) error {
	entries, err := readFile(path)
	if err != nil {
		return err
	}
	c.entries.Store(&entries)
	return nil
}

// Entries returns the current snapshot. Callers must not mutate it.
func (c *Catalog) Entries() []model.Scholarship {
	return *c.entries.Load()
}

// Get returns the entry at the zero-based index, or false when the index is
// outside the current snapshot.
func (c *Catalog) Get(i int) (model.Scholarship, bool) {
	entries := c.Entries()
	if i < 0 || i >= len(entries) {
		return model.Scholarship{}, false
	}
	return entries[i], true
}

// Len returns the number of entries in the current snapshot.
func (c *Catalog) Len() int {
	return len(c.Entries())
}

func readFile(path string) ([]model.Scholarship, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var entries []model.Scholarship
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}
	return entries, nil
}
