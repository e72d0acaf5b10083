package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"scholar_bot/internal/model"
)

// Opportunities is a read-only snapshot over the opportunities database,
// swapped wholesale on reload like the scholarship catalog. An empty
// database is valid; category listings just come back empty.
type Opportunities struct {
	entries atomic.Pointer[[]model.Opportunity]
}

// LoadOpportunities reads the opportunities JSON file at path.
func LoadOpportunities(path string) (*Opportunities, error) {
	entries, err := readOpportunities(path)
	if err != nil {
		return nil, err
	}
	o := &Opportunities{}
	o.entries.Store(&entries)
	return o, nil
}

// NewOpportunities creates a snapshot from an in-memory slice (used in tests).
func NewOpportunities(entries []model.Opportunity) *Opportunities {
	o := &Opportunities{}
	o.entries.Store(&entries)
	return o
}

// Reload replaces the snapshot with the current contents of the file.
// On error the previous snapshot stays in place.
func (o *Opportunities) Reload(path string) error {
	entries, err := readOpportunities(path)
	if err != nil {
		return err
	}
	o.entries.Store(&entries)
	return nil
}

// Entries returns the current snapshot. Callers must not mutate it.
func (o *Opportunities) Entries() []model.Opportunity {
	return *o.entries.Load()
}

// ByType returns the entries of one category, preserving file order.
func (o *Opportunities) ByType(t model.OpportunityType) []model.Opportunity {
	var out []model.Opportunity
	for _, e := range o.Entries() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries in the current snapshot.
func (o *Opportunities) Len() int {
	return len(o.Entries())
}

func readOpportunities(path string) ([]model.Opportunity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read opportunities: %w", err)
	}
	var entries []model.Opportunity
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse opportunities: %w", err)
	}
	return entries, nil
}
