// Package recommend ranks catalog entries against a user profile. The
// matching semantics (level, field, region) are the filter package's, so a
// recommendation never disagrees with what the guided search would return.
package recommend

import (
	"sort"
	"strings"

	"scholar_bot/internal/filter"
	"scholar_bot/internal/model"
)

// TopN is how many entries a recommendation contains at most.
const TopN = 5

// Signal weights. Level dominates: a wrong-level scholarship is unusable
// regardless of how well the rest fits.
const (
	weightLevel     = 3
	weightField     = 2
	weightRegion    = 1
	weightFinancial = 1
)

// Ranked is one recommended entry with its catalog index and score.
type Ranked struct {
	Index int
	Entry model.Scholarship
	Score int
}

// Score computes the weighted match score of one entry for the profile.
// Zero means no signal matched at all.
func Score(p model.UserProfile, s model.Scholarship) int {
	score := 0

	if p.Level != "" && filter.LevelMatches(s, p.Level) {
		score += weightLevel
	}

	// The wildcard field carries no information about the user, so it earns
	// nothing; a concrete field scores against the filter vocabulary.
	if p.Field != "" && p.Field != model.FieldAny && filter.FieldMatches(s, p.Field) {
		score += weightField
	}

	if p.Country != "" {
		if region, ok := filter.RegionOf(p.Country); ok && filter.RegionMatches(s, region) {
			score += weightRegion
		}
	}

	if p.FinancialNeed && strings.Contains(strings.ToLower(s.Funding), "full") {
		score += weightFinancial
	}

	return score
}

// Top scores every entry and returns the best TopN in descending score
// order, ties broken by catalog position. Entries scoring zero are excluded
// entirely.
func Top(p model.UserProfile, entries []model.Scholarship) []Ranked {
	var ranked []Ranked
	for i, s := range entries {
		if sc := Score(p, s); sc > 0 {
			ranked = append(ranked, Ranked{Index: i, Entry: s, Score: sc})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked
}
