// Package filter implements the scholarship matching vocabulary shared by
// the guided search and the recommendation scorer.
package filter

import (
	"slices"
	"strings"

	"scholar_bot/internal/model"
)

// RegionAll is the wildcard region choice.
const RegionAll = "All"

// regionMap assigns every catalog country to a region.
var regionMap = map[string][]string{
	"Africa": {
		"Egypt", "Ethiopia", "Ghana", "Kenya", "Nigeria", "Rwanda",
		"South Africa", "Tanzania", "Uganda",
	},
	"Europe": {
		"Austria", "Czech Republic", "Denmark", "Finland", "France",
		"Germany", "Hungary", "Ireland", "Italy", "Netherlands", "Norway",
		"Poland", "Romania", "Russia", "Sweden", "Switzerland", "Turkey", "UK",
	},
	"Middle East": {"Qatar", "Saudi Arabia", "UAE"},
	"Asia": {
		"Brunei", "China", "Hong Kong", "India", "Japan",
		"Singapore", "South Korea", "Taiwan",
	},
	"North America": {"Canada", "Mexico", "USA"},
	"Oceania":       {"Australia", "New Zealand"},
	"South America": {"Brazil", "Chile"},
}

// regionOrder keeps the keyboard layout stable.
var regionOrder = []string{
	"Africa", "Europe", "Middle East", "Asia",
	"North America", "Oceania", "South America",
}

// Regions lists every region choice offered in the guided search,
// wildcard last.
func Regions() []string {
	return append(slices.Clone(regionOrder), RegionAll)
}

// Query is a fully answered guided search: one level, one field, one region.
type Query struct {
	Level  string
	Field  string
	Region string
}

// Match reports whether a scholarship satisfies the query. The predicate is
// a pure conjunction; clause order does not matter.
func Match(s model.Scholarship, q Query) bool {
	return LevelMatches(s, q.Level) && FieldMatches(s, q.Field) && RegionMatches(s, q.Region)
}

// Apply returns the catalog indexes of all entries matching the query, in
// catalog order. An empty result is a valid outcome.
func Apply(entries []model.Scholarship, q Query) []int {
	var out []int
	for i, s := range entries {
		if Match(s, q) {
			out = append(out, i)
		}
	}
	return out
}

// LevelMatches reports whether the scholarship accepts the given level.
func LevelMatches(s model.Scholarship, level string) bool {
	return slices.Contains(s.Levels, level)
}

// FieldMatches reports whether the scholarship covers the given field.
// The wildcard matches from either side.
func FieldMatches(s model.Scholarship, field string) bool {
	if field == model.FieldAny {
		return true
	}
	return slices.Contains(s.Fields, model.FieldAny) || slices.Contains(s.Fields, field)
}

// RegionMatches reports whether the scholarship's country falls in the given
// region. Entries with the "Multiple" sentinel country match every region.
func RegionMatches(s model.Scholarship, region string) bool {
	if region == RegionAll {
		return true
	}
	return slices.Contains(regionMap[region], s.Country) || s.Country == model.CountryMultiple
}

// RegionOf returns the region a country belongs to (case-insensitive), or
// false for countries outside the map.
func RegionOf(country string) (string, bool) {
	for _, region := range regionOrder {
		for _, c := range regionMap[region] {
			if strings.EqualFold(c, country) {
				return region, true
			}
		}
	}
	return "", false
}
