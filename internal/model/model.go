// Package model defines the domain types used across the application.
package model

// Level is an education level a scholarship accepts.
type Level string

// Supported education levels.
const (
	LevelUndergraduate Level = "undergraduate"
	LevelMasters       Level = "masters"
	LevelPhD           Level = "phd"
)

// Levels lists every education level in display order.
var Levels = []Level{LevelUndergraduate, LevelMasters, LevelPhD}

// FieldAny is the wildcard field: a scholarship carrying it accepts any
// field, and a user choosing it matches every scholarship.
const FieldAny = "any"

// Fields lists the fixed field-of-study choices offered in the guided search.
var Fields = []string{
	"artificial intelligence",
	"computer science",
	"engineering",
	"mathematics",
	FieldAny,
}

// CountryMultiple is the sentinel country on region-agnostic entries.
const CountryMultiple = "Multiple"

// OpportunityType is a category in the opportunities database.
type OpportunityType string

// Opportunity categories.
const (
	OpportunityInternship   OpportunityType = "internship"
	OpportunityResearch     OpportunityType = "research"
	OpportunityCompetition  OpportunityType = "competition"
	OpportunityFellowship   OpportunityType = "fellowship"
	OpportunitySummerSchool OpportunityType = "summer_school"
	OpportunityExchange     OpportunityType = "exchange"
)

// OpportunityTypes lists every category in display order.
var OpportunityTypes = []OpportunityType{
	OpportunityInternship,
	OpportunityResearch,
	OpportunityCompetition,
	OpportunityFellowship,
	OpportunitySummerSchool,
	OpportunityExchange,
}

// Label returns the category name shown in menus and listings.
func (t OpportunityType) Label() string {
	switch t {
	case OpportunityInternship:
		return "💼 Internships"
	case OpportunityResearch:
		return "🔬 Research Programs"
	case OpportunityCompetition:
		return "🏆 Competitions"
	case OpportunityFellowship:
		return "🎖 Fellowships"
	case OpportunitySummerSchool:
		return "☀️ Summer Schools"
	case OpportunityExchange:
		return "🌍 Exchange Programs"
	}
	return string(t)
}

// Opportunity is one entry in the opportunities database: a deadline-bearing
// record browsed by category rather than matched against a profile.
type Opportunity struct {
	Name         string          `json:"name"`
	Organization string          `json:"organization"`
	Country      string          `json:"country"`
	Level        string          `json:"level"`
	Field        string          `json:"field"`
	Funding      string          `json:"funding"`
	Deadline     string          `json:"deadline"`
	Description  string          `json:"description"`
	Link         string          `json:"link"`
	Type         OpportunityType `json:"type"`
}

// Scholarship is a single catalog entry. Its identity is its zero-based
// position in the catalog snapshot it was loaded into; entries are never
// mutated after load.
type Scholarship struct {
	Name        string   `json:"name"`
	University  string   `json:"university"`
	Country     string   `json:"country"`
	Levels      []string `json:"level"`
	Fields      []string `json:"field"`
	Funding     string   `json:"funding"`
	Deadline    string   `json:"deadline"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
}

// Subscription is one (user, catalog index) reminder registration.
type Subscription struct {
	UserID int64
	Index  int
}

// UserProfile holds the per-user data the recommendation scorer consumes.
// It is overwritten wholesale on each /setprofile run.
type UserProfile struct {
	UserID        int64
	Name          string
	Country       string
	Level         string
	GPA           string
	Field         string
	CareerGoals   string
	FinancialNeed bool
}

// ChecklistItems is the fixed application checklist shown to every user.
var ChecklistItems = []string{
	"Personal Statement",
	"CV / Resume",
	"Transcripts",
	"Recommendation Letters",
	"Language Test Score",
	"Passport Copy",
	"Application Form",
	"Motivation Letter",
	"Portfolio / GitHub",
}
