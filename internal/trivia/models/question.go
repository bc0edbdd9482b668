package models

import (
	"fmt"
	"strings"
)

// SourceName identifies the store a question was pulled from.
// Invariant: the value must be one of the known sources.
type SourceName string

const (
	SourceMySQL      SourceName = "MySQL"
	SourcePostgreSQL SourceName = "PostgreSQL"
	SourceMongoDB    SourceName = "MongoDB"
	SourceRedis      SourceName = "Redis"
)

// validSourceNames is the single source of truth for valid source names.
var validSourceNames = map[SourceName]bool{
	SourceMySQL:      true,
	SourcePostgreSQL: true,
	SourceMongoDB:    true,
	SourceRedis:      true,
}

// ParseSourceName accepts any casing of a known source name.
func ParseSourceName(s string) (SourceName, error) {
	s = strings.TrimSpace(s)
	for name := range validSourceNames {
		if strings.EqualFold(string(name), s) {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown source name: %q", s)
}

// IsValid checks if the source name is one of the supported enum values.
func (n SourceName) IsValid() bool {
	return validSourceNames[n]
}

func (n SourceName) String() string {
	return string(n)
}

// Difficulty is the canonical difficulty level of a question.
type Difficulty string

const (
	DifficultyLow    Difficulty = "Low"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHigh   Difficulty = "High"
)

// IsValid reports whether d is one of Low, Medium or High.
func (d Difficulty) IsValid() bool {
	return d == DifficultyLow || d == DifficultyMedium || d == DifficultyHigh
}

// Category is a topical label assigned by the classifier.
type Category string

const (
	CategoryGeography     Category = "Geography"
	CategorySports        Category = "Sports"
	CategoryScience       Category = "Science"
	CategoryHistory       Category = "History"
	CategoryEntertainment Category = "Entertainment"
	CategoryArt           Category = "Art"

	// Unclassified is assigned when the classifier is unavailable or
	// returns a label outside the closed set.
	Unclassified Category = "unclassified"
)

// AllCategories returns the closed label set in canonical order.
func AllCategories() []Category {
	return []Category{
		CategoryGeography,
		CategorySports,
		CategoryScience,
		CategoryHistory,
		CategoryEntertainment,
		CategoryArt,
	}
}

// ParseCategory maps a classifier label onto the closed set, case-insensitively.
// Unknown labels map to Unclassified and ok=false.
func ParseCategory(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), label) {
			return c, true
		}
	}
	return Unclassified, false
}

// RawRecord is a question as read from a store, reduced to neutral field
// names but not yet cleaned up.
type RawRecord struct {
	Question string
	Options  []string
	// CorrectFlags marks, per option, whether the store flagged it as the
	// right answer. It may be shorter than Options or empty.
	CorrectFlags []bool
	// CorrectAnswer is set when the store names the right answer explicitly.
	CorrectAnswer string
	Difficulty    string
	CreatedAt     string
}

// CanonicalQuestion is the unified shape every source is normalized into.
// Only Category changes after construction.
type CanonicalQuestion struct {
	Source        SourceName `json:"source_name"`
	Question      string     `json:"question_text"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty"`
	CreatedDate   string     `json:"created_date"`
	Category      *Category  `json:"category"`
}

// AssignCategory sets the category once. Later calls are ignored and
// return false.
func (q *CanonicalQuestion) AssignCategory(c Category) bool {
	if q.Category != nil {
		return false
	}
	q.Category = &c
	return true
}

// CategoryLabel returns the assigned category, or "" when classification
// has not run.
func (q *CanonicalQuestion) CategoryLabel() string {
	if q.Category == nil {
		return ""
	}
	return string(*q.Category)
}

// SkippedSource records why a source contributed nothing to a run.
type SkippedSource struct {
	Source SourceName  `json:"source_name"`
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

// AggregationResult is the document produced by one aggregation run.
type AggregationResult struct {
	RunID      string               `json:"run_id"`
	Timestamp  string               `json:"timestamp"`
	TotalCount int                  `json:"total_count"`
	Questions  []*CanonicalQuestion `json:"questions"`
	Skipped    []SkippedSource      `json:"skipped,omitempty"`
}
