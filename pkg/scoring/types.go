// Package scoring implements the supplyscore answer-scoring engine.
// It turns individual answers into deterministic point values, aggregates
// them into BIV (Business / Integrity / Availability) category scores, and
// classifies the resulting risk level.
package scoring

import (
	"math"
	"strings"
)

// AnswerValue is a supplier's response to a single question.
type AnswerValue string

const (
	AnswerYes           AnswerValue = "YES"
	AnswerNo            AnswerValue = "NO"
	AnswerPartial       AnswerValue = "PARTIAL"
	AnswerNotApplicable AnswerValue = "NOT_APPLICABLE"
	AnswerNA            AnswerValue = "NA"
)

// ParseAnswerValue normalizes a raw answer string to an AnswerValue.
// Matching is case-insensitive. Returns false for anything outside the
// accepted set.
func ParseAnswerValue(s string) (AnswerValue, bool) {
	switch AnswerValue(strings.ToUpper(strings.TrimSpace(s))) {
	case AnswerYes:
		return AnswerYes, true
	case AnswerNo:
		return AnswerNo, true
	case AnswerPartial:
		return AnswerPartial, true
	case AnswerNotApplicable:
		return AnswerNotApplicable, true
	case AnswerNA:
		return AnswerNA, true
	}
	return "", false
}

// BIVCategory identifies one of the three risk categories a question can
// count toward.
type BIVCategory string

const (
	CategoryBusiness     BIVCategory = "BUSINESS"
	CategoryIntegrity    BIVCategory = "INTEGRITY"
	CategoryAvailability BIVCategory = "AVAILABILITY"
)

// ParseBIVCategory matches a raw category string case-insensitively.
// Unknown or empty categories return false; such answers are excluded from
// all three BIV buckets.
func ParseBIVCategory(s string) (BIVCategory, bool) {
	switch BIVCategory(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryBusiness:
		return CategoryBusiness, true
	case CategoryIntegrity:
		return CategoryIntegrity, true
	case CategoryAvailability:
		return CategoryAvailability, true
	}
	return "", false
}

// AnswerScore is the scoring-relevant projection of one stored answer.
type AnswerScore struct {
	Category string  // raw BIV category from the question, may be empty
	Score    float64 // points earned
	MaxScore int     // points possible, copied from the question at write time
}

// Contribution records how one category fed into the composite BIV score.
type Contribution struct {
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// Breakdown retains each category's contribution to the BIV composite.
type Breakdown struct {
	Business     Contribution `json:"business"`
	Integrity    Contribution `json:"integrity"`
	Availability Contribution `json:"availability"`
}

// Result is the complete output of aggregating a submission's answers.
type Result struct {
	Overall           float64   `json:"overall"`
	BusinessScore     float64   `json:"business_score"`
	IntegrityScore    float64   `json:"integrity_score"`
	AvailabilityScore float64   `json:"availability_score"`
	BIVScore          float64   `json:"biv_score"`
	Breakdown         Breakdown `json:"breakdown"`
	RiskLevel         RiskLevel `json:"risk_level"`
	RiskScore         int       `json:"risk_score"`
}

// Round2 rounds to two decimal places, the precision used for all stored
// percentage fields. Applied at aggregation time only, never per answer.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HasContent reports whether a free-text field counts as present for
// scoring purposes: non-empty after trimming whitespace.
func HasContent(s string) bool {
	return strings.TrimSpace(s) != ""
}
