package scoring

// Platform-wide scoring constants. Values inherited from the production
// scoring rules; see individual notes before changing any of them.
const (
	// OverallScale is the factor applied to the raw score ratio when
	// producing the stored overall percentage. It is 90, not 100 — a
	// long-standing quirk with no recorded rationale. Preserved verbatim
	// because downstream compliance reports are calibrated against it.
	OverallScale = 90

	// PenaltyFactor shrinks a supplier's live scores when a review ends in
	// REJECTED or REQUIRES_ACTION.
	PenaltyFactor = 0.85

	// NIS2Threshold is the minimum BIV score for NIS2 compliance.
	NIS2Threshold = 71
)

// Weights distributes the BIV composite across the three categories.
type Weights struct {
	Business     float64 `yaml:"business"`
	Integrity    float64 `yaml:"integrity"`
	Availability float64 `yaml:"availability"`
}

// DefaultWeights returns the standard equally-weighted BIV split.
func DefaultWeights() Weights {
	return Weights{
		Business:     1.0 / 3.0,
		Integrity:    1.0 / 3.0,
		Availability: 1.0 / 3.0,
	}
}
