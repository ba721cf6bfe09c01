package scoring

// RiskLevel classifies a BIV score into a coarse risk band.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ClassificationPolicy holds the score thresholds for a risk band mapping.
// Two policies coexist in the platform and must stay independent: assessment
// scoring classifies at 71/41 while the review commit path classifies at
// 80/60. The divergence is inherited behavior; do not unify the two without
// product sign-off.
type ClassificationPolicy struct {
	LowMin    float64 // scores at or above this are LOW risk
	MediumMin float64 // scores at or above this (but below LowMin) are MEDIUM
}

// AssessmentPolicy is the classification applied when a submission's BIV
// score is computed at submit time.
func AssessmentPolicy() ClassificationPolicy {
	return ClassificationPolicy{LowMin: 71, MediumMin: 41}
}

// ReviewPolicy is the classification applied to supplier posture updates
// during review, both on approval commits and on penalty decays.
func ReviewPolicy() ClassificationPolicy {
	return ClassificationPolicy{LowMin: 80, MediumMin: 60}
}

// Level maps a BIV score to a risk level under this policy.
func (p ClassificationPolicy) Level(bivScore float64) RiskLevel {
	switch {
	case bivScore >= p.LowMin:
		return RiskLow
	case bivScore >= p.MediumMin:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RiskScore converts a risk level to its sort ordinal. Unmapped input
// defaults to 2 (MEDIUM).
func RiskScore(level RiskLevel) int {
	switch level {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 2
	}
}

// NIS2Compliant reports whether a BIV score meets the NIS2 compliance bar.
func NIS2Compliant(bivScore float64) bool {
	return bivScore >= NIS2Threshold
}

// Decay applies the review penalty to a single posture score: unresolved
// risk compounds, so rejected reviews shrink the supplier's current scores
// instead of resetting them to the new submission's values.
func Decay(score float64) float64 {
	decayed := Round2(score * PenaltyFactor)
	if decayed < 0 {
		return 0
	}
	return decayed
}
