package scoring_test

import (
	"testing"

	"github.com/supplyscore/supplyscore/pkg/scoring"
)

func TestAssessmentPolicyBoundaries(t *testing.T) {
	policy := scoring.AssessmentPolicy()

	tests := []struct {
		biv  float64
		want scoring.RiskLevel
	}{
		{100, scoring.RiskLow},
		{71, scoring.RiskLow},
		{70.99, scoring.RiskMedium},
		{41, scoring.RiskMedium},
		{40.99, scoring.RiskHigh},
		{0, scoring.RiskHigh},
	}

	for _, tc := range tests {
		if got := policy.Level(tc.biv); got != tc.want {
			t.Errorf("AssessmentPolicy.Level(%v) = %s, want %s", tc.biv, got, tc.want)
		}
	}
}

func TestReviewPolicyBoundaries(t *testing.T) {
	policy := scoring.ReviewPolicy()

	tests := []struct {
		biv  float64
		want scoring.RiskLevel
	}{
		{80, scoring.RiskLow},
		{79.99, scoring.RiskMedium},
		{60, scoring.RiskMedium},
		{59.99, scoring.RiskHigh},
	}

	for _, tc := range tests {
		if got := policy.Level(tc.biv); got != tc.want {
			t.Errorf("ReviewPolicy.Level(%v) = %s, want %s", tc.biv, got, tc.want)
		}
	}
}

func TestRiskScoreOrdinal(t *testing.T) {
	tests := []struct {
		level scoring.RiskLevel
		want  int
	}{
		{scoring.RiskLow, 1},
		{scoring.RiskMedium, 2},
		{scoring.RiskHigh, 3},
		{"", 2},
		{"UNKNOWN", 2},
	}

	for _, tc := range tests {
		if got := scoring.RiskScore(tc.level); got != tc.want {
			t.Errorf("RiskScore(%q) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestDecay(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{80, 68.00},
		{100, 85.00},
		{1, 0.85},
		{0, 0},
		{68, 57.80},
	}

	for _, tc := range tests {
		if got := scoring.Decay(tc.in); got != tc.want {
			t.Errorf("Decay(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDecayNeverIncreases(t *testing.T) {
	for _, v := range []float64{0, 0.01, 1, 41, 71, 99.99, 100} {
		if got := scoring.Decay(v); got > v {
			t.Errorf("Decay(%v) = %v, increased", v, got)
		}
	}
}

func TestNIS2Compliant(t *testing.T) {
	tests := []struct {
		biv  float64
		want bool
	}{
		{71, true},
		{100, true},
		{70.99, false},
		{0, false},
	}

	for _, tc := range tests {
		if got := scoring.NIS2Compliant(tc.biv); got != tc.want {
			t.Errorf("NIS2Compliant(%v) = %v, want %v", tc.biv, got, tc.want)
		}
	}
}
