package scoring_test

import (
	"testing"

	"github.com/supplyscore/supplyscore/pkg/scoring"
)

func TestAggregateBusinessBucket(t *testing.T) {
	answers := []scoring.AnswerScore{
		{Category: "BUSINESS", Score: 8, MaxScore: 10},
		{Category: "business", Score: 6, MaxScore: 10},
		{Category: "Business", Score: 4, MaxScore: 10},
	}

	res := scoring.Aggregate(answers, scoring.DefaultWeights())

	if res.BusinessScore != 60.00 {
		t.Errorf("BusinessScore = %v, want 60.00", res.BusinessScore)
	}
	if res.IntegrityScore != 0 {
		t.Errorf("IntegrityScore = %v, want 0 for empty bucket", res.IntegrityScore)
	}
	if res.AvailabilityScore != 0 {
		t.Errorf("AvailabilityScore = %v, want 0 for empty bucket", res.AvailabilityScore)
	}
}

func TestAggregateFullMarks(t *testing.T) {
	answers := []scoring.AnswerScore{
		{Category: "BUSINESS", Score: 10, MaxScore: 10},
		{Category: "INTEGRITY", Score: 5, MaxScore: 5},
		{Category: "AVAILABILITY", Score: 20, MaxScore: 20},
	}

	res := scoring.Aggregate(answers, scoring.DefaultWeights())

	if res.BusinessScore != 100.00 || res.IntegrityScore != 100.00 || res.AvailabilityScore != 100.00 {
		t.Errorf("category scores = %v/%v/%v, want 100.00 each",
			res.BusinessScore, res.IntegrityScore, res.AvailabilityScore)
	}
	if res.BIVScore != 100.00 {
		t.Errorf("BIVScore = %v, want 100.00", res.BIVScore)
	}
	if res.RiskLevel != scoring.RiskLow {
		t.Errorf("RiskLevel = %s, want LOW", res.RiskLevel)
	}
	if res.RiskScore != 1 {
		t.Errorf("RiskScore = %d, want 1", res.RiskScore)
	}
}

func TestAggregateOverallUsesNinetyScale(t *testing.T) {
	// The stored overall percentage scales by 90, not 100. Inherited
	// behavior; see scoring.OverallScale.
	answers := []scoring.AnswerScore{
		{Category: "BUSINESS", Score: 10, MaxScore: 10},
	}

	res := scoring.Aggregate(answers, scoring.DefaultWeights())

	if res.Overall != 90.00 {
		t.Errorf("Overall = %v, want 90.00 for a full-marks sheet", res.Overall)
	}
}

func TestAggregateUnmatchedCategoryExcludedFromBuckets(t *testing.T) {
	answers := []scoring.AnswerScore{
		{Category: "BUSINESS", Score: 5, MaxScore: 10},
		{Category: "GOVERNANCE", Score: 10, MaxScore: 10}, // not a BIV category
		{Category: "", Score: 10, MaxScore: 10},
	}

	res := scoring.Aggregate(answers, scoring.DefaultWeights())

	if res.BusinessScore != 50.00 {
		t.Errorf("BusinessScore = %v, want 50.00 (unmatched answers excluded)", res.BusinessScore)
	}
	// Overall still counts every answer: 25/30 * 90 = 75.00.
	if res.Overall != 75.00 {
		t.Errorf("Overall = %v, want 75.00", res.Overall)
	}
}

func TestAggregateEmpty(t *testing.T) {
	res := scoring.Aggregate(nil, scoring.DefaultWeights())

	if res.Overall != 0 || res.BIVScore != 0 {
		t.Errorf("empty aggregate = overall %v, biv %v, want zeros", res.Overall, res.BIVScore)
	}
	if res.RiskLevel != scoring.RiskHigh {
		t.Errorf("RiskLevel = %s, want HIGH for zero BIV score", res.RiskLevel)
	}
}

func TestAggregateBreakdownRetainsContributions(t *testing.T) {
	answers := []scoring.AnswerScore{
		{Category: "BUSINESS", Score: 9, MaxScore: 10},
		{Category: "INTEGRITY", Score: 6, MaxScore: 10},
		{Category: "AVAILABILITY", Score: 3, MaxScore: 10},
	}
	w := scoring.DefaultWeights()

	res := scoring.Aggregate(answers, w)

	if res.Breakdown.Business.Score != 90.00 {
		t.Errorf("Breakdown.Business.Score = %v, want 90.00", res.Breakdown.Business.Score)
	}
	if res.Breakdown.Business.Weight != w.Business {
		t.Errorf("Breakdown.Business.Weight = %v, want %v", res.Breakdown.Business.Weight, w.Business)
	}
	sum := scoring.Round2(res.Breakdown.Business.Weighted +
		res.Breakdown.Integrity.Weighted +
		res.Breakdown.Availability.Weighted)
	if res.BIVScore != sum {
		t.Errorf("BIVScore = %v, want sum of weighted contributions %v", res.BIVScore, sum)
	}
	// (90 + 60 + 30) / 3 = 60.
	if res.BIVScore != 60.00 {
		t.Errorf("BIVScore = %v, want 60.00", res.BIVScore)
	}
}

func TestAggregateCustomWeights(t *testing.T) {
	answers := []scoring.AnswerScore{
		{Category: "BUSINESS", Score: 10, MaxScore: 10},
		{Category: "INTEGRITY", Score: 0, MaxScore: 10},
		{Category: "AVAILABILITY", Score: 0, MaxScore: 10},
	}
	w := scoring.Weights{Business: 0.5, Integrity: 0.25, Availability: 0.25}

	res := scoring.Aggregate(answers, w)

	if res.BIVScore != 50.00 {
		t.Errorf("BIVScore = %v, want 50.00 with business weighted 0.5", res.BIVScore)
	}
}
