package scoring

// Aggregate groups an answer set into BIV category buckets, computes the
// normalized category percentages, the weighted BIV composite, the overall
// submission percentage, and the assessment risk classification.
//
// Answers whose category does not match BUSINESS / INTEGRITY / AVAILABILITY
// (case-insensitively) are excluded from the category buckets but still count
// toward the overall percentage.
func Aggregate(answers []AnswerScore, w Weights) Result {
	type bucket struct {
		score float64
		max   int
	}
	var business, integrity, availability, all bucket

	for _, a := range answers {
		all.score += a.Score
		all.max += a.MaxScore

		cat, ok := ParseBIVCategory(a.Category)
		if !ok {
			continue
		}
		switch cat {
		case CategoryBusiness:
			business.score += a.Score
			business.max += a.MaxScore
		case CategoryIntegrity:
			integrity.score += a.Score
			integrity.max += a.MaxScore
		case CategoryAvailability:
			availability.score += a.Score
			availability.max += a.MaxScore
		}
	}

	pct := func(b bucket) float64 {
		if b.max == 0 {
			return 0
		}
		return Round2(b.score / float64(b.max) * 100)
	}

	res := Result{
		BusinessScore:     pct(business),
		IntegrityScore:    pct(integrity),
		AvailabilityScore: pct(availability),
	}

	res.Breakdown = Breakdown{
		Business:     Contribution{Score: res.BusinessScore, Weight: w.Business, Weighted: res.BusinessScore * w.Business},
		Integrity:    Contribution{Score: res.IntegrityScore, Weight: w.Integrity, Weighted: res.IntegrityScore * w.Integrity},
		Availability: Contribution{Score: res.AvailabilityScore, Weight: w.Availability, Weighted: res.AvailabilityScore * w.Availability},
	}
	res.BIVScore = Round2(res.Breakdown.Business.Weighted +
		res.Breakdown.Integrity.Weighted +
		res.Breakdown.Availability.Weighted)

	if all.max > 0 {
		res.Overall = Round2(all.score / float64(all.max) * OverallScale)
	}

	policy := AssessmentPolicy()
	res.RiskLevel = policy.Level(res.BIVScore)
	res.RiskScore = RiskScore(res.RiskLevel)

	return res
}
