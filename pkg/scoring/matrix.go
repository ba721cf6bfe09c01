package scoring

// matrixKey indexes the answer-scoring matrix: answer value crossed with the
// presence of a comment and supporting evidence.
type matrixKey struct {
	Value       AnswerValue
	HasComment  bool
	HasEvidence bool
}

// multipliers is the full scoring matrix as a fraction of the question's max
// score. Cells not present here are undefined and score zero; in particular
// NOT_APPLICABLE with both or with neither of comment/evidence is
// deliberately unmapped rather than defaulting to a neighbouring cell.
var multipliers = map[matrixKey]float64{
	{AnswerYes, true, true}:   1.00,
	{AnswerYes, false, true}:  0.80,
	{AnswerYes, true, false}:  0.60,
	{AnswerYes, false, false}: 0.50,

	{AnswerPartial, true, true}:   0.80,
	{AnswerPartial, false, true}:  0.80,
	{AnswerPartial, true, false}:  0.60,
	{AnswerPartial, false, false}: 0.50,

	{AnswerNo, true, true}:   0.60,
	{AnswerNo, false, true}:  0.50,
	{AnswerNo, true, false}:  0.30,
	{AnswerNo, false, false}: 0.20,

	{AnswerNotApplicable, false, true}: 0.50,
	{AnswerNotApplicable, true, false}: 0.30,
}

// Multiplier returns the matrix fraction for the given cell, or 0 for any
// undefined cell (including every AnswerNA combination).
func Multiplier(v AnswerValue, hasComment, hasEvidence bool) float64 {
	return multipliers[matrixKey{v, hasComment, hasEvidence}]
}

// Score computes the points for a single answer. Comment and evidence count
// as present only when non-blank after trimming. The result is not rounded;
// rounding happens at aggregation time.
func Score(v AnswerValue, comments, evidence string, maxScore int) float64 {
	if maxScore <= 0 {
		return 0
	}
	return Multiplier(v, HasContent(comments), HasContent(evidence)) * float64(maxScore)
}
