package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/supplyscore/supplyscore/pkg/scoring"
)

func testSheet() *ScoreSheet {
	answers := []scoring.AnswerScore{
		{Category: "BUSINESS", Score: 8, MaxScore: 10},
		{Category: "INTEGRITY", Score: 6, MaxScore: 10},
		{Category: "AVAILABILITY", Score: 4, MaxScore: 10},
	}
	res := scoring.Aggregate(answers, scoring.DefaultWeights())
	return &ScoreSheet{
		Title: "Vendor onboarding",
		Rows: []Row{
			{Question: "Do you encrypt data at rest?", Category: "BUSINESS",
				Answer: scoring.AnswerYes, HasComment: true, HasEvidence: true, Score: 8, MaxScore: 10},
		},
		Result: res,
		Review: scoring.ReviewPolicy().Level(res.BIVScore),
	}
}

func TestTerminalRenderer(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	r := &TerminalRenderer{}
	if err := r.Render(&buf, testSheet()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Vendor onboarding",
		"BIV 60.00",
		"Business",
		"NIS2 compliant: no",
		"Do you encrypt data at rest?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{}
	if err := r.Render(&buf, testSheet()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{`"biv_score": 60`, `"risk_level": "MEDIUM"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %q:\n%s", want, out)
		}
	}
}
