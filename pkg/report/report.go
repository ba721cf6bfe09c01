// Package report defines output rendering for supplyscore results.
// Implementations handle different output targets: terminal and JSON.
package report

import (
	"io"

	"github.com/supplyscore/supplyscore/pkg/scoring"
)

// Renderer produces formatted output from a scored answer sheet.
type Renderer interface {
	// Render writes the formatted sheet to the writer.
	Render(w io.Writer, sheet *ScoreSheet) error
}

// ScoreSheet is the result of scoring a full answer set offline.
type ScoreSheet struct {
	Title  string            `json:"title,omitempty"`
	Rows   []Row             `json:"rows"`
	Result scoring.Result    `json:"result"`
	Review scoring.RiskLevel `json:"review_risk_level"` // classification under review thresholds
}

// Row is one scored answer in the sheet.
type Row struct {
	Question    string              `json:"question"`
	Category    string              `json:"category,omitempty"`
	Answer      scoring.AnswerValue `json:"answer"`
	HasComment  bool                `json:"has_comment"`
	HasEvidence bool                `json:"has_evidence"`
	Score       float64             `json:"score"`
	MaxScore    int                 `json:"max_score"`
}
