package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/supplyscore/supplyscore/internal/assessment"
)

type submissionResponse struct {
	ID                string          `json:"id"`
	AssessmentID      string          `json:"assessment_id"`
	UserID            string          `json:"user_id"`
	SupplierID        *string         `json:"supplier_id,omitempty"`
	Status            string          `json:"status"`
	Stage             string          `json:"stage"`
	TotalQuestions    int             `json:"total_questions"`
	AnsweredQuestions int             `json:"answered_questions"`
	Progress          int             `json:"progress"`
	Score             *float64        `json:"score,omitempty"`
	BusinessScore     *float64        `json:"business_score,omitempty"`
	IntegrityScore    *float64        `json:"integrity_score,omitempty"`
	AvailabilityScore *float64        `json:"availability_score,omitempty"`
	BIVScore          *float64        `json:"biv_score,omitempty"`
	RiskLevel         *string         `json:"risk_level,omitempty"`
	RiskBreakdown     json.RawMessage `json:"risk_breakdown,omitempty"`
	RiskScore         *int            `json:"risk_score,omitempty"`
	SubmittedAt       *string         `json:"submitted_at,omitempty"`
	ReviewedAt        *string         `json:"reviewed_at,omitempty"`
	ReviewedBy        *string         `json:"reviewed_by,omitempty"`
	ReviewComments    *string         `json:"review_comments,omitempty"`
	ReviewerReport    *string         `json:"reviewer_report,omitempty"`
	ComplianceRate    *float64        `json:"compliance_rate,omitempty"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02T15:04:05Z")
	return &s
}

func submissionToResponse(sub *assessment.Submission) submissionResponse {
	return submissionResponse{
		ID:                sub.ID,
		AssessmentID:      sub.AssessmentID,
		UserID:            sub.UserID,
		SupplierID:        sub.SupplierID,
		Status:            string(sub.Status),
		Stage:             sub.Stage,
		TotalQuestions:    sub.TotalQuestions,
		AnsweredQuestions: sub.AnsweredQuestions,
		Progress:          sub.Progress,
		Score:             sub.Score,
		BusinessScore:     sub.BusinessScore,
		IntegrityScore:    sub.IntegrityScore,
		AvailabilityScore: sub.AvailabilityScore,
		BIVScore:          sub.BIVScore,
		RiskLevel:         sub.RiskLevel,
		RiskBreakdown:     sub.RiskBreakdown,
		RiskScore:         sub.RiskScore,
		SubmittedAt:       formatTime(sub.SubmittedAt),
		ReviewedAt:        formatTime(sub.ReviewedAt),
		ReviewedBy:        sub.ReviewedBy,
		ReviewComments:    sub.ReviewComments,
		ReviewerReport:    sub.ReviewerReport,
		ComplianceRate:    sub.ComplianceRate,
		CreatedAt:         sub.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:         sub.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

type answerResponse struct {
	ID                      string  `json:"id"`
	SubmissionID            string  `json:"submission_id"`
	QuestionID              string  `json:"question_id"`
	Answer                  string  `json:"answer"`
	Comments                *string `json:"comments,omitempty"`
	Evidence                *string `json:"evidence,omitempty"`
	EvidenceStatus          string  `json:"evidence_status"`
	EvidenceRejectionReason *string `json:"evidence_rejection_reason,omitempty"`
	Score                   float64 `json:"score"`
	MaxScore                int     `json:"max_score"`
	UpdatedAt               string  `json:"updated_at"`
}

func answerToResponse(a *assessment.Answer) answerResponse {
	return answerResponse{
		ID:                      a.ID,
		SubmissionID:            a.SubmissionID,
		QuestionID:              a.QuestionID,
		Answer:                  string(a.Answer),
		Comments:                a.Comments,
		Evidence:                a.Evidence,
		EvidenceStatus:          string(a.EvidenceStatus),
		EvidenceRejectionReason: a.EvidenceRejectionReason,
		Score:                   a.Score,
		MaxScore:                a.MaxScore,
		UpdatedAt:               a.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *Handler) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.engine.ListSubmissions(r.Context(), caller(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	result := []submissionResponse{}
	for i := range subs {
		result = append(result, submissionToResponse(&subs[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.engine.GetSubmission(r.Context(), r.PathValue("submissionID"), caller(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionToResponse(sub))
}

func (h *Handler) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	answers, err := h.engine.ListAnswers(r.Context(), r.PathValue("submissionID"), caller(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	result := []answerResponse{}
	for i := range answers {
		result = append(result, answerToResponse(&answers[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

type saveAnswerRequest struct {
	Answer   string `json:"answer"`
	Comments string `json:"comments"`
	Evidence string `json:"evidence"`
}

func (h *Handler) handleSaveAnswer(w http.ResponseWriter, r *http.Request) {
	var req saveAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	answer, err := h.engine.SaveAnswer(r.Context(),
		r.PathValue("submissionID"), r.PathValue("questionID"), caller(r),
		assessment.AnswerInput{Answer: req.Answer, Comments: req.Comments, Evidence: req.Evidence},
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerToResponse(answer))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sub, err := h.engine.SubmitAssessment(r.Context(), r.PathValue("submissionID"), caller(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionToResponse(sub))
}

type reviewRequest struct {
	Status         string               `json:"status"`
	ReviewComments string               `json:"review_comments"`
	ReviewerReport string               `json:"reviewer_report"`
	ComplianceRate *float64             `json:"compliance_rate"`
	Scores         *reviewScoresRequest `json:"scores"`
}

type reviewScoresRequest struct {
	Overall      float64 `json:"overall"`
	BIV          float64 `json:"biv"`
	Business     float64 `json:"business"`
	Integrity    float64 `json:"integrity"`
	Availability float64 `json:"availability"`
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in := assessment.ReviewInput{
		Status:         assessment.Status(req.Status),
		ReviewComments: req.ReviewComments,
		ReviewerReport: req.ReviewerReport,
		ComplianceRate: req.ComplianceRate,
	}
	if req.Scores != nil {
		in.Scores = &assessment.ReviewScores{
			Overall:      req.Scores.Overall,
			BIV:          req.Scores.BIV,
			Business:     req.Scores.Business,
			Integrity:    req.Scores.Integrity,
			Availability: req.Scores.Availability,
		}
	}

	sub, err := h.engine.ReviewAssessment(r.Context(), r.PathValue("submissionID"), caller(r), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionToResponse(sub))
}
