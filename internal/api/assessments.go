package api

import (
	"errors"
	"net/http"

	"github.com/supplyscore/supplyscore/internal/catalog"
)

type assessmentResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Stage       string             `json:"stage"`
	TotalPoints int                `json:"total_points"`
	Categories  []categoryResponse `json:"categories,omitempty"`
	CreatedAt   string             `json:"created_at"`
}

type categoryResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Position  int                `json:"position"`
	Questions []questionResponse `json:"questions"`
}

type questionResponse struct {
	ID               string  `json:"id"`
	Prompt           string  `json:"prompt"`
	BIVCategory      *string `json:"biv_category,omitempty"`
	MaxScore         int     `json:"max_score"`
	EvidenceRequired bool    `json:"evidence_required"`
	Position         int     `json:"position"`
}

func assessmentToResponse(a *catalog.Assessment) assessmentResponse {
	resp := assessmentResponse{
		ID:          a.ID,
		Title:       a.Title,
		Stage:       string(a.Stage),
		TotalPoints: a.TotalPoints,
		CreatedAt:   a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, c := range a.Categories {
		cr := categoryResponse{ID: c.ID, Name: c.Name, Position: c.Position}
		for _, q := range c.Questions {
			cr.Questions = append(cr.Questions, questionResponse{
				ID:               q.ID,
				Prompt:           q.Prompt,
				BIVCategory:      q.BIVCategory,
				MaxScore:         q.MaxScore,
				EvidenceRequired: q.EvidenceRequired,
				Position:         q.Position,
			})
		}
		resp.Categories = append(resp.Categories, cr)
	}
	return resp
}

func (h *Handler) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	assessments, err := h.catalogSvc.ListAssessments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list assessments")
		return
	}

	result := []assessmentResponse{}
	for i := range assessments {
		result = append(result, assessmentToResponse(&assessments[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := h.catalogSvc.GetAssessment(r.Context(), r.PathValue("assessmentID"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load assessment")
		return
	}
	writeJSON(w, http.StatusOK, assessmentToResponse(a))
}

func (h *Handler) handleStartAssessment(w http.ResponseWriter, r *http.Request) {
	sub, err := h.engine.StartAssessment(r.Context(), r.PathValue("assessmentID"), caller(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionToResponse(sub))
}
