package api

import (
	"net/http"

	"github.com/supplyscore/supplyscore/internal/assessment"
)

type supplierResponse struct {
	ID                 string  `json:"id"`
	OverallScore       float64 `json:"overall_score"`
	BIVScore           float64 `json:"biv_score"`
	BusinessScore      float64 `json:"business_score"`
	IntegrityScore     float64 `json:"integrity_score"`
	AvailabilityScore  float64 `json:"availability_score"`
	RiskLevel          string  `json:"risk_level"`
	NIS2Compliant      bool    `json:"nis2_compliant"`
	LastAssessmentDate *string `json:"last_assessment_date,omitempty"`
}

func supplierToResponse(p *assessment.SupplierPosture) supplierResponse {
	return supplierResponse{
		ID:                 p.SupplierID,
		OverallScore:       p.OverallScore,
		BIVScore:           p.BIVScore,
		BusinessScore:      p.BusinessScore,
		IntegrityScore:     p.IntegrityScore,
		AvailabilityScore:  p.AvailabilityScore,
		RiskLevel:          string(p.RiskLevel),
		NIS2Compliant:      p.NIS2Compliant,
		LastAssessmentDate: formatTime(p.LastAssessmentDate),
	}
}

func (h *Handler) handleGetSupplier(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.GetSupplierPosture(r.Context(), r.PathValue("supplierID"), caller(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, supplierToResponse(p))
}
