// Package api implements the hosted SupplyScore REST API.
// It exposes the assessment catalog, the submission lifecycle, the review
// flow, and evidence artifact storage over Postgres and blob storage.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/supplyscore/supplyscore/internal/assessment"
	"github.com/supplyscore/supplyscore/internal/catalog"
	"github.com/supplyscore/supplyscore/internal/evidence"
)

// Handler is the top-level API handler for the hosted SupplyScore service.
type Handler struct {
	catalogSvc *catalog.Service
	engine     *assessment.Service
	storage    evidence.StorageClient
}

// NewHandler creates a new API handler. storage may be nil when artifact
// endpoints are not needed.
func NewHandler(catalogSvc *catalog.Service, engine *assessment.Service, storage evidence.StorageClient) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		engine:     engine,
		storage:    storage,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Catalog
	mux.HandleFunc("GET /api/v1/assessments", h.handleListAssessments)
	mux.HandleFunc("GET /api/v1/assessments/{assessmentID}", h.handleGetAssessment)

	// Submission lifecycle
	mux.HandleFunc("POST /api/v1/assessments/{assessmentID}/start", h.handleStartAssessment)
	mux.HandleFunc("GET /api/v1/submissions", h.handleListSubmissions)
	mux.HandleFunc("GET /api/v1/submissions/{submissionID}", h.handleGetSubmission)
	mux.HandleFunc("GET /api/v1/submissions/{submissionID}/answers", h.handleListAnswers)
	mux.HandleFunc("PUT /api/v1/submissions/{submissionID}/answers/{questionID}", h.handleSaveAnswer)
	mux.HandleFunc("POST /api/v1/submissions/{submissionID}/submit", h.handleSubmit)
	mux.HandleFunc("POST /api/v1/submissions/{submissionID}/review", h.handleReview)

	// Evidence workflow
	mux.HandleFunc("POST /api/v1/submissions/{submissionID}/answers/{questionID}/evidence/review", h.handleReviewEvidence)
	mux.HandleFunc("POST /api/v1/submissions/{submissionID}/answers/{questionID}/evidence/request", h.handleRequestEvidence)
	mux.HandleFunc("DELETE /api/v1/submissions/{submissionID}/answers/{questionID}/evidence", h.handleRemoveEvidence)
	mux.HandleFunc("POST /api/v1/evidence/artifacts", h.handleUploadArtifact)
	mux.HandleFunc("GET /api/v1/evidence/artifacts/{ref}", h.handleDownloadArtifact)

	// Supplier posture
	mux.HandleFunc("GET /api/v1/suppliers/{supplierID}", h.handleGetSupplier)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps engine errors onto HTTP statuses. Anything that is
// not a typed domain error is a 500 and gets logged server-side only.
func writeEngineError(w http.ResponseWriter, err error) {
	var derr *assessment.Error
	if !errors.As(err, &derr) {
		log.Printf("api: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch derr.Kind {
	case assessment.KindNotFound:
		status = http.StatusNotFound
	case assessment.KindForbidden:
		status = http.StatusForbidden
	case assessment.KindBadRequest:
		status = http.StatusBadRequest
	case assessment.KindNotEditable, assessment.KindNotSubmittable, assessment.KindIncompleteSubmission:
		status = http.StatusConflict
	}
	writeError(w, status, derr.Msg)
}
