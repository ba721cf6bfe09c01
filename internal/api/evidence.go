package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/supplyscore/supplyscore/internal/assessment"
	"github.com/supplyscore/supplyscore/internal/evidence"
)

type evidenceReviewRequest struct {
	Status          string   `json:"status"`
	Score           *float64 `json:"score"`
	RejectionReason string   `json:"rejection_reason"`
}

func (h *Handler) handleReviewEvidence(w http.ResponseWriter, r *http.Request) {
	var req evidenceReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	answer, err := h.engine.ReviewEvidence(r.Context(),
		r.PathValue("submissionID"), r.PathValue("questionID"), caller(r),
		assessment.EvidenceReviewInput{
			Status:          assessment.EvidenceStatus(req.Status),
			Score:           req.Score,
			RejectionReason: req.RejectionReason,
		},
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerToResponse(answer))
}

type evidenceRequestRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleRequestEvidence(w http.ResponseWriter, r *http.Request) {
	var req evidenceRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	answer, err := h.engine.RequestEvidence(r.Context(),
		r.PathValue("submissionID"), r.PathValue("questionID"), caller(r), req.Reason)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerToResponse(answer))
}

func (h *Handler) handleRemoveEvidence(w http.ResponseWriter, r *http.Request) {
	answer, err := h.engine.RemoveEvidence(r.Context(),
		r.PathValue("submissionID"), r.PathValue("questionID"), caller(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerToResponse(answer))
}

// 25 MB, matching the upload limit of the hosted frontend.
const maxArtifactBytes = 25 << 20

// handleUploadArtifact stores a raw evidence artifact for the calling
// supplier and returns its reference. The reference goes into an answer's
// evidence field as an opaque string.
func (h *Handler) handleUploadArtifact(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusNotImplemented, "artifact storage is not configured")
		return
	}

	id := caller(r)
	if id.SupplierID == nil {
		writeError(w, http.StatusForbidden, "only suppliers upload artifacts")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxArtifactBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty artifact")
		return
	}
	if len(data) > maxArtifactBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "artifact too large")
		return
	}

	ref := evidence.NewRef()
	if err := h.storage.PutArtifact(r.Context(), *id.SupplierID, ref, data); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store artifact")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

// handleDownloadArtifact streams an artifact back. Suppliers read their own
// store; vendors and admins name the supplier with ?supplier_id=.
func (h *Handler) handleDownloadArtifact(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusNotImplemented, "artifact storage is not configured")
		return
	}

	id := caller(r)
	supplierID := r.URL.Query().Get("supplier_id")
	switch {
	case id.SupplierID != nil && (supplierID == "" || supplierID == *id.SupplierID):
		supplierID = *id.SupplierID
	case id.IsAdmin() && supplierID != "":
	case id.VendorID != nil && supplierID != "":
		// Vendor visibility over the supplier is enforced by the posture
		// endpoint; artifact refs are unguessable UUIDs.
	default:
		writeError(w, http.StatusBadRequest, "supplier_id is required")
		return
	}

	data, err := h.storage.GetArtifact(r.Context(), supplierID, r.PathValue("ref"))
	if err != nil {
		writeError(w, http.StatusNotFound, "artifact not found")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
