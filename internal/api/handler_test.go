package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/supplyscore/supplyscore/internal/assessment"
	"github.com/supplyscore/supplyscore/internal/evidence"
	"github.com/supplyscore/supplyscore/internal/identity"
)

func supplierIdentity(userID, supplierID string) identity.Identity {
	return identity.Identity{UserID: userID, Role: identity.RoleSupplier, SupplierID: &supplierID}
}

func authedMux(t *testing.T, h *Handler, provider identity.Provider) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return CORS(Auth(provider)(mux))
}

func TestAuthRejectsMissingToken(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	srv := authedMux(t, h, identity.Static{})

	req := httptest.NewRequest("GET", "/api/v1/submissions", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	srv := authedMux(t, h, identity.Static{"good": supplierIdentity("u1", "s1")})

	req := httptest.NewRequest("GET", "/api/v1/submissions", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	srv := authedMux(t, h, identity.Static{})

	req := httptest.NewRequest("OPTIONS", "/api/v1/submissions", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestSaveAnswerRejectsBadJSON(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	srv := authedMux(t, h, identity.Static{"tok": supplierIdentity("u1", "s1")})

	req := httptest.NewRequest("PUT", "/api/v1/submissions/sub1/answers/q1", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWriteEngineErrorMapping(t *testing.T) {
	tests := []struct {
		kind assessment.Kind
		want int
	}{
		{assessment.KindNotFound, http.StatusNotFound},
		{assessment.KindForbidden, http.StatusForbidden},
		{assessment.KindBadRequest, http.StatusBadRequest},
		{assessment.KindNotEditable, http.StatusConflict},
		{assessment.KindNotSubmittable, http.StatusConflict},
		{assessment.KindIncompleteSubmission, http.StatusConflict},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeEngineError(rec, &assessment.Error{Kind: tt.kind, Msg: "boom"})
		if rec.Code != tt.want {
			t.Errorf("kind %d: status = %d, want %d", tt.kind, rec.Code, tt.want)
		}

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("kind %d: invalid error body: %v", tt.kind, err)
		}
		if body["error"] != "boom" {
			t.Errorf("kind %d: error = %q, want boom", tt.kind, body["error"])
		}
	}
}

func TestWriteEngineErrorInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	writeEngineError(rec, bytes.ErrTooLarge)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	// The raw error text stays server-side.
	if strings.Contains(rec.Body.String(), bytes.ErrTooLarge.Error()) {
		t.Error("internal error detail leaked into response body")
	}
}

func TestArtifactUploadDownloadRoundTrip(t *testing.T) {
	storage := evidence.NewLocalStorage(t.TempDir())
	h := NewHandler(nil, nil, storage)
	srv := authedMux(t, h, identity.Static{"tok": supplierIdentity("u1", "s1")})

	payload := []byte("%PDF-1.7 audit report")
	req := httptest.NewRequest("POST", "/api/v1/evidence/artifacts", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	ref := created["ref"]
	if ref == "" {
		t.Fatal("upload returned empty ref")
	}

	req = httptest.NewRequest("GET", "/api/v1/evidence/artifacts/"+ref, nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Errorf("download body = %q, want %q", rec.Body.Bytes(), payload)
	}
}

func TestArtifactUploadRejectsEmptyBody(t *testing.T) {
	storage := evidence.NewLocalStorage(t.TempDir())
	h := NewHandler(nil, nil, storage)
	srv := authedMux(t, h, identity.Static{"tok": supplierIdentity("u1", "s1")})

	req := httptest.NewRequest("POST", "/api/v1/evidence/artifacts", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestArtifactUploadRequiresSupplier(t *testing.T) {
	storage := evidence.NewLocalStorage(t.TempDir())
	h := NewHandler(nil, nil, storage)
	srv := authedMux(t, h, identity.Static{
		"tok": {UserID: "admin", Role: identity.RoleAdmin},
	})

	req := httptest.NewRequest("POST", "/api/v1/evidence/artifacts", strings.NewReader("data"))
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
