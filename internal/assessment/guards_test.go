package assessment

import (
	"errors"
	"testing"
	"time"

	"github.com/supplyscore/supplyscore/internal/identity"
	"github.com/supplyscore/supplyscore/pkg/scoring"
)

func TestEditable(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusDraft, true},
		{StatusRejected, true},
		{StatusRequiresAction, true},
		{StatusPending, false},
		{StatusSubmitted, false},
		{StatusUnderReview, false},
		{StatusApproved, false},
	}
	for _, tt := range tests {
		if got := Editable(tt.status); got != tt.want {
			t.Errorf("Editable(%s) = %v, want %v", tt.status, got, tt.want)
		}
		if got := Submittable(tt.status); got != tt.want {
			t.Errorf("Submittable(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestReviewable(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusSubmitted, true},
		{StatusUnderReview, true},
		{StatusRequiresAction, true},
		{StatusDraft, false},
		{StatusApproved, false},
		{StatusRejected, false},
	}
	for _, tt := range tests {
		if got := Reviewable(tt.status); got != tt.want {
			t.Errorf("Reviewable(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestReviewOutcome(t *testing.T) {
	for _, s := range []Status{StatusApproved, StatusRejected, StatusRequiresAction} {
		if !ReviewOutcome(s) {
			t.Errorf("ReviewOutcome(%s) = false, want true", s)
		}
	}
	for _, s := range []Status{StatusDraft, StatusPending, StatusSubmitted, StatusUnderReview, Status("BOGUS")} {
		if ReviewOutcome(s) {
			t.Errorf("ReviewOutcome(%s) = true, want false", s)
		}
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		answered, total, want int
	}{
		{0, 10, 0},
		{5, 10, 50},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := Progress(tt.answered, tt.total); got != tt.want {
			t.Errorf("Progress(%d, %d) = %d, want %d", tt.answered, tt.total, got, tt.want)
		}
	}
}

func TestNextEvidenceStatus(t *testing.T) {
	tests := []struct {
		name                      string
		prev                      EvidenceStatus
		prevEvidence, newEvidence string
		required                  bool
		want                      EvidenceStatus
	}{
		{"not required", "", "", "https://e.example/doc", false, EvidencePending},
		{"required, no evidence", EvidencePending, "", "", true, EvidencePending},
		{"required, blank evidence", EvidencePending, "", "   ", true, EvidencePending},
		{"first evidence", EvidencePending, "", "https://e.example/doc", true, EvidenceSubmitted},
		{"resubmitted after rejection", EvidenceRejected, "old", "new", true, EvidenceSubmitted},
		{"resubmitted after request", EvidenceRequested, "old", "new", true, EvidenceSubmitted},
		{"approved, evidence unchanged", EvidenceApproved, "same", "same", true, EvidenceApproved},
		{"approved, evidence replaced", EvidenceApproved, "old", "new", true, EvidenceSubmitted},
		{"evidence cleared", EvidenceSubmitted, "old", "", true, EvidencePending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextEvidenceStatus(tt.prev, tt.prevEvidence, tt.newEvidence, tt.required)
			if got != tt.want {
				t.Errorf("nextEvidenceStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateEvidenceReview(t *testing.T) {
	tests := []struct {
		name                  string
		in                    EvidenceReviewInput
		required, hasEvidence bool
		wantOK                bool
	}{
		{"approve", EvidenceReviewInput{Status: EvidenceApproved}, true, true, true},
		{"reject with reason", EvidenceReviewInput{Status: EvidenceRejected, RejectionReason: "expired cert"}, true, true, true},
		{"reject without reason", EvidenceReviewInput{Status: EvidenceRejected}, true, true, true},
		{"requested is not a review outcome", EvidenceReviewInput{Status: EvidenceRequested}, true, true, false},
		{"pending is not a review outcome", EvidenceReviewInput{Status: EvidencePending}, true, true, false},
		{"question takes no evidence", EvidenceReviewInput{Status: EvidenceApproved}, false, true, false},
		{"nothing to judge", EvidenceReviewInput{Status: EvidenceRejected}, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEvidenceReview(tt.in, tt.required, tt.hasEvidence)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("validateEvidenceReview = %v, want nil", err)
				}
				return
			}
			var derr *Error
			if !errors.As(err, &derr) {
				t.Fatalf("validateEvidenceReview = %v, want *Error", err)
			}
			if derr.Kind != KindBadRequest {
				t.Errorf("kind = %d, want %d", derr.Kind, KindBadRequest)
			}
		})
	}
}

func TestDecayPosture(t *testing.T) {
	now := time.Now().UTC()
	p := SupplierPosture{
		SupplierID:        "s1",
		OverallScore:      90,
		BIVScore:          85,
		BusinessScore:     80,
		IntegrityScore:    90,
		AvailabilityScore: 85,
		RiskLevel:         scoring.RiskLow,
		NIS2Compliant:     true,
	}

	got := decayPosture(p, now)

	if got.OverallScore != 76.5 {
		t.Errorf("OverallScore = %v, want 76.5", got.OverallScore)
	}
	if got.BIVScore != 72.25 {
		t.Errorf("BIVScore = %v, want 72.25", got.BIVScore)
	}
	if got.BusinessScore != 68 {
		t.Errorf("BusinessScore = %v, want 68", got.BusinessScore)
	}
	// 72.25 sits between the review policy's 60 and 80 cutoffs.
	if got.RiskLevel != scoring.RiskMedium {
		t.Errorf("RiskLevel = %s, want MEDIUM", got.RiskLevel)
	}
	// Still at or above the NIS2 threshold of 71.
	if !got.NIS2Compliant {
		t.Error("NIS2Compliant = false, want true")
	}
	if got.LastAssessmentDate == nil || !got.LastAssessmentDate.Equal(now) {
		t.Errorf("LastAssessmentDate = %v, want %v", got.LastAssessmentDate, now)
	}
	if p.OverallScore != 90 {
		t.Error("decayPosture mutated its input")
	}
}

func TestDecayPostureRepeatedDecayDropsRisk(t *testing.T) {
	now := time.Now().UTC()
	p := SupplierPosture{SupplierID: "s1", BIVScore: 85, RiskLevel: scoring.RiskLow}
	for i := 0; i < 5; i++ {
		p = decayPosture(p, now)
	}
	if p.BIVScore >= 85 {
		t.Errorf("BIVScore = %v, want decayed below 85", p.BIVScore)
	}
	if p.RiskLevel != scoring.RiskHigh {
		t.Errorf("RiskLevel after repeated decay = %s, want HIGH", p.RiskLevel)
	}
	if p.NIS2Compliant {
		t.Error("NIS2Compliant = true after repeated decay")
	}
}

func TestApprovedPosture(t *testing.T) {
	now := time.Now().UTC()
	got := approvedPosture("s1", ReviewScores{
		Overall: 81, BIV: 90, Business: 88, Integrity: 92, Availability: 90,
	}, now)

	if got.SupplierID != "s1" {
		t.Errorf("SupplierID = %s, want s1", got.SupplierID)
	}
	if got.RiskLevel != scoring.RiskLow {
		t.Errorf("RiskLevel = %s, want LOW", got.RiskLevel)
	}
	if !got.NIS2Compliant {
		t.Error("NIS2Compliant = false, want true")
	}

	// The review policy is stricter than the assessment policy: 75 is LOW
	// at assessment time but only MEDIUM once a reviewer signs off.
	got = approvedPosture("s1", ReviewScores{BIV: 75}, now)
	if got.RiskLevel != scoring.RiskMedium {
		t.Errorf("RiskLevel at BIV 75 = %s, want MEDIUM", got.RiskLevel)
	}
}

func strptr(s string) *string { return &s }

func TestCanReview(t *testing.T) {
	sub := &Submission{UserID: "owner", VendorID: strptr("v1")}

	tests := []struct {
		name     string
		caller   identity.Identity
		wantKind Kind
		wantOK   bool
	}{
		{"admin", identity.Identity{UserID: "a", Role: identity.RoleAdmin}, 0, true},
		{"matching vendor", identity.Identity{UserID: "v", Role: identity.RoleVendor, VendorID: strptr("v1")}, 0, true},
		{"other vendor", identity.Identity{UserID: "v", Role: identity.RoleVendor, VendorID: strptr("v2")}, KindNotFound, false},
		{"vendor without org", identity.Identity{UserID: "v", Role: identity.RoleVendor}, KindNotFound, false},
		{"supplier", identity.Identity{UserID: "owner", Role: identity.RoleSupplier}, KindForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := canReview(tt.caller, sub)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("canReview = %v, want nil", err)
				}
				return
			}
			var derr *Error
			if !errors.As(err, &derr) {
				t.Fatalf("canReview = %v, want *Error", err)
			}
			if derr.Kind != tt.wantKind {
				t.Errorf("kind = %d, want %d", derr.Kind, tt.wantKind)
			}
		})
	}
}

func TestCanViewOwner(t *testing.T) {
	sub := &Submission{UserID: "owner", VendorID: strptr("v1")}
	owner := identity.Identity{UserID: "owner", Role: identity.RoleSupplier}
	if err := canView(owner, sub); err != nil {
		t.Errorf("canView(owner) = %v, want nil", err)
	}
	stranger := identity.Identity{UserID: "other", Role: identity.RoleSupplier}
	if err := canView(stranger, sub); err == nil {
		t.Error("canView(stranger) = nil, want error")
	}
}
