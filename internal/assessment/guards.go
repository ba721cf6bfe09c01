package assessment

import (
	"fmt"
	"math"
	"time"

	"github.com/supplyscore/supplyscore/internal/identity"
	"github.com/supplyscore/supplyscore/pkg/scoring"
)

// Editable reports whether a supplier may still change answers. Rejected and
// requires-action submissions reopen for editing so the supplier can fix and
// resubmit.
func Editable(s Status) bool {
	switch s {
	case StatusDraft, StatusRejected, StatusRequiresAction:
		return true
	}
	return false
}

// Submittable reports whether a submission may be handed over for review.
// The same states that allow editing allow submitting.
func Submittable(s Status) bool {
	return Editable(s)
}

// Reviewable reports whether a reviewer may decide on a submission.
// REQUIRES_ACTION stays reviewable so a vendor can escalate to REJECTED or
// approve late fixes without waiting for a resubmission.
func Reviewable(s Status) bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusUnderReview, StatusRequiresAction:
		return true
	}
	return false
}

// ReviewOutcome reports whether a status is a valid review decision.
func ReviewOutcome(s Status) bool {
	switch s {
	case StatusApproved, StatusRejected, StatusRequiresAction:
		return true
	}
	return false
}

// Progress returns the whole-percent completion of a submission.
func Progress(answered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(answered) / float64(total) * 100))
}

// nextEvidenceStatus decides the evidence marker after an answer write.
// Evidence only enters the workflow when the question requires it; approval
// survives a save that leaves the evidence field untouched, everything else
// re-enters SUBMITTED or falls back to PENDING.
func nextEvidenceStatus(prev EvidenceStatus, prevEvidence, newEvidence string, required bool) EvidenceStatus {
	if !required || !scoring.HasContent(newEvidence) {
		return EvidencePending
	}
	if prev == EvidenceApproved && prevEvidence == newEvidence {
		return EvidenceApproved
	}
	return EvidenceSubmitted
}

// validateEvidenceReview checks a reviewer's evidence decision before any
// writes. Reviewers decide APPROVED or REJECTED (REQUESTED goes through the
// request operation), the question must take evidence, and there must be
// evidence to judge. A rejection reason is optional.
func validateEvidenceReview(in EvidenceReviewInput, required, hasEvidence bool) error {
	if in.Status != EvidenceApproved && in.Status != EvidenceRejected {
		return badRequest(fmt.Sprintf("%s is not a valid evidence review outcome", in.Status))
	}
	if !required {
		return badRequest("question does not take evidence")
	}
	if !hasEvidence {
		return badRequest("answer has no evidence to review")
	}
	return nil
}

// decayPosture applies the penalty factor to every score dimension of a
// supplier's posture after a negative review, reclassifying risk under the
// review policy.
func decayPosture(p SupplierPosture, now time.Time) SupplierPosture {
	out := p
	out.OverallScore = scoring.Decay(p.OverallScore)
	out.BIVScore = scoring.Decay(p.BIVScore)
	out.BusinessScore = scoring.Decay(p.BusinessScore)
	out.IntegrityScore = scoring.Decay(p.IntegrityScore)
	out.AvailabilityScore = scoring.Decay(p.AvailabilityScore)
	out.RiskLevel = scoring.ReviewPolicy().Level(out.BIVScore)
	out.NIS2Compliant = scoring.NIS2Compliant(out.BIVScore)
	out.LastAssessmentDate = &now
	return out
}

// approvedPosture builds the authoritative posture committed on approval.
func approvedPosture(supplierID string, sc ReviewScores, now time.Time) SupplierPosture {
	return SupplierPosture{
		SupplierID:         supplierID,
		OverallScore:       sc.Overall,
		BIVScore:           sc.BIV,
		BusinessScore:      sc.Business,
		IntegrityScore:     sc.Integrity,
		AvailabilityScore:  sc.Availability,
		RiskLevel:          scoring.ReviewPolicy().Level(sc.BIV),
		NIS2Compliant:      scoring.NIS2Compliant(sc.BIV),
		LastAssessmentDate: &now,
	}
}

// canReview authorizes a review action. Admins see everything; vendors see
// only submissions addressed to their organization; suppliers never review.
// A vendor asking about another vendor's submission gets not-found rather
// than forbidden.
func canReview(caller identity.Identity, sub *Submission) error {
	switch caller.Role {
	case identity.RoleAdmin:
		return nil
	case identity.RoleVendor:
		if sub.VendorID != nil && caller.VendorID != nil && *sub.VendorID == *caller.VendorID {
			return nil
		}
		return notFound("submission not found")
	default:
		return forbidden("reviewing requires a vendor or admin role")
	}
}

// canView authorizes read access to a submission.
func canView(caller identity.Identity, sub *Submission) error {
	if sub.UserID == caller.UserID {
		return nil
	}
	return canReview(caller, sub)
}
