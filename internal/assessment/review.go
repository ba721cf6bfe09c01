package assessment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/supplyscore/supplyscore/internal/identity"
	"github.com/supplyscore/supplyscore/internal/notify"
)

// ReviewAssessment records a reviewer's decision on a submission.
//
// Approval commits the reviewer's score snapshot to the supplier posture,
// classified under the stricter review policy. Rejection and requires-action
// decay the supplier's existing posture by the penalty factor instead, and
// reopen the submission for editing.
func (s *Service) ReviewAssessment(ctx context.Context, submissionID string, reviewer identity.Identity, in ReviewInput) (*Submission, error) {
	if !ReviewOutcome(in.Status) {
		return nil, badRequest(fmt.Sprintf("%s is not a valid review outcome", in.Status))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin review: %w", err)
	}
	defer tx.Rollback()

	sub, err := lockSubmission(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := canReview(reviewer, sub); err != nil {
		return nil, err
	}
	if !Reviewable(sub.Status) {
		return nil, notEditable(fmt.Sprintf("submission is %s and cannot be reviewed", sub.Status))
	}

	now := time.Now().UTC()
	sub, err = scanSubmission(tx.QueryRowContext(ctx,
		`UPDATE submissions
		 SET status = $2, reviewed_at = $3, reviewed_by = $4,
		     review_comments = nullif($5, ''), reviewer_report = nullif($6, ''),
		     compliance_rate = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING `+submissionCols,
		submissionID, string(in.Status), now, reviewer.UserID,
		in.ReviewComments, in.ReviewerReport, in.ComplianceRate,
	))
	if err != nil {
		return nil, fmt.Errorf("record review: %w", err)
	}

	if sub.SupplierID != nil {
		if in.Status == StatusApproved {
			posture := approvedPosture(*sub.SupplierID, reviewScoresFor(sub, in.Scores), now)
			if err := writePosture(ctx, tx, posture); err != nil {
				return nil, err
			}
		} else {
			current, err := lockPosture(ctx, tx, *sub.SupplierID)
			if err != nil {
				return nil, err
			}
			if err := writePosture(ctx, tx, decayPosture(*current, now)); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit review: %w", err)
	}

	s.dispatcher.Notify(ctx, sub.UserID, reviewNotification(sub, in.Status))
	return sub, nil
}

// reviewScoresFor picks the posture snapshot to commit on approval: the
// reviewer's override when supplied, otherwise the scores computed at
// submit time.
func reviewScoresFor(sub *Submission, override *ReviewScores) ReviewScores {
	if override != nil {
		return *override
	}
	deref := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return ReviewScores{
		Overall:      deref(sub.Score),
		BIV:          deref(sub.BIVScore),
		Business:     deref(sub.BusinessScore),
		Integrity:    deref(sub.IntegrityScore),
		Availability: deref(sub.AvailabilityScore),
	}
}

func reviewNotification(sub *Submission, outcome Status) notify.Notification {
	n := notify.Notification{
		Type: "REVIEW_COMPLETED",
		Metadata: map[string]any{
			"submission_id": sub.ID,
			"assessment_id": sub.AssessmentID,
			"status":        string(outcome),
		},
	}
	switch outcome {
	case StatusApproved:
		n.Title = "Assessment approved"
		n.Message = "Your assessment was approved."
	case StatusRejected:
		n.Title = "Assessment rejected"
		n.Message = "Your assessment was rejected. Review the comments, update your answers and resubmit."
	default:
		n.Title = "Assessment requires action"
		n.Message = "Your assessment needs changes before it can be approved. Review the comments and resubmit."
	}
	return n
}

func lockPosture(ctx context.Context, tx *sql.Tx, supplierID string) (*SupplierPosture, error) {
	var p SupplierPosture
	err := tx.QueryRowContext(ctx,
		`SELECT id, overall_score, biv_score, business_score, integrity_score,
		        availability_score, risk_level, nis2_compliant, last_assessment_date
		 FROM suppliers WHERE id = $1 FOR UPDATE`,
		supplierID,
	).Scan(&p.SupplierID, &p.OverallScore, &p.BIVScore, &p.BusinessScore, &p.IntegrityScore,
		&p.AvailabilityScore, &p.RiskLevel, &p.NIS2Compliant, &p.LastAssessmentDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("supplier not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lock supplier %s: %w", supplierID, err)
	}
	return &p, nil
}
