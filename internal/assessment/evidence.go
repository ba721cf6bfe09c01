package assessment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/supplyscore/supplyscore/internal/identity"
	"github.com/supplyscore/supplyscore/internal/notify"
)

// ReviewEvidence approves or rejects the evidence attached to one answer.
// An optional score override replaces the matrix-derived score, clamped to
// the question's maximum. Rejection emails the supplier so the gap does not
// sit unnoticed until the next login.
func (s *Service) ReviewEvidence(ctx context.Context, submissionID, questionID string, reviewer identity.Identity, in EvidenceReviewInput) (*Answer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin evidence review: %w", err)
	}
	defer tx.Rollback()

	sub, err := lockSubmission(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := canReview(reviewer, sub); err != nil {
		return nil, err
	}

	ac, err := lockAnswer(ctx, tx, submissionID, questionID)
	if err != nil {
		return nil, err
	}
	if err := validateEvidenceReview(in, ac.required, ac.answer.Evidence != nil); err != nil {
		return nil, err
	}

	score := ac.answer.Score
	if in.Score != nil {
		score = *in.Score
		if score < 0 {
			score = 0
		}
		if max := float64(ac.answer.MaxScore); score > max {
			score = max
		}
	}

	answer, err := scanAnswer(tx.QueryRowContext(ctx,
		`UPDATE answers
		 SET evidence_status = $3, evidence_rejection_reason = nullif($4, ''),
		     score = $5, updated_at = now()
		 WHERE submission_id = $1 AND question_id = $2
		 RETURNING `+answerCols,
		submissionID, questionID, string(in.Status), in.RejectionReason, score,
	))
	if err != nil {
		return nil, fmt.Errorf("record evidence review: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit evidence review: %w", err)
	}

	if in.Status == EvidenceRejected {
		msg := "Evidence for one of your answers was rejected."
		html := "<p>Evidence for one of your assessment answers was rejected.</p>"
		if in.RejectionReason != "" {
			msg = fmt.Sprintf("Evidence for one of your answers was rejected: %s", in.RejectionReason)
			html += fmt.Sprintf("<p>Reason: %s</p>", in.RejectionReason)
		}
		s.dispatcher.Notify(ctx, sub.UserID, notify.Notification{
			Title:   "Evidence rejected",
			Message: msg,
			Type:    "EVIDENCE_REJECTED",
			Metadata: map[string]any{
				"submission_id": submissionID,
				"question_id":   questionID,
			},
		})
		if email := s.supplierEmail(ctx, sub.SupplierID); email != "" {
			s.dispatcher.Email(ctx, email, "Evidence rejected", html)
		}
	}
	return answer, nil
}

// RequestEvidence flags an answer as needing (new) evidence from the
// supplier.
func (s *Service) RequestEvidence(ctx context.Context, submissionID, questionID string, reviewer identity.Identity, reason string) (*Answer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin evidence request: %w", err)
	}
	defer tx.Rollback()

	sub, err := lockSubmission(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := canReview(reviewer, sub); err != nil {
		return nil, err
	}

	// No evidenceRequired gate here: a vendor may ask for supporting
	// material even on a question that does not demand it.
	if _, err := lockAnswer(ctx, tx, submissionID, questionID); err != nil {
		return nil, err
	}

	answer, err := scanAnswer(tx.QueryRowContext(ctx,
		`UPDATE answers
		 SET evidence_status = 'REQUESTED', evidence_rejection_reason = nullif($3, ''),
		     updated_at = now()
		 WHERE submission_id = $1 AND question_id = $2
		 RETURNING `+answerCols,
		submissionID, questionID, reason,
	))
	if err != nil {
		return nil, fmt.Errorf("record evidence request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit evidence request: %w", err)
	}

	s.dispatcher.Notify(ctx, sub.UserID, notify.Notification{
		Title:   "Evidence requested",
		Message: "A reviewer requested evidence for one of your answers.",
		Type:    "EVIDENCE_REQUESTED",
		Metadata: map[string]any{
			"submission_id": submissionID,
			"question_id":   questionID,
		},
	})
	if email := s.supplierEmail(ctx, sub.SupplierID); email != "" {
		s.dispatcher.Email(ctx, email, "Evidence requested",
			"<p>A reviewer requested evidence for one of your assessment answers. Please sign in and attach it.</p>")
	}
	return answer, nil
}

// RemoveEvidence clears an answer's evidence and resets its workflow marker.
// The answer's score is left alone; it is recomputed the next time the
// supplier saves the answer.
func (s *Service) RemoveEvidence(ctx context.Context, submissionID, questionID string, caller identity.Identity) (*Answer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin evidence removal: %w", err)
	}
	defer tx.Rollback()

	sub, err := lockSubmission(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != caller.UserID {
		if err := canReview(caller, sub); err != nil {
			return nil, err
		}
	}

	if _, err := lockAnswer(ctx, tx, submissionID, questionID); err != nil {
		return nil, err
	}

	answer, err := scanAnswer(tx.QueryRowContext(ctx,
		`UPDATE answers
		 SET evidence = NULL, evidence_status = 'PENDING', evidence_rejection_reason = NULL,
		     updated_at = now()
		 WHERE submission_id = $1 AND question_id = $2
		 RETURNING `+answerCols,
		submissionID, questionID,
	))
	if err != nil {
		return nil, fmt.Errorf("remove evidence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit evidence removal: %w", err)
	}
	return answer, nil
}

type answerContext struct {
	answer   *Answer
	required bool
}

func lockAnswer(ctx context.Context, tx *sql.Tx, submissionID, questionID string) (*answerContext, error) {
	answer, err := scanAnswer(tx.QueryRowContext(ctx,
		`SELECT `+answerCols+` FROM answers
		 WHERE submission_id = $1 AND question_id = $2 FOR UPDATE`,
		submissionID, questionID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("answer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lock answer: %w", err)
	}

	var required bool
	if err := tx.QueryRowContext(ctx,
		`SELECT evidence_required FROM questions WHERE id = $1`, questionID,
	).Scan(&required); err != nil {
		return nil, fmt.Errorf("load question for answer: %w", err)
	}
	return &answerContext{answer: answer, required: required}, nil
}

// supplierEmail is a best-effort lookup for outbound mail. Missing supplier
// rows and missing addresses both come back empty.
func (s *Service) supplierEmail(ctx context.Context, supplierID *string) string {
	if supplierID == nil {
		return ""
	}
	var email sql.NullString
	if err := s.db.QueryRowContext(ctx,
		`SELECT contact_email FROM suppliers WHERE id = $1`, *supplierID,
	).Scan(&email); err != nil {
		return ""
	}
	return email.String
}
