package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/supplyscore/supplyscore/internal/catalog"
	"github.com/supplyscore/supplyscore/internal/identity"
	"github.com/supplyscore/supplyscore/internal/notify"
	"github.com/supplyscore/supplyscore/pkg/scoring"
)

// Service is the submission and scoring engine, backed by Postgres.
type Service struct {
	db         *sql.DB
	catalog    *catalog.Service
	weights    scoring.Weights
	dispatcher *notify.Dispatcher
}

// NewService creates the engine. The dispatcher may be nil when
// notifications are not wired (CLI tools, tests).
func NewService(db *sql.DB, cat *catalog.Service, weights scoring.Weights, dispatcher *notify.Dispatcher) *Service {
	return &Service{db: db, catalog: cat, weights: weights, dispatcher: dispatcher}
}

const submissionCols = `id, assessment_id, user_id, vendor_id, supplier_id, status, stage,
	total_questions, answered_questions, progress,
	score, business_score, integrity_score, availability_score, biv_score,
	risk_level, risk_breakdown, risk_score,
	submitted_at, reviewed_at, reviewed_by, review_comments, reviewer_report, compliance_rate,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*Submission, error) {
	var sub Submission
	var breakdown []byte
	err := row.Scan(
		&sub.ID, &sub.AssessmentID, &sub.UserID, &sub.VendorID, &sub.SupplierID, &sub.Status, &sub.Stage,
		&sub.TotalQuestions, &sub.AnsweredQuestions, &sub.Progress,
		&sub.Score, &sub.BusinessScore, &sub.IntegrityScore, &sub.AvailabilityScore, &sub.BIVScore,
		&sub.RiskLevel, &breakdown, &sub.RiskScore,
		&sub.SubmittedAt, &sub.ReviewedAt, &sub.ReviewedBy, &sub.ReviewComments, &sub.ReviewerReport, &sub.ComplianceRate,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.RiskBreakdown = breakdown
	return &sub, nil
}

const answerCols = `id, submission_id, question_id, answer, comments, evidence,
	evidence_status, evidence_rejection_reason, score, max_score, created_at, updated_at`

func scanAnswer(row rowScanner) (*Answer, error) {
	var a Answer
	err := row.Scan(
		&a.ID, &a.SubmissionID, &a.QuestionID, &a.Answer, &a.Comments, &a.Evidence,
		&a.EvidenceStatus, &a.EvidenceRejectionReason, &a.Score, &a.MaxScore, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// StartAssessment returns the caller's active submission for an assessment,
// creating one if none exists. Concurrent starts race on a partial unique
// index, so at most one active submission survives per assessment per user.
func (s *Service) StartAssessment(ctx context.Context, assessmentID string, caller identity.Identity) (*Submission, error) {
	a, err := s.catalog.GetAssessment(ctx, assessmentID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, notFound("assessment not found")
	}
	if err != nil {
		return nil, err
	}

	total, err := s.catalog.CountQuestions(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	supplierID, vendorID := s.lookupLinkage(ctx, caller)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (assessment_id, user_id, vendor_id, supplier_id, stage, total_questions)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (assessment_id, user_id)
		   WHERE status IN ('DRAFT', 'PENDING', 'SUBMITTED', 'UNDER_REVIEW')
		 DO NOTHING`,
		assessmentID, caller.UserID, vendorID, supplierID, string(a.Stage), total,
	)
	if err != nil {
		return nil, fmt.Errorf("start submission: %w", err)
	}

	sub, err := scanSubmission(s.db.QueryRowContext(ctx,
		`SELECT `+submissionCols+` FROM submissions
		 WHERE assessment_id = $1 AND user_id = $2
		   AND status IN ('DRAFT', 'PENDING', 'SUBMITTED', 'UNDER_REVIEW')`,
		assessmentID, caller.UserID,
	))
	if err != nil {
		return nil, fmt.Errorf("load active submission: %w", err)
	}
	return sub, nil
}

// lookupLinkage resolves the supplier and vendor a submission belongs to.
// Callers without a supplier record still get a submission; it just carries
// no posture linkage.
func (s *Service) lookupLinkage(ctx context.Context, caller identity.Identity) (supplierID, vendorID *string) {
	var sid string
	var vid *string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, vendor_id FROM suppliers WHERE user_id = $1`,
		caller.UserID,
	).Scan(&sid, &vid)
	if err == nil {
		supplierID = &sid
		vendorID = vid
	}
	if supplierID == nil && caller.SupplierID != nil {
		supplierID = caller.SupplierID
	}
	if vendorID == nil {
		vendorID = caller.VendorID
	}
	return supplierID, vendorID
}

// SaveAnswer creates or replaces the caller's answer to one question and
// recomputes its score from scratch. The submission row is locked so the
// answered-questions counter stays consistent under concurrent saves.
func (s *Service) SaveAnswer(ctx context.Context, submissionID, questionID string, caller identity.Identity, in AnswerInput) (*Answer, error) {
	value, ok := scoring.ParseAnswerValue(in.Answer)
	if !ok {
		return nil, badRequest(fmt.Sprintf("%q is not a valid answer value", in.Answer))
	}

	q, questionAssessmentID, err := s.catalog.GetQuestion(ctx, questionID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, notFound("question not found")
	}
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save answer: %w", err)
	}
	defer tx.Rollback()

	sub, err := lockSubmission(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != caller.UserID {
		return nil, notFound("submission not found")
	}
	if !Editable(sub.Status) {
		return nil, notEditable(fmt.Sprintf("submission is %s and cannot be edited", sub.Status))
	}
	if questionAssessmentID != sub.AssessmentID {
		return nil, badRequest("question does not belong to this assessment")
	}

	score := scoring.Score(value, in.Comments, in.Evidence, q.MaxScore)

	var prevStatus EvidenceStatus
	var prevEvidence sql.NullString
	isNew := false
	err = tx.QueryRowContext(ctx,
		`SELECT evidence_status, evidence FROM answers
		 WHERE submission_id = $1 AND question_id = $2 FOR UPDATE`,
		submissionID, questionID,
	).Scan(&prevStatus, &prevEvidence)
	if errors.Is(err, sql.ErrNoRows) {
		isNew = true
	} else if err != nil {
		return nil, fmt.Errorf("load existing answer: %w", err)
	}

	evStatus := nextEvidenceStatus(prevStatus, prevEvidence.String, in.Evidence, q.EvidenceRequired)

	var answer *Answer
	if isNew {
		answer, err = scanAnswer(tx.QueryRowContext(ctx,
			`INSERT INTO answers (submission_id, question_id, answer, comments, evidence, evidence_status, score, max_score)
			 VALUES ($1, $2, $3, nullif($4, ''), nullif($5, ''), $6, $7, $8)
			 RETURNING `+answerCols,
			submissionID, questionID, string(value), in.Comments, in.Evidence, string(evStatus), score, q.MaxScore,
		))
		if err != nil {
			return nil, fmt.Errorf("insert answer: %w", err)
		}
		answered := sub.AnsweredQuestions + 1
		if _, err := tx.ExecContext(ctx,
			`UPDATE submissions
			 SET answered_questions = $2, progress = $3, updated_at = now()
			 WHERE id = $1`,
			submissionID, answered, Progress(answered, sub.TotalQuestions),
		); err != nil {
			return nil, fmt.Errorf("update submission progress: %w", err)
		}
	} else {
		answer, err = scanAnswer(tx.QueryRowContext(ctx,
			`UPDATE answers
			 SET answer = $3, comments = nullif($4, ''), evidence = nullif($5, ''),
			     evidence_status = $6, evidence_rejection_reason = NULL,
			     score = $7, max_score = $8, updated_at = now()
			 WHERE submission_id = $1 AND question_id = $2
			 RETURNING `+answerCols,
			submissionID, questionID, string(value), in.Comments, in.Evidence, string(evStatus), score, q.MaxScore,
		))
		if err != nil {
			return nil, fmt.Errorf("update answer: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE submissions SET updated_at = now() WHERE id = $1`, submissionID,
		); err != nil {
			return nil, fmt.Errorf("touch submission: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save answer: %w", err)
	}
	return answer, nil
}

// SubmitAssessment finalizes a submission: it aggregates all answer scores
// into the BIV result, moves the submission to PENDING, and writes the
// supplier's provisional posture. Review fields from any earlier cycle are
// cleared.
func (s *Service) SubmitAssessment(ctx context.Context, submissionID string, caller identity.Identity) (*Submission, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin submit: %w", err)
	}
	defer tx.Rollback()

	sub, err := lockSubmission(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != caller.UserID {
		return nil, notFound("submission not found")
	}
	if !Submittable(sub.Status) {
		return nil, notSubmittable(fmt.Sprintf("submission is %s and cannot be submitted", sub.Status))
	}
	if sub.AnsweredQuestions < sub.TotalQuestions {
		return nil, incomplete(fmt.Sprintf("answered %d of %d questions", sub.AnsweredQuestions, sub.TotalQuestions))
	}

	answers, err := loadAnswerScores(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}
	res := scoring.Aggregate(answers, s.weights)

	breakdown, err := json.Marshal(res.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("marshal risk breakdown: %w", err)
	}

	now := time.Now().UTC()
	sub, err = scanSubmission(tx.QueryRowContext(ctx,
		`UPDATE submissions
		 SET status = 'PENDING', submitted_at = $2,
		     score = $3, business_score = $4, integrity_score = $5, availability_score = $6,
		     biv_score = $7, risk_level = $8, risk_breakdown = $9, risk_score = $10,
		     reviewed_at = NULL, reviewed_by = NULL, review_comments = NULL,
		     reviewer_report = NULL, compliance_rate = NULL,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+submissionCols,
		submissionID, now,
		res.Overall, res.BusinessScore, res.IntegrityScore, res.AvailabilityScore,
		res.BIVScore, string(res.RiskLevel), breakdown, res.RiskScore,
	))
	if err != nil {
		return nil, fmt.Errorf("finalize submission: %w", err)
	}

	if sub.SupplierID != nil {
		posture := SupplierPosture{
			SupplierID:         *sub.SupplierID,
			OverallScore:       res.Overall,
			BIVScore:           res.BIVScore,
			BusinessScore:      res.BusinessScore,
			IntegrityScore:     res.IntegrityScore,
			AvailabilityScore:  res.AvailabilityScore,
			RiskLevel:          res.RiskLevel,
			NIS2Compliant:      scoring.NIS2Compliant(res.BIVScore),
			LastAssessmentDate: &now,
		}
		if err := writePosture(ctx, tx, posture); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit submit: %w", err)
	}

	if sub.VendorID != nil {
		// Vendor-facing events address the vendor organization id; its
		// staff share one notification inbox.
		s.dispatcher.Notify(ctx, *sub.VendorID, notify.Notification{
			Title:   "Assessment submitted",
			Message: fmt.Sprintf("A supplier submitted an assessment with a BIV score of %.2f.", res.BIVScore),
			Type:    "SUBMISSION_RECEIVED",
			Metadata: map[string]any{
				"submission_id": sub.ID,
				"assessment_id": sub.AssessmentID,
				"risk_level":    string(res.RiskLevel),
			},
		})
	}
	return sub, nil
}

// GetSubmission loads a submission visible to the caller.
func (s *Service) GetSubmission(ctx context.Context, submissionID string, caller identity.Identity) (*Submission, error) {
	sub, err := scanSubmission(s.db.QueryRowContext(ctx,
		`SELECT `+submissionCols+` FROM submissions WHERE id = $1`, submissionID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("submission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get submission %s: %w", submissionID, err)
	}
	if err := canView(caller, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubmissions returns the submissions the caller may see: their own for
// suppliers, their organization's for vendors, all of them for admins.
func (s *Service) ListSubmissions(ctx context.Context, caller identity.Identity) ([]Submission, error) {
	query := `SELECT ` + submissionCols + ` FROM submissions`
	var args []any
	switch caller.Role {
	case identity.RoleAdmin:
	case identity.RoleVendor:
		if caller.VendorID == nil {
			return nil, nil
		}
		query += ` WHERE vendor_id = $1`
		args = append(args, *caller.VendorID)
	default:
		query += ` WHERE user_id = $1`
		args = append(args, caller.UserID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, *sub)
	}
	return out, rows.Err()
}

// ListAnswers returns a submission's answers, subject to the same
// visibility rules as the submission itself.
func (s *Service) ListAnswers(ctx context.Context, submissionID string, caller identity.Identity) ([]Answer, error) {
	if _, err := s.GetSubmission(ctx, submissionID, caller); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+answerCols+` FROM answers WHERE submission_id = $1 ORDER BY created_at`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var out []Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// GetSupplierPosture loads a supplier's current risk posture.
func (s *Service) GetSupplierPosture(ctx context.Context, supplierID string, caller identity.Identity) (*SupplierPosture, error) {
	var p SupplierPosture
	var userID string
	var vendorID *string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, vendor_id, overall_score, biv_score, business_score,
		        integrity_score, availability_score, risk_level, nis2_compliant, last_assessment_date
		 FROM suppliers WHERE id = $1`,
		supplierID,
	).Scan(&p.SupplierID, &userID, &vendorID, &p.OverallScore, &p.BIVScore, &p.BusinessScore,
		&p.IntegrityScore, &p.AvailabilityScore, &p.RiskLevel, &p.NIS2Compliant, &p.LastAssessmentDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("supplier not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get supplier %s: %w", supplierID, err)
	}

	switch {
	case caller.IsAdmin():
	case userID == caller.UserID:
	case caller.Role == identity.RoleVendor && vendorID != nil && caller.VendorID != nil && *vendorID == *caller.VendorID:
	default:
		return nil, notFound("supplier not found")
	}
	return &p, nil
}

func lockSubmission(ctx context.Context, tx *sql.Tx, submissionID string) (*Submission, error) {
	sub, err := scanSubmission(tx.QueryRowContext(ctx,
		`SELECT `+submissionCols+` FROM submissions WHERE id = $1 FOR UPDATE`,
		submissionID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("submission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lock submission %s: %w", submissionID, err)
	}
	return sub, nil
}

func loadAnswerScores(ctx context.Context, tx *sql.Tx, submissionID string) ([]scoring.AnswerScore, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT coalesce(q.biv_category, ''), a.score, a.max_score
		 FROM answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.submission_id = $1`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load answer scores: %w", err)
	}
	defer rows.Close()

	var out []scoring.AnswerScore
	for rows.Next() {
		var as scoring.AnswerScore
		if err := rows.Scan(&as.Category, &as.Score, &as.MaxScore); err != nil {
			return nil, fmt.Errorf("scan answer score: %w", err)
		}
		out = append(out, as)
	}
	return out, rows.Err()
}

func writePosture(ctx context.Context, tx *sql.Tx, p SupplierPosture) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE suppliers
		 SET overall_score = $2, biv_score = $3, business_score = $4,
		     integrity_score = $5, availability_score = $6,
		     risk_level = $7, nis2_compliant = $8, last_assessment_date = $9
		 WHERE id = $1`,
		p.SupplierID, p.OverallScore, p.BIVScore, p.BusinessScore,
		p.IntegrityScore, p.AvailabilityScore,
		string(p.RiskLevel), p.NIS2Compliant, p.LastAssessmentDate,
	)
	if err != nil {
		return fmt.Errorf("write supplier posture: %w", err)
	}
	return nil
}
