// Package assessment implements the submission and scoring engine: the
// submission lifecycle, the review and penalty flow, and the per-answer
// evidence workflow.
package assessment

import (
	"encoding/json"
	"time"

	"github.com/supplyscore/supplyscore/pkg/scoring"
)

// Status is a submission's lifecycle state.
type Status string

const (
	StatusDraft          Status = "DRAFT"
	StatusPending        Status = "PENDING"
	StatusSubmitted      Status = "SUBMITTED"
	StatusUnderReview    Status = "UNDER_REVIEW"
	StatusApproved       Status = "APPROVED"
	StatusRejected       Status = "REJECTED"
	StatusRequiresAction Status = "REQUIRES_ACTION"
)

// EvidenceStatus tracks the per-answer evidence approval sub-workflow.
type EvidenceStatus string

const (
	EvidencePending   EvidenceStatus = "PENDING"
	EvidenceSubmitted EvidenceStatus = "SUBMITTED"
	EvidenceApproved  EvidenceStatus = "APPROVED"
	EvidenceRejected  EvidenceStatus = "REJECTED"
	EvidenceRequested EvidenceStatus = "REQUESTED"
)

// Submission is one supplier's attempt at an assessment.
type Submission struct {
	ID                string
	AssessmentID      string
	UserID            string
	VendorID          *string
	SupplierID        *string
	Status            Status
	Stage             string
	TotalQuestions    int
	AnsweredQuestions int
	Progress          int
	Score             *float64
	BusinessScore     *float64
	IntegrityScore    *float64
	AvailabilityScore *float64
	BIVScore          *float64
	RiskLevel         *string
	RiskBreakdown     json.RawMessage
	RiskScore         *int
	SubmittedAt       *time.Time
	ReviewedAt        *time.Time
	ReviewedBy        *string
	ReviewComments    *string
	ReviewerReport    *string
	ComplianceRate    *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Answer is a supplier's response to one question within a submission.
type Answer struct {
	ID                      string
	SubmissionID            string
	QuestionID              string
	Answer                  scoring.AnswerValue
	Comments                *string
	Evidence                *string
	EvidenceStatus          EvidenceStatus
	EvidenceRejectionReason *string
	Score                   float64
	MaxScore                int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// SupplierPosture is a supplier's durable risk posture, updated
// provisionally at submit and authoritatively at review.
type SupplierPosture struct {
	SupplierID         string
	OverallScore       float64
	BIVScore           float64
	BusinessScore      float64
	IntegrityScore     float64
	AvailabilityScore  float64
	RiskLevel          scoring.RiskLevel
	NIS2Compliant      bool
	LastAssessmentDate *time.Time
}

// AnswerInput is the caller-supplied payload for saving an answer.
// The engine computes the score; callers never supply one.
type AnswerInput struct {
	Answer   string
	Comments string
	Evidence string
}

// ReviewScores is the externally-supplied score snapshot committed to the
// supplier posture when a review is approved.
type ReviewScores struct {
	Overall      float64
	BIV          float64
	Business     float64
	Integrity    float64
	Availability float64
}

// ReviewInput is the reviewer's decision payload.
type ReviewInput struct {
	Status         Status
	ReviewComments string
	ReviewerReport string
	ComplianceRate *float64
	Scores         *ReviewScores
}

// EvidenceReviewInput is the reviewer's decision on a single answer's evidence.
type EvidenceReviewInput struct {
	Status          EvidenceStatus
	Score           *float64
	RejectionReason string
}
