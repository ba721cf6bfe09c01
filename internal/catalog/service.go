// Package catalog manages the assessment catalog: assessments, their
// categories, and their questions. The catalog is read-only to the
// assessment engine; it changes only through seeding.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Stage identifies how deep an assessment goes.
type Stage string

const (
	StageInitial  Stage = "INITIAL"
	StageFull     Stage = "FULL"
	StageComplete Stage = "COMPLETE"
)

// Assessment is a questionnaire template issued to suppliers.
type Assessment struct {
	ID          string
	Title       string
	Stage       Stage
	TotalPoints int
	Categories  []Category
	CreatedAt   time.Time
}

// Category is an ordered group of questions within an assessment.
type Category struct {
	ID        string
	Name      string
	Position  int
	Questions []Question
}

// Question is a single item a supplier answers.
type Question struct {
	ID               string
	CategoryID       string
	Prompt           string
	BIVCategory      *string // BUSINESS / INTEGRITY / AVAILABILITY, or nil
	MaxScore         int
	EvidenceRequired bool
	Position         int
}

// ErrNotFound is returned when a catalog entity does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Service provides catalog reads backed by Postgres.
type Service struct {
	db *sql.DB
}

// NewService creates a new catalog Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// GetAssessment loads an assessment with its full category and question tree.
func (s *Service) GetAssessment(ctx context.Context, assessmentID string) (*Assessment, error) {
	a := &Assessment{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, stage, total_points, created_at
		 FROM assessments WHERE id = $1`,
		assessmentID,
	).Scan(&a.ID, &a.Title, &a.Stage, &a.TotalPoints, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %s: %w", assessmentID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.position,
		        q.id, q.category_id, q.prompt, q.biv_category, q.max_score, q.evidence_required, q.position
		 FROM categories c
		 JOIN questions q ON q.category_id = c.id
		 WHERE c.assessment_id = $1
		 ORDER BY c.position, q.position`,
		assessmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("load assessment tree: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var c Category
		var q Question
		if err := rows.Scan(&c.ID, &c.Name, &c.Position,
			&q.ID, &q.CategoryID, &q.Prompt, &q.BIVCategory, &q.MaxScore, &q.EvidenceRequired, &q.Position); err != nil {
			return nil, fmt.Errorf("scan assessment tree: %w", err)
		}
		i, ok := index[c.ID]
		if !ok {
			a.Categories = append(a.Categories, c)
			i = len(a.Categories) - 1
			index[c.ID] = i
		}
		a.Categories[i].Questions = append(a.Categories[i].Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessment tree: %w", err)
	}
	return a, nil
}

// ListAssessments returns all assessments without their question trees.
func (s *Service) ListAssessments(ctx context.Context) ([]Assessment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, stage, total_points, created_at
		 FROM assessments ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		var a Assessment
		if err := rows.Scan(&a.ID, &a.Title, &a.Stage, &a.TotalPoints, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetQuestion loads a single question together with the assessment it
// belongs to.
func (s *Service) GetQuestion(ctx context.Context, questionID string) (*Question, string, error) {
	q := &Question{}
	var assessmentID string
	err := s.db.QueryRowContext(ctx,
		`SELECT q.id, q.category_id, q.prompt, q.biv_category, q.max_score, q.evidence_required, q.position,
		        c.assessment_id
		 FROM questions q
		 JOIN categories c ON c.id = q.category_id
		 WHERE q.id = $1`,
		questionID,
	).Scan(&q.ID, &q.CategoryID, &q.Prompt, &q.BIVCategory, &q.MaxScore, &q.EvidenceRequired, &q.Position, &assessmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get question %s: %w", questionID, err)
	}
	return q, assessmentID, nil
}

// CountQuestions returns the number of questions in an assessment.
func (s *Service) CountQuestions(ctx context.Context, assessmentID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM questions q
		 JOIN categories c ON c.id = q.category_id
		 WHERE c.assessment_id = $1`,
		assessmentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
