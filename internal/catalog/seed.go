package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/supplyscore/supplyscore/pkg/scoring"
)

// SeedFile is the YAML shape accepted by the seed loader.
type SeedFile struct {
	Assessment SeedAssessment `yaml:"assessment"`
}

// SeedAssessment describes one assessment to load.
type SeedAssessment struct {
	Title      string         `yaml:"title"`
	Stage      string         `yaml:"stage"`
	Categories []SeedCategory `yaml:"categories"`
}

// SeedCategory is one category in a seed file.
type SeedCategory struct {
	Name      string         `yaml:"name"`
	Questions []SeedQuestion `yaml:"questions"`
}

// SeedQuestion is one question in a seed file.
type SeedQuestion struct {
	Prompt           string `yaml:"prompt"`
	BIVCategory      string `yaml:"biv_category"`
	MaxScore         int    `yaml:"max_score"`
	EvidenceRequired bool   `yaml:"evidence_required"`
}

// ParseSeedFile reads and validates a catalog seed file.
func ParseSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// Validate checks a seed file for structural problems before any writes.
func (sf *SeedFile) Validate() error {
	a := sf.Assessment
	if a.Title == "" {
		return fmt.Errorf("assessment.title is required")
	}
	switch Stage(a.Stage) {
	case StageInitial, StageFull, StageComplete:
	default:
		return fmt.Errorf("assessment.stage %q is not one of INITIAL, FULL, COMPLETE", a.Stage)
	}
	if len(a.Categories) == 0 {
		return fmt.Errorf("assessment has no categories")
	}
	for _, c := range a.Categories {
		if c.Name == "" {
			return fmt.Errorf("category without a name")
		}
		if len(c.Questions) == 0 {
			return fmt.Errorf("category %q has no questions", c.Name)
		}
		for _, q := range c.Questions {
			if q.Prompt == "" {
				return fmt.Errorf("category %q: question without a prompt", c.Name)
			}
			if q.MaxScore < 0 {
				return fmt.Errorf("category %q: question %q has negative max_score", c.Name, q.Prompt)
			}
			if q.BIVCategory != "" {
				if _, ok := scoring.ParseBIVCategory(q.BIVCategory); !ok {
					return fmt.Errorf("category %q: question %q has unknown biv_category %q",
						c.Name, q.Prompt, q.BIVCategory)
				}
			}
		}
	}
	return nil
}

// TotalPoints sums the max scores of every question in the seed file.
func (sf *SeedFile) TotalPoints() int {
	total := 0
	for _, c := range sf.Assessment.Categories {
		for _, q := range c.Questions {
			total += q.MaxScore
		}
	}
	return total
}

// Seed inserts the seed file's assessment tree and returns the new
// assessment ID. All writes happen in a single transaction.
func (s *Service) Seed(ctx context.Context, sf *SeedFile) (assessmentID string, err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO assessments (title, stage, total_points)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		sf.Assessment.Title, sf.Assessment.Stage, sf.TotalPoints(),
	).Scan(&assessmentID)
	if err != nil {
		return "", fmt.Errorf("insert assessment: %w", err)
	}

	for ci, c := range sf.Assessment.Categories {
		var categoryID string
		err = tx.QueryRowContext(ctx,
			`INSERT INTO categories (assessment_id, name, position)
			 VALUES ($1, $2, $3)
			 RETURNING id`,
			assessmentID, c.Name, ci,
		).Scan(&categoryID)
		if err != nil {
			return "", fmt.Errorf("insert category %q: %w", c.Name, err)
		}

		for qi, q := range c.Questions {
			var biv *string
			if q.BIVCategory != "" {
				normalized, _ := scoring.ParseBIVCategory(q.BIVCategory)
				v := string(normalized)
				biv = &v
			}
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO questions (category_id, prompt, biv_category, max_score, evidence_required, position)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				categoryID, q.Prompt, biv, q.MaxScore, q.EvidenceRequired, qi,
			); err != nil {
				return "", fmt.Errorf("insert question %q: %w", q.Prompt, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit seed tx: %w", err)
	}
	return assessmentID, nil
}
