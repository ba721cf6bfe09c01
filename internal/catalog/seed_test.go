package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

const validSeed = `assessment:
  title: Vendor onboarding
  stage: FULL
  categories:
    - name: Security posture
      questions:
        - prompt: Do you encrypt data at rest?
          biv_category: INTEGRITY
          max_score: 10
          evidence_required: true
        - prompt: Do you run background checks?
          biv_category: business
          max_score: 5
    - name: Continuity
      questions:
        - prompt: Do you have a tested DR plan?
          biv_category: AVAILABILITY
          max_score: 20
          evidence_required: true
`

func TestParseSeedFile(t *testing.T) {
	sf, err := ParseSeedFile(writeSeed(t, validSeed))
	if err != nil {
		t.Fatalf("ParseSeedFile: %v", err)
	}

	if sf.Assessment.Title != "Vendor onboarding" {
		t.Errorf("Title = %q", sf.Assessment.Title)
	}
	if len(sf.Assessment.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(sf.Assessment.Categories))
	}
	if got := sf.TotalPoints(); got != 35 {
		t.Errorf("TotalPoints = %d, want 35", got)
	}
	q := sf.Assessment.Categories[0].Questions[0]
	if !q.EvidenceRequired || q.MaxScore != 10 {
		t.Errorf("first question = %+v", q)
	}
}

func TestParseSeedFileMissing(t *testing.T) {
	if _, err := ParseSeedFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSeedFileValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing title",
			content: `assessment:
  stage: FULL
  categories:
    - name: C
      questions:
        - prompt: P
          max_score: 1
`,
		},
		{
			name: "bad stage",
			content: `assessment:
  title: T
  stage: PARTIAL
  categories:
    - name: C
      questions:
        - prompt: P
          max_score: 1
`,
		},
		{
			name: "no categories",
			content: `assessment:
  title: T
  stage: FULL
`,
		},
		{
			name: "unknown biv category",
			content: `assessment:
  title: T
  stage: FULL
  categories:
    - name: C
      questions:
        - prompt: P
          biv_category: GOVERNANCE
          max_score: 1
`,
		},
		{
			name: "negative max score",
			content: `assessment:
  title: T
  stage: FULL
  categories:
    - name: C
      questions:
        - prompt: P
          max_score: -1
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseSeedFile(writeSeed(t, tc.content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
