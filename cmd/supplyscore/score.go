package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/supplyscore/supplyscore/pkg/config"
	"github.com/supplyscore/supplyscore/pkg/report"
	"github.com/supplyscore/supplyscore/pkg/scoring"
)

func newScoreCmd() *cobra.Command {
	var (
		answersPath string
		configPath  string
		outputFmt   string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answer sheet offline",
		Long: `Scores a YAML answer sheet without touching the platform database:
each answer runs through the scoring matrix, the results aggregate into the
BIV composite, and risk is classified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(answersPath, configPath, outputFmt)
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "Path to answer sheet YAML (required)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to scoring config YAML")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("answers")

	return cmd
}

// answerSheet is the YAML shape accepted by the score command.
type answerSheet struct {
	Title   string       `yaml:"title"`
	Answers []sheetEntry `yaml:"answers"`
}

type sheetEntry struct {
	Question string `yaml:"question"`
	Category string `yaml:"category"`
	Answer   string `yaml:"answer"`
	Comments string `yaml:"comments"`
	Evidence string `yaml:"evidence"`
	MaxScore int    `yaml:"max_score"`
}

func loadAnswerSheet(path string) (*answerSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answer sheet: %w", err)
	}

	var sheet answerSheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("parsing answer sheet: %w", err)
	}
	if len(sheet.Answers) == 0 {
		return nil, fmt.Errorf("answer sheet has no answers")
	}
	return &sheet, nil
}

// scoreSheet runs every entry through the scoring matrix and aggregates.
func scoreSheet(sheet *answerSheet, weights scoring.Weights) (*report.ScoreSheet, error) {
	out := &report.ScoreSheet{Title: sheet.Title}
	var answers []scoring.AnswerScore

	for i, e := range sheet.Answers {
		value, ok := scoring.ParseAnswerValue(e.Answer)
		if !ok {
			return nil, fmt.Errorf("answer %d (%q): %q is not a valid answer value", i+1, e.Question, e.Answer)
		}
		if e.MaxScore < 0 {
			return nil, fmt.Errorf("answer %d (%q): max_score is negative", i+1, e.Question)
		}

		score := scoring.Score(value, e.Comments, e.Evidence, e.MaxScore)
		out.Rows = append(out.Rows, report.Row{
			Question:    e.Question,
			Category:    e.Category,
			Answer:      value,
			HasComment:  scoring.HasContent(e.Comments),
			HasEvidence: scoring.HasContent(e.Evidence),
			Score:       scoring.Round2(score),
			MaxScore:    e.MaxScore,
		})
		answers = append(answers, scoring.AnswerScore{
			Category: e.Category,
			Score:    score,
			MaxScore: e.MaxScore,
		})
	}

	out.Result = scoring.Aggregate(answers, weights)
	out.Review = scoring.ReviewPolicy().Level(out.Result.BIVScore)
	return out, nil
}

func runScore(answersPath, configPath, outputFmt string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	sheet, err := loadAnswerSheet(answersPath)
	if err != nil {
		return err
	}

	scored, err := scoreSheet(sheet, cfg.Scoring.Weights)
	if err != nil {
		return err
	}

	var renderer report.Renderer
	switch outputFmt {
	case "json":
		renderer = &report.JSONRenderer{}
	default:
		renderer = &report.TerminalRenderer{}
	}
	return renderer.Render(os.Stdout, scored)
}
