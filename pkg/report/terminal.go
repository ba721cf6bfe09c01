package report

import (
	"fmt"
	"io"
	"os"

	"github.com/supplyscore/supplyscore/pkg/scoring"
)

// TerminalRenderer renders a ScoreSheet as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func riskColor(level scoring.RiskLevel) string {
	if noColor() {
		return ""
	}
	switch level {
	case scoring.RiskLow:
		return colorGreen
	case scoring.RiskMedium:
		return colorYellow
	case scoring.RiskHigh:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, sheet *ScoreSheet) error {
	title := sheet.Title
	if title == "" {
		title = "Assessment"
	}

	rc := riskColor(sheet.Result.RiskLevel)
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("%s: BIV %.2f — Risk %s",
			title, sheet.Result.BIVScore, colored(string(sheet.Result.RiskLevel), rc))))

	fmt.Fprintf(w, "Categories:\n")
	fmt.Fprintf(w, "  Business      %6.2f\n", sheet.Result.BusinessScore)
	fmt.Fprintf(w, "  Integrity     %6.2f\n", sheet.Result.IntegrityScore)
	fmt.Fprintf(w, "  Availability  %6.2f\n", sheet.Result.AvailabilityScore)
	fmt.Fprintf(w, "  Overall       %6.2f\n\n", sheet.Result.Overall)

	nis2 := "no"
	if scoring.NIS2Compliant(sheet.Result.BIVScore) {
		nis2 = "yes"
	}
	fmt.Fprintf(w, "NIS2 compliant: %s\n", nis2)
	fmt.Fprintf(w, "Review classification (80/60 thresholds): %s\n\n",
		colored(string(sheet.Review), riskColor(sheet.Review)))

	if len(sheet.Rows) > 0 {
		fmt.Fprintln(w, "Answers:")
		for _, row := range sheet.Rows {
			marks := ""
			if row.HasComment {
				marks += "c"
			}
			if row.HasEvidence {
				marks += "e"
			}
			if marks != "" {
				marks = " [" + marks + "]"
			}
			line := fmt.Sprintf("  %5.2f/%-3d %-14s %s%s",
				row.Score, row.MaxScore, row.Answer, row.Question, marks)
			if row.Category != "" {
				line += " " + dim("("+row.Category+")")
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}

	return nil
}
