package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/supplyscore/supplyscore/pkg/scoring"
)

func newRiskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk <biv-score>",
		Short: "Classify a BIV score under both risk policies",
		Long: `Shows how a BIV composite score classifies at assessment time and
under the stricter thresholds applied when a reviewer signs off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			biv, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid BIV score %q", args[0])
			}
			if biv < 0 || biv > 100 {
				return fmt.Errorf("BIV score must be between 0 and 100")
			}

			assessed := scoring.AssessmentPolicy().Level(biv)
			reviewed := scoring.ReviewPolicy().Level(biv)

			fmt.Fprintf(os.Stdout, "BIV score:       %.2f\n", biv)
			fmt.Fprintf(os.Stdout, "At assessment:   %s (risk score %d)\n", assessed, scoring.RiskScore(assessed))
			fmt.Fprintf(os.Stdout, "After review:    %s (risk score %d)\n", reviewed, scoring.RiskScore(reviewed))
			fmt.Fprintf(os.Stdout, "NIS2 compliant:  %v\n", scoring.NIS2Compliant(biv))
			return nil
		},
	}
	return cmd
}
