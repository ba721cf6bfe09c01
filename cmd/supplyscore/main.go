// Package main provides the supplyscore CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "supplyscore",
		Short: "Third-party supplier risk assessment tooling",
		Long: `SupplyScore scores supplier security assessments across business,
integrity and availability, classifies risk, and manages the platform database.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newScoreCmd(),
		newRiskCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
