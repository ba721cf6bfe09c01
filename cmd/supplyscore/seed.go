package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/supplyscore/supplyscore/internal/catalog"
)

func newSeedCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "seed <seed-file.yaml>",
		Short: "Load an assessment catalog from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := catalog.ParseSeedFile(args[0])
			if err != nil {
				return err
			}

			db, err := openDB(databaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := catalog.NewService(db).Seed(cmd.Context(), sf)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "seeded assessment %q as %s (%d points)\n",
				sf.Assessment.Title, id, sf.TotalPoints())
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL (default: $DATABASE_URL)")
	return cmd
}
