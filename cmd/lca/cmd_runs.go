package main

import (
	"encoding/json"
	"fmt"

	"github.com/choicelab/lca/internal/store"
	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List simulation runs stored in a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				return fmt.Errorf("--db is required")
			}

			s, err := store.NewSQLiteRunStore(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open run store: %w", err)
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}

			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(w, "No runs stored.")
				return nil
			}
			fmt.Fprintf(w, "%-6s %-25s %-8s %-20s %s\n", "ID", "CREATED", "TRIALS", "SEED", "LABEL")
			for _, run := range runs {
				fmt.Fprintf(w, "%-6d %-25s %-8d %-20d %s\n",
					run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.NTrials, run.Seed, run.Label)
			}
			return nil
		},
	}

	cmd.Flags().String("db", "", "SQLite database to read runs from")
	return cmd
}
