package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/choicelab/lca/internal/store"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored run's trials as CSV or JSONL",
		Long: `Export the per-trial results of a stored run.

Examples:
  lca export --db runs.db --run 3
  lca export --db runs.db --run 3 --format jsonl --out trials.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				return fmt.Errorf("--db is required")
			}
			runID, _ := cmd.Flags().GetInt64("run")
			if runID == 0 {
				return fmt.Errorf("--run is required")
			}
			format, _ := cmd.Flags().GetString("format")
			if format != "csv" && format != "jsonl" {
				return fmt.Errorf("invalid format %q (valid: csv, jsonl)", format)
			}

			s, err := store.NewSQLiteRunStore(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open run store: %w", err)
			}
			defer s.Close()

			trials, err := s.GetTrials(cmd.Context(), runID)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if format == "jsonl" {
				return writeTrialsJSONL(w, trials)
			}
			return writeTrialsCSV(w, trials)
		},
	}

	cmd.Flags().String("db", "", "SQLite database to read from")
	cmd.Flags().Int64("run", 0, "Run ID to export")
	cmd.Flags().String("format", "csv", "Output format: csv or jsonl")
	cmd.Flags().String("out", "", "Output file (default stdout)")
	return cmd
}

func writeTrialsCSV(w io.Writer, trials []store.Trial) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"trial", "response", "rt"}); err != nil {
		return err
	}
	for _, tr := range trials {
		record := []string{
			strconv.Itoa(tr.Index),
			strconv.Itoa(tr.Response),
			strconv.FormatFloat(tr.RT, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeTrialsJSONL(w io.Writer, trials []store.Trial) error {
	enc := json.NewEncoder(w)
	for _, tr := range trials {
		if err := enc.Encode(tr); err != nil {
			return err
		}
	}
	return nil
}
