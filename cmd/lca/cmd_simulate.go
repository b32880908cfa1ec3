package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/choicelab/lca/internal/config"
	"github.com/choicelab/lca/internal/lca"
	"github.com/choicelab/lca/internal/logging"
	"github.com/choicelab/lca/internal/prepare"
	"github.com/choicelab/lca/internal/randstream"
	"github.com/choicelab/lca/internal/report"
	"github.com/choicelab/lca/internal/store"
	"github.com/spf13/cobra"
)

// simulateOutput is the machine-readable result of a simulate invocation.
type simulateOutput struct {
	Seed    uint64         `json:"seed"`
	Params  lca.Params     `json:"params"`
	Summary report.Summary `json:"summary"`
	Trials  []report.Trial `json:"trials,omitempty"`
	RunID   int64          `json:"run_id,omitempty"`
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate LCA trials and report responses and reaction times",
		Long: `Run the LCA model for a number of independent trials.

Parameters come from a YAML run file (--config) or from flags; flags override
the file. Each trial reports the winning accumulator (1-based) and a reaction
time in seconds, or -1 and the maximum decision time if no accumulator reached
threshold within the iteration budget.

Examples:
  lca simulate --input 1.2,1.0 --threshold 0.25 --noise-sd 0.3 --trials 1000
  lca simulate --config run.yaml --seed 42 --json
  lca simulate --config run.yaml --db runs.db --label "baseline"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}

			level := cfg.Logging.Level
			if v, _ := cmd.Flags().GetString("log-level"); v != "" {
				level = v
			}
			logger := logging.NewLogger(level, os.Stderr)

			prep, err := prepare.Prepare(prepare.Options{
				Input:           cfg.Simulation.Input,
				Leak:            cfg.Simulation.Leak,
				Inhibition:      cfg.Simulation.Inhibition,
				Threshold:       cfg.Simulation.Threshold,
				NoiseSD:         cfg.Simulation.NoiseSD,
				StepSize:        cfg.Simulation.StepSize,
				MaxTime:         cfg.Simulation.MaxTime,
				NonLinear:       cfg.Simulation.NonLinear,
				StartPoint:      cfg.Simulation.StartPoint,
				NonDecisionTime: cfg.Report.NonDecisionTime,
			})
			if err != nil {
				return err
			}
			if prep.RescaledNonDecision {
				logger.Warn("non-decision time looked like milliseconds, rescaled to seconds",
					"seconds", prep.NonDecisionTime)
			}

			var stream *randstream.Stream
			if cfg.Simulation.Seed != 0 {
				stream = randstream.New(cfg.Simulation.Seed)
			} else {
				stream = randstream.NewFromTime()
			}

			logger.Debug("starting simulation",
				"accumulators", prep.Params.NAcc(),
				"trials", cfg.Simulation.Trials,
				"max_iter", prep.Params.MaxIter,
				"seed", stream.Seed())

			start := time.Now()
			results, err := lca.Simulate(stream, prep.Params, cfg.Simulation.Trials)
			if err != nil {
				return err
			}
			logger.Debug("simulation finished",
				"trials", len(results), "elapsed", time.Since(start))

			if tracePath, _ := cmd.Flags().GetString("trace"); tracePath != "" {
				tl := logging.NewTraceLogger(tracePath, level)
				for i, r := range results {
					tl.Trial(i, r.Response, r.RT, r.Steps)
				}
				tl.Close()
			}

			trials, summary := report.Report(results, report.Options{
				NonDecisionTime: prep.NonDecisionTime,
				CorrectIndex:    cfg.Report.CorrectIndex,
				RoundDecimals:   cfg.Report.RoundDecimals,
			})

			out := simulateOutput{
				Seed:    stream.Seed(),
				Params:  prep.Params,
				Summary: summary,
			}
			if full, _ := cmd.Flags().GetBool("full"); full {
				out.Trials = trials
			}

			if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
				label, _ := cmd.Flags().GetString("label")
				runID, err := saveRun(cmd, dbPath, label, stream.Seed(), prep.Params, results)
				if err != nil {
					return err
				}
				out.RunID = runID
				logger.Info("run saved", "db", dbPath, "run_id", runID)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Simulated %d trials (%d accumulators, seed %d)\n",
				summary.Trials, prep.Params.NAcc(), stream.Seed())
			fmt.Fprintf(w, "  correct:      %d\n", summary.Correct)
			fmt.Fprintf(w, "  errors:       %d\n", summary.Errors)
			fmt.Fprintf(w, "  no response:  %d\n", summary.NoResponses)
			fmt.Fprintf(w, "  mean RT:      %.3f s\n", summary.MeanRT)
			if out.RunID != 0 {
				fmt.Fprintf(w, "  saved as run: %d\n", out.RunID)
			}
			return nil
		},
	}

	cmd.Flags().String("config", "", "Path to a YAML run file")
	cmd.Flags().Float64Slice("input", nil, "Per-accumulator input drive (comma-separated)")
	cmd.Flags().Float64("leak", 0, "Leak coefficient kappa")
	cmd.Flags().Float64("inhibition", 0, "Lateral inhibition coefficient beta")
	cmd.Flags().Float64("threshold", 0, "Decision threshold Z")
	cmd.Flags().Float64("noise-sd", 0, "Noise standard deviation s")
	cmd.Flags().Float64("step-size", 0.001, "Integration step dt in seconds")
	cmd.Flags().Float64("max-time", 2.0, "Maximum simulated decision time in seconds")
	cmd.Flags().Int("trials", 0, "Number of trials to simulate")
	cmd.Flags().Bool("non-linear", false, "Floor accumulator values at zero")
	cmd.Flags().Float64Slice("start-point", nil, "Per-accumulator start values (default all zeros)")
	cmd.Flags().Uint64("seed", 0, "Master seed for the random stream (0 = from clock)")
	cmd.Flags().Float64("non-decision-time", 0, "Fixed offset added to reaction times, in seconds")
	cmd.Flags().Int("correct", 0, "1-based accumulator treated as correct (default 1)")
	cmd.Flags().Bool("full", false, "Include every trial in the output, not just the summary")
	cmd.Flags().String("db", "", "SQLite database to persist the run to")
	cmd.Flags().String("label", "", "Label for the persisted run")
	cmd.Flags().String("trace", "", "Write per-trial JSONL traces to this file (debug/trace level)")

	return cmd
}

// loadRunConfig builds the effective run configuration: YAML file if given,
// defaults otherwise, with any explicitly set flags layered on top.
func loadRunConfig(cmd *cobra.Command) (*config.RunConfig, error) {
	var cfg *config.RunConfig
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Simulation.Input, _ = flags.GetFloat64Slice("input")
		// A new input vector invalidates a file-supplied start point of
		// the old length; prepare re-checks the final combination.
		if !flags.Changed("start-point") && len(cfg.Simulation.StartPoint) != len(cfg.Simulation.Input) {
			cfg.Simulation.StartPoint = nil
		}
	}
	if flags.Changed("leak") {
		cfg.Simulation.Leak, _ = flags.GetFloat64("leak")
	}
	if flags.Changed("inhibition") {
		cfg.Simulation.Inhibition, _ = flags.GetFloat64("inhibition")
	}
	if flags.Changed("threshold") {
		cfg.Simulation.Threshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("noise-sd") {
		cfg.Simulation.NoiseSD, _ = flags.GetFloat64("noise-sd")
	}
	if flags.Changed("step-size") {
		cfg.Simulation.StepSize, _ = flags.GetFloat64("step-size")
	}
	if flags.Changed("max-time") {
		cfg.Simulation.MaxTime, _ = flags.GetFloat64("max-time")
	}
	if flags.Changed("trials") {
		cfg.Simulation.Trials, _ = flags.GetInt("trials")
	}
	if flags.Changed("non-linear") {
		cfg.Simulation.NonLinear, _ = flags.GetBool("non-linear")
	}
	if flags.Changed("start-point") {
		cfg.Simulation.StartPoint, _ = flags.GetFloat64Slice("start-point")
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("non-decision-time") {
		cfg.Report.NonDecisionTime, _ = flags.GetFloat64("non-decision-time")
	}
	if flags.Changed("correct") {
		cfg.Report.CorrectIndex, _ = flags.GetInt("correct")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// saveRun persists a completed run and its trials.
func saveRun(cmd *cobra.Command, dbPath, label string, seed uint64, p lca.Params, results []lca.Result) (int64, error) {
	paramsJSON, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to encode params: %w", err)
	}

	s, err := store.NewSQLiteRunStore(dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open run store: %w", err)
	}
	defer s.Close()

	trials := make([]store.Trial, len(results))
	for i, r := range results {
		trials[i] = store.Trial{Index: i, Response: r.Response, RT: r.RT}
	}

	runID, err := s.SaveRun(cmd.Context(), store.Run{
		Label:   label,
		Seed:    seed,
		Params:  string(paramsJSON),
		NTrials: len(trials),
	}, trials)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	return runID, nil
}
