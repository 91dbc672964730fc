package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/stenopad/internal/config"
	"github.com/verte-zerg/stenopad/internal/evaluate"
	"github.com/verte-zerg/stenopad/internal/model"
	"github.com/verte-zerg/stenopad/internal/passage"
	"github.com/verte-zerg/stenopad/internal/stats"
	"github.com/verte-zerg/stenopad/internal/statsui"
	"github.com/verte-zerg/stenopad/internal/store"
)

var (
	evalReference string
	evalSubmitted string
	evalDuration  string
	evalJSON      bool

	statsLang        string
	statsSince       string
	statsLast        int
	statsTestID      int64
	statsCurveWindow int
	statsWords       string
	statsPlain       bool
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a transcription file against a reference",
		Args:  cobra.NoArgs,
		RunE:  runEvalCmd,
	}
	cmd.Flags().StringVar(&evalReference, "reference", "", "reference text file")
	cmd.Flags().StringVar(&evalSubmitted, "submitted", "", "submitted transcription file")
	cmd.Flags().StringVar(&evalDuration, "duration", "", "duration label (e.g. \"10 Minutes\")")
	cmd.Flags().BoolVar(&evalJSON, "json", false, "print the result as JSON")
	for _, name := range []string{"reference", "submitted"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			logErrf("failed to mark --%s required: %v\n", name, err)
		}
	}
	return cmd
}

func runEvalCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "tokenize", &practiceTokenize, fileCfg.Practice.Tokenize)
	applyStringConfig(cmd, "incorrect", &practiceIncorrect, fileCfg.Practice.Incorrect)
	opts, err := evaluateOptions(practiceTokenize, practiceIncorrect)
	if err != nil {
		return err
	}

	reference, err := passage.LoadText(evalReference)
	if err != nil {
		return fmt.Errorf("failed to load reference: %w", err)
	}
	// Blank submissions are evaluated as all-missing.
	submitted, err := passage.ReadText(evalSubmitted)
	if err != nil {
		return fmt.Errorf("failed to load submission: %w", err)
	}

	res := opts.Evaluate(evaluate.Input{
		ReferenceText:   reference,
		SubmittedText:   submitted,
		DurationMinutes: float64(evaluate.ParseDuration(evalDuration)),
	})
	return writeResult(cmd.OutOrStdout(), res, evalJSON)
}

func evaluateOptions(tokenize, incorrect string) (evaluate.Options, error) {
	t, err := evaluate.ParseTokenization(tokenize)
	if err != nil {
		return evaluate.Options{}, fmt.Errorf("--tokenize: %w", err)
	}
	i, err := evaluate.ParseIncorrectFormula(incorrect)
	if err != nil {
		return evaluate.Options{}, fmt.Errorf("--incorrect: %w", err)
	}
	return evaluate.Options{Tokenization: t, Incorrect: i}, nil
}

func writeResult(w io.Writer, res evaluate.Result, asJSON bool) error {
	if !asJSON {
		return stats.RenderResult(w, res)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().Int64Var(&statsTestID, "test", 0, "limit to attempts of one library test")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsWords, "words", "", "comma-separated words for per-word curves")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)

	cfg, err := buildStatsConfig()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsPlain {
		return writePlainStats(cmd.OutOrStdout(), st, cfg)
	}
	ui := statsui.NewModel(st, cfg)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Lang:        statsLang,
		Since:       sinceTime,
		Last:        statsLast,
		TestID:      statsTestID,
		CurveWindow: statsCurveWindow,
		Words:       statsWords,
	}, nil
}

func writePlainStats(w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	ctx := context.Background()
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Attempts); err != nil {
		return err
	}
	if len(report.Attempts) == 0 {
		return nil
	}
	if err := stats.RenderCurves(w, report.Attempts, cfg.CurveWindow); err != nil {
		return err
	}
	if err := stats.RenderWordTable(w, report.WordAggsWindow); err != nil {
		return err
	}

	words := passage.Vocabulary(strings.ReplaceAll(cfg.Words, ",", " "))
	if len(words) == 0 {
		words = stats.WeakWords(report.WordAggsWindow, 3)
	}
	if len(words) == 0 {
		return nil
	}
	perAttempt, err := st.ListWordStatsForAttempts(ctx, stats.AttemptIDs(report.Attempts), words)
	if err != nil {
		return fmt.Errorf("failed to load word stats: %w", err)
	}
	return stats.RenderWordCurves(w, report.Attempts, perAttempt, words, cfg.CurveWindow)
}
