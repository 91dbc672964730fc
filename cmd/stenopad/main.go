// Package main provides the CLI entrypoint for stenopad.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/stenopad/internal/config"
	"github.com/verte-zerg/stenopad/internal/evaluate"
	"github.com/verte-zerg/stenopad/internal/generator"
	"github.com/verte-zerg/stenopad/internal/model"
	"github.com/verte-zerg/stenopad/internal/passage"
	"github.com/verte-zerg/stenopad/internal/stats"
	"github.com/verte-zerg/stenopad/internal/store"
	"github.com/verte-zerg/stenopad/internal/tui"
)

const (
	defaultTokenize     = "collapse"
	defaultIncorrect    = "entries"
	defaultWeakTop      = 10
	defaultWeakFactor   = 3.0
	defaultWeakWindow   = 20
	defaultDrillWords   = 40
	defaultDrillMinutes = 2
	defaultCurveWindow  = 20
)

var (
	practiceTokenize     string
	practiceIncorrect    string
	practiceAutoSubmit   bool
	practiceTestID       int64
	practiceWeakTop      int
	practiceWeakFactor   float64
	practiceWeakWindow   int
	practiceDrillWords   int
	practiceDrillMinutes int
	practiceLang         string

	freeTextFile string
	freeMinutes  float64
	freeLang     string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stenopad",
		Short:         "Stenography transcription trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.LoadEnv(config.DefaultEnvPath())
		},
		RunE: runTestCmd,
	}

	rootCmd.PersistentFlags().StringVar(&practiceTokenize, "tokenize", defaultTokenize, "reference tokenization (collapse|compat)")
	rootCmd.PersistentFlags().StringVar(&practiceIncorrect, "incorrect", defaultIncorrect, "incorrect word formula (entries|compat)")
	rootCmd.PersistentFlags().BoolVar(&practiceAutoSubmit, "auto-submit", false, "submit automatically when the duration elapses")
	rootCmd.Flags().Int64Var(&practiceTestID, "test", 0, "library test id to transcribe")

	rootCmd.AddCommand(newFreeCmd())
	rootCmd.AddCommand(newDrillCmd())
	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newTestsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadPracticeConfig merges the config file under explicitly set flags.
func loadPracticeConfig(cmd *cobra.Command) (model.PracticeConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.PracticeConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "tokenize", &practiceTokenize, fileCfg.Practice.Tokenize)
	applyStringConfig(cmd, "incorrect", &practiceIncorrect, fileCfg.Practice.Incorrect)
	applyBoolConfig(cmd, "auto-submit", &practiceAutoSubmit, fileCfg.Practice.AutoSubmit)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)
	applyIntConfig(cmd, "words", &practiceDrillWords, fileCfg.Practice.DrillWords)
	applyIntConfig(cmd, "minutes", &practiceDrillMinutes, fileCfg.Practice.DrillMinutes)

	cfg := model.PracticeConfig{
		Tokenize:     practiceTokenize,
		Incorrect:    practiceIncorrect,
		AutoSubmit:   practiceAutoSubmit,
		WeakTop:      practiceWeakTop,
		WeakFactor:   practiceWeakFactor,
		WeakWindow:   practiceWeakWindow,
		DrillWords:   practiceDrillWords,
		DrillMinutes: practiceDrillMinutes,
	}
	if err := validateConfig(cfg); err != nil {
		return model.PracticeConfig{}, err
	}
	return cfg, nil
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if practiceTestID <= 0 {
		if err := printTests(cmd.OutOrStdout(), st, model.TestFilter{}); err != nil {
			return err
		}
		return fmt.Errorf("select a test with --test <id>")
	}
	test, err := st.GetTest(context.Background(), practiceTestID)
	if err != nil {
		if errors.Is(err, store.ErrTestNotFound) {
			return fmt.Errorf("test %d not found (list tests with: stenopad tests)", practiceTestID)
		}
		return fmt.Errorf("failed to load test: %w", err)
	}
	return runPad(cfg, st, tui.Options{Test: test})
}

func newFreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "free",
		Short: "Free dictation against any reference text",
		Args:  cobra.NoArgs,
		RunE:  runFreeCmd,
	}
	cmd.Flags().StringVar(&freeTextFile, "text-file", "", "reference text file")
	cmd.Flags().Float64Var(&freeMinutes, "minutes", 0, "dictation length in minutes (0: use elapsed time)")
	cmd.Flags().StringVar(&freeLang, "lang", "", "language label recorded with the attempt")
	if err := cmd.MarkFlagRequired("text-file"); err != nil {
		logErrf("failed to mark --text-file required: %v\n", err)
	}
	return cmd
}

func runFreeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	if freeMinutes < 0 {
		return fmt.Errorf("--minutes must be >= 0")
	}
	text, err := passage.LoadText(freeTextFile)
	if err != nil {
		return fmt.Errorf("failed to load reference text: %w", err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	test := model.StenoTest{
		Title:        "Free Dictation",
		Language:     freeLang,
		OriginalText: text,
	}
	return runPad(cfg, st, tui.Options{Test: test, Minutes: freeMinutes})
}

func newDrillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Copy-typing drill biased toward weak words",
		Args:  cobra.NoArgs,
		RunE:  runDrillCmd,
	}
	cmd.Flags().StringVar(&practiceLang, "lang", "", "language of library tests to draw words from")
	cmd.Flags().IntVar(&practiceDrillWords, "words", defaultDrillWords, "words per drill passage")
	cmd.Flags().IntVar(&practiceDrillMinutes, "minutes", defaultDrillMinutes, "nominal drill length in minutes")
	cmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak words to focus on")
	cmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "extra weight for weak words")
	cmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent attempts used to find weak words")
	return cmd
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	tests, err := st.ListTests(ctx, model.TestFilter{Language: practiceLang})
	if err != nil {
		return fmt.Errorf("failed to list tests: %w", err)
	}
	texts := make([]string, 0, len(tests))
	for _, t := range tests {
		texts = append(texts, t.OriginalText)
	}
	pool := passage.Vocabulary(texts...)
	if len(pool) == 0 {
		return fmt.Errorf("no words to drill; add tests with: stenopad tests add")
	}

	drill := &tui.Drill{Gen: generator.New(), Pool: pool}
	aggs, err := st.GetWeakWords(ctx, cfg.WeakWindow, practiceLang)
	if err != nil {
		logErrf("failed to load weak words: %v\n", err)
	} else {
		drill.WeakSet = stats.SelectWeakWords(aggs, cfg.WeakTop)
		if len(drill.WeakSet) == 0 {
			logErrln("no weak words recorded yet; drilling uniformly")
			drill.WeakNoticePrinted = true
		}
	}

	test := model.StenoTest{
		Title:    "Weak-Word Drill",
		Language: practiceLang,
		Duration: evaluate.FormatDuration(cfg.DrillMinutes),
	}
	return runPad(cfg, st, tui.Options{Test: test, ShowReference: true, Drill: drill})
}

func runPad(cfg model.PracticeConfig, st *store.Store, opts tui.Options) error {
	pad, err := tui.NewModel(cfg, st, opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(pad, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Lookup(name) != nil && cmd.Flags().Changed(name)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# stenopad configuration
# Uncomment a value to enable it. CLI flags override config values.
# Paths can be overridden with %s and %s, or in a .env file next to this one.

[practice]
# tokenize = %q      # Reference tokenization: collapse | compat
# incorrect = %q      # Incorrect word count: entries | compat
# auto-submit = false       # Submit when the test duration elapses
# weak-top = %d             # Number of weak words to drill
# weak-factor = %.1f         # Extra weight for weak words
# weak-window = %d          # Recent attempts used to find weak words
# drill-words = %d          # Words per drill passage
# drill-minutes = %d         # Nominal drill length in minutes

[stats]
# curve-window = %d         # Moving average window for curves
`,
		config.EnvDBPath,
		config.EnvConfigPath,
		defaultTokenize,
		defaultIncorrect,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultDrillWords,
		defaultDrillMinutes,
		defaultCurveWindow,
	)
}

func validateConfig(cfg model.PracticeConfig) error {
	if _, err := evaluate.ParseTokenization(cfg.Tokenize); err != nil {
		return fmt.Errorf("--tokenize: %w", err)
	}
	if _, err := evaluate.ParseIncorrectFormula(cfg.Incorrect); err != nil {
		return fmt.Errorf("--incorrect: %w", err)
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if cfg.DrillWords <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.DrillMinutes <= 0 {
		return fmt.Errorf("--minutes must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
