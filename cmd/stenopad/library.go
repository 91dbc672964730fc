package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/stenopad/internal/evaluate"
	"github.com/verte-zerg/stenopad/internal/model"
	"github.com/verte-zerg/stenopad/internal/passage"
	"github.com/verte-zerg/stenopad/internal/store"
)

var (
	testsLang     string
	testsFreeOnly bool

	addTitle    string
	addLang     string
	addSpeed    string
	addDuration string
	addFree     bool
	addAudioURL string
	addTextFile string
)

var listHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var listCellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tests",
		Short: "List library tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)
			return printTests(cmd.OutOrStdout(), st, model.TestFilter{Language: testsLang, FreeOnly: testsFreeOnly})
		},
	}
	cmd.Flags().StringVar(&testsLang, "lang", "", "language filter")
	cmd.Flags().BoolVar(&testsFreeOnly, "free", false, "only free tests")

	cmd.AddCommand(newTestsAddCmd())
	cmd.AddCommand(newTestsShowCmd())
	cmd.AddCommand(newTestsRmCmd())
	return cmd
}

func newTestsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a test to the library",
		Args:  cobra.NoArgs,
		RunE:  runTestsAddCmd,
	}
	cmd.Flags().StringVar(&addTitle, "title", "", "test title")
	cmd.Flags().StringVar(&addLang, "lang", "English", "test language")
	cmd.Flags().StringVar(&addSpeed, "speed", "", "dictation speed label (e.g. \"80 WPM\")")
	cmd.Flags().StringVar(&addDuration, "duration", "", "duration label (e.g. \"10 Minutes\")")
	cmd.Flags().BoolVar(&addFree, "free", false, "mark the test as free")
	cmd.Flags().StringVar(&addAudioURL, "audio-url", "", "dictation audio location")
	cmd.Flags().StringVar(&addTextFile, "text-file", "", "original text file")
	for _, name := range []string{"title", "duration", "text-file"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			logErrf("failed to mark --%s required: %v\n", name, err)
		}
	}
	return cmd
}

func runTestsAddCmd(cmd *cobra.Command, _ []string) error {
	test, err := buildTest()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	id, err := st.AddTest(context.Background(), test)
	if err != nil {
		return fmt.Errorf("failed to add test: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added test %d: %s\n", id, test.Title)
	return err
}

func buildTest() (model.StenoTest, error) {
	title := strings.TrimSpace(addTitle)
	if title == "" {
		return model.StenoTest{}, fmt.Errorf("--title must not be empty")
	}
	minutes := evaluate.ParseDuration(addDuration)
	if minutes <= 0 {
		return model.StenoTest{}, fmt.Errorf("--duration must start with a positive number of minutes, got %q", addDuration)
	}
	text, err := passage.LoadText(addTextFile)
	if err != nil {
		return model.StenoTest{}, fmt.Errorf("failed to load text: %w", err)
	}
	return model.StenoTest{
		Title:        title,
		Language:     strings.TrimSpace(addLang),
		Speed:        strings.TrimSpace(addSpeed),
		Duration:     evaluate.FormatDuration(minutes),
		IsFree:       addFree,
		AudioURL:     strings.TrimSpace(addAudioURL),
		OriginalText: text,
		CreatedAt:    time.Now(),
	}, nil
}

func newTestsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a library test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTestID(args[0])
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)
			test, err := st.GetTest(context.Background(), id)
			if err != nil {
				return testLookupError(id, err)
			}
			return writeTest(cmd.OutOrStdout(), test)
		},
	}
}

func newTestsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a library test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTestID(args[0])
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)
			if err := st.DeleteTest(context.Background(), id); err != nil {
				return testLookupError(id, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted test %d\n", id)
			return err
		},
	}
}

func parseTestID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid test id %q", raw)
	}
	return id, nil
}

func testLookupError(id int64, err error) error {
	if errors.Is(err, store.ErrTestNotFound) {
		return fmt.Errorf("test %d not found", id)
	}
	return fmt.Errorf("failed to load test %d: %w", id, err)
}

func printTests(w io.Writer, st *store.Store, filter model.TestFilter) error {
	tests, err := st.ListTests(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to list tests: %w", err)
	}
	if len(tests) == 0 {
		_, err := fmt.Fprintln(w, "No tests found. Add one with: stenopad tests add")
		return err
	}
	_, err = fmt.Fprintln(w, renderTestList(tests))
	return err
}

func renderTestList(tests []model.StenoTest) string {
	rows := make([][]string, 0, len(tests))
	for _, t := range tests {
		access := "Paid"
		if t.IsFree {
			access = "Free"
		}
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			runewidth.Truncate(t.Title, 40, "…"),
			t.Language,
			t.Speed,
			t.Duration,
			access,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Language", "Speed", "Duration", "Access").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}
			return listCellStyle
		}).
		String()
}

func writeTest(w io.Writer, test model.StenoTest) error {
	lines := []string{
		fmt.Sprintf("ID: %d", test.ID),
		fmt.Sprintf("Title: %s", test.Title),
		fmt.Sprintf("Language: %s", test.Language),
		fmt.Sprintf("Speed: %s", test.Speed),
		fmt.Sprintf("Duration: %s", test.Duration),
		fmt.Sprintf("Free: %t", test.IsFree),
	}
	if test.AudioURL != "" {
		lines = append(lines, fmt.Sprintf("Audio: %s", test.AudioURL))
	}
	lines = append(lines,
		fmt.Sprintf("Words: %d", len(evaluate.SubmittedWords(test.OriginalText))),
		fmt.Sprintf("Added: %s", test.CreatedAt.Local().Format("2006-01-02 15:04")),
		"",
		test.OriginalText,
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
