// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/verte-zerg/stenopad/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrTestNotFound is returned when a library test does not exist.
var ErrTestNotFound = errors.New("test not found")

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// timeLayout is fixed width so stored UTC timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for the test library and attempt history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tests (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			language TEXT NOT NULL,
			speed TEXT NOT NULL,
			duration TEXT NOT NULL,
			is_free INTEGER NOT NULL,
			audio_url TEXT NOT NULL,
			original_text TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			test_id INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			duration_minutes REAL NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			total_words INTEGER NOT NULL,
			correct_words INTEGER NOT NULL,
			incorrect_words INTEGER NOT NULL,
			missing_words INTEGER NOT NULL,
			extra_words INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			submitted_text TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_word_stats (
			attempt_id INTEGER NOT NULL,
			word TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			missing INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, word)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ended_at ON attempts(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempt_word_stats_word ON attempt_word_stats(word);`,
		`CREATE INDEX IF NOT EXISTS idx_tests_language ON tests(language);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddTest stores a new library test and returns its id.
func (s *Store) AddTest(ctx context.Context, test model.StenoTest) (int64, error) {
	createdAt := test.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query, args, err := sqlBuilder.Insert("tests").
		Columns("title", "language", "speed", "duration", "is_free", "audio_url", "original_text", "created_at").
		Values(test.Title, test.Language, test.Speed, test.Duration, boolToInt(test.IsFree), test.AudioURL, test.OriginalText, createdAt.UTC().Format(timeLayout)).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetTest loads a library test by id.
func (s *Store) GetTest(ctx context.Context, id int64) (model.StenoTest, error) {
	query, args, err := testColumns().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return model.StenoTest{}, err
	}
	test, err := scanTest(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.StenoTest{}, fmt.Errorf("test %d: %w", id, ErrTestNotFound)
	}
	return test, err
}

// ListTests returns library tests, newest first.
func (s *Store) ListTests(ctx context.Context, filter model.TestFilter) ([]model.StenoTest, error) {
	q := testColumns()
	if filter.Language != "" {
		q = q.Where("LOWER(language) = LOWER(?)", filter.Language)
	}
	if filter.FreeOnly {
		q = q.Where(squirrel.Eq{"is_free": 1})
	}
	query, args, err := q.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var tests []model.StenoTest
	for rows.Next() {
		test, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tests, nil
}

// DeleteTest removes a library test. Attempt history is kept.
func (s *Store) DeleteTest(ctx context.Context, id int64) error {
	query, args, err := sqlBuilder.Delete("tests").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("test %d: %w", id, ErrTestNotFound)
	}
	return nil
}

// InsertAttempt stores a submitted attempt and its per-word stats.
func (s *Store) InsertAttempt(ctx context.Context, stats model.AttemptStats, words []model.WordStats) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rerr := tx.Rollback(); rerr != nil {
			// Best-effort rollback.
			_ = rerr
		}
	}()

	query, args, err := sqlBuilder.Insert("attempts").
		Columns("test_id", "started_at", "ended_at", "lang", "duration_minutes", "wpm", "accuracy",
			"total_words", "correct_words", "incorrect_words", "missing_words", "extra_words",
			"elapsed_ms", "submitted_text").
		Values(
			stats.TestID,
			stats.StartedAt.UTC().Format(timeLayout),
			stats.EndedAt.UTC().Format(timeLayout),
			stats.Lang,
			stats.DurationMinutes,
			stats.WPM,
			stats.Accuracy,
			stats.TotalWords,
			stats.CorrectWords,
			stats.IncorrectWords,
			stats.MissingWords,
			stats.ExtraWords,
			stats.ElapsedMs,
			stats.SubmittedText,
		).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(words) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO attempt_word_stats (attempt_id, word, correct, incorrect, missing)
			 VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, ws := range words {
			if _, err := stmt.ExecContext(ctx, id, ws.Word, ws.Correct, ws.Incorrect, ws.Missing); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

// GetWeakWords aggregates word stats over the most recent attempts.
func (s *Store) GetWeakWords(ctx context.Context, window int, lang string) ([]model.WordAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_attempts AS (
		SELECT id FROM attempts
		WHERE (? = '' OR LOWER(lang) = LOWER(?))
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT ws.word, SUM(ws.correct) AS correct, SUM(ws.incorrect) AS incorrect, SUM(ws.missing) AS missing
	FROM attempt_word_stats ws
	JOIN recent_attempts r ON r.id = ws.attempt_id
	GROUP BY ws.word`

	rows, err := s.db.QueryContext(ctx, query, lang, lang, window)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)
	return scanWordAggregates(rows)
}

// ListAttempts returns attempt aggregates filtered by stats config, oldest first.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error) {
	q := sqlBuilder.Select("id", "test_id", "ended_at", "wpm", "accuracy", "total_words",
		"correct_words", "incorrect_words", "elapsed_ms").From("attempts")
	if cfg.Lang != "" {
		q = q.Where("LOWER(lang) = LOWER(?)", cfg.Lang)
	}
	if cfg.Since != nil {
		q = q.Where(squirrel.GtOrEq{"ended_at": cfg.Since.UTC().Format(timeLayout)})
	}
	if cfg.TestID > 0 {
		q = q.Where(squirrel.Eq{"test_id": cfg.TestID})
	}
	query, args, err := q.OrderBy("ended_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var endedAt string
		if err := rows.Scan(&agg.AttemptID, &agg.TestID, &endedAt, &agg.WPM, &agg.Accuracy, &agg.TotalWords,
			&agg.Correct, &agg.Incorrect, &agg.ElapsedMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// ListWordAggregatesForAttempts aggregates per-word stats across attempts.
func (s *Store) ListWordAggregatesForAttempts(ctx context.Context, attemptIDs []int64) ([]model.WordAggregate, error) {
	if len(attemptIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlBuilder.Select("word", "SUM(correct) AS correct", "SUM(incorrect) AS incorrect", "SUM(missing) AS missing").
		From("attempt_word_stats").
		Where(squirrel.Eq{"attempt_id": attemptIDs}).
		GroupBy("word").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)
	return scanWordAggregates(rows)
}

// ListWordStatsForAttempts returns per-attempt stats for selected words.
func (s *Store) ListWordStatsForAttempts(ctx context.Context, attemptIDs []int64, words []string) (map[int64]map[string]model.WordAggregate, error) {
	if len(attemptIDs) == 0 || len(words) == 0 {
		return map[int64]map[string]model.WordAggregate{}, nil
	}
	query, args, err := sqlBuilder.Select("attempt_id", "word", "correct", "incorrect", "missing").
		From("attempt_word_stats").
		Where(squirrel.Eq{"attempt_id": attemptIDs, "word": words}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	result := map[int64]map[string]model.WordAggregate{}
	for rows.Next() {
		var attemptID int64
		var agg model.WordAggregate
		if err := rows.Scan(&attemptID, &agg.Word, &agg.Correct, &agg.Incorrect, &agg.Missing); err != nil {
			return nil, err
		}
		if _, ok := result[attemptID]; !ok {
			result[attemptID] = map[string]model.WordAggregate{}
		}
		result[attemptID][agg.Word] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func testColumns() squirrel.SelectBuilder {
	return sqlBuilder.Select("id", "title", "language", "speed", "duration", "is_free", "audio_url",
		"original_text", "created_at").From("tests")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTest(row rowScanner) (model.StenoTest, error) {
	var test model.StenoTest
	var isFree int
	var createdAt string
	if err := row.Scan(&test.ID, &test.Title, &test.Language, &test.Speed, &test.Duration, &isFree,
		&test.AudioURL, &test.OriginalText, &createdAt); err != nil {
		return model.StenoTest{}, err
	}
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return model.StenoTest{}, err
	}
	test.IsFree = isFree != 0
	test.CreatedAt = parsed
	return test, nil
}

func scanWordAggregates(rows *sql.Rows) ([]model.WordAggregate, error) {
	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Word, &agg.Correct, &agg.Incorrect, &agg.Missing); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
