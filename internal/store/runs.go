package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/numreach/internal/canon"
	"github.com/roach88/numreach/internal/engine"
	"github.com/roach88/numreach/internal/expr"
)

// ErrRunNotFound is returned by ReadRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded search.
type Run struct {
	ID           string
	Seq          int64
	Fingerprint  string
	Numbers      []int
	Target       int
	Level        int
	Status       engine.Status
	ClosestText  string // empty when there were solutions or no closest item
	ClosestValue string
	States       int
	ElapsedMS    int64

	// SolutionCount is filled by every read. Solutions is filled by ReadRun
	// only, in rank order.
	SolutionCount int
	Solutions     []Solution
}

// Solution is one ranked solution of a run. Rank 0 is the simplest.
type Solution struct {
	Rank       int
	Text       string
	Complexity float64
}

// NewRun converts a request and its result into a record ready for
// WriteRun. ID and Seq are assigned on write.
func NewRun(req engine.Request, res *engine.Result) (Run, error) {
	fp, err := canon.RequestFingerprint(req.Numbers, req.Target, req.Level)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}

	run := Run{
		Fingerprint: fp,
		Numbers:     req.Numbers,
		Target:      req.Target,
		Level:       req.Level,
		Status:      res.Status,
		States:      res.Stats.States,
		ElapsedMS:   res.Stats.Elapsed.Milliseconds(),
	}
	for i, s := range res.Solutions {
		run.Solutions = append(run.Solutions, Solution{Rank: i, Text: s.Text, Complexity: s.Complexity})
	}
	run.SolutionCount = len(run.Solutions)
	if len(res.Solutions) == 0 && res.Closest != nil {
		run.ClosestText = res.Closest.Text
		run.ClosestValue = expr.FormatNumber(res.Closest.Value)
	}
	return run, nil
}

// WriteRun records a run and its solutions in one transaction and returns
// the run ID. A run with an empty ID gets one from the store's generator.
func (s *Store) WriteRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}

	numbersJSON, err := marshalNumbers(run.Numbers)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return "", fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, fingerprint, numbers, target, level, status, closest_text, closest_value, states, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		seq,
		run.Fingerprint,
		numbersJSON,
		run.Target,
		run.Level,
		string(run.Status),
		run.ClosestText,
		run.ClosestValue,
		run.States,
		run.ElapsedMS,
	)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	for _, sol := range run.Solutions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO solutions (run_id, rank, text, complexity)
			VALUES (?, ?, ?, ?)
		`, run.ID, sol.Rank, sol.Text, sol.Complexity)
		if err != nil {
			return "", fmt.Errorf("write run: solution %d: %w", sol.Rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write run: commit: %w", err)
	}
	return run.ID, nil
}

const runColumns = `
	r.id, r.seq, r.fingerprint, r.numbers, r.target, r.level, r.status,
	r.closest_text, r.closest_value, r.states, r.elapsed_ms,
	(SELECT COUNT(*) FROM solutions s WHERE s.run_id = r.id)
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run         Run
		numbersJSON string
		status      string
	)
	err := row.Scan(
		&run.ID, &run.Seq, &run.Fingerprint, &numbersJSON, &run.Target, &run.Level, &status,
		&run.ClosestText, &run.ClosestValue, &run.States, &run.ElapsedMS,
		&run.SolutionCount,
	)
	if err != nil {
		return Run{}, err
	}
	run.Status = engine.Status(status)
	if run.Numbers, err = unmarshalNumbers(numbersJSON); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ReadRun returns a run with its solutions.
// Returns ErrRunNotFound if no run has the given ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rank, text, complexity
		FROM solutions
		WHERE run_id = ?
		ORDER BY rank ASC
	`, id)
	if err != nil {
		return Run{}, fmt.Errorf("read solutions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sol Solution
		if err := rows.Scan(&sol.Rank, &sol.Text, &sol.Complexity); err != nil {
			return Run{}, fmt.Errorf("scan solution: %w", err)
		}
		run.Solutions = append(run.Solutions, sol)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate solutions: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first, without their solutions.
// A limit of zero or less returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs r ORDER BY r.seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRuns(ctx, query, args...)
}

// RunsByFingerprint returns every run of the same puzzle, oldest first.
func (s *Store) RunsByFingerprint(ctx context.Context, fingerprint string) ([]Run, error) {
	return s.queryRuns(ctx,
		`SELECT `+runColumns+` FROM runs r WHERE r.fingerprint = ? ORDER BY r.seq ASC`,
		fingerprint)
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
