package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// RunEvent is one analytics row.
type RunEvent struct {
	At      time.Duration // simulated time since the run started
	Type    string        // "destroyed", "wave"
	Variant string
	Kind    string
	Reason  string
	Wave    int
	Value   int
	X, Y    float64
}

// RunSummary is written when a run ends.
type RunSummary struct {
	Ticks   uint64
	MaxWave int
	Spawned int
	Kills   int
	Score   int
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// StartRun inserts a run row and returns its id.
func (r *RunRepo) StartRun(ctx context.Context, seed uint64) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO runs (seed) VALUES ($1) RETURNING id`,
		int64(seed),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// WriteEvents copies a batch of events for runID in a single transaction.
func (r *RunRepo) WriteEvents(ctx context.Context, runID int64, events []RunEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("events begin: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]any, len(events))
	for i, e := range events {
		rows[i] = []any{runID, e.At.Milliseconds(), e.Type, e.Variant, e.Kind, e.Reason, int32(e.Wave), int32(e.Value), e.X, e.Y}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"run_events"},
		[]string{"run_id", "at_ms", "event_type", "variant", "kind", "reason", "wave", "value", "pos_x", "pos_y"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("events copy: %w", err)
	}

	return tx.Commit(ctx)
}

// FinishRun stamps the run's end time and totals.
func (r *RunRepo) FinishRun(ctx context.Context, runID int64, s RunSummary) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE runs SET finished_at = now(), ticks = $2, max_wave = $3, spawned = $4, kills = $5, score = $6
		 WHERE id = $1`,
		runID, int64(s.Ticks), s.MaxWave, s.Spawned, s.Kills, s.Score,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}
