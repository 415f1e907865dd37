package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
)

// DefaultLimit is the number of runs returned when no limit is given.
const DefaultLimit = 50

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02 15:04:05.000000"

// HistoryStore records agent runs.
type HistoryStore interface {
	// Record stores a run, assigning an ID if it has none.
	Record(ctx context.Context, run domain.Run) (domain.Run, error)

	// Recent returns the newest runs first. A non-empty agent filters by
	// agent name.
	Recent(ctx context.Context, agent string, limit int) ([]domain.Run, error)
}

func prepare(run domain.Run) domain.Run {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()
	return run
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// SQLiteHistory stores runs in the runs table.
type SQLiteHistory struct {
	db *DB
}

// NewSQLiteHistory creates a history store using the given database.
func NewSQLiteHistory(db *DB) *SQLiteHistory {
	return &SQLiteHistory{db: db}
}

func (h *SQLiteHistory) Record(ctx context.Context, run domain.Run) (domain.Run, error) {
	run = prepare(run)

	mock := 0
	if run.Mock {
		mock = 1
	}

	_, err := h.db.sql.ExecContext(ctx,
		`INSERT INTO runs (id, agent, operation, status, error, mock, started_at, duration_ms, request_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Agent, run.Operation, run.Status, run.Error, mock,
		run.StartedAt.Format(timeLayout), run.DurationMs, run.RequestID,
	)
	if err != nil {
		return run, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

func (h *SQLiteHistory) Recent(ctx context.Context, agent string, limit int) ([]domain.Run, error) {
	query := `SELECT id, agent, operation, status, error, mock, started_at, duration_ms, request_id FROM runs`
	args := []any{}
	if agent != "" {
		query += ` WHERE agent = ?`
		args = append(args, agent)
	}
	query += ` ORDER BY started_at DESC, rowid DESC LIMIT ?`
	args = append(args, normalizeLimit(limit))

	rows, err := h.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.Run{}
	for rows.Next() {
		var run domain.Run
		var mock int
		var startedAt string
		if err := rows.Scan(
			&run.ID, &run.Agent, &run.Operation, &run.Status, &run.Error,
			&mock, &startedAt, &run.DurationMs, &run.RequestID,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Mock = mock != 0
		run.StartedAt, _ = time.ParseInLocation(timeLayout, startedAt, time.UTC)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// MemoryHistory keeps the most recent runs in memory.
type MemoryHistory struct {
	mu       sync.Mutex
	runs     []domain.Run
	capacity int
}

// NewMemoryHistory creates a store holding at most capacity runs. A
// non-positive capacity keeps 1000.
func NewMemoryHistory(capacity int) *MemoryHistory {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryHistory{capacity: capacity}
}

func (h *MemoryHistory) Record(ctx context.Context, run domain.Run) (domain.Run, error) {
	run = prepare(run)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, run)
	if over := len(h.runs) - h.capacity; over > 0 {
		h.runs = append([]domain.Run(nil), h.runs[over:]...)
	}
	return run, nil
}

func (h *MemoryHistory) Recent(ctx context.Context, agent string, limit int) ([]domain.Run, error) {
	limit = normalizeLimit(limit)

	h.mu.Lock()
	defer h.mu.Unlock()

	out := []domain.Run{}
	for i := len(h.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if agent != "" && h.runs[i].Agent != agent {
			continue
		}
		out = append(out, h.runs[i])
	}
	return out, nil
}

// OpenHistory opens the store named by kind: "memory" or "sqlite" at
// dbPath. The returned close function releases the database.
func OpenHistory(kind, dbPath string, log *logging.Logger) (HistoryStore, func() error, error) {
	switch kind {
	case "memory":
		return NewMemoryHistory(0), func() error { return nil }, nil
	case "", "sqlite":
		db, err := Open(dbPath, log)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteHistory(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown history store %q", kind)
	}
}
