package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db)
	assert.NotNil(t, db.SQL())
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "history.db")
	db, err := Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.FileExists(t, path)
}

func TestMigrations_Applied(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	err := db.migrate()
	require.NoError(t, err)

	var count int
	err = db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestSchema_RunsTableExists(t *testing.T) {
	db := testDB(t)

	var name string
	err := db.sql.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "runs", name)
}

// --- HistoryStore tests, run against both implementations ---

func stores(t *testing.T) map[string]HistoryStore {
	return map[string]HistoryStore{
		"sqlite": NewSQLiteHistory(testDB(t)),
		"memory": NewMemoryHistory(0),
	}
}

func TestHistory_RecordAssignsID(t *testing.T) {
	for name, h := range stores(t) {
		t.Run(name, func(t *testing.T) {
			run, err := h.Record(context.Background(), domain.Run{Agent: domain.AgentResearch, Operation: "report", Status: domain.RunOK})
			require.NoError(t, err)
			assert.NotEmpty(t, run.ID)
			assert.False(t, run.StartedAt.IsZero())
		})
	}
}

func TestHistory_RecentNewestFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for name, h := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := range 3 {
				_, err := h.Record(ctx, domain.Run{
					ID:         fmt.Sprintf("run-%d", i),
					Agent:      domain.AgentScriptwriter,
					Operation:  "write",
					Status:     domain.RunOK,
					StartedAt:  base.Add(time.Duration(i) * time.Second),
					DurationMs: int64(100 * i),
				})
				require.NoError(t, err)
			}

			runs, err := h.Recent(ctx, "", 2)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "run-2", runs[0].ID)
			assert.Equal(t, "run-1", runs[1].ID)
			assert.Equal(t, int64(200), runs[0].DurationMs)
			assert.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Second)))
		})
	}
}

func TestHistory_RoundTripFields(t *testing.T) {
	for name, h := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := domain.Run{
				ID:        "r1",
				Agent:     domain.AgentAnalytics,
				Operation: "performance",
				Status:    domain.RunError,
				Error:     "youtube API error (403): quota",
				Mock:      true,
				StartedAt: time.Date(2025, 1, 2, 3, 4, 5, 678000, time.UTC),
				RequestID: "req-1",
			}
			_, err := h.Record(ctx, in)
			require.NoError(t, err)

			runs, err := h.Recent(ctx, "", 0)
			require.NoError(t, err)
			require.Len(t, runs, 1)
			got := runs[0]
			assert.Equal(t, in.Agent, got.Agent)
			assert.Equal(t, in.Operation, got.Operation)
			assert.Equal(t, in.Status, got.Status)
			assert.Equal(t, in.Error, got.Error)
			assert.True(t, got.Mock)
			assert.Equal(t, "req-1", got.RequestID)
			assert.True(t, in.StartedAt.Equal(got.StartedAt))
		})
	}
}

func TestHistory_FilterByAgent(t *testing.T) {
	for name, h := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, agent := range []string{domain.AgentEditor, domain.AgentStrategy, domain.AgentEditor} {
				_, err := h.Record(ctx, domain.Run{Agent: agent, Operation: "op", Status: domain.RunOK})
				require.NoError(t, err)
			}

			runs, err := h.Recent(ctx, domain.AgentEditor, 10)
			require.NoError(t, err)
			assert.Len(t, runs, 2)
			for _, r := range runs {
				assert.Equal(t, domain.AgentEditor, r.Agent)
			}
		})
	}
}

func TestHistory_EmptyIsNotNil(t *testing.T) {
	for name, h := range stores(t) {
		t.Run(name, func(t *testing.T) {
			runs, err := h.Recent(context.Background(), "", 10)
			require.NoError(t, err)
			assert.NotNil(t, runs)
			assert.Empty(t, runs)
		})
	}
}

func TestHistory_ConcurrentRecord(t *testing.T) {
	for name, h := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for range 20 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := h.Record(context.Background(), domain.Run{Agent: domain.AgentReviewer, Operation: "revise", Status: domain.RunOK})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			runs, err := h.Recent(context.Background(), "", 100)
			require.NoError(t, err)
			assert.Len(t, runs, 20)
		})
	}
}

func TestMemoryHistory_Capacity(t *testing.T) {
	h := NewMemoryHistory(2)
	ctx := context.Background()
	for i := range 3 {
		_, err := h.Record(ctx, domain.Run{ID: fmt.Sprintf("r%d", i)})
		require.NoError(t, err)
	}

	runs, err := h.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r2", runs[0].ID)
	assert.Equal(t, "r1", runs[1].ID)
}

func TestOpenHistory(t *testing.T) {
	log := logging.New(nil, "silent")

	h, closeFn, err := OpenHistory("memory", "", log)
	require.NoError(t, err)
	assert.IsType(t, &MemoryHistory{}, h)
	assert.NoError(t, closeFn())

	h, closeFn, err = OpenHistory("sqlite", filepath.Join(t.TempDir(), "h.db"), log)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteHistory{}, h)
	assert.NoError(t, closeFn())

	_, _, err = OpenHistory("redis", "", log)
	assert.Error(t, err)
}
