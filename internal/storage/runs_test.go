package storage

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	config := DefaultConfig(filepath.Join(t.TempDir(), "results.db"))
	config.AutoMigrate = true
	db, err := Open(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testRun(replay string, started time.Time) *Run {
	return &Run{
		Replay:            replay,
		HomeTeam:          "Reikland Reavers",
		AwayTeam:          "Gouged Eye",
		HomeScore:         2,
		AwayScore:         1,
		Events:            3,
		CommandsTotal:     200,
		CommandsRemaining: 50,
		EntriesRemaining:  12,
		ErrorKind:         "unexpected_command",
		ErrorMessage:      "unexpected command: Pushback after Attacker Down",
		StartedAt:         started,
		FinishedAt:        started.Add(time.Second),
	}
}

func testEvents() []RunEvent {
	return []RunEvent{
		{Seq: 0, Half: 1, Turn: 1, Type: "CoinToss", Payload: json.RawMessage(`{"toss_team":"HOME"}`)},
		{Seq: 1, Half: 1, Turn: 1, Type: "Kickoff", Payload: json.RawMessage(`{"distance":4}`)},
		{Seq: 2, Half: 1, Turn: 1, Type: "Bounce", Payload: json.RawMessage(`{"direction":"N"}`)},
	}
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := db.Runs()
	ctx := context.Background()
	started := time.Date(2024, 3, 1, 20, 15, 0, 0, time.UTC)

	run := testRun("Match_2024-03-01", started)
	events := testEvents()
	require.NoError(t, repo.Create(ctx, run, events))
	require.NotEmpty(t, run.ID)
	assert.Equal(t, run.ID, events[2].RunID)

	got, err := repo.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "Match_2024-03-01", got.Replay)
	assert.Equal(t, 2, got.HomeScore)
	assert.Equal(t, "unexpected_command", got.ErrorKind)
	assert.False(t, got.Completed)
	assert.True(t, started.Equal(got.StartedAt))
	assert.InDelta(t, 0.75, got.Coverage(), 1e-9)

	stored, err := repo.Events(ctx, run.ID, "")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "Kickoff", stored[1].Type)
	assert.JSONEq(t, `{"distance":4}`, string(stored[1].Payload))

	bounces, err := repo.Events(ctx, run.ID, "Bounce")
	require.NoError(t, err)
	require.Len(t, bounces, 1)
	assert.Equal(t, 2, bounces[0].Seq)
}

func TestRunRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.Runs().Get(context.Background(), "no-such-run")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRunRepository_CreateIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	repo := db.Runs()
	ctx := context.Background()

	events := testEvents()
	events[2].Seq = 1 // duplicate key
	run := testRun("Broken", time.Now())
	require.Error(t, repo.Create(ctx, run, events))

	runs, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunRepository_ListAndStats(t *testing.T) {
	db := setupTestDB(t)
	repo := db.Runs()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	first := testRun("A", base)
	second := testRun("B", base.Add(time.Hour))
	second.Completed = true
	second.ErrorKind = ""
	second.ErrorMessage = ""
	second.CommandsRemaining = 0
	third := testRun("A", base.Add(2*time.Hour))

	for _, run := range []*Run{first, second, third} {
		require.NoError(t, repo.Create(ctx, run, nil))
	}

	runs, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, third.ID, runs[0].ID)
	assert.Equal(t, second.ID, runs[1].ID)

	byReplay, err := repo.ListByReplay(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, byReplay, 2)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Runs)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 9, stats.Events)
	assert.InDelta(t, (0.75+1+0.75)/3, stats.MeanCoverage, 1e-9)
	assert.Equal(t, map[string]int{"unexpected_command": 2}, stats.ByErrorKind)
}

func TestRunRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := db.Runs()
	ctx := context.Background()

	run := testRun("A", time.Now())
	require.NoError(t, repo.Create(ctx, run, testEvents()))
	require.NoError(t, repo.Delete(ctx, run.ID))

	_, err := repo.Get(ctx, run.ID)
	assert.True(t, errors.Is(err, ErrRunNotFound))
	events, err := repo.Events(ctx, run.ID, "")
	require.NoError(t, err)
	assert.Empty(t, events)

	assert.True(t, errors.Is(repo.Delete(ctx, run.ID), ErrRunNotFound))
}

func TestStatsEmpty(t *testing.T) {
	db := setupTestDB(t)
	stats, err := db.Runs().Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Runs)
	assert.Zero(t, stats.MeanCoverage)
	assert.Empty(t, stats.ByErrorKind)
}
