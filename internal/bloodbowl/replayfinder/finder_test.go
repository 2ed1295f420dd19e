package replayfinder

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"Match_B.bbrz", "Match_B.txt", "Match_B.log",
		"Match_A.db", "Match_A.bbrz", "Match_A.log",
		"Match_C.bbrz",
		"orphan.log", "notes.md",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Match_D.db"), 0o755))

	pairs, err := List(dir)
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	tests := []struct {
		name     string
		replay   string
		log      string
		complete bool
	}{
		{name: "Match_A", replay: "Match_A.bbrz", log: "Match_A.log", complete: true},
		{name: "Match_B", replay: "Match_B.bbrz", log: "Match_B.log", complete: true},
		{name: "Match_C", replay: "Match_C.bbrz", log: "", complete: false},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pairs[i]
			assert.Equal(t, tt.name, p.Name)
			assert.Equal(t, filepath.Join(dir, tt.replay), p.Replay)
			if tt.log == "" {
				assert.Empty(t, p.Log)
			} else {
				assert.Equal(t, filepath.Join(dir, tt.log), p.Log)
			}
			assert.Equal(t, tt.complete, p.Complete())
		})
	}
}

func TestListMissingDir(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Match_A.db", "Match_A.log")

	p, err := Find(dir, "Match_A")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Match_A.db"), p.Replay)

	_, err = Find(dir, "Match_Z")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCopyNew(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "work")
	touch(t, src, "Match_A.bbrz", "Match_A.log", "Match_C.bbrz")

	copied, err := CopyNew(src, dst)
	require.NoError(t, err)
	require.Len(t, copied, 1)
	assert.Equal(t, filepath.Join(dst, "Match_A.bbrz"), copied[0].Replay)
	data, err := os.ReadFile(copied[0].Log)
	require.NoError(t, err)
	assert.Equal(t, "Match_A.log", string(data))

	again, err := CopyNew(src, dst)
	require.NoError(t, err)
	assert.Empty(t, again)

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "file")

	ok, err := DirExists(dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = DirExists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = DirExists(filepath.Join(dir, "file"))
	assert.Error(t, err)
}

func TestNewWatcherRequiresDirs(t *testing.T) {
	_, err := NewWatcher(WatcherConfig{Source: t.TempDir()})
	assert.Error(t, err)
}

func TestWatcherCopiesNewReplays(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	touch(t, src, "Match_A.db", "Match_A.log")

	found := make(chan Pair, 4)
	w, err := NewWatcher(WatcherConfig{
		Source:      src,
		Destination: dst,
		Interval:    20 * time.Millisecond,
		OnReplay:    func(p Pair) { found <- p },
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	select {
	case p := <-found:
		assert.Equal(t, "Match_A", p.Name)
	case <-ctx.Done():
		t.Fatal("existing replay was not copied")
	}

	touch(t, src, "Match_B.log", "Match_B.db")
	select {
	case p := <-found:
		assert.Equal(t, "Match_B", p.Name)
	case <-ctx.Done():
		t.Fatal("new replay was not copied")
	}

	w.Stop()
	w.Stop()
	assert.NoError(t, <-done)
}
