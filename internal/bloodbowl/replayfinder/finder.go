package replayfinder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// ErrNotFound is returned when a named replay is not in a directory.
var ErrNotFound = errors.New("replay not found")

// replayExts are the replay database formats, in preference order.
var replayExts = []string{".bbrz", ".db"}

// logExts are the text log formats, in preference order.
var logExts = []string{".log", ".txt"}

// Pair is a replay database and the text log written alongside it.
type Pair struct {
	Name     string    `json:"name"`
	Replay   string    `json:"replay"`
	Log      string    `json:"log"`
	Modified time.Time `json:"modified"`
}

// Complete reports whether both halves of the pair were found.
func (p Pair) Complete() bool {
	return p.Replay != "" && p.Log != ""
}

// List returns the replays in dir sorted by name. Replays without a log are
// included with an empty Log so callers can report them.
func List(dir string) ([]Pair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read replay directory: %w", err)
	}

	pairs := make(map[string]*Pair)
	get := func(name string) *Pair {
		p, ok := pairs[name]
		if !ok {
			p = &Pair{Name: name}
			pairs[name] = p
		}
		return p
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		path := filepath.Join(dir, entry.Name())

		switch {
		case slices.Contains(replayExts, ext):
			p := get(name)
			if p.Replay == "" || preferred(replayExts, ext, p.Replay) {
				p.Replay = path
				if info, err := entry.Info(); err == nil {
					p.Modified = info.ModTime()
				}
			}
		case slices.Contains(logExts, ext):
			p := get(name)
			if p.Log == "" || preferred(logExts, ext, p.Log) {
				p.Log = path
			}
		}
	}

	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.Replay == "" {
			continue
		}
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b Pair) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Find returns the named replay from dir.
func Find(dir, name string) (Pair, error) {
	pairs, err := List(dir)
	if err != nil {
		return Pair{}, err
	}
	for _, p := range pairs {
		if p.Name == name {
			return p, nil
		}
	}
	return Pair{}, fmt.Errorf("find %q in %s: %w", name, dir, ErrNotFound)
}

func preferred(order []string, ext, current string) bool {
	return slices.Index(order, ext) < slices.Index(order, strings.ToLower(filepath.Ext(current)))
}

// CopyNew copies every complete pair in src that dst does not already hold.
// It returns the pairs as they sit in dst.
func CopyNew(src, dst string) ([]Pair, error) {
	pairs, err := List(src)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}

	var copied []Pair
	for _, p := range pairs {
		if !p.Complete() {
			continue
		}
		replay := filepath.Join(dst, filepath.Base(p.Replay))
		if _, err := os.Stat(replay); err == nil {
			continue
		}
		logPath := filepath.Join(dst, filepath.Base(p.Log))
		if err := copyFile(p.Log, logPath); err != nil {
			return copied, err
		}
		// The replay goes last so a half-copied pair is never listed.
		if err := copyFile(p.Replay, replay); err != nil {
			return copied, err
		}
		copied = append(copied, Pair{Name: p.Name, Replay: replay, Log: logPath, Modified: p.Modified})
	}
	return copied, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp) //nolint:errcheck // Ignore error on cleanup
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
