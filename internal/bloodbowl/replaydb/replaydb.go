// Package replaydb loads the command stream and rosters stored in a Blood
// Bowl replay database, either a bare SQLite file or a .bbrz archive.
package replaydb

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

// ErrNoDatabase is returned when a .bbrz archive holds no database.
var ErrNoDatabase = errors.New("archive holds no replay database")

// Replay is the decoded content of a replay database.
type Replay struct {
	Path     string
	Home     *team.Team
	Away     *team.Team
	Rows     []commands.Row
	Commands []commands.Command
}

// Load reads a replay from a .db file or a .bbrz archive.
func Load(ctx context.Context, path string) (*Replay, error) {
	dbPath := path
	if strings.EqualFold(filepath.Ext(path), ".bbrz") {
		extracted, err := extract(path)
		if err != nil {
			return nil, err
		}
		defer os.Remove(extracted)
		dbPath = extracted
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open replay %s: %w", path, err)
	}
	defer db.Close()

	home, away, err := readTeams(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("read rosters from %s: %w", path, err)
	}
	rows, err := readRows(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("read commands from %s: %w", path, err)
	}
	cmds, err := commands.DecodeAll(rows)
	if err != nil {
		return nil, fmt.Errorf("decode commands from %s: %w", path, err)
	}

	return &Replay{Path: path, Home: home, Away: away, Rows: rows, Commands: cmds}, nil
}

func readTeams(ctx context.Context, db *sql.DB) (*team.Team, *team.Team, error) {
	rows, err := db.QueryContext(ctx, `SELECT TeamType, Data FROM Replay_Teams ORDER BY TeamType`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var teams [2]*team.Team
	for rows.Next() {
		var index int
		var data string
		if err := rows.Scan(&index, &data); err != nil {
			return nil, nil, err
		}
		t, ok := rules.TeamTypeFromIndex(index)
		if !ok || t == rules.Hotseat {
			return nil, nil, fmt.Errorf("invalid team type %d", index)
		}
		if teams[t], err = team.DecodeRoster(t, []byte(data)); err != nil {
			return nil, nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if teams[rules.Home] == nil || teams[rules.Away] == nil {
		return nil, nil, fmt.Errorf("replay needs both rosters")
	}
	return teams[rules.Home], teams[rules.Away], nil
}

func readRows(ctx context.Context, db *sql.DB) ([]commands.Row, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT ID, Turn, PlayerIndex, CommandType, CommandData
		FROM Replay_NetCommands
		ORDER BY ID
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []commands.Row
	for rows.Next() {
		var row commands.Row
		var blob []byte
		if err := rows.Scan(&row.ID, &row.Turn, &row.PlayerIndex, &row.Type, &blob); err != nil {
			return nil, err
		}
		if row.Data, err = unpack(blob); err != nil {
			return nil, fmt.Errorf("command %d: %w", row.ID, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// unpack splits a command payload into little-endian int32 values.
func unpack(blob []byte) ([]int32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("payload of %d bytes is not a whole number of values", len(blob))
	}
	data := make([]int32, len(blob)/4)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

// extract copies the database out of a .bbrz archive into a temporary file
// the caller removes.
func extract(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", path, err)
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if entry == nil || strings.EqualFold(filepath.Ext(f.Name), ".db") {
			entry = f
		}
	}
	if entry == nil {
		return "", fmt.Errorf("%s: %w", path, ErrNoDatabase)
	}

	src, err := entry.Open()
	if err != nil {
		return "", fmt.Errorf("open %s in %s: %w", entry.Name, path, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "bbreplay-*.db")
	if err != nil {
		return "", fmt.Errorf("create temp database: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	return dst.Name(), nil
}
