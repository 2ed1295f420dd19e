package replaydb

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

const schema = `
	CREATE TABLE Replay_Teams (TeamType INTEGER, Data TEXT);
	CREATE TABLE Replay_NetCommands (
		ID INTEGER PRIMARY KEY,
		Turn INTEGER,
		PlayerIndex INTEGER,
		CommandType INTEGER,
		CommandData BLOB
	);
`

// Write creates a replay database holding the rosters and command rows. It
// is the inverse of Load and builds fixtures for tests and the sample tools.
func Write(ctx context.Context, path string, home, away *team.Team, rows []commands.Row) error {
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return fmt.Errorf("create replay %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create replay schema: %w", err)
	}

	for _, t := range []*team.Team{home, away} {
		data, err := team.EncodeRoster(t)
		if err != nil {
			return err
		}
		index := 0
		if t.Type == rules.Away {
			index = 1
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO Replay_Teams (TeamType, Data) VALUES (?, ?)`, index, string(data)); err != nil {
			return fmt.Errorf("insert roster %s: %w", t.Name, err)
		}
	}

	for _, row := range rows {
		_, err := db.ExecContext(ctx,
			`INSERT INTO Replay_NetCommands (ID, Turn, PlayerIndex, CommandType, CommandData) VALUES (?, ?, ?, ?, ?)`,
			row.ID, row.Turn, row.PlayerIndex, row.Type, pack(row.Data))
		if err != nil {
			return fmt.Errorf("insert command %d: %w", row.ID, err)
		}
	}
	return nil
}

func pack(data []int32) []byte {
	blob := make([]byte, 0, 4*len(data))
	for _, v := range data {
		blob = binary.LittleEndian.AppendUint32(blob, uint32(v))
	}
	return blob
}
