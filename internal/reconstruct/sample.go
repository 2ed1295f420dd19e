package reconstruct

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replaydb"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replayfinder"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

func sampleTeam(name, abbreviation, race string, side rules.TeamType) (*team.Team, error) {
	return team.New(name, abbreviation, race, side, 3, true, []*team.Player{
		{Number: 1, Name: "Lineman", MA: 6, ST: 3, AG: 3, AV: 8},
		{Number: 2, Name: "Blitzer", MA: 7, ST: 3, AG: 3, AV: 8, Skills: []rules.Skill{rules.Block}},
	})
}

// WriteSample writes a short replay pair to dir: a coin toss, one kick-off
// and an abandon. It gives the tools something to run against without a
// game install.
func WriteSample(ctx context.Context, dir, name string) (replayfinder.Pair, error) {
	home, err := sampleTeam("Reikland Reavers", "REI", "Human", rules.Home)
	if err != nil {
		return replayfinder.Pair{}, err
	}
	away, err := sampleTeam("Gouged Eye", "GOU", "Orc", rules.Away)
	if err != nil {
		return replayfinder.Pair{}, err
	}

	rows := []commands.Row{
		{ID: 1, PlayerIndex: 1, Type: commands.TypeCoinToss, Data: []int32{int32(rules.Heads)}},
		{ID: 2, PlayerIndex: 0, Type: commands.TypeNetwork},
		{ID: 3, PlayerIndex: 1, Type: commands.TypeRole, Data: []int32{int32(rules.RoleReceive)}},
		{ID: 4, PlayerIndex: 0, Type: commands.TypeSetup, Data: []int32{0, 0, 7, 20}},
		{ID: 5, PlayerIndex: 0, Type: commands.TypeSetupComplete, Data: []int32{0}},
		{ID: 6, PlayerIndex: 1, Type: commands.TypeSetup, Data: []int32{1, 0, 7, 5}},
		{ID: 7, PlayerIndex: 1, Type: commands.TypeSetupComplete, Data: []int32{1}},
		{ID: 8, PlayerIndex: 0, Type: commands.TypeKickoff, Data: []int32{7, 6}},
		{ID: 9, PlayerIndex: 1, Type: commands.TypeAbandonMatch, Data: []int32{1}},
	}

	batches := []logreader.Batch{
		{Scope: logreader.TossScope, Entries: []logreader.Entry{
			&logreader.MatchEntry{HomeName: home.Name, HomeAbbr: home.Abbreviation, AwayName: away.Name, AwayAbbr: away.Abbreviation},
		}},
		{Entries: []logreader.Entry{
			&logreader.CoinTossEntry{Team: rules.Away, Choice: rules.Heads},
			&logreader.RoleEntry{Team: rules.Away, Role: rules.RoleReceive},
		}},
		{Entries: []logreader.Entry{&logreader.WeatherEntry{Weather: rules.Nice}}},
		{Entries: []logreader.Entry{
			&logreader.KickDirectionEntry{Direction: pitch.North},
			&logreader.KickDistanceEntry{Distance: 1},
			&logreader.KickoffEventEntry{Roll: 2, Event: rules.GetTheRef},
		}},
		{Entries: []logreader.Entry{&logreader.BounceEntry{Direction: pitch.East}}},
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return replayfinder.Pair{}, fmt.Errorf("create sample directory: %w", err)
	}
	pair := replayfinder.Pair{
		Name:   name,
		Replay: filepath.Join(dir, name+".db"),
		Log:    filepath.Join(dir, name+".log"),
	}

	f, err := os.Create(pair.Log)
	if err != nil {
		return replayfinder.Pair{}, fmt.Errorf("create sample log: %w", err)
	}
	if err := logreader.Format(f, batches); err != nil {
		f.Close()
		return replayfinder.Pair{}, fmt.Errorf("write sample log: %w", err)
	}
	if err := f.Close(); err != nil {
		return replayfinder.Pair{}, fmt.Errorf("write sample log: %w", err)
	}

	if err := os.Remove(pair.Replay); err != nil && !os.IsNotExist(err) {
		return replayfinder.Pair{}, fmt.Errorf("replace sample replay: %w", err)
	}
	if err := replaydb.Write(ctx, pair.Replay, home, away, rows); err != nil {
		return replayfinder.Pair{}, err
	}
	return pair, nil
}
