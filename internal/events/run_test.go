package events

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
	"github.com/IBBoard/bbreplay-sub000/internal/storage"
)

func newTeam(t *testing.T, side rules.TeamType) *team.Team {
	t.Helper()
	players := []*team.Player{
		{Number: 1, Name: "Lineman", MA: 6, ST: 3, AG: 3, AV: 8},
		{Number: 2, Name: "Blitzer", MA: 7, ST: 3, AG: 3, AV: 8},
	}
	tm, err := team.New(side.String()+" Team", side.String()[:3], "Human", side, 3, true, players)
	require.NoError(t, err)
	return tm
}

// shortMatch is a toss, one kick-off and an abandon. truncate drops the
// abandon so the driver runs out of commands.
func shortMatch(t *testing.T, truncate bool) *replay.Replay {
	t.Helper()
	home, away := newTeam(t, rules.Home), newTeam(t, rules.Away)

	cmds := []commands.Command{
		&commands.CoinToss{Meta: commands.Meta{ID: 1, Issuer: rules.Away}, Choice: rules.Heads},
		&commands.Role{Meta: commands.Meta{ID: 2, Issuer: rules.Away}, Choice: rules.RoleReceive},
		&commands.Setup{Meta: commands.Meta{ID: 3}, Actor: commands.Actor{Team: rules.Home}, Target: pitch.Position{X: 7, Y: 20}},
		&commands.SetupComplete{Meta: commands.Meta{ID: 4}, Team: rules.Home},
		&commands.Setup{Meta: commands.Meta{ID: 5}, Actor: commands.Actor{Team: rules.Away}, Target: pitch.Position{X: 7, Y: 5}},
		&commands.SetupComplete{Meta: commands.Meta{ID: 6}, Team: rules.Away},
		&commands.Kickoff{Meta: commands.Meta{ID: 7}, Target: pitch.Position{X: 7, Y: 6}},
		&commands.AbandonMatch{Meta: commands.Meta{ID: 8}, Team: rules.Away},
	}
	if truncate {
		cmds = cmds[:len(cmds)-1]
	}

	batches := []logreader.Batch{
		{Entries: []logreader.Entry{
			&logreader.MatchEntry{HomeName: home.Name, HomeAbbr: "HOM", AwayName: away.Name, AwayAbbr: "AWA"},
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

	return replay.New(home, away, cmds, batches, replay.Options{Validate: true})
}

func TestCollect(t *testing.T) {
	events, err := Collect(shortMatch(t, false))
	require.NoError(t, err)
	require.Len(t, events, 11)
	assert.Equal(t, replay.EventCoinToss, events[0].Type())
	assert.Equal(t, replay.EventAbandonMatch, events[10].Type())

	events, err = Collect(shortMatch(t, true))
	require.Error(t, err)
	assert.Len(t, events, 10)
}

func TestPlayPrintsEveryEvent(t *testing.T) {
	var out bytes.Buffer
	d := NewEventDispatcher()
	d.Register(NewPrinterObserver(&out))

	summary := Play(context.Background(), "Match_A", shortMatch(t, false), d)

	require.NoError(t, summary.Err)
	assert.True(t, summary.Completed)
	assert.Equal(t, 11, summary.Events)
	assert.Equal(t, "HOME Team", summary.HomeTeam)
	assert.Equal(t, 8, summary.CommandsTotal)
	assert.Zero(t, summary.CommandsRemaining)
	assert.Empty(t, summary.ErrorKind)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "[H1 T01] AWAY called Heads, coin landed Heads; AWAY chose to Receive", lines[0])
	assert.Equal(t, "[H1 T01] Weather: Nice", lines[1])
	assert.Equal(t, "[H1 T01] AWAY abandoned the match", lines[10])
}

func TestPlayReportsFailure(t *testing.T) {
	d := NewEventDispatcher()
	finished := &recordingObserver{name: "finished", filter: IsLifecycle}
	d.Register(finished)

	summary := Play(context.Background(), "Match_B", shortMatch(t, true), d)

	require.Error(t, summary.Err)
	assert.False(t, summary.Completed)
	assert.Equal(t, 10, summary.Events)
	assert.NotEmpty(t, summary.ErrorKind)
	assert.Equal(t, summary.Err.Error(), summary.Error)
	assert.Equal(t, []string{TypeRunStarted, TypeRunFinished}, finished.events())
}

func TestPlayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewEventDispatcher()
	d.Register(&cancelObserver{cancel: cancel})

	summary := Play(ctx, "Match_C", shortMatch(t, false), d)

	assert.ErrorIs(t, summary.Err, context.Canceled)
	assert.Equal(t, 1, summary.Events)
	assert.False(t, summary.Completed)
}

type cancelObserver struct {
	cancel context.CancelFunc
}

func (o *cancelObserver) OnEvent(Event) error       { o.cancel(); return nil }
func (o *cancelObserver) GetName() string           { return "cancel" }
func (o *cancelObserver) ShouldHandle(t string) bool { return !IsLifecycle(t) }

func TestMapObserverDrawsBoardChanges(t *testing.T) {
	var out bytes.Buffer
	d := NewEventDispatcher()
	d.Register(NewMapObserver(&out))

	Play(context.Background(), "Match_A", shortMatch(t, false), d)

	text := out.String()
	// Two setups, the kick and the bounce.
	assert.Equal(t, 4, strings.Count(text, "half 1 turn"))
	assert.Contains(t, text, "Ball bounced")
	assert.NotContains(t, text, "Weather")
}

func TestRenderPitch(t *testing.T) {
	r := shortMatch(t, false)
	_, err := Collect(r)
	require.NoError(t, err)

	rows := strings.Split(strings.TrimSpace(RenderPitch(r.Board())), "\n")
	require.Len(t, rows, pitch.Length+3)

	row := func(y int) string { return rows[1+pitch.Length-1-y] }
	assert.Equal(t, "|"+strings.Repeat("==", pitch.Width)+"|", row(pitch.Length-1))
	assert.Equal(t, 'H', rune(row(20)[1+2*7]))
	assert.Equal(t, 'A', rune(row(5)[1+2*7]))
	assert.Equal(t, '*', rune(row(7)[1+2*8]))
	assert.Equal(t, "HOM 0 - 0 AWA  half 1 turn 1", rows[len(rows)-1])
}

func TestRecorderStoresRun(t *testing.T) {
	config := storage.DefaultConfig(filepath.Join(t.TempDir(), "results.db"))
	config.AutoMigrate = true
	db, err := storage.Open(config)
	require.NoError(t, err)
	defer db.Close()

	recorder := NewRecorderObserver(db.Runs())
	d := NewEventDispatcher()
	d.Register(recorder)

	ctx := context.Background()
	summary := Play(ctx, "Match_A", shortMatch(t, false), d)
	require.NoError(t, summary.Err)
	require.NotEmpty(t, recorder.LastRunID())

	run, err := db.Runs().Get(ctx, recorder.LastRunID())
	require.NoError(t, err)
	assert.Equal(t, "Match_A", run.Replay)
	assert.True(t, run.Completed)
	assert.Equal(t, 11, run.Events)
	assert.InDelta(t, 1.0, run.Coverage(), 1e-9)

	stored, err := db.Runs().Events(ctx, run.ID, "")
	require.NoError(t, err)
	require.Len(t, stored, 11)
	assert.Equal(t, "CoinToss", stored[0].Type)
	assert.JSONEq(t, `{"toss_team":"AWAY","choice":"Heads","result":"Heads","role_team":"AWAY","role":"Receive"}`, string(stored[0].Payload))

	bounces, err := db.Runs().Events(ctx, run.ID, "Bounce")
	require.NoError(t, err)
	require.Len(t, bounces, 1)
	assert.Equal(t, 9, bounces[0].Seq)
}

func TestDescribeTurnEnds(t *testing.T) {
	tests := []struct {
		event replay.Event
		want  string
	}{
		{&replay.StartTurn{Team: rules.Away, Turn: 9}, "AWAY turn 9"},
		{&replay.EndTurn{Team: rules.Home, Turn: 3}, "HOME turn 3 ended"},
		{&replay.EndTurn{Team: rules.Home, Turn: 3, Reason: "Knocked Down!"}, "HOME turn 3 ended: Knocked Down!"},
		{&replay.OffTurnEnd{Team: rules.Away, Event: rules.Blitz}, "AWAY free move over (Blitz)"},
		{&replay.OffTurnEnd{Team: rules.Away, Event: rules.Blitz, Reason: "Pick-up failed!"}, "AWAY free move over (Blitz): Pick-up failed!"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.event))
		})
	}
}
