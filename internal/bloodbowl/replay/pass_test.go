package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

func passRoll(p *team.Player, action rules.ActionType, result rules.ThrowResult) *logreader.ThrowEntry {
	return &logreader.ThrowEntry{Actor: logActor(p), Action: action, Stat: "AG", Required: 3, Roll: 4, Result: result}
}

// firstEvent returns the first event of type T.
func firstEvent[T Event](t *testing.T, events []Event) T {
	t.Helper()
	for _, e := range events {
		if v, ok := e.(T); ok {
			return v
		}
	}
	var zero T
	require.FailNowf(t, "event not emitted", "no %T in %v", zero, eventTypes(events))
	return zero
}

func TestPassRerolls(t *testing.T) {
	tests := []struct {
		name        string
		skills      []rules.Skill
		cmds        func(thrower *team.Player) []commands.Command
		log         func(thrower, catcher *team.Player) []logreader.Entry
		wantTypes   []EventType
		wantKind    RerollKind
		wantCaught  bool
		wantRerolls int
	}{
		{
			name:   "fumble rerolled with Pass",
			skills: []rules.Skill{rules.Pass},
			log: func(thrower, catcher *team.Player) []logreader.Entry {
				return []logreader.Entry{
					passRoll(thrower, rules.ActionPass, rules.Fumble),
					&logreader.SkillEntry{Actor: logActor(thrower), Skill: rules.Pass},
					passRoll(thrower, rules.ActionPass, rules.AccuratePass),
					roll(catcher, rules.ActionCatch, rules.Success),
				}
			},
			wantTypes:   []EventType{EventPass, EventReroll, EventPass, EventAction},
			wantKind:    RerollSkill,
			wantCaught:  true,
			wantRerolls: 3,
		},
		{
			name: "fumble rerolled with a team reroll",
			cmds: func(*team.Player) []commands.Command {
				return []commands.Command{&commands.Reroll{Team: rules.Home}}
			},
			log: func(thrower, catcher *team.Player) []logreader.Entry {
				return []logreader.Entry{
					passRoll(thrower, rules.ActionPass, rules.Fumble),
					&logreader.RerollEntry{Team: rules.Home},
					passRoll(thrower, rules.ActionPass, rules.AccuratePass),
					roll(catcher, rules.ActionCatch, rules.Success),
				}
			},
			wantTypes:   []EventType{EventPass, EventReroll, EventPass, EventAction},
			wantKind:    RerollTeam,
			wantCaught:  true,
			wantRerolls: 2,
		},
		{
			name: "fumble kept bounces and ends the turn",
			cmds: func(*team.Player) []commands.Command {
				return []commands.Command{&commands.DeclineReroll{Team: rules.Home}}
			},
			log: func(thrower, _ *team.Player) []logreader.Entry {
				return []logreader.Entry{
					passRoll(thrower, rules.ActionPass, rules.Fumble),
					&logreader.BounceEntry{Direction: pitch.North},
					&logreader.TurnoverEntry{Team: rules.Home, Reason: "Fumble!"},
				}
			},
			wantTypes:   []EventType{EventPass, EventBounce, EventEndTurn},
			wantRerolls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, away := newTeam(t, rules.Home, tt.skills), newTeam(t, rules.Away)
			h1, h2 := player(t, home, 0), player(t, home, 1)

			cmds := []commands.Command{&commands.Throw{Actor: cmdActor(h1), Target: at(7, 11)}}
			if tt.cmds != nil {
				cmds = append(cmds, tt.cmds(h1)...)
			}
			r := New(home, away, cmds, batches(tt.log(h1, h2)), Options{Validate: true})
			place(t, r, h1, at(7, 7))
			place(t, r, h2, at(7, 11))
			r.board.SetCarrier(h1)
			r.board.ResetRerolls()

			events, err := collect(r, r.action)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTypes, eventTypes(events))
			assert.Equal(t, tt.wantRerolls, r.board.Rerolls(rules.Home))
			if tt.wantKind != 0 {
				assert.Equal(t, tt.wantKind, firstEvent[*Reroll](t, events).Kind)
			}
			if tt.wantCaught {
				assert.Equal(t, h2, r.board.Carrier())
				assert.Equal(t, rules.AccuratePass, events[2].(*Pass).Result)
				assert.Equal(t, rules.Home, r.board.ActiveTeam())
			} else {
				assert.Nil(t, r.board.Carrier())
				assert.Equal(t, at(7, 8), r.board.BallPosition())
				assert.Equal(t, rules.Away, r.board.ActiveTeam())
			}
			cmdsLeft, entriesLeft := r.Remaining()
			assert.Zero(t, cmdsLeft)
			assert.Zero(t, entriesLeft)
		})
	}
}

func TestPassIntercepted(t *testing.T) {
	home, away := newTeam(t, rules.Home), newTeam(t, rules.Away)
	h1, h2, a1 := player(t, home, 0), player(t, home, 1), player(t, away, 0)

	cmds := []commands.Command{
		&commands.Throw{Actor: cmdActor(h1), Target: at(7, 11)},
		&commands.Intercept{Actor: cmdActor(a1)},
	}
	log := batches([]logreader.Entry{
		roll(a1, rules.ActionCatch, rules.Success),
		&logreader.TurnoverEntry{Team: rules.Home, Reason: "Pass intercepted!"},
	})
	r := New(home, away, cmds, log, Options{Validate: true})
	place(t, r, h1, at(7, 7))
	place(t, r, a1, at(7, 9))
	place(t, r, h2, at(7, 11))
	r.board.SetCarrier(h1)

	events, err := collect(r, r.action)
	require.NoError(t, err)
	require.Equal(t, []EventType{EventAction, EventInterception, EventEndTurn}, eventTypes(events))

	interception := events[1].(*Interception)
	assert.Equal(t, a1, interception.Player)
	assert.Equal(t, rules.Success, interception.Result)
	assert.Equal(t, "Pass intercepted!", events[2].(*EndTurn).Reason)
	assert.Equal(t, a1, r.board.Carrier())
	assert.Equal(t, rules.Away, r.board.ActiveTeam())
}

func TestThrowTeammate(t *testing.T) {
	tests := []struct {
		name       string
		target     pitch.Position
		log        func(thrower, thrown *team.Player) []logreader.Entry
		wantTypes  []EventType
		wantPos    pitch.Position
		wantProne  bool
		wantInjury rules.InjuryResult
	}{
		{
			name:   "failed landing",
			target: at(7, 12),
			log: func(thrower, thrown *team.Player) []logreader.Entry {
				return []logreader.Entry{
					passRoll(thrower, rules.ActionThrowTeamMate, rules.AccuratePass),
					&logreader.ScatterEntry{Direction: pitch.North},
					&logreader.ScatterEntry{Direction: pitch.North},
					&logreader.ScatterEntry{Direction: pitch.East},
					roll(thrown, rules.ActionLanding, rules.Failure),
					roll(thrown, rules.ActionArmour, rules.Failure),
				}
			},
			wantTypes: []EventType{
				EventThrowTeammate, EventScatter, EventScatter, EventScatter,
				EventLanding, EventPlayerDown, EventArmourRoll,
			},
			wantPos:   at(8, 14),
			wantProne: true,
		},
		{
			name:   "thrown into the crowd",
			target: at(1, 12),
			log: func(thrower, thrown *team.Player) []logreader.Entry {
				return []logreader.Entry{
					passRoll(thrower, rules.ActionThrowTeamMate, rules.InaccuratePass),
					&logreader.ScatterEntry{Direction: pitch.West},
					&logreader.ScatterEntry{Direction: pitch.West},
					&logreader.InjuryEntry{Actor: logActor(thrown), Roll: 8, Result: rules.KO},
				}
			},
			wantTypes:  []EventType{EventThrowTeammate, EventScatter, EventScatter, EventLanding, EventInjuryRoll},
			wantPos:    pitch.OffPitch,
			wantInjury: rules.KO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := newTeam(t, rules.Home, []rules.Skill{rules.ThrowTeamMate}, []rules.Skill{rules.RightStuff})
			away := newTeam(t, rules.Away)
			h1, h2 := player(t, home, 0), player(t, home, 1)

			cmds := []commands.Command{
				&commands.TargetPlayer{Actor: cmdActor(h1), Target: at(7, 9)},
				&commands.Throw{Actor: cmdActor(h1), Target: tt.target},
			}
			r := New(home, away, cmds, batches(tt.log(h1, h2)), Options{Validate: true})
			place(t, r, h1, at(7, 10))
			place(t, r, h2, at(7, 9))

			events, err := collect(r, r.action)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTypes, eventTypes(events))
			assert.Equal(t, tt.wantPos, h2.Position)
			assert.Equal(t, tt.wantProne, r.board.IsProne(h2))
			assert.Equal(t, tt.wantInjury, r.board.Injury(h2))

			landing := firstEvent[*Landing](t, events)
			assert.Equal(t, rules.Failure, landing.Result)
			assert.Equal(t, rules.Home, r.board.ActiveTeam())
		})
	}
}

func TestSpellKnocksDownCarrierBeforeBounce(t *testing.T) {
	home, away := newTeam(t, rules.Home), newTeam(t, rules.Away)
	a1, a2 := player(t, away, 0), player(t, away, 1)

	cmds := []commands.Command{
		&commands.Spell{Team: rules.Home, Spell: rules.Fireball, Target: at(7, 7)},
	}
	log := batches([]logreader.Entry{
		&logreader.SpellEntry{Team: rules.Home, Spell: rules.Fireball},
		roll(a1, rules.ActionFireball, rules.Success),
		roll(a1, rules.ActionArmour, rules.Failure),
		roll(a2, rules.ActionFireball, rules.Failure),
		&logreader.BounceEntry{Direction: pitch.North},
	})
	r := New(home, away, cmds, log, Options{Validate: true})
	place(t, r, a1, at(7, 7))
	place(t, r, a2, at(8, 7))
	r.board.SetCarrier(a1)

	events, err := collect(r, r.action)
	require.NoError(t, err)
	require.Equal(t, []EventType{
		EventSpell, EventAction, EventPlayerDown, EventArmourRoll, EventAction, EventBounce,
	}, eventTypes(events))

	bounce := events[5].(*Bounce)
	assert.Equal(t, at(7, 7), bounce.From)
	assert.Equal(t, at(7, 8), bounce.To)
	assert.Nil(t, r.board.Carrier())
	assert.Equal(t, at(7, 8), r.board.BallPosition())
	assert.True(t, r.board.IsProne(a1))
	assert.False(t, r.board.IsProne(a2))
	assert.Equal(t, rules.Home, r.board.ActiveTeam())
}
