package replay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

func TestBlockSkills(t *testing.T) {
	tests := []struct {
		name        string
		homeSkills  []rules.Skill
		awaySkills  []rules.Skill
		blitz       bool
		die         rules.BlockDie
		extra       []commands.Command
		wantTypes   []EventType
		wantSkill   rules.Skill
		wantBlocker pitch.Position
		wantTarget  pitch.Position
		wantErr     error
	}{
		{
			name:       "juggernaut turns both down into a push",
			homeSkills: []rules.Skill{rules.Juggernaut},
			awaySkills: []rules.Skill{rules.Fend},
			blitz:      true,
			die:        rules.BothDown,
			extra: []commands.Command{
				&commands.JuggernautChoice{Use: true},
				&commands.Pushback{Target: at(9, 8)},
				&commands.FollowUpChoice{FollowUp: true},
			},
			wantTypes:   []EventType{EventBlitz, EventMovement, EventBlock, EventSkill, EventPushback, EventFollowUp},
			wantSkill:   rules.Juggernaut,
			wantBlocker: at(8, 7),
			wantTarget:  at(9, 8),
		},
		{
			name:       "fend stops the follow up",
			awaySkills: []rules.Skill{rules.Fend},
			die:        rules.Pushed,
			extra: []commands.Command{
				&commands.Pushback{Target: at(9, 7)},
				&commands.FollowUpChoice{FollowUp: true},
			},
			wantTypes:   []EventType{EventBlock, EventPushback, EventSkill},
			wantSkill:   rules.Fend,
			wantBlocker: at(7, 7),
			wantTarget:  at(9, 7),
		},
		{
			name:       "side step to a chosen square",
			awaySkills: []rules.Skill{rules.SideStep},
			die:        rules.Pushed,
			extra: []commands.Command{
				&commands.SideStep{Use: true},
				&commands.Pushback{Target: at(8, 8)},
				&commands.FollowUpChoice{},
			},
			wantTypes:   []EventType{EventBlock, EventSkill, EventPushback},
			wantSkill:   rules.SideStep,
			wantBlocker: at(7, 7),
			wantTarget:  at(8, 8),
		},
		{
			name:       "side step out of reach",
			awaySkills: []rules.Skill{rules.SideStep},
			die:        rules.Pushed,
			extra: []commands.Command{
				&commands.SideStep{Use: true},
				&commands.Pushback{Target: at(10, 7)},
			},
			wantErr: ErrInputMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, away := newTeam(t, rules.Home, tt.homeSkills), newTeam(t, rules.Away, tt.awaySkills)
			h1, a1 := player(t, home, 0), player(t, away, 0)

			cmds := []commands.Command{&commands.TargetPlayer{Actor: cmdActor(h1), Target: at(8, 7)}}
			start := at(7, 7)
			if tt.blitz {
				start = at(6, 7)
				cmds = append(cmds, &commands.EndMovement{Actor: cmdActor(h1), Target: at(7, 7)})
			}
			cmds = append(cmds, tt.extra...)
			log := batches([]logreader.Entry{
				&logreader.BlockEntry{Actor: logActor(h1), Dice: []rules.BlockDie{tt.die}},
			})
			r := New(home, away, cmds, log, Options{Validate: true})
			place(t, r, h1, start)
			place(t, r, a1, at(8, 7))

			events, err := collect(r, r.action)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTypes, eventTypes(events))
			assert.Equal(t, tt.wantSkill, firstEvent[*Skill](t, events).Skill)
			assert.Equal(t, tt.wantBlocker, h1.Position)
			assert.Equal(t, tt.wantTarget, a1.Position)
			assert.False(t, r.board.IsProne(h1))
			assert.False(t, r.board.IsProne(a1))

			cmdsLeft, _ := r.Remaining()
			assert.Zero(t, cmdsLeft)
		})
	}
}

func TestChainedPushback(t *testing.T) {
	home, away := newTeam(t, rules.Home), newTeam(t, rules.Away)
	h1 := player(t, home, 0)
	a1, a2, a3, a4 := player(t, away, 0), player(t, away, 1), player(t, away, 2), player(t, away, 3)

	cmds := []commands.Command{
		&commands.TargetPlayer{Actor: cmdActor(h1), Target: at(8, 7)},
		&commands.Pushback{Actor: cmdActor(h1), Target: at(9, 7)},
		&commands.Pushback{Actor: cmdActor(h1), Target: at(10, 7)},
		&commands.FollowUpChoice{Actor: cmdActor(h1), FollowUp: true},
	}
	log := batches([]logreader.Entry{
		&logreader.BlockEntry{Actor: logActor(h1), Dice: []rules.BlockDie{rules.Pushed}},
	})
	r := New(home, away, cmds, log, Options{Validate: true})
	place(t, r, h1, at(7, 7))
	place(t, r, a1, at(8, 7))
	place(t, r, a2, at(9, 7))
	place(t, r, a3, at(9, 6))
	place(t, r, a4, at(9, 8))

	events, err := collect(r, r.action)
	require.NoError(t, err)
	require.Equal(t, []EventType{EventBlock, EventPushback, EventPushback, EventFollowUp}, eventTypes(events))

	far := events[1].(*Pushback)
	assert.Equal(t, a1, far.Pusher)
	assert.Equal(t, a2, far.Player)
	assert.Equal(t, at(10, 7), far.To)
	near := events[2].(*Pushback)
	assert.Equal(t, h1, near.Pusher)
	assert.Equal(t, a1, near.Player)
	assert.Equal(t, at(9, 7), near.To)

	assert.Equal(t, at(8, 7), h1.Position)
	assert.Equal(t, at(9, 7), a1.Position)
	assert.Equal(t, at(10, 7), a2.Position)
	assert.Equal(t, at(9, 6), a3.Position)
	assert.Equal(t, at(9, 8), a4.Position)
}

func TestBlitzIntoDumpOff(t *testing.T) {
	home, away := newTeam(t, rules.Home), newTeam(t, rules.Away, []rules.Skill{rules.DumpOff})
	h1, a1, a2 := player(t, home, 0), player(t, away, 0), player(t, away, 1)

	cmds := []commands.Command{
		&commands.TargetPlayer{Actor: cmdActor(h1), Target: at(8, 7)},
		&commands.EndMovement{Actor: cmdActor(h1), Target: at(7, 7)},
		&commands.DumpOff{Actor: cmdActor(a1), Target: at(10, 7)},
		&commands.Pushback{Actor: cmdActor(h1), Target: at(9, 6)},
		&commands.FollowUpChoice{Actor: cmdActor(h1)},
	}
	log := batches([]logreader.Entry{
		roll(h1, rules.ActionGoingForIt, rules.Success),
		&logreader.SkillEntry{Actor: logActor(a1), Skill: rules.DumpOff},
		passRoll(a1, rules.ActionPass, rules.AccuratePass),
		roll(a2, rules.ActionCatch, rules.Success),
		roll(h1, rules.ActionGoingForIt, rules.Success),
		&logreader.BlockEntry{Actor: logActor(h1), Dice: []rules.BlockDie{rules.Pushed}},
	})
	r := New(home, away, cmds, log, Options{Validate: true})
	place(t, r, h1, at(6, 7))
	place(t, r, a1, at(8, 7))
	place(t, r, a2, at(10, 7))
	r.board.SetCarrier(a1)
	r.board.AddMoves(h1, h1.MA-1)

	events, err := collect(r, r.action)
	require.NoError(t, err)
	assert.Equal(t, []EventType{
		EventBlitz, EventMovement, EventAction, EventSkill, EventPass, EventAction, EventBlock, EventPushback,
	}, eventTypes(events))
	assert.Equal(t, rules.DumpOff, events[3].(*Skill).Skill)
	assert.Equal(t, a2, r.board.Carrier())
	assert.Equal(t, at(9, 6), a1.Position)
	assert.Equal(t, h1.MA+1, r.board.Moves(h1))
	assert.Equal(t, rules.Home, r.board.ActiveTeam())

	cmdsLeft, entriesLeft := r.Remaining()
	assert.Zero(t, cmdsLeft)
	assert.Zero(t, entriesLeft)
}
