package logreader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

const sampleLog = `Log opened
| +- Enter CStateMatchLoading
| +- Exit CStateMatchLoading
| +- Enter CStateMatchTossCreateResults
| +- Exit CStateMatchTossCreateResults
| | Team : 1
| | Result : 0
| +- Enter CStateMatchStart
| | GameLog(0): Reikland Reavers [REA] vs Grim Guard [GRI]
| +- Exit CStateMatchStart
| +- Enter CStateMatchCoinToss
| | GameLog(1): GRI choose Heads.
| | GameLog(2): GRI choose to Receive.
| +- Exit CStateMatchCoinToss
| +- Enter CStateMatchIdle
| +- Exit CStateMatchIdle
| +- Enter CStateMatchBlock
| | GameLog(3): REA #03 Ulf Grimson Block Result:
| | GameLog(4): Pushed, Defender Down
| | GameLog(5): GRI #07 Thrak Armour Value (9+) : 6 + 4 = 10 -> Success
| | GameLog(6): GRI #07 Thrak Injury : 5 + 4 = 9 -> Injured
| | GameLog(7): GRI suffer a TURNOVER! : Knocked Down!
| | GameLog(8): Bounce (D8) : 2
| | GameLog(9): GRI #07 Thrak Casualty : 41 -> Badly Hurt
| +- Exit CStateMatchBlock
| +- Enter CStateMatchSelectPushback
| | Contexts : Cinematic
| | GameLog(10): Bounce (D8) : 5
| +- Exit CStateMatchSelectPushback
| +- Enter CStateMatchWizardUseSpellTT
| | GameLog(11): REA Wizard casts Fireball!
| | GameLog(12): Bounce (D8) : 1
| | GameLog(13): GRI #05 Morg Fireball (4+) : 2 -> Failure
| +- Exit CStateMatchWizardUseSpellTT
| +- Enter CStateMatchMove
| | GameLog(14): GRI #09 Squid Tentacles
| | GameLog(15): REA #04 Lukas Tentacles Escape {ST} (4+) : 3 -> Failure
| | GameLog(16): REA #04 Lukas uses Side Step.
| | GameLog(17): REA use a Leader re-roll
| | GameLog(18): GRI #02 Orla Pass {AG} (3+) : 5 -> Accurate Pass!
| +- Exit CStateMatchMove
`

func TestTokenize(t *testing.T) {
	batches, err := Tokenize(strings.NewReader(sampleLog))
	require.NoError(t, err)
	require.Len(t, batches, 6)

	t.Run("toss record", func(t *testing.T) {
		assert.Equal(t, TossScope, batches[0].Scope)
		require.Len(t, batches[0].Entries, 1)
		assert.Equal(t, &TossEntry{Team: rules.Away, Result: rules.Heads}, batches[0].Entries[0])
	})

	t.Run("match names", func(t *testing.T) {
		require.Len(t, batches[1].Entries, 1)
		assert.Equal(t, &MatchEntry{HomeName: "Reikland Reavers", HomeAbbr: "REA", AwayName: "Grim Guard", AwayAbbr: "GRI"}, batches[1].Entries[0])
		assert.Equal(t, []Entry{
			&CoinTossEntry{Team: rules.Away, Choice: rules.Heads},
			&RoleEntry{Team: rules.Away, Role: rules.RoleReceive},
		}, batches[2].Entries)
	})

	t.Run("block reordering and cinematic merge", func(t *testing.T) {
		b := batches[3]
		assert.Equal(t, "Block", b.Scope)
		thrak := Actor{Team: rules.Away, Number: 7, Name: "Thrak"}
		assert.Equal(t, []Entry{
			&BlockEntry{Actor: Actor{Team: rules.Home, Number: 3, Name: "Ulf Grimson"}, Dice: []rules.BlockDie{rules.Pushed, rules.DefenderDown}},
			&ActionEntry{Actor: thrak, Action: rules.ActionArmour, Required: 9, Roll: 10, Result: rules.Success},
			&InjuryEntry{Actor: thrak, Roll: 9, Result: rules.Injured},
			&CasualtyEntry{Actor: thrak, Roll: 41, Result: rules.BadlyHurt},
			&BounceEntry{Direction: pitch.North},
			&BounceEntry{Direction: pitch.East},
			&TurnoverEntry{Team: rules.Away, Reason: "Knocked Down!"},
		}, b.Entries)
	})

	t.Run("spell bounces moved last", func(t *testing.T) {
		b := batches[4]
		assert.Equal(t, []Entry{
			&SpellEntry{Team: rules.Home, Spell: rules.Fireball},
			&ActionEntry{Actor: Actor{Team: rules.Away, Number: 5, Name: "Morg"}, Action: rules.ActionFireball, Required: 4, Roll: 2, Result: rules.Failure},
			&BounceEntry{Direction: pitch.NorthWest},
		}, b.Entries)
	})

	t.Run("partials and rolls", func(t *testing.T) {
		lukas := Actor{Team: rules.Home, Number: 4, Name: "Lukas"}
		assert.Equal(t, []Entry{
			&TentacledEntry{User: Actor{Team: rules.Away, Number: 9, Name: "Squid"}, Target: lukas, Required: 4, Roll: 3, Result: rules.Failure},
			&SkillEntry{Actor: lukas, Skill: rules.SideStep},
			&LeaderRerollEntry{Team: rules.Home},
			&ThrowEntry{Actor: Actor{Team: rules.Away, Number: 2, Name: "Orla"}, Action: rules.ActionPass, Stat: "AG", Required: 3, Roll: 5, Result: rules.AccuratePass},
		}, batches[5].Entries)
	})
}

func TestTokenizeErrors(t *testing.T) {
	header := "| +- Enter CStateMatchTossCreateResults\n| +- Exit CStateMatchTossCreateResults\n" +
		"| +- Enter CStateMatchStart\n| | GameLog(0): Home [HOM] vs Away [AWA]\n| +- Exit CStateMatchStart\n"

	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown entry",
			body: "| +- Enter CStateMatchMove\n| | GameLog(1): something the parser has never seen\n| +- Exit CStateMatchMove\n",
		},
		{
			name: "unknown team",
			body: "| +- Enter CStateMatchMove\n| | GameLog(1): XYZ use a re-roll\n| +- Exit CStateMatchMove\n",
		},
		{
			name: "block without dice",
			body: "| +- Enter CStateMatchBlock\n| | GameLog(1): HOM #01 Anna Block Result:\n| | GameLog(2): Bounce (D8) : 2\n| +- Exit CStateMatchBlock\n",
		},
		{
			name: "partial at scope end",
			body: "| +- Enter CStateMatchBlock\n| | GameLog(1): HOM #01 Anna Block Result:\n| +- Exit CStateMatchBlock\n",
		},
		{
			name: "dice without block",
			body: "| +- Enter CStateMatchBlock\n| | GameLog(1): Both Down\n| +- Exit CStateMatchBlock\n",
		},
		{
			name: "unterminated scope",
			body: "| +- Enter CStateMatchMove\n| | GameLog(1): HOM use a re-roll\n",
		},
		{
			name: "nested scope",
			body: "| +- Enter CStateMatchMove\n| +- Enter CStateMatchBlock\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(strings.NewReader(header + tt.body))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Tokenize() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestTokenizeSelectionScopes(t *testing.T) {
	header := "| +- Enter CStateMatchTossCreateResults\n| +- Exit CStateMatchTossCreateResults\n" +
		"| +- Enter CStateMatchStart\n| | GameLog(0): Home [HOM] vs Away [AWA]\n| +- Exit CStateMatchStart\n" +
		"| +- Enter CStateMatchBlock\n| | GameLog(1): HOM #01 Anna Block Result:\n| | GameLog(2): Pushed\n| +- Exit CStateMatchBlock\n" +
		"| +- Enter CStateMatchSelectPushback\n| | Contexts : Cinematic\n| | GameLog(3): Bounce (D8) : 2\n| +- Exit CStateMatchSelectPushback\n"
	moveScope := "| +- Enter CStateMatchMove\n| | GameLog(4): Bounce (D8) : 5\n| +- Exit CStateMatchMove\n"
	selectScope := "| +- Enter CStateMatchSelectFollowUp\n| | GameLog(4): Bounce (D8) : 5\n| +- Exit CStateMatchSelectFollowUp\n"

	tests := []struct {
		name   string
		tail   string
		scopes []string
		sizes  []int
	}{
		{name: "followed by play merges", tail: moveScope, scopes: []string{"Start", "Block", "Move"}, sizes: []int{1, 2, 1}},
		{name: "followed by another selection stays apart", tail: selectScope, scopes: []string{"Start", "Block", "SelectPushback", "SelectFollowUp"}, sizes: []int{1, 1, 1, 1}},
		{name: "end of log stays apart", tail: "", scopes: []string{"Start", "Block", "SelectPushback"}, sizes: []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches, err := Tokenize(strings.NewReader(header + tt.tail))
			require.NoError(t, err)
			require.Len(t, batches, len(tt.scopes))
			for i, b := range batches {
				assert.Equal(t, tt.scopes[i], b.Scope)
				assert.Len(t, b.Entries, tt.sizes[i], b.Scope)
			}
		})
	}
}

func TestTokenizeSkipsPreamble(t *testing.T) {
	log := "| +- Enter CStateMatchMove\n| | GameLog(0): nonsense that would not parse\n| +- Exit CStateMatchMove\n"
	batches, err := Tokenize(strings.NewReader(log))
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestFormatRoundTrip(t *testing.T) {
	batches, err := Tokenize(strings.NewReader(sampleLog))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Format(&buf, batches))

	again, err := Tokenize(&buf)
	require.NoError(t, err)
	assert.Equal(t, batches, again)
}

func TestRollValue(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"4", 4},
		{"6 + 4 = 10", 10},
		{"3 + 1", 3},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := rollValue(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := rollValue("none")
	assert.Error(t, err)
}

func TestCursor(t *testing.T) {
	batches := []Batch{
		{Scope: "A", Entries: []Entry{&BounceEntry{Direction: pitch.North}, &BounceEntry{Direction: pitch.South}}},
		{Scope: "Empty"},
		{Scope: "B", Entries: []Entry{&RerollEntry{Team: rules.Home}}},
	}
	c := NewCursor(batches)
	assert.Equal(t, 3, c.Remaining())

	_, ok := c.PeekInBatch()
	assert.False(t, ok, "nothing consumed yet")

	first, _ := c.Next()
	assert.Equal(t, &BounceEntry{Direction: pitch.North}, first)

	next, ok := c.PeekInBatch()
	require.True(t, ok)
	assert.Equal(t, &BounceEntry{Direction: pitch.South}, next)

	c.Next()
	_, ok = c.PeekInBatch()
	assert.False(t, ok, "next entry belongs to another batch")
	assert.Equal(t, 2, c.BatchIndex())

	peeked, ok := c.Peek()
	require.True(t, ok)
	assert.Equal(t, &RerollEntry{Team: rules.Home}, peeked)

	c.Next()
	_, ok = c.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, 3, c.Consumed())
}

func TestReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	first, err := r.ReadBatch()
	require.NoError(t, err)
	assert.Equal(t, TossScope, first.Scope)

	rest, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rest, 5)

	all, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	_, err = NewReader(filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)
}
