package commands

import (
	"errors"
	"testing"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		row   Row
		check func(t *testing.T, cmd Command)
	}{
		{
			name: "coin toss",
			row:  Row{ID: 1, PlayerIndex: 0, Type: TypeCoinToss, Data: []int32{1}},
			check: func(t *testing.T, cmd Command) {
				c, ok := cmd.(*CoinToss)
				if !ok || c.Choice != rules.Tails {
					t.Errorf("Decode() = %#v, want tails coin toss", cmd)
				}
			},
		},
		{
			name: "hotseat setup takes the team from the payload",
			row:  Row{ID: 2, PlayerIndex: 2, Type: TypeSetup, Data: []int32{1, 4, 7, 12}},
			check: func(t *testing.T, cmd Command) {
				c, ok := cmd.(*Setup)
				if !ok {
					t.Fatalf("Decode() = %T, want *Setup", cmd)
				}
				if c.Issuer != rules.Hotseat || c.Team != rules.Away || c.Player != 4 {
					t.Errorf("Decode() = %+v", c)
				}
				if c.Target != (pitch.Position{X: 7, Y: 12}) {
					t.Errorf("Target = %v, want (7,12)", c.Target)
				}
			},
		},
		{
			name: "setup into the dugout",
			row:  Row{ID: 3, Type: TypeSetup, Data: []int32{0, 1, -1, -1}},
			check: func(t *testing.T, cmd Command) {
				if c := cmd.(*Setup); c.Target != pitch.OffPitch {
					t.Errorf("Target = %v, want off pitch", c.Target)
				}
			},
		},
		{
			name: "movement",
			row:  Row{ID: 4, Type: TypePlayerAction, Data: []int32{0, 2, 6, 7, ActionMovement}},
			check: func(t *testing.T, cmd Command) {
				if _, ok := cmd.(*Movement); !ok {
					t.Errorf("Decode() = %T, want *Movement", cmd)
				}
			},
		},
		{
			name: "block target",
			row:  Row{ID: 5, Type: TypePlayerAction, Data: []int32{0, 2, 6, 7, ActionTargetPlayer}},
			check: func(t *testing.T, cmd Command) {
				if _, ok := cmd.(*TargetPlayer); !ok {
					t.Errorf("Decode() = %T, want *TargetPlayer", cmd)
				}
			},
		},
		{
			name: "dump off",
			row:  Row{ID: 6, Type: TypePlayerAction, Data: []int32{1, 3, 2, 9, ActionDumpOff}},
			check: func(t *testing.T, cmd Command) {
				if _, ok := cmd.(*DumpOff); !ok {
					t.Errorf("Decode() = %T, want *DumpOff", cmd)
				}
			},
		},
		{
			name: "apothecary choice",
			row:  Row{ID: 7, Type: TypeApothecaryChoice, Data: []int32{1, 0, int32(rules.BadlyHurt)}},
			check: func(t *testing.T, cmd Command) {
				c, ok := cmd.(*ApothecaryChoice)
				if !ok || c.Casualty != rules.BadlyHurt {
					t.Errorf("Decode() = %#v", cmd)
				}
			},
		},
		{
			name: "network",
			row:  Row{ID: 8, Type: TypeNetworkSync},
			check: func(t *testing.T, cmd Command) {
				if _, ok := cmd.(*Network); !ok {
					t.Errorf("Decode() = %T, want *Network", cmd)
				}
			},
		},
		{
			name: "unknown type",
			row:  Row{ID: 9, Type: 99, Data: []int32{1, 2}},
			check: func(t *testing.T, cmd Command) {
				c, ok := cmd.(*Unknown)
				if !ok || len(c.Data) != 2 {
					t.Errorf("Decode() = %#v, want unknown", cmd)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Decode(tt.row)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if cmd.Info().ID != tt.row.ID {
				t.Errorf("Info().ID = %d, want %d", cmd.Info().ID, tt.row.ID)
			}
			tt.check(t, cmd)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(Row{ID: 1, Type: TypeSetup, Data: []int32{0, 1}})
	if !errors.Is(err, ErrShortPayload) {
		t.Errorf("Decode() error = %v, want ErrShortPayload", err)
	}

	if _, err := Decode(Row{ID: 2, PlayerIndex: 5, Type: TypeEndTurn, Data: []int32{0}}); err == nil {
		t.Error("Decode() accepted an invalid player index")
	}

	if _, err := Decode(Row{ID: 3, Type: TypeEndTurn, Data: []int32{4}}); err == nil {
		t.Error("Decode() accepted an invalid team")
	}
}

func TestCursor(t *testing.T) {
	cmds := []Command{
		&EndTurn{Meta: Meta{ID: 1}},
		&Network{Meta: Meta{ID: 2}},
		&EndTurn{Meta: Meta{ID: 3}},
	}
	c := NewCursor(cmds)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want network commands filtered", c.Len())
	}

	peeked, ok := c.Peek()
	if !ok || peeked.Info().ID != 1 {
		t.Fatalf("Peek() = %v, %v", peeked, ok)
	}
	again, _ := c.Peek()
	if again != peeked {
		t.Error("Peek() advanced the cursor")
	}

	next, _ := c.Next()
	if next != peeked {
		t.Error("Next() did not return the peeked command")
	}
	if c.Consumed() != 1 || c.Remaining() != 1 {
		t.Errorf("Consumed()/Remaining() = %d/%d, want 1/1", c.Consumed(), c.Remaining())
	}

	if last, _ := c.Next(); last.Info().ID != 3 {
		t.Errorf("Next() = %v, want command 3", last)
	}
	if _, ok := c.Next(); ok {
		t.Error("Next() past the end returned a command")
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", c.Remaining())
	}
}

func TestName(t *testing.T) {
	if got := Name(&DiceChoice{}); got != "DiceChoice" {
		t.Errorf("Name() = %q, want DiceChoice", got)
	}
}
