// Package commands decodes the client command stream recorded in a replay and
// provides a single-consumer cursor over it.
package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

// Command type IDs as stored in the replay database.
const (
	TypeCoinToss           = 6
	TypeRole               = 7
	TypeSetup              = 8
	TypeSetupComplete      = 9
	TypeKickoff            = 10
	TypeTouchback          = 11
	TypeReroll             = 12
	TypeDeclineReroll      = 13
	TypePreKickoffComplete = 14
	TypeProReroll          = 15
	TypeApothecary         = 16
	TypeEndTurn            = 17
	TypeApothecaryChoice   = 18
	TypeDiceChoice         = 19
	TypeFollowUpChoice     = 20
	TypeSideStep           = 21
	TypeJuggernautChoice   = 22
	TypeIntercept          = 23
	TypeSpell              = 24
	TypePlayerAction       = 25
	TypePickupBall         = 26
	TypePushback           = 46
	TypeAbandonMatch       = 59
	TypeNetwork            = 69
	TypeNetworkSync        = 94
)

// Sub-types of TypePlayerAction, stored in data[4].
const (
	ActionMovement     = 25
	ActionTargetPlayer = 26
	ActionEndMovement  = 27
	ActionTargetSpace  = 28
	ActionThrow        = 29
	ActionDumpOff      = 30
)

// ErrShortPayload is returned when a row's data is too short for its type.
var ErrShortPayload = errors.New("command payload too short")

// Row is a raw command as stored in the replay database.
type Row struct {
	ID          int
	Turn        int
	PlayerIndex int
	Type        int
	Data        []int32
}

// Meta is the envelope every command carries.
type Meta struct {
	ID     int            `json:"id"`
	Turn   int            `json:"turn"`
	Issuer rules.TeamType `json:"issuer"`
	Type   int            `json:"type"`
}

// Info returns the command envelope.
func (m Meta) Info() Meta {
	return m
}

// Command is one decoded client command.
type Command interface {
	Info() Meta
}

// Actor identifies a player by side and roster index.
type Actor struct {
	Team   rules.TeamType `json:"team"`
	Player int            `json:"player"`
}

type CoinToss struct {
	Meta
	Choice rules.CoinFace
}

type Role struct {
	Meta
	Choice rules.Role
}

// Setup places a player during team setup. An off-pitch target returns the
// player to the dugout.
type Setup struct {
	Meta
	Actor
	Target pitch.Position
}

type SetupComplete struct {
	Meta
	Team rules.TeamType
}

type Kickoff struct {
	Meta
	Target pitch.Position
}

// Touchback hands the ball to the chosen player after a touchback.
type Touchback struct {
	Meta
	Actor
}

type Reroll struct {
	Meta
	Team rules.TeamType
}

type DeclineReroll struct {
	Meta
	Team rules.TeamType
}

type PreKickoffComplete struct {
	Meta
	Team rules.TeamType
}

type ProReroll struct {
	Meta
	Actor
}

type Apothecary struct {
	Meta
	Actor
	Used bool
}

type EndTurn struct {
	Meta
	Team rules.TeamType
}

// ApothecaryChoice records which of the two casualty results is kept.
type ApothecaryChoice struct {
	Meta
	Actor
	Casualty rules.Casualty
}

type DiceChoice struct {
	Meta
	Actor
	Index int
}

type FollowUpChoice struct {
	Meta
	Actor
	FollowUp bool
}

type SideStep struct {
	Meta
	Actor
	Use bool
}

type JuggernautChoice struct {
	Meta
	Actor
	Use bool
}

type Intercept struct {
	Meta
	Actor
}

type Spell struct {
	Meta
	Team   rules.TeamType
	Spell  rules.Spell
	Target pitch.Position
}

// Movement is one intermediate step of a move action.
type Movement struct {
	Meta
	Actor
	Target pitch.Position
}

// TargetPlayer declares a block, blitz, pass or throw against the player at Target.
type TargetPlayer struct {
	Meta
	Actor
	Target pitch.Position
}

// EndMovement is the final step of a move action.
type EndMovement struct {
	Meta
	Actor
	Target pitch.Position
}

// TargetSpace confirms a block target or hands the ball off.
type TargetSpace struct {
	Meta
	Actor
	Target pitch.Position
}

type Throw struct {
	Meta
	Actor
	Target pitch.Position
}

type DumpOff struct {
	Meta
	Actor
	Target pitch.Position
}

type PickupBall struct {
	Meta
	Actor
}

type Pushback struct {
	Meta
	Actor
	Target pitch.Position
}

type AbandonMatch struct {
	Meta
	Team rules.TeamType
}

// Network commands carry client synchronisation only.
type Network struct {
	Meta
}

// Unknown is any command type the decoder has no variant for.
type Unknown struct {
	Meta
	Data []int32
}

// PlayerOf returns the actor of player-bearing commands.
func PlayerOf(cmd Command) (Actor, bool) {
	switch c := cmd.(type) {
	case *Setup:
		return c.Actor, true
	case *Touchback:
		return c.Actor, true
	case *ProReroll:
		return c.Actor, true
	case *Apothecary:
		return c.Actor, true
	case *ApothecaryChoice:
		return c.Actor, true
	case *DiceChoice:
		return c.Actor, true
	case *FollowUpChoice:
		return c.Actor, true
	case *SideStep:
		return c.Actor, true
	case *JuggernautChoice:
		return c.Actor, true
	case *Intercept:
		return c.Actor, true
	case *Movement:
		return c.Actor, true
	case *TargetPlayer:
		return c.Actor, true
	case *EndMovement:
		return c.Actor, true
	case *TargetSpace:
		return c.Actor, true
	case *Throw:
		return c.Actor, true
	case *DumpOff:
		return c.Actor, true
	case *PickupBall:
		return c.Actor, true
	case *Pushback:
		return c.Actor, true
	default:
		return Actor{}, false
	}
}

// Name returns a short label for the command's variant.
func Name(cmd Command) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", cmd), "*commands.")
}
