package replay

import (
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

// EventType identifies an event variant.
type EventType int

const (
	EventCoinToss EventType = iota + 1
	EventSetup
	EventSetupComplete
	EventKickoff
	EventKickoffEvent
	EventWeather
	EventExtraReroll
	EventTouchback
	EventStartTurn
	EventEndTurn
	EventOffTurnStart
	EventOffTurnEnd
	EventMovement
	EventFailedMovement
	EventStandUp
	EventAction
	EventPickup
	EventReroll
	EventPlayerDown
	EventArmourRoll
	EventInjuryRoll
	EventCasualty
	EventApothecary
	EventBlitz
	EventBlock
	EventBlockBothDown
	EventDodgeBlock
	EventSkill
	EventPushback
	EventFollowUp
	EventHandoff
	EventPass
	EventInterception
	EventThrowTeammate
	EventLanding
	EventSpell
	EventBounce
	EventScatter
	EventThrowIn
	EventDivingTackle
	EventTentacled
	EventTouchdown
	EventHalfTime
	EventEndMatch
	EventAbandonMatch
)

var eventTypeNames = map[EventType]string{
	EventCoinToss:       "CoinToss",
	EventSetup:          "Setup",
	EventSetupComplete:  "SetupComplete",
	EventKickoff:        "Kickoff",
	EventKickoffEvent:   "KickoffEvent",
	EventWeather:        "Weather",
	EventExtraReroll:    "ExtraReroll",
	EventTouchback:      "Touchback",
	EventStartTurn:      "StartTurn",
	EventEndTurn:        "EndTurn",
	EventOffTurnStart:   "OffTurnStart",
	EventOffTurnEnd:     "OffTurnEnd",
	EventMovement:       "Movement",
	EventFailedMovement: "FailedMovement",
	EventStandUp:        "StandUp",
	EventAction:         "Action",
	EventPickup:         "Pickup",
	EventReroll:         "Reroll",
	EventPlayerDown:     "PlayerDown",
	EventArmourRoll:     "ArmourRoll",
	EventInjuryRoll:     "InjuryRoll",
	EventCasualty:       "Casualty",
	EventApothecary:     "Apothecary",
	EventBlitz:          "Blitz",
	EventBlock:          "Block",
	EventBlockBothDown:  "BlockBothDown",
	EventDodgeBlock:     "DodgeBlock",
	EventSkill:          "Skill",
	EventPushback:       "Pushback",
	EventFollowUp:       "FollowUp",
	EventHandoff:        "Handoff",
	EventPass:           "Pass",
	EventInterception:   "Interception",
	EventThrowTeammate:  "ThrowTeammate",
	EventLanding:        "Landing",
	EventSpell:          "Spell",
	EventBounce:         "Bounce",
	EventScatter:        "Scatter",
	EventThrowIn:        "ThrowIn",
	EventDivingTackle:   "DivingTackle",
	EventTentacled:      "Tentacled",
	EventTouchdown:      "Touchdown",
	EventHalfTime:       "HalfTime",
	EventEndMatch:       "EndMatch",
	EventAbandonMatch:   "AbandonMatch",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes the event type by name.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is one step of the reconstructed match timeline. Player fields point
// at the live roster, so positions reflect the board when the event is read.
type Event interface {
	Type() EventType
}

// RerollKind says where a reroll came from.
type RerollKind int

const (
	RerollTeam RerollKind = iota + 1
	RerollLeader
	RerollPro
	RerollSkill
)

func (k RerollKind) String() string {
	switch k {
	case RerollTeam:
		return "Team"
	case RerollLeader:
		return "Leader"
	case RerollPro:
		return "Pro"
	case RerollSkill:
		return "Skill"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the reroll kind by name.
func (k RerollKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type CoinToss struct {
	TossTeam rules.TeamType `json:"toss_team"`
	Choice   rules.CoinFace `json:"choice"`
	Result   rules.CoinFace `json:"result"`
	RoleTeam rules.TeamType `json:"role_team"`
	Role     rules.Role     `json:"role"`
}

type Setup struct {
	Player *team.Player   `json:"player"`
	From   pitch.Position `json:"from"`
	To     pitch.Position `json:"to"`
}

type SetupComplete struct {
	Team rules.TeamType `json:"team"`
}

// Kickoff is the kick itself. Landing is where the ball comes down before
// any bounce.
type Kickoff struct {
	Team      rules.TeamType  `json:"team"`
	Target    pitch.Position  `json:"target"`
	Direction pitch.Direction `json:"direction"`
	Distance  int             `json:"distance"`
	Landing   pitch.Position  `json:"landing"`
}

type KickoffEvent struct {
	Roll  int                `json:"roll"`
	Event rules.KickoffEvent `json:"event"`
}

type Weather struct {
	Weather rules.Weather `json:"weather"`
}

// ExtraReroll is a team reroll granted by the kick-off table.
type ExtraReroll struct {
	Team rules.TeamType `json:"team"`
}

type Touchback struct {
	Player *team.Player `json:"player"`
}

type StartTurn struct {
	Team rules.TeamType `json:"team"`
	Turn int            `json:"turn"`
}

type EndTurn struct {
	Team   rules.TeamType `json:"team"`
	Turn   int            `json:"turn"`
	Reason string         `json:"reason,omitempty"`
}

// OffTurnStart opens a free activation granted by Quick Snap or Blitz.
type OffTurnStart struct {
	Team  rules.TeamType     `json:"team"`
	Event rules.KickoffEvent `json:"event"`
}

// OffTurnEnd closes the free activation. Reason is set when a turnover cut
// it short.
type OffTurnEnd struct {
	Team   rules.TeamType     `json:"team"`
	Event  rules.KickoffEvent `json:"event"`
	Reason string             `json:"reason,omitempty"`
}

type Movement struct {
	Player *team.Player   `json:"player"`
	From   pitch.Position `json:"from"`
	To     pitch.Position `json:"to"`
}

// FailedMovement is a declared step that never happened because the player
// fell or was held.
type FailedMovement struct {
	Player *team.Player   `json:"player"`
	From   pitch.Position `json:"from"`
	To     pitch.Position `json:"to"`
}

type StandUp struct {
	Player *team.Player `json:"player"`
}

// Action is a dice roll with a success/failure outcome.
type Action struct {
	Player   *team.Player       `json:"player"`
	Action   rules.ActionType   `json:"action"`
	Required int                `json:"required"`
	Roll     int                `json:"roll"`
	Result   rules.ActionResult `json:"result"`
}

type Pickup struct {
	Player   *team.Player       `json:"player"`
	Position pitch.Position     `json:"position"`
	Result   rules.ActionResult `json:"result"`
}

type Reroll struct {
	Team   rules.TeamType `json:"team"`
	Player *team.Player   `json:"player"`
	Kind   RerollKind     `json:"kind"`
	Skill  rules.Skill    `json:"skill,omitempty"`
}

type PlayerDown struct {
	Player *team.Player `json:"player"`
}

// ArmourRoll reports the armour check. Success means the armour broke.
type ArmourRoll struct {
	Player *team.Player       `json:"player"`
	Roll   int                `json:"roll"`
	Result rules.ActionResult `json:"result"`
}

type InjuryRoll struct {
	Player *team.Player       `json:"player"`
	Roll   int                `json:"roll"`
	Result rules.InjuryResult `json:"result"`
}

type Casualty struct {
	Player *team.Player   `json:"player"`
	Roll   int            `json:"roll"`
	Result rules.Casualty `json:"result"`
}

// Apothecary reports the injury the player is left with after treatment.
type Apothecary struct {
	Player   *team.Player       `json:"player"`
	Injury   rules.InjuryResult `json:"injury"`
	Casualty rules.Casualty     `json:"casualty"`
}

type Blitz struct {
	Player *team.Player `json:"player"`
	Target *team.Player `json:"target"`
}

type Block struct {
	Blocker  *team.Player     `json:"blocker"`
	Defender *team.Player     `json:"defender"`
	Dice     []rules.BlockDie `json:"dice"`
	Chosen   rules.BlockDie   `json:"chosen"`
}

// BlockBothDown is a player saved from a Both Down result by Block.
type BlockBothDown struct {
	Player *team.Player `json:"player"`
}

// DodgeBlock is a defender staying up on Defender Stumbles.
type DodgeBlock struct {
	Blocker  *team.Player `json:"blocker"`
	Defender *team.Player `json:"defender"`
}

type Skill struct {
	Player *team.Player `json:"player"`
	Skill  rules.Skill  `json:"skill"`
}

type Pushback struct {
	Pusher *team.Player   `json:"pusher"`
	Player *team.Player   `json:"player"`
	From   pitch.Position `json:"from"`
	To     pitch.Position `json:"to"`
}

type FollowUp struct {
	Player *team.Player   `json:"player"`
	Target *team.Player   `json:"target"`
	From   pitch.Position `json:"from"`
	To     pitch.Position `json:"to"`
}

type Handoff struct {
	Player *team.Player `json:"player"`
	Target *team.Player `json:"target"`
}

type Pass struct {
	Player *team.Player      `json:"player"`
	Target pitch.Position    `json:"target"`
	Result rules.ThrowResult `json:"result"`
}

type Interception struct {
	Player *team.Player       `json:"player"`
	Result rules.ActionResult `json:"result"`
}

type ThrowTeammate struct {
	Player *team.Player      `json:"player"`
	Thrown *team.Player      `json:"thrown"`
	Target pitch.Position    `json:"target"`
	Result rules.ThrowResult `json:"result"`
}

type Landing struct {
	Player   *team.Player       `json:"player"`
	Position pitch.Position     `json:"position"`
	Result   rules.ActionResult `json:"result"`
}

type Spell struct {
	Team   rules.TeamType `json:"team"`
	Spell  rules.Spell    `json:"spell"`
	Target pitch.Position `json:"target"`
}

type Bounce struct {
	From      pitch.Position  `json:"from"`
	To        pitch.Position  `json:"to"`
	Direction pitch.Direction `json:"direction"`
}

type Scatter struct {
	From      pitch.Position  `json:"from"`
	To        pitch.Position  `json:"to"`
	Direction pitch.Direction `json:"direction"`
}

type ThrowIn struct {
	From      pitch.Position         `json:"from"`
	To        pitch.Position         `json:"to"`
	Direction pitch.ThrowInDirection `json:"direction"`
	Distance  int                    `json:"distance"`
}

// DivingTackle is the tackler landing prone on the square the player left.
type DivingTackle struct {
	Player   *team.Player   `json:"player"`
	Target   *team.Player   `json:"target"`
	Position pitch.Position `json:"position"`
}

type Tentacled struct {
	User   *team.Player       `json:"user"`
	Target *team.Player       `json:"target"`
	Result rules.ActionResult `json:"result"`
}

type Touchdown struct {
	Player    *team.Player `json:"player"`
	HomeScore int          `json:"home_score"`
	AwayScore int          `json:"away_score"`
}

type HalfTime struct{}

type EndMatch struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

type AbandonMatch struct {
	Team rules.TeamType `json:"team"`
}

func (*CoinToss) Type() EventType       { return EventCoinToss }
func (*Setup) Type() EventType          { return EventSetup }
func (*SetupComplete) Type() EventType  { return EventSetupComplete }
func (*Kickoff) Type() EventType        { return EventKickoff }
func (*KickoffEvent) Type() EventType   { return EventKickoffEvent }
func (*Weather) Type() EventType        { return EventWeather }
func (*ExtraReroll) Type() EventType    { return EventExtraReroll }
func (*Touchback) Type() EventType      { return EventTouchback }
func (*StartTurn) Type() EventType      { return EventStartTurn }
func (*EndTurn) Type() EventType        { return EventEndTurn }
func (*OffTurnStart) Type() EventType   { return EventOffTurnStart }
func (*OffTurnEnd) Type() EventType     { return EventOffTurnEnd }
func (*Movement) Type() EventType       { return EventMovement }
func (*FailedMovement) Type() EventType { return EventFailedMovement }
func (*StandUp) Type() EventType        { return EventStandUp }
func (*Action) Type() EventType         { return EventAction }
func (*Pickup) Type() EventType         { return EventPickup }
func (*Reroll) Type() EventType         { return EventReroll }
func (*PlayerDown) Type() EventType     { return EventPlayerDown }
func (*ArmourRoll) Type() EventType     { return EventArmourRoll }
func (*InjuryRoll) Type() EventType     { return EventInjuryRoll }
func (*Casualty) Type() EventType       { return EventCasualty }
func (*Apothecary) Type() EventType     { return EventApothecary }
func (*Blitz) Type() EventType          { return EventBlitz }
func (*Block) Type() EventType          { return EventBlock }
func (*BlockBothDown) Type() EventType  { return EventBlockBothDown }
func (*DodgeBlock) Type() EventType     { return EventDodgeBlock }
func (*Skill) Type() EventType          { return EventSkill }
func (*Pushback) Type() EventType       { return EventPushback }
func (*FollowUp) Type() EventType       { return EventFollowUp }
func (*Handoff) Type() EventType        { return EventHandoff }
func (*Pass) Type() EventType           { return EventPass }
func (*Interception) Type() EventType   { return EventInterception }
func (*ThrowTeammate) Type() EventType  { return EventThrowTeammate }
func (*Landing) Type() EventType        { return EventLanding }
func (*Spell) Type() EventType          { return EventSpell }
func (*Bounce) Type() EventType         { return EventBounce }
func (*Scatter) Type() EventType        { return EventScatter }
func (*ThrowIn) Type() EventType        { return EventThrowIn }
func (*DivingTackle) Type() EventType   { return EventDivingTackle }
func (*Tentacled) Type() EventType      { return EventTentacled }
func (*Touchdown) Type() EventType      { return EventTouchdown }
func (*HalfTime) Type() EventType       { return EventHalfTime }
func (*EndMatch) Type() EventType       { return EventEndMatch }
func (*AbandonMatch) Type() EventType   { return EventAbandonMatch }
