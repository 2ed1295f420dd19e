package rules

import (
	"fmt"
)

// BlockDie is a face of the block dice.
type BlockDie int

const (
	AttackerDown BlockDie = iota + 1
	BothDown
	Pushed
	DefenderStumbles
	DefenderDown
)

var blockDieNames = map[BlockDie]string{
	AttackerDown:     "Attacker Down",
	BothDown:         "Both Down",
	Pushed:           "Pushed",
	DefenderStumbles: "Defender Stumbles",
	DefenderDown:     "Defender Down",
}

var blockDiceByName = invert(blockDieNames)

// ParseBlockDie looks a block die face up by its log name.
func ParseBlockDie(name string) (BlockDie, error) {
	if d, ok := blockDiceByName[name]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown block die %q", name)
}

func (d BlockDie) String() string {
	if name, ok := blockDieNames[d]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes the face by name.
func (d BlockDie) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ActionType is a dice-rolled action reported by the game log.
type ActionType int

const (
	ActionPickup ActionType = iota + 1
	ActionCatch
	ActionDodge
	ActionArmour
	ActionGoingForIt
	ActionReallyStupid
	ActionWildAnimal
	ActionFoulAppearance
	ActionKORecovery
	ActionLeap
	ActionLanding
	ActionAlwaysHungry
	ActionFireball
	ActionLightningBolt
	ActionLoner
	ActionPro
	ActionTentaclesEscape
	ActionPass
	ActionThrowTeamMate
)

var actionNames = map[ActionType]string{
	ActionPickup:          "Pick-up",
	ActionCatch:           "Catch",
	ActionDodge:           "Dodge",
	ActionArmour:          "Armour Value",
	ActionGoingForIt:      "Going For It",
	ActionReallyStupid:    "Really Stupid",
	ActionWildAnimal:      "Wild Animal",
	ActionFoulAppearance:  "Foul Appearance",
	ActionKORecovery:      "KO Recovery",
	ActionLeap:            "Leap",
	ActionLanding:         "Landing",
	ActionAlwaysHungry:    "Always Hungry",
	ActionFireball:        "Fireball",
	ActionLightningBolt:   "Lightning Bolt",
	ActionLoner:           "Loner",
	ActionPro:             "Pro",
	ActionTentaclesEscape: "Tentacles Escape",
	ActionPass:            "Pass",
	ActionThrowTeamMate:   "Throw Team-Mate",
}

var actionsByName = invert(actionNames)

// ParseActionType looks an action up by its log name.
func ParseActionType(name string) (ActionType, error) {
	if a, ok := actionsByName[name]; ok {
		return a, nil
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// IsSpellHit reports whether the action is a wizard spell hitting a player.
func (a ActionType) IsSpellHit() bool {
	return a == ActionFireball || a == ActionLightningBolt
}

// IsThrow reports whether the action resolves to a pass result rather than
// success or failure.
func (a ActionType) IsThrow() bool {
	return a == ActionPass || a == ActionThrowTeamMate
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes the action by log name.
func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ActionResult is the outcome of a dice-rolled action.
type ActionResult int

const (
	Success ActionResult = iota + 1
	Failure
)

// ParseActionResult parses "Success" or "Failure".
func ParseActionResult(text string) (ActionResult, error) {
	switch text {
	case "Success":
		return Success, nil
	case "Failure":
		return Failure, nil
	default:
		return 0, fmt.Errorf("unknown action result %q", text)
	}
}

func (r ActionResult) String() string {
	switch r {
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the result by name.
func (r ActionResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ThrowResult is the outcome of a pass or team-mate throw.
type ThrowResult int

const (
	AccuratePass ThrowResult = iota + 1
	InaccuratePass
	Fumble
)

var throwResultNames = map[ThrowResult]string{
	AccuratePass:   "Accurate Pass!",
	InaccuratePass: "Inaccurate Pass!",
	Fumble:         "Fumble!",
}

var throwResultsByName = invert(throwResultNames)

// ParseThrowResult parses a pass outcome label.
func ParseThrowResult(text string) (ThrowResult, error) {
	if r, ok := throwResultsByName[text]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("unknown throw result %q", text)
}

func (r ThrowResult) String() string {
	if name, ok := throwResultNames[r]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes the throw result by label.
func (r ThrowResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Spell is a wizard spell.
type Spell int

const (
	Fireball Spell = iota + 1
	LightningBolt
)

// ParseSpell looks a spell up by name.
func ParseSpell(name string) (Spell, error) {
	switch name {
	case "Fireball":
		return Fireball, nil
	case "Lightning Bolt":
		return LightningBolt, nil
	default:
		return 0, fmt.Errorf("unknown spell %q", name)
	}
}

func (s Spell) String() string {
	switch s {
	case Fireball:
		return "Fireball"
	case LightningBolt:
		return "Lightning Bolt"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the spell by name.
func (s Spell) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
