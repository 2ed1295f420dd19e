package rules

import (
	"fmt"
)

// Skill is a player skill or trait.
type Skill int

const (
	NoSkill Skill = iota
	Accurate
	AlwaysHungry
	Block
	BoneHead
	Catch
	Dauntless
	DirtyPlayer
	DivingCatch
	DivingTackle
	Dodge
	DumpOff
	Fend
	FoulAppearance
	Frenzy
	Grab
	Guard
	HailMaryPass
	Horns
	Juggernaut
	Kick
	KickOffReturn
	Leader
	Leap
	Loner
	MightyBlow
	NervesOfSteel
	NoHands
	Pass
	PassBlock
	Pro
	ReallyStupid
	Regeneration
	RightStuff
	SafeThrow
	SideStep
	Sprint
	StandFirm
	StripBall
	StrongArm
	Stunty
	SureFeet
	SureHands
	Tackle
	Tentacles
	ThickSkull
	ThrowTeamMate
	Titchy
	TwoHeads
	WildAnimal
	Wrestle
)

var skillNames = map[Skill]string{
	Accurate:       "Accurate",
	AlwaysHungry:   "Always Hungry",
	Block:          "Block",
	BoneHead:       "Bone-head",
	Catch:          "Catch",
	Dauntless:      "Dauntless",
	DirtyPlayer:    "Dirty Player",
	DivingCatch:    "Diving Catch",
	DivingTackle:   "Diving Tackle",
	Dodge:          "Dodge",
	DumpOff:        "Dump-Off",
	Fend:           "Fend",
	FoulAppearance: "Foul Appearance",
	Frenzy:         "Frenzy",
	Grab:           "Grab",
	Guard:          "Guard",
	HailMaryPass:   "Hail Mary Pass",
	Horns:          "Horns",
	Juggernaut:     "Juggernaut",
	Kick:           "Kick",
	KickOffReturn:  "Kick-Off Return",
	Leader:         "Leader",
	Leap:           "Leap",
	Loner:          "Loner",
	MightyBlow:     "Mighty Blow",
	NervesOfSteel:  "Nerves of Steel",
	NoHands:        "No Hands",
	Pass:           "Pass",
	PassBlock:      "Pass Block",
	Pro:            "Pro",
	ReallyStupid:   "Really Stupid",
	Regeneration:   "Regeneration",
	RightStuff:     "Right Stuff",
	SafeThrow:      "Safe Throw",
	SideStep:       "Side Step",
	Sprint:         "Sprint",
	StandFirm:      "Stand Firm",
	StripBall:      "Strip Ball",
	StrongArm:      "Strong Arm",
	Stunty:         "Stunty",
	SureFeet:       "Sure Feet",
	SureHands:      "Sure Hands",
	Tackle:         "Tackle",
	Tentacles:      "Tentacles",
	ThickSkull:     "Thick Skull",
	ThrowTeamMate:  "Throw Team-Mate",
	Titchy:         "Titchy",
	TwoHeads:       "Two Heads",
	WildAnimal:     "Wild Animal",
	Wrestle:        "Wrestle",
}

var skillsByName = invert(skillNames)

// ParseSkill looks a skill up by its display name.
func ParseSkill(name string) (Skill, error) {
	if s, ok := skillsByName[name]; ok {
		return s, nil
	}
	return NoSkill, fmt.Errorf("unknown skill %q", name)
}

func (s Skill) String() string {
	if name, ok := skillNames[s]; ok {
		return name
	}
	return "None"
}

// MarshalText encodes the skill by display name.
func (s Skill) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CancelledBy returns the opposing skill that stops this skill's reroll when
// an opponent with it is adjacent.
func (s Skill) CancelledBy() Skill {
	switch s {
	case Dodge:
		return Tackle
	default:
		return NoSkill
	}
}

func invert[K comparable](names map[K]string) map[string]K {
	out := make(map[string]K, len(names))
	for k, v := range names {
		out[v] = k
	}
	return out
}
