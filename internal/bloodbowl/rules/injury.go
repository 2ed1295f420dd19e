package rules

import (
	"fmt"
)

// InjuryResult is the outcome of an injury roll.
type InjuryResult int

const (
	NoInjury InjuryResult = iota
	Stunned
	KO
	Injured
)

// ParseInjuryResult parses an injury label.
func ParseInjuryResult(text string) (InjuryResult, error) {
	switch text {
	case "Stunned":
		return Stunned, nil
	case "KO":
		return KO, nil
	case "Injured":
		return Injured, nil
	default:
		return NoInjury, fmt.Errorf("unknown injury result %q", text)
	}
}

func (r InjuryResult) String() string {
	switch r {
	case Stunned:
		return "Stunned"
	case KO:
		return "KO"
	case Injured:
		return "Injured"
	default:
		return "None"
	}
}

// MarshalText encodes the injury by label.
func (r InjuryResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Casualty is an entry of the D68 casualty table.
type Casualty int

const (
	NoCasualty Casualty = iota
	BadlyHurt
	BrokenRibs
	GroinStrain
	GougedEye
	BrokenJaw
	FracturedArm
	FracturedLeg
	SmashedHand
	PinchedNerve
	DamagedBack
	SmashedKnee
	SmashedHip
	SmashedAnkle
	SeriousConcussion
	FracturedSkull
	BrokenNeck
	SmashedCollarBone
	Dead
)

var casualtyNames = map[Casualty]string{
	BadlyHurt:         "Badly Hurt",
	BrokenRibs:        "Broken Ribs",
	GroinStrain:       "Groin Strain",
	GougedEye:         "Gouged Eye",
	BrokenJaw:         "Broken Jaw",
	FracturedArm:      "Fractured Arm",
	FracturedLeg:      "Fractured Leg",
	SmashedHand:       "Smashed Hand",
	PinchedNerve:      "Pinched Nerve",
	DamagedBack:       "Damaged Back",
	SmashedKnee:       "Smashed Knee",
	SmashedHip:        "Smashed Hip",
	SmashedAnkle:      "Smashed Ankle",
	SeriousConcussion: "Serious Concussion",
	FracturedSkull:    "Fractured Skull",
	BrokenNeck:        "Broken Neck",
	SmashedCollarBone: "Smashed Collar Bone",
	Dead:              "Dead",
}

var casualtiesByName = invert(casualtyNames)

// ParseCasualty looks a casualty up by its log name.
func ParseCasualty(name string) (Casualty, error) {
	if c, ok := casualtiesByName[name]; ok {
		return c, nil
	}
	return NoCasualty, fmt.Errorf("unknown casualty %q", name)
}

// CasualtyFromD68 maps a D68 roll (tens die D6, units die D8) to the table.
func CasualtyFromD68(roll int) (Casualty, error) {
	tens, units := roll/10, roll%10
	if tens < 1 || tens > 6 || units < 1 || units > 8 {
		return NoCasualty, fmt.Errorf("invalid D68 roll %d", roll)
	}
	switch {
	case tens <= 3:
		return BadlyHurt, nil
	case tens == 4:
		return BrokenRibs + Casualty(units-1), nil
	case tens == 5:
		return DamagedBack + Casualty(units-1), nil
	default:
		return Dead, nil
	}
}

// CasualtyFromID converts the casualty id carried by apothecary choice commands.
func CasualtyFromID(id int) (Casualty, error) {
	c := Casualty(id)
	if _, ok := casualtyNames[c]; !ok {
		return NoCasualty, fmt.Errorf("unknown casualty id %d", id)
	}
	return c, nil
}

func (c Casualty) String() string {
	if name, ok := casualtyNames[c]; ok {
		return name
	}
	return "None"
}

// MarshalText encodes the casualty by name.
func (c Casualty) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
