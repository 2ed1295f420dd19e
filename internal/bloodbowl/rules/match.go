package rules

import (
	"fmt"
)

// Weather is the pitch weather.
type Weather int

const (
	SwelteringHeat Weather = iota + 1
	VerySunny
	Nice
	PouringRain
	Blizzard
	// NiceBouncy is Nice weather arrived at through a Changing Weather kick-off,
	// which makes the kicked ball scatter an extra square.
	NiceBouncy
)

var weatherNames = map[Weather]string{
	SwelteringHeat: "Sweltering Heat",
	VerySunny:      "Very Sunny",
	Nice:           "Nice",
	PouringRain:    "Pouring Rain",
	Blizzard:       "Blizzard",
	NiceBouncy:     "Nice Bouncy",
}

var weatherByName = invert(weatherNames)

// ParseWeather looks weather up by its log name.
func ParseWeather(name string) (Weather, error) {
	if w, ok := weatherByName[name]; ok {
		return w, nil
	}
	return 0, fmt.Errorf("unknown weather %q", name)
}

func (w Weather) String() string {
	if name, ok := weatherNames[w]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes the weather by name.
func (w Weather) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// KickoffEvent is a result of the 2D6 kick-off table.
type KickoffEvent int

const (
	GetTheRef KickoffEvent = iota + 2
	Riot
	PerfectDefence
	HighKick
	CheeringFans
	ChangingWeather
	BrilliantCoaching
	QuickSnap
	Blitz
	ThrowARock
	PitchInvasion
)

var kickoffNames = map[KickoffEvent]string{
	GetTheRef:         "Get the Ref",
	Riot:              "Riot",
	PerfectDefence:    "Perfect Defence",
	HighKick:          "High Kick",
	CheeringFans:      "Cheering Fans",
	ChangingWeather:   "Changing Weather",
	BrilliantCoaching: "Brilliant Coaching",
	QuickSnap:         "Quick Snap",
	Blitz:             "Blitz",
	ThrowARock:        "Throw a Rock",
	PitchInvasion:     "Pitch Invasion",
}

var kickoffsByName = invert(kickoffNames)

// ParseKickoffEvent looks a kick-off result up by its log name.
func ParseKickoffEvent(name string) (KickoffEvent, error) {
	if k, ok := kickoffsByName[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown kick-off event %q", name)
}

// KickoffEventFromRoll maps a 2D6 total to the table.
func KickoffEventFromRoll(roll int) (KickoffEvent, error) {
	if roll < 2 || roll > 12 {
		return 0, fmt.Errorf("invalid 2D6 roll %d", roll)
	}
	return KickoffEvent(roll), nil
}

func (k KickoffEvent) String() string {
	if name, ok := kickoffNames[k]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes the kick-off event by name.
func (k KickoffEvent) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
