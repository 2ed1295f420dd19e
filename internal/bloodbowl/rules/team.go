// Package rules is the Blood Bowl domain vocabulary: sides, skills, dice faces,
// injury tables, weather and the kick-off table.
package rules

// TeamType identifies a side of the match. Hotseat only appears on commands
// issued from a single shared client.
type TeamType int

const (
	Home TeamType = iota
	Away
	Hotseat
)

// TeamTypeFromIndex converts the player index stored with commands.
func TeamTypeFromIndex(index int) (TeamType, bool) {
	switch index {
	case 0:
		return Home, true
	case 1:
		return Away, true
	case 2:
		return Hotseat, true
	default:
		return 0, false
	}
}

// Other returns the opposing side.
func (t TeamType) Other() TeamType {
	if t == Home {
		return Away
	}
	return Home
}

// PlayDirection is the y direction the side advances in. Home scores in row 0.
func (t TeamType) PlayDirection() int {
	if t == Home {
		return -1
	}
	return 1
}

// ScoringRow is the endzone row the side scores in.
func (t TeamType) ScoringRow() int {
	if t == Home {
		return 0
	}
	return 25
}

// OwnsRow reports whether the row lies in the side's half.
func (t TeamType) OwnsRow(y int) bool {
	if t == Home {
		return y >= 13
	}
	return y < 13
}

func (t TeamType) String() string {
	switch t {
	case Home:
		return "HOME"
	case Away:
		return "AWAY"
	case Hotseat:
		return "HOTSEAT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the side by name.
func (t TeamType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// CoinFace is a side of the coin.
type CoinFace int

const (
	Heads CoinFace = iota
	Tails
)

func (c CoinFace) String() string {
	if c == Heads {
		return "Heads"
	}
	return "Tails"
}

// MarshalText encodes the coin face by name.
func (c CoinFace) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Role is the choice made by the toss winner.
type Role int

const (
	RoleKick Role = iota
	RoleReceive
)

func (r Role) String() string {
	if r == RoleKick {
		return "Kick"
	}
	return "Receive"
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
