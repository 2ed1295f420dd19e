package pitch

import (
	"fmt"
)

// Direction is one of the eight compass directions used by scatter and
// bounce rolls. North is +y and East is +x.
type Direction int

// D8 scatter template order.
const (
	NoDirection Direction = iota
	NorthWest
	North
	NorthEast
	West
	East
	SouthWest
	South
	SouthEast
)

// Directions lists every compass direction in D8 order.
var Directions = []Direction{NorthWest, North, NorthEast, West, East, SouthWest, South, SouthEast}

var directionNames = map[Direction]string{
	NorthWest: "NW",
	North:     "N",
	NorthEast: "NE",
	West:      "W",
	East:      "E",
	SouthWest: "SW",
	South:     "S",
	SouthEast: "SE",
}

// DirectionFromD8 converts a D8 scatter roll into a direction.
func DirectionFromD8(roll int) (Direction, error) {
	if roll < 1 || roll > 8 {
		return NoDirection, fmt.Errorf("invalid D8 roll %d", roll)
	}
	return Direction(roll), nil
}

// DirectionBetween returns the compass direction from one square towards another.
// Squares that are not in a straight or diagonal line are snapped to the
// nearest compass direction by sign.
func DirectionBetween(from, to Position) Direction {
	return directionFromVector(sign(to.X-from.X), sign(to.Y-from.Y))
}

// Vector returns the unit step for the direction.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case NorthWest, West, SouthWest:
		dx = -1
	case NorthEast, East, SouthEast:
		dx = 1
	}
	switch d {
	case NorthWest, North, NorthEast:
		dy = 1
	case SouthWest, South, SouthEast:
		dy = -1
	}
	return dx, dy
}

// Invert returns the opposite direction.
func (d Direction) Invert() Direction {
	dx, dy := d.Vector()
	return directionFromVector(-dx, -dy)
}

// D8 returns the scatter roll that produces the direction.
func (d Direction) D8() int {
	return int(d)
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "None"
}

// MarshalText encodes the direction as its compass abbreviation.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func directionFromVector(dx, dy int) Direction {
	for _, dir := range Directions {
		ddx, ddy := dir.Vector()
		if ddx == dx && ddy == dy {
			return dir
		}
	}
	return NoDirection
}
