package pitch

import (
	"fmt"
)

// ThrowInDirection is the tri-state result of the throw-in template roll.
type ThrowInDirection int

const (
	DownPitch ThrowInDirection = iota + 1
	Centre
	UpPitch
)

// ThrowInDirectionFromD6 maps the D6 template roll: 1-2 down-pitch, 3-4 centre, 5-6 up-pitch.
func ThrowInDirectionFromD6(roll int) (ThrowInDirection, error) {
	switch roll {
	case 1, 2:
		return DownPitch, nil
	case 3, 4:
		return Centre, nil
	case 5, 6:
		return UpPitch, nil
	default:
		return 0, fmt.Errorf("invalid D6 roll %d", roll)
	}
}

func (d ThrowInDirection) String() string {
	switch d {
	case DownPitch:
		return "DownPitch"
	case Centre:
		return "Centre"
	case UpPitch:
		return "UpPitch"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the throw-in direction by name.
func (d ThrowInDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Edge identifies which side of the pitch a ball left by.
type Edge int

const (
	NoEdge Edge = iota
	WestEdge
	EastEdge
	SouthEdge
	NorthEdge
)

// EdgeOf returns the edge an off-pitch square lies beyond. Corner squares count
// as the sideline.
func EdgeOf(off Position) Edge {
	switch {
	case off.X < 0:
		return WestEdge
	case off.X >= Width:
		return EastEdge
	case off.Y < 0:
		return SouthEdge
	case off.Y >= Length:
		return NorthEdge
	default:
		return NoEdge
	}
}

// ThrowInVector returns the unit step of a throw-in from the given edge.
// playDirection is the y direction (+1 or -1) the kicking team advances in;
// down-pitch throws follow it along the sidelines. From the end lines
// down-pitch throws bear west.
func ThrowInVector(edge Edge, dir ThrowInDirection, playDirection int) (dx, dy int) {
	lateral := 0
	switch dir {
	case DownPitch:
		lateral = 1
	case UpPitch:
		lateral = -1
	}

	switch edge {
	case WestEdge:
		return 1, lateral * playDirection
	case EastEdge:
		return -1, lateral * playDirection
	case SouthEdge:
		return -lateral, 1
	case NorthEdge:
		return -lateral, -1
	default:
		return 0, 0
	}
}

// ThrowIn computes where a ball thrown back in from origin lands. origin is the
// last on-pitch square the ball touched and off the square beyond the edge it
// left by. last is the final on-pitch square on the throw's path, which is the
// origin of any further throw-in when landing is off the pitch.
func ThrowIn(origin, off Position, dir ThrowInDirection, playDirection, distance int) (landing, last Position) {
	dx, dy := ThrowInVector(EdgeOf(off), dir, playDirection)
	last = origin
	for step := 1; step <= distance; step++ {
		next := origin.Add(dx*step, dy*step)
		if !next.OnPitch() {
			return next, last
		}
		last = next
	}
	return last, last
}
