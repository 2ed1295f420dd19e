// Package pitch holds Blood Bowl board geometry: squares, scatter directions,
// pushback candidates and throw-in trajectories.
package pitch

import (
	"fmt"
)

const (
	// Width is the number of columns on the pitch.
	Width = 15
	// Length is the number of rows on the pitch, endzones included.
	Length = 26
	// HalfwayRow is the first row of the home half. Rows below it belong to the away half.
	HalfwayRow = 13
	// LeftWidezoneEdge is the last column of the left widezone.
	LeftWidezoneEdge = 3
	// RightWidezoneEdge is the first column of the right widezone.
	RightWidezoneEdge = 11
)

// Position is a square on (or off) the pitch.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// OffPitch is the sentinel for players in the dugout.
var OffPitch = Position{X: -1, Y: -1}

// OnPitch reports whether the square is inside the 15x26 grid.
func (p Position) OnPitch() bool {
	return p.X >= 0 && p.X < Width && p.Y >= 0 && p.Y < Length
}

// Add returns the square offset by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Scatter returns the square n steps away in the given direction.
func (p Position) Scatter(dir Direction, n int) Position {
	dx, dy := dir.Vector()
	return p.Add(dx*n, dy*n)
}

// Distance is the Chebyshev distance between two squares, which is the number
// of single-square moves needed to get from one to the other.
func (p Position) Distance(other Position) int {
	return max(abs(p.X-other.X), abs(p.Y-other.Y))
}

// Adjacent reports whether the two squares touch, diagonals included.
func (p Position) Adjacent(other Position) bool {
	return p != other && p.Distance(other) == 1
}

// Neighbours returns the on-pitch squares of the 8-neighbourhood.
func (p Position) Neighbours() []Position {
	neighbours := make([]Position, 0, 8)
	for _, dir := range Directions {
		n := p.Scatter(dir, 1)
		if n.OnPitch() {
			neighbours = append(neighbours, n)
		}
	}
	return neighbours
}

// InEndzone reports whether the square is in either endzone.
func (p Position) InEndzone() bool {
	return p.OnPitch() && (p.Y == 0 || p.Y == Length-1)
}

// InWidezone reports whether the square is in either widezone.
func (p Position) InWidezone() bool {
	return p.OnPitch() && (p.X <= LeftWidezoneEdge || p.X >= RightWidezoneEdge)
}

func (p Position) String() string {
	if p == OffPitch {
		return "(off)"
	}
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
