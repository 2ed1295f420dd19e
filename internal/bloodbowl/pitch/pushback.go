package pitch

// PushbackCandidates returns the three squares on the far side of the defender
// from the blocker, in clockwise order when looking along the push. Squares may
// be off the pitch; filtering against occupancy is the board's job.
func PushbackCandidates(blocker, defender Position) []Position {
	dx := sign(defender.X - blocker.X)
	dy := sign(defender.Y - blocker.Y)

	switch {
	case dx == 0 && dy == 0:
		return nil
	case dy == 0:
		return []Position{defender.Add(dx, -1), defender.Add(dx, 0), defender.Add(dx, 1)}
	case dx == 0:
		return []Position{defender.Add(-1, dy), defender.Add(0, dy), defender.Add(1, dy)}
	default:
		return []Position{defender.Add(dx, 0), defender.Add(dx, dy), defender.Add(0, dy)}
	}
}
