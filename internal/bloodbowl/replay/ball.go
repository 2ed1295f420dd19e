package replay

import (
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

// bounceBall bounces the loose ball once from where it lies and follows it
// until it comes to rest, is caught or goes out.
func (r *Replay) bounceBall() error {
	e, err := nextEntry[*logreader.BounceEntry](r)
	if err != nil {
		return err
	}
	return r.bounceFrom(r.board.BallPosition(), e)
}

// bounceFrom applies one bounce. The game sometimes logs a bounce it then
// discards: a bounce followed by another bounce in the same batch, with no
// catch between them, never happened and the ball bounces again from the
// same square.
func (r *Replay) bounceFrom(from pitch.Position, e *logreader.BounceEntry) error {
	to := from.Scatter(e.Direction, 1)
	if !to.OnPitch() {
		r.board.SetBall(from)
		if err := r.emit(&Bounce{From: from, To: to, Direction: e.Direction}); err != nil {
			return err
		}
		return r.throwIn(from, to)
	}

	occupant := r.board.PlayerAt(to)
	switch {
	case occupant != nil && r.board.CanCatch(occupant):
		if _, ok := r.peekAction(occupant, rules.ActionCatch); ok {
			r.board.SetBall(to)
			if err := r.emit(&Bounce{From: from, To: to, Direction: e.Direction}); err != nil {
				return err
			}
			return r.catchBall(occupant)
		}
		if ghost, ok := peekInBatch[*logreader.BounceEntry](r); ok {
			r.log.Next()
			r.debugf("ghost bounce %s to %s", e.Direction, to)
			return r.bounceFrom(from, ghost)
		}
		return r.errorf(ErrUnexpectedLogEntry, "ball bounced to %s at %s without a catch", occupant, to)
	case occupant != nil:
		r.board.SetBall(to)
		if err := r.emit(&Bounce{From: from, To: to, Direction: e.Direction}); err != nil {
			return err
		}
		return r.bounceBall()
	}

	if ghost, ok := peekInBatch[*logreader.BounceEntry](r); ok {
		r.log.Next()
		r.debugf("ghost bounce %s to %s", e.Direction, to)
		return r.bounceFrom(from, ghost)
	}
	r.board.SetBall(to)
	return r.emit(&Bounce{From: from, To: to, Direction: e.Direction})
}

// catchBall resolves a catch by the player under the ball. A dropped ball
// bounces.
func (r *Replay) catchBall(p *team.Player) error {
	r.board.SetBall(p.Position)
	result, err := r.rollWithReroll(p, rules.ActionCatch, rules.Catch, false)
	if err != nil {
		return err
	}
	if result == rules.Success {
		r.board.SetCarrier(p)
		return nil
	}
	r.acknowledge()
	return r.bounceBall()
}

// landBall drops a thrown ball on a square.
func (r *Replay) landBall(pos pitch.Position) error {
	r.board.SetBall(pos)
	if p := r.board.PlayerAt(pos); p != nil {
		if r.board.CanCatch(p) {
			return r.catchBall(p)
		}
		return r.bounceBall()
	}
	if _, ok := peekInBatch[*logreader.BounceEntry](r); ok {
		return r.bounceBall()
	}
	return nil
}

// throwIn returns a ball that left the pitch between from and off. The
// crowd can throw it straight back out, in which case it is thrown in again.
func (r *Replay) throwIn(from, off pitch.Position) error {
	dir, err := nextEntry[*logreader.ThrowInDirectionEntry](r)
	if err != nil {
		return err
	}
	dist, err := nextEntry[*logreader.ThrowInDistanceEntry](r)
	if err != nil {
		return err
	}
	landing, last := pitch.ThrowIn(from, off, dir.Direction, r.board.Kicker().PlayDirection(), dist.Distance)
	err = r.emit(&ThrowIn{From: from, To: landing, Direction: dir.Direction, Distance: dist.Distance})
	if err != nil {
		return err
	}
	if !landing.OnPitch() {
		r.board.SetBall(last)
		return r.throwIn(last, landing)
	}
	return r.landBall(landing)
}

// scatterBall moves an inaccurate pass three squares from its target.
func (r *Replay) scatterBall(target pitch.Position) error {
	pos, out, err := r.scatter(target)
	if err != nil {
		return err
	}
	if out.OnPitch() {
		return r.landBall(pos)
	}
	r.board.SetBall(pos)
	return r.throwIn(pos, out)
}

// scatter reads the three scatter rolls from a target. It returns the last
// on-pitch square and, if the scatter left the pitch, the square outside.
func (r *Replay) scatter(target pitch.Position) (pitch.Position, pitch.Position, error) {
	pos := target
	for range 3 {
		e, err := nextEntry[*logreader.ScatterEntry](r)
		if err != nil {
			return pos, pos, err
		}
		to := pos.Scatter(e.Direction, 1)
		if err := r.emit(&Scatter{From: pos, To: to, Direction: e.Direction}); err != nil {
			return pos, pos, err
		}
		if !to.OnPitch() {
			return pos, to, nil
		}
		pos = to
	}
	return pos, pos, nil
}

// settleLooseBall bounces a ball that a fall or a push left under or beside
// a player. carrier is who held the ball before the action.
func (r *Replay) settleLooseBall(carrier *team.Player) error {
	if r.board.Carrier() != nil {
		return nil
	}
	ball := r.board.BallPosition()
	if !ball.OnPitch() {
		return nil
	}
	if carrier == nil && r.board.PlayerAt(ball) == nil {
		return nil
	}
	return r.bounceBall()
}
