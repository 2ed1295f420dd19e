package replay

import (
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

type stepOutcome int

const (
	stepMoved stepOutcome = iota
	stepHeld
	stepFell
)

func (r *Replay) moveAction() error {
	actor, _ := commands.PlayerOf(r.peekCommandAny())
	p, err := r.player(actor)
	if err != nil {
		return err
	}
	_, err = r.move(p, r.steps(actor))
	return err
}

// steps consumes the actor's run of movement commands up to and including
// its final step.
func (r *Replay) steps(actor commands.Actor) []pitch.Position {
	var targets []pitch.Position
	for {
		switch c := r.peekCommandAny().(type) {
		case *commands.Movement:
			if c.Actor != actor {
				return targets
			}
			r.skipCommand()
			targets = append(targets, c.Target)
		case *commands.EndMovement:
			if c.Actor != actor {
				return targets
			}
			r.skipCommand()
			return append(targets, c.Target)
		default:
			return targets
		}
	}
}

// move walks the player along the declared steps. It reports whether the
// player is still on his feet and free to act at the end.
func (r *Replay) move(p *team.Player, targets []pitch.Position) (bool, error) {
	ok, err := r.uncontrollable(p)
	if err != nil || !ok {
		return false, err
	}
	if r.board.IsProne(p) {
		r.board.StandUp(p)
		if err := r.emit(&StandUp{Player: p}); err != nil {
			return false, err
		}
	}

	for i, to := range targets {
		from := p.Position
		carrier := r.board.Carrier()
		outcome, err := r.step(p, to)
		if err != nil {
			return false, err
		}
		if outcome == stepMoved {
			if ok, err := r.pickup(p); err != nil || !ok {
				return false, err
			}
			continue
		}

		for _, rest := range targets[i:] {
			if err := r.emit(&FailedMovement{Player: p, From: from, To: rest}); err != nil {
				return false, err
			}
			from = rest
		}
		if outcome == stepHeld {
			return false, nil
		}
		if err := r.settleLooseBall(carrier); err != nil {
			return false, err
		}
		return false, r.turnover()
	}

	if e, ok := peekInBatch[*logreader.TurnoverEntry](r); ok {
		return false, r.timeout(e)
	}
	return true, nil
}

// step resolves one square of movement and the rolls it needs.
func (r *Replay) step(p *team.Player, to pitch.Position) (stepOutcome, error) {
	from := p.Position
	leap := from.Distance(to) > 1
	dodge := !leap && r.board.IsDodge(p, to)
	gfi := r.board.Moves(p) >= p.MA
	var tackler *team.Player

rolls:
	for dodge || gfi || leap {
		switch e := r.peekLog().(type) {
		case *logreader.TentacledEntry:
			if !sameActor(p, e.Target) {
				return stepMoved, r.errorf(ErrUnexpectedLogEntry, "tentacles on #%d while %s moves", e.Target.Number, p)
			}
			held, err := r.tentacled(p, e)
			if err != nil || held {
				return stepHeld, err
			}
			continue
		case *logreader.SkillEntry:
			if e.Skill != rules.DivingTackle || e.Team == p.Team || tackler != nil {
				return stepMoved, r.errorf(ErrUnexpectedLogEntry, "#%d used %s while %s moves", e.Number, e.Skill, p)
			}
			r.log.Next()
			user, err := r.logPlayer(e.Actor)
			if err != nil {
				return stepMoved, err
			}
			tackler = user
			if err := r.emit(&Skill{Player: user, Skill: rules.DivingTackle}); err != nil {
				return stepMoved, err
			}
			continue
		case *logreader.TurnoverEntry:
			if err := r.timeout(e); err != nil {
				return stepMoved, err
			}
			continue
		case *logreader.ActionEntry:
			if !sameActor(p, e.Actor) || e.Action == rules.ActionPickup {
				break rolls
			}
			var result rules.ActionResult
			var err error
			switch {
			case e.Action == rules.ActionLeap && leap:
				leap = false
				result, err = r.rollWithReroll(p, rules.ActionLeap, rules.NoSkill, false)
			case e.Action == rules.ActionDodge && dodge:
				dodge = false
				result, err = r.rollWithReroll(p, rules.ActionDodge, rules.Dodge, tackler != nil)
			case e.Action == rules.ActionGoingForIt && gfi:
				gfi = false
				result, err = r.rollWithReroll(p, rules.ActionGoingForIt, rules.SureFeet, false)
			default:
				return stepMoved, r.errorf(ErrUnexpectedLogEntry, "%s roll while %s moves to %s", e.Action, p, to)
			}
			if err != nil {
				return stepMoved, err
			}
			if result == rules.Failure {
				return stepFell, r.fall(p, to, tackler)
			}
			continue
		}
		// The rolls left are not in the log: the game did not need them.
		break
	}

	if err := r.board.Move(p, to); err != nil {
		return stepMoved, r.errorf(ErrValidation, "move: %v", err)
	}
	if err := r.emit(&Movement{Player: p, From: from, To: to}); err != nil {
		return stepMoved, err
	}
	if tackler != nil {
		return stepMoved, r.divingTackle(tackler, p, from)
	}
	return stepMoved, nil
}

// fall knocks a player down after a failed movement roll. A diving tackler
// takes the square the player left, so the player falls in the target square.
func (r *Replay) fall(p *team.Player, to pitch.Position, tackler *team.Player) error {
	r.acknowledge()
	if tackler != nil {
		from := p.Position
		if err := r.board.Place(p, to); err != nil {
			return r.errorf(ErrValidation, "diving tackle: %v", err)
		}
		if err := r.divingTackle(tackler, p, from); err != nil {
			return err
		}
	}
	return r.knockDown(p)
}

func (r *Replay) divingTackle(tackler, target *team.Player, at pitch.Position) error {
	if err := r.board.Place(tackler, at); err != nil {
		return r.errorf(ErrValidation, "diving tackle: %v", err)
	}
	r.board.KnockDown(tackler)
	return r.emit(&DivingTackle{Player: tackler, Target: target, Position: at})
}

// tentacled resolves an opponent's attempt to hold the player in place. It
// reports whether the player was held.
func (r *Replay) tentacled(p *team.Player, e *logreader.TentacledEntry) (bool, error) {
	r.log.Next()
	user, err := r.logPlayer(e.User)
	if err != nil {
		return false, err
	}
	if err := r.emit(&Tentacled{User: user, Target: p, Result: e.Result}); err != nil {
		return false, err
	}
	// The roll is the mover's escape attempt.
	return e.Result != rules.Success, nil
}

// pickup picks up a loose ball the player stepped onto. It reports whether
// the player can carry on.
func (r *Replay) pickup(p *team.Player) (bool, error) {
	if r.board.Carrier() != nil || r.board.BallPosition() != p.Position {
		return true, nil
	}
	takeCommand[*commands.PickupBall](r)
	result, err := r.rollWithReroll(p, rules.ActionPickup, rules.SureHands, false)
	if err != nil {
		return false, err
	}
	if result == rules.Success {
		r.board.SetCarrier(p)
		return true, nil
	}
	r.acknowledge()
	if err := r.bounceBall(); err != nil {
		return false, err
	}
	return false, r.turnover()
}
