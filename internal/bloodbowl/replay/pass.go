package replay

import (
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

func (r *Replay) handoff() error {
	c, err := nextCommand[*commands.TargetSpace](r)
	if err != nil {
		return err
	}
	p, err := r.player(c.Actor)
	if err != nil {
		return err
	}
	receiver := r.board.PlayerAt(c.Target)
	if receiver == nil || receiver.Team != p.Team || r.board.Carrier() != p || !p.Position.Adjacent(c.Target) {
		return r.errorf(ErrUnexpectedCommand, "hand-off from %s to %s", p, c.Target)
	}
	if err := r.emit(&Handoff{Player: p, Target: receiver}); err != nil {
		return err
	}
	if err := r.catchBall(receiver); err != nil {
		return err
	}
	return r.checkPossession(p.Team)
}

func (r *Replay) pass() error {
	c, err := nextCommand[*commands.Throw](r)
	if err != nil {
		return err
	}
	p, err := r.player(c.Actor)
	if err != nil {
		return err
	}
	if r.board.Carrier() != p {
		return r.errorf(ErrUnexpectedCommand, "%s passed without the ball", p)
	}
	if err := r.throwBall(p, c.Target); err != nil {
		return err
	}
	return r.checkPossession(p.Team)
}

// checkPossession ends the turn if the side no longer holds the ball.
func (r *Replay) checkPossession(t rules.TeamType) error {
	if carrier := r.board.Carrier(); carrier != nil && carrier.Team == t {
		return nil
	}
	return r.turnover()
}

// dumpOff is a quick pass by a defender about to be blocked.
func (r *Replay) dumpOff(p *team.Player, c *commands.DumpOff) error {
	thrower, err := r.player(c.Actor)
	if err != nil {
		return err
	}
	if thrower != p || r.board.Carrier() != p {
		return r.errorf(ErrUnexpectedCommand, "dump-off by %s", thrower)
	}
	if err := r.emit(&Skill{Player: p, Skill: rules.DumpOff}); err != nil {
		return err
	}
	r.skipSkillEntry(p, rules.DumpOff)
	return r.throwBall(p, c.Target)
}

// throwBall resolves a pass from p to the target square, including an
// interception attempt by the opposing side.
func (r *Replay) throwBall(p *team.Player, target pitch.Position) error {
	takeCommand[*commands.Intercept](r)
	if e, ok := peekEntry[*logreader.ActionEntry](r); ok && e.Action == rules.ActionCatch && e.Team != p.Team {
		interceptor, err := r.logPlayer(e.Actor)
		if err != nil {
			return err
		}
		result, err := r.rollWithReroll(interceptor, rules.ActionCatch, rules.Catch, false)
		if err != nil {
			return err
		}
		if err := r.emit(&Interception{Player: interceptor, Result: result}); err != nil {
			return err
		}
		if result == rules.Success {
			r.board.SetCarrier(interceptor)
			return nil
		}
	}

	e, err := r.throwRoll(p, rules.ActionPass)
	if err != nil {
		return err
	}
	if err := r.emit(&Pass{Player: p, Target: target, Result: e.Result}); err != nil {
		return err
	}
	if e.Result != rules.AccuratePass {
		rerolled, err := r.reroll(p, rules.Pass, false)
		if err != nil {
			return err
		}
		if rerolled {
			if e, err = r.throwRoll(p, rules.ActionPass); err != nil {
				return err
			}
			if err := r.emit(&Pass{Player: p, Target: target, Result: e.Result}); err != nil {
				return err
			}
		}
	}

	r.board.SetBall(p.Position)
	switch e.Result {
	case rules.AccuratePass:
		return r.landBall(target)
	case rules.InaccuratePass:
		return r.scatterBall(target)
	default:
		r.acknowledge()
		return r.bounceBall()
	}
}

func (r *Replay) throwRoll(p *team.Player, action rules.ActionType) (*logreader.ThrowEntry, error) {
	e, err := nextEntry[*logreader.ThrowEntry](r)
	if err != nil {
		return nil, err
	}
	if e.Action != action {
		return nil, r.errorf(ErrUnexpectedLogEntry, "expected %s, got %s", action, e.Action)
	}
	return e, r.checkActor(p, e.Actor)
}

// throwTeammate throws a Right Stuff team-mate. The thrown player scatters
// from the target square and must land on his feet.
func (r *Replay) throwTeammate(p, thrown *team.Player) error {
	if p.HasSkill(rules.AlwaysHungry) {
		if _, ok := r.peekAction(p, rules.ActionAlwaysHungry); ok {
			e, err := r.roll(p, rules.ActionAlwaysHungry)
			if err != nil {
				return err
			}
			if e.Result != rules.Success {
				return r.errorf(ErrUnimplemented, "%s ate %s", p, thrown)
			}
		}
	}

	actor := commands.Actor{Team: p.Team, Player: p.Index}
	if steps := r.steps(actor); len(steps) > 0 {
		ok, err := r.move(p, steps)
		if err != nil || !ok {
			return err
		}
	}

	c, err := nextCommand[*commands.Throw](r)
	if err != nil {
		return err
	}
	e, err := r.throwRoll(p, rules.ActionThrowTeamMate)
	if err != nil {
		return err
	}
	err = r.emit(&ThrowTeammate{Player: p, Thrown: thrown, Target: c.Target, Result: e.Result})
	if err != nil {
		return err
	}

	carrier := r.board.Carrier()
	landing := thrown.Position
	if e.Result != rules.Fumble {
		pos, out, err := r.scatter(c.Target)
		if err != nil {
			return err
		}
		if !out.OnPitch() {
			return r.throwIntoCrowd(thrown, pos, out, carrier == thrown)
		}
		landing = pos
	}
	if occupant := r.board.PlayerAt(landing); occupant != nil && occupant != thrown {
		return r.errorf(ErrUnimplemented, "%s landed on %s", thrown, occupant)
	}
	if err := r.board.Place(thrown, landing); err != nil {
		return r.errorf(ErrValidation, "landing: %v", err)
	}

	le, err := r.roll(thrown, rules.ActionLanding)
	if err != nil {
		return err
	}
	if le.Result == rules.Success {
		return nil
	}
	r.acknowledge()
	if err := r.knockDown(thrown); err != nil {
		return err
	}
	if carrier != thrown {
		return nil
	}
	if err := r.settleLooseBall(carrier); err != nil {
		return err
	}
	return r.turnover()
}

// throwIntoCrowd handles a team-mate thrown off the pitch. The crowd injure
// him and throw back any ball he held.
func (r *Replay) throwIntoCrowd(thrown *team.Player, last, out pitch.Position, carried bool) error {
	r.board.Remove(thrown)
	if err := r.emit(&Landing{Player: thrown, Position: pitch.OffPitch, Result: rules.Failure}); err != nil {
		return err
	}
	if err := r.injury(thrown); err != nil {
		return err
	}
	if !carried {
		return nil
	}
	r.board.SetBall(last)
	if err := r.throwIn(last, out); err != nil {
		return err
	}
	return r.checkPossession(thrown.Team)
}
