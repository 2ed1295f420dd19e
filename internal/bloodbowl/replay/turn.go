package replay

import (
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

// playTurn runs actions until the active side's turn ends, a touchdown is
// scored or the match is abandoned.
func (r *Replay) playTurn() (turnOutcome, error) {
	r.turnChanged = false
	for {
		cmd, ok := r.cmds.Peek()
		if !ok {
			return 0, r.errorf(ErrEndOfCommands, "during %s turn %d", r.board.ActiveTeam(), r.board.DisplayTurn())
		}

		switch c := cmd.(type) {
		case *commands.EndTurn:
			r.skipCommand()
			if c.Team != r.board.ActiveTeam() && c.Team != rules.Hotseat {
				return 0, r.errorf(ErrInputMismatch, "%s ended %s's turn", c.Team, r.board.ActiveTeam())
			}
			reason := ""
			if e, ok := peekEntry[*logreader.TurnoverEntry](r); ok && e.Team == r.board.ActiveTeam() {
				r.log.Next()
				reason = e.Reason
			}
			return turnEnded, r.endTurn(reason)
		case *commands.AbandonMatch:
			r.skipCommand()
			return matchAbandoned, r.emit(&AbandonMatch{Team: c.Team})
		}

		if err := r.action(); err != nil {
			return 0, err
		}
		if scorer := r.board.Scorer(); scorer != nil {
			return turnTouchdown, r.touchdown(scorer)
		}
		if r.turnChanged {
			return turnEnded, nil
		}
	}
}

// action dispatches the next command to the engine for its kind of action.
func (r *Replay) action() error {
	cmd, ok := r.cmds.Peek()
	if !ok {
		return r.errorf(ErrEndOfCommands, "expected an action")
	}
	switch c := cmd.(type) {
	case *commands.Movement, *commands.EndMovement:
		return r.moveAction()
	case *commands.TargetPlayer:
		r.skipCommand()
		return r.targetPlayer(c)
	case *commands.TargetSpace:
		return r.handoff()
	case *commands.Throw:
		return r.pass()
	case *commands.Spell:
		return r.spell()
	case *commands.DeclineReroll, *commands.DiceChoice, *commands.PreKickoffComplete, *commands.PickupBall:
		// Acknowledgements the client repeats after the roll they answer.
		r.skipCommand()
		return nil
	default:
		r.skipCommand()
		return r.errorf(ErrUnexpectedCommand, "%s in %s's turn", commands.Name(cmd), r.board.ActiveTeam())
	}
}

// targetPlayer resolves an action declared against another player. Against
// an opponent it is a block or blitz. Against a team-mate it declares a pass
// or hand-off that later commands carry out, unless it is a team-mate throw.
func (r *Replay) targetPlayer(c *commands.TargetPlayer) error {
	p, err := r.player(c.Actor)
	if err != nil {
		return err
	}
	target := r.board.PlayerAt(c.Target)
	switch {
	case target == nil:
		return nil
	case target.Team != p.Team:
		return r.block(p, target)
	case p.HasSkill(rules.ThrowTeamMate) && target.HasSkill(rules.RightStuff):
		return r.throwTeammate(p, target)
	default:
		return nil
	}
}

func (r *Replay) touchdown(p *team.Player) error {
	r.board.Touchdown(p)
	err := r.emit(&Touchdown{
		Player:    p,
		HomeScore: r.board.Score(rules.Home),
		AwayScore: r.board.Score(rules.Away),
	})
	if err != nil {
		return err
	}
	takeCommand[*commands.EndTurn](r)
	if r.turnChanged {
		return nil
	}
	return r.endTurn("Touchdown!")
}

// offTurn plays a free activation granted by the kick-off table. The turn
// counter does not move.
func (r *Replay) offTurn(t rules.TeamType, event rules.KickoffEvent) error {
	if err := r.emit(&OffTurnStart{Team: t, Event: event}); err != nil {
		return err
	}
	r.inOffTurn = true
	r.offTurnReason = ""
	r.turnChanged = false
	r.board.SetActiveTeam(t)
	r.board.SetQuickSnap(event == rules.QuickSnap)
	r.board.SetBlitz(event == rules.Blitz)

	for !r.turnChanged {
		if _, ok := takeCommand[*commands.EndTurn](r); ok {
			break
		}
		if err := r.action(); err != nil {
			return err
		}
	}

	r.inOffTurn = false
	r.turnChanged = false
	r.board.EndOffTurn()
	r.board.SetActiveTeam(r.board.Receiver())
	return r.emit(&OffTurnEnd{Team: t, Event: event, Reason: r.offTurnReason})
}

func (r *Replay) skipCommand() {
	if cmd, ok := r.cmds.Next(); ok {
		r.lastCommand = cmd.Info().ID
	}
}
