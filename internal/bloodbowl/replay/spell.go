package replay

import (
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

// spell resolves a wizard's spell. Every player hit rolls for the spell and
// is knocked down on a success. The log holds any bounce of a dropped ball
// back until all hits are resolved.
func (r *Replay) spell() error {
	c, err := nextCommand[*commands.Spell](r)
	if err != nil {
		return err
	}
	e, err := nextEntry[*logreader.SpellEntry](r)
	if err != nil {
		return err
	}
	if e.Spell != c.Spell {
		return r.errorf(ErrInputMismatch, "cast %s, log says %s", c.Spell, e.Spell)
	}
	if err := r.emit(&Spell{Team: e.Team, Spell: c.Spell, Target: c.Target}); err != nil {
		return err
	}

	carrier := r.board.Carrier()
	for {
		hit, ok := peekEntry[*logreader.ActionEntry](r)
		if !ok || !hit.Action.IsSpellHit() {
			break
		}
		r.log.Next()
		p, err := r.logPlayer(hit.Actor)
		if err != nil {
			return err
		}
		err = r.emit(&Action{Player: p, Action: hit.Action, Required: hit.Required, Roll: hit.Roll, Result: hit.Result})
		if err != nil {
			return err
		}
		if hit.Result == rules.Success {
			if err := r.knockDown(p); err != nil {
				return err
			}
		}
	}

	if _, ok := peekInBatch[*logreader.BounceEntry](r); ok {
		if err := r.settleLooseBall(carrier); err != nil {
			return err
		}
	}
	if t, ok := peekInBatch[*logreader.TurnoverEntry](r); ok && t.Team == r.board.ActiveTeam() {
		return r.turnover()
	}
	return nil
}
