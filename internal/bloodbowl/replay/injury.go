package replay

import (
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

// knockDown puts the player on the ground and rolls armour and injury.
func (r *Replay) knockDown(p *team.Player) error {
	r.board.KnockDown(p)
	if err := r.emit(&PlayerDown{Player: p}); err != nil {
		return err
	}
	e, err := r.roll(p, rules.ActionArmour)
	if err != nil {
		return err
	}
	if e.Result != rules.Success {
		return nil
	}
	return r.injury(p)
}

// knockDownAll knocks several players down in the order the log rolls
// their armour.
func (r *Replay) knockDownAll(players []*team.Player) error {
	for len(players) > 0 {
		next := 0
		if e, ok := peekEntry[*logreader.ActionEntry](r); ok && e.Action == rules.ActionArmour {
			for i, p := range players {
				if sameActor(p, e.Actor) {
					next = i
					break
				}
			}
		}
		p := players[next]
		players = append(players[:next:next], players[next+1:]...)
		if err := r.knockDown(p); err != nil {
			return err
		}
	}
	return nil
}

// injury reads the injury roll, and the casualty roll for an injured
// player, then applies the result.
func (r *Replay) injury(p *team.Player) error {
	e, err := nextEntry[*logreader.InjuryEntry](r)
	if err != nil {
		return err
	}
	if err := r.checkActor(p, e.Actor); err != nil {
		return err
	}
	if err := r.emit(&InjuryRoll{Player: p, Roll: e.Roll, Result: e.Result}); err != nil {
		return err
	}

	casualty := rules.NoCasualty
	if e.Result == rules.Injured {
		c, err := nextEntry[*logreader.CasualtyEntry](r)
		if err != nil {
			return err
		}
		if err := r.checkActor(p, c.Actor); err != nil {
			return err
		}
		if err := r.emit(&Casualty{Player: p, Roll: c.Roll, Result: c.Result}); err != nil {
			return err
		}
		casualty = c.Result
	}
	return r.settleInjury(p, e.Result, casualty)
}

// settleInjury offers the apothecary and applies the final injury.
func (r *Replay) settleInjury(p *team.Player, result rules.InjuryResult, casualty rules.Casualty) error {
	if result != rules.Stunned {
		var err error
		result, casualty, err = r.apothecary(p, result, casualty)
		if err != nil {
			return err
		}
	}

	switch result {
	case rules.Stunned:
		if p.OnPitch() {
			r.board.Injure(p, rules.Stunned)
		}
	case rules.KO:
		r.board.Injure(p, rules.KO)
	case rules.Injured:
		r.board.SetCasualty(p, casualty)
	case rules.NoInjury:
		// Patched up to badly hurt: back in the reserves for the next drive.
		r.board.SetCasualty(p, casualty)
		r.board.Recover(p)
	}
	return nil
}

// apothecary treats a KO or casualty if the coach calls for it. A KO'd
// player is revived as stunned; a casualty is rerolled and the coach keeps
// either result.
func (r *Replay) apothecary(p *team.Player, result rules.InjuryResult, casualty rules.Casualty) (rules.InjuryResult, rules.Casualty, error) {
	cmd, ok := peekCommand[*commands.Apothecary](r)
	if !ok || cmd.Team != p.Team || cmd.Player != p.Index {
		return result, casualty, nil
	}
	r.skipCommand()
	if !cmd.Used {
		return result, casualty, nil
	}

	e, err := nextEntry[*logreader.ApothecaryEntry](r)
	if err != nil {
		return result, casualty, err
	}
	if e.Number != p.Number {
		return result, casualty, r.errorf(ErrInputMismatch, "apothecary treated #%d, expected %s", e.Number, p)
	}
	r.board.UseApothecary(p.Team)

	switch result {
	case rules.KO:
		if err := r.emit(&Apothecary{Player: p, Injury: rules.Stunned, Casualty: rules.NoCasualty}); err != nil {
			return result, casualty, err
		}
		return rules.Stunned, rules.NoCasualty, r.emit(&InjuryRoll{Player: p, Result: rules.Stunned})
	case rules.Injured:
		c, err := nextEntry[*logreader.CasualtyEntry](r)
		if err != nil {
			return result, casualty, err
		}
		if err := r.emit(&Casualty{Player: p, Roll: c.Roll, Result: c.Result}); err != nil {
			return result, casualty, err
		}
		choice, err := nextCommand[*commands.ApothecaryChoice](r)
		if err != nil {
			return result, casualty, err
		}
		if choice.Casualty != casualty && choice.Casualty != c.Result {
			return result, casualty, r.errorf(ErrInputMismatch, "apothecary kept %s, rolled %s and %s", choice.Casualty, casualty, c.Result)
		}
		injury := rules.Injured
		if choice.Casualty == rules.BadlyHurt {
			injury = rules.NoInjury
		}
		err = r.emit(&Apothecary{Player: p, Injury: injury, Casualty: choice.Casualty})
		return injury, choice.Casualty, err
	default:
		return result, casualty, nil
	}
}
