package replay

import (
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

// roll consumes the player's next dice roll of the given kind and emits it.
func (r *Replay) roll(p *team.Player, action rules.ActionType) (*logreader.ActionEntry, error) {
	e, err := nextEntry[*logreader.ActionEntry](r)
	if err != nil {
		return nil, err
	}
	if e.Action != action {
		return nil, r.errorf(ErrUnexpectedLogEntry, "expected %s roll for %s, got %s", action, p, e.Action)
	}
	if err := r.checkActor(p, e.Actor); err != nil {
		return nil, err
	}

	var event Event
	switch action {
	case rules.ActionPickup:
		event = &Pickup{Player: p, Position: p.Position, Result: e.Result}
	case rules.ActionArmour:
		event = &ArmourRoll{Player: p, Roll: e.Roll, Result: e.Result}
	case rules.ActionLanding:
		event = &Landing{Player: p, Position: p.Position, Result: e.Result}
	default:
		event = &Action{Player: p, Action: action, Required: e.Required, Roll: e.Roll, Result: e.Result}
	}
	return e, r.emit(event)
}

// rollWithReroll reads a roll and, if it failed, offers it to the reroll
// sources before reading the retried roll.
func (r *Replay) rollWithReroll(p *team.Player, action rules.ActionType, skill rules.Skill, modified bool) (rules.ActionResult, error) {
	e, err := r.roll(p, action)
	if err != nil {
		return 0, err
	}
	if e.Result == rules.Success {
		return rules.Success, nil
	}
	rerolled, err := r.reroll(p, skill, modified)
	if err != nil || !rerolled {
		return rules.Failure, err
	}
	e, err = r.roll(p, action)
	if err != nil {
		return 0, err
	}
	return e.Result, nil
}

// reroll tries the skill, Pro and team rerolls in that order and reports
// whether the failed roll is being retried. Modified rolls, such as a dodge
// under Diving Tackle, cannot use a skill reroll.
func (r *Replay) reroll(p *team.Player, skill rules.Skill, modified bool) (bool, error) {
	if ok, err := r.skillReroll(p, skill, modified); ok || err != nil {
		return ok, err
	}
	if ok, err := r.proReroll(p); ok || err != nil {
		return ok, err
	}
	if !r.mayTeamReroll(p) {
		return false, nil
	}

	switch cmd := r.peekCommandAny().(type) {
	case *commands.DeclineReroll, *commands.DiceChoice:
		r.skipCommand()
		return false, nil
	case *commands.Reroll:
		r.skipCommand()
		ok, err := r.teamReroll(p, cmd)
		if err != nil || !ok {
			return false, err
		}
		if modified {
			if err := r.modifierSkill(p); err != nil {
				return false, err
			}
		}
		return true, nil
	default:
		return false, nil
	}
}

func (r *Replay) skillReroll(p *team.Player, skill rules.Skill, modified bool) (bool, error) {
	if skill == rules.NoSkill || modified || !p.HasSkill(skill) {
		return false, nil
	}
	if cancel := skill.CancelledBy(); cancel != rules.NoSkill && r.board.HasAdjacentSkill(p, cancel) {
		return false, nil
	}
	e, ok := peekEntry[*logreader.SkillEntry](r)
	if !ok || e.Skill != skill || !sameActor(p, e.Actor) {
		return false, nil
	}
	r.log.Next()
	return true, r.emit(&Reroll{Team: p.Team, Player: p, Kind: RerollSkill, Skill: skill})
}

func (r *Replay) proReroll(p *team.Player) (bool, error) {
	if !p.HasSkill(rules.Pro) {
		return false, nil
	}
	if _, ok := takeCommand[*commands.ProReroll](r); !ok {
		return false, nil
	}
	e, err := r.roll(p, rules.ActionPro)
	if err != nil {
		return false, err
	}
	if e.Result != rules.Success {
		r.acknowledge()
		return false, nil
	}
	return true, r.emit(&Reroll{Team: p.Team, Player: p, Kind: RerollPro, Skill: rules.Pro})
}

func (r *Replay) mayTeamReroll(p *team.Player) bool {
	return p.Team == r.board.ActiveTeam() && r.board.CanReroll(p.Team)
}

// teamReroll spends the reroll the coach asked for. A Loner who fails his
// roll still burns it.
func (r *Replay) teamReroll(p *team.Player, cmd *commands.Reroll) (bool, error) {
	if cmd.Team != p.Team && cmd.Team != rules.Hotseat {
		return false, r.errorf(ErrInputMismatch, "%s rerolled for %s", cmd.Team, p)
	}
	if p.HasSkill(rules.Loner) {
		e, err := r.roll(p, rules.ActionLoner)
		if err != nil {
			return false, err
		}
		if e.Result != rules.Success {
			if err := r.board.UseReroll(p.Team); err != nil {
				return false, r.errorf(ErrValidation, "%v", err)
			}
			r.acknowledge()
			return false, nil
		}
	}

	kind := RerollTeam
	if e, ok := peekEntry[*logreader.LeaderRerollEntry](r); ok {
		r.log.Next()
		if e.Team != p.Team {
			return false, r.errorf(ErrInputMismatch, "%s used a Leader reroll for %s", e.Team, p)
		}
		if err := r.board.UseLeaderReroll(p.Team); err != nil {
			return false, r.errorf(ErrValidation, "%v", err)
		}
		kind = RerollLeader
	} else {
		e, err := nextEntry[*logreader.RerollEntry](r)
		if err != nil {
			return false, err
		}
		if e.Team != p.Team {
			return false, r.errorf(ErrInputMismatch, "%s used a reroll for %s", e.Team, p)
		}
		if err := r.board.UseReroll(p.Team); err != nil {
			return false, r.errorf(ErrValidation, "%v", err)
		}
	}
	return true, r.emit(&Reroll{Team: p.Team, Player: p, Kind: kind})
}

// modifierSkill reads an opponent's modifying skill that is applied again
// to a retried roll.
func (r *Replay) modifierSkill(p *team.Player) error {
	e, ok := peekEntry[*logreader.SkillEntry](r)
	if !ok || e.Team == p.Team {
		return nil
	}
	r.log.Next()
	user, err := r.logPlayer(e.Actor)
	if err != nil {
		return err
	}
	return r.emit(&Skill{Player: user, Skill: e.Skill})
}

// uncontrollable rolls the player's once-a-turn temper checks. It reports
// whether the player may act.
func (r *Replay) uncontrollable(p *team.Player) (bool, error) {
	if r.board.Tested(p) {
		return true, nil
	}
	r.board.MarkTested(p)

	checks := []struct {
		skill  rules.Skill
		action rules.ActionType
	}{
		{rules.ReallyStupid, rules.ActionReallyStupid},
		{rules.WildAnimal, rules.ActionWildAnimal},
	}
	for _, check := range checks {
		if !p.HasSkill(check.skill) {
			continue
		}
		if _, ok := r.peekAction(p, check.action); !ok {
			continue
		}
		result, err := r.rollWithReroll(p, check.action, rules.NoSkill, false)
		if err != nil {
			return false, err
		}
		if result == rules.Success {
			continue
		}
		if check.skill == rules.ReallyStupid {
			r.board.MarkStupid(p)
		}
		r.acknowledge()
		return false, nil
	}
	return true, nil
}

func (r *Replay) peekCommandAny() commands.Command {
	cmd, _ := r.cmds.Peek()
	return cmd
}
