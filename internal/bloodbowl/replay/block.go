package replay

import (
	"slices"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

// block resolves a block, or a blitz when the attacker moves first.
func (r *Replay) block(p, defender *team.Player) error {
	actor := commands.Actor{Team: p.Team, Player: p.Index}
	blitz := false
	switch c := r.peekCommandAny().(type) {
	case *commands.Movement:
		blitz = c.Actor == actor
	case *commands.EndMovement:
		blitz = c.Actor == actor
	}

	if blitz {
		if err := r.emit(&Blitz{Player: p, Target: defender}); err != nil {
			return err
		}
		ok, err := r.move(p, r.steps(actor))
		if err != nil || !ok {
			return err
		}
	} else {
		ok, err := r.uncontrollable(p)
		if err != nil || !ok {
			return err
		}
	}

	takeCommand[*commands.TargetSpace](r)

	gfi := false
	if blitz && r.board.Moves(p) >= p.MA {
		gfi = true
		carrier := r.board.Carrier()
		result, err := r.rollWithReroll(p, rules.ActionGoingForIt, rules.SureFeet, false)
		if err != nil {
			return err
		}
		if result == rules.Failure {
			r.acknowledge()
			if err := r.knockDown(p); err != nil {
				return err
			}
			if err := r.settleLooseBall(carrier); err != nil {
				return err
			}
			return r.turnover()
		}
		r.board.AddMoves(p, 1)
	}

	if c, ok := takeCommand[*commands.DumpOff](r); ok {
		if err := r.dumpOff(defender, c); err != nil {
			return err
		}
		if _, ok := r.peekAction(p, rules.ActionGoingForIt); ok && gfi {
			r.log.Next()
			r.debugf("duplicate going for it roll for %s after dump-off", p)
		}
	}

	if defender.HasSkill(rules.FoulAppearance) {
		if _, ok := r.peekAction(p, rules.ActionFoulAppearance); ok {
			result, err := r.rollWithReroll(p, rules.ActionFoulAppearance, rules.NoSkill, false)
			if err != nil {
				return err
			}
			if result == rules.Failure {
				r.acknowledge()
				return nil
			}
		}
	}

	return r.blockDice(p, defender, blitz, false)
}

// blockDice rolls and resolves one block. A Frenzy follow-on block calls it
// again with frenzied set.
func (r *Replay) blockDice(p, defender *team.Player, blitz, frenzied bool) error {
	dice, err := r.blockRoll(p)
	if err != nil {
		return err
	}

	chosen := dice[0]
	if c, ok := takeCommand[*commands.DiceChoice](r); ok {
		if c.Index < 0 || c.Index >= len(dice) {
			return r.errorf(ErrInputMismatch, "dice choice %d of %d block dice", c.Index, len(dice))
		}
		chosen = dice[c.Index]
	} else if len(dice) > 1 {
		if _, err := nextCommand[*commands.DiceChoice](r); err != nil {
			return err
		}
	}
	if err := r.emit(&Block{Blocker: p, Defender: defender, Dice: dice, Chosen: chosen}); err != nil {
		return err
	}

	juggernaut := blitz && p.HasSkill(rules.Juggernaut)
	if chosen == rules.BothDown && juggernaut {
		if c, ok := takeCommand[*commands.JuggernautChoice](r); ok && c.Use {
			if err := r.emit(&Skill{Player: p, Skill: rules.Juggernaut}); err != nil {
				return err
			}
			chosen = rules.Pushed
		}
	}

	carrier := r.board.Carrier()
	switch chosen {
	case rules.AttackerDown:
		if err := r.knockDown(p); err != nil {
			return err
		}
	case rules.BothDown:
		var fallen []*team.Player
		for _, player := range []*team.Player{p, defender} {
			if !player.HasSkill(rules.Block) {
				fallen = append(fallen, player)
				continue
			}
			r.skipSkillEntry(player, rules.Block)
			if err := r.emit(&BlockBothDown{Player: player}); err != nil {
				return err
			}
		}
		if err := r.knockDownAll(fallen); err != nil {
			return err
		}
	default:
		crowded, err := r.pushAndFollow(p, defender, chosen, juggernaut)
		if err != nil {
			return err
		}
		if crowded {
			carrier = nil
		}
	}

	if err := r.settleLooseBall(carrier); err != nil {
		return err
	}

	active := r.board.ActiveTeam()
	lostBall := carrier != nil && carrier.Team == active &&
		(r.board.Carrier() == nil || r.board.Carrier().Team != active)
	if r.board.IsProne(p) || !p.OnPitch() || lostBall {
		return r.turnover()
	}
	if e, ok := peekInBatch[*logreader.TurnoverEntry](r); ok && e.Team == active {
		return r.turnover()
	}

	if frenzied || !p.HasSkill(rules.Frenzy) || !r.canFrenzy(p, defender) {
		return nil
	}
	e, ok := peekEntry[*logreader.SkillEntry](r)
	if !ok || e.Skill != rules.Frenzy || !sameActor(p, e.Actor) {
		return nil
	}
	r.log.Next()
	if err := r.emit(&Skill{Player: p, Skill: rules.Frenzy}); err != nil {
		return err
	}
	if blitz && r.board.Moves(p) >= p.MA {
		result, err := r.rollWithReroll(p, rules.ActionGoingForIt, rules.SureFeet, false)
		if err != nil {
			return err
		}
		if result == rules.Failure {
			r.acknowledge()
			if err := r.knockDown(p); err != nil {
				return err
			}
			return r.turnover()
		}
		r.board.AddMoves(p, 1)
	}
	return r.blockDice(p, defender, blitz, true)
}

// canFrenzy reports whether a second Frenzy block is possible: the
// defender is still up next to the attacker and a blitzer has movement
// left.
func (r *Replay) canFrenzy(p, defender *team.Player) bool {
	if !defender.OnPitch() || r.board.IsProne(defender) || !p.Position.Adjacent(defender.Position) {
		return false
	}
	return r.board.Moves(p) < p.MA+2
}

// blockRoll reads the block dice and any reroll of them.
func (r *Replay) blockRoll(p *team.Player) ([]rules.BlockDie, error) {
	e, err := nextEntry[*logreader.BlockEntry](r)
	if err != nil {
		return nil, err
	}
	if err := r.checkActor(p, e.Actor); err != nil {
		return nil, err
	}
	if len(e.Dice) == 0 {
		return nil, r.errorf(ErrUnexpectedLogEntry, "block by %s with no dice", p)
	}

	rerolled, err := r.proReroll(p)
	if err != nil {
		return nil, err
	}
	if !rerolled && r.mayTeamReroll(p) {
		switch c := r.peekCommandAny().(type) {
		case *commands.Reroll:
			r.skipCommand()
			if rerolled, err = r.teamReroll(p, c); err != nil {
				return nil, err
			}
		case *commands.DeclineReroll:
			r.skipCommand()
		}
	}
	if !rerolled {
		return e.Dice, nil
	}

	e, err = nextEntry[*logreader.BlockEntry](r)
	if err != nil {
		return nil, err
	}
	if err := r.checkActor(p, e.Actor); err != nil {
		return nil, err
	}
	return e.Dice, nil
}

// pushAndFollow pushes the defender, lets the attacker follow up and knocks
// the defender down if the die says so. It reports whether the defender
// went into the crowd.
func (r *Replay) pushAndFollow(p, defender *team.Player, chosen rules.BlockDie, juggernaut bool) (bool, error) {
	knocked := chosen == rules.DefenderDown
	if chosen == rules.DefenderStumbles {
		if defender.HasSkill(rules.Dodge) && !p.HasSkill(rules.Tackle) {
			r.skipSkillEntry(defender, rules.Dodge)
			if err := r.emit(&DodgeBlock{Blocker: p, Defender: defender}); err != nil {
				return false, err
			}
		} else {
			knocked = true
		}
	}

	vacated := defender.Position
	crowded, err := r.pushback(p, defender)
	if err != nil {
		return false, err
	}

	if defender.HasSkill(rules.Fend) && !juggernaut {
		if err := r.emit(&Skill{Player: defender, Skill: rules.Fend}); err != nil {
			return false, err
		}
		takeCommand[*commands.FollowUpChoice](r)
	} else {
		follow := p.HasSkill(rules.Frenzy)
		if c, ok := takeCommand[*commands.FollowUpChoice](r); ok && c.FollowUp {
			follow = true
		}
		if follow && r.board.PlayerAt(vacated) == nil {
			from := p.Position
			if err := r.board.Place(p, vacated); err != nil {
				return false, r.errorf(ErrValidation, "follow up: %v", err)
			}
			if err := r.emit(&FollowUp{Player: p, Target: defender, From: from, To: vacated}); err != nil {
				return false, err
			}
		}
	}

	if knocked && !crowded {
		if err := r.knockDown(defender); err != nil {
			return false, err
		}
	}
	return crowded, nil
}

// pushback pushes a player away from the pusher, first moving anyone in the
// way. Chained pushes therefore resolve from the far end of the chain.
func (r *Replay) pushback(pusher, p *team.Player) (bool, error) {
	from := p.Position
	to, err := r.pushTarget(pusher, p)
	if err != nil {
		return false, err
	}

	if !to.OnPitch() {
		return true, r.crowdPush(pusher, p, from, to)
	}
	if occupant := r.board.PlayerAt(to); occupant != nil && occupant != p {
		if _, err := r.pushback(p, occupant); err != nil {
			return false, err
		}
	}
	if err := r.board.Place(p, to); err != nil {
		return false, r.errorf(ErrValidation, "push: %v", err)
	}
	return false, r.emit(&Pushback{Pusher: pusher, Player: p, From: from, To: to})
}

// pushTarget picks the square the player is pushed to. Empty squares come
// before the crowd, and the crowd before pushing into another player.
func (r *Replay) pushTarget(pusher, p *team.Player) (pitch.Position, error) {
	var free, out, taken []pitch.Position
	for _, c := range pitch.PushbackCandidates(pusher.Position, p.Position) {
		switch {
		case !c.OnPitch():
			out = append(out, c)
		case r.board.PlayerAt(c) == nil:
			free = append(free, c)
		default:
			taken = append(taken, c)
		}
	}
	options := free
	if len(options) == 0 {
		if len(out) > 0 {
			if c, ok := peekCommand[*commands.Pushback](r); ok && slices.Contains(out, c.Target) {
				r.skipCommand()
				return c.Target, nil
			}
			return out[0], nil
		}
		options = taken
	}

	sideStep := false
	if p.HasSkill(rules.SideStep) {
		if c, ok := takeCommand[*commands.SideStep](r); ok && c.Use {
			sideStep = true
			if err := r.emit(&Skill{Player: p, Skill: rules.SideStep}); err != nil {
				return pitch.OffPitch, err
			}
			options = nil
			for _, n := range p.Position.Neighbours() {
				if r.board.PlayerAt(n) == nil {
					options = append(options, n)
				}
			}
		}
	}

	if len(options) == 1 && !sideStep {
		if c, ok := peekCommand[*commands.Pushback](r); ok && c.Target == options[0] {
			r.skipCommand()
		}
		return options[0], nil
	}
	c, err := nextCommand[*commands.Pushback](r)
	if err != nil {
		return pitch.OffPitch, err
	}
	if !slices.Contains(options, c.Target) {
		return pitch.OffPitch, r.errorf(ErrInputMismatch, "push of %s to %s, options %v", p, c.Target, options)
	}
	return c.Target, nil
}

// crowdPush sends a player into the crowd, who injure him without an armour
// roll and throw back any ball he carried.
func (r *Replay) crowdPush(pusher, p *team.Player, from, out pitch.Position) error {
	carried := r.board.Carrier() == p
	r.board.Remove(p)
	if err := r.emit(&Pushback{Pusher: pusher, Player: p, From: from, To: pitch.OffPitch}); err != nil {
		return err
	}
	if err := r.injury(p); err != nil {
		return err
	}
	if !carried {
		return nil
	}
	r.board.SetBall(from)
	return r.throwIn(from, out)
}

func (r *Replay) skipSkillEntry(p *team.Player, skill rules.Skill) {
	if e, ok := peekEntry[*logreader.SkillEntry](r); ok && e.Skill == skill && sameActor(p, e.Actor) {
		r.log.Next()
	}
}
