package replay

import (
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/board"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

type turnOutcome int

const (
	turnEnded turnOutcome = iota + 1
	turnTouchdown
	matchAbandoned
)

func (r *Replay) playMatch() error {
	if err := r.matchEntry(); err != nil {
		return err
	}
	if err := r.coinToss(); err != nil {
		return err
	}
	for {
		over, err := r.drive()
		if err != nil {
			return err
		}
		if over {
			return nil
		}
	}
}

// matchEntry checks the log's team names against the rosters. The toss
// record may come either side of it.
func (r *Replay) matchEntry() error {
	r.takeTossRecord()
	m, err := nextEntry[*logreader.MatchEntry](r)
	if err != nil {
		return err
	}
	home, away := r.board.Team(rules.Home), r.board.Team(rules.Away)
	if m.HomeName != home.Name || m.AwayName != away.Name {
		return r.errorf(ErrValidation, "log teams %q v %q, rosters %q v %q", m.HomeName, m.AwayName, home.Name, away.Name)
	}
	r.takeTossRecord()
	return nil
}

func (r *Replay) takeTossRecord() {
	if t, ok := peekEntry[*logreader.TossEntry](r); ok {
		r.log.Next()
		r.toss = t
	}
}

func (r *Replay) coinToss() error {
	toss, err := nextCommand[*commands.CoinToss](r)
	if err != nil {
		return err
	}
	tossTeam := toss.Issuer
	if tossTeam == rules.Hotseat {
		if r.toss == nil {
			return r.errorf(ErrInputMismatch, "hotseat coin toss without a toss record")
		}
		tossTeam = r.toss.Team
	}
	tossEntry, err := nextEntry[*logreader.CoinTossEntry](r)
	if err != nil {
		return err
	}
	if tossEntry.Team != tossTeam || tossEntry.Choice != toss.Choice {
		return r.errorf(ErrInputMismatch, "coin toss %s chose %s, log says %s chose %s", tossTeam, toss.Choice, tossEntry.Team, tossEntry.Choice)
	}

	role, err := nextCommand[*commands.Role](r)
	if err != nil {
		return err
	}
	roleEntry, err := nextEntry[*logreader.RoleEntry](r)
	if err != nil {
		return err
	}
	if roleEntry.Role != role.Choice {
		return r.errorf(ErrInputMismatch, "role %s, log says %s", role.Choice, roleEntry.Role)
	}

	var result rules.CoinFace
	roleTeam := roleEntry.Team
	if r.toss != nil {
		result = r.toss.Result
		roleTeam = tossTeam
		if toss.Choice != result {
			roleTeam = tossTeam.Other()
		}
		if roleEntry.Team != roleTeam {
			return r.errorf(ErrInputMismatch, "%s should choose the role, log says %s", roleTeam, roleEntry.Team)
		}
	} else {
		result = toss.Choice
		if roleTeam != tossTeam {
			result = 1 - toss.Choice
		}
	}
	if role.Issuer != rules.Hotseat && role.Issuer != roleTeam {
		return r.errorf(ErrInputMismatch, "role chosen by %s, expected %s", role.Issuer, roleTeam)
	}

	receiver := roleTeam
	if role.Choice == rules.RoleKick {
		receiver = roleTeam.Other()
	}
	r.board.SetReceiver(receiver)
	r.debugf("toss %s chose %s, result %s, %s receives", tossTeam, toss.Choice, result, receiver)

	return r.emit(&CoinToss{TossTeam: tossTeam, Choice: toss.Choice, Result: result, RoleTeam: roleTeam, Role: role.Choice})
}

// drive plays one kick-off and the turns that follow it. It reports whether
// the match is over.
func (r *Replay) drive() (bool, error) {
	r.board.StartDrive()
	if err := r.weather(); err != nil {
		return false, err
	}
	if err := r.koRecovery(); err != nil {
		return false, err
	}
	if err := r.kickoff(); err != nil {
		return false, err
	}

	for {
		outcome, err := r.playTurn()
		if err != nil {
			return false, err
		}
		if outcome == matchAbandoned {
			return true, nil
		}

		switch r.board.Turn() {
		case board.TurnsPerHalf:
			r.board.HalfTime()
			return false, r.emit(&HalfTime{})
		case board.TurnsPerMatch:
			return true, r.emit(&EndMatch{HomeScore: r.board.Score(rules.Home), AwayScore: r.board.Score(rules.Away)})
		}
		if outcome == turnTouchdown {
			return false, nil
		}
		if err := r.startTurn(); err != nil {
			return false, err
		}
	}
}

func (r *Replay) startTurn() error {
	return r.emit(&StartTurn{Team: r.board.ActiveTeam(), Turn: r.board.DisplayTurn()})
}

// endTurn closes the active side's turn. Inside a kick-off off-turn it only
// records the reason; the off-turn's own end event reports it.
func (r *Replay) endTurn(reason string) error {
	r.turnChanged = true
	if r.inOffTurn {
		r.offTurnReason = reason
		return nil
	}
	t := r.board.ActiveTeam()
	turn := r.board.DisplayTurn()
	r.board.EndTurn()
	return r.emit(&EndTurn{Team: t, Turn: turn, Reason: reason})
}

// turnover reads the log's turnover entry for the active side and ends the
// turn with its reason.
func (r *Replay) turnover() error {
	r.acknowledge()
	e, err := nextEntry[*logreader.TurnoverEntry](r)
	if err != nil {
		return err
	}
	if e.Team != r.board.ActiveTeam() {
		return r.errorf(ErrInputMismatch, "turnover for %s during %s's turn", e.Team, r.board.ActiveTeam())
	}
	return r.endTurn(e.Reason)
}

// timeout handles a turnover logged in the middle of an action when the
// coach runs out of time. The action still plays out and the next turn
// starts once it has.
func (r *Replay) timeout(e *logreader.TurnoverEntry) error {
	r.log.Next()
	r.debugf("timeout turnover for %s: %s", e.Team, e.Reason)
	if r.turnChanged {
		return nil
	}
	return r.endTurn(e.Reason)
}

// acknowledge consumes the reroll refusals the client sends after a final
// failed roll.
func (r *Replay) acknowledge() {
	for {
		if _, ok := takeCommand[*commands.DeclineReroll](r); ok {
			continue
		}
		if _, ok := takeCommand[*commands.DiceChoice](r); ok {
			continue
		}
		return
	}
}

func (r *Replay) weather() error {
	var last *logreader.WeatherEntry
	for {
		w, ok := peekEntry[*logreader.WeatherEntry](r)
		if !ok {
			break
		}
		r.log.Next()
		last = w
	}
	if last == nil {
		return nil
	}
	r.board.SetWeather(last.Weather)
	return r.emit(&Weather{Weather: last.Weather})
}

func (r *Replay) koRecovery() error {
	for {
		e, ok := peekEntry[*logreader.ActionEntry](r)
		if !ok || e.Action != rules.ActionKORecovery {
			return nil
		}
		r.log.Next()
		p, err := r.logPlayer(e.Actor)
		if err != nil {
			return err
		}
		if err := r.emit(&Action{Player: p, Action: e.Action, Required: e.Required, Roll: e.Roll, Result: e.Result}); err != nil {
			return err
		}
		if e.Result == rules.Success {
			r.board.Recover(p)
		}
	}
}

func (r *Replay) setup(t rules.TeamType) error {
	for {
		cmd, ok := r.cmds.Next()
		if !ok {
			return r.errorf(ErrEndOfCommands, "setting up %s", t)
		}
		r.lastCommand = cmd.Info().ID
		switch c := cmd.(type) {
		case *commands.Setup:
			p, err := r.player(c.Actor)
			if err != nil {
				return err
			}
			from := p.Position
			r.board.SetupMove(p, c.Target)
			if err := r.emit(&Setup{Player: p, From: from, To: p.Position}); err != nil {
				return err
			}
		case *commands.SetupComplete:
			if c.Team != t {
				return r.errorf(ErrInputMismatch, "%s completed setup while %s was setting up", c.Team, t)
			}
			r.board.ClearEndzones()
			return r.emit(&SetupComplete{Team: t})
		case *commands.PreKickoffComplete:
		default:
			return r.errorf(ErrUnexpectedCommand, "%s during %s setup", commands.Name(cmd), t)
		}
	}
}

func (r *Replay) skipPreKickoff() {
	for {
		if _, ok := takeCommand[*commands.PreKickoffComplete](r); !ok {
			return
		}
	}
}
