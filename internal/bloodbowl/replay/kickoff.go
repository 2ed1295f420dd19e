package replay

import (
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

// kickoff sets both sides up, kicks and lands the ball, then opens the
// receiving side's first turn.
func (r *Replay) kickoff() error {
	kicker, receiver := r.board.Kicker(), r.board.Receiver()
	if err := r.setup(kicker); err != nil {
		return err
	}
	if err := r.setup(receiver); err != nil {
		return err
	}
	r.board.ResetRerolls()

	r.skipPreKickoff()
	k, err := nextCommand[*commands.Kickoff](r)
	if err != nil {
		return err
	}
	dir, err := nextEntry[*logreader.KickDirectionEntry](r)
	if err != nil {
		return err
	}
	dist, err := nextEntry[*logreader.KickDistanceEntry](r)
	if err != nil {
		return err
	}
	landing := k.Target.Scatter(dir.Direction, dist.Distance)
	err = r.emit(&Kickoff{
		Team:      kicker,
		Target:    k.Target,
		Direction: dir.Direction,
		Distance:  dist.Distance,
		Landing:   landing,
	})
	if err != nil {
		return err
	}

	ke, err := nextEntry[*logreader.KickoffEventEntry](r)
	if err != nil {
		return err
	}
	if err := r.emit(&KickoffEvent{Roll: ke.Roll, Event: ke.Event}); err != nil {
		return err
	}
	if err := r.kickoffEvent(ke.Event, landing); err != nil {
		return err
	}

	r.skipPreKickoff()
	if err := r.startTurn(); err != nil {
		return err
	}
	return r.landKick(landing)
}

func (r *Replay) kickoffEvent(event rules.KickoffEvent, landing pitch.Position) error {
	kicker, receiver := r.board.Kicker(), r.board.Receiver()
	switch event {
	case rules.GetTheRef:
		return nil
	case rules.Riot, rules.PitchInvasion:
		return r.errorf(ErrUnimplemented, "kick-off event %s", event)
	case rules.PerfectDefence:
		return r.setup(kicker)
	case rules.HighKick:
		return r.highKick(landing)
	case rules.CheeringFans, rules.BrilliantCoaching:
		return r.extraRerolls()
	case rules.ChangingWeather:
		return r.changeWeather()
	case rules.QuickSnap:
		return r.offTurn(receiver, event)
	case rules.Blitz:
		return r.offTurn(kicker, event)
	case rules.ThrowARock:
		return r.throwARock()
	default:
		return r.errorf(ErrUnexpectedLogEntry, "kick-off event %d", event)
	}
}

// highKick moves the receiver's chosen player under the ball.
func (r *Replay) highKick(landing pitch.Position) error {
	for {
		c, ok := takeCommand[*commands.Setup](r)
		if !ok {
			break
		}
		p, err := r.player(c.Actor)
		if err != nil {
			return err
		}
		from := p.Position
		r.board.SetupMove(p, c.Target)
		if err := r.emit(&Setup{Player: p, From: from, To: p.Position}); err != nil {
			return err
		}
	}

	e, ok := peekEntry[*logreader.ActionEntry](r)
	if !ok || e.Action != rules.ActionCatch || !landing.OnPitch() {
		return nil
	}
	p, err := r.logPlayer(e.Actor)
	if err != nil {
		return err
	}
	if p.Position == landing {
		return nil
	}
	from := p.Position
	if err := r.board.Place(p, landing); err != nil {
		return r.errorf(ErrValidation, "high kick: %v", err)
	}
	return r.emit(&Movement{Player: p, From: from, To: landing})
}

func (r *Replay) extraRerolls() error {
	for {
		e, ok := peekEntry[*logreader.RerollEntry](r)
		if !ok {
			return nil
		}
		r.log.Next()
		r.board.AddReroll(e.Team)
		if err := r.emit(&ExtraReroll{Team: e.Team}); err != nil {
			return err
		}
	}
}

// changeWeather reads the new weather. The log may repeat the entry; the
// last one wins.
func (r *Replay) changeWeather() error {
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
		return r.errorf(ErrUnexpectedLogEntry, "changing weather without a weather roll")
	}
	weather := last.Weather
	if weather == rules.Nice {
		weather = rules.NiceBouncy
	}
	r.board.SetWeather(weather)
	return r.emit(&Weather{Weather: weather})
}

// throwARock injures the player the log names, if the rock hit anyone.
func (r *Replay) throwARock() error {
	switch e := r.peekLog().(type) {
	case *logreader.ActionEntry:
		if e.Action != rules.ActionArmour {
			return nil
		}
		p, err := r.logPlayer(e.Actor)
		if err != nil {
			return err
		}
		return r.knockDown(p)
	case *logreader.InjuryEntry:
		p, err := r.logPlayer(e.Actor)
		if err != nil {
			return err
		}
		r.board.KnockDown(p)
		if err := r.emit(&PlayerDown{Player: p}); err != nil {
			return err
		}
		return r.injury(p)
	default:
		return nil
	}
}

// landKick brings the kicked ball down: a catch, bounces or a touchback.
func (r *Replay) landKick(landing pitch.Position) error {
	kicker := r.board.Kicker()
	if !landing.OnPitch() || kicker.OwnsRow(landing.Y) {
		return r.touchback()
	}
	r.board.SetBall(landing)
	pos := landing
	for {
		if p := r.board.PlayerAt(pos); p != nil && r.board.CanCatch(p) {
			if _, ok := r.peekAction(p, rules.ActionCatch); ok {
				return r.catchBall(p)
			}
		}
		b, ok := peekEntry[*logreader.BounceEntry](r)
		if !ok {
			return nil
		}
		r.log.Next()
		to := pos.Scatter(b.Direction, 1)
		if err := r.emit(&Bounce{From: pos, To: to, Direction: b.Direction}); err != nil {
			return err
		}
		if !to.OnPitch() || kicker.OwnsRow(to.Y) {
			return r.touchback()
		}
		r.board.SetBall(to)
		pos = to
	}
}

func (r *Replay) touchback() error {
	c, err := nextCommand[*commands.Touchback](r)
	if err != nil {
		return err
	}
	p, err := r.player(c.Actor)
	if err != nil {
		return err
	}
	if !p.OnPitch() || p.Team != r.board.Receiver() {
		return r.errorf(ErrInputMismatch, "touchback to %s", p)
	}
	r.board.SetCarrier(p)
	return r.emit(&Touchback{Player: p})
}

// peekLog returns the next log entry or nil.
func (r *Replay) peekLog() logreader.Entry {
	e, _ := r.log.Peek()
	return e
}
