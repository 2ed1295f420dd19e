package events

import (
	"fmt"
	"strings"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/board"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

func name(p *team.Player) string {
	if p == nil {
		return "-"
	}
	return p.String()
}

// Describe renders a replay event as one line of text.
func Describe(e replay.Event) string {
	switch e := e.(type) {
	case *replay.CoinToss:
		return fmt.Sprintf("%s called %s, coin landed %s; %s chose to %s", e.TossTeam, e.Choice, e.Result, e.RoleTeam, e.Role)
	case *replay.Setup:
		return fmt.Sprintf("%s set up %s -> %s", name(e.Player), e.From, e.To)
	case *replay.SetupComplete:
		return fmt.Sprintf("%s finished setup", e.Team)
	case *replay.Kickoff:
		return fmt.Sprintf("%s kicked to %s, %s %d, landing %s", e.Team, e.Target, e.Direction, e.Distance, e.Landing)
	case *replay.KickoffEvent:
		return fmt.Sprintf("Kick-off table %d: %s", e.Roll, e.Event)
	case *replay.Weather:
		return fmt.Sprintf("Weather: %s", e.Weather)
	case *replay.ExtraReroll:
		return fmt.Sprintf("%s gained a re-roll", e.Team)
	case *replay.Touchback:
		return fmt.Sprintf("Touchback to %s", name(e.Player))
	case *replay.StartTurn:
		return fmt.Sprintf("%s turn %d", e.Team, e.Turn)
	case *replay.EndTurn:
		if e.Reason != "" {
			return fmt.Sprintf("%s turn %d ended: %s", e.Team, e.Turn, e.Reason)
		}
		return fmt.Sprintf("%s turn %d ended", e.Team, e.Turn)
	case *replay.OffTurnStart:
		return fmt.Sprintf("%s free move (%s)", e.Team, e.Event)
	case *replay.OffTurnEnd:
		if e.Reason != "" {
			return fmt.Sprintf("%s free move over (%s): %s", e.Team, e.Event, e.Reason)
		}
		return fmt.Sprintf("%s free move over (%s)", e.Team, e.Event)
	case *replay.Movement:
		return fmt.Sprintf("%s moved %s -> %s", name(e.Player), e.From, e.To)
	case *replay.FailedMovement:
		return fmt.Sprintf("%s failed to move %s -> %s", name(e.Player), e.From, e.To)
	case *replay.StandUp:
		return fmt.Sprintf("%s stood up", name(e.Player))
	case *replay.Action:
		return fmt.Sprintf("%s %s (%d+): %d -> %s", name(e.Player), e.Action, e.Required, e.Roll, e.Result)
	case *replay.Pickup:
		return fmt.Sprintf("%s pick-up at %s: %s", name(e.Player), e.Position, e.Result)
	case *replay.Reroll:
		if e.Kind == replay.RerollSkill {
			return fmt.Sprintf("%s re-rolled with %s", name(e.Player), e.Skill)
		}
		return fmt.Sprintf("%s used a %s re-roll", e.Team, e.Kind)
	case *replay.PlayerDown:
		return fmt.Sprintf("%s is down", name(e.Player))
	case *replay.ArmourRoll:
		return fmt.Sprintf("%s armour: %d -> %s", name(e.Player), e.Roll, e.Result)
	case *replay.InjuryRoll:
		return fmt.Sprintf("%s injury: %d -> %s", name(e.Player), e.Roll, e.Result)
	case *replay.Casualty:
		return fmt.Sprintf("%s casualty: %d -> %s", name(e.Player), e.Roll, e.Result)
	case *replay.Apothecary:
		return fmt.Sprintf("Apothecary treated %s: %s %s", name(e.Player), e.Injury, e.Casualty)
	case *replay.Blitz:
		return fmt.Sprintf("%s blitzes %s", name(e.Player), name(e.Target))
	case *replay.Block:
		dice := make([]string, len(e.Dice))
		for i, d := range e.Dice {
			dice[i] = d.String()
		}
		return fmt.Sprintf("%s blocks %s: [%s] chose %s", name(e.Blocker), name(e.Defender), strings.Join(dice, ", "), e.Chosen)
	case *replay.BlockBothDown:
		return fmt.Sprintf("%s stays up with Block", name(e.Player))
	case *replay.DodgeBlock:
		return fmt.Sprintf("%s dodges %s's block", name(e.Defender), name(e.Blocker))
	case *replay.Skill:
		return fmt.Sprintf("%s uses %s", name(e.Player), e.Skill)
	case *replay.Pushback:
		return fmt.Sprintf("%s pushed %s %s -> %s", name(e.Pusher), name(e.Player), e.From, e.To)
	case *replay.FollowUp:
		return fmt.Sprintf("%s followed %s %s -> %s", name(e.Player), name(e.Target), e.From, e.To)
	case *replay.Handoff:
		return fmt.Sprintf("%s handed off to %s", name(e.Player), name(e.Target))
	case *replay.Pass:
		return fmt.Sprintf("%s passed to %s: %s", name(e.Player), e.Target, e.Result)
	case *replay.Interception:
		return fmt.Sprintf("%s interception: %s", name(e.Player), e.Result)
	case *replay.ThrowTeammate:
		return fmt.Sprintf("%s threw %s to %s: %s", name(e.Player), name(e.Thrown), e.Target, e.Result)
	case *replay.Landing:
		return fmt.Sprintf("%s landed at %s: %s", name(e.Player), e.Position, e.Result)
	case *replay.Spell:
		return fmt.Sprintf("%s wizard cast %s at %s", e.Team, e.Spell, e.Target)
	case *replay.Bounce:
		return fmt.Sprintf("Ball bounced %s %s -> %s", e.Direction, e.From, e.To)
	case *replay.Scatter:
		return fmt.Sprintf("Ball scattered %s %s -> %s", e.Direction, e.From, e.To)
	case *replay.ThrowIn:
		return fmt.Sprintf("Throw-in %s %d %s -> %s", e.Direction, e.Distance, e.From, e.To)
	case *replay.DivingTackle:
		return fmt.Sprintf("%s diving tackles %s at %s", name(e.Player), name(e.Target), e.Position)
	case *replay.Tentacled:
		return fmt.Sprintf("%s tentacles %s: %s", name(e.User), name(e.Target), e.Result)
	case *replay.Touchdown:
		return fmt.Sprintf("TOUCHDOWN %s! %d - %d", name(e.Player), e.HomeScore, e.AwayScore)
	case *replay.HalfTime:
		return "Half time"
	case *replay.EndMatch:
		return fmt.Sprintf("Full time: %d - %d", e.HomeScore, e.AwayScore)
	case *replay.AbandonMatch:
		return fmt.Sprintf("%s abandoned the match", e.Team)
	default:
		return e.Type().String()
	}
}

// changesBoard reports whether an event moves players or the ball.
func changesBoard(e replay.Event) bool {
	switch e.Type() {
	case replay.EventSetup, replay.EventKickoff, replay.EventTouchback,
		replay.EventMovement, replay.EventStandUp, replay.EventPickup,
		replay.EventPlayerDown, replay.EventInjuryRoll, replay.EventCasualty,
		replay.EventApothecary, replay.EventPushback, replay.EventFollowUp,
		replay.EventHandoff, replay.EventPass, replay.EventInterception,
		replay.EventThrowTeammate, replay.EventLanding, replay.EventBounce,
		replay.EventScatter, replay.EventThrowIn, replay.EventDivingTackle,
		replay.EventTouchdown, replay.EventHalfTime:
		return true
	default:
		return false
	}
}

// RenderPitch draws the board as text, HOME's endzone at the top. Players are
// H and A, lower case when prone; * marks the ball.
func RenderPitch(b *board.Board) string {
	var sb strings.Builder
	ball := b.BallPosition()
	carrier := b.Carrier()

	border := "+" + strings.Repeat("--", pitch.Width) + "+\n"
	sb.WriteString(border)
	for y := pitch.Length - 1; y >= 0; y-- {
		sb.WriteByte('|')
		for x := 0; x < pitch.Width; x++ {
			pos := pitch.Position{X: x, Y: y}
			cell := [2]byte{'.', ' '}
			if y == 0 || y == pitch.Length-1 {
				cell = [2]byte{'=', '='}
			}
			if p := b.PlayerAt(pos); p != nil {
				cell = [2]byte{'H', ' '}
				if p.Team == rules.Away {
					cell[0] = 'A'
				}
				if b.IsProne(p) {
					cell[0] += 'a' - 'A'
				}
				if p == carrier {
					cell[1] = '*'
				}
			} else if carrier == nil && ball == pos {
				cell[0] = '*'
			}
			sb.Write(cell[:])
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	fmt.Fprintf(&sb, "%s %d - %d %s  half %d turn %d\n",
		b.Team(rules.Home).Abbreviation, b.Score(rules.Home),
		b.Score(rules.Away), b.Team(rules.Away).Abbreviation,
		b.Half(), b.DisplayTurn())
	return sb.String()
}
