// Package logreader tokenizes the game's text log into typed entries grouped
// into action scopes (batches).
package logreader

import (
	"fmt"
	"strings"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

// Entry is one typed log entry. The set of entry types is closed.
type Entry interface {
	lines(names teamNames) []string
}

// Batch is the list of entries produced by one scope, possibly merged across
// scopes split by cinematics.
type Batch struct {
	Scope   string  `json:"scope"`
	Entries []Entry `json:"entries"`
}

// Actor is a player named in the log by team abbreviation and jersey number.
type Actor struct {
	Team   rules.TeamType `json:"team"`
	Number int            `json:"number"`
	Name   string         `json:"name"`
}

func (a Actor) format(names teamNames) string {
	return fmt.Sprintf("%s #%02d %s", names.abbr(a.Team), a.Number, a.Name)
}

// MatchEntry names both teams. It is always the first entry of a log and
// defines the abbreviations used to resolve every other entry's team.
type MatchEntry struct {
	HomeName string
	HomeAbbr string
	AwayName string
	AwayAbbr string
}

// TossEntry is the pre-game randomisation record: which side tossed and what
// the coin showed.
type TossEntry struct {
	Team   rules.TeamType
	Result rules.CoinFace
}

type CoinTossEntry struct {
	Team   rules.TeamType
	Choice rules.CoinFace
}

type RoleEntry struct {
	Team rules.TeamType
	Role rules.Role
}

type WeatherEntry struct {
	Weather rules.Weather
}

type KickDirectionEntry struct {
	Direction pitch.Direction
}

type KickDistanceEntry struct {
	Distance int
}

type KickoffEventEntry struct {
	Roll  int
	Event rules.KickoffEvent
}

type BounceEntry struct {
	Direction pitch.Direction
}

// ScatterEntry is one square of an inaccurate pass or throw scatter.
type ScatterEntry struct {
	Direction pitch.Direction
}

type ThrowInDirectionEntry struct {
	Roll      int
	Direction pitch.ThrowInDirection
}

type ThrowInDistanceEntry struct {
	Distance int
}

// BlockEntry is the dice rolled for a block.
type BlockEntry struct {
	Actor
	Dice []rules.BlockDie
}

// ActionEntry is a dice-rolled action with a success/failure outcome.
type ActionEntry struct {
	Actor
	Action   rules.ActionType
	Stat     string
	Required int
	Roll     int
	Result   rules.ActionResult
}

// ThrowEntry is a pass or team-mate throw.
type ThrowEntry struct {
	Actor
	Action   rules.ActionType
	Stat     string
	Required int
	Roll     int
	Result   rules.ThrowResult
}

// TentacledEntry records a player trying to escape an opponent's tentacles.
type TentacledEntry struct {
	User     Actor
	Target   Actor
	Required int
	Roll     int
	Result   rules.ActionResult
}

type SkillEntry struct {
	Actor
	Skill rules.Skill
}

type RerollEntry struct {
	Team rules.TeamType
}

type LeaderRerollEntry struct {
	Team rules.TeamType
}

type InjuryEntry struct {
	Actor
	Roll   int
	Result rules.InjuryResult
}

type CasualtyEntry struct {
	Actor
	Roll   int
	Result rules.Casualty
}

// ApothecaryEntry names the player the apothecary treats. Team is the side
// that owns the apothecary.
type ApothecaryEntry struct {
	Actor
}

type SpellEntry struct {
	Team  rules.TeamType
	Spell rules.Spell
}

type TurnoverEntry struct {
	Team   rules.TeamType
	Reason string
}

// Name returns a short label for the entry's type.
func Name(e Entry) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", e), "*logreader.")
}

func (e *MatchEntry) lines(teamNames) []string {
	return []string{fmt.Sprintf("%s [%s] vs %s [%s]", e.HomeName, e.HomeAbbr, e.AwayName, e.AwayAbbr)}
}

func (e *TossEntry) lines(teamNames) []string {
	return []string{fmt.Sprintf("Team : %d", int(e.Team)), fmt.Sprintf("Result : %d", int(e.Result))}
}

func (e *CoinTossEntry) lines(n teamNames) []string {
	return []string{fmt.Sprintf("%s choose %s.", n.abbr(e.Team), e.Choice)}
}

func (e *RoleEntry) lines(n teamNames) []string {
	return []string{fmt.Sprintf("%s choose to %s.", n.abbr(e.Team), e.Role)}
}

func (e *WeatherEntry) lines(teamNames) []string {
	return []string{"Weather : " + e.Weather.String()}
}

func (e *KickDirectionEntry) lines(teamNames) []string {
	return []string{fmt.Sprintf("Kick-off Direction (D8) : %d", e.Direction.D8())}
}

func (e *KickDistanceEntry) lines(teamNames) []string {
	return []string{fmt.Sprintf("Kick-off Distance (D6) : %d", e.Distance)}
}

func (e *KickoffEventEntry) lines(teamNames) []string {
	return []string{fmt.Sprintf("Kick-off Table (2D6) : %d -> %s", e.Roll, e.Event)}
}

func (e *BounceEntry) lines(teamNames) []string {
	return []string{fmt.Sprintf("Bounce (D8) : %d", e.Direction.D8())}
}

func (e *ScatterEntry) lines(teamNames) []string {
	return []string{fmt.Sprintf("Scatter (D8) : %d", e.Direction.D8())}
}

func (e *ThrowInDirectionEntry) lines(teamNames) []string {
	return []string{fmt.Sprintf("Throw-in Direction (D6) : %d", e.Roll)}
}

func (e *ThrowInDistanceEntry) lines(teamNames) []string {
	return []string{fmt.Sprintf("Throw-in Distance (2D6) : %d", e.Distance)}
}

func (e *BlockEntry) lines(n teamNames) []string {
	faces := make([]string, len(e.Dice))
	for i, d := range e.Dice {
		faces[i] = d.String()
	}
	return []string{e.Actor.format(n) + " Block Result:", strings.Join(faces, ", ")}
}

func (e *ActionEntry) lines(n teamNames) []string {
	return []string{rollLine(e.Actor.format(n), e.Action, e.Stat, e.Required, e.Roll, e.Result.String())}
}

func (e *ThrowEntry) lines(n teamNames) []string {
	return []string{rollLine(e.Actor.format(n), e.Action, e.Stat, e.Required, e.Roll, e.Result.String())}
}

func (e *TentacledEntry) lines(n teamNames) []string {
	return []string{
		e.User.format(n) + " Tentacles",
		rollLine(e.Target.format(n), rules.ActionTentaclesEscape, "ST", e.Required, e.Roll, e.Result.String()),
	}
}

func (e *SkillEntry) lines(n teamNames) []string {
	return []string{fmt.Sprintf("%s uses %s.", e.Actor.format(n), e.Skill)}
}

func (e *RerollEntry) lines(n teamNames) []string {
	return []string{n.abbr(e.Team) + " use a re-roll"}
}

func (e *LeaderRerollEntry) lines(n teamNames) []string {
	return []string{n.abbr(e.Team) + " use a Leader re-roll"}
}

func (e *InjuryEntry) lines(n teamNames) []string {
	return []string{fmt.Sprintf("%s Injury : %d -> %s", e.Actor.format(n), e.Roll, e.Result)}
}

func (e *CasualtyEntry) lines(n teamNames) []string {
	return []string{fmt.Sprintf("%s Casualty : %d -> %s", e.Actor.format(n), e.Roll, e.Result)}
}

func (e *ApothecaryEntry) lines(n teamNames) []string {
	return []string{fmt.Sprintf("%s use their Apothecary on #%02d %s", n.abbr(e.Team), e.Number, e.Name)}
}

func (e *SpellEntry) lines(n teamNames) []string {
	return []string{fmt.Sprintf("%s Wizard casts %s!", n.abbr(e.Team), e.Spell)}
}

func (e *TurnoverEntry) lines(n teamNames) []string {
	return []string{fmt.Sprintf("%s suffer a TURNOVER! : %s", n.abbr(e.Team), e.Reason)}
}

func rollLine(actor string, action rules.ActionType, stat string, required, roll int, result string) string {
	var b strings.Builder
	b.WriteString(actor)
	b.WriteByte(' ')
	b.WriteString(action.String())
	if stat != "" {
		fmt.Fprintf(&b, " {%s}", stat)
	}
	fmt.Fprintf(&b, " (%d+) : %d -> %s", required, roll, result)
	return b.String()
}

// teamNames resolves abbreviations in both directions once the match entry
// has been seen.
type teamNames struct {
	home, away string
}

func (n teamNames) abbr(t rules.TeamType) string {
	if t == rules.Away {
		return n.away
	}
	return n.home
}

func (n teamNames) resolve(abbr string) (rules.TeamType, bool) {
	switch abbr {
	case n.home:
		return rules.Home, n.home != ""
	case n.away:
		return rules.Away, n.away != ""
	default:
		return 0, false
	}
}
