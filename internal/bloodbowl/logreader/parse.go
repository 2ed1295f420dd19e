package logreader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

const actorPattern = `(\w+) #(\d+) (.+)`

var actionPattern = func() string {
	names := make([]string, 0)
	for a := rules.ActionPickup; a <= rules.ActionThrowTeamMate; a++ {
		names = append(names, regexp.QuoteMeta(a.String()))
	}
	return strings.Join(names, "|")
}()

// pendingBlock and pendingTentacles are partial entries completed by the
// following line.
type pendingBlock struct {
	Actor
}

type pendingTentacles struct {
	Actor
}

// diceLine only appears directly after a pending block.
type diceLine struct {
	dice []rules.BlockDie
}

func (*pendingBlock) lines(teamNames) []string     { return nil }
func (*pendingTentacles) lines(teamNames) []string { return nil }
func (*diceLine) lines(teamNames) []string         { return nil }

type classifier struct {
	name  string
	re    *regexp.Regexp
	build func(p *parser, m []string) (Entry, error)
}

// classifiers is tried in order; the first matching pattern builds the entry.
var classifiers = []classifier{
	{"match", regexp.MustCompile(`^(.+) \[(\w+)\] vs (.+) \[(\w+)\]$`), buildMatch},
	{"coin toss", regexp.MustCompile(`^(\w+) choose (Heads|Tails)\.$`), buildCoinToss},
	{"role", regexp.MustCompile(`^(\w+) choose to (Kick|Receive)\.$`), buildRole},
	{"weather", regexp.MustCompile(`^Weather : (.+)$`), buildWeather},
	{"kick direction", regexp.MustCompile(`^Kick-off Direction \(D8\) : (\d+)$`), buildKickDirection},
	{"kick distance", regexp.MustCompile(`^Kick-off Distance \(D6\) : (\d+)$`), buildKickDistance},
	{"kick-off event", regexp.MustCompile(`^Kick-off Table \(2D6\) : (\d+) -> (.+)$`), buildKickoffEvent},
	{"bounce", regexp.MustCompile(`^Bounce \(D8\) : (\d+)$`), buildBounce},
	{"scatter", regexp.MustCompile(`^Scatter \(D8\) : (\d+)$`), buildScatter},
	{"throw-in direction", regexp.MustCompile(`^Throw-in Direction \(D6\) : (\d+)$`), buildThrowInDirection},
	{"throw-in distance", regexp.MustCompile(`^Throw-in Distance \(2D6\) : (\d+)$`), buildThrowInDistance},
	{"turnover", regexp.MustCompile(`^(\w+) suffer a TURNOVER! : (.+)$`), buildTurnover},
	{"leader re-roll", regexp.MustCompile(`^(\w+) use a Leader re-roll$`), buildLeaderReroll},
	{"re-roll", regexp.MustCompile(`^(\w+) use a re-roll$`), buildReroll},
	{"apothecary", regexp.MustCompile(`^(\w+) use their Apothecary on #(\d+) (.+)$`), buildApothecary},
	{"spell", regexp.MustCompile(`^(\w+) Wizard casts (.+)!$`), buildSpell},
	{"block", regexp.MustCompile(`^` + actorPattern + ` Block Result:$`), buildPendingBlock},
	{"tentacles", regexp.MustCompile(`^` + actorPattern + ` Tentacles$`), buildPendingTentacles},
	{"injury", regexp.MustCompile(`^` + actorPattern + ` Injury : (.+) -> (\w+)$`), buildInjury},
	{"casualty", regexp.MustCompile(`^` + actorPattern + ` Casualty : (.+) -> (.+)$`), buildCasualty},
	{"skill", regexp.MustCompile(`^` + actorPattern + ` uses (.+)\.$`), buildSkill},
	{"action", regexp.MustCompile(`^` + actorPattern + ` (` + actionPattern + `) (?:\{(\w+)\} )?\((\d+)\+\) : (.+) -> (.+)$`), buildAction},
	{"block dice", regexp.MustCompile(`^[A-Z][a-z]+(?: [A-Z][a-z]+)?(?:, [A-Z][a-z]+(?: [A-Z][a-z]+)?)*$`), buildDice},
}

// parser classifies GameLog payloads. It needs the match entry before it can
// resolve team abbreviations.
type parser struct {
	names teamNames
}

// ErrMalformed marks tokenizer invariant violations.
var ErrMalformed = errors.New("malformed game log")

func (p *parser) parse(payload string) (Entry, error) {
	for _, c := range classifiers {
		m := c.re.FindStringSubmatch(payload)
		if m == nil {
			continue
		}
		e, err := c.build(p, m)
		if err != nil {
			return nil, fmt.Errorf("%w: %s entry %q: %v", ErrMalformed, c.name, payload, err)
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w: unrecognised entry %q", ErrMalformed, payload)
}

func (p *parser) team(abbr string) (rules.TeamType, error) {
	t, ok := p.names.resolve(abbr)
	if !ok {
		return 0, fmt.Errorf("unknown team %q", abbr)
	}
	return t, nil
}

func (p *parser) actor(m []string) (Actor, error) {
	t, err := p.team(m[1])
	if err != nil {
		return Actor{}, err
	}
	number, err := strconv.Atoi(m[2])
	if err != nil {
		return Actor{}, err
	}
	return Actor{Team: t, Number: number, Name: m[3]}, nil
}

// rollValue takes the total after '=' when the roll is shown as a sum,
// otherwise the first integer.
func rollValue(text string) (int, error) {
	if i := strings.LastIndex(text, "="); i >= 0 {
		text = text[i+1:]
	}
	fields := strings.FieldsFunc(text, func(r rune) bool { return r < '0' || r > '9' })
	if len(fields) == 0 {
		return 0, fmt.Errorf("no roll in %q", text)
	}
	return strconv.Atoi(fields[0])
}

func buildMatch(p *parser, m []string) (Entry, error) {
	p.names = teamNames{home: m[2], away: m[4]}
	return &MatchEntry{HomeName: m[1], HomeAbbr: m[2], AwayName: m[3], AwayAbbr: m[4]}, nil
}

func buildCoinToss(p *parser, m []string) (Entry, error) {
	t, err := p.team(m[1])
	if err != nil {
		return nil, err
	}
	choice := rules.Heads
	if m[2] == "Tails" {
		choice = rules.Tails
	}
	return &CoinTossEntry{Team: t, Choice: choice}, nil
}

func buildRole(p *parser, m []string) (Entry, error) {
	t, err := p.team(m[1])
	if err != nil {
		return nil, err
	}
	role := rules.RoleKick
	if m[2] == "Receive" {
		role = rules.RoleReceive
	}
	return &RoleEntry{Team: t, Role: role}, nil
}

func buildWeather(_ *parser, m []string) (Entry, error) {
	w, err := rules.ParseWeather(m[1])
	if err != nil {
		return nil, err
	}
	return &WeatherEntry{Weather: w}, nil
}

func buildKickDirection(_ *parser, m []string) (Entry, error) {
	dir, err := d8(m[1])
	if err != nil {
		return nil, err
	}
	return &KickDirectionEntry{Direction: dir}, nil
}

func buildKickDistance(_ *parser, m []string) (Entry, error) {
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, err
	}
	return &KickDistanceEntry{Distance: n}, nil
}

func buildKickoffEvent(_ *parser, m []string) (Entry, error) {
	roll, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, err
	}
	event, err := rules.ParseKickoffEvent(m[2])
	if err != nil {
		return nil, err
	}
	return &KickoffEventEntry{Roll: roll, Event: event}, nil
}

func buildBounce(_ *parser, m []string) (Entry, error) {
	dir, err := d8(m[1])
	if err != nil {
		return nil, err
	}
	return &BounceEntry{Direction: dir}, nil
}

func buildScatter(_ *parser, m []string) (Entry, error) {
	dir, err := d8(m[1])
	if err != nil {
		return nil, err
	}
	return &ScatterEntry{Direction: dir}, nil
}

func buildThrowInDirection(_ *parser, m []string) (Entry, error) {
	roll, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, err
	}
	dir, err := pitch.ThrowInDirectionFromD6(roll)
	if err != nil {
		return nil, err
	}
	return &ThrowInDirectionEntry{Roll: roll, Direction: dir}, nil
}

func buildThrowInDistance(_ *parser, m []string) (Entry, error) {
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, err
	}
	return &ThrowInDistanceEntry{Distance: n}, nil
}

func buildTurnover(p *parser, m []string) (Entry, error) {
	t, err := p.team(m[1])
	if err != nil {
		return nil, err
	}
	return &TurnoverEntry{Team: t, Reason: m[2]}, nil
}

func buildLeaderReroll(p *parser, m []string) (Entry, error) {
	t, err := p.team(m[1])
	if err != nil {
		return nil, err
	}
	return &LeaderRerollEntry{Team: t}, nil
}

func buildReroll(p *parser, m []string) (Entry, error) {
	t, err := p.team(m[1])
	if err != nil {
		return nil, err
	}
	return &RerollEntry{Team: t}, nil
}

func buildApothecary(p *parser, m []string) (Entry, error) {
	a, err := p.actor(m)
	if err != nil {
		return nil, err
	}
	return &ApothecaryEntry{Actor: a}, nil
}

func buildSpell(p *parser, m []string) (Entry, error) {
	t, err := p.team(m[1])
	if err != nil {
		return nil, err
	}
	spell, err := rules.ParseSpell(m[2])
	if err != nil {
		return nil, err
	}
	return &SpellEntry{Team: t, Spell: spell}, nil
}

func buildPendingBlock(p *parser, m []string) (Entry, error) {
	a, err := p.actor(m)
	if err != nil {
		return nil, err
	}
	return &pendingBlock{Actor: a}, nil
}

func buildPendingTentacles(p *parser, m []string) (Entry, error) {
	a, err := p.actor(m)
	if err != nil {
		return nil, err
	}
	return &pendingTentacles{Actor: a}, nil
}

func buildInjury(p *parser, m []string) (Entry, error) {
	a, err := p.actor(m)
	if err != nil {
		return nil, err
	}
	roll, err := rollValue(m[4])
	if err != nil {
		return nil, err
	}
	result, err := rules.ParseInjuryResult(m[5])
	if err != nil {
		return nil, err
	}
	return &InjuryEntry{Actor: a, Roll: roll, Result: result}, nil
}

func buildCasualty(p *parser, m []string) (Entry, error) {
	a, err := p.actor(m)
	if err != nil {
		return nil, err
	}
	roll, err := rollValue(m[4])
	if err != nil {
		return nil, err
	}
	result, err := rules.ParseCasualty(m[5])
	if err != nil {
		return nil, err
	}
	return &CasualtyEntry{Actor: a, Roll: roll, Result: result}, nil
}

func buildSkill(p *parser, m []string) (Entry, error) {
	a, err := p.actor(m)
	if err != nil {
		return nil, err
	}
	skill, err := rules.ParseSkill(m[4])
	if err != nil {
		return nil, err
	}
	return &SkillEntry{Actor: a, Skill: skill}, nil
}

func buildAction(p *parser, m []string) (Entry, error) {
	a, err := p.actor(m)
	if err != nil {
		return nil, err
	}
	action, err := rules.ParseActionType(m[4])
	if err != nil {
		return nil, err
	}
	required, err := strconv.Atoi(m[6])
	if err != nil {
		return nil, err
	}
	roll, err := rollValue(m[7])
	if err != nil {
		return nil, err
	}

	if action.IsThrow() {
		result, err := rules.ParseThrowResult(m[8])
		if err != nil {
			return nil, err
		}
		return &ThrowEntry{Actor: a, Action: action, Stat: m[5], Required: required, Roll: roll, Result: result}, nil
	}

	result, err := rules.ParseActionResult(m[8])
	if err != nil {
		return nil, err
	}
	return &ActionEntry{Actor: a, Action: action, Stat: m[5], Required: required, Roll: roll, Result: result}, nil
}

func buildDice(_ *parser, m []string) (Entry, error) {
	faces := strings.Split(m[0], ", ")
	dice := make([]rules.BlockDie, 0, len(faces))
	for _, face := range faces {
		d, err := rules.ParseBlockDie(face)
		if err != nil {
			return nil, err
		}
		dice = append(dice, d)
	}
	return &diceLine{dice: dice}, nil
}

func d8(text string) (pitch.Direction, error) {
	roll, err := strconv.Atoi(text)
	if err != nil {
		return pitch.NoDirection, err
	}
	return pitch.DirectionFromD8(roll)
}
