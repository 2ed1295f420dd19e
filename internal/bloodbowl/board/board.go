// Package board holds the authoritative match state the replay driver
// mutates: pitch occupancy, the ball, player conditions, rerolls, the turn
// counter and the score.
package board

import (
	"errors"
	"fmt"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

const (
	// TurnsPerHalf is the number of half-turns (one per team turn) in a half.
	TurnsPerHalf = 16
	// TurnsPerMatch ends the match.
	TurnsPerMatch = 2 * TurnsPerHalf
	standUpCost   = 3
)

var (
	// ErrOccupied is returned when placing a player onto another player.
	ErrOccupied = errors.New("square occupied")
	// ErrRerollUsed is returned when a team reroll is spent twice in a turn.
	ErrRerollUsed = errors.New("reroll already used this turn")
	// ErrNoRerolls is returned when a team has nothing left to spend.
	ErrNoRerolls = errors.New("no rerolls remaining")
)

// Board is the match state. Cells reference players owned by the teams.
type Board struct {
	grid  [pitch.Length][pitch.Width]*team.Player
	teams [2]*team.Team

	ball    pitch.Position
	carrier *team.Player

	prone      map[*team.Player]bool
	stunned    map[*team.Player]int
	injured    map[*team.Player]rules.InjuryResult
	casualties map[*team.Player]rules.Casualty
	stupid     map[*team.Player]bool
	tested     map[*team.Player]bool
	moves      map[*team.Player]int

	rerolls        [2]int
	rerollUsed     [2]bool
	leaderRerolls  [2]int
	apothecaryUsed [2]bool

	turn          int
	active        rules.TeamType
	receiver      rules.TeamType
	firstReceiver rules.TeamType

	weather   rules.Weather
	quickSnap bool
	blitz     bool
	score     [2]int
}

// New creates an empty board for the two teams.
func New(home, away *team.Team) *Board {
	return &Board{
		teams:      [2]*team.Team{home, away},
		ball:       pitch.OffPitch,
		prone:      make(map[*team.Player]bool),
		stunned:    make(map[*team.Player]int),
		injured:    make(map[*team.Player]rules.InjuryResult),
		casualties: make(map[*team.Player]rules.Casualty),
		stupid:     make(map[*team.Player]bool),
		tested:     make(map[*team.Player]bool),
		moves:      make(map[*team.Player]int),
	}
}

// Team returns a side's roster.
func (b *Board) Team(t rules.TeamType) *team.Team {
	return b.teams[t]
}

// PlayerAt returns the player on a square, or nil.
func (b *Board) PlayerAt(pos pitch.Position) *team.Player {
	if !pos.OnPitch() {
		return nil
	}
	return b.grid[pos.Y][pos.X]
}

// Players returns every deployed player of a side in roster order.
func (b *Board) Players(t rules.TeamType) []*team.Player {
	var deployed []*team.Player
	for _, p := range b.teams[t].Players() {
		if p.OnPitch() {
			deployed = append(deployed, p)
		}
	}
	return deployed
}

// Surrounding returns the players on the eight squares around pos.
func (b *Board) Surrounding(pos pitch.Position) []*team.Player {
	var around []*team.Player
	for _, n := range pos.Neighbours() {
		if p := b.grid[n.Y][n.X]; p != nil {
			around = append(around, p)
		}
	}
	return around
}

// Place puts a player on a square, lifting it from its current square.
// Moving onto an occupied square is an error.
func (b *Board) Place(p *team.Player, to pitch.Position) error {
	if !to.OnPitch() {
		b.Remove(p)
		return nil
	}
	if occupant := b.grid[to.Y][to.X]; occupant != nil && occupant != p {
		return fmt.Errorf("place %s at %s: %w by %s", p, to, ErrOccupied, occupant)
	}
	b.lift(p)
	b.grid[to.Y][to.X] = p
	p.Position = to
	return nil
}

// Move places the player and charges the distance against its movement.
func (b *Board) Move(p *team.Player, to pitch.Position) error {
	from := p.Position
	if err := b.Place(p, to); err != nil {
		return err
	}
	if from.OnPitch() {
		b.moves[p] += from.Distance(to)
	}
	return nil
}

// SetupMove moves a player during setup. An occupant of the target square
// swaps to the player's previous square, which may be the dugout.
func (b *Board) SetupMove(p *team.Player, to pitch.Position) {
	from := p.Position
	occupant := b.PlayerAt(to)
	if occupant == p {
		return
	}
	b.Remove(p)
	if occupant != nil {
		b.Remove(occupant)
		if from.OnPitch() {
			b.grid[from.Y][from.X] = occupant
			occupant.Position = from
		}
	}
	if to.OnPitch() {
		b.grid[to.Y][to.X] = p
		p.Position = to
	}
}

// Remove takes a player off the pitch. A carrier drops the ball where it
// stood.
func (b *Board) Remove(p *team.Player) {
	if b.carrier == p {
		b.ball = p.Position
		b.carrier = nil
	}
	b.lift(p)
	p.Position = pitch.OffPitch
	delete(b.prone, p)
	delete(b.stunned, p)
}

func (b *Board) lift(p *team.Player) {
	if pos := p.Position; pos.OnPitch() && b.grid[pos.Y][pos.X] == p {
		b.grid[pos.Y][pos.X] = nil
	}
}

// ClearEndzones sends anyone left in either endzone back to the dugout.
func (b *Board) ClearEndzones() {
	for _, y := range []int{0, pitch.Length - 1} {
		for x := 0; x < pitch.Width; x++ {
			if p := b.grid[y][x]; p != nil {
				b.Remove(p)
			}
		}
	}
}

// ClearPitch empties the pitch and the ball ahead of a new drive.
func (b *Board) ClearPitch() {
	for y := range b.grid {
		for x := range b.grid[y] {
			if p := b.grid[y][x]; p != nil {
				b.Remove(p)
			}
		}
	}
	b.carrier = nil
	b.ball = pitch.OffPitch
}

// BallPosition is the carrier's square or the free ball's square.
func (b *Board) BallPosition() pitch.Position {
	if b.carrier != nil {
		return b.carrier.Position
	}
	return b.ball
}

// Carrier returns the player holding the ball, or nil.
func (b *Board) Carrier() *team.Player {
	return b.carrier
}

// SetBall leaves the ball free on a square. Off-pitch squares are allowed
// while a throw-in is pending.
func (b *Board) SetBall(pos pitch.Position) {
	b.carrier = nil
	b.ball = pos
}

// SetCarrier gives the ball to a deployed player.
func (b *Board) SetCarrier(p *team.Player) {
	b.carrier = p
	b.ball = p.Position
}

// IsProne reports whether the player is on the ground.
func (b *Board) IsProne(p *team.Player) bool {
	return b.prone[p]
}

// IsStunned reports whether the player is stunned face down.
func (b *Board) IsStunned(p *team.Player) bool {
	_, ok := b.stunned[p]
	return ok
}

// KnockDown leaves the player prone. A knocked down carrier loses the ball
// on its square.
func (b *Board) KnockDown(p *team.Player) {
	b.prone[p] = true
	if b.carrier == p {
		b.SetBall(p.Position)
	}
}

// Stun leaves the player prone until the end of its team's next turn.
func (b *Board) Stun(p *team.Player) {
	b.KnockDown(p)
	b.stunned[p] = b.turn
}

// StandUp gets a prone player up and charges the move cost.
func (b *Board) StandUp(p *team.Player) {
	delete(b.prone, p)
	delete(b.stunned, p)
	b.moves[p] += standUpCost
}

// HasTacklezone reports whether the player exerts a tacklezone.
func (b *Board) HasTacklezone(p *team.Player) bool {
	return p.OnPitch() && !b.prone[p] && !b.stupid[p]
}

// CanCatch reports whether the player could take the ball on its square.
func (b *Board) CanCatch(p *team.Player) bool {
	return b.HasTacklezone(p) && !p.HasSkill(rules.NoHands)
}

// Opponents returns the opponents adjacent to pos that exert a tacklezone.
func (b *Board) Opponents(side rules.TeamType, pos pitch.Position) []*team.Player {
	var tacklers []*team.Player
	for _, other := range b.Surrounding(pos) {
		if other.Team != side && b.HasTacklezone(other) {
			tacklers = append(tacklers, other)
		}
	}
	return tacklers
}

// IsDodge reports whether stepping to target needs a dodge roll.
func (b *Board) IsDodge(p *team.Player, target pitch.Position) bool {
	if b.quickSnap || target == p.Position {
		return false
	}
	return len(b.Opponents(p.Team, p.Position)) > 0
}

// HasAdjacentSkill reports whether an opponent next to the player exerting a
// tacklezone has the skill.
func (b *Board) HasAdjacentSkill(p *team.Player, skill rules.Skill) bool {
	for _, other := range b.Opponents(p.Team, p.Position) {
		if other.HasSkill(skill) {
			return true
		}
	}
	return false
}

// Injure takes a KO'd or injured player off the pitch. Stunned players stay
// where they are.
func (b *Board) Injure(p *team.Player, result rules.InjuryResult) {
	switch result {
	case rules.Stunned:
		b.Stun(p)
	case rules.KO, rules.Injured:
		b.injured[p] = result
		b.Remove(p)
	}
}

// SetCasualty takes a player off the pitch with a casualty. He stays out
// until Recover puts him back in the reserves.
func (b *Board) SetCasualty(p *team.Player, c rules.Casualty) {
	b.Remove(p)
	b.injured[p] = rules.Injured
	b.casualties[p] = c
}

// Recover returns a KO'd or patched-up player to the reserves.
func (b *Board) Recover(p *team.Player) {
	delete(b.injured, p)
}

// Injury returns the player's injury state, NoInjury if fit.
func (b *Board) Injury(p *team.Player) rules.InjuryResult {
	if r, ok := b.injured[p]; ok {
		return r
	}
	if b.IsStunned(p) {
		return rules.Stunned
	}
	return rules.NoInjury
}

// Casualty returns the player's casualty, if any.
func (b *Board) Casualty(p *team.Player) rules.Casualty {
	return b.casualties[p]
}

// KnockedOut returns a side's KO'd players in roster order.
func (b *Board) KnockedOut(t rules.TeamType) []*team.Player {
	var out []*team.Player
	for _, p := range b.teams[t].Players() {
		if b.injured[p] == rules.KO {
			out = append(out, p)
		}
	}
	return out
}

// UseApothecary marks a side's apothecary as spent.
func (b *Board) UseApothecary(t rules.TeamType) {
	b.apothecaryUsed[t] = true
}

// HasApothecary reports whether the side can still call its apothecary.
func (b *Board) HasApothecary(t rules.TeamType) bool {
	return b.teams[t].Apothecary && !b.apothecaryUsed[t]
}

// MarkStupid removes the player's tacklezone for the rest of the turn.
func (b *Board) MarkStupid(p *team.Player) {
	b.stupid[p] = true
}

// Tested reports whether the player's uncontrollable skills were checked
// this turn.
func (b *Board) Tested(p *team.Player) bool {
	return b.tested[p]
}

// MarkTested records that the uncontrollable skills were checked.
func (b *Board) MarkTested(p *team.Player) {
	b.tested[p] = true
}

// Moves returns the squares the player has moved this turn.
func (b *Board) Moves(p *team.Player) int {
	return b.moves[p]
}

// AddMoves charges extra movement, such as a blitz going for it.
func (b *Board) AddMoves(p *team.Player, n int) {
	b.moves[p] += n
}
