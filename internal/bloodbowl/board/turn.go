package board

import (
	"fmt"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

// Rerolls returns a side's remaining team rerolls.
func (b *Board) Rerolls(t rules.TeamType) int {
	return b.rerolls[t]
}

// CanReroll reports whether a side may spend a team reroll now.
func (b *Board) CanReroll(t rules.TeamType) bool {
	return !b.rerollUsed[t] && (b.rerolls[t] > 0 || b.leaderRerolls[t] > 0)
}

// UseReroll spends a team reroll.
func (b *Board) UseReroll(t rules.TeamType) error {
	if b.rerollUsed[t] {
		return fmt.Errorf("%s: %w", t, ErrRerollUsed)
	}
	if b.rerolls[t] <= 0 {
		return fmt.Errorf("%s: %w", t, ErrNoRerolls)
	}
	b.rerolls[t]--
	b.rerollUsed[t] = true
	return nil
}

// RerollUsed reports whether a side has spent a reroll this turn.
func (b *Board) RerollUsed(t rules.TeamType) bool {
	return b.rerollUsed[t]
}

// HasLeaderReroll reports whether the side holds an unspent Leader reroll.
func (b *Board) HasLeaderReroll(t rules.TeamType) bool {
	return b.leaderRerolls[t] > 0
}

// UseLeaderReroll spends the Leader reroll. It counts as the turn's reroll.
func (b *Board) UseLeaderReroll(t rules.TeamType) error {
	if b.rerollUsed[t] {
		return fmt.Errorf("%s: %w", t, ErrRerollUsed)
	}
	if b.leaderRerolls[t] <= 0 {
		return fmt.Errorf("%s leader: %w", t, ErrNoRerolls)
	}
	b.leaderRerolls[t]--
	b.rerollUsed[t] = true
	return nil
}

// AddReroll grants an extra team reroll from the kick-off table.
func (b *Board) AddReroll(t rules.TeamType) {
	b.rerolls[t]++
}

// ResetRerolls restores each side's roster rerolls and grants a Leader
// reroll to a side with a Leader on the pitch.
func (b *Board) ResetRerolls() {
	for _, t := range []rules.TeamType{rules.Home, rules.Away} {
		b.rerolls[t] = b.teams[t].Rerolls
		b.leaderRerolls[t] = 0
		for _, p := range b.Players(t) {
			if p.HasSkill(rules.Leader) {
				b.leaderRerolls[t] = 1
				break
			}
		}
	}
}

// Turn returns the half-turn counter, 0 to TurnsPerMatch.
func (b *Board) Turn() int {
	return b.turn
}

// DisplayTurn is the match turn number, 1 to 8 in the first half and 9 to
// 16 in the second.
func (b *Board) DisplayTurn() int {
	return b.turn/2 + 1
}

// Half returns 1 or 2.
func (b *Board) Half() int {
	if b.turn >= TurnsPerHalf {
		return 2
	}
	return 1
}

// ActiveTeam is the side whose turn it is.
func (b *Board) ActiveTeam() rules.TeamType {
	return b.active
}

// SetActiveTeam starts a side's turn without touching the counter. Kick-off
// off-turns use it directly.
func (b *Board) SetActiveTeam(t rules.TeamType) {
	b.active = t
}

// EndTurn closes the active side's turn: stunned players of that side roll
// over, the per-turn state clears and the counter advances.
func (b *Board) EndTurn() {
	b.endActivation()
	b.turn++
	b.active = b.active.Other()
}

// EndOffTurn closes a kick-off off-turn. The counter does not move.
func (b *Board) EndOffTurn() {
	b.clearTurnState()
}

func (b *Board) endActivation() {
	for p, at := range b.stunned {
		if p.Team == b.active && at < b.turn {
			delete(b.stunned, p)
		}
	}
	b.clearTurnState()
}

func (b *Board) clearTurnState() {
	clear(b.stupid)
	clear(b.tested)
	clear(b.moves)
	b.rerollUsed = [2]bool{}
	b.quickSnap = false
	b.blitz = false
}

// Receiver is the side receiving the current drive's kick.
func (b *Board) Receiver() rules.TeamType {
	return b.receiver
}

// Kicker is the side kicking the current drive.
func (b *Board) Kicker() rules.TeamType {
	return b.receiver.Other()
}

// SetReceiver records the first-half receiver after the toss.
func (b *Board) SetReceiver(t rules.TeamType) {
	b.receiver = t
	b.firstReceiver = t
}

// HalfTime gives the second-half kick to the first-half receiver.
func (b *Board) HalfTime() {
	b.receiver = b.firstReceiver.Other()
	b.active = b.receiver
	for _, t := range []rules.TeamType{rules.Home, rules.Away} {
		for _, p := range b.teams[t].Players() {
			delete(b.stunned, p)
		}
	}
}

// StartDrive clears the pitch for a new kick-off. The receiving side takes
// the first turn.
func (b *Board) StartDrive() {
	b.ClearPitch()
	b.clearTurnState()
	b.active = b.receiver
}

// Scorer returns the carrier if it stands in its scoring endzone.
func (b *Board) Scorer() *team.Player {
	p := b.carrier
	if p == nil || b.prone[p] || !p.OnPitch() {
		return nil
	}
	if p.Position.Y != p.Team.ScoringRow() {
		return nil
	}
	return p
}

// Touchdown scores for the player's side; the other side receives next.
func (b *Board) Touchdown(p *team.Player) {
	b.score[p.Team]++
	b.receiver = p.Team.Other()
}

// Score returns a side's touchdowns.
func (b *Board) Score(t rules.TeamType) int {
	return b.score[t]
}

// Weather returns the current weather.
func (b *Board) Weather() rules.Weather {
	return b.weather
}

// SetWeather changes the weather.
func (b *Board) SetWeather(w rules.Weather) {
	b.weather = w
}

// QuickSnap reports whether a Quick Snap off-turn is running.
func (b *Board) QuickSnap() bool {
	return b.quickSnap
}

// SetQuickSnap marks a Quick Snap off-turn; moves need no dodges.
func (b *Board) SetQuickSnap(on bool) {
	b.quickSnap = on
}

// Blitzing reports whether a Blitz kick-off off-turn is running.
func (b *Board) Blitzing() bool {
	return b.blitz
}

// SetBlitz marks a Blitz kick-off off-turn.
func (b *Board) SetBlitz(on bool) {
	b.blitz = on
}

// Validate checks that the grid and the players agree about positions and
// that a carried ball sits on its carrier.
func (b *Board) Validate() error {
	for y := range b.grid {
		for x := range b.grid[y] {
			p := b.grid[y][x]
			if p == nil {
				continue
			}
			if p.Position != (pitch.Position{X: x, Y: y}) {
				return fmt.Errorf("cell (%d,%d) holds %s at %s", x, y, p, p.Position)
			}
		}
	}
	for _, t := range b.teams {
		for _, p := range t.Players() {
			if p.OnPitch() && b.grid[p.Position.Y][p.Position.X] != p {
				return fmt.Errorf("%s at %s is missing from the grid", p, p.Position)
			}
		}
	}
	if b.carrier != nil && !b.carrier.OnPitch() {
		return fmt.Errorf("ball carrier %s is off the pitch", b.carrier)
	}
	for t, n := range b.rerolls {
		if n < 0 {
			return fmt.Errorf("%s has %d rerolls", rules.TeamType(t), n)
		}
	}
	return nil
}
