// Package team models rosters: teams, their players and the stable
// roster-index to jersey-number mapping used by commands and the game log.
package team

import (
	"fmt"
	"slices"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

// Player is a rostered player. Position is the only field that changes during
// a match and it is only written by the board.
type Player struct {
	Team     rules.TeamType `json:"team"`
	Index    int            `json:"index"`
	Number   int            `json:"number"`
	Name     string         `json:"name"`
	MA       int            `json:"ma"`
	ST       int            `json:"st"`
	AG       int            `json:"ag"`
	AV       int            `json:"av"`
	Skills   []rules.Skill  `json:"skills,omitempty"`
	Position pitch.Position `json:"position"`
}

// HasSkill reports whether the player has the skill.
func (p *Player) HasSkill(skill rules.Skill) bool {
	return slices.Contains(p.Skills, skill)
}

// OnPitch reports whether the player is deployed.
func (p *Player) OnPitch() bool {
	return p.Position != pitch.OffPitch
}

func (p *Player) String() string {
	return fmt.Sprintf("%s #%d %s", p.Team, p.Number, p.Name)
}

// Team is a side's roster. The roster order and jersey mapping are fixed once
// built.
type Team struct {
	Name         string         `json:"name"`
	Abbreviation string         `json:"abbreviation"`
	Race         string         `json:"race"`
	Type         rules.TeamType `json:"type"`
	Rerolls      int            `json:"rerolls"`
	Apothecary   bool           `json:"apothecary"`

	players  []*Player
	byNumber map[int]int
}

// New builds a team from its roster in roster-index order. Jersey numbers
// must be unique.
func New(name, abbreviation, race string, teamType rules.TeamType, rerolls int, apothecary bool, players []*Player) (*Team, error) {
	if teamType != rules.Home && teamType != rules.Away {
		return nil, fmt.Errorf("invalid team type %v", teamType)
	}

	t := &Team{
		Name:         name,
		Abbreviation: abbreviation,
		Race:         race,
		Type:         teamType,
		Rerolls:      rerolls,
		Apothecary:   apothecary,
		players:      players,
		byNumber:     make(map[int]int, len(players)),
	}

	for i, p := range players {
		if _, dup := t.byNumber[p.Number]; dup {
			return nil, fmt.Errorf("duplicate jersey number %d in %s", p.Number, name)
		}
		t.byNumber[p.Number] = i
		p.Team = teamType
		p.Index = i
		p.Position = pitch.OffPitch
	}

	return t, nil
}

// Player returns the player at a roster index.
func (t *Team) Player(index int) (*Player, error) {
	if index < 0 || index >= len(t.players) {
		return nil, fmt.Errorf("%s has no player at roster index %d", t.Name, index)
	}
	return t.players[index], nil
}

// PlayerByNumber returns the player wearing a jersey number.
func (t *Team) PlayerByNumber(number int) (*Player, error) {
	index, ok := t.byNumber[number]
	if !ok {
		return nil, fmt.Errorf("%s has no player #%d", t.Name, number)
	}
	return t.players[index], nil
}

// Players returns the roster in index order.
func (t *Team) Players() []*Player {
	return t.players
}

// Size returns the number of rostered players.
func (t *Team) Size() int {
	return len(t.players)
}
