package team

import (
	"encoding/xml"
	"fmt"
	"log"
	"strings"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

type rosterXML struct {
	XMLName      xml.Name    `xml:"Team"`
	Name         string      `xml:"name,attr"`
	Abbreviation string      `xml:"abbreviation,attr"`
	Race         string      `xml:"race,attr"`
	Rerolls      int         `xml:"rerolls,attr"`
	Apothecary   int         `xml:"apothecary,attr"`
	Players      []playerXML `xml:"Player"`
}

type playerXML struct {
	Number int      `xml:"number,attr"`
	Name   string   `xml:"name,attr"`
	MA     int      `xml:"ma,attr"`
	ST     int      `xml:"st,attr"`
	AG     int      `xml:"ag,attr"`
	AV     int      `xml:"av,attr"`
	Skills []string `xml:"Skill"`
}

// DecodeRoster parses the roster XML stored with a replay. Roster index is
// document order. Skills the rules vocabulary does not know are dropped with a
// log line since none of them affect reconstruction.
func DecodeRoster(teamType rules.TeamType, data []byte) (*Team, error) {
	var roster rosterXML
	if err := xml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}

	abbreviation := roster.Abbreviation
	if abbreviation == "" {
		abbreviation = defaultAbbreviation(roster.Name)
	}

	players := make([]*Player, 0, len(roster.Players))
	for _, px := range roster.Players {
		p := &Player{
			Number: px.Number,
			Name:   px.Name,
			MA:     px.MA,
			ST:     px.ST,
			AG:     px.AG,
			AV:     px.AV,
		}
		for _, name := range px.Skills {
			skill, err := rules.ParseSkill(strings.TrimSpace(name))
			if err != nil {
				log.Printf("[Roster] %s #%d: %v", roster.Name, px.Number, err)
				continue
			}
			p.Skills = append(p.Skills, skill)
		}
		players = append(players, p)
	}

	return New(roster.Name, abbreviation, roster.Race, teamType, roster.Rerolls, roster.Apothecary > 0, players)
}

// EncodeRoster writes a team back out in the replay roster format.
func EncodeRoster(t *Team) ([]byte, error) {
	roster := rosterXML{
		Name:         t.Name,
		Abbreviation: t.Abbreviation,
		Race:         t.Race,
		Rerolls:      t.Rerolls,
	}
	if t.Apothecary {
		roster.Apothecary = 1
	}
	for _, p := range t.players {
		px := playerXML{Number: p.Number, Name: p.Name, MA: p.MA, ST: p.ST, AG: p.AG, AV: p.AV}
		for _, s := range p.Skills {
			px.Skills = append(px.Skills, s.String())
		}
		roster.Players = append(roster.Players, px)
	}

	data, err := xml.Marshal(roster)
	if err != nil {
		return nil, fmt.Errorf("encode roster: %w", err)
	}
	return data, nil
}

func defaultAbbreviation(name string) string {
	letters := strings.ToUpper(strings.ReplaceAll(name, " ", ""))
	if len(letters) > 3 {
		letters = letters[:3]
	}
	return letters
}
