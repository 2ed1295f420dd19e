package commands

import (
	"fmt"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

// minPayload is the number of data values each command type needs.
var minPayload = map[int]int{
	TypeCoinToss:           1,
	TypeRole:               1,
	TypeSetup:              4,
	TypeSetupComplete:      1,
	TypeKickoff:            2,
	TypeTouchback:          2,
	TypeReroll:             1,
	TypeDeclineReroll:      1,
	TypePreKickoffComplete: 1,
	TypeProReroll:          2,
	TypeApothecary:         3,
	TypeEndTurn:            1,
	TypeApothecaryChoice:   3,
	TypeDiceChoice:         3,
	TypeFollowUpChoice:     3,
	TypeSideStep:           3,
	TypeJuggernautChoice:   3,
	TypeIntercept:          2,
	TypeSpell:              4,
	TypePlayerAction:       5,
	TypePickupBall:         2,
	TypePushback:           4,
	TypeAbandonMatch:       1,
}

// Decode converts a stored row into its command variant. Player-bearing
// commands take their side from data[0] rather than the issuing client so that
// hotseat games resolve to the right team.
func Decode(row Row) (Command, error) {
	issuer, ok := rules.TeamTypeFromIndex(row.PlayerIndex)
	if !ok {
		return nil, fmt.Errorf("command %d: invalid player index %d", row.ID, row.PlayerIndex)
	}
	meta := Meta{ID: row.ID, Turn: row.Turn, Issuer: issuer, Type: row.Type}

	if row.Type == TypeNetwork || row.Type == TypeNetworkSync {
		return &Network{Meta: meta}, nil
	}

	need, known := minPayload[row.Type]
	if !known {
		return &Unknown{Meta: meta, Data: row.Data}, nil
	}
	if len(row.Data) < need {
		return nil, fmt.Errorf("command %d (type %d): %w: have %d values, need %d", row.ID, row.Type, ErrShortPayload, len(row.Data), need)
	}

	d := row.Data
	switch row.Type {
	case TypeCoinToss:
		return &CoinToss{Meta: meta, Choice: rules.CoinFace(d[0])}, nil
	case TypeRole:
		return &Role{Meta: meta, Choice: rules.Role(d[0])}, nil
	case TypeKickoff:
		return &Kickoff{Meta: meta, Target: position(d[0], d[1])}, nil
	case TypeSpell:
		team, err := teamOf(row, d[0])
		if err != nil {
			return nil, err
		}
		return &Spell{Meta: meta, Team: team, Spell: rules.Spell(d[1]), Target: position(d[2], d[3])}, nil
	}

	team, err := teamOf(row, d[0])
	if err != nil {
		return nil, err
	}

	switch row.Type {
	case TypeSetupComplete:
		return &SetupComplete{Meta: meta, Team: team}, nil
	case TypeReroll:
		return &Reroll{Meta: meta, Team: team}, nil
	case TypeDeclineReroll:
		return &DeclineReroll{Meta: meta, Team: team}, nil
	case TypePreKickoffComplete:
		return &PreKickoffComplete{Meta: meta, Team: team}, nil
	case TypeEndTurn:
		return &EndTurn{Meta: meta, Team: team}, nil
	case TypeAbandonMatch:
		return &AbandonMatch{Meta: meta, Team: team}, nil
	}

	actor := Actor{Team: team, Player: int(d[1])}

	switch row.Type {
	case TypeSetup:
		return &Setup{Meta: meta, Actor: actor, Target: position(d[2], d[3])}, nil
	case TypeTouchback:
		return &Touchback{Meta: meta, Actor: actor}, nil
	case TypeProReroll:
		return &ProReroll{Meta: meta, Actor: actor}, nil
	case TypeApothecary:
		return &Apothecary{Meta: meta, Actor: actor, Used: d[2] != 0}, nil
	case TypeApothecaryChoice:
		casualty, err := rules.CasualtyFromID(int(d[2]))
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", row.ID, err)
		}
		return &ApothecaryChoice{Meta: meta, Actor: actor, Casualty: casualty}, nil
	case TypeDiceChoice:
		return &DiceChoice{Meta: meta, Actor: actor, Index: int(d[2])}, nil
	case TypeFollowUpChoice:
		return &FollowUpChoice{Meta: meta, Actor: actor, FollowUp: d[2] != 0}, nil
	case TypeSideStep:
		return &SideStep{Meta: meta, Actor: actor, Use: d[2] != 0}, nil
	case TypeJuggernautChoice:
		return &JuggernautChoice{Meta: meta, Actor: actor, Use: d[2] != 0}, nil
	case TypeIntercept:
		return &Intercept{Meta: meta, Actor: actor}, nil
	case TypePickupBall:
		return &PickupBall{Meta: meta, Actor: actor}, nil
	case TypePushback:
		return &Pushback{Meta: meta, Actor: actor, Target: position(d[2], d[3])}, nil
	case TypePlayerAction:
		return decodePlayerAction(meta, actor, d)
	}

	return &Unknown{Meta: meta, Data: row.Data}, nil
}

func decodePlayerAction(meta Meta, actor Actor, d []int32) (Command, error) {
	target := position(d[2], d[3])
	switch d[4] {
	case ActionMovement:
		return &Movement{Meta: meta, Actor: actor, Target: target}, nil
	case ActionTargetPlayer:
		return &TargetPlayer{Meta: meta, Actor: actor, Target: target}, nil
	case ActionEndMovement:
		return &EndMovement{Meta: meta, Actor: actor, Target: target}, nil
	case ActionTargetSpace:
		return &TargetSpace{Meta: meta, Actor: actor, Target: target}, nil
	case ActionThrow:
		return &Throw{Meta: meta, Actor: actor, Target: target}, nil
	case ActionDumpOff:
		return &DumpOff{Meta: meta, Actor: actor, Target: target}, nil
	default:
		return &Unknown{Meta: meta, Data: d}, nil
	}
}

// DecodeAll decodes rows in order.
func DecodeAll(rows []Row) ([]Command, error) {
	cmds := make([]Command, 0, len(rows))
	for _, row := range rows {
		cmd, err := Decode(row)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func teamOf(row Row, value int32) (rules.TeamType, error) {
	switch value {
	case 0:
		return rules.Home, nil
	case 1:
		return rules.Away, nil
	default:
		return 0, fmt.Errorf("command %d: invalid team %d", row.ID, value)
	}
}

func position(x, y int32) pitch.Position {
	if x < 0 || y < 0 {
		return pitch.OffPitch
	}
	return pitch.Position{X: int(x), Y: int(y)}
}
