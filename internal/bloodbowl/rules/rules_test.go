package rules

import (
	"testing"
)

func TestTeamType(t *testing.T) {
	if Home.Other() != Away || Away.Other() != Home {
		t.Error("Other() does not swap home and away")
	}
	if Home.ScoringRow() != 0 || Away.ScoringRow() != 25 {
		t.Errorf("ScoringRow() = %d/%d, want 0/25", Home.ScoringRow(), Away.ScoringRow())
	}
	if !Home.OwnsRow(13) || Home.OwnsRow(12) || !Away.OwnsRow(12) || Away.OwnsRow(13) {
		t.Error("OwnsRow() does not split the pitch between rows 12 and 13")
	}
	if Home.PlayDirection() != -1 || Away.PlayDirection() != 1 {
		t.Error("PlayDirection() does not point at the scoring endzone")
	}
	if got, ok := TeamTypeFromIndex(2); !ok || got != Hotseat {
		t.Errorf("TeamTypeFromIndex(2) = %v, %v", got, ok)
	}
	if _, ok := TeamTypeFromIndex(3); ok {
		t.Error("TeamTypeFromIndex(3) accepted an unknown index")
	}
}

func TestNameTablesRoundTrip(t *testing.T) {
	for skill, name := range skillNames {
		got, err := ParseSkill(name)
		if err != nil || got != skill {
			t.Errorf("ParseSkill(%q) = %v, %v", name, got, err)
		}
	}
	for die, name := range blockDieNames {
		got, err := ParseBlockDie(name)
		if err != nil || got != die {
			t.Errorf("ParseBlockDie(%q) = %v, %v", name, got, err)
		}
	}
	for action, name := range actionNames {
		got, err := ParseActionType(name)
		if err != nil || got != action {
			t.Errorf("ParseActionType(%q) = %v, %v", name, got, err)
		}
	}
	for casualty, name := range casualtyNames {
		got, err := ParseCasualty(name)
		if err != nil || got != casualty {
			t.Errorf("ParseCasualty(%q) = %v, %v", name, got, err)
		}
	}
	for weather, name := range weatherNames {
		got, err := ParseWeather(name)
		if err != nil || got != weather {
			t.Errorf("ParseWeather(%q) = %v, %v", name, got, err)
		}
	}
	for event, name := range kickoffNames {
		got, err := ParseKickoffEvent(name)
		if err != nil || got != event {
			t.Errorf("ParseKickoffEvent(%q) = %v, %v", name, got, err)
		}
	}

	if _, err := ParseSkill("Juggling"); err == nil {
		t.Error("ParseSkill() accepted an unknown skill")
	}
}

func TestCasualtyFromD68(t *testing.T) {
	tests := []struct {
		roll    int
		want    Casualty
		wantErr bool
	}{
		{11, BadlyHurt, false},
		{38, BadlyHurt, false},
		{41, BrokenRibs, false},
		{48, PinchedNerve, false},
		{51, DamagedBack, false},
		{58, SmashedCollarBone, false},
		{61, Dead, false},
		{68, Dead, false},
		{19, NoCasualty, true},
		{70, NoCasualty, true},
	}

	for _, tt := range tests {
		got, err := CasualtyFromD68(tt.roll)
		if (err != nil) != tt.wantErr {
			t.Errorf("CasualtyFromD68(%d) error = %v, wantErr %v", tt.roll, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("CasualtyFromD68(%d) = %v, want %v", tt.roll, got, tt.want)
		}
	}
}

func TestKickoffEventFromRoll(t *testing.T) {
	for roll := 2; roll <= 12; roll++ {
		event, err := KickoffEventFromRoll(roll)
		if err != nil {
			t.Fatalf("KickoffEventFromRoll(%d) error = %v", roll, err)
		}
		if event.String() == "Unknown" {
			t.Errorf("KickoffEventFromRoll(%d) has no name", roll)
		}
	}
	if got, _ := KickoffEventFromRoll(7); got != ChangingWeather {
		t.Errorf("KickoffEventFromRoll(7) = %v, want Changing Weather", got)
	}
	if _, err := KickoffEventFromRoll(13); err == nil {
		t.Error("KickoffEventFromRoll(13) expected error")
	}
}

func TestCancelledBy(t *testing.T) {
	if Dodge.CancelledBy() != Tackle {
		t.Errorf("Dodge.CancelledBy() = %v, want Tackle", Dodge.CancelledBy())
	}
	if SureHands.CancelledBy() != NoSkill {
		t.Errorf("SureHands.CancelledBy() = %v, want None", SureHands.CancelledBy())
	}
}
