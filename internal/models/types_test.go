package models

import (
	"testing"
	"time"
)

func TestSkillBonus(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        int
		wantOK      bool
	}{
		{"plain", "Increase production by 5%", 5, true},
		{"first literal wins", "+10% now, +20% later", 10, true},
		{"no percentage", "Unlocks something", 0, false},
		{"digits next to the sign", "+2.5% clicks", 5, true},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &SkillUpgrade{Description: tt.description}
			got, ok := s.Bonus()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Bonus(%q) = %d, %v; want %d, %v", tt.description, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPowerUpExpiry(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := PowerUp{Multiplier: 2, StartedAt: start, Duration: 30 * time.Second}

	if p.Expired(start.Add(29 * time.Second)) {
		t.Error("Expected power-up to be active before its duration")
	}
	if !p.Expired(start.Add(30 * time.Second)) {
		t.Error("Expected power-up to expire at its duration")
	}
	if got := p.Remaining(start.Add(10 * time.Second)); got != 20*time.Second {
		t.Errorf("Expected 20s remaining, got %v", got)
	}
	if got := p.Remaining(start.Add(time.Minute)); got != 0 {
		t.Errorf("Expected 0 remaining after expiry, got %v", got)
	}
}

func TestRangeMap(t *testing.T) {
	r := Range{Min: 60, Max: 180}.Map(func(v float64) float64 { return v / 2 })
	if r.Min != 30 || r.Max != 90 {
		t.Errorf("Expected [30, 90], got [%g, %g]", r.Min, r.Max)
	}
}

func TestValueTypeValid(t *testing.T) {
	for _, vt := range []ValueType{ValueAdd, ValueMultiply, ValueAddAPS, ValueAddAch, ValueAddLevels} {
		if !vt.Valid() {
			t.Errorf("Expected %q to be valid", vt)
		}
	}
	if ValueType("divide").Valid() {
		t.Error("Expected divide to be invalid")
	}
}

func TestContentBuilding(t *testing.T) {
	c := NewContent()
	c.Buildings = []BuildingDef{
		{Type: Molecule, Rate: 0.1, Cost: 15},
		{Type: Crystal, Rate: 1, Cost: 100},
	}

	def, ok := c.Building(Crystal)
	if !ok || def.Cost != 100 {
		t.Errorf("Expected crystal with cost 100, got %+v, %v", def, ok)
	}
	if _, ok := c.Building(Galaxy); ok {
		t.Error("Expected galaxy to be absent")
	}

	types := c.BuildingTypes()
	if len(types) != 2 || types[0] != Molecule || types[1] != Crystal {
		t.Errorf("Expected content order, got %v", types)
	}
}
