package models

import (
	"regexp"
	"strconv"
	"time"
)

// BuildingType identifies a purchasable production unit
type BuildingType string

const (
	Molecule      BuildingType = "molecule"
	Crystal       BuildingType = "crystal"
	Nanostructure BuildingType = "nanostructure"
	Microorganism BuildingType = "microorganism"
	Rock          BuildingType = "rock"
	Planet        BuildingType = "planet"
	Star          BuildingType = "star"
	NeutronStar   BuildingType = "neutron_star"
	BlackHole     BuildingType = "black_hole"
	Galaxy        BuildingType = "galaxy"
)

// AllBuildingTypes returns the default building types in deterministic order
func AllBuildingTypes() []BuildingType {
	return []BuildingType{
		Molecule, Crystal, Nanostructure, Microorganism, Rock,
		Planet, Star, NeutronStar, BlackHole, Galaxy,
	}
}

// Effect targets that are not building types
const (
	TargetGlobal          = "global"
	TargetClick           = "click"
	TargetPowerUpInterval = "power_up_interval"
)

// Effect types (domain tags)
const (
	TypeBuilding        = "building"
	TypeGlobal          = "global"
	TypeClick           = "click"
	TypePowerUpInterval = "power_up_interval"
)

// ValueType selects how an effect value combines into a multiplier
type ValueType string

const (
	ValueAdd       ValueType = "add"
	ValueMultiply  ValueType = "multiply"
	ValueAddAPS    ValueType = "add_aps"    // value × current atoms per second
	ValueAddAch    ValueType = "add_ach"    // value × unlocked achievement count
	ValueAddLevels ValueType = "add_levels" // value × player level
)

// Valid reports whether v is a known value type
func (v ValueType) Valid() bool {
	switch v {
	case ValueAdd, ValueMultiply, ValueAddAPS, ValueAddAch, ValueAddLevels:
		return true
	}
	return false
}

// Effect is a single modifier rule attached to an upgrade
type Effect struct {
	Target    string
	Type      string
	ValueType ValueType
	Value     float64
}

// BuildingDef is the static content entry for a building type
type BuildingDef struct {
	Type BuildingType
	Name string
	Rate float64 // base atoms per second per unit
	Cost float64 // price of the first unit
}

// Building is the mutable per-type state owned by the store
type Building struct {
	Count int     `json:"count"`
	Level int     `json:"level"`
	Rate  float64 `json:"rate"`
}

// Upgrade is a currency purchase carrying a list of effects
type Upgrade struct {
	ID      string
	Name    string
	Cost    float64
	Effects []Effect
}

// Precompiled regex for the percentage embedded in skill descriptions
var percentageRegex = regexp.MustCompile(`(\d+)%`)

// SkillUpgrade is bought with skill points; its only effect is the
// percentage written in its description
type SkillUpgrade struct {
	ID            string
	Name          string
	BuildingLevel int // total building levels required to unlock
	Description   string
}

// Bonus returns the first integer percentage literal of the description
func (s *SkillUpgrade) Bonus() (int, bool) {
	match := percentageRegex.FindStringSubmatch(s.Description)
	if match == nil {
		return 0, false
	}
	pct, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return pct, true
}

// PowerUpDef is the static content entry for a power-up
type PowerUpDef struct {
	ID         string
	Name       string
	Multiplier float64
	Duration   time.Duration
}

// PowerUp is an active time-limited bonus
type PowerUp struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Multiplier float64       `json:"multiplier"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// Expired reports whether the power-up is over at now
func (p PowerUp) Expired(now time.Time) bool {
	return !now.Before(p.StartedAt.Add(p.Duration))
}

// Remaining returns the time left at now, never negative
func (p PowerUp) Remaining(now time.Time) time.Duration {
	left := p.StartedAt.Add(p.Duration).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Range is an inclusive [Min, Max] interval
type Range struct {
	Min float64
	Max float64
}

// Map applies fn to both bounds
func (r Range) Map(fn func(float64) float64) Range {
	return Range{Min: fn(r.Min), Max: fn(r.Max)}
}

// Content holds every static content table
type Content struct {
	Buildings       []BuildingDef // content order
	Upgrades        map[string]*Upgrade
	UpgradeOrder    []string
	Skills          map[string]*SkillUpgrade
	SkillOrder      []string
	PowerUps        map[string]*PowerUpDef
	PowerUpOrder    []string
	PowerUpInterval Range // default seconds between power-up spawns
}

// NewContent creates an empty content set
func NewContent() *Content {
	return &Content{
		Upgrades: make(map[string]*Upgrade),
		Skills:   make(map[string]*SkillUpgrade),
		PowerUps: make(map[string]*PowerUpDef),
	}
}

// Building returns the definition for a building type
func (c *Content) Building(bt BuildingType) (BuildingDef, bool) {
	for _, def := range c.Buildings {
		if def.Type == bt {
			return def, true
		}
	}
	return BuildingDef{}, false
}

// BuildingTypes returns the building types in content order
func (c *Content) BuildingTypes() []BuildingType {
	types := make([]BuildingType, 0, len(c.Buildings))
	for _, def := range c.Buildings {
		types = append(types, def.Type)
	}
	return types
}
