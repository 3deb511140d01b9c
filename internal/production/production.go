// Package production derives production rates, click power and the
// power-up interval from owned upgrades, buildings and active bonuses.
package production

import (
	"math"
	"sort"

	"github.com/napolitain/atom-clicker/internal/effects"
	"github.com/napolitain/atom-clicker/internal/models"
)

// Input is everything the graph reads. Feedback holds the values settled by
// the previous recompute.
type Input struct {
	Content    *models.Content
	Buildings  map[models.BuildingType]models.Building
	UpgradeIDs []string
	SkillIDs   []string
	PowerUps   []models.PowerUp
	Feedback   effects.Feedback
}

// Snapshot is one consistent set of derived values
type Snapshot struct {
	Owned                []effects.Source
	BonusMultiplier      float64
	HasBonus             bool
	GlobalMultiplier     float64
	BuildingProductions  map[models.BuildingType]float64
	AtomsPerSecond       float64
	ClickPower           float64
	PowerUpInterval      models.Range
	SkillPointsTotal     int
	SkillPointsAvailable int
}

// Production returns the rate of one building type, 0 when absent
func (s *Snapshot) Production(bt models.BuildingType) float64 {
	return s.BuildingProductions[bt]
}

// LevelMultiplier is 1 at level 0, else (count/2)^(level+1)/5
func LevelMultiplier(count, level int) float64 {
	if level == 0 {
		return 1
	}
	return math.Pow(float64(count)/2, float64(level+1)) / 5
}

// BonusMultiplier is the product of every active power-up multiplier
func BonusMultiplier(powerUps []models.PowerUp) float64 {
	bonus := 1.0
	for _, p := range powerUps {
		bonus *= p.Multiplier
	}
	return bonus
}

// Compute evaluates the whole graph in dependency order
func Compute(in Input) Snapshot {
	fb := in.Feedback
	owned := effects.Resolve(in.Content, in.UpgradeIDs, in.SkillIDs)

	snap := Snapshot{
		Owned:               owned,
		BonusMultiplier:     BonusMultiplier(in.PowerUps),
		HasBonus:            len(in.PowerUps) > 0,
		BuildingProductions: make(map[models.BuildingType]float64, len(in.Buildings)),
	}

	globalUpgrades := effects.Select(owned, effects.Filter{Type: models.TypeGlobal})
	snap.GlobalMultiplier = effects.Fold(globalUpgrades, 1, fb)

	for _, bt := range buildingOrder(in) {
		production := 0.0
		if b, ok := in.Buildings[bt]; ok {
			upgrades := effects.Select(owned, effects.Filter{Target: string(bt), Type: models.TypeBuilding})
			multiplier := effects.Fold(upgrades, b.Rate, fb)
			production = float64(b.Count) * multiplier * LevelMultiplier(b.Count, b.Level) *
				snap.GlobalMultiplier * snap.BonusMultiplier
		}
		snap.BuildingProductions[bt] = production
		snap.AtomsPerSecond += production
	}

	// add_aps click upgrades are not scaled by the global and bonus multipliers
	clickUpgrades := effects.Select(owned, effects.Filter{Type: models.TypeClick})
	apsClick, otherClick := effects.Partition(clickUpgrades, effects.Filter{ValueType: models.ValueAddAPS})
	snap.ClickPower = effects.Fold(otherClick, 1, fb)*snap.GlobalMultiplier*snap.BonusMultiplier +
		effects.Fold(apsClick, 1, fb)

	intervalUpgrades := effects.Select(owned, effects.Filter{Type: models.TypePowerUpInterval})
	snap.PowerUpInterval = in.Content.PowerUpInterval.Map(func(bound float64) float64 {
		return effects.Fold(intervalUpgrades, bound, fb)
	})

	for _, b := range in.Buildings {
		snap.SkillPointsTotal += b.Level
	}
	snap.SkillPointsAvailable = snap.SkillPointsTotal - len(in.SkillIDs)

	return snap
}

// buildingOrder lists content buildings first, then any state-only types
// sorted by name, so sums are stable
func buildingOrder(in Input) []models.BuildingType {
	order := make([]models.BuildingType, 0, len(in.Buildings))
	seen := make(map[models.BuildingType]bool)
	for _, def := range in.Content.Buildings {
		order = append(order, def.Type)
		seen[def.Type] = true
	}

	var extra []models.BuildingType
	for bt := range in.Buildings {
		if !seen[bt] {
			extra = append(extra, bt)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(order, extra...)
}
