// Package shop prices purchases and applies them to a session after
// checking affordability and prerequisites.
package shop

import (
	"errors"
	"fmt"
	"math"

	"github.com/napolitain/atom-clicker/internal/engine"
	"github.com/napolitain/atom-clicker/internal/models"
)

var (
	ErrUnknown           = errors.New("unknown item")
	ErrAlreadyOwned      = errors.New("already owned")
	ErrInsufficientAtoms = errors.New("insufficient atoms")
	ErrNoSkillPoints     = errors.New("no skill points available")
	ErrLocked            = errors.New("locked")
)

const (
	// BuildingCostGrowth scales the price of each additional unit
	BuildingCostGrowth = 1.15
	// LevelUpCostFactor and LevelUpCostGrowth price building level-ups
	LevelUpCostFactor = 10
	LevelUpCostGrowth = 4
)

// BuildingCost is the price of the next unit when owned units exist
func BuildingCost(def models.BuildingDef, owned int) float64 {
	return math.Ceil(def.Cost * math.Pow(BuildingCostGrowth, float64(owned)))
}

// LevelUpCost is the price of raising a building type from level
func LevelUpCost(def models.BuildingDef, level int) float64 {
	return math.Ceil(def.Cost * LevelUpCostFactor * math.Pow(LevelUpCostGrowth, float64(level)))
}

// NextBuildingCost prices one more unit of bt in the session
func NextBuildingCost(e *engine.Engine, bt models.BuildingType) (float64, error) {
	def, ok := e.Content().Building(bt)
	if !ok {
		return 0, fmt.Errorf("%w: building %s", ErrUnknown, bt)
	}
	b, _ := e.Building(bt)
	return BuildingCost(def, b.Count), nil
}

// NextLevelUpCost prices the next level of bt in the session
func NextLevelUpCost(e *engine.Engine, bt models.BuildingType) (float64, error) {
	def, ok := e.Content().Building(bt)
	if !ok {
		return 0, fmt.Errorf("%w: building %s", ErrUnknown, bt)
	}
	b, _ := e.Building(bt)
	return LevelUpCost(def, b.Level), nil
}

// BuyBuilding buys one unit of bt
func BuyBuilding(e *engine.Engine, bt models.BuildingType) error {
	cost, err := NextBuildingCost(e, bt)
	if err != nil {
		return err
	}
	if err := spend(e, cost); err != nil {
		return err
	}
	return e.AddBuilding(bt, 1)
}

// UpgradeBuilding raises an owned building type by one level
func UpgradeBuilding(e *engine.Engine, bt models.BuildingType) error {
	cost, err := NextLevelUpCost(e, bt)
	if err != nil {
		return err
	}
	if b, _ := e.Building(bt); b.Count == 0 {
		return fmt.Errorf("%w: no %s owned", ErrLocked, bt)
	}
	if err := spend(e, cost); err != nil {
		return err
	}
	return e.UpgradeBuilding(bt)
}

// BuyUpgrade buys an upgrade once
func BuyUpgrade(e *engine.Engine, id string) error {
	u, ok := e.Content().Upgrades[id]
	if !ok {
		return fmt.Errorf("%w: upgrade %s", ErrUnknown, id)
	}
	if e.HasUpgrade(id) {
		return fmt.Errorf("%w: upgrade %s", ErrAlreadyOwned, id)
	}
	if err := spend(e, u.Cost); err != nil {
		return err
	}
	return e.PurchaseUpgrade(id)
}

// BuySkill spends one skill point on a skill upgrade. The total building
// level must reach the skill's requirement.
func BuySkill(e *engine.Engine, id string) error {
	s, ok := e.Content().Skills[id]
	if !ok {
		return fmt.Errorf("%w: skill %s", ErrUnknown, id)
	}
	for _, owned := range e.Skills() {
		if owned == id {
			return fmt.Errorf("%w: skill %s", ErrAlreadyOwned, id)
		}
	}
	if e.SkillPointsAvailable() <= 0 {
		return ErrNoSkillPoints
	}
	if levels := e.AchievementState().TotalLevels(); levels < s.BuildingLevel {
		return fmt.Errorf("%w: %s needs %d building levels, have %d", ErrLocked, id, s.BuildingLevel, levels)
	}
	return e.PurchaseSkill(id)
}

func spend(e *engine.Engine, cost float64) error {
	if e.Atoms() < cost {
		return fmt.Errorf("%w: need %.0f, have %.0f", ErrInsufficientAtoms, cost, e.Atoms())
	}
	return e.SpendAtoms(cost)
}
