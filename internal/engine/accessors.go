package engine

import (
	"github.com/napolitain/atom-clicker/internal/achievements"
	"github.com/napolitain/atom-clicker/internal/effects"
	"github.com/napolitain/atom-clicker/internal/leveling"
	"github.com/napolitain/atom-clicker/internal/models"
	"github.com/napolitain/atom-clicker/internal/production"
)

func (e *Engine) Content() *models.Content             { return e.content }
func (e *Engine) Catalog() *achievements.Catalog       { return e.catalog }
func (e *Engine) Atoms() float64                       { return e.store.Atoms() }
func (e *Engine) TotalClicks() int                     { return e.store.TotalClicks() }
func (e *Engine) TotalXP() float64                     { return e.store.TotalXP() }
func (e *Engine) Upgrades() []string                   { return e.store.Upgrades() }
func (e *Engine) Skills() []string                     { return e.store.Skills() }
func (e *Engine) HasUpgrade(id string) bool            { return e.store.HasUpgrade(id) }
func (e *Engine) ActivePowerUps() []models.PowerUp     { return e.store.PowerUps() }
func (e *Engine) Unlocked() []string                   { return e.store.Unlocked() }
func (e *Engine) IsUnlocked(id string) bool            { return e.store.IsUnlocked(id) }
func (e *Engine) Progress() leveling.Progress          { return e.progress }
func (e *Engine) Level() int                           { return e.progress.Level }
func (e *Engine) AtomsPerSecond() float64              { return e.derived.AtomsPerSecond }
func (e *Engine) ClickPower() float64                  { return e.derived.ClickPower }
func (e *Engine) GlobalMultiplier() float64            { return e.derived.GlobalMultiplier }
func (e *Engine) BonusMultiplier() float64             { return e.derived.BonusMultiplier }
func (e *Engine) HasBonus() bool                       { return e.derived.HasBonus }
func (e *Engine) PowerUpInterval() models.Range        { return e.derived.PowerUpInterval }
func (e *Engine) SkillPointsAvailable() int            { return e.derived.SkillPointsAvailable }
func (e *Engine) AchievementState() achievements.State { return e.achievementState() }

// Building returns the state of one building type
func (e *Engine) Building(bt models.BuildingType) (models.Building, bool) {
	return e.store.Building(bt)
}

// Buildings returns a copy of every building state
func (e *Engine) Buildings() map[models.BuildingType]models.Building {
	return e.store.Buildings()
}

// BuildingProduction returns the atoms per second of one building type
func (e *Engine) BuildingProduction(bt models.BuildingType) float64 {
	return e.derived.BuildingProductions[bt]
}

// Derived returns a copy of the values settled by the last recompute
func (e *Engine) Derived() production.Snapshot {
	d := e.derived
	d.Owned = append([]effects.Source(nil), e.derived.Owned...)
	d.BuildingProductions = make(map[models.BuildingType]float64, len(e.derived.BuildingProductions))
	for bt, v := range e.derived.BuildingProductions {
		d.BuildingProductions[bt] = v
	}
	return d
}
