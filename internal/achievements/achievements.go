// Package achievements builds the achievement catalog from the content
// tables and evaluates it against game state snapshots.
package achievements

import (
	"errors"
	"fmt"
	"strings"

	"github.com/napolitain/atom-clicker/internal/format"
	"github.com/napolitain/atom-clicker/internal/models"
)

// ErrDuplicateID is returned when two generators produce the same id
var ErrDuplicateID = errors.New("duplicate achievement id")

// State is the read-only snapshot predicates run against
type State struct {
	Atoms          float64
	Buildings      map[models.BuildingType]models.Building
	TotalClicks    int
	TotalXP        float64
	Level          int
	AtomsPerSecond float64
	Unlocked       int
}

// TotalBuildings sums building counts
func (s State) TotalBuildings() int {
	total := 0
	for _, b := range s.Buildings {
		total += b.Count
	}
	return total
}

// TotalLevels sums building levels
func (s State) TotalLevels() int {
	total := 0
	for _, b := range s.Buildings {
		total += b.Level
	}
	return total
}

// Condition is a pure predicate over a state snapshot
type Condition func(State) bool

// Achievement is a single catalog entry
type Achievement struct {
	ID          string
	Name        string
	Description string
	Condition   Condition
	// HiddenCondition, when set, decides whether the achievement is shown as
	// a placeholder. It never gates unlocking.
	HiddenCondition Condition
}

// Hidden reports whether the achievement should be displayed as "???"
func (a *Achievement) Hidden(s State) bool {
	return a.HiddenCondition != nil && a.HiddenCondition(s)
}

// Catalog is the immutable set of achievements keyed by id
type Catalog struct {
	ordered []*Achievement
	byID    map[string]*Achievement
}

// NewCatalog generates the full catalog for the given buildings
func NewCatalog(buildings []models.BuildingDef) (*Catalog, error) {
	var list []*Achievement
	for _, def := range buildings {
		list = append(list, buildingCountAchievements(def)...)
	}
	list = append(list, buildingTotalAchievements()...)
	list = append(list, buildingLevelAchievements()...)
	list = append(list, atomsPerSecondAchievements()...)
	list = append(list, totalClicksAchievements()...)
	list = append(list, playerLevelAchievements()...)
	list = append(list, specialAchievements()...)

	return NewCatalogFrom(list)
}

// MustCatalog is NewCatalog that panics on a construction error
func MustCatalog(buildings []models.BuildingDef) *Catalog {
	c, err := NewCatalog(buildings)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalogFrom indexes a hand-built list, rejecting duplicate ids
func NewCatalogFrom(list []*Achievement) (*Catalog, error) {
	c := &Catalog{
		ordered: make([]*Achievement, 0, len(list)),
		byID:    make(map[string]*Achievement, len(list)),
	}
	for _, a := range list {
		if _, ok := c.byID[a.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
		}
		if a.Condition == nil {
			return nil, fmt.Errorf("achievement %s has no condition", a.ID)
		}
		c.byID[a.ID] = a
		c.ordered = append(c.ordered, a)
	}
	return c, nil
}

// Get looks up an achievement by id
func (c *Catalog) Get(id string) (*Achievement, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// All returns every achievement in generation order
func (c *Catalog) All() []*Achievement {
	return append([]*Achievement(nil), c.ordered...)
}

// Len returns the catalog size
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// Evaluate returns, in catalog order, the ids whose condition holds and
// that are not in unlocked yet
func (c *Catalog) Evaluate(s State, unlocked map[string]bool) []string {
	var fresh []string
	for _, a := range c.ordered {
		if unlocked[a.ID] {
			continue
		}
		if a.Condition(s) {
			fresh = append(fresh, a.ID)
		}
	}
	return fresh
}

// Building count tiers per building type
var buildingCountTiers = []struct {
	name  string
	count int
}{
	{"One", 1},
	{"Ten", 10},
	{"Fifty", 50},
	{"Hundred", 100},
	{"Two hundred", 200},
	{"Three hundred", 300},
	{"Five hundred", 500},
}

var buildingTotalTiers = []int{50, 100, 150, 200, 250, 300, 400, 500, 600, 800, 1000, 1500, 2000, 2500, 3000}

var buildingLevelTiers = []int{1, 2, 3, 5, 7, 10, 15, 20, 30, 50}

var totalClickTiers = []int{
	1, 100, 500, 1_000, 5_000, 10_000, 50_000, 100_000, 500_000,
	1_000_000, 5_000_000, 10_000_000, 50_000_000, 100_000_000,
}

var playerLevelTiers = []int{
	1, 10, 25, 50, 100, 250, 500, 1_000, 2_500, 5_000, 10_000,
	25_000, 50_000, 100_000, 250_000, 500_000, 1_000_000,
}

func buildingCountAchievements(def models.BuildingDef) []*Achievement {
	bt := def.Type
	noneOwned := func(s State) bool {
		b, ok := s.Buildings[bt]
		return !ok || b.Count == 0
	}

	list := make([]*Achievement, 0, len(buildingCountTiers))
	for _, tier := range buildingCountTiers {
		count := tier.count
		description := fmt.Sprintf("Own %d %s buildings", count, def.Name)
		if count == 1 {
			description = fmt.Sprintf("Buy your first %s building", def.Name)
		}
		list = append(list, &Achievement{
			ID:              fmt.Sprintf("%d_%s", count, bt),
			Name:            fmt.Sprintf("%s %s", tier.name, def.Name),
			Description:     description,
			HiddenCondition: noneOwned,
			Condition: func(s State) bool {
				b, ok := s.Buildings[bt]
				return ok && b.Count >= count
			},
		})
	}
	return list
}

func buildingTotalAchievements() []*Achievement {
	list := make([]*Achievement, 0, len(buildingTotalTiers))
	for _, count := range buildingTotalTiers {
		list = append(list, &Achievement{
			ID:              fmt.Sprintf("total_%d", count),
			Name:            fmt.Sprintf("%d Buildings", count),
			Description:     fmt.Sprintf("Own a total of %s buildings", format.Int(int64(count))),
			HiddenCondition: func(s State) bool { return s.TotalBuildings() == 0 },
			Condition:       func(s State) bool { return s.TotalBuildings() >= count },
		})
	}
	return list
}

func buildingLevelAchievements() []*Achievement {
	list := make([]*Achievement, 0, len(buildingLevelTiers))
	for _, level := range buildingLevelTiers {
		list = append(list, &Achievement{
			ID:              fmt.Sprintf("buildings_levels_%d", level),
			Name:            fmt.Sprintf("Levels %d", level),
			Description:     fmt.Sprintf("Have a total of %d buildings levels", level),
			HiddenCondition: func(s State) bool { return s.TotalLevels() == 0 },
			Condition:       func(s State) bool { return s.TotalLevels() >= level },
		})
	}
	return list
}

// atomsPerSecondAchievements covers 10, 1K, 100K ... 10Qi (10^(2k) × 10)
func atomsPerSecondAchievements() []*Achievement {
	list := make([]*Achievement, 0, 10)
	threshold := 10.0
	for k := 0; k < 10; k++ {
		count := threshold
		formatted := format.Compact(count)
		list = append(list, &Achievement{
			ID:          "aps_" + strings.ToLower(formatted),
			Name:        fmt.Sprintf("%s Atoms per Second", formatted),
			Description: fmt.Sprintf("Produce %s atoms per second", formatted),
			Condition:   func(s State) bool { return s.AtomsPerSecond >= count },
		})
		threshold *= 100
	}
	return list
}

func totalClicksAchievements() []*Achievement {
	list := make([]*Achievement, 0, len(totalClickTiers))
	for _, count := range totalClickTiers {
		list = append(list, &Achievement{
			ID:              fmt.Sprintf("clicks_%d", count),
			Name:            fmt.Sprintf("%s Clicks", format.Compact(float64(count))),
			Description:     fmt.Sprintf("Click %s times", format.Int(int64(count))),
			HiddenCondition: func(s State) bool { return s.TotalClicks == 0 },
			Condition:       func(s State) bool { return s.TotalClicks >= count },
		})
	}
	return list
}

func playerLevelAchievements() []*Achievement {
	list := make([]*Achievement, 0, len(playerLevelTiers))
	for _, level := range playerLevelTiers {
		list = append(list, &Achievement{
			ID:          fmt.Sprintf("levels_%d", level),
			Name:        fmt.Sprintf("Level %s", format.Int(int64(level))),
			Description: fmt.Sprintf("Be at least %s xp level", format.Int(int64(level))),
			Condition:   func(s State) bool { return s.Level >= level },
		})
	}
	return list
}

func specialAchievements() []*Achievement {
	return []*Achievement{
		{
			ID:          "first_atom",
			Name:        "Baby Steps",
			Description: "Click your first atom",
			Condition:   func(s State) bool { return s.Atoms >= 1 || s.TotalClicks >= 1 },
		},
		{
			ID:              "secret_achievement",
			Name:            "Have more than 100 buildings",
			Description:     "A mysterious achievement",
			HiddenCondition: func(s State) bool { return s.TotalBuildings() < 100 },
			Condition:       func(s State) bool { return s.TotalBuildings() >= 100 },
		},
	}
}
