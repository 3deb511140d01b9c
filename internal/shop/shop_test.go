package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/atom-clicker/internal/engine"
	"github.com/napolitain/atom-clicker/internal/models"
)

func newTestContent() *models.Content {
	c := models.NewContent()
	c.Buildings = []models.BuildingDef{
		{Type: models.Molecule, Name: "Molecule", Rate: 1, Cost: 10},
		{Type: models.Crystal, Name: "Crystal", Rate: 5, Cost: 100},
	}
	c.PowerUpInterval = models.Range{Min: 60, Max: 180}

	c.Upgrades["molecule_1"] = &models.Upgrade{ID: "molecule_1", Name: "Molecule Boost", Cost: 50, Effects: []models.Effect{
		{Target: string(models.Molecule), Type: models.TypeBuilding, ValueType: models.ValueMultiply, Value: 2},
	}}
	c.Upgrades["click_1"] = &models.Upgrade{ID: "click_1", Name: "Better Click", Cost: 20, Effects: []models.Effect{
		{Target: models.TargetClick, Type: models.TypeClick, ValueType: models.ValueAdd, Value: 1},
	}}
	c.UpgradeOrder = []string{"molecule_1", "click_1"}

	c.Skills["skill_1"] = &models.SkillUpgrade{ID: "skill_1", Name: "Tier 1", BuildingLevel: 1, Description: "+5% production"}
	c.Skills["skill_3"] = &models.SkillUpgrade{ID: "skill_3", Name: "Tier 3", BuildingLevel: 3, Description: "+10% production"}
	c.SkillOrder = []string{"skill_1", "skill_3"}
	return c
}

func newTestEngine(t *testing.T, atoms float64) *engine.Engine {
	t.Helper()
	e, err := engine.New(newTestContent())
	require.NoError(t, err)
	require.NoError(t, e.AddAtoms(atoms))
	return e
}

func TestBuildingCost(t *testing.T) {
	def := models.BuildingDef{Type: models.Molecule, Cost: 15}

	tests := []struct {
		owned int
		want  float64
	}{
		{0, 15},
		{1, 18},
		{2, 20},
		{10, 61},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildingCost(def, tt.owned), "owned=%d", tt.owned)
	}
}

func TestLevelUpCost(t *testing.T) {
	def := models.BuildingDef{Type: models.Molecule, Cost: 15}

	assert.Equal(t, 150.0, LevelUpCost(def, 0))
	assert.Equal(t, 600.0, LevelUpCost(def, 1))
	assert.Equal(t, 2400.0, LevelUpCost(def, 2))
}

func TestBuyBuilding(t *testing.T) {
	e := newTestEngine(t, 100)

	require.NoError(t, BuyBuilding(e, models.Molecule))
	assert.Equal(t, 90.0, e.Atoms())
	b, _ := e.Building(models.Molecule)
	assert.Equal(t, 1, b.Count)
	assert.Equal(t, 1.0, e.AtomsPerSecond())

	cost, err := NextBuildingCost(e, models.Molecule)
	require.NoError(t, err)
	assert.Equal(t, 12.0, cost)
}

func TestBuyBuildingUnaffordableLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t, 5)

	err := BuyBuilding(e, models.Crystal)
	assert.ErrorIs(t, err, ErrInsufficientAtoms)
	assert.Equal(t, 5.0, e.Atoms())
	_, owned := e.Building(models.Crystal)
	assert.False(t, owned)
}

func TestBuyBuildingUnknown(t *testing.T) {
	e := newTestEngine(t, 100)
	assert.ErrorIs(t, BuyBuilding(e, "castle"), ErrUnknown)
}

func TestUpgradeBuilding(t *testing.T) {
	e := newTestEngine(t, 1000)

	assert.ErrorIs(t, UpgradeBuilding(e, models.Molecule), ErrLocked)

	require.NoError(t, BuyBuilding(e, models.Molecule))
	require.NoError(t, UpgradeBuilding(e, models.Molecule))

	b, _ := e.Building(models.Molecule)
	assert.Equal(t, 1, b.Level)
	assert.Equal(t, 890.0, e.Atoms())
	assert.Equal(t, 1, e.SkillPointsAvailable())
}

func TestBuyUpgrade(t *testing.T) {
	e := newTestEngine(t, 100)

	require.NoError(t, BuyUpgrade(e, "click_1"))
	assert.Equal(t, 80.0, e.Atoms())
	assert.Equal(t, 3.0, e.ClickPower())

	assert.ErrorIs(t, BuyUpgrade(e, "click_1"), ErrAlreadyOwned)
	assert.Equal(t, 80.0, e.Atoms())
	assert.ErrorIs(t, BuyUpgrade(e, "missing"), ErrUnknown)
}

func TestBuySkill(t *testing.T) {
	e := newTestEngine(t, 1000)

	assert.ErrorIs(t, BuySkill(e, "skill_1"), ErrNoSkillPoints)

	require.NoError(t, BuyBuilding(e, models.Molecule))
	require.NoError(t, UpgradeBuilding(e, models.Molecule))

	assert.ErrorIs(t, BuySkill(e, "skill_3"), ErrLocked)
	require.NoError(t, BuySkill(e, "skill_1"))
	assert.Equal(t, 0, e.SkillPointsAvailable())
	assert.ErrorIs(t, BuySkill(e, "skill_1"), ErrAlreadyOwned)
	assert.ErrorIs(t, BuySkill(e, "nope"), ErrUnknown)
}

func TestROIMetric(t *testing.T) {
	assert.Equal(t, 0.1, ROIMetric{GainPerSecond: 1, Cost: 10}.Calculate())
	assert.Equal(t, 2000.0, ROIMetric{GainPerSecond: 2, Cost: 0}.Calculate())
}

func TestAdviseRanksBestFirst(t *testing.T) {
	e := newTestEngine(t, 1000)

	options := Advise(e)
	require.NotEmpty(t, options)

	best := options[0]
	assert.Equal(t, KindBuilding, best.Kind)
	assert.Equal(t, string(models.Molecule), best.ID)
	assert.Equal(t, 1.0, best.Gain)
	assert.InDelta(t, 0.1, best.ROI, 1e-12)
	assert.True(t, best.Affordable)

	for i := 1; i < len(options); i++ {
		assert.GreaterOrEqual(t, options[i-1].ROI, options[i].ROI)
	}

	// advising never mutates the session
	assert.Equal(t, 0.0, e.AtomsPerSecond())
	assert.Equal(t, 1000.0, e.Atoms())
}

func TestAdviseValuesUpgradesAgainstOwnedBuildings(t *testing.T) {
	e := newTestEngine(t, 1000)
	require.NoError(t, e.AddBuilding(models.Molecule, 10))

	var boost Option
	for _, o := range Advise(e) {
		if o.ID == "molecule_1" {
			boost = o
		}
	}
	assert.Equal(t, KindUpgrade, boost.Kind)
	assert.Equal(t, 10.0, boost.Gain)
	assert.InDelta(t, 0.2, boost.ROI, 1e-12)
}

func TestBestBuysAffordableOption(t *testing.T) {
	e := newTestEngine(t, 10)

	o, ok := Best(e)
	require.True(t, ok)
	require.NoError(t, o.Buy(e))
	assert.Equal(t, 1.0, e.AtomsPerSecond())
	assert.Equal(t, 0.0, e.Atoms())

	_, ok = Best(e)
	assert.False(t, ok)
}
