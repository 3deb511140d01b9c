package shop

import (
	"sort"

	"github.com/napolitain/atom-clicker/internal/engine"
	"github.com/napolitain/atom-clicker/internal/models"
)

// Kind is the category of a purchase option
type Kind int

const (
	KindBuilding Kind = iota
	KindLevelUp
	KindUpgrade
)

func (k Kind) String() string {
	switch k {
	case KindBuilding:
		return "building"
	case KindLevelUp:
		return "level-up"
	case KindUpgrade:
		return "upgrade"
	}
	return "unknown"
}

// ROIMetric holds the components of a return-on-investment value
type ROIMetric struct {
	GainPerSecond float64
	Cost          float64
}

// Calculate returns atoms per second gained per atom spent
func (m ROIMetric) Calculate() float64 {
	if m.Cost <= 0 {
		return m.GainPerSecond * 1000 // free items rank first
	}
	return m.GainPerSecond / m.Cost
}

// Option is one purchasable next step with its payoff
type Option struct {
	Kind       Kind
	ID         string // building type or upgrade id
	Name       string
	Cost       float64
	Gain       float64 // atoms per second added
	ROI        float64
	Affordable bool
}

// Buy applies the option to e
func (o Option) Buy(e *engine.Engine) error {
	switch o.Kind {
	case KindBuilding:
		return BuyBuilding(e, models.BuildingType(o.ID))
	case KindLevelUp:
		return UpgradeBuilding(e, models.BuildingType(o.ID))
	default:
		return BuyUpgrade(e, o.ID)
	}
}

// Advise ranks one more unit of every building, a level-up of every owned
// building and every unowned upgrade by ROI, best first. Gains are measured
// on cloned sessions so e is not modified.
func Advise(e *engine.Engine) []Option {
	content := e.Content()
	base := e.AtomsPerSecond()
	var options []Option

	for _, def := range content.Buildings {
		b, _ := e.Building(def.Type)

		cost := BuildingCost(def, b.Count)
		gain := gainOf(e, base, func(c *engine.Engine) error { return c.AddBuilding(def.Type, 1) })
		options = append(options, newOption(KindBuilding, string(def.Type), def.Name, cost, gain, e.Atoms()))

		if b.Count > 0 {
			cost := LevelUpCost(def, b.Level)
			gain := gainOf(e, base, func(c *engine.Engine) error { return c.UpgradeBuilding(def.Type) })
			options = append(options, newOption(KindLevelUp, string(def.Type), def.Name+" level", cost, gain, e.Atoms()))
		}
	}

	for _, id := range content.UpgradeOrder {
		if e.HasUpgrade(id) {
			continue
		}
		u := content.Upgrades[id]
		gain := gainOf(e, base, func(c *engine.Engine) error { return c.PurchaseUpgrade(id) })
		options = append(options, newOption(KindUpgrade, id, u.Name, u.Cost, gain, e.Atoms()))
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].ROI != options[j].ROI {
			return options[i].ROI > options[j].ROI
		}
		return options[i].Name < options[j].Name
	})
	return options
}

// Best returns the highest ROI option that is affordable now and adds
// production
func Best(e *engine.Engine) (Option, bool) {
	for _, o := range Advise(e) {
		if o.Affordable && o.Gain > 0 {
			return o, true
		}
	}
	return Option{}, false
}

func newOption(kind Kind, id, name string, cost, gain, atoms float64) Option {
	return Option{
		Kind:       kind,
		ID:         id,
		Name:       name,
		Cost:       cost,
		Gain:       gain,
		ROI:        ROIMetric{GainPerSecond: gain, Cost: cost}.Calculate(),
		Affordable: atoms >= cost,
	}
}

// gainOf applies fn to a clone and returns the settled rate difference
func gainOf(e *engine.Engine, base float64, fn func(*engine.Engine) error) float64 {
	clone := e.Clone()
	if err := fn(clone); err != nil {
		return 0
	}
	// one more event lets feedback terms catch up
	_ = clone.AddAtoms(0)
	return clone.AtomsPerSecond() - base
}
