// Package effects selects owned upgrades by effect filter and folds their
// effects into a single multiplier.
package effects

import "github.com/napolitain/atom-clicker/internal/models"

// Kind tags which variant a Source holds
type Kind int

const (
	KindUpgrade Kind = iota
	KindSkill
)

func (k Kind) String() string {
	switch k {
	case KindUpgrade:
		return "upgrade"
	case KindSkill:
		return "skill"
	}
	return "unknown"
}

// Source is an owned effect source: either an upgrade with an effect list
// or a skill upgrade whose bonus is embedded in its description
type Source struct {
	Kind    Kind
	Upgrade *models.Upgrade
	Skill   *models.SkillUpgrade
}

// FromUpgrade wraps an upgrade
func FromUpgrade(u *models.Upgrade) Source {
	return Source{Kind: KindUpgrade, Upgrade: u}
}

// FromSkill wraps a skill upgrade
func FromSkill(s *models.SkillUpgrade) Source {
	return Source{Kind: KindSkill, Skill: s}
}

// ID returns the content id of the wrapped entity
func (s Source) ID() string {
	switch s.Kind {
	case KindUpgrade:
		return s.Upgrade.ID
	case KindSkill:
		return s.Skill.ID
	}
	return ""
}

// Name returns the display name of the wrapped entity
func (s Source) Name() string {
	switch s.Kind {
	case KindUpgrade:
		return s.Upgrade.Name
	case KindSkill:
		return s.Skill.Name
	}
	return ""
}

// Filter narrows sources by effect fields; empty fields match anything
type Filter struct {
	Target    string
	Type      string
	ValueType models.ValueType
}

// Feedback carries the live derived values some value types scale with
type Feedback struct {
	AtomsPerSecond float64
	Achievements   int
	Level          int
}

// Resolve turns owned ids into sources: upgrades first, then skills, each
// in purchase order. Ids missing from content are dropped.
func Resolve(content *models.Content, upgradeIDs, skillIDs []string) []Source {
	sources := make([]Source, 0, len(upgradeIDs)+len(skillIDs))
	for _, id := range append(append([]string(nil), upgradeIDs...), skillIDs...) {
		if u, ok := content.Upgrades[id]; ok {
			sources = append(sources, FromUpgrade(u))
		} else if s, ok := content.Skills[id]; ok {
			sources = append(sources, FromSkill(s))
		}
	}
	return sources
}

// Matches reports whether the source satisfies every supplied filter field.
// A field matches when at least one of the source's effects has that value.
// Skill sources carry no effect list and never match.
func (s Source) Matches(f Filter) bool {
	if s.Kind != KindUpgrade || s.Upgrade == nil || s.Upgrade.Effects == nil {
		return false
	}

	effects := s.Upgrade.Effects
	if f.Type != "" && !anyEffect(effects, func(e models.Effect) bool { return e.Type == f.Type }) {
		return false
	}
	if f.ValueType != "" && !anyEffect(effects, func(e models.Effect) bool { return e.ValueType == f.ValueType }) {
		return false
	}
	if f.Target != "" && !anyEffect(effects, func(e models.Effect) bool { return e.Target == f.Target }) {
		return false
	}
	return true
}

func anyEffect(effects []models.Effect, pred func(models.Effect) bool) bool {
	for _, e := range effects {
		if pred(e) {
			return true
		}
	}
	return false
}

// Select returns the sources matching f, preserving order
func Select(sources []Source, f Filter) []Source {
	var selected []Source
	for _, s := range sources {
		if s.Matches(f) {
			selected = append(selected, s)
		}
	}
	return selected
}

// Partition splits sources into those matching f and the rest
func Partition(sources []Source, f Filter) (matched, rest []Source) {
	for _, s := range sources {
		if s.Matches(f) {
			matched = append(matched, s)
		} else {
			rest = append(rest, s)
		}
	}
	return matched, rest
}

// Fold computes a multiplier starting at base, applying each source in order.
// For an upgrade the steps are: add, multiply, then the add_aps, add_ach and
// add_levels terms scaled by fb. A skill multiplies by 1 + its percentage.
func Fold(sources []Source, base float64, fb Feedback) float64 {
	multiplier := base

	for _, s := range sources {
		switch s.Kind {
		case KindUpgrade:
			if s.Upgrade == nil {
				continue
			}
			effects := s.Upgrade.Effects

			multiplier += sumOf(effects, models.ValueAdd)
			multiplier *= productOf(effects, models.ValueMultiply)
			multiplier += sumOf(effects, models.ValueAddAPS) * fb.AtomsPerSecond
			multiplier += sumOf(effects, models.ValueAddAch) * float64(fb.Achievements)
			multiplier += sumOf(effects, models.ValueAddLevels) * float64(fb.Level)

		case KindSkill:
			if s.Skill == nil {
				continue
			}
			if pct, ok := s.Skill.Bonus(); ok {
				multiplier *= 1 + float64(pct)/100
			}
		}
	}

	return multiplier
}

func sumOf(effects []models.Effect, vt models.ValueType) float64 {
	sum := 0.0
	for _, e := range effects {
		if e.ValueType == vt {
			sum += e.Value
		}
	}
	return sum
}

func productOf(effects []models.Effect, vt models.ValueType) float64 {
	product := 1.0
	for _, e := range effects {
		if e.ValueType == vt {
			product *= e.Value
		}
	}
	return product
}
