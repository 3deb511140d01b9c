package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/atom-clicker/internal/models"
)

// ErrDuplicateID is returned when a content table defines the same id twice
var ErrDuplicateID = errors.New("duplicate content id")

// ErrInvalidContent is returned for entries that fail validation
var ErrInvalidContent = errors.New("invalid content")

// buildingsYAML represents the YAML structure for buildings.yaml
type buildingsYAML struct {
	Buildings []struct {
		Type string  `yaml:"type"`
		Name string  `yaml:"name"`
		Rate float64 `yaml:"rate"`
		Cost float64 `yaml:"cost"`
	} `yaml:"buildings"`
}

// effectYAML represents a single effect entry
type effectYAML struct {
	Target    string  `yaml:"target"`
	Type      string  `yaml:"type"`
	ValueType string  `yaml:"value_type"`
	Value     float64 `yaml:"value"`
}

type upgradesYAML struct {
	Upgrades []struct {
		ID      string       `yaml:"id"`
		Name    string       `yaml:"name"`
		Cost    float64      `yaml:"cost"`
		Effects []effectYAML `yaml:"effects"`
	} `yaml:"upgrades"`
}

type skillsYAML struct {
	Skills []struct {
		ID            string `yaml:"id"`
		Name          string `yaml:"name"`
		BuildingLevel int    `yaml:"building_level"`
		Description   string `yaml:"description"`
	} `yaml:"skills"`
}

type powerUpsYAML struct {
	DefaultInterval struct {
		Min float64 `yaml:"min"`
		Max float64 `yaml:"max"`
	} `yaml:"default_interval"`
	PowerUps []struct {
		ID         string        `yaml:"id"`
		Name       string        `yaml:"name"`
		Multiplier float64       `yaml:"multiplier"`
		Duration   time.Duration `yaml:"duration"`
	} `yaml:"power_ups"`
}

// LoadContent loads every content table from a data directory
func LoadContent(dataDir string) (*models.Content, error) {
	return LoadContentFS(os.DirFS(dataDir))
}

// LoadContentFS loads every content table from fsys
func LoadContentFS(fsys fs.FS) (*models.Content, error) {
	content := models.NewContent()

	if err := loadBuildings(fsys, content); err != nil {
		return nil, err
	}
	if err := loadUpgrades(fsys, content); err != nil {
		return nil, err
	}
	if err := loadSkills(fsys, content); err != nil {
		return nil, err
	}
	if err := loadPowerUps(fsys, content); err != nil {
		return nil, err
	}

	return content, nil
}

func readYAML(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func loadBuildings(fsys fs.FS, content *models.Content) error {
	var raw buildingsYAML
	if err := readYAML(fsys, "buildings.yaml", &raw); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, b := range raw.Buildings {
		if b.Type == "" {
			return fmt.Errorf("%w: building without type", ErrInvalidContent)
		}
		if seen[b.Type] {
			return fmt.Errorf("%w: building %q", ErrDuplicateID, b.Type)
		}
		if b.Rate < 0 || b.Cost < 0 {
			return fmt.Errorf("%w: building %q has a negative rate or cost", ErrInvalidContent, b.Type)
		}
		seen[b.Type] = true

		content.Buildings = append(content.Buildings, models.BuildingDef{
			Type: models.BuildingType(b.Type),
			Name: b.Name,
			Rate: b.Rate,
			Cost: b.Cost,
		})
	}

	return nil
}

func loadUpgrades(fsys fs.FS, content *models.Content) error {
	var raw upgradesYAML
	if err := readYAML(fsys, "upgrades.yaml", &raw); err != nil {
		return err
	}

	for _, u := range raw.Upgrades {
		if _, ok := content.Upgrades[u.ID]; ok {
			return fmt.Errorf("%w: upgrade %q", ErrDuplicateID, u.ID)
		}

		upgrade := &models.Upgrade{
			ID:      u.ID,
			Name:    u.Name,
			Cost:    u.Cost,
			Effects: make([]models.Effect, 0, len(u.Effects)),
		}
		for _, e := range u.Effects {
			vt := models.ValueType(e.ValueType)
			if !vt.Valid() {
				return fmt.Errorf("%w: upgrade %q has value_type %q", ErrInvalidContent, u.ID, e.ValueType)
			}
			upgrade.Effects = append(upgrade.Effects, models.Effect{
				Target:    e.Target,
				Type:      e.Type,
				ValueType: vt,
				Value:     e.Value,
			})
		}

		content.Upgrades[u.ID] = upgrade
		content.UpgradeOrder = append(content.UpgradeOrder, u.ID)
	}

	return nil
}

func loadSkills(fsys fs.FS, content *models.Content) error {
	var raw skillsYAML
	if err := readYAML(fsys, "skills.yaml", &raw); err != nil {
		return err
	}

	for _, s := range raw.Skills {
		if _, ok := content.Skills[s.ID]; ok {
			return fmt.Errorf("%w: skill %q", ErrDuplicateID, s.ID)
		}
		// Owned ids share one namespace with upgrades
		if _, ok := content.Upgrades[s.ID]; ok {
			return fmt.Errorf("%w: skill %q is also an upgrade", ErrDuplicateID, s.ID)
		}

		content.Skills[s.ID] = &models.SkillUpgrade{
			ID:            s.ID,
			Name:          s.Name,
			BuildingLevel: s.BuildingLevel,
			Description:   s.Description,
		}
		content.SkillOrder = append(content.SkillOrder, s.ID)
	}

	return nil
}

func loadPowerUps(fsys fs.FS, content *models.Content) error {
	var raw powerUpsYAML
	if err := readYAML(fsys, "powerups.yaml", &raw); err != nil {
		return err
	}

	if raw.DefaultInterval.Min <= 0 || raw.DefaultInterval.Max < raw.DefaultInterval.Min {
		return fmt.Errorf("%w: default power-up interval [%g, %g]",
			ErrInvalidContent, raw.DefaultInterval.Min, raw.DefaultInterval.Max)
	}
	content.PowerUpInterval = models.Range{Min: raw.DefaultInterval.Min, Max: raw.DefaultInterval.Max}

	for _, p := range raw.PowerUps {
		if _, ok := content.PowerUps[p.ID]; ok {
			return fmt.Errorf("%w: power-up %q", ErrDuplicateID, p.ID)
		}
		if p.Multiplier <= 0 || p.Duration <= 0 {
			return fmt.Errorf("%w: power-up %q needs a positive multiplier and duration", ErrInvalidContent, p.ID)
		}

		content.PowerUps[p.ID] = &models.PowerUpDef{
			ID:         p.ID,
			Name:       p.Name,
			Multiplier: p.Multiplier,
			Duration:   p.Duration,
		}
		content.PowerUpOrder = append(content.PowerUpOrder, p.ID)
	}

	return nil
}
