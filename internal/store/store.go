package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/napolitain/atom-clicker/internal/models"
)

var (
	// ErrNegativeAmount is returned when a mutator receives a negative amount
	ErrNegativeAmount = errors.New("negative amount")
	// ErrInsufficientAtoms is returned when spending more atoms than owned
	ErrInsufficientAtoms = errors.New("insufficient atoms")
)

// Snapshot is the plain-data form of the store, used for save and load
type Snapshot struct {
	Atoms        float64                                 `json:"atoms"`
	Buildings    map[models.BuildingType]models.Building `json:"buildings"`
	Upgrades     []string                                `json:"upgrades"`
	Skills       []string                                `json:"skill_upgrades"`
	PowerUps     []models.PowerUp                        `json:"active_power_ups"`
	TotalClicks  int                                     `json:"total_clicks"`
	TotalXP      float64                                 `json:"total_xp"`
	Achievements []string                                `json:"achievements"`
	LastSave     time.Time                               `json:"last_save"`
}

// Store is the single mutable source of truth for a game session
type Store struct {
	atoms       float64
	buildings   map[models.BuildingType]models.Building
	upgrades    []string // purchase order
	skills      []string // purchase order
	powerUps    []models.PowerUp
	totalClicks int
	totalXP     float64
	unlocked    []string // unlock order
	unlockedSet map[string]bool
	lastSave    time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{
		buildings:   make(map[models.BuildingType]models.Building),
		unlockedSet: make(map[string]bool),
	}
}

// Atoms returns the current currency amount
func (s *Store) Atoms() float64 {
	return s.atoms
}

// Building returns the state of one building type
func (s *Store) Building(bt models.BuildingType) (models.Building, bool) {
	b, ok := s.buildings[bt]
	return b, ok
}

// Buildings returns a copy of every building state
func (s *Store) Buildings() map[models.BuildingType]models.Building {
	out := make(map[models.BuildingType]models.Building, len(s.buildings))
	for bt, b := range s.buildings {
		out[bt] = b
	}
	return out
}

// Upgrades returns purchased upgrade ids in purchase order
func (s *Store) Upgrades() []string {
	return append([]string(nil), s.upgrades...)
}

// Skills returns purchased skill ids in purchase order
func (s *Store) Skills() []string {
	return append([]string(nil), s.skills...)
}

// HasUpgrade reports whether id was purchased as an upgrade or a skill
func (s *Store) HasUpgrade(id string) bool {
	return contains(s.upgrades, id) || contains(s.skills, id)
}

// PowerUps returns the active power-ups
func (s *Store) PowerUps() []models.PowerUp {
	return append([]models.PowerUp(nil), s.powerUps...)
}

// TotalClicks returns the lifetime click count
func (s *Store) TotalClicks() int {
	return s.totalClicks
}

// TotalXP returns the lifetime experience
func (s *Store) TotalXP() float64 {
	return s.totalXP
}

// Unlocked returns unlocked achievement ids in unlock order
func (s *Store) Unlocked() []string {
	return append([]string(nil), s.unlocked...)
}

// UnlockedSet returns a copy of the unlocked ids as a set
func (s *Store) UnlockedSet() map[string]bool {
	out := make(map[string]bool, len(s.unlockedSet))
	for id := range s.unlockedSet {
		out[id] = true
	}
	return out
}

// IsUnlocked reports whether an achievement is unlocked
func (s *Store) IsUnlocked(id string) bool {
	return s.unlockedSet[id]
}

// LastSave returns when the session was last persisted
func (s *Store) LastSave() time.Time {
	return s.lastSave
}

// AddAtoms adds currency
func (s *Store) AddAtoms(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("add atoms %g: %w", amount, ErrNegativeAmount)
	}
	s.atoms += amount
	return nil
}

// SpendAtoms removes currency, failing without change if not enough is owned
func (s *Store) SpendAtoms(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("spend atoms %g: %w", amount, ErrNegativeAmount)
	}
	if amount > s.atoms {
		return fmt.Errorf("spend %g of %g: %w", amount, s.atoms, ErrInsufficientAtoms)
	}
	s.atoms -= amount
	return nil
}

// AddBuilding increases the count of a building type, creating it with rate
// on first purchase
func (s *Store) AddBuilding(bt models.BuildingType, count int, rate float64) error {
	if count < 0 {
		return fmt.Errorf("add %d %s: %w", count, bt, ErrNegativeAmount)
	}
	b, ok := s.buildings[bt]
	if !ok {
		b = models.Building{Rate: rate}
	}
	b.Count += count
	s.buildings[bt] = b
	return nil
}

// UpgradeBuilding raises the level of an owned building type by one
func (s *Store) UpgradeBuilding(bt models.BuildingType) error {
	b, ok := s.buildings[bt]
	if !ok {
		return fmt.Errorf("upgrade %s: building not owned", bt)
	}
	b.Level++
	s.buildings[bt] = b
	return nil
}

// AddUpgrade records an upgrade purchase; repeated ids are ignored
func (s *Store) AddUpgrade(id string) bool {
	if contains(s.upgrades, id) {
		return false
	}
	s.upgrades = append(s.upgrades, id)
	return true
}

// AddSkill records a skill purchase; repeated ids are ignored
func (s *Store) AddSkill(id string) bool {
	if contains(s.skills, id) {
		return false
	}
	s.skills = append(s.skills, id)
	return true
}

// AddPowerUp activates a power-up
func (s *Store) AddPowerUp(p models.PowerUp) {
	s.powerUps = append(s.powerUps, p)
}

// ExpirePowerUps drops power-ups that are over at now and returns them
func (s *Store) ExpirePowerUps(now time.Time) []models.PowerUp {
	var expired []models.PowerUp
	active := s.powerUps[:0]
	for _, p := range s.powerUps {
		if p.Expired(now) {
			expired = append(expired, p)
		} else {
			active = append(active, p)
		}
	}
	s.powerUps = active
	return expired
}

// AddClick increments the click counter
func (s *Store) AddClick() {
	s.totalClicks++
}

// AddXP adds experience
func (s *Store) AddXP(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("add xp %g: %w", amount, ErrNegativeAmount)
	}
	s.totalXP += amount
	return nil
}

// Unlock records an achievement; repeated ids are ignored
func (s *Store) Unlock(id string) bool {
	if s.unlockedSet[id] {
		return false
	}
	s.unlockedSet[id] = true
	s.unlocked = append(s.unlocked, id)
	return true
}

// MarkSaved records the save time
func (s *Store) MarkSaved(at time.Time) {
	s.lastSave = at
}

// Snapshot exports the store contents
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Atoms:        s.atoms,
		Buildings:    s.Buildings(),
		Upgrades:     s.Upgrades(),
		Skills:       s.Skills(),
		PowerUps:     s.PowerUps(),
		TotalClicks:  s.totalClicks,
		TotalXP:      s.totalXP,
		Achievements: s.Unlocked(),
		LastSave:     s.lastSave,
	}
}

// Replace swaps the whole store contents for snap
func (s *Store) Replace(snap Snapshot) {
	fresh := FromSnapshot(snap)
	*s = *fresh
}

// FromSnapshot builds a store from exported contents, dropping duplicate ids
func FromSnapshot(snap Snapshot) *Store {
	s := New()
	s.atoms = snap.Atoms
	for bt, b := range snap.Buildings {
		s.buildings[bt] = b
	}
	for _, id := range snap.Upgrades {
		s.AddUpgrade(id)
	}
	for _, id := range snap.Skills {
		s.AddSkill(id)
	}
	s.powerUps = append(s.powerUps, snap.PowerUps...)
	s.totalClicks = snap.TotalClicks
	s.totalXP = snap.TotalXP
	for _, id := range snap.Achievements {
		s.Unlock(id)
	}
	s.lastSave = snap.LastSave
	return s
}

// Clone creates a deep copy of the store
func (s *Store) Clone() *Store {
	return FromSnapshot(s.Snapshot())
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
