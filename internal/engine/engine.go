// Package engine owns one game session: the state store, the derived
// production graph and the achievement catalog. Every mutation recomputes
// derived values in dependency order before returning.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/napolitain/atom-clicker/internal/achievements"
	"github.com/napolitain/atom-clicker/internal/effects"
	"github.com/napolitain/atom-clicker/internal/leveling"
	"github.com/napolitain/atom-clicker/internal/models"
	"github.com/napolitain/atom-clicker/internal/production"
	"github.com/napolitain/atom-clicker/internal/store"
)

var (
	ErrUnknownBuilding = errors.New("unknown building")
	ErrUnknownUpgrade  = errors.New("unknown upgrade")
	ErrUnknownSkill    = errors.New("unknown skill upgrade")
	ErrUnknownPowerUp  = errors.New("unknown power-up")
)

// UnlockFunc is called with achievements unlocked by one mutation
type UnlockFunc func(unlocked []*achievements.Achievement)

// Engine is a single-player game session. It is not safe for concurrent use.
type Engine struct {
	content   *models.Content
	catalog   *achievements.Catalog
	store     *store.Store
	logger    *slog.Logger
	listeners []UnlockFunc

	// Settled outputs of the last recompute
	progress leveling.Progress
	derived  production.Snapshot
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore starts the session from an existing store
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithCatalog reuses a prebuilt achievement catalog
func WithCatalog(c *achievements.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// New creates a session for content. It fails if the achievement catalog
// cannot be built.
func New(content *models.Content, opts ...Option) (*Engine, error) {
	e := &Engine{
		content: content,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.catalog == nil {
		catalog, err := achievements.NewCatalog(content.Buildings)
		if err != nil {
			return nil, fmt.Errorf("build achievement catalog: %w", err)
		}
		e.catalog = catalog
	}
	if e.store == nil {
		e.store = store.New()
	}

	e.settle()
	e.logger.Debug("session created",
		"buildings", len(content.Buildings),
		"upgrades", len(content.Upgrades),
		"achievements", e.catalog.Len())

	return e, nil
}

// OnUnlock registers a listener for newly unlocked achievements
func (e *Engine) OnUnlock(fn UnlockFunc) {
	e.listeners = append(e.listeners, fn)
}

// recompute runs leveling, effect resolution, the production graph and
// achievement evaluation in that order. Feedback terms read the values
// settled by the previous recompute.
func (e *Engine) recompute() {
	fb := effects.Feedback{
		AtomsPerSecond: e.derived.AtomsPerSecond,
		Achievements:   len(e.store.Unlocked()),
		Level:          e.progress.Level,
	}

	progress := leveling.Compute(e.store.TotalXP())

	derived := production.Compute(production.Input{
		Content:    e.content,
		Buildings:  e.store.Buildings(),
		UpgradeIDs: e.store.Upgrades(),
		SkillIDs:   e.store.Skills(),
		PowerUps:   e.store.PowerUps(),
		Feedback:   fb,
	})

	e.progress = progress
	e.derived = derived

	fresh := e.catalog.Evaluate(e.achievementState(), e.store.UnlockedSet())
	if len(fresh) == 0 {
		return
	}

	unlocked := make([]*achievements.Achievement, 0, len(fresh))
	for _, id := range fresh {
		if !e.store.Unlock(id) {
			continue
		}
		a, _ := e.catalog.Get(id)
		unlocked = append(unlocked, a)
		e.logger.Info("achievement unlocked", "id", a.ID, "name", a.Name)
	}
	for _, fn := range e.listeners {
		fn(unlocked)
	}
}

// settle recomputes twice so feedback terms reflect the current state,
// used when the state is created or replaced wholesale
func (e *Engine) settle() {
	e.progress = leveling.Progress{}
	e.derived = production.Snapshot{}
	e.recompute()
	e.recompute()
}

func (e *Engine) mutate(fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	e.recompute()
	return nil
}

func (e *Engine) achievementState() achievements.State {
	return achievements.State{
		Atoms:          e.store.Atoms(),
		Buildings:      e.store.Buildings(),
		TotalClicks:    e.store.TotalClicks(),
		TotalXP:        e.store.TotalXP(),
		Level:          e.progress.Level,
		AtomsPerSecond: e.derived.AtomsPerSecond,
		Unlocked:       len(e.store.Unlocked()),
	}
}

// AddAtoms adds currency
func (e *Engine) AddAtoms(amount float64) error {
	return e.mutate(func() error { return e.store.AddAtoms(amount) })
}

// SpendAtoms removes currency
func (e *Engine) SpendAtoms(amount float64) error {
	return e.mutate(func() error { return e.store.SpendAtoms(amount) })
}

// AddBuilding adds count units of a building type
func (e *Engine) AddBuilding(bt models.BuildingType, count int) error {
	def, ok := e.content.Building(bt)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBuilding, bt)
	}
	return e.mutate(func() error { return e.store.AddBuilding(bt, count, def.Rate) })
}

// UpgradeBuilding raises a building type by one level
func (e *Engine) UpgradeBuilding(bt models.BuildingType) error {
	if _, ok := e.content.Building(bt); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBuilding, bt)
	}
	return e.mutate(func() error { return e.store.UpgradeBuilding(bt) })
}

// PurchaseUpgrade marks an upgrade as owned; owning it twice is a no-op
func (e *Engine) PurchaseUpgrade(id string) error {
	if _, ok := e.content.Upgrades[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUpgrade, id)
	}
	return e.mutate(func() error {
		e.store.AddUpgrade(id)
		return nil
	})
}

// PurchaseSkill marks a skill upgrade as owned; owning it twice is a no-op
func (e *Engine) PurchaseSkill(id string) error {
	if _, ok := e.content.Skills[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSkill, id)
	}
	return e.mutate(func() error {
		e.store.AddSkill(id)
		return nil
	})
}

// AddPowerUp activates an arbitrary power-up
func (e *Engine) AddPowerUp(p models.PowerUp) {
	_ = e.mutate(func() error {
		e.store.AddPowerUp(p)
		return nil
	})
}

// ActivatePowerUp starts the power-up defined by defID at now
func (e *Engine) ActivatePowerUp(defID string, now time.Time) (models.PowerUp, error) {
	def, ok := e.content.PowerUps[defID]
	if !ok {
		return models.PowerUp{}, fmt.Errorf("%w: %s", ErrUnknownPowerUp, defID)
	}

	p := models.PowerUp{
		ID:         uuid.NewString(),
		Name:       def.Name,
		Multiplier: def.Multiplier,
		StartedAt:  now,
		Duration:   def.Duration,
	}
	e.AddPowerUp(p)
	e.logger.Debug("power-up activated", "name", p.Name, "multiplier", p.Multiplier, "duration", p.Duration)
	return p, nil
}

// ExpirePowerUps removes power-ups that are over at now
func (e *Engine) ExpirePowerUps(now time.Time) []models.PowerUp {
	var expired []models.PowerUp
	_ = e.mutate(func() error {
		expired = e.store.ExpirePowerUps(now)
		return nil
	})
	return expired
}

// Click registers one click and earns the current click power
func (e *Engine) Click() float64 {
	gained := e.derived.ClickPower
	_ = e.mutate(func() error {
		e.store.AddClick()
		return e.store.AddAtoms(gained)
	})
	return gained
}

// AddXP adds experience
func (e *Engine) AddXP(amount float64) error {
	return e.mutate(func() error { return e.store.AddXP(amount) })
}

// Tick advances the session by dt ending at now. Production is earned at
// the settled rate, with each power-up boosting only the part of the
// interval it was active for. Expired power-ups are then removed.
func (e *Engine) Tick(now time.Time, dt time.Duration) float64 {
	earned := 0.0
	if dt > 0 {
		earned = e.earned(now.Add(-dt), now)
	}
	_ = e.mutate(func() error {
		if err := e.store.AddAtoms(earned); err != nil {
			return err
		}
		for _, p := range e.store.ExpirePowerUps(now) {
			e.logger.Debug("power-up expired", "name", p.Name)
		}
		return nil
	})
	return earned
}

// earned integrates production over [start, end]. The settled rate includes
// every active power-up, so the unboosted rate is recovered by dividing the
// bonus out and each segment is scaled by the power-ups covering it.
func (e *Engine) earned(start, end time.Time) float64 {
	rate := e.derived.AtomsPerSecond
	bonus := e.derived.BonusMultiplier
	powerUps := e.store.PowerUps()
	if len(powerUps) == 0 || bonus == 0 {
		return rate * end.Sub(start).Seconds()
	}
	base := rate / bonus

	bounds := []time.Time{start, end}
	for _, p := range powerUps {
		for _, t := range []time.Time{p.StartedAt, p.StartedAt.Add(p.Duration)} {
			if t.After(start) && t.Before(end) {
				bounds = append(bounds, t)
			}
		}
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i].Before(bounds[j]) })

	total := 0.0
	for i := 1; i < len(bounds); i++ {
		from, to := bounds[i-1], bounds[i]
		if !to.After(from) {
			continue
		}
		segment := 1.0
		for _, p := range powerUps {
			if !p.StartedAt.After(from) && !p.StartedAt.Add(p.Duration).Before(to) {
				segment *= p.Multiplier
			}
		}
		total += base * segment * to.Sub(from).Seconds()
	}
	return total
}

// Load replaces the session state wholesale
func (e *Engine) Load(snap store.Snapshot) {
	e.store.Replace(snap)
	e.settle()
	e.logger.Info("session loaded",
		"atoms", e.store.Atoms(),
		"achievements", len(e.store.Unlocked()))
}

// Snapshot exports the session state
func (e *Engine) Snapshot() store.Snapshot {
	return e.store.Snapshot()
}

// MarkSaved records a successful save
func (e *Engine) MarkSaved(at time.Time) {
	e.store.MarkSaved(at)
}

// Clone returns an independent session with the same state, without listeners
func (e *Engine) Clone() *Engine {
	return &Engine{
		content:  e.content,
		catalog:  e.catalog,
		store:    e.store.Clone(),
		logger:   slog.New(slog.DiscardHandler),
		progress: e.progress,
		derived:  e.derived,
	}
}
