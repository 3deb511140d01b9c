package main

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/napolitain/atom-clicker/data"
	"github.com/napolitain/atom-clicker/internal/engine"
	"github.com/napolitain/atom-clicker/internal/loader"
)

func newTestSession(t *testing.T) *engine.Engine {
	t.Helper()
	content, err := loader.LoadContentFS(data.EmbeddedFS())
	if err != nil {
		t.Fatalf("Failed to load content: %v", err)
	}
	e, err := engine.New(content, engine.WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return e
}

func TestSimulate(t *testing.T) {
	e := newTestSession(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	res := simulate(e, simOptions{
		Duration:        5 * time.Minute,
		ClicksPerSecond: 2,
		PowerUps:        true,
		Start:           start,
	})

	if e.TotalClicks() != 600 {
		t.Errorf("Expected 600 clicks, got %d", e.TotalClicks())
	}
	if e.Level() != 3 {
		t.Errorf("Expected level 3 after 600 XP, got %d", e.Level())
	}
	if len(res.Purchases) == 0 {
		t.Fatal("Expected the greedy buyer to purchase something")
	}
	if res.PowerUps == 0 {
		t.Error("Expected at least one power-up")
	}
	if e.AtomsPerSecond() <= 0 {
		t.Errorf("Expected positive production, got %f", e.AtomsPerSecond())
	}
	for _, id := range []string{"first_atom", "clicks_1", "clicks_100", "levels_1", "1_molecule"} {
		if !e.IsUnlocked(id) {
			t.Errorf("Expected %s to be unlocked", id)
		}
	}
	if len(res.Unlocks) != len(e.Unlocked()) {
		t.Errorf("Expected %d reported unlocks, got %d", len(e.Unlocked()), len(res.Unlocks))
	}

	for i := 1; i < len(res.Purchases); i++ {
		if res.Purchases[i].At < res.Purchases[i-1].At {
			t.Fatalf("Purchases out of order at %d", i)
		}
	}
}

func TestSimulateDeterministic(t *testing.T) {
	opts := simOptions{Duration: 2 * time.Minute, ClicksPerSecond: 3, PowerUps: true, Start: time.Unix(0, 0)}

	a := simulate(newTestSession(t), opts)
	b := simulate(newTestSession(t), opts)

	if len(a.Purchases) != len(b.Purchases) {
		t.Fatalf("Expected identical runs, got %d and %d purchases", len(a.Purchases), len(b.Purchases))
	}
	for i := range a.Purchases {
		if a.Purchases[i].Option.Name != b.Purchases[i].Option.Name {
			t.Errorf("Purchase %d differs: %s vs %s", i, a.Purchases[i].Option.Name, b.Purchases[i].Option.Name)
		}
	}
	if a.Earned != b.Earned {
		t.Errorf("Expected identical earnings, got %f and %f", a.Earned, b.Earned)
	}
}

func TestWatchModelKeys(t *testing.T) {
	e := newTestSession(t)
	saves := 0
	m := newWatchModel(e, time.Second, 0, func() error {
		saves++
		return nil
	})

	key := func(r rune) tea.KeyMsg {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
	}

	m.Update(key('c'))
	if e.TotalClicks() != 1 {
		t.Errorf("Expected 1 click, got %d", e.TotalClicks())
	}
	if e.Atoms() != 2 {
		t.Errorf("Expected 2 atoms, got %f", e.Atoms())
	}

	m.Update(key('b'))
	if got := m.notices[len(m.notices)-1]; got != "nothing affordable" {
		t.Errorf("Expected nothing affordable notice, got %q", got)
	}

	m.Update(key('p'))
	if !e.HasBonus() {
		t.Error("Expected an active power-up")
	}

	m.Update(key('s'))
	if saves != 1 {
		t.Errorf("Expected 1 save, got %d", saves)
	}

	_, cmd := m.Update(key('q'))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}

	view := m.View()
	for _, want := range []string{"Atoms/sec", "Click power", "Baby Steps"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestWatchModelTickAutoSaves(t *testing.T) {
	e := newTestSession(t)
	saves := 0
	m := newWatchModel(e, time.Second, time.Minute, func() error {
		saves++
		return nil
	})

	m.Update(tickMsg(m.last.Add(30 * time.Second)))
	if saves != 0 {
		t.Errorf("Expected no save before the interval, got %d", saves)
	}
	m.Update(tickMsg(m.last.Add(31 * time.Second)))
	if saves != 1 {
		t.Errorf("Expected 1 auto-save, got %d", saves)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m00s"},
		{75 * time.Second, "1m15s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
