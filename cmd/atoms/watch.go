package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/napolitain/atom-clicker/internal/achievements"
	"github.com/napolitain/atom-clicker/internal/engine"
	"github.com/napolitain/atom-clicker/internal/format"
	"github.com/napolitain/atom-clicker/internal/shop"
)

var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	bonusStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const maxNotices = 5

type tickMsg time.Time

type watchModel struct {
	engine    *engine.Engine
	interval  time.Duration
	autoSave  time.Duration
	last      time.Time
	lastSaved time.Time
	notices   []string
	save      func() error
	nextPU    int
}

func newWatchModel(e *engine.Engine, interval, autoSave time.Duration, save func() error) *watchModel {
	now := time.Now()
	m := &watchModel{
		engine:    e,
		interval:  interval,
		autoSave:  autoSave,
		last:      now,
		lastSaved: now,
		save:      save,
	}
	e.OnUnlock(func(list []*achievements.Achievement) {
		for _, a := range list {
			m.notify("🏆 " + a.Name)
		}
	})
	return m
}

func (m *watchModel) notify(msg string) {
	m.notices = append(m.notices, msg)
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

func (m *watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		m.engine.Tick(now, now.Sub(m.last))
		m.last = now
		if m.autoSave > 0 && now.Sub(m.lastSaved) >= m.autoSave {
			m.saveNow(now)
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "c":
			m.engine.Click()
			_ = m.engine.AddXP(XPPerClick)
		case "p":
			m.activatePowerUp()
		case "b":
			m.buyBest()
		case "s":
			m.saveNow(time.Now())
		}
	}
	return m, nil
}

func (m *watchModel) saveNow(now time.Time) {
	m.lastSaved = now
	if err := m.save(); err != nil {
		m.notify("✗ save failed: " + err.Error())
		return
	}
	m.notify("✓ saved")
}

func (m *watchModel) activatePowerUp() {
	ids := m.engine.Content().PowerUpOrder
	if len(ids) == 0 {
		return
	}
	p, err := m.engine.ActivatePowerUp(ids[m.nextPU%len(ids)], time.Now())
	if err != nil {
		m.notify("✗ " + err.Error())
		return
	}
	m.nextPU++
	m.notify(fmt.Sprintf("⚡ %s ×%g for %s", p.Name, p.Multiplier, p.Duration))
}

func (m *watchModel) buyBest() {
	best, ok := shop.Best(m.engine)
	if !ok {
		m.notify("nothing affordable")
		return
	}
	if err := best.Buy(m.engine); err != nil {
		m.notify("✗ " + err.Error())
		return
	}
	m.notify(fmt.Sprintf("🛒 %s for %s", best.Name, format.Compact(best.Cost)))
}

func (m *watchModel) View() string {
	e := m.engine
	p := e.Progress()
	var b strings.Builder

	b.WriteString(bannerStyle.Render("⚛  Atom Clicker"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("Atoms", format.Compact(e.Atoms()))
	row("Atoms/sec", format.Compact(e.AtomsPerSecond()))
	row("Click power", format.Compact(e.ClickPower()))
	row("Level", fmt.Sprintf("%d  (%.0f%%)", p.Level, p.Fraction))
	row("Achievements", fmt.Sprintf("%d/%d", len(e.Unlocked()), e.Catalog().Len()))
	row("Skill points", fmt.Sprintf("%d", e.SkillPointsAvailable()))

	if e.HasBonus() {
		b.WriteString("\n")
		for _, pu := range e.ActivePowerUps() {
			b.WriteString(bonusStyle.Render(fmt.Sprintf("⚡ %s ×%g  %s left",
				pu.Name, pu.Multiplier, pu.Remaining(time.Now()).Round(time.Second))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	for _, def := range e.Content().Buildings {
		bld, ok := e.Building(def.Type)
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-16s ×%-4d lvl %-3d %s/s\n",
			def.Name, bld.Count, bld.Level, format.Compact(e.BuildingProduction(def.Type))))
	}

	if len(m.notices) > 0 {
		b.WriteString("\n")
		for _, n := range m.notices {
			b.WriteString(noticeStyle.Render(n))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space: click • b: buy best • p: power-up • s: save • q: quit"))
	b.WriteString("\n")
	return b.String()
}

func watchCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Play the configured save slot in a live terminal view",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the view; logs go to a file or nowhere
			level, _ := cfg.SlogLevel()
			out := io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				out = f
			}
			logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

			e, err := loadSlotSession(cmd.Context())
			if err != nil {
				return err
			}

			save := func() error { return saveSession(context.Background(), e) }
			m := newWatchModel(e, cfg.TickInterval, cfg.AutoSaveInterval, save)
			if _, err := tea.NewProgram(m).Run(); err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			return save()
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while watching")
	return cmd
}
