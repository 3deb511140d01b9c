package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/atom-clicker/internal/achievements"
	"github.com/napolitain/atom-clicker/internal/engine"
	"github.com/napolitain/atom-clicker/internal/format"
	"github.com/napolitain/atom-clicker/internal/persistence"
	"github.com/napolitain/atom-clicker/internal/shop"
)

// XPPerClick is the experience granted by one manual click
const XPPerClick = 1

// maxPurchasesPerStep bounds the greedy buyer within one simulated second
const maxPurchasesPerStep = 50

type simOptions struct {
	Duration        time.Duration
	ClicksPerSecond int
	PowerUps        bool
	Start           time.Time
}

type purchase struct {
	At     time.Duration
	Option shop.Option
}

type unlock struct {
	At          time.Duration
	Achievement *achievements.Achievement
}

type simResult struct {
	Purchases []purchase
	Unlocks   []unlock
	PowerUps  int
	Earned    float64
}

// simulate plays a session one second at a time: clicks, production, a
// power-up at the fastest spawn interval and greedy best-ROI purchases
func simulate(e *engine.Engine, opts simOptions) simResult {
	var res simResult
	var elapsed time.Duration

	e.OnUnlock(func(list []*achievements.Achievement) {
		for _, a := range list {
			res.Unlocks = append(res.Unlocks, unlock{At: elapsed, Achievement: a})
		}
	})

	powerUpIDs := e.Content().PowerUpOrder
	nextPowerUp := time.Duration(e.PowerUpInterval().Min * float64(time.Second))

	for elapsed < opts.Duration {
		elapsed += time.Second
		now := opts.Start.Add(elapsed)

		for i := 0; i < opts.ClicksPerSecond; i++ {
			res.Earned += e.Click()
			_ = e.AddXP(XPPerClick)
		}
		res.Earned += e.Tick(now, time.Second)

		if opts.PowerUps && len(powerUpIDs) > 0 && elapsed >= nextPowerUp {
			id := powerUpIDs[res.PowerUps%len(powerUpIDs)]
			if _, err := e.ActivatePowerUp(id, now); err == nil {
				res.PowerUps++
			}
			nextPowerUp = elapsed + time.Duration(e.PowerUpInterval().Min*float64(time.Second))
		}

		for i := 0; i < maxPurchasesPerStep; i++ {
			best, ok := shop.Best(e)
			if !ok {
				break
			}
			if err := best.Buy(e); err != nil {
				break
			}
			res.Purchases = append(res.Purchases, purchase{At: elapsed, Option: best})
		}
	}

	return res
}

func simulateCmd() *cobra.Command {
	var (
		seconds int
		cps     int
		noBonus bool
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a session with a greedy ROI buyer",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner("Session simulator")

			e, err := newSession()
			if err != nil {
				return err
			}

			infoColor := color.New(color.FgYellow)
			if !quiet {
				infoColor.Printf("🔄 Simulating %s at %d clicks/s...\n\n", formatDuration(time.Duration(seconds)*time.Second), cps)
			}

			res := simulate(e, simOptions{
				Duration:        time.Duration(seconds) * time.Second,
				ClicksPerSecond: cps,
				PowerUps:        !noBonus,
				Start:           time.Now(),
			})

			if !quiet {
				printPurchases(res.Purchases)
				printUnlocks(res.Unlocks)
			}
			printSessionSummary(e, res)

			if save {
				return saveSession(cmd.Context(), e)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&seconds, "seconds", 600, "Simulated session length in seconds")
	cmd.Flags().IntVar(&cps, "cps", 2, "Manual clicks per second")
	cmd.Flags().BoolVar(&noBonus, "no-power-ups", false, "Disable power-ups")
	cmd.Flags().BoolVar(&save, "save", false, "Save the final state to the configured slot")
	return cmd
}

func printPurchases(purchases []purchase) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Time", "Kind", "Item", "Cost", "+APS", "ROI"}),
	)
	for i, p := range purchases {
		row := []string{
			fmt.Sprintf("%d", i+1),
			formatDuration(p.At),
			p.Option.Kind.String(),
			p.Option.Name,
			format.Compact(p.Option.Cost),
			format.Compact(p.Option.Gain),
			fmt.Sprintf("%.4f", p.Option.ROI),
		}
		_ = table.Append(row)
	}
	_ = table.Render()
	fmt.Println()
}

func printUnlocks(unlocks []unlock) {
	if len(unlocks) == 0 {
		return
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Time", "Achievement", "Description"}),
	)
	for _, u := range unlocks {
		_ = table.Append([]string{formatDuration(u.At), u.Achievement.Name, u.Achievement.Description})
	}
	_ = table.Render()
	fmt.Println()
}

func printSessionSummary(e *engine.Engine, res simResult) {
	successColor := color.New(color.FgGreen, color.Bold)
	p := e.Progress()

	successColor.Printf("✓ %d purchases, %d achievements, %d power-ups\n",
		len(res.Purchases), len(e.Unlocked()), res.PowerUps)
	fmt.Printf("   Atoms:        %s (earned %s)\n", format.Compact(e.Atoms()), format.Compact(res.Earned))
	fmt.Printf("   Atoms/sec:    %s\n", format.Compact(e.AtomsPerSecond()))
	fmt.Printf("   Click power:  %s\n", format.Compact(e.ClickPower()))
	fmt.Printf("   Global ×:     %.2f\n", e.GlobalMultiplier())
	fmt.Printf("   Level:        %d (%s/%s XP, %.0f%%)\n",
		p.Level, format.Float(p.IntoLevel), format.Float(p.ForNext), p.Fraction)
	fmt.Printf("   Clicks:       %s\n", format.Int(int64(e.TotalClicks())))
	fmt.Printf("   Skill points: %d\n", e.SkillPointsAvailable())
	fmt.Println()
}

func saveSession(ctx context.Context, e *engine.Engine) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()
	e.MarkSaved(now)
	id, err := db.Save(ctx, cfg.Slot, e.Snapshot())
	if err != nil {
		return err
	}
	logger.Info("session saved", "slot", cfg.Slot, "save_id", id, "path", cfg.DBPath)
	return nil
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
