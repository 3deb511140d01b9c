package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/atom-clicker/internal/engine"
	"github.com/napolitain/atom-clicker/internal/format"
	"github.com/napolitain/atom-clicker/internal/leveling"
	"github.com/napolitain/atom-clicker/internal/persistence"
	"github.com/napolitain/atom-clicker/internal/shop"
)

// loadSlotSession returns a session restored from the configured slot, or a
// fresh one when the slot is empty
func loadSlotSession(ctx context.Context) (*engine.Engine, error) {
	e, err := newSession()
	if err != nil {
		return nil, err
	}

	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	snap, err := db.Load(ctx, cfg.Slot)
	if errors.Is(err, persistence.ErrNotFound) {
		logger.Info("starting a new session", "slot", cfg.Slot)
		return e, nil
	}
	if err != nil {
		return nil, err
	}
	e.Load(snap)
	return e, nil
}

func achievementsCmd() *cobra.Command {
	var fromSave bool

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List the achievement catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				e   *engine.Engine
				err error
			)
			if fromSave {
				e, err = loadSlotSession(cmd.Context())
			} else {
				e, err = newSession()
			}
			if err != nil {
				return err
			}

			state := e.AchievementState()
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"#", "ID", "Name", "Description", "Unlocked"}),
			)
			for i, a := range e.Catalog().All() {
				name, desc := a.Name, a.Description
				if a.Hidden(state) && !e.IsUnlocked(a.ID) {
					name, desc = "???", "???"
				}
				mark := ""
				if e.IsUnlocked(a.ID) {
					mark = "✓"
				}
				_ = table.Append([]string{fmt.Sprintf("%d", i+1), a.ID, name, desc, mark})
			}
			_ = table.Render()

			if !quiet {
				fmt.Printf("\n%d/%d unlocked\n", len(e.Unlocked()), e.Catalog().Len())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromSave, "from-save", false, "Mark achievements unlocked in the configured slot")
	return cmd
}

func levelsCmd() *cobra.Command {
	var maxLevel int

	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Print the experience cost of each level",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Level", "XP", "Cumulative XP"}),
			)
			for level := 1; level <= maxLevel; level++ {
				_ = table.Append([]string{
					fmt.Sprintf("%d", level),
					format.Float(leveling.XPForLevel(level)),
					format.Float(leveling.CumulativeXP(level)),
				})
			}
			_ = table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&maxLevel, "max", "m", 20, "Highest level to print")
	return cmd
}

func adviseCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Rank next purchases by return on investment",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadSlotSession(cmd.Context())
			if err != nil {
				return err
			}

			if !quiet {
				color.New(color.FgYellow).Printf("📊 %s atoms, %s atoms/sec\n\n",
					format.Compact(e.Atoms()), format.Compact(e.AtomsPerSecond()))
			}

			options := shop.Advise(e)
			if limit > 0 && len(options) > limit {
				options = options[:limit]
			}

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"#", "Kind", "Item", "Cost", "+APS", "ROI", "Affordable"}),
			)
			for i, o := range options {
				affordable := ""
				if o.Affordable {
					affordable = "✓"
				}
				_ = table.Append([]string{
					fmt.Sprintf("%d", i+1),
					o.Kind.String(),
					o.Name,
					format.Compact(o.Cost),
					format.Compact(o.Gain),
					fmt.Sprintf("%.6f", o.ROI),
					affordable,
				})
			}
			_ = table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 15, "Number of options to show (0 for all)")
	return cmd
}

func savesCmd() *cobra.Command {
	var remove string

	cmd := &cobra.Command{
		Use:   "saves",
		Short: "List save slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := persistence.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if remove != "" {
				if err := db.Delete(cmd.Context(), remove); err != nil {
					return err
				}
				color.Green("✓ Deleted slot %s", remove)
				return nil
			}

			slots, err := db.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				color.Yellow("No saves in %s", cfg.DBPath)
				return nil
			}

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Slot", "Atoms", "Achievements", "Saved", "Save ID"}),
			)
			for _, s := range slots {
				_ = table.Append([]string{
					s.Name,
					format.Compact(s.Atoms),
					fmt.Sprintf("%d", s.Achievements),
					humanize.Time(s.SavedAt),
					s.SaveID,
				})
			}
			_ = table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&remove, "delete", "", "Delete the named slot")
	return cmd
}
