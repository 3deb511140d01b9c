package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/atom-clicker/data"
	"github.com/napolitain/atom-clicker/internal/config"
	"github.com/napolitain/atom-clicker/internal/engine"
	"github.com/napolitain/atom-clicker/internal/loader"
	"github.com/napolitain/atom-clicker/internal/models"
)

var (
	configFile string
	dataDir    string
	dbPath     string
	slot       string
	logLevel   string
	quiet      bool

	cfg    config.Config
	logger *slog.Logger
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("86")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 2)

func main() {
	rootCmd := &cobra.Command{
		Use:   "atoms",
		Short: "Atom Clicker progression engine",
		Long: `Runs and inspects Atom Clicker sessions: buildings, upgrades,
achievements, levels and power-ups recomputed after every action.`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "", "Path to content directory (default: embedded)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the save database")
	rootCmd.PersistentFlags().StringVarP(&slot, "slot", "s", "", "Save slot name")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(
		simulateCmd(),
		achievementsCmd(),
		levelsCmd(),
		adviseCmd(),
		savesCmd(),
		watchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// setup resolves configuration as defaults < file < environment < flags
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	if flags.Changed("slot") {
		cfg.Slot = slot
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func loadContent() (*models.Content, error) {
	var fsys fs.FS = data.EmbeddedFS()
	if cfg.DataDir != "" {
		fsys = os.DirFS(cfg.DataDir)
	}
	content, err := loader.LoadContentFS(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	logger.Debug("content loaded",
		"buildings", len(content.Buildings),
		"upgrades", len(content.Upgrades),
		"skills", len(content.Skills),
		"power_ups", len(content.PowerUps))
	return content, nil
}

func newSession() (*engine.Engine, error) {
	content, err := loadContent()
	if err != nil {
		return nil, err
	}
	return engine.New(content, engine.WithLogger(logger))
}

func printBanner(subtitle string) {
	if quiet {
		return
	}
	fmt.Println(bannerStyle.Render("⚛  Atom Clicker\n" + subtitle))
	fmt.Println()
}
