package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Empty(t, c.DataDir)
	assert.Equal(t, "atoms.db", c.DBPath)
	assert.Equal(t, "main", c.Slot)
	assert.Equal(t, 250*time.Millisecond, c.TickInterval)
	assert.Equal(t, 30*time.Second, c.AutoSaveInterval)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atoms.yaml")
	body := "data_dir: ./content\nslot: speedrun\ntick_interval: 100ms\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./content", c.DataDir)
	assert.Equal(t, "speedrun", c.Slot)
	assert.Equal(t, 100*time.Millisecond, c.TickInterval)
	assert.Equal(t, "atoms.db", c.DBPath, "missing fields fall back to defaults")
	assert.Equal(t, 30*time.Second, c.AutoSaveInterval)

	level, err := c.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slot: [unterminated"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ATOMS_SLOT", "env-slot")
	t.Setenv("ATOMS_DB", "/tmp/env.db")
	t.Setenv("ATOMS_TICK", "1s")
	t.Setenv("ATOMS_AUTOSAVE", "not-a-duration")
	t.Setenv("ATOMS_LOG_LEVEL", "warn")

	c := Default()
	c.ApplyEnv()

	assert.Equal(t, "env-slot", c.Slot)
	assert.Equal(t, "/tmp/env.db", c.DBPath)
	assert.Equal(t, time.Second, c.TickInterval)
	assert.Equal(t, 30*time.Second, c.AutoSaveInterval)

	level, err := c.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestSlogLevelInvalid(t *testing.T) {
	c := Default()
	c.LogLevel = "loud"

	level, err := c.SlogLevel()
	assert.Error(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
