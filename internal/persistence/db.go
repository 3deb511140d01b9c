// Package persistence stores game sessions in named SQLite save slots.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/napolitain/atom-clicker/internal/store"
)

// ErrNotFound is returned when a save slot does not exist
var ErrNotFound = errors.New("save slot not found")

// Slot describes one stored save
type Slot struct {
	Name         string    `db:"slot"`
	SaveID       string    `db:"save_id"`
	Atoms        float64   `db:"atoms"`
	Achievements int       `db:"achievements"`
	SavedAt      time.Time `db:"-"`
	SavedAtUnix  int64     `db:"saved_at"`
}

// DB wraps a SQLite connection holding save slots.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		save_id TEXT NOT NULL,
		atoms REAL NOT NULL,
		achievements INTEGER NOT NULL,
		saved_at INTEGER NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS unlocks (
		slot TEXT NOT NULL,
		achievement_id TEXT NOT NULL,
		PRIMARY KEY (slot, achievement_id)
	);

	CREATE INDEX IF NOT EXISTS idx_saves_saved_at ON saves(saved_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Save writes snap into slot, replacing any previous save there. It returns
// the id assigned to this save.
func (db *DB) Save(ctx context.Context, slot string, snap store.Snapshot) (string, error) {
	if snap.LastSave.IsZero() {
		snap.LastSave = time.Now()
	}
	stateJSON, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	saveID := uuid.NewString()

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO saves (slot, save_id, atoms, achievements, saved_at, state_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			save_id = excluded.save_id,
			atoms = excluded.atoms,
			achievements = excluded.achievements,
			saved_at = excluded.saved_at,
			state_json = excluded.state_json`,
		slot, saveID, snap.Atoms, len(snap.Achievements), snap.LastSave.UnixNano(), string(stateJSON))
	if err != nil {
		return "", fmt.Errorf("write slot %s: %w", slot, err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT OR IGNORE INTO unlocks (slot, achievement_id) VALUES (?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, id := range snap.Achievements {
		if _, err := stmt.ExecContext(ctx, slot, id); err != nil {
			return "", fmt.Errorf("write unlock %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return saveID, nil
}

// Load reads the state stored in slot
func (db *DB) Load(ctx context.Context, slot string) (store.Snapshot, error) {
	var stateJSON string
	err := db.conn.GetContext(ctx, &stateJSON, "SELECT state_json FROM saves WHERE slot = ?", slot)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("read slot %s: %w", slot, err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal([]byte(stateJSON), &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode slot %s: %w", slot, err)
	}
	return snap, nil
}

// List returns every slot, most recently saved first
func (db *DB) List(ctx context.Context) ([]Slot, error) {
	var slots []Slot
	err := db.conn.SelectContext(ctx, &slots,
		"SELECT slot, save_id, atoms, achievements, saved_at FROM saves ORDER BY saved_at DESC, slot")
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	for i := range slots {
		slots[i].SavedAt = time.Unix(0, slots[i].SavedAtUnix)
	}
	return slots, nil
}

// Delete removes a slot and its unlock history
func (db *DB) Delete(ctx context.Context, slot string) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM saves WHERE slot = ?", slot)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM unlocks WHERE slot = ?", slot); err != nil {
		return err
	}
	return tx.Commit()
}

// UnlockHistory returns every achievement id ever saved in slot, including
// ones a later save no longer carries
func (db *DB) UnlockHistory(ctx context.Context, slot string) ([]string, error) {
	var ids []string
	err := db.conn.SelectContext(ctx, &ids,
		"SELECT achievement_id FROM unlocks WHERE slot = ? ORDER BY achievement_id", slot)
	if err != nil {
		return nil, fmt.Errorf("unlock history %s: %w", slot, err)
	}
	return ids, nil
}
