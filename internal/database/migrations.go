package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents one schema migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds the embedded schema, applied in version order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_position_samples",
		SQL: `
			CREATE TABLE IF NOT EXISTS position_samples (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				entity_id TEXT NOT NULL,
				timestamp INTEGER NOT NULL,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				speed REAL NOT NULL DEFAULT 0,
				heading REAL NOT NULL DEFAULT 0,
				risk_score REAL NOT NULL DEFAULT 0,
				UNIQUE(entity_id, timestamp)
			);
			CREATE INDEX IF NOT EXISTS idx_samples_entity_time
				ON position_samples(entity_id, timestamp);
		`,
	},
	{
		Version: 2,
		Name:    "create_vessel_events",
		SQL: `
			CREATE TABLE IF NOT EXISTS vessel_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				entity_id TEXT NOT NULL,
				event_type TEXT NOT NULL,
				timestamp INTEGER NOT NULL,
				severity TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT ''
			);
			CREATE INDEX IF NOT EXISTS idx_events_entity_time
				ON vessel_events(entity_id, timestamp);
		`,
	},
}

// Migrate applies all pending migrations
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		log.Printf("[Database] applied migration %d: %s", m.Version, m.Name)
	}
	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyMigration(db *sql.DB, m Migration) error {
	return Transaction(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(m.SQL); err != nil {
			return err
		}
		_, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name)
		return err
	})
}
