package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Events table - one row per frame pass that found motion
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			occurred_at DATETIME NOT NULL,
			count INTEGER NOT NULL,
			regions TEXT NOT NULL DEFAULT '[]',
			notified INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Listing and cooldown queries walk events newest-first
		`CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events(occurred_at DESC)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
