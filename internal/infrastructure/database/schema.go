package database

// SchemaStatements returns the DDL for the engine's tables. Both the
// db-init command and archive import run these before touching data.
func SchemaStatements(driver string) []string {
	if driver == "sqlite3" {
		return []string{
			`CREATE TABLE IF NOT EXISTS learning_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				session_id TEXT NOT NULL DEFAULT '',
				lesson_id TEXT NOT NULL DEFAULT '',
				concept TEXT NOT NULL DEFAULT '',
				device TEXT NOT NULL DEFAULT '',
				recorded_at TIMESTAMP NOT NULL,
				success_rate REAL NOT NULL DEFAULT 0,
				schema_version INTEGER NOT NULL DEFAULT 1,
				payload TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_learning_events_user_recorded
				ON learning_events (user_id, recorded_at)`,
			`CREATE TABLE IF NOT EXISTS user_profiles (
				user_id INTEGER PRIMARY KEY,
				payload TEXT NOT NULL,
				pattern_count INTEGER NOT NULL DEFAULT 0,
				updated_at TIMESTAMP NOT NULL
			)`,
		}
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS learning_events (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			session_id TEXT NOT NULL DEFAULT '',
			lesson_id TEXT NOT NULL DEFAULT '',
			concept TEXT NOT NULL DEFAULT '',
			device TEXT NOT NULL DEFAULT '',
			recorded_at TIMESTAMPTZ NOT NULL,
			success_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			schema_version INT NOT NULL DEFAULT 1,
			payload JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_learning_events_user_recorded
			ON learning_events (user_id, recorded_at)`,
		`CREATE TABLE IF NOT EXISTS user_profiles (
			user_id BIGINT PRIMARY KEY,
			payload JSONB NOT NULL,
			pattern_count INT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}
}
