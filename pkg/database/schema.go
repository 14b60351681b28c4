package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// schema is written once with dialect tokens; Migrate swaps them per driver.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	uid                  {{uuid}} PRIMARY KEY,
	username             TEXT NOT NULL,
	email                TEXT NOT NULL UNIQUE,
	password_hash        TEXT NOT NULL,
	daily_reminders      BOOLEAN NOT NULL DEFAULT TRUE,
	weekly_report        BOOLEAN NOT NULL DEFAULT TRUE,
	theme                TEXT NOT NULL DEFAULT 'system',
	total_points         INTEGER NOT NULL DEFAULT 0,
	completed_habits     INTEGER NOT NULL DEFAULT 0,
	badges_earned        INTEGER NOT NULL DEFAULT 0,
	completed_challenges INTEGER NOT NULL DEFAULT 0,
	stats_version        INTEGER NOT NULL DEFAULT 0,
	created_at           {{ts}} NOT NULL,
	updated_at           {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         {{uuid}} PRIMARY KEY,
	user_id    {{uuid}} NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
	token      TEXT NOT NULL UNIQUE,
	expires_at {{ts}} NOT NULL,
	created_at {{ts}} NOT NULL,
	revoked    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS habit_entries (
	id                 {{uuid}} PRIMARY KEY,
	user_id            {{uuid}} NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
	entry_date         TEXT NOT NULL,
	logged_at          {{ts}} NOT NULL,
	sleep_hours        {{float}} NOT NULL,
	water_intake       {{float}} NOT NULL,
	exercise_done      BOOLEAN NOT NULL,
	exercise_minutes   INTEGER NOT NULL DEFAULT 0,
	healthy_meals      INTEGER NOT NULL,
	mood               TEXT NOT NULL,
	productivity_level TEXT NOT NULL,
	category           TEXT NOT NULL,
	notes              TEXT NOT NULL DEFAULT '',
	score_total        INTEGER NOT NULL,
	score_health       INTEGER NOT NULL,
	score_fitness      INTEGER NOT NULL,
	score_mindfulness  INTEGER NOT NULL,
	score_productivity INTEGER NOT NULL,
	created_at         {{ts}} NOT NULL,
	updated_at         {{ts}} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_habit_entries_user_date ON habit_entries (user_id, entry_date);

CREATE TABLE IF NOT EXISTS challenges (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL,
	category      TEXT NOT NULL,
	criteria_type TEXT NOT NULL,
	target        INTEGER NOT NULL,
	duration_days INTEGER NOT NULL,
	points        INTEGER NOT NULL,
	badge         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS badges (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL,
	icon          TEXT NOT NULL,
	category      TEXT NOT NULL,
	tier          TEXT NOT NULL,
	criteria_type TEXT NOT NULL,
	target        INTEGER NOT NULL,
	points        INTEGER NOT NULL,
	secret        BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS user_challenges (
	id                {{uuid}} PRIMARY KEY,
	user_id           {{uuid}} NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
	challenge_id      TEXT NOT NULL REFERENCES challenges(id),
	start_date        TEXT NOT NULL,
	progress          INTEGER NOT NULL DEFAULT 0,
	base_progress     INTEGER NOT NULL DEFAULT 0,
	last_progress_day TEXT,
	state             TEXT NOT NULL,
	completed_at      {{ts}},
	created_at        {{ts}} NOT NULL,
	UNIQUE (user_id, challenge_id)
);

CREATE TABLE IF NOT EXISTS user_badges (
	user_id   {{uuid}} NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
	badge_id  TEXT NOT NULL REFERENCES badges(id),
	earned_at {{ts}} NOT NULL,
	PRIMARY KEY (user_id, badge_id)
);
`

var dialects = map[string]*strings.Replacer{
	DriverPostgres: strings.NewReplacer("{{uuid}}", "UUID", "{{ts}}", "TIMESTAMPTZ", "{{float}}", "DOUBLE PRECISION"),
	DriverSQLite:   strings.NewReplacer("{{uuid}}", "TEXT", "{{ts}}", "TIMESTAMP", "{{float}}", "REAL"),
}

// Migrate creates every table that does not exist yet.
func Migrate(db *sql.DB, driver string) error {
	r, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("unknown database driver %q", driver)
	}
	for _, stmt := range strings.Split(r.Replace(schema), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
