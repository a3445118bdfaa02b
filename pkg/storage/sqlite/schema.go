package sqlite

import (
	migrate "github.com/rubenv/sql-migrate"
)

// schemaVersion is stamped into PRAGMA user_version after a successful
// migration run. An existing store reporting an older version is wiped
// and recreated: the agent deliberately trades stored history for a
// guaranteed-consistent schema, matching the prune-heavy lifecycle of
// the data (everything of value is shipped off the device anyway).
//
// The stamp counts schema generations, not migration plans: versions 1
// and 2 were shipped by agents that created their tables inline,
// before the move to migration plans, and stores carrying those stamps
// must still be wiped on sight.
const schemaVersion = 3

var tables = []string{
	"transfers",
	"events",
	"contacts",
	"calendar",
	"status",
	"gorp_migrations",
}

// Migrations exposes the schema plans for the migrate CLI command.
func Migrations() migrate.MigrationSource {
	return migrations
}

// migrations holds the table layouts. Timestamps are epoch seconds in
// plain INTEGER columns: range scans ("detected < ?") stay integer
// comparisons, and the driver hands the values back as int64 instead of
// applying its DATETIME conversion.
var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1-create-tables",
			Up: []string{
				`CREATE TABLE IF NOT EXISTS transfers (
					_id INTEGER PRIMARY KEY,
					transfer_complete BOOLEAN DEFAULT 0,
					transfer_start_time INTEGER DEFAULT (strftime('%s', 'now')),
					device_id TEXT
				);`,
				`CREATE TABLE IF NOT EXISTS events (
					_id INTEGER PRIMARY KEY,
					detector TEXT,
					detected INTEGER DEFAULT (strftime('%s', 'now')),
					action TEXT,
					event_occurred INTEGER,
					description TEXT,
					additional_info TEXT
				);`,
				`CREATE TABLE IF NOT EXISTS contacts (
					_id INTEGER PRIMARY KEY,
					contact_id INTEGER,
					number TEXT,
					name TEXT,
					added INTEGER
				);`,
				`CREATE TABLE IF NOT EXISTS calendar (
					_id INTEGER PRIMARY KEY,
					event_id INTEGER,
					name TEXT,
					date INTEGER,
					added INTEGER
				);`,
				`CREATE TABLE IF NOT EXISTS status (
					contacts_is_filled BOOLEAN NOT NULL,
					calendar_is_filled BOOLEAN NOT NULL
				);`,
			},
			Down: []string{
				`DROP TABLE IF EXISTS status;`,
				`DROP TABLE IF EXISTS calendar;`,
				`DROP TABLE IF EXISTS contacts;`,
				`DROP TABLE IF EXISTS events;`,
				`DROP TABLE IF EXISTS transfers;`,
			},
		},
		{
			Id: "2-index-events-detected",
			Up: []string{
				`CREATE INDEX IF NOT EXISTS idx_events_detected ON events (detected);`,
				`CREATE INDEX IF NOT EXISTS idx_events_detector ON events (detector);`,
			},
			Down: []string{
				`DROP INDEX IF EXISTS idx_events_detector;`,
				`DROP INDEX IF EXISTS idx_events_detected;`,
			},
		},
	},
}
