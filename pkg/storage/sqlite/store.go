package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"

	"github.com/jgrover/DroidWatch/pkg/storage"
)

// store contains all SQLite based sub-stores for managing the models
type store struct {
	db       *sqlx.DB
	path     string
	notifier *storage.Notifier

	events    *eventStore
	transfers *transferStore
	contacts  *contactStore
	calendar  *calendarStore
	status    *statusStore
}

// Open creates a new SQLite based Storage interface backed by the file
// at path, creating or upgrading the schema as needed. An existing file
// with an older schema version is dropped and recreated; this data loss
// is a documented policy, not an accident.
func Open(path string) (storage.Interface, error) {
	// The journal mode stays at the rollback default on purpose: the
	// transfer pipeline streams the database as a single file, so state
	// must never live in WAL side files.
	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(storage.ErrUnavailable, err.Error())
	}

	// SQLite serializes writers itself; one pooled connection keeps
	// concurrent detector writes queued instead of returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(storage.ErrUnavailable, err.Error())
	}

	if err := applySchema(db, path); err != nil {
		db.Close()
		return nil, err
	}

	notifier := storage.NewNotifier()
	resolver := newResolver(db, notifier)

	s := &store{
		db:        db,
		path:      path,
		notifier:  notifier,
		events:    newEventStore(resolver),
		transfers: newTransferStore(resolver),
		contacts:  newContactStore(resolver),
		calendar:  newCalendarStore(resolver),
		status:    newStatusStore(resolver),
	}

	if err := s.status.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func applySchema(db *sqlx.DB, path string) error {
	var version int
	if err := db.Get(&version, "PRAGMA user_version"); err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}

	if version > 0 && version < schemaVersion {
		log.WithFields(log.Fields{
			"path": path,
			"from": version,
			"to":   schemaVersion,
		}).Warn("Upgrading database, dropping all tables")

		for _, table := range tables {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errors.Wrapf(err, "failed to drop table %s", table)
			}
		}
	}

	n, err := migrate.Exec(db.DB, "sqlite3", migrations, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "failed to apply schema migrations")
	}
	if n > 0 {
		log.WithFields(log.Fields{"path": path, "applied": n}).Info("Applied schema migrations")
	}

	// PRAGMA does not support placeholders.
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return errors.Wrap(err, "failed to stamp schema version")
	}

	return nil
}

// Events returns a sub-store for managing the Event model
func (s *store) Events() storage.EventStore {
	return s.events
}

// Transfers returns a sub-store for managing the Transfer model
func (s *store) Transfers() storage.TransferStore {
	return s.transfers
}

// Contacts returns a sub-store for managing the Contact mirror
func (s *store) Contacts() storage.ContactStore {
	return s.contacts
}

// Calendar returns a sub-store for managing the CalendarEntry mirror
func (s *store) Calendar() storage.CalendarStore {
	return s.calendar
}

// Status returns a sub-store for managing the singleton status row
func (s *store) Status() storage.StatusStore {
	return s.status
}

// Notifier returns the change notification hub for this store.
func (s *store) Notifier() *storage.Notifier {
	return s.notifier
}

// Path returns the location of the backing database file.
func (s *store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *store) Close() error {
	return s.db.Close()
}
