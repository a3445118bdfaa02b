package storage

import (
	"context"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
)

// Interface is implemented by the storage
type Interface interface {
	Events() EventStore
	Transfers() TransferStore
	Contacts() ContactStore
	Calendar() CalendarStore
	Status() StatusStore

	// Notifier gives access to the per-resource change notifications
	// fired after every successful mutation.
	Notifier() *Notifier

	// Path returns the location of the backing store file, or an empty
	// string when the implementation is not file-backed. The transfer
	// pipeline streams this file wholesale.
	Path() string

	Close() error
}

// EventStore is responsible for managing the Event model
type EventStore interface {
	FetchAll(ctx context.Context) ([]model.Event, error)
	FindByID(ctx context.Context, id int64) (*model.Event, error)
	Create(ctx context.Context, m *model.Event) error

	// Exists reports whether an event matching the filter is already
	// recorded. Detectors call this before Create so that re-observing
	// the same platform fact never produces a duplicate row.
	Exists(ctx context.Context, f *Filter) (bool, error)

	// DeleteDetectedBefore removes every event whose detection time is
	// strictly earlier than t and returns the number of deleted rows.
	DeleteDetectedBefore(ctx context.Context, t time.Time) (int64, error)
}

// TransferStore is responsible for managing the Transfer model
type TransferStore interface {
	FindByID(ctx context.Context, id int64) (*model.Transfer, error)
	Create(ctx context.Context, m *model.Transfer) error
	MarkCompleted(ctx context.Context, id int64) error

	// LatestCompleted returns the completed transfer with the greatest
	// start time, or ErrNotFound when no transfer has completed yet.
	LatestCompleted(ctx context.Context) (*model.Transfer, error)
}

// ContactStore is responsible for managing the Contact mirror
type ContactStore interface {
	FetchAll(ctx context.Context) ([]model.Contact, error)
	FindByContactID(ctx context.Context, contactID int64) (*model.Contact, error)
	Create(ctx context.Context, m *model.Contact) error
}

// CalendarStore is responsible for managing the CalendarEntry mirror
type CalendarStore interface {
	FetchAll(ctx context.Context) ([]model.CalendarEntry, error)
	FindByEventID(ctx context.Context, eventID int64) (*model.CalendarEntry, error)
	Create(ctx context.Context, m *model.CalendarEntry) error
}

// StatusStore is responsible for managing the singleton Status row
type StatusStore interface {
	Get(ctx context.Context) (*model.Status, error)

	// Init inserts the singleton row with both flags false. It is a
	// no-op when the row already exists.
	Init(ctx context.Context) error

	SetContactsFilled(ctx context.Context) error
	SetCalendarFilled(ctx context.Context) error
}
