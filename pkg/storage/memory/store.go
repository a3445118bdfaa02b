package memory

import (
	"context"

	"github.com/jgrover/DroidWatch/pkg/storage"
)

// Store contains all memory-based sub-stores for managing the persistent models
type store struct {
	notifier *storage.Notifier

	events    *eventStore
	transfers *transferStore
	contacts  *contactStore
	calendar  *calendarStore
	status    *statusStore
}

// NewStore creates a new memory-based Storage interface. It is used by
// detector tests and carries no backing file: the transfer pipeline
// requires a file-backed store and rejects this one.
func NewStore() storage.Interface {
	notifier := storage.NewNotifier()

	s := &store{
		notifier:  notifier,
		events:    newEventStore(notifier),
		transfers: newTransferStore(notifier),
		contacts:  newContactStore(notifier),
		calendar:  newCalendarStore(notifier),
		status:    newStatusStore(notifier),
	}
	s.status.Init(context.Background())

	return s
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

// Path returns an empty string: the store has no backing file.
func (s *store) Path() string {
	return ""
}

func (s *store) Close() error {
	return nil
}
