package storage

// Resource names routed by the store. Every external access goes through
// these five logical resources; anything else is rejected with
// ErrUnknownResource before any statement executes.
const (
	ResourceEvents    = "events"
	ResourceTransfers = "transfers"
	ResourceContacts  = "contacts"
	ResourceCalendar  = "calendar"
	ResourceStatus    = "status"
)

// Event table columns.
const (
	ColEventID         = "_id"
	ColEventDetector   = "detector"
	ColEventDetected   = "detected"
	ColEventAction     = "action"
	ColEventOccurred   = "event_occurred"
	ColEventDesc       = "description"
	ColEventAdditional = "additional_info"
)

// Transfer table columns.
const (
	ColTransferID        = "_id"
	ColTransferCompleted = "transfer_complete"
	ColTransferStart     = "transfer_start_time"
	ColTransferDeviceID  = "device_id"
)

// Contact mirror columns.
const (
	ColContactID     = "contact_id"
	ColContactName   = "name"
	ColContactNumber = "number"
	ColContactAdded  = "added"
)

// Calendar mirror columns.
const (
	ColCalendarEventID = "event_id"
	ColCalendarName    = "name"
	ColCalendarDate    = "date"
	ColCalendarAdded   = "added"
)

// Status flag columns.
const (
	ColStatusContactsFilled = "contacts_is_filled"
	ColStatusCalendarFilled = "calendar_is_filled"
)

// Default sort orders per resource: events read back in insertion order,
// the mirrors newest-first.
const (
	EventsDefaultOrder   = ColEventID + " ASC"
	ContactsDefaultOrder = ColContactAdded + " DESC"
	CalendarDefaultOrder = ColCalendarAdded + " DESC"
)
