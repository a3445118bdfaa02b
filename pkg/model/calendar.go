package model

import "time"

// CalendarEntry is a locally mirrored snapshot of a platform calendar
// record, append-only like the contact mirror.
type CalendarEntry struct {
	ID      int64
	EventID int64
	Name    string
	Date    time.Time
	AddedAt time.Time
}
