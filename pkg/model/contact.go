package model

import "time"

// Contact is a locally mirrored snapshot of a platform contact record.
// The mirror is append-only: one row per external contact id, created on
// first sight and never updated or deleted.
type Contact struct {
	ID        int64
	ContactID int64
	Name      string
	Number    string
	AddedAt   time.Time
}
