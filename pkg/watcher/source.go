package watcher

import (
	"context"
	"strconv"
	"time"
)

// Source kinds queried by the bundled detectors.
const (
	KindCallLog       = "calllog"
	KindSMS           = "sms"
	KindBrowserVisit  = "browser_history"
	KindBrowserSearch = "browser_search"
	KindContacts      = "contacts"
	KindCalendar      = "calendar"
)

// Record is one row from a platform data source. Fields are free-form
// strings keyed per kind; a field may be absent and callers must treat
// every lookup as best-effort.
type Record struct {
	ID     int64
	Time   time.Time
	Fields map[string]string
}

// Field returns the named field or an empty string.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// IntField returns the named field parsed as an integer, or def when
// the field is absent or malformed.
func (r Record) IntField(name string, def int64) int64 {
	v, ok := r.Fields[name]
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// Source is the narrow interface to platform activity providers (call
// log, message log, browser history, contact and calendar books). The
// providers behind it are unversioned platform surfaces: queries may
// fail and fields may be missing, and the store/transfer core never
// touches them directly.
type Source interface {
	// Query returns records of the given kind whose event time is at
	// or after since. Implementations may return more (the detectors
	// deduplicate), never less.
	Query(ctx context.Context, kind string, since time.Time) ([]Record, error)
}
