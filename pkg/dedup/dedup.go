// Package dedup answers the two questions every detector asks before
// recording anything: "did I already record this fact?" and "how far
// back do I need to re-scan?".
//
// Platform sources are polled at-least-once, so the same call, message
// or page visit is observed repeatedly. Detectors build a Match from the
// fields that identify the fact and check Exists before inserting; the
// combination yields effectively-once recording without any store-level
// uniqueness constraint.
package dedup

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/jgrover/DroidWatch/pkg/storage"
)

// Match is the identifying key of a candidate event. Zero-valued fields
// are not part of the key. Detectors either match on
// detector+action+occurred+description, or on detector plus a substring
// of the additional-info payload (InfoLike, a SQL LIKE pattern such as
// "%ID:42;%").
type Match struct {
	Detector    string
	Action      string
	OccurredAt  time.Time
	Description string
	InfoLike    string
}

// Filter renders the match as a store filter.
func (m Match) Filter() *storage.Filter {
	f := storage.NewFilter()
	if m.Detector != "" {
		f.Where(storage.ColEventDetector, storage.OpEq, m.Detector)
	}
	if m.Action != "" {
		f.Where(storage.ColEventAction, storage.OpEq, m.Action)
	}
	if !m.OccurredAt.IsZero() {
		f.Where(storage.ColEventOccurred, storage.OpEq, m.OccurredAt.Unix())
	}
	if m.Description != "" {
		f.Where(storage.ColEventDesc, storage.OpEq, m.Description)
	}
	if m.InfoLike != "" {
		f.Where(storage.ColEventAdditional, storage.OpLike, m.InfoLike)
	}
	return f
}

// Checker implements the dedup and incremental-scan contract on top of
// a storage Interface.
type Checker struct {
	store storage.Interface
}

// NewChecker creates a Checker bound to the given store.
func NewChecker(store storage.Interface) *Checker {
	return &Checker{store: store}
}

// Exists reports whether an event matching m is already recorded.
func (c *Checker) Exists(ctx context.Context, m Match) (bool, error) {
	return c.store.Events().Exists(ctx, m.Filter())
}

// HighWaterMark returns the timestamp below which all relevant platform
// facts are assumed already captured: the start time of the most recent
// completed transfer. While no transfer has completed yet it returns
// midnight at the start of the previous calendar day (local time), so a
// fresh install never re-scans the full device history.
func (c *Checker) HighWaterMark(ctx context.Context) (time.Time, error) {
	latest, err := c.store.Transfers().LatestCompleted(ctx)
	if err != nil {
		if errors.Cause(err) == storage.ErrNotFound {
			return previousMidnight(time.Now()), nil
		}
		return time.Time{}, err
	}

	return latest.StartTime, nil
}

func previousMidnight(now time.Time) time.Time {
	yesterday := now.AddDate(0, 0, -1)
	return time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, yesterday.Location())
}
