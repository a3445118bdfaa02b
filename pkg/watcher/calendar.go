package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

// zeroTime queries a source without a lower bound; the mirrors diff
// against the full current snapshot.
var zeroTime = time.Time{}

// CalendarWatcher keeps the local calendar mirror in sync with the
// platform calendar, following the same one-time-backfill-then-diff
// cycle as the contact watcher.
type CalendarWatcher struct {
	source Source
	store  storage.Interface
}

// NewCalendarWatcher creates the calendar detector.
func NewCalendarWatcher(source Source, store storage.Interface) *CalendarWatcher {
	return &CalendarWatcher{source: source, store: store}
}

func (w *CalendarWatcher) Name() string {
	return "CalendarWatcher"
}

func (w *CalendarWatcher) RunOnce(ctx context.Context) error {
	status, err := w.store.Status().Get(ctx)
	if err != nil {
		return err
	}

	if !status.CalendarFilled {
		if err := w.backfill(ctx); err != nil {
			return err
		}
		return w.store.Status().SetCalendarFilled(ctx)
	}

	return w.diff(ctx)
}

func (w *CalendarWatcher) backfill(ctx context.Context) error {
	records, err := w.source.Query(ctx, KindCalendar, zeroTime)
	if err != nil {
		return err
	}

	for _, rec := range records {
		entry := &model.CalendarEntry{
			EventID: rec.ID,
			Name:    rec.Field("name"),
			Date:    rec.Time,
		}
		if err := w.store.Calendar().Create(ctx, entry); err != nil {
			return err
		}
	}

	log.WithField("entries", len(records)).Info("Backfilled calendar mirror")
	return nil
}

func (w *CalendarWatcher) diff(ctx context.Context) error {
	records, err := w.source.Query(ctx, KindCalendar, zeroTime)
	if err != nil {
		return err
	}

	for _, rec := range records {
		_, err := w.store.Calendar().FindByEventID(ctx, rec.ID)
		if err == nil {
			continue
		}
		if errors.Cause(err) != storage.ErrNotFound {
			return err
		}

		name := rec.Field("name")
		event := &model.Event{
			Detector:       w.Name(),
			Action:         "Calendar Event Added",
			OccurredAt:     rec.Time,
			Description:    name,
			AdditionalInfo: fmt.Sprintf("EventID:%d;", rec.ID),
		}
		if err := w.store.Events().Create(ctx, event); err != nil {
			return err
		}

		entry := &model.CalendarEntry{EventID: rec.ID, Name: name, Date: rec.Time}
		if err := w.store.Calendar().Create(ctx, entry); err != nil {
			return err
		}
	}

	return nil
}
