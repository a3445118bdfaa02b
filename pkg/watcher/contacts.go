package watcher

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

// ContactWatcher keeps the local contact mirror in sync with the
// platform contact book. The first ever run backfills the mirror
// without recording events (those contacts predate the agent); from
// then on, a platform contact missing from the mirror is recorded as a
// "Contact Added" event and appended to the mirror.
type ContactWatcher struct {
	source Source
	store  storage.Interface
}

// NewContactWatcher creates the contact detector.
func NewContactWatcher(source Source, store storage.Interface) *ContactWatcher {
	return &ContactWatcher{source: source, store: store}
}

func (w *ContactWatcher) Name() string {
	return "ContactWatcher"
}

func (w *ContactWatcher) RunOnce(ctx context.Context) error {
	status, err := w.store.Status().Get(ctx)
	if err != nil {
		return err
	}

	if !status.ContactsFilled {
		if err := w.backfill(ctx); err != nil {
			return err
		}
		return w.store.Status().SetContactsFilled(ctx)
	}

	return w.diff(ctx)
}

// backfill snapshots the whole platform contact book into the mirror.
// It runs exactly once per database lifetime, gated by the status flag.
func (w *ContactWatcher) backfill(ctx context.Context) error {
	records, err := w.source.Query(ctx, KindContacts, zeroTime)
	if err != nil {
		return err
	}

	for _, rec := range records {
		contact := &model.Contact{
			ContactID: rec.ID,
			Name:      rec.Field("name"),
			Number:    rec.Field("number"),
		}
		if err := w.store.Contacts().Create(ctx, contact); err != nil {
			return err
		}
	}

	log.WithField("contacts", len(records)).Info("Backfilled contact mirror")
	return nil
}

func (w *ContactWatcher) diff(ctx context.Context) error {
	records, err := w.source.Query(ctx, KindContacts, zeroTime)
	if err != nil {
		return err
	}

	for _, rec := range records {
		_, err := w.store.Contacts().FindByContactID(ctx, rec.ID)
		if err == nil {
			continue
		}
		if errors.Cause(err) != storage.ErrNotFound {
			return err
		}

		name := rec.Field("name")
		number := rec.Field("number")

		event := &model.Event{
			Detector:       w.Name(),
			Action:         "Contact Added",
			OccurredAt:     rec.Time,
			Description:    name,
			AdditionalInfo: fmt.Sprintf("ContactID:%d; Number:%s;", rec.ID, number),
		}
		if err := w.store.Events().Create(ctx, event); err != nil {
			return err
		}

		contact := &model.Contact{ContactID: rec.ID, Name: name, Number: number}
		if err := w.store.Contacts().Create(ctx, contact); err != nil {
			return err
		}
	}

	return nil
}
