package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/jgrover/DroidWatch/pkg/dedup"
	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

// smsRecency bounds how old a message in the platform log may be and
// still count as newly sent.
const smsRecency = 5 * time.Second

// smsTypeSent marks an outgoing message in the platform message log.
const smsTypeSent = "4"

// SMSWatcher records outgoing text messages. Each message is identified
// by its log id inside the additional-info payload; the sender side is
// resolved against the local contact mirror when possible.
type SMSWatcher struct {
	source  Source
	store   storage.Interface
	checker *dedup.Checker
}

// NewSMSWatcher creates the outgoing message detector.
func NewSMSWatcher(source Source, store storage.Interface) *SMSWatcher {
	return &SMSWatcher{
		source:  source,
		store:   store,
		checker: dedup.NewChecker(store),
	}
}

func (w *SMSWatcher) Name() string {
	return "OutgoingSMSWatcher"
}

func (w *SMSWatcher) RunOnce(ctx context.Context) error {
	since := time.Now().Add(-smsRecency)
	records, err := w.source.Query(ctx, KindSMS, since)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec.Field("type") != smsTypeSent || rec.Time.Before(since) {
			continue
		}

		match := dedup.Match{
			Detector: w.Name(),
			InfoLike: fmt.Sprintf("%%MSG_ID:%d;%%", rec.ID),
		}
		exists, err := w.checker.Exists(ctx, match)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		address := rec.Field("address")
		event := &model.Event{
			Detector:    w.Name(),
			Action:      "SMS Sent",
			OccurredAt:  rec.Time,
			Description: rec.Field("body"),
			AdditionalInfo: fmt.Sprintf("MSG_ID:%d; ReceiverAddress:%s; ReceiverContact:%s;",
				rec.ID, address, w.contactName(ctx, address)),
		}
		if err := w.store.Events().Create(ctx, event); err != nil {
			return err
		}
	}

	return nil
}

// contactName resolves a number against the local contact mirror. The
// mirror is small (one row per device contact), so a scan is fine.
func (w *SMSWatcher) contactName(ctx context.Context, number string) string {
	contacts, err := w.store.Contacts().FetchAll(ctx)
	if err != nil {
		return ""
	}
	for _, c := range contacts {
		if c.Number == number {
			return c.Name
		}
	}
	return ""
}
