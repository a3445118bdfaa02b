package watcher

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jgrover/DroidWatch/pkg/dedup"
	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

// callRecency bounds how far back a call may lie and still be treated
// as new. Older entries are assumed to predate the agent.
const callRecency = 5 * time.Minute

// CallLogWatcher records newly logged phone calls. The platform call
// log is re-read on every change, so each call is identified by its log
// id inside the additional-info payload.
type CallLogWatcher struct {
	source  Source
	store   storage.Interface
	checker *dedup.Checker
}

// NewCallLogWatcher creates the call log detector.
func NewCallLogWatcher(source Source, store storage.Interface) *CallLogWatcher {
	return &CallLogWatcher{
		source:  source,
		store:   store,
		checker: dedup.NewChecker(store),
	}
}

func (w *CallLogWatcher) Name() string {
	return "CallWatcher"
}

func (w *CallLogWatcher) RunOnce(ctx context.Context) error {
	since := time.Now().Add(-callRecency)
	records, err := w.source.Query(ctx, KindCallLog, since)
	if err != nil {
		return err
	}

	for _, rec := range records {
		direction := callDirection(rec.Field("type"))
		duration := rec.IntField("duration", 0)

		// Skip calls that ended before the recency window; they were
		// either captured already or predate the agent.
		ended := rec.Time.Add(time.Duration(duration) * time.Second)
		if ended.Before(since) {
			continue
		}

		match := dedup.Match{
			Detector: w.Name(),
			InfoLike: fmt.Sprintf("%%ID:%d;%%", rec.ID),
		}
		exists, err := w.checker.Exists(ctx, match)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		event := &model.Event{
			Detector:    w.Name(),
			Action:      "Phone Call",
			OccurredAt:  rec.Time,
			Description: direction,
			AdditionalInfo: fmt.Sprintf("ID:%d; Number:%s; Name:%s; Duration:%d;",
				rec.ID, rec.Field("number"), rec.Field("name"), duration),
		}
		if err := w.store.Events().Create(ctx, event); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"detector": w.Name(),
			"call_id":  rec.ID,
		}).Debug("Recorded phone call")
	}

	return nil
}

func callDirection(callType string) string {
	switch callType {
	case "incoming":
		return "Incoming"
	case "missed":
		return "Incoming - Missed"
	default:
		return "Outgoing"
	}
}
