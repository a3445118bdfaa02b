package watcher

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jgrover/DroidWatch/pkg/dedup"
	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

// BrowserHistoryWatcher records page visits and search terms. Unlike
// the call and message logs there is no recency signal to lean on, so
// the scan window is bounded by the high-water-mark: everything older
// was captured by a previous cycle and already shipped.
type BrowserHistoryWatcher struct {
	source  Source
	store   storage.Interface
	checker *dedup.Checker
}

// NewBrowserHistoryWatcher creates the browsing detector.
func NewBrowserHistoryWatcher(source Source, store storage.Interface) *BrowserHistoryWatcher {
	return &BrowserHistoryWatcher{
		source:  source,
		store:   store,
		checker: dedup.NewChecker(store),
	}
}

func (w *BrowserHistoryWatcher) Name() string {
	return "BrowserWatcher"
}

func (w *BrowserHistoryWatcher) RunOnce(ctx context.Context) error {
	since, err := w.checker.HighWaterMark(ctx)
	if err != nil {
		return err
	}

	if err := w.scan(ctx, KindBrowserVisit, "Website Visit", "url", since); err != nil {
		return err
	}
	return w.scan(ctx, KindBrowserSearch, "Web Search", "term", since)
}

func (w *BrowserHistoryWatcher) scan(ctx context.Context, kind, action, field string, since time.Time) error {
	records, err := w.source.Query(ctx, kind, since)
	if err != nil {
		return err
	}

	for _, rec := range records {
		description := rec.Field(field)
		if description == "" {
			continue
		}

		match := dedup.Match{
			Detector:    w.Name(),
			Action:      action,
			OccurredAt:  rec.Time,
			Description: description,
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
			Action:      action,
			OccurredAt:  rec.Time,
			Description: description,
		}
		if err := w.store.Events().Create(ctx, event); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"detector": w.Name(),
			"action":   action,
		}).Debug("Recorded browser activity")
	}

	return nil
}
