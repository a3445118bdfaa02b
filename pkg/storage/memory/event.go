package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

type eventStore struct {
	store    map[int64]model.Event
	nextID   int64
	notifier *storage.Notifier
	sync.RWMutex
}

func newEventStore(notifier *storage.Notifier) *eventStore {
	return &eventStore{
		store:    make(map[int64]model.Event),
		nextID:   1,
		notifier: notifier,
	}
}

func (s *eventStore) FetchAll(ctx context.Context) ([]model.Event, error) {
	s.RLock()
	defer s.RUnlock()

	models := make([]model.Event, 0, len(s.store))
	for _, m := range s.store {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })

	return models, nil
}

func (s *eventStore) FindByID(ctx context.Context, id int64) (*model.Event, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *eventStore) Create(ctx context.Context, m *model.Event) error {
	s.Lock()

	m.ID = s.getNextID()
	if m.DetectedAt.IsZero() {
		m.DetectedAt = time.Now()
	}
	s.store[m.ID] = *m

	s.Unlock()
	s.notifier.Notify(storage.ResourceEvents)

	return nil
}

func (s *eventStore) Exists(ctx context.Context, f *storage.Filter) (bool, error) {
	s.RLock()
	defer s.RUnlock()

	for _, m := range s.store {
		if f.Match(eventColumns(&m)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *eventStore) DeleteDetectedBefore(ctx context.Context, t time.Time) (int64, error) {
	s.Lock()

	var count int64
	for id, m := range s.store {
		if m.DetectedAt.Before(t) {
			delete(s.store, id)
			count++
		}
	}

	s.Unlock()
	if count > 0 {
		s.notifier.Notify(storage.ResourceEvents)
	}

	return count, nil
}

func (s *eventStore) getNextID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func eventColumns(m *model.Event) func(string) (interface{}, bool) {
	return func(column string) (interface{}, bool) {
		switch column {
		case storage.ColEventID:
			return m.ID, true
		case storage.ColEventDetector:
			return m.Detector, true
		case storage.ColEventDetected:
			return m.DetectedAt.Unix(), true
		case storage.ColEventAction:
			return m.Action, true
		case storage.ColEventOccurred:
			return m.OccurredAt.Unix(), true
		case storage.ColEventDesc:
			return m.Description, true
		case storage.ColEventAdditional:
			return m.AdditionalInfo, true
		}
		return nil, false
	}
}
