package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

type calendarStore struct {
	store    map[int64]model.CalendarEntry
	nextID   int64
	notifier *storage.Notifier
	sync.RWMutex
}

func newCalendarStore(notifier *storage.Notifier) *calendarStore {
	return &calendarStore{
		store:    make(map[int64]model.CalendarEntry),
		nextID:   1,
		notifier: notifier,
	}
}

func (s *calendarStore) FetchAll(ctx context.Context) ([]model.CalendarEntry, error) {
	s.RLock()
	defer s.RUnlock()

	models := make([]model.CalendarEntry, 0, len(s.store))
	for _, m := range s.store {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool {
		return models[i].AddedAt.After(models[j].AddedAt)
	})

	return models, nil
}

func (s *calendarStore) FindByEventID(ctx context.Context, eventID int64) (*model.CalendarEntry, error) {
	s.RLock()
	defer s.RUnlock()

	for id := range s.store {
		m := s.store[id]
		if m.EventID == eventID {
			return &m, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *calendarStore) Create(ctx context.Context, m *model.CalendarEntry) error {
	s.Lock()

	m.ID = s.getNextID()
	if m.AddedAt.IsZero() {
		m.AddedAt = time.Now()
	}
	s.store[m.ID] = *m

	s.Unlock()
	s.notifier.Notify(storage.ResourceCalendar)

	return nil
}

func (s *calendarStore) getNextID() int64 {
	id := s.nextID
	s.nextID++
	return id
}
