package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

type transferStore struct {
	store    map[int64]model.Transfer
	nextID   int64
	notifier *storage.Notifier
	sync.RWMutex
}

func newTransferStore(notifier *storage.Notifier) *transferStore {
	return &transferStore{
		store:    make(map[int64]model.Transfer),
		nextID:   1,
		notifier: notifier,
	}
}

func (s *transferStore) FindByID(ctx context.Context, id int64) (*model.Transfer, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *transferStore) Create(ctx context.Context, m *model.Transfer) error {
	s.Lock()

	m.ID = s.getNextID()
	if m.StartTime.IsZero() {
		m.StartTime = time.Now()
	}
	s.store[m.ID] = *m

	s.Unlock()
	s.notifier.Notify(storage.ResourceTransfers)

	return nil
}

func (s *transferStore) MarkCompleted(ctx context.Context, id int64) error {
	s.Lock()

	m, ok := s.store[id]
	if !ok {
		s.Unlock()
		return storage.ErrNotFound
	}
	m.Completed = true
	s.store[id] = m

	s.Unlock()
	s.notifier.Notify(storage.ResourceTransfers)

	return nil
}

func (s *transferStore) LatestCompleted(ctx context.Context) (*model.Transfer, error) {
	s.RLock()
	defer s.RUnlock()

	var latest *model.Transfer
	for id := range s.store {
		m := s.store[id]
		if !m.Completed {
			continue
		}
		if latest == nil || m.StartTime.After(latest.StartTime) {
			latest = &m
		}
	}

	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return latest, nil
}

func (s *transferStore) getNextID() int64 {
	id := s.nextID
	s.nextID++
	return id
}
