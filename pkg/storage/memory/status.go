package memory

import (
	"context"
	"sync"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

type statusStore struct {
	row      *model.Status
	notifier *storage.Notifier
	sync.RWMutex
}

func newStatusStore(notifier *storage.Notifier) *statusStore {
	return &statusStore{notifier: notifier}
}

func (s *statusStore) Get(ctx context.Context) (*model.Status, error) {
	s.RLock()
	defer s.RUnlock()

	if s.row == nil {
		return nil, storage.ErrNotFound
	}
	row := *s.row
	return &row, nil
}

func (s *statusStore) Init(ctx context.Context) error {
	s.Lock()

	if s.row != nil {
		s.Unlock()
		return nil
	}
	s.row = &model.Status{}

	s.Unlock()
	s.notifier.Notify(storage.ResourceStatus)

	return nil
}

func (s *statusStore) SetContactsFilled(ctx context.Context) error {
	s.Lock()

	if s.row == nil {
		s.Unlock()
		return storage.ErrNotFound
	}
	s.row.ContactsFilled = true

	s.Unlock()
	s.notifier.Notify(storage.ResourceStatus)

	return nil
}

func (s *statusStore) SetCalendarFilled(ctx context.Context) error {
	s.Lock()

	if s.row == nil {
		s.Unlock()
		return storage.ErrNotFound
	}
	s.row.CalendarFilled = true

	s.Unlock()
	s.notifier.Notify(storage.ResourceStatus)

	return nil
}
