package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

type contactStore struct {
	store    map[int64]model.Contact
	nextID   int64
	notifier *storage.Notifier
	sync.RWMutex
}

func newContactStore(notifier *storage.Notifier) *contactStore {
	return &contactStore{
		store:    make(map[int64]model.Contact),
		nextID:   1,
		notifier: notifier,
	}
}

func (s *contactStore) FetchAll(ctx context.Context) ([]model.Contact, error) {
	s.RLock()
	defer s.RUnlock()

	models := make([]model.Contact, 0, len(s.store))
	for _, m := range s.store {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool {
		return models[i].AddedAt.After(models[j].AddedAt)
	})

	return models, nil
}

func (s *contactStore) FindByContactID(ctx context.Context, contactID int64) (*model.Contact, error) {
	s.RLock()
	defer s.RUnlock()

	for id := range s.store {
		m := s.store[id]
		if m.ContactID == contactID {
			return &m, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *contactStore) Create(ctx context.Context, m *model.Contact) error {
	s.Lock()

	m.ID = s.getNextID()
	if m.AddedAt.IsZero() {
		m.AddedAt = time.Now()
	}
	s.store[m.ID] = *m

	s.Unlock()
	s.notifier.Notify(storage.ResourceContacts)

	return nil
}

func (s *contactStore) getNextID() int64 {
	id := s.nextID
	s.nextID++
	return id
}
