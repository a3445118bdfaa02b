package sqlite

import (
	"context"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

func newContactStore(r *resolver) *contactStore {
	return &contactStore{r: r}
}

type contactStore struct {
	r *resolver
}

type sqlDataContact struct {
	ID        int64  `db:"_id"`
	ContactID int64  `db:"contact_id"`
	Number    string `db:"number"`
	Name      string `db:"name"`
	Added     int64  `db:"added"`
}

func (d *sqlDataContact) Scan(m *model.Contact) {
	added := m.AddedAt
	if added.IsZero() {
		added = time.Now()
	}

	d.ID = m.ID
	d.ContactID = m.ContactID
	d.Number = m.Number
	d.Name = m.Name
	d.Added = added.Unix()
}

func (d *sqlDataContact) Model() *model.Contact {
	return &model.Contact{
		ID:        d.ID,
		ContactID: d.ContactID,
		Number:    d.Number,
		Name:      d.Name,
		AddedAt:   time.Unix(d.Added, 0),
	}
}

func (s *contactStore) FetchAll(ctx context.Context) ([]model.Contact, error) {
	rows := make([]sqlDataContact, 0)
	if err := s.r.Select(ctx, storage.ResourceContacts, &rows, nil, ""); err != nil {
		return nil, err
	}

	models := make([]model.Contact, 0, len(rows))
	for i := range rows {
		models = append(models, *rows[i].Model())
	}
	return models, nil
}

func (s *contactStore) FindByContactID(ctx context.Context, contactID int64) (*model.Contact, error) {
	rows := make([]sqlDataContact, 0)
	f := storage.NewFilter().Where(storage.ColContactID, storage.OpEq, contactID)
	if err := s.r.Select(ctx, storage.ResourceContacts, &rows, f, ""); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return rows[0].Model(), nil
}

func (s *contactStore) Create(ctx context.Context, m *model.Contact) error {
	d := sqlDataContact{}
	d.Scan(m)

	values := map[string]interface{}{
		storage.ColContactID:     d.ContactID,
		storage.ColContactNumber: d.Number,
		storage.ColContactName:   d.Name,
		storage.ColContactAdded:  d.Added,
	}
	id, err := s.r.Insert(ctx, storage.ResourceContacts, values)
	if err != nil {
		return err
	}

	m.ID = id
	m.AddedAt = time.Unix(d.Added, 0)
	return nil
}
