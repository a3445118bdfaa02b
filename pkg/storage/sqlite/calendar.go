package sqlite

import (
	"context"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

func newCalendarStore(r *resolver) *calendarStore {
	return &calendarStore{r: r}
}

type calendarStore struct {
	r *resolver
}

type sqlDataCalendar struct {
	ID      int64  `db:"_id"`
	EventID int64  `db:"event_id"`
	Name    string `db:"name"`
	Date    int64  `db:"date"`
	Added   int64  `db:"added"`
}

func (d *sqlDataCalendar) Scan(m *model.CalendarEntry) {
	added := m.AddedAt
	if added.IsZero() {
		added = time.Now()
	}

	d.ID = m.ID
	d.EventID = m.EventID
	d.Name = m.Name
	d.Date = m.Date.Unix()
	d.Added = added.Unix()
}

func (d *sqlDataCalendar) Model() *model.CalendarEntry {
	return &model.CalendarEntry{
		ID:      d.ID,
		EventID: d.EventID,
		Name:    d.Name,
		Date:    time.Unix(d.Date, 0),
		AddedAt: time.Unix(d.Added, 0),
	}
}

func (s *calendarStore) FetchAll(ctx context.Context) ([]model.CalendarEntry, error) {
	rows := make([]sqlDataCalendar, 0)
	if err := s.r.Select(ctx, storage.ResourceCalendar, &rows, nil, ""); err != nil {
		return nil, err
	}

	models := make([]model.CalendarEntry, 0, len(rows))
	for i := range rows {
		models = append(models, *rows[i].Model())
	}
	return models, nil
}

func (s *calendarStore) FindByEventID(ctx context.Context, eventID int64) (*model.CalendarEntry, error) {
	rows := make([]sqlDataCalendar, 0)
	f := storage.NewFilter().Where(storage.ColCalendarEventID, storage.OpEq, eventID)
	if err := s.r.Select(ctx, storage.ResourceCalendar, &rows, f, ""); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return rows[0].Model(), nil
}

func (s *calendarStore) Create(ctx context.Context, m *model.CalendarEntry) error {
	d := sqlDataCalendar{}
	d.Scan(m)

	values := map[string]interface{}{
		storage.ColCalendarEventID: d.EventID,
		storage.ColCalendarName:    d.Name,
		storage.ColCalendarDate:    d.Date,
		storage.ColCalendarAdded:   d.Added,
	}
	id, err := s.r.Insert(ctx, storage.ResourceCalendar, values)
	if err != nil {
		return err
	}

	m.ID = id
	m.AddedAt = time.Unix(d.Added, 0)
	return nil
}
