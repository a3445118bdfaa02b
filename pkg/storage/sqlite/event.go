package sqlite

import (
	"context"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

func newEventStore(r *resolver) *eventStore {
	return &eventStore{r: r}
}

type eventStore struct {
	r *resolver
}

type sqlDataEvent struct {
	ID             int64  `db:"_id"`
	Detector       string `db:"detector"`
	Detected       int64  `db:"detected"`
	Action         string `db:"action"`
	Occurred       int64  `db:"event_occurred"`
	Description    string `db:"description"`
	AdditionalInfo string `db:"additional_info"`
}

func (d *sqlDataEvent) Scan(m *model.Event) {
	detected := m.DetectedAt
	if detected.IsZero() {
		detected = time.Now()
	}

	d.ID = m.ID
	d.Detector = m.Detector
	d.Detected = detected.Unix()
	d.Action = m.Action
	d.Occurred = m.OccurredAt.Unix()
	d.Description = m.Description
	d.AdditionalInfo = m.AdditionalInfo
}

func (d *sqlDataEvent) Model() *model.Event {
	return &model.Event{
		ID:             d.ID,
		Detector:       d.Detector,
		DetectedAt:     time.Unix(d.Detected, 0),
		Action:         d.Action,
		OccurredAt:     time.Unix(d.Occurred, 0),
		Description:    d.Description,
		AdditionalInfo: d.AdditionalInfo,
	}
}

func (d *sqlDataEvent) values() map[string]interface{} {
	return map[string]interface{}{
		storage.ColEventDetector:   d.Detector,
		storage.ColEventDetected:   d.Detected,
		storage.ColEventAction:     d.Action,
		storage.ColEventOccurred:   d.Occurred,
		storage.ColEventDesc:       d.Description,
		storage.ColEventAdditional: d.AdditionalInfo,
	}
}

func (s *eventStore) FetchAll(ctx context.Context) ([]model.Event, error) {
	rows := make([]sqlDataEvent, 0)
	if err := s.r.Select(ctx, storage.ResourceEvents, &rows, nil, ""); err != nil {
		return nil, err
	}

	models := make([]model.Event, 0, len(rows))
	for i := range rows {
		models = append(models, *rows[i].Model())
	}
	return models, nil
}

func (s *eventStore) FindByID(ctx context.Context, id int64) (*model.Event, error) {
	rows := make([]sqlDataEvent, 0)
	f := storage.NewFilter().Where(storage.ColEventID, storage.OpEq, id)
	if err := s.r.Select(ctx, storage.ResourceEvents, &rows, f, ""); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return rows[0].Model(), nil
}

func (s *eventStore) Create(ctx context.Context, m *model.Event) error {
	d := sqlDataEvent{}
	d.Scan(m)

	id, err := s.r.Insert(ctx, storage.ResourceEvents, d.values())
	if err != nil {
		return err
	}

	m.ID = id
	m.DetectedAt = time.Unix(d.Detected, 0)
	return nil
}

func (s *eventStore) Exists(ctx context.Context, f *storage.Filter) (bool, error) {
	count, err := s.r.Count(ctx, storage.ResourceEvents, f)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *eventStore) DeleteDetectedBefore(ctx context.Context, t time.Time) (int64, error) {
	f := storage.NewFilter().Where(storage.ColEventDetected, storage.OpLt, t.Unix())
	return s.r.Delete(ctx, storage.ResourceEvents, f)
}
