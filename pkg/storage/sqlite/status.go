package sqlite

import (
	"context"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

func newStatusStore(r *resolver) *statusStore {
	return &statusStore{r: r}
}

type statusStore struct {
	r *resolver
}

type sqlDataStatus struct {
	ContactsFilled bool `db:"contacts_is_filled"`
	CalendarFilled bool `db:"calendar_is_filled"`
}

func (s *statusStore) Get(ctx context.Context) (*model.Status, error) {
	rows := make([]sqlDataStatus, 0)
	if err := s.r.Select(ctx, storage.ResourceStatus, &rows, nil, ""); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}

	return &model.Status{
		ContactsFilled: rows[0].ContactsFilled,
		CalendarFilled: rows[0].CalendarFilled,
	}, nil
}

func (s *statusStore) Init(ctx context.Context) error {
	count, err := s.r.Count(ctx, storage.ResourceStatus, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	values := map[string]interface{}{
		storage.ColStatusContactsFilled: false,
		storage.ColStatusCalendarFilled: false,
	}
	_, err = s.r.Insert(ctx, storage.ResourceStatus, values)
	return err
}

func (s *statusStore) SetContactsFilled(ctx context.Context) error {
	values := map[string]interface{}{storage.ColStatusContactsFilled: true}
	_, err := s.r.Update(ctx, storage.ResourceStatus, values, nil)
	return err
}

func (s *statusStore) SetCalendarFilled(ctx context.Context) error {
	values := map[string]interface{}{storage.ColStatusCalendarFilled: true}
	_, err := s.r.Update(ctx, storage.ResourceStatus, values, nil)
	return err
}
