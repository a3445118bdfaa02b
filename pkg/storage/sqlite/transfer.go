package sqlite

import (
	"context"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage"
)

func newTransferStore(r *resolver) *transferStore {
	return &transferStore{r: r}
}

type transferStore struct {
	r *resolver
}

type sqlDataTransfer struct {
	ID        int64  `db:"_id"`
	Completed bool   `db:"transfer_complete"`
	StartTime int64  `db:"transfer_start_time"`
	DeviceID  string `db:"device_id"`
}

func (d *sqlDataTransfer) Scan(m *model.Transfer) {
	start := m.StartTime
	if start.IsZero() {
		start = time.Now()
	}

	d.ID = m.ID
	d.Completed = m.Completed
	d.StartTime = start.Unix()
	d.DeviceID = m.DeviceID
}

func (d *sqlDataTransfer) Model() *model.Transfer {
	return &model.Transfer{
		ID:        d.ID,
		Completed: d.Completed,
		StartTime: time.Unix(d.StartTime, 0),
		DeviceID:  d.DeviceID,
	}
}

func (s *transferStore) FindByID(ctx context.Context, id int64) (*model.Transfer, error) {
	rows := make([]sqlDataTransfer, 0)
	f := storage.NewFilter().Where(storage.ColTransferID, storage.OpEq, id)
	if err := s.r.Select(ctx, storage.ResourceTransfers, &rows, f, ""); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return rows[0].Model(), nil
}

func (s *transferStore) Create(ctx context.Context, m *model.Transfer) error {
	d := sqlDataTransfer{}
	d.Scan(m)

	values := map[string]interface{}{
		storage.ColTransferCompleted: d.Completed,
		storage.ColTransferStart:     d.StartTime,
		storage.ColTransferDeviceID:  d.DeviceID,
	}
	id, err := s.r.Insert(ctx, storage.ResourceTransfers, values)
	if err != nil {
		return err
	}

	m.ID = id
	m.StartTime = time.Unix(d.StartTime, 0)
	return nil
}

func (s *transferStore) MarkCompleted(ctx context.Context, id int64) error {
	values := map[string]interface{}{storage.ColTransferCompleted: true}
	f := storage.NewFilter().Where(storage.ColTransferID, storage.OpEq, id)

	count, err := s.r.Update(ctx, storage.ResourceTransfers, values, f)
	if err != nil {
		return err
	}
	if count == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *transferStore) LatestCompleted(ctx context.Context) (*model.Transfer, error) {
	rows := make([]sqlDataTransfer, 0)
	f := storage.NewFilter().Where(storage.ColTransferCompleted, storage.OpEq, true)
	order := storage.ColTransferStart + " DESC"
	if err := s.r.Select(ctx, storage.ResourceTransfers, &rows, f, order); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return rows[0].Model(), nil
}
