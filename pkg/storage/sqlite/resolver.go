package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jgrover/DroidWatch/pkg/storage"
)

// tableSpec describes one routable resource: its backing table, the
// columns callers may reference, and the order applied when a query
// names none.
type tableSpec struct {
	table        string
	columns      map[string]bool
	defaultOrder string
}

var tableSpecs = map[string]tableSpec{
	storage.ResourceEvents: {
		table: "events",
		columns: map[string]bool{
			storage.ColEventID:         true,
			storage.ColEventDetector:   true,
			storage.ColEventDetected:   true,
			storage.ColEventAction:     true,
			storage.ColEventOccurred:   true,
			storage.ColEventDesc:       true,
			storage.ColEventAdditional: true,
		},
		defaultOrder: storage.EventsDefaultOrder,
	},
	storage.ResourceTransfers: {
		table: "transfers",
		columns: map[string]bool{
			storage.ColTransferID:        true,
			storage.ColTransferCompleted: true,
			storage.ColTransferStart:     true,
			storage.ColTransferDeviceID:  true,
		},
	},
	storage.ResourceContacts: {
		table: "contacts",
		columns: map[string]bool{
			"_id":                    true,
			storage.ColContactID:     true,
			storage.ColContactName:   true,
			storage.ColContactNumber: true,
			storage.ColContactAdded:  true,
		},
		defaultOrder: storage.ContactsDefaultOrder,
	},
	storage.ResourceCalendar: {
		table: "calendar",
		columns: map[string]bool{
			"_id":                      true,
			storage.ColCalendarEventID: true,
			storage.ColCalendarName:    true,
			storage.ColCalendarDate:    true,
			storage.ColCalendarAdded:   true,
		},
		defaultOrder: storage.CalendarDefaultOrder,
	},
	storage.ResourceStatus: {
		table: "status",
		columns: map[string]bool{
			storage.ColStatusContactsFilled: true,
			storage.ColStatusCalendarFilled: true,
		},
	},
}

// resolver routes generic insert/select/update/delete operations to the
// five tables. It is the single access path into the database: it
// validates the resource and every referenced column before executing
// anything, and fires a change notification after each successful
// mutation.
type resolver struct {
	db       *sqlx.DB
	notifier *storage.Notifier
}

func newResolver(db *sqlx.DB, notifier *storage.Notifier) *resolver {
	return &resolver{db: db, notifier: notifier}
}

func (r *resolver) spec(resource string) (tableSpec, error) {
	spec, ok := tableSpecs[resource]
	if !ok {
		return tableSpec{}, errors.Wrap(storage.ErrUnknownResource, resource)
	}
	return spec, nil
}

func (r *resolver) validate(spec tableSpec, columns []string) error {
	for _, col := range columns {
		if !spec.columns[col] {
			return errors.Wrapf(storage.ErrConstraint, "column %q not in %s", col, spec.table)
		}
	}
	return nil
}

// Insert adds one row and returns its id. The values map must only name
// columns of the target resource.
func (r *resolver) Insert(ctx context.Context, resource string, values map[string]interface{}) (int64, error) {
	spec, err := r.spec(resource)
	if err != nil {
		return 0, err
	}

	columns := make([]string, 0, len(values))
	for col := range values {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	if err := r.validate(spec, columns); err != nil {
		return 0, err
	}
	if len(columns) == 0 {
		return 0, errors.Wrap(storage.ErrConstraint, "empty field set")
	}

	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		args = append(args, values[col])
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		spec.table,
		strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to insert into %s", spec.table)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read new %s id", spec.table)
	}

	r.notifier.Notify(resource)
	return id, nil
}

// Select runs a filtered query into dest, a pointer to a slice of row
// structs. An empty order falls back to the resource default.
func (r *resolver) Select(ctx context.Context, resource string, dest interface{}, f *storage.Filter, order string) error {
	spec, err := r.spec(resource)
	if err != nil {
		return err
	}
	if err := r.validate(spec, f.Columns()); err != nil {
		return err
	}

	query := "SELECT * FROM " + spec.table
	clause, args := f.Clause()
	if clause != "" {
		query += " WHERE " + clause
	}
	if order == "" {
		order = spec.defaultOrder
	}
	if order != "" {
		query += " ORDER BY " + order
	}

	if err := r.db.SelectContext(ctx, dest, query, args...); err != nil {
		return errors.Wrapf(err, "failed to query %s", spec.table)
	}
	return nil
}

// Count returns the number of rows matching the filter.
func (r *resolver) Count(ctx context.Context, resource string, f *storage.Filter) (int64, error) {
	spec, err := r.spec(resource)
	if err != nil {
		return 0, err
	}
	if err := r.validate(spec, f.Columns()); err != nil {
		return 0, err
	}

	query := "SELECT COUNT(*) FROM " + spec.table
	clause, args := f.Clause()
	if clause != "" {
		query += " WHERE " + clause
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, errors.Wrapf(err, "failed to count %s", spec.table)
	}
	return count, nil
}

// Update modifies matching rows and returns how many changed.
func (r *resolver) Update(ctx context.Context, resource string, values map[string]interface{}, f *storage.Filter) (int64, error) {
	spec, err := r.spec(resource)
	if err != nil {
		return 0, err
	}

	columns := make([]string, 0, len(values))
	for col := range values {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	if err := r.validate(spec, columns); err != nil {
		return 0, err
	}
	if err := r.validate(spec, f.Columns()); err != nil {
		return 0, err
	}
	if len(columns) == 0 {
		return 0, errors.Wrap(storage.ErrConstraint, "empty field set")
	}

	sets := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		sets = append(sets, col+" = ?")
		args = append(args, values[col])
	}

	query := fmt.Sprintf("UPDATE %s SET %s", spec.table, strings.Join(sets, ", "))
	clause, whereArgs := f.Clause()
	if clause != "" {
		query += " WHERE " + clause
		args = append(args, whereArgs...)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to update %s", spec.table)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read %s update count", spec.table)
	}

	if count > 0 {
		r.notifier.Notify(resource)
	}
	return count, nil
}

// Delete removes matching rows and returns how many were deleted.
func (r *resolver) Delete(ctx context.Context, resource string, f *storage.Filter) (int64, error) {
	spec, err := r.spec(resource)
	if err != nil {
		return 0, err
	}
	if err := r.validate(spec, f.Columns()); err != nil {
		return 0, err
	}

	query := "DELETE FROM " + spec.table
	clause, args := f.Clause()
	if clause != "" {
		query += " WHERE " + clause
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete from %s", spec.table)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read %s delete count", spec.table)
	}

	if count > 0 {
		r.notifier.Notify(resource)
	}
	return count, nil
}
