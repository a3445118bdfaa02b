package watcher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// DirSource is a file-backed Source. Each kind is read from
// <dir>/<kind>.json, a JSON array of records dropped there by whatever
// platform bridge feeds the agent. A missing file means the platform
// has produced nothing for that kind yet and is not an error.
type DirSource struct {
	dir string
}

// NewDirSource creates a Source reading from the given directory.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

type dirRecord struct {
	ID     int64             `json:"id"`
	Time   int64             `json:"time"`
	Fields map[string]string `json:"fields"`
}

// Query implements Source. Records are filtered to event times at or
// after since; epoch-second timestamps in the files keep them aligned
// with the store columns.
func (s *DirSource) Query(ctx context.Context, kind string, since time.Time) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, kind+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read source file %s", path)
	}

	var rows []dirRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrapf(err, "failed to parse source file %s", path)
	}

	var records []Record
	for _, row := range rows {
		t := time.Unix(row.Time, 0)
		if t.Before(since) {
			continue
		}
		records = append(records, Record{
			ID:     row.ID,
			Time:   t,
			Fields: row.Fields,
		})
	}
	return records, nil
}
