package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirSourceQuery(t *testing.T) {
	dir := t.TempDir()
	data := `[
		{"id": 1, "time": 1000, "fields": {"number": "5551234", "type": "incoming", "duration": "60"}},
		{"id": 2, "time": 2000, "fields": {"number": "5555678", "type": "outgoing"}}
	]`
	if err := os.WriteFile(filepath.Join(dir, "calllog.json"), []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write source file: %s", err)
	}

	source := NewDirSource(dir)
	records, err := source.Query(context.Background(), KindCallLog, time.Time{})
	if err != nil {
		t.Fatalf("Query failed: %s", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	rec := records[0]
	if rec.ID != 1 || rec.Time.Unix() != 1000 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Field("number") != "5551234" || rec.Field("missing") != "" {
		t.Errorf("unexpected fields: %+v", rec.Fields)
	}
	if rec.IntField("duration", 0) != 60 {
		t.Errorf("unexpected duration: %d", rec.IntField("duration", 0))
	}
	if records[1].IntField("duration", -1) != -1 {
		t.Error("missing integer field should fall back to the default")
	}
}

func TestDirSourceSinceBound(t *testing.T) {
	dir := t.TempDir()
	data := `[
		{"id": 1, "time": 1000, "fields": {}},
		{"id": 2, "time": 2000, "fields": {}},
		{"id": 3, "time": 3000, "fields": {}}
	]`
	if err := os.WriteFile(filepath.Join(dir, "sms.json"), []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write source file: %s", err)
	}

	source := NewDirSource(dir)
	records, err := source.Query(context.Background(), KindSMS, time.Unix(2000, 0))
	if err != nil {
		t.Fatalf("Query failed: %s", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records at or after the bound, got %d", len(records))
	}
	if records[0].ID != 2 || records[1].ID != 3 {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestDirSourceMissingFile(t *testing.T) {
	source := NewDirSource(t.TempDir())

	records, err := source.Query(context.Background(), KindContacts, time.Time{})
	if err != nil {
		t.Fatalf("missing file must not be an error, got %s", err)
	}
	if records != nil {
		t.Errorf("expected no records, got %+v", records)
	}
}

func TestDirSourceMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "calendar.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write source file: %s", err)
	}

	source := NewDirSource(dir)
	if _, err := source.Query(context.Background(), KindCalendar, time.Time{}); err == nil {
		t.Error("expected a parse error")
	}
}
