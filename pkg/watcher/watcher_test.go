package watcher

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage/memory"
)

// fakeSource serves canned records per kind. It ignores the since
// bound, which the Source contract allows: detectors must deduplicate
// anyway.
type fakeSource struct {
	records map[string][]Record
}

func (s *fakeSource) Query(ctx context.Context, kind string, since time.Time) ([]Record, error) {
	return s.records[kind], nil
}

func callRecord(id int64, at time.Time, callType, number, name string, duration int64) Record {
	return Record{
		ID:   id,
		Time: at,
		Fields: map[string]string{
			"type":     callType,
			"number":   number,
			"name":     name,
			"duration": strconv.FormatInt(duration, 10),
		},
	}
}

func TestCallLogWatcher(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	now := time.Now()

	source := &fakeSource{records: map[string][]Record{
		KindCallLog: {
			callRecord(1, now.Add(-time.Minute), "incoming", "5551234", "Alice", 60),
			// Ended long before the recency window; predates the agent.
			callRecord(2, now.Add(-time.Hour), "outgoing", "5555678", "Bob", 10),
		},
	}}
	w := NewCallLogWatcher(source, st)

	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce failed: %s", err)
	}

	events, err := st.Events().FetchAll(ctx)
	if err != nil {
		t.Fatalf("failed to fetch events: %s", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.Detector != "CallWatcher" || event.Action != "Phone Call" {
		t.Errorf("unexpected event identity: %+v", event)
	}
	if event.Description != "Incoming" {
		t.Errorf("expected incoming direction, got %q", event.Description)
	}
	if !strings.Contains(event.AdditionalInfo, "ID:1;") || !strings.Contains(event.AdditionalInfo, "Number:5551234;") {
		t.Errorf("unexpected payload %q", event.AdditionalInfo)
	}

	// Re-observing the same call log must not duplicate the event.
	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("second RunOnce failed: %s", err)
	}
	events, _ = st.Events().FetchAll(ctx)
	if len(events) != 1 {
		t.Errorf("expected 1 event after rescan, got %d", len(events))
	}
}

func TestCallDirection(t *testing.T) {
	tests := []struct {
		callType string
		want     string
	}{
		{"incoming", "Incoming"},
		{"missed", "Incoming - Missed"},
		{"outgoing", "Outgoing"},
		{"", "Outgoing"},
	}
	for _, tt := range tests {
		if got := callDirection(tt.callType); got != tt.want {
			t.Errorf("callDirection(%q) = %q, want %q", tt.callType, got, tt.want)
		}
	}
}

func TestSMSWatcher(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	now := time.Now()

	// Seed the contact mirror so the receiver resolves to a name.
	if err := st.Contacts().Create(ctx, &model.Contact{ContactID: 1, Name: "Alice", Number: "5551234"}); err != nil {
		t.Fatalf("failed to seed contact: %s", err)
	}

	source := &fakeSource{records: map[string][]Record{
		KindSMS: {
			{ID: 7, Time: now, Fields: map[string]string{
				"type": "4", "address": "5551234", "body": "hello",
			}},
			// Inbox message; only sent messages are recorded.
			{ID: 8, Time: now, Fields: map[string]string{
				"type": "1", "address": "5551234", "body": "hi back",
			}},
			// Sent, but outside the recency window.
			{ID: 9, Time: now.Add(-time.Minute), Fields: map[string]string{
				"type": "4", "address": "5551234", "body": "stale",
			}},
		},
	}}
	w := NewSMSWatcher(source, st)

	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce failed: %s", err)
	}

	events, err := st.Events().FetchAll(ctx)
	if err != nil {
		t.Fatalf("failed to fetch events: %s", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.Action != "SMS Sent" || event.Description != "hello" {
		t.Errorf("unexpected event: %+v", event)
	}
	if !strings.Contains(event.AdditionalInfo, "MSG_ID:7;") {
		t.Errorf("missing message id in %q", event.AdditionalInfo)
	}
	if !strings.Contains(event.AdditionalInfo, "ReceiverContact:Alice;") {
		t.Errorf("receiver not resolved against the mirror: %q", event.AdditionalInfo)
	}

	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("second RunOnce failed: %s", err)
	}
	events, _ = st.Events().FetchAll(ctx)
	if len(events) != 1 {
		t.Errorf("expected 1 event after rescan, got %d", len(events))
	}
}

func TestBrowserHistoryWatcher(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	now := time.Now()

	source := &fakeSource{records: map[string][]Record{
		KindBrowserVisit: {
			{ID: 1, Time: now, Fields: map[string]string{"url": "http://example.com/"}},
			// A record without its payload field is unusable.
			{ID: 2, Time: now, Fields: map[string]string{}},
		},
		KindBrowserSearch: {
			{ID: 3, Time: now, Fields: map[string]string{"term": "go sqlite"}},
		},
	}}
	w := NewBrowserHistoryWatcher(source, st)

	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce failed: %s", err)
	}

	events, err := st.Events().FetchAll(ctx)
	if err != nil {
		t.Fatalf("failed to fetch events: %s", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Action != "Website Visit" || events[0].Description != "http://example.com/" {
		t.Errorf("unexpected visit event: %+v", events[0])
	}
	if events[1].Action != "Web Search" || events[1].Description != "go sqlite" {
		t.Errorf("unexpected search event: %+v", events[1])
	}

	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("second RunOnce failed: %s", err)
	}
	events, _ = st.Events().FetchAll(ctx)
	if len(events) != 2 {
		t.Errorf("expected 2 events after rescan, got %d", len(events))
	}
}

func TestContactWatcherBackfillThenDiff(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	now := time.Now()

	source := &fakeSource{records: map[string][]Record{
		KindContacts: {
			{ID: 1, Time: now, Fields: map[string]string{"name": "Alice", "number": "5551234"}},
			{ID: 2, Time: now, Fields: map[string]string{"name": "Bob", "number": "5555678"}},
		},
	}}
	w := NewContactWatcher(source, st)

	// First run: the whole contact book predates the agent, so it fills
	// the mirror without recording events.
	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("backfill run failed: %s", err)
	}

	events, _ := st.Events().FetchAll(ctx)
	if len(events) != 0 {
		t.Errorf("backfill must not record events, got %d", len(events))
	}
	contacts, _ := st.Contacts().FetchAll(ctx)
	if len(contacts) != 2 {
		t.Errorf("expected 2 mirrored contacts, got %d", len(contacts))
	}
	status, _ := st.Status().Get(ctx)
	if !status.ContactsFilled {
		t.Error("backfill must set the contacts flag")
	}

	// A contact appearing after the backfill is a detected addition.
	source.records[KindContacts] = append(source.records[KindContacts],
		Record{ID: 3, Time: now, Fields: map[string]string{"name": "Carol", "number": "5559999"}})

	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("diff run failed: %s", err)
	}

	events, _ = st.Events().FetchAll(ctx)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Action != "Contact Added" || events[0].Description != "Carol" {
		t.Errorf("unexpected event: %+v", events[0])
	}
	if !strings.Contains(events[0].AdditionalInfo, "ContactID:3;") {
		t.Errorf("unexpected payload %q", events[0].AdditionalInfo)
	}
	if _, err := st.Contacts().FindByContactID(ctx, 3); err != nil {
		t.Errorf("new contact missing from mirror: %s", err)
	}

	// Re-observing the same book finds nothing new.
	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("third run failed: %s", err)
	}
	events, _ = st.Events().FetchAll(ctx)
	if len(events) != 1 {
		t.Errorf("expected 1 event after rescan, got %d", len(events))
	}
}

func TestCalendarWatcherBackfillThenDiff(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	now := time.Now()

	source := &fakeSource{records: map[string][]Record{
		KindCalendar: {
			{ID: 1, Time: now.Add(24 * time.Hour), Fields: map[string]string{"name": "Standup"}},
		},
	}}
	w := NewCalendarWatcher(source, st)

	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("backfill run failed: %s", err)
	}

	events, _ := st.Events().FetchAll(ctx)
	if len(events) != 0 {
		t.Errorf("backfill must not record events, got %d", len(events))
	}
	status, _ := st.Status().Get(ctx)
	if !status.CalendarFilled {
		t.Error("backfill must set the calendar flag")
	}

	source.records[KindCalendar] = append(source.records[KindCalendar],
		Record{ID: 2, Time: now.Add(48 * time.Hour), Fields: map[string]string{"name": "Review"}})

	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("diff run failed: %s", err)
	}

	events, _ = st.Events().FetchAll(ctx)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Action != "Calendar Event Added" || events[0].Description != "Review" {
		t.Errorf("unexpected event: %+v", events[0])
	}
	if _, err := st.Calendar().FindByEventID(ctx, 2); err != nil {
		t.Errorf("new entry missing from mirror: %s", err)
	}
}
