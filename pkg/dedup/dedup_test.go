package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/jgrover/DroidWatch/pkg/model"
	"github.com/jgrover/DroidWatch/pkg/storage/memory"
)

func TestExists(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	checker := NewChecker(st)

	occurred := time.Unix(1000, 0)
	event := &model.Event{
		Detector:       "CallWatcher",
		Action:         "Phone Call",
		OccurredAt:     occurred,
		Description:    "Outgoing",
		AdditionalInfo: "ID:42; Number:5551234; Name:Bob; Duration:60;",
	}
	if err := st.Events().Create(ctx, event); err != nil {
		t.Fatalf("failed to create event: %s", err)
	}

	tests := []struct {
		name  string
		match Match
		want  bool
	}{
		{
			name:  "info token",
			match: Match{Detector: "CallWatcher", InfoLike: "%ID:42;%"},
			want:  true,
		},
		{
			name:  "info token of another call",
			match: Match{Detector: "CallWatcher", InfoLike: "%ID:43;%"},
			want:  false,
		},
		{
			name:  "other detector",
			match: Match{Detector: "BrowserWatcher", InfoLike: "%ID:42;%"},
			want:  false,
		},
		{
			name: "full identity",
			match: Match{
				Detector:    "CallWatcher",
				Action:      "Phone Call",
				OccurredAt:  occurred,
				Description: "Outgoing",
			},
			want: true,
		},
		{
			name: "different occurrence time",
			match: Match{
				Detector:    "CallWatcher",
				Action:      "Phone Call",
				OccurredAt:  occurred.Add(time.Second),
				Description: "Outgoing",
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.Exists(ctx, tt.match)
			if err != nil {
				t.Fatalf("Exists failed: %s", err)
			}
			if got != tt.want {
				t.Errorf("Exists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHighWaterMarkBackstop(t *testing.T) {
	checker := NewChecker(memory.NewStore())

	hwm, err := checker.HighWaterMark(context.Background())
	if err != nil {
		t.Fatalf("HighWaterMark failed: %s", err)
	}

	want := previousMidnight(time.Now())
	if !hwm.Equal(want) {
		t.Errorf("expected backstop %v, got %v", want, hwm)
	}
	if hour, min, sec := hwm.Clock(); hour != 0 || min != 0 || sec != 0 {
		t.Errorf("backstop should be a midnight, got %v", hwm)
	}
}

func TestHighWaterMarkUsesLatestCompletedTransfer(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	checker := NewChecker(st)

	early := &model.Transfer{DeviceID: "dev", StartTime: time.Unix(1000, 0)}
	late := &model.Transfer{DeviceID: "dev", StartTime: time.Unix(2000, 0)}
	pending := &model.Transfer{DeviceID: "dev", StartTime: time.Unix(3000, 0)}
	for _, transfer := range []*model.Transfer{early, late, pending} {
		if err := st.Transfers().Create(ctx, transfer); err != nil {
			t.Fatalf("failed to create transfer: %s", err)
		}
	}
	if err := st.Transfers().MarkCompleted(ctx, early.ID); err != nil {
		t.Fatalf("failed to mark completed: %s", err)
	}
	if err := st.Transfers().MarkCompleted(ctx, late.ID); err != nil {
		t.Fatalf("failed to mark completed: %s", err)
	}

	hwm, err := checker.HighWaterMark(ctx)
	if err != nil {
		t.Fatalf("HighWaterMark failed: %s", err)
	}
	if hwm.Unix() != 2000 {
		t.Errorf("expected mark at 2000, got %d", hwm.Unix())
	}
}

func TestPreviousMidnight(t *testing.T) {
	now := time.Date(2019, 8, 14, 15, 30, 45, 0, time.UTC)
	got := previousMidnight(now)
	want := time.Date(2019, 8, 13, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("previousMidnight(%v) = %v, want %v", now, got, want)
	}

	// First of month rolls back into the previous month.
	now = time.Date(2019, 9, 1, 0, 0, 1, 0, time.UTC)
	got = previousMidnight(now)
	want = time.Date(2019, 8, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("previousMidnight(%v) = %v, want %v", now, got, want)
	}
}
