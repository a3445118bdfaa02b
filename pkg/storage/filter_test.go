package storage

import (
	"testing"
	"time"
)

func TestFilterClause(t *testing.T) {
	f := NewFilter().
		Where(ColEventDetector, OpEq, "CallWatcher").
		Where(ColEventDetected, OpLt, int64(1000))

	clause, args := f.Clause()
	if clause != "detector = ? AND detected < ?" {
		t.Errorf("unexpected clause: %q", clause)
	}
	if len(args) != 2 || args[0] != "CallWatcher" || args[1] != int64(1000) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestFilterClauseEmpty(t *testing.T) {
	clause, args := NewFilter().Clause()
	if clause != "" || args != nil {
		t.Errorf("expected empty clause, got %q with %v", clause, args)
	}

	var f *Filter
	if !f.Empty() {
		t.Error("nil filter should be empty")
	}
}

func TestFilterColumns(t *testing.T) {
	f := NewFilter().
		Where(ColEventAction, OpEq, "Phone Call").
		Where(ColEventAdditional, OpLike, "%ID:1;%")

	cols := f.Columns()
	if len(cols) != 2 || cols[0] != ColEventAction || cols[1] != ColEventAdditional {
		t.Errorf("unexpected columns: %v", cols)
	}
}

func TestFilterMatch(t *testing.T) {
	occurred := time.Date(2019, 8, 14, 12, 0, 0, 0, time.UTC)
	row := map[string]interface{}{
		ColEventDetector:   "BrowserWatcher",
		ColEventAction:     "Website Visit",
		ColEventOccurred:   occurred.Unix(),
		ColEventDesc:       "http://example.com/",
		ColEventAdditional: "ID:42; Number:5551234;",
	}
	get := func(column string) (interface{}, bool) {
		v, ok := row[column]
		return v, ok
	}

	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{
			name:   "empty filter matches",
			filter: NewFilter(),
			want:   true,
		},
		{
			name:   "equality",
			filter: NewFilter().Where(ColEventDetector, OpEq, "BrowserWatcher"),
			want:   true,
		},
		{
			name:   "equality mismatch",
			filter: NewFilter().Where(ColEventDetector, OpEq, "CallWatcher"),
			want:   false,
		},
		{
			name: "conjunction",
			filter: NewFilter().
				Where(ColEventAction, OpEq, "Website Visit").
				Where(ColEventOccurred, OpEq, occurred.Unix()),
			want: true,
		},
		{
			name:   "less than",
			filter: NewFilter().Where(ColEventOccurred, OpLt, occurred.Unix()+1),
			want:   true,
		},
		{
			name:   "less than excludes equal",
			filter: NewFilter().Where(ColEventOccurred, OpLt, occurred.Unix()),
			want:   false,
		},
		{
			name:   "greater or equal includes equal",
			filter: NewFilter().Where(ColEventOccurred, OpGte, occurred.Unix()),
			want:   true,
		},
		{
			name:   "like with wildcards",
			filter: NewFilter().Where(ColEventAdditional, OpLike, "%ID:42;%"),
			want:   true,
		},
		{
			name:   "like rejects partial token",
			filter: NewFilter().Where(ColEventAdditional, OpLike, "%ID:4;%"),
			want:   false,
		},
		{
			name:   "unknown column never matches",
			filter: NewFilter().Where("no_such_column", OpEq, "x"),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(get); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLikeMatch(t *testing.T) {
	tests := []struct {
		s       string
		pattern string
		want    bool
	}{
		{"ID:42; Number:555;", "%ID:42;%", true},
		{"ID:42; Number:555;", "ID:42;%", true},
		{"ID:42; Number:555;", "%Number:555;", true},
		{"ID:42; Number:555;", "%ID:421;%", false},
		{"ID:421; Number:555;", "%ID:42;%", false},
		{"MSG_ID:7; ReceiverAddress:555;", "%MSG_ID:7;%", true},
		{"exact", "exact", true},
		{"exact", "other", false},
		{"anything", "%", true},
		{"", "%", true},
	}

	for _, tt := range tests {
		if got := likeMatch(tt.s, tt.pattern); got != tt.want {
			t.Errorf("likeMatch(%q, %q) = %v, want %v", tt.s, tt.pattern, got, tt.want)
		}
	}
}
