package tasks

import (
	"errors"
	"testing"
)

func TestImportanceString(t *testing.T) {
	tests := []struct {
		level Importance
		want  string
	}{
		{ImportantUrgent, "Important & Urgent"},
		{ImportantNotUrgent, "Important & Not Urgent"},
		{NotImportantUrgent, "Not Important & Urgent"},
		{NotImportantNotUrgent, "Not Important & Not Urgent"},
		{Importance(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Importance(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestImportanceRankOrder(t *testing.T) {
	levels := AllImportances()
	if len(levels) != ImportanceCount {
		t.Fatalf("AllImportances() returned %d levels, want %d", len(levels), ImportanceCount)
	}
	for i, l := range levels {
		if l.Rank() != i {
			t.Errorf("%s.Rank() = %d, want %d", l, l.Rank(), i)
		}
		if l.Accent() == "" {
			t.Errorf("%s.Accent() is empty", l)
		}
	}
}

func TestParseImportance(t *testing.T) {
	tests := []struct {
		input string
		want  Importance
		err   bool
	}{
		{"important-urgent", ImportantUrgent, false},
		{"IMPORTANT_URGENT", ImportantUrgent, false},
		{"in", ImportantNotUrgent, false},
		{"not-important-urgent", NotImportantUrgent, false},
		{" NN ", NotImportantNotUrgent, false},
		{"critical", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseImportance(tt.input)
		if tt.err {
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("ParseImportance(%q): want ErrInvalidArgument, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseImportance(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseImportance(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestImportanceTextRoundTrip(t *testing.T) {
	for _, l := range AllImportances() {
		text, err := l.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s): %v", l, err)
		}
		var back Importance
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if back != l {
			t.Errorf("round trip of %s gave %s", l, back)
		}
	}
	if _, err := Importance(7).MarshalText(); err == nil {
		t.Error("MarshalText of invalid level should fail")
	}
}

func TestParseSortKey(t *testing.T) {
	for _, k := range AllSortKeys() {
		got, err := ParseSortKey(k.Slug())
		if err != nil {
			t.Fatalf("ParseSortKey(%q): %v", k.Slug(), err)
		}
		if got != k {
			t.Errorf("ParseSortKey(%q) = %v, want %v", k.Slug(), got, k)
		}
	}

	if got, _ := ParseSortKey("deadline"); got != DeadlineAsc {
		t.Errorf("ParseSortKey(deadline) = %v, want DeadlineAsc", got)
	}
	if _, err := ParseSortKey("priority"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseSortKey(priority): want ErrInvalidArgument, got %v", err)
	}
}

func TestSortKeyNextCycles(t *testing.T) {
	k := NameAsc
	seen := make(map[SortKey]bool)
	for range AllSortKeys() {
		seen[k] = true
		k = k.Next()
	}
	if k != NameAsc {
		t.Errorf("after a full cycle got %v, want NameAsc", k)
	}
	if len(seen) != len(AllSortKeys()) {
		t.Errorf("cycle visited %d keys, want %d", len(seen), len(AllSortKeys()))
	}
}

func TestSameCategory(t *testing.T) {
	work := NewCategory(1, "Work")
	workCopy := NewCategory(1, "Renamed")
	home := NewCategory(2, "Home")

	if !SameCategory(work, workCopy) {
		t.Error("categories with equal ids should match")
	}
	if SameCategory(work, home) {
		t.Error("categories with different ids should not match")
	}
	if SameCategory(work, nil) {
		t.Error("nil should not match a category")
	}
	if !SameCategory(nil, nil) {
		t.Error("nil should match nil")
	}
}
