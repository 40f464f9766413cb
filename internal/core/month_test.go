package core

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in   string
		want Month
		ok   bool
	}{
		{"2025-12", Month{2025, time.December}, true},
		{"2026-01", Month{2026, time.January}, true},
		{"2026-13", Month{}, false},
		{"2026", Month{}, false},
		{"", Month{}, false},
	}
	for i, tc := range cases {
		got, err := ParseMonth(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d: unexpected error %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error for %q", i, tc.in)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}

func TestMonthString(t *testing.T) {
	m := Month{2026, time.March}
	if m.String() != "2026-03" {
		t.Fatalf("got %q", m.String())
	}
}

func TestMonthsSince(t *testing.T) {
	start := Month{2025, time.December}
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	got := MonthsSince(start, now)
	want := []string{"2026-03", "2026-02", "2026-01", "2025-12"}
	if len(got) != len(want) {
		t.Fatalf("got %d months, want %d", len(got), len(want))
	}
	for i, m := range got {
		if m.String() != want[i] {
			t.Fatalf("month %d: got %s want %s", i, m, want[i])
		}
	}
}

func TestMonthsSinceClampsToStart(t *testing.T) {
	start := Month{2025, time.December}
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	got := MonthsSince(start, now)
	if len(got) != 1 || got[0] != start {
		t.Fatalf("expected single start month, got %v", got)
	}
}

func TestMonthsSinceCrossesYearBoundary(t *testing.T) {
	start := Month{2025, time.December}
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	got := MonthsSince(start, now)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got[0].String() != "2026-01" || got[1].String() != "2025-12" {
		t.Fatalf("got %v", got)
	}
}

func TestClampMonth(t *testing.T) {
	start := Month{2025, time.December}
	early := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	if got := ClampMonth(start, early); got != start {
		t.Fatalf("early: got %v", got)
	}
	if got := ClampMonth(start, late); got.String() != "2026-02" {
		t.Fatalf("late: got %v", got)
	}
}

func TestMonthNextPrev(t *testing.T) {
	dec := Month{2025, time.December}
	if dec.Next() != (Month{2026, time.January}) {
		t.Fatalf("Next across year: got %v", dec.Next())
	}
	jan := Month{2026, time.January}
	if jan.Prev() != dec {
		t.Fatalf("Prev across year: got %v", jan.Prev())
	}
}
