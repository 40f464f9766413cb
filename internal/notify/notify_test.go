package notify

import (
	"testing"
	"time"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestPushBoundsVisibleEntries(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := NewCenter(3, time.Minute)
	c.now = fixedClock(&now)

	c.Push(LevelInfo, "", "এক")
	c.Push(LevelInfo, "", "দুই")
	c.Push(LevelInfo, "", "তিন")
	c.Push(LevelAlert, "", "চার")

	got := c.Visible()
	if len(got) != 3 {
		t.Fatalf("visible = %d, want 3", len(got))
	}
	// Newest first, oldest dropped.
	if got[0].Message != "চার" || got[2].Message != "দুই" {
		t.Fatalf("got %+v", got)
	}
}

func TestVisibleDropsExpired(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := NewCenter(3, 6*time.Second)
	c.now = fixedClock(&now)

	c.Push(LevelInfo, "", "পুরনো")
	now = now.Add(4 * time.Second)
	c.Push(LevelInfo, "", "নতুন")

	now = now.Add(3 * time.Second) // first is now 7s old, second 3s
	got := c.Visible()
	if len(got) != 1 || got[0].Message != "নতুন" {
		t.Fatalf("got %+v", got)
	}

	now = now.Add(10 * time.Second)
	if got := c.Visible(); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}

func TestPushActionCarriesTitleAndTarget(t *testing.T) {
	c := NewCenter(3, time.Minute)
	c.PushAction(LevelSuccess, "চাঁদা আদায়", "করিম (জানুয়ারি ২০২৬)", "/receipts/x_2026-01")

	got := c.Visible()
	if len(got) != 1 {
		t.Fatalf("visible = %d, want 1", len(got))
	}
	n := got[0]
	if n.Level != LevelSuccess || n.Title != "চাঁদা আদায়" || n.Action != "/receipts/x_2026-01" {
		t.Fatalf("got %+v", n)
	}
}

func TestDroppedEntriesDoNotReturn(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := NewCenter(2, time.Minute)
	c.now = fixedClock(&now)

	c.Push(LevelInfo, "", "a")
	c.Push(LevelInfo, "", "b")
	c.Push(LevelInfo, "", "c") // drops "a"

	got := c.Visible()
	if len(got) != 2 || got[0].Message != "c" || got[1].Message != "b" {
		t.Fatalf("got %+v", got)
	}
}
