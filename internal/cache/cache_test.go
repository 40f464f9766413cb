package cache

import (
	"testing"
	"time"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := NewTTLCache[string](4, time.Minute)
	c.Set("quote", "ভালো কাজ ছোট হলেও মূল্যবান")

	got, ok := c.Get("quote")
	if !ok || got != "ভালো কাজ ছোট হলেও মূল্যবান" {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if c.Size() != 1 {
		t.Errorf("Size = %d, want 1", c.Size())
	}
}

func TestExpiryOnAccess(t *testing.T) {
	c := NewTTLCache[string](4, time.Minute)
	now := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("quote", "পুরনো")
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("quote"); ok {
		t.Error("expected expired entry to be dropped on access")
	}
	if c.Size() != 0 {
		t.Errorf("Size after expiry = %d, want 0", c.Size())
	}
}

func TestSetRefreshesExpiry(t *testing.T) {
	c := NewTTLCache[string](4, time.Minute)
	now := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("quote", "প্রথম")
	now = now.Add(45 * time.Second)
	c.Set("quote", "দ্বিতীয়")
	now = now.Add(45 * time.Second)

	got, ok := c.Get("quote")
	if !ok || got != "দ্বিতীয়" {
		t.Errorf("Get after refresh = %q, %v", got, ok)
	}
}

func TestSizeEviction(t *testing.T) {
	c := NewTTLCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	c := NewTTLCache[int](8, time.Minute)
	now := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)
	now = now.Add(2 * time.Minute)
	c.Set("c", 3)

	if removed := c.Sweep(); removed != 2 {
		t.Errorf("Sweep removed %d, want 2", removed)
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("fresh entry removed by sweep")
	}
}

func TestDelete(t *testing.T) {
	c := NewTTLCache[int](4, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("entry survived Delete")
	}
}
