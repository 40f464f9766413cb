package live

import (
	"context"
	"testing"
	"time"

	"tahbil/internal/core"
	"tahbil/internal/store"
)

// fakeSource serves canned slices and lets tests trigger change events.
type fakeSource struct {
	hub     *store.Hub
	members []core.Member
	subs    []core.Subscription
	exps    []core.Expense
	trash   []core.TrashRecord
}

func newFakeSource() *fakeSource {
	return &fakeSource{hub: store.NewHub()}
}

func (f *fakeSource) ListMembers(context.Context) ([]core.Member, error)            { return f.members, nil }
func (f *fakeSource) ListSubscriptions(context.Context) ([]core.Subscription, error) { return f.subs, nil }
func (f *fakeSource) ListExpenses(context.Context) ([]core.Expense, error)          { return f.exps, nil }
func (f *fakeSource) ListTrash(context.Context) ([]core.TrashRecord, error)         { return f.trash, nil }
func (f *fakeSource) Watch(c store.Collection, fn func()) func()                    { return f.hub.Watch(c, fn) }

func TestCacheLoadsInitialSnapshot(t *testing.T) {
	src := newFakeSource()
	src.members = []core.Member{{ID: "m1", Name: "করিম", HouseName: "h", Status: core.StatusActive}}

	c := NewCache(src)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Close()

	l := c.Ledger()
	if len(l.Members) != 1 || l.Members[0].ID != "m1" {
		t.Fatalf("members = %+v", l.Members)
	}
}

func TestCacheReloadsOnChange(t *testing.T) {
	src := newFakeSource()

	c := NewCache(src)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Close()

	if got := len(c.Ledger().Subscriptions); got != 0 {
		t.Fatalf("initial subscriptions = %d", got)
	}

	src.subs = []core.Subscription{{
		ID: "m1_2026-01", MemberID: "m1",
		Amount: core.Money{Amount: 100},
		Month:  core.Month{Year: 2026, Mon: time.January},
	}}
	src.hub.Notify(store.CollectionSubscriptions)

	if got := len(c.Ledger().Subscriptions); got != 1 {
		t.Fatalf("subscriptions after change = %d, want 1", got)
	}
}

func TestCacheFansOutChangeEvents(t *testing.T) {
	src := newFakeSource()

	c := NewCache(src)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Close()

	var seen []store.Collection
	unsub := c.OnChange(func(col store.Collection) { seen = append(seen, col) })

	src.hub.Notify(store.CollectionExpenses)
	src.hub.Notify(store.CollectionTrash)
	unsub()
	src.hub.Notify(store.CollectionMembers)

	if len(seen) != 2 || seen[0] != store.CollectionExpenses || seen[1] != store.CollectionTrash {
		t.Fatalf("seen = %v", seen)
	}
}

func TestCacheCloseStopsReloads(t *testing.T) {
	src := newFakeSource()

	c := NewCache(src)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Close()

	src.members = []core.Member{{ID: "m1", Name: "a", HouseName: "h", Status: core.StatusActive}}
	src.hub.Notify(store.CollectionMembers)

	if got := len(c.Ledger().Members); got != 0 {
		t.Fatalf("members after close = %d, want 0", got)
	}
}
