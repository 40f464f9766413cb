// Package live keeps an in-memory snapshot of every collection, reloaded
// whenever the store reports a change. Handlers read the snapshot instead
// of querying SQLite per request, and the notification center listens for
// the same change events.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tahbil/internal/core"
	"tahbil/internal/store"
)

// Source is the slice of the store the cache reads from.
type Source interface {
	ListMembers(ctx context.Context) ([]core.Member, error)
	ListSubscriptions(ctx context.Context) ([]core.Subscription, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	ListTrash(ctx context.Context) ([]core.TrashRecord, error)
	Watch(c store.Collection, fn func()) (unsubscribe func())
}

type Cache struct {
	src Source

	mu     sync.RWMutex
	ledger core.Ledger
	trash  []core.TrashRecord

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(store.Collection)

	unsubs []func()
}

func NewCache(src Source) *Cache {
	return &Cache{src: src, subs: make(map[int]func(store.Collection))}
}

// Start loads every collection and subscribes to change events. Reloads
// after Start run on the notifying goroutine and replace the whole slice
// for that collection.
func (c *Cache) Start(ctx context.Context) error {
	for _, col := range []store.Collection{
		store.CollectionMembers,
		store.CollectionSubscriptions,
		store.CollectionExpenses,
		store.CollectionTrash,
	} {
		if err := c.reload(ctx, col); err != nil {
			return fmt.Errorf("initial load %s: %w", col, err)
		}
		col := col
		c.unsubs = append(c.unsubs, c.src.Watch(col, func() {
			if err := c.reload(context.Background(), col); err != nil {
				slog.Error("Snapshot reload failed", "collection", col, "error", err)
				return
			}
			c.fanOut(col)
		}))
	}
	return nil
}

// Close detaches the cache from the store. The last snapshot stays
// readable.
func (c *Cache) Close() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
}

func (c *Cache) reload(ctx context.Context, col store.Collection) error {
	switch col {
	case store.CollectionMembers:
		members, err := c.src.ListMembers(ctx)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.ledger.Members = members
		c.mu.Unlock()
	case store.CollectionSubscriptions:
		subs, err := c.src.ListSubscriptions(ctx)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.ledger.Subscriptions = subs
		c.mu.Unlock()
	case store.CollectionExpenses:
		expenses, err := c.src.ListExpenses(ctx)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.ledger.Expenses = expenses
		c.mu.Unlock()
	case store.CollectionTrash:
		trash, err := c.src.ListTrash(ctx)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.trash = trash
		c.mu.Unlock()
	}
	return nil
}

// Ledger returns the current snapshot. Callers must treat the slices as
// read-only; a reload replaces them wholesale rather than mutating.
func (c *Cache) Ledger() core.Ledger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ledger
}

func (c *Cache) Trash() []core.TrashRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trash
}

// OnChange registers fn to run after a collection snapshot is replaced.
// The returned function removes the registration.
func (c *Cache) OnChange(fn func(store.Collection)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Cache) fanOut(col store.Collection) {
	c.subMu.Lock()
	fns := make([]func(store.Collection), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(col)
	}
}
