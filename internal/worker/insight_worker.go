// Package worker refreshes the stored AI fund insight whenever the
// ledger changes, so dashboard loads never wait on the model.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tahbil/internal/ai"
	"tahbil/internal/amqp"
	"tahbil/internal/core"
	"tahbil/internal/store"
)

// minRefreshGap bounds how often a burst of ledger changes may hit the
// model. Changes inside the gap are absorbed by the next refresh.
const minRefreshGap = 30 * time.Second

// Storage is the slice of the store the worker needs: the ledger
// collections plus the insight slot.
type Storage interface {
	ListMembers(ctx context.Context) ([]core.Member, error)
	ListSubscriptions(ctx context.Context) ([]core.Subscription, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	GetInsight(ctx context.Context, key string) (string, error)
	SaveInsight(ctx context.Context, key, text string) error
}

type InsightWorker struct {
	store Storage
	gen   ai.InsightGenerator

	mu          sync.Mutex
	lastRefresh time.Time

	now func() time.Time
}

func NewInsightWorker(storage Storage, gen ai.InsightGenerator) *InsightWorker {
	return &InsightWorker{
		store: storage,
		gen:   gen,
		now:   time.Now,
	}
}

// HandleLedgerChanged processes one change message from the queue.
func (w *InsightWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"collection", msg.Collection,
		"entity_id", msg.EntityID)

	if msg.Collection == string(store.CollectionTrash) {
		return nil
	}

	w.mu.Lock()
	if since := w.now().Sub(w.lastRefresh); since < minRefreshGap {
		w.mu.Unlock()
		slog.DebugContext(ctx, "Skipping refresh inside gap", "since", since.Round(time.Second))
		return nil
	}
	w.lastRefresh = w.now()
	w.mu.Unlock()

	return w.RefreshInsight(ctx)
}

// RefreshInsight rebuilds the ledger from storage, asks the model for a
// fresh summary and stores it. Model failures are not retried; the
// previously stored text stays in place.
func (w *InsightWorker) RefreshInsight(ctx context.Context) error {
	ledger, err := w.loadLedger(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	text, err := w.gen.FundInsight(ctx, ledger)
	if err != nil {
		return fmt.Errorf("generate insight: %w", err)
	}

	if err := w.store.SaveInsight(ctx, store.InsightKeyFundSummary, text); err != nil {
		return fmt.Errorf("save insight: %w", err)
	}

	slog.InfoContext(ctx, "Insight refreshed", "length", len(text))
	return nil
}

// StartupRefresh fills the insight slot when it is empty, so a fresh
// deployment shows model text instead of the canned fallback. An
// existing insight is left alone until the next ledger change.
func (w *InsightWorker) StartupRefresh(ctx context.Context) error {
	text, err := w.store.GetInsight(ctx, store.InsightKeyFundSummary)
	if err == nil && text != "" {
		slog.InfoContext(ctx, "Stored insight present, skipping startup refresh")
		return nil
	}
	return w.RefreshInsight(ctx)
}

func (w *InsightWorker) loadLedger(ctx context.Context) (core.Ledger, error) {
	var l core.Ledger
	var err error
	if l.Members, err = w.store.ListMembers(ctx); err != nil {
		return core.Ledger{}, fmt.Errorf("list members: %w", err)
	}
	if l.Subscriptions, err = w.store.ListSubscriptions(ctx); err != nil {
		return core.Ledger{}, fmt.Errorf("list subscriptions: %w", err)
	}
	if l.Expenses, err = w.store.ListExpenses(ctx); err != nil {
		return core.Ledger{}, fmt.Errorf("list expenses: %w", err)
	}
	return l, nil
}
