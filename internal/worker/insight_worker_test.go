package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"tahbil/internal/amqp"
	"tahbil/internal/core"
	"tahbil/internal/store"
)

type fakeStorage struct {
	members       []core.Member
	subscriptions []core.Subscription
	expenses      []core.Expense
	insights      map[string]string
	saveCalls     int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{insights: make(map[string]string)}
}

func (f *fakeStorage) ListMembers(context.Context) ([]core.Member, error) {
	return f.members, nil
}

func (f *fakeStorage) ListSubscriptions(context.Context) ([]core.Subscription, error) {
	return f.subscriptions, nil
}

func (f *fakeStorage) ListExpenses(context.Context) ([]core.Expense, error) {
	return f.expenses, nil
}

func (f *fakeStorage) GetInsight(_ context.Context, key string) (string, error) {
	text, ok := f.insights[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return text, nil
}

func (f *fakeStorage) SaveInsight(_ context.Context, key, text string) error {
	f.saveCalls++
	f.insights[key] = text
	return nil
}

type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (g *fakeGenerator) FundInsight(context.Context, core.Ledger) (string, error) {
	g.calls++
	return g.text, g.err
}

func (g *fakeGenerator) DailyQuote(context.Context) (string, error) {
	return "", nil
}

func TestRefreshInsightStoresGeneratedText(t *testing.T) {
	storage := newFakeStorage()
	gen := &fakeGenerator{text: "তহবিল ভালো অবস্থায় আছে"}
	w := NewInsightWorker(storage, gen)

	if err := w.RefreshInsight(context.Background()); err != nil {
		t.Fatalf("RefreshInsight: %v", err)
	}
	if got := storage.insights[store.InsightKeyFundSummary]; got != gen.text {
		t.Errorf("stored insight = %q, want %q", got, gen.text)
	}
}

func TestRefreshInsightKeepsOldTextOnModelFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.insights[store.InsightKeyFundSummary] = "আগের সারসংক্ষেপ"
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	w := NewInsightWorker(storage, gen)

	if err := w.RefreshInsight(context.Background()); err == nil {
		t.Fatal("expected error from failed generation")
	}
	if got := storage.insights[store.InsightKeyFundSummary]; got != "আগের সারসংক্ষেপ" {
		t.Errorf("stored insight overwritten on failure: %q", got)
	}
}

func TestHandleLedgerChangedDebounces(t *testing.T) {
	storage := newFakeStorage()
	gen := &fakeGenerator{text: "সারসংক্ষেপ"}
	w := NewInsightWorker(storage, gen)

	now := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	msg := amqp.NewLedgerChangedMessage(string(store.CollectionExpenses), "e1")
	if err := w.HandleLedgerChanged(context.Background(), msg); err != nil {
		t.Fatalf("first change: %v", err)
	}
	if err := w.HandleLedgerChanged(context.Background(), msg); err != nil {
		t.Fatalf("second change: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls inside gap = %d, want 1", gen.calls)
	}

	now = now.Add(minRefreshGap + time.Second)
	if err := w.HandleLedgerChanged(context.Background(), msg); err != nil {
		t.Fatalf("third change: %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls after gap = %d, want 2", gen.calls)
	}
}

func TestHandleLedgerChangedIgnoresTrash(t *testing.T) {
	storage := newFakeStorage()
	gen := &fakeGenerator{text: "সারসংক্ষেপ"}
	w := NewInsightWorker(storage, gen)

	msg := amqp.NewLedgerChangedMessage(string(store.CollectionTrash), "t1")
	if err := w.HandleLedgerChanged(context.Background(), msg); err != nil {
		t.Fatalf("trash change: %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called for trash change")
	}
}

func TestStartupRefreshSkipsWhenInsightPresent(t *testing.T) {
	storage := newFakeStorage()
	storage.insights[store.InsightKeyFundSummary] = "আগের সারসংক্ষেপ"
	gen := &fakeGenerator{text: "নতুন"}
	w := NewInsightWorker(storage, gen)

	if err := w.StartupRefresh(context.Background()); err != nil {
		t.Fatalf("StartupRefresh: %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called despite existing insight")
	}
}
