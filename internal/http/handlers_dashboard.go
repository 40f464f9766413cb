package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tahbil/internal/ai"
	"tahbil/internal/core"
	"tahbil/internal/store"
)

const quoteCacheKey = "daily-quote"

type dashboardView struct {
	TotalIn    core.Money
	TotalOut   core.Money
	Balance    core.Money
	Month      core.Month
	PaidCount  int
	ActiveSize int
	Recent     []core.Transaction
	Series     []core.MonthTotals
	Insight    string
	Quote      string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	l := s.cache.Ledger()
	current := core.ClampMonth(s.startMonth, s.now())
	paid, active := l.PaidCounts(current)

	months := core.MonthsSince(s.startMonth, s.now())
	if len(months) > 6 {
		months = months[:6]
	}

	view := dashboardView{
		TotalIn:    l.TotalCollections(),
		TotalOut:   l.TotalExpenses(),
		Balance:    l.Balance(),
		Month:      current,
		PaidCount:  paid,
		ActiveSize: active,
		Recent:     l.RecentTransactions(8),
		Series:     l.MonthlySeries(months),
		Insight:    s.insightText(r.Context(), l),
		Quote:      s.dailyQuote(r.Context()),
	}

	s.render(w, r, "dashboard.html", "ড্যাশবোর্ড", "dashboard", view)
}

// insightText prefers the worker-refreshed stored insight and falls back
// to a live model call, then to the canned text.
func (s *Server) insightText(ctx context.Context, l core.Ledger) string {
	if text, err := s.store.GetInsight(ctx, store.InsightKeyFundSummary); err == nil && text != "" {
		return text
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.WarnContext(ctx, "Insight lookup failed", "error", err)
	}

	if s.insights == nil {
		return ai.FallbackInsight
	}

	cctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	text, err := s.insights.FundInsight(cctx, l)
	if err != nil {
		return text // fallback text from the generator
	}
	if err := s.store.SaveInsight(ctx, store.InsightKeyFundSummary, text); err != nil {
		slog.WarnContext(ctx, "Insight save failed", "error", err)
	}
	return text
}

// dailyQuote serves the cached quote, asking the model only when the
// cache entry expired.
func (s *Server) dailyQuote(ctx context.Context) string {
	if s.quoteCache != nil {
		if quote, ok := s.quoteCache.Get(quoteCacheKey); ok {
			return quote
		}
	}

	if s.insights == nil {
		return ai.FallbackQuote
	}

	cctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	quote, err := s.insights.DailyQuote(cctx)
	if err != nil {
		return quote // fallback text from the generator
	}
	if s.quoteCache != nil {
		s.quoteCache.Set(quoteCacheKey, quote)
	}
	return quote
}
