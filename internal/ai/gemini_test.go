package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"tahbil/internal/core"
)

func TestInsightPromptCarriesFundNumbers(t *testing.T) {
	l := core.Ledger{
		Members: []core.Member{
			{ID: "m1", Name: "a", HouseName: "h", Status: core.StatusActive},
		},
		Subscriptions: []core.Subscription{
			{ID: "m1_2026-01", MemberID: "m1", Amount: core.Money{Amount: 500}, Month: core.Month{Year: 2026, Mon: time.January}},
		},
		Expenses: []core.Expense{
			{ID: "e1", Description: "d", Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
				Items: []core.ExpenseItem{{Name: "x", Amount: core.Money{Amount: 200}}}},
		},
	}

	prompt := insightPrompt(l)

	for _, want := range []string{"৫০০", "২০০", "৩০০", "১ জন"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), "  ", ""); err == nil {
		t.Fatal("expected error for empty key")
	}
}
