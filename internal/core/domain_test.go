package core

import (
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Amount: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Amount: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Amount: -5}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestMemberValidate(t *testing.T) {
	good := Member{Name: "করিম", HouseName: "উত্তর বাড়ি", Status: StatusActive}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Member{
		{Name: "", HouseName: "h", Status: StatusActive},
		{Name: "  ", HouseName: "h", Status: StatusActive},
		{Name: "a", HouseName: "", Status: StatusActive},
		{Name: "a", HouseName: "h", Status: MemberStatus("gone")},
	}
	for i, m := range bads {
		if err := m.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSubscriptionValidate(t *testing.T) {
	good := Subscription{MemberID: "m1", Amount: Money{100}, Month: Month{2026, time.January}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Subscription{MemberID: "", Amount: Money{100}, Month: Month{2026, time.January}}).Validate(); err == nil {
		t.Fatalf("expected error for empty member id")
	}
	if err := (Subscription{MemberID: "m1", Amount: Money{0}, Month: Month{2026, time.January}}).Validate(); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if err := (Subscription{MemberID: "m1", Amount: Money{100}}).Validate(); err == nil {
		t.Fatalf("expected error for zero month")
	}
}

func TestExpenseTotalDerivedFromItems(t *testing.T) {
	e := Expense{
		Description: "বাজার",
		Date:        date(2026, 1, 10),
		Items: []ExpenseItem{
			{Name: "চাল", Amount: Money{120}},
			{Name: "ডাল", Amount: Money{80}},
		},
	}
	if got := e.Total().Amount; got != 200 {
		t.Fatalf("total = %d, want 200", got)
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestExpenseValidateRejectsEmpty(t *testing.T) {
	bads := []Expense{
		{Description: "", Date: date(2026, 1, 1), Items: []ExpenseItem{{Name: "a", Amount: Money{1}}}},
		{Description: "d", Date: date(2026, 1, 1)},
		{Description: "d", Date: date(2026, 1, 1), Items: []ExpenseItem{{Name: " ", Amount: Money{1}}}},
		{Description: "d", Items: []ExpenseItem{{Name: "a", Amount: Money{1}}}},
		{Description: "d", Date: date(2026, 1, 1), Items: []ExpenseItem{{Name: "a", Amount: Money{0}}}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSubscriptionID(t *testing.T) {
	got := SubscriptionID("abc123", Month{2026, time.January})
	if got != "abc123_2026-01" {
		t.Fatalf("got %q", got)
	}
}

func TestReceiptNo(t *testing.T) {
	got := ReceiptNo("xyzw9abc", Month{2025, time.December})
	if got != "RCP-202512-9ABC" {
		t.Fatalf("got %q", got)
	}
	// Short ids use the whole id.
	if got := ReceiptNo("ab", Month{2026, time.January}); got != "RCP-202601-AB" {
		t.Fatalf("short id: got %q", got)
	}
}
