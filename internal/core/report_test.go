package core

import (
	"testing"
	"time"
)

func TestBuildReportRejectsUnknownMode(t *testing.T) {
	if _, err := BuildReport(Ledger{}, ReportMode("bogus"), Month{2026, time.January}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestReportCollections(t *testing.T) {
	l := testLedger()
	r, err := BuildReport(l, ReportCollections, Month{2026, time.January})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(r.Rows) != 2 {
		t.Fatalf("got %d rows", len(r.Rows))
	}
	if r.GrandTotal.Amount != 600 {
		t.Fatalf("grand total = %d, want 600", r.GrandTotal.Amount)
	}
	// Rows are date descending: m3 paid on the 9th, m1 on the 5th.
	if r.Rows[0].Name != "সালাম" || r.Rows[1].Name != "করিম" {
		t.Fatalf("row order: %q, %q", r.Rows[0].Name, r.Rows[1].Name)
	}
}

func TestReportCollectionsUnknownMemberPlaceholder(t *testing.T) {
	l := Ledger{
		Subscriptions: []Subscription{
			{ID: "gone_2026-01", MemberID: "gone", Amount: Money{50},
				Month: Month{2026, time.January}, Date: date(2026, 1, 2)},
		},
	}
	r, err := BuildReport(l, ReportCollections, Month{2026, time.January})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(r.Rows) != 1 || r.Rows[0].Name != UnknownMemberLabel {
		t.Fatalf("missing member should get placeholder, got %+v", r.Rows)
	}
}

func TestReportMemberSummaryOrdering(t *testing.T) {
	jan := Month{2026, time.January}
	l := Ledger{
		Members: []Member{
			{ID: "a", Name: "A", HouseName: "h", Status: StatusActive},
			{ID: "b", Name: "B", HouseName: "h", Status: StatusActive},
			{ID: "c", Name: "C", HouseName: "h", Status: StatusActive},
			{ID: "d", Name: "D", HouseName: "h", Status: StatusActive},
		},
		Subscriptions: []Subscription{
			{MemberID: "a", Amount: Money{100}, Month: jan},
			{MemberID: "b", Amount: Money{300}, Month: jan},
			{MemberID: "c", Amount: Money{100}, Month: jan},
		},
	}
	r, err := BuildReport(l, ReportMemberSummary, jan)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	got := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		got[i] = row.Name
	}
	// B leads; A and C are tied at 100 and keep their relative order; D
	// trails with zero.
	want := []string{"B", "A", "C", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if r.GrandTotal.Amount != 500 {
		t.Fatalf("grand total = %d", r.GrandTotal.Amount)
	}
}

func TestReportFullAuditBundlesBothTables(t *testing.T) {
	l := testLedger()
	r, err := BuildReport(l, ReportFullAudit, Month{2026, time.January})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(r.Rows) != 2 || len(r.ExpenseRows) != 1 {
		t.Fatalf("rows=%d expenseRows=%d", len(r.Rows), len(r.ExpenseRows))
	}
	if r.TotalIn.Amount != 600 || r.TotalOut.Amount != 80 || r.Balance.Amount != 520 {
		t.Fatalf("headline totals: in=%d out=%d bal=%d", r.TotalIn.Amount, r.TotalOut.Amount, r.Balance.Amount)
	}
	if r.ExpenseRows[0].Detail != "টর্চ" {
		t.Fatalf("expense detail = %q", r.ExpenseRows[0].Detail)
	}
}

func TestReportMemberListOnlyActive(t *testing.T) {
	l := testLedger()
	r, err := BuildReport(l, ReportMemberList, Month{2026, time.January})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(r.Rows) != 2 {
		t.Fatalf("inactive member leaked into roster: %d rows", len(r.Rows))
	}
}
