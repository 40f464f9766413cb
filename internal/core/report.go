package core

import (
	"fmt"
	"sort"
)

// ReportMode selects which printable row-set to assemble. Any mode may be
// entered from any other; there is no report state beyond the selection.
type ReportMode string

const (
	ReportCollections   ReportMode = "collections"
	ReportExpenses      ReportMode = "expenses"
	ReportMemberSummary ReportMode = "member-summary"
	ReportMemberList    ReportMode = "member-list"
	ReportFullAudit     ReportMode = "full"
)

// UnknownMemberLabel is the placeholder used when a subscription row's
// member id no longer resolves.
const UnknownMemberLabel = "অজানা সদস্য"

// ReportRow is one printable line. Which fields are populated depends on
// the mode.
type ReportRow struct {
	Name     string
	House    string
	Country  string
	PhotoURL string
	Detail   string // expense item names or receipt number
	Date     string // ISO date for expense rows
	Amount   Money
}

// Report is the fully assembled packet handed to the print view.
type Report struct {
	Mode  ReportMode
	Month Month

	Rows []ReportRow
	// ExpenseRows is populated only in full-audit mode, which bundles both
	// tables in one packet.
	ExpenseRows []ReportRow

	GrandTotal Money
	TotalIn    Money
	TotalOut   Money
	Balance    Money

	PaidCount   int
	ActiveCount int
}

func (m ReportMode) Valid() bool {
	switch m {
	case ReportCollections, ReportExpenses, ReportMemberSummary, ReportMemberList, ReportFullAudit:
		return true
	}
	return false
}

// BuildReport assembles the row-set and totals for the requested mode and
// month. Member lookups that miss degrade to a placeholder label instead
// of failing.
func BuildReport(l Ledger, mode ReportMode, month Month) (Report, error) {
	if !mode.Valid() {
		return Report{}, fmt.Errorf("unknown report mode %q", mode)
	}

	r := Report{Mode: mode, Month: month}
	r.TotalIn = l.MonthCollections(month)
	r.TotalOut = l.MonthExpenses(month)
	r.Balance = Money{Amount: r.TotalIn.Amount - r.TotalOut.Amount}
	r.PaidCount, r.ActiveCount = l.PaidCounts(month)

	switch mode {
	case ReportCollections:
		r.Rows = collectionRows(l, month)
		r.GrandTotal = r.TotalIn
	case ReportExpenses:
		r.Rows = expenseRows(l, month)
		r.GrandTotal = r.TotalOut
	case ReportMemberSummary:
		r.Rows, r.GrandTotal = memberSummaryRows(l)
	case ReportMemberList:
		for _, m := range l.ActiveMembers() {
			r.Rows = append(r.Rows, ReportRow{
				Name:     m.Name,
				House:    m.HouseName,
				Country:  m.Country,
				PhotoURL: m.PhotoURL,
				Amount:   l.MemberContribution(m.ID),
			})
		}
		r.GrandTotal = sumRows(r.Rows)
	case ReportFullAudit:
		r.Rows = collectionRows(l, month)
		r.ExpenseRows = expenseRows(l, month)
		r.GrandTotal = r.Balance
	}
	return r, nil
}

func collectionRows(l Ledger, month Month) []ReportRow {
	var rows []ReportRow
	for _, s := range l.SubscriptionsIn(month) {
		name, house := UnknownMemberLabel, ""
		if m, ok := l.MemberByID(s.MemberID); ok {
			name, house = m.Name, m.HouseName
		}
		rows = append(rows, ReportRow{
			Name:   name,
			House:  house,
			Detail: s.ReceiptNo,
			Date:   s.Date.Format("2006-01-02"),
			Amount: s.Amount,
		})
	}
	return rows
}

func expenseRows(l Ledger, month Month) []ReportRow {
	var rows []ReportRow
	for _, e := range l.ExpensesIn(month) {
		detail := ""
		for i, it := range e.Items {
			if i > 0 {
				detail += ", "
			}
			detail += it.Name
		}
		rows = append(rows, ReportRow{
			Name:   e.Description,
			Detail: detail,
			Date:   e.Date.Format("2006-01-02"),
			Amount: e.Total(),
		})
	}
	return rows
}

// memberSummaryRows lists active members by descending lifetime
// contribution; ties keep their original relative order.
func memberSummaryRows(l Ledger) ([]ReportRow, Money) {
	members := l.ActiveMembers()
	totals := make(map[string]int64, len(members))
	for _, m := range members {
		totals[m.ID] = l.MemberContribution(m.ID).Amount
	}
	sort.SliceStable(members, func(i, j int) bool {
		return totals[members[i].ID] > totals[members[j].ID]
	})

	var rows []ReportRow
	for _, m := range members {
		rows = append(rows, ReportRow{
			Name:     m.Name,
			House:    m.HouseName,
			Country:  m.Country,
			PhotoURL: m.PhotoURL,
			Amount:   Money{Amount: totals[m.ID]},
		})
	}
	return rows, sumRows(rows)
}

func sumRows(rows []ReportRow) Money {
	var sum int64
	for _, r := range rows {
		sum += r.Amount.Amount
	}
	return Money{Amount: sum}
}
