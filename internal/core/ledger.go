package core

import "sort"

// Ledger is a point-in-time view over the three live collections. It owns
// every derived number in the app; nothing here is ever persisted, totals
// are recomputed from the snapshot on each use.
type Ledger struct {
	Members       []Member
	Subscriptions []Subscription
	Expenses      []Expense
}

// TransactionKind tags a row in the merged recent-activity feed.
type TransactionKind string

const (
	TxCollection TransactionKind = "collection"
	TxExpense    TransactionKind = "expense"
)

// Transaction is one row of the merged dashboard activity feed.
type Transaction struct {
	Kind        TransactionKind
	Description string
	Date        string // ISO date, zero-padded so lexical order is date order
	Amount      Money
}

// MonthTotals carries one month's in/out pair for the dashboard chart.
type MonthTotals struct {
	Month Month
	In    Money
	Out   Money
}

func (l Ledger) TotalCollections() Money {
	var sum int64
	for _, s := range l.Subscriptions {
		sum += s.Amount.Amount
	}
	return Money{Amount: sum}
}

func (l Ledger) TotalExpenses() Money {
	var sum int64
	for _, e := range l.Expenses {
		sum += e.Total().Amount
	}
	return Money{Amount: sum}
}

// Balance is lifetime collections minus lifetime expenses. It may be
// negative.
func (l Ledger) Balance() Money {
	return Money{Amount: l.TotalCollections().Amount - l.TotalExpenses().Amount}
}

// MemberContribution is the member's lifetime total across all months.
func (l Ledger) MemberContribution(memberID string) Money {
	var sum int64
	for _, s := range l.Subscriptions {
		if s.MemberID == memberID {
			sum += s.Amount.Amount
		}
	}
	return Money{Amount: sum}
}

// Paid reports whether the member has any subscription for exactly the
// given month. Adjacent months never satisfy the predicate.
func (l Ledger) Paid(memberID string, m Month) bool {
	for _, s := range l.Subscriptions {
		if s.MemberID == memberID && s.Month == m {
			return true
		}
	}
	return false
}

// SubscriptionFor returns the member's subscription for the month, if any.
func (l Ledger) SubscriptionFor(memberID string, m Month) (Subscription, bool) {
	for _, s := range l.Subscriptions {
		if s.MemberID == memberID && s.Month == m {
			return s, true
		}
	}
	return Subscription{}, false
}

// SubscriptionsIn returns the month's subscriptions, date descending.
func (l Ledger) SubscriptionsIn(m Month) []Subscription {
	var out []Subscription
	for _, s := range l.Subscriptions {
		if s.Month == m {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// ExpensesIn returns the month's expenses, matched by bucketing each
// expense date into its calendar month, date descending.
func (l Ledger) ExpensesIn(m Month) []Expense {
	var out []Expense
	for _, e := range l.Expenses {
		if MonthOf(e.Date) == m {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (l Ledger) MonthCollections(m Month) Money {
	var sum int64
	for _, s := range l.SubscriptionsIn(m) {
		sum += s.Amount.Amount
	}
	return Money{Amount: sum}
}

func (l Ledger) MonthExpenses(m Month) Money {
	var sum int64
	for _, e := range l.ExpensesIn(m) {
		sum += e.Total().Amount
	}
	return Money{Amount: sum}
}

// ActiveMembers filters to status "active"; only these count toward
// paid/unpaid roll-ups and member-count denominators.
func (l Ledger) ActiveMembers() []Member {
	var out []Member
	for _, m := range l.Members {
		if m.Status == StatusActive {
			out = append(out, m)
		}
	}
	return out
}

// PaidCounts returns how many active members have paid for the month and
// the active-member denominator.
func (l Ledger) PaidCounts(m Month) (paid, active int) {
	members := l.ActiveMembers()
	for _, mem := range members {
		if l.Paid(mem.ID, m) {
			paid++
		}
	}
	return paid, len(members)
}

// Defaulters returns active members without a payment for the month.
func (l Ledger) Defaulters(m Month) []Member {
	var out []Member
	for _, mem := range l.ActiveMembers() {
		if !l.Paid(mem.ID, m) {
			out = append(out, mem)
		}
	}
	return out
}

func (l Ledger) MemberByID(id string) (Member, bool) {
	for _, m := range l.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// SortedSubscriptions returns all subscriptions, month descending (ties
// keep insertion order).
func (l Ledger) SortedSubscriptions() []Subscription {
	out := append([]Subscription(nil), l.Subscriptions...)
	sort.SliceStable(out, func(i, j int) bool { return out[j].Month.Before(out[i].Month) })
	return out
}

// SortedExpenses returns all expenses, date descending.
func (l Ledger) SortedExpenses() []Expense {
	out := append([]Expense(nil), l.Expenses...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// RecentTransactions merges subscriptions and expenses into one feed,
// newest first, capped at limit.
func (l Ledger) RecentTransactions(limit int) []Transaction {
	var txs []Transaction
	for _, s := range l.Subscriptions {
		txs = append(txs, Transaction{
			Kind:        TxCollection,
			Description: s.ReceiptNo,
			Date:        s.Date.Format("2006-01-02"),
			Amount:      s.Amount,
		})
	}
	for _, e := range l.Expenses {
		txs = append(txs, Transaction{
			Kind:        TxExpense,
			Description: e.Description,
			Date:        e.Date.Format("2006-01-02"),
			Amount:      e.Total(),
		})
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date > txs[j].Date })
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs
}

// MonthlySeries computes the chart series for the given months, preserving
// their order.
func (l Ledger) MonthlySeries(months []Month) []MonthTotals {
	out := make([]MonthTotals, 0, len(months))
	for _, m := range months {
		out = append(out, MonthTotals{
			Month: m,
			In:    l.MonthCollections(m),
			Out:   l.MonthExpenses(m),
		})
	}
	return out
}
