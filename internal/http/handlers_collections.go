package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"tahbil/internal/core"
	"tahbil/internal/store"
)

type collectionRow struct {
	Subscription core.Subscription
	MemberName   string
	HouseName    string
}

type collectionsView struct {
	Rows       []collectionRow
	Months     []core.Month
	Selected   string // month key or "all"
	MonthTotal core.Money
	AllMonths  bool
	Unpaid     []core.Member
	Members    []core.Member
	Error      string
}

func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	s.renderCollections(w, r, "")
}

func (s *Server) renderCollections(w http.ResponseWriter, r *http.Request, formError string) {
	l := s.cache.Ledger()
	month, all := s.parseMonthFilter(r)

	var subs []core.Subscription
	var total core.Money
	var unpaid []core.Member
	selected := "all"
	if all {
		subs = l.SortedSubscriptions()
		total = l.TotalCollections()
	} else {
		subs = l.SubscriptionsIn(month)
		total = l.MonthCollections(month)
		unpaid = l.Defaulters(month)
		selected = month.String()
	}

	view := collectionsView{
		Months:     core.MonthsSince(s.startMonth, s.now()),
		Selected:   selected,
		MonthTotal: total,
		AllMonths:  all,
		Unpaid:     unpaid,
		Members:    l.ActiveMembers(),
		Error:      formError,
	}
	for _, sub := range subs {
		row := collectionRow{Subscription: sub, MemberName: core.UnknownMemberLabel}
		if m, ok := l.MemberByID(sub.MemberID); ok {
			row.MemberName = m.Name
			row.HouseName = m.HouseName
		}
		view.Rows = append(view.Rows, row)
	}

	s.render(w, r, "collections.html", "চাঁদা আদায়", "collections", view)
}

func (s *Server) handleRecordCollection(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderCollections(w, r, "অনুরোধটি বোঝা যায়নি")
		return
	}

	memberID := sanitizeInput(r.Form.Get("member_id"))
	monthKey := sanitizeInput(r.Form.Get("month"))
	receivedBy := sanitizeInput(r.Form.Get("received_by"))

	amount, err := strconv.ParseInt(sanitizeInput(r.Form.Get("amount")), 10, 64)
	if err != nil || amount <= 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderCollections(w, r, "চাঁদার পরিমাণ সঠিক নয়")
		return
	}

	month, err := core.ParseMonth(monthKey)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderCollections(w, r, "মাস বাছাই করুন")
		return
	}
	if month.Before(s.startMonth) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderCollections(w, r, "তহবিল শুরুর আগের মাসে চাঁদা নেওয়া যায় না")
		return
	}

	date, err := s.parseDate(r.Form.Get("date"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderCollections(w, r, "তারিখ সঠিক নয়")
		return
	}

	sub := core.Subscription{
		MemberID:   memberID,
		Amount:     core.Money{Amount: amount},
		Month:      month,
		Date:       date,
		ReceivedBy: receivedBy,
	}

	saved, err := s.store.UpsertSubscription(r.Context(), sub)
	if err != nil {
		slog.ErrorContext(r.Context(), "Collection save failed", "error", err, "member_id", memberID, "month", monthKey)
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderCollections(w, r, "চাঁদা সংরক্ষণ করা যায়নি")
		return
	}

	s.publishChange(string(store.CollectionSubscriptions), saved.ID)
	http.Redirect(w, r, "/receipts/"+saved.ID, http.StatusSeeOther)
}

type receiptView struct {
	Subscription core.Subscription
	MemberName   string
	HouseName    string
	Quote        string
	FundName     string
	Address      string
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	l := s.cache.Ledger()

	var sub core.Subscription
	found := false
	for _, candidate := range l.Subscriptions {
		if candidate.ID == id {
			sub = candidate
			found = true
			break
		}
	}
	if !found {
		http.NotFound(w, r)
		return
	}

	view := receiptView{
		Subscription: sub,
		MemberName:   core.UnknownMemberLabel,
		Quote:        s.dailyQuote(r.Context()),
		FundName:     s.fundName,
		Address:      s.fundAddress,
	}
	if m, ok := l.MemberByID(sub.MemberID); ok {
		view.MemberName = m.Name
		view.HouseName = m.HouseName
	}
	s.render(w, r, "receipt.html", "চাঁদার রসিদ", "collections", view)
}

type defaultersView struct {
	Months   []core.Month
	Selected string
	Month    core.Month
	Unpaid   []core.Member
	Paid     int
	Active   int
}

func (s *Server) handleDefaulters(w http.ResponseWriter, r *http.Request) {
	l := s.cache.Ledger()
	month, all := s.parseMonthFilter(r)
	if all {
		month = core.ClampMonth(s.startMonth, s.now())
	}
	paid, active := l.PaidCounts(month)

	view := defaultersView{
		Months:   core.MonthsSince(s.startMonth, s.now()),
		Selected: month.String(),
		Month:    month,
		Unpaid:   l.Defaulters(month),
		Paid:     paid,
		Active:   active,
	}
	s.render(w, r, "defaulters.html", "বকেয়া তালিকা", "defaulters", view)
}
