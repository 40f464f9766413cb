package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"tahbil/internal/core"
	"tahbil/internal/store"
)

type expensesView struct {
	Expenses   []core.Expense
	Months     []core.Month
	Selected   string
	AllMonths  bool
	MonthTotal core.Money
	Error      string
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	s.renderExpenses(w, r, "")
}

func (s *Server) renderExpenses(w http.ResponseWriter, r *http.Request, formError string) {
	l := s.cache.Ledger()
	month, all := s.parseMonthFilter(r)

	view := expensesView{
		Months:    core.MonthsSince(s.startMonth, s.now()),
		Selected:  "all",
		AllMonths: all,
		Error:     formError,
	}
	if all {
		view.Expenses = l.SortedExpenses()
		view.MonthTotal = l.TotalExpenses()
	} else {
		view.Expenses = l.ExpensesIn(month)
		view.MonthTotal = l.MonthExpenses(month)
		view.Selected = month.String()
	}

	s.render(w, r, "expenses.html", "খরচের হিসাব", "expenses", view)
}

// parseExpenseForm reads the shared create/edit form. Items arrive as
// parallel item_name / item_amount fields; blank rows are skipped.
func (s *Server) parseExpenseForm(r *http.Request) (core.Expense, error) {
	e := core.Expense{
		Category:    sanitizeInput(r.Form.Get("category")),
		Description: sanitizeInput(r.Form.Get("description")),
	}

	date, err := s.parseDate(r.Form.Get("date"))
	if err != nil {
		return core.Expense{}, err
	}
	e.Date = date

	names := r.Form["item_name"]
	amounts := r.Form["item_amount"]
	for i := range names {
		name := sanitizeInput(names[i])
		if name == "" {
			continue
		}
		if i >= len(amounts) {
			break
		}
		amount, err := strconv.ParseInt(sanitizeInput(amounts[i]), 10, 64)
		if err != nil {
			return core.Expense{}, core.ErrInvalidAmount
		}
		e.Items = append(e.Items, core.ExpenseItem{Name: name, Amount: core.Money{Amount: amount}})
	}

	return e, e.Validate()
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderExpenses(w, r, "অনুরোধটি বোঝা যায়নি")
		return
	}

	expense, err := s.parseExpenseForm(r)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderExpenses(w, r, "খরচের তথ্য সঠিক নয়: বিবরণ ও অন্তত একটি খাত দিন")
		return
	}

	created, err := s.store.CreateExpense(r.Context(), expense)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense create failed", "error", err, "description", expense.Description)
		w.WriteHeader(http.StatusInternalServerError)
		s.renderExpenses(w, r, "খরচ সংরক্ষণ করা যায়নি")
		return
	}

	s.publishChange(string(store.CollectionExpenses), created.ID)
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

type expenseEditView struct {
	Expense core.Expense
	Error   string
}

func (s *Server) handleEditExpensePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	expense, err := s.store.GetExpense(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense lookup failed", "error", err, "id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "expense_edit.html", "খরচ সম্পাদনা", "expenses", expenseEditView{Expense: expense})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderExpenses(w, r, "অনুরোধটি বোঝা যায়নি")
		return
	}

	expense, err := s.parseExpenseForm(r)
	if err != nil {
		current, getErr := s.store.GetExpense(r.Context(), id)
		if getErr != nil {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "expense_edit.html", "খরচ সম্পাদনা", "expenses",
			expenseEditView{Expense: current, Error: "খরচের তথ্য সঠিক নয়"})
		return
	}
	expense.ID = id

	if err := s.store.UpdateExpense(r.Context(), expense); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Expense update failed", "error", err, "id", id)
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, r, "expense_edit.html", "খরচ সম্পাদনা", "expenses",
			expenseEditView{Expense: expense, Error: "খরচ হালনাগাদ করা যায়নি"})
		return
	}

	s.publishChange(string(store.CollectionExpenses), id)
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Expense delete failed", "error", err, "id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.publishChange(string(store.CollectionExpenses), id)
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}
