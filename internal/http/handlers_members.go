package http

import (
	"errors"
	"log/slog"
	"net/http"

	"tahbil/internal/core"
	"tahbil/internal/store"
)

type memberRow struct {
	Member       core.Member
	Paid         bool
	Contribution core.Money
}

type membersView struct {
	Rows        []memberRow
	Month       core.Month
	PaidCount   int
	ActiveCount int
	Error       string
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	s.renderMembers(w, r, "")
}

func (s *Server) renderMembers(w http.ResponseWriter, r *http.Request, formError string) {
	l := s.cache.Ledger()
	current := core.ClampMonth(s.startMonth, s.now())
	paid, active := l.PaidCounts(current)

	view := membersView{
		Month:       current,
		PaidCount:   paid,
		ActiveCount: active,
		Error:       formError,
	}
	for _, m := range l.Members {
		view.Rows = append(view.Rows, memberRow{
			Member:       m,
			Paid:         l.Paid(m.ID, current),
			Contribution: l.MemberContribution(m.ID),
		})
	}

	s.render(w, r, "members.html", "সদস্য তালিকা", "members", view)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderMembers(w, r, "অনুরোধটি বোঝা যায়নি")
		return
	}

	status := core.MemberStatus(sanitizeInput(r.Form.Get("status")))
	if status == "" {
		status = core.StatusActive
	}

	member := core.Member{
		Name:      sanitizeInput(r.Form.Get("name")),
		HouseName: sanitizeInput(r.Form.Get("house_name")),
		Mobile:    sanitizeInput(r.Form.Get("mobile")),
		Country:   sanitizeInput(r.Form.Get("country")),
		Status:    status,
	}

	created, err := s.store.CreateMember(r.Context(), member)
	if err != nil {
		slog.ErrorContext(r.Context(), "Member create failed", "error", err, "name", member.Name)
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderMembers(w, r, "সদস্য যোগ করা যায়নি: নাম ও বাড়ির নাম আবশ্যক")
		return
	}

	s.publishChange(string(store.CollectionMembers), created.ID)
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

type memberDetailView struct {
	Member       core.Member
	Contribution core.Money
	History      []core.Subscription
	Error        string
}

func (s *Server) handleMemberDetail(w http.ResponseWriter, r *http.Request) {
	s.renderMemberDetail(w, r, r.PathValue("id"), "")
}

func (s *Server) renderMemberDetail(w http.ResponseWriter, r *http.Request, id, formError string) {
	l := s.cache.Ledger()
	member, ok := l.MemberByID(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var history []core.Subscription
	for _, sub := range l.SortedSubscriptions() {
		if sub.MemberID == id {
			history = append(history, sub)
		}
	}

	view := memberDetailView{
		Member:       member,
		Contribution: l.MemberContribution(id),
		History:      history,
		Error:        formError,
	}
	s.render(w, r, "member_detail.html", member.Name, "members", view)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderMemberDetail(w, r, id, "অনুরোধটি বোঝা যায়নি")
		return
	}

	current, err := s.store.GetMember(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Member lookup failed", "error", err, "id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	current.Name = sanitizeInput(r.Form.Get("name"))
	current.HouseName = sanitizeInput(r.Form.Get("house_name"))
	current.Mobile = sanitizeInput(r.Form.Get("mobile"))
	current.Country = sanitizeInput(r.Form.Get("country"))
	if status := core.MemberStatus(sanitizeInput(r.Form.Get("status"))); status != "" {
		current.Status = status
	}

	if err := s.store.UpdateMember(r.Context(), current); err != nil {
		slog.ErrorContext(r.Context(), "Member update failed", "error", err, "id", id)
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.renderMemberDetail(w, r, id, "সদস্য হালনাগাদ করা যায়নি")
		return
	}

	s.publishChange(string(store.CollectionMembers), id)
	http.Redirect(w, r, "/members/"+id, http.StatusSeeOther)
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteMember(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Member delete failed", "error", err, "id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.publishChange(string(store.CollectionMembers), id)
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

func (s *Server) handleMemberPhoto(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if s.photos == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		s.renderMemberDetail(w, r, id, "ছবি আপলোড এখন বন্ধ আছে")
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderMemberDetail(w, r, id, "ছবির ফাইল পড়া যায়নি")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.renderMemberDetail(w, r, id, "কোনো ছবি বাছাই করা হয়নি")
		return
	}
	defer file.Close()

	url, err := s.photos.Upload(r.Context(), header.Filename, file)
	if err != nil {
		slog.ErrorContext(r.Context(), "Photo upload failed", "error", err, "member_id", id)
		w.WriteHeader(http.StatusBadGateway)
		s.renderMemberDetail(w, r, id, "ছবি আপলোড করা যায়নি")
		return
	}

	member, err := s.store.GetMember(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	member.PhotoURL = url
	if err := s.store.UpdateMember(r.Context(), member); err != nil {
		slog.ErrorContext(r.Context(), "Photo URL save failed", "error", err, "member_id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.publishChange(string(store.CollectionMembers), id)
	http.Redirect(w, r, "/members/"+id, http.StatusSeeOther)
}
