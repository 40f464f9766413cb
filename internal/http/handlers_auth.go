package http

import (
	"log/slog"
	"net/http"
	"time"
)

const sessionCookie = "tahbil_session"

// requireAuth redirects browser requests without a valid session to the
// login page.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if _, err := s.jwt.Validate(cookie.Value); err != nil {
			s.clearSession(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

type loginView struct {
	Error string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if _, err := s.jwt.Validate(cookie.Value); err == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	s.render(w, r, "login.html", "লগইন", "", loginView{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, "login.html", "লগইন", "", loginView{Error: "অনুরোধটি বোঝা যায়নি"})
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")

	user, err := s.auth.Authenticate(r.Context(), email, password)
	if err != nil {
		// Same message for every failure; the form never says whether
		// the account exists.
		slog.WarnContext(r.Context(), "Login failed", "email", email)
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, r, "login.html", "লগইন", "", loginView{Error: "ইমেইল বা পাসওয়ার্ড সঠিক নয়"})
		return
	}

	token, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token generation failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, r, "login.html", "লগইন", "", loginView{Error: "লগইন করা যায়নি, আবার চেষ্টা করুন"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.jwt.TokenDuration() / time.Second),
	})

	slog.InfoContext(r.Context(), "Login succeeded", "email", user.Email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
