package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tahbil/internal/bangla"
	"tahbil/internal/core"
)

// parseMonthFilter reads the ?month= query parameter. It returns the
// parsed month, or all=true for the "all" sentinel (and for an absent
// parameter). An unparsable value falls back to the clamped current
// month.
func (s *Server) parseMonthFilter(r *http.Request) (m core.Month, all bool) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" || v == "all" {
		return core.Month{}, true
	}
	m, err := core.ParseMonth(v)
	if err != nil {
		return core.ClampMonth(s.startMonth, s.now()), false
	}
	return m, false
}

// parseDate parses the YYYY-MM-DD value of a date input, defaulting to
// today when empty.
func (s *Server) parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return s.now(), nil
	}
	return time.Parse("2006-01-02", v)
}

// formatTaka renders a whole-taka amount with Bengali numerals.
func formatTaka(m core.Money) string {
	neg := m.Amount < 0
	amount := m.Amount
	if neg {
		amount = -amount
	}
	s := bangla.Number(amount) + " টাকা"
	if neg {
		return "-" + s
	}
	return s
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
