package http

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"tahbil/internal/bangla"
	appweb "tahbil/web"
)

// Pages rendered inside the site chrome; everything else under
// templates/ is parsed standalone (login, print views, partials).
var chromePages = map[string]bool{
	"dashboard.html":     true,
	"members.html":       true,
	"member_detail.html": true,
	"collections.html":   true,
	"defaulters.html":    true,
	"expenses.html":      true,
	"expense_edit.html":  true,
	"trash.html":         true,
	"reports.html":       true,
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"bn": bangla.Digits,
		// template integer fields arrive as both int and int64
		"bnNum": func(n any) string {
			switch v := n.(type) {
			case int:
				return bangla.Number(int64(v))
			case int64:
				return bangla.Number(v)
			default:
				return fmt.Sprint(n)
			}
		},
		"taka":       formatTaka,
		"bnMonth":    bangla.Month,
		"monthLabel": bangla.MonthLabel,
		"bnDate":     bangla.Date,
	}
}

// parseTemplates builds one template set per page so every page can
// define its own "content" block over the shared base layout.
func parseTemplates() (map[string]*template.Template, error) {
	names, err := fs.Glob(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	templates := make(map[string]*template.Template, len(names))
	for _, path := range names {
		name := path[len("templates/"):]
		if name == "base.html" {
			continue
		}

		var t *template.Template
		if chromePages[name] {
			t, err = template.New(name).Funcs(templateFuncs()).
				ParseFS(appweb.TemplatesFS, "templates/base.html", path)
		} else {
			t, err = template.New(name).Funcs(templateFuncs()).
				ParseFS(appweb.TemplatesFS, path)
		}
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = t
	}

	return templates, nil
}

// viewData is the payload every template receives.
type viewData struct {
	Title       string
	Active      string
	FundName    string
	FundAddress string
	Data        any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title, active string, data any) {
	t, ok := s.templates[name]
	if !ok {
		slog.ErrorContext(r.Context(), "Template not loaded", "template", name)
		http.Error(w, "template not loaded", http.StatusInternalServerError)
		return
	}

	vd := viewData{
		Title:       title,
		Active:      active,
		FundName:    s.fundName,
		FundAddress: s.fundAddress,
		Data:        data,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	entry := name
	if chromePages[name] {
		entry = "base.html"
	}
	if err := t.ExecuteTemplate(w, entry, vd); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
	}
}
