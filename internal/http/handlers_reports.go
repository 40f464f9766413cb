package http

import (
	"log/slog"
	"net/http"

	"tahbil/internal/core"
)

type reportsView struct {
	Months   []core.Month
	Selected string
	Modes    []reportModeOption
}

type reportModeOption struct {
	Mode  core.ReportMode
	Label string
}

var reportModes = []reportModeOption{
	{core.ReportCollections, "মাসের চাঁদা আদায়"},
	{core.ReportExpenses, "মাসের খরচ"},
	{core.ReportMemberSummary, "সদস্যভিত্তিক মোট চাঁদা"},
	{core.ReportMemberList, "সদস্য তালিকা"},
	{core.ReportFullAudit, "পূর্ণাঙ্গ হিসাব"},
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	month, all := s.parseMonthFilter(r)
	if all {
		month = core.ClampMonth(s.startMonth, s.now())
	}

	view := reportsView{
		Months:   core.MonthsSince(s.startMonth, s.now()),
		Selected: month.String(),
		Modes:    reportModes,
	}
	s.render(w, r, "reports.html", "রিপোর্ট", "reports", view)
}

type printView struct {
	Report    core.Report
	ModeLabel string
	FundName  string
	Address   string
}

func (s *Server) handlePrintReport(w http.ResponseWriter, r *http.Request) {
	mode := core.ReportMode(r.URL.Query().Get("mode"))
	if !mode.Valid() {
		http.Error(w, "unknown report mode", http.StatusBadRequest)
		return
	}

	month, all := s.parseMonthFilter(r)
	if all {
		month = core.ClampMonth(s.startMonth, s.now())
	}

	report, err := core.BuildReport(s.cache.Ledger(), mode, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report build failed", "error", err, "mode", mode)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	label := string(mode)
	for _, opt := range reportModes {
		if opt.Mode == mode {
			label = opt.Label
			break
		}
	}

	s.render(w, r, "report_print.html", "রিপোর্ট প্রিন্ট", "reports", printView{
		Report:    report,
		ModeLabel: label,
		FundName:  s.fundName,
		Address:   s.fundAddress,
	})
}
