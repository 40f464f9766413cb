package http

import (
	"encoding/json"
	"net/http"

	"tahbil/internal/core"
)

type trashView struct {
	Rows []trashRow
}

type trashRow struct {
	Record core.TrashRecord
	// Label summarizes the snapshot: the member name or expense
	// description, depending on the record type.
	Label  string
	Amount core.Money
}

func (s *Server) handleTrash(w http.ResponseWriter, r *http.Request) {
	records := s.cache.Trash()

	view := trashView{Rows: make([]trashRow, 0, len(records))}
	for _, rec := range records {
		view.Rows = append(view.Rows, trashRow{
			Record: rec,
			Label:  trashLabel(rec),
			Amount: trashAmount(rec),
		})
	}

	s.render(w, r, "trash.html", "ট্র্যাশ", "trash", view)
}

func trashLabel(rec core.TrashRecord) string {
	switch rec.Type {
	case core.TrashMember:
		var m core.Member
		if err := json.Unmarshal(rec.Data, &m); err == nil && m.Name != "" {
			return m.Name
		}
	case core.TrashExpense:
		var e core.Expense
		if err := json.Unmarshal(rec.Data, &e); err == nil && e.Description != "" {
			return e.Description
		}
	}
	return rec.OriginalID
}

func trashAmount(rec core.TrashRecord) core.Money {
	if rec.Type != core.TrashExpense {
		return core.Money{}
	}
	var e core.Expense
	if err := json.Unmarshal(rec.Data, &e); err != nil {
		return core.Money{}
	}
	return e.Total()
}
