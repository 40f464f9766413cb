package http

import (
	"net/http"

	"tahbil/internal/notify"
)

type notificationsView struct {
	Notifications []notify.Notification
}

// handleNotifications feeds the polled header partial.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "notifications.html", "", "",
		notificationsView{Notifications: s.notify.Visible()})
}
