package handlers

import (
	"log"
	"net/http"

	"checkin-backend/internal/events"
	"checkin-backend/internal/middleware"

	"github.com/gorilla/websocket"
)

type EventsHandler struct {
	Hub      *events.Hub
	upgrader websocket.Upgrader
}

func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are enforced by the CORS layer; kiosks connect from
			// file:// contexts with no Origin header.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades the connection and streams check-in events for the
// caller's organization until the client disconnects.
func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.OrgID(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Events] upgrade failed: %v", err)
		return
	}
	h.Hub.Serve(conn, orgID)
}
