package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tempohq/attendance-backend-go/internal/pkg/jwt"
	"github.com/tempohq/attendance-backend-go/internal/pkg/realtime"
)

type EventsHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	jwtService jwt.Service
	hub        *realtime.Hub
}

func NewEventsHandler(jwtService jwt.Service, hub *realtime.Hub) EventsHandler {
	return &eventsHandlerImpl{
		jwtService: jwtService,
		hub:        hub,
	}
}

// Stream implements EventsHandler. The EventSource API cannot set headers, so
// the short-lived token rides the query string. Managers and admins subscribe
// as team watchers and receive every broadcast; employees receive only their
// own events. Heartbeat frames originate in the hub, which also evicts
// sessions that stop draining them.
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	employeeID, role, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(employeeID, role.CanManage())
	defer cleanup()

	fmt.Fprintf(w, "event: %s\ndata: {\"status\":\"connected\",\"employee_id\":%q}\n\n",
		realtime.EventConnected, employeeID)
	flusher.Flush()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
