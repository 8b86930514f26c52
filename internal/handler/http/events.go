package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/auth"
	"github.com/Samamatip/dh-workflow/internal/pkg/jwt"
	"github.com/Samamatip/dh-workflow/internal/pkg/metrics"
	"github.com/Samamatip/dh-workflow/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

// EventHandler streams booking and shift request notifications over SSE
type EventHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	hub         *sse.Hub
	jwtService  jwt.Service
	authService auth.AuthService
}

func NewEventHandler(hub *sse.Hub, jwtService jwt.Service, authService auth.AuthService) EventHandler {
	return &eventHandlerImpl{
		hub:         hub,
		jwtService:  jwtService,
		authService: authService,
	}
}

// Stream handles GET /events?token=. Admins also receive role-wide events.
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	me, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		slog.Error("Stream user lookup error", "error", err, "user_id", userID)
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

	events, cleanup := h.hub.Subscribe(sse.UserTopic(userID), sse.RoleTopic(me.Role))
	defer cleanup()

	metrics.StreamOpened()
	defer metrics.StreamClosed()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":\"%s\"}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Stream encode error", "error", err, "event", event.Event)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
