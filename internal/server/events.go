package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/bistboard/bistboard/internal/portfolio"
)

// refreshEvent is pushed to every subscriber when the dashboard rebuilds.
type refreshEvent struct {
	Event       string  `json:"event"`
	Holdings    int     `json:"holdings"`
	TotalValue  float64 `json:"total_value"`
	RefreshedAt string  `json:"refreshed_at"`
}

// eventHub tracks websocket subscribers and fans out refresh events.
type eventHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	log   zerolog.Logger
}

func newEventHub(log zerolog.Logger) *eventHub {
	return &eventHub{
		conns: make(map[*websocket.Conn]struct{}),
		log:   log.With().Str("component", "events").Logger(),
	}
}

// NotifyRefreshed broadcasts a refresh event. Writes are best-effort;
// failed connections are dropped.
func (h *eventHub) NotifyRefreshed(d *portfolio.Dashboard) {
	event := refreshEvent{
		Event:       "refreshed",
		Holdings:    len(d.Holdings),
		TotalValue:  d.Totals.TotalCurrentValue,
		RefreshedAt: time.Now().UTC().Format(time.RFC3339),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := wsjson.Write(ctx, conn, event)
		cancel()
		if err != nil {
			h.log.Debug().Err(err).Msg("Dropping slow websocket subscriber")
			conn.Close(websocket.StatusPolicyViolation, "write timeout")
			delete(h.conns, conn)
		}
	}
}

// CloseAll disconnects every subscriber, used during shutdown.
func (h *eventHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(h.conns, conn)
	}
}

func (h *eventHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *eventHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

// handleEvents upgrades the connection and holds it open, pushing refresh
// events until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("Websocket accept failed")
		return
	}

	s.events.add(conn)
	defer s.events.remove(conn)

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("Websocket subscriber connected")

	// Drain incoming frames so pings are answered; the first read error
	// means the client went away.
	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	conn.Close(websocket.StatusNormalClosure, "")
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("Websocket subscriber disconnected")
}
