package cloud

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/abhisek/litguess/internal/host"
	"github.com/coder/websocket"
)

const observerWriteTimeout = 5 * time.Second

// Hub relays host lifecycle signals. Players push signals; observers (an
// ad overlay, a dashboard) receive every signal from every player.
type Hub struct {
	logger *slog.Logger

	mu        sync.Mutex
	observers map[*websocket.Conn]struct{}
	counts    map[host.Signal]int
}

// NewHub returns an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:    logger,
		observers: make(map[*websocket.Conn]struct{}),
		counts:    make(map[host.Signal]int),
	}
}

// Counts returns how many signals of each type have been relayed.
func (h *Hub) Counts() map[host.Signal]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[host.Signal]int, len(h.counts))
	for k, v := range h.counts {
		out[k] = v
	}
	return out
}

// Observers returns the number of connected observers.
func (h *Hub) Observers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

// ServeHTTP upgrades the request to a websocket. The role query
// parameter selects "player" (default) or "observer".
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	role := r.URL.Query().Get("role")
	if role == "" {
		role = "player"
	}
	if role != "player" && role != "observer" {
		Error(w, http.StatusBadRequest, "role must be player or observer")
		return
	}
	if role == "player" && !playerIDPattern.MatchString(player) {
		Error(w, http.StatusBadRequest, "invalid player id")
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("accept websocket", "error", err, "role", role)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "bye"); closeErr != nil {
			h.logger.Debug("close websocket", "error", closeErr)
		}
	}()

	if role == "observer" {
		h.observe(r.Context(), ws)
		return
	}
	h.readSignals(r.Context(), ws, player)
}

func (h *Hub) observe(ctx context.Context, ws *websocket.Conn) {
	h.mu.Lock()
	h.observers[ws] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("host observer connected")

	defer func() {
		h.mu.Lock()
		delete(h.observers, ws)
		h.mu.Unlock()
	}()

	// Observers only listen; returns when the peer goes away.
	<-ws.CloseRead(ctx).Done()
}

func (h *Hub) readSignals(ctx context.Context, ws *websocket.Conn, player string) {
	h.logger.Info("host player connected", "player", player)
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				h.logger.Debug("host player disconnected", "player", player)
			} else {
				h.logger.Warn("host socket read error", "player", player, "error", err)
			}
			return
		}

		var msg host.Message
		if err := json.Unmarshal(data, &msg); err != nil || !msg.Type.Valid() {
			h.logger.Warn("ignoring malformed host signal", "player", player)
			continue
		}
		// Identity comes from the connection, not the payload.
		msg.Player = player
		if msg.At.IsZero() {
			msg.At = time.Now().UTC()
		}
		h.Publish(msg)
	}
}

// Publish relays msg to every observer.
func (h *Hub) Publish(msg host.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.counts[msg.Type]++
	observers := make([]*websocket.Conn, 0, len(h.observers))
	for c := range h.observers {
		observers = append(observers, c)
	}
	h.mu.Unlock()

	h.logger.Info("host signal", "player", msg.Player, "signal", msg.Type)
	for _, c := range observers {
		ctx, cancel := context.WithTimeout(context.Background(), observerWriteTimeout)
		if err := c.Write(ctx, websocket.MessageText, data); err != nil {
			h.logger.Debug("drop observer", "error", err)
			h.mu.Lock()
			delete(h.observers, c)
			h.mu.Unlock()
		}
		cancel()
	}
}
