package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const socketWriteTimeout = 5 * time.Second

// Socket forwards signals to a cloud server over a websocket. Sends are
// queued and written by a background goroutine; when the queue is full
// the signal is dropped.
type Socket struct {
	conn   *websocket.Conn
	player string
	locale string
	logger *slog.Logger

	mu       sync.Mutex
	closed   bool
	queue    chan Message
	finished chan struct{}
}

// SocketURL builds the websocket URL of the host signal endpoint for a
// server at baseURL (http or https).
func SocketURL(baseURL, player, role string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse server URL: %w", err)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u = u.JoinPath("v1", "host", "ws")
	u.RawQuery = url.Values{"player": {player}, "role": {role}}.Encode()
	return u.String(), nil
}

// DialSocket connects to the host signal endpoint of the server at
// baseURL.
func DialSocket(ctx context.Context, baseURL, player, locale string, logger *slog.Logger) (*Socket, error) {
	target, err := SocketURL(baseURL, player, "player")
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.Dial(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("dial host socket: %w", err)
	}
	// Players never receive data; this keeps control frames flowing.
	conn.CloseRead(context.Background())

	if logger == nil {
		logger = slog.Default()
	}
	s := &Socket{
		conn:     conn,
		player:   player,
		locale:   locale,
		logger:   logger,
		queue:    make(chan Message, 16),
		finished: make(chan struct{}),
	}
	go s.writeLoop()
	return s, nil
}

func (s *Socket) Locale() string {
	if s.locale == "" {
		return DefaultLocale
	}
	return s.locale
}

func (s *Socket) Ready(context.Context)         { s.send(SignalReady) }
func (s *Socket) GameplayStart(context.Context) { s.send(SignalGameplayStart) }
func (s *Socket) GameplayStop(context.Context)  { s.send(SignalGameplayStop) }

func (s *Socket) send(sig Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- Message{Player: s.player, Type: sig, At: time.Now().UTC()}:
	default:
		s.logger.Warn("host signal dropped", "signal", sig)
	}
}

func (s *Socket) writeLoop() {
	defer close(s.finished)
	for msg := range s.queue {
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), socketWriteTimeout)
		err = s.conn.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			s.logger.Warn("host signal write failed", "signal", msg.Type, "error", err)
		}
	}
}

// Close flushes queued signals and closes the connection.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.finished
	return s.conn.Close(websocket.StatusNormalClosure, "game closed")
}
