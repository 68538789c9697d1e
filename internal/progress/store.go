package progress

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// DefaultWriteTimeout bounds each background save.
const DefaultWriteTimeout = 10 * time.Second

// Store loads and saves State through a Backend. Saves are
// fire-and-forget: they run in the background, are applied in the order
// they were issued, and failures are only logged.
type Store struct {
	backend Backend
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending []map[string]json.RawMessage
	running bool
	wg      sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and save failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithWriteTimeout overrides DefaultWriteTimeout.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// NewStore returns a Store persisting to b.
func NewStore(b Backend, opts ...Option) *Store {
	s := &Store{backend: b, logger: slog.Default(), timeout: DefaultWriteTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the full progress state. It never fails: backend errors and
// malformed fields are logged and replaced by defaults.
func (s *Store) Load(ctx context.Context) State {
	keys := make([]string, 0, 3)
	for _, k := range AllKeys() {
		keys = append(keys, string(k))
	}

	values, err := s.backend.Get(ctx, keys)
	if err != nil {
		s.logger.Error("load progress", "error", err)
		return State{}
	}

	st, bad := Decode(values)
	for _, k := range bad {
		s.logger.Warn("discarding malformed progress field", "key", k)
	}
	return st
}

// Save persists the named fields of st without blocking. Fields not named
// keep whatever value the backend already holds.
func (s *Store) Save(ctx context.Context, st State, keys ...Key) {
	if len(keys) == 0 {
		return
	}
	values, err := Encode(st, keys...)
	if err != nil {
		s.logger.Error("encode progress", "error", err)
		return
	}

	s.mu.Lock()
	s.pending = append(s.pending, values)
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	go s.drain(context.WithoutCancel(ctx))
}

func (s *Store) drain(ctx context.Context) {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}
		values := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		wctx, cancel := context.WithTimeout(ctx, s.timeout)
		if err := s.backend.Set(wctx, values); err != nil {
			s.logger.Error("save progress", "error", err, "keys", len(values))
		}
		cancel()
	}
}

// Wait blocks until every save issued so far has been attempted.
func (s *Store) Wait() {
	s.wg.Wait()
}
