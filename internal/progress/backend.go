package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
)

// Backend is a key/value persistence target. Set merges: keys absent
// from values are left untouched.
type Backend interface {
	Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, values map[string]json.RawMessage) error
}

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]json.RawMessage)}
}

func (m *MemoryBackend) Get(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out, nil
}

func (m *MemoryBackend) Set(_ context.Context, values map[string]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

// Layered combines a local backend with an optional remote one. Reads
// prefer remote values key by key and fall back to local; writes go to
// both.
type Layered struct {
	Local  Backend
	Remote Backend
	Logger *slog.Logger
}

func (l *Layered) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func (l *Layered) Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	local, lerr := l.Local.Get(ctx, keys)
	if l.Remote == nil {
		return local, lerr
	}

	remote, rerr := l.Remote.Get(ctx, keys)
	switch {
	case rerr != nil && lerr != nil:
		return nil, errors.Join(lerr, rerr)
	case rerr != nil:
		l.logger().Warn("remote progress unavailable, using local copy", "error", rerr)
		return local, nil
	case lerr != nil:
		l.logger().Warn("local progress unavailable", "error", lerr)
		local = nil
	}

	out := make(map[string]json.RawMessage, len(keys))
	maps.Copy(out, local)
	for k, v := range remote {
		if len(v) == 0 || string(v) == "null" {
			continue
		}
		out[k] = v
	}
	return out, nil
}

func (l *Layered) Set(ctx context.Context, values map[string]json.RawMessage) error {
	var errs []error
	if err := l.Local.Set(ctx, values); err != nil {
		errs = append(errs, fmt.Errorf("local: %w", err))
	}
	if l.Remote != nil {
		if err := l.Remote.Set(ctx, values); err != nil {
			errs = append(errs, fmt.Errorf("remote: %w", err))
		}
	}
	return errors.Join(errs...)
}
