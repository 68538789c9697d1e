// Package host is the game's view of the platform it runs on: the
// player's locale plus lifecycle signals the platform may act on (for
// example pausing ads while a question is on screen).
package host

import (
	"context"
	"log/slog"
	"time"
)

// Signal is a lifecycle notification sent to the host platform.
type Signal string

const (
	SignalReady         Signal = "ready"
	SignalGameplayStart Signal = "gameplay_start"
	SignalGameplayStop  Signal = "gameplay_stop"
)

// Valid reports whether s is a known signal.
func (s Signal) Valid() bool {
	switch s {
	case SignalReady, SignalGameplayStart, SignalGameplayStop:
		return true
	}
	return false
}

// Message is the wire form of a signal.
type Message struct {
	Player string    `json:"player,omitempty"`
	Type   Signal    `json:"type"`
	At     time.Time `json:"at"`
}

// Host receives lifecycle signals. Implementations must not block the
// caller for long and never report errors; delivery is best effort.
type Host interface {
	Locale() string
	Ready(ctx context.Context)
	GameplayStart(ctx context.Context)
	GameplayStop(ctx context.Context)
}

// DefaultLocale is used when the platform does not report one.
const DefaultLocale = "en"

// Nop is a Host that ignores every signal. It is used when no platform
// integration is configured.
type Nop struct {
	// Lang overrides DefaultLocale.
	Lang string
}

func (n Nop) Locale() string {
	if n.Lang == "" {
		return DefaultLocale
	}
	return n.Lang
}

func (Nop) Ready(context.Context)         {}
func (Nop) GameplayStart(context.Context) {}
func (Nop) GameplayStop(context.Context)  {}

// Logged wraps a Host and logs every signal at debug level.
type Logged struct {
	Host
	Logger *slog.Logger
}

func (l Logged) Ready(ctx context.Context) {
	l.log(ctx, SignalReady)
	l.Host.Ready(ctx)
}

func (l Logged) GameplayStart(ctx context.Context) {
	l.log(ctx, SignalGameplayStart)
	l.Host.GameplayStart(ctx)
}

func (l Logged) GameplayStop(ctx context.Context) {
	l.log(ctx, SignalGameplayStop)
	l.Host.GameplayStop(ctx)
}

func (l Logged) log(ctx context.Context, s Signal) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, "host signal", "signal", s)
}
