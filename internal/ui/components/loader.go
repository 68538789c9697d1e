package components

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/litguess/internal/ui/theme"
)

const loaderInterval = 150 * time.Millisecond

var loaderFrames = []string{"❧    ", " ❧   ", "  ❧  ", "   ❧ ", "    ❧", "   ❧ ", "  ❧  ", " ❧   "}

var loaderIDs atomic.Int64

// LoaderTickMsg advances the Loader with the matching id.
type LoaderTickMsg struct {
	id int64
}

// Loader is a small animated "working" indicator driven by tea.Tick.
// Each Loader ignores ticks meant for other loaders, so a stale tick
// chain dies out once its loader is replaced.
type Loader struct {
	Label string
	id    int64
	frame int
}

// NewLoader returns a Loader; start it with Tick.
func NewLoader(label string) Loader {
	return Loader{Label: label, id: loaderIDs.Add(1)}
}

// Tick schedules the next frame.
func (l Loader) Tick() tea.Cmd {
	id := l.id
	return tea.Tick(loaderInterval, func(time.Time) tea.Msg {
		return LoaderTickMsg{id: id}
	})
}

// Update advances one frame on a matching tick and schedules the next.
func (l Loader) Update(msg tea.Msg) (Loader, tea.Cmd) {
	tick, ok := msg.(LoaderTickMsg)
	if !ok || tick.id != l.id {
		return l, nil
	}
	l.frame = (l.frame + 1) % len(loaderFrames)
	return l, l.Tick()
}

func (l Loader) View() string {
	return theme.Selected.Render(loaderFrames[l.frame]) + "  " + theme.Hint.Render(l.Label)
}
