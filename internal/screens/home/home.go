package home

import (
	"context"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/router"
	"github.com/abhisek/litguess/internal/screen"
	"github.com/abhisek/litguess/internal/screens/game"
	"github.com/abhisek/litguess/internal/screens/stats"
	"github.com/abhisek/litguess/internal/session"
	"github.com/abhisek/litguess/internal/store"
	"github.com/abhisek/litguess/internal/ui/components"
	"github.com/abhisek/litguess/internal/ui/layout"
)

const (
	itemPlay = iota
	itemStats
	itemReset
	itemQuit
)

// HomeScreen is the main menu.
type HomeScreen struct {
	ctx    context.Context
	game   *session.Game
	corpus *corpus.Corpus
	events store.EventRepo
	logger *slog.Logger

	menu         components.Menu
	labels       []string
	snap         session.Snapshot
	confirmReset bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.BackHandler = (*HomeScreen)(nil)

// New creates the home screen. events may be nil, which disables the
// statistics page.
func New(ctx context.Context, g *session.Game, c *corpus.Corpus, events store.EventRepo, logger *slog.Logger) *HomeScreen {
	h := &HomeScreen{ctx: ctx, game: g, corpus: c, events: events, logger: logger}
	h.labels = []string{"OPEN THE ARCHIVE", "STATISTICS", "RESET PROGRESS", "CLOSE THE BOOK"}

	items := []components.MenuItem{
		{Label: h.labels[itemPlay], Action: func() tea.Cmd {
			return router.Push(game.New(h.ctx, h.game, h.corpus, h.logger))
		}},
		{Label: h.labels[itemStats], Disabled: events == nil, Action: func() tea.Cmd {
			return router.Push(stats.New(h.events, h.game, h.corpus))
		}},
		{Label: h.labels[itemReset], Action: func() tea.Cmd {
			h.confirmReset = true
			return nil
		}},
		{Label: h.labels[itemQuit], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	h.snap = g.Snapshot()
	return h
}

// Init refreshes the progress shown on the menu, which changes while
// other screens are on top.
func (h *HomeScreen) Init() tea.Cmd {
	h.snap = h.game.Snapshot()
	return nil
}

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.confirmReset {
		return []layout.KeyHint{
			{Key: "Y", Description: "Erase progress"},
			{Key: "N", Description: "Keep it"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Back cancels a pending reset; home is never popped.
func (h *HomeScreen) Back() tea.Cmd {
	h.confirmReset = false
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && h.confirmReset {
		switch kmsg.String() {
		case "y", "Y":
			h.game.Reset(h.ctx)
			h.snap = h.game.Snapshot()
			h.confirmReset = false
		case "n", "N":
			h.confirmReset = false
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+8) || width < 100
	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderEmblem(emblemFor(h.snap), cw))
	}
	sections = append(sections, renderShelf(h.snap, cw, compact))

	if h.confirmReset {
		sections = append(sections, renderResetPrompt(h.snap, cw))
	} else if compact {
		sections = append(sections, renderMenuCompact(h.labels, h.menu.Selected, cw, h.disabled()))
	} else {
		sections = append(sections, renderMenu(h.labels, h.menu.Selected, cw, h.disabled()))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) disabled() map[int]bool {
	d := make(map[int]bool)
	for i, item := range h.menu.Items {
		if item.Disabled {
			d[i] = true
		}
	}
	return d
}
