// Package app is the root Bubble Tea model that hosts the screen stack.
package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/router"
	"github.com/abhisek/litguess/internal/screen"
	"github.com/abhisek/litguess/internal/screens/home"
	"github.com/abhisek/litguess/internal/session"
	"github.com/abhisek/litguess/internal/store"
	"github.com/abhisek/litguess/internal/ui/layout"
)

// Deps are the services the screens need.
type Deps struct {
	Game   *session.Game
	Corpus *corpus.Corpus
	// Events backs the statistics page; nil disables it.
	Events store.EventRepo
	Logger *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	game   *session.Game
	width  int
	height int
}

func newAppModel(ctx context.Context, deps Deps) AppModel {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	homeScreen := home.New(ctx, deps.Game, deps.Corpus, deps.Events, logger)
	return AppModel{
		router: router.New(homeScreen),
		game:   deps.Game,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.CloseAll()
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.BackHandler); ok {
				return m, h.Back()
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the whole terminal: header, active screen and footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	snap := m.game.Snapshot()
	header := layout.RenderHeader(title, layout.Status{
		Score:  snap.Score,
		Streak: snap.Streak,
		Solved: snap.Solved,
		Total:  snap.Total,
	}, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the player quits or
// ctx is cancelled.
func Run(ctx context.Context, deps Deps) error {
	m := newAppModel(ctx, deps)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
