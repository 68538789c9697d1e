package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/litguess/internal/ui/layout"
)

// Screen is one page of the application.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler is implemented by screens that handle Esc themselves
// instead of being popped.
type BackHandler interface {
	Back() tea.Cmd
}

// Closer is implemented by screens that hold resources to release when
// they leave the stack.
type Closer interface {
	Close()
}
