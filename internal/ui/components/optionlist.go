package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/litguess/internal/ui/theme"
)

// Option is one answer in an OptionList.
type Option struct {
	Label  string
	Detail string
}

// OptionList is a scrollable single-choice list. Enter submits the
// highlighted option; digits 1-9 jump to an option.
type OptionList struct {
	Options  []Option
	Selected int
	// Height is the number of visible rows; zero shows every option.
	Height int

	Submitted bool
	Chosen    int
	// Correct is the index revealed after submission, -1 if not revealed.
	Correct int

	offset int
}

// NewOptionList returns a list with the first option highlighted.
func NewOptionList(options []Option, height int) OptionList {
	return OptionList{Options: options, Height: height, Chosen: -1, Correct: -1}
}

func (l OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if l.Submitted || len(l.Options) == 0 {
		return l, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return l, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		l.Selected = max(l.Selected-1, 0)
	case "down", "j":
		l.Selected = min(l.Selected+1, len(l.Options)-1)
	case "pgup":
		l.Selected = max(l.Selected-l.visible(), 0)
	case "pgdown":
		l.Selected = min(l.Selected+l.visible(), len(l.Options)-1)
	case "home", "g":
		l.Selected = 0
	case "end", "G":
		l.Selected = len(l.Options) - 1
	case "enter":
		l.Submitted = true
		l.Chosen = l.Selected
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(l.Options) {
				l.Selected = i
			}
		}
	}
	l.scroll()
	return l, nil
}

// Reveal marks the correct option for display.
func (l *OptionList) Reveal(correct int) {
	l.Correct = correct
}

func (l OptionList) visible() int {
	if l.Height <= 0 || l.Height > len(l.Options) {
		return len(l.Options)
	}
	return l.Height
}

// scroll keeps the highlighted row inside the window.
func (l *OptionList) scroll() {
	n := l.visible()
	if l.Selected < l.offset {
		l.offset = l.Selected
	}
	if l.Selected >= l.offset+n {
		l.offset = l.Selected - n + 1
	}
}

func (l OptionList) View() string {
	var b strings.Builder
	n := l.visible()
	end := min(l.offset+n, len(l.Options))

	if l.offset > 0 {
		b.WriteString(theme.Muted.Render(fmt.Sprintf("    ↑ %d more", l.offset)) + "\n")
	}
	for i := l.offset; i < end; i++ {
		opt := l.Options[i]
		prefix := "  "
		if i == l.Selected && !l.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%2d. %s", prefix, i+1, opt.Label)
		detail := ""
		if opt.Detail != "" {
			detail = " " + theme.Author.Render("· "+opt.Detail)
		}

		switch {
		case l.Submitted && i == l.Correct:
			b.WriteString(theme.Correct.Render(line + "  ✓"))
		case l.Submitted && i == l.Chosen:
			b.WriteString(theme.Incorrect.Render(line + "  ✗"))
		case l.Submitted:
			b.WriteString(theme.Muted.Render(line))
		case i == l.Selected:
			b.WriteString(theme.Selected.Render(line) + detail)
		default:
			b.WriteString(theme.Unselected.Render(line) + detail)
		}
		b.WriteString("\n")
	}
	if rest := len(l.Options) - end; rest > 0 {
		b.WriteString(theme.Muted.Render(fmt.Sprintf("    ↓ %d more", rest)) + "\n")
	}
	return b.String()
}
