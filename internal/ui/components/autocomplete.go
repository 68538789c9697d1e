package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/litguess/internal/ui/theme"
)

// Suggestion is an entry offered by an Autocomplete.
type Suggestion struct {
	ID     string
	Label  string
	Detail string
}

// SearchFunc returns the suggestions for a query.
type SearchFunc func(query string) []Suggestion

// Autocomplete is a text input with a live suggestion list underneath.
// Typing refreshes the list, up/down move through it and enter picks the
// highlighted suggestion.
type Autocomplete struct {
	input       textinput.Model
	search      SearchFunc
	suggestions []Suggestion
	Selected    int

	Submitted bool
	chosen    Suggestion
	// Empty is shown when the query matches nothing.
	Empty string
}

// NewAutocomplete returns a focused Autocomplete.
func NewAutocomplete(placeholder string, search SearchFunc) Autocomplete {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 80
	ti.Focus()
	return Autocomplete{input: ti, search: search, Empty: "No matching works"}
}

func (a Autocomplete) Update(msg tea.Msg) (Autocomplete, tea.Cmd) {
	if a.Submitted {
		return a, nil
	}
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "up":
			a.Selected = max(a.Selected-1, 0)
			return a, nil
		case "down", "tab":
			a.Selected = min(a.Selected+1, max(len(a.suggestions)-1, 0))
			return a, nil
		case "enter":
			if len(a.suggestions) > 0 {
				a.chosen = a.suggestions[a.Selected]
				a.Submitted = true
			}
			return a, nil
		}
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if v := a.input.Value(); v != before {
		a.refresh(v)
	}
	return a, cmd
}

// SetValue replaces the query and refreshes the suggestions.
func (a *Autocomplete) SetValue(v string) {
	a.input.SetValue(v)
	a.refresh(v)
}

func (a *Autocomplete) refresh(query string) {
	a.Selected = 0
	if strings.TrimSpace(query) == "" {
		a.suggestions = nil
		return
	}
	a.suggestions = a.search(query)
}

// Value is the current query.
func (a Autocomplete) Value() string { return a.input.Value() }

// Suggestions are the entries currently offered.
func (a Autocomplete) Suggestions() []Suggestion { return a.suggestions }

// Chosen returns the picked suggestion once submitted.
func (a Autocomplete) Chosen() (Suggestion, bool) {
	return a.chosen, a.Submitted
}

func (a Autocomplete) View() string {
	var b strings.Builder
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	if a.Submitted {
		b.WriteString(theme.Selected.Render("  ▸ " + a.chosen.Label))
		return b.String()
	}
	if len(a.suggestions) == 0 {
		if strings.TrimSpace(a.input.Value()) != "" {
			b.WriteString(theme.Hint.Render("  " + a.Empty))
		}
		return b.String()
	}
	for i, s := range a.suggestions {
		detail := ""
		if s.Detail != "" {
			detail = theme.Author.Render(" · " + s.Detail)
		}
		if i == a.Selected {
			b.WriteString(theme.Selected.Render("  ▸ "+s.Label) + detail)
		} else {
			b.WriteString(theme.Unselected.Render("    "+s.Label) + detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}
