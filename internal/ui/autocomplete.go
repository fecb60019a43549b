package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Suggester returns up to limit completions for query.
type Suggester func(query string, limit int) []string

// FuzzyPlaces ranks known place names against the typed text.
func FuzzyPlaces(places func() []string) Suggester {
	return func(query string, limit int) []string {
		query = strings.TrimSpace(query)
		if query == "" {
			return nil
		}
		matches := fuzzy.Find(query, places())
		out := make([]string, 0, min(limit, len(matches)))
		for _, m := range matches {
			if len(out) == limit {
				break
			}
			if strings.EqualFold(m.Str, query) {
				continue
			}
			out = append(out, m.Str)
		}
		return out
	}
}

// AutocompleteModel represents a text input with autocomplete functionality
type AutocompleteModel struct {
	input          textinput.Model
	suggestions    []string
	showing        bool
	selected       int
	suggest        Suggester
	style          lipgloss.Style
	maxSuggestions int
}

// AutocompleteMsg is a message to update suggestions
type AutocompleteMsg struct {
	Query       string
	Suggestions []string
}

// NewAutocomplete creates a new autocomplete input model
func NewAutocomplete(suggest Suggester, maxSuggestions int) AutocompleteModel {
	input := textinput.New()
	input.Placeholder = "Where to?"
	input.CharLimit = 120
	return AutocompleteModel{
		input:          input,
		suggest:        suggest,
		maxSuggestions: maxSuggestions,
		style:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Update handles the autocomplete logic
func (m AutocompleteModel) Update(msg tea.Msg) (AutocompleteModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "down", "ctrl+n":
			if m.showing && len(m.suggestions) > 0 {
				m.selected = (m.selected + 1) % len(m.suggestions)
				return m, nil
			}
		case "up", "ctrl+p":
			if m.showing && len(m.suggestions) > 0 {
				m.selected = (m.selected - 1 + len(m.suggestions)) % len(m.suggestions)
				return m, nil
			}
		case "enter":
			if m.showing && len(m.suggestions) > 0 {
				m.input.SetValue(m.suggestions[m.selected])
				m.input.CursorEnd()
				m.showing = false
				m.selected = 0
				return m, nil
			}
			return m, nil
		case "esc":
			if m.showing {
				m.showing = false
				m.selected = 0
				return m, nil
			}
		}
		old := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != old {
			return m, tea.Batch(cmd, m.fetchSuggestions())
		}
		return m, cmd

	case AutocompleteMsg:
		// drop answers for text that has since changed
		if msg.Query != m.input.Value() {
			return m, nil
		}
		m.suggestions = msg.Suggestions
		m.showing = len(m.suggestions) > 0 && m.input.Value() != ""
		m.selected = 0
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// fetchSuggestions retrieves suggestions based on current input
func (m AutocompleteModel) fetchSuggestions() tea.Cmd {
	query := m.input.Value()
	suggest, limit := m.suggest, m.maxSuggestions
	return func() tea.Msg {
		if suggest == nil || query == "" {
			return AutocompleteMsg{Query: query}
		}
		return AutocompleteMsg{Query: query, Suggestions: suggest(query, limit)}
	}
}

// View renders the autocomplete input and suggestions
func (m AutocompleteModel) View() string {
	var content strings.Builder
	content.WriteString(m.input.View())

	if m.showing && len(m.suggestions) > 0 {
		for i, suggestion := range m.suggestions {
			if i >= m.maxSuggestions {
				break
			}
			content.WriteString("\n")
			if i == m.selected {
				content.WriteString(m.style.Foreground(lipgloss.Color("12")).Render("▶ " + suggestion))
			} else {
				content.WriteString(m.style.Render("  " + suggestion))
			}
		}
	}
	return content.String()
}

func (m *AutocompleteModel) Value() string { return m.input.Value() }

func (m *AutocompleteModel) SetValue(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.showing = false
}

func (m *AutocompleteModel) Focus() tea.Cmd {
	m.showing = false
	m.selected = 0
	return m.input.Focus()
}

func (m *AutocompleteModel) Blur() {
	m.input.Blur()
	m.showing = false
	m.selected = 0
}

func (m *AutocompleteModel) Focused() bool { return m.input.Focused() }

func (m *AutocompleteModel) SetWidth(width int) { m.input.Width = width }

func (m *AutocompleteModel) SetPlaceholder(placeholder string) { m.input.Placeholder = placeholder }

func (m *AutocompleteModel) Suggestions() []string { return m.suggestions }

// Showing returns whether suggestions are currently displayed
func (m *AutocompleteModel) Showing() bool { return m.showing }
