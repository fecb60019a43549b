package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/chat"
	"github.com/ramanasai/tripboard/internal/geo"
	"github.com/ramanasai/tripboard/internal/itinerary"
	"github.com/ramanasai/tripboard/internal/mapview"
)

const (
	tabItinIdx = iota
	tabChatIdx
)

// wrapTo soft-wraps on words and hard-wraps anything longer than w.
func wrapTo(s string, w int) string {
	if w <= 0 {
		return s
	}
	return wrap.String(wordwrap.String(s, w), w)
}

func (m Model) innerPanel() (int, int) {
	l := layoutOf(m.width, m.height, m.store)
	return max(1, l.panel.w-4), max(1, l.panel.h-2)
}

// ensurePanels keeps the itinerary pager and chat session keyed to the
// focused note.
func (m *Model) ensurePanels(n board.Note) {
	key := n.ID
	if n.StartDate != nil {
		key += "|" + n.StartDate.Format(time.DateOnly)
	}
	if m.pagerFor != key {
		m.pager = itinerary.NewPager(itinerary.Plan(n.StartDate))
		m.pagerFor = key
	}

	w, h := m.innerPanel()
	m.transcript.Width, m.transcript.Height = w, max(1, h-4)

	// a location being typed would otherwise restart the chat per keystroke
	if m.editor.id == n.ID {
		return
	}
	if s, ok := m.sessions[n.ID]; !ok || s.Location() != n.Location {
		m.sessions[n.ID] = chat.NewSession(n.Location, m.deps.Chat, m.deps.Logger)
		m.refreshTranscript()
	}
}

// session is the chat for the focused note.
func (m Model) session() *chat.Session {
	id, ok := m.store.Focused()
	if !ok {
		return nil
	}
	return m.sessions[id]
}

func (m Model) selectTab(tab int) (Model, tea.Cmd) {
	m.tab = tab
	if tab == tabChatIdx {
		m.refreshTranscript()
		return m, m.chatInput.Focus()
	}
	m.chatInput.Blur()
	return m, nil
}

func (m *Model) refreshTranscript() {
	s := m.session()
	if s == nil {
		m.transcript.SetContent("")
		return
	}
	th := m.theme()
	w := max(10, m.transcript.Width)
	you := th.Title.Foreground(lipgloss.Color("#16a34a"))
	var b strings.Builder
	for i, e := range s.Entries() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		who := th.Title.Render("Guide")
		if e.Role == chat.RoleUser {
			who = you.Render("You")
		}
		b.WriteString(who)
		b.WriteString("\n")
		b.WriteString(th.Value.Render(wrapTo(e.Text, w)))
	}
	m.transcript.SetContent(b.String())
	m.transcript.GotoBottom()
}

func (m Model) submitChat() (Model, tea.Cmd) {
	s := m.session()
	if s == nil {
		return m, nil
	}
	turn, err := s.Submit(m.chatInput.Value())
	switch {
	case errors.Is(err, chat.ErrBusy):
		m.setStatus("the assistant is still answering", true)
		return m, nil
	case err != nil:
		return m, nil
	}
	m.chatInput.Reset()
	m.refreshTranscript()

	timeout := m.deps.Config.Chat.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return chatMsg{session: s, reply: s.Reply(ctx, turn)}
	})
}

func (m Model) renderPanel(th Theme, l layout) string {
	w, h := m.innerPanel()

	tab := func(label string, active bool) string {
		if active {
			return th.Title.Underline(true).Render(label)
		}
		return th.Label.Render(label)
	}
	lines := []string{
		tab(tabItin, m.tab == tabItinIdx) + th.Label.Render(tabSep) + tab(tabChat, m.tab == tabChatIdx),
		th.Label.Render(strings.Repeat("─", w)),
	}
	if m.tab == tabChatIdx {
		lines = append(lines, m.renderChat(th, w)...)
	} else {
		lines = append(lines, m.renderItinerary(th, w)...)
	}
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return th.Border.Width(l.panel.w - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderItinerary(th Theme, w int) []string {
	if m.pager == nil {
		return nil
	}
	day, ok := m.pager.Current()
	if !ok {
		return []string{th.Label.Render("No plan yet")}
	}
	prev, next := " ", " "
	if m.pager.HasPrev() {
		prev = "‹"
	}
	if m.pager.HasNext() {
		next = "›"
	}
	title := fmt.Sprintf("Day %d · %s, %s", day.Number, day.Date, day.Weekday)
	gap := max(1, w-2-lipgloss.Width(title))
	lines := []string{
		th.Title.Render(prev) + th.Title.Render(centre(title, gap)) + th.Title.Render(next),
		th.Label.Render(fmt.Sprintf("%s %s · %s", day.Weather, day.Temp, day.Hotel)),
	}
	for _, l := range strings.Split(wrapTo(day.Summary, w), "\n") {
		lines = append(lines, th.Value.Render(l))
	}
	lines = append(lines, "")
	for _, e := range day.Events {
		lines = append(lines, th.Value.Bold(true).Render(e.Time)+th.Value.Render("  "+e.Title))
		if e.Next != nil {
			lines = append(lines, th.Label.Render(fmt.Sprintf("   %s %s", e.Next.Kind.Icon(), e.Next.Duration)))
		}
	}
	return lines
}

// centre pads s with spaces to sit in the middle of gap+len(s) cells.
func centre(s string, gap int) string {
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

func (m Model) renderChat(th Theme, w int) []string {
	lines := strings.Split(m.transcript.View(), "\n")
	if m.chatPending() {
		lines = append(lines, th.Label.Render(m.spin.View()+" thinking..."))
	} else {
		m.chatInput.Width = max(1, w-3)
		lines = append(lines, m.chatInput.View())
	}
	lines = append(lines, th.Hint.Render("enter send · tab itinerary"))
	return lines
}

func (m Model) mapRequest(center board.GeoLocation) mapview.Request {
	l := layoutOf(m.width, m.height, m.store)
	cols, rows := max(1, l.mapPanel.w-4), max(1, l.mapPanel.h-3)
	return mapview.Request{Center: center, Width: cols * 8, Height: rows * 16}
}

func (m Model) renderMap(th Theme, l layout, n board.Note) string {
	cols, rows := max(1, l.mapPanel.w-4), max(1, l.mapPanel.h-3)

	center, origin := geo.Fallback, geo.FromFallback
	if n.GeoLocation != nil {
		center, origin = *n.GeoLocation, m.origins[n.ID]
	}

	var body string
	switch {
	case m.mapView.img != nil:
		body = mapview.Render(m.mapView.img, cols, rows)
	default:
		warning := ""
		switch {
		case n.GeoLocation == nil && n.Location != "":
			warning = "locating " + n.Location + "..."
		case m.mapView.loading:
			warning = "loading map..."
		case errors.Is(m.mapView.err, mapview.ErrNoCredential):
			warning = "no map key, set TRIPBOARD_MAP_KEY"
		case m.mapView.err != nil:
			warning = "map unavailable: " + m.mapView.err.Error()
		}
		body = th.Value.Render(mapview.Offline(center, n.Location, warning, cols, rows))
	}
	caption := th.Label.Render(mapview.Caption(n.Location, center, origin))
	return th.Border.Width(l.mapPanel.w - 2).Render(body + "\n" + caption)
}
