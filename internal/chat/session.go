package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// User-facing replies when the assistant cannot answer.
const (
	NetworkFallback = "I'm having trouble connecting to the network right now. Please try again later."
	EmptyFallback   = "Sorry, I couldn't generate a response."
)

// Entry is one transcript line shown in the panel.
type Entry struct {
	ID   int
	Role Role
	Text string
}

// Turn is a snapshot handed to the network call.
type Turn struct {
	Location string
	History  []Entry
}

// Session is the transcript for one focused note. At most one request is in
// flight at a time.
type Session struct {
	mu       sync.Mutex
	location string
	entries  []Entry
	seq      int
	pending  bool

	completer Completer
	logger    *slog.Logger
}

func NewSession(location string, c Completer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Session{location: location, completer: c, logger: logger}
	s.add(RoleAssistant, Greeting(location))
	return s
}

// Greeting opens every conversation.
func Greeting(location string) string {
	if strings.TrimSpace(location) == "" {
		location = "somewhere new"
	}
	return fmt.Sprintf("Hi! I see you're planning a trip to %s. How can I help you plan your itinerary?", location)
}

// SystemPrompt frames the assistant for a destination.
func SystemPrompt(location string) string {
	return fmt.Sprintf("You are a helpful, enthusiastic, and knowledgeable travel assistant helping a user plan a trip to %s.\n"+
		"Keep your responses concise, friendly, and practical.\n"+
		"Format your response in plain text (Markdown is supported).", location)
}

func (s *Session) add(role Role, text string) Entry {
	s.seq++
	e := Entry{ID: s.seq, Role: role, Text: text}
	s.entries = append(s.entries, e)
	return e
}

func (s *Session) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Submit records the user's message and marks the session busy.
func (s *Session) Submit(text string) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return Turn{}, ErrBusy
	}
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmpty
	}
	s.add(RoleUser, text)
	s.pending = true
	return Turn{Location: s.location, History: append([]Entry(nil), s.entries...)}, nil
}

// Reply asks the completer. It never fails: errors become the fallback
// strings. Safe to call without holding the session.
func (s *Session) Reply(ctx context.Context, t Turn) string {
	if s.completer == nil {
		return NetworkFallback
	}
	msgs := make([]Message, 0, len(t.History)+1)
	msgs = append(msgs, Message{Role: RoleSystem, Content: SystemPrompt(t.Location)})
	for _, e := range t.History {
		msgs = append(msgs, Message{Role: e.Role, Content: e.Text})
	}

	text, err := s.completer.Complete(ctx, msgs)
	switch {
	case errors.Is(err, ErrNoReply):
		return EmptyFallback
	case err != nil:
		s.logger.Warn("completion failed", "err", err)
		return NetworkFallback
	}
	return text
}

// Resolve appends the assistant's reply and frees the session.
func (s *Session) Resolve(reply string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	return s.add(RoleAssistant, reply)
}

// Ask runs a whole exchange synchronously.
func (s *Session) Ask(ctx context.Context, text string) (Entry, error) {
	t, err := s.Submit(text)
	if err != nil {
		return Entry{}, err
	}
	return s.Resolve(s.Reply(ctx, t)), nil
}
