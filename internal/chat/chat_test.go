package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Hi! I see you're planning a trip to Kyoto. How can I help you plan your itinerary?", Greeting("Kyoto"))
	assert.Equal(t, "Hi! I see you're planning a trip to somewhere new. How can I help you plan your itinerary?", Greeting("  "))
}

func TestClient_Complete(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Try the Fushimi Inari hike at dawn."}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v3/", "sk-test", "trip-model", time.Second)
	text, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "ideas?"}})

	require.NoError(t, err)
	assert.Equal(t, "Try the Fushimi Inari hike at dawn.", text)
	assert.Equal(t, "trip-model", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, 0.7, got.Temperature)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "ideas?"}}, got.Messages)
}

func TestClient_Errors(t *testing.T) {
	unauthorized := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","code":"AuthenticationError"}}`))
	}))
	defer unauthorized.Close()

	_, err := NewClient(unauthorized.URL, "", "", time.Second).Complete(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer empty.Close()

	_, err = NewClient(empty.URL, "", "", time.Second).Complete(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoReply)
}

type fakeCompleter struct {
	reply string
	err   error
	seen  []Message
}

func (f *fakeCompleter) Complete(ctx context.Context, msgs []Message) (string, error) {
	f.seen = msgs
	return f.reply, f.err
}

func TestSession_Exchange(t *testing.T) {
	fc := &fakeCompleter{reply: "Visit the Louvre early."}
	s := NewSession("Paris", fc, nil)

	e, err := s.Ask(context.Background(), "What first?")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, e.Role)
	assert.Equal(t, "Visit the Louvre early.", e.Text)

	require.Len(t, fc.seen, 3)
	assert.Equal(t, RoleSystem, fc.seen[0].Role)
	assert.Contains(t, fc.seen[0].Content, "plan a trip to Paris.")
	assert.Equal(t, Message{Role: RoleAssistant, Content: Greeting("Paris")}, fc.seen[1])
	assert.Equal(t, Message{Role: RoleUser, Content: "What first?"}, fc.seen[2])

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.False(t, s.Pending())
}

func TestSession_OneRequestInFlight(t *testing.T) {
	s := NewSession("Rome", &fakeCompleter{reply: "ok"}, nil)

	turn, err := s.Submit("first")
	require.NoError(t, err)
	assert.True(t, s.Pending())

	_, err = s.Submit("second")
	assert.ErrorIs(t, err, ErrBusy)

	s.Resolve(s.Reply(context.Background(), turn))
	_, err = s.Submit("second")
	assert.NoError(t, err)
}

func TestSession_EmptyInput(t *testing.T) {
	s := NewSession("", nil, nil)
	_, err := s.Submit("   ")
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Len(t, s.Entries(), 1)
	assert.False(t, s.Pending())
}

func TestSession_Fallbacks(t *testing.T) {
	s := NewSession("Oslo", &fakeCompleter{err: errors.New("dial tcp: i/o timeout")}, nil)
	e, err := s.Ask(context.Background(), "weather?")
	require.NoError(t, err)
	assert.Equal(t, NetworkFallback, e.Text)

	s = NewSession("Oslo", &fakeCompleter{err: ErrNoReply}, nil)
	e, _ = s.Ask(context.Background(), "weather?")
	assert.Equal(t, EmptyFallback, e.Text)

	s = NewSession("Oslo", nil, nil)
	e, _ = s.Ask(context.Background(), "weather?")
	assert.Equal(t, NetworkFallback, e.Text)
	assert.False(t, s.Pending(), "a failed request still frees the input")
}
