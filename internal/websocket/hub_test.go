package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sgc-backend/internal/services"
)

type stubTokens struct {
	id  uuid.UUID
	err error
}

func (s stubTokens) Parse(string) (uuid.UUID, error) { return s.id, s.err }

func TestHub_RejectsMissingOrInvalidToken(t *testing.T) {
	h := NewHub(nil, stubTokens{err: errors.New("bad")}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws?token=abc", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHub_ForwardsPublishedUpdateToSocket(t *testing.T) {
	sessionID := uuid.New()
	h := NewHub(nil, stubTokens{id: sessionID}, zap.NewNop())

	// Register the socket directly so no Redis subscription is started.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		c := &client{conn: conn}
		h.mu.Lock()
		h.connections[sessionID] = append(h.connections[sessionID], c)
		h.mu.Unlock()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Connections(sessionID) == 1 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := make(chan *redis.Message, 1)
	go h.forward(ctx, sessionID, ch)

	payload := `{"type":"status_update","payload":{"session_id":"` + sessionID.String() + `","awaiting_response":true,"credentials_available":true}}`
	ch <- &redis.Message{Channel: services.ConversationChannel(sessionID), Payload: payload}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(data))
}

func TestHub_ForwardStopsWhenChannelCloses(t *testing.T) {
	h := NewHub(nil, stubTokens{}, zap.NewNop())
	ch := make(chan *redis.Message)
	done := make(chan struct{})

	go func() {
		h.forward(context.Background(), uuid.New(), ch)
		close(done)
	}()
	close(ch)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward did not return after the channel closed")
	}
}
