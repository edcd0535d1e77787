package stream

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func dialHub(t *testing.T, hub *Hub, userID string) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("user"))
	}))
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + userID
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	cleanup := func() {
		_ = conn.Close()
		require.Eventually(t, func() bool { return hub.ConnectedUsers() == 0 }, 2*time.Second, 10*time.Millisecond)
		srv.Close()
	}
	return conn, cleanup
}

func TestPublishRoutesToRecipients(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	conn, cleanup := dialHub(t, hub, "alice")
	defer cleanup()

	require.Eventually(t, func() bool { return hub.ConnectedUsers() == 1 }, 2*time.Second, 10*time.Millisecond)

	err := hub.Publish(context.Background(), "freeshare.events.v1", "ad-1",
		[]byte(`{"name":"reservation.accepted"}`), map[string]string{"recipients": "alice, bob"})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"reservation.accepted"}`, string(payload))
}

func TestPublishWithoutRecipientsIsBrokerOnly(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	conn, cleanup := dialHub(t, hub, "alice")
	defer cleanup()

	require.NoError(t, hub.Publish(context.Background(), "freeshare.events.v1", "ad-1", []byte(`{}`), nil))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "no frame expected")
}

func TestPublishSkipsDisconnectedUsers(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	err := hub.Publish(context.Background(), "freeshare.events.v1", "ad-1", []byte(`{}`),
		map[string]string{"recipients": "ghost"})
	assert.NoError(t, err)
	assert.Zero(t, hub.ConnectedUsers())
}
