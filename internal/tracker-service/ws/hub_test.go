package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_SnapshotPingAndBroadcast(t *testing.T) {
	hub := NewHub(zap.NewNop(), func(*http.Request) bool { return true })
	hub.Snapshot = func() (ServerMsg, bool) {
		return ServerMsg{Type: "summary", Payload: map[string]int{"open": 2}}, true
	}
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	conn := dial(t, srv)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first ServerMsg
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "summary", first.Type)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	var pong ServerMsg
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong.Type)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(ServerMsg{Type: "summary", Payload: "changed"})
	var got ServerMsg
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "changed", got.Payload)
}
