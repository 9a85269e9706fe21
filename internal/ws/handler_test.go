package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/impeter-app/impeter-server/internal/hub"
	"github.com/impeter-app/impeter-server/internal/types"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "test done") })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg types.ClientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, data))
}

func recv(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func newServer(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := hub.NewHub(ctx, hub.Config{Logger: zap.NewNop()})
	srv := httptest.NewServer(Handler(h, zap.NewNop()))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHandler_LobbyLifecycleRoundTrip(t *testing.T) {
	url := newServer(t)

	host := dial(t, url)
	send(t, host, types.ClientMessage{Type: types.EvCreateLobby, HostName: "Ana"})

	env := recv(t, host)
	require.Equal(t, types.EvLobbyCreated, env.Type)
	var created types.LobbyCreated
	require.NoError(t, json.Unmarshal(env.Payload, &created))
	require.Len(t, created.LobbyID, 6)

	guest := dial(t, url)
	send(t, guest, types.ClientMessage{
		Type:       types.EvJoinLobby,
		LobbyID:    created.LobbyID,
		PlayerName: "Ben",
	})

	for _, conn := range []*websocket.Conn{host, guest} {
		env := recv(t, conn)
		require.Equal(t, types.EvPlayerJoined, env.Type)
		var joined types.PlayerJoined
		require.NoError(t, json.Unmarshal(env.Payload, &joined))
		assert.Equal(t, "Ben", joined.Player.Name)
		assert.Len(t, joined.Lobby.Players, 2)
	}

	send(t, guest, types.ClientMessage{Type: types.EvChatMessage, LobbyID: created.LobbyID, Message: "hi"})
	env = recv(t, host)
	require.Equal(t, "chat_message", env.Type)
	var chat types.ChatBroadcast
	require.NoError(t, json.Unmarshal(env.Payload, &chat))
	assert.Equal(t, "Ben", chat.PlayerName)
	assert.Equal(t, "hi", chat.Message)
	assert.NotEmpty(t, chat.ID)
}

func TestHandler_JoinUnknownLobby(t *testing.T) {
	url := newServer(t)

	conn := dial(t, url)
	send(t, conn, types.ClientMessage{Type: types.EvJoinLobby, LobbyID: "NOPE12", PlayerName: "Ben"})

	env := recv(t, conn)
	require.Equal(t, types.EvError, env.Type)
	var errPayload types.ErrorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &errPayload))
	assert.Equal(t, "Lobby not found", errPayload.Message)
}

func TestHandler_ProtocolErrors(t *testing.T) {
	url := newServer(t)
	conn := dial(t, url)
	ctx := context.Background()

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{not json")))
	env := recv(t, conn)
	require.Equal(t, types.EvError, env.Type)
	assert.Contains(t, string(env.Payload), "bad json")

	send(t, conn, types.ClientMessage{Type: "no_such_event"})
	env = recv(t, conn)
	require.Equal(t, types.EvError, env.Type)
	assert.Contains(t, string(env.Payload), "unknown type")
}

func TestHandler_DisconnectRemovesPlayer(t *testing.T) {
	url := newServer(t)

	host := dial(t, url)
	send(t, host, types.ClientMessage{Type: types.EvCreateLobby, HostName: "Ana"})
	env := recv(t, host)
	var created types.LobbyCreated
	require.NoError(t, json.Unmarshal(env.Payload, &created))

	guest := dial(t, url)
	send(t, guest, types.ClientMessage{
		Type:       types.EvJoinLobby,
		LobbyID:    created.LobbyID,
		PlayerName: "Ben",
	})
	recv(t, host)
	recv(t, guest)

	require.NoError(t, guest.Close(websocket.StatusNormalClosure, "leaving"))

	env = recv(t, host)
	require.Equal(t, types.EvPlayerLeft, env.Type)
	var left types.PlayerLeft
	require.NoError(t, json.Unmarshal(env.Payload, &left))
	assert.Len(t, left.Lobby.Players, 1)
}
