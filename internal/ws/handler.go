// Package ws is the session gateway: one websocket connection per player,
// translated into hub events.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/impeter-app/impeter-server/internal/game"
	"github.com/impeter-app/impeter-server/internal/hub"
	"github.com/impeter-app/impeter-server/internal/types"
)

const (
	outboxSize   = 16
	writeTimeout = 3 * time.Second
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// The mobile client is not a browser; origin checks add nothing.
			InsecureSkipVerify: true,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// Ephemeral per-connection identity, never reused.
		clientID := uuid.NewString()
		out := make(chan types.ServerMessage, outboxSize)

		h.Inbox() <- hub.Connect{ID: clientID, Outbox: out}
		defer func() { h.Inbox() <- hub.Disconnect{ID: clientID} }()

		log.Debug("client connected", zap.String("conn", clientID))

		// Writer goroutine: drains the outbox until the hub closes it.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop. Connections idle between turns; no read deadline.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Anything else still counts as a disconnect (deferred above).
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","payload":{"message":"bad json"}}`))
				continue
			}

			msg, ok := toHubMsg(clientID, cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","payload":{"message":"unknown type"}}`))
				continue
			}
			h.Inbox() <- msg
		}
	}
}

func toHubMsg(from string, cm types.ClientMessage) (hub.Msg, bool) {
	switch cm.Type {
	case types.EvCreateLobby:
		return hub.CreateLobby{From: from, HostName: cm.HostName}, true
	case types.EvJoinLobby:
		return hub.JoinLobby{From: from, Code: cm.LobbyID, PlayerName: cm.PlayerName}, true
	case types.EvPlayerReady:
		return hub.SetReady{From: from, Code: cm.LobbyID, Ready: cm.Ready}, true
	case types.EvStartGame:
		var settings game.Settings
		if cm.GameSettings != nil {
			settings.ImposterCount = cm.GameSettings.ImposterCount
		}
		return hub.StartGame{From: from, Code: cm.LobbyID, Settings: settings}, true
	case types.EvChatMessage:
		return hub.ChatMessage{From: from, Code: cm.LobbyID, Text: cm.Message}, true
	case types.EvSubmitWord:
		return hub.SubmitWord{From: from, Code: cm.LobbyID, Word: cm.Word}, true
	case types.EvSubmitVote:
		return hub.SubmitVote{From: from, Code: cm.LobbyID, Vote: cm.Vote}, true
	default:
		return nil, false
	}
}
