package hub

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/impeter-app/impeter-server/internal/game"
	"github.com/impeter-app/impeter-server/internal/types"
)

// Error messages surfaced to clients. Join failures are explicit; start and
// turn-order violations stay silent no-ops.
const (
	msgLobbyNotFound  = "Lobby not found"
	msgGameInProgress = "Game already in progress"
	msgLobbyFull      = "Lobby is full"
	msgNameRequired   = "Player name is required"
)

func (h *Hub) newCode() string {
	for {
		code := h.rnd.String(codeLength, codeAlphabet)
		if _, exists := h.lobbies[code]; !exists {
			return code
		}
		h.log.Info("lobby code collision, regenerating", zap.String("code", code))
	}
}

func (h *Hub) handleCreate(msg CreateLobby) {
	code := h.newCode()
	l, err := game.New(code, msg.From, msg.HostName, h.clock.Now())
	if err != nil {
		h.sendError(msg.From, msgNameRequired)
		return
	}
	// A connection owns at most one player; creating while joined elsewhere
	// leaves the old lobby.
	h.detach(msg.From)
	h.lobbies[code] = l
	h.members[msg.From] = code

	h.sendTo(msg.From, types.ServerMessage{
		Type:    types.EvLobbyCreated,
		Payload: types.LobbyCreated{LobbyID: code, Lobby: lobbyState(l)},
	})
	h.log.Info("lobby created",
		zap.String("lobby", code), zap.String("host", msg.HostName))
}

func (h *Hub) handleJoin(msg JoinLobby) {
	l, ok := h.lobbies[msg.Code]
	if !ok {
		h.sendError(msg.From, msgLobbyNotFound)
		return
	}
	if h.members[msg.From] == msg.Code {
		return // already in this lobby
	}

	p, err := l.AddPlayer(msg.From, msg.PlayerName)
	switch {
	case errors.Is(err, game.ErrGameInProgress):
		h.sendError(msg.From, msgGameInProgress)
		return
	case errors.Is(err, game.ErrLobbyFull):
		h.sendError(msg.From, msgLobbyFull)
		return
	case errors.Is(err, game.ErrEmptyName):
		h.sendError(msg.From, msgNameRequired)
		return
	case err != nil:
		h.sendError(msg.From, err.Error())
		return
	}
	// Joined a different lobby: drop membership in the old one first so a
	// connection never backs two players.
	h.detach(msg.From)
	h.members[msg.From] = msg.Code

	h.broadcast(l, types.ServerMessage{
		Type:    types.EvPlayerJoined,
		Payload: types.PlayerJoined{Player: playerInfo(p), Lobby: lobbyState(l)},
	})
	h.log.Info("player joined",
		zap.String("lobby", msg.Code), zap.String("player", msg.PlayerName))
}

func (h *Hub) handleReady(msg SetReady) {
	l, ok := h.lobbies[msg.Code]
	if !ok {
		return
	}
	if !l.SetReady(msg.From, msg.Ready) {
		return
	}
	h.broadcast(l, types.ServerMessage{
		Type: types.EvReadyChanged,
		Payload: types.ReadyChanged{
			SocketID: msg.From,
			Ready:    msg.Ready,
			AllReady: l.AllReady(),
		},
	})
}

func (h *Hub) handleStart(msg StartGame) {
	l, ok := h.lobbies[msg.Code]
	if !ok {
		return
	}
	category, entry, err := h.catalog.Pick(h.rnd)
	if err != nil {
		h.log.Error("cannot start round", zap.Error(err))
		return
	}

	res, err := l.Start(msg.From, msg.Settings, category, entry, h.rnd)
	if err != nil {
		// Non-host or not-ready starts are silent no-ops.
		h.log.Debug("start rejected",
			zap.String("lobby", msg.Code), zap.Error(err))
		return
	}

	// Each player gets their own payload; the snapshot is never broadcast
	// verbatim so imposters cannot see the word.
	for _, a := range res.Assignments {
		payload := types.GameStarted{
			IsImposter:    a.IsImposter,
			CurrentTurn:   res.CurrentTurn,
			CurrentPlayer: res.CurrentPlayer,
			AllPlayers:    res.PlayerNames,
		}
		if a.IsImposter {
			tip := a.Tip
			payload.Tip = &tip
		} else {
			word := a.Word
			payload.Word = &word
		}
		h.sendTo(a.PlayerID, types.ServerMessage{
			Type:    types.EvGameStarted,
			Payload: payload,
		})
	}
	h.log.Info("game started",
		zap.String("lobby", msg.Code),
		zap.String("category", res.Category),
		zap.Int("players", len(res.Assignments)))
}

func (h *Hub) handleChat(msg ChatMessage) {
	l, ok := h.lobbies[msg.Code]
	if !ok {
		return
	}
	m, err := l.AppendChat(msg.From, msg.Text, uuid.NewString(), h.clock.Now())
	if err != nil {
		return
	}
	h.broadcast(l, types.ServerMessage{
		Type: types.EvChatBroadcast,
		Payload: types.ChatBroadcast{
			ID:         m.ID,
			PlayerName: m.PlayerName,
			Message:    m.Message,
			Timestamp:  m.Timestamp.UnixMilli(),
		},
	})
}

func (h *Hub) handleWord(msg SubmitWord) {
	l, ok := h.lobbies[msg.Code]
	if !ok {
		return
	}
	res, err := l.SubmitWord(msg.From, msg.Word, h.clock.Now())
	if err != nil {
		// Out-of-turn submissions produce no broadcast at all.
		h.log.Debug("word rejected",
			zap.String("lobby", msg.Code), zap.Error(err))
		return
	}

	all := make([]types.SubmittedWord, 0, len(res.AllWords))
	for _, s := range res.AllWords {
		all = append(all, types.SubmittedWord{
			PlayerName: s.PlayerName,
			Word:       s.Word,
			Timestamp:  s.Timestamp.UnixMilli(),
		})
	}
	h.broadcast(l, types.ServerMessage{
		Type: types.EvWordSubmitted,
		Payload: types.WordSubmitted{
			PlayerName:     res.PlayerName,
			Word:           res.Word,
			NextTurn:       res.NextTurn,
			NextPlayerName: res.NextPlayer,
			AllWords:       all,
		},
	})
}

func (h *Hub) handleVote(msg SubmitVote) {
	l, ok := h.lobbies[msg.Code]
	if !ok {
		return
	}
	res := l.SubmitVote(msg.From, msg.Vote)
	if res == nil {
		return
	}
	if res.Done {
		h.broadcast(l, types.ServerMessage{
			Type:    types.EvVoteResults,
			Payload: types.VoteResults{Results: res.Results},
		})
		return
	}
	h.broadcast(l, types.ServerMessage{
		Type: types.EvVoteReceived,
		Payload: types.VoteReceived{
			VotesCount:   res.Count,
			TotalPlayers: res.Total,
		},
	})
}

// detach removes the player behind a connection from its lobby, if any. It
// backs both explicit disconnects and implicit re-joins, and is idempotent.
func (h *Hub) detach(id string) {
	code, ok := h.members[id]
	if !ok {
		return
	}
	delete(h.members, id)

	l, ok := h.lobbies[code]
	if !ok {
		return
	}
	removed, empty := l.RemovePlayer(id)
	if !removed {
		return
	}
	if empty {
		delete(h.lobbies, code)
		h.log.Info("destroyed empty lobby", zap.String("lobby", code))
		return
	}
	h.broadcast(l, types.ServerMessage{
		Type:    types.EvPlayerLeft,
		Payload: types.PlayerLeft{SocketID: id, Lobby: lobbyState(l)},
	})
}

func (h *Hub) handleSweep(now time.Time) {
	for code, l := range h.lobbies {
		if now.Sub(l.CreatedAt) <= h.retention {
			continue
		}
		for _, p := range l.Players {
			delete(h.members, p.ID)
		}
		delete(h.lobbies, code)
		h.log.Info("swept stale lobby",
			zap.String("lobby", code), zap.Time("createdAt", l.CreatedAt))
	}
}

func (h *Hub) summary(code string) *types.LobbySummary {
	l, ok := h.lobbies[code]
	if !ok {
		return nil
	}
	players := make([]types.LobbySummaryPlayer, 0, len(l.Players))
	for _, p := range l.Players {
		players = append(players, types.LobbySummaryPlayer{
			Name:    p.Name,
			IsHost:  p.IsHost,
			IsReady: p.IsReady,
		})
	}
	return &types.LobbySummary{
		ID:          l.Code,
		Players:     players,
		GameState:   string(l.Phase),
		PlayerCount: len(l.Players),
	}
}

func lobbyState(l *game.Lobby) types.LobbyState {
	players := make([]types.PlayerInfo, 0, len(l.Players))
	for _, p := range l.Players {
		players = append(players, playerInfo(p))
	}
	return types.LobbyState{
		ID:        l.Code,
		Players:   players,
		GameState: string(l.Phase),
	}
}

func playerInfo(p *game.Player) types.PlayerInfo {
	return types.PlayerInfo{
		SocketID: p.ID,
		Name:     p.Name,
		IsHost:   p.IsHost,
		IsReady:  p.IsReady,
	}
}
