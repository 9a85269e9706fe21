// Package hub owns the process-wide lobby registry. A single goroutine
// drains the inbox, so every inbound event runs to completion before the
// next one and broadcasts for an event are delivered before the next event
// for that lobby is handled. No lobby state is touched off this loop.
package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/impeter-app/impeter-server/internal/catalog"
	"github.com/impeter-app/impeter-server/internal/dependencies/clock"
	"github.com/impeter-app/impeter-server/internal/dependencies/random"
	"github.com/impeter-app/impeter-server/internal/game"
	"github.com/impeter-app/impeter-server/internal/types"
)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Lobbies are evicted on age since creation, not idleness. A long-lived
	// active lobby still dies at the boundary; that matches the product.
	DefaultRetention     = 3 * time.Hour
	DefaultSweepInterval = 30 * time.Minute
)

type Msg interface{ isHubMsg() }

// Connect registers a connection's outbox for fan-out.
type Connect struct {
	ID     string
	Outbox chan types.ServerMessage
}

// Disconnect removes the connection and the player it backed, promoting a
// new host or destroying the lobby as needed.
type Disconnect struct{ ID string }

type CreateLobby struct {
	From     string
	HostName string
}

type JoinLobby struct {
	From       string
	Code       string
	PlayerName string
}

type SetReady struct {
	From  string
	Code  string
	Ready bool
}

type StartGame struct {
	From     string
	Code     string
	Settings game.Settings
}

type ChatMessage struct {
	From string
	Code string
	Text string
}

type SubmitWord struct {
	From string
	Code string
	Word string
}

type SubmitVote struct {
	From string
	Code string
	Vote string
}

// GetLobby replies with a roster summary, or nil for unknown codes.
type GetLobby struct {
	Code  string
	Reply chan *types.LobbySummary
}

type GetStats struct{ Reply chan Stats }

type Stats struct {
	Lobbies int
	Conns   int
}

// Sweep evicts every lobby older than the retention window. The internal
// ticker sends it on a fixed interval; tests send it directly.
type Sweep struct{ Now time.Time }

type Shutdown struct{}

func (Connect) isHubMsg()     {}
func (Disconnect) isHubMsg()  {}
func (CreateLobby) isHubMsg() {}
func (JoinLobby) isHubMsg()   {}
func (SetReady) isHubMsg()    {}
func (StartGame) isHubMsg()   {}
func (ChatMessage) isHubMsg() {}
func (SubmitWord) isHubMsg()  {}
func (SubmitVote) isHubMsg()  {}
func (GetLobby) isHubMsg()    {}
func (GetStats) isHubMsg()    {}
func (Sweep) isHubMsg()       {}
func (Shutdown) isHubMsg()    {}

type Config struct {
	Catalog       catalog.Catalog
	Clock         clock.Clock
	Random        random.Random
	Logger        *zap.Logger
	Retention     time.Duration
	SweepInterval time.Duration
}

type Hub struct {
	inbox   chan Msg
	conns   map[string]chan types.ServerMessage
	lobbies map[string]*game.Lobby
	members map[string]string // connection id -> lobby code

	catalog    catalog.Catalog
	clock      clock.Clock
	rnd        random.Random
	log        *zap.Logger
	retention  time.Duration
	sweepEvery time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, cfg Config) *Hub {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Builtin()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Random == nil {
		cfg.Random = random.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}

	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:      make(chan Msg, 64),
		conns:      make(map[string]chan types.ServerMessage),
		lobbies:    make(map[string]*game.Lobby),
		members:    make(map[string]string),
		catalog:    cfg.Catalog,
		clock:      cfg.Clock,
		rnd:        cfg.Random,
		log:        cfg.Logger,
		retention:  cfg.Retention,
		sweepEvery: cfg.SweepInterval,
		ctx:        ctx,
		cancel:     cancel,
	}
	go h.loop()
	return h
}

// Inbox is where the gateway and HTTP layer send events.
func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	ticker := time.NewTicker(h.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case <-ticker.C:
			h.handleSweep(h.clock.Now())

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Connect:
				h.conns[msg.ID] = msg.Outbox

			case Disconnect:
				h.detach(msg.ID)
				if ch, ok := h.conns[msg.ID]; ok {
					close(ch)
					delete(h.conns, msg.ID)
				}

			case CreateLobby:
				h.handleCreate(msg)

			case JoinLobby:
				h.handleJoin(msg)

			case SetReady:
				h.handleReady(msg)

			case StartGame:
				h.handleStart(msg)

			case ChatMessage:
				h.handleChat(msg)

			case SubmitWord:
				h.handleWord(msg)

			case SubmitVote:
				h.handleVote(msg)

			case GetLobby:
				msg.Reply <- h.summary(msg.Code)

			case GetStats:
				msg.Reply <- Stats{Lobbies: len(h.lobbies), Conns: len(h.conns)}

			case Sweep:
				h.handleSweep(msg.Now)

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, ch := range h.conns {
		close(ch)
		delete(h.conns, id)
	}
	clear(h.lobbies)
	clear(h.members)
	h.cancel()
}

// sendTo delivers without blocking the loop; a consumer with a full outbox
// is dropped and its websocket handler cleans up via Disconnect.
func (h *Hub) sendTo(id string, msg types.ServerMessage) {
	ch, ok := h.conns[id]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		h.log.Warn("dropping slow client", zap.String("conn", id))
		close(ch)
		delete(h.conns, id)
	}
}

func (h *Hub) broadcast(l *game.Lobby, msg types.ServerMessage) {
	for _, p := range l.Players {
		h.sendTo(p.ID, msg)
	}
}

func (h *Hub) sendError(id, message string) {
	h.sendTo(id, types.ServerMessage{
		Type:    types.EvError,
		Payload: types.ErrorPayload{Message: message},
	})
}
