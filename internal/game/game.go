// Package game holds the pure lobby state machine. Nothing here spawns
// goroutines or touches I/O; the hub serializes all access.
package game

import (
	"errors"
	"strings"
	"time"
)

var ErrEmptyName = errors.New("empty player name")
var ErrGameInProgress = errors.New("game already in progress")
var ErrLobbyFull = errors.New("lobby is full")
var ErrNotMember = errors.New("not a lobby member")
var ErrNotHost = errors.New("only the host can do that")
var ErrNotReady = errors.New("not all players are ready")
var ErrWrongPhase = errors.New("wrong game phase")
var ErrNotYourTurn = errors.New("not your turn")

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

const (
	// MaxPlayers caps the roster; the 31st join is rejected.
	MaxPlayers = 30
	// MinPlayers is the smallest roster that can start a round.
	MinPlayers = 3
)

type Player struct {
	ID      string
	Name    string
	IsHost  bool
	IsReady bool

	// Round-scoped. Imposters carry only Tip, everyone else only Word.
	IsImposter bool
	Word       string
	Tip        string
}

type ChatMessage struct {
	ID         string
	PlayerName string
	Message    string
	Timestamp  time.Time
}

type Submission struct {
	PlayerName string
	Word       string
	Timestamp  time.Time
}

type Settings struct {
	ImposterCount int
}

// Lobby is one game session. Player order is insertion order and drives
// turn rotation; Turn always indexes into Players.
type Lobby struct {
	Code        string
	Players     []*Player
	Phase       Phase
	Turn        int
	Category    string
	Word        string
	Tip         string
	Chat        []ChatMessage
	Submissions []Submission
	Votes       map[string]string
	CreatedAt   time.Time
}

// New constructs a lobby in the waiting phase with the creator as sole
// player and host.
func New(code, hostID, hostName string, now time.Time) (*Lobby, error) {
	if strings.TrimSpace(hostName) == "" {
		return nil, ErrEmptyName
	}
	return &Lobby{
		Code: code,
		Players: []*Player{
			{ID: hostID, Name: hostName, IsHost: true},
		},
		Phase:     PhaseWaiting,
		Votes:     make(map[string]string),
		CreatedAt: now,
	}, nil
}

func (l *Lobby) Player(id string) *Player {
	for _, p := range l.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (l *Lobby) indexOf(id string) int {
	for i, p := range l.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// AddPlayer appends a non-host, non-ready player. Joining is only possible
// while the lobby is waiting and below capacity.
func (l *Lobby) AddPlayer(id, name string) (*Player, error) {
	if l.Phase != PhaseWaiting {
		return nil, ErrGameInProgress
	}
	if len(l.Players) >= MaxPlayers {
		return nil, ErrLobbyFull
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	p := &Player{ID: id, Name: name}
	l.Players = append(l.Players, p)
	return p, nil
}

// RemovePlayer drops the player, promoting the earliest-joined remaining
// player to host if the host left. Reports whether anything was removed and
// whether the lobby is now empty.
func (l *Lobby) RemovePlayer(id string) (removed, empty bool) {
	i := l.indexOf(id)
	if i == -1 {
		return false, len(l.Players) == 0
	}
	wasHost := l.Players[i].IsHost
	l.Players = append(l.Players[:i], l.Players[i+1:]...)

	if len(l.Players) == 0 {
		return true, true
	}
	if wasHost {
		l.Players[0].IsHost = true
	}
	// Keep the turn pointer a valid index after the roster shrinks.
	l.Turn = l.Turn % len(l.Players)
	return true, false
}

// SetReady flips the ready flag. A no-op outside the waiting phase or for
// unknown ids; reports whether anything changed.
func (l *Lobby) SetReady(id string, ready bool) bool {
	if l.Phase != PhaseWaiting {
		return false
	}
	p := l.Player(id)
	if p == nil {
		return false
	}
	p.IsReady = ready
	return true
}

// AllReady reports whether a round can start: at least MinPlayers and every
// player either host or ready. The host never has to toggle ready.
func (l *Lobby) AllReady() bool {
	if len(l.Players) < MinPlayers {
		return false
	}
	for _, p := range l.Players {
		if !p.IsHost && !p.IsReady {
			return false
		}
	}
	return true
}

// AppendChat records a chat message from a current member. No phase
// restriction: the waiting room and the active round share one log.
func (l *Lobby) AppendChat(id, text, msgID string, now time.Time) (*ChatMessage, error) {
	p := l.Player(id)
	if p == nil {
		return nil, ErrNotMember
	}
	msg := ChatMessage{
		ID:         msgID,
		PlayerName: p.Name,
		Message:    text,
		Timestamp:  now,
	}
	l.Chat = append(l.Chat, msg)
	return &msg, nil
}
