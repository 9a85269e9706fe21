package types

// Inbound event names.
const (
	EvCreateLobby = "create_lobby"
	EvJoinLobby   = "join_lobby"
	EvPlayerReady = "player_ready"
	EvStartGame   = "start_game"
	EvChatMessage = "chat_message"
	EvSubmitWord  = "submit_word"
	EvSubmitVote  = "submit_vote"
)

// Outbound event names.
const (
	EvLobbyCreated  = "lobby_created"
	EvPlayerJoined  = "player_joined"
	EvReadyChanged  = "player_ready_changed"
	EvGameStarted   = "game_started"
	EvChatBroadcast = "chat_message"
	EvWordSubmitted = "word_submitted"
	EvVoteReceived  = "vote_received"
	EvVoteResults   = "vote_results"
	EvPlayerLeft    = "player_left"
	EvError         = "error"
)

// ClientMessage is the flat inbound envelope; which fields matter depends
// on Type.
type ClientMessage struct {
	Type         string        `json:"type"`
	HostName     string        `json:"hostName,omitempty"`
	LobbyID      string        `json:"lobbyId,omitempty"`
	PlayerName   string        `json:"playerName,omitempty"`
	Ready        bool          `json:"ready,omitempty"`
	GameSettings *GameSettings `json:"gameSettings,omitempty"`
	Message      string        `json:"message,omitempty"`
	Word         string        `json:"word,omitempty"`
	Vote         string        `json:"vote,omitempty"`
}

type GameSettings struct {
	ImposterCount int `json:"imposterCount"`
}

// ServerMessage is the outbound envelope.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type PlayerInfo struct {
	SocketID string `json:"socketId"`
	Name     string `json:"name"`
	IsHost   bool   `json:"isHost"`
	IsReady  bool   `json:"isReady"`
}

// LobbyState is the roster view broadcast on membership changes. It never
// carries round roles or secrets.
type LobbyState struct {
	ID        string       `json:"id"`
	Players   []PlayerInfo `json:"players"`
	GameState string       `json:"gameState"`
}

type LobbyCreated struct {
	LobbyID string     `json:"lobbyId"`
	Lobby   LobbyState `json:"lobby"`
}

type PlayerJoined struct {
	Player PlayerInfo `json:"player"`
	Lobby  LobbyState `json:"lobby"`
}

type ReadyChanged struct {
	SocketID string `json:"socketId"`
	Ready    bool   `json:"ready"`
	AllReady bool   `json:"allReady"`
}

// GameStarted is individually addressed: Word is null for imposters, Tip is
// null for everyone else.
type GameStarted struct {
	Word          *string  `json:"word"`
	Tip           *string  `json:"tip"`
	IsImposter    bool     `json:"isImposter"`
	CurrentTurn   int      `json:"currentTurn"`
	CurrentPlayer string   `json:"currentPlayer"`
	AllPlayers    []string `json:"allPlayers"`
}

type ChatBroadcast struct {
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

type SubmittedWord struct {
	PlayerName string `json:"playerName"`
	Word       string `json:"word"`
	Timestamp  int64  `json:"timestamp"`
}

type WordSubmitted struct {
	PlayerName     string          `json:"playerName"`
	Word           string          `json:"word"`
	NextTurn       int             `json:"nextTurn"`
	NextPlayerName string          `json:"nextPlayerName"`
	AllWords       []SubmittedWord `json:"allWords"`
}

type VoteReceived struct {
	VotesCount   int `json:"votesCount"`
	TotalPlayers int `json:"totalPlayers"`
}

type VoteResults struct {
	Results []string `json:"results"`
}

type PlayerLeft struct {
	SocketID string     `json:"socketId"`
	Lobby    LobbyState `json:"lobby"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// LobbySummary backs the read-only GET /lobby/{id} endpoint.
type LobbySummary struct {
	ID          string               `json:"id"`
	Players     []LobbySummaryPlayer `json:"players"`
	GameState   string               `json:"gameState"`
	PlayerCount int                  `json:"playerCount"`
}

type LobbySummaryPlayer struct {
	Name    string `json:"name"`
	IsHost  bool   `json:"isHost"`
	IsReady bool   `json:"isReady"`
}
