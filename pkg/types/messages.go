package types

// Client -> Server (all JSON text frames on /ws)
// create_lobby:
//   hostName: string
//
// join_lobby:
//   lobbyId: string
//   playerName: string
//
// player_ready:
//   lobbyId: string
//   ready: boolean
//
// start_game:
//   lobbyId: string
//   gameSettings: { imposterCount: number }
//
// chat_message:
//   lobbyId: string
//   message: string
//
// submit_word:
//   lobbyId: string
//   word: string
//
// submit_vote:
//   lobbyId: string
//   vote: string

// Server -> Client ({ type, payload } envelopes)
// lobby_created (creator only):
//   lobbyId: string
//   lobby: { id, players: [{socketId,name,isHost,isReady}], gameState }
//
// player_joined (all members):
//   player: { socketId, name, isHost, isReady }
//   lobby: as above
//
// player_ready_changed (all members):
//   socketId: string
//   ready: boolean
//   allReady: boolean
//
// game_started (addressed per player; word is null for imposters, tip is
// null for everyone else):
//   word: string | null
//   tip: string | null
//   isImposter: boolean
//   currentTurn: number
//   currentPlayer: string
//   allPlayers: string[]
//
// chat_message (all members):
//   id: string (uuid)
//   playerName: string
//   message: string
//   timestamp: number (unix ms)
//
// word_submitted (all members):
//   playerName: string
//   word: string
//   nextTurn: number
//   nextPlayerName: string
//   allWords: [{playerName, word, timestamp}]
//
// vote_received (all members, tally pending):
//   votesCount: number
//   totalPlayers: number
//
// vote_results (all members, tally complete):
//   results: string[]
//
// player_left (remaining members):
//   socketId: string
//   lobby: as above
//
// error (requester only):
//   message: "Lobby not found" | "Game already in progress" |
//            "Lobby is full" | "Player name is required"
