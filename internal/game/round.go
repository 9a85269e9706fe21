package game

import (
	"time"

	"github.com/impeter-app/impeter-server/internal/catalog"
	"github.com/impeter-app/impeter-server/internal/dependencies/random"
)

// Assignment is one player's private view of a freshly started round. Only
// the addressed player may ever see it: imposters get the tip and must not
// learn the word.
type Assignment struct {
	PlayerID   string
	PlayerName string
	IsImposter bool
	Word       string
	Tip        string
}

type StartResult struct {
	Category      string
	CurrentTurn   int
	CurrentPlayer string
	PlayerNames   []string
	Assignments   []Assignment
}

type WordResult struct {
	PlayerName string
	Word       string
	Timestamp  time.Time
	NextTurn   int
	NextPlayer string
	AllWords   []Submission
}

// VoteResult is either a pending tally (Count/Total) or, once every current
// player has voted, the complete set of vote values.
type VoteResult struct {
	Done    bool
	Results []string
	Count   int
	Total   int
}

// Start begins a round: picks roles, hands the word to the crew and the tip
// to the imposters, and resets the turn pointer. Only the host may start,
// and only once everyone is ready.
func (l *Lobby) Start(hostID string, s Settings, category string, entry catalog.Entry, rnd random.Random) (*StartResult, error) {
	if l.Phase != PhaseWaiting {
		return nil, ErrWrongPhase
	}
	host := l.Player(hostID)
	if host == nil || !host.IsHost {
		return nil, ErrNotHost
	}
	if !l.AllReady() {
		return nil, ErrNotReady
	}

	l.Phase = PhasePlaying
	l.Turn = 0
	l.Category = category
	l.Word = entry.Word
	l.Tip = entry.Tip
	l.Submissions = nil

	imposters := clampImposters(s.ImposterCount, len(l.Players))

	// Distinct indices by rejection sampling: redraw until we have enough.
	chosen := make(map[int]bool, imposters)
	for len(chosen) < imposters {
		chosen[rnd.Intn(len(l.Players))] = true
	}

	res := &StartResult{
		Category:      category,
		CurrentTurn:   0,
		CurrentPlayer: l.Players[0].Name,
		PlayerNames:   make([]string, 0, len(l.Players)),
		Assignments:   make([]Assignment, 0, len(l.Players)),
	}
	for i, p := range l.Players {
		p.IsImposter = chosen[i]
		if p.IsImposter {
			p.Word, p.Tip = "", entry.Tip
		} else {
			p.Word, p.Tip = entry.Word, ""
		}
		res.PlayerNames = append(res.PlayerNames, p.Name)
		res.Assignments = append(res.Assignments, Assignment{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			IsImposter: p.IsImposter,
			Word:       p.Word,
			Tip:        p.Tip,
		})
	}
	return res, nil
}

// clampImposters bounds the requested count to [1, playerCount/3].
func clampImposters(requested, players int) int {
	max := players / 3
	if max < 1 {
		max = 1
	}
	if requested < 1 {
		return 1
	}
	if requested > max {
		return max
	}
	return requested
}

// SubmitWord accepts a word only from the player the turn pointer is on,
// appends it to the round log, and advances the turn.
func (l *Lobby) SubmitWord(id, word string, now time.Time) (*WordResult, error) {
	if l.Phase != PhasePlaying {
		return nil, ErrWrongPhase
	}
	current := l.Players[l.Turn]
	if current.ID != id {
		return nil, ErrNotYourTurn
	}

	sub := Submission{PlayerName: current.Name, Word: word, Timestamp: now}
	l.Submissions = append(l.Submissions, sub)
	l.Turn = (l.Turn + 1) % len(l.Players)

	all := make([]Submission, len(l.Submissions))
	copy(all, l.Submissions)

	return &WordResult{
		PlayerName: sub.PlayerName,
		Word:       sub.Word,
		Timestamp:  sub.Timestamp,
		NextTurn:   l.Turn,
		NextPlayer: l.Players[l.Turn].Name,
		AllWords:   all,
	}, nil
}

// SubmitVote records (or overwrites) the player's vote. The tally fires
// once the number of voters reaches the current player count, returning all
// vote values and clearing the collection. Returns nil for non-members.
func (l *Lobby) SubmitVote(id, vote string) *VoteResult {
	if l.Player(id) == nil {
		return nil
	}
	l.Votes[id] = vote

	if len(l.Votes) < len(l.Players) {
		return &VoteResult{Count: len(l.Votes), Total: len(l.Players)}
	}

	results := make([]string, 0, len(l.Votes))
	for _, v := range l.Votes {
		results = append(results, v)
	}
	clear(l.Votes)
	return &VoteResult{Done: true, Results: results}
}
