// internal/game/types.go
//
// Core type definitions for the score ledger.
// Defines:
//   - Play: one recorded word-and-points entry within a turn.
//   - Turn: the set of plays a player recorded in one round.
//   - Player: a scored participant with per-round turns.
//   - State: the authoritative game state persisted between sessions.

package game

import (
	"strings"
	"time"
)

const (
	// SkipWord is the canonical sentinel stored for a passed turn.
	// Older saved states used an em-dash glyph instead; both forms are
	// recognized on read (see IsSkipWord).
	SkipWord       = "PASSED"
	legacySkipWord = "—"

	// BingoBonus is the fixed adjustment applied when a play is marked
	// as a bingo. The bonus is baked into Play.Points, never computed
	// separately.
	BingoBonus = 50

	// MaxPlayers caps the number of participants in a session.
	MaxPlayers = 4
)

// Play holds a single word submission. Points carry the bingo bonus
// already applied when IsBingo is set.
type Play struct {
	Word      string `json:"word"`
	Points    int    `json:"points"`
	IsEdited  bool   `json:"isEdited,omitempty"`
	IsBingo   bool   `json:"isBingo,omitempty"`
	IsRemoved bool   `json:"isRemoved,omitempty"`
}

// IsSkip reports whether this play is the "turn skipped" sentinel.
func (p Play) IsSkip() bool { return IsSkipWord(p.Word) }

// Turn is one player's plays during one round. A Turn exists exactly when
// the player has recorded at least one play (including a skip) for that
// round; once created it is only ever mutated, never deleted.
type Turn struct {
	Plays     []Play    `json:"plays"`
	Timestamp time.Time `json:"timestamp"`
}

// Player is a scored participant.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Turns is sparse, indexed by zero-based round: entry r is nil until
	// the player acts in round r+1. nil entries serialize as JSON null.
	Turns []*Turn `json:"turns"`
}

// State is the ledger's authoritative root, exactly the shape persisted
// by the store.
type State struct {
	Players            []*Player `json:"players"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	GameRound          int       `json:"gameRound"`
}

// IsSkipWord reports whether w is the skip sentinel, accepting the legacy
// em-dash form found in older saved states.
func IsSkipWord(w string) bool {
	return w == SkipWord || w == legacySkipWord
}

// NormalizeWord trims and uppercases a submitted word.
func NormalizeWord(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}

// turnAt returns the player's turn for a zero-based round, or nil if the
// player has not acted in that round.
func (p *Player) turnAt(round int) *Turn {
	if round < 0 || round >= len(p.Turns) {
		return nil
	}
	return p.Turns[round]
}

// setTurnAt stores a turn at a zero-based round, growing the sparse
// sequence with nil gaps as needed.
func (p *Player) setTurnAt(round int, t *Turn) {
	for len(p.Turns) <= round {
		p.Turns = append(p.Turns, nil)
	}
	p.Turns[round] = t
}

// hasActed reports whether the player has recorded any turn at all.
func (p *Player) hasActed() bool {
	for _, t := range p.Turns {
		if t != nil {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the state. Snapshots handed to callers and
// to the store must never alias the ledger's live state.
func (s *State) Clone() *State {
	cp := &State{
		Players:            make([]*Player, len(s.Players)),
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		GameRound:          s.GameRound,
	}
	for i, p := range s.Players {
		np := &Player{ID: p.ID, Name: p.Name}
		if p.Turns != nil {
			np.Turns = make([]*Turn, len(p.Turns))
			for j, t := range p.Turns {
				if t == nil {
					continue
				}
				nt := &Turn{Timestamp: t.Timestamp, Plays: make([]Play, len(t.Plays))}
				copy(nt.Plays, t.Plays)
				np.Turns[j] = nt
			}
		}
		cp.Players[i] = np
	}
	return cp
}
