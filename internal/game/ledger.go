// internal/game/ledger.go
//
// The game ledger: single owner of the authoritative session state.
// Responsibilities:
//   - Player lifecycle (add/remove/rename, reset) with pre-game guards.
//   - Recording plays and advancing turns round-robin.
//   - Post-hoc corrections: edit, bingo toggle, soft remove/undo.
//   - Ranking players by total score (stable on ties).
//   - Persisting a snapshot through the Store port after every committed
//     mutation; a failed save is logged and never fails the mutation.
//
// Every operation is a total function over malformed input: invalid words,
// unparseable points, unknown ids and out-of-range indices are silent
// no-ops, and an operation either fully applies or not at all.

package game

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store is the durable snapshot port the ledger persists through.
// Implementations live in internal/store.
type Store interface {
	// Save persists the session snapshot.
	Save(ctx context.Context, s *State) error

	// Load retrieves the saved snapshot.
	// Returns (nil, nil) when no usable snapshot exists.
	Load(ctx context.Context) (*State, error)
}

// Ledger owns the mutable game state. All access goes through its methods;
// the mutex makes each operation atomic with respect to readers.
type Ledger struct {
	mu       sync.Mutex
	state    *State
	store    Store
	onChange func(*State)
}

// NewLedger restores the ledger from the store, falling back to the default
// two-player state when nothing usable was saved. A blob that parses but
// breaks the state invariants counts as corrupt and is discarded the same
// way — restored state must never be able to crash a later mutation.
func NewLedger(ctx context.Context, st Store) *Ledger {
	l := &Ledger{store: st}
	if saved, err := st.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("load saved state")
	} else if saved != nil {
		if consistent(saved) {
			l.state = saved
		} else {
			log.Warn().Msg("discarding inconsistent snapshot")
		}
	}
	if l.state == nil {
		l.state = DefaultState()
	}
	return l
}

// consistent checks the invariants every stored state must satisfy: rounds
// are 1-based and the active player index addresses a real seat whenever
// any seats exist.
func consistent(s *State) bool {
	if s.GameRound < 1 || s.CurrentPlayerIndex < 0 {
		return false
	}
	if len(s.Players) > 0 && s.CurrentPlayerIndex >= len(s.Players) {
		return false
	}
	return true
}

// DefaultState is a fresh two-player session at round 1.
func DefaultState() *State {
	return &State{
		Players: []*Player{
			{ID: uuid.NewString(), Name: "Player 1", Turns: []*Turn{}},
			{ID: uuid.NewString(), Name: "Player 2", Turns: []*Turn{}},
		},
		CurrentPlayerIndex: 0,
		GameRound:          1,
	}
}

// OnChange registers a hook receiving a snapshot of every committed state.
// Used by the HTTP layer to fan out updates; must be set before the ledger
// is shared.
func (l *Ledger) OnChange(fn func(*State)) { l.onChange = fn }

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() *State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Clone()
}

// AddPlayer appends a new player with a fresh id and a default name.
// No-op once the game has started or at the player cap.
func (l *Ledger) AddPlayer(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started() || len(l.state.Players) >= MaxPlayers {
		return false
	}
	l.state.Players = append(l.state.Players, &Player{
		ID:    uuid.NewString(),
		Name:  "Player " + strconv.Itoa(len(l.state.Players)+1),
		Turns: []*Turn{},
	})
	l.commit(ctx)
	return true
}

// RemovePlayer deletes a player by id and resets the active player to the
// first seat. No-op once the game has started, when the id is unknown, or
// when only one player would remain.
func (l *Ledger) RemovePlayer(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started() || len(l.state.Players) <= 1 {
		return false
	}
	idx := l.playerIndex(id)
	if idx < 0 {
		return false
	}
	l.state.Players = append(l.state.Players[:idx], l.state.Players[idx+1:]...)
	l.state.CurrentPlayerIndex = 0
	l.commit(ctx)
	return true
}

// RenamePlayer sets a player's display name. No-op when the id is unknown
// or the new name trims to empty.
func (l *Ledger) RenamePlayer(ctx context.Context, id, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.playerIndex(id)
	if idx < 0 {
		return false
	}
	l.state.Players[idx].Name = name
	l.commit(ctx)
	return true
}

// ResetGame clears all turns and returns to round 1 with the first player
// active. Irreversible; confirming intent is the caller's job.
func (l *Ledger) ResetGame(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.state.Players {
		p.Turns = []*Turn{}
	}
	l.state.CurrentPlayerIndex = 0
	l.state.GameRound = 1
	l.commit(ctx)
}

// SubmitPlay records a word for the current player in the current round.
// points must parse as an integer (sign unconstrained); the word is trimmed
// and uppercased before storage. A turn holding only the skip sentinel is
// replaced rather than appended to, so a player who passed can still score
// in the same round before it advances. Never advances the turn.
func (l *Ledger) SubmitPlay(ctx context.Context, word, points string) bool {
	word = NormalizeWord(word)
	if word == "" {
		return false
	}
	pts, err := strconv.Atoi(strings.TrimSpace(points))
	if err != nil {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.state.Players) == 0 {
		return false
	}
	p := l.state.Players[l.state.CurrentPlayerIndex]
	round := l.state.GameRound - 1
	play := Play{Word: word, Points: pts}

	if t := p.turnAt(round); t != nil {
		kept := t.Plays[:0]
		for _, existing := range t.Plays {
			if !existing.IsSkip() {
				kept = append(kept, existing)
			}
		}
		t.Plays = append(kept, play)
	} else {
		p.setTurnAt(round, &Turn{Plays: []Play{play}, Timestamp: time.Now()})
	}
	l.commit(ctx)
	return true
}

// EndTurn advances play to the next seat. When the current player has not
// acted this round, a turn holding the skip sentinel is recorded first; an
// existing turn is never altered. Wrapping back to the first seat starts
// the next round. No deduplication is attempted: calling twice advances
// twice.
func (l *Ledger) EndTurn(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.state.Players) == 0 {
		return false
	}
	p := l.state.Players[l.state.CurrentPlayerIndex]
	round := l.state.GameRound - 1
	if p.turnAt(round) == nil {
		p.setTurnAt(round, &Turn{
			Plays:     []Play{{Word: SkipWord, Points: 0}},
			Timestamp: time.Now(),
		})
	}

	next := (l.state.CurrentPlayerIndex + 1) % len(l.state.Players)
	l.state.CurrentPlayerIndex = next
	if next == 0 {
		l.state.GameRound++
	}
	l.commit(ctx)
	return true
}

// PlayUpdate is a partial update for ModifyPlay. Nil fields are left
// untouched; Word and Points form an edit, Bingo toggles the fixed bonus,
// Removed soft-deletes or restores the play.
type PlayUpdate struct {
	Word    *string `json:"word,omitempty"`
	Points  *int    `json:"points,omitempty"`
	Bingo   *bool   `json:"isBingo,omitempty"`
	Removed *bool   `json:"isRemoved,omitempty"`
}

// ModifyPlay applies a partial update to the play addressed by player id,
// zero-based round and index within the round's turn. No-op when the
// target does not exist or an edited word trims to empty.
//
// Bingo toggling is symmetric and idempotent: enabling adds exactly
// BingoBonus to the stored points, disabling subtracts it, and setting the
// flag to its current value changes nothing. Remove/undo never alter word
// or points.
func (l *Ledger) ModifyPlay(ctx context.Context, playerID string, round, playIdx int, upd PlayUpdate) bool {
	var word string
	if upd.Word != nil {
		word = NormalizeWord(*upd.Word)
		if word == "" {
			return false
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.playerIndex(playerID)
	if idx < 0 {
		return false
	}
	t := l.state.Players[idx].turnAt(round)
	if t == nil || playIdx < 0 || playIdx >= len(t.Plays) {
		return false
	}
	play := &t.Plays[playIdx]

	changed := false
	if upd.Word != nil {
		play.Word = word
		play.IsEdited = true
		changed = true
	}
	if upd.Points != nil {
		play.Points = *upd.Points
		play.IsEdited = true
		changed = true
	}
	if upd.Bingo != nil && *upd.Bingo != play.IsBingo {
		if *upd.Bingo {
			play.Points += BingoBonus
		} else {
			play.Points -= BingoBonus
		}
		play.IsBingo = *upd.Bingo
		changed = true
	}
	if upd.Removed != nil && *upd.Removed != play.IsRemoved {
		play.IsRemoved = *upd.Removed
		changed = true
	}
	if !changed {
		return false
	}
	l.commit(ctx)
	return true
}

// Standing pairs a player snapshot with its derived statistics.
type Standing struct {
	Player Player `json:"player"`
	Stats  Stats  `json:"stats"`
}

// RankedPlayers returns all players ordered by total score descending.
// Players with equal scores keep their seat order.
func (l *Ledger) RankedPlayers() []Standing {
	snap := l.Snapshot()
	out := make([]Standing, len(snap.Players))
	for i, p := range snap.Players {
		out[i] = Standing{Player: *p, Stats: ComputeStats(p)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stats.TotalScore > out[j].Stats.TotalScore
	})
	return out
}

// started reports whether any player has recorded a turn.
// Caller must hold l.mu.
func (l *Ledger) started() bool {
	for _, p := range l.state.Players {
		if p.hasActed() {
			return true
		}
	}
	return false
}

// playerIndex finds a player's seat by id, -1 if unknown.
// Caller must hold l.mu.
func (l *Ledger) playerIndex(id string) int {
	for i, p := range l.state.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// commit persists and publishes the state after an applied mutation.
// The in-memory state stays authoritative even when the save fails.
// Caller must hold l.mu.
func (l *Ledger) commit(ctx context.Context) {
	snap := l.state.Clone()
	if err := l.store.Save(ctx, snap); err != nil {
		log.Warn().Err(err).Msg("persist game state")
	}
	if l.onChange != nil {
		l.onChange(snap)
	}
}
