// internal/game/stats.go
//
// Pure per-player statistics derived from recorded turns.
// A play contributes to the aggregate iff it is not the skip sentinel and
// has not been soft-removed; edited and bingo-flagged plays count like any
// other (the bingo bonus is already baked into Points).

package game

// Stats holds the derived figures for one player.
type Stats struct {
	TotalScore    int     `json:"totalScore"`
	AveragePoints float64 `json:"averagePoints"`
	HighestWord   *Play   `json:"highestWord"`
	WordCount     int     `json:"wordCount"`
}

// ComputeStats aggregates a player's history. It never mutates the input
// and is safe to call repeatedly and concurrently; HighestWord points at a
// copy, not into the player's turns.
//
// On a points tie the earliest contributing play wins, so repeated calls on
// identical input always return the same play.
func ComputeStats(p *Player) Stats {
	var st Stats
	var best *Play
	for _, t := range p.Turns {
		if t == nil {
			continue
		}
		for i := range t.Plays {
			play := t.Plays[i]
			if play.IsSkip() || play.IsRemoved {
				continue
			}
			st.TotalScore += play.Points
			st.WordCount++
			if best == nil || play.Points > best.Points {
				cp := play
				best = &cp
			}
		}
	}
	if st.WordCount > 0 {
		st.AveragePoints = float64(st.TotalScore) / float64(st.WordCount)
	}
	st.HighestWord = best
	return st
}
