package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerWithPlays(plays ...Play) *Player {
	return &Player{
		ID:    "p1",
		Name:  "Player 1",
		Turns: []*Turn{{Plays: plays}},
	}
}

func TestComputeStatsSinglePlay(t *testing.T) {
	p := playerWithPlays(Play{Word: "CAT", Points: 10})

	st := ComputeStats(p)
	assert.Equal(t, 10, st.TotalScore)
	assert.Equal(t, 1, st.WordCount)
	assert.Equal(t, 10.0, st.AveragePoints)
	require.NotNil(t, st.HighestWord)
	assert.Equal(t, "CAT", st.HighestWord.Word)
}

func TestComputeStatsAverage(t *testing.T) {
	p := playerWithPlays(
		Play{Word: "CAT", Points: 10},
		Play{Word: "HOUSE", Points: 20},
	)

	st := ComputeStats(p)
	assert.Equal(t, 30, st.TotalScore)
	assert.Equal(t, 15.0, st.AveragePoints)
}

func TestComputeStatsBingoBakedIn(t *testing.T) {
	// The bonus already lives in Points; it must not be added again.
	p := playerWithPlays(Play{Word: "QUIXOTIC", Points: 65, IsBingo: true})

	st := ComputeStats(p)
	assert.Equal(t, 65, st.TotalScore)
	assert.Equal(t, 1, st.WordCount)
}

func TestComputeStatsExcludesRemoved(t *testing.T) {
	p := playerWithPlays(
		Play{Word: "KEEP", Points: 20},
		Play{Word: "DELETE", Points: 50, IsRemoved: true},
	)

	st := ComputeStats(p)
	assert.Equal(t, 20, st.TotalScore)
	assert.Equal(t, 1, st.WordCount)
	require.NotNil(t, st.HighestWord)
	assert.Equal(t, "KEEP", st.HighestWord.Word)
}

func TestComputeStatsExcludesSkips(t *testing.T) {
	p := playerWithPlays(Play{Word: SkipWord, Points: 0})

	st := ComputeStats(p)
	assert.Equal(t, 0, st.TotalScore)
	assert.Equal(t, 0, st.WordCount)
	assert.Equal(t, 0.0, st.AveragePoints)
	assert.Nil(t, st.HighestWord)
}

func TestComputeStatsLegacySkipSentinel(t *testing.T) {
	// Saved states from older revisions used an em-dash for passes.
	p := playerWithPlays(
		Play{Word: "—", Points: 0},
		Play{Word: "JAZZ", Points: 29},
	)

	st := ComputeStats(p)
	assert.Equal(t, 29, st.TotalScore)
	assert.Equal(t, 1, st.WordCount)
}

func TestComputeStatsIncludesEdited(t *testing.T) {
	p := playerWithPlays(Play{Word: "FIXED", Points: 12, IsEdited: true})

	st := ComputeStats(p)
	assert.Equal(t, 12, st.TotalScore)
	assert.Equal(t, 1, st.WordCount)
}

func TestComputeStatsHighestWordTieDeterministic(t *testing.T) {
	p := playerWithPlays(
		Play{Word: "FIRST", Points: 30},
		Play{Word: "SECOND", Points: 30},
	)

	// Same input ordering must always resolve the tie the same way.
	for i := 0; i < 10; i++ {
		st := ComputeStats(p)
		require.NotNil(t, st.HighestWord)
		assert.Equal(t, "FIRST", st.HighestWord.Word)
	}
}

func TestComputeStatsSpansTurnsAndSkipsNilRounds(t *testing.T) {
	p := &Player{
		ID:   "p1",
		Name: "Player 1",
		Turns: []*Turn{
			{Plays: []Play{{Word: "CAT", Points: 5}}},
			nil,
			{Plays: []Play{{Word: "DOG", Points: 7}, {Word: "OX", Points: 9}}},
		},
	}

	st := ComputeStats(p)
	assert.Equal(t, 21, st.TotalScore)
	assert.Equal(t, 3, st.WordCount)
	assert.Equal(t, 7.0, st.AveragePoints)
	require.NotNil(t, st.HighestWord)
	assert.Equal(t, "OX", st.HighestWord.Word)
}

func TestComputeStatsDoesNotMutateInput(t *testing.T) {
	p := playerWithPlays(Play{Word: "CAT", Points: 10})

	st := ComputeStats(p)
	require.NotNil(t, st.HighestWord)
	st.HighestWord.Points = 999

	assert.Equal(t, 10, p.Turns[0].Plays[0].Points)
}
