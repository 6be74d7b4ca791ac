package ranking

import (
	"testing"

	"pullupboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankDistinctScores(t *testing.T) {
	groups := Rank(withScores(30, 25, 28, 22, 20))
	require.Len(t, groups, 5)

	wantScores := []int{30, 28, 25, 22, 20}
	for i, g := range groups {
		assert.Equal(t, wantScores[i], g.Score)
		assert.Equal(t, i+1, g.StartRank)
		assert.Equal(t, i+1, g.EndRank)
		assert.False(t, g.Collapsible())
	}
}

func TestRankSingleTieGroup(t *testing.T) {
	records := make([]models.Submission, 0, 10)
	for i := 0; i < 10; i++ {
		records = append(records, withScores(15)[0])
		records[i].ID = string(rune('a' + i))
		records[i].SubmissionDate = baseDate.AddDate(0, 0, -i)
	}

	groups := Rank(records)
	require.Len(t, groups, 1)
	assert.Equal(t, 15, groups[0].Score)
	assert.Equal(t, 1, groups[0].StartRank)
	assert.Equal(t, 10, groups[0].EndRank)
	assert.Equal(t, 10, groups[0].Size())
	assert.True(t, groups[0].Collapsible())
}

func TestRankTieBreakMostRecentFirst(t *testing.T) {
	older := submission("older", "older@example.com", 20, 5)
	newer := submission("newer", "newer@example.com", 20, 1)
	top := submission("top", "top@example.com", 25, 9)

	groups := Rank([]models.Submission{older, top, newer})
	require.Len(t, groups, 2)

	assert.Equal(t, []string{"top"}, ids(groups[0].Submissions))
	assert.Equal(t, []string{"newer", "older"}, ids(groups[1].Submissions))
	assert.Equal(t, 2, groups[1].StartRank)
	assert.Equal(t, 3, groups[1].EndRank)
	assert.Equal(t, 3, groups[1].RankOf(1))
}

func TestRankContiguity(t *testing.T) {
	inputs := [][]int{
		{1},
		{5, 5, 5},
		{10, 9, 10, 8, 9, 10},
		{0, 0, 25, 3, 25, 7, 7, 7, 1},
	}

	for _, scores := range inputs {
		groups := Rank(withScores(scores...))
		next := 1
		for _, g := range groups {
			assert.Equal(t, next, g.StartRank)
			assert.Equal(t, g.StartRank+g.Size()-1, g.EndRank)
			next = g.EndRank + 1
		}
		assert.Equal(t, len(scores)+1, next, "scores %v", scores)
	}
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, Rank([]models.Submission{}))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	records := withScores(1, 2, 3)
	Rank(records)
	assert.Equal(t, []string{"1", "2", "3"}, ids(records))
}

func TestRankIgnoresClaimWhenConfirmed(t *testing.T) {
	a := submission("a", "a@example.com", 40, 0)
	a.ActualPullUpCount = intPtr(12)
	b := submission("b", "b@example.com", 15, 0)

	before := Rank([]models.Submission{a, b})
	a.PullUpCount = 2
	after := Rank([]models.Submission{a, b})

	require.Len(t, before, 2)
	require.Len(t, after, 2)
	assert.Equal(t, ids(before[0].Submissions), ids(after[0].Submissions))
	assert.Equal(t, []string{"b"}, ids(after[0].Submissions))
	assert.Equal(t, 12, after[1].Score)
}

func TestBoard(t *testing.T) {
	records := []models.Submission{
		submission("1", "a@example.com", 10, 0),
		submission("2", "b@example.com", 22, 1),
		submission("3", "a@example.com", 22, 2),
		submission("4", "c@example.com", 4, 3),
	}

	t.Run("dedupe then rank", func(t *testing.T) {
		groups, err := Board(records, models.LeaderboardFilters{})
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, []string{"2", "3"}, ids(groups[0].Submissions))
		assert.Equal(t, 3, groups[1].StartRank)
	})

	t.Run("filters apply after dedupe", func(t *testing.T) {
		groups, err := Board(records, models.LeaderboardFilters{Badge: "proven"})
		require.NoError(t, err)
		assert.Empty(t, groups)
	})

	t.Run("invalid filter fails fast", func(t *testing.T) {
		_, err := Board(records, models.LeaderboardFilters{AgeGroup: "teen"})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})

	t.Run("invalid record fails fast", func(t *testing.T) {
		bad := append([]models.Submission{}, records...)
		bad[1].Age = -4
		_, err := Board(bad, models.LeaderboardFilters{})
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})
}

func TestFlatten(t *testing.T) {
	subs, ranks := Flatten(Rank(withScores(10, 20, 20, 5)))
	assert.Equal(t, []int{1, 2, 3, 4}, ranks)
	assert.Equal(t, 10, subs[2].EffectiveScore())
}
