package ranking

import (
	"sort"

	"pullupboard/internal/models"
)

// RankGroup is a run of submissions sharing one effective score.
// StartRank and EndRank are 1-based and inclusive.
type RankGroup struct {
	Score       int
	StartRank   int
	EndRank     int
	Submissions []models.Submission
}

// Size returns the number of submissions in the group
func (g RankGroup) Size() int {
	return len(g.Submissions)
}

// Collapsible reports whether the group is shown as a rank range that
// starts collapsed
func (g RankGroup) Collapsible() bool {
	return g.Size() > 1
}

// RankOf returns the individual rank of the i-th member of the group
func (g RankGroup) RankOf(i int) int {
	return g.StartRank + i
}

// Sort orders submissions by effective score, highest first. Equal scores
// put the more recent submission first; this is a display choice, not a
// claim that the later attempt was better. The input is not modified.
func Sort(records []models.Submission) []models.Submission {
	sorted := make([]models.Submission, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].EffectiveScore(), sorted[j].EffectiveScore()
		if a != b {
			return a > b
		}
		return sorted[i].SubmissionDate.After(sorted[j].SubmissionDate)
	})

	return sorted
}

// Rank sorts the submissions and clusters equal scores into groups with
// contiguous rank ranges. Empty input yields no groups.
func Rank(records []models.Submission) []RankGroup {
	sorted := Sort(records)
	groups := make([]RankGroup, 0)

	nextRank := 1
	for i := 0; i < len(sorted); {
		score := sorted[i].EffectiveScore()
		j := i + 1
		for j < len(sorted) && sorted[j].EffectiveScore() == score {
			j++
		}

		groups = append(groups, RankGroup{
			Score:       score,
			StartRank:   nextRank,
			EndRank:     nextRank + (j - i) - 1,
			Submissions: sorted[i:j:j],
		})

		nextRank += j - i
		i = j
	}

	return groups
}

// Board runs the full leaderboard pipeline: validate, dedupe, filter, rank.
func Board(records []models.Submission, f models.LeaderboardFilters) ([]RankGroup, error) {
	for _, rec := range records {
		if err := Validate(rec); err != nil {
			return nil, err
		}
	}

	filtered, err := Filter(Dedupe(records), f)
	if err != nil {
		return nil, err
	}

	return Rank(filtered), nil
}

// Flatten lists every submission of the groups in rank order with its rank
func Flatten(groups []RankGroup) ([]models.Submission, []int) {
	var subs []models.Submission
	var ranks []int
	for _, g := range groups {
		for i, s := range g.Submissions {
			subs = append(subs, s)
			ranks = append(ranks, g.RankOf(i))
		}
	}
	return subs, ranks
}
