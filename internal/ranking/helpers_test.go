package ranking

import (
	"fmt"
	"time"

	"pullupboard/internal/models"
)

var baseDate = time.Date(2025, time.June, 12, 14, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

// submission builds an approved record with sane defaults
func submission(id, email string, pullUps int, daysAgo int) models.Submission {
	return models.Submission{
		ID:              id,
		FullName:        "Athlete " + id,
		Email:           email,
		Age:             28,
		Gender:          models.GenderMale,
		Region:          "North America",
		ClubAffiliation: "Battle Bunker Elite",
		PullUpCount:     pullUps,
		VideoLink:       "https://youtube.com/watch?v=" + id,
		SubmissionDate:  baseDate.Add(-time.Duration(daysAgo) * 24 * time.Hour),
		Status:          models.StatusApproved,
		Featured:        true,
	}
}

func withScores(scores ...int) []models.Submission {
	out := make([]models.Submission, len(scores))
	for i, s := range scores {
		id := fmt.Sprintf("%d", i+1)
		out[i] = submission(id, "athlete"+id+"@example.com", s, i)
	}
	return out
}

func ids(subs []models.Submission) []string {
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.ID
	}
	return out
}
