package ranking

import "pullupboard/internal/models"

// Dedupe keeps one submission per email: the one with the highest effective
// score. On equal scores the first one seen stays. Output keeps the order in
// which each email first appeared.
func Dedupe(records []models.Submission) []models.Submission {
	out := make([]models.Submission, 0, len(records))
	index := make(map[string]int, len(records))

	for _, rec := range records {
		pos, seen := index[rec.Email]
		if !seen {
			index[rec.Email] = len(out)
			out = append(out, rec)
			continue
		}
		if rec.EffectiveScore() > out[pos].EffectiveScore() {
			out[pos] = rec
		}
	}

	return out
}
