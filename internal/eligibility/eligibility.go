// Package eligibility decides when a member may send a new submission.
package eligibility

import (
	"math"
	"time"

	"pullupboard/internal/models"
)

// Cooldown is the waiting period after an approved or pending submission
const Cooldown = 30 * 24 * time.Hour

const day = 24 * time.Hour

// Gate returns the most recent Approved or Pending submission of a history
func Gate(history []models.Submission) (models.Submission, bool) {
	var gate models.Submission
	found := false
	for _, s := range history {
		if s.Status != models.StatusApproved && s.Status != models.StatusPending {
			continue
		}
		if !found || s.SubmissionDate.After(gate.SubmissionDate) {
			gate = s
			found = true
		}
	}
	return gate, found
}

// HasRejection reports whether any submission in the history was rejected.
// A single rejection anywhere in the history clears the cooldown.
func HasRejection(history []models.Submission) bool {
	for _, s := range history {
		if s.Status == models.StatusRejected {
			return true
		}
	}
	return false
}

// CanSubmit evaluates one member's history at instant now.
func CanSubmit(history []models.Submission, now time.Time) models.Eligibility {
	gate, ok := Gate(history)
	if !ok {
		return models.Eligibility{Allowed: true, Resubmission: HasRejection(history)}
	}

	next := gate.SubmissionDate.Add(Cooldown)

	if HasRejection(history) {
		return models.Eligibility{
			Allowed:         true,
			Resubmission:    true,
			NextAvailableAt: &next,
		}
	}

	remaining := int(math.Ceil(float64(next.Sub(now)) / float64(day)))
	return models.Eligibility{
		Allowed:         remaining <= 0,
		DaysRemaining:   remaining,
		NextAvailableAt: &next,
	}
}
