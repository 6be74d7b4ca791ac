package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pullupboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmissions(history []models.Submission) (*SubmissionService, *[]*models.Submission) {
	var created []*models.Submission
	store := &fakeStore{
		listByEmail: func(ctx context.Context, email string) ([]models.Submission, error) {
			return history, nil
		},
		create: func(ctx context.Context, s *models.Submission) error {
			created = append(created, s)
			return nil
		},
	}
	svc := NewSubmissionService(store)
	svc.now = func() time.Time { return fixedNow }
	return svc, &created
}

func validRequest() models.SubmissionRequest {
	handle := " @pullking "
	return models.SubmissionRequest{
		FullName:     "  Jordan Reyes ",
		Age:          27,
		Gender:       models.GenderOther,
		Region:       "Oceania",
		PullUpCount:  18,
		VideoLink:    "https://youtube.com/watch?v=abc",
		SocialHandle: &handle,
	}
}

func TestSubmitCreatesPendingRecord(t *testing.T) {
	svc, created := newSubmissions(nil)

	sub, err := svc.Submit(context.Background(), "jordan@example.com", validRequest())
	require.NoError(t, err)
	require.Len(t, *created, 1)

	_, err = uuid.Parse(sub.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, sub.Status)
	assert.False(t, sub.Featured)
	assert.Nil(t, sub.ActualPullUpCount)
	assert.Equal(t, "Jordan Reyes", sub.FullName)
	assert.Equal(t, "None", sub.ClubAffiliation)
	assert.Equal(t, fixedNow, sub.SubmissionDate)
	require.NotNil(t, sub.SocialHandle)
	assert.Equal(t, "pullking", *sub.SocialHandle)
}

func TestSubmitHonorsCooldown(t *testing.T) {
	recent := approved("old", "jordan@example.com", 15, 10)

	svc, created := newSubmissions([]models.Submission{recent})
	_, err := svc.Submit(context.Background(), "jordan@example.com", validRequest())
	assert.ErrorIs(t, err, ErrCooldownActive)
	assert.Empty(t, *created)

	rejected := approved("bad", "jordan@example.com", 40, 2)
	rejected.Status = models.StatusRejected
	svc, created = newSubmissions([]models.Submission{recent, rejected})
	_, err = svc.Submit(context.Background(), "jordan@example.com", validRequest())
	assert.NoError(t, err)
	assert.Len(t, *created, 1)
}

func TestSubmitSurfacesStoreErrors(t *testing.T) {
	store := &fakeStore{create: func(ctx context.Context, s *models.Submission) error {
		return errors.New("unique violation")
	}}
	svc := NewSubmissionService(store)

	_, err := svc.Submit(context.Background(), "jordan@example.com", validRequest())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCooldownActive)
}

func TestEligibilityReportsDaysRemaining(t *testing.T) {
	svc, _ := newSubmissions([]models.Submission{approved("x", "m@example.com", 9, 10)})

	elig, err := svc.Eligibility(context.Background(), "m@example.com")
	require.NoError(t, err)
	assert.False(t, elig.Allowed)
	assert.Equal(t, 20, elig.DaysRemaining)
	require.NotNil(t, elig.NextAvailableAt)
	assert.Equal(t, fixedNow.AddDate(0, 0, 20), *elig.NextAvailableAt)
}

func TestDashboardAttachesBadges(t *testing.T) {
	confirmed := approved("x", "m@example.com", 30, 40)
	confirmed.ActualPullUpCount = intPtr(19)
	pending := approved("y", "m@example.com", 4, 1)
	pending.Status = models.StatusPending

	svc, _ := newSubmissions([]models.Submission{confirmed, pending})
	dash, err := svc.Dashboard(context.Background(), "m@example.com")
	require.NoError(t, err)

	require.Len(t, dash.Submissions, 2)
	assert.Equal(t, 19, dash.Submissions[0].PullUps)
	require.NotNil(t, dash.Submissions[0].Badge)
	assert.Equal(t, "hardened", dash.Submissions[0].Badge.ID)
	assert.Nil(t, dash.Submissions[1].Badge)
	assert.False(t, dash.Eligibility.Allowed)
	assert.Equal(t, 29, dash.Eligibility.DaysRemaining)
}
