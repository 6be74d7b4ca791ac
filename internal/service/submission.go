package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pullupboard/internal/eligibility"
	"pullupboard/internal/models"

	"github.com/google/uuid"
)

// ErrCooldownActive is returned when a member submits before the cooldown ends
var ErrCooldownActive = errors.New("submission cooldown active")

// SubmissionStore is the record store as seen by members
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, s *models.Submission) error
	ListByEmail(ctx context.Context, email string) ([]models.Submission, error)
}

// SubmissionService handles member submissions and eligibility
type SubmissionService struct {
	store SubmissionStore
	now   func() time.Time
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(store SubmissionStore) *SubmissionService {
	return &SubmissionService{store: store, now: time.Now}
}

// Eligibility reports whether the member may submit right now
func (s *SubmissionService) Eligibility(ctx context.Context, email string) (models.Eligibility, error) {
	history, err := s.store.ListByEmail(ctx, email)
	if err != nil {
		return models.Eligibility{}, fmt.Errorf("failed to load history: %w", err)
	}
	return eligibility.CanSubmit(history, s.now()), nil
}

// Submit records a new pending submission for the member if allowed
func (s *SubmissionService) Submit(ctx context.Context, email string, req models.SubmissionRequest) (*models.Submission, error) {
	history, err := s.store.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	now := s.now()
	elig := eligibility.CanSubmit(history, now)
	if !elig.Allowed {
		return nil, fmt.Errorf("%w: next submission available in %d days", ErrCooldownActive, elig.DaysRemaining)
	}

	club := strings.TrimSpace(req.ClubAffiliation)
	if club == "" {
		club = models.NoClub
	}

	sub := &models.Submission{
		ID:              uuid.NewString(),
		FullName:        strings.TrimSpace(req.FullName),
		Email:           email,
		Phone:           req.Phone,
		Age:             req.Age,
		Gender:          req.Gender,
		Region:          req.Region,
		ClubAffiliation: club,
		PullUpCount:     req.PullUpCount,
		VideoLink:       req.VideoLink,
		SubmissionDate:  now.UTC(),
		Status:          models.StatusPending,
		Featured:        false,
		SocialHandle:    trimHandle(req.SocialHandle),
	}

	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return sub, nil
}

// Dashboard returns the member's submissions with badges and eligibility
func (s *SubmissionService) Dashboard(ctx context.Context, email string) (*models.MemberDashboard, error) {
	history, err := s.store.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	views := make([]models.MemberSubmission, len(history))
	for i, sub := range history {
		views[i] = memberView(sub)
	}

	return &models.MemberDashboard{
		Submissions: views,
		Eligibility: eligibility.CanSubmit(history, s.now()),
	}, nil
}

// trimHandle strips a leading @ so handles are stored bare
func trimHandle(h *string) *string {
	if h == nil {
		return nil
	}
	v := strings.TrimPrefix(strings.TrimSpace(*h), "@")
	if v == "" {
		return nil
	}
	return &v
}
