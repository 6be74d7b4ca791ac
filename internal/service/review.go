package service

import (
	"context"
	"fmt"
	"log"

	"pullupboard/internal/models"
	"pullupboard/internal/worker"
)

// ReviewStore is the record store as seen by reviewers
type ReviewStore interface {
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	ListSubmissions(ctx context.Context, status *models.Status) ([]models.Submission, error)
	CountByStatus(ctx context.Context) (map[models.Status]int64, error)
	ReviewSubmission(ctx context.Context, id string, status models.Status, actual *int) error
	SoftDeleteSubmission(ctx context.Context, id string) error
}

// TaskQueue accepts snapshot refresh tasks
type TaskQueue interface {
	Submit(task worker.RefreshTask) error
}

// ReviewService handles the admin review workflow
type ReviewService struct {
	store ReviewStore
	queue TaskQueue
}

// NewReviewService creates a new review service
func NewReviewService(store ReviewStore, queue TaskQueue) *ReviewService {
	return &ReviewService{store: store, queue: queue}
}

// Queue lists submissions for review, optionally narrowed to one status
func (s *ReviewService) Queue(ctx context.Context, status *models.Status) (*models.ReviewQueueResponse, error) {
	subs, err := s.store.ListSubmissions(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	views := make([]models.MemberSubmission, len(subs))
	for i, sub := range subs {
		views[i] = memberView(sub)
	}

	return &models.ReviewQueueResponse{Data: views, Counts: counts, Status: status}, nil
}

// Get returns one submission with its badge
func (s *ReviewService) Get(ctx context.Context, id string) (*models.MemberSubmission, error) {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	view := memberView(*sub)
	return &view, nil
}

// Approve confirms a pending submission with the reviewer's count
func (s *ReviewService) Approve(ctx context.Context, id string, actual *int) error {
	if err := s.store.ReviewSubmission(ctx, id, models.StatusApproved, actual); err != nil {
		return err
	}
	s.enqueueRefresh("approve", id)
	return nil
}

// Reject closes a pending submission without a confirmed count
func (s *ReviewService) Reject(ctx context.Context, id string) error {
	if err := s.store.ReviewSubmission(ctx, id, models.StatusRejected, nil); err != nil {
		return err
	}
	s.enqueueRefresh("reject", id)
	return nil
}

// Delete soft-deletes a submission
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if err := s.store.SoftDeleteSubmission(ctx, id); err != nil {
		return err
	}
	s.enqueueRefresh("delete", id)
	return nil
}

// enqueueRefresh schedules a snapshot rebuild; the write already succeeded,
// so a full queue only delays the leaderboard until the next job run.
func (s *ReviewService) enqueueRefresh(reason, id string) {
	if err := s.queue.Submit(worker.RefreshTask{Reason: reason, SubmissionID: id}); err != nil {
		log.Printf("Snapshot refresh not queued after %s of %s: %v", reason, id, err)
	}
}
