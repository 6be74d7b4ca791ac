package service

import (
	"context"
	"time"

	"pullupboard/internal/models"
	"pullupboard/internal/worker"
)

var fixedNow = time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func approved(id, email string, pullUps int, daysAgo int) models.Submission {
	return models.Submission{
		ID:              id,
		FullName:        "Athlete " + id,
		Email:           email,
		Age:             31,
		Gender:          models.GenderMale,
		Region:          "Europe",
		ClubAffiliation: "Iron Grip",
		PullUpCount:     pullUps,
		VideoLink:       "https://youtube.com/watch?v=" + id,
		SubmissionDate:  fixedNow.AddDate(0, 0, -daysAgo),
		Status:          models.StatusApproved,
		Featured:        true,
	}
}

type fakeStore struct {
	get             func(ctx context.Context, id string) (*models.Submission, error)
	listLeaderboard func(ctx context.Context) ([]models.Submission, error)
	ping            func(ctx context.Context) error
	create          func(ctx context.Context, s *models.Submission) error
	listByEmail     func(ctx context.Context, email string) ([]models.Submission, error)
	list            func(ctx context.Context, status *models.Status) ([]models.Submission, error)
	count           func(ctx context.Context) (map[models.Status]int64, error)
	review          func(ctx context.Context, id string, status models.Status, actual *int) error
	softDelete      func(ctx context.Context, id string) error
}

func (f *fakeStore) ListLeaderboardSubmissions(ctx context.Context) ([]models.Submission, error) {
	if f.listLeaderboard != nil {
		return f.listLeaderboard(ctx)
	}
	return nil, nil
}

func (f *fakeStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	if f.get != nil {
		return f.get(ctx, id)
	}
	return nil, nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if f.ping != nil {
		return f.ping(ctx)
	}
	return nil
}

func (f *fakeStore) CreateSubmission(ctx context.Context, s *models.Submission) error {
	if f.create != nil {
		return f.create(ctx, s)
	}
	return nil
}

func (f *fakeStore) ListByEmail(ctx context.Context, email string) ([]models.Submission, error) {
	if f.listByEmail != nil {
		return f.listByEmail(ctx, email)
	}
	return nil, nil
}

func (f *fakeStore) ListSubmissions(ctx context.Context, status *models.Status) ([]models.Submission, error) {
	if f.list != nil {
		return f.list(ctx, status)
	}
	return nil, nil
}

func (f *fakeStore) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	if f.count != nil {
		return f.count(ctx)
	}
	return map[models.Status]int64{}, nil
}

func (f *fakeStore) ReviewSubmission(ctx context.Context, id string, status models.Status, actual *int) error {
	if f.review != nil {
		return f.review(ctx, id, status, actual)
	}
	return nil
}

func (f *fakeStore) SoftDeleteSubmission(ctx context.Context, id string) error {
	if f.softDelete != nil {
		return f.softDelete(ctx, id)
	}
	return nil
}

// memCache is an in-memory SnapshotCache
type memCache struct {
	subs     []models.Submission
	present  bool
	version  int64
	getErr   error
	storeErr error
	stores   int
}

func (c *memCache) GetSnapshot(ctx context.Context) ([]models.Submission, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.subs, c.present, nil
}

func (c *memCache) StoreSnapshot(ctx context.Context, subs []models.Submission) error {
	c.stores++
	if c.storeErr != nil {
		return c.storeErr
	}
	c.subs, c.present = subs, true
	c.version++
	return nil
}

func (c *memCache) GetLeaderboardVersion(ctx context.Context) (int64, error) {
	return c.version, nil
}

func (c *memCache) Ping(ctx context.Context) error { return nil }

type fakeQueue struct {
	tasks []worker.RefreshTask
	err   error
}

func (q *fakeQueue) Submit(task worker.RefreshTask) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}
