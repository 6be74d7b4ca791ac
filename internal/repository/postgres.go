package repository

import (
	"context"
	"errors"
	"fmt"

	"pullupboard/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no live submission has the given id
	ErrNotFound = errors.New("submission not found")

	// ErrAlreadyReviewed is returned when a submission has left the Pending state
	ErrAlreadyReviewed = errors.New("submission already reviewed")
)

// PostgresRepository handles all PostgreSQL operations
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a new Postgres repository
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// CreateSubmission inserts a new submission
func (r *PostgresRepository) CreateSubmission(ctx context.Context, s *models.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// GetSubmission retrieves a submission by id
func (r *PostgresRepository) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	var s models.Submission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListLeaderboardSubmissions returns approved, featured submissions in
// submission order. Soft-deleted rows are excluded by GORM.
func (r *PostgresRepository) ListLeaderboardSubmissions(ctx context.Context) ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.WithContext(ctx).
		Where("status = ? AND featured = ?", models.StatusApproved, true).
		Order("submission_date ASC").
		Find(&subs).Error
	return subs, err
}

// ListSubmissions returns submissions newest first, optionally by status
func (r *PostgresRepository) ListSubmissions(ctx context.Context, status *models.Status) ([]models.Submission, error) {
	var subs []models.Submission
	q := r.db.WithContext(ctx).Order("submission_date DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Find(&subs).Error
	return subs, err
}

// ListByEmail returns one member's submissions newest first
func (r *PostgresRepository) ListByEmail(ctx context.Context, email string) ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("submission_date DESC").
		Find(&subs).Error
	return subs, err
}

// ReviewSubmission moves a pending submission to its final status.
// Approval marks the submission featured and stores the confirmed count.
func (r *PostgresRepository) ReviewSubmission(ctx context.Context, id string, status models.Status, actual *int) error {
	if status != models.StatusApproved && status != models.StatusRejected {
		return fmt.Errorf("cannot review submission into status %q", status)
	}

	updates := map[string]interface{}{
		"status":   status,
		"featured": status == models.StatusApproved,
	}
	if status == models.StatusApproved && actual != nil {
		updates["actual_pull_up_count"] = *actual
	}

	res := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := r.GetSubmission(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyReviewed
	}
	return nil
}

// CountByStatus returns the number of live submissions per status
func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	var rows []struct {
		Status models.Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.Status]int64{
		models.StatusPending:  0,
		models.StatusApproved: 0,
		models.StatusRejected: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SoftDeleteSubmission hides a submission from every listing
func (r *PostgresRepository) SoftDeleteSubmission(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Submission{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkInsertSubmissions efficiently inserts multiple submissions
func (r *PostgresRepository) BulkInsertSubmissions(ctx context.Context, subs []models.Submission, batchSize int) error {
	return r.db.WithContext(ctx).CreateInBatches(subs, batchSize).Error
}

// Ping checks if database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate runs database migrations
func (r *PostgresRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&models.Submission{})
}
