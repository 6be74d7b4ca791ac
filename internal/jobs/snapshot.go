package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"pullupboard/internal/models"

	"github.com/go-co-op/gocron/v2"
)

// BoardSource is what the job reads the leaderboard from
type BoardSource interface {
	RefreshSnapshot(ctx context.Context) error
	GetLeaderboard(ctx context.Context, filters models.LeaderboardFilters) (*models.LeaderboardResponse, error)
	Clubs(ctx context.Context) ([]string, error)
}

// Publisher uploads exported boards
type Publisher interface {
	LatestKey() string
	ClubKey(club string) string
	PutJSON(ctx context.Context, key string, v any) error
}

// SnapshotConfig holds configuration for the snapshot job
type SnapshotConfig struct {
	Interval time.Duration // Default: 5m
	Timeout  time.Duration // Default: 30s per run
}

// SnapshotManager periodically rebuilds the cached leaderboard and,
// when a publisher is set, exports the ranked boards.
type SnapshotManager struct {
	board     BoardSource
	publisher Publisher
	interval  time.Duration
	timeout   time.Duration

	mu        sync.Mutex
	scheduler gocron.Scheduler
	running   atomic.Bool

	runs      atomic.Int64
	failures  atomic.Int64
	exports   atomic.Int64
	lastRunAt atomic.Int64
}

// NewSnapshotManager creates a new snapshot manager; publisher may be nil
func NewSnapshotManager(board BoardSource, publisher Publisher, config SnapshotConfig) *SnapshotManager {
	if config.Interval <= 0 {
		config.Interval = 5 * time.Minute
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &SnapshotManager{
		board:     board,
		publisher: publisher,
		interval:  config.Interval,
		timeout:   config.Timeout,
	}
}

// Start schedules the job; the first run happens immediately
func (sm *SnapshotManager) Start() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.running.Load() {
		return fmt.Errorf("snapshot job already running")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(sm.interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
			defer cancel()
			if err := sm.RunOnce(ctx); err != nil {
				log.Printf("[Snapshot] run failed: %v", err)
			}
		}),
		gocron.WithName("leaderboard-snapshot"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule snapshot job: %w", err)
	}

	sched.Start()
	sm.scheduler = sched
	sm.running.Store(true)

	log.Printf("🚀 Snapshot job started (interval: %v, export: %t)", sm.interval, sm.publisher != nil)
	return nil
}

// Stop shuts the scheduler down, waiting for an in-flight run
func (sm *SnapshotManager) Stop() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.running.Load() {
		return
	}

	if err := sm.scheduler.Shutdown(); err != nil {
		log.Printf("⚠️ Snapshot scheduler shutdown: %v", err)
	}
	sm.running.Store(false)
	log.Printf("✅ Snapshot job stopped (runs: %d, failures: %d, exports: %d)",
		sm.runs.Load(), sm.failures.Load(), sm.exports.Load())
}

// IsRunning returns whether the job is scheduled
func (sm *SnapshotManager) IsRunning() bool {
	return sm.running.Load()
}

// RunOnce refreshes the snapshot and exports it if a publisher is set
func (sm *SnapshotManager) RunOnce(ctx context.Context) error {
	sm.runs.Add(1)
	sm.lastRunAt.Store(time.Now().Unix())

	if err := sm.board.RefreshSnapshot(ctx); err != nil {
		sm.failures.Add(1)
		return fmt.Errorf("refresh: %w", err)
	}

	if sm.publisher == nil {
		return nil
	}

	if err := sm.export(ctx); err != nil {
		sm.failures.Add(1)
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// export uploads the full board and one board per club. A failing club
// does not stop the others; all failures are reported together.
func (sm *SnapshotManager) export(ctx context.Context) error {
	all, err := sm.board.GetLeaderboard(ctx, models.LeaderboardFilters{})
	if err != nil {
		return err
	}
	if err := sm.publisher.PutJSON(ctx, sm.publisher.LatestKey(), all); err != nil {
		return err
	}
	sm.exports.Add(1)

	clubs, err := sm.board.Clubs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, club := range clubs {
		board, err := sm.board.GetLeaderboard(ctx, models.LeaderboardFilters{Club: club})
		if err != nil {
			errs = append(errs, fmt.Errorf("club %q: %w", club, err))
			continue
		}
		if err := sm.publisher.PutJSON(ctx, sm.publisher.ClubKey(club), board); err != nil {
			errs = append(errs, err)
			continue
		}
		sm.exports.Add(1)
	}
	return errors.Join(errs...)
}

// GetMetrics returns current job metrics
func (sm *SnapshotManager) GetMetrics() map[string]interface{} {
	var lastRun string
	if ts := sm.lastRunAt.Load(); ts > 0 {
		lastRun = time.Unix(ts, 0).UTC().Format(time.RFC3339)
	}

	return map[string]interface{}{
		"running":  sm.running.Load(),
		"interval": sm.interval.String(),
		"runs":     sm.runs.Load(),
		"failures": sm.failures.Load(),
		"exports":  sm.exports.Load(),
		"last_run": lastRun,
	}
}
