package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pullupboard/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// SnapshotKey holds the JSON list of leaderboard-visible submissions
	SnapshotKey = "leaderboard:snapshot"

	// VersionKey tracks the global leaderboard version for efficient change detection
	VersionKey = "leaderboard:version"

	// SnapshotHashKey holds the digest of the last stored snapshot payload
	SnapshotHashKey = "leaderboard:snapshot:hash"

	// SnapshotTTL bounds how long a snapshot survives without a refresh
	SnapshotTTL = 30 * time.Minute
)

// storeSnapshotScript writes the snapshot and bumps the version only when
// the payload digest differs from the stored one. Returns 1 on a bump.
var storeSnapshotScript = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
if redis.call('GET', KEYS[2]) == ARGV[2] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2])
redis.call('INCR', KEYS[3])
return 1
`)

// RedisRepository caches leaderboard snapshots in Redis
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a new Redis repository
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{
		client: client,
	}
}

// StoreSnapshot replaces the cached snapshot. The version is bumped only
// when the content changed, so viewers are not told about identical rebuilds.
func (r *RedisRepository) StoreSnapshot(ctx context.Context, subs []models.Submission) error {
	payload, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	sum := sha256.Sum256(payload)
	keys := []string{SnapshotKey, SnapshotHashKey, VersionKey}
	return storeSnapshotScript.Run(ctx, r.client, keys,
		payload, hex.EncodeToString(sum[:]), SnapshotTTL.Milliseconds()).Err()
}

// GetSnapshot returns the cached snapshot; ok is false on a cache miss
func (r *RedisRepository) GetSnapshot(ctx context.Context) ([]models.Submission, bool, error) {
	payload, err := r.client.Get(ctx, SnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var subs []models.Submission
	if err := json.Unmarshal(payload, &subs); err != nil {
		return nil, false, fmt.Errorf("invalid snapshot format: %w", err)
	}
	return subs, true, nil
}

// InvalidateSnapshot drops the cached snapshot and bumps the version
func (r *RedisRepository) InvalidateSnapshot(ctx context.Context) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, SnapshotKey, SnapshotHashKey)
	pipe.Incr(ctx, VersionKey)

	_, err := pipe.Exec(ctx)
	return err
}

// GetLeaderboardVersion returns the current global version number
func (r *RedisRepository) GetLeaderboardVersion(ctx context.Context) (int64, error) {
	version, err := r.client.Get(ctx, VersionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil // Version not set yet
		}
		return 0, err
	}
	return version, nil
}

// Ping checks if Redis is reachable
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
