package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"pullupboard/internal/config"
	"pullupboard/internal/models"
	"pullupboard/internal/repository"
	"pullupboard/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	TotalAthletes = 2000
	BatchSize     = 500
	Seed          = 2025
)

func main() {
	log.Println("🌱 Starting seeder for the pull-up leaderboard...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initPostgres(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("✓ Connected to PostgreSQL")

	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("✓ Connected to Redis")

	postgresRepo := repository.NewPostgresRepository(db)
	redisRepo := repository.NewRedisRepository(redisClient)
	defer postgresRepo.Close()
	defer redisRepo.Close()

	if err := postgresRepo.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✓ Database migrations completed")

	ctx := context.Background()

	log.Printf("🌱 Generating submissions for %d athletes...", TotalAthletes)
	subs := generateSubmissions(Seed, TotalAthletes, time.Now().UTC())

	log.Println("📦 Inserting submissions into PostgreSQL...")
	start := time.Now()
	if err := postgresRepo.BulkInsertSubmissions(ctx, subs, BatchSize); err != nil {
		log.Fatalf("Failed to seed PostgreSQL: %v", err)
	}
	elapsed := time.Since(start)
	log.Printf("   ✓ Inserted %d submissions in %v (%.0f rows/sec)",
		len(subs), elapsed, float64(len(subs))/elapsed.Seconds())

	log.Println("⚡ Rebuilding leaderboard snapshot...")
	if err := redisRepo.InvalidateSnapshot(ctx); err != nil {
		log.Fatalf("Failed to drop stale snapshot: %v", err)
	}
	leaderboard := service.NewLeaderboardService(postgresRepo, redisRepo)
	if err := leaderboard.RefreshSnapshot(ctx); err != nil {
		log.Fatalf("Failed to refresh snapshot: %v", err)
	}

	counts, err := postgresRepo.CountByStatus(ctx)
	if err != nil {
		log.Fatalf("Failed to count submissions: %v", err)
	}
	log.Printf("✅ Seeding completed: approved=%d pending=%d rejected=%d",
		counts[models.StatusApproved], counts[models.StatusPending], counts[models.StatusRejected])

	preview, err := leaderboard.GetPreview(ctx, 10)
	if err != nil {
		log.Fatalf("Failed to read leaderboard: %v", err)
	}

	log.Println("📊 Top 10:")
	for _, e := range preview.Data {
		badge := "-"
		if e.Badge != nil {
			badge = e.Badge.Name
		}
		log.Printf("   %d. %s (%s) - %d pull-ups [%s]", e.Rank, e.FullName, e.ClubAffiliation, e.PullUps, badge)
	}

	log.Println("🎉 Seeder finished!")
}

// initPostgres initializes PostgreSQL connection
func initPostgres(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// initRedis initializes Redis connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
