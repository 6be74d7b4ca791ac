package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pullupboard/internal/api"
	"pullupboard/internal/api/handlers"
	"pullupboard/internal/api/middleware"
	"pullupboard/internal/config"
	"pullupboard/internal/jobs"
	"pullupboard/internal/repository"
	"pullupboard/internal/service"
	"pullupboard/internal/storage"
	"pullupboard/internal/websocket"
	"pullupboard/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
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

	if err := postgresRepo.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✓ Database migrations completed")

	leaderboardService := service.NewLeaderboardService(postgresRepo, redisRepo)
	submissionService := service.NewSubmissionService(postgresRepo)

	// Review actions refresh the snapshot asynchronously
	workerPool := worker.NewWorkerPool(cfg.Worker.Count, cfg.Worker.QueueSize, leaderboardService)
	workerPool.Start()
	reviewService := service.NewReviewService(postgresRepo, workerPool)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub(redisRepo)
	go hub.Run(ctx)

	var publisher jobs.Publisher
	if cfg.Snapshot.ExportEnabled() {
		client, err := storage.NewS3Client(ctx, cfg.Snapshot)
		if err != nil {
			log.Fatalf("Failed to configure snapshot export: %v", err)
		}
		publisher = storage.NewExporter(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix)
		log.Printf("✓ Snapshot export to bucket %s/%s", cfg.Snapshot.Bucket, cfg.Snapshot.Prefix)
	}

	snapshotJob := jobs.NewSnapshotManager(leaderboardService, publisher, jobs.SnapshotConfig{
		Interval: cfg.Snapshot.Interval,
	})
	if err := snapshotJob.Start(); err != nil {
		log.Printf("⚠️ Failed to start snapshot job: %v", err)
	}

	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	metrics.Gauge("websocket_clients", "Connected leaderboard viewers", func() float64 {
		return float64(hub.GetClientCount())
	})

	submitLimit := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	submitLimit.OnLimit(metrics.RateLimited)
	go submitLimit.Cleanup(ctx, 3*time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      "Pull-Up Challenge Leaderboard",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api.Register(app, api.Routes{
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
		Submissions: handlers.NewSubmissionHandler(submissionService),
		Admin:       handlers.NewAdminHandler(reviewService, workerPool, snapshotJob, hub.GetClientCount),
		Hub:         hub,
		JWTSecret:   cfg.Auth.JWTSecret,
		AdminRole:   cfg.Auth.AdminRole,
		SubmitLimit: submitLimit,
		Metrics:     metrics,
		MetricsHTTP: promhttp.Handler(),
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Pull-Up Challenge Leaderboard API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/leaderboard",
				"GET /api/v1/leaderboard/preview",
				"GET /api/v1/leaderboard/search/:email",
				"GET /api/v1/badges",
				"GET /api/v1/health",
				"GET|POST /api/v1/me/submissions",
				"GET /api/v1/me/eligibility",
				"GET /api/v1/admin/submissions",
				"WS /ws (WebSocket)",
			},
			"websocket_clients": hub.GetClientCount(),
		})
	})

	// Graceful shutdown: job, then HTTP, then pending refreshes, then connections
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("🛑 Shutting down server...")

		snapshotJob.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}

		log.Println("🔄 Flushing worker pool (pending snapshot refreshes)...")
		if err := workerPool.Shutdown(30 * time.Second); err != nil {
			log.Printf("Worker pool shutdown error: %v", err)
		}

		cancel()

		if err := postgresRepo.Close(); err != nil {
			log.Printf("Error closing PostgreSQL: %v", err)
		}
		if err := redisRepo.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}

		log.Println("✓ Server shutdown complete")
	}()

	port := cfg.Server.Port
	log.Printf("🚀 Server starting on port %d...", port)
	if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initPostgres opens the database with a bounded connection pool
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

	// Workers plus request handlers share the pool
	maxOpen := cfg.Worker.Count + 10
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	log.Printf("✓ PostgreSQL connection pool configured: MaxOpen=%d, MaxIdle=%d", maxOpen, 5)
	return db, nil
}

// initRedis connects to the snapshot cache
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     20,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   "Request failed",
		"message": err.Error(),
	})
}
