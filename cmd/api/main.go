package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justsurfingit/skycareers/internal/config"
	"github.com/justsurfingit/skycareers/internal/database"
	"github.com/justsurfingit/skycareers/internal/middleware"
	"github.com/justsurfingit/skycareers/internal/routes"
	"github.com/justsurfingit/skycareers/internal/scheduler"
	"github.com/justsurfingit/skycareers/internal/services"
	"github.com/justsurfingit/skycareers/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource so its deferred cleanups finish before main exits.
func run() error {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Database Connection
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// 3. Initialize Store Adapters
	apps := database.NewApplicationRepository(db)
	jobs := database.NewJobRepository(db)
	counter := database.NewApplicationCounter(db)
	files := storage.NewLocalStorage(cfg.StorageDir, cfg.StoragePublicURL)

	// 4. Initialize Core Services
	applicationService := services.NewApplicationService(apps, jobs, counter, files, logger,
		services.WithMaxResumeBytes(cfg.MaxResumeBytes))
	jobService := services.NewJobService(jobs, apps, logger)

	// 5. Rate Limiting (Redis when configured, otherwise per-instance)
	var limiter middleware.Limiter
	if cfg.RedisAddr != "" {
		rdb, err := middleware.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimitPerHour, time.Hour)
		log.Println("✅ Connected to Redis, using shared rate limits")
	} else {
		mem := middleware.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		mem.StartJanitor(ctx, 2*time.Minute)
		limiter = mem
	}

	// 6. Background count repair
	if cfg.ReconcileSchedule != "off" {
		c, err := scheduler.StartReconciler(cfg.ReconcileSchedule, jobService, time.Minute, logger)
		if err != nil {
			return fmt.Errorf("invalid RECONCILE_SCHEDULE: %w", err)
		}
		defer c.Stop()
	}

	// 7. Setup Router
	r := routes.SetupRoutes(routes.Deps{
		Config:       cfg,
		Applications: applicationService,
		Jobs:         jobService,
		Files:        files,
		Limiter:      limiter,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
