package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/justsurfingit/skycareers/internal/config"
	"github.com/justsurfingit/skycareers/internal/database"
	"github.com/justsurfingit/skycareers/internal/services"
)

func main() {
	jobID := flag.String("job", "", "Only reconcile this job id (default: every job)")
	timeout := flag.Duration("timeout", 5*time.Minute, "Give up after this long")
	flag.Parse()

	n, err := run(*jobID, *timeout)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Jobs corrected: %d\n", n)
}

func run(jobID string, timeout time.Duration) (int64, error) {
	cfg, err := config.Load()
	if err != nil {
		return 0, fmt.Errorf("invalid configuration: %w", err)
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := database.Connect(cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	jobs := services.NewJobService(database.NewJobRepository(db), database.NewApplicationRepository(db), logger)
	n, err := jobs.ReconcileCounts(ctx, jobID)
	if err != nil {
		return 0, fmt.Errorf("reconcile failed: %w", err)
	}
	return n, nil
}
