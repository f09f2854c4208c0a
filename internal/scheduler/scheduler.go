// Package scheduler runs periodic maintenance inside the API process.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Reconciler repairs denormalised applications_count values.
type Reconciler interface {
	ReconcileCounts(ctx context.Context, jobID string) (int64, error)
}

// StartReconciler schedules a full count reconcile. The returned cron is
// already running; stop it on shutdown.
func StartReconciler(schedule string, r Reconciler, timeout time.Duration, logger *log.Logger) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { reconcileOnce(r, timeout, logger) }); err != nil {
		return nil, err
	}
	c.Start()
	logger.Printf("Scheduled applications_count reconcile: %s", schedule)
	return c, nil
}

func reconcileOnce(r Reconciler, timeout time.Duration, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := r.ReconcileCounts(ctx, "")
	if err != nil {
		logger.Printf("⚠️ Scheduled reconcile failed: %v", err)
		return
	}
	if n > 0 {
		logger.Printf("Scheduled reconcile corrected %d job(s)", n)
	}
}
