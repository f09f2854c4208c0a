package database

import (
	"context"

	"github.com/justsurfingit/skycareers/internal/models"
	"gorm.io/gorm"
)

// ApplicationCounter keeps jobs.applications_count with single UPDATE statements
// so concurrent submissions never lose an update.
type ApplicationCounter struct {
	DB *gorm.DB
}

func NewApplicationCounter(db *gorm.DB) *ApplicationCounter {
	return &ApplicationCounter{DB: db}
}

func (c *ApplicationCounter) Increment(ctx context.Context, jobID string) error {
	return bump(ctx, c.DB, "applications_count", jobID, 1)
}

// Decrement is floored at zero; a job already at zero is left untouched.
func (c *ApplicationCounter) Decrement(ctx context.Context, jobID string) error {
	return c.DB.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND applications_count > 0", jobID).
		UpdateColumn("applications_count", gorm.Expr("applications_count - 1")).Error
}
