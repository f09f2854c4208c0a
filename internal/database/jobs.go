package database

import (
	"context"

	"github.com/justsurfingit/skycareers/internal/models"
	"github.com/justsurfingit/skycareers/internal/store"
	"gorm.io/gorm"
)

type JobRepository struct {
	DB *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{DB: db}
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&job).Error
	return found(&job, err)
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.DB.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) ListActive(ctx context.Context, filter store.JobFilter) ([]models.Job, error) {
	q := r.DB.WithContext(ctx).Where("status = ?", models.JobStatusActive)
	if filter.Region != "" {
		q = q.Where("region = ?", filter.Region)
	}
	if filter.ContractType != "" {
		q = q.Where("contract_type = ?", filter.ContractType)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var jobs []models.Job
	err := q.Order("posted_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) IncrementViews(ctx context.Context, id string) error {
	return bump(ctx, r.DB, "views_count", id, 1)
}

// ReconcileApplicationCounts only touches rows whose counter disagrees with the live count.
func (r *JobRepository) ReconcileApplicationCounts(ctx context.Context, jobID string) (int64, error) {
	const liveCount = "(SELECT COUNT(*) FROM job_applications WHERE job_applications.job_id = jobs.id)"

	q := r.DB.WithContext(ctx).Model(&models.Job{}).Where("applications_count <> " + liveCount)
	if jobID != "" {
		q = q.Where("id = ?", jobID)
	}
	res := q.UpdateColumn("applications_count", gorm.Expr(liveCount))
	return res.RowsAffected, res.Error
}

func bump(ctx context.Context, db *gorm.DB, column, id string, delta int) error {
	res := db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
