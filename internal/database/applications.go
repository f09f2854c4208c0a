package database

import (
	"context"
	"errors"

	"github.com/justsurfingit/skycareers/internal/models"
	"github.com/justsurfingit/skycareers/internal/store"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	DB *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{DB: db}
}

func (r *ApplicationRepository) FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.DB.WithContext(ctx).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		First(&app).Error
	return found(&app, err)
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&app).Error
	return found(&app, err)
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	err := r.DB.WithContext(ctx).Create(app).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicate
	}
	return err
}

func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.JobApplication{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListByApplicant returns the applicant's applications with their job, newest first.
func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID string) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := r.DB.WithContext(ctx).
		Preload("Job").
		Where("applicant_id = ?", applicantID).
		Order("applied_at DESC").
		Find(&apps).Error
	return apps, err
}

func found[T any](row *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
