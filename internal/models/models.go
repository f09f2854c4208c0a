package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusActive          JobStatus = "active"
	JobStatusClosed          JobStatus = "closed"
	JobStatusDraft           JobStatus = "draft"
	JobStatusPendingApproval JobStatus = "pending_approval"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

type Job struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title          string    `gorm:"not null" json:"title"`
	AirlineName    string    `gorm:"not null" json:"airline_name"`
	AirlineLogoURL *string   `json:"airline_logo_url"`
	ContractType   string    `gorm:"size:20;index" json:"contract_type"` // Full-time, Part-time, Contract, Freelance
	Region         string    `gorm:"index" json:"region"`
	Country        string    `json:"country"`
	City           *string   `json:"city"`
	Description    string    `gorm:"type:text" json:"description"`
	Requirements   *string   `gorm:"type:text" json:"requirements"`
	SalaryMin      *int      `json:"salary_min"`
	SalaryMax      *int      `json:"salary_max"`
	SalaryCurrency string    `gorm:"size:3;default:USD" json:"salary_currency"`
	Status         JobStatus `gorm:"size:20;default:active;index" json:"status"`
	PostedBy       string    `gorm:"size:36;not null" json:"posted_by"`
	PostedAt       time.Time `json:"posted_at"`
	IsFeatured     bool      `json:"is_featured"`

	ViewsCount int64 `gorm:"not null;default:0" json:"views_count"`
	// Denormalized; must track the number of live JobApplication rows.
	ApplicationsCount int64 `gorm:"not null;default:0" json:"applications_count"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.PostedAt.IsZero() {
		j.PostedAt = time.Now().UTC()
	}
	return nil
}

// AcceptsApplications reports whether new applications may be filed against the job.
func (j *Job) AcceptsApplications() bool {
	return j.Status == JobStatusActive
}

type JobApplication struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// One application per (job, applicant).
	JobID       string `gorm:"size:36;not null;uniqueIndex:idx_job_applicant" json:"job_id"`
	ApplicantID string `gorm:"size:36;not null;uniqueIndex:idx_job_applicant;index" json:"applicant_id"`
	Job         *Job   `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`

	Status         ApplicationStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CoverLetter    string            `gorm:"type:text;not null" json:"cover_letter"`
	ResumeURL      *string           `json:"resume_url"`
	Phone          string            `gorm:"not null" json:"phone"`
	AdditionalInfo *string           `gorm:"type:text" json:"additional_info"`
	LinkedinURL    *string           `json:"linkedin_url"`
	NoticePeriod   *string           `json:"notice_period"`
	CurrentSalary  *int              `json:"current_salary"`
	ExpectedSalary *int              `json:"expected_salary"`
	AppliedAt      time.Time         `gorm:"not null;index" json:"applied_at"`
}

func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now().UTC()
	}
	return nil
}
