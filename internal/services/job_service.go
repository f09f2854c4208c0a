package services

import (
	"context"
	"log"
	"strings"

	"github.com/justsurfingit/skycareers/internal/dtos"
	"github.com/justsurfingit/skycareers/internal/models"
	"github.com/justsurfingit/skycareers/internal/store"
)

type JobService struct {
	Jobs         store.JobRepository
	Applications store.ApplicationRepository
	Logger       *log.Logger
}

func NewJobService(jobs store.JobRepository, apps store.ApplicationRepository, logger *log.Logger) *JobService {
	return &JobService{
		Jobs:         jobs,
		Applications: apps,
		Logger:       logger,
	}
}

// JobDetail is a job as seen by one caller.
type JobDetail struct {
	Job        *models.Job `json:"job"`
	HasApplied bool        `json:"has_applied"`
	CanApply   bool        `json:"can_apply"`
}

func (s *JobService) CreateJob(ctx context.Context, caller *Caller, req *dtos.JobCreationRequest) (*models.Job, error) {
	if caller == nil || caller.ID == "" {
		return nil, ErrUnauthorized
	}
	job := &models.Job{
		Title:          req.Title,
		AirlineName:    req.AirlineName,
		AirlineLogoURL: optional(req.AirlineLogoURL),
		ContractType:   req.ContractType,
		Region:         req.Region,
		Country:        req.Country,
		City:           optional(req.City),
		Description:    req.Description,
		Requirements:   optional(req.Requirements),
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		SalaryCurrency: strings.ToUpper(req.SalaryCurrency),
		Status:         models.JobStatus(req.Status),
		PostedBy:       caller.ID,
	}
	if job.Status == "" {
		job.Status = models.JobStatusActive
	}
	if job.SalaryCurrency == "" {
		job.SalaryCurrency = "USD"
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return nil, validationError("salary_min exceeds salary_max")
	}
	if err := s.Jobs.Create(ctx, job); err != nil {
		return nil, storageError("create job", err)
	}
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context, filter store.JobFilter) ([]models.Job, error) {
	jobs, err := s.Jobs.ListActive(ctx, filter)
	if err != nil {
		return nil, storageError("list jobs", err)
	}
	return jobs, nil
}

// GetJob loads a job. For a signed-in caller it also counts the view and
// reports whether the caller may still apply.
func (s *JobService) GetJob(ctx context.Context, caller *Caller, id string) (*JobDetail, error) {
	job, err := s.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("load job", err)
	}
	if job == nil {
		return nil, &Error{Kind: KindNotFound, Reason: "job"}
	}

	detail := &JobDetail{Job: job}
	if caller == nil || caller.ID == "" {
		return detail, nil
	}

	if err := s.Jobs.IncrementViews(ctx, id); err != nil {
		s.logf("[JOB %s] failed to count view: %v", id, err)
	} else {
		job.ViewsCount++
	}

	existing, err := s.Applications.FindByJobAndApplicant(ctx, id, caller.ID)
	if err != nil {
		return nil, storageError("check existing application", err)
	}
	detail.HasApplied = existing != nil
	detail.CanApply = !detail.HasApplied && job.AcceptsApplications()
	return detail, nil
}

// ReconcileCounts repairs applications_count drift left behind by best-effort
// counter updates. An empty jobID reconciles every job.
func (s *JobService) ReconcileCounts(ctx context.Context, jobID string) (int64, error) {
	n, err := s.Jobs.ReconcileApplicationCounts(ctx, jobID)
	if err != nil {
		return 0, storageError("reconcile applications count", err)
	}
	s.logf("Reconciled applications_count on %d job(s)", n)
	return n, nil
}

func (s *JobService) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
