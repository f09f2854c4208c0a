// Package store declares the collaborators the application workflow talks to:
// the relational store, the per-job application counter and the resume blob store.
package store

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"
	"errors"
	"io"

	"github.com/justsurfingit/skycareers/internal/models"
)

var (
	// ErrNotFound is returned when a keyed lookup or delete matches no row.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("store: duplicate record")
)

// JobFilter narrows ListActive. Empty fields match everything.
type JobFilter struct {
	Region       string
	ContractType string
	Limit        int
}

type ApplicationRepository interface {
	// FindByJobAndApplicant returns nil, nil when the pair has no application.
	FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*models.JobApplication, error)
	// FindByID returns nil, nil when no application has the id.
	FindByID(ctx context.Context, id string) (*models.JobApplication, error)
	Create(ctx context.Context, app *models.JobApplication) error
	// Delete hard-deletes the row, ErrNotFound if it was already gone.
	Delete(ctx context.Context, id string) error
	ListByApplicant(ctx context.Context, applicantID string) ([]models.JobApplication, error)
}

type JobRepository interface {
	// FindByID returns nil, nil when no job has the id.
	FindByID(ctx context.Context, id string) (*models.Job, error)
	Create(ctx context.Context, job *models.Job) error
	ListActive(ctx context.Context, filter JobFilter) ([]models.Job, error)
	IncrementViews(ctx context.Context, id string) error
	// ReconcileApplicationCounts rewrites applications_count from the live rows for
	// every drifted job (or only jobID when non-empty) and reports how many changed.
	ReconcileApplicationCounts(ctx context.Context, jobID string) (int64, error)
}

// ApplicationCounter adjusts a job's applications_count atomically on the store side.
type ApplicationCounter interface {
	Increment(ctx context.Context, jobID string) error
	Decrement(ctx context.Context, jobID string) error
}

type BlobStore interface {
	// Put stores the content under key and returns its public URL. Existing keys are never overwritten.
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	// KeyFromURL maps a URL returned by Put back to its key.
	KeyFromURL(url string) (string, bool)
}
