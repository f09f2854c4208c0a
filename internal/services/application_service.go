package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/justsurfingit/skycareers/internal/models"
	"github.com/justsurfingit/skycareers/internal/store"
	"github.com/justsurfingit/skycareers/internal/workflow"
)

const (
	MinCoverLetterLength  = 100
	DefaultMaxResumeBytes = 5 << 20
)

var resumeExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID string
}

type ResumeFile struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

type SubmitInput struct {
	JobID       string      `json:"job_id" validate:"required"`
	CoverLetter string      `json:"cover_letter" validate:"required"`
	Phone       string      `json:"phone" validate:"required"`
	Resume      *ResumeFile `json:"resume" validate:"required"`

	// Optional
	AdditionalInfo string `json:"additional_info"`
	LinkedinURL    string `json:"linkedin_url"`
	NoticePeriod   string `json:"notice_period"`
	CurrentSalary  string `json:"current_salary"`
	ExpectedSalary string `json:"expected_salary"`
}

// ApplicationService submits and withdraws job applications. Each operation is a
// strictly sequential run of remote calls; secondary steps (blob cleanup, the
// job's applications_count) are best-effort and only logged.
type ApplicationService struct {
	Applications store.ApplicationRepository
	Jobs         store.JobRepository
	Counter      store.ApplicationCounter
	Blobs        store.BlobStore
	Logger       *log.Logger

	now            func() time.Time
	maxResumeBytes int64
	validate       *validator.Validate
}

type ApplicationOption func(*ApplicationService)

func WithClock(now func() time.Time) ApplicationOption {
	return func(s *ApplicationService) { s.now = now }
}

func WithMaxResumeBytes(n int64) ApplicationOption {
	return func(s *ApplicationService) {
		if n > 0 {
			s.maxResumeBytes = n
		}
	}
}

func NewApplicationService(
	apps store.ApplicationRepository,
	jobs store.JobRepository,
	counter store.ApplicationCounter,
	blobs store.BlobStore,
	logger *log.Logger,
	opts ...ApplicationOption,
) *ApplicationService {
	s := &ApplicationService{
		Applications:   apps,
		Jobs:           jobs,
		Counter:        counter,
		Blobs:          blobs,
		Logger:         logger,
		now:            time.Now,
		maxResumeBytes: DefaultMaxResumeBytes,
		validate:       newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit files a new pending application for caller and returns its id.
func (s *ApplicationService) Submit(ctx context.Context, caller *Caller, in SubmitInput) (string, error) {
	if caller == nil || caller.ID == "" {
		return "", ErrUnauthorized
	}
	if err := s.checkRequired(in); err != nil {
		return "", err
	}
	if utf8.RuneCountInString(in.CoverLetter) < MinCoverLetterLength {
		return "", validationError(ReasonCoverLetterTooShort)
	}

	// A resubmission is a conflict whatever the other fields hold.
	existing, err := s.Applications.FindByJobAndApplicant(ctx, in.JobID, caller.ID)
	if err != nil {
		return "", storageError("check existing application", err)
	}
	if existing != nil {
		return "", &Error{Kind: KindConflict, Reason: ReasonAlreadyApplied}
	}

	ext, err := s.checkResume(in.Resume)
	if err != nil {
		return "", err
	}
	currentSalary, err := parseSalary(in.CurrentSalary)
	if err != nil {
		return "", err
	}
	expectedSalary, err := parseSalary(in.ExpectedSalary)
	if err != nil {
		return "", err
	}

	job, err := s.Jobs.FindByID(ctx, in.JobID)
	if err != nil {
		return "", storageError("load job", err)
	}
	if job == nil {
		return "", &Error{Kind: KindNotFound, Reason: "job"}
	}
	if !job.AcceptsApplications() {
		return "", &Error{Kind: KindConflict, Reason: ReasonJobNotOpen}
	}

	appliedAt := s.now().UTC()
	app := &models.JobApplication{
		ID:             uuid.NewString(),
		JobID:          in.JobID,
		ApplicantID:    caller.ID,
		Status:         models.ApplicationStatusPending,
		CoverLetter:    in.CoverLetter,
		Phone:          in.Phone,
		AdditionalInfo: optional(in.AdditionalInfo),
		LinkedinURL:    optional(in.LinkedinURL),
		NoticePeriod:   optional(in.NoticePeriod),
		CurrentSalary:  currentSalary,
		ExpectedSalary: expectedSalary,
		AppliedAt:      appliedAt,
	}
	key := ResumeKey(caller.ID, in.JobID, appliedAt, ext)

	run := workflow.Runner{Logger: s.Logger, Tag: fmt.Sprintf("[APPLY job=%s user=%s]", in.JobID, caller.ID)}
	err = run.Run(ctx,
		workflow.Step{
			Name: "upload resume",
			Skip: in.Resume.Size == 0,
			Do: func(ctx context.Context) error {
				url, err := s.Blobs.Put(ctx, key, in.Resume.Content, in.Resume.ContentType)
				if err != nil {
					return storageError("upload resume", err)
				}
				app.ResumeURL = &url
				return nil
			},
			Undo: func(ctx context.Context) error {
				return s.Blobs.Remove(ctx, key)
			},
		},
		workflow.Step{
			Name: "insert application",
			Do: func(ctx context.Context) error {
				err := s.Applications.Create(ctx, app)
				if errors.Is(err, store.ErrDuplicate) {
					return &Error{Kind: KindConflict, Reason: ReasonAlreadyApplied, Err: err}
				}
				if err != nil {
					return storageError("insert application", err)
				}
				return nil
			},
		},
		workflow.Step{
			Name:       "increment applications count",
			BestEffort: true,
			Do: func(ctx context.Context) error {
				return s.Counter.Increment(ctx, in.JobID)
			},
		},
	)
	if err != nil {
		return "", err
	}

	s.logf("[APPLY job=%s user=%s] application %s submitted", in.JobID, caller.ID, app.ID)
	return app.ID, nil
}

// Withdraw hard-deletes the caller's application, then its resume and counter contribution.
func (s *ApplicationService) Withdraw(ctx context.Context, caller *Caller, applicationID string) error {
	if caller == nil || caller.ID == "" {
		return ErrUnauthorized
	}
	if applicationID == "" {
		return &Error{Kind: KindNotFound, Reason: "application"}
	}

	app, err := s.Applications.FindByID(ctx, applicationID)
	if err != nil {
		return storageError("load application", err)
	}
	if app == nil {
		return &Error{Kind: KindNotFound, Reason: "application"}
	}
	if app.ApplicantID != caller.ID {
		return &Error{Kind: KindForbidden, Reason: "application belongs to another applicant"}
	}

	run := workflow.Runner{Logger: s.Logger, Tag: fmt.Sprintf("[WITHDRAW app=%s user=%s]", app.ID, caller.ID)}
	err = run.Run(ctx,
		workflow.Step{
			Name: "delete application",
			Do: func(ctx context.Context) error {
				err := s.Applications.Delete(ctx, app.ID)
				if errors.Is(err, store.ErrNotFound) {
					return &Error{Kind: KindNotFound, Reason: "application", Err: err}
				}
				if err != nil {
					return storageError("delete application", err)
				}
				return nil
			},
		},
		workflow.Step{
			Name:       "remove resume",
			BestEffort: true,
			Skip:       app.ResumeURL == nil || *app.ResumeURL == "",
			Do: func(ctx context.Context) error {
				key, ok := s.Blobs.KeyFromURL(*app.ResumeURL)
				if !ok {
					return fmt.Errorf("cannot derive blob key from %q", *app.ResumeURL)
				}
				return s.Blobs.Remove(ctx, key)
			},
		},
		workflow.Step{
			Name:       "decrement applications count",
			BestEffort: true,
			Do: func(ctx context.Context) error {
				return s.Counter.Decrement(ctx, app.JobID)
			},
		},
	)
	if err != nil {
		return err
	}

	s.logf("[WITHDRAW app=%s user=%s] application withdrawn from job %s", app.ID, caller.ID, app.JobID)
	return nil
}

// ListMine returns the caller's applications, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, caller *Caller) ([]models.JobApplication, error) {
	if caller == nil || caller.ID == "" {
		return nil, ErrUnauthorized
	}
	apps, err := s.Applications.ListByApplicant(ctx, caller.ID)
	if err != nil {
		return nil, storageError("list applications", err)
	}
	return apps, nil
}

// ResumeKey names the blob for an applicant's resume: {applicant}/{job}-{unix millis}{ext}.
func ResumeKey(applicantID, jobID string, at time.Time, ext string) string {
	return fmt.Sprintf("%s/%s-%d%s", applicantID, jobID, at.UnixMilli(), ext)
}

func (s *ApplicationService) checkRequired(in SubmitInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return missingField(fieldErrs[0].Field())
	}
	return validationError(err.Error())
}

// checkResume returns the lower-cased extension for the blob key.
func (s *ApplicationService) checkResume(r *ResumeFile) (string, error) {
	if r.Size == 0 {
		return "", nil
	}
	if r.Size > s.maxResumeBytes {
		return "", validationError(ReasonResumeTooLarge)
	}
	ext := strings.ToLower(filepath.Ext(r.Name))
	if !resumeExtensions[ext] {
		return "", validationError(ReasonResumeType)
	}
	if r.Content == nil {
		return "", missingField("resume")
	}
	return ext, nil
}

func (s *ApplicationService) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func parseSalary(v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil, validationError(ReasonInvalidSalary)
	}
	return &n, nil
}
