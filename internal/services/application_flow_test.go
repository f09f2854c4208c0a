package services

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/justsurfingit/skycareers/internal/database"
	"github.com/justsurfingit/skycareers/internal/models"
	"github.com/justsurfingit/skycareers/internal/storage"
	"gorm.io/gorm"
)

// flow wires the services to SQLite and a temp-dir blob store.
type flow struct {
	db    *gorm.DB
	apps  *database.ApplicationRepository
	blobs *storage.LocalStorage
	svc   *ApplicationService
	jobs  *JobService
	dir   string
}

func newFlow(t *testing.T) *flow {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(sqlite.Open(filepath.Join(dir, "flow.db")))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}
	f := &flow{
		db:    db,
		apps:  database.NewApplicationRepository(db),
		blobs: storage.NewLocalStorage(filepath.Join(dir, "blobs"), "http://files.test/resumes"),
		dir:   dir,
	}
	jobs := database.NewJobRepository(db)
	logger := log.New(io.Discard, "", 0)
	f.svc = NewApplicationService(f.apps, jobs, database.NewApplicationCounter(db), f.blobs, logger)
	f.jobs = NewJobService(jobs, f.apps, logger)
	return f
}

func (f *flow) seedJob(t *testing.T) *models.Job {
	t.Helper()
	job := &models.Job{Title: "A320 First Officer", AirlineName: "Sky Air", Status: models.JobStatusActive, PostedBy: "recruiter"}
	if err := f.db.Create(job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}

func (f *flow) applicationsCount(t *testing.T, jobID string) int64 {
	t.Helper()
	var job models.Job
	if err := f.db.First(&job, "id = ?", jobID).Error; err != nil {
		t.Fatal(err)
	}
	return job.ApplicationsCount
}

func (f *flow) apply(ctx context.Context, caller *Caller, jobID string) (string, error) {
	return f.svc.Submit(ctx, caller, SubmitInput{
		JobID:       jobID,
		CoverLetter: strings.Repeat("I have 3000 hours on type. ", 5),
		Phone:       "+44 7700 900000",
		Resume: &ResumeFile{
			Name:        "resume.pdf",
			Size:        int64(len("%PDF-1.7")),
			ContentType: "application/pdf",
			Content:     strings.NewReader("%PDF-1.7"),
		},
	})
}

func TestFlow_TwoApplicantsSameJob(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()
	job := f.seedJob(t)

	a, err := f.apply(ctx, &Caller{ID: "pilot-a"}, job.ID)
	if err != nil {
		t.Fatalf("A: %v", err)
	}
	b, err := f.apply(ctx, &Caller{ID: "pilot-b"}, job.ID)
	if err != nil {
		t.Fatalf("B: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct application ids")
	}
	if n := f.applicationsCount(t, job.ID); n != 2 {
		t.Fatalf("applications_count = %d, want 2", n)
	}
}

func TestFlow_SecondSubmissionConflicts(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()
	job := f.seedJob(t)
	caller := &Caller{ID: "pilot-a"}

	id, err := f.apply(ctx, caller, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.apply(ctx, caller, job.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("second submission: err = %v, want conflict", err)
	}

	app, err := f.apps.FindByID(ctx, id)
	if err != nil || app == nil {
		t.Fatalf("FindByID = %v, %v", app, err)
	}
	if app.Status != models.ApplicationStatusPending || app.AppliedAt.IsZero() {
		t.Fatalf("stored application = %+v", app)
	}
	if n := f.applicationsCount(t, job.ID); n != 1 {
		t.Fatalf("applications_count = %d, want 1", n)
	}
}

func TestFlow_WithdrawThenReapply(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()
	job := f.seedJob(t)
	caller := &Caller{ID: "pilot-a"}

	id, err := f.apply(ctx, caller, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	app, _ := f.apps.FindByID(ctx, id)
	key, ok := f.blobs.KeyFromURL(*app.ResumeURL)
	if !ok {
		t.Fatalf("resume url %q not owned by blob store", *app.ResumeURL)
	}
	blobPath := filepath.Join(f.dir, "blobs", filepath.FromSlash(key))
	if _, err := os.Stat(blobPath); err != nil {
		t.Fatalf("resume not stored: %v", err)
	}

	if err := f.svc.Withdraw(ctx, caller, id); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if got, _ := f.apps.FindByJobAndApplicant(ctx, job.ID, caller.ID); got != nil {
		t.Fatal("application still present after withdrawal")
	}
	if _, err := os.Stat(blobPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("resume still stored: %v", err)
	}
	if n := f.applicationsCount(t, job.ID); n != 0 {
		t.Fatalf("applications_count = %d, want 0", n)
	}
	if err := f.svc.Withdraw(ctx, caller, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second withdrawal: err = %v, want not found", err)
	}

	if _, err := f.apply(ctx, caller, job.ID); err != nil {
		t.Fatalf("re-application: %v", err)
	}
}

func TestFlow_StrangerCannotWithdraw(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()
	job := f.seedJob(t)

	id, err := f.apply(ctx, &Caller{ID: "pilot-a"}, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Withdraw(ctx, &Caller{ID: "pilot-b"}, id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}

	app, _ := f.apps.FindByID(ctx, id)
	if app == nil {
		t.Fatal("row removed by a stranger")
	}
	key, _ := f.blobs.KeyFromURL(*app.ResumeURL)
	if _, err := os.Stat(filepath.Join(f.dir, "blobs", filepath.FromSlash(key))); err != nil {
		t.Fatalf("blob removed by a stranger: %v", err)
	}
}

func TestFlow_ListMineAndReconcile(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()
	first := f.seedJob(t)
	second := f.seedJob(t)
	caller := &Caller{ID: "pilot-a"}

	for _, j := range []*models.Job{first, second} {
		if _, err := f.apply(ctx, caller, j.ID); err != nil {
			t.Fatal(err)
		}
	}
	mine, err := f.svc.ListMine(ctx, caller)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 || mine[0].Job == nil {
		t.Fatalf("ListMine = %d apps (job preloaded: %v)", len(mine), len(mine) > 0 && mine[0].Job != nil)
	}

	// Simulate drift left by failed counter updates.
	f.db.Model(&models.Job{}).Where("id = ?", first.ID).UpdateColumn("applications_count", 7)

	n, err := f.jobs.ReconcileCounts(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("reconciled %d jobs, want 1", n)
	}
	if got := f.applicationsCount(t, first.ID); got != 1 {
		t.Fatalf("applications_count = %d, want 1", got)
	}
}

func TestFlow_JobDetailReportsApplicationState(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()
	job := f.seedJob(t)
	caller := &Caller{ID: "pilot-a"}

	detail, err := f.jobs.GetJob(ctx, caller, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.HasApplied || !detail.CanApply || detail.Job.ViewsCount != 1 {
		t.Fatalf("before applying: %+v views=%d", detail, detail.Job.ViewsCount)
	}

	if _, err := f.apply(ctx, caller, job.ID); err != nil {
		t.Fatal(err)
	}
	detail, err = f.jobs.GetJob(ctx, caller, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !detail.HasApplied || detail.CanApply {
		t.Fatalf("after applying: %+v", detail)
	}

	anon, err := f.jobs.GetJob(ctx, nil, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if anon.Job.ViewsCount != 2 {
		t.Fatalf("anonymous view counted: views=%d", anon.Job.ViewsCount)
	}

	if _, err := f.jobs.GetJob(ctx, caller, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing job: err = %v", err)
	}
}
