// Package workflow runs a fixed sequence of remote calls where each step may
// declare how to undo itself.
//
// A failing primary step aborts the run: the Undo of every step that already
// completed is invoked in reverse order, and undo failures are logged only.
// A failing BestEffort step is logged and the run carries on.
package workflow

import (
	"context"
	"log"
)

type Step struct {
	Name string
	Do   func(ctx context.Context) error
	// Undo compensates a completed Do. Optional.
	Undo       func(ctx context.Context) error
	BestEffort bool
	// Skip leaves the step out of the run entirely.
	Skip bool
}

type Runner struct {
	Logger *log.Logger
	// Tag prefixes every log line, e.g. "[APPLY job=... user=...]".
	Tag string
}

// Run returns the error of the first failing primary step, unchanged.
func (r Runner) Run(ctx context.Context, steps ...Step) error {
	done := make([]Step, 0, len(steps))
	for _, s := range steps {
		if s.Skip {
			continue
		}
		if err := s.Do(ctx); err != nil {
			if s.BestEffort {
				r.logf("step %s failed (ignored): %v", s.Name, err)
				continue
			}
			r.logf("step %s failed: %v", s.Name, err)
			r.rollback(ctx, done)
			return err
		}
		done = append(done, s)
	}
	return nil
}

func (r Runner) rollback(ctx context.Context, done []Step) {
	// Compensation must run even when the request context is already cancelled.
	ctx = context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		s := done[i]
		if s.Undo == nil {
			continue
		}
		if err := s.Undo(ctx); err != nil {
			r.logf("rollback of %s failed: %v", s.Name, err)
			continue
		}
		r.logf("rolled back %s", s.Name)
	}
}

func (r Runner) logf(format string, args ...any) {
	if r.Logger == nil {
		return
	}
	if r.Tag != "" {
		format = r.Tag + " " + format
	}
	r.Logger.Printf(format, args...)
}
