package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/internal/generation"
	"github.com/bloomcrate/bloomcrate-backend/internal/schedule"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

type fakeScheduleResolver struct {
	cfg schedule.Config
	err error
}

func (f *fakeScheduleResolver) ResolveConfig(context.Context) (schedule.Config, error) {
	return f.cfg, f.err
}

type fakeBatch struct {
	result *generation.Result
	err    error
	runs   int
}

func (f *fakeBatch) GenerateForActiveCycle(context.Context, string) (*generation.Result, error) {
	f.runs++
	return f.result, f.err
}

type fakeNotifier struct {
	completed []*generation.Result
	failures  []error
}

func (f *fakeNotifier) NotifyRunCompleted(result *generation.Result) {
	f.completed = append(f.completed, result)
}

func (f *fakeNotifier) NotifyRunFailure(err error) {
	f.failures = append(f.failures, err)
}

func newGenerationJob(t *testing.T, resolver *fakeScheduleResolver, batch *fakeBatch, notifier *fakeNotifier) Job {
	t.Helper()

	job, err := NewGenerationJob(GenerationJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard}),
		Schedule: resolver,
		Batch:    batch,
		Notifier: notifier,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	return job
}

func TestGenerationJobRunsAndNotifies(t *testing.T) {
	cycleID := uuid.New()
	batch := &fakeBatch{result: &generation.Result{CycleID: &cycleID, Generated: 4}}
	notifier := &fakeNotifier{}
	job := newGenerationJob(t, &fakeScheduleResolver{cfg: schedule.Config{SubscriptionEnabled: true}}, batch, notifier)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if batch.runs != 1 {
		t.Fatalf("expected one batch run, got %d", batch.runs)
	}
	if len(notifier.completed) != 1 {
		t.Fatalf("expected one completion notification, got %d", len(notifier.completed))
	}
	if len(notifier.failures) != 0 {
		t.Fatalf("expected no failure notifications, got %d", len(notifier.failures))
	}
}

func TestGenerationJobSkipsWhenSubscriptionsDisabled(t *testing.T) {
	batch := &fakeBatch{}
	notifier := &fakeNotifier{}
	job := newGenerationJob(t, &fakeScheduleResolver{cfg: schedule.Config{SubscriptionEnabled: false}}, batch, notifier)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if batch.runs != 0 {
		t.Fatalf("expected no batch run, got %d", batch.runs)
	}
}

func TestGenerationJobNotifiesRunFailure(t *testing.T) {
	batch := &fakeBatch{err: errors.New("cycle lookup exploded")}
	notifier := &fakeNotifier{}
	job := newGenerationJob(t, &fakeScheduleResolver{cfg: schedule.Config{SubscriptionEnabled: true}}, batch, notifier)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected job error")
	}
	if len(notifier.failures) != 1 {
		t.Fatalf("expected one failure notification, got %d", len(notifier.failures))
	}
	if len(notifier.completed) != 0 {
		t.Fatalf("expected no completion notifications, got %d", len(notifier.completed))
	}
}
