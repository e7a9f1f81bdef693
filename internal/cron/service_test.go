package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

type fakeLock struct {
	acquired bool
	held     bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.held {
		return false, nil
	}
	f.acquired = true
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.held = false
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func newCronTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	success := &testJob{name: "success"}
	failure := &testJob{name: "fail", err: errors.New("boom")}
	service, err := NewService(ServiceParams{
		Logger:   newCronTestLogger(),
		Registry: NewRegistry(success, failure),
		Lock:     &fakeLock{},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if success.runs != 1 {
		t.Fatalf("expected success job to run once, ran %d", success.runs)
	}
	if failure.runs != 1 {
		t.Fatalf("expected failure job to run once, ran %d", failure.runs)
	}
}

func TestServiceRunCycleSkipsWhenLockHeld(t *testing.T) {
	job := &testJob{name: "job"}
	lock := &fakeLock{held: true}
	service, err := NewService(ServiceParams{
		Logger:   newCronTestLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job not to run, ran %d", job.runs)
	}
}

func TestServiceRunCycleReleasesLock(t *testing.T) {
	lock := &fakeLock{}
	service, err := NewService(ServiceParams{
		Logger: newCronTestLogger(),
		Lock:   lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if lock.held {
		t.Fatal("expected lock to be released after cycle")
	}
}
