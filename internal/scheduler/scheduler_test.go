package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestStartRunsFirstPassImmediately(t *testing.T) {
	sched := New(time.Hour, zerolog.Nop())

	var runs atomic.Int32
	done := make(chan struct{})
	sched.Add(Job{Name: "sync", Run: func(context.Context) error {
		if runs.Add(1) == 1 {
			close(done)
		}
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(stopped)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("first pass must run without waiting for the interval")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Start must return once the context is cancelled")
	}
	if got := runs.Load(); got != 1 {
		t.Fatalf("expected exactly one pass, got %d", got)
	}
}

func TestFailingJobDoesNotStopSiblings(t *testing.T) {
	sched := New(time.Hour, zerolog.Nop())

	var secondRan atomic.Bool
	done := make(chan struct{})
	sched.Add(Job{Name: "rota", Run: func(context.Context) error {
		return fmt.Errorf("fuente caída")
	}})
	sched.Add(Job{Name: "sana", Run: func(context.Context) error {
		secondRan.Store(true)
		close(done)
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second job must run despite the first failing")
	}
	if !secondRan.Load() {
		t.Fatal("second job did not run")
	}
}

func TestStartWithoutJobsWaitsForCancel(t *testing.T) {
	sched := New(time.Minute, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("disabled scheduler must still return on cancel")
	}
}

func TestAddIgnoresNilRun(t *testing.T) {
	sched := New(time.Minute, zerolog.Nop())
	sched.Add(Job{Name: "vacía"})
	if len(sched.jobs) != 0 {
		t.Fatalf("nil Run must be ignored, got %d jobs", len(sched.jobs))
	}
}
