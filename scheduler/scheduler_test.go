package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type countingReclaimer struct {
	calls      atomic.Int32
	staleAfter time.Duration
	err        error
}

func (r *countingReclaimer) ReclaimStale(_ context.Context, staleAfter time.Duration) (int, error) {
	r.calls.Add(1)
	r.staleAfter = staleAfter
	return 2, r.err
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := New(logger)
	if err := s.AddJob("bad", "not a schedule", func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected schedule parse error")
	}
}

func TestReconcilerRunsOnSchedule(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := New(logger)
	r := &countingReclaimer{}
	if err := s.AddReconciler("@every 1s", r, 10*time.Minute); err != nil {
		t.Fatalf("AddReconciler: %v", err)
	}
	jobs := s.ListJobs()
	if len(jobs) != 1 || jobs[0].Name != ReconcileJobName {
		t.Fatalf("unexpected jobs %+v", jobs)
	}

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for r.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("reconciler never ran")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestRunNowPassesStaleAfter(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := New(logger)
	r := &countingReclaimer{}
	if err := s.RunNow(ReconcileJobName, ReconcileJob(r, 7*time.Minute)); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if r.calls.Load() != 1 || r.staleAfter != 7*time.Minute {
		t.Fatalf("unexpected reclaimer state: calls=%d staleAfter=%v", r.calls.Load(), r.staleAfter)
	}
}

func TestFailedJobIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := New(logger)
	r := &countingReclaimer{err: errors.New("db down")}
	if err := s.AddReconciler("@every 1s", r, time.Minute); err != nil {
		t.Fatalf("AddReconciler: %v", err)
	}
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for {
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.ErrorLevel && e.Data["job"] == ReconcileJobName {
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("failure was not logged")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestAddReconcilerValidates(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := New(logger)
	if err := s.AddReconciler("@every 1m", nil, time.Minute); err == nil {
		t.Fatalf("expected error for nil reclaimer")
	}
	if err := s.AddReconciler("@every 1m", &countingReclaimer{}, 0); err == nil {
		t.Fatalf("expected error for zero stale-after")
	}
}

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) PruneRevokedSessions(context.Context) (int64, error) {
	p.calls.Add(1)
	return 3, nil
}

func TestSessionPrunerRunsAlongsideReconciler(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := New(logger)
	if err := s.AddReconciler("@every 1m", &countingReclaimer{}, time.Minute); err != nil {
		t.Fatalf("AddReconciler: %v", err)
	}
	p := &countingPruner{}
	if err := s.AddSessionPruner("@every 1s", p); err != nil {
		t.Fatalf("AddSessionPruner: %v", err)
	}
	if err := s.AddSessionPruner("@every 1s", nil); err == nil {
		t.Fatalf("expected error for nil pruner")
	}

	names := map[string]bool{}
	for _, j := range s.ListJobs() {
		names[j.Name] = true
	}
	if len(names) != 2 || !names[ReconcileJobName] || !names[PruneSessionsJobName] {
		t.Fatalf("unexpected jobs %v", names)
	}

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for {
		for _, e := range hook.AllEntries() {
			if e.Message == "Pruned expired session revocations" && e.Data["pruned"] == int64(3) {
				if p.calls.Load() == 0 {
					t.Fatalf("pruner not called")
				}
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("pruner never ran")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
