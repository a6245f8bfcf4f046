package scheduler

import (
	"context"
	"errors"
	"time"
)

// Reclaimer reverts posts stuck in generating.
type Reclaimer interface {
	ReclaimStale(ctx context.Context, staleAfter time.Duration) (int, error)
}

const ReconcileJobName = "reconcile-generating"

// ReconcileJob returns a job that reverts posts left in generating for
// longer than staleAfter, e.g. after a crash between mark and final write.
func ReconcileJob(r Reclaimer, staleAfter time.Duration) Job {
	return func(ctx context.Context) error {
		_, err := r.ReclaimStale(ctx, staleAfter)
		return err
	}
}

// AddReconciler schedules ReconcileJob.
func (s *Scheduler) AddReconciler(schedule string, r Reclaimer, staleAfter time.Duration) error {
	if r == nil {
		return errors.New("reclaimer is required")
	}
	if staleAfter <= 0 {
		return errors.New("stale-after must be positive")
	}
	return s.AddJob(ReconcileJobName, schedule, ReconcileJob(r, staleAfter))
}
