package scheduler

import (
	"context"
	"errors"
)

// SessionPruner drops revocation entries for tokens that have expired.
type SessionPruner interface {
	PruneRevokedSessions(ctx context.Context) (int64, error)
}

const PruneSessionsJobName = "prune-revoked-sessions"

func (s *Scheduler) AddSessionPruner(schedule string, p SessionPruner) error {
	if p == nil {
		return errors.New("session pruner is required")
	}
	return s.AddJob(PruneSessionsJobName, schedule, func(ctx context.Context) error {
		n, err := p.PruneRevokedSessions(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.WithField("pruned", n).Info("Pruned expired session revocations")
		}
		return nil
	})
}
