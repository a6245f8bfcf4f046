package posts

import (
	"context"
	"time"
)

// Store persists posts. Reads are owner-scoped; status writes are
// conditional on the version the caller last observed and return
// ErrConflict when no row matched.
type Store interface {
	Create(ctx context.Context, p *Post) error
	// GetOwned returns ErrNotFound both for a missing id and for an id owned by someone else.
	GetOwned(ctx context.Context, id, userID string) (*Post, error)
	ListOwned(ctx context.Context, userID string, status Status) ([]Post, error)
	CountByStatus(ctx context.Context, userID string) (map[Status]int, error)

	// MarkGenerating moves a draft at version to generating, stamps startedAt
	// and returns the new version.
	MarkGenerating(ctx context.Context, id string, version int64, startedAt time.Time) (int64, error)
	// CompleteGeneration writes the article and status=generated in one update.
	CompleteGeneration(ctx context.Context, id string, version int64, a Article) error
	// RevertToDraft moves a generating post at version back to draft.
	RevertToDraft(ctx context.Context, id string, version int64) error
	// ReclaimStale reverts every post still generating since before cutoff
	// and returns their ids.
	ReclaimStale(ctx context.Context, cutoff time.Time) ([]string, error)
}
