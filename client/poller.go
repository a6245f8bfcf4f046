package client

import (
	"context"
	"time"

	"contently/posts"
)

// DefaultPollInterval is how often a generating post is re-fetched.
const DefaultPollInterval = 2 * time.Second

// Fetcher loads the current row of a post.
type Fetcher interface {
	GetPost(ctx context.Context, id string) (*posts.Post, error)
}

// Poller re-fetches a post while it is generating.
type Poller struct {
	fetch    Fetcher
	interval time.Duration
	// OnUpdate receives every fetched row.
	OnUpdate func(posts.Post)
	// OnError receives fetch failures; polling continues after them.
	OnError func(error)
}

func NewPoller(fetch Fetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{fetch: fetch, interval: interval}
}

// Run fetches id every interval until the row is no longer generating, and
// returns that row. There is no attempt limit; cancel ctx to stop early.
func (p *Poller) Run(ctx context.Context, id string) (*posts.Post, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		post, err := p.fetch.GetPost(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if p.OnError != nil {
				p.OnError(err)
			}
			continue
		}
		if p.OnUpdate != nil {
			p.OnUpdate(*post)
		}
		if post.Status != posts.StatusGenerating {
			return post, nil
		}
	}
}
