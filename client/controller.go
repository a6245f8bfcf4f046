package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"contently/posts"
)

// API is what the controller needs from the server. *Client implements it.
type API interface {
	Fetcher
	CreatePost(ctx context.Context, in posts.NewPost) (string, error)
	Generate(ctx context.Context, id string) (string, error)
}

// View is what a detail screen shows.
type View struct {
	Post    *posts.Post
	Polling bool
	// Error is the message of the last failed generate call.
	Error string
}

// Controller holds the state of one post detail view.
type Controller struct {
	api      API
	interval time.Duration
	onChange func(View)

	mu         sync.Mutex
	view       View
	cancelPoll context.CancelFunc
	pollDone   chan struct{}
}

type ControllerOption func(*Controller)

func WithPollInterval(d time.Duration) ControllerOption {
	return func(c *Controller) { c.interval = d }
}

// OnChange is called after every view update, outside the controller lock.
func OnChange(fn func(View)) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

func NewController(api API, opts ...ControllerOption) *Controller {
	c := &Controller{api: api, interval: DefaultPollInterval}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit creates a draft and opens it.
func (c *Controller) Submit(ctx context.Context, in posts.NewPost) (string, error) {
	if _, _, _, _, _, err := in.Normalize(); err != nil {
		return "", err
	}
	id, err := c.api.CreatePost(ctx, in)
	if err != nil {
		return "", err
	}
	return id, c.Open(ctx, id)
}

// Open loads a post into the view. A post that is already generating,
// e.g. started from another session, is polled until it settles.
func (c *Controller) Open(ctx context.Context, id string) error {
	c.stopPolling()

	p, err := c.api.GetPost(ctx, id)
	if err != nil {
		return err
	}
	c.update(func(v *View) {
		v.Post = p
		v.Error = ""
	})
	if p.Status == posts.StatusGenerating {
		c.startPolling(id)
	}
	return nil
}

// Generate triggers generation for the open post and waits for the result.
// The view flips to generating immediately; on failure it returns to draft
// with the error message.
func (c *Controller) Generate(ctx context.Context) error {
	c.mu.Lock()
	if c.view.Post == nil {
		c.mu.Unlock()
		return errors.New("no post is open")
	}
	id := c.view.Post.ID
	c.mu.Unlock()

	c.update(func(v *View) {
		v.Post.Status = posts.StatusGenerating
		v.Error = ""
	})

	if _, err := c.api.Generate(ctx, id); err != nil {
		c.update(func(v *View) {
			v.Post.Status = posts.StatusDraft
			v.Error = err.Error()
		})
		return err
	}

	p, err := c.api.GetPost(ctx, id)
	if err != nil {
		return err
	}
	c.update(func(v *View) { v.Post = p })
	return nil
}

// Wait blocks until any running poll has finished.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.pollDone
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears the view down and stops polling.
func (c *Controller) Close() {
	c.stopPolling()
}

// View returns a snapshot of the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() View {
	v := c.view
	if v.Post != nil {
		p := *v.Post
		v.Post = &p
	}
	return v
}

func (c *Controller) update(fn func(*View)) {
	c.mu.Lock()
	fn(&c.view)
	v := c.snapshot()
	c.mu.Unlock()
	if c.onChange != nil {
		c.onChange(v)
	}
}

func (c *Controller) startPolling(id string) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.mu.Lock()
	c.cancelPoll = cancel
	c.pollDone = done
	c.mu.Unlock()
	c.update(func(v *View) { v.Polling = true })

	poller := NewPoller(c.api, c.interval)
	poller.OnUpdate = func(p posts.Post) {
		if ctx.Err() != nil {
			return
		}
		c.update(func(v *View) { v.Post = &p })
	}

	go func() {
		defer close(done)
		_, _ = poller.Run(ctx, id)
		c.update(func(v *View) { v.Polling = false })
	}()
}

func (c *Controller) stopPolling() {
	c.mu.Lock()
	cancel, done := c.cancelPoll, c.pollDone
	c.cancelPoll, c.pollDone = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
