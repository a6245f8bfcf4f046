package client

import (
	"context"
	"errors"
	"sync"

	"contently/posts"
)

// fakeAPI serves posts from memory. Each GetPost pops the next status from
// script for that id, if any.
type fakeAPI struct {
	mu          sync.Mutex
	posts       map[string]posts.Post
	script      map[string][]posts.Status
	fetches     map[string]int
	generateErr error
	generated   posts.Post
	// generating is closed while Generate is in flight, if set.
	generating chan struct{}
	release    chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		posts:   map[string]posts.Post{},
		script:  map[string][]posts.Status{},
		fetches: map[string]int{},
	}
}

func (f *fakeAPI) GetPost(_ context.Context, id string) (*posts.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[id]++
	p, ok := f.posts[id]
	if !ok {
		return nil, &APIError{StatusCode: 404, Message: "Post not found"}
	}
	if next := f.script[id]; len(next) > 0 {
		p.Status = next[0]
		f.script[id] = next[1:]
		f.posts[id] = p
	}
	return &p, nil
}

func (f *fakeAPI) CreatePost(_ context.Context, in posts.NewPost) (string, error) {
	prompt, _, _, _, _, err := in.Normalize()
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := "new"
	f.posts[id] = posts.Post{ID: id, Prompt: prompt, Status: posts.StatusDraft}
	return id, nil
}

func (f *fakeAPI) Generate(ctx context.Context, id string) (string, error) {
	if f.generating != nil {
		close(f.generating)
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.generateErr != nil {
		return "", f.generateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return "", errors.New("Post not found")
	}
	f.posts[id] = f.generated
	if f.generated.Title == nil {
		return "", nil
	}
	return *f.generated.Title, nil
}

func (f *fakeAPI) fetchCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[id]
}
