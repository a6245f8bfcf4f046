package posts

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Store with the same conditional-write rules as
// the SQL implementation.
type memStore struct {
	mu    sync.Mutex
	posts map[string]*Post

	markErr     error
	completeErr error
	revertErr   error

	reverts   int
	completes int
}

func newMemStore() *memStore {
	return &memStore{posts: map[string]*Post{}}
}

func (m *memStore) put(p Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.posts[p.ID] = &cp
}

func (m *memStore) get(id string) Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.posts[id]
}

func (m *memStore) Create(_ context.Context, p *Post) error {
	m.put(*p)
	return nil
}

func (m *memStore) GetOwned(_ context.Context, id, userID string) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok || p.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListOwned(_ context.Context, userID string, status Status) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Post
	for _, p := range m.posts {
		if p.UserID != userID || (status != "" && p.Status != status) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) CountByStatus(_ context.Context, userID string) (map[Status]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[Status]int{}
	for _, p := range m.posts {
		if p.UserID == userID {
			counts[p.Status]++
		}
	}
	return counts, nil
}

func (m *memStore) MarkGenerating(_ context.Context, id string, version int64, startedAt time.Time) (int64, error) {
	if m.markErr != nil {
		return 0, m.markErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok || p.Status != StatusDraft || p.Version != version {
		return 0, ErrConflict
	}
	p.Status = StatusGenerating
	p.Version++
	p.GenerationStartedAt = &startedAt
	return p.Version, nil
}

func (m *memStore) CompleteGeneration(_ context.Context, id string, version int64, a Article) error {
	if m.completeErr != nil {
		return m.completeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok || p.Status != StatusGenerating || p.Version != version {
		return ErrConflict
	}
	m.completes++
	p.Title, p.Summary, p.Content = &a.Title, &a.Summary, &a.Content
	p.Status = StatusGenerated
	p.Version++
	p.GenerationStartedAt = nil
	return nil
}

func (m *memStore) RevertToDraft(_ context.Context, id string, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reverts++
	if m.revertErr != nil {
		return m.revertErr
	}
	p, ok := m.posts[id]
	if !ok || p.Status != StatusGenerating || p.Version != version {
		return ErrConflict
	}
	p.Status = StatusDraft
	p.Version++
	p.GenerationStartedAt = nil
	return nil
}

func (m *memStore) ReclaimStale(_ context.Context, cutoff time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, p := range m.posts {
		if p.Status == StatusGenerating && p.GenerationStartedAt != nil && p.GenerationStartedAt.Before(cutoff) {
			p.Status = StatusDraft
			p.Version++
			p.GenerationStartedAt = nil
			ids = append(ids, p.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
