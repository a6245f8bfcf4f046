package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contently/generator"
	"contently/logging"
	"contently/metrics"
)

// Writer turns a brief into an article with one model call.
type Writer interface {
	Write(ctx context.Context, b generator.Brief) (generator.Result, error)
}

// Service implements post creation, owner-scoped reads and the generation workflow.
type Service struct {
	store        Store
	writer       Writer
	logger       logging.Logger
	metrics      *metrics.GenerationMetrics
	modelTimeout time.Duration
	now          func() time.Time
	newID        func() string
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.GenerationMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithModelTimeout bounds the model call. Zero keeps the model client's default.
func WithModelTimeout(d time.Duration) Option {
	return func(s *Service) { s.modelTimeout = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, writer Writer, logger logging.Logger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("post store is required")
	}
	if writer == nil {
		return nil, errors.New("article writer is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	s := &Service{
		store:  store,
		writer: writer,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create stores a new draft owned by userID.
func (s *Service) Create(ctx context.Context, userID string, in NewPost) (*Post, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	prompt, keywords, critique, references, sources, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &Post{
		ID:                 s.newID(),
		UserID:             userID,
		Prompt:             prompt,
		Keywords:           keywords,
		Critique:           critique,
		ReferenceMaterials: references,
		Sources:            sources,
		Status:             StatusDraft,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.logger.WithFields(logging.Fields{
		"post_id": p.ID,
		"user_id": userID,
	}).Info("Post created")
	return p, nil
}

// Get returns the caller's post.
func (s *Service) Get(ctx context.Context, userID, id string) (*Post, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if id == "" {
		return nil, ErrNotFound
	}
	return s.store.GetOwned(ctx, id, userID)
}

// Listing is a page of the caller's posts plus per-status counts.
type Listing struct {
	Posts  []Post         `json:"posts"`
	Counts map[Status]int `json:"counts"`
}

// List returns the caller's posts, newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, userID string, status Status) (*Listing, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	items, err := s.store.ListOwned(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	counts, err := s.store.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	if items == nil {
		items = []Post{}
	}
	return &Listing{Posts: items, Counts: counts}, nil
}

// GenerateResult is reported to the caller after a successful generation.
type GenerateResult struct {
	PostID  string
	Title   string
	Outcome generator.ParseOutcome
}

// Generate runs the generation workflow for one post:
// load (owner-scoped) → mark generating → one model call → parse → persist.
// Every invocation that gets past the mark-generating write ends with the
// post in generated or draft, except when the final write itself fails.
func (s *Service) Generate(ctx context.Context, userID, postID string) (*GenerateResult, error) {
	if userID == "" {
		s.metrics.IncRequest("unauthorized")
		return nil, ErrUnauthorized
	}
	if postID == "" {
		s.metrics.IncRequest("bad_request")
		return nil, ErrPostIDRequired
	}
	log := s.logger.WithFields(logging.Fields{
		"post_id": postID,
		"user_id": userID,
	})

	post, err := s.store.GetOwned(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.IncRequest("not_found")
		} else {
			s.metrics.IncRequest("store_error")
		}
		return nil, err
	}
	switch post.Status {
	case StatusDraft:
	case StatusGenerating:
		s.metrics.IncRequest("in_progress")
		return nil, ErrInProgress
	default:
		s.metrics.IncRequest("not_draft")
		return nil, ErrNotDraft
	}

	// Once the post is claimed the workflow runs to completion even if the
	// caller goes away.
	ctx = context.WithoutCancel(ctx)

	version, err := s.store.MarkGenerating(ctx, post.ID, post.Version, s.now().UTC())
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.metrics.IncRequest("in_progress")
			return nil, ErrInProgress
		}
		s.metrics.IncRequest("store_error")
		log.WithError(err).Error("Failed to mark post as generating")
		return nil, fmt.Errorf("mark generating: %w", err)
	}
	log.Info("Generation started")

	start := s.now()
	res, err := s.write(ctx, post)
	s.metrics.ObserveModel(s.now().Sub(start))
	if err != nil {
		s.metrics.IncRequest("model_error")
		log.WithError(err).Warn("Generation failed; reverting to draft")
		if rbErr := s.store.RevertToDraft(ctx, post.ID, version); rbErr != nil {
			log.WithError(rbErr).Error("Failed to revert post to draft")
		}
		return nil, &GenerationError{Err: err}
	}

	s.metrics.IncParseOutcome(string(res.Outcome))
	if res.Outcome.Fallback() {
		log.WithField("parse_outcome", res.Outcome).Warn("Model reply was not the expected JSON; using raw text")
	}

	article := Article{Title: res.Title, Summary: res.Summary, Content: res.Content}
	if err := s.store.CompleteGeneration(ctx, post.ID, version, article); err != nil {
		if errors.Is(err, ErrConflict) {
			s.metrics.IncRequest("conflict")
			log.Warn("Post changed while generating; result discarded")
			return nil, ErrConflict
		}
		s.metrics.IncRequest("persist_error")
		log.WithError(err).Error("Failed to save generated post")
		return nil, &PersistError{Err: err}
	}

	s.metrics.IncRequest("success")
	log.WithFields(logging.Fields{
		"parse_outcome": res.Outcome,
		"duration":      s.now().Sub(start),
	}).Info("Generation completed")

	return &GenerateResult{PostID: post.ID, Title: res.Title, Outcome: res.Outcome}, nil
}

func (s *Service) write(ctx context.Context, post *Post) (generator.Result, error) {
	if s.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.modelTimeout)
		defer cancel()
	}
	return s.writer.Write(ctx, generator.Brief{
		Prompt:             post.Prompt,
		Keywords:           post.Keywords,
		Critique:           post.Critique,
		ReferenceMaterials: post.ReferenceMaterials,
		Sources:            post.Sources,
	})
}

// ReclaimStale reverts posts stuck in generating for longer than staleAfter.
func (s *Service) ReclaimStale(ctx context.Context, staleAfter time.Duration) (int, error) {
	cutoff := s.now().UTC().Add(-staleAfter)
	ids, err := s.store.ReclaimStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale posts: %w", err)
	}
	s.metrics.AddReclaimed(len(ids))
	for _, id := range ids {
		s.logger.WithFields(logging.Fields{
			"post_id": id,
			"cutoff":  cutoff,
		}).Warn("Reverted stuck generating post to draft")
	}
	return len(ids), nil
}
