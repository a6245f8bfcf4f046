// Package client talks to the contently HTTP API and drives the
// submit → generate → view flow for terminal and test callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contently/posts"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("contently returned status: %d", e.StatusCode)
	}
	return e.Message
}

// StatusCode returns the HTTP status of an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type Client struct {
	baseURL     string
	token       string
	client      *http.Client
	readTimeout time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its Timeout should be zero or
// long enough for a full generation.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

// DefaultReadTimeout bounds reads unless WithReadTimeout says otherwise.
const DefaultReadTimeout = 15 * time.Second

// WithReadTimeout bounds every call except Generate. Zero disables the bound.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Client) { c.readTimeout = d }
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		client:      &http.Client{},
		readTimeout: DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePost stores a new draft and returns its id.
func (c *Client) CreatePost(ctx context.Context, in posts.NewPost) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts", in, &out, true); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*posts.Post, error) {
	var p posts.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPosts returns the caller's posts; an empty status lists all of them.
func (c *Client) ListPosts(ctx context.Context, status posts.Status) (*posts.Listing, error) {
	path := "/api/posts"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var listing posts.Listing
	if err := c.do(ctx, http.MethodGet, path, nil, &listing, true); err != nil {
		return nil, err
	}
	return &listing, nil
}

// Generate runs generation for id and blocks until the server answers.
func (c *Client) Generate(ctx context.Context, id string) (string, error) {
	var out struct {
		Success bool   `json:"success"`
		Title   string `json:"title"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/generate", map[string]string{"postId": id}, &out, false); err != nil {
		return "", err
	}
	return out.Title, nil
}

// PostHTML returns the rendered page of a generated post.
func (c *Client) PostHTML(ctx context.Context, id string) (string, error) {
	var page string
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id)+"/html", nil, &page, true); err != nil {
		return "", err
	}
	return page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, bounded bool) error {
	if bounded && c.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.readTimeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if s, ok := out.(*string); ok {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*s = string(raw)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
