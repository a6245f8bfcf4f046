package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contently/posts"
)

func TestClientRoundTrips(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		var in posts.NewPost
		json.NewDecoder(r.Body).Decode(&in)
		if in.Prompt != "topic" || in.Keywords != "k" {
			t.Errorf("unexpected body %+v", in)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "p1", "status": "draft"})
	})
	mux.HandleFunc("GET /api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "p1" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Post not found"})
			return
		}
		json.NewEncoder(w).Encode(posts.Post{ID: "p1", Status: posts.StatusDraft})
	})
	mux.HandleFunc("GET /api/posts/{id}/html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<h1>T</h1>"))
	})
	mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") != "generated" {
			t.Errorf("status filter not sent")
		}
		json.NewEncoder(w).Encode(posts.Listing{
			Posts:  []posts.Post{{ID: "p2", Status: posts.StatusGenerated}},
			Counts: map[posts.Status]int{posts.StatusGenerated: 1},
		})
	})
	mux.HandleFunc("POST /api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["postId"] == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "quota exceeded"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "title": "Title"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	ctx := context.Background()

	id, err := c.CreatePost(ctx, posts.NewPost{Prompt: "topic", Keywords: "k"})
	if err != nil || id != "p1" {
		t.Fatalf("CreatePost = %q, %v", id, err)
	}
	p, err := c.GetPost(ctx, "p1")
	if err != nil || p.Status != posts.StatusDraft {
		t.Fatalf("GetPost = %+v, %v", p, err)
	}
	if _, err := c.GetPost(ctx, "nope"); StatusCode(err) != http.StatusNotFound || err.Error() != "Post not found" {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
	listing, err := c.ListPosts(ctx, posts.StatusGenerated)
	if err != nil || len(listing.Posts) != 1 || listing.Counts[posts.StatusGenerated] != 1 {
		t.Fatalf("ListPosts = %+v, %v", listing, err)
	}
	page, err := c.PostHTML(ctx, "p1")
	if err != nil || page != "<h1>T</h1>" {
		t.Fatalf("PostHTML = %q, %v", page, err)
	}
	title, err := c.Generate(ctx, "p1")
	if err != nil || title != "Title" {
		t.Fatalf("Generate = %q, %v", title, err)
	}
	if _, err := c.Generate(ctx, "boom"); StatusCode(err) != http.StatusInternalServerError || err.Error() != "quota exceeded" {
		t.Fatalf("expected 500 APIError, got %v", err)
	}

	anon := NewClient(srv.URL, "")
	if _, err := anon.CreatePost(ctx, posts.NewPost{Prompt: "x"}); StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAPIErrorWithoutMessage(t *testing.T) {
	err := &APIError{StatusCode: 502}
	if err.Error() != "contently returned status: 502" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestReadTimeoutBoundsReadsButNotGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/generate" {
			json.NewEncoder(w).Encode(map[string]any{"success": true, "title": "T"})
			return
		}
		json.NewEncoder(w).Encode(posts.Post{ID: "p1", Status: posts.StatusDraft})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", WithReadTimeout(20*time.Millisecond))
	if _, err := c.GetPost(context.Background(), "p1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	title, err := c.Generate(context.Background(), "p1")
	if err != nil || title != "T" {
		t.Fatalf("generate should not be bounded: title=%q err=%v", title, err)
	}
}
