package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"homeport/models"
	"homeport/services/wordpress"
)

type fakeArticleSource struct {
	posts    []models.Article
	postsErr error
	article  *models.Article
	postErr  error

	lastCategory string
	lastSlug     string
}

func (f *fakeArticleSource) Posts(_ context.Context, category string) ([]models.Article, error) {
	f.lastCategory = category
	return f.posts, f.postsErr
}

func (f *fakeArticleSource) Post(_ context.Context, category, slug string) (*models.Article, error) {
	f.lastCategory = category
	f.lastSlug = slug
	if f.postErr != nil {
		return nil, f.postErr
	}
	return f.article, nil
}

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestPostsListSortedNewestFirst(t *testing.T) {
	source := &fakeArticleSource{posts: []models.Article{
		{Slug: "old", PublishedAt: day(1)},
		{Slug: "new", PublishedAt: day(20)},
		{Slug: "mid", PublishedAt: day(10)},
	}}
	h := NewArticlesHandler(source)

	rec := httptest.NewRecorder()
	h.Posts(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if source.lastCategory != "blog" {
		t.Fatalf("category %q", source.lastCategory)
	}
	var got []models.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got[0].Slug != "new" || got[1].Slug != "mid" || got[2].Slug != "old" {
		t.Fatalf("order: %v %v %v", got[0].Slug, got[1].Slug, got[2].Slug)
	}
}

func TestPostsListDoesNotMutateSource(t *testing.T) {
	shared := []models.Article{
		{Slug: "old", PublishedAt: day(1)},
		{Slug: "new", PublishedAt: day(20)},
		{Slug: "mid", PublishedAt: day(10)},
	}
	h := NewArticlesHandler(&fakeArticleSource{posts: shared})

	// The source hands every request the same backing array, like a cached
	// list would. Serving must not reorder it, even under concurrency.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.Posts(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
			if rec.Code != http.StatusOK {
				t.Errorf("status %d", rec.Code)
			}
		}()
	}
	wg.Wait()

	if shared[0].Slug != "old" || shared[1].Slug != "new" || shared[2].Slug != "mid" {
		t.Fatalf("source slice reordered: %v %v %v", shared[0].Slug, shared[1].Slug, shared[2].Slug)
	}
}

func TestLegalUsesLegalCategory(t *testing.T) {
	source := &fakeArticleSource{}
	h := NewArticlesHandler(source)

	rec := httptest.NewRecorder()
	h.Legal(rec, httptest.NewRequest(http.MethodGet, "/api/legal", nil))

	if source.lastCategory != "legal" {
		t.Fatalf("category %q", source.lastCategory)
	}
}

func TestPostBySlug(t *testing.T) {
	source := &fakeArticleSource{article: &models.Article{Slug: "hello", Title: "Hello"}}
	h := NewArticlesHandler(source)

	rec := httptest.NewRecorder()
	h.Posts(rec, httptest.NewRequest(http.MethodGet, "/api/posts?slug=hello", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if source.lastSlug != "hello" {
		t.Fatalf("slug %q", source.lastSlug)
	}
	var got models.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Hello" {
		t.Fatalf("title %q", got.Title)
	}
}

func TestPostBySlugNotFound(t *testing.T) {
	source := &fakeArticleSource{postErr: wordpress.ErrNotFound}
	h := NewArticlesHandler(source)

	rec := httptest.NewRecorder()
	h.Posts(rec, httptest.NewRequest(http.MethodGet, "/api/posts?slug=nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("404 body must carry a user-facing error")
	}
}

func TestPostsUpstreamFailure(t *testing.T) {
	source := &fakeArticleSource{postsErr: wordpress.ErrUnavailable}
	h := NewArticlesHandler(source)

	rec := httptest.NewRecorder()
	h.Posts(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("500 body must carry a user-facing error")
	}
}
