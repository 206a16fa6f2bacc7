package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"homeport/models"
	"homeport/services/wordpress"
)

func searchArticles() []models.Article {
	return []models.Article{
		{Slug: "go-notes", Title: "Notes on Go", Description: "Concurrency patterns", PublishedAt: day(5), Content: "<p>channels and goroutines</p>"},
		{Slug: "homelab", Title: "Homelab tour", Description: "Racks and cables", PublishedAt: day(6), Content: "<p>A proxmox cluster</p>"},
		{Slug: "go-exact", Title: "Go", Description: "Short one", PublishedAt: day(7), Content: "<p>nothing</p>"},
	}
}

func runSearch(t *testing.T, source articleSource, url string) []models.SearchResult {
	t.Helper()
	h := NewSearchHandler(source, zap.NewNop().Sugar())
	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, url, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var results []models.SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return results
}

func TestSearchEmptyQuery(t *testing.T) {
	results := runSearch(t, &fakeArticleSource{}, "/api/search?q=")
	if len(results) != 0 {
		t.Fatalf("expected empty result set, got %v", results)
	}
}

func TestSearchRanking(t *testing.T) {
	source := &fakeArticleSource{posts: searchArticles()}
	results := runSearch(t, source, "/api/search?q=go&filter=blog")

	if len(results) < 2 {
		t.Fatalf("results: %v", results)
	}
	// Exact title match outranks substring title matches.
	if results[0].Title != "Go" {
		t.Fatalf("first result %q, want exact title match", results[0].Title)
	}
}

func TestSearchMatchesContent(t *testing.T) {
	source := &fakeArticleSource{posts: searchArticles()}
	results := runSearch(t, source, "/api/search?q=proxmox&filter=blog")

	if len(results) != 1 || results[0].URL != "/blog/homelab" {
		t.Fatalf("results: %v", results)
	}
}

func TestSearchAccentInsensitive(t *testing.T) {
	source := &fakeArticleSource{posts: []models.Article{
		{Slug: "cafe", Title: "Café culture", Description: "x", PublishedAt: day(1), Content: "<p>y</p>"},
	}}
	results := runSearch(t, source, "/api/search?q=cafe&filter=blog")
	if len(results) != 1 {
		t.Fatalf("results: %v", results)
	}
}

func TestSearchProjects(t *testing.T) {
	results := runSearch(t, &fakeArticleSource{}, "/api/search?q=caddy&filter=project")
	if len(results) != 1 || results[0].Type != "project" || results[0].Title != "ClearProxy" {
		t.Fatalf("results: %v", results)
	}
}

func TestSearchAllCoversBothSources(t *testing.T) {
	source := &fakeArticleSource{posts: []models.Article{
		{Slug: "rocky-post", Title: "Rocky Linux migration", Description: "x", PublishedAt: day(1), Content: "<p>y</p>"},
	}}
	results := runSearch(t, source, "/api/search?q=rocky")

	var types []string
	for _, r := range results {
		types = append(types, r.Type)
	}
	if len(results) < 2 {
		t.Fatalf("expected blog and project hits, got %v", types)
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	source := &fakeArticleSource{postsErr: wordpress.ErrUnavailable}
	h := NewSearchHandler(source, zap.NewNop().Sugar())
	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=go", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
}
