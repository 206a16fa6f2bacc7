package wordpress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homeport/cache"
)

const postsPayload = `[
  {
    "id": 12,
    "slug": "hello-world",
    "title": {"rendered": "Hello &amp; Welcome"},
    "excerpt": {"rendered": "<p>An intro &#8211; with <b>markup</b>.</p>"},
    "content": {"rendered": "<p>Full body</p>"},
    "date": "2025-03-10T09:30:00",
    "modified": "2025-03-11T10:00:00",
    "_embedded": {"wp:featuredmedia": [{"source_url": "https://img.example/hero.jpg"}]}
  },
  {
    "id": 13,
    "slug": "second-post",
    "title": {"rendered": "Using <code>go vet</code> &amp; friends"},
    "excerpt": {"rendered": "<p>More</p>"},
    "content": {"rendered": "<p>Body two</p>"},
    "date": "2025-04-01T08:00:00",
    "modified": "2025-04-01T08:00:00"
  }
]`

func newTestServer(t *testing.T, listCalls, categoryCalls *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		if categoryCalls != nil {
			categoryCalls.Add(1)
		}
		if r.URL.Query().Get("slug") == "" {
			http.Error(w, "missing slug", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 7, "slug": "blog"}]`))
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if slug := r.URL.Query().Get("slug"); slug != "" {
			if slug == "hello-world" {
				w.Write([]byte(postsPayload))
				return
			}
			w.Write([]byte(`[]`))
			return
		}
		if listCalls != nil {
			listCalls.Add(1)
		}
		if r.URL.Query().Get("categories") != "7" {
			http.Error(w, "unexpected category", http.StatusBadRequest)
			return
		}
		w.Write([]byte(postsPayload))
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(baseURL, 2*time.Second, cache.New(time.Minute), zap.NewNop().Sugar())
	require.NoError(t, err)
	return c
}

func TestNewRequiresURL(t *testing.T) {
	if _, err := New("  ", time.Second, cache.New(time.Minute), zap.NewNop().Sugar()); err == nil {
		t.Fatal("expected error for empty api url")
	}
}

func TestPostsNormalization(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	articles, err := c.Posts(context.Background(), "blog")
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0]
	require.Equal(t, "hello-world", first.Slug)
	require.Equal(t, "Hello & Welcome", first.Title)
	require.Equal(t, "An intro – with markup.", first.Description)
	require.Equal(t, "<p>Full body</p>", first.Content)
	require.Equal(t, "https://img.example/hero.jpg", first.ImageURL)
	require.Equal(t, 2025, first.PublishedAt.Year())

	// Entities are decoded in titles but markup is left alone.
	require.Equal(t, "Using <code>go vet</code> & friends", articles[1].Title)
	require.Empty(t, articles[1].ImageURL)
}

func TestPostsCached(t *testing.T) {
	var listCalls, categoryCalls atomic.Int64
	srv := newTestServer(t, &listCalls, &categoryCalls)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	for i := 0; i < 3; i++ {
		if _, err := c.Posts(context.Background(), "blog"); err != nil {
			t.Fatalf("posts %d: %v", i, err)
		}
	}
	require.EqualValues(t, 1, listCalls.Load(), "list should be fetched once before expiry")
	require.EqualValues(t, 1, categoryCalls.Load(), "category resolution happens only on a cache miss")
}

func TestPostBySlugNotFound(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Post(context.Background(), "blog", "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Posts(context.Background(), "blog")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Posts(context.Background(), "blog")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCategoryNamespacesAreDisjoint(t *testing.T) {
	var listCalls atomic.Int64
	srv := newTestServer(t, &listCalls, nil)
	defer srv.Close()

	// Both categories resolve against the same fixture, but each gets its
	// own cache key, so each triggers its own list fetch.
	c := newTestClient(t, srv.URL)
	if _, err := c.Posts(context.Background(), "blog"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Posts(context.Background(), "legal"); err != nil {
		t.Fatal(err)
	}
	require.EqualValues(t, 2, listCalls.Load())
}
