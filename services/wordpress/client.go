package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"homeport/cache"
	"homeport/internal/htmltext"
	"homeport/internal/metrics"
	"homeport/models"
)

// perPage bounds a category fetch to one page. The site has a few dozen
// posts at most.
const perPage = 100

var (
	// ErrUnavailable covers any upstream HTTP failure or malformed payload.
	// Callers surface it as a single "content temporarily unavailable"
	// condition; retries, if desired, belong to the caller.
	ErrUnavailable = errors.New("content temporarily unavailable")

	// ErrNotFound means no article matched the requested slug.
	ErrNotFound = errors.New("article not found")
)

// Client fetches and normalizes articles from a WordPress REST API,
// serving them through the shared TTL cache.
type Client struct {
	http  *resty.Client
	cache *cache.Store
	log   *zap.SugaredLogger
}

// New validates the API URL and constructs a client.
func New(apiURL string, timeout time.Duration, store *cache.Store, log *zap.SugaredLogger) (*Client, error) {
	if strings.TrimSpace(apiURL) == "" {
		return nil, errors.New("wordpress: api url is required")
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetTimeout(timeout)
	return &Client{http: httpClient, cache: store, log: log}, nil
}

// Posts returns all normalized articles in the given category, from cache
// when live. No ordering is guaranteed; callers that want newest-first must
// sort by PublishedAt themselves.
func (c *Client) Posts(ctx context.Context, category string) ([]models.Article, error) {
	key := category + "_posts"
	return cache.Fetch(c.cache, key, func() ([]models.Article, error) {
		return c.fetchPosts(ctx, category)
	})
}

// Post returns the article with the given slug, from cache when live.
// A slug with no matching entry returns ErrNotFound.
func (c *Client) Post(ctx context.Context, category, slug string) (*models.Article, error) {
	key := fmt.Sprintf("%s_post_%s", category, slug)
	article, err := cache.Fetch(c.cache, key, func() (models.Article, error) {
		return c.fetchPost(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

type rendered struct {
	Rendered string `json:"rendered"`
}

type rawPost struct {
	ID       int64    `json:"id"`
	Slug     string   `json:"slug"`
	Title    rendered `json:"title"`
	Content  rendered `json:"content"`
	Excerpt  rendered `json:"excerpt"`
	Date     string   `json:"date"`
	Modified string   `json:"modified"`
	Embedded *struct {
		FeaturedMedia []struct {
			SourceURL string `json:"source_url"`
		} `json:"wp:featuredmedia"`
	} `json:"_embedded"`
}

type rawCategory struct {
	ID int64 `json:"id"`
}

func (c *Client) fetchPosts(ctx context.Context, category string) ([]models.Article, error) {
	categoryID, err := c.categoryID(ctx, category)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, "list_posts", "/posts", map[string]string{
		"_embed":     "true",
		"per_page":   fmt.Sprintf("%d", perPage),
		"categories": fmt.Sprintf("%d", categoryID),
	})
	if err != nil {
		return nil, err
	}

	var posts []rawPost
	if err := json.Unmarshal(body, &posts); err != nil {
		c.log.Warnw("malformed posts payload", "category", category, "err", err)
		return nil, ErrUnavailable
	}

	articles := make([]models.Article, 0, len(posts))
	for _, p := range posts {
		articles = append(articles, normalize(p))
	}
	c.log.Infow("fetched posts", "category", category, "count", len(articles))
	return articles, nil
}

func (c *Client) fetchPost(ctx context.Context, slug string) (models.Article, error) {
	body, err := c.get(ctx, "get_post", "/posts", map[string]string{
		"slug":   slug,
		"_embed": "true",
	})
	if err != nil {
		return models.Article{}, err
	}

	var posts []rawPost
	if err := json.Unmarshal(body, &posts); err != nil {
		c.log.Warnw("malformed post payload", "slug", slug, "err", err)
		return models.Article{}, ErrUnavailable
	}
	if len(posts) == 0 {
		return models.Article{}, ErrNotFound
	}
	return normalize(posts[0]), nil
}

// categoryID resolves a category slug to its numeric id. The resolution is
// one extra round trip per article-list cache miss and is deliberately not
// cached itself.
func (c *Client) categoryID(ctx context.Context, category string) (int64, error) {
	body, err := c.get(ctx, "resolve_category", "/categories", map[string]string{
		"slug": category,
	})
	if err != nil {
		return 0, err
	}

	var categories []rawCategory
	if err := json.Unmarshal(body, &categories); err != nil || len(categories) == 0 {
		c.log.Warnw("category not resolvable", "category", category, "err", err)
		return 0, ErrUnavailable
	}
	return categories[0].ID, nil
}

func (c *Client) get(ctx context.Context, operation, path string, params map[string]string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		metrics.UpstreamRequestTotal.WithLabelValues("wordpress", operation, "error").Inc()
		c.log.Warnw("wordpress request failed", "operation", operation, "err", err)
		return nil, ErrUnavailable
	}
	if resp.IsError() {
		metrics.UpstreamRequestTotal.WithLabelValues("wordpress", operation, "error").Inc()
		c.log.Warnw("wordpress request failed", "operation", operation, "status", resp.StatusCode())
		return nil, ErrUnavailable
	}
	metrics.UpstreamRequestTotal.WithLabelValues("wordpress", operation, "ok").Inc()
	return resp.Body(), nil
}

func normalize(p rawPost) models.Article {
	article := models.Article{
		ID:          p.ID,
		Slug:        p.Slug,
		// Titles only need entity decoding; tag stripping is for excerpts.
		Title:       htmltext.Decode(p.Title.Rendered),
		Description: htmltext.Clean(p.Excerpt.Rendered),
		PublishedAt: parseWPTime(p.Date),
		ModifiedAt:  parseWPTime(p.Modified),
		Content:     p.Content.Rendered,
	}
	if p.Embedded != nil && len(p.Embedded.FeaturedMedia) > 0 {
		article.ImageURL = p.Embedded.FeaturedMedia[0].SourceURL
	}
	return article
}

// parseWPTime handles WordPress timestamps, which omit the zone suffix.
func parseWPTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
