package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"homeport/internal/metrics"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p"

	posterSize   = "w500"
	backdropSize = "original"
)

// Kind classifies what is being looked up. Channels search the TV index
// like episodes do, since channel programs behave like episodic content.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindEpisode Kind = "episode"
	KindChannel Kind = "channel"
)

// Artwork holds best-effort image URLs. An empty URL means the provider had
// no candidate or the best match carried no such image.
type Artwork struct {
	PosterURL   string
	BackdropURL string
}

type lookupKey struct {
	kind  Kind
	title string
	year  int
}

// Client looks up poster/backdrop artwork by title search. Each distinct
// (kind, title, year) lookup is cached for the process lifetime: artwork
// rarely changes, and the now-playing widget polls the same item repeatedly
// while it keeps playing.
type Client struct {
	http   *resty.Client
	apiKey string
	log    *zap.SugaredLogger

	mu      sync.Mutex
	lookups map[lookupKey]Artwork
}

// New validates the API key and constructs a client.
func New(apiKey string, timeout time.Duration, log *zap.SugaredLogger) (*Client, error) {
	return NewWithBaseURL(apiKey, defaultBaseURL, timeout, log)
}

// NewWithBaseURL is New with an overridable API base, for tests.
func NewWithBaseURL(apiKey, baseURL string, timeout time.Duration, log *zap.SugaredLogger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("tmdb: api key is required")
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetQueryParam("api_key", apiKey)
	return &Client{
		http:    httpClient,
		apiKey:  apiKey,
		log:     log,
		lookups: make(map[lookupKey]Artwork),
	}, nil
}

// Artwork returns poster/backdrop URLs for the given title. Completed
// searches, including empty ones, are cached; transport errors are not, so
// the next poll can try again.
func (c *Client) Artwork(ctx context.Context, kind Kind, title string, year int) (Artwork, error) {
	key := lookupKey{kind: kind, title: title, year: year}

	c.mu.Lock()
	if cached, ok := c.lookups[key]; ok {
		c.mu.Unlock()
		metrics.ArtworkLookupTotal.WithLabelValues("cached").Inc()
		return cached, nil
	}
	c.mu.Unlock()

	art, err := c.search(ctx, kind, title, year)
	if err != nil {
		metrics.ArtworkLookupTotal.WithLabelValues("error").Inc()
		return Artwork{}, err
	}

	c.mu.Lock()
	c.lookups[key] = art
	c.mu.Unlock()

	outcome := "found"
	if art == (Artwork{}) {
		outcome = "empty"
	}
	metrics.ArtworkLookupTotal.WithLabelValues(outcome).Inc()
	return art, nil
}

// PosterURL resolves just the poster. Safe to call concurrently with
// BackdropURL for the same title; the second search is absorbed by the
// lookup cache or tolerated as a duplicate.
func (c *Client) PosterURL(ctx context.Context, kind Kind, title string, year int) (string, error) {
	art, err := c.Artwork(ctx, kind, title, year)
	if err != nil {
		return "", err
	}
	return art.PosterURL, nil
}

// BackdropURL resolves just the backdrop.
func (c *Client) BackdropURL(ctx context.Context, kind Kind, title string, year int) (string, error) {
	art, err := c.Artwork(ctx, kind, title, year)
	if err != nil {
		return "", err
	}
	return art.BackdropURL, nil
}

type searchResult struct {
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// search dispatches by kind. Episodes and channels try the TV index first,
// retrying once without the year (year metadata from the playback source is
// sometimes wrong or absent), then fall back to the movie index.
// Movies (and anything unrecognized) search the movie index only.
func (c *Client) search(ctx context.Context, kind Kind, title string, year int) (Artwork, error) {
	if kind == KindEpisode || kind == KindChannel {
		result, err := c.searchTV(ctx, title, year)
		if err != nil {
			return Artwork{}, err
		}
		if result == nil && year > 0 {
			c.log.Debugw("tv search retrying without year", "title", title, "year", year)
			if result, err = c.searchTV(ctx, title, 0); err != nil {
				return Artwork{}, err
			}
		}
		if result == nil {
			c.log.Debugw("tv search empty, falling back to movie index", "title", title)
			if result, err = c.searchMovie(ctx, title, year); err != nil {
				return Artwork{}, err
			}
		}
		return buildArtwork(result), nil
	}

	result, err := c.searchMovie(ctx, title, year)
	if err != nil {
		return Artwork{}, err
	}
	return buildArtwork(result), nil
}

func (c *Client) searchMovie(ctx context.Context, title string, year int) (*searchResult, error) {
	params := map[string]string{"query": title}
	if year > 0 {
		params["year"] = fmt.Sprintf("%d", year)
	}
	return c.firstResult(ctx, "search_movie", "/search/movie", params)
}

func (c *Client) searchTV(ctx context.Context, title string, year int) (*searchResult, error) {
	params := map[string]string{"query": title}
	if year > 0 {
		params["first_air_date_year"] = fmt.Sprintf("%d", year)
	}
	return c.firstResult(ctx, "search_tv", "/search/tv", params)
}

// firstResult performs a search and takes the provider's first candidate as
// authoritative. No fuzzy re-ranking.
func (c *Client) firstResult(ctx context.Context, operation, path string, params map[string]string) (*searchResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		metrics.UpstreamRequestTotal.WithLabelValues("tmdb", operation, "error").Inc()
		return nil, fmt.Errorf("tmdb: %s: %w", operation, err)
	}
	if resp.IsError() {
		metrics.UpstreamRequestTotal.WithLabelValues("tmdb", operation, "error").Inc()
		return nil, fmt.Errorf("tmdb: %s: status %d", operation, resp.StatusCode())
	}
	metrics.UpstreamRequestTotal.WithLabelValues("tmdb", operation, "ok").Inc()

	var decoded searchResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("tmdb: decode %s: %w", operation, err)
	}
	if len(decoded.Results) == 0 {
		return nil, nil
	}
	return &decoded.Results[0], nil
}

func buildArtwork(r *searchResult) Artwork {
	if r == nil {
		return Artwork{}
	}
	var art Artwork
	if r.PosterPath != "" {
		art.PosterURL = fmt.Sprintf("%s/%s%s", imageBaseURL, posterSize, r.PosterPath)
	}
	if r.BackdropPath != "" {
		art.BackdropURL = fmt.Sprintf("%s/%s%s", imageBaseURL, backdropSize, r.BackdropPath)
	}
	return art
}
