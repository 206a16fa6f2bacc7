package emby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"homeport/internal/metrics"
	"homeport/models"
)

// Client talks to an Emby server. Session state must be fresh, so nothing
// here is cached.
type Client struct {
	http   *resty.Client
	server string
	apiKey string
	userID string
	log    *zap.SugaredLogger
}

// New validates the required settings and constructs a client. A missing
// server URL, API key, or user ID is a configuration error; callers must not
// attempt any call on a client that failed construction.
func New(server, apiKey, userID string, timeout time.Duration, log *zap.SugaredLogger) (*Client, error) {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if server == "" || strings.TrimSpace(apiKey) == "" || strings.TrimSpace(userID) == "" {
		return nil, errors.New("emby: server, api key and user id are required")
	}
	httpClient := resty.New().
		SetBaseURL(server).
		SetTimeout(timeout).
		SetQueryParam("api_key", apiKey)
	return &Client{
		http:   httpClient,
		server: server,
		apiKey: apiKey,
		userID: userID,
		log:    log,
	}, nil
}

type rawProgram struct {
	Name           string `json:"Name"`
	StartDate      string `json:"StartDate"`
	EndDate        string `json:"EndDate"`
	ProductionYear int    `json:"ProductionYear"`
}

type rawItem struct {
	ID                      string            `json:"Id"`
	Name                    string            `json:"Name"`
	Type                    string            `json:"Type"`
	SeriesID                string            `json:"SeriesId"`
	SeriesName              string            `json:"SeriesName"`
	SeasonName              string            `json:"SeasonName"`
	EpisodeTitle            string            `json:"EpisodeTitle"`
	IndexNumber             int               `json:"IndexNumber"`
	ParentIndexNumber       int               `json:"ParentIndexNumber"`
	ProductionYear          int               `json:"ProductionYear"`
	ChannelName             string            `json:"ChannelName"`
	ImageTags               map[string]string `json:"ImageTags"`
	BackdropImageTags       []string          `json:"BackdropImageTags"`
	ParentBackdropItemID    string            `json:"ParentBackdropItemId"`
	ParentBackdropImageTags []string          `json:"ParentBackdropImageTags"`
	CurrentProgram          *rawProgram       `json:"CurrentProgram"`
}

type rawSession struct {
	UserID         string   `json:"UserId"`
	NowPlayingItem *rawItem `json:"NowPlayingItem"`
	PlayState      struct {
		IsPaused bool `json:"IsPaused"`
	} `json:"PlayState"`
}

// CurrentSession returns the tracked user's active playback session: the
// first session whose user matches and which has a now-playing item.
// (nil, nil) means nothing is playing; an error means the upstream was
// unreachable or returned garbage, and the caller decides how to degrade.
func (c *Client) CurrentSession(ctx context.Context) (*models.PlaybackSession, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/emby/Sessions")
	if err != nil {
		metrics.UpstreamRequestTotal.WithLabelValues("emby", "sessions", "error").Inc()
		return nil, fmt.Errorf("emby: fetch sessions: %w", err)
	}
	if resp.IsError() {
		metrics.UpstreamRequestTotal.WithLabelValues("emby", "sessions", "error").Inc()
		return nil, fmt.Errorf("emby: fetch sessions: status %d", resp.StatusCode())
	}
	metrics.UpstreamRequestTotal.WithLabelValues("emby", "sessions", "ok").Inc()

	var sessions []rawSession
	if err := json.Unmarshal(resp.Body(), &sessions); err != nil {
		return nil, fmt.Errorf("emby: decode sessions: %w", err)
	}

	for _, s := range sessions {
		if s.UserID != c.userID || s.NowPlayingItem == nil {
			continue
		}
		item := s.NowPlayingItem
		session := &models.PlaybackSession{
			ItemID:                  item.ID,
			Name:                    item.Name,
			Type:                    item.Type,
			SeriesID:                item.SeriesID,
			SeriesName:              item.SeriesName,
			SeasonName:              item.SeasonName,
			EpisodeTitle:            item.EpisodeTitle,
			SeasonNumber:            item.ParentIndexNumber,
			EpisodeNumber:           item.IndexNumber,
			ProductionYear:          item.ProductionYear,
			ChannelName:             item.ChannelName,
			IsPaused:                s.PlayState.IsPaused,
			ImageTags:               item.ImageTags,
			BackdropImageTags:       item.BackdropImageTags,
			ParentBackdropItemID:    item.ParentBackdropItemID,
			ParentBackdropImageTags: item.ParentBackdropImageTags,
		}
		if item.CurrentProgram != nil {
			session.CurrentProgram = &models.Program{
				Name:           item.CurrentProgram.Name,
				StartDate:      item.CurrentProgram.StartDate,
				EndDate:        item.CurrentProgram.EndDate,
				ProductionYear: item.CurrentProgram.ProductionYear,
			}
		}
		return session, nil
	}
	return nil, nil
}

// ImageURL builds the primary-image URL for an item. No network call.
func (c *Client) ImageURL(itemID, tag string) string {
	return fmt.Sprintf("%s/emby/Items/%s/Images/Primary?tag=%s&api_key=%s", c.server, itemID, tag, c.apiKey)
}

// BackdropURL builds the first backdrop URL for an item. No network call.
func (c *Client) BackdropURL(itemID, tag string) string {
	return fmt.Sprintf("%s/emby/Items/%s/Images/Backdrop/0?tag=%s&api_key=%s", c.server, itemID, tag, c.apiKey)
}

type searchResponse struct {
	Items []struct {
		ID        string            `json:"Id"`
		Name      string            `json:"Name"`
		Type      string            `json:"Type"`
		ImageTags map[string]string `json:"ImageTags"`
	} `json:"Items"`
	TotalRecordCount int `json:"TotalRecordCount"`
}

// SeriesImageURL searches the server for a series by exact name and returns
// its primary-image URL. ("", nil) means no exact match or no primary image.
func (c *Client) SeriesImageURL(ctx context.Context, seriesName string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"SearchTerm":       seriesName,
			"IncludeItemTypes": "Series",
			"Recursive":        "true",
		}).
		Get("/emby/Items")
	if err != nil {
		metrics.UpstreamRequestTotal.WithLabelValues("emby", "series_search", "error").Inc()
		return "", fmt.Errorf("emby: series search: %w", err)
	}
	if resp.IsError() {
		metrics.UpstreamRequestTotal.WithLabelValues("emby", "series_search", "error").Inc()
		return "", fmt.Errorf("emby: series search: status %d", resp.StatusCode())
	}
	metrics.UpstreamRequestTotal.WithLabelValues("emby", "series_search", "ok").Inc()

	var results searchResponse
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return "", fmt.Errorf("emby: decode series search: %w", err)
	}

	for _, item := range results.Items {
		if item.Type != "Series" || item.Name != seriesName {
			continue
		}
		tag := item.ImageTags["Primary"]
		if tag == "" {
			c.log.Debugw("series has no primary image", "series", seriesName)
			return "", nil
		}
		return c.ImageURL(item.ID, tag), nil
	}
	c.log.Debugw("series not found", "series", seriesName, "total", results.TotalRecordCount)
	return "", nil
}
