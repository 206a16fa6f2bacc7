package models

// NowPlayingItem is the display-relevant view of a playback session,
// enriched with artwork. Poster/backdrop are pointers so absence
// serializes as null rather than disappearing.
type NowPlayingItem struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	SeriesName     string  `json:"seriesName,omitempty"`
	SeasonName     string  `json:"seasonName,omitempty"`
	EpisodeTitle   string  `json:"episodeTitle,omitempty"`
	SeasonNumber   int     `json:"seasonNumber,omitempty"`
	EpisodeNumber  int     `json:"episodeNumber,omitempty"`
	ProductionYear int     `json:"productionYear,omitempty"`
	PosterURL      *string `json:"posterUrl"`
	BackdropURL    *string `json:"backdropUrl"`
}

// NowPlaying is the externally visible result of a session resolution.
// Item is nil whenever Playing is false.
type NowPlaying struct {
	Playing bool            `json:"playing"`
	Item    *NowPlayingItem `json:"item"`
	// PlayState is always null; kept for wire compatibility with the
	// widget that consumes this payload.
	PlayState any    `json:"playState"`
	Error     string `json:"error,omitempty"`
}

// Project is a static portfolio entry surfaced by site search.
type Project struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Link        ProjectLink `json:"link"`
}

// ProjectLink is the outbound link attached to a project.
type ProjectLink struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

// SearchResult is one ranked hit from site search.
type SearchResult struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Date        string `json:"date"`
}
