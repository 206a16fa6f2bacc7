package models

// Media item types reported by the playback server.
const (
	MediaTypeMovie     = "Movie"
	MediaTypeEpisode   = "Episode"
	MediaTypeTvChannel = "TvChannel"
)

// Program describes the show currently airing on a live channel.
type Program struct {
	Name           string `json:"name"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	ProductionYear int    `json:"productionYear,omitempty"`
}

// PlaybackSession is the single active session for the tracked user.
// Transient: fetched fresh per request, never cached or persisted.
type PlaybackSession struct {
	ItemID         string `json:"itemId"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	SeriesID       string `json:"seriesId,omitempty"`
	SeriesName     string `json:"seriesName,omitempty"`
	SeasonName     string `json:"seasonName,omitempty"`
	EpisodeTitle   string `json:"episodeTitle,omitempty"`
	SeasonNumber   int    `json:"seasonNumber,omitempty"`
	EpisodeNumber  int    `json:"episodeNumber,omitempty"`
	ProductionYear int    `json:"productionYear,omitempty"`
	ChannelName    string `json:"channelName,omitempty"`
	IsPaused       bool   `json:"isPaused"`

	// Raw image tags from the playback server, used to build artwork URLs
	// when the metadata source has nothing.
	ImageTags               map[string]string `json:"-"`
	BackdropImageTags       []string          `json:"-"`
	ParentBackdropItemID    string            `json:"-"`
	ParentBackdropImageTags []string          `json:"-"`

	CurrentProgram *Program `json:"currentProgram,omitempty"`
}
