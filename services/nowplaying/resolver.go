package nowplaying

import (
	"context"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"homeport/models"
	"homeport/services/emby"
	"homeport/services/tmdb"
)

// playbackSource reports the live session and builds server-side artwork URLs.
type playbackSource interface {
	CurrentSession(ctx context.Context) (*models.PlaybackSession, error)
	ImageURL(itemID, tag string) string
	BackdropURL(itemID, tag string) string
	SeriesImageURL(ctx context.Context, seriesName string) (string, error)
}

// artworkSource resolves poster/backdrop artwork by title search.
type artworkSource interface {
	PosterURL(ctx context.Context, kind tmdb.Kind, title string, year int) (string, error)
	BackdropURL(ctx context.Context, kind tmdb.Kind, title string, year int) (string, error)
}

var (
	_ playbackSource = (*emby.Client)(nil)
	_ artworkSource  = (*tmdb.Client)(nil)
)

// Resolver merges the playback session with artwork metadata into one
// now-playing view. It is the single place where all upstream failure modes
// converge to the safe terminal state: it never returns an error.
type Resolver struct {
	playback playbackSource
	artwork  artworkSource
	log      *zap.SugaredLogger
}

// New constructs a Resolver. artwork may be nil when the metadata source is
// unconfigured; playback-server artwork is then the only source.
func New(playback playbackSource, artwork artworkSource, log *zap.SugaredLogger) *Resolver {
	return &Resolver{playback: playback, artwork: artwork, log: log}
}

// Resolve produces the now-playing view for the public endpoint. Nothing
// playing, a paused session, and an unreachable playback server all resolve
// to playing:false; the widget must never see a hard error.
func (r *Resolver) Resolve(ctx context.Context) models.NowPlaying {
	session, err := r.playback.CurrentSession(ctx)
	if err != nil {
		r.log.Warnw("session fetch failed", "err", err)
		return models.NowPlaying{Error: "failed to fetch now playing status"}
	}
	if session == nil || session.IsPaused {
		return models.NowPlaying{}
	}

	name, kind, year := classify(session)

	var posterURL, backdropURL string
	var wg conc.WaitGroup
	wg.Go(func() {
		posterURL = r.resolvePoster(ctx, session, kind, name, year)
	})
	wg.Go(func() {
		backdropURL = r.resolveBackdrop(ctx, session, kind, name, year)
	})
	wg.Wait()

	item := &models.NowPlayingItem{
		Name:           name,
		Type:           session.Type,
		SeriesName:     session.SeriesName,
		SeasonName:     session.SeasonName,
		EpisodeTitle:   episodeTitle(session),
		SeasonNumber:   session.SeasonNumber,
		EpisodeNumber:  session.EpisodeNumber,
		ProductionYear: year,
		PosterURL:      optional(posterURL),
		BackdropURL:    optional(backdropURL),
	}
	return models.NowPlaying{Playing: true, Item: item}
}

// classify maps the session to a display name, search kind and year.
// Channels take their currently airing program's name and year when present
// and are searched as episodic content; episodes prefer the episode title
// over the raw item name.
func classify(s *models.PlaybackSession) (name string, kind tmdb.Kind, year int) {
	name = s.Name
	year = s.ProductionYear

	switch s.Type {
	case models.MediaTypeTvChannel:
		kind = tmdb.KindEpisode
		if s.CurrentProgram != nil && s.CurrentProgram.Name != "" {
			name = s.CurrentProgram.Name
			if s.CurrentProgram.ProductionYear > 0 {
				year = s.CurrentProgram.ProductionYear
			}
		}
	case models.MediaTypeEpisode:
		kind = tmdb.KindEpisode
		name = episodeTitle(s)
	default:
		kind = tmdb.KindMovie
	}
	return name, kind, year
}

func episodeTitle(s *models.PlaybackSession) string {
	if s.EpisodeTitle != "" {
		return s.EpisodeTitle
	}
	return s.Name
}

// resolvePoster tries the metadata source first, then falls back to artwork
// served by the playback server: the series primary image for episodes,
// otherwise the item's own primary image tag.
func (r *Resolver) resolvePoster(ctx context.Context, s *models.PlaybackSession, kind tmdb.Kind, name string, year int) string {
	if r.artwork != nil {
		url, err := r.artwork.PosterURL(ctx, kind, name, year)
		if err != nil {
			r.log.Warnw("poster lookup failed", "title", name, "err", err)
		} else if url != "" {
			return url
		}
	}

	if s.Type == models.MediaTypeEpisode && s.SeriesName != "" {
		url, err := r.playback.SeriesImageURL(ctx, s.SeriesName)
		if err != nil {
			r.log.Warnw("series image lookup failed", "series", s.SeriesName, "err", err)
		} else if url != "" {
			return url
		}
	}
	if tag := s.ImageTags["Primary"]; tag != "" {
		return r.playback.ImageURL(s.ItemID, tag)
	}
	return ""
}

// resolveBackdrop mirrors resolvePoster: metadata source first, then the
// parent (series) backdrop for episodes, then the item's own backdrop tags.
func (r *Resolver) resolveBackdrop(ctx context.Context, s *models.PlaybackSession, kind tmdb.Kind, name string, year int) string {
	if r.artwork != nil {
		url, err := r.artwork.BackdropURL(ctx, kind, name, year)
		if err != nil {
			r.log.Warnw("backdrop lookup failed", "title", name, "err", err)
		} else if url != "" {
			return url
		}
	}

	if s.Type == models.MediaTypeEpisode && len(s.ParentBackdropImageTags) > 0 && s.ParentBackdropItemID != "" {
		return r.playback.BackdropURL(s.ParentBackdropItemID, s.ParentBackdropImageTags[0])
	}
	if len(s.BackdropImageTags) > 0 {
		return r.playback.BackdropURL(s.ItemID, s.BackdropImageTags[0])
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
