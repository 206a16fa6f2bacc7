package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"homeport/models"
	"homeport/services/nowplaying"
)

// sessionResolver produces the now-playing view. It never errors; all
// upstream failures degrade to playing:false inside the resolver.
type sessionResolver interface {
	Resolve(ctx context.Context) models.NowPlaying
}

var _ sessionResolver = (*nowplaying.Resolver)(nil)

// NowPlayingHandler serves /api/now-playing. The endpoint always answers
// 200: the widget it feeds is ambient and must never surface a hard error.
type NowPlayingHandler struct {
	Resolver sessionResolver
}

// NewNowPlayingHandler constructs the handler. A nil resolver (playback
// source unconfigured) pins the endpoint to playing:false.
func NewNowPlayingHandler(resolver sessionResolver) *NowPlayingHandler {
	return &NowPlayingHandler{Resolver: resolver}
}

func (h *NowPlayingHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if h.Resolver == nil {
		json.NewEncoder(w).Encode(models.NowPlaying{})
		return
	}
	json.NewEncoder(w).Encode(h.Resolver.Resolve(r.Context()))
}
