package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeport/api"
	"homeport/cache"
	"homeport/config"
	"homeport/handlers"
	"homeport/internal/logger"
	"homeport/internal/metrics"
	"homeport/services/emby"
	"homeport/services/nowplaying"
	"homeport/services/tmdb"
	"homeport/services/wordpress"
	"homeport/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFile)
	defer zlog.Sync()

	metrics.Register()

	// One content cache for the life of the process, owned here and passed
	// down explicitly.
	store := cache.New(cfg.CacheTTL)

	wp, err := wordpress.New(cfg.WordPressAPIURL, cfg.HTTPTimeout, store, zlog.With("component", "wordpress"))
	if err != nil {
		zlog.Fatalw("wordpress client", "err", err)
	}

	// The now-playing feature is optional: without playback credentials the
	// endpoint stays up and reports playing:false.
	nowPlayingHandler := handlers.NewNowPlayingHandler(nil)
	embyClient, err := emby.New(cfg.EmbyServer, cfg.EmbyAPIKey, cfg.EmbyUserID, cfg.HTTPTimeout, zlog.With("component", "emby"))
	if err != nil {
		zlog.Warnw("now playing disabled", "err", err)
	} else {
		var resolver *nowplaying.Resolver
		tmdbClient, err := tmdb.New(cfg.TMDBAPIKey, cfg.HTTPTimeout, zlog.With("component", "tmdb"))
		if err != nil {
			zlog.Warnw("artwork lookups disabled", "err", err)
			resolver = nowplaying.New(embyClient, nil, zlog.With("component", "nowplaying"))
		} else {
			resolver = nowplaying.New(embyClient, tmdbClient, zlog.With("component", "nowplaying"))
		}
		nowPlayingHandler = handlers.NewNowPlayingHandler(resolver)
	}

	articlesHandler := handlers.NewArticlesHandler(wp)
	searchHandler := handlers.NewSearchHandler(wp, zlog.With("component", "search"))

	router := utils.NewRouter()
	router.Use(api.RequestIDMiddleware(), api.LoggingMiddleware(zlog), api.MetricsMiddleware())

	router.HandleFunc("/api/posts", articlesHandler.Posts).Methods(http.MethodGet)
	router.HandleFunc("/api/legal", articlesHandler.Legal).Methods(http.MethodGet)
	router.HandleFunc("/api/now-playing", nowPlayingHandler.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/search", searchHandler.Get).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Infow("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatalw("server failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Warnw("shutdown", "err", err)
	}
	zlog.Infow("stopped")
}
