// Package server is the admin gateway: it accepts working models over HTTP,
// normalizes them and forwards canonical payloads to the catalog API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"catalogadmin/api"
	"catalogadmin/config"
	"catalogadmin/dashboard"
	"catalogadmin/logger"
	"catalogadmin/model"
	"catalogadmin/normalize"

	"github.com/gorilla/mux"
)

// Deps is what the gateway talks to. Uploader may be nil when object storage
// is not configured; upload routes then answer 503.
type Deps struct {
	API      *api.Client
	Uploader dashboard.ImageUploader
	// MaxUploadBytes bounds multipart bodies. Zero means 10 MiB.
	MaxUploadBytes int64
}

// New builds the gateway router.
func New(d Deps) http.Handler {
	router := mux.NewRouter()
	router.Use(logMiddleware, bearerMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	admin := router.PathPrefix("/admin").Subrouter()
	loader := api.NewLoader(d.API)

	mountEntity[model.Artist, normalize.ArtistForm, model.ArtistPayload](admin, "artists", dashboard.Artists, d.API.Artists(), loader)
	mountEntity[model.Album, normalize.AlbumForm, model.AlbumPayload](admin, "albums", dashboard.Albums, d.API.Albums(), loader)
	mountEntity[model.Track, normalize.TrackForm, model.TrackPayload](admin, "tracks", dashboard.Tracks, d.API.Tracks(), loader)
	mountEntity[model.Genre, normalize.GenreForm, model.GenrePayload](admin, "genres", dashboard.Genres, d.API.Genres(), loader)
	mountEntity[model.News, normalize.NewsForm, model.NewsPayload](admin, "news", dashboard.News, d.API.News(), loader)

	p := &plaqueHandler{api: d.API}
	admin.HandleFunc("/albums/{id}/plaques", p.add).Methods(http.MethodPost)
	admin.HandleFunc("/albums/{id}/plaques/{index:[0-9]+}", p.update).Methods(http.MethodPut)
	admin.HandleFunc("/albums/{id}/plaques/{index:[0-9]+}", p.remove).Methods(http.MethodDelete)
	admin.HandleFunc("/plaque-types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dashboard.PlaqueTypes)
	}).Methods(http.MethodGet)

	admin.HandleFunc("/lookups/{collection}", lookupHandler(loader)).Methods(http.MethodGet)

	u := &uploadHandler{uploader: d.Uploader, maxBytes: d.MaxUploadBytes}
	admin.HandleFunc("/uploads/{kind}", u.upload).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	// outside the router so preflight requests reach it without a matching route
	return corsMiddleware(router)
}

// Run serves h on cfg.ServerAddr until ctx is cancelled, then shuts down
// with a five second grace period.
func Run(ctx context.Context, cfg *config.Config, h http.Handler) error {
	timeout := time.Duration(cfg.ServerTimeoutSec) * time.Second
	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      h,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin gateway listening", logger.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down admin gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rec.status),
			logger.Duration("elapsed", time.Since(start)))
	})
}

// bearerMiddleware forwards the caller's bearer token to the catalog API.
// Without one the client falls back to the stored session.
func bearerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			writeMessage(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}
		ctx := api.WithToken(r.Context(), strings.TrimSpace(parts[1]))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
