package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func buildRouter(s *stateStore) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Search page
	r.Get("/", s.indexHandler)
	r.Post("/", s.uploadImageHandler)
	r.Post("/search", s.searchSubmitHandler)

	// Static pages
	r.Get("/privacy", s.staticPageHandler("privacy"))
	r.Get("/feedback", s.staticPageHandler("feedback"))
	r.Get("/report", s.staticPageHandler("report"))
	r.Get("/input-example", s.staticPageHandler("input-example"))
	r.Get("/robots.txt", robotsHandler)

	// Health/info
	r.Get("/healthz", healthzHandler)
	r.Get("/api/v1/server-info", s.serverInfoHandler)

	// Codec/history APIs
	r.Get("/api/v1/codec/encode", s.encodeHandler)
	r.Get("/api/v1/codec/decode", s.decodeHandler)
	r.Get("/api/v1/params", s.paramsHandler)
	r.Get("/api/v1/history", s.historyHandler)
	r.Post("/api/v1/history/flush", s.flushHistoryHandler)
	r.Get("/api/v1/uploads", s.uploadsHandler)

	if dir := strings.TrimSpace(s.cfg.Server.StaticDir); dir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	}

	return r
}
