// Package server assembles the HTTP router and runs the API server.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/filedrop/gateway/internal/auth"
	"github.com/filedrop/gateway/internal/config"
	"github.com/filedrop/gateway/internal/files"
	appMiddleware "github.com/filedrop/gateway/internal/middleware"
	"github.com/filedrop/gateway/internal/response"
)

// Deps are the handlers and collaborators the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Auth     *auth.Handler
	Files    *files.Handler
	Verifier appMiddleware.TokenVerifier
}

// NewRouter builds the chi router with the shared middleware stack.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.RequestLogger(d.Logger, slog.LevelInfo))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	// Swagger UI at /swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", d.Auth.Login)
	})

	r.Route("/files", func(r chi.Router) {
		r.Use(appMiddleware.RequireAuth(d.Verifier))
		r.Get("/", d.Files.List)
		r.Post("/upload", d.Files.Upload)
		r.Get("/url", d.Files.Link)
	})

	return r
}
