/*
Package handler provides the HTTP handlers and routing setup for the ExNebula server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based admission control before delegating requests to specific handlers
(REST API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"exnebula/internal/pkg/limiter"
	"exnebula/internal/pkg/logx"
	"exnebula/internal/pkg/resp"
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes the fixed-window admission controller for the API surface,
// configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	apiLimiter := limiter.NewWindowLimiter(deps.Config.RateLimitMax, deps.Config.RateLimitWindow)
	resolver := deps.Resolver()

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "ExNebula Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(apiLimiter.Middleware)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))

			auth.With(deps.Codec.RequireIdentity(resolver)).Get("/me", HandleMe(deps))
		})

		api.Group(func(protected chi.Router) {
			protected.Use(deps.Codec.RequireIdentity(resolver))

			protected.Route("/learning-path", func(lp chi.Router) {
				lp.Post("/generate", HandleGeneratePath(deps))
				lp.Get("/my-paths", HandleListPaths(deps))
			})

			protected.Post("/chat/mentor", HandleMentorChat(deps))

			protected.Post("/user/avatar/presign", HandlePresignAvatar(deps))
			protected.Post("/user/preferences", HandleUpdatePreferences(deps))
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, apiLimiter, deps))

	return r
}
