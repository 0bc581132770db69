/*
Package handler provides the HTTP handlers and routing setup for the RouteShare server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"routeshare/internal/pkg/auth/jwt"
	"routeshare/internal/pkg/limiter"
	"routeshare/internal/pkg/logx"
	"routeshare/internal/pkg/resp"
)

const (
	AuthRate  = 0.2
	AuthBurst = 5
	WsRate    = 0.5
	WsBurst   = 10
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(WsRate), WsBurst)

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
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"status":       "ok",
			"service":      "RouteShare Server",
			"online_users": deps.Gateway.Registry().OnlineCount(),
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimiter.Middleware)
			auth.Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))
		})

		api.Route("/user", func(user chi.Router) {
			user.Get("/profile", HandleGetProfile(deps))
			user.Post("/profile", HandleUpdateProfile(deps))
			user.Post("/avatar/presign", HandlePresignAvatarURL(deps))
			user.Get("/{id}/online", HandleUserOnline(deps))
		})

		api.Route("/journeys", func(j chi.Router) {
			j.Post("/", HandleCreateJourney(deps))
			j.Get("/", HandleListJourneys(deps))
			j.Get("/{id}", HandleGetJourney(deps))
		})

		api.Route("/bookings", func(b chi.Router) {
			b.Post("/", HandleCreateBooking(deps))
			b.Get("/", HandleListBookings(deps))
			b.Patch("/{id}/status", HandleUpdateBookingStatus(deps))
		})

		api.Route("/vehicles", func(v chi.Router) {
			v.Post("/", HandleCreateVehicle(deps))
			v.Get("/", HandleListVehicles(deps))
			v.Post("/photo/presign", HandlePresignVehiclePhotoURL(deps))
		})

		api.Get("/messages/{peerID}", HandleConversation(deps))
	})

	wsHandler := HandleWebSocket(wsUpgrader, wsLimiter, deps)
	r.With(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret)).Get("/ws", wsHandler)

	return r
}
