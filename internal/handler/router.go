/*
Package handler provides the HTTP handlers and routing setup for the mypage server.

This file defines the main Router, applying necessary middleware like logging, CORS,
session resolution, and IP-based rate limiting before delegating requests to the
view and API handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"mypage/internal/pkg/limiter"
	"mypage/internal/pkg/logx"
	"mypage/internal/pkg/resp"
	"mypage/internal/session"
)

const (
	SignupRate  = 0.05
	SignupBurst = 2
	LoginRate   = 0.2
	LoginBurst  = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and
// per-route middleware. Server-rendered views live at the root; the JSON API
// consumed by the client-rendered pieces lives under /api.
func Router(deps *AppDeps) http.Handler {
	signupLimiter := limiter.NewIPRateLimiter("signup", rate.Limit(SignupRate), SignupBurst)
	loginLimiter := limiter.NewIPRateLimiter("login", rate.Limit(LoginRate), LoginBurst)

	r := chi.NewRouter()

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
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)
	r.Use(deps.Resolver.Middleware())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "mypage server",
		}
		resp.RespondSuccess(w, r, data)
	})

	// Server-rendered views. Gating is the session resolver's render-vs-redirect
	// decision; the pages themselves are thin shells.
	r.Get("/", HandleHomeView(deps))

	r.Route("/auth", func(auth chi.Router) {
		auth.With(session.RedirectAuthenticated("/")).Get("/login", HandleLoginView(deps))
		auth.With(session.RedirectAuthenticated("/")).Get("/signup", HandleSignupView(deps))
		auth.Get("/callback", HandleAuthCallback(deps))
	})

	r.Route("/settings", func(settings chi.Router) {
		settings.Use(session.RequireSession("/auth/login"))
		settings.Get("/profile", HandleProfileView(deps))
		settings.Get("/password", HandlePasswordView(deps))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			rateLimitedSignup := signupLimiter.Middleware(HandleSignup(deps))
			auth.Post("/signup", http.HandlerFunc(rateLimitedSignup.ServeHTTP))

			rateLimitedLogin := loginLimiter.Middleware(HandleLogin(deps))
			auth.Post("/login", http.HandlerFunc(rateLimitedLogin.ServeHTTP))

			auth.Post("/signout", HandleSignout(deps))
		})

		api.Get("/profile", HandleGetProfile(deps))
		api.Post("/profile", HandleUpdateProfile(deps))
	})

	return r
}
