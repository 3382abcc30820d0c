package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/quizdeck/quizdeck-be/internal/api/handlers"
	"github.com/quizdeck/quizdeck-be/internal/auth"
	"github.com/quizdeck/quizdeck-be/internal/services"
	"github.com/quizdeck/quizdeck-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, userService services.UserServiceProvider, eventService services.EventServiceProvider, corsOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(userService, eventService)
	healthHandler := handlers.NewHealthHandler(userService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Get("/health", healthHandler.Get)

	r.Route("/api/v1", func(r chi.Router) {
		// Activity feed websocket endpoint
		r.Get("/ws", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/email/{email}", userHandler.GetByEmail)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Put("/stats", userHandler.UpdateStats)
				r.Post("/quizzes", userHandler.AddQuiz)
				r.Post("/games", userHandler.AddGameHistory)
			})
		})

		// Admin endpoints require a valid token
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.JWTMiddleware())
			r.Get("/users", adminHandler.List)
			r.Delete("/users/{id}", adminHandler.Delete)
			r.Post("/reset", adminHandler.Reset)
			r.Get("/events", adminHandler.Events)
		})
	})

	return r
}
