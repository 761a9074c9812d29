package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nkumar/cricket-auction/internal/api/handlers"
	"github.com/nkumar/cricket-auction/internal/api/middleware"
	"github.com/nkumar/cricket-auction/internal/config"
	"github.com/nkumar/cricket-auction/internal/repository"
	"github.com/nkumar/cricket-auction/internal/service"
	"github.com/nkumar/cricket-auction/internal/websocket"
	"github.com/rs/cors"
)

func NewRouter(services *service.Services, hub *websocket.Hub, repos *repository.Repositories, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	roomHandler := handlers.NewRoomHandler(services.Room, services.Participant, repos, hub)
	playerHandler := handlers.NewPlayerHandler(services.Player)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Player catalog (public reads)
		r.Route("/players", func(r chi.Router) {
			r.Get("/", playerHandler.GetAll)
			r.Post("/seed", playerHandler.Seed) // Should be admin-only in production
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/rooms", func(r chi.Router) {
				r.Post("/", roomHandler.Create)
				r.Get("/{idOrCode}", roomHandler.Get)
				r.Post("/{idOrCode}/join", roomHandler.Join)
				r.Post("/{idOrCode}/franchise", roomHandler.ClaimFranchise)
				r.Get("/{idOrCode}/participants", roomHandler.Participants)
				r.Get("/{idOrCode}/state", roomHandler.State)
				r.Get("/{idOrCode}/bids", roomHandler.Bids)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
