package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/config"
	"restaurant-orders/internal/database"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/services/cart"
	"restaurant-orders/internal/services/members"
	"restaurant-orders/internal/services/menu"
	"restaurant-orders/internal/services/orders"
)

// NewRouter wires the repositories, services and handlers onto one router.
// Everything under /api requires a valid bearer token; the role checks
// themselves live in the services.
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger) http.Handler {
	memberRepo := members.NewPostgresRepository(db)

	menuHandler := menu.NewHandler(menu.NewService(menu.NewPostgresRepository(db), log), log)
	cartHandler := cart.NewHandler(cart.NewService(cart.NewPostgresRepository(db), log), log)
	orderHandler := orders.NewHandler(orders.NewService(orders.NewPostgresRepository(db), log), log)
	memberHandler := members.NewHandler(members.NewService(memberRepo, log), log)

	authMiddleware := auth.NewMiddleware(cfg.Auth.JWTSecret, memberRepo, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(httpx.WithRequestID(log))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Ping(req.Context()); err != nil {
			httpx.WriteError(w, http.StatusServiceUnavailable, "unhealthy", "database unreachable", httpx.RequestID(req.Context()))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(authMiddleware.Authenticate)
		menuHandler.RegisterRoutes(api)
		cartHandler.RegisterRoutes(api)
		orderHandler.RegisterRoutes(api)
		memberHandler.RegisterRoutes(api)
	})

	return r
}
