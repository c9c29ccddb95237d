package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"contactbook/pkg/logger"
)

type Router struct {
	UserHandler    *UserHandler
	ChatHandler    *ChatHandler
	HealthHandler  *HealthHandler
	AppLogger      logger.LoggerInterface
	AllowedOrigins []string
}

func NewRouter(userHandler *UserHandler, chatHandler *ChatHandler, healthHandler *HealthHandler, appLogger logger.LoggerInterface, allowedOrigins []string) *Router {
	return &Router{
		UserHandler:    userHandler,
		ChatHandler:    chatHandler,
		HealthHandler:  healthHandler,
		AppLogger:      appLogger,
		AllowedOrigins: allowedOrigins,
	}
}

func (r *Router) SetupRoutes() http.Handler {
	router := chi.NewRouter()

	origins := r.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Add middleware
	router.Use(middleware.RequestID)
	router.Use(LoggingMiddleware(r.AppLogger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	router.Use(middleware.Heartbeat("/ping"))

	// Health check endpoints
	router.Get("/health", r.HealthHandler.HealthCheckHandler)

	router.Route("/api", func(api chi.Router) {
		api.Get("/health", r.HealthHandler.HealthCheckHandler)

		api.Route("/users", func(users chi.Router) {
			users.Get("/", r.UserHandler.ListHandler)
			users.Post("/", r.UserHandler.CreateHandler)
			users.Get("/search/{name}", r.UserHandler.SearchHandler)
			users.Get("/email/{email}", r.UserHandler.GetByEmailHandler)
			users.Get("/{id}", r.UserHandler.GetByIDHandler)
			users.Put("/{id}", r.UserHandler.UpdateHandler)
			users.Delete("/{id}", r.UserHandler.DeleteHandler)
		})

		api.Route("/chat", func(chat chi.Router) {
			chat.Post("/", r.ChatHandler.MessageHandler)
			chat.Post("/confirm", r.ChatHandler.ConfirmHandler)
		})
	})
	return router
}
