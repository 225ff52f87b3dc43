package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskhive/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Stats  *apiHandler.StatsHandler
	Health *apiHandler.HealthHandler
}

// New wires the route table. Registration and token exchange stay public;
// everything under /tasks and /users/me runs behind the bearer authorizer.
func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()
	r.RedirectTrailingSlash = true

	r.GET("/health", handlers.Health.Check)

	// Public auth routes
	r.POST("/users", handlers.Auth.Register)
	r.POST("/users/", handlers.Auth.Register)
	r.POST("/token", handlers.Auth.Token)

	// Protected routes
	r.GET("/users/me", authMiddleware(handlers.Auth.Me))

	r.GET("/tasks", authMiddleware(handlers.Task.List))
	r.GET("/tasks/", authMiddleware(handlers.Task.List))
	r.POST("/tasks", authMiddleware(handlers.Task.Create))
	r.POST("/tasks/", authMiddleware(handlers.Task.Create))
	r.GET("/tasks/stats", authMiddleware(handlers.Stats.Weekly))
	r.GET("/tasks/stats/weekly", authMiddleware(handlers.Stats.Breakdown))
	r.GET("/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/tasks/{id}", authMiddleware(handlers.Task.Delete))

	return r
}
