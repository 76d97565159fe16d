package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"taskquest/internal/auth"
	"taskquest/internal/service"
)

// Server is the HTTP surface over the per-user sessions.
type Server struct {
	app  *fiber.App
	addr string
}

// NewServer builds the Fiber app and wires every route.
func NewServer(addr string, authSvc *auth.Service, registry *service.Registry) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	h := NewHandlers(authSvc, registry)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	v1 := app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", h.Register)
	authRoutes.Post("/login", h.Login)
	authRoutes.Post("/logout", AuthMiddleware(authSvc), h.Logout)

	protected := v1.Group("", AuthMiddleware(authSvc))
	protected.Get("/tasks", h.ListTasks)
	protected.Post("/tasks", h.CreateTask)
	protected.Patch("/tasks/:id", h.UpdateTask)
	protected.Delete("/tasks/:id", h.DeleteTask)
	protected.Post("/tasks/:id/complete", h.CompleteTask)
	protected.Post("/tasks/:id/undo", h.UndoTask)
	protected.Get("/stats", h.GetStats)
	protected.Get("/achievements", h.ListAchievements)
	protected.Get("/notifications", h.ListNotifications)
	protected.Delete("/notifications/:id", h.DismissNotification)
	protected.Post("/sync", h.Sync)

	return &Server{app: app, addr: addr}
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	return s.app.Listen(s.addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
