package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/confettischool/backend/internal/config"
	"github.com/confettischool/backend/internal/handlers"
	"github.com/confettischool/backend/internal/middleware"
	"github.com/confettischool/backend/internal/models"
)

// Base paths for the three CRUD resources. The controllers use these as
// redirect targets, so the routes and the redirect policy stay in one place.
const (
	UsersPath       = "/api/users"
	SubscribersPath = "/api/subscribers"
	CoursesPath     = "/api/courses"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	users *handlers.ResourceHandler[models.User],
	subscribers *handlers.ResourceHandler[models.Subscriber],
	courses *handlers.ResourceHandler[models.Course],
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth: stricter rate limit, login is the only public entry
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)

	guard := middleware.JWTProtected(cfg)
	Resource(api.Group("/users"), users, guard)
	Resource(api.Group("/subscribers"), subscribers, guard)
	Resource(api.Group("/courses"), courses, guard)
}

// Resource registers the seven canonical CRUD actions. "/new" must come
// before "/:id" so the form route is not swallowed by the id match. The
// guard handlers, if any, are applied to the destructive delete route only.
func Resource[T any](g fiber.Router, h *handlers.ResourceHandler[T], guard ...fiber.Handler) {
	g.Get("/", h.Index)
	g.Get("/new", h.New)
	g.Post("/", h.Create)
	g.Get("/:id", h.Show)
	g.Get("/:id/edit", h.Edit)
	g.Put("/:id", h.Update)
	g.Delete("/:id", append(guard, h.Delete)...)
}
