package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"imgpdf/internal/config"
	"imgpdf/internal/http/handlers"
	"imgpdf/internal/http/middleware"
	"imgpdf/internal/infra/cache"
	log "imgpdf/internal/infra/logging"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Config    config.Config
	Converter handlers.Converter
	// Cache may be nil when result caching is disabled.
	Cache *cache.ResultCache
	// Tokens may be nil; API-key auth and per-token limits are then off.
	Tokens middleware.TokenStore
	// LimiterStore backs the rate limiters.
	LimiterStore fiber.Storage
}

// New creates and configures the Fiber app.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:               d.Config.Server.Prefork,
		BodyLimit:             d.Config.Server.BodyLimitBytes,
		DisableStartupMessage: true,
		Views:                 handlers.NewViews(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			log.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		},
	})

	middleware.Register(app, d.Config, d.Tokens, d.LimiterStore)
	RegisterRoutes(app, d)

	// Anything unmatched answers with a JSON 404.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

// RegisterRoutes mounts the page and API handlers.
func RegisterRoutes(app *fiber.App, d Deps) {
	svc := handlers.NewConvertService(d.Converter, d.Cache)

	app.Get("/", svc.HandlePage)
	app.Post("/", svc.HandleUpload)

	v1 := app.Group("/v1")
	v1.Post("/convert", svc.HandleConvert)
	v1.Get("/formats", svc.HandleFormats)
	v1.Get("/monitor", monitor.New())
}
