package http

import (
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/conferencia-nfe/internal/application/comparison"
	"github.com/jhoicas/conferencia-nfe/internal/application/pricetable"
	"github.com/jhoicas/conferencia-nfe/pkg/logger"
)

// RoleAdmin único rol que puede reemplazar la tabla guardada cuando la autenticación está activa.
const RoleAdmin = "admin"

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name        string
	BodyLimit   int    // bytes; 0 usa el default de Fiber
	SwaggerFile string // vacío deshabilita /docs
}

// NewApp construye la aplicación Fiber con el manejo de errores, /health y /docs.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "Conferência NF-e API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ComparisonUC *comparison.UseCase
	PriceTableUC *pricetable.UseCase
	Logger       *logger.Logger
	JWTSecret    string // vacío deshabilita la autenticación
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Con secret configurado todas las rutas /api exigen Bearer Token.
	var adminOnly fiber.Handler = func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		adminOnly = RequireRole(RoleAdmin)
	}

	comparisonHandler := NewComparisonHandler(deps.ComparisonUC, deps.Logger)
	api.Post("/comparar", comparisonHandler.Compare)
	api.Get("/comparaciones", comparisonHandler.List)
	api.Get("/comparaciones/:id", comparisonHandler.GetByID)

	priceTableHandler := NewPriceTableHandler(deps.PriceTableUC, deps.Logger)
	api.Get("/tabla-precios", priceTableHandler.Get)
	api.Put("/tabla-precios", adminOnly, priceTableHandler.Replace)
}
