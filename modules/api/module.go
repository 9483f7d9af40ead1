package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/catalog-api/modules/auth"
	"github.com/example/catalog-api/modules/blob"
	"github.com/example/catalog-api/modules/catalog"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	app           *fiber.App
	port          string
	authContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
	catalogPort   catalog.CatalogPort
	blobPort      blob.BlobPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule() *APIModule {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return &APIModule{port: port}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "catalog", "blob"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	case "catalog":
		m.catalogPort = catalog.NewCatalogAdapter(container)
	case "blob":
		m.blobPort = blob.NewBlobAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authContainer == nil || m.catalogPort == nil || m.blobPort == nil {
		return fmt.Errorf("module dependencies not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes. The route shapes keep the legacy
// Portuguese paths the mobile client is built against.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.catalogPort, m.blobPort)

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	// Public image serving.
	m.app.Get("/storage/*", handlers.ServeStorage)

	api := m.app.Group("/api")

	// Public auth routes.
	api.Post("/register", handlers.Register)
	api.Post("/login", handlers.Login)

	// Authenticated routes.
	protected := api.Group("")
	protected.Use(AuthMiddleware(m.authAdapter))
	protected.Post("/logout", handlers.Logout)
	protected.Get("/categorias", handlers.ListCategories)
	protected.Get("/produtos", handlers.ListProducts)
	protected.Get("/produto/:id", handlers.GetProduct)

	// Admin-only catalog management.
	admin := protected.Group("")
	admin.Use(AdminRequired())
	admin.Post("/categoria", handlers.CreateCategory)
	admin.Get("/categoria/:id", handlers.GetCategory)
	admin.Put("/categoria/:id", handlers.UpdateCategory)
	admin.Delete("/categoria/:id", handlers.DeleteCategory)
	admin.Post("/produto", handlers.CreateProduct)
	admin.Post("/produto/:id", handlers.UpdateProduct)
	admin.Delete("/produto/:id", handlers.DeleteProduct)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
