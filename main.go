package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/catalog-api/modules/api"
	"github.com/example/catalog-api/modules/auth"
	"github.com/example/catalog-api/modules/blob"
	"github.com/example/catalog-api/modules/catalog"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Catalog API ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(blob.NewModule())    // Independent module (image storage)
	app.Register(auth.NewModule())    // Independent module (accounts and tokens)
	app.Register(catalog.NewModule()) // Depends on blob
	app.Register(api.NewModule())     // Depends on auth, catalog, blob

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/register       - Register a new user")
	log.Println("  POST   /api/login          - Login and get a token")
	log.Println("  GET    /storage/*          - Serve product images")
	log.Println("  GET    /health             - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  POST   /api/logout         - Revoke the current token")
	log.Println("  GET    /api/categorias     - List categories")
	log.Println("  GET    /api/produtos       - List products (?category_id=N)")
	log.Println("  GET    /api/produto/:id    - Get a product with categories")
	log.Println("")
	log.Println("  Admin Endpoints:")
	log.Println("  POST   /api/categoria      - Create category")
	log.Println("  GET    /api/categoria/:id  - Get category")
	log.Println("  PUT    /api/categoria/:id  - Rename category")
	log.Println("  DELETE /api/categoria/:id  - Delete category")
	log.Println("  POST   /api/produto        - Create product (multipart)")
	log.Println("  POST   /api/produto/:id    - Update product (multipart)")
	log.Println("  DELETE /api/produto/:id    - Delete product")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
