package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/catalog-api/domain/catalog"
	"github.com/example/catalog-api/modules/blob"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CatalogModule provides category and product services.
type CatalogModule struct {
	db      *gorm.DB
	service *Service
	blobs   blob.BlobPort
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*CatalogModule)(nil)
var _ mono.ServiceProviderModule = (*CatalogModule)(nil)
var _ mono.DependentModule = (*CatalogModule)(nil)
var _ mono.HealthCheckableModule = (*CatalogModule)(nil)

// NewModule creates a new CatalogModule.
func NewModule() *CatalogModule {
	dbPath := os.Getenv("CATALOG_DB_PATH")
	if dbPath == "" {
		dbPath = "catalog.db"
	}
	return &CatalogModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *CatalogModule) Name() string {
	return "catalog"
}

// Dependencies declares the modules this module needs.
// The framework will call SetDependencyServiceContainer for each dependency.
func (m *CatalogModule) Dependencies() []string {
	return []string{"blob"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *CatalogModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "blob":
		m.blobs = blob.NewBlobAdapter(container)
	}
}

// Start initializes the catalog module.
func (m *CatalogModule) Start(_ context.Context) error {
	if m.blobs == nil {
		return fmt.Errorf("blob dependency not set")
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Category{}, &domain.Product{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewService(NewRepository(db), m.blobs)

	log.Printf("[catalog] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *CatalogModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[catalog] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *CatalogModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *CatalogModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(mono.ServiceContainer) error{
		"list-categories": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "list-categories", json.Unmarshal, json.Marshal, m.handleListCategories)
		},
		"create-category": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "create-category", json.Unmarshal, json.Marshal, m.handleCreateCategory)
		},
		"get-category": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-category", json.Unmarshal, json.Marshal, m.handleGetCategory)
		},
		"update-category": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "update-category", json.Unmarshal, json.Marshal, m.handleUpdateCategory)
		},
		"delete-category": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "delete-category", json.Unmarshal, json.Marshal, m.handleDeleteCategory)
		},
		"list-products": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "list-products", json.Unmarshal, json.Marshal, m.handleListProducts)
		},
		"get-product": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-product", json.Unmarshal, json.Marshal, m.handleGetProduct)
		},
		"create-product": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "create-product", json.Unmarshal, json.Marshal, m.handleCreateProduct)
		},
		"update-product": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "update-product", json.Unmarshal, json.Marshal, m.handleUpdateProduct)
		},
		"delete-product": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "delete-product", json.Unmarshal, json.Marshal, m.handleDeleteProduct)
		},
	}

	for name, register := range services {
		if err := register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[catalog] Registered %d services", len(services))
	return nil
}

func (m *CatalogModule) handleListCategories(ctx context.Context, _ ListCategoriesRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	return m.service.ListCategories(ctx), nil
}

func (m *CatalogModule) handleCreateCategory(ctx context.Context, req CreateCategoryRequest, _ *mono.Msg) (CategoryResult, error) {
	return m.service.CreateCategory(ctx, req.Name), nil
}

func (m *CatalogModule) handleGetCategory(ctx context.Context, req GetCategoryRequest, _ *mono.Msg) (CategoryResult, error) {
	return m.service.GetCategory(ctx, req.ID), nil
}

func (m *CatalogModule) handleUpdateCategory(ctx context.Context, req UpdateCategoryRequest, _ *mono.Msg) (CategoryResult, error) {
	return m.service.UpdateCategory(ctx, req.ID, req.Name), nil
}

func (m *CatalogModule) handleDeleteCategory(ctx context.Context, req DeleteCategoryRequest, _ *mono.Msg) (DeleteResult, error) {
	return m.service.DeleteCategory(ctx, req.ID), nil
}

func (m *CatalogModule) handleListProducts(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	return m.service.ListProducts(ctx, req.CategoryID), nil
}

func (m *CatalogModule) handleGetProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (ProductResult, error) {
	return m.service.GetProduct(ctx, req.ID), nil
}

func (m *CatalogModule) handleCreateProduct(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (ProductResult, error) {
	return m.service.CreateProduct(ctx, &req), nil
}

func (m *CatalogModule) handleUpdateProduct(ctx context.Context, req UpdateProductRequest, _ *mono.Msg) (ProductResult, error) {
	return m.service.UpdateProduct(ctx, req.ID, &req.Patch), nil
}

func (m *CatalogModule) handleDeleteProduct(ctx context.Context, req DeleteProductRequest, _ *mono.Msg) (DeleteResult, error) {
	return m.service.DeleteProduct(ctx, req.ID), nil
}
