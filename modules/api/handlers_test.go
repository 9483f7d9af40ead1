package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/catalog-api/modules/blob"
	"github.com/example/catalog-api/modules/catalog"
	"github.com/gofiber/fiber/v2"
)

// fakeCatalogPort returns canned results per operation.
type fakeCatalogPort struct {
	categoryResult catalog.CategoryResult
	productResult  catalog.ProductResult
	deleteResult   catalog.DeleteResult
	listProducts   catalog.ListProductsResponse
	listCategories catalog.ListCategoriesResponse

	lastListFilter *uint
}

func (f *fakeCatalogPort) ListCategories(context.Context) (catalog.ListCategoriesResponse, error) {
	return f.listCategories, nil
}

func (f *fakeCatalogPort) CreateCategory(context.Context, string) (catalog.CategoryResult, error) {
	return f.categoryResult, nil
}

func (f *fakeCatalogPort) GetCategory(context.Context, uint) (catalog.CategoryResult, error) {
	return f.categoryResult, nil
}

func (f *fakeCatalogPort) UpdateCategory(context.Context, uint, string) (catalog.CategoryResult, error) {
	return f.categoryResult, nil
}

func (f *fakeCatalogPort) DeleteCategory(context.Context, uint) (catalog.DeleteResult, error) {
	return f.deleteResult, nil
}

func (f *fakeCatalogPort) ListProducts(_ context.Context, categoryID *uint) (catalog.ListProductsResponse, error) {
	f.lastListFilter = categoryID
	return f.listProducts, nil
}

func (f *fakeCatalogPort) GetProduct(context.Context, uint) (catalog.ProductResult, error) {
	return f.productResult, nil
}

func (f *fakeCatalogPort) CreateProduct(context.Context, *catalog.CreateProductRequest) (catalog.ProductResult, error) {
	return f.productResult, nil
}

func (f *fakeCatalogPort) UpdateProduct(context.Context, uint, catalog.ProductPatch) (catalog.ProductResult, error) {
	return f.productResult, nil
}

func (f *fakeCatalogPort) DeleteProduct(context.Context, uint) (catalog.DeleteResult, error) {
	return f.deleteResult, nil
}

// fakeStorage serves a single stored blob.
type fakeStorage struct {
	path string
	data []byte
}

func (f *fakeStorage) Store(_ context.Context, _, _ string, _ []byte) (string, error) {
	return f.path, nil
}

func (f *fakeStorage) Get(_ context.Context, path string) ([]byte, string, error) {
	if path != f.path {
		return nil, "", blob.ErrBlobNotFound
	}
	return f.data, "image/png", nil
}

func (f *fakeStorage) Delete(context.Context, string) error {
	return nil
}

// setupHandlersApp wires a Fiber app with unauthenticated catalog routes so
// handler behavior is testable in isolation from the middleware.
func setupHandlersApp(port *fakeCatalogPort, storage *fakeStorage) *fiber.App {
	handlers := &Handlers{catalog: port, blobs: storage}

	app := fiber.New()
	app.Get("/storage/*", handlers.ServeStorage)
	app.Get("/api/produtos", handlers.ListProducts)
	app.Post("/api/categoria", handlers.CreateCategory)
	app.Delete("/api/produto/:id", handlers.DeleteProduct)
	return app
}

func TestHandlers_FaultMapping(t *testing.T) {
	t.Run("validation fault renders 422 with fields", func(t *testing.T) {
		port := &fakeCatalogPort{categoryResult: catalog.CategoryResult{
			Fault: &catalog.Fault{
				Kind:   catalog.FaultValidation,
				Fields: map[string][]string{"nome": {"nome deve ter entre 5 e 255 caracteres"}},
			},
		}}
		app := setupHandlersApp(port, &fakeStorage{})

		req := httptest.NewRequest("POST", "/api/categoria", strings.NewReader(`{"nome":"abc"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", resp.StatusCode)
		}

		var body ValidationResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(body.Errors["nome"]) == 0 {
			t.Errorf("expected nome errors, got %v", body.Errors)
		}
	})

	t.Run("not found fault renders 404 with message", func(t *testing.T) {
		port := &fakeCatalogPort{deleteResult: catalog.DeleteResult{
			Fault: &catalog.Fault{Kind: catalog.FaultNotFound},
		}}
		app := setupHandlersApp(port, &fakeStorage{})

		resp, err := app.Test(httptest.NewRequest("DELETE", "/api/produto/99", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Fatalf("status = %d, want 404", resp.StatusCode)
		}

		var body MessageResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.Message != "Erro ao excluir o produto" {
			t.Errorf("unexpected message %q", body.Message)
		}
	})
}

func TestHandlers_ListProductsFilter(t *testing.T) {
	port := &fakeCatalogPort{listProducts: catalog.ListProductsResponse{Products: []catalog.ProductResponse{}}}
	app := setupHandlersApp(port, &fakeStorage{})

	t.Run("numeric filter is forwarded", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/produtos?category_id=7", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if port.lastListFilter == nil || *port.lastListFilter != 7 {
			t.Errorf("expected forwarded filter 7, got %v", port.lastListFilter)
		}
	})

	t.Run("zero filter means nil", func(t *testing.T) {
		if _, err := app.Test(httptest.NewRequest("GET", "/api/produtos?category_id=0", nil)); err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if port.lastListFilter != nil {
			t.Errorf("expected nil filter for category_id=0, got %v", *port.lastListFilter)
		}
	})

	t.Run("no filter means nil", func(t *testing.T) {
		if _, err := app.Test(httptest.NewRequest("GET", "/api/produtos", nil)); err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if port.lastListFilter != nil {
			t.Errorf("expected nil filter, got %v", *port.lastListFilter)
		}
	})

	t.Run("non-numeric filter is rejected", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/produtos?category_id=abc", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestHandlers_ServeStorage(t *testing.T) {
	storage := &fakeStorage{path: "produtos/bolo.png", data: []byte("image bytes")}
	app := setupHandlersApp(&fakeCatalogPort{}, storage)

	t.Run("stored image is served with its content type", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/storage/produtos/bolo.png", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type = %q, want image/png", ct)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != "image bytes" {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("missing image is 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/storage/produtos/outro.png", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}
