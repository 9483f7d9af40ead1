package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CatalogPort defines the interface other modules use to reach the catalog.
type CatalogPort interface {
	ListCategories(ctx context.Context) (ListCategoriesResponse, error)
	CreateCategory(ctx context.Context, name string) (CategoryResult, error)
	GetCategory(ctx context.Context, id uint) (CategoryResult, error)
	UpdateCategory(ctx context.Context, id uint, name string) (CategoryResult, error)
	DeleteCategory(ctx context.Context, id uint) (DeleteResult, error)
	ListProducts(ctx context.Context, categoryID *uint) (ListProductsResponse, error)
	GetProduct(ctx context.Context, id uint) (ProductResult, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (ProductResult, error)
	UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (ProductResult, error)
	DeleteProduct(ctx context.Context, id uint) (DeleteResult, error)
}

// catalogAdapter wraps ServiceContainer for type-safe cross-module communication.
type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates a new adapter for catalog services.
func NewCatalogAdapter(container mono.ServiceContainer) CatalogPort {
	if container == nil {
		panic("catalog adapter requires non-nil ServiceContainer")
	}
	return &catalogAdapter{container: container}
}

// call sends one request-reply round trip to a catalog service.
func call[Req any, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx, container, service, json.Marshal, json.Unmarshal, req, resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

func (a *catalogAdapter) ListCategories(ctx context.Context) (ListCategoriesResponse, error) {
	req := ListCategoriesRequest{}
	var resp ListCategoriesResponse
	err := call(ctx, a.container, "list-categories", &req, &resp)
	return resp, err
}

func (a *catalogAdapter) CreateCategory(ctx context.Context, name string) (CategoryResult, error) {
	req := CreateCategoryRequest{Name: name}
	var resp CategoryResult
	err := call(ctx, a.container, "create-category", &req, &resp)
	return resp, err
}

func (a *catalogAdapter) GetCategory(ctx context.Context, id uint) (CategoryResult, error) {
	req := GetCategoryRequest{ID: id}
	var resp CategoryResult
	err := call(ctx, a.container, "get-category", &req, &resp)
	return resp, err
}

func (a *catalogAdapter) UpdateCategory(ctx context.Context, id uint, name string) (CategoryResult, error) {
	req := UpdateCategoryRequest{ID: id, Name: name}
	var resp CategoryResult
	err := call(ctx, a.container, "update-category", &req, &resp)
	return resp, err
}

func (a *catalogAdapter) DeleteCategory(ctx context.Context, id uint) (DeleteResult, error) {
	req := DeleteCategoryRequest{ID: id}
	var resp DeleteResult
	err := call(ctx, a.container, "delete-category", &req, &resp)
	return resp, err
}

func (a *catalogAdapter) ListProducts(ctx context.Context, categoryID *uint) (ListProductsResponse, error) {
	req := ListProductsRequest{CategoryID: categoryID}
	var resp ListProductsResponse
	err := call(ctx, a.container, "list-products", &req, &resp)
	return resp, err
}

func (a *catalogAdapter) GetProduct(ctx context.Context, id uint) (ProductResult, error) {
	req := GetProductRequest{ID: id}
	var resp ProductResult
	err := call(ctx, a.container, "get-product", &req, &resp)
	return resp, err
}

func (a *catalogAdapter) CreateProduct(ctx context.Context, createReq *CreateProductRequest) (ProductResult, error) {
	var resp ProductResult
	err := call(ctx, a.container, "create-product", createReq, &resp)
	return resp, err
}

func (a *catalogAdapter) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (ProductResult, error) {
	req := UpdateProductRequest{ID: id, Patch: patch}
	var resp ProductResult
	err := call(ctx, a.container, "update-product", &req, &resp)
	return resp, err
}

func (a *catalogAdapter) DeleteProduct(ctx context.Context, id uint) (DeleteResult, error) {
	req := DeleteProductRequest{ID: id}
	var resp DeleteResult
	err := call(ctx, a.container, "delete-product", &req, &resp)
	return resp, err
}
