package catalog

import (
	"time"

	domain "github.com/example/catalog-api/domain/catalog"
)

// Fault kinds carried across the service bus. Faults travel in response
// payloads so field-level detail survives JSON transport (the error path
// flattens everything to a string).
const (
	FaultValidation  = "validation"
	FaultNotFound    = "not_found"
	FaultPersistence = "persistence"
)

// Fault describes a failed catalog operation.
type Fault struct {
	Kind    string              `json:"kind"`
	Message string              `json:"message,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func validationFault(fields map[string][]string) *Fault {
	return &Fault{Kind: FaultValidation, Fields: fields}
}

func notFoundFault(message string) *Fault {
	return &Fault{Kind: FaultNotFound, Message: message}
}

func persistenceFault(message string) *Fault {
	return &Fault{Kind: FaultPersistence, Message: message}
}

// CategoryResponse represents a category in responses.
type CategoryResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"nome"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductResponse represents a product in responses. Categories is only
// populated by get-product, matching the eager-load behavior of the API.
type ProductResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"nome"`
	ImagePath   *string            `json:"imagem"`
	Description string             `json:"descricao"`
	Price       domain.Price       `json:"preco"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Categories  []CategoryResponse `json:"categorias,omitempty"`
}

// ImageUpload carries an uploaded image through the service bus.
type ImageUpload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// ListCategoriesRequest represents a list-categories request.
type ListCategoriesRequest struct{}

// ListCategoriesResponse represents a list-categories response.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Fault      *Fault             `json:"fault,omitempty"`
}

// CreateCategoryRequest represents a create-category request.
type CreateCategoryRequest struct {
	Name string `json:"nome"`
}

// GetCategoryRequest represents a get-category request.
type GetCategoryRequest struct {
	ID uint `json:"id"`
}

// UpdateCategoryRequest represents an update-category request.
type UpdateCategoryRequest struct {
	ID   uint   `json:"id"`
	Name string `json:"nome"`
}

// CategoryResult is the response for single-category operations.
type CategoryResult struct {
	Category *CategoryResponse `json:"category,omitempty"`
	Fault    *Fault            `json:"fault,omitempty"`
}

// DeleteCategoryRequest represents a delete-category request.
type DeleteCategoryRequest struct {
	ID uint `json:"id"`
}

// ListProductsRequest represents a list-products request. A nil CategoryID
// lists the whole catalog.
type ListProductsRequest struct {
	CategoryID *uint `json:"category_id,omitempty"`
}

// ListProductsResponse represents a list-products response.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Fault    *Fault            `json:"fault,omitempty"`
}

// GetProductRequest represents a get-product request.
type GetProductRequest struct {
	ID uint `json:"id"`
}

// CreateProductRequest represents a create-product request. CategoryIDs uses
// a pointer so an omitted list is distinguishable from an empty one.
type CreateProductRequest struct {
	Name        string       `json:"nome"`
	Description string       `json:"descricao"`
	Price       string       `json:"preco"`
	Image       *ImageUpload `json:"imagem,omitempty"`
	CategoryIDs *[]uint      `json:"categorias,omitempty"`
}

// ProductPatch carries a partial product update. Pointer fields mark
// presence: a nil field was omitted and leaves the stored value untouched.
type ProductPatch struct {
	Name        *string      `json:"nome,omitempty"`
	Description *string      `json:"descricao,omitempty"`
	Price       *string      `json:"preco,omitempty"`
	Image       *ImageUpload `json:"imagem,omitempty"`
	CategoryIDs *[]uint      `json:"categorias,omitempty"`
}

// UpdateProductRequest represents an update-product request.
type UpdateProductRequest struct {
	ID    uint         `json:"id"`
	Patch ProductPatch `json:"patch"`
}

// ProductResult is the response for single-product operations.
type ProductResult struct {
	Product *ProductResponse `json:"product,omitempty"`
	Fault   *Fault           `json:"fault,omitempty"`
}

// DeleteProductRequest represents a delete-product request.
type DeleteProductRequest struct {
	ID uint `json:"id"`
}

// DeleteResult is the response for delete operations.
type DeleteResult struct {
	Deleted bool   `json:"deleted"`
	Fault   *Fault `json:"fault,omitempty"`
}

// toCategoryResponse converts a Category entity to its response shape.
func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// toProductResponse converts a Product entity to its response shape.
func toProductResponse(p *domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		ImagePath:   p.ImagePath,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for i := range p.Categories {
		resp.Categories = append(resp.Categories, toCategoryResponse(&p.Categories[i]))
	}
	return resp
}
