package catalog

import (
	"context"
	"errors"
	"log"

	domain "github.com/example/catalog-api/domain/catalog"
	"github.com/example/catalog-api/modules/blob"
)

// imageDir is the blob namespace product images are stored under.
const imageDir = "produtos"

// Service implements the catalog operations.
type Service struct {
	repo  *Repository
	blobs blob.BlobPort
}

// NewService creates a new catalog Service.
func NewService(repo *Repository, blobs blob.BlobPort) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// ListCategories returns all categories, newest first.
func (s *Service) ListCategories(ctx context.Context) ListCategoriesResponse {
	categories, err := s.repo.ListCategories()
	if err != nil {
		return ListCategoriesResponse{Fault: persistenceFault("erro ao listar as categorias")}
	}
	resp := ListCategoriesResponse{Categories: []CategoryResponse{}}
	for i := range categories {
		resp.Categories = append(resp.Categories, toCategoryResponse(&categories[i]))
	}
	return resp
}

// CreateCategory validates and persists a new category.
func (s *Service) CreateCategory(ctx context.Context, name string) CategoryResult {
	if fe := validateCategoryName(name); !fe.empty() {
		return CategoryResult{Fault: validationFault(fe)}
	}
	category := &domain.Category{Name: name}
	if err := s.repo.CreateCategory(category); err != nil {
		return CategoryResult{Fault: persistenceFault("erro ao cadastrar a categoria")}
	}
	resp := toCategoryResponse(category)
	return CategoryResult{Category: &resp}
}

// GetCategory retrieves a single category.
func (s *Service) GetCategory(ctx context.Context, id uint) CategoryResult {
	category, err := s.repo.FindCategoryByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return CategoryResult{Fault: notFoundFault("categoria nao encontrada")}
		}
		return CategoryResult{Fault: persistenceFault("erro ao buscar a categoria")}
	}
	resp := toCategoryResponse(category)
	return CategoryResult{Category: &resp}
}

// UpdateCategory validates and renames a category.
func (s *Service) UpdateCategory(ctx context.Context, id uint, name string) CategoryResult {
	if fe := validateCategoryName(name); !fe.empty() {
		return CategoryResult{Fault: validationFault(fe)}
	}
	if err := s.repo.UpdateCategory(id, name); err != nil {
		if errors.Is(err, ErrNotFound) {
			return CategoryResult{Fault: notFoundFault("categoria nao encontrada")}
		}
		return CategoryResult{Fault: persistenceFault("erro ao editar a categoria")}
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category and its product links.
func (s *Service) DeleteCategory(ctx context.Context, id uint) DeleteResult {
	if err := s.repo.DeleteCategory(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return DeleteResult{Fault: notFoundFault("categoria nao encontrada")}
		}
		return DeleteResult{Fault: persistenceFault("erro ao excluir a categoria")}
	}
	return DeleteResult{Deleted: true}
}

// ListProducts returns products newest first, optionally filtered by
// category.
func (s *Service) ListProducts(ctx context.Context, categoryID *uint) ListProductsResponse {
	products, err := s.repo.ListProducts(categoryID)
	if err != nil {
		return ListProductsResponse{Fault: persistenceFault("erro ao listar os produtos")}
	}
	resp := ListProductsResponse{Products: []ProductResponse{}}
	for i := range products {
		resp.Products = append(resp.Products, toProductResponse(&products[i]))
	}
	return resp
}

// GetProduct retrieves a product with its categories.
func (s *Service) GetProduct(ctx context.Context, id uint) ProductResult {
	product, err := s.repo.FindProductByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ProductResult{Fault: notFoundFault("produto nao encontrado")}
		}
		return ProductResult{Fault: persistenceFault("erro ao buscar o produto")}
	}
	resp := toProductResponse(product)
	return ProductResult{Product: &resp}
}

// CreateProduct validates the payload, stores the image, persists the row
// and links the requested categories. A failed insert removes the blob that
// was written for it.
func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) ProductResult {
	fe := validateNewProduct(req)
	if err := s.checkCategories(req.CategoryIDs, fe); err != nil {
		return ProductResult{Fault: persistenceFault("erro ao cadastrar o produto")}
	}
	if !fe.empty() {
		return ProductResult{Fault: validationFault(fe)}
	}

	price, _ := domain.ParsePrice(req.Price)
	path, err := s.blobs.Store(ctx, imageDir, req.Image.Filename, req.Image.Data)
	if err != nil {
		return ProductResult{Fault: persistenceFault("erro ao salvar a imagem")}
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		ImagePath:   &path,
	}
	if err := s.repo.CreateProduct(product); err != nil {
		s.discardBlob(ctx, path)
		return ProductResult{Fault: persistenceFault("erro ao cadastrar o produto")}
	}

	if req.CategoryIDs != nil {
		if err := s.repo.SyncCategories(product.ID, *req.CategoryIDs); err != nil {
			return ProductResult{Fault: persistenceFault("erro ao vincular as categorias")}
		}
	}
	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct applies a partial update. Fields absent from the patch keep
// their stored values. When the image is replaced the new blob is written
// first and the old one removed only after the row update commits, so a
// failure never leaves the product pointing at a missing file.
func (s *Service) UpdateProduct(ctx context.Context, id uint, patch *ProductPatch) ProductResult {
	product, err := s.repo.FindProductByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ProductResult{Fault: notFoundFault("produto nao encontrado")}
		}
		return ProductResult{Fault: persistenceFault("erro ao buscar o produto")}
	}

	fe := validatePatch(patch)
	if err := s.checkCategories(patch.CategoryIDs, fe); err != nil {
		return ProductResult{Fault: persistenceFault("erro ao atualizar o produto")}
	}
	if !fe.empty() {
		return ProductResult{Fault: validationFault(fe)}
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		price, _ := domain.ParsePrice(*patch.Price)
		product.Price = price
	}

	var oldPath string
	if patch.Image != nil {
		newPath, err := s.blobs.Store(ctx, imageDir, patch.Image.Filename, patch.Image.Data)
		if err != nil {
			return ProductResult{Fault: persistenceFault("erro ao salvar a imagem")}
		}
		if product.ImagePath != nil {
			oldPath = *product.ImagePath
		}
		product.ImagePath = &newPath
	}

	if err := s.repo.UpdateProduct(product); err != nil {
		if patch.Image != nil {
			s.discardBlob(ctx, *product.ImagePath)
		}
		if errors.Is(err, ErrNotFound) {
			return ProductResult{Fault: notFoundFault("produto nao encontrado")}
		}
		return ProductResult{Fault: persistenceFault("erro ao atualizar o produto")}
	}
	if oldPath != "" {
		s.discardBlob(ctx, oldPath)
	}

	if patch.CategoryIDs != nil {
		if err := s.repo.SyncCategories(id, *patch.CategoryIDs); err != nil {
			return ProductResult{Fault: persistenceFault("erro ao vincular as categorias")}
		}
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product and its category links. The image blob is
// left in place: nothing else references it afterwards, but removal here was
// never part of the delete contract. Known leak.
func (s *Service) DeleteProduct(ctx context.Context, id uint) DeleteResult {
	if err := s.repo.DeleteProduct(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return DeleteResult{Fault: notFoundFault("produto nao encontrado")}
		}
		return DeleteResult{Fault: persistenceFault("erro ao excluir o produto")}
	}
	return DeleteResult{Deleted: true}
}

// checkCategories adds a field error when any requested category id does not
// exist. A non-nil error means the lookup itself failed.
func (s *Service) checkCategories(ids *[]uint, fe fieldErrors) error {
	if ids == nil {
		return nil
	}
	missing, err := s.repo.MissingCategories(*ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		fe.add("categorias", "categorias contem ids inexistentes")
	}
	return nil
}

// discardBlob removes an image that is no longer referenced. The row change
// already committed, so a failed cleanup is logged and not surfaced.
func (s *Service) discardBlob(ctx context.Context, path string) {
	if err := s.blobs.Delete(ctx, path); err != nil {
		log.Printf("catalog: failed to remove blob %s: %v", path, err)
	}
}
