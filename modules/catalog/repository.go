package catalog

import (
	"errors"
	"fmt"

	domain "github.com/example/catalog-api/domain/catalog"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a category or product does not exist.
var ErrNotFound = errors.New("record not found")

// Repository handles catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListCategories returns all categories, newest first.
func (r *Repository) ListCategories() ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.Order("created_at DESC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory persists a new category.
func (r *Repository) CreateCategory(category *domain.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// FindCategoryByID retrieves a category by its id.
func (r *Repository) FindCategoryByID(id uint) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

// UpdateCategory renames an existing category.
func (r *Repository) UpdateCategory(id uint, name string) error {
	result := r.db.Model(&domain.Category{}).Where("id = ?", id).Update("nome", name)
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category together with its product links. Both
// deletes run in one transaction so no orphaned join rows survive a failure.
func (r *Repository) DeleteCategory(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM categoria_produto WHERE categoria_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink category: %w", err)
		}
		result := tx.Delete(&domain.Category{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// MissingCategories returns the subset of ids that do not exist.
func (r *Repository) MissingCategories(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := r.db.Model(&domain.Category{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to check categories: %w", err)
	}
	foundSet := make(map[uint]bool, len(found))
	for _, id := range found {
		foundSet[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !foundSet[id] {
			missing = append(missing, id)
			foundSet[id] = true
		}
	}
	return missing, nil
}

// ListProducts returns products newest first, optionally restricted to a
// category.
func (r *Repository) ListProducts(categoryID *uint) ([]domain.Product, error) {
	var products []domain.Product
	query := r.db.Order("produtos.created_at DESC")
	if categoryID != nil {
		query = query.
			Joins("JOIN categoria_produto ON categoria_produto.produto_id = produtos.id").
			Where("categoria_produto.categoria_id = ?", *categoryID)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// FindProductByID retrieves a product with its categories eagerly loaded.
func (r *Repository) FindProductByID(id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.Preload("Categories").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// CreateProduct persists a new product. Category links are managed through
// SyncCategories, never through the association field.
func (r *Repository) CreateProduct(product *domain.Product) error {
	if err := r.db.Omit("Categories").Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct writes the scalar columns of a product. A map update keeps
// zero values (an emptied description must still be written).
func (r *Repository) UpdateProduct(product *domain.Product) error {
	result := r.db.Model(&domain.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"nome":      product.Name,
		"descricao": product.Description,
		"preco":     product.Price,
		"imagem":    product.ImagePath,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product together with its category links.
func (r *Repository) DeleteProduct(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM categoria_produto WHERE produto_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink product: %w", err)
		}
		result := tx.Delete(&domain.Product{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete product: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CategoryIDsOf returns the ids of the categories linked to a product.
func (r *Repository) CategoryIDsOf(productID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Table("categoria_produto").
		Where("produto_id = ?", productID).
		Pluck("categoria_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load category links: %w", err)
	}
	return ids, nil
}

// SyncCategories reconciles the stored category links of a product with the
// desired set. Only the difference is touched: shared links keep their rows,
// and the whole reconciliation commits atomically.
func (r *Repository) SyncCategories(productID uint, desired []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var current []uint
		err := tx.Table("categoria_produto").
			Where("produto_id = ?", productID).
			Pluck("categoria_id", &current).Error
		if err != nil {
			return fmt.Errorf("failed to load category links: %w", err)
		}

		adds, removes := DiffIDs(current, desired)

		if len(removes) > 0 {
			err := tx.Exec(
				"DELETE FROM categoria_produto WHERE produto_id = ? AND categoria_id IN ?",
				productID, removes,
			).Error
			if err != nil {
				return fmt.Errorf("failed to remove category links: %w", err)
			}
		}
		for _, categoryID := range adds {
			err := tx.Exec(
				"INSERT INTO categoria_produto (produto_id, categoria_id) VALUES (?, ?)",
				productID, categoryID,
			).Error
			if err != nil {
				return fmt.Errorf("failed to add category link: %w", err)
			}
		}
		return nil
	})
}
