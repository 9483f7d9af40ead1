package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	domain "github.com/example/catalog-api/domain/catalog"
	"github.com/example/catalog-api/modules/blob"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeBlobPort is an in-memory stand-in for the blob module.
type fakeBlobPort struct {
	blobs     map[string][]byte
	seq       int
	failStore bool
}

func newFakeBlobPort() *fakeBlobPort {
	return &fakeBlobPort{blobs: map[string][]byte{}}
}

func (f *fakeBlobPort) Store(_ context.Context, dir, filename string, data []byte) (string, error) {
	if f.failStore {
		return "", errors.New("disk full")
	}
	f.seq++
	path := fmt.Sprintf("%s/blob-%d%s", dir, f.seq, filepath.Ext(filename))
	f.blobs[path] = append([]byte(nil), data...)
	return path, nil
}

func (f *fakeBlobPort) Get(_ context.Context, path string) ([]byte, string, error) {
	data, ok := f.blobs[path]
	if !ok {
		return nil, "", blob.ErrBlobNotFound
	}
	return data, "image/png", nil
}

func (f *fakeBlobPort) Delete(_ context.Context, path string) error {
	delete(f.blobs, path)
	return nil
}

func (f *fakeBlobPort) has(path string) bool {
	_, ok := f.blobs[path]
	return ok
}

// setupService creates a catalog Service over an in-memory database and a
// fake blob port.
func setupService(t *testing.T) (*Service, *fakeBlobPort) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Category{}, &domain.Product{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	blobs := newFakeBlobPort()
	return NewService(NewRepository(db), blobs), blobs
}

func testImage() *ImageUpload {
	return &ImageUpload{
		Filename:    "bolo.png",
		ContentType: "image/png",
		Data:        []byte("fake image bytes"),
	}
}

func mustCreateCategory(t *testing.T, svc *Service, name string) CategoryResponse {
	t.Helper()
	result := svc.CreateCategory(context.Background(), name)
	if result.Fault != nil {
		t.Fatalf("CreateCategory(%q) fault = %+v", name, result.Fault)
	}
	return *result.Category
}

func mustCreateProduct(t *testing.T, svc *Service, req *CreateProductRequest) ProductResponse {
	t.Helper()
	result := svc.CreateProduct(context.Background(), req)
	if result.Fault != nil {
		t.Fatalf("CreateProduct() fault = %+v", result.Fault)
	}
	return *result.Product
}

func TestService_CategoryOperations(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		created := mustCreateCategory(t, svc, "Bolos decorados")
		result := svc.GetCategory(ctx, created.ID)
		if result.Fault != nil {
			t.Fatalf("GetCategory() fault = %+v", result.Fault)
		}
		if result.Category.Name != "Bolos decorados" {
			t.Errorf("unexpected name %q", result.Category.Name)
		}
	})

	t.Run("name too short", func(t *testing.T) {
		result := svc.CreateCategory(ctx, "abc")
		if result.Fault == nil || result.Fault.Kind != FaultValidation {
			t.Fatalf("expected validation fault, got %+v", result.Fault)
		}
		if len(result.Fault.Fields["nome"]) == 0 {
			t.Errorf("expected error keyed by nome, got %v", result.Fault.Fields)
		}
	})

	t.Run("update missing category", func(t *testing.T) {
		result := svc.UpdateCategory(ctx, 9999, "Nome valido")
		if result.Fault == nil || result.Fault.Kind != FaultNotFound {
			t.Errorf("expected not_found fault, got %+v", result.Fault)
		}
	})

	t.Run("delete missing category", func(t *testing.T) {
		result := svc.DeleteCategory(ctx, 9999)
		if result.Deleted {
			t.Error("expected delete to fail")
		}
		if result.Fault == nil || result.Fault.Kind != FaultNotFound {
			t.Errorf("expected not_found fault, got %+v", result.Fault)
		}
	})
}

func TestService_CreateProduct(t *testing.T) {
	svc, blobs := setupService(t)
	ctx := context.Background()
	category := mustCreateCategory(t, svc, "Doces finos")

	t.Run("valid payload stores image and links categories", func(t *testing.T) {
		ids := []uint{category.ID}
		product := mustCreateProduct(t, svc, &CreateProductRequest{
			Name:        "Bolo de chocolate",
			Description: "bolo com cobertura",
			Price:       "35.90",
			Image:       testImage(),
			CategoryIDs: &ids,
		})

		if product.ImagePath == nil || !blobs.has(*product.ImagePath) {
			t.Fatalf("expected stored blob for %v", product.ImagePath)
		}
		if product.Price.String() != "35.90" {
			t.Errorf("expected price 35.90, got %s", product.Price)
		}
		if len(product.Categories) != 1 || product.Categories[0].ID != category.ID {
			t.Errorf("expected linked category, got %+v", product.Categories)
		}
	})

	t.Run("validation errors are keyed by field", func(t *testing.T) {
		result := svc.CreateProduct(ctx, &CreateProductRequest{
			Name:        "abc",
			Description: "ab",
			Price:       "12,50",
		})
		if result.Fault == nil || result.Fault.Kind != FaultValidation {
			t.Fatalf("expected validation fault, got %+v", result.Fault)
		}
		for _, field := range []string{"nome", "descricao", "preco", "imagem"} {
			if len(result.Fault.Fields[field]) == 0 {
				t.Errorf("expected error for field %q, got %v", field, result.Fault.Fields)
			}
		}
	})

	t.Run("unknown category id", func(t *testing.T) {
		ids := []uint{9999}
		result := svc.CreateProduct(ctx, &CreateProductRequest{
			Name:        "Produto valido",
			Description: "descricao valida",
			Price:       "10.00",
			Image:       testImage(),
			CategoryIDs: &ids,
		})
		if result.Fault == nil || result.Fault.Kind != FaultValidation {
			t.Fatalf("expected validation fault, got %+v", result.Fault)
		}
		if len(result.Fault.Fields["categorias"]) == 0 {
			t.Errorf("expected error keyed by categorias, got %v", result.Fault.Fields)
		}
	})

	t.Run("oversized image", func(t *testing.T) {
		result := svc.CreateProduct(ctx, &CreateProductRequest{
			Name:        "Produto valido",
			Description: "descricao valida",
			Price:       "10.00",
			Image: &ImageUpload{
				Filename:    "grande.png",
				ContentType: "image/png",
				Data:        make([]byte, maxImageBytes+1),
			},
		})
		if result.Fault == nil || len(result.Fault.Fields["imagem"]) == 0 {
			t.Fatalf("expected imagem fault, got %+v", result.Fault)
		}
	})

	t.Run("unsupported image type", func(t *testing.T) {
		result := svc.CreateProduct(ctx, &CreateProductRequest{
			Name:        "Produto valido",
			Description: "descricao valida",
			Price:       "10.00",
			Image: &ImageUpload{
				Filename:    "nota.pdf",
				ContentType: "application/pdf",
				Data:        []byte("pdf bytes"),
			},
		})
		if result.Fault == nil || len(result.Fault.Fields["imagem"]) == 0 {
			t.Fatalf("expected imagem fault, got %+v", result.Fault)
		}
	})

	t.Run("blob failure leaves no row", func(t *testing.T) {
		blobs.failStore = true
		defer func() { blobs.failStore = false }()

		result := svc.CreateProduct(ctx, &CreateProductRequest{
			Name:        "Produto sem imagem",
			Description: "descricao valida",
			Price:       "10.00",
			Image:       testImage(),
		})
		if result.Fault == nil || result.Fault.Kind != FaultPersistence {
			t.Fatalf("expected persistence fault, got %+v", result.Fault)
		}

		list := svc.ListProducts(ctx, nil)
		for _, p := range list.Products {
			if p.Name == "Produto sem imagem" {
				t.Error("product row must not exist after blob failure")
			}
		}
	})
}

func TestService_UpdateProduct(t *testing.T) {
	svc, blobs := setupService(t)
	ctx := context.Background()

	first := mustCreateCategory(t, svc, "Categoria um")
	second := mustCreateCategory(t, svc, "Categoria dois")
	third := mustCreateCategory(t, svc, "Categoria tres")

	ids := []uint{first.ID, second.ID}
	product := mustCreateProduct(t, svc, &CreateProductRequest{
		Name:        "Bolo original",
		Description: "descricao original",
		Price:       "20.00",
		Image:       testImage(),
		CategoryIDs: &ids,
	})
	originalPath := *product.ImagePath

	t.Run("absent fields keep stored values", func(t *testing.T) {
		price := "25.50"
		result := svc.UpdateProduct(ctx, product.ID, &ProductPatch{Price: &price})
		if result.Fault != nil {
			t.Fatalf("UpdateProduct() fault = %+v", result.Fault)
		}
		if result.Product.Name != "Bolo original" {
			t.Errorf("name must be untouched, got %q", result.Product.Name)
		}
		if result.Product.Price.String() != "25.50" {
			t.Errorf("expected price 25.50, got %s", result.Product.Price)
		}
		if *result.Product.ImagePath != originalPath {
			t.Errorf("image must be untouched, got %q", *result.Product.ImagePath)
		}
	})

	t.Run("category sync is exact set difference", func(t *testing.T) {
		desired := []uint{first.ID, third.ID}
		result := svc.UpdateProduct(ctx, product.ID, &ProductPatch{CategoryIDs: &desired})
		if result.Fault != nil {
			t.Fatalf("UpdateProduct() fault = %+v", result.Fault)
		}
		var got []uint
		for _, c := range result.Product.Categories {
			got = append(got, c.ID)
		}
		if !sameIDs(got, desired) {
			t.Errorf("categories = %v, want %v", got, desired)
		}
	})

	t.Run("image replacement removes the old blob", func(t *testing.T) {
		result := svc.UpdateProduct(ctx, product.ID, &ProductPatch{Image: &ImageUpload{
			Filename:    "nova.jpg",
			ContentType: "image/jpeg",
			Data:        []byte("new image bytes"),
		}})
		if result.Fault != nil {
			t.Fatalf("UpdateProduct() fault = %+v", result.Fault)
		}
		newPath := *result.Product.ImagePath
		if newPath == originalPath {
			t.Fatal("expected a fresh blob path")
		}
		if !blobs.has(newPath) {
			t.Error("new blob missing from store")
		}
		if blobs.has(originalPath) {
			t.Error("old blob must be removed after replacement")
		}
	})

	t.Run("invalid patch field", func(t *testing.T) {
		bad := "12,50"
		result := svc.UpdateProduct(ctx, product.ID, &ProductPatch{Price: &bad})
		if result.Fault == nil || result.Fault.Kind != FaultValidation {
			t.Fatalf("expected validation fault, got %+v", result.Fault)
		}
		if len(result.Fault.Fields["preco"]) == 0 {
			t.Errorf("expected error keyed by preco, got %v", result.Fault.Fields)
		}
	})

	t.Run("missing product", func(t *testing.T) {
		name := "Nome valido"
		result := svc.UpdateProduct(ctx, 9999, &ProductPatch{Name: &name})
		if result.Fault == nil || result.Fault.Kind != FaultNotFound {
			t.Errorf("expected not_found fault, got %+v", result.Fault)
		}
	})
}

func TestService_DeleteProduct(t *testing.T) {
	svc, blobs := setupService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, svc, &CreateProductRequest{
		Name:        "Bolo descartavel",
		Description: "descricao valida",
		Price:       "15.00",
		Image:       testImage(),
	})
	path := *product.ImagePath

	result := svc.DeleteProduct(ctx, product.ID)
	if result.Fault != nil || !result.Deleted {
		t.Fatalf("DeleteProduct() = %+v", result)
	}

	// Deletion only covers the row and its links; the image blob stays on
	// disk untouched.
	if !blobs.has(path) {
		t.Error("image blob must survive product deletion")
	}

	again := svc.DeleteProduct(ctx, product.ID)
	if again.Deleted {
		t.Error("expected second delete to fail")
	}
	if again.Fault == nil || again.Fault.Kind != FaultNotFound {
		t.Errorf("expected not_found fault, got %+v", again.Fault)
	}
}

func TestService_ListProductsByCategory(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, svc, "Categoria filtro")
	ids := []uint{category.ID}
	linked := mustCreateProduct(t, svc, &CreateProductRequest{
		Name:        "Produto vinculado",
		Description: "descricao valida",
		Price:       "10.00",
		Image:       testImage(),
		CategoryIDs: &ids,
	})
	mustCreateProduct(t, svc, &CreateProductRequest{
		Name:        "Produto solto",
		Description: "descricao valida",
		Price:       "10.00",
		Image:       testImage(),
	})

	list := svc.ListProducts(ctx, &category.ID)
	if list.Fault != nil {
		t.Fatalf("ListProducts() fault = %+v", list.Fault)
	}
	if len(list.Products) != 1 || list.Products[0].ID != linked.ID {
		t.Errorf("expected only the linked product, got %+v", list.Products)
	}
}
