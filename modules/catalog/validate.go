package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	domain "github.com/example/catalog-api/domain/catalog"
)

const (
	minFieldLen   = 5
	maxFieldLen   = 255
	maxImageBytes = 2048 * 1024
)

// allowedImageTypes mirrors the upload rules the mobile client was built
// against: jpeg, png, jpg, gif and svg.
var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/svg+xml": true,
}

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".svg":  true,
}

// fieldErrors accumulates validation messages keyed by field name.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe fieldErrors) empty() bool {
	return len(fe) == 0
}

func validateName(fe fieldErrors, name string) {
	if n := len(strings.TrimSpace(name)); n < minFieldLen || n > maxFieldLen {
		fe.add("nome", fmt.Sprintf("nome deve ter entre %d e %d caracteres", minFieldLen, maxFieldLen))
	}
}

func validateDescription(fe fieldErrors, description string) {
	if n := len(strings.TrimSpace(description)); n < minFieldLen || n > maxFieldLen {
		fe.add("descricao", fmt.Sprintf("descricao deve ter entre %d e %d caracteres", minFieldLen, maxFieldLen))
	}
}

func validatePrice(fe fieldErrors, price string) {
	if _, err := domain.ParsePrice(price); err != nil {
		fe.add("preco", "preco deve ser um valor decimal com ate duas casas")
	}
}

func validateImage(fe fieldErrors, img *ImageUpload) {
	if len(img.Data) == 0 {
		fe.add("imagem", "imagem enviada esta vazia")
		return
	}
	if len(img.Data) > maxImageBytes {
		fe.add("imagem", "imagem nao pode exceder 2048 kilobytes")
	}
	if !imageTypeAllowed(img) {
		fe.add("imagem", "imagem deve ser do tipo: jpeg, png, jpg, gif, svg")
	}
}

func imageTypeAllowed(img *ImageUpload) bool {
	if img.ContentType != "" {
		return allowedImageTypes[strings.ToLower(img.ContentType)]
	}
	return allowedImageExts[strings.ToLower(filepath.Ext(img.Filename))]
}

// validateCategoryName checks the single field of a category write.
func validateCategoryName(name string) fieldErrors {
	fe := fieldErrors{}
	validateName(fe, name)
	return fe
}

// validateNewProduct checks a full product payload. The image is mandatory
// on create.
func validateNewProduct(req *CreateProductRequest) fieldErrors {
	fe := fieldErrors{}
	validateName(fe, req.Name)
	validateDescription(fe, req.Description)
	validatePrice(fe, req.Price)
	if req.Image == nil {
		fe.add("imagem", "imagem e obrigatoria")
	} else {
		validateImage(fe, req.Image)
	}
	return fe
}

// validatePatch checks only the fields present in a partial update.
func validatePatch(patch *ProductPatch) fieldErrors {
	fe := fieldErrors{}
	if patch.Name != nil {
		validateName(fe, *patch.Name)
	}
	if patch.Description != nil {
		validateDescription(fe, *patch.Description)
	}
	if patch.Price != nil {
		validatePrice(fe, *patch.Price)
	}
	if patch.Image != nil {
		validateImage(fe, patch.Image)
	}
	return fe
}
