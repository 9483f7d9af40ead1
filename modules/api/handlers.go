package api

import (
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/example/catalog-api/modules/auth"
	"github.com/example/catalog-api/modules/blob"
	"github.com/example/catalog-api/modules/catalog"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	catalog       catalog.CatalogPort
	blobs         blob.BlobPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer mono.ServiceContainer, catalogPort catalog.CatalogPort, blobPort blob.BlobPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		catalog:       catalogPort,
		blobs:         blobPort,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	authReq := auth.RegisterRequest{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	}
	var resp auth.RegisterResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "register", json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TokenResponse{
		Token: resp.Token,
		User:  toUserResponse(resp.User),
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.LoginRequest{Email: req.Email, Password: req.Password}
	var resp auth.LoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "login", json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		Token: resp.Token,
		User:  toUserResponse(resp.User),
	})
}

// Logout revokes the bearer token of the current request.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")

	authReq := auth.LogoutRequest{Token: token}
	var resp auth.LogoutResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "logout", json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired token",
		})
	}

	return c.JSON(MessageResponse{Message: "Logout realizado com sucesso"})
}

// ListCategories returns all categories, newest first.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	resp, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}
	if resp.Fault != nil {
		return renderFault(c, resp.Fault, "Erro ao listar as categorias")
	}
	return c.JSON(resp.Categories)
}

// CreateCategory creates a category. Admin only.
func (h *Handlers) CreateCategory(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"nome" form:"nome"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.catalog.CreateCategory(c.UserContext(), body.Name)
	if err != nil {
		return internalError(c, err)
	}
	if resp.Fault != nil {
		return renderFault(c, resp.Fault, "Erro ao cadastrar a categoria")
	}
	return c.Status(fiber.StatusCreated).JSON(MessageResponse{Message: "Categoria cadastrada com sucesso"})
}

// GetCategory returns a single category. Admin only.
func (h *Handlers) GetCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	resp, err := h.catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		return internalError(c, err)
	}
	if resp.Fault != nil {
		return renderFault(c, resp.Fault, "Erro ao buscar a categoria")
	}
	return c.JSON(resp.Category)
}

// UpdateCategory renames a category. Admin only.
func (h *Handlers) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid id")
	}
	var body struct {
		Name string `json:"nome" form:"nome"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.catalog.UpdateCategory(c.UserContext(), id, body.Name)
	if err != nil {
		return internalError(c, err)
	}
	if resp.Fault != nil {
		return renderFault(c, resp.Fault, "Erro ao editar a categoria")
	}
	return c.JSON(MessageResponse{Message: "Categoria atualizada com sucesso"})
}

// DeleteCategory removes a category. Admin only.
func (h *Handlers) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	resp, err := h.catalog.DeleteCategory(c.UserContext(), id)
	if err != nil {
		return internalError(c, err)
	}
	if resp.Fault != nil {
		return renderFault(c, resp.Fault, "Erro ao excluir a categoria")
	}
	return c.JSON(MessageResponse{Message: "Categoria excluída com sucesso"})
}

// ListProducts returns products, optionally filtered by category through the
// category_id query parameter.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return badRequest(c, "Invalid category_id")
		}
		// Zero means no filter, same as omitting the parameter.
		if parsed != 0 {
			id := uint(parsed)
			categoryID = &id
		}
	}

	resp, err := h.catalog.ListProducts(c.UserContext(), categoryID)
	if err != nil {
		return internalError(c, err)
	}
	if resp.Fault != nil {
		return renderFault(c, resp.Fault, "Erro ao listar os produtos")
	}
	return c.JSON(resp.Products)
}

// GetProduct returns a product with its categories.
func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	resp, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return internalError(c, err)
	}
	if resp.Fault != nil {
		return renderFault(c, resp.Fault, "Erro ao buscar o produto")
	}
	return c.JSON(resp.Product)
}

// CreateProduct creates a product from a multipart form. Admin only.
func (h *Handlers) CreateProduct(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "Expected multipart form data")
	}

	req := catalog.CreateProductRequest{
		Name:        formValue(form, "nome"),
		Description: formValue(form, "descricao"),
		Price:       formValue(form, "preco"),
	}

	if files := form.File["imagem"]; len(files) > 0 {
		image, err := readImage(files[0])
		if err != nil {
			return badRequest(c, "Failed to read uploaded image")
		}
		req.Image = image
	}

	if ids, present, err := formCategoryIDs(form); err != nil {
		return invalidCategoryIDs(c)
	} else if present {
		req.CategoryIDs = &ids
	}

	resp, err := h.catalog.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return internalError(c, err)
	}
	if resp.Fault != nil {
		return renderFault(c, resp.Fault, "Erro ao cadastrar o produto")
	}
	return c.Status(fiber.StatusCreated).JSON(MessageResponse{Message: "Produto cadastrado com sucesso"})
}

// UpdateProduct applies a partial multipart update. Only the fields present
// in the form are touched. Admin only.
func (h *Handlers) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid id")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "Expected multipart form data")
	}

	var patch catalog.ProductPatch
	if v, ok := formPresent(form, "nome"); ok {
		patch.Name = &v
	}
	if v, ok := formPresent(form, "descricao"); ok {
		patch.Description = &v
	}
	if v, ok := formPresent(form, "preco"); ok {
		patch.Price = &v
	}
	if files := form.File["imagem"]; len(files) > 0 {
		image, err := readImage(files[0])
		if err != nil {
			return badRequest(c, "Failed to read uploaded image")
		}
		patch.Image = image
	}
	if ids, present, err := formCategoryIDs(form); err != nil {
		return invalidCategoryIDs(c)
	} else if present {
		patch.CategoryIDs = &ids
	}

	resp, err := h.catalog.UpdateProduct(c.UserContext(), id, patch)
	if err != nil {
		return internalError(c, err)
	}
	if resp.Fault != nil {
		return renderFault(c, resp.Fault, "Erro ao atualizar o produto")
	}
	return c.JSON(MessageResponse{Message: "Produto atualizado com sucesso"})
}

// DeleteProduct removes a product and its image. Admin only.
func (h *Handlers) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	resp, err := h.catalog.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return internalError(c, err)
	}
	if resp.Fault != nil {
		return renderFault(c, resp.Fault, "Erro ao excluir o produto")
	}
	return c.JSON(MessageResponse{Message: "Produto excluído com sucesso"})
}

// ServeStorage streams a stored image. Paths are validated by the blob
// module, so traversal attempts surface as not found.
func (h *Handlers) ServeStorage(c *fiber.Ctx) error {
	path := c.Params("*")
	data, contentType, err := h.blobs.Get(c.UserContext(), path)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: "Arquivo não encontrado"})
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

// handleAuthError maps auth service errors to HTTP responses. Errors cross
// the service bus as strings, so matching is by message.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	fieldError := func(field, message string) error {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationResponse{
			Message: "Os dados fornecidos são inválidos",
			Errors:  map[string][]string{field: {message}},
		})
	}

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Credenciais inválidas",
		})
	case strings.Contains(errStr, "user with this email already exists"):
		return fieldError("email", "Este email já está em uso")
	case strings.Contains(errStr, "invalid email format"):
		return fieldError("email", "Email inválido")
	case strings.Contains(errStr, "name must be between"):
		return fieldError("name", "Nome deve ter entre 3 e 255 caracteres")
	case strings.Contains(errStr, "password must be at least"):
		return fieldError("password", "Senha deve ter no mínimo 8 caracteres")
	case strings.Contains(errStr, "password must be at most"):
		return fieldError("password", "Senha deve ter no máximo 72 caracteres")
	case strings.Contains(errStr, "password confirmation"):
		return fieldError("password", "Confirmação de senha não confere")
	default:
		return internalError(c, err)
	}
}

// renderFault converts a catalog fault to an HTTP response.
func renderFault(c *fiber.Ctx, fault *catalog.Fault, failMessage string) error {
	switch fault.Kind {
	case catalog.FaultValidation:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationResponse{
			Message: "Os dados fornecidos são inválidos",
			Errors:  fault.Fields,
		})
	case catalog.FaultNotFound:
		return c.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: failMessage})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(MessageResponse{Message: failMessage})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func internalError(c *fiber.Ctx, err error) error {
	log.Printf("[api] Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

func invalidCategoryIDs(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationResponse{
		Message: "Os dados fornecidos são inválidos",
		Errors:  map[string][]string{"categorias": {"categorias deve conter apenas ids numéricos"}},
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	parsed, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// formPresent reports whether the key was sent at all, so an empty value is
// distinguishable from an absent one.
func formPresent(form *multipart.Form, key string) (string, bool) {
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// formCategoryIDs reads the category list from either the bracketed or the
// bare field name. present is false when neither key was sent.
func formCategoryIDs(form *multipart.Form) (ids []uint, present bool, err error) {
	vals, ok := form.Value["categorias[]"]
	if !ok {
		vals, ok = form.Value["categorias"]
	}
	if !ok {
		return nil, false, nil
	}
	ids = []uint{}
	for _, raw := range vals {
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, true, err
		}
		ids = append(ids, uint(parsed))
	}
	return ids, true, nil
}

func readImage(file *multipart.FileHeader) (*catalog.ImageUpload, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &catalog.ImageUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func toUserResponse(user auth.AuthUser) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
