package transport

import (
	"net/http"

	"catalog-api/internal/middleware"
	"catalog-api/internal/service"
	"catalog-api/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadMemory bounds in-memory multipart parsing; larger parts spill to disk.
const maxUploadMemory = 10 << 20

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService service.CategoryService
	uploads         *upload.Store
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, uploads *upload.Store, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		uploads:         uploads,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes. Mutations are admin-gated.
func (h *CategoryHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// Create handles POST /api/categories (multipart form with optional image)
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	input := service.CreateCategoryInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}

	if path, ok, err := h.storeImage(r); err != nil {
		respondServiceError(w, h.logger, "createCategory", "", err)
		return
	} else if ok {
		input.Image = path
	}

	category, err := h.categoryService.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, h.logger, "createCategory", "", err)
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, newCategoryResponse(category))
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, "getCategories", "", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCategoryListResponse(categories))
}

// GetByID handles GET /api/categories/{id}
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, "getCategoryById", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCategoryResponse(category))
}

// Update handles PUT /api/categories/{id} (multipart form, fill-if-provided)
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	input := service.UpdateCategoryInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}

	if path, stored, err := h.storeImage(r); err != nil {
		respondServiceError(w, h.logger, "updateCategory", id.String(), err)
		return
	} else if stored {
		input.Image = path
	}

	category, err := h.categoryService.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, h.logger, "updateCategory", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCategoryResponse(category))
}

// Delete handles DELETE /api/categories/{id}. Dependent subcategories and
// products are not touched.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, "deleteCategory", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Category removed"})
}

// storeImage saves the single optional "image" field, returning its public path
func (h *CategoryHandler) storeImage(r *http.Request) (string, bool, error) {
	if r.MultipartForm == nil {
		return "", false, nil
	}
	headers := r.MultipartForm.File["image"]
	if len(headers) == 0 {
		return "", false, nil
	}

	path, err := h.uploads.SaveOne("image", headers[0])
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// parseIDParam parses a UUID path parameter, writing a 400 on failure
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
