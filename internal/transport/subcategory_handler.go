package transport

import (
	"net/http"

	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateSubCategoryRequest is the JSON payload for creating a subcategory
type CreateSubCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required,uuid"`
}

// UpdateSubCategoryRequest is the JSON payload for updating a subcategory.
// Absent fields are left unchanged.
type UpdateSubCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"omitempty,uuid"`
}

// SubCategoryHandler handles HTTP requests for subcategory operations
type SubCategoryHandler struct {
	subCategoryService service.SubCategoryService
	logger             *zap.Logger
}

// NewSubCategoryHandler creates a new SubCategoryHandler
func NewSubCategoryHandler(subCategoryService service.SubCategoryService, logger *zap.Logger) *SubCategoryHandler {
	return &SubCategoryHandler{
		subCategoryService: subCategoryService,
		logger:             logger,
	}
}

// RegisterRoutes registers all subcategory routes. Mutations are admin-gated.
func (h *SubCategoryHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/subcategories", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/category/{categoryId}", h.ListByCategory)
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

// Create handles POST /api/subcategories
func (h *SubCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSubCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	categoryID, err := uuid.Parse(req.Category)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category")
		return
	}

	subCategory, err := h.subCategoryService.Create(r.Context(), service.CreateSubCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  categoryID,
	})
	if err != nil {
		respondServiceError(w, h.logger, "createSubCategory", "", err)
		return
	}

	h.logger.Info("Sub-category created", zap.String("subcategory_id", subCategory.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, newSubCategoryResponse(subCategory))
}

// List handles GET /api/subcategories
func (h *SubCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	subCategories, err := h.subCategoryService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, "getSubCategories", "", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newSubCategoryListResponse(subCategories))
}

// ListByCategory handles GET /api/subcategories/category/{categoryId}.
// An unknown category yields an empty list, not a 404.
func (h *SubCategoryHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(w, r, "categoryId")
	if !ok {
		return
	}

	subCategories, err := h.subCategoryService.ListByCategory(r.Context(), categoryID)
	if err != nil {
		respondServiceError(w, h.logger, "getSubCategoriesByCategory", categoryID.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newSubCategoryListResponse(subCategories))
}

// GetByID handles GET /api/subcategories/{id}
func (h *SubCategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	subCategory, err := h.subCategoryService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, "getSubCategoryById", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newSubCategoryResponse(subCategory))
}

// Update handles PUT /api/subcategories/{id}
func (h *SubCategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateSubCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.UpdateSubCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Category != "" {
		categoryID, err := uuid.Parse(req.Category)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category")
			return
		}
		input.CategoryID = &categoryID
	}

	subCategory, err := h.subCategoryService.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, h.logger, "updateSubCategory", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newSubCategoryResponse(subCategory))
}

// Delete handles DELETE /api/subcategories/{id}. Products referencing the
// subcategory are not touched.
func (h *SubCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.subCategoryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, "deleteSubCategory", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Sub-category removed"})
}
