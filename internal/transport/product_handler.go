package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"catalog-api/internal/middleware"
	"catalog-api/internal/service"
	"catalog-api/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for product operations, including the
// embedded variation sub-resource.
type ProductHandler struct {
	productService service.ProductService
	uploads        *upload.Store
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, uploads *upload.Store, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		uploads:        uploads,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes. Mutations are admin-gated.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
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
			r.Post("/{id}/variations", h.AddVariation)
			r.Put("/{id}/variations/{variationId}", h.UpdateVariation)
			r.Delete("/{id}/variations/{variationId}", h.DeleteVariation)
		})
	})
}

// Create handles POST /api/products. The body is a multipart form: scalar
// fields plus up to five "images" files and a "variations" field holding a
// JSON-encoded array.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	categoryID, err := uuid.Parse(r.FormValue("category"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category")
		return
	}

	input := service.CreateProductInput{
		Name:        r.FormValue("name"),
		ProductCode: r.FormValue("productCode"),
		Description: r.FormValue("description"),
		CategoryID:  categoryID,
	}

	if raw := r.FormValue("subCategory"); raw != "" {
		subCategoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid subCategory")
			return
		}
		input.SubCategoryID = &subCategoryID
	}

	variations, ok := parseVariationsField(w, r)
	if !ok {
		return
	}
	input.Variations = variations

	paths, ok := h.storeImages(w, r, "createProduct")
	if !ok {
		return
	}
	input.ImagePaths = paths

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, h.logger, "createProduct", "", err)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("product_code", product.ProductCode),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, newProductResponse(product))
}

// List handles GET /api/products with optional page, category, subCategory
// and keyword query parameters. Filters combine conjunctively.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	input := service.ListProductsInput{
		Keyword: r.URL.Query().Get("keyword"),
	}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid page")
			return
		}
		input.Page = page
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category")
			return
		}
		input.CategoryID = &categoryID
	}

	if raw := r.URL.Query().Get("subCategory"); raw != "" {
		subCategoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid subCategory")
			return
		}
		input.SubCategoryID = &subCategoryID
	}

	result, err := h.productService.List(r.Context(), input)
	if err != nil {
		respondServiceError(w, h.logger, "getProducts", "", err)
		return
	}

	items := make([]ProductResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, newProductResponse(p))
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Items: items,
		Page:  result.Page,
		Pages: result.Pages,
		Count: result.Count,
	})
}

// GetByID handles GET /api/products/{id}
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, "getProductById", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newProductResponse(product))
}

// Update handles PUT /api/products/{id} (multipart form, fill-if-provided).
// Uploaded images append to the existing list; a supplied variations field
// replaces the embedded list wholesale.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	input := service.UpdateProductInput{
		Name:        r.FormValue("name"),
		ProductCode: r.FormValue("productCode"),
		Description: r.FormValue("description"),
	}

	if raw := r.FormValue("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category")
			return
		}
		input.CategoryID = &categoryID
	}

	if raw := r.FormValue("subCategory"); raw != "" {
		subCategoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid subCategory")
			return
		}
		input.SubCategoryID = &subCategoryID
	}

	if hasFormValue(r, "variations") {
		variations, ok := parseVariationsField(w, r)
		if !ok {
			return
		}
		input.Variations = &variations
	}

	paths, ok := h.storeImages(w, r, "updateProduct")
	if !ok {
		return
	}
	input.AppendImages = paths

	product, err := h.productService.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, h.logger, "updateProduct", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newProductResponse(product))
}

// Delete handles DELETE /api/products/{id}. The embedded variations go with
// the row.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, "deleteProduct", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}

// AddVariation handles POST /api/products/{id}/variations
func (h *ProductHandler) AddVariation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var input service.VariationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.AddVariation(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, h.logger, "addVariation", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, newProductResponse(product))
}

// UpdateVariation handles PUT /api/products/{id}/variations/{variationId}
func (h *ProductHandler) UpdateVariation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	variationID, ok := parseIDParam(w, r, "variationId")
	if !ok {
		return
	}

	var req service.VariationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.UpdateVariation(r.Context(), id, variationID, service.UpdateVariationInput{
		Size:     req.Size,
		Color:    req.Color,
		Price:    req.Price,
		Discount: req.Discount,
		Stock:    req.Stock,
	})
	if err != nil {
		respondServiceError(w, h.logger, "updateVariation", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newProductResponse(product))
}

// DeleteVariation handles DELETE /api/products/{id}/variations/{variationId}
func (h *ProductHandler) DeleteVariation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	variationID, ok := parseIDParam(w, r, "variationId")
	if !ok {
		return
	}

	product, err := h.productService.DeleteVariation(r.Context(), id, variationID)
	if err != nil {
		respondServiceError(w, h.logger, "deleteVariation", id.String(), err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newProductResponse(product))
}

// storeImages saves every uploaded "images" file and returns the public paths.
// Validation failures for any file abort the whole batch before writes.
func (h *ProductHandler) storeImages(w http.ResponseWriter, r *http.Request, operation string) ([]string, bool) {
	if r.MultipartForm == nil {
		return nil, true
	}
	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		return nil, true
	}

	paths, err := h.uploads.SaveAll("images", headers)
	if err != nil {
		respondServiceError(w, h.logger, operation, "", err)
		return nil, false
	}
	return paths, true
}

// parseVariationsField decodes the "variations" multipart field, which the
// clients send as a JSON-encoded array alongside the file parts.
func parseVariationsField(w http.ResponseWriter, r *http.Request) ([]service.VariationInput, bool) {
	raw := r.FormValue("variations")
	if raw == "" {
		return nil, true
	}

	var variations []service.VariationInput
	if err := json.Unmarshal([]byte(raw), &variations); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid variations payload")
		return nil, false
	}
	return variations, true
}

// hasFormValue reports whether the field was present in the form at all,
// distinguishing "absent" from "empty" for fill-if-provided merges.
func hasFormValue(r *http.Request, name string) bool {
	if r.MultipartForm == nil {
		return false
	}
	_, ok := r.MultipartForm.Value[name]
	return ok
}
