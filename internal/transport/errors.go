package transport

import (
	"errors"
	"net/http"

	"catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"
	"catalog-api/internal/upload"

	"go.uber.org/zap"
)

// respondServiceError maps service/repository errors onto the HTTP contract.
// Anything unrecognized is a storage failure: logged with operation context
// and surfaced as a 500, never swallowed.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, operation, targetID string, err error) {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, repository.ErrSubCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Sub-category not found")
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, repository.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrParentNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Parent category not found")
	case errors.Is(err, service.ErrSubCategoryMismatch):
		middleware.RespondWithError(w, http.StatusNotFound,
			"Sub-category not found or does not belong to the selected category")
	case errors.Is(err, service.ErrVariationNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Variation not found")
	case errors.Is(err, repository.ErrCategoryNameTaken),
		errors.Is(err, repository.ErrSubCategoryNameTaken),
		errors.Is(err, repository.ErrProductCodeTaken),
		errors.Is(err, repository.ErrUserAlreadyExists):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrCodeRequired),
		errors.Is(err, service.ErrInvalidVariation):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, upload.ErrNotAnImage),
		errors.Is(err, upload.ErrFileTooLarge),
		errors.Is(err, upload.ErrTooManyFiles):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrInvalidAdminSecret):
		middleware.RespondWithError(w, http.StatusForbidden, "invalid admin secret")
	default:
		logger.Error("Operation failed",
			zap.String("operation", operation),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
