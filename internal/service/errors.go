package service

import "errors"

var (
	ErrNameRequired        = errors.New("name is required")
	ErrCodeRequired        = errors.New("product code is required")
	ErrParentNotFound      = errors.New("parent category not found")
	ErrSubCategoryMismatch = errors.New("sub-category not found or does not belong to the selected category")
	ErrVariationNotFound   = errors.New("variation not found")
	ErrInvalidVariation    = errors.New("invalid variation")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidAdminSecret  = errors.New("invalid admin secret")
)
