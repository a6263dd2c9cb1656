package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameTaken    = errors.New("category with this name already exists")
	ErrSubCategoryNotFound  = errors.New("sub-category not found")
	ErrSubCategoryNameTaken = errors.New("sub-category already exists in this category")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductCodeTaken     = errors.New("product with this code already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation on the named constraint. The unique indexes are the authoritative
// enforcement of the uniqueness invariants; service-level pre-checks are only
// a fast path for friendlier messages.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}
