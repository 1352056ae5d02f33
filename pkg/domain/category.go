package domain

import (
	"errors"
	"net/http"
)

// ErrorCategory selects which error table handles a failure.
type ErrorCategory string

const (
	// CategoryAny is the wildcard category used when no exact table exists.
	CategoryAny ErrorCategory = "any"

	CategoryNotFound        ErrorCategory = "not_found"
	CategoryInvalid         ErrorCategory = "invalid"
	CategoryUnauthenticated ErrorCategory = "unauthenticated"
	CategoryForbidden       ErrorCategory = "forbidden"
	CategoryInternal        ErrorCategory = "internal"
)

// Categorized is implemented by errors that carry their own category.
type Categorized interface {
	Category() ErrorCategory
}

// CategoryError attaches a category to an arbitrary error.
type CategoryError struct {
	Kind ErrorCategory
	Err  error
}

// WithCategory wraps err so it resolves to the given category.
func WithCategory(category ErrorCategory, err error) error {
	if err == nil {
		return nil
	}
	return &CategoryError{Kind: category, Err: err}
}

func (e *CategoryError) Error() string           { return e.Err.Error() }
func (e *CategoryError) Unwrap() error           { return e.Err }
func (e *CategoryError) Category() ErrorCategory { return e.Kind }

// Categorize derives the category of err.
// Explicit categories win over the well-known sentinels.
func Categorize(err error) ErrorCategory {
	var c Categorized
	if errors.As(err, &c) {
		return c.Category()
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return CategoryNotFound
	case errors.Is(err, ErrInvalid):
		return CategoryInvalid
	case errors.Is(err, ErrUnauthenticated):
		return CategoryUnauthenticated
	case errors.Is(err, ErrForbidden):
		return CategoryForbidden
	default:
		return CategoryInternal
	}
}

// StatusFor maps a category to the HTTP status used when rendering its error table.
func StatusFor(category ErrorCategory) int {
	switch category {
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryInvalid:
		return http.StatusUnprocessableEntity
	case CategoryUnauthenticated:
		return http.StatusUnauthorized
	case CategoryForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
