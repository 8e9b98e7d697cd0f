package repository

import (
	"context"
	"errors"

	"furnicost/internal/model"
)

// ErrNotFound is returned when no estimate has the requested ID.
var ErrNotFound = errors.New("estimate not found")

// EstimateRepository defines data access for estimates using SQL queries only.
type EstimateRepository interface {
	// Create inserts a new estimate and returns the stored row.
	Create(ctx context.Context, e *model.Estimate) (*model.Estimate, error)

	// FindByID returns ErrNotFound when the row does not exist.
	FindByID(ctx context.Context, id string) (*model.Estimate, error)

	List(ctx context.Context, pq PageQuery) (*PageResult[model.Estimate], error)

	// Delete returns ErrNotFound when no row was removed.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
