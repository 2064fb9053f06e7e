package store

import (
	"context"

	"github.com/go-faster/errors"

	models "shopfront/model"
)

// ErrNotFound is returned when no product matches the requested id.
var ErrNotFound = errors.New("product not found")

// Store is the product collection. It is the only owner of product records;
// callers must not cache results across requests.
type Store interface {
	InsertOne(ctx context.Context, in models.ProductInput) (models.Product, error)
	// InsertMany stores every record or none of them.
	InsertMany(ctx context.Context, in []models.ProductInput) ([]models.Product, error)

	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (models.Product, error)

	UpdateByID(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error)
	DeleteByID(ctx context.Context, id string) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int64, error)

	Close() error
}
