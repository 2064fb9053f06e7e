package service

import (
	"context"

	models "shopfront/model"
)

// ServiceInterface is what the HTTP layer needs from the product service.
type ServiceInterface interface {
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	BulkCreateProducts(ctx context.Context, in []models.ProductInput) ([]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ActiveProductsGauge receives the stored product count after mutations.
type ActiveProductsGauge interface {
	SetActiveProducts(n int64)
}
