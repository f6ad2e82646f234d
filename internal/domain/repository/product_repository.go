package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/pkg/pagination"
)

// ProductRepository defines the interface for product catalog operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByBarcode resolves a scanned barcode to a product; returns nil
	// without error when no product carries the code.
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}
