package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/pkg/pagination"
)

// OrderRepository defines the interface for completed-order records
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateDetails(ctx context.Context, details []entity.OrderDetail) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Order, int64, error)
}
