package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/internal/domain/repository"
	"github.com/jeneser/pos-api/pkg/apperror"
	"github.com/jeneser/pos-api/pkg/pagination"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Barcode       string
	Title         string
	ShortTitle    string
	Price         float64
	OriginalPrice float64
	Size          string
	Color         string
	Image         *string
}

// CreateProduct adds a product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	existing, err := s.productRepo.GetByBarcode(ctx, input.Barcode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Barcode already registered")
	}

	product := &entity.Product{
		Barcode:    input.Barcode,
		Title:      input.Title,
		ShortTitle: input.ShortTitle,
		Size:       input.Size,
		Color:      input.Color,
		Image:      input.Image,
	}
	product.SetPriceFromDecimal(input.Price)
	product.SetOriginalPriceFromDecimal(input.OriginalPrice)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByBarcode retrieves a product by its barcode
func (s *ProductService) GetProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	product, err := s.productRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID            uuid.UUID
	Title         *string
	ShortTitle    *string
	Price         *float64
	OriginalPrice *float64
	Size          *string
	Color         *string
	Image         *string
}

// UpdateProduct updates a catalog entry
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.ShortTitle != nil {
		product.ShortTitle = *input.ShortTitle
	}
	if input.Price != nil {
		product.SetPriceFromDecimal(*input.Price)
	}
	if input.OriginalPrice != nil {
		product.SetOriginalPriceFromDecimal(*input.OriginalPrice)
	}
	if input.Size != nil {
		product.Size = *input.Size
	}
	if input.Color != nil {
		product.Color = *input.Color
	}
	if input.Image != nil {
		product.Image = input.Image
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts lists catalog entries with search and pagination
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}
