package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Barcode       string  `json:"barcode" binding:"required,min=10,max=100"`
	Title         string  `json:"title" binding:"required,min=2,max=255"`
	ShortTitle    string  `json:"short_title" binding:"omitempty,max=255"`
	Price         float64 `json:"price" binding:"min=0"`
	OriginalPrice float64 `json:"original_price" binding:"min=0"`
	Size          string  `json:"size" binding:"omitempty,max=50"`
	Color         string  `json:"color" binding:"omitempty,max=50"`
	Image         *string `json:"image"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Title         *string  `json:"title" binding:"omitempty,min=2,max=255"`
	ShortTitle    *string  `json:"short_title" binding:"omitempty,max=255"`
	Price         *float64 `json:"price" binding:"omitempty,min=0"`
	OriginalPrice *float64 `json:"original_price" binding:"omitempty,min=0"`
	Size          *string  `json:"size" binding:"omitempty,max=50"`
	Color         *string  `json:"color" binding:"omitempty,max=50"`
	Image         *string  `json:"image"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
