package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jeneser/pos-api/internal/application/service"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"github.com/jeneser/pos-api/internal/presentation/http/dto/request"
	"github.com/jeneser/pos-api/internal/presentation/http/dto/response"
	"github.com/jeneser/pos-api/pkg/pagination"
)

// CheckoutHandler handles payment and order HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Refresh obtains a fresh order reference for the current ticket and returns
// the checkout view with the payment QR image.
func (h *CheckoutHandler) Refresh(c *gin.Context) {
	view, err := h.checkoutService.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout refreshed successfully", view)
}

// Complete finishes the payment of the current ticket and persists the order
func (h *CheckoutHandler) Complete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.checkoutService.Complete(c.Request.Context(), &service.CompleteInput{
		UserID:        *userID,
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment completed successfully", order)
}

// GetOrder retrieves a completed order with its details
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// ListOrders lists the authenticated cashier's completed orders
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	result, err := h.checkoutService.ListOrders(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}
