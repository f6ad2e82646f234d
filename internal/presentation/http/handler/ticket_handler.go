package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jeneser/pos-api/internal/application/service"
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"github.com/jeneser/pos-api/internal/presentation/http/dto/request"
	"github.com/jeneser/pos-api/internal/presentation/http/dto/response"
	"github.com/jeneser/pos-api/pkg/apperror"
)

// TicketHandler handles open-ticket HTTP requests for the register
type TicketHandler struct {
	ticketService *service.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// List handles listing all open tickets
func (h *TicketHandler) List(c *gin.Context) {
	response.OK(c, "Tickets retrieved successfully", h.ticketService.ListTickets())
}

// Create handles opening a new ticket
func (h *TicketHandler) Create(c *gin.Context) {
	view, err := h.ticketService.CreateTicket()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Ticket created successfully", view)
}

// Select handles switching the current ticket. Unknown ids leave the
// selection unchanged; the response carries whatever is current afterwards.
func (h *TicketHandler) Select(c *gin.Context) {
	h.ticketService.SelectTicket(c.Param("id"))

	view, err := h.ticketService.CurrentTicket()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ticket selected", view)
}

// Delete handles closing the current ticket
func (h *TicketHandler) Delete(c *gin.Context) {
	h.ticketService.DeleteTicket()
	response.NoContent(c)
}

// Current handles retrieving the current ticket with its settlement
func (h *TicketHandler) Current(c *gin.Context) {
	view, err := h.ticketService.CurrentTicket()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current ticket retrieved successfully", view)
}

// AddItem handles a manual line-item entry on the current ticket
func (h *TicketHandler) AddItem(c *gin.Context) {
	var req request.AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	added, err := h.ticketService.AddLineItem(entity.LineItem{
		ItemID:       req.ItemID,
		ItemType:     enum.ItemType(req.ItemType),
		ItemPrice:    req.ItemPrice,
		DiscountRate: req.DiscountRate,
		Title:        req.Title,
		Image:        req.Image,
		ItemSize:     req.ItemSize,
		ItemColor:    req.ItemColor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if !added {
		response.Error(c, apperror.ErrNoCurrentTicket)
		return
	}

	view, err := h.ticketService.CurrentTicket()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item added successfully", view)
}

// DeleteItem handles removing a line item by key. Missing keys are ignored
// and the current ticket is returned either way.
func (h *TicketHandler) DeleteItem(c *gin.Context) {
	h.ticketService.DeleteLineItem(c.Param("key"))

	view, err := h.ticketService.CurrentTicket()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed", view)
}

// Scan handles a barcode scanner submission. Short codes are swallowed
// silently; unknown codes come back as 404 without touching the ticket.
func (h *TicketHandler) Scan(c *gin.Context) {
	var req request.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.ticketService.Scan(c.Request.Context(), req.Barcode)
	if err != nil {
		response.Error(c, err)
		return
	}
	if item == nil {
		response.OK(c, "Scan ignored", nil)
		return
	}

	response.OK(c, "Item scanned successfully", item)
}

// ToggleGiftMode flips the gift-entry panel flag
func (h *TicketHandler) ToggleGiftMode(c *gin.Context) {
	enabled := h.ticketService.ToggleGiftEntryMode()
	response.OK(c, "Gift entry mode toggled", gin.H{"gift_entry_mode": enabled})
}
