package service

import (
	"context"
	"strings"

	"github.com/jeneser/pos-api/internal/application/store"
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"github.com/jeneser/pos-api/internal/domain/repository"
	"github.com/jeneser/pos-api/internal/domain/settlement"
	"github.com/jeneser/pos-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// TicketService handles ticket and line-item operations on the register
type TicketService struct {
	store         *store.TicketStore
	productRepo   repository.ProductRepository
	taxRate       decimal.Decimal
	barcodeMinLen int
}

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketStore *store.TicketStore,
	productRepo repository.ProductRepository,
	taxRate decimal.Decimal,
	barcodeMinLen int,
) *TicketService {
	return &TicketService{
		store:         ticketStore,
		productRepo:   productRepo,
		taxRate:       taxRate,
		barcodeMinLen: barcodeMinLen,
	}
}

// TicketView is a ticket snapshot plus its settled amounts, the read model
// the register renders from.
type TicketView struct {
	Ticket        entity.Ticket      `json:"ticket"`
	Settlement    settlement.Summary `json:"settlement"`
	TaxRate       decimal.Decimal    `json:"tax_rate"`
	GiftEntryMode bool               `json:"gift_entry_mode"`
}

// ListTickets returns all open tickets in creation order
func (s *TicketService) ListTickets() []entity.Ticket {
	return s.store.Tickets()
}

// CreateTicket opens a new ticket and makes it current
func (s *TicketService) CreateTicket() (*TicketView, error) {
	s.store.Add()
	return s.CurrentTicket()
}

// SelectTicket marks the ticket with the given id as current. Unknown ids
// are ignored.
func (s *TicketService) SelectTicket(id string) {
	s.store.Select(id)
}

// DeleteTicket removes the current ticket; without one it does nothing.
func (s *TicketService) DeleteTicket() {
	s.store.Delete()
}

// CurrentTicket returns the current ticket with its settlement
func (s *TicketService) CurrentTicket() (*TicketView, error) {
	ticket, _, ok := s.store.Current()
	if !ok {
		return nil, apperror.ErrNoCurrentTicket
	}
	return &TicketView{
		Ticket:        ticket,
		Settlement:    settlement.Calculate(ticket.Items, s.taxRate),
		TaxRate:       s.taxRate,
		GiftEntryMode: s.store.GiftEntryMode(),
	}, nil
}

// AddLineItem appends an item to the current ticket. Returns false when no
// ticket is current (the item was ignored).
func (s *TicketService) AddLineItem(item entity.LineItem) (bool, error) {
	if !item.ItemType.Valid() {
		return false, apperror.NewBadRequestError("Item type must be item or gift")
	}
	return s.store.AddLineItem(item), nil
}

// DeleteLineItem removes an item from the current ticket by key. Missing
// keys are ignored.
func (s *TicketService) DeleteLineItem(key string) bool {
	return s.store.DeleteLineItem(key)
}

// ToggleGiftEntryMode flips the gift-entry panel flag and returns the new value
func (s *TicketService) ToggleGiftEntryMode() bool {
	return s.store.ToggleGiftEntryMode()
}

// Scan resolves a scanned barcode and appends the product to the current
// ticket. Codes below the scanner's minimum length are ignored without
// feedback: they are partial keystrokes, not scans. A code that resolves to
// nothing returns a not-found error for the register to surface as a
// warning; ticket state is untouched. The added item is returned, or nil
// when the scan was ignored.
func (s *TicketService) Scan(ctx context.Context, barcode string) (*entity.LineItem, error) {
	if barcode == "" || len(barcode) < s.barcodeMinLen {
		return nil, nil
	}

	product, err := s.productRepo.GetByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	item := entity.LineItem{
		ItemID:    product.Barcode,
		ItemType:  enum.ItemTypeItem,
		ItemPrice: entity.AmountFromCents(product.Price),
		Title:     product.ShortTitle,
		ItemSize:  product.Size,
		ItemColor: product.Color,
	}
	if item.Title == "" {
		item.Title = product.Title
	}
	if product.Image != nil {
		item.Image = *product.Image
	}

	if !s.store.AddLineItem(item) {
		// No current ticket: a scan with nowhere to land is dropped.
		return nil, nil
	}
	return &item, nil
}
