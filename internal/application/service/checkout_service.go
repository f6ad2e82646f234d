package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jeneser/pos-api/internal/application/store"
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"github.com/jeneser/pos-api/internal/domain/repository"
	"github.com/jeneser/pos-api/internal/domain/settlement"
	"github.com/jeneser/pos-api/pkg/apperror"
	"github.com/jeneser/pos-api/pkg/pagination"
	"github.com/jeneser/pos-api/pkg/payment"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// CheckoutService drives the payment flow: order reference synthesis, the
// payment QR, and recording the completed order.
type CheckoutService struct {
	store     *store.TicketStore
	gateway   payment.Gateway
	orderRepo repository.OrderRepository
	taxRate   decimal.Decimal
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	ticketStore *store.TicketStore,
	gateway payment.Gateway,
	orderRepo repository.OrderRepository,
	taxRate decimal.Decimal,
) *CheckoutService {
	return &CheckoutService{
		store:     ticketStore,
		gateway:   gateway,
		orderRepo: orderRepo,
		taxRate:   taxRate,
	}
}

// CheckoutView is what the checkout screen renders: the ticket, its settled
// amounts, the order reference and the payment QR image (PNG). QRImage is
// empty when rendering failed; the failure is logged, not fatal.
type CheckoutView struct {
	Ticket     entity.Ticket      `json:"ticket"`
	Settlement settlement.Summary `json:"settlement"`
	OrderRef   string             `json:"order_ref"`
	QRImage    []byte             `json:"qr_image,omitempty"`
}

// AggregateItems builds the gateway's item tokens: each distinct itemId
// becomes "<itemId>_<count>", in first-seen order. An item scanned twice
// yields a single token with count 2.
func AggregateItems(items []entity.LineItem) []string {
	counts := make(map[string]int)
	order := make([]string, 0, len(items))

	for _, item := range items {
		if item.ItemID == "" {
			continue
		}
		if _, seen := counts[item.ItemID]; !seen {
			order = append(order, item.ItemID)
		}
		counts[item.ItemID]++
	}

	tokens := make([]string, 0, len(order))
	for _, id := range order {
		tokens = append(tokens, fmt.Sprintf("%s_%d", id, counts[id]))
	}
	return tokens
}

// Refresh obtains a fresh order reference for the current ticket and renders
// its payment QR. The fetch is fenced by the ticket's items version: if the
// items change while the gateway call is in flight, the stale result is
// discarded and a conflict is returned so the client retries against the new
// cart.
func (s *CheckoutService) Refresh(ctx context.Context) (*CheckoutView, error) {
	ticket, version, ok := s.store.Current()
	if !ok {
		return nil, apperror.ErrNoCurrentTicket
	}
	if ticket.PaymentStatus == enum.PaymentStatusPaid {
		return nil, apperror.NewConflictError("Ticket is already paid")
	}

	ref, err := s.gateway.CreateOrderReference(ctx, AggregateItems(ticket.Items))
	if err != nil {
		log.Printf("payment gateway: order reference fetch failed: %v", err)
		return nil, apperror.NewAppError(502, "Could not obtain an order reference")
	}

	if !s.store.ApplyOrderRef(ticket.ID, ref, version) {
		return nil, apperror.NewConflictError("Ticket changed during checkout; refresh again")
	}

	view := &CheckoutView{
		Settlement: settlement.Calculate(ticket.Items, s.taxRate),
		OrderRef:   ref,
	}

	current, _, ok := s.store.Current()
	if ok {
		view.Ticket = current
	}

	png, err := qrcode.Encode(ref, qrcode.Medium, qrImageSize)
	if err != nil {
		// QR rendering is a display concern; the reference itself is fine.
		log.Printf("qrcode: encode failed for %q: %v", ref, err)
	} else {
		view.QRImage = png
	}

	return view, nil
}

// CompleteInput represents the complete-payment input
type CompleteInput struct {
	UserID        uuid.UUID
	PaymentMethod enum.PaymentMethod
}

// Complete finishes the payment of the current ticket: the ticket moves to
// its terminal paid state and the settled order is persisted. The transition
// is user triggered; the gateway is not consulted again.
func (s *CheckoutService) Complete(ctx context.Context, input *CompleteInput) (*entity.Order, error) {
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewBadRequestError("Payment method must be alipay or cash")
	}

	ticket, _, ok := s.store.Current()
	if !ok {
		return nil, apperror.ErrNoCurrentTicket
	}
	if !enum.ValidPaymentTransition(enum.ActionCompletePayment, ticket.PaymentStatus) {
		return nil, apperror.ErrTicketNotPayable
	}

	summary := settlement.Calculate(ticket.Items, s.taxRate)

	order := &entity.Order{
		UserID:        input.UserID,
		TicketID:      ticket.ID,
		TicketName:    ticket.Name,
		OrderRef:      ticket.OrderRef,
		PaymentMethod: input.PaymentMethod,
		TotalItems:    len(ticket.Items),
		SubTotal:      toCents(summary.Subtotal),
		Discount:      toCents(summary.Discount),
		Payable:       toCents(summary.Payable),
		PaidAt:        time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	details := make([]entity.OrderDetail, 0, len(ticket.Items))
	for _, item := range ticket.Items {
		amount := item.ItemPrice.Decimal
		if item.ItemType == enum.ItemTypeGift && amount.IsZero() && !item.DiscountRate.IsZero() {
			amount = summary.Subtotal.Mul(decimal.NewFromInt(1).Sub(item.DiscountRate.Decimal)).Round(2)
		}
		details = append(details, entity.OrderDetail{
			OrderID:  order.ID,
			ItemID:   item.ItemID,
			ItemType: item.ItemType,
			Title:    item.Title,
			Amount:   toCents(amount),
		})
	}
	if err := s.orderRepo.CreateDetails(ctx, details); err != nil {
		return nil, err
	}

	if !s.store.MarkPaid(ticket.ID) {
		// The ticket changed under us after the order was written. The
		// payment stands; the mismatch is worth a trace.
		log.Printf("checkout: ticket %s not marked paid after order %s", ticket.ID, order.ID)
	}

	return s.orderRepo.GetWithDetails(ctx, order.ID)
}

// GetOrder retrieves a completed order by ID
func (s *CheckoutService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists a cashier's completed orders
func (s *CheckoutService) ListOrders(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

func toCents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
