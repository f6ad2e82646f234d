package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jeneser/pos-api/internal/application/store"
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"github.com/jeneser/pos-api/pkg/apperror"
	"github.com/jeneser/pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway hands out sequential references and can be told to fail or to
// mutate the store mid-call, simulating an in-flight cart change.
type fakeGateway struct {
	calls      int
	fail       bool
	midFlight  func()
	lastTokens []string
}

func (g *fakeGateway) CreateOrderReference(ctx context.Context, items []string) (string, error) {
	g.calls++
	g.lastTokens = items
	if g.midFlight != nil {
		g.midFlight()
	}
	if g.fail {
		return "", errors.New("gateway down")
	}
	return "https://pay.example/orders/1000000" + string(rune('0'+g.calls)), nil
}

// fakeOrderRepo collects persisted orders in memory.
type fakeOrderRepo struct {
	orders  map[uuid.UUID]*entity.Order
	details map[uuid.UUID][]entity.OrderDetail
	fail    bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:  make(map[uuid.UUID]*entity.Order),
		details: make(map[uuid.UUID][]entity.OrderDetail),
	}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if r.fail {
		return errors.New("db down")
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) CreateDetails(ctx context.Context, details []entity.OrderDetail) error {
	for _, d := range details {
		r.details[d.OrderID] = append(r.details[d.OrderID], d)
	}
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.orders[id], nil
}

func (r *fakeOrderRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order := r.orders[id]
	if order == nil {
		return nil, nil
	}
	order.Details = r.details[id]
	return order, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Order, int64, error) {
	var out []entity.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func checkoutFixture(t *testing.T) (*CheckoutService, *store.TicketStore, *fakeGateway, *fakeOrderRepo) {
	t.Helper()
	st := store.NewTicketStore()
	gw := &fakeGateway{}
	repo := newFakeOrderRepo()
	svc := NewCheckoutService(st, gw, repo, decimal.Zero)
	return svc, st, gw, repo
}

func priced(id string, price int64) entity.LineItem {
	return entity.LineItem{
		ItemID:    id,
		ItemType:  enum.ItemTypeItem,
		ItemPrice: entity.NewAmount(decimal.NewFromInt(price)),
	}
}

func TestAggregateItems(t *testing.T) {
	cases := []struct {
		name  string
		items []entity.LineItem
		want  []string
	}{
		{
			name:  "duplicate item ids collapse with a count suffix",
			items: []entity.LineItem{priced("A1", 10), priced("B2", 20), priced("A1", 10)},
			want:  []string{"A1_2", "B2_1"},
		},
		{
			name:  "first-seen order preserved",
			items: []entity.LineItem{priced("C3", 1), priced("A1", 1), priced("C3", 1), priced("B2", 1)},
			want:  []string{"C3_2", "A1_1", "B2_1"},
		},
		{
			name:  "items without an id are skipped",
			items: []entity.LineItem{priced("A1", 10), {ItemType: enum.ItemTypeGift}},
			want:  []string{"A1_1"},
		},
		{
			name:  "empty cart",
			items: nil,
			want:  []string{},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateItems(tt.items))
		})
	}
}

func TestRefreshObtainsReferenceAndQR(t *testing.T) {
	svc, st, gw, _ := checkoutFixture(t)
	st.Add()
	st.AddLineItem(priced("A1", 100))
	st.AddLineItem(priced("A1", 100))

	view, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A1_2"}, gw.lastTokens)
	assert.NotEmpty(t, view.OrderRef)
	assert.NotEmpty(t, view.QRImage, "QR image should render for a valid reference")
	assert.Equal(t, enum.PaymentStatusAwaiting, view.Ticket.PaymentStatus)
	assert.True(t, view.Settlement.Payable.Equal(decimal.NewFromInt(200)))
}

func TestRefreshWithoutCurrentTicket(t *testing.T) {
	svc, _, _, _ := checkoutFixture(t)

	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, apperror.ErrNoCurrentTicket)
}

func TestRefreshGatewayFailureLeavesStateUnchanged(t *testing.T) {
	svc, st, gw, _ := checkoutFixture(t)
	id := st.Add()
	st.AddLineItem(priced("A1", 100))
	gw.fail = true

	_, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, 502, apperror.GetAppError(err).Code)

	ticket, _, _ := st.Current()
	assert.Equal(t, id, ticket.ID)
	assert.Equal(t, enum.PaymentStatusUnpaid, ticket.PaymentStatus)
	assert.Empty(t, ticket.OrderRef)
}

func TestRefreshDiscardsStaleResultWhenCartChangesMidFlight(t *testing.T) {
	svc, st, gw, _ := checkoutFixture(t)
	st.Add()
	st.AddLineItem(priced("A1", 100))

	gw.midFlight = func() { st.AddLineItem(priced("B2", 50)) }

	_, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	ticket, _, _ := st.Current()
	assert.Empty(t, ticket.OrderRef, "stale reference must not be applied")
	assert.Equal(t, enum.PaymentStatusUnpaid, ticket.PaymentStatus)

	// A clean retry against the settled cart succeeds.
	gw.midFlight = nil
	view, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A1_1", "B2_1"}, gw.lastTokens)
	assert.Equal(t, enum.PaymentStatusAwaiting, view.Ticket.PaymentStatus)
}

func TestCompletePersistsOrderAndMarksTicketPaid(t *testing.T) {
	svc, st, _, repo := checkoutFixture(t)
	ticketID := st.Add()
	st.AddLineItem(priced("A1", 100))
	st.AddLineItem(entity.LineItem{
		ItemID:       "SALE",
		ItemType:     enum.ItemTypeGift,
		DiscountRate: entity.NewAmount(decimal.RequireFromString("0.9")),
	})

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	userID := uuid.New()
	order, err := svc.Complete(context.Background(), &CompleteInput{
		UserID:        userID,
		PaymentMethod: enum.PaymentMethodAlipay,
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, ticketID, order.TicketID)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, enum.PaymentMethodAlipay, order.PaymentMethod)
	assert.EqualValues(t, 10000, order.SubTotal)
	assert.EqualValues(t, 1000, order.Discount) // 100 * (1 - 0.9)
	assert.EqualValues(t, 9000, order.Payable)
	require.Len(t, order.Details, 2)
	assert.EqualValues(t, 1000, order.Details[1].Amount, "rate-based gift detail settles to its cash value")

	ticket, _, _ := st.Current()
	assert.Equal(t, enum.PaymentStatusPaid, ticket.PaymentStatus)
	assert.Len(t, repo.orders, 1)
}

func TestCompleteRequiresAwaitingPayment(t *testing.T) {
	svc, st, _, repo := checkoutFixture(t)
	st.Add()
	st.AddLineItem(priced("A1", 100))

	// No order reference obtained yet.
	_, err := svc.Complete(context.Background(), &CompleteInput{
		UserID:        uuid.New(),
		PaymentMethod: enum.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, apperror.ErrTicketNotPayable)
	assert.Empty(t, repo.orders)
}

func TestCompleteRejectsUnknownPaymentMethod(t *testing.T) {
	svc, st, _, _ := checkoutFixture(t)
	st.Add()

	_, err := svc.Complete(context.Background(), &CompleteInput{
		UserID:        uuid.New(),
		PaymentMethod: "barter",
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCompleteWithoutCurrentTicket(t *testing.T) {
	svc, _, _, _ := checkoutFixture(t)

	_, err := svc.Complete(context.Background(), &CompleteInput{
		UserID:        uuid.New(),
		PaymentMethod: enum.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, apperror.ErrNoCurrentTicket)
}
