package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jeneser/pos-api/internal/application/store"
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"github.com/jeneser/pos-api/internal/domain/repository"
	"github.com/jeneser/pos-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo is an in-memory ProductRepository keyed by barcode.
type fakeProductRepo struct {
	byBarcode map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{byBarcode: make(map[string]*entity.Product)}
	for _, p := range products {
		repo.byBarcode[p.Barcode] = p
	}
	return repo
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.byBarcode[product.Barcode] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	for _, p := range r.byBarcode {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	return r.byBarcode[barcode], nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error { return nil }

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return nil, 0, nil
}

func newTicketService(products ...*entity.Product) (*TicketService, *store.TicketStore) {
	st := store.NewTicketStore()
	svc := NewTicketService(st, newFakeProductRepo(products...), decimal.Zero, 10)
	return svc, st
}

func testProduct() *entity.Product {
	img := "https://cdn.example/a1.png"
	return &entity.Product{
		ID:         uuid.New(),
		Barcode:    "6901234567890",
		Title:      "Cotton T-Shirt White",
		ShortTitle: "T-Shirt",
		Price:      9900,
		Size:       "L",
		Color:      "white",
		Image:      &img,
	}
}

func TestScanAddsProductToCurrentTicket(t *testing.T) {
	svc, _ := newTicketService(testProduct())
	_, err := svc.CreateTicket()
	require.NoError(t, err)

	item, err := svc.Scan(context.Background(), "6901234567890")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "6901234567890", item.ItemID)
	assert.Equal(t, enum.ItemTypeItem, item.ItemType)
	assert.Equal(t, "T-Shirt", item.Title)
	assert.True(t, item.ItemPrice.Equal(decimal.RequireFromString("99")))

	view, err := svc.CurrentTicket()
	require.NoError(t, err)
	require.Len(t, view.Ticket.Items, 1)
	assert.True(t, view.Settlement.Payable.Equal(decimal.RequireFromString("99")))
}

func TestScanShortCodeIsSilentlyIgnored(t *testing.T) {
	svc, _ := newTicketService(testProduct())
	svc.CreateTicket()

	for _, code := range []string{"", "123", "690123456"} {
		item, err := svc.Scan(context.Background(), code)
		assert.NoError(t, err, "code %q", code)
		assert.Nil(t, item, "code %q", code)
	}

	view, err := svc.CurrentTicket()
	require.NoError(t, err)
	assert.Empty(t, view.Ticket.Items)
}

func TestScanUnknownBarcodeWarnsWithoutMutating(t *testing.T) {
	svc, _ := newTicketService(testProduct())
	svc.CreateTicket()

	item, err := svc.Scan(context.Background(), "9999999999999")
	assert.Nil(t, item)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	view, _ := svc.CurrentTicket()
	assert.Empty(t, view.Ticket.Items)
}

func TestScanTrimsBeforeLookup(t *testing.T) {
	svc, _ := newTicketService(testProduct())
	svc.CreateTicket()

	item, err := svc.Scan(context.Background(), "6901234567890  ")
	require.NoError(t, err)
	require.NotNil(t, item)
}

func TestScanWithoutCurrentTicketIsDropped(t *testing.T) {
	svc, _ := newTicketService(testProduct())

	item, err := svc.Scan(context.Background(), "6901234567890")
	assert.NoError(t, err)
	assert.Nil(t, item)
	assert.Empty(t, svc.ListTickets())
}

func TestAddLineItemValidatesItemType(t *testing.T) {
	svc, _ := newTicketService()
	svc.CreateTicket()

	_, err := svc.AddLineItem(entity.LineItem{ItemID: "X", ItemType: "coupon"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCurrentTicketWithoutSelectionErrors(t *testing.T) {
	svc, _ := newTicketService()

	_, err := svc.CurrentTicket()
	assert.ErrorIs(t, err, apperror.ErrNoCurrentTicket)
}

func TestGiftEntryAffectsSettlement(t *testing.T) {
	svc, _ := newTicketService()
	svc.CreateTicket()

	added, err := svc.AddLineItem(entity.LineItem{
		ItemID:    "A1",
		ItemType:  enum.ItemTypeItem,
		ItemPrice: entity.NewAmount(decimal.NewFromInt(100)),
	})
	require.NoError(t, err)
	require.True(t, added)

	added, err = svc.AddLineItem(entity.LineItem{
		ItemID:       "SALE10",
		ItemType:     enum.ItemTypeGift,
		DiscountRate: entity.NewAmount(decimal.RequireFromString("0.9")),
	})
	require.NoError(t, err)
	require.True(t, added)

	view, err := svc.CurrentTicket()
	require.NoError(t, err)
	// discount = 100 * (1 - 0.9) = 10, payable = 90
	assert.True(t, view.Settlement.Discount.Equal(decimal.NewFromInt(10)))
	assert.True(t, view.Settlement.Payable.Equal(decimal.NewFromInt(90)))
}
