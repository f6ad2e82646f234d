package store

import (
	"testing"

	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineItem(id string) entity.LineItem {
	return entity.LineItem{
		ItemID:    id,
		ItemType:  enum.ItemTypeItem,
		ItemPrice: entity.NewAmount(decimal.NewFromInt(10)),
	}
}

func currentCount(s *TicketStore) int {
	n := 0
	for _, t := range s.Tickets() {
		if t.IsCurrent {
			n++
		}
	}
	return n
}

func TestAddMakesTicketCurrent(t *testing.T) {
	s := NewTicketStore()

	first := s.Add()
	assert.Equal(t, first, s.CurrentID())

	second := s.Add()
	assert.Equal(t, second, s.CurrentID())
	assert.Equal(t, 1, currentCount(s), "exactly one ticket may be current")

	tickets := s.Tickets()
	require.Len(t, tickets, 2)
	assert.Equal(t, first, tickets[0].ID, "creation order preserved")
	assert.False(t, tickets[0].IsCurrent)
	assert.True(t, tickets[1].IsCurrent)
	assert.Equal(t, entity.DefaultTicketName, tickets[0].Name)
}

func TestSelectDemotesPreviousCurrent(t *testing.T) {
	s := NewTicketStore()
	first := s.Add()
	s.Add()

	s.Select(first)
	assert.Equal(t, first, s.CurrentID())
	assert.Equal(t, 1, currentCount(s))

	// Unknown id is a no-op.
	s.Select("no-such-ticket")
	assert.Equal(t, first, s.CurrentID())
}

func TestAtMostOneCurrentAfterAnySequence(t *testing.T) {
	s := NewTicketStore()

	a := s.Add()
	b := s.Add()
	s.Select(a)
	s.Delete()
	s.Select(b)
	s.Add()
	s.Delete()
	s.Select(b)

	assert.LessOrEqual(t, currentCount(s), 1)
	assert.Equal(t, b, s.CurrentID())
}

func TestDeleteWithoutCurrentIsNoop(t *testing.T) {
	s := NewTicketStore()

	assert.NotPanics(t, func() { s.Delete() })

	s.Add()
	s.Delete()
	assert.Empty(t, s.CurrentID())
	assert.Empty(t, s.Tickets())

	// Deleting again with nothing selected stays a no-op.
	assert.NotPanics(t, func() { s.Delete() })
}

func TestDeleteTargetsOnlyCurrent(t *testing.T) {
	s := NewTicketStore()
	first := s.Add()
	s.Add()

	s.Delete()

	tickets := s.Tickets()
	require.Len(t, tickets, 1)
	assert.Equal(t, first, tickets[0].ID)
	// The survivor is not promoted; nothing is current until selected.
	assert.Empty(t, s.CurrentID())
}

func TestAddLineItemRequiresCurrentTicket(t *testing.T) {
	s := NewTicketStore()

	assert.False(t, s.AddLineItem(lineItem("A1")))

	s.Add()
	assert.True(t, s.AddLineItem(lineItem("A1")))

	ticket, _, ok := s.Current()
	require.True(t, ok)
	require.Len(t, ticket.Items, 1)
	assert.NotEmpty(t, ticket.Items[0].Key, "store assigns a key when absent")
}

func TestLineItemRoundTrip(t *testing.T) {
	s := NewTicketStore()
	s.Add()
	s.AddLineItem(lineItem("A1"))

	before, _, _ := s.Current()

	require.True(t, s.AddLineItem(lineItem("B2")))
	added, _, _ := s.Current()
	require.Len(t, added.Items, 2)

	require.True(t, s.DeleteLineItem(added.Items[1].Key))
	after, _, _ := s.Current()

	require.Len(t, after.Items, len(before.Items))
	assert.Equal(t, before.Items[0].ItemID, after.Items[0].ItemID)
}

func TestDeleteLineItemMissingKeyIsNoop(t *testing.T) {
	s := NewTicketStore()
	s.Add()
	s.AddLineItem(lineItem("A1"))

	assert.False(t, s.DeleteLineItem("missing"))
	ticket, _, _ := s.Current()
	assert.Len(t, ticket.Items, 1)
}

func TestToggleGiftEntryMode(t *testing.T) {
	s := NewTicketStore()

	assert.False(t, s.GiftEntryMode())
	assert.True(t, s.ToggleGiftEntryMode())
	assert.False(t, s.ToggleGiftEntryMode())
}

func TestApplyOrderRefDiscardsStaleVersion(t *testing.T) {
	s := NewTicketStore()
	id := s.Add()
	s.AddLineItem(lineItem("A1"))

	_, version, ok := s.Current()
	require.True(t, ok)

	// Items change after the fetch was issued: the result is stale.
	s.AddLineItem(lineItem("B2"))
	assert.False(t, s.ApplyOrderRef(id, "https://pay.example/orders/1", version))

	ticket, latest, _ := s.Current()
	assert.Equal(t, enum.PaymentStatusUnpaid, ticket.PaymentStatus)
	assert.Empty(t, ticket.OrderRef)

	// The fetch issued against the latest version lands.
	assert.True(t, s.ApplyOrderRef(id, "https://pay.example/orders/2", latest))
	ticket, _, _ = s.Current()
	assert.Equal(t, enum.PaymentStatusAwaiting, ticket.PaymentStatus)
	assert.Equal(t, "https://pay.example/orders/2", ticket.OrderRef)
}

func TestItemChangeInvalidatesObtainedReference(t *testing.T) {
	s := NewTicketStore()
	id := s.Add()
	s.AddLineItem(lineItem("A1"))

	_, version, _ := s.Current()
	require.True(t, s.ApplyOrderRef(id, "https://pay.example/orders/1", version))

	s.AddLineItem(lineItem("B2"))

	ticket, _, _ := s.Current()
	assert.Equal(t, enum.PaymentStatusUnpaid, ticket.PaymentStatus)
	assert.Empty(t, ticket.OrderRef, "reference must be recomputed after item changes")
}

func TestMarkPaidIsTerminal(t *testing.T) {
	s := NewTicketStore()
	id := s.Add()
	s.AddLineItem(lineItem("A1"))

	// Cannot complete before a reference is obtained.
	assert.False(t, s.MarkPaid(id))

	_, version, _ := s.Current()
	require.True(t, s.ApplyOrderRef(id, "https://pay.example/orders/1", version))
	require.True(t, s.MarkPaid(id))

	// No transition out of paid, and no further item mutations.
	assert.False(t, s.MarkPaid(id))
	assert.False(t, s.AddLineItem(lineItem("C3")))
	assert.False(t, s.DeleteLineItem("any"))

	ticket, _, _ := s.Current()
	assert.Equal(t, enum.PaymentStatusPaid, ticket.PaymentStatus)
	assert.Len(t, ticket.Items, 1)
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := NewTicketStore()
	s.Add()
	s.AddLineItem(lineItem("A1"))

	ticket, _, _ := s.Current()
	ticket.Items[0].ItemID = "mutated"

	fresh, _, _ := s.Current()
	assert.Equal(t, "A1", fresh.Items[0].ItemID)
}
