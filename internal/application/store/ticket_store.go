// Package store holds the register's session state: open tickets, the
// current-ticket pointer and the gift-entry panel flag. Tickets are the
// in-memory analogue of a cashier's stack of open bills; nothing here
// touches the database.
package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/internal/domain/enum"
)

// TicketStore maintains the ticket collection. All mutations resolve through
// the single currentID field, so at most one ticket is ever current. Methods
// are safe for concurrent use; each call is one atomic register action.
type TicketStore struct {
	mu            sync.Mutex
	byID          map[string]*ticketState
	order         []string
	currentID     string
	giftEntryMode bool
}

// ticketState wraps a ticket with its items version. The version bumps on
// every item mutation and fences stale order-reference fetches.
type ticketState struct {
	ticket  entity.Ticket
	version uint64
}

// NewTicketStore creates an empty ticket store.
func NewTicketStore() *TicketStore {
	return &TicketStore{
		byID: make(map[string]*ticketState),
	}
}

// Add creates a new ticket, makes it current (demoting any prior current
// ticket) and returns its id.
func (s *TicketStore) Add() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := entity.NewTicket()
	s.byID[t.ID] = &ticketState{ticket: *t}
	s.order = append(s.order, t.ID)
	s.setCurrentLocked(t.ID)
	return t.ID
}

// Select marks the ticket with the given id as current. An unknown id is a
// no-op, matching the register's defensive handling of stale clicks.
func (s *TicketStore) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return
	}
	s.setCurrentLocked(id)
}

func (s *TicketStore) setCurrentLocked(id string) {
	if prev, ok := s.byID[s.currentID]; ok {
		prev.ticket.IsCurrent = false
	}
	s.currentID = id
	s.byID[id].ticket.IsCurrent = true
}

// Delete removes the current ticket. With no current ticket it is a no-op.
func (s *TicketStore) Delete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		return
	}
	delete(s.byID, s.currentID)
	for i, id := range s.order {
		if id == s.currentID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.currentID = ""
}

// AddLineItem appends an item to the current ticket. With no current ticket,
// or a ticket already paid, it is a no-op and returns false.
func (s *TicketStore) AddLineItem(item entity.LineItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.mutableCurrentLocked()
	if !ok {
		return false
	}
	if item.Key == "" {
		item.Key = uuid.New().String()
	}
	state.ticket.Items = append(state.ticket.Items, item)
	s.itemsChangedLocked(state)
	return true
}

// DeleteLineItem removes the item with the given key from the current
// ticket. Missing ticket or key is a no-op and returns false.
func (s *TicketStore) DeleteLineItem(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.mutableCurrentLocked()
	if !ok {
		return false
	}
	for i, item := range state.ticket.Items {
		if item.Key == key {
			state.ticket.Items = append(state.ticket.Items[:i], state.ticket.Items[i+1:]...)
			s.itemsChangedLocked(state)
			return true
		}
	}
	return false
}

func (s *TicketStore) mutableCurrentLocked() (*ticketState, bool) {
	state, ok := s.byID[s.currentID]
	if !ok || state.ticket.PaymentStatus == enum.PaymentStatusPaid {
		return nil, false
	}
	return state, true
}

// itemsChangedLocked bumps the items version and drops a previously obtained
// order reference: the reference no longer matches the cart.
func (s *TicketStore) itemsChangedLocked(state *ticketState) {
	state.version++
	if enum.ValidPaymentTransition(enum.ActionInvalidateReference, state.ticket.PaymentStatus) {
		state.ticket.PaymentStatus = enum.PaymentStatusUnpaid
		state.ticket.OrderRef = ""
	}
}

// ToggleGiftEntryMode flips the gift-entry panel flag and returns the new
// value. Ticket data is untouched.
func (s *TicketStore) ToggleGiftEntryMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.giftEntryMode = !s.giftEntryMode
	return s.giftEntryMode
}

// GiftEntryMode reports whether the gift-entry panel is open.
func (s *TicketStore) GiftEntryMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.giftEntryMode
}

// CurrentID returns the current ticket id, or "" when none is selected.
func (s *TicketStore) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentID
}

// Current returns a snapshot of the current ticket and its items version.
func (s *TicketStore) Current() (entity.Ticket, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.byID[s.currentID]
	if !ok {
		return entity.Ticket{}, 0, false
	}
	return copyTicket(state.ticket), state.version, true
}

// Tickets returns snapshots of all tickets in creation order.
func (s *TicketStore) Tickets() []entity.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets := make([]entity.Ticket, 0, len(s.order))
	for _, id := range s.order {
		tickets = append(tickets, copyTicket(s.byID[id].ticket))
	}
	return tickets
}

// ApplyOrderRef records a fetched order reference on a ticket, but only if
// the items version still matches the one the fetch was issued against.
// A stale fetch (items changed in between) is discarded and returns false.
func (s *TicketStore) ApplyOrderRef(ticketID, ref string, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.byID[ticketID]
	if !ok || state.version != version {
		return false
	}
	if !enum.ValidPaymentTransition(enum.ActionObtainReference, state.ticket.PaymentStatus) {
		return false
	}
	state.ticket.OrderRef = ref
	state.ticket.PaymentStatus = enum.PaymentStatusAwaiting
	return true
}

// MarkPaid transitions a ticket to its terminal paid state. Only a ticket
// awaiting payment can complete.
func (s *TicketStore) MarkPaid(ticketID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.byID[ticketID]
	if !ok {
		return false
	}
	if !enum.ValidPaymentTransition(enum.ActionCompletePayment, state.ticket.PaymentStatus) {
		return false
	}
	state.ticket.PaymentStatus = enum.PaymentStatusPaid
	return true
}

func copyTicket(t entity.Ticket) entity.Ticket {
	items := make([]entity.LineItem, len(t.Items))
	copy(items, t.Items)
	t.Items = items
	return t
}
