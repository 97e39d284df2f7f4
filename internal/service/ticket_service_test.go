package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketgraph/internal/apierror"
	"ticketgraph/internal/models"
	"ticketgraph/internal/repository"
	"ticketgraph/internal/repository/storetest"
	"ticketgraph/internal/reqctx"
)

func newSvc(store repository.Store) *TicketService {
	return NewTicketService(store, zerolog.Nop())
}

func alice() *reqctx.Ctx { return reqctx.NewWithIdentity("alice") }

var someDetails = []models.Detail{{C: 1, D: 2}}

func TestCreateTicket(t *testing.T) {
	store := storetest.New()
	svc := newSvc(store)
	ctx := context.Background()
	rc := alice()

	ticket, aerr := svc.CreateTicket(ctx, rc, models.CreateTicketInput{Title: "concert", Details: someDetails})
	require.Nil(t, aerr)
	require.NotNil(t, ticket)
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, "alice", ticket.Creator)
	assert.Equal(t, "concert", ticket.Title)
	assert.Equal(t, someDetails, ticket.Details)

	// Exactly one sale, linked to the ticket, reachable both ways.
	sales, aerr := svc.ListSales(ctx, rc)
	require.Nil(t, aerr)
	require.Len(t, sales, 1)
	assert.Equal(t, "alice", sales[0].User)
	require.NotNil(t, sales[0].Ticket)
	assert.Equal(t, ticket.ID, sales[0].Ticket.ID)

	related, aerr := svc.SaleRelate(ctx, rc)
	require.Nil(t, aerr)
	require.Len(t, related, 1)
	assert.Equal(t, sales[0].ID, related[0].ID)
	require.NotNil(t, related[0].Ticket)
	assert.Equal(t, ticket.ID, related[0].Ticket.ID)
}

func TestCreateTicketRequiresIdentity(t *testing.T) {
	store := storetest.New()
	svc := newSvc(store)

	_, aerr := svc.CreateTicket(context.Background(), reqctx.NewWithIdentity(""), models.CreateTicketInput{Title: "concert"})
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindAuthFailNoCredential, aerr.Err.Kind)
	assert.Equal(t, 0, store.Calls, "no store call may be issued without identity")
}

func TestDeleteTicketRequiresIdentity(t *testing.T) {
	store := storetest.New()
	svc := newSvc(store)

	_, aerr := svc.DeleteTicket(context.Background(), reqctx.NewWithIdentity(""), "some-id")
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindAuthFailNoCredential, aerr.Err.Kind)
	assert.Equal(t, 0, store.Calls)
}

// Ticket-phase failure is terminal: nothing is created, no sale attempted.
func TestCreateTicketStoreFailure(t *testing.T) {
	store := storetest.New()
	store.FailCreateTicket = errors.New("conn refused")
	svc := newSvc(store)
	rc := alice()

	_, aerr := svc.CreateTicket(context.Background(), rc, models.CreateTicketInput{Title: "concert"})
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindStoreFail, aerr.Err.Kind)
	assert.Equal(t, apierror.PhaseTicketCreate, aerr.Err.Phase)
	assert.Equal(t, "conn refused", aerr.Err.Source)
	assert.Equal(t, rc.ReqID, aerr.ReqID)
	assert.Equal(t, 1, store.Calls, "sale creation must not be attempted")
}

func TestCreateTicketStoreNoResult(t *testing.T) {
	store := storetest.New()
	store.NilCreateTicket = true
	svc := newSvc(store)

	_, aerr := svc.CreateTicket(context.Background(), alice(), models.CreateTicketInput{Title: "concert"})
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindStoreNoResult, aerr.Err.Kind)
	assert.Equal(t, apierror.PhaseTicketCreate, aerr.Err.Phase)
}

// Sale-phase failure leaves an orphaned ticket; the error must say so.
func TestCreateTicketSalePhaseFailure(t *testing.T) {
	store := storetest.New()
	store.FailCreateSale = errors.New("conn reset")
	svc := newSvc(store)
	ctx := context.Background()
	rc := alice()

	_, aerr := svc.CreateTicket(ctx, rc, models.CreateTicketInput{Title: "concert"})
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindStoreFail, aerr.Err.Kind)
	assert.Equal(t, apierror.PhaseSaleCreate, aerr.Err.Phase)

	// The ticket committed in phase one is still there.
	tickets, lerr := svc.ListTickets(ctx, rc)
	require.Nil(t, lerr)
	require.Len(t, tickets, 1)
	assert.Equal(t, "concert", tickets[0].Title)

	sales, lerr := svc.ListSales(ctx, rc)
	require.Nil(t, lerr)
	assert.Empty(t, sales)
}

// Relate-phase failure leaves ticket and sale existing but unlinked.
func TestCreateTicketRelatePhaseFailure(t *testing.T) {
	store := storetest.New()
	store.FailRelate = errors.New("edge write refused")
	svc := newSvc(store)
	ctx := context.Background()
	rc := alice()

	_, aerr := svc.CreateTicket(ctx, rc, models.CreateTicketInput{Title: "concert"})
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindStoreFail, aerr.Err.Kind)
	assert.Equal(t, apierror.PhaseSaleRelate, aerr.Err.Phase)

	tickets, lerr := svc.ListTickets(ctx, rc)
	require.Nil(t, lerr)
	assert.Len(t, tickets, 1)

	sales, lerr := svc.ListSales(ctx, rc)
	require.Nil(t, lerr)
	assert.Len(t, sales, 1, "sale exists via its ticket field")

	related, lerr := svc.SaleRelate(ctx, rc)
	require.Nil(t, lerr)
	assert.Empty(t, related, "no edge was written")
}

func TestListTicketsIdempotent(t *testing.T) {
	store := storetest.New()
	svc := newSvc(store)
	ctx := context.Background()
	rc := alice()

	for _, title := range []string{"a", "b", "c"} {
		_, aerr := svc.CreateTicket(ctx, rc, models.CreateTicketInput{Title: title, Details: someDetails})
		require.Nil(t, aerr)
	}

	first, aerr := svc.ListTickets(ctx, rc)
	require.Nil(t, aerr)
	second, aerr := svc.ListTickets(ctx, rc)
	require.Nil(t, aerr)
	assert.Equal(t, first, second)
}

func TestListSalesMalformedPayload(t *testing.T) {
	store := storetest.New()
	store.FailListSales = fmt.Errorf("%w: sale without id", repository.ErrMalformedRecord)
	svc := newSvc(store)

	_, aerr := svc.ListSales(context.Background(), alice())
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindStoreNoResult, aerr.Err.Kind)
}

func TestListTicketsStoreFailure(t *testing.T) {
	store := storetest.New()
	store.FailListTickets = errors.New("conn refused")
	svc := newSvc(store)

	_, aerr := svc.ListTickets(context.Background(), alice())
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindStoreFail, aerr.Err.Kind)
}

func TestDeleteTicketNotFound(t *testing.T) {
	store := storetest.New()
	svc := newSvc(store)

	_, aerr := svc.DeleteTicket(context.Background(), alice(), "nonexistent-id")
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindEntityDeleteFailIdNotFound, aerr.Err.Kind)
	assert.Equal(t, "nonexistent-id", aerr.Err.ID)
}

// A store error on delete collapses to the same reported kind as a miss.
func TestDeleteTicketStoreErrorCollapses(t *testing.T) {
	store := storetest.New()
	store.FailDelete = errors.New("conn refused")
	svc := newSvc(store)

	_, aerr := svc.DeleteTicket(context.Background(), alice(), "some-id")
	require.NotNil(t, aerr)
	assert.Equal(t, apierror.KindEntityDeleteFailIdNotFound, aerr.Err.Kind)
	assert.Equal(t, "some-id", aerr.Err.ID)
}

// Delete is record-scoped: the sale linked to a deleted ticket stays.
func TestDeleteTicketDoesNotCascade(t *testing.T) {
	store := storetest.New()
	svc := newSvc(store)
	ctx := context.Background()
	rc := alice()

	ticket, aerr := svc.CreateTicket(ctx, rc, models.CreateTicketInput{Title: "concert", Details: someDetails})
	require.Nil(t, aerr)

	deleted, aerr := svc.DeleteTicket(ctx, rc, ticket.ID)
	require.Nil(t, aerr)
	assert.Equal(t, ticket.ID, deleted.ID)

	tickets, aerr := svc.ListTickets(ctx, rc)
	require.Nil(t, aerr)
	assert.Empty(t, tickets)

	sales, aerr := svc.ListSales(ctx, rc)
	require.Nil(t, aerr)
	require.Len(t, sales, 1, "sale must survive the ticket delete")
	assert.Nil(t, sales[0].Ticket, "its ticket reference now dangles")
}
