package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"ticketgraph/internal/apierror"
	"ticketgraph/internal/models"
	"ticketgraph/internal/repository"
	"ticketgraph/internal/reqctx"
)

// TicketService holds the domain operations shared by both transports.
// Every method takes the request context explicitly; nothing here reaches
// back into ambient request state.
type TicketService struct {
	store repository.Store
	log   zerolog.Logger
}

func NewTicketService(store repository.Store, log zerolog.Logger) *TicketService {
	return &TicketService{store: store, log: log}
}

// CreateTicket runs the three-step creation saga: ticket record, dependent
// sale record, SALE_RELATE edge. The store offers single-record atomicity
// only, so any failure after the first step leaves durable partial state.
// No rollback is attempted; each step reports its own phase so "nothing
// created", "orphaned ticket" and "unlinked sale" stay distinguishable.
// Reconciliation of partial state is an external, out-of-band concern.
func (s *TicketService) CreateTicket(ctx context.Context, rc *reqctx.Ctx, in models.CreateTicketInput) (*models.Ticket, *apierror.APIError) {
	creator, aerr := rc.UserID()
	if aerr != nil {
		// Fail before touching the store.
		return nil, rc.Fail(aerr)
	}

	ticket, err := s.store.CreateTicket(ctx, creator, in.Title, in.Details)
	if err != nil {
		return nil, rc.Fail(apierror.Store(err).In(apierror.PhaseTicketCreate))
	}
	if ticket == nil || ticket.ID == "" {
		return nil, rc.Fail(apierror.StoreNoResult("none", "").In(apierror.PhaseTicketCreate))
	}

	sale, err := s.store.CreateSale(ctx, ticket.ID, creator)
	if err != nil {
		s.log.Warn().
			Str("req_id", rc.ReqID.String()).
			Str("ticket_id", ticket.ID).
			Msg("sale creation failed, ticket left without sale")
		return nil, rc.Fail(apierror.Store(err).In(apierror.PhaseSaleCreate))
	}
	if sale == nil || sale.ID == "" {
		s.log.Warn().
			Str("req_id", rc.ReqID.String()).
			Str("ticket_id", ticket.ID).
			Msg("sale creation returned no record, ticket left without sale")
		return nil, rc.Fail(apierror.StoreNoResult("none", ticket.ID).In(apierror.PhaseSaleCreate))
	}

	if err := s.store.RelateSale(ctx, ticket.ID, sale.ID); err != nil {
		s.log.Warn().
			Str("req_id", rc.ReqID.String()).
			Str("ticket_id", ticket.ID).
			Str("sale_id", sale.ID).
			Msg("relate failed, ticket and sale exist but are unlinked")
		return nil, rc.Fail(apierror.Store(err).In(apierror.PhaseSaleRelate))
	}

	return ticket, nil
}

func (s *TicketService) ListTickets(ctx context.Context, rc *reqctx.Ctx) ([]models.Ticket, *apierror.APIError) {
	tickets, err := s.store.ListTickets(ctx)
	if err != nil {
		return nil, s.readFail(rc, err)
	}
	return tickets, nil
}

// ListSales returns all sales with their ticket expanded inline.
func (s *TicketService) ListSales(ctx context.Context, rc *reqctx.Ctx) ([]models.Sale, *apierror.APIError) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, s.readFail(rc, err)
	}
	return sales, nil
}

// SaleRelate returns the sales reachable through the SALE_RELATE edge,
// independent of the sale.ticket field.
func (s *TicketService) SaleRelate(ctx context.Context, rc *reqctx.Ctx) ([]models.Sale, *apierror.APIError) {
	sales, err := s.store.SalesByRelation(ctx)
	if err != nil {
		return nil, s.readFail(rc, err)
	}
	return sales, nil
}

// DeleteTicket removes the ticket record only; a sale previously linked to
// it stays behind. Any miss, whether the record never existed or the store
// errored, collapses to EntityDeleteFailIdNotFound with the id preserved.
func (s *TicketService) DeleteTicket(ctx context.Context, rc *reqctx.Ctx, id string) (*models.Ticket, *apierror.APIError) {
	if _, aerr := rc.UserID(); aerr != nil {
		return nil, rc.Fail(aerr)
	}

	t, err := s.store.DeleteTicket(ctx, id)
	if err != nil {
		s.log.Debug().
			Str("req_id", rc.ReqID.String()).
			Str("ticket_id", id).
			Err(err).
			Msg("delete failed at store")
		return nil, rc.Fail(apierror.DeleteNotFound(id))
	}
	if t == nil {
		return nil, rc.Fail(apierror.DeleteNotFound(id))
	}
	return t, nil
}

// readFail maps a store read error: an undecodable payload is reported as
// StoreNoResult rather than swallowed into an empty result; anything else is
// a plain store failure.
func (s *TicketService) readFail(rc *reqctx.Ctx, err error) *apierror.APIError {
	if errors.Is(err, repository.ErrMalformedRecord) {
		return rc.Fail(apierror.StoreNoResult(err.Error(), ""))
	}
	return rc.Fail(apierror.Store(err))
}
