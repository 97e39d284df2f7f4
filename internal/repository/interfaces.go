package repository

import (
	"context"
	"errors"

	"ticketgraph/internal/models"
)

// ErrMalformedRecord marks a store payload the decoder could not interpret.
// Callers must surface it instead of substituting an empty value.
var ErrMalformedRecord = errors.New("malformed store record")

// Store is the narrow surface of the remote graph store. Records get their
// ids assigned at create time; DeleteTicket reports "no such record" as
// (nil, nil). The store offers single-record atomicity and a separate edge
// primitive only; there is no cross-record transaction.
type Store interface {
	CreateTicket(ctx context.Context, creator, title string, details []models.Detail) (*models.Ticket, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	DeleteTicket(ctx context.Context, id string) (*models.Ticket, error)

	CreateSale(ctx context.Context, ticketID, user string) (*models.Sale, error)
	ListSales(ctx context.Context) ([]models.Sale, error)

	// RelateSale creates the directed SALE_RELATE edge from a ticket to a
	// sale; SalesByRelation reads sales back through that edge alone,
	// ignoring the sale's ticket field.
	RelateSale(ctx context.Context, ticketID, saleID string) error
	SalesByRelation(ctx context.Context) ([]models.Sale, error)
}
