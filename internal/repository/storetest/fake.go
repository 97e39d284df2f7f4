// Package storetest provides an in-memory repository.Store with failure
// injection and a call counter, for exercising the workflow and transports
// without a running store.
package storetest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ticketgraph/internal/models"
	"ticketgraph/internal/repository"
)

type saleRec struct {
	id       string
	ticketID string
	user     string
}

type Fake struct {
	mu      sync.Mutex
	tickets []models.Ticket
	sales   []saleRec
	edges   [][2]string // ticket id, sale id

	// Calls counts every store call, successful or not.
	Calls int

	FailCreateTicket error
	NilCreateTicket  bool
	FailCreateSale   error
	NilCreateSale    bool
	FailRelate       error
	FailListTickets  error
	FailListSales    error
	FailDelete       error
}

var _ repository.Store = (*Fake)(nil)

func New() *Fake { return &Fake{} }

func (f *Fake) CreateTicket(_ context.Context, creator, title string, details []models.Detail) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.FailCreateTicket != nil {
		return nil, f.FailCreateTicket
	}
	if f.NilCreateTicket {
		return nil, nil
	}
	t := models.Ticket{ID: uuid.NewString(), Creator: creator, Title: title, Details: details}
	f.tickets = append(f.tickets, t)
	return &t, nil
}

func (f *Fake) ListTickets(context.Context) ([]models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.FailListTickets != nil {
		return nil, f.FailListTickets
	}
	out := make([]models.Ticket, len(f.tickets))
	copy(out, f.tickets)
	return out, nil
}

func (f *Fake) DeleteTicket(_ context.Context, id string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.FailDelete != nil {
		return nil, f.FailDelete
	}
	for i, t := range f.tickets {
		if t.ID == id {
			f.tickets = append(f.tickets[:i], f.tickets[i+1:]...)
			// Edges die with their endpoint; sales stay.
			kept := f.edges[:0]
			for _, e := range f.edges {
				if e[0] != id {
					kept = append(kept, e)
				}
			}
			f.edges = kept
			return &t, nil
		}
	}
	return nil, nil
}

func (f *Fake) CreateSale(_ context.Context, ticketID, user string) (*models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.FailCreateSale != nil {
		return nil, f.FailCreateSale
	}
	if f.NilCreateSale {
		return nil, nil
	}
	rec := saleRec{id: uuid.NewString(), ticketID: ticketID, user: user}
	f.sales = append(f.sales, rec)
	return &models.Sale{ID: rec.id, User: rec.user}, nil
}

func (f *Fake) ListSales(context.Context) ([]models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.FailListSales != nil {
		return nil, f.FailListSales
	}
	out := make([]models.Sale, 0, len(f.sales))
	for _, rec := range f.sales {
		out = append(out, f.expand(rec))
	}
	return out, nil
}

func (f *Fake) RelateSale(_ context.Context, ticketID, saleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.FailRelate != nil {
		return f.FailRelate
	}
	f.edges = append(f.edges, [2]string{ticketID, saleID})
	return nil
}

func (f *Fake) SalesByRelation(context.Context) ([]models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	out := make([]models.Sale, 0, len(f.edges))
	for _, e := range f.edges {
		for _, rec := range f.sales {
			if rec.id == e[1] {
				out = append(out, f.expand(rec))
			}
		}
	}
	return out, nil
}

// expand resolves the sale's ticket reference like the real store's
// fetch-joined read does.
func (f *Fake) expand(rec saleRec) models.Sale {
	s := models.Sale{ID: rec.id, User: rec.user}
	for i := range f.tickets {
		if f.tickets[i].ID == rec.ticketID {
			t := f.tickets[i]
			s.Ticket = &t
			break
		}
	}
	return s
}
