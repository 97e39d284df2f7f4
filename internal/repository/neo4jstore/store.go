package neo4jstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"ticketgraph/internal/models"
	"ticketgraph/internal/repository"
)

// Store keeps Ticket and Sale records as nodes and the sale relation as a
// SALE_RELATE edge. Ticket details are persisted as a details_json string
// property because node properties cannot hold nested maps.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

func New(driver neo4j.DriverWithContext, database string) *Store {
	return &Store{driver: driver, database: database}
}

func (s *Store) session(ctx context.Context) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
}

func (s *Store) CreateTicket(ctx context.Context, creator, title string, details []models.Detail) (*models.Ticket, error) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	sess := s.session(ctx)
	defer sess.Close(ctx)

	return neo4j.ExecuteWrite(ctx, sess, func(tx neo4j.ManagedTransaction) (*models.Ticket, error) {
		res, err := tx.Run(ctx, `
			CREATE (t:Ticket {id: $id, creator: $creator, title: $title, details_json: $details_json})
			RETURN t {.*} AS t
		`, map[string]any{
			"id":           uuid.NewString(),
			"creator":      creator,
			"title":        title,
			"details_json": string(detailsJSON),
		})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return ticketFromRecord(rec, "t")
	})
}

func (s *Store) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	return neo4j.ExecuteRead(ctx, sess, func(tx neo4j.ManagedTransaction) ([]models.Ticket, error) {
		res, err := tx.Run(ctx, `MATCH (t:Ticket) RETURN t {.*} AS t`, nil)
		if err != nil {
			return nil, err
		}
		recs, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]models.Ticket, 0, len(recs))
		for _, rec := range recs {
			t, err := ticketFromRecord(rec, "t")
			if err != nil {
				return nil, err
			}
			out = append(out, *t)
		}
		return out, nil
	})
}

// DeleteTicket removes the ticket node only. Any related Sale record stays
// behind; the SALE_RELATE edge cannot outlive its endpoint and is detached
// with the node. Returns (nil, nil) when no ticket matched.
func (s *Store) DeleteTicket(ctx context.Context, id string) (*models.Ticket, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	return neo4j.ExecuteWrite(ctx, sess, func(tx neo4j.ManagedTransaction) (*models.Ticket, error) {
		res, err := tx.Run(ctx, `
			MATCH (t:Ticket {id: $id})
			WITH t, t {.*} AS props
			DETACH DELETE t
			RETURN props AS t
		`, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		recs, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			return nil, nil
		}
		return ticketFromRecord(recs[0], "t")
	})
}

func (s *Store) CreateSale(ctx context.Context, ticketID, user string) (*models.Sale, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	return neo4j.ExecuteWrite(ctx, sess, func(tx neo4j.ManagedTransaction) (*models.Sale, error) {
		res, err := tx.Run(ctx, `
			CREATE (s:Sale {id: $id, ticket: $ticket, user: $user})
			RETURN s {.*} AS s
		`, map[string]any{
			"id":     uuid.NewString(),
			"ticket": ticketID,
			"user":   user,
		})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return saleFromRecord(rec, "s", nil)
	})
}

// ListSales returns every sale with its ticket expanded in one fetch-joined
// query via the sale's ticket field.
func (s *Store) ListSales(ctx context.Context) ([]models.Sale, error) {
	return s.querySales(ctx, `
		MATCH (s:Sale)
		OPTIONAL MATCH (t:Ticket {id: s.ticket})
		RETURN s {.*} AS s, t {.*} AS t
	`)
}

// SalesByRelation reads sales through the SALE_RELATE edge alone; the
// sale's ticket field plays no part in the match.
func (s *Store) SalesByRelation(ctx context.Context) ([]models.Sale, error) {
	return s.querySales(ctx, `
		MATCH (t:Ticket)-[:SALE_RELATE]->(s:Sale)
		RETURN s {.*} AS s, t {.*} AS t
	`)
}

func (s *Store) RelateSale(ctx context.Context, ticketID, saleID string) error {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, sess, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (t:Ticket {id: $tid})
			MATCH (s:Sale {id: $sid})
			CREATE (t)-[:SALE_RELATE]->(s)
			RETURN t.id
		`, map[string]any{"tid": ticketID, "sid": saleID})
		if err != nil {
			return nil, err
		}
		// Zero rows means an endpoint vanished between steps.
		if _, err := res.Single(ctx); err != nil {
			return nil, fmt.Errorf("relate %s -> %s: %w", ticketID, saleID, err)
		}
		return nil, nil
	})
	return err
}

func (s *Store) querySales(ctx context.Context, cypher string) ([]models.Sale, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	return neo4j.ExecuteRead(ctx, sess, func(tx neo4j.ManagedTransaction) ([]models.Sale, error) {
		res, err := tx.Run(ctx, cypher, nil)
		if err != nil {
			return nil, err
		}
		recs, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]models.Sale, 0, len(recs))
		for _, rec := range recs {
			var ticket *models.Ticket
			if props, ok := recordProps(rec, "t"); ok {
				ticket, err = ticketFromProps(props)
				if err != nil {
					return nil, err
				}
			}
			sale, err := saleFromRecord(rec, "s", ticket)
			if err != nil {
				return nil, err
			}
			out = append(out, *sale)
		}
		return out, nil
	})
}

func recordProps(rec *neo4j.Record, key string) (map[string]any, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil, false
	}
	props, ok := v.(map[string]any)
	return props, ok
}

func ticketFromRecord(rec *neo4j.Record, key string) (*models.Ticket, error) {
	props, ok := recordProps(rec, key)
	if !ok {
		return nil, fmt.Errorf("%w: no ticket payload", repository.ErrMalformedRecord)
	}
	return ticketFromProps(props)
}

func ticketFromProps(props map[string]any) (*models.Ticket, error) {
	id, _ := props["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: ticket without id", repository.ErrMalformedRecord)
	}
	t := models.Ticket{ID: id}
	t.Creator, _ = props["creator"].(string)
	t.Title, _ = props["title"].(string)
	if raw, _ := props["details_json"].(string); raw != "" {
		if err := json.Unmarshal([]byte(raw), &t.Details); err != nil {
			return nil, fmt.Errorf("%w: ticket %s details: %v", repository.ErrMalformedRecord, id, err)
		}
	}
	return &t, nil
}

func saleFromRecord(rec *neo4j.Record, key string, ticket *models.Ticket) (*models.Sale, error) {
	props, ok := recordProps(rec, key)
	if !ok {
		return nil, fmt.Errorf("%w: no sale payload", repository.ErrMalformedRecord)
	}
	id, _ := props["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: sale without id", repository.ErrMalformedRecord)
	}
	user, _ := props["user"].(string)
	return &models.Sale{ID: id, Ticket: ticket, User: user}, nil
}
