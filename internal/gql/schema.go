// Package gql exposes the domain operations as a GraphQL schema logically
// equivalent to the REST surface. Both transports share the typed error
// taxonomy; here the correlation id and a serialized copy of the typed error
// travel in the error extensions.
package gql

import (
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"

	"ticketgraph/internal/apierror"
	"ticketgraph/internal/models"
	"ticketgraph/internal/reqctx"
	"ticketgraph/internal/service"
)

var detailType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Detail",
	Fields: graphql.Fields{
		"c": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(models.Detail).C, nil
			},
		},
		"d": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(models.Detail).D, nil
			},
		},
	},
})

var ticketType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Ticket",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return sourceTicket(p).ID, nil
			},
		},
		"creator": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return sourceTicket(p).Creator, nil
			},
		},
		"title": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return sourceTicket(p).Title, nil
			},
		},
		"details": &graphql.Field{
			Type: graphql.NewList(graphql.NewNonNull(detailType)),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return sourceTicket(p).Details, nil
			},
		},
	},
})

var saleType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Sale",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(models.Sale).ID, nil
			},
		},
		"user": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(models.Sale).User, nil
			},
		},
		"ticket": &graphql.Field{
			Type: ticketType,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				t := p.Source.(models.Sale).Ticket
				if t == nil {
					return nil, nil
				}
				return *t, nil
			},
		},
	},
})

func sourceTicket(p graphql.ResolveParams) models.Ticket {
	switch t := p.Source.(type) {
	case models.Ticket:
		return t
	case *models.Ticket:
		return *t
	default:
		return models.Ticket{}
	}
}

var createTicketInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateTicketInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"title": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var detailInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "DetailInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"c": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		"d": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
	},
})

// NewSchema builds the schema over the shared service. Queries and mutations
// are grouped under a "tickets" field, mirroring the REST prefix.
func NewSchema(svc *service.TicketService, log zerolog.Logger) (graphql.Schema, error) {
	fail := func(aerr *apierror.APIError) (any, error) {
		apierror.Log(log, aerr)
		return nil, aerr
	}

	rcFrom := func(p graphql.ResolveParams) (*reqctx.Ctx, *apierror.APIError) {
		rc, ok := reqctx.FromContext(p.Context)
		if !ok {
			return nil, apierror.Wrap(uuid.New(), apierror.ContextMissing())
		}
		return rc, nil
	}

	ticketsQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "TicketsQuery",
		Fields: graphql.Fields{
			"list": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(ticketType)),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					rc, aerr := rcFrom(p)
					if aerr != nil {
						return fail(aerr)
					}
					tickets, aerr := svc.ListTickets(p.Context, rc)
					if aerr != nil {
						return fail(aerr)
					}
					return tickets, nil
				},
			},
			"list_sale": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(saleType)),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					rc, aerr := rcFrom(p)
					if aerr != nil {
						return fail(aerr)
					}
					sales, aerr := svc.ListSales(p.Context, rc)
					if aerr != nil {
						return fail(aerr)
					}
					return sales, nil
				},
			},
			"sale_relate": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(saleType)),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					rc, aerr := rcFrom(p)
					if aerr != nil {
						return fail(aerr)
					}
					sales, aerr := svc.SaleRelate(p.Context, rc)
					if aerr != nil {
						return fail(aerr)
					}
					return sales, nil
				},
			},
		},
	})

	ticketsMutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "TicketsMutation",
		Fields: graphql.Fields{
			"create_ticket": &graphql.Field{
				Type: graphql.NewNonNull(ticketType),
				Args: graphql.FieldConfigArgument{
					"ct_input":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(createTicketInputType)},
					"test_input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(detailInputType)))},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					rc, aerr := rcFrom(p)
					if aerr != nil {
						return fail(aerr)
					}
					ticket, aerr := svc.CreateTicket(p.Context, rc, createInputFromArgs(p.Args))
					if aerr != nil {
						return fail(aerr)
					}
					return *ticket, nil
				},
			},
			"delete_ticket": &graphql.Field{
				Type: graphql.NewNonNull(ticketType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					rc, aerr := rcFrom(p)
					if aerr != nil {
						return fail(aerr)
					}
					id, _ := p.Args["id"].(string)
					ticket, aerr := svc.DeleteTicket(p.Context, rc, id)
					if aerr != nil {
						return fail(aerr)
					}
					return *ticket, nil
				},
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			// API version - visible in the schema docs.
			"version": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "1.0", nil
				},
			},
			"tickets": &graphql.Field{
				Type: graphql.NewNonNull(ticketsQuery),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return struct{}{}, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"tickets": &graphql.Field{
				Type: graphql.NewNonNull(ticketsMutation),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return struct{}{}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func createInputFromArgs(args map[string]any) models.CreateTicketInput {
	var in models.CreateTicketInput
	if ct, ok := args["ct_input"].(map[string]any); ok {
		in.Title, _ = ct["title"].(string)
	}
	if list, ok := args["test_input"].([]any); ok {
		in.Details = make([]models.Detail, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			in.Details = append(in.Details, models.Detail{C: toInt(m["c"]), D: toInt(m["d"])})
		}
	}
	return in
}

// toInt tolerates both coerced ints and raw JSON numbers.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
