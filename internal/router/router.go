package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"ticketgraph/internal/config"
	"ticketgraph/internal/gql"
	"ticketgraph/internal/handlers"
	"ticketgraph/internal/middleware"
	"ticketgraph/internal/repository"
	"ticketgraph/internal/service"
)

// New wires both transports over one service instance. AttachContext runs
// first so every later middleware and handler sees the correlation id.
func New(log zerolog.Logger, store repository.Store, cfg config.Config) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.AttachContext(cfg))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))

	// Health
	r.Get("/healthz", handlers.Health())

	svc := service.NewTicketService(store, log)

	// REST
	th := handlers.NewTicketHTTP(svc, log)
	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", th.List())
		r.Post("/", th.Create())
		r.Delete("/{id}", th.Delete())
	})

	// GraphQL
	schema, err := gql.NewSchema(svc, log)
	if err != nil {
		return nil, err
	}
	r.Post("/graphql", gql.Handler(schema, log))

	return r, nil
}
