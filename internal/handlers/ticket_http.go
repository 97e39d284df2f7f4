package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ticketgraph/internal/apierror"
	"ticketgraph/internal/models"
	"ticketgraph/internal/reqctx"
	"ticketgraph/internal/service"
	"ticketgraph/internal/utils"
)

// TicketHTTP wires the REST endpoints to the domain operations.
type TicketHTTP struct {
	svc *service.TicketService
	log zerolog.Logger
}

func NewTicketHTTP(svc *service.TicketService, log zerolog.Logger) *TicketHTTP {
	return &TicketHTTP{svc: svc, log: log}
}

// ctx pulls the request context attached by the middleware. A miss means the
// handler ran outside the chain; the response still needs a req_id, so one
// is minted just for the error.
func (h *TicketHTTP) ctx(w http.ResponseWriter, r *http.Request) (*reqctx.Ctx, bool) {
	rc, ok := reqctx.FromContext(r.Context())
	if !ok {
		apierror.Write(w, h.log, apierror.Wrap(uuid.New(), apierror.ContextMissing()))
		return nil, false
	}
	return rc, true
}

// GET /tickets
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, ok := h.ctx(w, r)
		if !ok {
			return
		}
		tickets, aerr := h.svc.ListTickets(r.Context(), rc)
		if aerr != nil {
			apierror.Write(w, h.log, aerr)
			return
		}
		utils.JSON(w, http.StatusOK, tickets)
	}
}

// POST /tickets
func (h *TicketHTTP) Create() http.HandlerFunc {
	type ctInput struct {
		Title string `json:"title"`
	}
	type body struct {
		CtInput   ctInput         `json:"ct_input"`
		TestInput []models.Detail `json:"test_input"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		rc, ok := h.ctx(w, r)
		if !ok {
			return
		}
		var in body
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			apierror.Write(w, h.log, rc.Fail(apierror.Serialization(err)))
			return
		}
		ticket, aerr := h.svc.CreateTicket(r.Context(), rc, models.CreateTicketInput{
			Title:   in.CtInput.Title,
			Details: in.TestInput,
		})
		if aerr != nil {
			apierror.Write(w, h.log, aerr)
			return
		}
		utils.JSON(w, http.StatusOK, ticket)
	}
}

// DELETE /tickets/{id}
func (h *TicketHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, ok := h.ctx(w, r)
		if !ok {
			return
		}
		ticket, aerr := h.svc.DeleteTicket(r.Context(), rc, chi.URLParam(r, "id"))
		if aerr != nil {
			apierror.Write(w, h.log, aerr)
			return
		}
		utils.JSON(w, http.StatusOK, ticket)
	}
}
