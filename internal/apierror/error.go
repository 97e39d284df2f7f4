package apierror

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind is the closed set of failure categories the API can report. Clients
// only ever see the rendered message and req_id; the full typed error goes to
// the server log.
type Kind string

const (
	KindGeneric                    Kind = "Generic"
	KindLoginFail                  Kind = "LoginFail"
	KindEntityDeleteFailIdNotFound Kind = "EntityDeleteFailIdNotFound"
	KindAuthFailNoCredential       Kind = "AuthFailNoCredential"
	KindAuthFailCredentialInvalid  Kind = "AuthFailCredentialInvalid"
	KindAuthFailContextMissing     Kind = "AuthFailContextMissing"
	KindSerializationFail          Kind = "SerializationFail"
	KindStoreFail                  Kind = "StoreFail"
	KindStoreNoResult              Kind = "StoreNoResult"
	KindStoreParseFail             Kind = "StoreParseFail"
)

// Phase tags store errors with the creation-workflow step they occurred in.
// The store provides no cross-record transaction, so "sale_create" failing
// means an orphaned ticket already exists; operators need to tell the phases
// apart. Empty outside the workflow.
type Phase string

const (
	PhaseTicketCreate Phase = "ticket_create"
	PhaseSaleCreate   Phase = "sale_create"
	PhaseSaleRelate   Phase = "sale_relate"
)

// Error is one typed failure. Only the fields relevant to its Kind are set.
type Error struct {
	Kind        Kind   `json:"kind"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	ID          string `json:"id,omitempty"`
	Phase       Phase  `json:"phase,omitempty"`
}

const internalMsg = "Internal error"

// Error returns the client-visible message. Store and internal failures
// render as a generic string; Source never reaches the client.
func (e *Error) Error() string {
	switch e.Kind {
	case KindGeneric:
		return e.Description
	case KindLoginFail:
		return "Login fail"
	case KindEntityDeleteFailIdNotFound:
		return fmt.Sprintf("Ticket id %s not found", e.ID)
	case KindAuthFailNoCredential:
		return "You are not logged in"
	case KindAuthFailCredentialInvalid:
		return "The provided JWT token is not valid"
	case KindSerializationFail:
		return "Serialization error - " + e.Source
	case KindStoreNoResult:
		return fmt.Sprintf("No result for id %s", e.ID)
	case KindStoreParseFail:
		return fmt.Sprintf("Couldn't parse id %s", e.ID)
	default: // AuthFailContextMissing, StoreFail
		return internalMsg
	}
}

func Generic(description string) *Error {
	return &Error{Kind: KindGeneric, Description: description}
}

func DeleteNotFound(id string) *Error {
	return &Error{Kind: KindEntityDeleteFailIdNotFound, ID: id}
}

func NoCredential() *Error {
	return &Error{Kind: KindAuthFailNoCredential}
}

func CredentialInvalid(err error) *Error {
	return &Error{Kind: KindAuthFailCredentialInvalid, Source: err.Error()}
}

func ContextMissing() *Error {
	return &Error{Kind: KindAuthFailContextMissing}
}

func Serialization(err error) *Error {
	return &Error{Kind: KindSerializationFail, Source: err.Error()}
}

func Store(err error) *Error {
	return &Error{Kind: KindStoreFail, Source: err.Error()}
}

func StoreNoResult(source, id string) *Error {
	return &Error{Kind: KindStoreNoResult, Source: source, ID: id}
}

// In tags a store error with the workflow phase it happened in.
func (e *Error) In(p Phase) *Error {
	e.Phase = p
	return e
}

func StoreParse(source, id string) *Error {
	return &Error{Kind: KindStoreParseFail, Source: source, ID: id}
}

// APIError pairs a typed error with the correlation id of the request it
// happened in. This is the only error shape that crosses a transport
// boundary; both renderers consume it.
type APIError struct {
	ReqID uuid.UUID
	Err   *Error
}

func Wrap(reqID uuid.UUID, err *Error) *APIError {
	return &APIError{ReqID: reqID, Err: err}
}

func (e *APIError) Error() string { return e.Err.Error() }

// Extensions implements graphql-go's gqlerrors.ExtendedError: both transports
// must agree on message and req_id, and the GraphQL side additionally ships a
// serialized copy of the typed error for log correlation.
func (e *APIError) Extensions() map[string]interface{} {
	ser, _ := json.Marshal(e.Err)
	return map[string]interface{}{
		"req_id":    e.ReqID.String(),
		"error_ser": string(ser),
	}
}
