package apierror

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// statusByKind is the single source of truth for the REST status mapping.
// The 400 set is exactly the client-correctable kinds; everything else is
// reported as 403, auth failures and internal store errors alike.
var statusByKind = map[Kind]int{
	KindGeneric:                    http.StatusForbidden,
	KindLoginFail:                  http.StatusForbidden,
	KindEntityDeleteFailIdNotFound: http.StatusBadRequest,
	KindAuthFailNoCredential:       http.StatusForbidden,
	KindAuthFailCredentialInvalid:  http.StatusForbidden,
	KindAuthFailContextMissing:     http.StatusForbidden,
	KindSerializationFail:          http.StatusBadRequest,
	KindStoreFail:                  http.StatusForbidden,
	KindStoreNoResult:              http.StatusBadRequest,
	KindStoreParseFail:             http.StatusBadRequest,
}

// Status returns the REST status code for a kind, defaulting to 403 for
// anything outside the table.
func Status(k Kind) int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusForbidden
}

// Log records the full typed error keyed by req_id. Called by both renderers
// before anything is written to the client.
func Log(log zerolog.Logger, e *APIError) {
	log.Error().
		Str("req_id", e.ReqID.String()).
		Str("kind", string(e.Err.Kind)).
		Str("phase", string(e.Err.Phase)).
		Str("source", e.Err.Source).
		Str("id", e.Err.ID).
		Msg("request error")
}

// Write renders the REST error response:
// {"error": {"error": <message>, "req_id": <uuid>}}.
func Write(w http.ResponseWriter, log zerolog.Logger, e *APIError) {
	Log(log, e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(e.Err.Kind))
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"error":  e.Err.Error(),
			"req_id": e.ReqID.String(),
		},
	})
}
