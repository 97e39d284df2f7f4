package gql

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"

	"ticketgraph/internal/apierror"
	"ticketgraph/internal/reqctx"
	"ticketgraph/internal/utils"
)

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler serves POST /graphql. The request context rides on p.Context into
// the resolvers; resolver errors come back as formatted errors whose
// extensions carry req_id and error_ser.
func Handler(schema graphql.Schema, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, ok := reqctx.FromContext(r.Context())
		if !ok {
			apierror.Write(w, log, apierror.Wrap(uuid.New(), apierror.ContextMissing()))
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			aerr := rc.Fail(apierror.Serialization(err))
			apierror.Log(log, aerr)
			utils.JSON(w, http.StatusOK, map[string]any{
				"errors": []map[string]any{{
					"message":    aerr.Error(),
					"extensions": aerr.Extensions(),
				}},
			})
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})
		utils.JSON(w, http.StatusOK, result)
	}
}
