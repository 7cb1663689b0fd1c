package graphql

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/shashiranjanraj/kashvi-crm/pkg/bind"
	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
	"github.com/shashiranjanraj/kashvi-crm/pkg/metrics"
	"github.com/shashiranjanraj/kashvi-crm/pkg/response"
)

// Request is a GraphQL-over-HTTP request.
type Request struct {
	Query         string                 `json:"query"         validate:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes requests against schema. POST takes a JSON body; GET
// takes query, operationName and variables as URL parameters and may only
// run queries.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, status, err := decode(w, r)
		if err != nil {
			writeError(w, status, err.Error())
			return
		}

		opType := operationType(req.Query, req.OperationName)
		if r.Method == http.MethodGet && opType == ast.OperationTypeMutation {
			writeError(w, http.StatusMethodNotAllowed, "mutations must use POST")
			return
		}

		start := time.Now()
		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})
		metrics.ObserveGraphQL(opType, result.HasErrors(), start)

		if result.HasErrors() {
			logger.WithCtx(r.Context()).Debug("graphql: operation returned errors",
				"operation", req.OperationName, "type", opType, "errors", len(result.Errors))
		}
		response.JSON(w, http.StatusOK, result)
	}
}

func decode(w http.ResponseWriter, r *http.Request) (Request, int, error) {
	var req Request

	switch r.Method {
	case http.MethodPost:
		errs, err := bind.JSON(w, r, &req)
		if errors.Is(err, bind.ErrTooLarge) {
			return req, http.StatusRequestEntityTooLarge, err
		}
		if err != nil {
			return req, http.StatusBadRequest, err
		}
		if msg, ok := errs["query"]; ok {
			return req, http.StatusBadRequest, errors.New(msg)
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if req.Query == "" {
			return req, http.StatusBadRequest, errors.New("The query field is required.")
		}
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return req, http.StatusBadRequest, errors.New("variables must be a JSON object")
			}
		}
	default:
		return req, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}
	return req, http.StatusOK, nil
}

// operationType returns "query", "mutation" or "subscription" for the
// operation that will run, or "unknown" if the document does not parse.
func operationType(query, operationName string) string {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return "unknown"
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName == "" || (op.Name != nil && op.Name.Value == operationName) {
			return op.Operation
		}
	}
	return "unknown"
}

func writeError(w http.ResponseWriter, status int, msg string) {
	response.JSON(w, status, &graphql.Result{
		Errors: []gqlerrors.FormattedError{gqlerrors.NewFormattedError(msg)},
	})
}
