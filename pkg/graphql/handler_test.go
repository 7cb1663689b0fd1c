package graphql_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gql "github.com/shashiranjanraj/kashvi-crm/pkg/graphql"
	"github.com/shashiranjanraj/kashvi-crm/pkg/metrics"
	"github.com/shashiranjanraj/kashvi-crm/pkg/testkit"
)

func echoSchema(t *testing.T) graphql.Schema {
	t.Helper()
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"ping": &graphql.Field{
				Type:    graphql.String,
				Resolve: func(graphql.ResolveParams) (interface{}, error) { return "pong", nil },
			},
		},
	})
	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"echo": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{"msg": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Args["msg"], nil
				},
			},
		},
	})
	schema, err := gql.NewSchema(query, mutation)
	require.NoError(t, err)
	return schema
}

func TestPostQuery(t *testing.T) {
	h := gql.Handler(echoSchema(t))
	before := testutil.ToFloat64(metrics.GraphQLOperations.WithLabelValues("query", "ok"))

	res := testkit.GraphQL(t, h, "/graphql", `{ ping }`, nil)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Empty(t, res.Errors)
	testkit.AssertJSONEqual(t, []byte(`{"ping":"pong"}`), res.Data)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.GraphQLOperations.WithLabelValues("query", "ok")))
}

func TestPostMutationWithVariables(t *testing.T) {
	h := gql.Handler(echoSchema(t))

	res := testkit.GraphQL(t, h, "/graphql",
		`mutation Say($m: String!) { echo(msg: $m) }`,
		map[string]interface{}{"m": "hi"})
	assert.Empty(t, res.Errors)
	testkit.AssertJSONEqual(t, []byte(`{"echo":"hi"}`), res.Data)
}

func TestGetQueryAndRejectGetMutation(t *testing.T) {
	h := gql.Handler(echoSchema(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape("{ ping }"), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pong"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(`mutation { echo(msg: "x") }`), nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "mutations must use POST")
}

func TestBadRequests(t *testing.T) {
	h := gql.Handler(echoSchema(t))

	cases := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"query":`, "invalid JSON"},
		{"missing query", `{"variables":{}}`, "The query field is required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestExecutionErrorsStay200(t *testing.T) {
	h := gql.Handler(echoSchema(t))

	res := testkit.GraphQL(t, h, "/graphql", `{ nope }`, nil)
	assert.Equal(t, http.StatusOK, res.Status)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Message, "nope")
}
