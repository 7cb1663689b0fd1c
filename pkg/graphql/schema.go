// Package graphql serves a graphql-go schema over HTTP.
package graphql

import (
	"github.com/graphql-go/graphql"
)

// NewSchema builds a schema from the root query and, when non-nil, the
// root mutation.
func NewSchema(query, mutation *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
