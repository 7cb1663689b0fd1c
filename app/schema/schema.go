// Package schema binds the CRM service to a GraphQL schema.
//
//	query {
//	  hello
//	  allCustomers { id name email phone }
//	  products { id name price stock }
//	  orders { id customer { name } products { name } orderDate totalAmount }
//	}
package schema

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/kashvi-crm/app/services"
	gql "github.com/shashiranjanraj/kashvi-crm/pkg/graphql"
	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
)

// Greeting is what the hello query answers.
const Greeting = "Hello, GraphQl"

var errInternal = errors.New("Internal server error")

// New builds the root schema around svc.
func New(svc *services.CRMService) (graphql.Schema, error) {
	return gql.NewSchema(queryType(svc), mutationType(svc))
}

// clientError passes validation messages through and hides everything
// else behind a generic message.
func clientError(p graphql.ResolveParams, err error) error {
	if err == nil || services.IsValidation(err) {
		return err
	}
	logger.WithCtx(p.Context).Error("graphql: resolver failed", "field", p.Info.FieldName, "error", err)
	return errInternal
}
