package schema

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/kashvi-crm/app/services"
)

func queryType(svc *services.CRMService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return Greeting, nil
				},
			},
			"allCustomers": &graphql.Field{
				Type: graphql.NewList(customerType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customers, err := svc.ListCustomers(p.Context)
					if err != nil {
						return nil, clientError(p, err)
					}
					return customers, nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					products, err := svc.ListProducts(p.Context)
					if err != nil {
						return nil, clientError(p, err)
					}
					return products, nil
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					orders, err := svc.ListOrders(p.Context)
					if err != nil {
						return nil, clientError(p, err)
					}
					return orders, nil
				},
			},
		},
	})
}
