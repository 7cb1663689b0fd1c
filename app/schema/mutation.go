package schema

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/kashvi-crm/app/services"
)

var createCustomerPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreateCustomerPayload",
	Fields: graphql.Fields{
		"customer": &graphql.Field{Type: customerType},
		"message":  &graphql.Field{Type: graphql.String},
		"success":  &graphql.Field{Type: graphql.Boolean},
	},
})

var bulkCreateCustomersPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "BulkCreateCustomersPayload",
	Fields: graphql.Fields{
		"customers": &graphql.Field{Type: graphql.NewList(customerType)},
		"errors":    &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var createProductPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreateProductPayload",
	Fields: graphql.Fields{
		"product": &graphql.Field{Type: productType},
	},
})

var createOrderPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreateOrderPayload",
	Fields: graphql.Fields{
		"order": &graphql.Field{Type: orderType},
	},
})

func mutationType(svc *services.CRMService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer": &graphql.Field{
				Type: createCustomerPayload,
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phone": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					res, err := svc.CreateCustomer(p.Context, customerInput(p.Args))
					if err != nil {
						return nil, clientError(p, err)
					}
					return map[string]interface{}{
						"customer": res.Customer,
						"message":  res.Message,
						"success":  res.Success,
					}, nil
				},
			},
			"bulkCreateCustomers": &graphql.Field{
				Type: bulkCreateCustomersPayload,
				Args: graphql.FieldConfigArgument{
					"customers": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerInputType))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["customers"].([]interface{})
					inputs := make([]services.CustomerInput, 0, len(raw))
					for _, item := range raw {
						fields, _ := item.(map[string]interface{})
						inputs = append(inputs, customerInput(fields))
					}

					res, err := svc.BulkCreateCustomers(p.Context, inputs)
					if err != nil {
						return nil, clientError(p, err)
					}
					return map[string]interface{}{
						"customers": res.Customers,
						"errors":    res.Errors,
					}, nil
				},
			},
			"createProduct": &graphql.Field{
				Type: createProductPayload,
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"price": &graphql.ArgumentConfig{Type: graphql.NewNonNull(Decimal)},
					"stock": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := services.ProductInput{}
					in.Name, _ = p.Args["name"].(string)
					in.Price, _ = p.Args["price"].(decimal.Decimal)
					if stock, ok := p.Args["stock"].(int); ok {
						in.Stock = &stock
					}

					product, err := svc.CreateProduct(p.Context, in)
					if err != nil {
						return nil, clientError(p, err)
					}
					return map[string]interface{}{"product": product}, nil
				},
			},
			"createOrder": &graphql.Field{
				Type: createOrderPayload,
				Args: graphql.FieldConfigArgument{
					"customerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"productIds": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID))),
					},
					"orderDate": &graphql.ArgumentConfig{Type: graphql.DateTime},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := services.OrderInput{ProductIDs: []string{}}
					in.CustomerID, _ = p.Args["customerId"].(string)
					if ids, ok := p.Args["productIds"].([]interface{}); ok {
						for _, id := range ids {
							s, _ := id.(string)
							in.ProductIDs = append(in.ProductIDs, s)
						}
					}
					switch t := p.Args["orderDate"].(type) {
					case time.Time:
						in.OrderDate = &t
					case *time.Time:
						in.OrderDate = t
					}

					order, err := svc.CreateOrder(p.Context, in)
					if err != nil {
						return nil, clientError(p, err)
					}
					return map[string]interface{}{"order": order}, nil
				},
			},
		},
	})
}

func customerInput(args map[string]interface{}) services.CustomerInput {
	in := services.CustomerInput{}
	in.Name, _ = args["name"].(string)
	in.Email, _ = args["email"].(string)
	if phone, ok := args["phone"].(string); ok {
		in.Phone = &phone
	}
	return in
}
