package schema

import (
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/kashvi-crm/app/models"
)

// Decimal is a fixed-point number. It is written as a string with two
// fraction digits and read from a string, float or int. Stored prices are
// validated to at most two fraction digits, so StringFixed(2) never rounds
// them; totals are sums of such prices. Values of any other Go type
// serialize as null.
var Decimal = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Decimal",
	Description: "Fixed-point decimal number, serialized as a string.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case decimal.Decimal:
			return v.StringFixed(2)
		case *decimal.Decimal:
			if v == nil {
				return nil
			}
			return v.StringFixed(2)
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		switch v := value.(type) {
		case string:
			return parseDecimal(v)
		case float64:
			return decimal.NewFromFloat(v)
		case float32:
			return decimal.NewFromFloat32(v)
		case int:
			return decimal.NewFromInt(int64(v))
		case int64:
			return decimal.NewFromInt(v)
		case decimal.Decimal:
			return v
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		switch v := valueAST.(type) {
		case *ast.StringValue:
			return parseDecimal(v.Value)
		case *ast.FloatValue:
			return parseDecimal(v.Value)
		case *ast.IntValue:
			return parseDecimal(v.Value)
		}
		return nil
	},
})

func parseDecimal(s string) interface{} {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return d
}

func formatID(id uint) string { return strconv.FormatUint(uint64(id), 10) }

var customerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Customer",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return formatID(customerOf(p.Source).ID), nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return customerOf(p.Source).Name, nil
			},
		},
		"email": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return customerOf(p.Source).Email, nil
			},
		},
		"phone": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if phone := customerOf(p.Source).Phone; phone != nil {
					return *phone, nil
				}
				return nil, nil
			},
		},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return formatID(productOf(p.Source).ID), nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productOf(p.Source).Name, nil
			},
		},
		"price": &graphql.Field{
			Type: graphql.NewNonNull(Decimal),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productOf(p.Source).Price, nil
			},
		},
		"stock": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productOf(p.Source).Stock, nil
			},
		},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return formatID(orderOf(p.Source).ID), nil
			},
		},
		"customer": &graphql.Field{
			Type: graphql.NewNonNull(customerType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return orderOf(p.Source).Customer, nil
			},
		},
		"products": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if products := orderOf(p.Source).Products; products != nil {
					return products, nil
				}
				return []models.Product{}, nil
			},
		},
		"orderDate": &graphql.Field{
			Type: graphql.NewNonNull(graphql.DateTime),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return orderOf(p.Source).OrderDate, nil
			},
		},
		"totalAmount": &graphql.Field{
			Type: graphql.NewNonNull(Decimal),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return orderOf(p.Source).TotalAmount, nil
			},
		},
	},
})

var customerInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CustomerInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"phone": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

// Sources reach the field resolvers either as values (list elements) or
// pointers (mutation payloads).

func customerOf(src interface{}) models.Customer {
	switch v := src.(type) {
	case models.Customer:
		return v
	case *models.Customer:
		return *v
	}
	return models.Customer{}
}

func productOf(src interface{}) models.Product {
	switch v := src.(type) {
	case models.Product:
		return v
	case *models.Product:
		return *v
	}
	return models.Product{}
}

func orderOf(src interface{}) models.Order {
	switch v := src.(type) {
	case models.Order:
		return v
	case *models.Order:
		return *v
	}
	return models.Order{}
}
