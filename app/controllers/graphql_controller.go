package controllers

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/app/services"
	gql "github.com/shashiranjanraj/till/pkg/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":     &graphql.Field{Type: graphql.String},
		"price":    &graphql.Field{Type: graphql.Float},
		"cost":     &graphql.Field{Type: graphql.Float},
		"category": &graphql.Field{Type: graphql.String},
	},
})

var lineType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CartLine",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.String},
		"name":     &graphql.Field{Type: graphql.String},
		"price":    &graphql.Field{Type: graphql.Float},
		"cost":     &graphql.Field{Type: graphql.Float},
		"category": &graphql.Field{Type: graphql.String},
		"quantity": &graphql.Field{Type: graphql.Int},
	},
})

var transactionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Transaction",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"timestamp":     &graphql.Field{Type: graphql.Float},
		"totalAmount":   &graphql.Field{Type: graphql.Float},
		"totalProfit":   &graphql.Field{Type: graphql.Float},
		"paymentMethod": &graphql.Field{Type: graphql.String},
		"items":         &graphql.Field{Type: graphql.NewList(lineType)},
	},
})

var summaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SalesSummary",
	Fields: graphql.Fields{
		"totalRevenue":      &graphql.Field{Type: graphql.Float},
		"totalProfit":       &graphql.Field{Type: graphql.Float},
		"transactionCount":  &graphql.Field{Type: graphql.Int},
		"averageOrderValue": &graphql.Field{Type: graphql.Float},
	},
})

var dayType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DayPoint",
	Fields: graphql.Fields{
		"date":    &graphql.Field{Type: graphql.String},
		"revenue": &graphql.Field{Type: graphql.Float},
		"profit":  &graphql.Field{Type: graphql.Float},
	},
})

// graphql-go resolves fields from maps by key, so records are flattened
// into their JSON shape.
func productMap(p models.Product) map[string]interface{} {
	return map[string]interface{}{
		"id": p.ID, "name": p.Name, "price": p.Price, "cost": p.Cost, "category": p.Category,
	}
}

func transactionMap(tx models.Transaction) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(tx.Items))
	for _, l := range tx.Items {
		m := productMap(l.Product)
		m["quantity"] = l.Quantity
		items = append(items, m)
	}
	return map[string]interface{}{
		"id":            tx.ID,
		"timestamp":     float64(tx.Timestamp),
		"totalAmount":   tx.TotalAmount,
		"totalProfit":   tx.TotalProfit,
		"paymentMethod": string(tx.PaymentMethod),
		"items":         items,
	}
}

// NewGraphQLHandler exposes a read-only query API over the terminal.
func NewGraphQLHandler(term *services.Terminal) (http.HandlerFunc, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"query":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: services.AllCategories},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, _ := p.Args["query"].(string)
					cat, _ := p.Args["category"].(string)
					out := []map[string]interface{}{}
					for _, prod := range services.Filter(term.Products(), q, cat) {
						out = append(out, productMap(prod))
					}
					return out, nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return services.Categories(term.Products()), nil
				},
			},
			"transactions": &graphql.Field{
				Type: graphql.NewList(transactionType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					txs := term.Transactions()
					if limit, _ := p.Args["limit"].(int); limit > 0 && limit < len(txs) {
						txs = txs[:limit]
					}
					out := make([]map[string]interface{}, 0, len(txs))
					for _, tx := range txs {
						out = append(out, transactionMap(tx))
					}
					return out, nil
				},
			},
			"summary": &graphql.Field{
				Type: summaryType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, _ := term.Stats()
					return map[string]interface{}{
						"totalRevenue":      s.TotalRevenue,
						"totalProfit":       s.TotalProfit,
						"transactionCount":  s.TransactionCount,
						"averageOrderValue": s.AverageOrderValue,
					}, nil
				},
			},
			"lastSevenDays": &graphql.Field{
				Type: graphql.NewList(dayType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					_, days := term.Stats()
					out := make([]map[string]interface{}, 0, len(days))
					for _, d := range days {
						out = append(out, map[string]interface{}{"date": d.Date, "revenue": d.Revenue, "profit": d.Profit})
					}
					return out, nil
				},
			},
		},
	})

	schema, err := gql.NewSchema(query)
	if err != nil {
		return nil, err
	}
	return gql.Handler(schema), nil
}
