package routes

import (
	"time"

	"github.com/shashiranjanraj/till/app/controllers"
	"github.com/shashiranjanraj/till/app/services"
	"github.com/shashiranjanraj/till/pkg/event"
	"github.com/shashiranjanraj/till/pkg/metrics"
	"github.com/shashiranjanraj/till/pkg/middleware"
	"github.com/shashiranjanraj/till/pkg/router"
)

// Insight calls reach a paid upstream model.
const (
	insightRequests = 10
	insightWindow   = time.Minute
)

// RegisterAPI mounts every terminal endpoint on r. term may be nil when
// only the route table is needed.
func RegisterAPI(r *router.Router, term *services.Terminal) error {
	products := controllers.NewProductController(term)
	cart := controllers.NewCartController(term)
	transactions := controllers.NewTransactionController(term)
	stats := controllers.NewStatsController(term)
	settings := controllers.NewSettingsController(term)

	var bus *event.Bus
	if term != nil {
		bus = term.Bus()
	}
	events := controllers.NewEventController(bus)

	graphql, err := controllers.NewGraphQLHandler(term)
	if err != nil {
		return err
	}

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Post("/graphql", "graphql", graphql)

	api := r.Group("/api")

	api.Get("/products", "products.index", products.Index)
	api.Post("/products", "products.store", products.Store)
	api.Put("/products/{id}", "products.update", products.Update)
	api.Delete("/products/{id}", "products.destroy", products.Destroy)
	api.Get("/categories", "products.categories", products.Categories)

	api.Get("/cart", "cart.show", cart.Show)
	api.Delete("/cart", "cart.clear", cart.Clear)
	api.Post("/cart/items", "cart.items.add", cart.AddItem)
	api.Patch("/cart/items/{id}", "cart.items.adjust", cart.AdjustItem)
	api.Post("/checkout", "checkout", cart.Checkout)

	api.Get("/transactions", "transactions.index", transactions.Index)
	api.Get("/transactions/export", "transactions.export", transactions.Export)

	api.Get("/stats", "stats.show", stats.Show)
	api.Post("/stats/insight", "stats.insight", stats.Insight,
		middleware.RateLimit(middleware.NewLimiter(insightRequests, insightWindow)))

	api.Get("/settings", "settings.show", settings.Show)
	api.Put("/settings", "settings.update", settings.Update)

	api.Get("/events", "events", events.Stream)

	return nil
}
