// Package kernel assembles the HTTP handler: global middleware first, then
// the API routes.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/till/app/routes"
	"github.com/shashiranjanraj/till/app/services"
	"github.com/shashiranjanraj/till/config"
	"github.com/shashiranjanraj/till/pkg/metrics"
	"github.com/shashiranjanraj/till/pkg/middleware"
	"github.com/shashiranjanraj/till/pkg/reqid"
	"github.com/shashiranjanraj/till/pkg/router"
)

type HTTPKernel struct {
	router *router.Router
}

func NewHTTPKernel(term *services.Terminal) (*HTTPKernel, error) {
	r := router.New()

	// Outermost first: metrics see total latency, recovery wraps everything
	// that can panic, and the request id exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))

	if err := routes.RegisterAPI(r, term); err != nil {
		return nil, err
	}
	return &HTTPKernel{router: r}, nil
}

func (k *HTTPKernel) Router() *router.Router { return k.router }

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }
