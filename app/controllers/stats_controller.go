package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/till/app/services"
	"github.com/shashiranjanraj/till/pkg/response"
)

type StatsController struct {
	term *services.Terminal
}

func NewStatsController(term *services.Terminal) *StatsController {
	return &StatsController{term: term}
}

type statsView struct {
	Summary services.SalesSummary `json:"summary"`
	Days    []services.DayPoint   `json:"days"`
}

func (c *StatsController) Show(w http.ResponseWriter, r *http.Request) {
	summary, days := c.term.Stats()
	response.Success(w, statsView{Summary: summary, Days: days})
}

// Insight always answers 200; the text is the fallback message when the
// generator is unavailable.
func (c *StatsController) Insight(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"insight": c.term.Insight(r.Context())})
}
