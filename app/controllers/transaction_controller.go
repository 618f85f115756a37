package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/till/app/services"
	"github.com/shashiranjanraj/till/pkg/logger"
	"github.com/shashiranjanraj/till/pkg/response"
)

type TransactionController struct {
	term *services.Terminal
}

func NewTransactionController(term *services.Terminal) *TransactionController {
	return &TransactionController{term: term}
}

// Index lists transactions newest first.
func (c *TransactionController) Index(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.term.Transactions())
}

// Export downloads the full history as sales_history.json.
func (c *TransactionController) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.ExportFilename+`"`)
	if err := c.term.Export(w); err != nil {
		logger.WithCtx(r.Context()).Error("export failed", "error", err)
	}
}
