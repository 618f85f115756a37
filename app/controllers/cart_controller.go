package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/app/services"
	"github.com/shashiranjanraj/till/pkg/response"
)

type CartController struct {
	term *services.Terminal
}

func NewCartController(term *services.Terminal) *CartController {
	return &CartController{term: term}
}

type cartView struct {
	Items  []models.CartLine `json:"items"`
	Total  float64           `json:"total"`
	Profit float64           `json:"profit"`
	Count  int               `json:"count"`
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required,max=64"`
}

type adjustItemRequest struct {
	Delta int `json:"delta" validate:"ne=0"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,in=cash,card,qr"`
}

func (c *CartController) view() cartView {
	cart := c.term.Cart()
	lines := cart.Lines()
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return cartView{Items: lines, Total: cart.Total(), Profit: cart.Profit(), Count: count}
}

func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.view())
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decode(w, r, &req) {
		return
	}

	if _, err := c.term.AddToCart(req.ProductID); err != nil {
		if errors.Is(err, services.ErrUnknownProduct) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(w, c.view())
}

// AdjustItem applies {"delta": n} to the line for the path id.
func (c *CartController) AdjustItem(w http.ResponseWriter, r *http.Request) {
	var req adjustItemRequest
	if !decode(w, r, &req) {
		return
	}
	c.term.Cart().AdjustQuantity(chi.URLParam(r, "id"), req.Delta)
	response.Success(w, c.view())
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	c.term.Cart().Clear()
	response.Success(w, c.view())
}

// Checkout answers 201 with the transaction, or 200 with no data when the
// cart was empty.
func (c *CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decode(w, r, &req) {
		return
	}

	tx, ok, err := c.term.Checkout(r.Context(), models.PaymentMethod(req.PaymentMethod))
	switch {
	case errors.Is(err, services.ErrInvalidPaymentMethod):
		response.ValidationError(w, map[string]string{"paymentMethod": "The selected paymentMethod is invalid."})
	case err != nil:
		response.Error(w, http.StatusInternalServerError, err.Error())
	case !ok:
		response.Message(w, "Cart is empty", nil)
	default:
		response.Created(w, tx)
	}
}
