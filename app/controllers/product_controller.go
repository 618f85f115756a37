package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/app/services"
	"github.com/shashiranjanraj/till/pkg/response"
)

type ProductController struct {
	term *services.Terminal
}

func NewProductController(term *services.Terminal) *ProductController {
	return &ProductController{term: term}
}

type productRequest struct {
	Name     string  `json:"name"     validate:"required,max=120"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Cost     float64 `json:"cost"     validate:"gte=0"`
	Category string  `json:"category" validate:"max=60"`
}

func (p productRequest) product(id string) models.Product {
	return models.Product{ID: id, Name: p.Name, Price: p.Price, Cost: p.Cost, Category: p.Category}
}

// Index lists the catalog, optionally filtered by ?q= and ?category=.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	response.Success(w, services.Filter(c.term.Products(), q.Get("q"), q.Get("category")))
}

func (c *ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	cats := append([]string{services.AllCategories}, services.Categories(c.term.Products())...)
	response.Success(w, cats)
}

func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decode(w, r, &req) {
		return
	}

	saved, err := c.term.SaveProduct(r.Context(), req.product(""))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.Created(w, saved)
}

// Update replaces the product with the path id, creating it if unknown.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decode(w, r, &req) {
		return
	}

	saved, err := c.term.SaveProduct(r.Context(), req.product(chi.URLParam(r, "id")))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(w, saved)
}

func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	c.term.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	response.NoContent(w)
}
