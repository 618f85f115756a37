package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/app/services"
	"github.com/shashiranjanraj/till/pkg/response"
)

type SettingsController struct {
	term *services.Terminal
}

func NewSettingsController(term *services.Terminal) *SettingsController {
	return &SettingsController{term: term}
}

type settingsView struct {
	models.Settings
	CloudActive bool `json:"cloudActive"`
}

func (c *SettingsController) view(s models.Settings) settingsView {
	return settingsView{Settings: s.Redacted(), CloudActive: c.term.CloudActive()}
}

func (c *SettingsController) Show(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.view(c.term.Settings()))
}

// Update saves the settings. A failed cloud initialisation still saves them;
// the response then carries a warning message.
func (c *SettingsController) Update(w http.ResponseWriter, r *http.Request) {
	var req models.Settings
	if !decode(w, r, &req) {
		return
	}

	saved, err := c.term.SaveSettings(r.Context(), req)
	switch {
	case errors.Is(err, services.ErrCloudUnavailable):
		response.Message(w, services.ErrCloudUnavailable.Error(), c.view(saved))
	case err != nil:
		response.Error(w, http.StatusInternalServerError, err.Error())
	default:
		response.Success(w, c.view(saved))
	}
}
