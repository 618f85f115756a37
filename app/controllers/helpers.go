package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/till/pkg/bind"
	"github.com/shashiranjanraj/till/pkg/response"
)

// decode binds the body into dest, writing the error response itself when
// it returns false.
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(w, r, dest)
	switch {
	case errors.Is(err, bind.ErrBody):
		response.BadRequest(w, err.Error())
		return false
	case err != nil:
		response.Error(w, http.StatusInternalServerError, err.Error())
		return false
	case len(errs) > 0:
		response.ValidationError(w, errs)
		return false
	}
	return true
}
