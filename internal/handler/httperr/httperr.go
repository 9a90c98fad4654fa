package httperr

import (
	"errors"
	"net/http"

	"github.com/jferrall/teachbridge/backend/internal/service/inquiry"
	"github.com/jferrall/teachbridge/backend/internal/store"
	"github.com/jferrall/teachbridge/backend/pkg/utils"
)

// Write maps service/store errors to HTTP statuses: invalid input 400,
// unknown id 404, re-send 409, anything else 500.
func Write(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalid):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, inquiry.ErrAlreadySent):
		utils.RespondError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
