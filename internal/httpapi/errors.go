package httpapi

import (
	"errors"
	"net/http"

	"github.com/modeldeck/modeldeck/internal/errs"
	"github.com/modeldeck/modeldeck/internal/utils"
)

// respondWithServiceError maps the service error taxonomy onto HTTP
// statuses. Storage errors keep their message; callers see what failed.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrValidation):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrDuplicate):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrSync):
		utils.RespondWithError(w, http.StatusBadGateway, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
