package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/repository"
	"github.com/blockedby/interview-list/internal/web"
)

const maxBodyBytes = 1 << 20

// writeError maps err to a coded JSON error.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	var sc web.StatusCoder
	switch {
	case errors.As(err, &sc):
		web.WriteError(w, sc.HTTPStatus(), sc.ErrorCode(), sc.Error())
	case errors.Is(err, repository.ErrNotFound):
		web.WriteError(w, http.StatusNotFound, web.CodeNotFound, "document not found")
	case errors.Is(err, repository.ErrInvalidOrder):
		web.WriteError(w, http.StatusBadRequest, web.CodeInvalidArgument, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "internal error")
	}
}

// decodeBody reads a JSON body of at most maxBodyBytes into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeInvalidArgument, "invalid JSON body")
		return false
	}
	return true
}
