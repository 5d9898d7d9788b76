package http

import (
	"errors"
	"net/http"

	"github.com/cropai/cropai/pkg/service/storage"
	"github.com/cropai/cropai/pkg/usecase"
	"github.com/cropai/cropai/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

var errOwnerRequired = goerr.New("ownerId is required")

// handleError maps use case errors to HTTP status codes
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrDiagnosisNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, storage.ErrUnsupportedContentType),
		errors.Is(err, errOwnerRequired):
		status = http.StatusBadRequest
	}

	errutil.HandleHTTP(r.Context(), w, err, status)
}
