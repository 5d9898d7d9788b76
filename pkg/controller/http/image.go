package http

import (
	"errors"
	"net/http"

	"github.com/cropai/cropai/pkg/service/storage"
	"github.com/cropai/cropai/pkg/usecase"
	"github.com/cropai/cropai/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type uploadImageResponse struct {
	ImageRef string `json:"imageRef"`
}

// uploadImageHandler accepts a multipart form with the image in the "image" field
func uploadImageHandler(store storage.Service, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		file, header, err := r.FormFile("image")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "image is too large", goerr.V("max_bytes", maxBytes)))
				return
			}
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "image field is required", goerr.V("cause", err.Error())))
			return
		}
		defer safe.Close(r.Context(), file)

		contentType := header.Header.Get("Content-Type")
		ref, err := store.Upload(r.Context(), contentType, file)
		if err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to upload image", goerr.V("content_type", contentType)))
			return
		}

		writeJSON(w, r, http.StatusCreated, uploadImageResponse{ImageRef: ref})
	}
}
