package errutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cropai/cropai/pkg/utils/errutil"
	"github.com/cropai/cropai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), logging.New(&buf, logging.FormatJSON, slog.LevelInfo))

	err := goerr.New("boom", goerr.V("diagnosis_id", "abc"))
	got := errutil.Handle(ctx, err, "failed to save")

	gt.Value(t, got).Equal(error(err))
	gt.String(t, buf.String()).Contains("failed to save")
	gt.String(t, buf.String()).Contains("diagnosis_id")

	gt.Value(t, errutil.Handle(ctx, nil, "nothing")).Nil()
}

func TestHandleHTTP(t *testing.T) {
	ctx := logging.With(context.Background(), logging.New(&bytes.Buffer{}, logging.FormatJSON, slog.LevelInfo))

	t.Run("client error exposes message", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(ctx, w, errors.New("queryText is required"), http.StatusBadRequest)

		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		gt.Value(t, w.Header().Get("Content-Type")).Equal("application/json")

		var body map[string]string
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
		gt.Value(t, body["error"]).Equal("queryText is required")
	})

	t.Run("server error hides internals", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(ctx, w, errors.New("firestore: connection reset"), http.StatusInternalServerError)

		gt.Value(t, w.Code).Equal(http.StatusInternalServerError)

		var body map[string]string
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
		gt.Value(t, body["error"]).Equal("Internal Server Error")
	})
}
