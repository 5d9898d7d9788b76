package safe

import (
	"context"
	"io"

	"github.com/cropai/cropai/pkg/utils/logging"
)

// Close closes closer and logs a failure instead of returning it. A nil closer
// is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("close failed", "error", err.Error())
	}
}

// Write writes data after the response status is committed, when nothing but
// logging can be done about a failure.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if n, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("write failed", "error", err.Error(), "written", n, "size", len(data))
	}
}
