package async

import (
	"context"

	"github.com/cropai/cropai/pkg/utils/errutil"
	"github.com/cropai/cropai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch runs job in a new goroutine. The job keeps the values of ctx, such as
// the request logger, but not its cancellation. Errors and panics are logged and
// reported, never propagated.
func Dispatch(ctx context.Context, name string, job func(ctx context.Context) error) {
	bgCtx := logging.With(context.WithoutCancel(ctx), logging.From(ctx).With("job", name))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(bgCtx, goerr.New("panic in async job", goerr.V("job", name), goerr.V("panic", r)), "async job panicked")
			}
		}()

		if err := job(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, goerr.Wrap(err, "async job failed", goerr.V("job", name)), "async job failed")
		}
	}()
}
