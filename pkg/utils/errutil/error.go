package errutil

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// HandleError logs err and, when a Sentry client is configured, reports it with the run ID and the
// goerr values attached.
func HandleError(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	var evID *sentry.EventID
	if sentry.CurrentHub().Client() != nil {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			if runID, ok := logging.RunIDFrom(ctx); ok {
				scope.SetTag("run_id", runID.String())
			}
			if goErr := goerr.Unwrap(err); goErr != nil {
				for k, v := range goErr.Values() {
					scope.SetExtra(fmt.Sprintf("%v", k), v)
				}
			}
		})
		evID = hub.CaptureException(err)
	}

	attrs := []any{"error", err}
	if evID != nil {
		attrs = append(attrs, "sentry.EventID", *evID)
	}
	logging.From(ctx).Error(msg, attrs...)
}
