package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time logs the duration of an operation when the returned func runs,
// including the error the caller ended with. Use as:
//
//	defer obs.Time(ctx, "geocode.ResolveCenter")(&err)
//
// Session goroutines (geocode resolution, route composition) run on a
// background context with no request id; the field is omitted rather than
// logged empty.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	prefix := ""
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok && reqID != "" {
		prefix = "req_id=" + reqID + " "
	}

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("%sop=%s dur=%dms err=%v", prefix, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("%sop=%s dur=%dms", prefix, name, dur.Milliseconds())
	}
}
