package ports

import "context"

// Notifier delivers user notifications on a best-effort basis. Failures are
// logged by the implementation and never reported to the caller.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string)
}
