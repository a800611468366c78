package usecase

import (
	"context"
	"log/slog"
	"sync"
)

// notifier runs mail sends after the caller has its answer. Failures are
// only logged; the state change they report has already been committed.
type notifier struct {
	wg sync.WaitGroup
}

// send detaches from the request context so a finished request does not
// cancel the mail, but keeps its values for logging.
func (n *notifier) send(ctx context.Context, msg string, fn func(context.Context) error, attrs ...any) {
	bgCtx := context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := fn(bgCtx); err != nil {
			slog.WarnContext(bgCtx, msg, append(attrs, "error", err)...)
		}
	}()
}

// Wait blocks until every pending send has returned.
func (n *notifier) Wait() {
	n.wg.Wait()
}
