package executor

import "sync/atomic"

// CancellationToken is the cooperative cancellation handle a
// Subscriber closes over and calls Cancel on from within its own
// Notify handler. The Executor polls Cancelled at each check boundary
// and stops after the current check completes.
type CancellationToken struct {
	cancelled atomic.Bool
}

// Cancel requests that the run stop at the next check boundary.
func (t *CancellationToken) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether cancellation has been requested.
func (t *CancellationToken) Cancelled() bool {
	return t.cancelled.Load()
}
