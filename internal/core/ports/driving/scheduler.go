package driving

import "context"

// Scheduler drives periodic maintenance, currently the re-index of stale
// instructions. Start blocks until ctx ends or Stop returns.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop() error
}
