package reactive

import "time"

// Observer receives scheduler events. Implementations must not mutate
// reactive state.
type Observer interface {
	// FlushCompleted is called at the end of every Flush that ran at least
	// one Dependent or failed.
	FlushCompleted(runs int, elapsed time.Duration, err error)
}
