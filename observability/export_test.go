package observability

import "sync"

// resetForTest clears the process-wide logger.
func resetForTest() {
	globalLogger.Store(nil)
	once = sync.Once{}
}
