package metrics

import (
	"context"
	"runtime"
	"time"
)

// StartSystemCollector samples memory, goroutine and GC statistics every
// refresh interval until ctx is cancelled.
func StartSystemCollector(ctx context.Context) {
	go current().collectSystem(ctx)
}

func (m *Manager) collectSystem(ctx context.Context) {
	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()

	var lastNumGC uint32
	for {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		UpdateSystemMemoryUsage(ms.Alloc)
		UpdateSystemGoroutineCount(runtime.NumGoroutine())
		for gc := lastNumGC; gc < ms.NumGC && ms.NumGC-gc <= uint32(len(ms.PauseNs)); gc++ {
			RecordSystemGCPauseTime(float64(ms.PauseNs[gc%uint32(len(ms.PauseNs))]) / float64(time.Millisecond))
		}
		lastNumGC = ms.NumGC

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
