package debug

// Runtime metrics logger. Started only when config.Debug is true.
// Emits goroutine count and heap usage at a fixed interval so leaks in the
// image pipeline show up in the log.

import (
	"context"
	"log/slog"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

var sampleNames = []string{
	"/sched/goroutines:goroutines",
	"/memory/classes/heap/objects:bytes",
	"/memory/classes/total:bytes",
	"/gc/cycles/total:gc-cycles",
}

// Snapshot is one reading of the runtime metrics.
type Snapshot struct {
	Goroutines uint64
	HeapBytes  uint64
	TotalBytes uint64
	GCCycles   uint64
}

// Read samples the runtime metrics once.
func Read() Snapshot {
	samples := make([]metrics.Sample, len(sampleNames))
	for i, n := range sampleNames {
		samples[i].Name = n
	}
	metrics.Read(samples)
	u := func(i int) uint64 {
		if samples[i].Value.Kind() != metrics.KindUint64 {
			return 0
		}
		return samples[i].Value.Uint64()
	}
	return Snapshot{Goroutines: u(0), HeapBytes: u(1), TotalBytes: u(2), GCCycles: u(3)}
}

// Attrs renders the snapshot as log attributes.
func (s Snapshot) Attrs() []any {
	return []any{
		slog.Uint64("goroutines", s.Goroutines),
		slog.String("heap", humanize.IBytes(s.HeapBytes)),
		slog.String("total", humanize.IBytes(s.TotalBytes)),
		slog.Uint64("gc_cycles", s.GCCycles),
	}
}

// StartRuntimeLogger logs a Snapshot every interval until ctx is done.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				logger.Info("runtime", Read().Attrs()...)
			}
		}
	}()
}
