package frames

import (
	"context"
	"image"
	"time"

	"github.com/soocke/pose-label-go/domain/geometry"
)

// Fetcher returns the encoded bytes of a frame.
type Fetcher interface {
	FrameImage(ctx context.Context, frame string) ([]byte, error)
}

// Snapshot carries the most recently published frame and its metadata.
type Snapshot struct {
	Name      string
	Image     image.Image
	Size      geometry.Size
	Format    string
	Bytes     int
	RequestID uint64
	LoadedAt  time.Time
	Cached    bool
	Err       error
}

// Ready reports whether the snapshot holds a decoded image.
func (s Snapshot) Ready() bool { return s.Image != nil && s.Err == nil }

// Stats summarises loader behaviour for instrumentation.
type Stats struct {
	Requests   uint64
	Fetches    uint64
	CacheHits  uint64
	Failures   uint64
	Stale      uint64
	BytesRead  uint64
	AvgFetch   time.Duration
	CacheLen   int
	LatestID   uint64
	LatestName string
}

// Source provides read-only access to loaded frames.
type Source interface {
	Latest() Snapshot
}

// Service loads frame images off the UI thread.
type Service interface {
	Source
	Start()
	Stop()
	Request(frame string) uint64
	Prefetch(frame string)
	Purge()
	Stats() Stats
}
