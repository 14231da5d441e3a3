package frames

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/soocke/pose-label-go/domain/geometry"
)

// DefaultCacheSize is the number of decoded frames kept in memory.
const DefaultCacheSize = 32

const jobQueueSize = 8

type decoded struct {
	img    image.Image
	format string
	bytes  int
}

type job struct {
	name string
	id   uint64 // zero for prefetch jobs, which never publish
}

type service struct {
	fetcher Fetcher
	logger  *slog.Logger
	cache   *lru.Cache[string, decoded]
	jobs    chan job

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool

	seq    atomic.Uint64
	wanted atomic.Uint64
	latest atomic.Pointer[Snapshot]

	requests   atomic.Uint64
	fetches    atomic.Uint64
	hits       atomic.Uint64
	failures   atomic.Uint64
	stale      atomic.Uint64
	bytesRead  atomic.Uint64
	fetchNanos atomic.Uint64
}

// NewService constructs a loader that fetches frames through f and keeps up
// to cacheSize decoded frames.
func NewService(f Fetcher, cacheSize int, logger *slog.Logger) (Service, error) {
	if f == nil {
		return nil, fmt.Errorf("frames: nil fetcher")
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, decoded](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("frames: cache: %w", err)
	}
	return &service{fetcher: f, logger: logger, cache: cache, jobs: make(chan job, jobQueueSize)}, nil
}

func (s *service) Latest() Snapshot {
	snap := s.latest.Load()
	if snap == nil {
		return Snapshot{}
	}
	return *snap
}

func (s *service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running.Store(true)
	go s.loop(ctx, s.done)
}

// Stop cancels any in-flight fetch and waits for the worker to exit.
func (s *service) Stop() {
	s.mu.Lock()
	if !s.running.Load() {
		s.mu.Unlock()
		return
	}
	s.running.Store(false)
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	cancel()
	<-done
}

// Request asks for frame to become the latest snapshot and returns the
// request id. Only the most recent request is ever published; a load that
// completes after a newer request was issued is dropped.
func (s *service) Request(frame string) uint64 {
	id := s.seq.Add(1)
	s.wanted.Store(id)
	s.requests.Add(1)
	if d, ok := s.cache.Get(frame); ok {
		s.hits.Add(1)
		s.publish(frame, id, d, true)
		return id
	}
	s.enqueue(job{name: frame, id: id})
	return id
}

// Prefetch warms the cache with frame without publishing it.
func (s *service) Prefetch(frame string) {
	if frame == "" || s.cache.Contains(frame) {
		return
	}
	select {
	case s.jobs <- job{name: frame}:
	default:
	}
}

// Purge drops every cached frame.
func (s *service) Purge() { s.cache.Purge() }

// enqueue pushes j, discarding the oldest queued job when the queue is full.
func (s *service) enqueue(j job) {
	for {
		select {
		case s.jobs <- j:
			return
		default:
		}
		select {
		case old := <-s.jobs:
			if old.id != 0 {
				s.stale.Add(1)
			}
		default:
		}
	}
}

func (s *service) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(statsLogInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logStats(s.logger, s.Stats())
		case j := <-s.jobs:
			s.load(ctx, j)
		}
	}
}

func (s *service) load(ctx context.Context, j job) {
	if j.id != 0 && j.id != s.wanted.Load() {
		s.stale.Add(1)
		return
	}
	if d, ok := s.cache.Get(j.name); ok {
		if j.id != 0 {
			s.hits.Add(1)
			s.publish(j.name, j.id, d, true)
		}
		return
	}
	start := time.Now()
	data, err := s.fetcher.FrameImage(ctx, j.name)
	if err == nil {
		s.fetches.Add(1)
		s.fetchNanos.Add(uint64(time.Since(start).Nanoseconds()))
		s.bytesRead.Add(uint64(len(data)))
	}
	var d decoded
	if err == nil {
		d, err = decode(data)
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.failures.Add(1)
		if s.logger != nil {
			s.logger.Error("frame load failed", "frame", j.name, "error", err)
		}
		if j.id != 0 && j.id == s.wanted.Load() {
			s.store(&Snapshot{Name: j.name, RequestID: j.id, LoadedAt: time.Now(), Err: err})
		}
		return
	}
	s.cache.Add(j.name, d)
	if j.id == 0 {
		return
	}
	if j.id != s.wanted.Load() {
		s.stale.Add(1)
		if s.logger != nil {
			s.logger.Debug("dropping stale frame load", "frame", j.name, "request_id", j.id)
		}
		return
	}
	s.publish(j.name, j.id, d, false)
}

func (s *service) publish(name string, id uint64, d decoded, cached bool) {
	b := d.img.Bounds()
	s.store(&Snapshot{
		Name:      name,
		Image:     d.img,
		Size:      geometry.Size{W: b.Dx(), H: b.Dy()},
		Format:    d.format,
		Bytes:     d.bytes,
		RequestID: id,
		LoadedAt:  time.Now(),
		Cached:    cached,
	})
}

// store publishes snap unless a newer request has already been published.
func (s *service) store(snap *Snapshot) bool {
	for {
		cur := s.latest.Load()
		if cur != nil && cur.RequestID > snap.RequestID {
			return false
		}
		if s.latest.CompareAndSwap(cur, snap) {
			return true
		}
	}
}

func decode(data []byte) (decoded, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return decoded{}, fmt.Errorf("decode frame: %w", err)
	}
	if img.Bounds().Empty() {
		return decoded{}, fmt.Errorf("decode frame: empty image")
	}
	return decoded{img: img, format: format, bytes: len(data)}, nil
}
