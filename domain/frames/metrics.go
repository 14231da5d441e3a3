package frames

import (
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
)

const statsLogInterval = 30 * time.Second

func (s *service) Stats() Stats {
	fetches := s.fetches.Load()
	total := s.fetchNanos.Load()
	var avg time.Duration
	if fetches > 0 {
		avg = time.Duration(total / fetches)
	}
	snap := s.Latest()
	return Stats{
		Requests:   s.requests.Load(),
		Fetches:    fetches,
		CacheHits:  s.hits.Load(),
		Failures:   s.failures.Load(),
		Stale:      s.stale.Load(),
		BytesRead:  s.bytesRead.Load(),
		AvgFetch:   avg,
		CacheLen:   s.cache.Len(),
		LatestID:   snap.RequestID,
		LatestName: snap.Name,
	}
}

func logStats(logger *slog.Logger, st Stats) {
	if logger == nil {
		return
	}
	logger.Debug("frames.stats",
		"requests", st.Requests,
		"fetches", st.Fetches,
		"cache_hits", st.CacheHits,
		"cache_len", st.CacheLen,
		"failures", st.Failures,
		"stale", st.Stale,
		"read", humanize.Bytes(st.BytesRead),
		"avg_fetch", st.AvgFetch,
	)
}
