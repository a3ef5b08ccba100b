package monitoring

import (
	"sync"
	"time"

	"github.com/sells-group/clinic-quiz/internal/model"
)

// MetricsSnapshot counts submission outcomes over a window.
type MetricsSnapshot struct {
	Total     int `json:"total"`
	Primary   int `json:"primary"`
	Secondary int `json:"secondary"`
	LogOnly   int `json:"log_only"`

	// Fallbacks counts submissions where at least one tier failed before
	// one accepted or the log absorbed it.
	Fallbacks    int     `json:"fallbacks"`
	FallbackRate float64 `json:"fallback_rate"`

	LastError   string    `json:"last_error,omitempty"`
	Since       time.Time `json:"since"`
	CollectedAt time.Time `json:"collected_at"`
}

type counts struct {
	total, primary, secondary, logOnly, fallbacks int
	lastError                                     string
	since                                         time.Time
}

func (c *counts) add(res model.SubmitResult) {
	c.total++
	switch res.Tier {
	case model.TierPrimary:
		c.primary++
	case model.TierSecondary:
		c.secondary++
	case model.TierLogOnly:
		c.logOnly++
	}
	if res.LastError != nil {
		c.fallbacks++
		c.lastError = res.LastError.Error()
	}
}

func (c *counts) snapshot(now time.Time) *MetricsSnapshot {
	snap := &MetricsSnapshot{
		Total:       c.total,
		Primary:     c.primary,
		Secondary:   c.secondary,
		LogOnly:     c.logOnly,
		Fallbacks:   c.fallbacks,
		LastError:   c.lastError,
		Since:       c.since,
		CollectedAt: now,
	}
	if c.total > 0 {
		snap.FallbackRate = float64(c.fallbacks) / float64(c.total)
	}
	return snap
}

// Collector tallies submission results in memory. It is safe for
// concurrent use.
type Collector struct {
	mu       sync.Mutex
	lifetime counts
	window   counts
	now      func() time.Time
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	c := &Collector{now: time.Now}
	start := c.now().UTC()
	c.lifetime.since = start
	c.window.since = start
	return c
}

// Observe records one submission result.
func (c *Collector) Observe(res model.SubmitResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lifetime.add(res)
	c.window.add(res)
}

// Snapshot returns totals since the collector was created.
func (c *Collector) Snapshot() *MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lifetime.snapshot(c.now().UTC())
}

// Drain returns the counts since the previous Drain and starts a new window.
func (c *Collector) Drain() *MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now().UTC()
	snap := c.window.snapshot(now)
	c.window = counts{since: now}
	return snap
}
