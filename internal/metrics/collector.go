// Package metrics provides in-memory timing statistics for the query
// pipeline.
package metrics

import (
	"math"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpSearch   = "search"
	OpDispatch = "dispatch"
	OpUpload   = "upload"
	OpExport   = "export"
)

// opMetrics holds raw aggregates for a single operation type.
type opMetrics struct {
	count     int64
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration

	// Prompt/reply sizes, recorded only for dispatch operations.
	totalContextChars int64
	totalReplyChars   int64
}

// OpSnapshot is the computed view of one operation's aggregates.
type OpSnapshot struct {
	Count       int64
	TotalTimeMs int64
	AvgTimeMs   float64
	MinTimeMs   int64
	MaxTimeMs   int64

	// Size stats, nil when the operation carries no payload sizes.
	TotalContextChars *int64
	TotalReplyChars   *int64
	AvgReplyChars     *float64
}

// Snapshot is the full pipeline statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	Search        *OpSnapshot
	Dispatch      *OpSnapshot
	Upload        *OpSnapshot
	Export        *OpSnapshot
}

// Collector aggregates in-memory pipeline statistics. All methods are
// safe for concurrent use; the TUI goroutine records while the status
// view reads.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*opMetrics
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*opMetrics),
	}
}

// Caller must hold the write lock.
func (c *Collector) getOrCreate(op string) *opMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &opMetrics{minTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records one operation duration.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record(op, duration)
}

// RecordDispatch records one LLM dispatch with its prompt context and
// reply sizes in characters.
func (c *Collector) RecordDispatch(duration time.Duration, contextChars, replyChars int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.record(OpDispatch, duration)
	m.totalContextChars += int64(contextChars)
	m.totalReplyChars += int64(replyChars)
}

func (c *Collector) record(op string, duration time.Duration) *opMetrics {
	m := c.getOrCreate(op)
	m.count++
	m.totalTime += duration
	if duration < m.minTime {
		m.minTime = duration
	}
	if duration > m.maxTime {
		m.maxTime = duration
	}
	return m
}

// Snapshot returns a point-in-time view of all recorded operations.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Search:        snapshotOp(c.ops[OpSearch], false),
		Dispatch:      snapshotOp(c.ops[OpDispatch], true),
		Upload:        snapshotOp(c.ops[OpUpload], false),
		Export:        snapshotOp(c.ops[OpExport], false),
	}
}

// snapshotOp computes the display view, returning nil when the
// operation never ran.
func snapshotOp(m *opMetrics, includeSizes bool) *OpSnapshot {
	if m == nil || m.count == 0 {
		return nil
	}

	snap := &OpSnapshot{
		Count:       m.count,
		TotalTimeMs: m.totalTime.Milliseconds(),
		AvgTimeMs:   float64(m.totalTime.Milliseconds()) / float64(m.count),
		MinTimeMs:   m.minTime.Milliseconds(),
		MaxTimeMs:   m.maxTime.Milliseconds(),
	}

	if includeSizes {
		totalCtx := m.totalContextChars
		totalReply := m.totalReplyChars
		avgReply := float64(m.totalReplyChars) / float64(m.count)
		snap.TotalContextChars = &totalCtx
		snap.TotalReplyChars = &totalReply
		snap.AvgReplyChars = &avgReply
	}

	return snap
}
