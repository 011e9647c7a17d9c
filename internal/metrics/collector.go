// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated timing for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	TotalTimeMs int64   `json:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms"`
}

// Snapshot represents the full statistics at a point in time.
type Snapshot struct {
	UptimeSeconds    float64            `json:"uptime_seconds"`
	ValidTotal       int64              `json:"valid_total"`
	InvalidTotal     int64              `json:"invalid_total"`
	TimeoutOverrides int64              `json:"timeout_overrides"`
	Validate         *OperationSnapshot `json:"validate,omitempty"`
	Entropy          *OperationSnapshot `json:"entropy,omitempty"`
	Prove            *OperationSnapshot `json:"prove,omitempty"`
	Verify           *OperationSnapshot `json:"verify,omitempty"`
}

// Operation names for the collector.
const (
	OpValidate = "validate"
	OpEntropy  = "entropy"
	OpProve    = "prove"
	OpVerify   = "verify"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu               sync.RWMutex
	startTime        time.Time
	ops              map[string]*OperationMetrics
	validTotal       int64
	invalidTotal     int64
	timeoutOverrides int64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{
			MinTime: time.Duration(math.MaxInt64),
		}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordOutcome records one validation decision.
func (c *Collector) RecordOutcome(valid, timedOut bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if valid {
		c.validTotal++
	} else {
		c.invalidTotal++
	}
	if timedOut {
		c.timeoutOverrides++
	}
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	return &OperationSnapshot{
		Count:       m.Count,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds:    time.Since(c.startTime).Seconds(),
		ValidTotal:       c.validTotal,
		InvalidTotal:     c.invalidTotal,
		TimeoutOverrides: c.timeoutOverrides,
		Validate:         snapshotOp(c.ops[OpValidate]),
		Entropy:          snapshotOp(c.ops[OpEntropy]),
		Prove:            snapshotOp(c.ops[OpProve]),
		Verify:           snapshotOp(c.ops[OpVerify]),
	}
}
