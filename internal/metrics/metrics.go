package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Shop holds the operational counters of the basket and order flows.
type Shop struct {
	BasketsCreated  Counter
	LinesAdded      Counter
	OrdersCommitted Counter
	CommitFailures  Counter
	OrderLines      Counter
}

// Snapshot is a point-in-time copy of Shop suitable for JSON output.
type Snapshot struct {
	BasketsCreated  uint64 `json:"baskets_created"`
	LinesAdded      uint64 `json:"lines_added"`
	OrdersCommitted uint64 `json:"orders_committed"`
	CommitFailures  uint64 `json:"commit_failures"`
	OrderLines      uint64 `json:"order_lines"`
}

func (s *Shop) Snapshot() Snapshot {
	return Snapshot{
		BasketsCreated:  s.BasketsCreated.Load(),
		LinesAdded:      s.LinesAdded.Load(),
		OrdersCommitted: s.OrdersCommitted.Load(),
		CommitFailures:  s.CommitFailures.Load(),
		OrderLines:      s.OrderLines.Load(),
	}
}
