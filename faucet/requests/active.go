package requests

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pushchain/svm-faucet/faucet/metrics"
)

// Counter tracks requests in flight. It is observability only and never used
// for admission control.
type Counter struct {
	n     atomic.Int64
	gauge prometheus.Gauge
}

// Active is the process-wide counter.
var Active = NewCounter(metrics.ActiveRequests)

// NewCounter creates a counter mirrored into gauge (which may be nil)
func NewCounter(gauge prometheus.Gauge) *Counter {
	return &Counter{gauge: gauge}
}

// Enter increments the counter and returns the guard that undoes it.
func (c *Counter) Enter() *Guard {
	c.add(1)
	return &Guard{counter: c}
}

// Current returns the number of requests in flight
func (c *Counter) Current() int64 {
	return c.n.Load()
}

func (c *Counter) add(delta int64) {
	c.n.Add(delta)
	if c.gauge != nil {
		c.gauge.Add(float64(delta))
	}
}

// Guard decrements its counter exactly once, however many times Release is called.
// Use it as `defer guard.Release()` right after Enter.
type Guard struct {
	counter *Counter
	once    sync.Once
}

// Release decrements the counter on the first call.
func (g *Guard) Release() {
	g.once.Do(func() {
		g.counter.add(-1)
	})
}

// String renders the current count for log lines
func (g *Guard) String() string {
	return strconv.FormatInt(g.counter.Current(), 10)
}
