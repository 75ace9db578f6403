package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration time.Duration
	started       time.Time
}

// Counter is a single labelled counter value.
type Counter struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds   int64     `json:"uptimeSeconds"`
	TotalRequests   int64     `json:"totalRequests"`
	AvgLatencyMilli float64   `json:"avgLatencyMs"`
	Requests        []Counter `json:"requests"`
	Errors          []Counter `json:"errors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		started:      time.Now(),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalDuration += duration
}

// RecordError increments error counters keyed by error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := pathKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the current counters, sorted by key.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		Requests:      toCounters(m.requestCount),
		Errors:        toCounters(m.errorCount),
	}
	for _, c := range snap.Requests {
		snap.TotalRequests += c.Count
	}
	if snap.TotalRequests > 0 {
		snap.AvgLatencyMilli = float64(m.totalDuration.Microseconds()) / 1000 / float64(snap.TotalRequests)
	}
	return snap
}

func toCounters(src map[string]int64) []Counter {
	out := make([]Counter, 0, len(src))
	for k, v := range src {
		out = append(out, Counter{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func pathKey(path, method, suffix string) string {
	return method + " " + path + "|" + suffix
}
