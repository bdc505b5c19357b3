package observability

import (
	"sync"
	"time"
)

type requestKey struct {
	path   string
	method string
	status int
}

type errorKey struct {
	path   string
	method string
	code   string
}

// Metrics keeps in-process request and error counters plus cumulative
// latency per route.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[requestKey]int64
	durationSum  map[requestKey]time.Duration
	errorCount   map[errorKey]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[requestKey]int64),
		durationSum:  make(map[requestKey]time.Duration),
		errorCount:   make(map[errorKey]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := requestKey{path: path, method: method, status: status}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.durationSum[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := errorKey{path: path, method: method, code: code}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot is a flat, serializable view of the counters.
type Snapshot struct {
	Requests []RequestStat `json:"requests"`
	Errors   []ErrorStat   `json:"errors"`
}

// RequestStat is one route/status counter.
type RequestStat struct {
	Path      string `json:"path"`
	Method    string `json:"method"`
	Status    int    `json:"status"`
	Count     int64  `json:"count"`
	AvgMillis int64  `json:"avg_ms"`
}

// ErrorStat is one route/error-code counter.
type ErrorStat struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	Code   string `json:"code"`
	Count  int64  `json:"count"`
}

// Snapshot copies the counters for serving.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Requests: make([]RequestStat, 0, len(m.requestCount)),
		Errors:   make([]ErrorStat, 0, len(m.errorCount)),
	}
	for key, count := range m.requestCount {
		avg := int64(0)
		if count > 0 {
			avg = m.durationSum[key].Milliseconds() / count
		}
		snap.Requests = append(snap.Requests, RequestStat{
			Path:      key.path,
			Method:    key.method,
			Status:    key.status,
			Count:     count,
			AvgMillis: avg,
		})
	}
	for key, count := range m.errorCount {
		snap.Errors = append(snap.Errors, ErrorStat{
			Path:   key.path,
			Method: key.method,
			Code:   key.code,
			Count:  count,
		})
	}
	return snap
}
