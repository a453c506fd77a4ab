package perf

import (
	"sort"
	"sync"
	"time"

	"groovebot/model"

	"github.com/shirou/gopsutil/v3/mem"
)

// Metric bucket names used by the dispatcher and event layer.
const (
	BucketCommands = "commands"
	BucketEvents   = "events"
	BucketQueries  = "queries"
)

// HealthStatus is the three-tier derived health state.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// Sample is one raw timing observation kept in the rolling window.
type Sample struct {
	Name     string
	Duration time.Duration
	At       time.Time
	Failed   bool
}

type bucketStats struct {
	count    uint64
	failures uint64
	min      time.Duration
	max      time.Duration
	sum      time.Duration
}

// BucketSnapshot is the derived view of one metric bucket.
type BucketSnapshot struct {
	Count    uint64
	Failures uint64
	Min      time.Duration
	Max      time.Duration
	Avg      time.Duration
}

// HealthReport is the monitor's derived health view.
type HealthReport struct {
	Status            HealthStatus
	MemoryUsedPercent float64
	ErrorCount        int
	Uptime            time.Duration
}

// Monitor aggregates timing and error observations in memory. Pure
// aggregation: no side effects beyond its own maps.
type Monitor struct {
	mu       sync.Mutex
	buckets  map[string]*bucketStats
	samples  map[string][]Sample
	errors   map[string]int
	settings model.MonitorSettings
	started  time.Time
}

// NewMonitor creates a monitor keeping at most settings.SampleWindow raw
// samples per bucket.
func NewMonitor(settings model.MonitorSettings) *Monitor {
	if settings.SampleWindow <= 0 {
		settings.SampleWindow = 1000
	}
	if settings.MemoryWarn <= 0 {
		settings.MemoryWarn = 80
	}
	if settings.MemoryCritical <= 0 {
		settings.MemoryCritical = 92
	}
	if settings.ErrorWarn <= 0 {
		settings.ErrorWarn = 50
	}
	if settings.ErrorCritical <= 0 {
		settings.ErrorCritical = 200
	}
	return &Monitor{
		buckets:  make(map[string]*bucketStats),
		samples:  make(map[string][]Sample),
		errors:   make(map[string]int),
		settings: settings,
		started:  time.Now(),
	}
}

// Record adds one timing observation to the named bucket.
func (m *Monitor) Record(bucket, name string, d time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.buckets[bucket]
	if !ok {
		stats = &bucketStats{min: d, max: d}
		m.buckets[bucket] = stats
	}
	stats.count++
	stats.sum += d
	if failed {
		stats.failures++
	}
	if d < stats.min {
		stats.min = d
	}
	if d > stats.max {
		stats.max = d
	}

	window := append(m.samples[bucket], Sample{Name: name, Duration: d, At: time.Now(), Failed: failed})
	if over := len(window) - m.settings.SampleWindow; over > 0 {
		window = window[over:]
	}
	m.samples[bucket] = window
}

// RecordError tallies one error under (category, message).
func (m *Monitor) RecordError(category, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[category+"|"+message]++
}

// Bucket returns the derived view of one bucket; zero value if unseen.
func (m *Monitor) Bucket(bucket string) BucketSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.buckets[bucket]
	if !ok || stats.count == 0 {
		return BucketSnapshot{}
	}
	return BucketSnapshot{
		Count:    stats.count,
		Failures: stats.failures,
		Min:      stats.min,
		Max:      stats.max,
		Avg:      stats.sum / time.Duration(stats.count),
	}
}

// Percentile returns the p-th percentile (0 < p <= 100) of the bucket's
// rolling sample window, or zero with no samples.
func (m *Monitor) Percentile(bucket string, p float64) time.Duration {
	m.mu.Lock()
	window := m.samples[bucket]
	durations := make([]time.Duration, len(window))
	for i, sample := range window {
		durations[i] = sample.Duration
	}
	m.mu.Unlock()

	if len(durations) == 0 {
		return 0
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	idx := int(float64(len(durations))*p/100) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(durations) {
		idx = len(durations) - 1
	}
	return durations[idx]
}

// SlowOps returns samples from the bucket's window at or above threshold.
func (m *Monitor) SlowOps(bucket string, threshold time.Duration) []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()

	var slow []Sample
	for _, sample := range m.samples[bucket] {
		if sample.Duration >= threshold {
			slow = append(slow, sample)
		}
	}
	return slow
}

// ErrorCount returns the total tallied errors across all categories.
func (m *Monitor) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.errors {
		total += n
	}
	return total
}

// Errors returns a copy of the (category|message) -> count tally.
func (m *Monitor) Errors() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	tally := make(map[string]int, len(m.errors))
	for k, v := range m.errors {
		tally[k] = v
	}
	return tally
}

// Uptime returns time since the monitor was created.
func (m *Monitor) Uptime() time.Duration {
	return time.Since(m.started)
}

// Health derives the three-tier status from memory headroom and error
// volume. Memory stats come from gopsutil; a read failure counts as zero
// usage rather than degrading health.
func (m *Monitor) Health() HealthReport {
	var usedPercent float64
	if vm, err := mem.VirtualMemory(); err == nil {
		usedPercent = vm.UsedPercent
	}
	errorCount := m.ErrorCount()

	status := HealthHealthy
	switch {
	case usedPercent >= m.settings.MemoryCritical || errorCount >= m.settings.ErrorCritical:
		status = HealthCritical
	case usedPercent >= m.settings.MemoryWarn || errorCount >= m.settings.ErrorWarn:
		status = HealthWarning
	}

	return HealthReport{
		Status:            status,
		MemoryUsedPercent: usedPercent,
		ErrorCount:        errorCount,
		Uptime:            m.Uptime(),
	}
}
