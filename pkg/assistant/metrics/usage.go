// Package metrics accumulates per-turn performance and usage samples for
// the lifetime of one session.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vango-go/assistant-core/pkg/core/types"
)

// KindStats is the reduced view of all samples of one kind. The reduction
// is commutative, so arrival order never changes the result.
type KindStats struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Avg   float64 `json:"avg"`
}

// Summary is the session-level aggregate produced at teardown.
type Summary struct {
	SampleCount int                  `json:"sample_count"`
	PerKind     map[string]KindStats `json:"per_kind"`
}

// String renders the summary for the shutdown log line, kinds sorted.
func (s Summary) String() string {
	if s.SampleCount == 0 {
		return "no samples"
	}
	kinds := make([]string, 0, len(s.PerKind))
	for kind := range s.PerKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	var b strings.Builder
	for i, kind := range kinds {
		if i > 0 {
			b.WriteString(" ")
		}
		stats := s.PerKind[kind]
		fmt.Fprintf(&b, "%s{count=%d sum=%.2f avg=%.2f}", kind, stats.Count, stats.Sum, stats.Avg)
	}
	return b.String()
}

// UsageCollector records samples during the session. Record never fails
// and is bounded by the session lifetime; nothing is persisted.
type UsageCollector struct {
	mu      sync.Mutex
	samples []types.MetricSample
}

func NewUsageCollector() *UsageCollector {
	return &UsageCollector{}
}

// Record appends one sample.
func (c *UsageCollector) Record(sample types.MetricSample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, sample)
}

// Collect takes ownership of samples handed off from session state at
// teardown.
func (c *UsageCollector) Collect(samples []types.MetricSample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, samples...)
}

// Summary reduces the recorded samples. Zero samples yields an empty
// summary, not an error.
func (c *UsageCollector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	summary := Summary{
		SampleCount: len(c.samples),
		PerKind:     make(map[string]KindStats, 4),
	}
	for _, sample := range c.samples {
		stats := summary.PerKind[sample.Kind]
		stats.Count++
		stats.Sum += sample.Value
		summary.PerKind[sample.Kind] = stats
	}
	for kind, stats := range summary.PerKind {
		stats.Avg = stats.Sum / float64(stats.Count)
		summary.PerKind[kind] = stats
	}
	return summary
}
