package metrics

import (
	"math"
	"slices"
	"sync"
	"time"
)

// Histogram keeps the most recent duration samples, in milliseconds, and
// reports percentiles over them.
type Histogram struct {
	mu      sync.RWMutex
	samples []float64
	next    int // ring position of the next overwrite once full
	size    int
}

// NewHistogram creates a histogram holding up to size samples. Once full,
// each new sample replaces the oldest.
func NewHistogram(size int) *Histogram {
	if size <= 0 {
		size = 1000
	}
	return &Histogram{samples: make([]float64, 0, size), size: size}
}

// Record adds a duration sample.
func (h *Histogram) Record(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.samples) < h.size {
		h.samples = append(h.samples, ms)
		return
	}
	h.samples[h.next] = ms
	h.next = (h.next + 1) % h.size
}

// Percentile returns the value at percentile p (0-100), interpolating
// between neighbouring samples.
func (h *Histogram) Percentile(p float64) float64 {
	h.mu.RLock()
	sorted := slices.Sorted(slices.Values(h.samples))
	h.mu.RUnlock()
	return percentile(sorted, p)
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := (p / 100.0) * float64(len(sorted)-1)
	lower, upper := int(math.Floor(index)), int(math.Ceil(index))
	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}

// Count returns the number of samples held.
func (h *Histogram) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.samples)
}

// Summary returns the latency statistics of the held samples.
func (h *Histogram) Summary() LatencyStats {
	h.mu.RLock()
	sorted := slices.Sorted(slices.Values(h.samples))
	h.mu.RUnlock()

	stats := LatencyStats{Count: len(sorted)}
	if len(sorted) == 0 {
		return stats
	}
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	stats.Mean = sum / float64(len(sorted))
	stats.P50 = percentile(sorted, 50)
	stats.P95 = percentile(sorted, 95)
	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	return stats
}

// Reset clears all samples.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
	h.next = 0
}
