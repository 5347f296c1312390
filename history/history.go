// Package history maintains fixed-capacity rolling series of scalar metric
// samples, one per metric key, used by sparkline and trend consumers.
// Series are ordered by arrival with no timestamps or smoothing; consumers
// assume uniform sampling at the polling interval.
package history

import (
	"sync"

	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// DefaultCapacity is the number of samples retained per key when no
// capacity is configured. At the default 2-second poll interval this
// covers one minute of history.
const DefaultCapacity = 30

// Keys lists every metric key tracked by a Store, in display order.
var Keys = []metrics.Domain{
	metrics.DomainCPU,
	metrics.DomainMemory,
	metrics.DomainGPU,
	metrics.DomainDisk,
}

// Store holds one bounded series per metric key. Appends come from the
// single polling writer; reads return copies so concurrent readers never
// observe a torn series. Capacity is fixed at construction.
type Store struct {
	mu       sync.RWMutex
	capacity int
	series   map[metrics.Domain][]float64
}

// NewStore creates an empty Store. A capacity of zero or less falls back
// to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{
		capacity: capacity,
		series:   make(map[metrics.Domain][]float64, len(Keys)),
	}
	for _, k := range Keys {
		s.series[k] = make([]float64, 0, capacity)
	}
	return s
}

// Capacity returns the fixed per-key sample capacity.
func (s *Store) Capacity() int {
	return s.capacity
}

// Append pushes a value onto the end of the key's series, evicting the
// oldest samples beyond capacity. Unknown keys are ignored.
func (s *Store) Append(key metrics.Domain, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	series, ok := s.series[key]
	if !ok {
		return
	}
	series = append(series, value)
	if len(series) > s.capacity {
		series = series[len(series)-s.capacity:]
	}
	s.series[key] = series
}

// Observe appends exactly one sample per tracked key from the given
// snapshot. Domains without data this cycle append the defaulted zero so
// every series advances in lockstep with the polling cadence.
func (s *Store) Observe(snap metrics.Snapshot) {
	for _, k := range Keys {
		v, _ := snap.Primary(k)
		s.Append(k, v)
	}
}

// Get returns a copy of the key's series in arrival order. Unknown keys
// return nil.
func (s *Store) Get(key metrics.Domain) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.series[key]
	if !ok {
		return nil
	}
	out := make([]float64, len(series))
	copy(out, series)
	return out
}

// Reset clears every series. Capacity is unchanged.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.series {
		s.series[k] = s.series[k][:0]
	}
}

// Export returns a copy of all series keyed by metric name, for cache
// persistence.
func (s *Store) Export() map[metrics.Domain][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[metrics.Domain][]float64, len(s.series))
	for k, series := range s.series {
		cp := make([]float64, len(series))
		copy(cp, series)
		out[k] = cp
	}
	return out
}

// Restore replaces series contents from previously exported data, trimming
// each series to capacity. Keys not tracked by the store are dropped.
func (s *Store) Restore(data map[metrics.Domain][]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.series {
		saved, ok := data[k]
		if !ok {
			continue
		}
		if len(saved) > s.capacity {
			saved = saved[len(saved)-s.capacity:]
		}
		cp := make([]float64, len(saved))
		copy(cp, saved)
		s.series[k] = cp
	}
}
