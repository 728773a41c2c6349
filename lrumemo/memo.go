/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrumemo

import "fmt"

// DefaultCapacity is the maximum number of memoized results used by NewDefault.
const DefaultCapacity = 10

const maxPreallocatedSlots = 1024

// Func is a function which results may be memoized.
// It must be pure: the same argument always produces the same result.
type Func[K comparable, V any] func(key K) (V, error)

// Pure adapts a function that cannot fail to Func.
func Pure[K comparable, V any](fn func(key K) V) Func[K, V] {
	return func(key K) (V, error) {
		return fn(key), nil
	}
}

// LRUMemo wraps a pure function and memoizes its results.
// When the number of memoized results exceeds the capacity, the least recently used one is evicted.
//
// LRUMemo is not safe for concurrent use: every call, even a hit, changes the recency order.
// An instance must be owned by a single goroutine or guarded by the caller.
type LRUMemo[K comparable, V any] struct {
	fn       Func[K, V]
	capacity int
	store    *recencyStore[K, V]

	metricsCollector MetricsCollector
}

// Options represents options for the LRUMemo.
type Options struct {
	// MetricsCollector is used to collect statistics about memoization.
	// It can be nil, in this case, metrics will be disabled.
	MetricsCollector MetricsCollector
}

// New creates a new LRUMemo that keeps at most capacity results of fn.
// Zero capacity means that results are never memoized and fn is called every time.
func New[K comparable, V any](fn Func[K, V], capacity int) (*LRUMemo[K, V], error) {
	return NewWithOpts[K, V](fn, capacity, Options{})
}

// NewDefault creates a new LRUMemo with DefaultCapacity.
func NewDefault[K comparable, V any](fn Func[K, V]) (*LRUMemo[K, V], error) {
	return NewWithOpts[K, V](fn, DefaultCapacity, Options{})
}

// NewFromConfig creates a new LRUMemo with the capacity taken from the configuration.
// Nil configuration means default one.
func NewFromConfig[K comparable, V any](fn Func[K, V], cfg *Config, opts Options) (*LRUMemo[K, V], error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return NewWithOpts[K, V](fn, cfg.Capacity, opts)
}

// NewWithOpts creates a new LRUMemo with the provided capacity and options.
func NewWithOpts[K comparable, V any](fn Func[K, V], capacity int, opts Options) (*LRUMemo[K, V], error) {
	if fn == nil {
		return nil, fmt.Errorf("function must not be nil")
	}
	if capacity < 0 {
		return nil, fmt.Errorf("capacity must be greater or equal to 0 (no memoization)")
	}
	metricsCollector := opts.MetricsCollector
	if metricsCollector == nil {
		metricsCollector = disabledMetricsCollector
	}
	return &LRUMemo[K, V]{
		fn:               fn,
		capacity:         capacity,
		store:            newRecencyStore[K, V](min(capacity, maxPreallocatedSlots) + 1),
		metricsCollector: metricsCollector,
	}, nil
}

// Call returns the result of the wrapped function for the key.
// The memoized result is returned if there is one, otherwise the function is called
// and its result is memoized as the most recently used.
// An error returned by the function is passed through as is and nothing is memoized.
func (m *LRUMemo[K, V]) Call(key K) (V, error) {
	if slot, ok := m.store.find(key); ok {
		m.store.promote(slot)
		m.metricsCollector.IncHits()
		return m.store.value(slot), nil
	}
	m.metricsCollector.IncMisses()

	value, err := m.fn(key)
	if err != nil {
		m.metricsCollector.IncFailures()
		return value, err
	}
	if m.capacity == 0 {
		return value, nil
	}

	m.store.insertFront(key, value)
	evicted := 0
	for m.store.len() > m.capacity {
		if _, ok := m.store.evictBack(); !ok {
			break
		}
		evicted++
	}
	m.metricsCollector.SetAmount(m.store.len())
	if evicted > 0 {
		m.metricsCollector.AddEvictions(evicted)
	}
	return value, nil
}
