/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrumemo

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNegativeArg = errors.New("negative argument")

type countingSquare struct {
	calls map[int]int
	total int
}

func newCountingSquare() *countingSquare {
	return &countingSquare{calls: make(map[int]int)}
}

func (cs *countingSquare) Call(x int) (int, error) {
	cs.calls[x]++
	cs.total++
	if x < 0 {
		return 0, errNegativeArg
	}
	return x * x, nil
}

type testMetrics struct {
	Amount    int
	Hits      int
	Misses    int
	Evictions int
	Failures  int
}

func assertMetrics(t *testing.T, want testMetrics, pm *PrometheusMetrics) {
	t.Helper()
	assert.Equal(t, want.Amount, int(testutil.ToFloat64(pm.EntriesAmount.WithLabelValues())))
	assert.Equal(t, want.Hits, int(testutil.ToFloat64(pm.HitsTotal.WithLabelValues())))
	assert.Equal(t, want.Misses, int(testutil.ToFloat64(pm.MissesTotal.WithLabelValues())))
	assert.Equal(t, want.Evictions, int(testutil.ToFloat64(pm.EvictionsTotal.WithLabelValues())))
	assert.Equal(t, want.Failures, int(testutil.ToFloat64(pm.FailuresTotal.WithLabelValues())))
}

func makeMemo(t *testing.T, capacity int) (*LRUMemo[int, int], *countingSquare, *PrometheusMetrics) {
	t.Helper()
	square := newCountingSquare()
	pm := NewPrometheusMetrics()
	memo, err := NewWithOpts[int, int](square.Call, capacity, Options{MetricsCollector: pm})
	require.NoError(t, err)
	return memo, square, pm
}

func mustCall(t *testing.T, memo *LRUMemo[int, int], key int) int {
	t.Helper()
	val, err := memo.Call(key)
	require.NoError(t, err)
	return val
}

func TestNew(t *testing.T) {
	square := newCountingSquare()

	_, err := New[int, int](nil, 10)
	require.EqualError(t, err, "function must not be nil")

	_, err = New[int, int](square.Call, -1)
	require.EqualError(t, err, "capacity must be greater or equal to 0 (no memoization)")

	memo, err := NewDefault[int, int](square.Call)
	require.NoError(t, err)
	require.Equal(t, DefaultCapacity, memo.capacity)

	memo, err = NewFromConfig[int, int](square.Call, nil, Options{})
	require.NoError(t, err)
	require.Equal(t, DefaultCapacity, memo.capacity)

	memo, err = NewFromConfig[int, int](square.Call, &Config{Capacity: 3}, Options{})
	require.NoError(t, err)
	require.Equal(t, 3, memo.capacity)
}

func TestLRUMemo_Call(t *testing.T) {
	tests := []struct {
		name        string
		capacity    int
		fn          func(t *testing.T, memo *LRUMemo[int, int], square *countingSquare)
		wantMetrics testMetrics
	}{
		{
			name:     "hits and promotion, least recently used is evicted",
			capacity: 2,
			fn: func(t *testing.T, memo *LRUMemo[int, int], square *countingSquare) {
				require.Equal(t, 1, mustCall(t, memo, 1))
				require.Equal(t, []int{1}, memo.store.keys())

				require.Equal(t, 4, mustCall(t, memo, 2))
				require.Equal(t, []int{2, 1}, memo.store.keys())

				require.Equal(t, 1, mustCall(t, memo, 1)) // hit
				require.Equal(t, []int{1, 2}, memo.store.keys())

				require.Equal(t, 9, mustCall(t, memo, 3)) // 2 is evicted, though 1 was inserted earlier
				require.Equal(t, []int{3, 1}, memo.store.keys())

				require.Equal(t, 3, square.total)
			},
			wantMetrics: testMetrics{Amount: 2, Hits: 1, Misses: 3, Evictions: 1},
		},
		{
			name:     "repeated keys are computed once",
			capacity: 3,
			fn: func(t *testing.T, memo *LRUMemo[int, int], square *countingSquare) {
				for i := 0; i < 5; i++ {
					for _, key := range []int{7, 8, 9} {
						require.Equal(t, key*key, mustCall(t, memo, key))
					}
				}
				require.Equal(t, map[int]int{7: 1, 8: 1, 9: 1}, square.calls)
			},
			wantMetrics: testMetrics{Amount: 3, Hits: 12, Misses: 3},
		},
		{
			name:     "evicted key is computed again",
			capacity: 1,
			fn: func(t *testing.T, memo *LRUMemo[int, int], square *countingSquare) {
				mustCall(t, memo, 1)
				mustCall(t, memo, 2)
				mustCall(t, memo, 1)
				require.Equal(t, 2, square.calls[1])
				require.Equal(t, []int{1}, memo.store.keys())
			},
			wantMetrics: testMetrics{Amount: 1, Misses: 3, Evictions: 2},
		},
		{
			name:     "failure leaves memoized results untouched",
			capacity: 2,
			fn: func(t *testing.T, memo *LRUMemo[int, int], square *countingSquare) {
				mustCall(t, memo, 1)
				mustCall(t, memo, 2)
				keysBefore := memo.store.keys()

				_, err := memo.Call(-1)
				require.ErrorIs(t, err, errNegativeArg)
				require.Equal(t, keysBefore, memo.store.keys())

				// Failures are not memoized.
				_, err = memo.Call(-1)
				require.ErrorIs(t, err, errNegativeArg)
				require.Equal(t, 2, square.calls[-1])
				require.Equal(t, keysBefore, memo.store.keys())

				require.Equal(t, 4, mustCall(t, memo, 2))
				require.Equal(t, 1, square.calls[2])
			},
			wantMetrics: testMetrics{Amount: 2, Hits: 1, Misses: 4, Failures: 2},
		},
		{
			name:     "zero capacity, nothing is memoized",
			capacity: 0,
			fn: func(t *testing.T, memo *LRUMemo[int, int], square *countingSquare) {
				for i := 0; i < 3; i++ {
					require.Equal(t, 25, mustCall(t, memo, 5))
				}
				require.Equal(t, 3, square.calls[5])
				require.Equal(t, 0, memo.store.len())
			},
			wantMetrics: testMetrics{Misses: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memo, square, pm := makeMemo(t, tt.capacity)
			tt.fn(t, memo, square)
			assertMetrics(t, tt.wantMetrics, pm)
		})
	}
}

// TestLRUMemo_Call_RecencyModel replays random calls against a naive slice-based LRU
// and checks that both keep the same keys in the same order.
func TestLRUMemo_Call_RecencyModel(t *testing.T) {
	for _, capacity := range []int{1, 2, 5, 16} {
		t.Run(fmt.Sprintf("capacity %d", capacity), func(t *testing.T) {
			memo, square, _ := makeMemo(t, capacity)
			rnd := rand.New(rand.NewSource(int64(capacity)))

			var model []int // most recently used first
			wantCalls := 0
			for i := 0; i < 2000; i++ {
				key := rnd.Intn(capacity * 3)

				pos := -1
				for j, k := range model {
					if k == key {
						pos = j
						break
					}
				}
				if pos >= 0 {
					model = append(model[:pos], model[pos+1:]...)
				} else {
					wantCalls++
				}
				model = append([]int{key}, model...)
				if len(model) > capacity {
					model = model[:capacity]
				}

				require.Equal(t, key*key, mustCall(t, memo, key))
				require.LessOrEqual(t, memo.store.len(), capacity)
				require.Equal(t, model, memo.store.keys())
			}
			require.Equal(t, wantCalls, square.total)
		})
	}
}

func TestPure(t *testing.T) {
	memo, err := New[string, int](Pure(func(s string) int { return len(s) }), 2)
	require.NoError(t, err)

	got, err := memo.Call("navitia")
	require.NoError(t, err)
	require.Equal(t, 7, got)
}
