/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrumemo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecencyStore(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		s := newRecencyStore[string, int](0)
		_, found := s.find("a")
		require.False(t, found)
		_, evicted := s.evictBack()
		require.False(t, evicted)
		require.Equal(t, 0, s.len())
		require.Empty(t, s.keys())
	})

	t.Run("insert front and find", func(t *testing.T) {
		s := newRecencyStore[string, int](3)
		s.insertFront("a", 1)
		s.insertFront("b", 2)
		s.insertFront("c", 3)
		require.Equal(t, 3, s.len())
		require.Equal(t, []string{"c", "b", "a"}, s.keys())

		slot, found := s.find("b")
		require.True(t, found)
		require.Equal(t, 2, s.value(slot))
		require.Equal(t, []string{"c", "b", "a"}, s.keys(), "find must not change the recency order")
	})

	t.Run("promote", func(t *testing.T) {
		s := newRecencyStore[string, int](3)
		slotA := s.insertFront("a", 1)
		s.insertFront("b", 2)
		slotC := s.insertFront("c", 3)

		s.promote(slotA)
		require.Equal(t, []string{"a", "c", "b"}, s.keys())

		s.promote(slotA)
		require.Equal(t, []string{"a", "c", "b"}, s.keys(), "promoting the front entry is a no-op")

		s.promote(slotC)
		require.Equal(t, []string{"c", "a", "b"}, s.keys())

		slotB, _ := s.find("b")
		s.promote(slotB)
		require.Equal(t, []string{"b", "c", "a"}, s.keys())
	})

	t.Run("evict back", func(t *testing.T) {
		s := newRecencyStore[string, int](3)
		s.insertFront("a", 1)
		s.insertFront("b", 2)
		s.insertFront("c", 3)

		key, ok := s.evictBack()
		require.True(t, ok)
		require.Equal(t, "a", key)
		_, found := s.find("a")
		require.False(t, found)
		require.Equal(t, []string{"c", "b"}, s.keys())

		for _, want := range []string{"b", "c"} {
			key, ok = s.evictBack()
			require.True(t, ok)
			require.Equal(t, want, key)
		}
		require.Equal(t, 0, s.len())
		require.Empty(t, s.keys())

		_, ok = s.evictBack()
		require.False(t, ok)
	})

	t.Run("evicted slots are reused", func(t *testing.T) {
		s := newRecencyStore[int, int](2)
		for i := 0; i < 100; i++ {
			s.insertFront(i, i*i)
			if s.len() > 2 {
				_, ok := s.evictBack()
				require.True(t, ok)
			}
		}
		require.LessOrEqual(t, len(s.slots), 3)
		require.Equal(t, []int{99, 98}, s.keys())
		slot, found := s.find(98)
		require.True(t, found)
		require.Equal(t, 98*98, s.value(slot))
	})

	t.Run("duplicate key insertion panics", func(t *testing.T) {
		s := newRecencyStore[string, int](1)
		s.insertFront("a", 1)
		require.Panics(t, func() { s.insertFront("a", 2) })
	})
}
