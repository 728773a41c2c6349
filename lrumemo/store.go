/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrumemo

import "fmt"

const noSlot = -1

type storeSlot[K comparable, V any] struct {
	key   K
	value V
	prev  int // towards the front (more recently used)
	next  int // towards the back (less recently used)
}

// recencyStore keeps entries in an arena of slots linked into a doubly-linked recency list,
// plus a key index pointing into the arena.
// Front of the list is the most recently used entry, back is the least recently used one.
type recencyStore[K comparable, V any] struct {
	slots []storeSlot[K, V]
	free  []int
	index map[K]int
	head  int
	tail  int
}

func newRecencyStore[K comparable, V any](sizeHint int) *recencyStore[K, V] {
	return &recencyStore[K, V]{
		slots: make([]storeSlot[K, V], 0, sizeHint),
		index: make(map[K]int, sizeHint),
		head:  noSlot,
		tail:  noSlot,
	}
}

func (s *recencyStore[K, V]) len() int {
	return len(s.index)
}

// find returns the slot holding the key. It doesn't change the recency order.
func (s *recencyStore[K, V]) find(key K) (slot int, ok bool) {
	slot, ok = s.index[key]
	return slot, ok
}

func (s *recencyStore[K, V]) value(slot int) V {
	return s.slots[slot].value
}

// promote moves the slot to the front of the recency list.
func (s *recencyStore[K, V]) promote(slot int) {
	if s.head == slot {
		return
	}
	s.unlink(slot)
	s.linkFront(slot)
}

// insertFront adds a new entry at the front of the recency list.
// The key must not be present in the store.
func (s *recencyStore[K, V]) insertFront(key K, value V) int {
	if _, exists := s.index[key]; exists {
		panic(fmt.Sprintf("lrumemo: key %v is already present in the store", key))
	}

	var slot int
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[slot] = storeSlot[K, V]{key: key, value: value}
	} else {
		slot = len(s.slots)
		s.slots = append(s.slots, storeSlot[K, V]{key: key, value: value})
	}
	s.linkFront(slot)
	s.index[key] = slot
	return slot
}

// evictBack removes the least recently used entry and returns its key.
func (s *recencyStore[K, V]) evictBack() (key K, ok bool) {
	slot := s.tail
	if slot == noSlot {
		return key, false
	}
	s.unlink(slot)
	key = s.slots[slot].key
	delete(s.index, key)
	s.slots[slot] = storeSlot[K, V]{} // drop references held by the evicted key and value
	s.free = append(s.free, slot)
	return key, true
}

// keys returns all keys from the most to the least recently used.
func (s *recencyStore[K, V]) keys() []K {
	keys := make([]K, 0, s.len())
	for slot := s.head; slot != noSlot; slot = s.slots[slot].next {
		keys = append(keys, s.slots[slot].key)
	}
	return keys
}

func (s *recencyStore[K, V]) linkFront(slot int) {
	s.slots[slot].prev = noSlot
	s.slots[slot].next = s.head
	if s.head != noSlot {
		s.slots[s.head].prev = slot
	}
	s.head = slot
	if s.tail == noSlot {
		s.tail = slot
	}
}

func (s *recencyStore[K, V]) unlink(slot int) {
	prev, next := s.slots[slot].prev, s.slots[slot].next
	if prev != noSlot {
		s.slots[prev].next = next
	} else {
		s.head = next
	}
	if next != noSlot {
		s.slots[next].prev = prev
	} else {
		s.tail = prev
	}
	s.slots[slot].prev, s.slots[slot].next = noSlot, noSlot
}
