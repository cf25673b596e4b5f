// Package hashtable implements an open-addressing hash table keyed on
// byte-strings. Collisions are resolved by double hashing and deleted
// slots become tombstones so that probe chains stay intact. Tables are
// not safe for concurrent use; training is single-writer.
package hashtable

import (
	"bytes"
	"errors"
	"math"
)

var (
	// ErrInvalidInput is returned for a nil table, a nil or empty key,
	// or a zero capacity.
	ErrInvalidInput = errors.New("hashtable: invalid input")

	// ErrTableFull is returned when a key cannot be placed within the
	// probe budget even after growing the table.
	ErrTableFull = errors.New("hashtable: table full")

	// ErrKeyNotFound is returned by Delete when the key is absent.
	ErrKeyNotFound = errors.New("hashtable: key not found")

	// ErrAllocation is returned when the table cannot grow any further.
	ErrAllocation = errors.New("hashtable: allocation failed")
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type slot[V any] struct {
	state slotState
	key   []byte
	value V
}

// Table maps byte-string keys to values of type V. Capacity is always a
// power of two so the double-hash step, forced odd, visits every slot
// exactly once within len(slots) probes.
type Table[V any] struct {
	slots    []slot[V]
	count    int // occupied slots, tombstones excluded
	used     int // occupied plus tombstoned slots
	copyKeys bool
}

const (
	minCapacity = 8

	// grow once used slots exceed this fraction of capacity
	maxLoadFactor = 0.7
)

// New creates a table with at least the requested capacity. The table
// owns its keys: Set stores a private copy of the key bytes, so callers
// are free to reuse their buffers.
func New[V any](capacity int) (*Table[V], error) {
	return create[V](capacity, true)
}

// NewShared is like New but the table aliases caller-provided key
// slices instead of copying them. The caller must not mutate a key
// after handing it to Set.
func NewShared[V any](capacity int) (*Table[V], error) {
	return create[V](capacity, false)
}

func create[V any](capacity int, copyKeys bool) (*Table[V], error) {
	if capacity <= 0 {
		return nil, ErrInvalidInput
	}

	size := minCapacity
	for size < capacity {
		if size > math.MaxInt/2 {
			return nil, ErrAllocation
		}
		size *= 2
	}

	return &Table[V]{
		slots:    make([]slot[V], size),
		copyKeys: copyKeys,
	}, nil
}

// Len reports the number of live entries. Tombstones are excluded.
func (t *Table[V]) Len() int {
	if t == nil {
		return 0
	}
	return t.count
}

// Cap reports the current slot capacity.
func (t *Table[V]) Cap() int {
	if t == nil {
		return 0
	}
	return len(t.slots)
}

func djb2(key []byte) uint64 {
	h := uint64(5381)
	for _, b := range key {
		h = h*33 + uint64(b)
	}
	return h
}

// probe returns the slot index for the ith attempt. The step is odd and
// the capacity a power of two, so i = 0..cap-1 is a permutation of all
// slot indices.
func (t *Table[V]) probe(h uint64, i int) int {
	step := (h >> 17) | 1
	return int((h + uint64(i)*step) & uint64(len(t.slots)-1))
}

// Set inserts the key or updates its value in place. The table grows
// and rehashes once when the load factor threshold is crossed or the
// probe budget is exhausted; ErrTableFull is returned only if the
// retried insert also fails.
func (t *Table[V]) Set(key []byte, value V) error {
	if t == nil || len(key) == 0 {
		return ErrInvalidInput
	}

	if float64(t.used+1) > maxLoadFactor*float64(len(t.slots)) {
		if err := t.grow(); err != nil {
			return err
		}
	}

	if t.set(key, value) {
		return nil
	}
	if err := t.grow(); err != nil {
		return err
	}
	if t.set(key, value) {
		return nil
	}
	return ErrTableFull
}

// set walks the probe sequence, updating an equal key in place or
// claiming the first tombstone seen once the key is known to be absent.
func (t *Table[V]) set(key []byte, value V) bool {
	h := djb2(key)
	grave := -1
	for i := range t.slots {
		j := t.probe(h, i)
		s := &t.slots[j]
		switch s.state {
		case slotEmpty:
			if grave >= 0 {
				j = grave
				s = &t.slots[j]
			} else {
				t.used++
			}
			s.state = slotOccupied
			s.key = t.ownKey(key)
			s.value = value
			t.count++
			return true
		case slotTombstone:
			if grave < 0 {
				grave = j
			}
		case slotOccupied:
			if bytes.Equal(s.key, key) {
				s.value = value
				return true
			}
		}
	}

	if grave >= 0 {
		s := &t.slots[grave]
		s.state = slotOccupied
		s.key = t.ownKey(key)
		s.value = value
		t.count++
		return true
	}
	return false
}

func (t *Table[V]) ownKey(key []byte) []byte {
	if !t.copyKeys {
		return key
	}
	return append([]byte(nil), key...)
}

// Get returns the value stored under key. The walk stops at the first
// plain-empty slot; tombstoned slots are probed past.
func (t *Table[V]) Get(key []byte) (V, bool) {
	var zero V
	if t == nil || len(key) == 0 {
		return zero, false
	}

	h := djb2(key)
	for i := range t.slots {
		j := t.probe(h, i)
		s := &t.slots[j]
		switch s.state {
		case slotEmpty:
			return zero, false
		case slotOccupied:
			if bytes.Equal(s.key, key) {
				return s.value, true
			}
		}
	}
	return zero, false
}

// Delete tombstones the slot holding key. Marking it plain-empty would
// cut the probe chain and strand entries inserted past this slot.
func (t *Table[V]) Delete(key []byte) error {
	if t == nil || len(key) == 0 {
		return ErrInvalidInput
	}

	h := djb2(key)
	for i := range t.slots {
		j := t.probe(h, i)
		s := &t.slots[j]
		switch s.state {
		case slotEmpty:
			return ErrKeyNotFound
		case slotOccupied:
			if bytes.Equal(s.key, key) {
				var zero V
				s.state = slotTombstone
				s.key = nil
				s.value = zero
				t.count--
				return nil
			}
		}
	}
	return ErrKeyNotFound
}

// Clear drops every entry and tombstone without shrinking capacity.
func (t *Table[V]) Clear() {
	if t == nil {
		return
	}
	clear(t.slots)
	t.count = 0
	t.used = 0
}

// Range calls fn for each live entry in slot order until fn returns
// false. Slot order is an artifact of hashing and carries no meaning;
// callers must only use it for commutative accumulation.
func (t *Table[V]) Range(fn func(key []byte, value V) bool) {
	if t == nil {
		return
	}
	for i := range t.slots {
		s := &t.slots[i]
		if s.state == slotOccupied {
			if !fn(s.key, s.value) {
				return
			}
		}
	}
}

// grow doubles capacity and rehashes live entries. Tombstones are
// dropped in the process.
func (t *Table[V]) grow() error {
	if len(t.slots) > math.MaxInt/2 {
		return ErrAllocation
	}

	old := t.slots
	t.slots = make([]slot[V], len(old)*2)
	t.count = 0
	t.used = 0
	for i := range old {
		s := &old[i]
		if s.state != slotOccupied {
			continue
		}
		// keys are already owned; reinsert without re-copying
		h := djb2(s.key)
		for p := range t.slots {
			j := t.probe(h, p)
			d := &t.slots[j]
			if d.state == slotEmpty {
				d.state = slotOccupied
				d.key = s.key
				d.value = s.value
				t.count++
				t.used++
				break
			}
		}
	}
	return nil
}
