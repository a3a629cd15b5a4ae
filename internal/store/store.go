// Package store provides the concurrent keyed container shared by the
// product, order and user services.
package store

import (
	"sort"
	"sync"
)

// Outcome reports how a mutating call ended. Expected misses are outcomes,
// not errors.
type Outcome uint8

const (
	Applied Outcome = iota
	NotFound
	Conflict
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Option configures a Store.
type Option[V any] func(*Store[V])

// WithClone sets the deep-copy function used on every read and write so that
// callers never share slices or maps with the stored value.
func WithClone[V any](clone func(V) V) Option[V] {
	return func(s *Store[V]) {
		s.clone = clone
	}
}

// WithUniqueIndex adds a secondary index keyed by key(v). The key must be
// unique across stored values; an empty key is not indexed.
func WithUniqueIndex[V any](key func(V) string) Option[V] {
	return func(s *Store[V]) {
		s.indexKey = key
		s.index = make(map[string]uint64)
	}
}

// Store maps monotonically assigned ids to values. The primary map, the
// optional unique index and the id counter are guarded by one lock.
type Store[V any] struct {
	mu     sync.RWMutex
	nextID uint64
	items  map[uint64]V

	indexKey func(V) string
	index    map[string]uint64

	setID func(*V, uint64)
	clone func(V) V
}

// New creates an empty store. setID stamps the allocated id into a value.
func New[V any](setID func(*V, uint64), opts ...Option[V]) *Store[V] {
	s := &Store[V]{
		nextID: 1,
		items:  make(map[uint64]V),
		setID:  setID,
		clone:  func(v V) V { return v },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert allocates the next id, stamps it into v and stores it. The outcome
// is Conflict only when v collides with the unique index; no id is consumed
// in that case.
func (s *Store[V]) Insert(v V) (V, Outcome) {
	v = s.clone(v)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.keyOf(v)
	if key != "" {
		if _, taken := s.index[key]; taken {
			var zero V
			return zero, Conflict
		}
	}

	id := s.nextID
	s.nextID++
	s.setID(&v, id)
	s.items[id] = v
	if key != "" {
		s.index[key] = id
	}

	return s.clone(v), Applied
}

// Get returns the value stored under id.
func (s *Store[V]) Get(id uint64) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		var zero V
		return zero, false
	}
	return s.clone(v), true
}

// Lookup resolves a value through the unique index.
func (s *Store[V]) Lookup(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero V
	if s.index == nil || key == "" {
		return zero, false
	}
	id, ok := s.index[key]
	if !ok {
		return zero, false
	}
	return s.clone(s.items[id]), true
}

// List returns a point-in-time copy of all values in id order.
func (s *Store[V]) List() []V {
	return s.Filter(nil)
}

// Filter returns a point-in-time copy of the values matching keep, in id
// order. A nil keep matches everything.
func (s *Store[V]) Filter(keep func(V) bool) []V {
	s.mu.RLock()
	ids := make([]uint64, 0, len(s.items))
	for id, v := range s.items {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	out := make([]V, 0, len(ids))
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		out = append(out, s.clone(s.items[id]))
	}
	s.mu.RUnlock()

	return out
}

// Replace swaps the value stored under id for v, keeping the id.
func (s *Store[V]) Replace(id uint64, v V) (V, Outcome) {
	v = s.clone(v)
	return s.Update(id, func(cur *V) bool {
		*cur = v
		return true
	})
}

// Update applies fn to a copy of the value stored under id and saves the
// result. fn runs under the store lock and may return false to leave the
// value untouched (Rejected). A change of the unique key that collides with
// another value yields Conflict and nothing is written.
func (s *Store[V]) Update(id uint64, fn func(*V) bool) (V, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	cur, ok := s.items[id]
	if !ok {
		return zero, NotFound
	}

	next := s.clone(cur)
	if !fn(&next) {
		return s.clone(cur), Rejected
	}
	s.setID(&next, id)

	oldKey, newKey := s.keyOf(cur), s.keyOf(next)
	if newKey != oldKey && newKey != "" {
		if owner, taken := s.index[newKey]; taken && owner != id {
			return zero, Conflict
		}
	}

	s.items[id] = next
	if newKey != oldKey {
		if oldKey != "" {
			delete(s.index, oldKey)
		}
		if newKey != "" {
			s.index[newKey] = id
		}
	}

	return s.clone(next), Applied
}

// Delete removes the value stored under id. Ids are never reused.
func (s *Store[V]) Delete(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[id]
	if !ok {
		return false
	}
	delete(s.items, id)
	if key := s.keyOf(v); key != "" {
		delete(s.index, key)
	}
	return true
}

// Len reports the number of stored values.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[V]) keyOf(v V) string {
	if s.indexKey == nil {
		return ""
	}
	return s.indexKey(v)
}
