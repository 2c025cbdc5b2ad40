package tree

import (
	"sync"

	"github.com/benz9527/xtree/lib/infra"
)

type syncedMap[K infra.OrderedKey, V any] struct {
	lock sync.RWMutex
	m    OrderedMap[K, V]
}

func (s *syncedMap[K, V]) Len() int64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.Len()
}

func (s *syncedMap[K, V]) Height() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.Height()
}

func (s *syncedMap[K, V]) Find(key K) (V, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.Find(key)
}

func (s *syncedMap[K, V]) Insert(key K, val V) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.m.Insert(key, val)
}

func (s *syncedMap[K, V]) Erase(key K) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.m.Erase(key)
}

// Foreach holds the read lock for the whole iteration. The action must
// not mutate the map, or it deadlocks.
func (s *syncedMap[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	s.m.Foreach(action)
}

func (s *syncedMap[K, V]) Release() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.m.Release()
}

// NewSyncedMap serializes the mutations of an engine by a read-write lock.
func NewSyncedMap[K infra.OrderedKey, V any](m OrderedMap[K, V]) OrderedMap[K, V] {
	if m == nil {
		panic("[xtree] nil ordered map to sync")
	}
	if s, ok := m.(*syncedMap[K, V]); ok {
		return s
	}
	return &syncedMap[K, V]{m: m}
}
