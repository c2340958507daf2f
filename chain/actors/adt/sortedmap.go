package adt

import (
	"strings"

	g "github.com/zyedidia/generic"
	"github.com/zyedidia/generic/btree"

	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

// SortedMap is an ordered associative container. Iteration always visits keys
// in ascending order of the compare function, never insertion order, so that
// anything serialized from it is reproducible.
type SortedMap[K any, V any] struct {
	cmp  func(a, b K) int
	tree *btree.Tree[K, V]
	n    int
}

func NewSortedMap[K any, V any](cmp func(a, b K) int) *SortedMap[K, V] {
	var less g.LessFn[K] = func(a, b K) bool {
		return cmp(a, b) < 0
	}
	return &SortedMap[K, V]{
		cmp:  cmp,
		tree: btree.New[K, V](less),
	}
}

// NewStringMap orders string keys by their raw bytes.
func NewStringMap[V any]() *SortedMap[string, V] {
	return NewSortedMap[string, V](strings.Compare)
}

// NewAddressMap orders address keys by their wire bytes.
func NewAddressMap[V any]() *SortedMap[types.Address, V] {
	return NewSortedMap[types.Address, V](types.Address.Compare)
}

func (m *SortedMap[K, V]) Len() int {
	return m.n
}

func (m *SortedMap[K, V]) Get(k K) (V, bool) {
	return m.tree.Get(k)
}

func (m *SortedMap[K, V]) Has(k K) bool {
	_, ok := m.tree.Get(k)
	return ok
}

// Put inserts or overwrites the value stored under k.
func (m *SortedMap[K, V]) Put(k K, v V) {
	if !m.Has(k) {
		m.n++
	}
	m.tree.Put(k, v)
}

func (m *SortedMap[K, V]) Delete(k K) {
	if !m.Has(k) {
		return
	}
	m.tree.Remove(k)
	m.n--
}

// ForEach visits entries in ascending key order. The first error returned by
// cb stops delivery and is returned.
func (m *SortedMap[K, V]) ForEach(cb func(k K, v V) error) error {
	var err error
	m.tree.Each(func(k K, v V) {
		if err != nil {
			return
		}
		err = cb(k, v)
	})
	return err
}

func (m *SortedMap[K, V]) Keys() []K {
	out := make([]K, 0, m.n)
	m.tree.Each(func(k K, _ V) {
		out = append(out, k)
	})
	return out
}

// Clone returns an independent copy. copyVal deep copies values that share
// memory, such as slices or nested maps; nil copies values as-is.
func (m *SortedMap[K, V]) Clone(copyVal func(V) V) *SortedMap[K, V] {
	out := NewSortedMap[K, V](m.cmp)
	m.tree.Each(func(k K, v V) {
		if copyVal != nil {
			v = copyVal(v)
		}
		out.Put(k, v)
	})
	return out
}
