package adt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

func TestSortedMapOrdersKeys(t *testing.T) {
	m := NewStringMap[int]()
	for i, k := range []string{"did:metablox:c", "did:metablox:a", "did:metablox:b", "Z"} {
		m.Put(k, i)
	}

	require.Equal(t, 4, m.Len())
	require.Equal(t, []string{"Z", "did:metablox:a", "did:metablox:b", "did:metablox:c"}, m.Keys())

	m.Put("Z", 10)
	require.Equal(t, 4, m.Len())
	v, ok := m.Get("Z")
	require.True(t, ok)
	require.Equal(t, 10, v)

	m.Delete("Z")
	m.Delete("missing")
	require.Equal(t, 3, m.Len())
	require.False(t, m.Has("Z"))
}

func TestAddressMapOrdersByBytes(t *testing.T) {
	m := NewAddressMap[uint64]()
	a := types.MustParseAddress("02ffffffffffffffffffffffffffffffffffffffff")
	b := types.MustParseAddress("000000000000000000000000000000000000000001")
	c := types.MustParseAddress("010000000000000000000000000000000000000000")
	m.Put(a, 1)
	m.Put(b, 2)
	m.Put(c, 3)

	require.Equal(t, []types.Address{b, c, a}, m.Keys())
}

func TestCloneIsIndependent(t *testing.T) {
	m := NewStringMap[[]string]()
	m.Put("k", []string{"a"})

	cp := m.Clone(func(v []string) []string {
		return append([]string(nil), v...)
	})
	v, _ := cp.Get("k")
	v[0] = "changed"
	cp.Put("other", nil)

	orig, _ := m.Get("k")
	require.Equal(t, []string{"a"}, orig)
	require.Equal(t, 1, m.Len())
	require.Equal(t, 2, cp.Len())
}

func TestForEachStopsOnError(t *testing.T) {
	m := NewStringMap[int]()
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("c", 3)

	var seen []string
	err := m.ForEach(func(k string, _ int) error {
		seen = append(seen, k)
		if k == "b" {
			return errStop
		}
		return nil
	})
	require.ErrorIs(t, err, errStop)
	require.Equal(t, []string{"a", "b"}, seen)
}

var errStop = stopErr("stop")

type stopErr string

func (e stopErr) Error() string { return string(e) }
