package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguh/clox/lang/value"
)

func TestHashmapCapacityIsPowerOfTwo(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {5, 8}, {100, 128},
	}
	for _, tc := range cases {
		m := value.NewHashmap(tc.in)
		assert.Equal(t, tc.want, m.Capacity())
	}
}

func TestHashmapAddGetSet(t *testing.T) {
	m := value.NewHashmap(8)
	k := value.ObjValue(value.NewString("x"))

	ok := m.Add(k, value.IntValue(1))
	require.True(t, ok)
	assert.Equal(t, 1, m.Len())

	// add does not replace an existing key
	ok = m.Add(k, value.IntValue(99))
	assert.False(t, ok)

	got, notFound := m.Get(k)
	require.False(t, notFound)
	assert.True(t, value.Equal(value.IntValue(1), got))

	// set only replaces, never inserts
	ok = m.Set(k, value.IntValue(2))
	assert.True(t, ok)
	got, _ = m.Get(k)
	assert.True(t, value.Equal(value.IntValue(2), got))

	other := value.ObjValue(value.NewString("y"))
	ok = m.Set(other, value.IntValue(3))
	assert.False(t, ok)
	_, notFound = m.Get(other)
	assert.True(t, notFound)
}

func TestHashmapRemove(t *testing.T) {
	m := value.NewHashmap(8)
	k := value.IntValue(42)
	m.Add(k, value.True)
	assert.True(t, m.Remove(k))
	assert.False(t, m.Remove(k))
	_, notFound := m.Get(k)
	assert.True(t, notFound)
}

func TestHashmapGrowsAtLoadFactorHalf(t *testing.T) {
	m := value.NewHashmap(2)
	for i := 0; i < 10; i++ {
		m.Add(value.IntValue(int32(i)), value.IntValue(int32(i)))
	}
	assert.Equal(t, 10, m.Len())
	assert.LessOrEqual(t, m.Len()*2, m.Capacity()*2) // total <= capacity invariant after growth settles
	// every inserted key is still retrievable after growth/rehash
	for i := 0; i < 10; i++ {
		got, notFound := m.Get(value.IntValue(int32(i)))
		require.False(t, notFound)
		assert.True(t, value.Equal(value.IntValue(int32(i)), got))
	}
}

func TestHashmapGetStrInterning(t *testing.T) {
	strings := value.NewHashmap(8)
	s := value.NewString("hello")
	strings.Add(value.ObjValue(s), value.NilValue)

	found := strings.GetStr("hello", s.Hash)
	require.NotNil(t, found)
	assert.Same(t, s, found)

	assert.Nil(t, strings.GetStr("nope", value.HashValue(value.ObjValue(value.NewString("nope")))))
}

func TestHashmapIterTableOrderSkipsEmpties(t *testing.T) {
	m := value.NewHashmap(8)
	m.Add(value.IntValue(1), value.IntValue(10))
	m.Add(value.IntValue(2), value.IntValue(20))
	m.Remove(value.IntValue(1))

	var seen []value.Value
	m.Iter(func(_ int, k, _ value.Value) { seen = append(seen, k) })
	require.Len(t, seen, 1)
	assert.True(t, value.Equal(value.IntValue(2), seen[0]))
}
