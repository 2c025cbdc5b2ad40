package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/tree"
)

func TestParseEngine(t *testing.T) {
	testcases := []struct {
		name     string
		expected Engine
		wantErr  bool
	}{
		{"avl", EngineAVL, false},
		{" RB ", EngineRB, false},
		{"red-black", EngineRB, false},
		{"b-tree", EngineBTree, false},
		{"btree", EngineBTree, false},
		{"bst", EngineBST, false},
		{"skiplist", "", true},
		{"", "", true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := ParseEngine(tc.name)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrTreeUnknownEngine)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, e)
		})
	}
}

func TestParseEngines(t *testing.T) {
	engines, err := ParseEngines("avl, rb,,btree,avl,bst")
	require.NoError(t, err)
	require.Equal(t, []Engine{EngineAVL, EngineRB, EngineBTree, EngineBST}, engines)

	_, err = ParseEngines(" , ")
	require.ErrorIs(t, err, ErrTreeUnknownEngine)
	_, err = ParseEngines("avl,heap")
	require.ErrorIs(t, err, ErrTreeUnknownEngine)
}

func TestNewEngine(t *testing.T) {
	for _, e := range []Engine{EngineAVL, EngineRB, EngineBTree, EngineBST} {
		t.Run(string(e), func(t *testing.T) {
			m, err := NewEngine(e, 4)
			require.NoError(t, err)
			defer m.Release()
			for i := int64(0); i < 64; i++ {
				m.Insert(i, i*i)
			}
			require.Equal(t, int64(64), m.Len())
			require.NoError(t, ValidateEngine(m))
			v, ok := m.Find(7)
			require.True(t, ok)
			require.Equal(t, int64(49), v)
		})
	}

	m, err := NewEngine(EngineBTree, 4)
	require.NoError(t, err)
	require.Equal(t, 4, m.(tree.BTree[int64, int64]).Order())

	_, err = NewEngine(EngineBTree, 2)
	require.ErrorIs(t, err, tree.ErrTreeInvalidOrder)
	_, err = NewEngine("heap", 4)
	require.ErrorIs(t, err, ErrTreeUnknownEngine)

	synced := tree.NewSyncedMap[int64, int64](m)
	require.ErrorIs(t, ValidateEngine(synced), ErrTreeUnknownEngine)
}

func TestParseKeys(t *testing.T) {
	keys, err := ParseKeys(" 1, -2,,30 ,")
	require.NoError(t, err)
	require.Equal(t, []int64{1, -2, 30}, keys)

	keys, err = ParseKeys("")
	require.NoError(t, err)
	require.Empty(t, keys)

	_, err = ParseKeys("1,x")
	require.Error(t, err)
}

func TestParseTraverseOrders(t *testing.T) {
	orders, err := ParseTraverseOrders([]string{"level", "IN", "pre", "post", "in"})
	require.NoError(t, err)
	require.Equal(t, []tree.TraverseOrder{tree.LevelOrder, tree.InOrder, tree.PreOrder, tree.PostOrder}, orders)

	_, err = ParseTraverseOrders([]string{"zigzag"})
	require.ErrorIs(t, err, ErrInvalidTraverseOrder)
}
