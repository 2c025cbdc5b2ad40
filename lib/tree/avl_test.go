package tree

import (
	"math"
	randv2 "math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newAVLTreeForTest(t *testing.T) AVLTree[int, int] {
	tree, err := NewAVLTree[int, int]()
	require.NoError(t, err)
	return tree
}

func avlHeightBound(n int64) float64 {
	return 1.4405*math.Log2(float64(n+2)) - 0.3277
}

func avlLevelOrderKeys(tree AVLTree[int, int]) []int {
	keys := make([]int, 0, tree.Len())
	tree.Traverse(LevelOrder, func(node AVLNode[int, int]) bool {
		keys = append(keys, node.Key())
		return true
	})
	return keys
}

func TestAVLTree_Rotations(t *testing.T) {
	testcases := []struct {
		name     string
		keys     []int
		expected []int
	}{
		{name: "LL", keys: []int{3, 2, 1}, expected: []int{2, 1, 3}},
		{name: "RR", keys: []int{1, 2, 3}, expected: []int{2, 1, 3}},
		{name: "LR", keys: []int{3, 1, 2}, expected: []int{2, 1, 3}},
		{name: "RL", keys: []int{1, 3, 2}, expected: []int{2, 1, 3}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			tree := newAVLTreeForTest(t)
			for _, key := range tc.keys {
				tree.Insert(key, key)
			}
			require.Equal(t, tc.expected, avlLevelOrderKeys(tree))
			require.Equal(t, 2, tree.Height())
			require.Equal(t, 2, tree.Root().Height())
			require.Equal(t, 1, tree.Root().Left().Height())
			require.NoError(t, AVLTreeValidate[int, int](tree))
		})
	}
}

func TestAVLTree_Scenario(t *testing.T) {
	tree := newAVLTreeForTest(t)
	keys := []int{0, 1, 5, 6, 8, 2, 4}
	for _, key := range keys {
		tree.Insert(key, key*key)
		require.NoError(t, AVLTreeValidate[int, int](tree))
	}
	require.LessOrEqual(t, tree.Height(), 4)
	require.Equal(t, 4, tree.Height())
	require.Equal(t, []int{0, 1, 2, 4, 5, 6, 8}, lo.Map(collectAVLNodes(tree, InOrder), func(n AVLNode[int, int], _ int) int {
		return n.Key()
	}))
	for _, key := range keys {
		val, ok := tree.Find(key)
		require.True(t, ok)
		require.Equal(t, key*key, val)
	}
	_, ok := tree.Find(3)
	require.False(t, ok)

	for _, key := range []int{4, 6, 0} {
		require.True(t, tree.Erase(key))
		require.NoError(t, AVLTreeValidate[int, int](tree))
	}
	require.Equal(t, []int{1, 2, 5, 8}, lo.Map(collectAVLNodes(tree, InOrder), func(n AVLNode[int, int], _ int) int {
		return n.Key()
	}))
}

func collectAVLNodes(tree AVLTree[int, int], order TraverseOrder) []AVLNode[int, int] {
	nodes := make([]AVLNode[int, int], 0, tree.Len())
	tree.Traverse(order, func(node AVLNode[int, int]) bool {
		nodes = append(nodes, node)
		return true
	})
	return nodes
}

func TestAVLTree_EraseWithTwoChildren(t *testing.T) {
	tree := newAVLTreeForTest(t)
	for _, key := range []int{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(key, key)
	}
	root := tree.Root()
	require.True(t, tree.Erase(4))
	// The pred takes over the key, the node keeps its position.
	require.Equal(t, 3, tree.Root().Key())
	require.Equal(t, root, tree.Root())
	require.NoError(t, AVLTreeValidate[int, int](tree))

	require.True(t, tree.Erase(3))
	require.Equal(t, 2, tree.Root().Key())
	require.NoError(t, AVLTreeValidate[int, int](tree))
}

func TestAVLTree_HeightBound(t *testing.T) {
	testcases := []struct {
		name string
		keys []int
	}{
		{name: "sequential", keys: lo.Range(4096)},
		{name: "reverse", keys: lo.Reverse(lo.Range(4096))},
		{name: "random", keys: lo.Uniq(lo.Times(4096, func(int) int {
			return randv2.IntN(1 << 30)
		}))},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			tree := newAVLTreeForTest(t)
			for i, key := range tc.keys {
				tree.Insert(key, i)
				require.LessOrEqual(t, float64(tree.Height()), avlHeightBound(tree.Len()))
			}
			require.NoError(t, AVLTreeValidate[int, int](tree))
			for _, key := range lo.Shuffle(tc.keys) {
				require.True(t, tree.Erase(key))
				if tree.Len() > 0 {
					require.LessOrEqual(t, float64(tree.Height()), avlHeightBound(tree.Len()))
				}
			}
			require.NoError(t, AVLTreeValidate[int, int](tree))
			require.Nil(t, tree.Root())
		})
	}
}

func TestAVLTreeValidate_Violations(t *testing.T) {
	tree := newAVLTreeForTest(t)
	for _, key := range lo.Range(15) {
		tree.Insert(key, key)
	}
	impl := tree.(*avlTree[int, int])

	impl.root.height++
	require.ErrorIs(t, AVLTreeValidate[int, int](tree), errAVLHeightViolation)
	impl.root.height--

	// Unlink the right subtree keeping the cached heights.
	right := impl.root.right
	impl.root.right = nil
	err := AVLTreeValidate[int, int](tree)
	require.ErrorIs(t, err, errAVLBalanceFactorLimit)
	require.ErrorIs(t, err, errAVLHeightViolation)
	require.ErrorIs(t, err, errTreeLenViolation)
	impl.root.right = right
	require.NoError(t, AVLTreeValidate[int, int](tree))
}

func BenchmarkAVLTree_Random(b *testing.B) {
	b.StopTimer()
	tree, err := NewAVLTree[int, int]()
	require.NoError(b, err)
	rngArr := lo.Times(b.N, func(int) int {
		return randv2.Int()
	})

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(rngArr[i], i)
	}
}
