package tree

import (
	randv2 "math/rand/v2"
	"strconv"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBTreeForTest(t *testing.T, order int) BTree[int, int] {
	tree, err := NewBTree[int, int](WithBTreeOrder[int](order))
	require.NoError(t, err)
	require.Equal(t, order, tree.Order())
	return tree
}

func bTreeNodeKeys(node BTreeNode[int, int]) []int {
	keys := make([]int, 0, node.Len())
	for i := 0; i < node.Len(); i++ {
		keys = append(keys, node.Key(i))
	}
	return keys
}

func bTreeWalkKeys(tree BTree[int, int], order TraverseOrder) [][]int {
	res := make([][]int, 0, 8)
	tree.Traverse(order, func(node BTreeNode[int, int]) bool {
		res = append(res, bTreeNodeKeys(node))
		return true
	})
	return res
}

func TestBTree_Order3Scenario(t *testing.T) {
	tree := newBTreeForTest(t, 3)

	tree.Insert(4, 4)
	tree.Insert(3, 3)
	require.Equal(t, 1, tree.Height())
	require.Equal(t, []int{3, 4}, bTreeNodeKeys(tree.Root()))

	// Root split.
	tree.Insert(8, 8)
	require.Equal(t, 2, tree.Height())
	require.Equal(t, [][]int{{4}, {3}, {8}}, bTreeWalkKeys(tree, LevelOrder))
	require.NoError(t, BTreeValidate[int, int](tree))

	for _, key := range []int{9, 7, 5, 6} {
		tree.Insert(key, key)
		require.NoError(t, BTreeValidate[int, int](tree))
	}
	require.Equal(t, int64(7), tree.Len())
	require.Equal(t, 3, tree.Height())
	require.Equal(t, [][]int{{6}, {4}, {8}, {3}, {5}, {7}, {9}}, bTreeWalkKeys(tree, LevelOrder))
	require.Equal(t, [][]int{{3}, {4}, {5}, {6}, {7}, {8}, {9}}, bTreeWalkKeys(tree, InOrder))
	require.Equal(t, [][]int{{6}, {4}, {3}, {5}, {8}, {7}, {9}}, bTreeWalkKeys(tree, PreOrder))
	require.Equal(t, [][]int{{3}, {5}, {4}, {7}, {9}, {8}, {6}}, bTreeWalkKeys(tree, PostOrder))

	for _, key := range []int{3, 4, 5, 6, 7, 8, 9} {
		val, ok := tree.Find(key)
		require.True(t, ok)
		require.Equal(t, key, val)
	}
	_, ok := tree.Find(1)
	require.False(t, ok)

	erased := []int{8, 6, 7, 5, 3, 4, 9}
	for i, key := range erased {
		require.True(t, tree.Erase(key))
		require.False(t, tree.Erase(key))
		require.Equal(t, int64(len(erased)-i-1), tree.Len())
		require.NoError(t, BTreeValidate[int, int](tree))
		for _, rest := range erased[i+1:] {
			_, ok = tree.Find(rest)
			require.True(t, ok)
		}
	}
	require.Nil(t, tree.Root())
	require.Equal(t, 0, tree.Height())
}

func TestBTree_EraseRepairs(t *testing.T) {
	t.Run("borrow from left", func(t *testing.T) {
		tree := newBTreeForTest(t, 4)
		for _, key := range []int{10, 20, 30, 5, 6} {
			tree.Insert(key, key)
		}
		require.Equal(t, [][]int{{10}, {5, 6}, {20, 30}}, bTreeWalkKeys(tree, LevelOrder))
		require.True(t, tree.Erase(20))
		require.True(t, tree.Erase(30))
		require.Equal(t, [][]int{{6}, {5}, {10}}, bTreeWalkKeys(tree, LevelOrder))
		require.NoError(t, BTreeValidate[int, int](tree))
	})
	t.Run("borrow from right", func(t *testing.T) {
		tree := newBTreeForTest(t, 4)
		for _, key := range []int{10, 20, 30, 40, 50} {
			tree.Insert(key, key)
		}
		require.Equal(t, [][]int{{20}, {10}, {30, 40, 50}}, bTreeWalkKeys(tree, LevelOrder))
		require.True(t, tree.Erase(10))
		require.Equal(t, [][]int{{30}, {20}, {40, 50}}, bTreeWalkKeys(tree, LevelOrder))
		require.NoError(t, BTreeValidate[int, int](tree))
	})
	t.Run("merge and shrink", func(t *testing.T) {
		tree := newBTreeForTest(t, 4)
		for _, key := range []int{10, 20, 30, 40} {
			tree.Insert(key, key)
		}
		require.Equal(t, [][]int{{20}, {10}, {30, 40}}, bTreeWalkKeys(tree, LevelOrder))
		require.True(t, tree.Erase(40))
		require.True(t, tree.Erase(10))
		require.Equal(t, 1, tree.Height())
		require.Equal(t, [][]int{{20, 30}}, bTreeWalkKeys(tree, LevelOrder))
		require.NoError(t, BTreeValidate[int, int](tree))
	})
	t.Run("internal pred", func(t *testing.T) {
		tree := newBTreeForTest(t, 3)
		for _, key := range lo.Range(15) {
			tree.Insert(key, key)
		}
		require.NoError(t, BTreeValidate[int, int](tree))
		root := bTreeNodeKeys(tree.Root())
		for _, key := range root {
			require.True(t, tree.Erase(key))
			require.NoError(t, BTreeValidate[int, int](tree))
		}
		require.Equal(t, int64(15-len(root)), tree.Len())
	})
}

func TestBTree_LeafDepthAndOccupancy(t *testing.T) {
	for _, order := range []int{3, 4, 5, 8, 16, 33} {
		t.Run("order-"+strconv.Itoa(order), func(t *testing.T) {
			tree := newBTreeForTest(t, order)
			keys := lo.Uniq(lo.Times(3000, func(int) int {
				return randv2.IntN(10000)
			}))
			for _, key := range keys {
				tree.Insert(key, key)
			}
			require.NoError(t, BTreeValidate[int, int](tree))
			require.Equal(t, int64(len(keys)), tree.Len())

			for i, key := range lo.Shuffle(keys) {
				require.True(t, tree.Erase(key))
				if i%97 == 0 {
					require.NoError(t, BTreeValidate[int, int](tree))
				}
			}
			require.NoError(t, BTreeValidate[int, int](tree))
			require.Nil(t, tree.Root())
		})
	}
}

func TestBTree_NodeView(t *testing.T) {
	tree := newBTreeForTest(t, 3)
	for _, key := range []int{1, 2, 3} {
		tree.Insert(key, key*10)
	}
	root := tree.Root()
	require.False(t, root.IsLeaf())
	require.Equal(t, 1, root.Len())
	require.Equal(t, 2, root.Key(0))
	require.Equal(t, 20, root.Val(0))
	require.True(t, root.Child(0).IsLeaf())
	require.Equal(t, 1, root.Child(0).Key(0))
	require.Equal(t, 3, root.Child(1).Key(0))
	assert.Nil(t, root.Child(2))
	assert.Nil(t, root.Child(-1))
	assert.Nil(t, root.Child(0).Child(0))
}

func TestBTree_TraverseEarlyStop(t *testing.T) {
	tree := newBTreeForTest(t, 3)
	for _, key := range lo.Range(32) {
		tree.Insert(key, key)
	}
	for _, order := range []TraverseOrder{PreOrder, InOrder, PostOrder, LevelOrder} {
		t.Run(order.String(), func(t *testing.T) {
			cnt := 0
			tree.Traverse(order, func(node BTreeNode[int, int]) bool {
				cnt++
				return cnt < 3
			})
			require.Equal(t, 3, cnt)
		})
	}
}

func TestBTreeValidate_Violations(t *testing.T) {
	tree := newBTreeForTest(t, 3)
	for _, key := range lo.Range(7) {
		tree.Insert(key, key)
	}
	impl := tree.(*bTree[int, int])

	// Unbalanced leaf depth.
	leaf := impl.root.children[0].children[0]
	impl.root.children[0].children[0] = &bTreeNode[int, int]{
		elements: leaf.elements,
		children: []*bTreeNode[int, int]{{}, {}},
	}
	err := BTreeValidate[int, int](tree)
	require.ErrorIs(t, err, errBTreeLeafDepthViolation)
	impl.root.children[0].children[0] = leaf
	require.NoError(t, BTreeValidate[int, int](tree))

	leaf.elements = append(leaf.elements, bTreeElement[int, int]{key: -1}, bTreeElement[int, int]{key: -2})
	err = BTreeValidate[int, int](tree)
	require.ErrorIs(t, err, errBTreeOccupancyViolation)
	require.ErrorIs(t, err, errBTreeNodeOrderViolation)
}

func BenchmarkBTree_Random(b *testing.B) {
	b.StopTimer()
	tree, err := NewBTree[int, int]()
	require.NoError(b, err)
	rngArr := lo.Times(b.N, func(int) int {
		return randv2.Int()
	})

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(rngArr[i], i)
	}
}
