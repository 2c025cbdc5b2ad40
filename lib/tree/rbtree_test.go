package tree

import (
	"math"
	randv2 "math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type rbCheckData struct {
	color RBColor
	key   uint64
}

func rbInOrderColors(tree RBTree[uint64, uint64]) []rbCheckData {
	res := make([]rbCheckData, 0, tree.Len())
	tree.Traverse(InOrder, func(node RBNode[uint64, uint64]) bool {
		res = append(res, rbCheckData{color: node.Color(), key: node.Key()})
		return true
	})
	return res
}

func newRBTreeForTest(t *testing.T, opts ...TreeOption[uint64]) RBTree[uint64, uint64] {
	tree, err := NewRBTree[uint64, uint64](opts...)
	require.NoError(t, err)
	return tree
}

func TestNilNode(t *testing.T) {
	var nilNode RBNode[uint64, uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64, uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)
	require.Equal(t, Black, nilNode.Color())
	require.Equal(t, 0, nilNode.BlackHeight())
	require.Nil(t, nilNode.Left())
	require.Nil(t, nilNode.Right())
}

func TestRbtreeLeftAndRightRotate_Pred(t *testing.T) {
	tree := newRBTreeForTest(t)

	tree.Insert(52, 1)
	require.Equal(t, []rbCheckData{{Black, 52}}, rbInOrderColors(tree))
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))

	tree.Insert(47, 1)
	require.Equal(t, []rbCheckData{{Red, 47}, {Black, 52}}, rbInOrderColors(tree))
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))

	// LL
	tree.Insert(3, 1)
	require.Equal(t, []rbCheckData{{Red, 3}, {Black, 47}, {Red, 52}}, rbInOrderColors(tree))
	require.Equal(t, uint64(47), tree.Root().Key())
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))

	// Recolor only.
	tree.Insert(35, 1)
	require.Equal(t, []rbCheckData{
		{Black, 3},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	}, rbInOrderColors(tree))
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))

	// RL
	tree.Insert(24, 1)
	require.Equal(t, []rbCheckData{
		{Red, 3},
		{Black, 24},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	}, rbInOrderColors(tree))
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))

	// erase

	require.True(t, tree.Erase(24))
	require.Equal(t, []rbCheckData{
		{Black, 3},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	}, rbInOrderColors(tree))
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))

	require.True(t, tree.Erase(47))
	require.Equal(t, []rbCheckData{
		{Black, 3},
		{Black, 35},
		{Black, 52},
	}, rbInOrderColors(tree))
	require.Equal(t, uint64(35), tree.Root().Key())
	require.Equal(t, 1, tree.Root().BlackHeight())
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))

	require.False(t, tree.Erase(47))
	require.True(t, tree.Erase(3))
	require.True(t, tree.Erase(35))
	require.True(t, tree.Erase(52))
	require.Nil(t, tree.Root())
	require.Equal(t, int64(0), tree.Len())
}

func TestRbtree_InsertThenEraseInSameOrder(t *testing.T) {
	keys := []uint64{3, 1, 8, 9, 7, 4, 6, 5}
	tree := newRBTreeForTest(t)
	for i, key := range keys {
		tree.Insert(key, key)
		require.Equal(t, int64(i+1), tree.Len())
		require.Equal(t, Black, tree.Root().Color())
		require.NoError(t, RBTreeValidate[uint64, uint64](tree))
	}
	require.Equal(t, []uint64{1, 3, 4, 5, 6, 7, 8, 9}, lo.Map(rbInOrderColors(tree), func(item rbCheckData, _ int) uint64 {
		return item.key
	}))

	for i, key := range keys {
		require.True(t, tree.Erase(key))
		_, ok := tree.Find(key)
		require.False(t, ok)
		require.Equal(t, int64(len(keys)-i-1), tree.Len())
		if tree.Root() != nil {
			require.Equal(t, Black, tree.Root().Color())
		}
		require.NoError(t, RBTreeValidate[uint64, uint64](tree))
	}
	require.Nil(t, tree.Root())
}

func rbtreeHeightBound(n int64) float64 {
	return 2 * math.Log2(float64(n+1))
}

func rbtreeRandomInsertAndEraseRunCore(t *testing.T, keys []uint64, violationCheck bool) {
	tree := newRBTreeForTest(t)
	for _, key := range keys {
		tree.Insert(key, key)
		if violationCheck {
			require.NoError(t, RBTreeValidate[uint64, uint64](tree))
		}
	}
	require.Equal(t, int64(len(keys)), tree.Len())
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))
	require.LessOrEqual(t, float64(tree.Height()), rbtreeHeightBound(tree.Len()))

	erased := lo.Shuffle(append([]uint64(nil), keys...))
	for i, key := range erased {
		require.True(t, tree.Erase(key))
		if violationCheck {
			require.NoError(t, RBTreeValidate[uint64, uint64](tree))
		}
		if tree.Len() > 0 && i%16 == 0 {
			require.LessOrEqual(t, float64(tree.Height()), rbtreeHeightBound(tree.Len()))
		}
	}
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
}

func TestRbtreeRandomInsertAndErase_SequentialNumber(t *testing.T) {
	rbtreeRandomInsertAndEraseRunCore(t, lo.RangeFrom[uint64](0, 1000), true)
}

func TestRbtreeRandomInsertAndErase_ReverseSequentialNumber(t *testing.T) {
	rbtreeRandomInsertAndEraseRunCore(t, lo.Reverse(lo.RangeFrom[uint64](0, 1000)), true)
}

func TestRbtreeRandomInsertAndErase_RandomNumber(t *testing.T) {
	keys := make([]uint64, 0, 20000)
	for i := 0; i < 20000; i++ {
		keys = append(keys, randv2.Uint64())
	}
	rbtreeRandomInsertAndEraseRunCore(t, lo.Uniq(keys), false)
}

func TestRBTree_Release(t *testing.T) {
	tree := newRBTreeForTest(t)
	for _, key := range lo.RangeFrom[uint64](0, 100) {
		tree.Insert(key, key)
	}
	root := tree.Root()
	tree.Release()
	require.Nil(t, tree.Root())
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, root.Left())
	require.Nil(t, root.Right())

	tree.Insert(1, 1)
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))
}

func TestRBTree_Desc(t *testing.T) {
	tree := newRBTreeForTest(t, WithTreeDesc[uint64]())
	for _, key := range lo.Shuffle(lo.RangeFrom[uint64](0, 256)) {
		tree.Insert(key, key)
	}
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))
	expected := uint64(255)
	tree.Foreach(func(idx int64, key uint64, val uint64) bool {
		require.Equal(t, expected, key)
		expected--
		return true
	})
}

func TestRBTreeValidate_Violations(t *testing.T) {
	tree := newRBTreeForTest(t)
	for _, key := range lo.RangeFrom[uint64](0, 16) {
		tree.Insert(key, key)
	}
	impl := tree.(*rbTree[uint64, uint64])

	impl.root.color = Red
	require.ErrorIs(t, RBTreeValidate[uint64, uint64](tree), errRBTreeRootColorViolation)
	impl.root.color = Black

	impl.root.blackHeight++
	require.ErrorIs(t, RBTreeValidate[uint64, uint64](tree), errRBTreeBlackHeightViolation)
	impl.root.blackHeight--

	impl.count++
	require.ErrorIs(t, RBTreeValidate[uint64, uint64](tree), errTreeLenViolation)
	impl.count--

	impl.root.left.key, impl.root.right.key = impl.root.right.key, impl.root.left.key
	require.ErrorIs(t, RBTreeValidate[uint64, uint64](tree), errTreeOrderViolation)
	impl.root.left.key, impl.root.right.key = impl.root.right.key, impl.root.left.key
	require.NoError(t, RBTreeValidate[uint64, uint64](tree))

	require.ErrorIs(t, RBTreeValidate[uint64, uint64](nil), errTreeUnknownImpl)
}

func BenchmarkRBTree_Random(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree, err := NewRBTree[int, []byte]()
	require.NoError(b, err)

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(rngArr[i], testByBytes)
	}
}

func BenchmarkRBTree_Serial(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree, err := NewRBTree[int, []byte]()
	require.NoError(b, err)

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(i, testByBytes)
	}
}
