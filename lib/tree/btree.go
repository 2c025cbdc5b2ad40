package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type bTreeElement[K infra.OrderedKey, V any] struct {
	key K
	val V
}

// bTreeNode holds at most order-1 elements and order children.
// One extra slot of capacity is reserved for the transient overflow
// before the split.
type bTreeNode[K infra.OrderedKey, V any] struct {
	elements []bTreeElement[K, V]
	children []*bTreeNode[K, V]
}

func (node *bTreeNode[K, V]) Len() int {
	if node == nil {
		return 0
	}
	return len(node.elements)
}

func (node *bTreeNode[K, V]) Key(i int) K {
	return node.elements[i].key
}

func (node *bTreeNode[K, V]) Val(i int) V {
	return node.elements[i].val
}

func (node *bTreeNode[K, V]) IsLeaf() bool {
	return node == nil || len(node.children) == 0
}

func (node *bTreeNode[K, V]) Child(i int) BTreeNode[K, V] {
	if node == nil || i < 0 || i >= len(node.children) || node.children[i] == nil {
		return nil
	}
	return node.children[i]
}

func (node *bTreeNode[K, V]) insertElementAt(i int, e bTreeElement[K, V]) {
	var zero bTreeElement[K, V]
	node.elements = append(node.elements, zero)
	copy(node.elements[i+1:], node.elements[i:])
	node.elements[i] = e
}

func (node *bTreeNode[K, V]) removeElementAt(i int) bTreeElement[K, V] {
	var zero bTreeElement[K, V]
	e := node.elements[i]
	copy(node.elements[i:], node.elements[i+1:])
	node.elements[len(node.elements)-1] = zero
	node.elements = node.elements[:len(node.elements)-1]
	return e
}

func (node *bTreeNode[K, V]) insertChildAt(i int, child *bTreeNode[K, V]) {
	node.children = append(node.children, nil)
	copy(node.children[i+1:], node.children[i:])
	node.children[i] = child
}

func (node *bTreeNode[K, V]) removeChildAt(i int) *bTreeNode[K, V] {
	child := node.children[i]
	copy(node.children[i:], node.children[i+1:])
	node.children[len(node.children)-1] = nil
	node.children = node.children[:len(node.children)-1]
	return child
}

type bTree[K infra.OrderedKey, V any] struct {
	root   *bTreeNode[K, V]
	keyCmp infra.OrderedKeyComparator[K]
	count  int64
	order  int
}

func (tree *bTree[K, V]) newNode() *bTreeNode[K, V] {
	return &bTreeNode[K, V]{
		elements: make([]bTreeElement[K, V], 0, tree.order),
	}
}

func (tree *bTree[K, V]) newChildren() []*bTreeNode[K, V] {
	return make([]*bTreeNode[K, V], 0, tree.order+1)
}

func (tree *bTree[K, V]) maxElements() int {
	return tree.order - 1
}

// minElements is the occupancy lower bound of a non-root node,
// floor((N-1)/2), which equals ceil(N/2)-1.
func (tree *bTree[K, V]) minElements() int {
	return (tree.order - 1) / 2
}

func (tree *bTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *bTree[K, V]) Order() int {
	return tree.order
}

// Height counts the levels. All leaves are at the same depth, so
// following the first child is enough.
func (tree *bTree[K, V]) Height() int {
	h := 0
	for aux := tree.root; aux != nil; h++ {
		if aux.IsLeaf() {
			aux = nil
		} else {
			aux = aux.children[0]
		}
	}
	return h
}

func (tree *bTree[K, V]) Root() BTreeNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// search returns the index of the first element >= key.
func (tree *bTree[K, V]) search(node *bTreeNode[K, V], key K) (int, bool) {
	lo, hi := 0, len(node.elements)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if tree.keyCmp(node.elements[mid].key, key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(node.elements) && tree.keyCmp(node.elements[lo].key, key) == 0
}

func (tree *bTree[K, V]) Find(key K) (val V, ok bool) {
	for aux := tree.root; aux != nil; {
		idx, found := tree.search(aux, key)
		if found {
			return aux.elements[idx].val, true
		}
		if aux.IsLeaf() {
			break
		}
		aux = aux.children[idx]
	}
	return val, false
}

// i1: Empty b-tree, the root is a leaf with the only element.
// i2: The root splits, a new root holds the median only with the
// old root and the new sibling as its children. The height grows
// by one for all leaves.
func (tree *bTree[K, V]) Insert(key K, val V) {
	if /* i1 */ tree.root == nil {
		tree.root = tree.newNode()
		tree.root.elements = append(tree.root.elements, bTreeElement[K, V]{key: key, val: val})
		tree.count++
		return
	}

	median, sibling := tree.insert(tree.root, bTreeElement[K, V]{key: key, val: val})
	if /* i2 */ sibling != nil {
		root := tree.newNode()
		root.elements = append(root.elements, median)
		root.children = tree.newChildren()
		root.children = append(root.children, tree.root, sibling)
		tree.root = root
	}
}

// insert returns the median and the new right sibling if the node
// splits, the caller inserts them one level up.
func (tree *bTree[K, V]) insert(node *bTreeNode[K, V], e bTreeElement[K, V]) (bTreeElement[K, V], *bTreeNode[K, V]) {
	idx, found := tree.search(node, e.key)
	if found {
		node.elements[idx].val = e.val
		return bTreeElement[K, V]{}, nil
	}

	if node.IsLeaf() {
		tree.count++
		return tree.insertToNode(node, idx, e, nil)
	}

	median, sibling := tree.insert(node.children[idx], e)
	if sibling == nil {
		return bTreeElement[K, V]{}, nil
	}
	return tree.insertToNode(node, idx, median, sibling)
}

func (tree *bTree[K, V]) insertToNode(
	node *bTreeNode[K, V],
	idx int,
	e bTreeElement[K, V],
	rightChild *bTreeNode[K, V],
) (bTreeElement[K, V], *bTreeNode[K, V]) {
	insertNotFull(node, idx, e, rightChild)
	if len(node.elements) <= tree.maxElements() {
		return bTreeElement[K, V]{}, nil
	}
	return tree.splitNode(node)
}

// insertNotFull shifts the larger elements and their right side
// children one slot right.
func insertNotFull[K infra.OrderedKey, V any](
	node *bTreeNode[K, V],
	idx int,
	e bTreeElement[K, V],
	rightChild *bTreeNode[K, V],
) {
	node.insertElementAt(idx, e)
	if rightChild != nil {
		node.insertChildAt(idx+1, rightChild)
	}
}

/*
The node is overflow with N elements. Take the median out at
index (N+1)/2 - 1, move the elements and children after it into
the new right sibling.

Order 3, insert 6 into (5, 7):

	  (5, 6, 7)     ======>       6
	                            /   \
	                          (5)   (7)
*/
func (tree *bTree[K, V]) splitNode(node *bTreeNode[K, V]) (bTreeElement[K, V], *bTreeNode[K, V]) {
	d := (tree.order+1)/2 - 1
	median := node.elements[d]

	sibling := tree.newNode()
	sibling.elements = append(sibling.elements, node.elements[d+1:]...)
	clear(node.elements[d:])
	node.elements = node.elements[:d]

	if !node.IsLeaf() {
		sibling.children = tree.newChildren()
		sibling.children = append(sibling.children, node.children[d+1:]...)
		clear(node.children[d+1:])
		node.children = node.children[:d+1]
	}
	return median, sibling
}

// e1: Empty b-tree, nothing to erase.
// e2: The root is empty after the erasure. If it is a leaf, the tree
// turns to be empty. Otherwise, its only child becomes the new root and
// the height shrinks by one.
func (tree *bTree[K, V]) Erase(key K) bool {
	if /* e1 */ tree.root == nil {
		return false
	}
	if !tree.erase(tree.root, key) {
		return false
	}
	tree.count--

	if /* e2 */ len(tree.root.elements) == 0 {
		if tree.root.IsLeaf() {
			tree.root = nil
		} else {
			root := tree.root
			tree.root = root.children[0]
			root.children = nil
		}
	}
	return true
}

/*
er1: The key is in a leaf, remove it in place.
er2: The key is in an internal node, replace it by the pred (the
largest element of the left child subtree), the pred is removed
from that subtree recursively.
er3: The key is not in the node, recurse into the child.

The child of the recursion path is repaired on unwind.
*/
func (tree *bTree[K, V]) erase(node *bTreeNode[K, V], key K) bool {
	idx, found := tree.search(node, key)
	if found {
		if /* er1 */ node.IsLeaf() {
			node.removeElementAt(idx)
			return true
		}
		/* er2 */
		node.elements[idx] = tree.eraseMax(node.children[idx])
		tree.repairNode(node, idx)
		return true
	}

	if node.IsLeaf() {
		return false
	}
	/* er3 */
	if !tree.erase(node.children[idx], key) {
		return false
	}
	tree.repairNode(node, idx)
	return true
}

// eraseMax removes the largest element of the subtree by following
// the last child pointers.
func (tree *bTree[K, V]) eraseMax(node *bTreeNode[K, V]) bTreeElement[K, V] {
	if node.IsLeaf() {
		return node.removeElementAt(len(node.elements) - 1)
	}
	last := len(node.children) - 1
	e := tree.eraseMax(node.children[last])
	tree.repairNode(node, last)
	return e
}

/*
repairNode fixes the underflow child X at index i of the parent P.
(1) Borrow from the left sibling L with surplus.

	      P: (.. a ..)                 P: (.. l2 ..)
	         /     \      ======>         /      \
	  L: (l1, l2)  X: ()            L: (l1)    X: (a)

(2) Borrow from the right sibling R with surplus, the mirror image.

(3) Merge X with a sibling, the parent separator folds down.

	      P: (.. a ..)                P: (.. ..)
	         /     \      ======>         |
	    L: (l1)   X: ()              L: (l1, a)

The parent loses one element and one child pointer, it may be
underflow now and it is repaired by its own parent.
*/
func (tree *bTree[K, V]) repairNode(parent *bTreeNode[K, V], idx int) {
	x := parent.children[idx]
	if len(x.elements) >= tree.minElements() {
		return
	}

	var left, right *bTreeNode[K, V]
	if idx > 0 {
		left = parent.children[idx-1]
	}
	if idx+1 < len(parent.children) {
		right = parent.children[idx+1]
	}

	if /* (1) */ left != nil && len(left.elements) > tree.minElements() {
		borrowFromLeft(parent, idx)
	} else /* (2) */ if right != nil && len(right.elements) > tree.minElements() {
		borrowFromRight(parent, idx)
	} else /* (3) */ if left != nil {
		mergeNodes(parent, idx-1)
	} else if right != nil {
		mergeNodes(parent, idx)
	} else {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] b-tree underflow node without sibling")
	}
}

func borrowFromLeft[K infra.OrderedKey, V any](parent *bTreeNode[K, V], idx int) {
	x, left := parent.children[idx], parent.children[idx-1]

	x.insertElementAt(0, parent.elements[idx-1])
	parent.elements[idx-1] = left.removeElementAt(len(left.elements) - 1)
	if !left.IsLeaf() {
		x.insertChildAt(0, left.removeChildAt(len(left.children)-1))
	}
}

func borrowFromRight[K infra.OrderedKey, V any](parent *bTreeNode[K, V], idx int) {
	x, right := parent.children[idx], parent.children[idx+1]

	x.elements = append(x.elements, parent.elements[idx])
	parent.elements[idx] = right.removeElementAt(0)
	if !right.IsLeaf() {
		x.children = append(x.children, right.removeChildAt(0))
	}
}

// mergeNodes folds the separator at idx and the right child into
// the left child.
func mergeNodes[K infra.OrderedKey, V any](parent *bTreeNode[K, V], idx int) {
	left := parent.children[idx]
	right := parent.removeChildAt(idx + 1)

	left.elements = append(left.elements, parent.removeElementAt(idx))
	left.elements = append(left.elements, right.elements...)
	if !right.IsLeaf() {
		left.children = append(left.children, right.children...)
	}
	right.elements, right.children = nil, nil
}

func (tree *bTree[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	if action == nil || tree.root == nil {
		return
	}
	idx := int64(0)
	bTreeInOrderElements(tree.root, func(e *bTreeElement[K, V]) bool {
		if !action(idx, e.key, e.val) {
			return false
		}
		idx++
		return true
	})
}

func bTreeInOrderElements[K infra.OrderedKey, V any](node *bTreeNode[K, V], visit func(e *bTreeElement[K, V]) bool) bool {
	for i := range node.elements {
		if !node.IsLeaf() && !bTreeInOrderElements(node.children[i], visit) {
			return false
		}
		if !visit(&node.elements[i]) {
			return false
		}
	}
	if !node.IsLeaf() {
		return bTreeInOrderElements(node.children[len(node.children)-1], visit)
	}
	return true
}

func (tree *bTree[K, V]) Traverse(order TraverseOrder, visitor func(node BTreeNode[K, V]) bool) {
	if visitor == nil || tree.root == nil {
		return
	}
	visit := func(node *bTreeNode[K, V]) bool {
		return visitor(node)
	}
	switch order {
	case PreOrder, InOrder, PostOrder:
		bTreeDepthFirst(tree.root, order, visit)
	case LevelOrder:
		queue := make([]*bTreeNode[K, V], 0, 32)
		queue = append(queue, tree.root)
		for len(queue) > 0 {
			aux := queue[0]
			queue = queue[1:]
			if !visit(aux) {
				return
			}
			queue = append(queue, aux.children...)
		}
	default:
	}
}

func bTreeDepthFirst[K infra.OrderedKey, V any](
	node *bTreeNode[K, V],
	order TraverseOrder,
	visit func(*bTreeNode[K, V]) bool,
) bool {
	if order == PreOrder && !visit(node) {
		return false
	}
	for i, child := range node.children {
		if !bTreeDepthFirst(child, order, visit) {
			return false
		}
		if i == 0 && order == InOrder && !visit(node) {
			return false
		}
	}
	if node.IsLeaf() && order == InOrder && !visit(node) {
		return false
	}
	if order == PostOrder && !visit(node) {
		return false
	}
	return true
}

func (tree *bTree[K, V]) Release() {
	if tree.root != nil {
		bTreeDepthFirst(tree.root, PostOrder, func(node *bTreeNode[K, V]) bool {
			node.elements, node.children = nil, nil
			return true
		})
	}
	tree.root = nil
	tree.count = 0
}

func NewBTree[K infra.OrderedKey, V any](opts ...TreeOption[K]) (BTree[K, V], error) {
	o, err := loadTreeOptions[K](opts...)
	if err != nil {
		return nil, err
	}
	return &bTree[K, V]{
		keyCmp: o.keyCmp,
		order:  o.order,
	}, nil
}
