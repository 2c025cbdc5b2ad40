package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type bstNode[K infra.OrderedKey, V any] struct {
	left  *bstNode[K, V]
	right *bstNode[K, V]
	key   K
	val   V
}

func (node *bstNode[K, V]) Key() K {
	return node.key
}

func (node *bstNode[K, V]) Val() V {
	return node.val
}

func (node *bstNode[K, V]) Left() BSTNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *bstNode[K, V]) Right() BSTNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *bstNode[K, V]) leftChild() *bstNode[K, V] {
	return node.left
}

func (node *bstNode[K, V]) rightChild() *bstNode[K, V] {
	return node.right
}

// bsTree is the unbalanced baseline. The height is O(n) for sorted input.
type bsTree[K infra.OrderedKey, V any] struct {
	root   *bstNode[K, V]
	keyCmp infra.OrderedKeyComparator[K]
	count  int64
}

func (tree *bsTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *bsTree[K, V]) Height() int {
	return binaryHeight(tree.root)
}

func (tree *bsTree[K, V]) Root() BSTNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *bsTree[K, V]) Find(key K) (val V, ok bool) {
	for aux := tree.root; aux != nil; {
		res := tree.keyCmp(key, aux.key)
		if res == 0 {
			return aux.val, true
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return val, false
}

// Insert descends iteratively through the child slots.
func (tree *bsTree[K, V]) Insert(key K, val V) {
	slot := &tree.root
	for *slot != nil {
		res := tree.keyCmp(key, (*slot).key)
		if res == 0 {
			(*slot).val = val
			return
		} else if res < 0 {
			slot = &(*slot).left
		} else {
			slot = &(*slot).right
		}
	}
	*slot = &bstNode[K, V]{key: key, val: val}
	tree.count++
}

// Erase splices a node with at most one child. A node with two children
// takes over the key & value of its pred, then the pred is spliced.
func (tree *bsTree[K, V]) Erase(key K) bool {
	slot := &tree.root
	for *slot != nil {
		res := tree.keyCmp(key, (*slot).key)
		if res == 0 {
			break
		} else if res < 0 {
			slot = &(*slot).left
		} else {
			slot = &(*slot).right
		}
	}
	x := *slot
	if x == nil {
		return false
	}

	if x.left != nil && x.right != nil {
		predSlot := &x.left
		for (*predSlot).right != nil {
			predSlot = &(*predSlot).right
		}
		pred := *predSlot
		x.key, x.val = pred.key, pred.val
		slot, x = predSlot, pred
	}

	child := x.left
	if child == nil {
		child = x.right
	}
	*slot = child
	x.left, x.right = nil, nil
	tree.count--
	return true
}

func (tree *bsTree[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	binaryForeach(tree.root, func(node *bstNode[K, V]) (K, V) {
		return node.key, node.val
	}, action)
}

func (tree *bsTree[K, V]) Traverse(order TraverseOrder, visitor func(node BSTNode[K, V]) bool) {
	if visitor == nil {
		return
	}
	traverseBinary(tree.root, order, func(node *bstNode[K, V]) bool {
		return visitor(node)
	})
}

func (tree *bsTree[K, V]) Release() {
	traverseBinary(tree.root, PostOrder, func(node *bstNode[K, V]) bool {
		node.left, node.right = nil, nil
		return true
	})
	tree.root = nil
	tree.count = 0
}

// BSTreeValidate checks the ordering and the length.
func BSTreeValidate[K infra.OrderedKey, V any](tree BSTree[K, V]) error {
	t, ok := tree.(*bsTree[K, V])
	if !ok || t == nil {
		return errTreeUnknownImpl
	}
	if err := binaryOrderValidate(t.root, func(node *bstNode[K, V]) K {
		return node.key
	}, t.keyCmp); err != nil {
		return err
	}
	if countBinary(t.root) != t.count {
		return errTreeLenViolation
	}
	return nil
}

func NewBSTree[K infra.OrderedKey, V any](opts ...TreeOption[K]) (BSTree[K, V], error) {
	o, err := loadTreeOptions[K](opts...)
	if err != nil {
		return nil, err
	}
	return &bsTree[K, V]{
		keyCmp: o.keyCmp,
	}, nil
}
