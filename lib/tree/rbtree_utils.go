package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	errRBTreeRedViolation         = errors.New("[xtree] rbtree red violation")
	errRBTreeBlackViolation       = errors.New("[xtree] rbtree black violation")
	errRBTreeRootColorViolation   = errors.New("[xtree] rbtree root is not black")
	errRBTreeBlackHeightViolation = errors.New("[xtree] rbtree cached black height violation")
)

func isRBNilLeaf[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return node == nil
}

func isRBRed[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return !isRBNilLeaf[K, V](node) && node.Color() == Red
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate the rbtree properties.
func RedViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	size := tree.Len()
	var aux RBNode[K, V] = tree.Root()
	if size <= 0 || aux == nil {
		return nil
	}

	stack := make([]RBNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !isRBNilLeaf[K, V](aux); aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; isRBRed[K, V](aux) {
			if isRBRed[K, V](aux.Left()) || isRBRed[K, V](aux.Right()) {
				return errRBTreeRedViolation
			}
		}

		stack = stack[:size-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

2-3-4 tree like:

	       <8> --- [13] --- <15>
	      /  \             /    \
	     /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each nil leaf to root node black depth are equal.
*/
func BlackViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	if tree.Root() == nil {
		return nil
	}
	if _, err := rbBlackDepth(tree.Root()); err != nil {
		return err
	}
	return nil
}

// rbBlackDepth returns the black count from the node down to the nil
// leaves, or a black violation if two paths disagree.
func rbBlackDepth[K infra.OrderedKey, V any](node RBNode[K, V]) (int, error) {
	if isRBNilLeaf[K, V](node) {
		return 0, nil
	}
	l, err := rbBlackDepth(node.Left())
	if err != nil {
		return 0, err
	}
	r, err := rbBlackDepth(node.Right())
	if err != nil {
		return 0, err
	}
	if l != r {
		return 0, errRBTreeBlackViolation
	}
	if node.Color() == Black {
		l++
	}
	return l, nil
}

// BlackHeightCacheValidate checks every node caches the black count
// of its left side.
func BlackHeightCacheValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	var err error
	tree.Traverse(PostOrder, func(node RBNode[K, V]) bool {
		depth, _err := rbBlackDepth(node.Left())
		if _err != nil || depth != node.BlackHeight() {
			err = errRBTreeBlackHeightViolation
			return false
		}
		return true
	})
	return err
}

// RBTreeValidate runs all the rbtree rule validations.
func RBTreeValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	t, ok := tree.(*rbTree[K, V])
	if !ok || t == nil {
		return errTreeUnknownImpl
	}

	var merr error
	if t.root != nil && t.root.color != Black {
		merr = multierr.Append(merr, errRBTreeRootColorViolation)
	}
	merr = multierr.Append(merr, RedViolationValidate[K, V](tree))
	merr = multierr.Append(merr, BlackViolationValidate[K, V](tree))
	merr = multierr.Append(merr, BlackHeightCacheValidate[K, V](tree))
	merr = multierr.Append(merr, binaryOrderValidate(t.root, func(node *rbNode[K, V]) K {
		return node.key
	}, t.keyCmp))
	if cnt := countBinary(t.root); cnt != t.count {
		merr = multierr.Append(merr, errTreeLenViolation)
	}
	return merr
}
