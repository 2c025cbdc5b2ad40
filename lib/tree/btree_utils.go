package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	errBTreeOccupancyViolation = errors.New("[xtree] b-tree node elements out of occupancy bounds")
	errBTreeChildrenViolation  = errors.New("[xtree] b-tree internal node children mismatch the elements")
	errBTreeLeafDepthViolation = errors.New("[xtree] b-tree leaves are not at the same depth")
	errBTreeNodeOrderViolation = errors.New("[xtree] b-tree elements are not sorted")
	errBTreeEmptyRootViolation = errors.New("[xtree] b-tree root is empty")
)

// BTreeValidate checks the element order, the occupancy bounds of
// each node, the children count and that all leaves are at the
// same depth.
func BTreeValidate[K infra.OrderedKey, V any](tree BTree[K, V]) error {
	t, ok := tree.(*bTree[K, V])
	if !ok || t == nil {
		return errTreeUnknownImpl
	}
	if t.root == nil {
		if t.count != 0 {
			return errTreeLenViolation
		}
		return nil
	}

	var merr error
	if len(t.root.elements) == 0 {
		merr = multierr.Append(merr, errBTreeEmptyRootViolation)
	}

	var (
		prev    K
		hasPrev bool
		cnt     int64
	)
	bTreeInOrderElements(t.root, func(e *bTreeElement[K, V]) bool {
		if hasPrev && t.keyCmp(prev, e.key) >= 0 {
			merr = multierr.Append(merr, errBTreeNodeOrderViolation)
			return false
		}
		prev, hasPrev = e.key, true
		cnt++
		return true
	})
	if cnt != t.count {
		merr = multierr.Append(merr, errTreeLenViolation)
	}

	var occupancyErr, childrenErr error
	leafDepth := -1
	var walk func(node *bTreeNode[K, V], depth int)
	walk = func(node *bTreeNode[K, V], depth int) {
		n := len(node.elements)
		if n > t.maxElements() || (node != t.root && n < t.minElements()) {
			occupancyErr = errBTreeOccupancyViolation
		}
		if node.IsLeaf() {
			if leafDepth < 0 {
				leafDepth = depth
			} else if leafDepth != depth {
				merr = multierr.Append(merr, errBTreeLeafDepthViolation)
				leafDepth = depth
			}
			return
		}
		if len(node.children) != n+1 {
			childrenErr = errBTreeChildrenViolation
			return
		}
		for _, child := range node.children {
			if child == nil {
				childrenErr = errBTreeChildrenViolation
				continue
			}
			walk(child, depth+1)
		}
	}
	walk(t.root, 1)
	merr = multierr.Append(merr, occupancyErr)
	merr = multierr.Append(merr, childrenErr)
	return merr
}
