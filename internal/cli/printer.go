package cli

import (
	"strconv"
	"strings"

	"github.com/benz9527/xtree/lib/tree"
)

// Walk renders the nodes of the engine by the traverse order.
// The red-black nodes are suffixed by the color initial and the b-tree
// nodes are bracketed groups of keys.
//
//	avl/bst: 1 2 5 8
//	rb:      3B 35R 47B
//	btree:   [4] [2] [6 8]
func Walk(m tree.OrderedMap[int64, int64], order tree.TraverseOrder) string {
	items := make([]string, 0, m.Len())
	switch t := m.(type) {
	case tree.AVLTree[int64, int64]:
		t.Traverse(order, func(node tree.AVLNode[int64, int64]) bool {
			items = append(items, strconv.FormatInt(node.Key(), 10))
			return true
		})
	case tree.RBTree[int64, int64]:
		t.Traverse(order, func(node tree.RBNode[int64, int64]) bool {
			items = append(items, strconv.FormatInt(node.Key(), 10)+node.Color().String()[:1])
			return true
		})
	case tree.BTree[int64, int64]:
		t.Traverse(order, func(node tree.BTreeNode[int64, int64]) bool {
			keys := make([]string, 0, node.Len())
			for i := 0; i < node.Len(); i++ {
				keys = append(keys, strconv.FormatInt(node.Key(i), 10))
			}
			items = append(items, "["+strings.Join(keys, " ")+"]")
			return true
		})
	case tree.BSTree[int64, int64]:
		t.Traverse(order, func(node tree.BSTNode[int64, int64]) bool {
			items = append(items, strconv.FormatInt(node.Key(), 10))
			return true
		})
	default:
		// Not an engine, fallback to the key order.
		m.Foreach(func(_ int64, key, _ int64) bool {
			items = append(items, strconv.FormatInt(key, 10))
			return true
		})
	}
	return strings.Join(items, " ")
}
