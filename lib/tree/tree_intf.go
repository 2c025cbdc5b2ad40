package tree

import "github.com/benz9527/xtree/lib/infra"

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

type TraverseOrder uint8

const (
	PreOrder TraverseOrder = iota
	InOrder
	PostOrder
	LevelOrder
)

func (o TraverseOrder) String() string {
	switch o {
	case PreOrder:
		return "pre"
	case InOrder:
		return "in"
	case PostOrder:
		return "post"
	case LevelOrder:
		return "level"
	default:
	}
	return "unknown"
}

// OrderedMap is the common contract of all tree engines.
// The engines are single owner data structures, they are not
// safe for concurrent mutation. Wrap them by NewSyncedMap if
// they have to be shared between goroutines.
type OrderedMap[K infra.OrderedKey, V any] interface {
	Len() int64
	// Height returns 0 for an empty tree.
	Height() int
	Find(key K) (V, bool)
	// Insert creates the key or overwrites the value of an existing key.
	Insert(key K, val V)
	// Erase returns false if the key is absent and nothing changed.
	Erase(key K) bool
	// Foreach iterates the elements by the key comparator order.
	// Returning false from the action stops the iteration.
	Foreach(action func(idx int64, key K, val V) bool)
	Release()
}

// AVLNode is the read-only view of an AVL tree node.
type AVLNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Height() int
	Left() AVLNode[K, V]
	Right() AVLNode[K, V]
}

type AVLTree[K infra.OrderedKey, V any] interface {
	OrderedMap[K, V]
	Root() AVLNode[K, V]
	Traverse(order TraverseOrder, visitor func(node AVLNode[K, V]) bool)
}

// RBNode is the read-only view of a red-black tree node.
// BlackHeight is the number of black nodes from the left
// child down to the nil leaves.
type RBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	BlackHeight() int
	Left() RBNode[K, V]
	Right() RBNode[K, V]
}

type RBTree[K infra.OrderedKey, V any] interface {
	OrderedMap[K, V]
	Root() RBNode[K, V]
	Traverse(order TraverseOrder, visitor func(node RBNode[K, V]) bool)
}

// BTreeNode is the read-only view of a B-tree node.
// Key(i) and Val(i) are valid in [0, Len()), Child(i) in [0, Len()]
// for a non-leaf node.
type BTreeNode[K infra.OrderedKey, V any] interface {
	Len() int
	Key(i int) K
	Val(i int) V
	IsLeaf() bool
	Child(i int) BTreeNode[K, V]
}

type BTree[K infra.OrderedKey, V any] interface {
	OrderedMap[K, V]
	Order() int
	Root() BTreeNode[K, V]
	// Traverse visits the nodes. The in-order traversal visits
	// a node after its first child subtree and before the others.
	Traverse(order TraverseOrder, visitor func(node BTreeNode[K, V]) bool)
}

// BSTNode is the read-only view of the unbalanced binary search tree node.
type BSTNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Left() BSTNode[K, V]
	Right() BSTNode[K, V]
}

type BSTree[K infra.OrderedKey, V any] interface {
	OrderedMap[K, V]
	Root() BSTNode[K, V]
	Traverse(order TraverseOrder, visitor func(node BSTNode[K, V]) bool)
}
