package tree

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	errTreeOrderViolation = errors.New("[xtree] binary search order violation")
	errTreeLenViolation   = errors.New("[xtree] tree length mismatches the nodes")
	errTreeUnknownImpl    = errors.New("[xtree] unknown tree implementation to validate")
)

// binaryNode is the shape shared by the AVL, red-black and plain
// binary search tree nodes. The traversal utilities are written once
// against it.
type binaryNode[N any] interface {
	comparable
	leftChild() N
	rightChild() N
}

// traverseBinary walks the subtree by the order without recursion.
// The visit function returns false to stop the walk.
func traverseBinary[N binaryNode[N]](root N, order TraverseOrder, visit func(N) bool) {
	var nilNode N
	if root == nilNode || visit == nil {
		return
	}

	switch order {
	case PreOrder:
		stack := make([]N, 0, 32)
		stack = append(stack, root)
		for len(stack) > 0 {
			aux := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !visit(aux) {
				return
			}
			if r := aux.rightChild(); r != nilNode {
				stack = append(stack, r)
			}
			if l := aux.leftChild(); l != nilNode {
				stack = append(stack, l)
			}
		}
	case InOrder:
		stack := make([]N, 0, 32)
		for aux := root; aux != nilNode || len(stack) > 0; {
			if aux != nilNode {
				stack = append(stack, aux)
				aux = aux.leftChild()
				continue
			}
			aux = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !visit(aux) {
				return
			}
			aux = aux.rightChild()
		}
	case PostOrder:
		stack := make([]N, 0, 32)
		var last N
		for aux := root; aux != nilNode || len(stack) > 0; {
			if aux != nilNode {
				stack = append(stack, aux)
				aux = aux.leftChild()
				continue
			}
			peek := stack[len(stack)-1]
			if r := peek.rightChild(); r != nilNode && r != last {
				aux = r
				continue
			}
			// The visit function is allowed to unlink the children
			// of peek, they have been walked already.
			if !visit(peek) {
				return
			}
			last = peek
			stack = stack[:len(stack)-1]
		}
	case LevelOrder:
		queue := make([]N, 0, 32)
		queue = append(queue, root)
		for len(queue) > 0 {
			aux := queue[0]
			queue = queue[1:]
			if !visit(aux) {
				return
			}
			if l := aux.leftChild(); l != nilNode {
				queue = append(queue, l)
			}
			if r := aux.rightChild(); r != nilNode {
				queue = append(queue, r)
			}
		}
	default:
	}
}

// binaryHeight counts the nodes on the longest root to leaf path.
func binaryHeight[N binaryNode[N]](node N) int {
	var nilNode N
	if node == nilNode {
		return 0
	}
	return max(binaryHeight(node.leftChild()), binaryHeight(node.rightChild())) + 1
}

// binaryForeach is the in-order iteration of the OrderedMap contract.
func binaryForeach[N binaryNode[N], K infra.OrderedKey, V any](
	root N,
	kv func(N) (K, V),
	action func(idx int64, key K, val V) bool,
) {
	if action == nil {
		return
	}
	idx := int64(0)
	traverseBinary(root, InOrder, func(node N) bool {
		key, val := kv(node)
		if !action(idx, key, val) {
			return false
		}
		idx++
		return true
	})
}

// binaryOrderValidate checks the in-order keys are strictly increasing
// by the comparator.
func binaryOrderValidate[N binaryNode[N], K infra.OrderedKey](
	root N,
	keyOf func(N) K,
	cmp infra.OrderedKeyComparator[K],
) error {
	var (
		prev    K
		hasPrev bool
		err     error
	)
	traverseBinary(root, InOrder, func(node N) bool {
		key := keyOf(node)
		if hasPrev && cmp(prev, key) >= 0 {
			err = errTreeOrderViolation
			return false
		}
		prev, hasPrev = key, true
		return true
	})
	return err
}

func countBinary[N binaryNode[N]](root N) int64 {
	cnt := int64(0)
	traverseBinary(root, LevelOrder, func(N) bool {
		cnt++
		return true
	})
	return cnt
}
