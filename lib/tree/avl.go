package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type avlNode[K infra.OrderedKey, V any] struct {
	left   *avlNode[K, V]
	right  *avlNode[K, V]
	key    K
	val    V
	height int
}

func (node *avlNode[K, V]) Key() K {
	return node.key
}

func (node *avlNode[K, V]) Val() V {
	return node.val
}

func (node *avlNode[K, V]) Height() int {
	if node == nil {
		return 0
	}
	return node.height
}

func (node *avlNode[K, V]) Left() AVLNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *avlNode[K, V]) Right() AVLNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *avlNode[K, V]) leftChild() *avlNode[K, V] {
	return node.left
}

func (node *avlNode[K, V]) rightChild() *avlNode[K, V] {
	return node.right
}

func (node *avlNode[K, V]) updateHeight() int {
	node.height = max(node.left.Height(), node.right.Height()) + 1
	return node.height
}

// Balance factor, the left subtree height minus the right one.
func (node *avlNode[K, V]) bf() int {
	if node == nil {
		return 0
	}
	return node.left.Height() - node.right.Height()
}

func (node *avlNode[K, V]) maximum() *avlNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

type avlTree[K infra.OrderedKey, V any] struct {
	root   *avlNode[K, V]
	keyCmp infra.OrderedKeyComparator[K]
	count  int64
}

func (tree *avlTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *avlTree[K, V]) Height() int {
	return tree.root.Height()
}

func (tree *avlTree[K, V]) Root() AVLNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *avlTree[K, V]) Find(key K) (val V, ok bool) {
	for aux := tree.root; aux != nil; {
		res := tree.keyCmp(key, aux.key)
		if /* equal */ res == 0 {
			return aux.val, true
		} else /* less */ if res < 0 {
			aux = aux.left
		} else /* greater */ {
			aux = aux.right
		}
	}
	return val, false
}

func (tree *avlTree[K, V]) Insert(key K, val V) {
	tree.root = tree.insert(tree.root, key, val)
}

func (tree *avlTree[K, V]) insert(node *avlNode[K, V], key K, val V) *avlNode[K, V] {
	if node == nil {
		tree.count++
		return &avlNode[K, V]{
			key:    key,
			val:    val,
			height: 1,
		}
	}

	res := tree.keyCmp(key, node.key)
	if /* equal */ res == 0 {
		node.val = val
		return node
	} else /* less */ if res < 0 {
		node.left = tree.insert(node.left, key, val)
	} else /* greater */ {
		node.right = tree.insert(node.right, key, val)
	}
	return avlRebalance(node)
}

func (tree *avlTree[K, V]) Erase(key K) bool {
	if tree.root == nil {
		return false
	}
	found := false
	tree.root = tree.erase(tree.root, key, &found)
	if found {
		tree.count--
	}
	return found
}

/*
e1: The node X has at most one child, splice X by the child (or nil).

e2: The node X has left and right children.
Replace X's key & value by its pred P (the maximum of the left subtree)
and remove P from the left subtree. X keeps its position.

	    X                  P
	   / \                / \
	  L   R   ======>    L'  R
	 / \                /
	..  P              ..

Every ancestor on the unwind path is rebalanced.
*/
func (tree *avlTree[K, V]) erase(node *avlNode[K, V], key K, found *bool) *avlNode[K, V] {
	if node == nil {
		return nil
	}

	res := tree.keyCmp(key, node.key)
	if /* less */ res < 0 {
		node.left = tree.erase(node.left, key, found)
	} else /* greater */ if res > 0 {
		node.right = tree.erase(node.right, key, found)
	} else /* equal */ {
		*found = true
		if /* e1 */ node.left == nil || node.right == nil {
			child := node.left
			if child == nil {
				child = node.right
			}
			node.left, node.right = nil, nil
			return child
		}
		/* e2 */
		pred := node.left.maximum()
		node.key, node.val = pred.key, pred.val
		node.left = tree.eraseMax(node.left)
	}
	return avlRebalance(node)
}

func (tree *avlTree[K, V]) eraseMax(node *avlNode[K, V]) *avlNode[K, V] {
	if node.right == nil {
		l := node.left
		node.left = nil
		return l
	}
	node.right = tree.eraseMax(node.right)
	return avlRebalance(node)
}

func (tree *avlTree[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	binaryForeach(tree.root, func(node *avlNode[K, V]) (K, V) {
		return node.key, node.val
	}, action)
}

func (tree *avlTree[K, V]) Traverse(order TraverseOrder, visitor func(node AVLNode[K, V]) bool) {
	if visitor == nil {
		return
	}
	traverseBinary(tree.root, order, func(node *avlNode[K, V]) bool {
		return visitor(node)
	})
}

func (tree *avlTree[K, V]) Release() {
	traverseBinary(tree.root, PostOrder, func(node *avlNode[K, V]) bool {
		node.left, node.right = nil, nil
		return true
	})
	tree.root = nil
	tree.count = 0
}

/*
bf == 2, the left subtree is too tall.
(1) LL, left child bf >= 0, right rotate X.

	      X                 L
	     / \               / \
	    L   R   ======>   LL  X
	   / \                   / \
	  LL  LR                LR  R

(2) LR, left child bf == -1, left rotate L then right rotate X.

	      X                X                LR
	     / \              / \              /  \
	    L   R  =====>    LR  R  =====>    L    X
	     \              /                      \
	      LR           L                        R

bf == -2 is the mirror image (RR, RL).
*/
func avlRebalance[K infra.OrderedKey, V any](node *avlNode[K, V]) *avlNode[K, V] {
	node.updateHeight()
	switch bf := node.bf(); bf {
	case 2:
		if /* LR */ node.left.bf() == -1 {
			node.left = avlRotateLeft(node.left)
		}
		return avlRotateRight(node)
	case -2:
		if /* RL */ node.right.bf() == 1 {
			node.right = avlRotateRight(node.right)
		}
		return avlRotateLeft(node)
	default:
		if bf > 2 || bf < -2 {
			// impossible run to here
			panic( /* debug assertion */ "[xtree] avl balance factor out of range")
		}
	}
	return node
}

/*
	  |                         |
	  X                         S
	 / \     leftRotate(X)     / \
	L   S    ============>    X   Sd
	   / \                   / \
	 Sc   Sd                L   Sc
*/
func avlRotateLeft[K infra.OrderedKey, V any](x *avlNode[K, V]) *avlNode[K, V] {
	y := x.right
	x.right, y.left = y.left, x
	x.updateHeight()
	y.updateHeight()
	return y
}

func avlRotateRight[K infra.OrderedKey, V any](x *avlNode[K, V]) *avlNode[K, V] {
	y := x.left
	x.left, y.right = y.right, x
	x.updateHeight()
	y.updateHeight()
	return y
}

func NewAVLTree[K infra.OrderedKey, V any](opts ...TreeOption[K]) (AVLTree[K, V], error) {
	o, err := loadTreeOptions[K](opts...)
	if err != nil {
		return nil, err
	}
	return &avlTree[K, V]{
		keyCmp: o.keyCmp,
	}, nil
}
