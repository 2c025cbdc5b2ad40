package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type rbNode[K infra.OrderedKey, V any] struct {
	left        *rbNode[K, V]
	right       *rbNode[K, V]
	key         K
	val         V
	blackHeight int
	color       RBColor
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

// Color treats the nil leaf as black.
func (node *rbNode[K, V]) Color() RBColor {
	if node == nil {
		return Black
	}
	return node.color
}

func (node *rbNode[K, V]) BlackHeight() int {
	if node == nil {
		return 0
	}
	return node.blackHeight
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[K, V]) leftChild() *rbNode[K, V] {
	return node.left
}

func (node *rbNode[K, V]) rightChild() *rbNode[K, V] {
	return node.right
}

func (node *rbNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

// bh is the black count from the node itself down to the nil leaves.
// The nil leaf is the boundary and not counted.
func (node *rbNode[K, V]) bh() int {
	if node == nil {
		return 0
	}
	if node.color == Black {
		return node.blackHeight + 1
	}
	return node.blackHeight
}

// refresh recomputes the cached black height from the left child.
// The children must be refreshed before.
func (node *rbNode[K, V]) refresh() {
	node.blackHeight = node.left.bh()
}

// blackFactor is the black height difference between two sides.
// -1 means the left side is short of one black node.
func (node *rbNode[K, V]) blackFactor() int {
	return node.left.bh() - node.right.bh()
}

type rbTree[K infra.OrderedKey, V any] struct {
	root   *rbNode[K, V]
	keyCmp infra.OrderedKeyComparator[K]
	count  int64
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, V]) Height() int {
	return binaryHeight(tree.root)
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// The longest path nodes' number is at most 2 * shortest path nodes' number.

func (tree *rbTree[K, V]) Find(key K) (val V, ok bool) {
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

// i1: Empty rbtree, insert directly, but root node is painted to black.
func (tree *rbTree[K, V]) Insert(key K, val V) {
	tree.root = tree.insert(tree.root, key, val)
	tree.root.color = Black
}

func (tree *rbTree[K, V]) insert(node *rbNode[K, V], key K, val V) *rbNode[K, V] {
	if node == nil {
		tree.count++
		return &rbNode[K, V]{
			key:   key,
			val:   val,
			color: Red,
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
	return rbInsertFixup(node)
}

/*
The fixup runs on every node of the unwind path.
The new node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: Current node G is red, the red-violation (if any) is checked
one level up.

im2: G is black and both children P and U are red, one of them has
a red child. Repaint G into red, P and U into black.
The red G may be still red-violation, it is fixed by the upper levels.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im3: G is black with exactly one red child P, X is the same direction
as P (LL or RR). Rotate G to the opposite direction and swap the colors.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

im4: G is black with exactly one red child P, X is opposite direction
to P (LR or RL). Rotate P to make X the same direction, then as im3
with X in place of P.

	  [G]                 [G]                 [X]
	  / \    rotate(P)    / \    rotate(G)    / \
	<P> [U]  ========>  <X> [U]  ========>  <P> <G>
	  \                 /                         \
	  <X>             <P>                         [U]
*/
func rbInsertFixup[K infra.OrderedKey, V any](g *rbNode[K, V]) *rbNode[K, V] {
	g.refresh()
	if /* im1 */ g.isRed() {
		return g
	}

	p, u := g.left, g.right
	if p.isRed() && u.isRed() {
		if /* im2 */ p.left.isRed() || p.right.isRed() || u.left.isRed() || u.right.isRed() {
			g.color = Red
			p.color = Black
			u.color = Black
			g.refresh()
		}
		return g
	}

	if p.isRed() {
		if /* im3 LL */ p.left.isRed() {
			g.color, p.color = Red, Black
			return rbRotateRight(g)
		} else /* im4 LR */ if x := p.right; x.isRed() {
			g.color, x.color = Red, Black
			g.left = rbRotateLeft(p)
			return rbRotateRight(g)
		}
	} else if u.isRed() {
		if /* im3 RR */ u.right.isRed() {
			g.color, u.color = Red, Black
			return rbRotateLeft(g)
		} else /* im4 RL */ if x := u.left; x.isRed() {
			g.color, x.color = Red, Black
			g.right = rbRotateRight(u)
			return rbRotateLeft(g)
		}
	}
	return g
}

func (tree *rbTree[K, V]) Erase(key K) bool {
	if tree.root == nil {
		return false
	}
	found := false
	tree.root = tree.erase(tree.root, key, &found)
	if !found {
		return false
	}
	tree.count--
	if tree.root != nil {
		tree.root.color = Black
	}
	return true
}

/*
r1: Current node X has no left child. Splice X by its right child.
The right child (if any) must be a red leaf, it is repainted into black.

r2: Current node X has the left child.
Find node X's pred P to replace it to be removed. Only the key and
value are swapped, X keeps its identity and color. Then P is removed
from X's left subtree recursively.

	  |                    |
	  X                    P
	 / \                  / \
	L  ..   swap(X, P)   L  ..
	 \      =========>    \
	  P                    X (removed)

Every node of the unwind path is fixed by the black factor.
*/
func (tree *rbTree[K, V]) erase(node *rbNode[K, V], key K, found *bool) *rbNode[K, V] {
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
		if /* r1 */ node.left == nil {
			return rbSplice(node, node.right)
		}
		/* r2 */
		node.left = tree.eraseMax(node.left, node)
	}
	return rbEraseFixup(node)
}

// eraseMax removes the maximum node of the subtree and moves its
// key and value into the target.
func (tree *rbTree[K, V]) eraseMax(node, target *rbNode[K, V]) *rbNode[K, V] {
	if node.right == nil {
		target.key, target.val = node.key, node.val
		return rbSplice(node, node.left)
	}
	node.right = tree.eraseMax(node.right, target)
	return rbEraseFixup(node)
}

func rbSplice[K infra.OrderedKey, V any](node, child *rbNode[K, V]) *rbNode[K, V] {
	node.left, node.right = nil, nil
	if child != nil {
		child.color = Black
	}
	return child
}

func rbEraseFixup[K infra.OrderedKey, V any](node *rbNode[K, V]) *rbNode[K, V] {
	switch bf := node.blackFactor(); bf {
	case 0:
		node.refresh()
		return node
	case -1:
		return rbFixLeftShort(node)
	case 1:
		return rbFixRightShort(node)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rbtree black factor out of range")
	}
}

/*
The left side of P is short of one black node. X is the left child.
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm1: X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. Left rotate P, repaint S into black, P into red.
Then the left side of P is still short, but the sibling turns to
the black Sc, fix P again by rm2, rm4 or rm5.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: X's sibling S, nephew node Sc and Sd are black.
Repaint S into red. If P is red, repaint P into black and the black
height is restored. Otherwise, the whole P subtree is short of one
black node, the upper level fixes it.

	  {P}             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: X's sibling S is black, nephew node Sc is red and Sd
is black. Right rotate S, repaint S into red, Sc into black.
Enter into rm5 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: X's sibling S is black, nephew node Sd is red.
Left rotate P, S takes P's color, repaint P and Sd into black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 {Sc} <Sd>          [X] {Sc}           [X] {Sc}
*/
func rbFixLeftShort[K infra.OrderedKey, V any](p *rbNode[K, V]) *rbNode[K, V] {
	s := p.right
	if s == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rbtree black short without sibling")
	}

	if /* rm1 */ s.isRed() {
		s.color, p.color = Black, Red
		top := rbRotateLeft(p)
		top.left = rbFixLeftShort(p)
		top.refresh()
		return top
	}

	sc, sd := s.left, s.right
	if /* rm2 */ sc.isBlack() && sd.isBlack() {
		s.color = Red
		p.color = Black
		p.refresh()
		return p
	}

	if /* rm4 */ sd.isBlack() {
		sc.color, s.color = Black, Red
		p.right = rbRotateRight(s)
		s, sd = p.right, s
	}

	/* rm5 */
	s.color, p.color, sd.color = p.color, Black, Black
	return rbRotateLeft(p)
}

// rbFixRightShort is the mirror image of rbFixLeftShort.
func rbFixRightShort[K infra.OrderedKey, V any](p *rbNode[K, V]) *rbNode[K, V] {
	s := p.left
	if s == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rbtree black short without sibling")
	}

	if /* rm1 */ s.isRed() {
		s.color, p.color = Black, Red
		top := rbRotateRight(p)
		top.right = rbFixRightShort(p)
		top.refresh()
		return top
	}

	sc, sd := s.right, s.left
	if /* rm2 */ sc.isBlack() && sd.isBlack() {
		s.color = Red
		p.color = Black
		p.refresh()
		return p
	}

	if /* rm4 */ sd.isBlack() {
		sc.color, s.color = Black, Red
		p.left = rbRotateLeft(s)
		s, sd = p.left, s
	}

	/* rm5 */
	s.color, p.color, sd.color = p.color, Black, Black
	return rbRotateRight(p)
}

/*
	  |                         |
	  X                         S
	 / \     leftRotate(X)     / \
	L   S    ============>    X   Sd
	   / \                   / \
	 Sc   Sd                L   Sc
*/
func rbRotateLeft[K infra.OrderedKey, V any](x *rbNode[K, V]) *rbNode[K, V] {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rbtree left rotate node x is nil or x.right is nil")
	}
	y := x.right
	x.right, y.left = y.left, x
	x.refresh()
	y.refresh()
	return y
}

/*
	     |                         |
	     X                         S
	    / \     rightRotate(S)    / \
	   L   S    <============    X   R
	      / \                   / \
	    Sc   Sd               Sc   Sd
*/
func rbRotateRight[K infra.OrderedKey, V any](x *rbNode[K, V]) *rbNode[K, V] {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rbtree right rotate node x is nil or x.left is nil")
	}
	y := x.left
	x.left, y.right = y.right, x
	x.refresh()
	y.refresh()
	return y
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	binaryForeach(tree.root, func(node *rbNode[K, V]) (K, V) {
		return node.key, node.val
	}, action)
}

func (tree *rbTree[K, V]) Traverse(order TraverseOrder, visitor func(node RBNode[K, V]) bool) {
	if visitor == nil {
		return
	}
	traverseBinary(tree.root, order, func(node *rbNode[K, V]) bool {
		return visitor(node)
	})
}

func (tree *rbTree[K, V]) Release() {
	traverseBinary(tree.root, PostOrder, func(node *rbNode[K, V]) bool {
		node.left, node.right = nil, nil
		return true
	})
	tree.root = nil
	tree.count = 0
}

func NewRBTree[K infra.OrderedKey, V any](opts ...TreeOption[K]) (RBTree[K, V], error) {
	o, err := loadTreeOptions[K](opts...)
	if err != nil {
		return nil, err
	}
	return &rbTree[K, V]{
		keyCmp: o.keyCmp,
	}, nil
}
