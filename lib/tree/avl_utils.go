package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	errAVLHeightViolation    = errors.New("[xtree] avl cached height violation")
	errAVLBalanceFactorLimit = errors.New("[xtree] avl balance factor violation")
)

// AVLTreeValidate checks the ordering, the cached heights and
// the balance factor of every node.
func AVLTreeValidate[K infra.OrderedKey, V any](tree AVLTree[K, V]) error {
	t, ok := tree.(*avlTree[K, V])
	if !ok || t == nil {
		return errTreeUnknownImpl
	}

	var merr error
	merr = multierr.Append(merr, binaryOrderValidate(t.root, func(node *avlNode[K, V]) K {
		return node.key
	}, t.keyCmp))

	var heightErr, bfErr error
	traverseBinary(t.root, PostOrder, func(node *avlNode[K, V]) bool {
		if heightErr == nil && node.height != max(node.left.Height(), node.right.Height())+1 {
			heightErr = errAVLHeightViolation
		}
		if bf := node.bf(); bfErr == nil && (bf > 1 || bf < -1) {
			bfErr = errAVLBalanceFactorLimit
		}
		return heightErr == nil || bfErr == nil
	})
	merr = multierr.Append(merr, heightErr)
	merr = multierr.Append(merr, bfErr)

	if cnt := countBinary(t.root); cnt != t.count {
		merr = multierr.Append(merr, errTreeLenViolation)
	}
	return merr
}
