package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/tree"
)

var ErrInvalidTraverseOrder = errors.New("[xtree] invalid traverse order")

// ParseKeys parses the comma separated integer keys. Blank items are
// skipped, so "1,,2," is the same as "1,2".
func ParseKeys(s string) ([]int64, error) {
	parts := lo.Compact(lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
	keys := make([]int64, 0, len(parts))
	for _, part := range parts {
		k, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("[xtree] invalid key %q: %w", part, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

var traverseOrders = map[string]tree.TraverseOrder{
	tree.PreOrder.String():   tree.PreOrder,
	tree.InOrder.String():    tree.InOrder,
	tree.PostOrder.String():  tree.PostOrder,
	tree.LevelOrder.String(): tree.LevelOrder,
}

func ParseTraverseOrders(names []string) ([]tree.TraverseOrder, error) {
	orders := make([]tree.TraverseOrder, 0, len(names))
	for _, name := range names {
		o, ok := traverseOrders[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTraverseOrder, name)
		}
		orders = append(orders, o)
	}
	return lo.Uniq(orders), nil
}
