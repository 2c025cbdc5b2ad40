package tree

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

const (
	bTreeMinOrder     = 3
	bTreeDefaultOrder = 16
)

var (
	ErrTreeInvalidOrder  = errors.New("[xtree] b-tree order must be greater than or equal to 3")
	ErrTreeNilComparator = errors.New("[xtree] key comparator is nil")
)

type treeOptions[K infra.OrderedKey] struct {
	keyCmp infra.OrderedKeyComparator[K]
	order  int
}

type TreeOption[K infra.OrderedKey] func(*treeOptions[K]) error

// WithTreeDesc sorts the keys in descending order.
func WithTreeDesc[K infra.OrderedKey]() TreeOption[K] {
	return func(opts *treeOptions[K]) error {
		opts.keyCmp = infra.DescOrderedKeyComparator[K]()
		return nil
	}
}

func WithTreeKeyComparator[K infra.OrderedKey](cmp infra.OrderedKeyComparator[K]) TreeOption[K] {
	return func(opts *treeOptions[K]) error {
		if cmp == nil {
			return ErrTreeNilComparator
		}
		opts.keyCmp = cmp
		return nil
	}
}

// WithBTreeOrder sets the max number of children of a b-tree node.
// Only the b-tree engine reads it.
func WithBTreeOrder[K infra.OrderedKey](order int) TreeOption[K] {
	return func(opts *treeOptions[K]) error {
		if order < bTreeMinOrder {
			return ErrTreeInvalidOrder
		}
		opts.order = order
		return nil
	}
}

func loadTreeOptions[K infra.OrderedKey](opts ...TreeOption[K]) (*treeOptions[K], error) {
	o := &treeOptions[K]{
		keyCmp: infra.AscOrderedKeyComparator[K](),
		order:  bTreeDefaultOrder,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}
