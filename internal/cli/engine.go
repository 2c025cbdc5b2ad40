package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/tree"
)

var ErrTreeUnknownEngine = errors.New("[xtree] unknown tree engine")

type Engine string

const (
	EngineAVL   Engine = "avl"
	EngineRB    Engine = "rb"
	EngineBTree Engine = "btree"
	EngineBST   Engine = "bst"
)

var engineAliases = map[string]Engine{
	"avl":       EngineAVL,
	"rb":        EngineRB,
	"rbtree":    EngineRB,
	"red-black": EngineRB,
	"btree":     EngineBTree,
	"b-tree":    EngineBTree,
	"bst":       EngineBST,
}

func ParseEngine(name string) (Engine, error) {
	e, ok := engineAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTreeUnknownEngine, name)
	}
	return e, nil
}

// ParseEngines parses the comma separated engine names, the duplicates
// are removed.
func ParseEngines(names string) ([]Engine, error) {
	parts := lo.Compact(lo.Map(strings.Split(names, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
	engines := make([]Engine, 0, len(parts))
	for _, part := range parts {
		e, err := ParseEngine(part)
		if err != nil {
			return nil, err
		}
		engines = append(engines, e)
	}
	if len(engines) == 0 {
		return nil, fmt.Errorf("%w: empty engine list", ErrTreeUnknownEngine)
	}
	return lo.Uniq(engines), nil
}

// NewEngine creates the int64 keyed ordered map. The order is only
// used by the b-tree engine.
func NewEngine(e Engine, order int, opts ...tree.TreeOption[int64]) (tree.OrderedMap[int64, int64], error) {
	switch e {
	case EngineAVL:
		return tree.NewAVLTree[int64, int64](opts...)
	case EngineRB:
		return tree.NewRBTree[int64, int64](opts...)
	case EngineBTree:
		return tree.NewBTree[int64, int64](append(opts, tree.WithBTreeOrder[int64](order))...)
	case EngineBST:
		return tree.NewBSTree[int64, int64](opts...)
	default:
	}
	return nil, fmt.Errorf("%w: %q", ErrTreeUnknownEngine, e)
}

// ValidateEngine runs the invariant validations of the engine.
func ValidateEngine(m tree.OrderedMap[int64, int64]) error {
	switch t := m.(type) {
	case tree.AVLTree[int64, int64]:
		return tree.AVLTreeValidate[int64, int64](t)
	case tree.RBTree[int64, int64]:
		return tree.RBTreeValidate[int64, int64](t)
	case tree.BTree[int64, int64]:
		return tree.BTreeValidate[int64, int64](t)
	case tree.BSTree[int64, int64]:
		return tree.BSTreeValidate[int64, int64](t)
	default:
	}
	return ErrTreeUnknownEngine
}
