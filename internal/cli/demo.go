package cli

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/benz9527/xtree/lib/tree"
)

type demoConfig struct {
	engine string
	order  int
	keys   string
	erase  string
	walks  []string
	desc   bool
	check  bool
}

func newDemoCmd() *cobra.Command {
	cfg := demoConfig{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Insert and erase keys step by step and print the tree shape",
		Long: `Demo inserts the keys one by one, then erases the erase keys one by one.
The height and the traversals are printed after every step, the find
results of all the keys are printed at last.`,
		Example: `  xtree demo --engine avl --keys 0,1,5,6,8,2,4 --erase 4,6,0
  xtree demo --engine btree --order 3 --keys 1,2,3,4,5,6,7,8,9 --order-walk level,in --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout(), cfg)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&cfg.engine, "engine", "e", string(EngineAVL), "tree engine, avl|rb|btree|bst")
	flags.IntVar(&cfg.order, "order", 3, "max children of a b-tree node")
	flags.StringVarP(&cfg.keys, "keys", "k", "0,1,5,6,8,2,4", "comma separated keys to insert")
	flags.StringVar(&cfg.erase, "erase", "", "comma separated keys to erase after the inserts")
	flags.StringSliceVarP(&cfg.walks, "order-walk", "w", []string{tree.InOrder.String()}, "traversals to print, pre|in|post|level")
	flags.BoolVar(&cfg.desc, "desc", false, "sort the keys in descending order")
	flags.BoolVar(&cfg.check, "check", false, "validate the tree invariants after every step")
	return cmd
}

func runDemo(out io.Writer, cfg demoConfig) error {
	engine, err := ParseEngine(cfg.engine)
	if err != nil {
		return err
	}
	inserts, err := ParseKeys(cfg.keys)
	if err != nil {
		return err
	}
	erases, err := ParseKeys(cfg.erase)
	if err != nil {
		return err
	}
	orders, err := ParseTraverseOrders(cfg.walks)
	if err != nil {
		return err
	}
	opts := make([]tree.TreeOption[int64], 0, 1)
	if cfg.desc {
		opts = append(opts, tree.WithTreeDesc[int64]())
	}
	m, err := NewEngine(engine, cfg.order, opts...)
	if err != nil {
		return err
	}
	defer m.Release()

	step := func(op string, key int64, extra string) error {
		_, _ = fmt.Fprintf(out, "%s %d: len=%d height=%d%s\n", op, key, m.Len(), m.Height(), extra)
		for _, o := range orders {
			_, _ = fmt.Fprintf(out, "  %-5s %s\n", o.String()+":", Walk(m, o))
		}
		if !cfg.check {
			return nil
		}
		if err := ValidateEngine(m); err != nil {
			return fmt.Errorf("[xtree] %s %s %d: %w", engine, op, key, err)
		}
		return nil
	}

	_, _ = fmt.Fprintf(out, "engine: %s\n", engine)
	for _, k := range inserts {
		m.Insert(k, k)
		if err := step("insert", k, ""); err != nil {
			return err
		}
	}
	for _, k := range erases {
		ok := m.Erase(k)
		if err := step("erase", k, fmt.Sprintf(" erased=%t", ok)); err != nil {
			return err
		}
	}
	for _, k := range lo.Uniq(append(inserts, erases...)) {
		if v, ok := m.Find(k); ok {
			_, _ = fmt.Fprintf(out, "find %d: %d\n", k, v)
		} else {
			_, _ = fmt.Fprintf(out, "find %d: miss\n", k)
		}
	}
	return nil
}
