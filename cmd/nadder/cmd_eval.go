package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/101arrowz/nadder/ndarray"
	"github.com/101arrowz/nadder/ufunc"
)

// parseLiteral decodes a JSON array literal. Integers stay integers, and an
// object {"re": x, "im": y} is a complex number.
func parseLiteral(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid literal %q: %w", s, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid literal %q: trailing data", s)
	}
	return normalize(raw)
}

func normalize(raw any) (any, error) {
	switch x := raw.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), nil
		}
		return x.Float64()
	case []any:
		for i := range x {
			v, err := normalize(x[i])
			if err != nil {
				return nil, err
			}
			x[i] = v
		}
		return x, nil
	case map[string]any:
		var re, im float64
		for k, v := range x {
			n, ok := v.(json.Number)
			if !ok {
				return nil, fmt.Errorf("complex part %q must be a number", k)
			}
			f, err := n.Float64()
			if err != nil {
				return nil, err
			}
			switch k {
			case "re":
				re = f
			case "im":
				im = f
			default:
				return nil, fmt.Errorf("unknown complex part %q", k)
			}
		}
		return complex(re, im), nil
	default:
		return x, nil
	}
}

func parseView(s string) (*ndarray.NDView, error) {
	lit, err := parseLiteral(s)
	if err != nil {
		return nil, err
	}
	return ndarray.Array(lit)
}

func lookupUfunc(name string) (*ufunc.Ufunc, error) {
	u, ok := ufunc.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown ufunc %q, see 'nadder ops'", name)
	}
	return u, nil
}

func dtypeFlag(cmd *cobra.Command) (ndarray.DataType, error) {
	name, _ := cmd.Flags().GetString("dtype")
	if name == "" {
		return 0, nil
	}
	return ndarray.ParseDataType(name)
}

func whereFlag(cmd *cobra.Command) (any, error) {
	s, _ := cmd.Flags().GetString("where")
	if s == "" {
		return nil, nil
	}
	return parseLiteral(s)
}

func printResult(w io.Writer, res any) {
	switch x := res.(type) {
	case []any:
		for _, r := range x {
			printResult(w, r)
		}
	case *ndarray.NDView:
		fmt.Fprintln(w, x.String())
	default:
		fmt.Fprintln(w, x)
	}
}

// EvalHandler applies a ufunc to literal operands.
func EvalHandler(cmd *cobra.Command, args []string) error {
	u, err := lookupUfunc(args[0])
	if err != nil {
		return err
	}
	if len(args)-1 != u.Nin() {
		return fmt.Errorf("%s takes %d operands, got %d", u.Name(), u.Nin(), len(args)-1)
	}

	operands := make([]any, len(args)-1)
	for i, s := range args[1:] {
		if operands[i], err = parseLiteral(s); err != nil {
			return err
		}
	}

	var opts ufunc.Options
	if opts.DType, err = dtypeFlag(cmd); err != nil {
		return err
	}
	if opts.Where, err = whereFlag(cmd); err != nil {
		return err
	}

	res, err := u.CallWith(opts, operands...)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// ReduceHandler folds a literal along axes.
func ReduceHandler(cmd *cobra.Command, args []string) error {
	u, err := lookupUfunc(args[0])
	if err != nil {
		return err
	}
	v, err := parseView(args[1])
	if err != nil {
		return err
	}

	var opts ufunc.ReduceOptions
	if cmd.Flags().Changed("axis") {
		if opts.Axes, err = cmd.Flags().GetIntSlice("axis"); err != nil {
			return err
		}
	}
	opts.KeepDims, _ = cmd.Flags().GetBool("keepdims")
	if s, _ := cmd.Flags().GetString("initial"); s != "" {
		if opts.Initial, err = parseLiteral(s); err != nil {
			return err
		}
	}
	if opts.DType, err = dtypeFlag(cmd); err != nil {
		return err
	}
	if opts.Where, err = whereFlag(cmd); err != nil {
		return err
	}

	res, err := u.Reduce(v, opts)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// AccumulateHandler prints the running results of a ufunc along an axis.
func AccumulateHandler(cmd *cobra.Command, args []string) error {
	u, err := lookupUfunc(args[0])
	if err != nil {
		return err
	}
	v, err := parseView(args[1])
	if err != nil {
		return err
	}
	axis, _ := cmd.Flags().GetInt("axis")

	var opts ufunc.AccumulateOptions
	if opts.DType, err = dtypeFlag(cmd); err != nil {
		return err
	}

	res, err := u.Accumulate(v, axis, opts)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// IndexHandler applies an index expression to a literal. Further literals
// are the arrays referenced by $0, $1, ...
func IndexHandler(cmd *cobra.Command, args []string) error {
	v, err := parseView(args[0])
	if err != nil {
		return err
	}
	arrays := make([]*ndarray.NDView, len(args)-2)
	for i, s := range args[2:] {
		if arrays[i], err = parseView(s); err != nil {
			return err
		}
	}

	res, err := v.Slice(args[1], arrays...)
	if err != nil {
		if errors.Is(err, ndarray.ErrSyntax) {
			return fmt.Errorf("%w (try 'nadder index --help')", err)
		}
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

func newEvalCmd() *cobra.Command {
	evalCmd := &cobra.Command{
		Use:   "eval OP JSON...",
		Short: "Apply a ufunc to array literals",
		Example: `  nadder eval add '[[1], [2]]' '[10, 20]'
  nadder eval div '[1, 2]' 4 --dtype float32
  nadder eval mul '[1, 2, 3]' 2 --where '[true, false, true]'`,
		Args: cobra.MinimumNArgs(2),
		RunE: EvalHandler,
	}
	evalCmd.Flags().String("dtype", "", "Output data type")
	evalCmd.Flags().String("where", "", "Boolean mask literal; masked positions are left as zero")
	return evalCmd
}

func newReduceCmd() *cobra.Command {
	reduceCmd := &cobra.Command{
		Use:   "reduce OP JSON",
		Short: "Fold an array literal with a binary ufunc",
		Example: `  nadder reduce add '[[1, 2], [3, 4]]' --axis 0
  nadder reduce mul '[1, 2, 3]' --initial 10`,
		Args: cobra.ExactArgs(2),
		RunE: ReduceHandler,
	}
	reduceCmd.Flags().IntSlice("axis", nil, "Axis to reduce, may be repeated (default all)")
	reduceCmd.Flags().Bool("keepdims", false, "Keep reduced axes with length 1")
	reduceCmd.Flags().String("initial", "", "Starting value literal")
	reduceCmd.Flags().String("dtype", "", "Output data type")
	reduceCmd.Flags().String("where", "", "Boolean mask literal")
	return reduceCmd
}

func newAccumulateCmd() *cobra.Command {
	accumulateCmd := &cobra.Command{
		Use:     "accumulate OP JSON",
		Short:   "Print the running results of a binary ufunc",
		Example: `  nadder accumulate add '[[1, 2], [3, 4]]' --axis 1`,
		Args:    cobra.ExactArgs(2),
		RunE:    AccumulateHandler,
	}
	accumulateCmd.Flags().Int("axis", 0, "Axis to accumulate along")
	accumulateCmd.Flags().String("dtype", "", "Output data type")
	return accumulateCmd
}

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index JSON EXPR [JSON...]",
		Short: "Index an array literal",
		Long: `Index an array literal with a comma separated list of axis specs:

  3        a single position, removing the axis
  1:5:2    a range start:stop:step, any part optional
  ...      as many full ranges as needed
  +        a new axis of length 1
  $0       the first extra JSON argument, an integer or boolean array`,
		Example: `  nadder index '[[1, 2], [3, 4]]' '::-1, 0'
  nadder index '[5, 6, 7]' '$0' '[2, 0]'`,
		Args: cobra.MinimumNArgs(2),
		RunE: IndexHandler,
	}
}
