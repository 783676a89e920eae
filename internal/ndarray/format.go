package ndarray

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/101arrowz/nadder/internal/config"
)

const edgeItems = 3

// String renders the view as array([...], shape=(...), dtype=...). Axes
// longer than NADDER_PRINT_THRESHOLD (never less than six) show their first
// and last three entries around "...". Floats align on the decimal point.
func (v *NDView) String() string {
	dt := v.DType()
	st := v.buf.Storage()
	if len(v.shape) == 0 {
		return formatElement(st.At(v.offset), dt)
	}

	threshold := max(int(config.PrintThreshold()), 2*edgeItems)
	var cells []string
	var build func(dim, pos int) any
	build = func(dim, pos int) any {
		if dim == len(v.shape) {
			s := formatElement(st.At(pos), dt)
			cells = append(cells, s)
			return s
		}
		n, s := v.shape[dim], v.stride[dim]
		var out []any
		if n <= threshold {
			for i := 0; i < n; i++ {
				out = append(out, build(dim+1, pos+i*s))
			}
			return out
		}
		for i := 0; i < edgeItems; i++ {
			out = append(out, build(dim+1, pos+i*s))
		}
		out = append(out, elided{})
		for i := n - edgeItems; i < n; i++ {
			out = append(out, build(dim+1, pos+i*s))
		}
		return out
	}
	tree := build(0, v.offset)

	pad := padder(cells, dt)
	var join func(node any, dim, indent int) string
	join = func(node any, dim, indent int) string {
		items := node.([]any)
		parts := make([]string, len(items))
		for i, item := range items {
			switch x := item.(type) {
			case elided:
				parts[i] = "..."
			case string:
				parts[i] = pad(x)
			default:
				parts[i] = join(x, dim+1, indent+1)
			}
			if dim < len(v.shape)-1 && i > 0 {
				parts[i] = strings.Repeat(" ", indent) + parts[i]
			}
		}
		sep := ", "
		switch {
		case dim == len(v.shape)-2:
			sep = ",\n"
		case dim < len(v.shape)-2:
			sep = ",\n\n"
		}
		return "[" + strings.Join(parts, sep) + "]"
	}

	return fmt.Sprintf("array(%s, shape=%s, dtype=%s)", join(tree, 0, len("array([")), v.shape, dt)
}

type elided struct{}

func formatElement(x any, dt DataType) string {
	switch dt {
	case String:
		return strconv.Quote(x.(string))
	case Any:
		if s, ok := x.(string); ok {
			return strconv.Quote(s)
		}
		return fmt.Sprint(x)
	default:
		return formatScalar(x)
	}
}

// padder returns a function aligning cells to a common width. Floats are
// aligned on the decimal point.
func padder(cells []string, dt DataType) func(string) string {
	if dt == Any {
		return func(s string) string { return s }
	}
	if dt&Float != 0 {
		pre, post := 0, 0
		for _, c := range cells {
			i := dotIndex(c)
			pre = max(pre, i)
			post = max(post, len(c)-i)
		}
		return func(s string) string {
			i := dotIndex(s)
			return strings.Repeat(" ", pre-i) + s + strings.Repeat(" ", post-(len(s)-i))
		}
	}
	width := 0
	for _, c := range cells {
		width = max(width, len(c))
	}
	return func(s string) string {
		return strings.Repeat(" ", width-len(s)) + s
	}
}

func dotIndex(s string) int {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return i
	}
	return len(s)
}
