package ndarray

import (
	"fmt"
	"strconv"
	"strings"
)

// Slice indexes v with a textual expression such as "1:, :2", "..., 0",
// "+, ::-1" or "$0". Parts are separated by commas:
//
//	i            a single position (negative counts from the end)
//	start:stop:step
//	             a range; any part may be empty
//	...          an ellipsis
//	+            a new axis
//	true, false  a boolean literal axis
//	$k           the k-th array argument, as an integer or boolean index
//
// Array arguments are only visible to the call that receives them.
func (v *NDView) Slice(expr string, arrays ...*NDView) (*NDView, error) {
	specs, err := ParseIndex(expr, arrays...)
	if err != nil {
		return nil, err
	}
	return v.Index(specs...)
}

// ParseIndex converts an index expression into axis specs.
func ParseIndex(expr string, arrays ...*NDView) ([]AxisSpec, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	parts := strings.Split(expr, ",")
	specs := make([]AxisSpec, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		spec, err := parsePart(part, arrays)
		if err != nil {
			return nil, fmt.Errorf("index %q, part %d: %w", expr, i, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parsePart(part string, arrays []*NDView) (AxisSpec, error) {
	switch {
	case part == "":
		return nil, syntaxErrorf("empty axis")
	case part == "...":
		return Ellipsis, nil
	case part == "+":
		return NewAxis, nil
	case part == "true":
		return BoolLiteral(true), nil
	case part == "false":
		return BoolLiteral(false), nil
	case part[0] == '$':
		k, err := strconv.Atoi(part[1:])
		if err != nil {
			return nil, syntaxErrorf("malformed array reference %q", part)
		}
		if k < 0 || k >= len(arrays) || arrays[k] == nil {
			return nil, fmt.Errorf("%w: array reference %q does not name an argument of this call", ErrProtocol, part)
		}
		return Arr(arrays[k]), nil
	case strings.Contains(part, ":"):
		return parseRange(part)
	default:
		i, err := parseInt(part)
		if err != nil {
			return nil, err
		}
		return Point(i), nil
	}
}

func parseRange(part string) (Range, error) {
	fields := strings.Split(part, ":")
	if len(fields) > 3 {
		return Range{}, syntaxErrorf("range %q has more than three parts", part)
	}
	vals := [3]int{None, None, None}
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		x, err := parseInt(f)
		if err != nil {
			return Range{}, err
		}
		vals[i] = x
	}
	return Range{vals[0], vals[1], vals[2]}, nil
}

func parseInt(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, boundsErrorf("non-integer index %q", s)
	}
	return i, nil
}
