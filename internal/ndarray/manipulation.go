package ndarray

// Reshape returns a view with the given dimensions and the same elements in
// row-major order. At most one dimension may be negative; it is inferred. The
// result shares v's buffer whenever the layout allows and is a copy
// otherwise.
func (v *NDView) Reshape(shape ...int) (*NDView, error) {
	target, err := v.inferShape(shape)
	if err != nil {
		return nil, err
	}
	if stride, ok := reshapeStrides(v.shape, v.stride, target); ok {
		return v.view(target, stride, v.offset), nil
	}
	flat := v.Flatten()
	return flat.view(target, target.ComputeStrides(), 0), nil
}

func (v *NDView) inferShape(shape []int) (Shape, error) {
	target := Shape(shape).Clone()
	unknown := -1
	known := 1
	for i, d := range target {
		if d < 0 {
			if unknown >= 0 {
				return nil, shapeErrorf("reshape: can only specify one unknown dimension in %s", target)
			}
			unknown = i
			continue
		}
		known *= d
	}
	size := v.Size()
	if unknown >= 0 && known != 0 && size%known == 0 {
		target[unknown] = size / known
	}
	if target.NumElements() != size || (unknown >= 0 && target[unknown] < 0) {
		return nil, &ShapeError{Op: "reshape", Expected: v.shape, Got: Shape(shape), Details: "dimensions do not match data length"}
	}
	return target, nil
}

// reshapeStrides computes strides that present the same elements with a new
// shape without copying, matching runs of old axes against runs of new axes
// whose products agree. It fails when a run is not contiguous in memory.
func reshapeStrides(oldShape Shape, oldStride []int, newShape Shape) ([]int, bool) {
	newStride := make([]int, len(newShape))
	if oldShape.NumElements() == 0 {
		return newShape.ComputeStrides(), true
	}

	var od, os []int
	for i, d := range oldShape {
		if d != 1 {
			od = append(od, d)
			os = append(os, oldStride[i])
		}
	}

	oi, oj := 0, 1
	ni, nj := 0, 1
	for ni < len(newShape) && oi < len(od) {
		np, op := newShape[ni], od[oi]
		for np != op {
			if np < op {
				np *= newShape[nj]
				nj++
			} else {
				op *= od[oj]
				oj++
			}
		}
		for k := oi; k < oj-1; k++ {
			if os[k] != od[k+1]*os[k+1] {
				return nil, false
			}
		}
		newStride[nj-1] = os[oj-1]
		for k := nj - 1; k > ni; k-- {
			newStride[k-1] = newStride[k] * newShape[k]
		}
		ni, nj = nj, nj+1
		oi, oj = oj, oj+1
	}
	// trailing length-1 axes keep stride 0
	return newStride, true
}

// Transpose permutes the axes. With no arguments the axis order is reversed.
// Negative axes count from the end; each axis must appear exactly once.
func (v *NDView) Transpose(order ...int) (*NDView, error) {
	nd := len(v.shape)
	if len(order) == 0 {
		order = make([]int, nd)
		for i := range order {
			order[i] = nd - 1 - i
		}
	}
	if len(order) != nd {
		return nil, shapeErrorf("transpose: order %v does not match %d dimensions", order, nd)
	}

	seen := make([]bool, nd)
	shape := make(Shape, nd)
	stride := make([]int, nd)
	for i, ax := range order {
		if ax < 0 {
			ax += nd
		}
		if ax < 0 || ax >= nd {
			return nil, boundsErrorf("transpose: axis %d out of range for %d dimensions", order[i], nd)
		}
		if seen[ax] {
			return nil, shapeErrorf("transpose: axis %d repeated in order %v", ax, order)
		}
		seen[ax] = true
		shape[i] = v.shape[ax]
		stride[i] = v.stride[ax]
	}
	return v.view(shape, stride, v.offset), nil
}

// T returns the view with its axes reversed.
func (v *NDView) T() *NDView {
	t, _ := v.Transpose()
	return t
}

// Flatten returns a one-dimensional contiguous copy.
func (v *NDView) Flatten() *NDView {
	out := v.clone()
	out.shape = Shape{v.Size()}
	out.stride = []int{1}
	return out
}

// Ravel returns a one-dimensional view, copying only when the layout
// cannot be flattened in place.
func (v *NDView) Ravel() *NDView {
	r, _ := v.Reshape(v.Size())
	return r
}

// Squeeze removes length-1 axes: the listed ones, or all of them.
func (v *NDView) Squeeze(axes ...int) (*NDView, error) {
	nd := len(v.shape)
	drop := make([]bool, nd)
	if len(axes) == 0 {
		for i, d := range v.shape {
			drop[i] = d == 1
		}
	}
	for _, ax := range axes {
		a := ax
		if a < 0 {
			a += nd
		}
		if a < 0 || a >= nd {
			return nil, boundsErrorf("squeeze: axis %d out of range for %d dimensions", ax, nd)
		}
		if v.shape[a] != 1 {
			return nil, shapeErrorf("squeeze: axis %d has length %d, not 1", ax, v.shape[a])
		}
		drop[a] = true
	}

	shape := make(Shape, 0, nd)
	stride := make([]int, 0, nd)
	for i := range v.shape {
		if !drop[i] {
			shape = append(shape, v.shape[i])
			stride = append(stride, v.stride[i])
		}
	}
	return v.view(shape, stride, v.offset), nil
}

// ExpandDims inserts a length-1 axis at position axis.
func (v *NDView) ExpandDims(axis int) (*NDView, error) {
	nd := len(v.shape)
	a := axis
	if a < 0 {
		a += nd + 1
	}
	if a < 0 || a > nd {
		return nil, boundsErrorf("expand dims: axis %d out of range for %d dimensions", axis, nd)
	}
	shape := append(append(v.shape[:a:a], 1), v.shape[a:]...)
	stride := append(append(v.stride[:a:a], 0), v.stride[a:]...)
	return v.view(shape, stride, v.offset), nil
}
