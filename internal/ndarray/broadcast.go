package ndarray

// Broadcast aligns views to a common shape. Each result shares its source's
// buffer; axes that were missing or of length 1 get stride 0.
func Broadcast(views ...*NDView) ([]*NDView, error) {
	shapes := make([]Shape, len(views))
	for i, v := range views {
		shapes[i] = v.shape
	}
	target, err := BroadcastShapes(shapes...)
	if err != nil {
		return nil, err
	}

	out := make([]*NDView, len(views))
	for i, v := range views {
		out[i] = v.broadcastTo(target)
	}
	return out, nil
}

// BroadcastTo expands v to shape without copying.
func (v *NDView) BroadcastTo(shape ...int) (*NDView, error) {
	target, err := BroadcastShapes(v.shape, shape)
	if err != nil {
		return nil, err
	}
	if !target.Equal(shape) {
		return nil, &ShapeError{Op: "broadcast", Expected: shape, Got: v.shape}
	}
	return v.broadcastTo(target), nil
}

// broadcastTo assumes target is a valid broadcast of v.shape.
func (v *NDView) broadcastTo(target Shape) *NDView {
	if target.Equal(v.shape) {
		return v.view(v.shape, v.stride, v.offset)
	}
	lead := len(target) - len(v.shape)
	stride := make([]int, len(target))
	for i := range target {
		if j := i - lead; j >= 0 && v.shape[j] == target[i] {
			stride[i] = v.stride[j]
		}
	}
	return v.view(target.Clone(), stride, v.offset)
}
