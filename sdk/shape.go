package sdk

import (
	"fmt"
	"strings"
)

// InputRange represents the C.rknn_input_range structure, the list of
// alternative shapes a dynamic shape model accepts for one input tensor.
// Shapes holds ShapeNumber entries, each with NDims valid dimensions.
type InputRange struct {
	Index       uint32
	Name        string
	Fmt         TensorFormat
	NDims       uint32
	ShapeNumber uint32
	Shapes      [][MaxDims]uint32
}

// Shape returns the valid dimensions of shape entry s
func (r InputRange) Shape(s int) ([]uint32, error) {

	if s < 0 || s >= int(r.ShapeNumber) || s >= len(r.Shapes) {
		return nil, fmt.Errorf("%w: input %d (%s) has %d shapes, no entry %d",
			ErrShapeApply, r.Index, r.Name, r.ShapeNumber, s)
	}

	if r.NDims > MaxDims {
		return nil, fmt.Errorf("%w: input %d (%s) reports %d dims, maximum is %d",
			ErrShapeApply, r.Index, r.Name, r.NDims, MaxDims)
	}

	shape := make([]uint32, r.NDims)
	copy(shape, r.Shapes[s][:r.NDims])

	return shape, nil
}

// Validate checks the range against the bounds of the C struct and the rank
// of the tensor it belongs to
func (r InputRange) Validate(attr TensorAttr) error {

	if r.ShapeNumber > MaxDynamicShapes || int(r.ShapeNumber) != len(r.Shapes) {
		return fmt.Errorf("%w: input %d (%s) has invalid shape number %d",
			ErrShapeApply, r.Index, r.Name, r.ShapeNumber)
	}

	if r.NDims != attr.NDims {
		return fmt.Errorf("%w: input %d (%s) range has rank %d, tensor has %d dims",
			ErrShapeApply, r.Index, r.Name, r.NDims, attr.NDims)
	}

	return nil
}

// String returns the InputRange formatted as a string
func (r InputRange) String() string {

	shapes := make([]string, 0, len(r.Shapes))

	for s := range r.Shapes {
		shape, err := r.Shape(s)

		if err != nil {
			break
		}

		shapes = append(shapes, fmt.Sprint(shape))
	}

	return fmt.Sprintf("index=%d, name=%s, shape_number=%d, range=[%s], fmt=%s",
		r.Index, r.Name, r.ShapeNumber, strings.Join(shapes, ", "), r.Fmt.String())
}

// DynamicShapeCount returns how many shape iterations a set of input ranges
// describes. Zero means the model has fixed input shapes.
func DynamicShapeCount(ranges []InputRange) int {

	if len(ranges) == 0 {
		return 0
	}

	return int(ranges[0].ShapeNumber)
}
