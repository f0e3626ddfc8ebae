package driver

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rknn-go/go-rknnapi/postprocess"
	"github.com/rknn-go/go-rknnapi/sdk"
)

// Describe queries the engine for its SDK version, tensors and dynamic input
// ranges and writes them to w in human readable form
func Describe(w io.Writer, eng Engine) error {

	ver, err := eng.SDKVersion()

	if err != nil {
		return fmt.Errorf("error querying SDK version: %w", err)
	}

	WriteVersion(w, ver, eng.IONumber())

	inputAttrs, err := eng.QueryInputTensors()

	if err != nil {
		return fmt.Errorf("error querying input tensors: %w", err)
	}

	WriteTensors(w, "input tensors", inputAttrs)

	outputAttrs, err := eng.QueryOutputTensors()

	if err != nil {
		return fmt.Errorf("error querying output tensors: %w", err)
	}

	WriteTensors(w, "output tensors", outputAttrs)

	ranges, err := eng.QueryInputRanges()

	if err != nil {
		return fmt.Errorf("error querying dynamic input ranges: %w", err)
	}

	WriteRanges(w, ranges)

	return nil
}

// WriteVersion writes the SDK version and tensor counts
func WriteVersion(w io.Writer, ver sdk.SDKVersion, num sdk.IONumber) {
	fmt.Fprintf(w, "Driver Version: %s, API Version: %s\n", ver.DriverVersion, ver.APIVersion)
	fmt.Fprintf(w, "Model Input Number: %d, Output Number: %d\n", num.NumberInput, num.NumberOutput)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	return table
}

// WriteTensors writes a table of tensor attributes under title
func WriteTensors(w io.Writer, title string, attrs []sdk.TensorAttr) {

	fmt.Fprintf(w, "%s:\n", title)

	table := newTable(w, []string{"index", "name", "dims", "n_elems", "size",
		"w_stride", "size_with_stride", "fmt", "type", "qnt_type", "zp", "scale"})

	for _, a := range attrs {
		table.Append([]string{
			strconv.FormatUint(uint64(a.Index), 10),
			a.Name,
			fmt.Sprint(a.Shape()),
			strconv.FormatUint(uint64(a.NElems), 10),
			strconv.FormatUint(uint64(a.Size), 10),
			strconv.FormatUint(uint64(a.WStride), 10),
			strconv.FormatUint(uint64(a.SizeWithStride), 10),
			a.Fmt.String(),
			a.Type.String(),
			a.QntType.String(),
			strconv.FormatInt(int64(a.ZP), 10),
			strconv.FormatFloat(float64(a.Scale), 'f', 6, 32),
		})
	}

	table.Render()
}

// WriteRanges writes a table of dynamic input shape ranges
func WriteRanges(w io.Writer, ranges []sdk.InputRange) {

	fmt.Fprintln(w, "dynamic inputs shape range:")

	if sdk.DynamicShapeCount(ranges) == 0 {
		fmt.Fprintln(w, "  none, model has fixed input shapes")
		return
	}

	table := newTable(w, []string{"index", "name", "shape_number", "range", "fmt"})

	for _, r := range ranges {
		shapes := make([][]uint32, 0, len(r.Shapes))

		for s := range r.Shapes {
			if shape, err := r.Shape(s); err == nil {
				shapes = append(shapes, shape)
			}
		}

		table.Append([]string{
			strconv.FormatUint(uint64(r.Index), 10),
			r.Name,
			strconv.FormatUint(uint64(r.ShapeNumber), 10),
			fmt.Sprint(shapes),
			r.Fmt.String(),
		})
	}

	table.Render()
}

// WriteTop writes ranked results, with left column as label index and right
// column the score, followed by the label when one is known
func WriteTop(w io.Writer, top []postprocess.Probability, labels []string) {

	fmt.Fprintf(w, " --- Top%d ---\n", len(top))

	for _, p := range top {
		if label := p.Label(labels); label != "" {
			fmt.Fprintf(w, "%3d: %8.6f %s\n", p.LabelIndex, p.Probability, label)
			continue
		}

		fmt.Fprintf(w, "%3d: %8.6f\n", p.LabelIndex, p.Probability)
	}
}
