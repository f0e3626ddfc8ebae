// Package driver runs a dynamic input shape model through every shape it
// advertises: apply the shape, re-query the tensors, bind the inputs, run a
// timed loop, and rank the first output.
package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rknn-go/go-rknnapi/postprocess"
	"github.com/rknn-go/go-rknnapi/preprocess"
	"github.com/rknn-go/go-rknnapi/sdk"
	"github.com/rknn-go/go-rknnapi/stats"
)

// ShapeErrorPolicy selects what happens when a shape is rejected
type ShapeErrorPolicy int

const (
	// ShapeErrorHalt stops at the first rejected shape
	ShapeErrorHalt ShapeErrorPolicy = iota
	// ShapeErrorContinue records the rejection and moves on to the next shape
	ShapeErrorContinue
)

// ParseShapeErrorPolicy converts "halt" or "continue" to a ShapeErrorPolicy
func ParseShapeErrorPolicy(s string) (ShapeErrorPolicy, error) {

	switch s {
	case "halt":
		return ShapeErrorHalt, nil
	case "continue":
		return ShapeErrorContinue, nil
	}

	return ShapeErrorHalt, fmt.Errorf("%w: unknown shape error policy %q, expected halt|continue",
		sdk.ErrConfiguration, s)
}

func (p ShapeErrorPolicy) String() string {

	if p == ShapeErrorContinue {
		return "continue"
	}

	return "halt"
}

// DefaultTopK is the number of ranked results reported per shape
const DefaultTopK = 5

// Config describes one driver run
type Config struct {
	// ModelFile is the RKNN compiled model
	ModelFile string
	// InputFiles holds one image per model input, in input index order
	InputFiles []string
	// LoopCount is the number of timed inference runs per shape, zero means 1
	LoopCount int
	// CoreMask is applied before each shape's runs
	CoreMask sdk.CoreMask
	// TopK is the number of ranked results, zero means DefaultTopK
	TopK int
	// OnShapeError selects whether a rejected shape stops the run
	OnShapeError ShapeErrorPolicy
	// Decoder reads InputFiles, nil means preprocess.ImageDecoder
	Decoder preprocess.Decoder
	// Labels optionally names the ranked class indices
	Labels []string
	// NativeOutputs fetches outputs in the model's own type instead of
	// having the runtime convert them to float32. FP16 and affine quantized
	// INT8/UINT8 outputs are then decoded in Go.
	NativeOutputs bool
}

// ShapeResult is the outcome of running one dynamic shape
type ShapeResult struct {
	// Index is the shape number, zero for a fixed shape model
	Index int
	// Shapes holds the shape applied to each input, nil for a fixed shape
	// model
	Shapes [][]uint32
	// InputAttrs and OutputAttrs are the tensors as resolved for this shape
	InputAttrs  []sdk.TensorAttr
	OutputAttrs []sdk.TensorAttr
	Durations   []time.Duration
	Stats       stats.Summary
	Top         []postprocess.Probability
	// Err is set when the shape was rejected and the run continued
	Err error
}

// Driver sequences an Engine through model load, shape negotiation, timed
// inference and ranking. A Driver holds no state between runs.
type Driver struct {
	open Opener
	log  *slog.Logger
	out  io.Writer
	now  func() time.Time
}

// New returns a Driver that loads models with open, logs to log and writes
// human readable reports to out. A nil logger uses slog.Default and a nil
// writer discards reports.
func New(open Opener, log *slog.Logger, out io.Writer) *Driver {

	if log == nil {
		log = slog.Default()
	}

	if out == nil {
		out = io.Discard
	}

	return &Driver{
		open: open,
		log:  log,
		out:  out,
		now:  time.Now,
	}
}

// Run loads the model, runs every advertised input shape and returns the
// results in shape order. The engine is closed exactly once before Run
// returns, whatever the outcome. Results collected before a failure are
// returned with the error.
func (d *Driver) Run(cfg Config) (results []ShapeResult, err error) {

	if cfg.LoopCount < 0 {
		return nil, fmt.Errorf("%w: loop count %d is negative", sdk.ErrConfiguration, cfg.LoopCount)
	}

	if cfg.LoopCount == 0 {
		cfg.LoopCount = 1
	}

	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	if cfg.Decoder == nil {
		cfg.Decoder = preprocess.ImageDecoder{}
	}

	eng, err := d.open(cfg.ModelFile)

	if err != nil {
		return nil, fmt.Errorf("error loading model: %w", err)
	}

	defer func() {
		if cerr := eng.Close(); cerr != nil {
			d.log.Error("closing runtime", "error", cerr)
			err = errors.Join(err, cerr)
		}
	}()

	if cfg.NativeOutputs {
		of, ok := eng.(OutputFormatter)

		if !ok {
			return nil, fmt.Errorf("%w: runtime cannot return native outputs", sdk.ErrConfiguration)
		}

		of.SetWantFloat(false)
	}

	ioNum := eng.IONumber()
	d.log.Info("model loaded", "model", cfg.ModelFile,
		"inputs", ioNum.NumberInput, "outputs", ioNum.NumberOutput)

	// checked before any other runtime call
	if len(cfg.InputFiles) != int(ioNum.NumberInput) {
		return nil, fmt.Errorf("%w: inconsistent number of input paths (%d) expected (%d)",
			sdk.ErrConfiguration, len(cfg.InputFiles), ioNum.NumberInput)
	}

	ver, err := eng.SDKVersion()

	if err != nil {
		return nil, fmt.Errorf("error querying SDK version: %w", err)
	}

	d.log.Info("rknn sdk", "api", ver.APIVersion, "driver", ver.DriverVersion)

	inputAttrs, err := eng.QueryInputTensors()

	if err != nil {
		return nil, fmt.Errorf("error querying input tensors: %w", err)
	}

	outputAttrs, err := eng.QueryOutputTensors()

	if err != nil {
		return nil, fmt.Errorf("error querying output tensors: %w", err)
	}

	ranges, err := eng.QueryInputRanges()

	if err != nil {
		return nil, fmt.Errorf("error querying dynamic input ranges: %w", err)
	}

	WriteVersion(d.out, ver, ioNum)
	WriteTensors(d.out, "input tensors", inputAttrs)
	WriteTensors(d.out, "output tensors", outputAttrs)
	WriteRanges(d.out, ranges)

	sources, err := decodeSources(d.log, cfg.Decoder, cfg.InputFiles)

	if err != nil {
		return nil, err
	}

	defer closeSources(d.log, sources)

	shapeCount := sdk.DynamicShapeCount(ranges)

	if shapeCount == 0 {
		d.log.Info("model has fixed input shapes")

		res, err := d.runShape(eng, cfg, 0, nil, sources)
		d.report(res, cfg.Labels)

		return []ShapeResult{res}, err
	}

	rejected := 0

	for s := 0; s < shapeCount; s++ {

		applied, err := applyShape(inputAttrs, ranges, s)

		if err == nil {
			d.log.Info("setting dynamic shape", "shape", s, "dims", shapesOf(applied))
			err = eng.SetInputShapes(applied)
		}

		if err != nil {
			res := ShapeResult{Index: s, Err: err}

			if cfg.OnShapeError == ShapeErrorContinue && errors.Is(err, sdk.ErrShapeApply) {
				d.log.Warn("dynamic shape rejected, continuing", "shape", s, "error", err)
				results = append(results, res)
				rejected++
				continue
			}

			return results, fmt.Errorf("error setting dynamic shape %d: %w", s, err)
		}

		res, err := d.runShape(eng, cfg, s, applied, sources)
		results = append(results, res)
		d.report(res, cfg.Labels)

		if err != nil {
			return results, err
		}
	}

	if rejected == shapeCount {
		return results, fmt.Errorf("%w: all %d dynamic shapes were rejected",
			sdk.ErrShapeApply, shapeCount)
	}

	return results, nil
}

// applyShape returns a copy of attrs with the dims of every input set to
// entry s of its dynamic range
func applyShape(attrs []sdk.TensorAttr, ranges []sdk.InputRange, s int) ([]sdk.TensorAttr, error) {

	if len(ranges) != len(attrs) {
		return nil, fmt.Errorf("%w: %d dynamic ranges for %d inputs",
			sdk.ErrShapeApply, len(ranges), len(attrs))
	}

	applied := make([]sdk.TensorAttr, len(attrs))
	copy(applied, attrs)

	for i := range applied {

		if err := ranges[i].Validate(applied[i]); err != nil {
			return nil, err
		}

		shape, err := ranges[i].Shape(s)

		if err != nil {
			return nil, err
		}

		if err := applied[i].SetShape(shape); err != nil {
			return nil, err
		}
	}

	return applied, nil
}

// runShape runs one shape once its dims have been applied. applied is nil
// for fixed shape models.
func (d *Driver) runShape(eng Engine, cfg Config, s int, applied []sdk.TensorAttr,
	sources []preprocess.Source) (ShapeResult, error) {

	res := ShapeResult{Index: s, Shapes: shapesOf(applied)}

	var err error

	// dynamic models only report concrete sizes once a shape is set
	res.InputAttrs, err = eng.QueryInputTensors()

	if err != nil {
		return res, fmt.Errorf("error querying current input tensors: %w", err)
	}

	res.OutputAttrs, err = eng.QueryOutputTensors()

	if err != nil {
		return res, fmt.Errorf("error querying current output tensors: %w", err)
	}

	if len(res.InputAttrs) != len(sources) {
		return res, fmt.Errorf("%w: runtime reported %d input tensors for %d inputs",
			sdk.ErrQuery, len(res.InputAttrs), len(sources))
	}

	if err := eng.SetCoreMask(cfg.CoreMask); err != nil {
		return res, fmt.Errorf("error setting core mask %s: %w", cfg.CoreMask, err)
	}

	inputs := make([]sdk.Input, len(sources))

	for i, src := range sources {
		inputs[i], err = preprocess.Prepare(src, res.InputAttrs[i])

		if err != nil {
			return res, fmt.Errorf("error preparing input %d: %w", i, err)
		}
	}

	if err := eng.SetInputs(inputs); err != nil {
		return res, fmt.Errorf("error setting inputs: %w", err)
	}

	res.Durations = make([]time.Duration, 0, cfg.LoopCount)

	for i := 0; i < cfg.LoopCount; i++ {
		start := d.now()

		if err := eng.RunModel(); err != nil {
			return res, fmt.Errorf("error running model: %w", err)
		}

		elapsed := d.now().Sub(start)
		res.Durations = append(res.Durations, elapsed)

		d.log.Info("inference", "shape", s, "loop", i, "elapsed", elapsed,
			"fps", fmt.Sprintf("%.2f", fps(elapsed)))
	}

	res.Stats = stats.SummarizeDurations(res.Durations)

	outputs, err := eng.GetOutputs()

	if err != nil {
		return res, fmt.Errorf("error getting outputs: %w", err)
	}

	if len(outputs) == 0 {
		return res, fmt.Errorf("%w: runtime returned no outputs", sdk.ErrRuntimeOutput)
	}

	if len(res.OutputAttrs) == 0 {
		return res, fmt.Errorf("%w: runtime reported no output tensors", sdk.ErrQuery)
	}

	scores, err := outputs[0].Dequantize(res.OutputAttrs[0])

	if err != nil {
		return res, err
	}

	res.Top = postprocess.TopK(scores, cfg.TopK)

	return res, nil
}

// shapesOf returns the valid dims of each attribute, nil when attrs is nil
func shapesOf(attrs []sdk.TensorAttr) [][]uint32 {

	if attrs == nil {
		return nil
	}

	shapes := make([][]uint32, len(attrs))

	for i, attr := range attrs {
		shapes[i] = attr.Shape()
	}

	return shapes
}

func fps(elapsed time.Duration) float64 {

	if elapsed <= 0 {
		return 0
	}

	return 1 / elapsed.Seconds()
}

// decodeSources decodes every input file, closing what was decoded if one
// fails
func decodeSources(log *slog.Logger, dec preprocess.Decoder, files []string) ([]preprocess.Source, error) {

	sources := make([]preprocess.Source, 0, len(files))

	for _, file := range files {
		src, err := dec.Decode(file)

		if err != nil {
			closeSources(log, sources)
			return nil, fmt.Errorf("error loading input image: %w", err)
		}

		sources = append(sources, src)
	}

	return sources, nil
}

func closeSources(log *slog.Logger, sources []preprocess.Source) {

	for _, src := range sources {
		if err := src.Close(); err != nil {
			log.Warn("closing input image", "error", err)
		}
	}
}

// report writes a shape result to the driver's output
func (d *Driver) report(res ShapeResult, labels []string) {

	if res.Shapes != nil {
		fmt.Fprintf(d.out, "dynamic shape %d: %v\n", res.Index, res.Shapes)
	}

	if res.InputAttrs != nil {
		WriteTensors(d.out, "current input tensors", res.InputAttrs)
	}

	if res.OutputAttrs != nil {
		WriteTensors(d.out, "current output tensors", res.OutputAttrs)
	}

	if res.Top != nil {
		WriteTop(d.out, res.Top, labels)
	}

	if res.Durations != nil {
		fmt.Fprintln(d.out, res.Stats.Format("ms"))
	}
}
