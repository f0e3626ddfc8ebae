//go:build integration

package rknnapi

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/rknn-go/go-rknnapi/driver"
	"github.com/rknn-go/go-rknnapi/sdk"
)

// modelAndImage reads the model and image paths used by the hardware tests,
// eg: RKNN_MODEL=models/mobilenet_v2_for_rk3588.rknn
// RKNN_IMAGE=test-data/cat_224x224.jpg
func modelAndImage(t *testing.T) (string, string) {

	modelFile := os.Getenv("RKNN_MODEL")

	if modelFile == "" {
		t.Fatalf("No Model file provided in RKNN_MODEL")
	}

	imgFile := os.Getenv("RKNN_IMAGE")

	if imgFile == "" {
		t.Fatalf("No Image file provided in RKNN_IMAGE")
	}

	return modelFile, imgFile
}

func openEngine(modelFile string) (driver.Engine, error) {

	rt, err := Open(modelFile)

	if err != nil {
		return nil, err
	}

	return rt, nil
}

func TestDynamicShapeTop5(t *testing.T) {

	modelFile, imgFile := modelAndImage(t)

	var out bytes.Buffer

	results, err := driver.New(openEngine, nil, &out).Run(driver.Config{
		ModelFile:  modelFile,
		InputFiles: []string{imgFile},
		LoopCount:  3,
		CoreMask:   sdk.NPUCoreAuto,
	})

	if err != nil {
		t.Fatalf("Run failed: %v\n%s", err, out.String())
	}

	if len(results) == 0 {
		t.Fatalf("expected at least one shape result")
	}

	for _, res := range results {

		top5 := res.Top

		if len(top5) != 5 {
			t.Fatalf("shape %d: expected 5 results, got %d", res.Index, len(top5))
		}

		// Probabilities must be in [0,1] and descending
		for i, p := range top5 {

			if p.Probability < 0 || p.Probability > 1 {
				t.Errorf("shape %d entry %d: probability %v out of [0,1]", res.Index, i, p.Probability)
			}

			if i > 0 && p.Probability > top5[i-1].Probability {
				t.Errorf("shape %d: probabilities not descending: index %d has %v > previous %v",
					res.Index, i, p.Probability, top5[i-1].Probability)
			}
		}

		// Label indices must be in range [0, numClasses)
		numClasses := int(res.OutputAttrs[0].Dims[1])

		for i, p := range top5 {
			if int(p.LabelIndex) < 0 || int(p.LabelIndex) >= numClasses {
				t.Errorf("shape %d entry %d: label index %d out of range [0,%d)",
					res.Index, i, p.LabelIndex, numClasses)
			}
		}

		if !res.Stats.Available() || res.Stats.Min > res.Stats.Mean || res.Stats.Mean > res.Stats.Max {
			t.Errorf("shape %d: inconsistent timing %s", res.Index, res.Stats)
		}
	}
}

func TestRuntimeLifecycle(t *testing.T) {

	modelFile, _ := modelAndImage(t)

	rt, err := Open(modelFile)

	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if n := rt.IONumber().NumberInput; n == 0 {
		t.Errorf("model reports no inputs")
	}

	if _, err := rt.SDKVersion(); err != nil {
		t.Errorf("SDKVersion: %v", err)
	}

	if err := rt.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// second close is a no-op and calls after close fail
	if err := rt.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if _, err := rt.QueryInputTensors(); !errors.Is(err, sdk.ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}

func TestOpenMissingModel(t *testing.T) {

	_, err := Open("does-not-exist.rknn")

	if !errors.Is(err, sdk.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}
