// Package cvimage decodes and resizes input images with OpenCV through gocv.
package cvimage

import (
	"fmt"
	"github.com/rknn-go/go-rknnapi/preprocess"
	"github.com/rknn-go/go-rknnapi/sdk"
	"gocv.io/x/gocv"
	"image"
)

// Decoder is a preprocess.Decoder that reads images with gocv.IMRead
type Decoder struct{}

// Decode reads the image file as RGB
func (Decoder) Decode(file string) (preprocess.Source, error) {

	img := gocv.IMRead(file, gocv.IMReadColor)

	if img.Empty() {
		img.Close()
		return nil, fmt.Errorf("%w: error reading image from %s", sdk.ErrIO, file)
	}

	// convert colorspace once, resizing keeps the channel order
	rgbImg := gocv.NewMat()
	gocv.CvtColor(img, &rgbImg, gocv.ColorBGRToRGB)
	img.Close()

	return &Source{mat: rgbImg}, nil
}

// Source is a preprocess.Source holding an RGB gocv.Mat
type Source struct {
	mat gocv.Mat
}

// RGB implements preprocess.Source
func (s *Source) RGB(width, height int) ([]byte, error) {

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid target size %dx%d",
			sdk.ErrConfiguration, width, height)
	}

	resized := gocv.NewMat()
	defer resized.Close()

	gocv.Resize(s.mat, &resized, image.Pt(width, height), 0, 0,
		gocv.InterpolationNearestNeighbor)

	// make mat continuous
	if !resized.IsContinuous() {
		cont := resized.Clone()
		defer cont.Close()

		return cont.ToBytes(), nil
	}

	return resized.ToBytes(), nil
}

// Close releases the underlying Mat
func (s *Source) Close() error {
	return s.mat.Close()
}
