package preprocess

import (
	"fmt"
	"github.com/rknn-go/go-rknnapi/sdk"
	"golang.org/x/image/draw"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source is a decoded input image that can be rendered at any tensor size
type Source interface {
	// RGB returns the image scaled to width x height with nearest neighbour
	// sampling, as packed 8 bit per channel RGB in row major order
	RGB(width, height int) ([]byte, error)
	// Close releases any resources held by the image
	Close() error
}

// Decoder reads an image file into a Source
type Decoder interface {
	Decode(file string) (Source, error)
}

// ImageDecoder decodes images with the Go image packages. JPEG, PNG, GIF,
// BMP, TIFF and WebP files are supported.
type ImageDecoder struct{}

// Decode reads and decodes the image file
func (ImageDecoder) Decode(file string) (Source, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("%w: opening image: %w", sdk.ErrIO, err)
	}

	defer f.Close()

	img, _, err := image.Decode(f)

	if err != nil {
		return nil, fmt.Errorf("%w: decoding image %s: %w", sdk.ErrIO, file, err)
	}

	return NewImageSource(img), nil
}

// ImageSource is a Source backed by an image.Image
type ImageSource struct {
	img image.Image
}

// NewImageSource wraps an already decoded image
func NewImageSource(img image.Image) *ImageSource {
	return &ImageSource{img: img}
}

// RGB implements Source
func (s *ImageSource) RGB(width, height int) ([]byte, error) {

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid target size %dx%d",
			sdk.ErrConfiguration, width, height)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), s.img, s.img.Bounds(), draw.Src, nil)

	return packRGB(dst), nil
}

// Close implements Source
func (s *ImageSource) Close() error {
	return nil
}

// packRGB drops the alpha channel of a non-premultiplied RGBA image
func packRGB(img *image.NRGBA) []byte {

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	buf := make([]byte, 0, width*height*3)

	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]

		for x := 0; x < width*4; x += 4 {
			buf = append(buf, row[x], row[x+1], row[x+2])
		}
	}

	return buf
}

// Prepare renders src at the width and height of the input tensor described
// by attr, reading the dims according to its layout, and returns it as a
// NHWC UINT8 Input. The runtime converts the data to the tensor's own layout
// and type.
func Prepare(src Source, attr sdk.TensorAttr) (sdk.Input, error) {

	width, height, _, err := attr.ImageSize()

	if err != nil {
		return sdk.Input{}, err
	}

	buf, err := src.RGB(int(width), int(height))

	if err != nil {
		return sdk.Input{}, err
	}

	return sdk.Input{
		Index: attr.Index,
		Buf:   buf,
		Type:  sdk.TensorUint8,
		Fmt:   sdk.TensorNHWC,
	}, nil
}
