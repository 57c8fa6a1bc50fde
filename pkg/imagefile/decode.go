package imagefile

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ptri/go-camerautils/pkg/camera"
)

// rawFrame is a decoded image ready for framing.
type rawFrame struct {
	data   []byte
	width  int
	height int
	format camera.PixelFormat
}

// DecodeFile reads a still image and flattens it to a raw pixel buffer.
// Grayscale sources decode to Mono8, everything else to RGB8 (alpha is
// dropped). Returns the buffer, geometry and pixel format.
func DecodeFile(path string) (data []byte, width, height int, format camera.PixelFormat, err error) {
	frame, err := decodeFile(path)
	if err != nil {
		return nil, 0, 0, camera.FormatUnknown, err
	}
	return frame.data, frame.width, frame.height, frame.format, nil
}

func decodeFile(path string) (*rawFrame, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if gray, ok := img.(*image.Gray); ok {
		return grayFrame(gray), nil
	}
	return colorFrame(imaging.Clone(img)), nil
}

func grayFrame(img *image.Gray) *rawFrame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]byte, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		copy(data[y*w:], row)
	}
	return &rawFrame{data: data, width: w, height: h, format: camera.FormatMono8}
}

func colorFrame(img *image.NRGBA) *rawFrame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride:]
		dst := data[y*w*3:]
		for x := 0; x < w; x++ {
			dst[x*3+0] = src[x*4+0]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return &rawFrame{data: data, width: w, height: h, format: camera.FormatRGB8}
}
