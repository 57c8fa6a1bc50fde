package imagefile

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG writes a small color test image. The seed varies the pixel
// pattern so frames from different files are distinguishable.
func writePNG(t *testing.T, path string, width, height int, seed uint8) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: seed + uint8(x),
				G: seed + uint8(y),
				B: seed ^ uint8(x*y),
				A: 255,
			})
		}
	}
	writeImageFile(t, path, img)
}

// writeGrayPNG writes a small grayscale test image.
func writeGrayPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x + y*width)})
		}
	}
	writeImageFile(t, path, img)
}

func writeBytes(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func writeImageFile(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
