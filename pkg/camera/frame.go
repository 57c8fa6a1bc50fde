// Package camera defines the frame-provider contract shared by hardware
// cameras and emulated sources, along with the value types they produce.
//
// A FrameProvider walks a fixed lifecycle (initialize, stream, stop,
// deinitialize) and hands out GrabbedImage values. Recoverable streaming
// conditions (timeout, end of stream, protocol damage) come back from
// GetFrame as discriminated error values so heterogeneous providers report
// them uniformly; callers check with errors.Is / errors.As.
package camera

import (
	"fmt"
	"time"
)

// GrabbedImage is a single captured frame. It is immutable once built and
// the pixel buffer belongs to the caller of GetFrame; providers must not
// reuse it.
type GrabbedImage struct {
	// Data holds raw pixels, row major, Width*Height*BytesPerPixel bytes.
	Data []byte
	// Width and Height in pixels.
	Width  int
	Height int
	// Timestamp is the capture instant on the producer's clock. Network
	// providers stamp local receipt time.
	Timestamp time.Time
	// CameraType tags the producing implementation, e.g. "pylon" or
	// "emulated-file".
	CameraType string
	// PixelFormat describes the layout of Data.
	PixelFormat PixelFormat
	// Extra carries free-form per-frame metadata.
	Extra map[string]any
}

// NewGrabbedImage validates geometry against the buffer and builds a frame.
// The buffer length must equal width*height*BytesPerPixel(format).
func NewGrabbedImage(data []byte, width, height int, format PixelFormat, ts time.Time, cameraType string, extra map[string]any) (*GrabbedImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame geometry %dx%d", width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("invalid pixel format %v", format)
	}
	if want := width * height * format.BytesPerPixel(); len(data) != want {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d %v (want %d)",
			len(data), width, height, format, want)
	}
	return &GrabbedImage{
		Data:        data,
		Width:       width,
		Height:      height,
		Timestamp:   ts,
		CameraType:  cameraType,
		PixelFormat: format,
		Extra:       extra,
	}, nil
}
