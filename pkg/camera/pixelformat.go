package camera

import "fmt"

// PixelFormat identifies the memory layout of a frame's pixel buffer.
// The numeric values are stable and used as wire codes by pkg/wire.
type PixelFormat int

const (
	FormatBGR8 PixelFormat = iota
	FormatRGB8
	FormatMono8
	FormatBayerGR8
	FormatBayerBG8
	FormatBayerRG8
	FormatBayerGB8
	FormatUnknown
)

// BytesPerPixel returns the buffer depth of the format. Bayer and mono
// layouts are single channel; the packed color layouts are three.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatBGR8, FormatRGB8:
		return 3
	case FormatMono8, FormatBayerGR8, FormatBayerBG8, FormatBayerRG8, FormatBayerGB8:
		return 1
	default:
		return 0
	}
}

// Channels returns the number of channels per pixel.
// For the 8-bit formats supported here this equals BytesPerPixel.
func (f PixelFormat) Channels() int {
	return f.BytesPerPixel()
}

// Valid reports whether f is one of the supported formats.
func (f PixelFormat) Valid() bool {
	return f >= FormatBGR8 && f < FormatUnknown
}

func (f PixelFormat) String() string {
	switch f {
	case FormatBGR8:
		return "BGR8"
	case FormatRGB8:
		return "RGB8"
	case FormatMono8:
		return "Mono8"
	case FormatBayerGR8:
		return "BayerGR8"
	case FormatBayerBG8:
		return "BayerBG8"
	case FormatBayerRG8:
		return "BayerRG8"
	case FormatBayerGB8:
		return "BayerGB8"
	default:
		return "Unknown"
	}
}

// Code returns the single-byte wire code for the format.
func (f PixelFormat) Code() byte {
	return byte(f)
}

// FormatFromCode maps a wire code back to a PixelFormat.
func FormatFromCode(code byte) (PixelFormat, error) {
	f := PixelFormat(code)
	if !f.Valid() {
		return FormatUnknown, fmt.Errorf("unknown pixel format code %d", code)
	}
	return f, nil
}

// ParsePixelFormat maps a format name (as produced by String) back to a
// PixelFormat. Used when loading persisted camera settings.
func ParsePixelFormat(name string) (PixelFormat, error) {
	for f := FormatBGR8; f < FormatUnknown; f++ {
		if f.String() == name {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown pixel format %q", name)
}
