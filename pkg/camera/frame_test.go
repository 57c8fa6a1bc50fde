package camera

import (
	"testing"
	"time"
)

func TestNewGrabbedImageValidatesBufferLength(t *testing.T) {
	tests := []struct {
		name    string
		bytes   int
		width   int
		height  int
		format  PixelFormat
		wantErr bool
	}{
		{"rgb exact", 4 * 2 * 3, 4, 2, FormatRGB8, false},
		{"bgr exact", 8 * 8 * 3, 8, 8, FormatBGR8, false},
		{"mono exact", 5 * 3, 5, 3, FormatMono8, false},
		{"bayer exact", 6 * 4, 6, 4, FormatBayerGR8, false},
		{"short buffer", 4*2*3 - 1, 4, 2, FormatRGB8, true},
		{"long buffer", 4*2*3 + 1, 4, 2, FormatRGB8, true},
		{"mono sized as rgb", 4 * 2, 4, 2, FormatRGB8, true},
		{"zero width", 0, 0, 2, FormatRGB8, true},
		{"negative height", 24, 4, -2, FormatRGB8, true},
		{"unknown format", 24, 4, 2, FormatUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.bytes)
			_, err := NewGrabbedImage(data, tt.width, tt.height, tt.format,
				time.Now(), "test", nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewGrabbedImage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewGrabbedImageCarriesMetadata(t *testing.T) {
	ts := time.Now()
	extra := map[string]any{"image_file": "frame_001.png"}
	frame, err := NewGrabbedImage(make([]byte, 2*2*3), 2, 2, FormatRGB8, ts, "emulated-file", extra)
	if err != nil {
		t.Fatalf("NewGrabbedImage() error = %v", err)
	}
	if frame.CameraType != "emulated-file" {
		t.Errorf("CameraType = %q, want emulated-file", frame.CameraType)
	}
	if !frame.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", frame.Timestamp, ts)
	}
	if frame.Extra["image_file"] != "frame_001.png" {
		t.Errorf("Extra not carried: %v", frame.Extra)
	}
}
