package dirwatch

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ptri/go-camerautils/pkg/camera"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
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

func newStreamingSource(t *testing.T, dir string, timeout time.Duration) *Source {
	t.Helper()
	src, err := NewSource(Config{Dir: dir, ReadTimeout: timeout, Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	t.Cleanup(func() { src.DeinitializeCamera() })
	if err := src.InitializeCamera(); err != nil {
		t.Fatalf("InitializeCamera() error = %v", err)
	}
	if err := src.StartCameraStreaming(); err != nil {
		t.Fatalf("StartCameraStreaming() error = %v", err)
	}
	return src
}

func TestGetFrameFromWrittenFile(t *testing.T) {
	dir := t.TempDir()
	src := newStreamingSource(t, dir, 5*time.Second)

	go func() {
		time.Sleep(50 * time.Millisecond)
		writePNG(t, filepath.Join(dir, "snap.png"), 6, 4)
	}()

	frame, err := src.GetFrame()
	if err != nil {
		t.Fatalf("GetFrame() error = %v", err)
	}
	if frame.Width != 6 || frame.Height != 4 {
		t.Errorf("geometry = %dx%d, want 6x4", frame.Width, frame.Height)
	}
	if frame.PixelFormat != camera.FormatRGB8 {
		t.Errorf("format = %v, want RGB8", frame.PixelFormat)
	}
	if frame.CameraType != CameraType {
		t.Errorf("camera type = %q, want %q", frame.CameraType, CameraType)
	}
	if frame.Extra["image_file"] != "snap.png" {
		t.Errorf("image_file = %v, want snap.png", frame.Extra["image_file"])
	}
}

func TestGetFrameIgnoresNonImages(t *testing.T) {
	dir := t.TempDir()
	src := newStreamingSource(t, dir, time.Second)

	go func() {
		time.Sleep(20 * time.Millisecond)
		os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
		time.Sleep(20 * time.Millisecond)
		writePNG(t, filepath.Join(dir, "real.png"), 4, 4)
	}()

	frame, err := src.GetFrame()
	if err != nil {
		t.Fatalf("GetFrame() error = %v", err)
	}
	if frame.Extra["image_file"] != "real.png" {
		t.Errorf("image_file = %v, want real.png", frame.Extra["image_file"])
	}
}

func TestGetFrameTimeout(t *testing.T) {
	src := newStreamingSource(t, t.TempDir(), 100*time.Millisecond)

	start := time.Now()
	_, err := src.GetFrame()
	if !errors.Is(err, camera.ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took %v, want ~100ms", elapsed)
	}
}

func TestLifecycleGuards(t *testing.T) {
	src, err := NewSource(Config{Dir: t.TempDir(), Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	var stateErr *camera.InvalidStateError
	if _, err := src.GetFrame(); !errors.As(err, &stateErr) {
		t.Errorf("GetFrame before init: error = %v, want InvalidStateError", err)
	}
	if err := src.StartCameraStreaming(); !errors.As(err, &stateErr) {
		t.Errorf("Start before init: error = %v, want InvalidStateError", err)
	}
	if err := src.DeinitializeCamera(); err != nil {
		t.Errorf("DeinitializeCamera from uninitialized: error = %v", err)
	}
}

func TestInitializeMissingDirectory(t *testing.T) {
	src, err := NewSource(Config{
		Dir:    filepath.Join(t.TempDir(), "missing"),
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	var initErr *camera.InitializationError
	if err := src.InitializeCamera(); !errors.As(err, &initErr) {
		t.Errorf("error = %v, want InitializationError", err)
	}
}
