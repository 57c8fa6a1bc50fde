// Package dirwatch implements the camera.FrameProvider contract over a
// watched directory: every image file written into the directory becomes a
// frame. Capture pipelines that drop snapshots on disk (ffmpeg, gstreamer,
// imagesnap) can feed it without any network transport.
package dirwatch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ptri/go-camerautils/pkg/camera"
	"github.com/ptri/go-camerautils/pkg/imagefile"
)

// CameraType tags frames produced by a watched directory.
const CameraType = "dir-watch"

// DefaultReadTimeout bounds how long GetFrame waits for a new file.
const DefaultReadTimeout = 5 * time.Second

// Config configures a directory-watch source.
type Config struct {
	// Dir is the directory to watch for new images. Required.
	Dir string
	// ReadTimeout bounds how long GetFrame waits for the next file before
	// failing with ErrTimeout. Defaults to DefaultReadTimeout.
	ReadTimeout time.Duration
	// Logger receives watcher diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// Source is a frame provider fed by files appearing in a directory.
// Like every provider it owns its resources exclusively and serializes
// GetFrame internally.
type Source struct {
	cfg Config
	log *slog.Logger

	mu      sync.Mutex
	state   camera.State
	watcher *fsnotify.Watcher

	width  int
	height int
	format camera.PixelFormat
	index  uint64
}

var _ camera.FrameProvider = (*Source)(nil)

// NewSource validates the configuration and builds a source. The watcher is
// not created until InitializeCamera.
func NewSource(cfg Config) (*Source, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("dirwatch: directory is required")
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Source{
		cfg:   cfg,
		log:   cfg.Logger.With("component", "dirwatch", "dir", cfg.Dir),
		state: camera.StateUninitialized,
	}, nil
}

// InitializeCamera verifies the directory and attaches the filesystem
// watcher.
func (s *Source) InitializeCamera() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != camera.StateUninitialized && s.state != camera.StateDeinitialized {
		return &camera.InvalidStateError{Op: "InitializeCamera", State: s.state}
	}

	info, err := os.Stat(s.cfg.Dir)
	if err != nil {
		return &camera.InitializationError{Reason: "stat " + s.cfg.Dir, Err: err}
	}
	if !info.IsDir() {
		return &camera.InitializationError{Reason: s.cfg.Dir + " is not a directory"}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &camera.InitializationError{Reason: "create watcher", Err: err}
	}
	if err := watcher.Add(s.cfg.Dir); err != nil {
		watcher.Close()
		return &camera.InitializationError{Reason: "watch " + s.cfg.Dir, Err: err}
	}

	s.watcher = watcher
	s.index = 0
	s.state = camera.StateInitialized
	s.log.Info("watching directory")
	return nil
}

// StartCameraStreaming moves the source into Streaming.
func (s *Source) StartCameraStreaming() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != camera.StateInitialized {
		return &camera.InvalidStateError{Op: "StartCameraStreaming", State: s.state}
	}
	s.state = camera.StateStreaming
	return nil
}

// StopCameraStreaming moves the source back to Initialized.
func (s *Source) StopCameraStreaming() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != camera.StateStreaming {
		return &camera.InvalidStateError{Op: "StopCameraStreaming", State: s.state}
	}
	s.state = camera.StateInitialized
	return nil
}

// DeinitializeCamera detaches the watcher. Safe from any state.
func (s *Source) DeinitializeCamera() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.log.Warn("watcher close failed", "error", err)
		}
		s.watcher = nil
	}
	s.state = camera.StateDeinitialized
	return nil
}

// GetFrame blocks until the next image file is written into the directory,
// then decodes it. Waits at most ReadTimeout before returning ErrTimeout.
// A closed watcher surfaces as ErrEndOfStream.
func (s *Source) GetFrame() (*camera.GrabbedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != camera.StateStreaming {
		return nil, &camera.InvalidStateError{Op: "GetFrame", State: s.state}
	}

	deadline := time.NewTimer(s.cfg.ReadTimeout)
	defer deadline.Stop()

	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return nil, camera.ErrEndOfStream
			}
			if !isImageWrite(ev) {
				continue
			}
			frame, err := s.decodeEvent(ev.Name)
			if err != nil {
				// Partially written or damaged file. Keep waiting
				// within the same deadline.
				s.log.Warn("skipping unreadable image", "path", ev.Name, "error", err)
				continue
			}
			return frame, nil

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil, camera.ErrEndOfStream
			}
			return nil, &camera.ConnectionError{Op: "watch", Err: err}

		case <-deadline.C:
			return nil, fmt.Errorf("no image within %s: %w", s.cfg.ReadTimeout, camera.ErrTimeout)
		}
	}
}

func (s *Source) decodeEvent(path string) (*camera.GrabbedImage, error) {
	data, width, height, format, err := imagefile.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	s.width = width
	s.height = height
	s.format = format
	index := s.index
	s.index++
	return camera.NewGrabbedImage(data, width, height, format, time.Now(), CameraType,
		map[string]any{"frame_index": index, "image_file": filepath.Base(path)})
}

func isImageWrite(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// Name identifies the provider implementation.
func (s *Source) Name() string { return CameraType }

// Width returns the last decoded frame width.
func (s *Source) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

// Height returns the last decoded frame height.
func (s *Source) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// PixelFormat returns the last decoded pixel format.
func (s *Source) PixelFormat() camera.PixelFormat {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return camera.FormatUnknown
	}
	return s.format
}

// FPS returns 0: a watched directory has no configured rate.
func (s *Source) FPS() float64 { return 0 }
