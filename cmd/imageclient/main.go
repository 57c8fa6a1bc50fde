// Command imageclient connects to an imageserver and pulls frames through
// the full provider lifecycle. Useful for checking a served directory and
// for measuring delivery pacing.
package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/ptri/go-camerautils/internal/log"
	"github.com/ptri/go-camerautils/pkg/camera"
	"github.com/ptri/go-camerautils/pkg/imagefile"
)

func main() {
	host := flag.String("host", "localhost", "server host")
	port := flag.Int("port", 6008, "server port")
	count := flag.Int("count", 0, "frames to pull before exiting (0 = until end of stream)")
	chunkSize := flag.Int("chunksize", 4096, "bytes per socket read")
	readTimeout := flag.Duration("read-timeout", 5*time.Second, "single read stall limit")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	log.Init(*logLevel)

	client, err := imagefile.NewClient(imagefile.ClientConfig{
		Host:        *host,
		Port:        *port,
		ChunkSize:   *chunkSize,
		ReadTimeout: *readTimeout,
		Logger:      log.L(),
	})
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := client.InitializeCamera(); err != nil {
		log.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	defer client.DeinitializeCamera()

	if err := client.StartCameraStreaming(); err != nil {
		log.Error("cannot start streaming", "error", err)
		os.Exit(1)
	}

	received := 0
	start := time.Now()
loop:
	for *count == 0 || received < *count {
		frame, err := client.GetFrame()
		if err != nil {
			switch {
			case errors.Is(err, camera.ErrEndOfStream):
				log.Info("stream ended", "frames", received)
				break loop
			case errors.Is(err, camera.ErrTimeout):
				log.Warn("frame timed out", "frames", received)
				continue
			default:
				log.Error("frame failed", "error", err)
				break loop
			}
		}
		received++
		log.Info("frame",
			"index", received,
			"width", frame.Width,
			"height", frame.Height,
			"format", frame.PixelFormat.String(),
			"bytes", len(frame.Data),
			"fps", client.FPS())
	}

	client.StopCameraStreaming()
	elapsed := time.Since(start)
	log.Info("session summary",
		"frames", received,
		"elapsed", elapsed.String(),
		"advertised_count", client.FrameCount())
}
