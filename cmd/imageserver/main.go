// Command imageserver serves a directory of still images as an emulated
// camera stream over TCP.
//
// Usage:
//
//	imageserver --path ./images --port 6008 --recursive=true --framerate 30
//
// Flags fall back to IMAGESERVER_* environment variables; a .env file in
// the working directory is honored.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ptri/go-camerautils/internal/config"
	"github.com/ptri/go-camerautils/internal/log"
	"github.com/ptri/go-camerautils/pkg/camera"
	"github.com/ptri/go-camerautils/pkg/imagefile"
)

func main() {
	config.LoadEnvFile()

	path := flag.String("path", config.ImageRoot(""), "directory containing images (required)")
	port := flag.Int("port", config.ServerPort(), "TCP port to listen on")
	recursive := flag.Bool("recursive", config.Bool("IMAGESERVER_RECURSIVE", true), "include images in subdirectories")
	framerate := flag.Float64("framerate", config.Float("IMAGESERVER_FRAMERATE", config.DefaultFrameRate), "frames per second")
	loop := flag.Bool("loop", config.Bool("IMAGESERVER_LOOP", false), "restart the sequence after the last image")
	chunkSize := flag.Int("chunksize", config.Int("IMAGESERVER_CHUNKSIZE", config.DefaultChunkSize), "bytes per socket write")
	logLevel := flag.String("log-level", config.String("IMAGESERVER_LOG_LEVEL", "info"), "debug, info, warn or error")
	flag.Parse()

	log.Init(*logLevel)

	if *path == "" {
		fmt.Fprintln(os.Stderr, "Error: --path is required (or set IMAGESERVER_PATH)")
		flag.Usage()
		os.Exit(2)
	}

	server, err := imagefile.NewServer(imagefile.ServerConfig{
		Root:      *path,
		Recursive: *recursive,
		FrameRate: *framerate,
		Port:      *port,
		Loop:      *loop,
		ChunkSize: *chunkSize,
		Logger:    log.L(),
	})
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := server.Start(); err != nil {
		var noImages *camera.NoImagesFoundError
		if errors.As(err, &noImages) {
			log.Error("nothing to serve", "root", noImages.Root)
		} else {
			log.Error("startup failed", "error", err)
		}
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("shutting down", "signal", sig.String())
		server.Close()
	}()

	if err := server.Serve(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
