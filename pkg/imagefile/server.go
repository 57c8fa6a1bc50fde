// Package imagefile emulates a camera over TCP from a directory of still
// images. Server serves the directory as a paced, framed stream; Client
// implements the camera.FrameProvider contract on the receiving side.
package imagefile

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ptri/go-camerautils/pkg/wire"
)

// DefaultChunkSize bounds a single socket write on the server and a single
// read on the client.
const DefaultChunkSize = 6000

// ServerConfig configures an image file server.
type ServerConfig struct {
	// Root is the directory to serve images from.
	Root string
	// Recursive includes images in subdirectories of Root.
	Recursive bool
	// FrameRate paces frame delivery, frames per second. Required.
	FrameRate float64
	// Port to listen on. 0 picks an ephemeral port (see Server.Addr).
	Port int
	// Loop restarts the sequence after the last image instead of closing
	// the connection. The handshake then advertises an unknown frame count.
	Loop bool
	// ChunkSize bounds each socket write. Defaults to DefaultChunkSize.
	ChunkSize int
	// Logger receives session and skip diagnostics. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// Server exposes a directory of still images as a pseudo-camera stream.
// One client is served at a time; further connections wait in the accept
// backlog until the active session ends. The file list is fixed at Start
// and never re-scanned.
type Server struct {
	cfg   ServerConfig
	log   *slog.Logger
	files []string
	first *rawFrame

	mu     sync.Mutex
	ln     net.Listener
	closed bool
}

// NewServer validates the configuration and builds a server. No file or
// socket activity happens until Start.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("imagefile: root directory is required")
	}
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("imagefile: frame rate must be positive, got %g", cfg.FrameRate)
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		cfg: cfg,
		log: cfg.Logger.With("component", "imagefile-server"),
	}, nil
}

// Start enumerates the directory and opens the listening socket. When the
// scan finds no eligible images it fails with NoImagesFoundError before any
// socket is opened.
func (s *Server) Start() error {
	files, err := scanImages(s.cfg.Root, s.cfg.Recursive)
	if err != nil {
		return err
	}
	s.files = files

	// The handshake advertises the first decodable frame's geometry.
	for _, path := range files {
		frame, err := decodeFile(path)
		if err != nil {
			s.log.Warn("skipping undecodable image", "path", path, "error", err)
			continue
		}
		s.first = frame
		break
	}
	if s.first == nil {
		return fmt.Errorf("imagefile: none of the %d images under %s could be decoded", len(files), s.cfg.Root)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("imagefile: listen on port %d: %w", s.cfg.Port, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.log.Info("server started",
		"addr", ln.Addr().String(),
		"images", len(files),
		"framerate", s.cfg.FrameRate,
		"loop", s.cfg.Loop)
	return nil
}

// Addr returns the bound listen address. Only valid after Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts and handles connections sequentially until Close. Returns
// nil after Close, or the accept error that ended the loop.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return fmt.Errorf("imagefile: Serve called before Start")
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			return fmt.Errorf("imagefile: accept: %w", err)
		}
		s.serveSession(conn)
	}
}

// Close stops accepting connections and unblocks Serve. The active session,
// if any, ends at its next write.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// serveSession streams the file sequence to one connected client: handshake
// first, then one framed payload per file, paced to 1/FrameRate. Files that
// fail to decode are skipped without consuming a pacing slot.
func (s *Server) serveSession(conn net.Conn) {
	defer conn.Close()

	session := uuid.NewString()
	log := s.log.With("session", session, "peer", conn.RemoteAddr().String())
	log.Info("client connected")

	frameCount := uint32(len(s.files))
	if s.cfg.Loop {
		frameCount = wire.UnknownFrameCount
	}
	hs := wire.Handshake{
		FrameCount: frameCount,
		Format:     s.first.format,
		Width:      uint32(s.first.width),
		Height:     uint32(s.first.height),
	}
	if _, err := conn.Write(hs.Encode()); err != nil {
		log.Warn("handshake write failed", "error", err)
		return
	}

	interval := time.Duration(float64(time.Second) / s.cfg.FrameRate)
	var lastSend time.Time
	sent := 0

	for {
		for _, path := range s.files {
			if s.isClosed() {
				log.Info("server closing, ending session", "frames_sent", sent)
				return
			}

			frame, err := decodeFile(path)
			if err != nil {
				log.Warn("skipping undecodable image", "path", path, "error", err)
				continue
			}

			// Pace against the previous send. If decoding already ate
			// the interval, send immediately; slack is lost, frames
			// are not dropped.
			if !lastSend.IsZero() {
				if wait := interval - time.Since(lastSend); wait > 0 {
					time.Sleep(wait)
				}
			}

			if err := s.writeFrame(conn, frame); err != nil {
				log.Info("client disconnected", "frames_sent", sent, "error", err)
				return
			}
			lastSend = time.Now()
			sent++
			log.Debug("frame sent", "path", path, "bytes", len(frame.data))
		}
		if !s.cfg.Loop {
			break
		}
	}

	// Default exhaustion policy: close the connection after the last
	// frame. The clean close is the end-of-stream signal.
	log.Info("sequence exhausted, closing session", "frames_sent", sent)
}

func (s *Server) writeFrame(conn net.Conn, frame *rawFrame) error {
	header := wire.HeaderFor(frame.format, frame.width, frame.height)
	if _, err := conn.Write(header.Encode()); err != nil {
		return err
	}
	for off := 0; off < len(frame.data); off += s.cfg.ChunkSize {
		end := off + s.cfg.ChunkSize
		if end > len(frame.data) {
			end = len(frame.data)
		}
		if _, err := conn.Write(frame.data[off:end]); err != nil {
			return err
		}
	}
	return nil
}
