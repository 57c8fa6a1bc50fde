package imagefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/ptri/go-camerautils/pkg/camera"
	"github.com/ptri/go-camerautils/pkg/wire"
)

// CameraType tags frames produced by the emulated file stream.
const CameraType = "emulated-file"

// DefaultReadTimeout bounds how long a single socket read may stall.
const DefaultReadTimeout = 5 * time.Second

// ClientConfig configures an image file client.
type ClientConfig struct {
	// Host of the server. Defaults to "localhost".
	Host string
	// Port of the server. Required.
	Port int
	// ChunkSize bounds each socket read. Defaults to DefaultChunkSize.
	ChunkSize int
	// ReadTimeout bounds a single read before GetFrame fails with
	// ErrTimeout. Defaults to DefaultReadTimeout.
	ReadTimeout time.Duration
	// Logger receives connection diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// Client implements camera.FrameProvider over a TCP connection to a Server.
// A Client owns its socket and read buffer exclusively and serializes frame
// acquisition internally; callers must still treat GetFrame as
// one-in-flight.
type Client struct {
	cfg ClientConfig
	log *slog.Logger

	mu    sync.Mutex
	state camera.State
	conn  net.Conn
	chunk []byte

	handshake  wire.Handshake
	width      int
	height     int
	format     camera.PixelFormat
	frameIndex uint64
	lastFrame  time.Time
	fps        float64
}

// Statically assert the contract.
var _ camera.FrameProvider = (*Client)(nil)

// NewClient validates the configuration and builds a client. The connection
// is not opened until InitializeCamera.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("imagefile: port is required")
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		cfg:   cfg,
		log:   cfg.Logger.With("component", "imagefile-client"),
		state: camera.StateUninitialized,
	}, nil
}

// InitializeCamera opens the TCP connection and reads the handshake within
// ReadTimeout. The connection stays open; streaming state only gates
// GetFrame.
func (c *Client) InitializeCamera() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != camera.StateUninitialized && c.state != camera.StateDeinitialized {
		return &camera.InvalidStateError{Op: "InitializeCamera", State: c.state}
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	conn, err := net.DialTimeout("tcp", addr, c.cfg.ReadTimeout)
	if err != nil {
		return &camera.InitializationError{
			Reason: "connect to " + addr,
			Err:    &camera.ConnectionError{Op: "dial", Err: err},
		}
	}

	conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	hs, err := wire.ReadHandshake(conn)
	if err != nil {
		conn.Close()
		return &camera.InitializationError{Reason: "handshake", Err: classifyHandshakeErr(err)}
	}

	c.conn = conn
	c.chunk = make([]byte, c.cfg.ChunkSize)
	c.handshake = hs
	c.width = int(hs.Width)
	c.height = int(hs.Height)
	c.format = hs.Format
	c.frameIndex = 0
	c.lastFrame = time.Time{}
	c.fps = 0
	c.state = camera.StateInitialized

	c.log.Info("connected",
		"addr", addr,
		"frames", hs.FrameCount,
		"format", hs.Format.String(),
		"width", hs.Width,
		"height", hs.Height)
	return nil
}

// StartCameraStreaming moves the client into Streaming. Pure state
// transition: the connection was opened at initialization.
func (c *Client) StartCameraStreaming() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != camera.StateInitialized {
		return &camera.InvalidStateError{Op: "StartCameraStreaming", State: c.state}
	}
	c.state = camera.StateStreaming
	return nil
}

// StopCameraStreaming moves the client back to Initialized.
func (c *Client) StopCameraStreaming() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != camera.StateStreaming {
		return &camera.InvalidStateError{Op: "StopCameraStreaming", State: c.state}
	}
	c.state = camera.StateInitialized
	return nil
}

// DeinitializeCamera closes the socket. Safe to call from any state,
// including after errors.
func (c *Client) DeinitializeCamera() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.log.Warn("close failed", "error", err)
		}
		c.conn = nil
	}
	c.state = camera.StateDeinitialized
	return nil
}

// GetFrame reads the next framed payload and decodes it into a
// GrabbedImage stamped with the local receipt time. Streaming conditions
// come back as discriminated error values: camera.ErrEndOfStream when the
// server closed, camera.ErrTimeout when a read stalled past ReadTimeout,
// *camera.ProtocolError when a header or payload is inconsistent.
func (c *Client) GetFrame() (*camera.GrabbedImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != camera.StateStreaming {
		return nil, &camera.InvalidStateError{Op: "GetFrame", State: c.state}
	}
	if c.conn == nil {
		return nil, &camera.ConnectionError{Op: "GetFrame", Err: errors.New("connection closed")}
	}

	var headerBuf [wire.FrameHeaderSize]byte
	if err := c.readExact(headerBuf[:]); err != nil {
		return nil, classifyReadErr(err)
	}
	header, err := wire.ReadFrameHeader(bytes.NewReader(headerBuf[:]))
	if err != nil {
		return nil, asProtocolErr(err)
	}

	payload := make([]byte, header.PayloadLen)
	if err := c.readExact(payload); err != nil {
		return nil, classifyReadErr(err)
	}

	now := time.Now()
	if !c.lastFrame.IsZero() {
		if dt := now.Sub(c.lastFrame); dt > 0 {
			c.fps = 1.0 / dt.Seconds()
		}
	}
	c.lastFrame = now
	c.width = int(header.Width)
	c.height = int(header.Height)
	c.format = header.Format
	index := c.frameIndex
	c.frameIndex++

	frame, err := camera.NewGrabbedImage(payload, int(header.Width), int(header.Height),
		header.Format, now, CameraType, map[string]any{"frame_index": index})
	if err != nil {
		return nil, &camera.ProtocolError{Reason: "frame payload", Err: err}
	}
	return frame, nil
}

// Name identifies the provider implementation.
func (c *Client) Name() string { return CameraType }

// Width returns the last observed frame width, seeded from the handshake.
func (c *Client) Width() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// Height returns the last observed frame height, seeded from the handshake.
func (c *Client) Height() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// PixelFormat returns the last observed pixel format.
func (c *Client) PixelFormat() camera.PixelFormat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format
}

// FPS returns the measured arrival rate. Zero until two frames arrived.
func (c *Client) FPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

// FrameCount returns the total frame count advertised at handshake.
// wire.UnknownFrameCount means the server loops its sequence.
func (c *Client) FrameCount() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handshake.FrameCount
}

// readExact fills buf with reads of at most ChunkSize bytes, bounding each
// read with ReadTimeout. Callers hold c.mu.
func (c *Client) readExact(buf []byte) error {
	off := 0
	for off < len(buf) {
		end := off + c.cfg.ChunkSize
		if end > len(buf) {
			end = len(buf)
		}
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		n, err := c.conn.Read(buf[off:end])
		off += n
		if err != nil {
			if err == io.EOF && off == len(buf) {
				return nil
			}
			return err
		}
	}
	return nil
}

// classifyReadErr maps socket errors to the provider error taxonomy.
func classifyReadErr(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// Clean close at a frame boundary and a close mid-frame both end
		// the stream.
		return camera.ErrEndOfStream
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("read stalled: %w", camera.ErrTimeout)
	default:
		return &camera.ConnectionError{Op: "read", Err: err}
	}
}

// classifyHandshakeErr maps handshake failures: a stall or malformed header
// is a protocol failure of the initialization.
func classifyHandshakeErr(err error) error {
	var protoErr *camera.ProtocolError
	if errors.As(err, &protoErr) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &camera.ProtocolError{Reason: "handshake stalled", Err: camera.ErrTimeout}
	}
	return &camera.ProtocolError{Reason: "handshake read", Err: err}
}

func asProtocolErr(err error) error {
	var protoErr *camera.ProtocolError
	if errors.As(err, &protoErr) {
		return err
	}
	return &camera.ProtocolError{Reason: "frame header", Err: err}
}
