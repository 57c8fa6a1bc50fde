// Package wire defines the TCP wire protocol between ImageFileServer and
// ImageFileClient.
//
// All integers are big-endian. A connection carries one handshake followed
// by zero or more frame messages; the server closes the connection after the
// final frame instead of sending a sentinel.
//
//	handshake:  [4B frame_count][1B format_code][4B width][4B height]
//	frame:      [1B format_code][4B width][4B height][4B payload_len][payload]
//
// The per-frame geometry prefix is the extended form of the protocol: images
// in one directory routinely differ in size, so every frame is
// self-describing and the handshake only advertises the first frame.
// frame_count = 0xFFFFFFFF marks an unknown or looping stream.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ptri/go-camerautils/pkg/camera"
)

const (
	// HandshakeSize is the encoded handshake length in bytes.
	HandshakeSize = 13
	// FrameHeaderSize is the encoded frame header length in bytes.
	FrameHeaderSize = 13

	// UnknownFrameCount marks a looping or unbounded stream.
	UnknownFrameCount = 0xFFFFFFFF

	// MaxDimension caps width and height read off the wire. Anything
	// larger is treated as a corrupt header rather than an allocation
	// request.
	MaxDimension = 1 << 15
)

// Handshake is the stream metadata sent once per connection, before any
// frame. Format, Width and Height describe the first frame.
type Handshake struct {
	FrameCount uint32
	Format     camera.PixelFormat
	Width      uint32
	Height     uint32
}

// Encode returns the wire form of the handshake.
func (h Handshake) Encode() []byte {
	buf := make([]byte, HandshakeSize)
	binary.BigEndian.PutUint32(buf[0:4], h.FrameCount)
	buf[4] = h.Format.Code()
	binary.BigEndian.PutUint32(buf[5:9], h.Width)
	binary.BigEndian.PutUint32(buf[9:13], h.Height)
	return buf
}

// ReadHandshake reads and decodes a handshake from r. A clean close before
// any byte arrives surfaces as io.EOF; a short read as io.ErrUnexpectedEOF.
func ReadHandshake(r io.Reader) (Handshake, error) {
	var buf [HandshakeSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Handshake{}, err
	}
	format, err := camera.FormatFromCode(buf[4])
	if err != nil {
		return Handshake{}, &camera.ProtocolError{Reason: "handshake", Err: err}
	}
	h := Handshake{
		FrameCount: binary.BigEndian.Uint32(buf[0:4]),
		Format:     format,
		Width:      binary.BigEndian.Uint32(buf[5:9]),
		Height:     binary.BigEndian.Uint32(buf[9:13]),
	}
	if h.Width > MaxDimension || h.Height > MaxDimension {
		return Handshake{}, &camera.ProtocolError{
			Reason: fmt.Sprintf("handshake geometry %dx%d out of range", h.Width, h.Height),
		}
	}
	return h, nil
}

// FrameHeader prefixes every frame payload with its geometry and length.
type FrameHeader struct {
	Format     camera.PixelFormat
	Width      uint32
	Height     uint32
	PayloadLen uint32
}

// HeaderFor builds the frame header for a raw pixel buffer.
func HeaderFor(format camera.PixelFormat, width, height int) FrameHeader {
	return FrameHeader{
		Format:     format,
		Width:      uint32(width),
		Height:     uint32(height),
		PayloadLen: uint32(width * height * format.BytesPerPixel()),
	}
}

// Encode returns the wire form of the frame header.
func (h FrameHeader) Encode() []byte {
	buf := make([]byte, FrameHeaderSize)
	buf[0] = h.Format.Code()
	binary.BigEndian.PutUint32(buf[1:5], h.Width)
	binary.BigEndian.PutUint32(buf[5:9], h.Height)
	binary.BigEndian.PutUint32(buf[9:13], h.PayloadLen)
	return buf
}

// Validate checks the declared payload length against the declared geometry.
func (h FrameHeader) Validate() error {
	if h.Width == 0 || h.Height == 0 || h.Width > MaxDimension || h.Height > MaxDimension {
		return &camera.ProtocolError{
			Reason: fmt.Sprintf("frame geometry %dx%d out of range", h.Width, h.Height),
		}
	}
	want := h.Width * h.Height * uint32(h.Format.BytesPerPixel())
	if h.PayloadLen != want {
		return &camera.ProtocolError{
			Reason: fmt.Sprintf("payload length %d does not match %dx%d %v (want %d)",
				h.PayloadLen, h.Width, h.Height, h.Format, want),
		}
	}
	return nil
}

// ReadFrameHeader reads and decodes a frame header from r. A clean close at
// a frame boundary surfaces as io.EOF; a close mid-header as
// io.ErrUnexpectedEOF.
func ReadFrameHeader(r io.Reader) (FrameHeader, error) {
	var buf [FrameHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return FrameHeader{}, err
	}
	format, err := camera.FormatFromCode(buf[0])
	if err != nil {
		return FrameHeader{}, &camera.ProtocolError{Reason: "frame header", Err: err}
	}
	h := FrameHeader{
		Format:     format,
		Width:      binary.BigEndian.Uint32(buf[1:5]),
		Height:     binary.BigEndian.Uint32(buf[5:9]),
		PayloadLen: binary.BigEndian.Uint32(buf[9:13]),
	}
	if err := h.Validate(); err != nil {
		return FrameHeader{}, err
	}
	return h, nil
}
