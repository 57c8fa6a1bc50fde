package camera

// Lifecycle controls a provider's transition through its states.
//
// Valid transitions: Uninitialized → Initialized → Streaming → Initialized
// → Deinitialized. Calls outside these transitions return InvalidStateError,
// except DeinitializeCamera which is a safe cleanup from any state.
type Lifecycle interface {
	// InitializeCamera reaches the underlying resource (device or socket)
	// and prepares it for streaming. Returns an InitializationError if the
	// resource cannot be reached.
	InitializeCamera() error

	// StartCameraStreaming moves the provider from Initialized to
	// Streaming, after which GetFrame may be called.
	StartCameraStreaming() error

	// StopCameraStreaming moves the provider back from Streaming to
	// Initialized.
	StopCameraStreaming() error

	// DeinitializeCamera releases the underlying resource. Safe to call
	// for cleanup from any state, including after errors.
	DeinitializeCamera() error
}

// FrameGrabber acquires frames from a streaming provider.
type FrameGrabber interface {
	// GetFrame returns the next frame. Valid only while Streaming.
	// Recoverable conditions are returned as error values the caller must
	// discriminate: ErrEndOfStream, ErrTimeout, *ProtocolError,
	// *ConnectionError.
	GetFrame() (*GrabbedImage, error)
}

// Metadata exposes the stream parameters of a provider. Values are only
// meaningful after InitializeCamera has succeeded.
type Metadata interface {
	Name() string
	Width() int
	Height() int
	PixelFormat() PixelFormat
	FPS() float64
}

// FrameProvider is the composite contract every frame source satisfies,
// hardware-backed or emulated. Implementations are not safe for concurrent
// GetFrame calls; callers serialize access for the duration of one
// acquisition.
type FrameProvider interface {
	Lifecycle
	FrameGrabber
	Metadata
}
