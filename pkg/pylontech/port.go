package pylontech

import "time"

// Port defines methods for exchanging raw bytes with the battery console.
type Port interface {
	// Read fills p with whatever the device has made available within the
	// port's read timeout. It returns n == 0 with a nil error when the
	// timeout expires without data.
	Read(p []byte) (n int, err error)
	// Write sends p to the device.
	Write(p []byte) (n int, err error)
	// Close releases the underlying handle.
	Close() error
	// IsOpen reports whether the handle is still usable.
	IsOpen() bool
}

// Opener opens a Port on a serial device path. The handshake reopens the
// same path at a different baud rate, so the Session holds an Opener rather
// than a ready-made Port.
type Opener interface {
	Open(path string, baudRate int, readTimeout time.Duration) (Port, error)
}
