package serial

import (
	"fmt"
	"time"

	"github.com/exepirit/pylontech-go/pkg/pylontech"
	"go.bug.st/serial"
)

// Opener opens real serial devices with the 8N1 framing the battery console
// speaks at both of its baud rates.
type Opener struct{}

var _ pylontech.Opener = Opener{}

// Open opens the serial device at the given baud rate. readTimeout bounds
// each Read call; an expired timeout surfaces as a zero-byte read.
func (Opener) Open(path string, baudRate int, readTimeout time.Duration) (pylontech.Port, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	if err = p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return &Port{port: p}, nil
}

// Port adapts a go.bug.st serial port to the pylontech.Port contract.
type Port struct {
	port   serial.Port
	closed bool
}

func (p *Port) Read(buf []byte) (int, error) {
	return p.port.Read(buf)
}

func (p *Port) Write(buf []byte) (int, error) {
	return p.port.Write(buf)
}

func (p *Port) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.port.Close()
}

// IsOpen reports whether Close has been called. The OS may have revoked the
// handle underneath (device unplugged); that surfaces as a read/write error.
func (p *Port) IsOpen() bool {
	return !p.closed
}
