package pylontech

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

// ConnectionState tracks where a Session is in the console lifecycle.
// Commands are accepted only in StateReady.
type ConnectionState int

const (
	StateUninitialized ConnectionState = iota
	StateHandshake
	StateReady
	StateFailed
)

func (s ConnectionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHandshake:
		return "handshake"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// promptBudget bounds how many bytes a probe reply may occupy.
const promptBudget = 1000

// Initialise wakes the console and verifies it answers with its prompt.
//
// The console listens at Profile.WakeBaud until it receives the wake frame,
// then boots for Profile.WakeDelay and comes up at Profile.ConsoleBaud. The
// port therefore has to be closed and reopened mid-handshake. A prompt
// mismatch returns ErrHandshakeFailed; there is no internal retry, redo the
// whole call if the caller wants one.
func (s *Session) Initialise(ctx context.Context, path string) error {
	if s.port != nil {
		s.port.Close()
		s.port = nil
	}
	s.state = StateHandshake

	wakePort, err := s.Opener.Open(path, s.Profile.WakeBaud, s.Profile.ReadTimeout)
	if err != nil {
		s.state = StateFailed
		return fmt.Errorf("failed to open port for wake-up: %w", err)
	}

	_, err = wakePort.Write([]byte(s.Profile.WakeFrame + "\r"))
	if err != nil {
		wakePort.Close()
		s.state = StateFailed
		return fmt.Errorf("failed to send wake frame: %w", err)
	}
	s.log().Debug("Wake frame sent, waiting for console boot", "delay", s.Profile.WakeDelay)

	if err = sleep(ctx, s.Profile.WakeDelay); err != nil {
		wakePort.Close()
		s.state = StateFailed
		return err
	}

	if err = wakePort.Close(); err != nil {
		s.state = StateFailed
		return fmt.Errorf("failed to close wake-up port: %w", err)
	}

	port, err := s.Opener.Open(path, s.Profile.ConsoleBaud, s.Profile.ReadTimeout)
	if err != nil {
		s.state = StateFailed
		return fmt.Errorf("failed to reopen port at console baud rate: %w", err)
	}

	ok, err := s.probe(port)
	if err != nil {
		port.Close()
		s.state = StateFailed
		return fmt.Errorf("failed to probe console: %w", err)
	}
	if !ok {
		port.Close()
		s.state = StateFailed
		return ErrHandshakeFailed
	}

	s.port = port
	s.state = StateReady
	s.log().Debug("Console handshake complete", "path", path)
	return nil
}

// IsConnected probes a ready session for liveness: a bare CRLF must be
// answered with the exact double-prompt banner. A failed probe is reported,
// not acted on; the session state stays StateReady so the caller decides
// whether to reinitialise.
func (s *Session) IsConnected() bool {
	if s.state != StateReady || s.port == nil || !s.port.IsOpen() {
		return false
	}
	ok, err := s.probe(s.port)
	return err == nil && ok
}

// probe writes the CRLF probe and compares the reply byte-for-byte against
// the expected double-prompt pattern.
func (s *Session) probe(port Port) (bool, error) {
	if _, err := port.Write([]byte(crlfProbe)); err != nil {
		return false, err
	}
	reply, err := readFrame(port, promptBudget)
	if err != nil {
		return false, err
	}
	return bytes.Equal(reply, s.Profile.promptPattern()), nil
}

// readFrame accumulates reads until the device stops talking (a zero-byte
// read, meaning the port's read timeout expired) or budget bytes arrived.
// A single Read may return only part of the reply.
func readFrame(port Port, budget int) ([]byte, error) {
	frame := make([]byte, 0, budget)
	chunk := make([]byte, 256)
	for len(frame) < budget {
		limit := min(len(chunk), budget-len(frame))
		n, err := port.Read(chunk[:limit])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		frame = append(frame, chunk[:n]...)
	}
	return frame, nil
}

// sleep waits d unless ctx is cancelled first. The settle delays are hard
// device constraints; ctx is the only way to abandon them early.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
