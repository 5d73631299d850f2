package pylontech

import (
	"context"
	"fmt"
	"log/slog"
)

// Wire-level command literals of the woken console.
const (
	crlfProbe     = "\r\n"
	reportCommand = "pwr\r"
)

// reportBudget bounds how many bytes one "pwr" reply may occupy.
const reportBudget = 2200

// Session binds a battery console to request/response exchanges. It owns a
// single Port and allows one outstanding command at a time; callers running
// concurrent goroutines must serialize access themselves.
type Session struct {
	// Opener opens the serial device; the handshake reopens it at a
	// different baud rate.
	Opener Opener
	// Profile carries the device model's wire literals and timing.
	Profile Profile
	// Logger receives debug-level protocol traces. Defaults to slog.Default.
	Logger *slog.Logger

	port  Port
	state ConnectionState
}

// NewSession creates a session for the given device profile.
func NewSession(opener Opener, profile Profile) *Session {
	return &Session{Opener: opener, Profile: profile}
}

// State returns the current connection state.
func (s *Session) State() ConnectionState {
	return s.state
}

// Open attaches the session to an already-woken console at the given baud
// rate, skipping the wake-up handshake. Useful when the device has been
// initialised earlier and never went back to sleep.
func (s *Session) Open(path string, baudRate int) error {
	port, err := s.Opener.Open(path, baudRate, s.Profile.ReadTimeout)
	if err != nil {
		return fmt.Errorf("failed to open port: %w", err)
	}
	s.port = port
	s.state = StateReady
	return nil
}

// Close releases the serial handle. The session returns to
// StateUninitialized and can be reused with Open or Initialise.
func (s *Session) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	s.state = StateUninitialized
	return err
}

// ReadTelemetry requests one "pwr" report and decodes state of charge,
// voltage, current and temperature for the given number of daisy-chained
// modules. The module count is caller knowledge; the console does not
// announce how many units are chained.
func (s *Session) ReadTelemetry(ctx context.Context, modules int) (Report, error) {
	raw, err := s.requestReport(ctx)
	if err != nil {
		return nil, err
	}
	return ParseReport(raw, modules)
}

// ReadStateOfCharge requests one "pwr" report and decodes only the state of
// charge column, one value per module.
func (s *Session) ReadStateOfCharge(ctx context.Context, modules int) ([]float64, error) {
	raw, err := s.requestReport(ctx)
	if err != nil {
		return nil, err
	}
	return ParseStateOfCharge(raw, modules)
}

// requestReport performs one command exchange: send "pwr", give the device
// its fixed preparation delay, then drain the reply.
func (s *Session) requestReport(ctx context.Context) ([]byte, error) {
	if s.state != StateReady || s.port == nil || !s.port.IsOpen() {
		return nil, ErrNotConnected
	}

	if _, err := s.port.Write([]byte(reportCommand)); err != nil {
		return nil, fmt.Errorf("failed to send report request: %w", err)
	}
	if err := sleep(ctx, s.Profile.ReportDelay); err != nil {
		return nil, err
	}

	raw, err := readFrame(s.port, reportBudget)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	s.log().Debug("Report frame received", "bytes", len(raw))
	return raw, nil
}

func (s *Session) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
