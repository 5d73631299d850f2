package pylontech

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when a command is issued before the session
// has completed a successful handshake.
var ErrNotConnected = errors.New("session is not connected to battery console")

// ErrHandshakeFailed indicates the device did not answer the post-wake probe
// with the expected prompt pattern.
var ErrHandshakeFailed = errors.New("console handshake failed: prompt pattern mismatch")

// DecodeError describes a telemetry response that cannot be decoded for the
// requested module count, either because the count is out of range or
// because the response carried too few numeric tokens.
type DecodeError struct {
	Modules  int // requested module count
	Required int // tokens needed for Modules
	Got      int // tokens actually extracted
}

func (e *DecodeError) Error() string {
	if e.Modules < MinModules || e.Modules > MaxModules {
		return fmt.Sprintf("cannot decode report: module count %d outside %d..%d",
			e.Modules, MinModules, MaxModules)
	}
	return fmt.Sprintf("cannot decode report for %d modules: need %d tokens, got %d",
		e.Modules, e.Required, e.Got)
}
