package pylontech

import "time"

// Profile carries the wire-level literals and timing constraints of one
// battery model's console. The values are device firmware properties, not
// protocol logic; a different Pylontech model gets a different Profile.
type Profile struct {
	// WakeFrame is the opaque frame that brings the console out of its
	// low-power state. Sent at WakeBaud, terminated by a carriage return.
	WakeFrame string
	// WakeBaud is the baud rate the console listens at before wake-up.
	WakeBaud int
	// ConsoleBaud is the baud rate of the woken text console.
	ConsoleBaud int
	// Prompt is the idle banner the console prints when ready.
	Prompt string
	// ReadTimeout bounds each individual port read.
	ReadTimeout time.Duration
	// WakeDelay is the fixed boot time after the wake frame. The firmware
	// needs the full delay; shortening it breaks the handshake.
	WakeDelay time.Duration
	// ReportDelay is the fixed wait between sending the report request and
	// the reply being complete in the device's output buffer.
	ReportDelay time.Duration
}

// US2000B returns the console profile of the Pylontech US2000B Plus.
func US2000B() Profile {
	return Profile{
		WakeFrame:   "~20014682C0048520FCC3",
		WakeBaud:    1200,
		ConsoleBaud: 115200,
		Prompt:      "pylon>",
		ReadTimeout: 50 * time.Millisecond,
		WakeDelay:   5 * time.Second,
		ReportDelay: 500 * time.Millisecond,
	}
}

// promptPattern is the exact byte sequence a healthy console answers to a
// bare CRLF probe: the prompt twice, each preceded by LF CR.
func (p Profile) promptPattern() []byte {
	return []byte("\n\r" + p.Prompt + "\n\r" + p.Prompt)
}
