package mqtt

import "errors"

// ErrNotConnected is returned when attempting to publish before the client has connected to the broker.
var ErrNotConnected = errors.New("client is not connected to broker")
