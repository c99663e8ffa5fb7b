package mqtt

import "errors"

// ErrNotConnected is returned when a notice is published while the client
// has no broker connection.
var ErrNotConnected = errors.New("mqtt client not connected")
