package mongo

import "fmt"

// ReadyState is the live handle's self-reported status. The numeric values
// follow the conventional driver codes.
type ReadyState int32

const (
	StateDisconnected  ReadyState = 0
	StateConnected     ReadyState = 1
	StateConnecting    ReadyState = 2
	StateDisconnecting ReadyState = 3
)

func (s ReadyState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateConnecting:
		return "connecting"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// MarshalText renders the state name in JSON payloads.
func (s ReadyState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EventType names a connection lifecycle event.
type EventType string

const (
	EventConnected    EventType = "connected"
	EventError        EventType = "error"
	EventDisconnected EventType = "disconnected"
	EventReconnected  EventType = "reconnected"
)

// Event is emitted by a Conn when the driver observes a lifecycle change.
type Event struct {
	Type EventType
	Err  error
}
