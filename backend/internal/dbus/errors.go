package dbus

import "fmt"

// SignalError is returned when a D-Bus signal body is malformed.
type SignalError struct {
	Reason string
}

func (e *SignalError) Error() string { return fmt.Sprintf("dbus: signal error: %s", e.Reason) }
