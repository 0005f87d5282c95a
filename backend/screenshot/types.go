package screenshot

import (
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

// busConn is the slice of *dbus.Conn the screenshot backend uses.
// Narrow on purpose so tests can drive the protocol with a fake bus.
type busConn interface {
	Names() []string
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
	AddMatchSignal(opts ...dbus.MatchOption) error
	RemoveMatchSignal(opts ...dbus.MatchOption) error
}

// Client issues full-desktop screenshot requests against the portal.
// At most one request is outstanding per Client at any time.
type Client struct {
	mu      sync.Mutex
	conn    busConn
	sender  string
	timeout time.Duration

	// set when the client owns its bus connection (see Connect)
	sessionBus *dbus.Conn
}

// requestChannel correlates exactly one portal call with its Response
// signal. The match rule is registered on the derived path before the
// call is sent, so the response cannot be lost to an ack/subscribe race.
type requestChannel struct {
	conn    busConn
	token   string
	path    dbus.ObjectPath
	signals chan *dbus.Signal
	match   []dbus.MatchOption
	open    bool
}
