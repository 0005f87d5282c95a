package screenshot

import (
	"fmt"
	"math/rand"

	"github.com/godbus/dbus/v5"

	"github.com/b0bbywan/go-screengrab/logger"
)

// openRequestChannel derives a fresh request object path from the
// connection's unique bus name and a random handle token, and
// subscribes to the Response signal on it.
func openRequestChannel(conn busConn, sender string) (*requestChannel, error) {
	token := tokenPrefix + randomToken()
	path := dbus.ObjectPath(fmt.Sprintf("%s/%s/%s", requestPathBase, sender, token))

	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(requestIface),
		dbus.WithMatchMember("Response"),
	}
	if err := conn.AddMatchSignal(match...); err != nil {
		return nil, &RequestError{Reason: fmt.Sprintf("failed to subscribe to %s: %v", path, err)}
	}

	signals := make(chan *dbus.Signal, 8)
	conn.Signal(signals)

	return &requestChannel{
		conn:    conn,
		token:   token,
		path:    path,
		signals: signals,
		match:   match,
		open:    true,
	}, nil
}

// send issues the Screenshot call and validates the acknowledgement.
// The call itself returns quickly; the actual result arrives later as a
// Response signal on the subscribed path.
func (r *requestChannel) send(interactive bool) error {
	opts := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(r.token),
		"interactive":  dbus.MakeVariant(interactive),
	}

	portal := r.conn.Object(portalDest, portalPath)
	var ack dbus.ObjectPath
	if err := portal.Call(portalIface+".Screenshot", 0, "", opts).Store(&ack); err != nil {
		return &RequestError{Reason: err.Error()}
	}
	if !ack.IsValid() {
		return &RequestError{Reason: "no request object path in acknowledgement"}
	}
	return nil
}

// close tears the listener down. Idempotent; once closed, a late
// Response signal is no longer routed to this channel.
func (r *requestChannel) close() {
	if !r.open {
		return
	}
	r.open = false

	if err := r.conn.RemoveMatchSignal(r.match...); err != nil {
		logger.Warn("[screenshot] failed to remove match rule for %s: %v", r.path, err)
	}
	r.conn.RemoveSignal(r.signals)
}

// randomToken only needs to be unique among outstanding requests on one
// bus connection, so a short random string is enough.
func randomToken() string {
	b := make([]byte, tokenLength)
	for i := range b {
		b[i] = 'a' + byte(rand.Intn(26))
	}
	return string(b)
}
