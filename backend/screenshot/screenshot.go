package screenshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	idbus "github.com/b0bbywan/go-screengrab/backend/internal/dbus"
	"github.com/b0bbywan/go-screengrab/logger"
)

// New creates a screenshot client on an existing session bus connection.
func New(conn busConn, timeout time.Duration) *Client {
	var sender string
	if names := conn.Names(); len(names) > 0 {
		sender = strings.ReplaceAll(strings.TrimPrefix(names[0], ":"), ".", "_")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		conn:    conn,
		sender:  sender,
		timeout: timeout,
	}
}

// Connect opens a dedicated session bus connection for the client.
func Connect(timeout time.Duration) (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	client := New(conn, timeout)
	client.sessionBus = conn
	return client, nil
}

// Close releases the session bus connection when the client owns one.
func (c *Client) Close() {
	if c.sessionBus != nil {
		if err := c.sessionBus.Close(); err != nil {
			logger.Error("[screenshot] failed to close D-Bus connection: %v", err)
		}
		c.sessionBus = nil
	}
}

// Request asks the portal for a full-desktop screenshot and blocks
// until the correlated Response signal arrives, the timeout fires, or
// ctx is cancelled, whichever comes first. On success it returns the
// file URI of the captured image. Interactive requests may present the
// user a permission dialog.
func (c *Client) Request(ctx context.Context, interactive bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req, err := openRequestChannel(c.conn, c.sender)
	if err != nil {
		return "", err
	}
	defer req.close()

	started := time.Now()
	if err := req.send(interactive); err != nil {
		return "", err
	}
	logger.Debug("[screenshot] request %s sent (interactive=%v)", req.token, interactive)

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	for {
		select {
		case sig := <-req.signals:
			if sig == nil || sig.Path != req.path {
				// Signal for another consumer of this connection.
				continue
			}
			return c.resolve(sig, started)
		case <-timer.C:
			logger.Error("[screenshot] no response from portal within %s", c.timeout)
			return "", &TimeoutError{Timeout: c.timeout}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// resolve decodes the Response signal into the result URI.
func (c *Client) resolve(sig *dbus.Signal, started time.Time) (string, error) {
	elapsed := time.Since(started).Round(time.Millisecond)

	code, results, err := idbus.ParseResponse(sig)
	if err != nil {
		return "", &RequestError{Reason: err.Error()}
	}
	if code != 0 {
		// The results payload is unspecified on the error path, skip it.
		logger.Error("[screenshot] portal response code %d after %s", code, elapsed)
		return "", &ResponseError{Code: code}
	}

	uri := idbus.MapString(results, "uri")
	if uri == "" {
		return "", &RequestError{
			Reason: fmt.Sprintf("no uri in response results (keys: %v)", idbus.Keys(results)),
		}
	}

	logger.Debug("[screenshot] received %s after %s", uri, elapsed)
	return uri, nil
}
