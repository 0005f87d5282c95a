package capture

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/b0bbywan/go-screengrab/backend/screenshot"
	"github.com/b0bbywan/go-screengrab/config"
	"github.com/b0bbywan/go-screengrab/events"
)

type response struct {
	uri string
	err error
}

// fakeClient replays scripted portal outcomes and records the
// interactive flag of every request.
type fakeClient struct {
	responses []response
	calls     []bool
}

func (f *fakeClient) Request(ctx context.Context, interactive bool) (string, error) {
	f.calls = append(f.calls, interactive)
	if len(f.responses) == 0 {
		return "", &screenshot.RequestError{Reason: "no scripted response"}
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.uri, r.err
}

// fakeNotice reports focus only after a few polls and records the
// Show/Hide lifecycle.
type fakeNotice struct {
	shown      bool
	hidden     bool
	focusPolls int
	focusAfter int
}

func (n *fakeNotice) Show() { n.shown = true }

func (n *fakeNotice) HasFocus() bool {
	n.focusPolls++
	return n.focusPolls > n.focusAfter
}

func (n *fakeNotice) Hide() { n.hidden = true }

func testConfig(sandboxed bool) *config.CaptureConfig {
	return &config.CaptureConfig{
		Timeout:    time.Second,
		NoticePoll: 2 * time.Millisecond,
		Sandboxed:  sandboxed,
	}
}

// writeDesktopImage saves an 8x4 test raster and returns its file URI.
func writeDesktopImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "desktop.png")
	if err := imaging.Save(testImage(8, 4), path); err != nil {
		t.Fatalf("failed to save test image: %v", err)
	}
	return "file://" + path
}

func drainEvents(ch <-chan events.Event) []string {
	var types []string
	for {
		select {
		case e := <-ch:
			types = append(types, e.Type)
		default:
			return types
		}
	}
}

func hasEvent(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

var twoScreens = StaticScreens{
	{Index: 0, X: 0, Y: 0, Width: 4, Height: 4},
	{Index: 1, X: 4, Y: 0, Width: 4, Height: 4},
}

func TestCaptureSilentSuccess(t *testing.T) {
	client := &fakeClient{responses: []response{{uri: writeDesktopImage(t)}}}
	notice := &fakeNotice{}
	o := New(testConfig(true), client, twoScreens, notice)
	defer o.Close()

	images := o.Capture(context.Background())
	if len(images) != 2 {
		t.Fatalf("Capture() returned %d images, want 2", len(images))
	}
	if len(client.calls) != 1 || client.calls[0] {
		t.Errorf("calls = %v, want one non-interactive request", client.calls)
	}
	if notice.shown {
		t.Error("stall notice must not be shown on silent success")
	}

	evts := drainEvents(o.Events())
	if !hasEvent(evts, events.TypeCaptureFinished) {
		t.Errorf("events = %v, want %s", evts, events.TypeCaptureFinished)
	}
}

func TestCaptureTimeoutRetriesInteractiveWhenSandboxed(t *testing.T) {
	client := &fakeClient{responses: []response{
		{err: &screenshot.TimeoutError{Timeout: time.Second}},
		{uri: writeDesktopImage(t)},
	}}
	notice := &fakeNotice{focusAfter: 2}
	o := New(testConfig(true), client, twoScreens, notice)
	defer o.Close()

	images := o.Capture(context.Background())
	if len(images) != 2 {
		t.Fatalf("Capture() returned %d images, want 2", len(images))
	}
	if len(client.calls) != 2 || client.calls[0] || !client.calls[1] {
		t.Errorf("calls = %v, want [false true]", client.calls)
	}
	if !notice.shown || !notice.hidden {
		t.Errorf("notice shown=%v hidden=%v, want both", notice.shown, notice.hidden)
	}
	if notice.focusPolls < 3 {
		t.Errorf("focus polled %d times, want at least 3", notice.focusPolls)
	}

	evts := drainEvents(o.Events())
	if !hasEvent(evts, events.TypeCaptureRetry) {
		t.Errorf("events = %v, want %s", evts, events.TypeCaptureRetry)
	}
}

func TestCaptureTimeoutWithoutSandboxIsFinal(t *testing.T) {
	client := &fakeClient{responses: []response{
		{err: &screenshot.TimeoutError{Timeout: time.Second}},
	}}
	notice := &fakeNotice{}
	o := New(testConfig(false), client, twoScreens, notice)
	defer o.Close()

	images := o.Capture(context.Background())
	if len(images) != 0 {
		t.Fatalf("Capture() returned %d images, want 0", len(images))
	}
	if len(client.calls) != 1 {
		t.Errorf("calls = %v, want a single attempt", client.calls)
	}
	if notice.shown {
		t.Error("stall notice must not be shown outside a sandbox")
	}
}

func TestCaptureResponseErrorDoesNotRetry(t *testing.T) {
	client := &fakeClient{responses: []response{
		{err: &screenshot.ResponseError{Code: 1}},
	}}
	notice := &fakeNotice{}
	o := New(testConfig(true), client, twoScreens, notice)
	defer o.Close()

	images := o.Capture(context.Background())
	if len(images) != 0 {
		t.Fatalf("Capture() returned %d images, want 0", len(images))
	}
	if len(client.calls) != 1 {
		t.Errorf("calls = %v, want a single attempt on explicit portal error", client.calls)
	}
	if notice.shown {
		t.Error("stall notice must not be shown on an explicit portal error")
	}
}

func TestCaptureInteractiveTimeoutYieldsEmpty(t *testing.T) {
	client := &fakeClient{responses: []response{
		{err: &screenshot.TimeoutError{Timeout: time.Second}},
		{err: &screenshot.TimeoutError{Timeout: time.Second}},
	}}
	notice := &fakeNotice{}
	o := New(testConfig(true), client, twoScreens, notice)
	defer o.Close()

	images := o.Capture(context.Background())
	if len(images) != 0 {
		t.Fatalf("Capture() returned %d images, want 0", len(images))
	}
	if len(client.calls) != 2 {
		t.Errorf("calls = %v, want two attempts", client.calls)
	}
	if !notice.hidden {
		t.Error("stall notice must be hidden even when the retry fails")
	}
}

func TestCaptureCancelledWhileWaitingForNotice(t *testing.T) {
	client := &fakeClient{responses: []response{
		{err: &screenshot.TimeoutError{Timeout: time.Second}},
	}}
	// Focus never arrives; cancellation must end the wait.
	notice := &fakeNotice{focusAfter: 1 << 30}
	o := New(testConfig(true), client, twoScreens, notice)
	defer o.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	images := o.Capture(ctx)
	if len(images) != 0 {
		t.Fatalf("Capture() returned %d images, want 0", len(images))
	}
	if len(client.calls) != 1 {
		t.Errorf("calls = %v, want no interactive attempt after cancellation", client.calls)
	}
	if !notice.hidden {
		t.Error("stall notice must be hidden after cancellation")
	}
}

func TestCaptureBadResultURI(t *testing.T) {
	client := &fakeClient{responses: []response{
		{uri: "file:///nonexistent/desktop.png"},
	}}
	o := New(testConfig(true), client, twoScreens, nil)
	defer o.Close()

	images := o.Capture(context.Background())
	if len(images) != 0 {
		t.Fatalf("Capture() returned %d images, want 0", len(images))
	}
}
