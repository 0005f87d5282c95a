package capture

import (
	"context"
	"errors"
	"time"

	"github.com/b0bbywan/go-screengrab/backend/screenshot"
	"github.com/b0bbywan/go-screengrab/config"
	"github.com/b0bbywan/go-screengrab/events"
	"github.com/b0bbywan/go-screengrab/logger"
)

// Orchestrator drives the two-phase capture policy: a silent portal
// request first, then, under a sandboxed environment, an interactive
// retry behind a stall notice when the silent request timed out.
type Orchestrator struct {
	client     portalClient
	screens    ScreenProvider
	notice     Notice
	sandboxed  bool
	noticePoll time.Duration
	eventsC    chan events.Event
}

// New creates an orchestrator. A nil notice falls back to NopNotice, a
// nil screens provider to a single screen covering the whole desktop.
func New(cfg *config.CaptureConfig, client portalClient, screens ScreenProvider, notice Notice) *Orchestrator {
	if notice == nil {
		notice = NopNotice{}
	}
	if screens == nil {
		screens = StaticScreens(nil)
	}
	return &Orchestrator{
		client:     client,
		screens:    screens,
		notice:     notice,
		sandboxed:  cfg.Sandboxed,
		noticePoll: cfg.NoticePoll,
		eventsC:    make(chan events.Event, 8),
	}
}

// Events exposes capture progress events.
func (o *Orchestrator) Events() <-chan events.Event {
	return o.eventsC
}

// Close releases the events channel.
func (o *Orchestrator) Close() {
	close(o.eventsC)
}

func (o *Orchestrator) emit(eventType string, data any) {
	select {
	case o.eventsC <- events.Event{Type: eventType, Data: data}:
	default:
		logger.Warn("[capture] events channel full, dropping %s", eventType)
	}
}

// Capture takes a full-desktop screenshot through the portal and
// returns one image per known screen. Newer portal implementations only
// allow silent capture after a first interactive grant, so a timed-out
// silent request is retried interactively when the sandbox marker is
// present. All failures are logged and yield an empty result; nothing
// here is fatal to the caller.
func (o *Orchestrator) Capture(ctx context.Context) []Image {
	start := time.Now()
	o.emit(events.TypeCaptureStarted, nil)

	logger.Debug("[capture] requesting screenshot (interactive=false)")
	images, err := o.attempt(ctx, false)
	if err == nil {
		o.emit(events.TypeCaptureFinished, len(images))
		return images
	}

	var timeoutErr *screenshot.TimeoutError
	if !errors.As(err, &timeoutErr) {
		logger.Error("[capture] silent capture failed after %s: %v",
			time.Since(start).Round(time.Millisecond), err)
		return nil
	}

	o.emit(events.TypeCaptureTimeout, time.Since(start))
	logger.Warn("[capture] timeout when taking screenshot")

	if !o.sandboxed {
		logger.Warn("[capture] no screenshot received; are permissions missing or was the dialog cancelled?")
		return nil
	}

	logger.Debug("[capture] retrying screenshot (interactive=true)")
	o.emit(events.TypeCaptureRetry, nil)

	o.notice.Show()
	defer o.notice.Hide()
	if err := o.waitForNotice(ctx); err != nil {
		logger.Error("[capture] interrupted while presenting stall notice: %v", err)
		return nil
	}

	images, err = o.attempt(ctx, true)
	if err != nil {
		logger.Error("[capture] interactive capture failed after %s: %v",
			time.Since(start).Round(time.Millisecond), err)
		return nil
	}
	o.emit(events.TypeCaptureFinished, len(images))
	return images
}

// attempt runs one portal request and partitions the result.
func (o *Orchestrator) attempt(ctx context.Context, interactive bool) ([]Image, error) {
	uri, err := o.client.Request(ctx, interactive)
	if err != nil {
		return nil, err
	}
	return o.partition(uri)
}

// waitForNotice polls until the stall notice has presentation focus,
// yielding between polls so the surrounding UI can keep rendering it.
func (o *Orchestrator) waitForNotice(ctx context.Context) error {
	ticker := time.NewTicker(o.noticePoll)
	defer ticker.Stop()

	for !o.notice.HasFocus() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
