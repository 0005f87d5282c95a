package events

const (
	TypeCaptureStarted  = "capture.started"
	TypeCaptureTimeout  = "capture.timeout"
	TypeCaptureRetry    = "capture.retry"
	TypeCaptureFinished = "capture.finished"
	TypeUpdateAvailable = "update.available"
)

type Event struct {
	Type string
	Data any
}
