package screenshot

import (
	"fmt"
	"time"
)

// RequestError indicates the portal rejected the call or the
// acknowledgement carried no valid request object path.
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return "screenshot request rejected: " + e.Reason
}

// ResponseError indicates the portal explicitly answered with a
// non-zero response code.
type ResponseError struct {
	Code uint32
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("portal response code %d", e.Code)
}

// TimeoutError indicates the portal never answered within the deadline.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no portal response within %s", e.Timeout)
}
