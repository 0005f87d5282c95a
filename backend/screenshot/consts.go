package screenshot

import "time"

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalIface     = "org.freedesktop.portal.Screenshot"
	requestIface    = "org.freedesktop.portal.Request"
	requestPathBase = "/org/freedesktop/portal/desktop/request"

	tokenPrefix = "screengrab_"
	tokenLength = 8
)

// The portal does not answer at all when the screenshot cannot be taken
// (e.g. missing permission), so every request is guarded by a timeout.
// 10s is a trade-off between slow high-resolution multi-monitor setups
// and a short delay between action and error message.
const DefaultTimeout = 10 * time.Second
