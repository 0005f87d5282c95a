package dbus

import (
	"github.com/godbus/dbus/v5"
)

// ParseResponse validates and decodes an org.freedesktop.portal.Request
// Response signal body: (uint32 code, map[string]dbus.Variant results).
func ParseResponse(sig *dbus.Signal) (uint32, map[string]dbus.Variant, error) {
	if sig == nil {
		return 0, nil, &SignalError{Reason: "channel closed"}
	}
	if len(sig.Body) < 2 {
		return 0, nil, &SignalError{Reason: "body too short"}
	}
	code, ok := sig.Body[0].(uint32)
	if !ok {
		return 0, nil, &SignalError{Reason: "body[0] is not uint32"}
	}
	results, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return 0, nil, &SignalError{Reason: "body[1] is not map[string]Variant"}
	}
	return code, results, nil
}

// ExtractString extracts a string from a dbus.Variant.
func ExtractString(v dbus.Variant) (string, bool) {
	val, ok := v.Value().(string)
	return val, ok
}

// MapString extracts a string from a results map by key.
func MapString(results map[string]dbus.Variant, key string) string {
	if v, ok := results[key]; ok {
		s, _ := ExtractString(v)
		return s
	}
	return ""
}

// Keys returns the keys of a results map (useful for debug logging).
func Keys(results map[string]dbus.Variant) []string {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	return keys
}
