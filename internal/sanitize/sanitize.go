// Package sanitize strips internal-only fields from payloads before they
// reach public /live endpoints and normalizes timestamps to ET.
package sanitize

import (
	"strings"
	"time"
)

// internalSuffixes names any JSON key that must never reach a public
// response: raw UTC timestamps and internal epoch/ISO fields never leave
// this boundary, only ET-zoned display strings do.
var internalSuffixes = []string{"_utc", "_iso", "_epoch", "_timestamp"}

// StripInternalKeys removes any key in m (recursively) whose name ends in an
// internal-only suffix. Returns a new map; the input is left untouched.
func StripInternalKeys(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if hasInternalSuffix(k) {
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = StripInternalKeys(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func hasInternalSuffix(key string) bool {
	lower := strings.ToLower(key)
	for _, suffix := range internalSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// ToETDisplay converts a UTC time to an ET-zoned ISO-8601 string with
// explicit offset, the only timestamp form allowed in public payloads.
func ToETDisplay(t time.Time, eastern *time.Location) string {
	return t.In(eastern).Format("2006-01-02T15:04:05-07:00")
}
