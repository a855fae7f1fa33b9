// Package balloon extracts typed app-balloon records from a resolved
// NSKeyedArchiver plist (payload_data), per spec.md §4.4.
package balloon

import "strings"

// ParseBundleID extracts the real bundle id from a message's
// balloon_bundle_id column.
//
// Strings of the form "com.apple.messages.MSMessageExtensionBalloonPlugin:
// <team>:<real-bundle>" are split on ':'; the third colon-delimited segment
// is the bundle id and the second (the Apple team identifier) is discarded.
// A bundle id with no colon is returned unchanged.
//
// Grounded on original_source/imessage-database/src/util/bundle_id.rs.
func ParseBundleID(bundleID string) string {
	parts := strings.SplitN(bundleID, ":", 3)
	if len(parts) < 3 {
		return bundleID
	}
	return parts[2]
}
