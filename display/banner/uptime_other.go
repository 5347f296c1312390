//go:build !linux && !darwin

package banner

import "time"

// getSystemUptime has no portable source on this platform; the banner
// drops the uptime segment.
func getSystemUptime() time.Duration {
	return 0
}
