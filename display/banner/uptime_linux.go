//go:build linux

package banner

import (
	"os"
	"time"
)

// getSystemUptime reads the host uptime from /proc/uptime. A zero return
// means the reading was unavailable and the banner drops the uptime.
func getSystemUptime() time.Duration {
	data, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return 0
	}
	secs, err := parseUptimeSeconds(data)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
