//go:build darwin

package banner

import (
	"time"

	"golang.org/x/sys/unix"
)

// getSystemUptime derives the host uptime from the kernel boot time.
// A zero return means the sysctl failed and the banner drops the uptime.
func getSystemUptime() time.Duration {
	tv, err := unix.SysctlTimeval("kern.boottime")
	if err != nil {
		return 0
	}
	return time.Since(time.Unix(tv.Sec, int64(tv.Usec)*1000))
}
