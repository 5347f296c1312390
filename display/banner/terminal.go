package banner

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

// detectTerminalSize reports the terminal dimensions used for banner
// layout. The controlling TTY wins; non-TTY invocations (pipes, cron)
// fall back to the COLUMNS/LINES environment and finally to 80x24.
func detectTerminalSize() (width, height int) {
	if w, h, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 && h > 0 {
		return w, h
	}

	width, height = 80, 24
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		width = w
	}
	if h, err := strconv.Atoi(os.Getenv("LINES")); err == nil && h > 0 {
		height = h
	}
	return width, height
}
