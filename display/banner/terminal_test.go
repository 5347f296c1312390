package banner

import (
	"testing"
)

func TestDetectTerminalSizeEnvFallback(t *testing.T) {
	// Under `go test` stdout is rarely a TTY, so the environment path is
	// what usually runs; either way the result must be usable for layout.
	t.Setenv("COLUMNS", "120")
	t.Setenv("LINES", "40")

	w, h := detectTerminalSize()
	if w <= 0 || h <= 0 {
		t.Errorf("detectTerminalSize() = %dx%d, want positive dimensions", w, h)
	}
}

func TestDetectTerminalSizeInvalidEnv(t *testing.T) {
	t.Setenv("COLUMNS", "not-a-number")
	t.Setenv("LINES", "-5")

	w, h := detectTerminalSize()
	if w <= 0 || h <= 0 {
		t.Errorf("detectTerminalSize() = %dx%d, want defaults for bad env", w, h)
	}
}
