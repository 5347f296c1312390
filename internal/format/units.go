package format

import "fmt"

// Temperature units accepted by FormatTemperature.
const (
	UnitCelsius    = "celsius"
	UnitFahrenheit = "fahrenheit"
)

// FormatBytes renders a byte count using IEC units, e.g. "12.4 GiB".
// Values below 1 KiB render without a fraction.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatTemperature renders a Celsius reading in the requested unit.
// Stored values are always Celsius; conversion happens here and nowhere
// else. Unrecognized units fall back to Celsius.
func FormatTemperature(celsius float64, unit string) string {
	if unit == UnitFahrenheit {
		return fmt.Sprintf("%.0f°F", celsius*9/5+32)
	}
	return fmt.Sprintf("%.0f°C", celsius)
}

// FormatPercent renders a percentage with no fraction, e.g. "42%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}
