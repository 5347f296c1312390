package format

import "testing"

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{4 << 20, "4.0 MiB"},
		{16 << 30, "16.0 GiB"},
		{3 << 40, "3.0 TiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		celsius float64
		unit    string
		want    string
	}{
		{61, UnitCelsius, "61°C"},
		{0, UnitCelsius, "0°C"},
		{100, UnitFahrenheit, "212°F"},
		{0, UnitFahrenheit, "32°F"},
		{61, "kelvin", "61°C"},
	}
	for _, tt := range tests {
		if got := FormatTemperature(tt.celsius, tt.unit); got != tt.want {
			t.Errorf("FormatTemperature(%v, %s) = %q, want %q", tt.celsius, tt.unit, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(42.4); got != "42%" {
		t.Errorf("FormatPercent(42.4) = %q", got)
	}
	if got := FormatPercent(99.6); got != "100%" {
		t.Errorf("FormatPercent(99.6) = %q", got)
	}
}
