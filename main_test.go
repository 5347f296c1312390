package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveConfigPath_Explicit(t *testing.T) {
	got := resolveConfigPath("/etc/wrh/config.yaml")
	if got != "/etc/wrh/config.yaml" {
		t.Errorf("resolveConfigPath = %q, want explicit path back", got)
	}
}

func TestResolveConfigPath_Default(t *testing.T) {
	got := resolveConfigPath("")
	if got == "" {
		t.Skip("no home directory in test environment")
	}
	want := filepath.Join(".config", "waybar-resource-hub", "config.yaml")
	if !strings.HasSuffix(got, want) {
		t.Errorf("resolveConfigPath = %q, want suffix %q", got, want)
	}
}

func TestNewLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, true)

	logger.Debug("probe")
	if !strings.Contains(buf.String(), "probe") {
		t.Error("verbose logger dropped debug record")
	}
}

func TestNewLogger_Quiet(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false)

	logger.Debug("probe")
	if strings.Contains(buf.String(), "probe") {
		t.Error("non-verbose logger emitted debug record")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("non-verbose logger should keep info level")
	}
}
