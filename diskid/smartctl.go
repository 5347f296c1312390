package diskid

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// smartctlTimeout bounds a single smartctl invocation so a wedged drive
// cannot stall the poll cycle.
const smartctlTimeout = 2 * time.Second

// SmartctlBackend resolves disk identity by running smartctl with JSON
// output. smartctl may require elevated privileges; failures are reported
// to the Resolver, which falls back to the sysfs result.
type SmartctlBackend struct {
	// lookPath and run are overridable for tests.
	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewSmartctlBackend creates a backend that shells out to smartctl.
func NewSmartctlBackend() *SmartctlBackend {
	return &SmartctlBackend{
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

// Name identifies the backend in logs.
func (b *SmartctlBackend) Name() string {
	return "smartctl"
}

// Probe reports whether smartctl is installed.
func (b *SmartctlBackend) Probe() bool {
	_, err := b.lookPath("smartctl")
	return err == nil
}

// smartctlInfo is the subset of `smartctl -i -j` output we consume.
type smartctlInfo struct {
	ModelName    string `json:"model_name"`
	ModelFamily  string `json:"model_family"`
	SerialNumber string `json:"serial_number"`
}

// Identity runs `smartctl -i -j /dev/<disk>` and extracts model and
// serial from the JSON report.
func (b *SmartctlBackend) Identity(ctx context.Context, disk string) (Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, smartctlTimeout)
	defer cancel()

	out, err := b.run(ctx, "smartctl", "-i", "-j", "/dev/"+disk)
	if err != nil {
		return Identity{}, fmt.Errorf("diskid: smartctl %s: %w", disk, err)
	}

	var info smartctlInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return Identity{}, fmt.Errorf("diskid: parse smartctl output for %s: %w", disk, err)
	}

	id := unknown()
	if m := strings.TrimSpace(info.ModelName); m != "" {
		id.Model = m
	} else if m := strings.TrimSpace(info.ModelFamily); m != "" {
		id.Model = m
	}
	if s := strings.TrimSpace(info.SerialNumber); s != "" {
		id.Serial = s
	}

	if id.Model == metrics.UnknownIdentity && id.Serial == metrics.UnknownIdentity {
		return Identity{}, fmt.Errorf("diskid: smartctl reported no identity for %s", disk)
	}
	return id, nil
}

// Compile-time interface compliance check.
var _ IdentityBackend = (*SmartctlBackend)(nil)
