package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// HealthStatus represents the daemon health check output.
type HealthStatus struct {
	Status   string            `json:"status"`
	LastPoll time.Time         `json:"last_poll"`
	Domains  map[string]string `json:"domains"`
}

// healthFile is the filename for the daemon health check within the cache directory.
const healthFile = "health.json"

// writeHealthFile records the outcome of one collection cycle so external
// supervisors can probe the daemon without parsing the snapshot.
func writeHealthFile(cacheDir string, snap metrics.Snapshot) error {
	hs := HealthStatus{
		Status:   "ok",
		LastPoll: snap.Timestamp,
		Domains:  make(map[string]string, len(metrics.Domains)),
	}
	for _, domain := range metrics.Domains {
		if snap.IsDegraded(domain) {
			hs.Domains[string(domain)] = "degraded"
			hs.Status = "degraded"
		} else {
			hs.Domains[string(domain)] = "ok"
		}
	}
	if snap.Failed {
		hs.Status = "failed"
	}

	data, err := json.MarshalIndent(hs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal health status: %w", err)
	}

	path := filepath.Join(cacheDir, healthFile)
	return os.WriteFile(path, data, 0644)
}

// readHealthFile reads the health status from the cache directory.
func readHealthFile(cacheDir string) (*HealthStatus, error) {
	path := filepath.Join(cacheDir, healthFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read health file: %w", err)
	}

	var hs HealthStatus
	if err := json.Unmarshal(data, &hs); err != nil {
		return nil, fmt.Errorf("unmarshal health file: %w", err)
	}

	return &hs, nil
}

// checkHealth reads the health file and reports whether the daemon is healthy.
// The daemon is considered healthy if the health file exists and the last poll
// was within 2x the poll interval. Returns exit code 0 for healthy, 1 for
// unhealthy/missing.
func checkHealth(cacheDir string, pollInterval time.Duration, jsonOutput bool) int {
	hs, err := readHealthFile(cacheDir)
	if err != nil {
		if jsonOutput {
			fmt.Println(`{"status":"missing","error":"no health file found"}`)
		} else {
			fmt.Fprintln(os.Stderr, "daemon not running (no health file)")
		}
		return 1
	}

	staleThreshold := 2 * pollInterval
	age := time.Since(hs.LastPoll)
	isStale := age > staleThreshold

	if jsonOutput {
		output := map[string]interface{}{
			"status":    hs.Status,
			"last_poll": hs.LastPoll.Format(time.RFC3339),
			"age":       age.String(),
			"stale":     isStale,
			"domains":   hs.Domains,
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(data))
	} else {
		if isStale {
			fmt.Fprintf(os.Stderr, "daemon stale (last poll %s ago, threshold %s)\n", age.Round(time.Second), staleThreshold)
		} else {
			fmt.Printf("daemon %s (last poll %s ago)\n", hs.Status, age.Round(time.Second))
			for name, s := range hs.Domains {
				fmt.Printf("  %s: %s\n", name, s)
			}
		}
	}

	if isStale {
		return 1
	}
	return 0
}
