// ABOUTME: Integration tests for nightly CLI.
// ABOUTME: Builds the binary and runs a full habit logging workflow.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	nightlyBinary := filepath.Join(projectRoot, "nightly")

	buildCmd := exec.Command("go", "build", "-o", nightlyBinary, "./cmd/nightly")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(nightlyBinary)

	// Use temp data and config directories
	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"NIGHTLY_DATA_DIR="+filepath.Join(tmpDir, "data"),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"NIGHTLY_OURA_TOKEN=",
		"OURA_TOKEN=",
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(nightlyBinary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Add habits
	output, err := run("habit", "add", "Alcohol", "--type", "toggle_quantity_time")
	if err != nil {
		t.Fatalf("Failed to add habit: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Added night habit Alcohol") {
		t.Errorf("Expected 'Added night habit Alcohol' in output, got: %s", output)
	}

	output, err = run("habit", "add", "Energy", "--category", "morning", "--type", "rating_3level")
	if err != nil {
		t.Fatalf("Failed to add habit: %v\n%s", err, output)
	}

	// Log values
	output, err = run("log", "set", "Alcohol", "yes", "2", "21:00", "--date", "2024-05-01")
	if err != nil {
		t.Fatalf("Failed to log: %v\n%s", err, output)
	}
	if !strings.Contains(output, "yes x2 @ 21:00") {
		t.Errorf("Expected formatted value in output, got: %s", output)
	}

	output, err = run("log", "set", "Energy", "low", "--date", "2024-05-01")
	if err != nil {
		t.Fatalf("Failed to log: %v\n%s", err, output)
	}

	// Show the day
	output, err = run("log", "show", "2024-05-01")
	if err != nil {
		t.Fatalf("Failed to show day: %v\n%s", err, output)
	}
	if !strings.Contains(output, "yes x2 @ 21:00") || !strings.Contains(output, "Low") {
		t.Errorf("Expected both answers in day view, got: %s", output)
	}

	// Invalid rating is rejected
	if output, err = run("log", "set", "Energy", "extreme"); err == nil {
		t.Errorf("Expected invalid level to fail, got: %s", output)
	}

	// Sync without a token fails with a hint
	output, err = run("sync")
	if err == nil {
		t.Errorf("Expected sync without token to fail, got: %s", output)
	}
	if !strings.Contains(output, "NIGHTLY_OURA_TOKEN") {
		t.Errorf("Expected token hint in output, got: %s", output)
	}

	// Export
	output, err = run("export", "yaml")
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	if !strings.Contains(output, "2024-05-01") {
		t.Errorf("Expected day in YAML export, got: %s", output)
	}
}
