//go:build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

const testCatalog = `resources:
  - name: books
    template: "odata://catalog/books{?filter,select,orderby,top,skip}"
    table: books
    default_top: 10
    properties:
      title: string
      price: number
`

const testRows = `- title: Go in Action
  price: 35.5
- title: SQL Antipatterns
  price: 9.99
`

// TestServerStartStop tests the server start, a read over HTTP and
// graceful shutdown
func TestServerStartStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	configFile := writeWorkspace(t, tmpDir, "127.0.0.1:18080")
	binaryPath := buildQuerygateBinary(t)

	load := exec.Command(binaryPath, "load", "--config", configFile,
		"--resource", "books", "--file", filepath.Join(tmpDir, "books.yaml"), "--quiet")
	if output, err := load.CombinedOutput(); err != nil {
		t.Fatalf("load failed: %v\nOutput: %s", err, output)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binaryPath, "serve", "--config", configFile)
	cmd.Dir = tmpDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	}()

	if !waitForHealthy("http://127.0.0.1:18080/health", 10*time.Second) {
		t.Fatalf("server failed to start\nStdout: %s\nStderr: %s", stdout.String(), stderr.String())
	}

	// Read rows
	uri := "odata://catalog/books?filter=price%20gt%2010"
	resp, err := http.Get("http://127.0.0.1:18080/read?uri=" + url.QueryEscape(uri))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("read status = %d, body: %s", resp.StatusCode, body)
	}
	var result struct {
		Count int              `json:"count"`
		Rows  []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("invalid read response: %v\n%s", err, body)
	}
	if result.Count != 1 || result.Rows[0]["title"] != "Go in Action" {
		t.Errorf("read result = %+v", result)
	}

	// Injection attempt
	uri = "odata://catalog/books?filter=" + url.PathEscape("title eq 'x'; DROP TABLE books")
	resp, err = http.Get("http://127.0.0.1:18080/read?uri=" + url.QueryEscape(uri))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("injection status = %d, want 400", resp.StatusCode)
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Errorf("failed to send SIGINT: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Logf("shutdown output - Stdout: %s\nStderr: %s", stdout.String(), stderr.String())
			t.Errorf("unexpected shutdown error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("server did not shut down within 5 seconds")
	}
}

// TestCatalogPipeline tests lint, load, match and read against one workspace
func TestCatalogPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	configFile := writeWorkspace(t, tmpDir, "127.0.0.1:18081")
	binaryPath := buildQuerygateBinary(t)

	t.Log("Step 1: Linting catalog...")
	output, err := exec.Command(binaryPath, "lint", "--config", configFile).CombinedOutput()
	if err != nil {
		t.Fatalf("lint failed: %v\nOutput: %s", err, output)
	}
	if !bytes.Contains(output, []byte("1 resources")) {
		t.Errorf("unexpected lint output: %s", output)
	}

	t.Log("Step 2: Loading rows...")
	output, err = exec.Command(binaryPath, "load", "--config", configFile,
		"--resource", "books", "--file", filepath.Join(tmpDir, "books.yaml"), "--quiet").CombinedOutput()
	if err != nil {
		t.Fatalf("load failed: %v\nOutput: %s", err, output)
	}

	t.Log("Step 3: Matching URI...")
	output, err = exec.Command(binaryPath, "match", "--config", configFile,
		"odata://catalog/books?orderby=price%20desc", "--output", "json").Output()
	if err != nil {
		t.Fatalf("match failed: %v\nOutput: %s", err, output)
	}
	var plan map[string]interface{}
	if err := json.Unmarshal(output, &plan); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	if plan["resource"] != "books" {
		t.Errorf("match resource = %v", plan["resource"])
	}

	t.Log("Step 4: Reading as CSV...")
	output, err = exec.Command(binaryPath, "read", "--config", configFile,
		"odata://catalog/books?select=title&orderby=price%20asc", "--output", "csv").Output()
	if err != nil {
		t.Fatalf("read failed: %v\nOutput: %s", err, output)
	}
	if want := "title\nSQL Antipatterns\nGo in Action\n"; string(output) != want {
		t.Errorf("read output = %q, want %q", output, want)
	}
}

// TestExitCodes tests that rejected and unmatched URIs are distinguishable
func TestExitCodes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	configFile := writeWorkspace(t, tmpDir, "127.0.0.1:18082")
	binaryPath := buildQuerygateBinary(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no match", []string{"match", "odata://catalog/authors"}, 4},
		{"rejected", []string{"match", "odata://catalog/books?select=isbn"}, 3},
		{"bad config", []string{"match", "--config", filepath.Join(tmpDir, "absent.yaml"), "odata://catalog/books"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if args[1] != "--config" {
				args = append([]string{args[0], "--config", configFile}, args[1:]...)
			}
			err := exec.Command(binaryPath, args...).Run()
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("expected exit error, got %v", err)
			}
			if exitErr.ExitCode() != tt.want {
				t.Errorf("exit code = %d, want %d", exitErr.ExitCode(), tt.want)
			}
		})
	}
}

// TestCommandVersionOutput tests the version command
func TestCommandVersionOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildQuerygateBinary(t)

	output, err := exec.Command(binaryPath, "version").CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}
	if !bytes.Contains(output, []byte("querygate")) {
		t.Errorf("version output should contain 'querygate', got: %s", output)
	}
}

// TestDryRunValidation tests config validation with --dry-run
func TestDryRunValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	binaryPath := buildQuerygateBinary(t)

	t.Run("valid config", func(t *testing.T) {
		configFile := writeWorkspace(t, tmpDir, "127.0.0.1:18083")
		cmd := exec.Command(binaryPath, "serve", "--config", configFile, "--dry-run")
		cmd.Dir = tmpDir

		output, err := cmd.CombinedOutput()
		if err != nil {
			t.Errorf("dry-run should succeed with valid config: %v\nOutput: %s", err, output)
		}
	})

	t.Run("invalid catalog", func(t *testing.T) {
		dir := t.TempDir()
		configFile := writeWorkspace(t, dir, "127.0.0.1:18084")
		createTestFile(t, filepath.Join(dir, "catalog.yaml"), "resources: []\n")

		output, err := exec.Command(binaryPath, "serve", "--config", configFile, "--dry-run").CombinedOutput()
		if err == nil {
			t.Errorf("dry-run should fail with an empty catalog\nOutput: %s", output)
		}
	})
}

// Helper functions

// buildQuerygateBinary builds the querygate binary for testing
func buildQuerygateBinary(t *testing.T) string {
	t.Helper()

	binaryPath, err := filepath.Abs("../bin/querygate")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(binaryPath); err == nil {
		return binaryPath
	}

	t.Log("Building querygate binary...")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../cmd/querygate")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build querygate: %v\nOutput: %s", err, output)
	}

	return binaryPath
}

// writeWorkspace writes a config, catalog and rows file into dir and
// returns the config path
func writeWorkspace(t *testing.T, dir, listen string) string {
	t.Helper()

	createTestFile(t, filepath.Join(dir, "catalog.yaml"), testCatalog)
	createTestFile(t, filepath.Join(dir, "books.yaml"), testRows)

	configFile := filepath.Join(dir, "config.yaml")
	createTestFile(t, configFile, fmt.Sprintf(`
server:
  listen_address: %q
catalog:
  path: %q
store:
  dsn: %q
telemetry:
  logging:
    level: "warn"
    format: "json"
  metrics:
    enabled: true
  tracing:
    enabled: false
`, listen, filepath.Join(dir, "catalog.yaml"), filepath.Join(dir, "books.db")))
	return configFile
}

// waitForHealthy waits for a health endpoint to return 200
func waitForHealthy(url string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return true
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// createTestFile writes content to path
func createTestFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
}
