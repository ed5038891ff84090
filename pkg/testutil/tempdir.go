// Package testutil provides shared helpers for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

var (
	testRunDirOnce sync.Once
	testRunDir     string
)

// GetTestRunDir returns a directory shared by all temp dirs of one test run,
// creating it on first use. Grouping per-test temp dirs under a single
// "test-runs" directory keeps stray artifacts easy to find and delete.
func GetTestRunDir() string {
	testRunDirOnce.Do(func() {
		base := filepath.Join(os.TempDir(), "buildwright-test-runs")
		run := fmt.Sprintf("run-%d-%d", os.Getpid(), time.Now().UnixNano())
		testRunDir = filepath.Join(base, run)
		if err := os.MkdirAll(testRunDir, 0755); err != nil {
			// Fall back to the system temp dir rather than failing every test.
			testRunDir = os.TempDir()
		}
	})
	return testRunDir
}

// TempDir creates a temporary directory under the test run directory and
// removes it when the test completes. The pattern follows os.MkdirTemp
// conventions (a trailing '*' is replaced by a random string).
func TempDir(t *testing.T, pattern string) string {
	t.Helper()

	dir, err := os.MkdirTemp(GetTestRunDir(), pattern)
	if err != nil {
		t.Fatalf("failed to create temp directory: %v", err)
	}

	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("failed to remove temp directory %s: %v", dir, err)
		}
	})

	return dir
}
