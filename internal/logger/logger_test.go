package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestLogger creates a temp log file and initializes the logger with it.
// Returns the path to the temp file and a cleanup function.
func setupTestLogger(t *testing.T) (string, func()) {
	t.Helper()
	Reset()

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}

	return logPath, func() {
		Reset()
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestInit_WritesBanner(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	if got := Path(); got != logPath {
		t.Errorf("Path() = %q, want %q", got, logPath)
	}
	if !strings.Contains(readLog(t, logPath), "Logger initialized") {
		t.Error("log file should contain the init banner")
	}
}

func TestInit_SecondCallIsNoop(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	other := filepath.Join(t.TempDir(), "other.log")
	if err := Init(other); err != nil {
		t.Fatalf("second Init returned error: %v", err)
	}
	if Path() != logPath {
		t.Errorf("second Init should not switch path, got %q", Path())
	}
}

func TestInit_BadPath(t *testing.T) {
	Reset()
	defer Reset()

	err := Init(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	if err == nil {
		t.Fatal("expected error for unopenable path")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		log       func(string, ...interface{})
		wantFound bool
	}{
		{"debug hidden at info", false, Debug, false},
		{"debug shown at debug", true, Debug, true},
		{"info shown at info", false, Info, true},
		{"warn shown at info", false, Warn, true},
		{"error shown at info", false, Error, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath, cleanup := setupTestLogger(t)
			defer cleanup()

			SetDebug(tt.debug)
			tt.log("marker-%s", "42")

			found := strings.Contains(readLog(t, logPath), "marker-42")
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	WithComponent("selection").Info("state replaced", "valid", true)

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=selection") {
		t.Errorf("expected component attribute, got:\n%s", content)
	}
	if !strings.Contains(content, "valid=true") {
		t.Errorf("expected structured attribute, got:\n%s", content)
	}
}

func TestLog_Concurrent(t *testing.T) {
	_, cleanup := setupTestLogger(t)
	defer cleanup()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(n int) {
			for j := 0; j < 100; j++ {
				Debug("concurrent test %d-%d", n, j)
			}
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestReset(t *testing.T) {
	Reset()
	tmpDir := t.TempDir()
	logPath1 := filepath.Join(tmpDir, "log1.log")
	if err := Init(logPath1); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	Info("message to log1")

	Reset()

	logPath2 := filepath.Join(tmpDir, "log2.log")
	if err := Init(logPath2); err != nil {
		t.Fatalf("Failed to reinit logger: %v", err)
	}
	Info("message to log2")

	content1 := readLog(t, logPath1)
	if !strings.Contains(content1, "message to log1") || strings.Contains(content1, "message to log2") {
		t.Errorf("log1 has wrong content:\n%s", content1)
	}
	content2 := readLog(t, logPath2)
	if !strings.Contains(content2, "message to log2") || strings.Contains(content2, "message to log1") {
		t.Errorf("log2 has wrong content:\n%s", content2)
	}

	Reset()
}

func TestClose_Idempotent(t *testing.T) {
	_, cleanup := setupTestLogger(t)
	defer cleanup()

	Close()
	Close()
	// Logging after close must not panic
	Info("after close")
}

func TestClearLogsIn(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"followup-debug.log", "followup-1.log", "other-debug.log", "followup-notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := LogFilesIn(dir)
	if err != nil {
		t.Fatalf("LogFilesIn: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("LogFilesIn found %v, want the two followup logs", files)
	}

	n, err := ClearLogsIn(dir)
	if err != nil {
		t.Fatalf("ClearLogsIn: %v", err)
	}
	if n != 2 {
		t.Errorf("removed %d files, want 2", n)
	}
	for _, keep := range []string{"other-debug.log", "followup-notes.txt"} {
		if _, err := os.Stat(filepath.Join(dir, keep)); err != nil {
			t.Errorf("%s should be kept: %v", keep, err)
		}
	}
}
