package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_WritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	log, err := NewLogger(dir, false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Info("test_message_from_logging_test")
	log.Debug("hidden_at_info")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"msg":"test_message_from_logging_test"`) || !strings.Contains(s, `"ts":`) {
		t.Fatalf("unexpected log contents %q", s)
	}
	if strings.Contains(s, "hidden_at_info") {
		t.Fatalf("debug entry written at info level")
	}
}

func TestNewLogger_Debug(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLogger(dir, true)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Debug("visible_at_debug")
	_ = log.Sync()

	data, _ := os.ReadFile(filepath.Join(dir, FileName))
	if !strings.Contains(string(data), "visible_at_debug") {
		t.Fatalf("debug entry missing from file")
	}
}
