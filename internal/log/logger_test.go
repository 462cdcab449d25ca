package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"firestige.xyz/ospfdump/internal/config"
)

func TestParseLevelValid(t *testing.T) {
	tests := []string{"trace", "debug", "info", "INFO", "warn", "warning", "error", ""}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := parseLevel(input); err != nil {
				t.Errorf("parseLevel(%q) returned error: %v", input, err)
			}
		})
	}
}

func TestParseLevelInvalid(t *testing.T) {
	tests := []string{"invalid", "fatal", "panic"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := parseLevel(input); err == nil {
				t.Errorf("parseLevel(%q) should return error, got nil", input)
			}
		})
	}
}

func TestNewPattern(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LogConfig{Level: "info", Pattern: "[%level] %field %msg\n"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.WithFields(map[string]interface{}{"path": "a.pcap", "frames": 3}).Info("capture done")

	want := "[info] frames=3,path=a.pcap capture done\n"
	if got := buf.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNewLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LogConfig{Level: "warn", Pattern: "%msg\n"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.WithError(errors.New("boom")).Error("failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "failed") {
		t.Errorf("Expected warn and error output, got %q", out)
	}
	if l.IsInfoEnabled() || l.IsDebugEnabled() {
		t.Error("Expected info and debug disabled at warn level")
	}
}

func TestNewDefaultPattern(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LogConfig{}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.WithField("frames", 1).Info("hello")

	out := buf.String()
	if !strings.Contains(out, "[info] frames=1 hello") || !strings.HasSuffix(out, "\n") {
		t.Errorf("Unexpected default-pattern output %q", out)
	}
}

func TestInitWithFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	cfg := config.LogConfig{
		Level:   "debug",
		Pattern: "%msg\n",
		File: config.FileOutputConfig{
			Enabled:    true,
			Path:       logPath,
			MaxSizeMB:  1,
			MaxBackups: 1,
			MaxAgeDays: 1,
		},
	}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { setLogger(nil) })

	GetLogger().Debug("written to file")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("Expected log file to contain message, got %q", data)
	}
	if !GetLogger().IsDebugEnabled() {
		t.Error("Expected debug enabled after Init")
	}
}

func TestInitErrors(t *testing.T) {
	if err := Init(config.LogConfig{Level: "loud"}); err == nil {
		t.Error("Expected error for invalid level")
	}
	if err := Init(config.LogConfig{Level: "info", File: config.FileOutputConfig{Enabled: true}}); err == nil {
		t.Error("Expected error for file output without path")
	}
}

func TestGetLoggerDefault(t *testing.T) {
	setLogger(nil)
	l := GetLogger()
	if l == nil {
		t.Fatal("Expected default logger, got nil")
	}
	if !l.IsInfoEnabled() || l.IsDebugEnabled() {
		t.Error("Expected default logger at info level")
	}
}

func TestMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	w := NewMultiWriter().Add(&a).Add(&b)
	n, err := w.Write([]byte("x"))
	if err != nil || n != 1 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if a.String() != "x" || b.String() != "x" {
		t.Errorf("Expected both writers to receive data, got %q %q", a.String(), b.String())
	}
}
