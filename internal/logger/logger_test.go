package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/colkit/pkg/col"
)

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{`"level":"ERROR"`},
			excluded: []string{`"level":"WARN"`, `"level":"INFO"`, `"level":"DEBUG"`},
		},
		{
			level:    "warn",
			expected: []string{`"level":"ERROR"`, `"level":"WARN"`},
			excluded: []string{`"level":"INFO"`, `"level":"DEBUG"`},
		},
		{
			level:    "info",
			expected: []string{`"level":"ERROR"`, `"level":"WARN"`, `"level":"INFO"`},
			excluded: []string{`"level":"DEBUG"`},
		},
		{
			level:    "debug",
			expected: []string{`"level":"ERROR"`, `"level":"WARN"`, `"level":"INFO"`, `"level":"DEBUG"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")

			cfg := FileConfig{
				Path:       logFile,
				MaxSizeMB:  10,
				MaxBackups: 1,
				MaxAgeDays: 1,
			}

			if err := InitWithFileConfig(tt.level, cfg, nil); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithFileConfig("info", FileConfig{}, &buf); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Named("scan").Info("hello", zap.Int("models", 3))
	Debug("hidden")
	Sync()

	out := buf.String()
	if !strings.Contains(out, "scan hello") || !strings.Contains(out, `"models": 3`) {
		t.Errorf("unexpected console output %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
}

func TestInvalidLevel(t *testing.T) {
	if err := InitWithFileConfig("loud", FileConfig{}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := InitWithFileConfig("", FileConfig{}, nil); err != nil {
		t.Errorf("empty level should default to info: %v", err)
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 14 {
		t.Errorf("expected MaxAgeDays 14, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}

func TestWriter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	w := Writer(zap.New(core), zapcore.InfoLevel)

	fmt.Fprint(w, "GET /json/files 200\nGET /json/file/a.col")
	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry before close, got %d", logs.Len())
	}
	w.Close()

	entries := logs.All()
	if len(entries) != 2 || entries[1].Message != "GET /json/file/a.col" {
		t.Errorf("unexpected entries %v", entries)
	}
}

func TestDecodeObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewDecodeObserver(zap.New(core), "vehicles.col")

	obs.OnSignature(0, col.Version2)
	obs.OnModel(0, &col.Model{Name: "car", Version: col.Version2}, 120)
	obs.OnDiagnostic(col.Diagnostic{Offset: 120, Severity: col.SeverityError, Kind: col.KindTruncatedSection, Message: "short"})
	obs.OnDiagnostic(col.Diagnostic{Offset: -1, Severity: col.SeverityWarning, Kind: col.KindMissingName, Message: "no name"})

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	levels := []zapcore.Level{zapcore.DebugLevel, zapcore.DebugLevel, zapcore.ErrorLevel, zapcore.WarnLevel}
	for i, e := range entries {
		if e.Level != levels[i] {
			t.Errorf("entry %d: expected %s, got %s", i, levels[i], e.Level)
		}
		if e.ContextMap()["file"] != "vehicles.col" {
			t.Errorf("entry %d: missing file field", i)
		}
	}

	if got := entries[2].ContextMap()["kind"]; got != "TruncatedSection" {
		t.Errorf("expected kind TruncatedSection, got %v", got)
	}
	if _, ok := entries[3].ContextMap()["offset"]; ok {
		t.Error("offset should be omitted when not tied to a model")
	}
}
