package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"academicRecords/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.WarnLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONCarriesInvocationID(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "info", Format: "json"}, &buf)
	log.Info("opened store", zap.String("path", "x.db"))
	_ = log.Sync()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "opened store" || entry["path"] != "x.db" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if id, _ := entry["invocation_id"].(string); len(id) != 36 {
		t.Fatalf("invocation_id missing or malformed: %v", entry["invocation_id"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "warn", Format: "console"}, &buf)
	log.Info("quiet")
	log.Error("loud")
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info entry should be filtered at warn: %q", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "ERROR") {
		t.Fatalf("error entry missing: %q", out)
	}
}
