package obslog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuildJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Build(Options{Level: "debug", Console: true, Format: "json", Stdout: &buf})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	logger.Info("ai_move_selected", zap.String("move", "g8f6"), zap.Int("depth", 4))
	_ = logger.Sync()

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("output is not one JSON line: %q", buf.String())
	}
	if line["msg"] != "ai_move_selected" || line["move"] != "g8f6" || line["level"] != "info" {
		t.Fatalf("line = %v", line)
	}
}

func TestBuildFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Build(Options{Level: "warn", Console: true, Format: "console", Stdout: &buf})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	_ = logger.Sync()
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestBuildWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hallchess.log")
	logger, err := Build(Options{ToFile: true, File: path, Format: "legacy"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	logger.Info("game_over", zap.String("reason", "checkmate"))
	_ = logger.Sync()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "game_over") || !strings.Contains(string(raw), " | ") {
		t.Fatalf("log file = %q", raw)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"bogus": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestSetNilRestoresNop(t *testing.T) {
	t.Cleanup(func() { Set(nil) })
	Set(zap.NewExample())
	Set(nil)
	if L() == nil {
		t.Fatalf("L() returned nil")
	}
	if L().Core().Enabled(zapcore.FatalLevel) {
		t.Fatalf("expected no-op logger")
	}
}
