package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	apperrors "github.com/reciplore/reciplore/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "default config", config: DefaultConfig()},
		{name: "debug config", config: DebugConfig()},
		{name: "nil output", config: Config{Level: LevelInfo, Format: FormatJSON}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.config)
			if logger == nil || logger.slog == nil {
				t.Fatal("expected logger, got nil")
			}
			if logger.Config().Level != tt.config.Level {
				t.Errorf("expected level %v, got %v", tt.config.Level, logger.Config().Level)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"bogus":   LevelWarn,
		"":        LevelWarn,
		"Warning": LevelWarn,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Error("expected JSON format")
	}
	if ParseFormat("text") != FormatText {
		t.Error("expected text format")
	}
	if ParseFormat("whatever") != FormatText {
		t.Error("unknown formats should fall back to text")
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Errorf("expected no output for debug/info at warn level, got: %s", buf.String())
	}

	logger.Warn("warn message")
	if buf.Len() == 0 {
		t.Error("expected output for warn message")
	}
}

func TestTextFormatOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf})

	logger.Info("session restored", "status", "authenticated")

	output := buf.String()
	if !strings.Contains(output, "session restored") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, "status=authenticated") {
		t.Errorf("expected output to contain attribute, got: %s", output)
	}
}

func TestWithErrorCodedError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	err := apperrors.New(apperrors.ErrCodeRequestFailed, apperrors.KindNetworkFailure, "jwt expired").
		WithStatus(http.StatusUnauthorized)
	logger.WithError(err).Info("profile fetch failed")

	var entry map[string]interface{}
	if jerr := json.Unmarshal(buf.Bytes(), &entry); jerr != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", jerr, buf.String())
	}

	if entry["error_code"] != "API-001" {
		t.Errorf("expected error_code API-001, got %v", entry["error_code"])
	}
	if entry["kind"] != "network_failure" {
		t.Errorf("expected kind network_failure, got %v", entry["kind"])
	}
	if entry["status"] != float64(401) {
		t.Errorf("expected status 401, got %v", entry["status"])
	}
}

func TestWithErrorPlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.WithError(fmt.Errorf("boom")).Info("failed")

	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("expected plain error text, got: %s", buf.String())
	}

	if logger.WithError(nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestLogErrorContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.LogErrorContext(context.Background(), "refresh", apperrors.NewNoRefreshTokenError())

	output := buf.String()
	if !strings.Contains(output, `"op":"refresh"`) {
		t.Errorf("expected op attribute, got: %s", output)
	}
	if !strings.Contains(output, "SESSION-002") {
		t.Errorf("expected error code, got: %s", output)
	}

	buf.Reset()
	logger.LogErrorContext(context.Background(), "noop", nil)
	if buf.Len() != 0 {
		t.Errorf("nil error should not log, got: %s", buf.String())
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	if logger.Enabled(context.Background(), LevelWarn) {
		t.Error("nop logger should not be enabled below error")
	}
	logger.Error("discarded")
}
