package common

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// captureLogOutput captures a single log entry emitted by logFn and returns it as a map.
func captureLogOutput(t *testing.T, logFn func(*zap.Logger)) map[string]any {
	t.Helper()

	resetLoggerForTest()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer r.Close()

	origStdout := os.Stdout
	origStderr := os.Stderr
	os.Stdout = w
	os.Stderr = w
	defer func() {
		os.Stdout = origStdout
		os.Stderr = origStderr
	}()

	logger := Logger()
	logFn(logger)
	_ = logger.Sync()

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read log output: %v", err)
	}

	line := strings.TrimSpace(string(data))
	if line == "" {
		t.Fatalf("expected log output, got empty string")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("failed to unmarshal log JSON: %v", err)
	}

	return payload
}

// resetLoggerForTest clears the singleton state so tests can capture fresh log output.
func resetLoggerForTest() {
	loggerOnce = sync.Once{}
	baseLogger = nil
	sugarLogger = nil
	loggerErr = nil
}

func TestLoggerStructuredOutput(t *testing.T) {
	payload := captureLogOutput(t, func(l *zap.Logger) {
		l.Info("GET /")
	})

	if got := payload["severity"]; got != "INFO" {
		t.Fatalf("expected severity INFO, got %v", got)
	}

	if _, exists := payload["level"]; exists {
		t.Fatalf("did not expect level field, but found one: %v", exists)
	}

	msg, ok := payload["message"].(string)
	if !ok || msg != "GET /" {
		t.Fatalf("expected message 'GET /', got %v", payload["message"])
	}

	ts, ok := payload["timestamp"].(string)
	if !ok {
		t.Fatalf("expected timestamp field to be a string, got %T", payload["timestamp"])
	}
	if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
		t.Fatalf("timestamp is not RFC3339Nano: %v", err)
	}
}

func TestSugarLoggerStructuredOutput(t *testing.T) {
	payload := captureLogOutput(t, func(*zap.Logger) {
		Sugar().Warnw("slow response", "latency_ms", 120)
	})

	if got := payload["severity"]; got != "WARNING" {
		t.Fatalf("expected severity WARNING, got %v", got)
	}

	if msg, ok := payload["message"].(string); !ok || msg != "slow response" {
		t.Fatalf("expected message 'slow response', got %v", payload["message"])
	}

	if latency, ok := payload["latency_ms"].(float64); !ok || latency != 120 {
		t.Fatalf("expected latency_ms 120, got %v", payload["latency_ms"])
	}
}

func TestEncodeSeverityMapping(t *testing.T) {
	tests := []struct {
		level    zapcore.Level
		expected string
	}{
		{zapcore.DebugLevel, "DEBUG"},
		{zapcore.InfoLevel, "INFO"},
		{zapcore.WarnLevel, "WARNING"},
		{zapcore.ErrorLevel, "ERROR"},
		{zapcore.DPanicLevel, "CRITICAL"},
		{zapcore.PanicLevel, "ALERT"},
		{zapcore.FatalLevel, "EMERGENCY"},
	}

	for _, tc := range tests {
		enc := &stringArrayEncoder{}
		encodeSeverity(tc.level, enc)
		if len(enc.values) != 1 || enc.values[0] != tc.expected {
			t.Fatalf("level %v: expected %q, got %v", tc.level, tc.expected, enc.values)
		}
	}
}

func TestEncodeTimeMicrosIsUTC(t *testing.T) {
	enc := &stringArrayEncoder{}
	cet := time.FixedZone("CET", 2*60*60)
	encodeTimeMicros(time.Date(2024, 5, 1, 12, 0, 0, 123456000, cet), enc)

	if len(enc.values) != 1 {
		t.Fatalf("expected one encoded value, got %d", len(enc.values))
	}
	if enc.values[0] != "2024-05-01T10:00:00.123456Z" {
		t.Fatalf("unexpected encoded timestamp: %s", enc.values[0])
	}
}

func TestSyncAndErrDoNotFail(t *testing.T) {
	resetLoggerForTest()
	if err := Err(); err != nil {
		t.Fatalf("unexpected logger init error: %v", err)
	}
	// Sync on stdout may return EINVAL on some platforms; only initialization
	// errors are fatal here.
	_ = Sync()
}

// stringArrayEncoder is a minimal zapcore.PrimitiveArrayEncoder for testing encoders.
type stringArrayEncoder struct {
	values []string
}

func (s *stringArrayEncoder) AppendBool(bool)              {}
func (s *stringArrayEncoder) AppendByteString(v []byte)    { s.values = append(s.values, string(v)) }
func (s *stringArrayEncoder) AppendComplex128(complex128)  {}
func (s *stringArrayEncoder) AppendComplex64(complex64)    {}
func (s *stringArrayEncoder) AppendFloat64(float64)        {}
func (s *stringArrayEncoder) AppendFloat32(float32)        {}
func (s *stringArrayEncoder) AppendInt(int)                {}
func (s *stringArrayEncoder) AppendInt64(int64)            {}
func (s *stringArrayEncoder) AppendInt32(int32)            {}
func (s *stringArrayEncoder) AppendInt16(int16)            {}
func (s *stringArrayEncoder) AppendInt8(int8)              {}
func (s *stringArrayEncoder) AppendString(v string)        { s.values = append(s.values, v) }
func (s *stringArrayEncoder) AppendUint(uint)              {}
func (s *stringArrayEncoder) AppendUint64(uint64)          {}
func (s *stringArrayEncoder) AppendUint32(uint32)          {}
func (s *stringArrayEncoder) AppendUint16(uint16)          {}
func (s *stringArrayEncoder) AppendUint8(uint8)            {}
func (s *stringArrayEncoder) AppendUintptr(uintptr)        {}
