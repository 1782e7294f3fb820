package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/crm-api/internal/config"
	"github.com/deppfellow/crm-api/internal/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("log line is not JSON: %q: %v", line, err)
		}
		records = append(records, record)
	}
	return records
}

func TestNew_RecordShape(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, config.DefaultObservabilityConfig())

	log.Info().Msg("hello")

	records := decodeLines(t, &buf)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]

	if r["message"] != "hello" {
		t.Errorf("unexpected message %v", r["message"])
	}
	if r["level"] != "INFO" {
		t.Errorf("expected upper-case level, got %v", r["level"])
	}
	if r["logger"] != config.ServiceName {
		t.Errorf("expected logger name %q, got %v", config.ServiceName, r["logger"])
	}
	if r["module"] != "logger_test" {
		t.Errorf("expected module logger_test, got %v", r["module"])
	}
	if r["function"] != "TestNew_RecordShape" {
		t.Errorf("expected function TestNew_RecordShape, got %v", r["function"])
	}
	if _, ok := r["line"].(float64); !ok {
		t.Errorf("expected numeric line, got %v", r["line"])
	}

	ts, ok := r["timestamp"].(string)
	if !ok || !strings.HasSuffix(ts, "Z") {
		t.Fatalf("expected UTC timestamp, got %v", r["timestamp"])
	}
	if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
		t.Errorf("timestamp is not RFC 3339: %v", err)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"
	log := logger.New(&buf, cfg)

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	records := decodeLines(t, &buf)
	if len(records) != 1 || records[0]["message"] != "kept" {
		t.Fatalf("expected only the warn record, got %v", records)
	}
}

func TestRequestEvent_Embed(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, config.DefaultObservabilityConfig())

	log.Info().EmbedObject(logger.RequestEvent{
		CorrelationID: "abc",
		Method:        "GET",
		Path:          "/person/42",
		RemoteAddr:    "10.0.0.1",
	}).Msg("Incoming request: GET /person/42")

	log.Info().EmbedObject(logger.RequestEvent{
		CorrelationID: "abc",
		Method:        "GET",
		Path:          "/person/42",
		StatusCode:    404,
	}).Msg("Request completed: GET /person/42")

	records := decodeLines(t, &buf)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	start, done := records[0], records[1]
	if start["correlation_id"] != "abc" || start["request_method"] != "GET" || start["request_path"] != "/person/42" {
		t.Errorf("start record missing request fields: %v", start)
	}
	if start["remote_addr"] != "10.0.0.1" {
		t.Errorf("start record missing remote_addr: %v", start)
	}
	if _, ok := start["status_code"]; ok {
		t.Errorf("start record must not carry status_code: %v", start)
	}
	if done["status_code"] != float64(404) {
		t.Errorf("completion record missing status_code: %v", done)
	}
	if _, ok := done["remote_addr"]; ok {
		t.Errorf("completion record must not carry remote_addr: %v", done)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestNew_WriteFailureDoesNotPanic(t *testing.T) {
	log := logger.New(failingWriter{}, config.DefaultObservabilityConfig())

	// zerolog reports write errors to its ErrorHandler instead of returning them.
	log.Error().Msg("nobody hears this")
}

func TestNewLoggerService_DisabledWithoutLicense(t *testing.T) {
	svc, err := logger.NewLoggerService(config.DefaultObservabilityConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.GetApplication() != nil {
		t.Error("expected no New Relic application without a license key")
	}
	svc.Shutdown()
}
