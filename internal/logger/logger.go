// Package logger configures the application's logging,
// monitoring, and observability.
//
// It uses *ZeroLog* for logging and integrates with
// *New Relic* to instrument the codebase, forwarding logs,
// metrics, and traces for debugging.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/deppfellow/crm-api/internal/config"
)

var setupOnce sync.Once

// setupGlobals pins zerolog's process-wide field names and formats to the
// record shape every consumer of our log stream expects.
func setupGlobals() {
	setupOnce.Do(func() {
		zerolog.TimestampFieldName = "timestamp"
		zerolog.LevelFieldName = "level"
		zerolog.MessageFieldName = "message"
		zerolog.ErrorFieldName = "error"
		zerolog.TimeFieldFormat = time.RFC3339Nano
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
		zerolog.LevelFieldMarshalFunc = func(l zerolog.Level) string {
			return strings.ToUpper(l.String())
		}
	})
}

// NewLoggerWithService builds the application logger.
//
// Output goes to stdout. When New Relic log forwarding is on, stdout is
// wrapped so records are also decorated and forwarded by the agent.
func NewLoggerWithService(cfg *config.ObservabilityConfig, loggerService *LoggerService) zerolog.Logger {
	var out io.Writer = os.Stdout

	if loggerService != nil && loggerService.GetApplication() != nil && cfg.NewRelic.AppLogForwardingEnabled {
		out = zerologWriter.New(os.Stdout, loggerService.GetApplication())
	}

	if cfg.Logging.Format == "console" && !cfg.IsProduction() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return New(out, cfg)
}

// New builds a JSON logger writing to w.
//
// Every record carries timestamp, level, logger, message, module,
// function and line. Write failures are swallowed by zerolog's
// ErrorHandler so a broken log sink never fails a request.
func New(w io.Writer, cfg *config.ObservabilityConfig) zerolog.Logger {
	setupGlobals()

	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	name := cfg.Logging.Name
	if name == "" {
		name = cfg.ServiceName
	}

	return zerolog.New(w).
		Level(level).
		Hook(callerHook{}).
		With().
		Timestamp().
		Str("logger", name).
		Logger()
}

// callerHook adds module, function and line of the code that emitted the
// record. Frames that belong to zerolog or to this package are skipped.
type callerHook struct{}

const (
	zerologPackage = "github.com/rs/zerolog"
	selfPackage    = "github.com/deppfellow/crm-api/internal/logger."
)

func (callerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, zerologPackage) &&
			!strings.HasPrefix(frame.Function, selfPackage) {
			module, function := splitCaller(frame.File, frame.Function)
			e.Str("module", module).Str("function", function).Int("line", frame.Line)
			return
		}
		if !more {
			return
		}
	}
}

// splitCaller reduces a frame to the source file's base name without
// extension and the bare function or method name.
//
//	/src/internal/handler/person.go, .../handler.(*PersonHandler).CreatePerson
//	-> "person", "CreatePerson"
func splitCaller(file, function string) (string, string) {
	module := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	if i := strings.LastIndex(function, "/"); i >= 0 {
		function = function[i+1:]
	}

	// Closures append ".func1", ".2" and so on; report the enclosing function.
	segments := strings.Split(function, ".")
	for i := len(segments) - 1; i > 0; i-- {
		if !isClosureSegment(segments[i]) {
			return module, segments[i]
		}
	}
	return module, function
}

func isClosureSegment(s string) bool {
	s = strings.TrimPrefix(s, "func")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// LoggerService owns the optional New Relic application.
// A nil application means APM is disabled.
type LoggerService struct {
	nrApp *newrelic.Application
}

// NewLoggerService starts the New Relic agent when a license key is set.
// Without a key it returns a service whose application is nil.
func NewLoggerService(cfg *config.ObservabilityConfig) (*LoggerService, error) {
	service := &LoggerService{}

	if !cfg.NewRelic.Enabled() {
		return service, nil
	}

	configOptions := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.ServiceName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(cfg.NewRelic.AppLogForwardingEnabled),
		newrelic.ConfigDistributedTracerEnabled(cfg.NewRelic.DistributedTracingEnabled),
		func(c *newrelic.Config) {
			c.Labels = map[string]string{"environment": cfg.Environment}
		},
	}

	if cfg.NewRelic.DebugLogging {
		configOptions = append(configOptions, newrelic.ConfigDebugLogger(os.Stdout))
	}

	app, err := newrelic.NewApplication(configOptions...)
	if err != nil {
		return service, err
	}

	service.nrApp = app
	return service, nil
}

// GetApplication returns the New Relic application, or nil.
func (ls *LoggerService) GetApplication() *newrelic.Application {
	if ls == nil {
		return nil
	}
	return ls.nrApp
}

// Shutdown flushes pending telemetry.
func (ls *LoggerService) Shutdown() {
	if app := ls.GetApplication(); app != nil {
		app.Shutdown(10 * time.Second)
	}
}

// WithTraceContext returns a child logger carrying the transaction's trace and span ids.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	metadata := txn.GetTraceMetadata()
	if metadata.TraceID == "" {
		return logger
	}

	return logger.With().
		Str("trace.id", metadata.TraceID).
		Str("span.id", metadata.SpanID).
		Logger()
}
