package logger

import (
	"time"

	"github.com/rs/zerolog"
)

// RequestEvent is the per-request context of an access log record.
// Zero-valued optional fields are omitted from the record.
type RequestEvent struct {
	CorrelationID string
	Method        string
	Path          string
	RemoteAddr    string
	StatusCode    int
	Latency       time.Duration
}

// MarshalZerologObject lets the event be embedded with (*zerolog.Event).EmbedObject.
func (r RequestEvent) MarshalZerologObject(e *zerolog.Event) {
	e.Str("correlation_id", r.CorrelationID).
		Str("request_method", r.Method).
		Str("request_path", r.Path)

	if r.RemoteAddr != "" {
		e.Str("remote_addr", r.RemoteAddr)
	}
	if r.StatusCode != 0 {
		e.Int("status_code", r.StatusCode)
	}
	if r.Latency > 0 {
		e.Dur("latency", r.Latency)
	}
}
