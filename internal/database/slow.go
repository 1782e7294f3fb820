package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
)

// slowCommandMonitor warns about MongoDB commands slower than threshold.
func slowCommandMonitor(logger *zerolog.Logger, threshold time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			if evt.Duration < threshold {
				return
			}
			logger.Warn().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Dur("duration", evt.Duration).
				Msg("slow store command")
		},
	}
}

type queryStartKey struct{}

type queryStart struct {
	at  time.Time
	sql string
}

// slowQueryTracer warns about PostgreSQL queries slower than threshold.
type slowQueryTracer struct {
	logger    *zerolog.Logger
	threshold time.Duration
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{at: time.Now(), sql: data.SQL})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	elapsed := time.Since(start.at)
	if elapsed < t.threshold {
		return
	}

	t.logger.Warn().
		Str("sql", start.sql).
		Str("command_tag", data.CommandTag.String()).
		Dur("duration", elapsed).
		Msg("slow store command")
}
