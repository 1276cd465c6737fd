package database

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	times []time.Time
}

func (c *fakeClock) now() time.Time {
	t := c.times[0]
	c.times = c.times[1:]
	return t
}

func runQuery(tracer *slowQueryTracer) {
	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1")})
}

func TestSlowQueryTracer(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		logged  bool
	}{
		{"fast", 10 * time.Millisecond, false},
		{"at threshold", 100 * time.Millisecond, true},
		{"slow", time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := zerolog.New(&buf)

			tracer := newSlowQueryTracer(&log, 100*time.Millisecond)
			clock := &fakeClock{times: []time.Time{base, base.Add(tt.elapsed)}}
			tracer.now = clock.now

			runQuery(tracer)

			if tt.logged {
				assert.Contains(t, buf.String(), `"message":"slow query"`)
				assert.Contains(t, buf.String(), `"command_tag":"SELECT 1"`)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

type countingTracer struct {
	starts, ends int
}

func (c *countingTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	c.starts++
	return ctx
}

func (c *countingTracer) TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData) {
	c.ends++
}

func TestMultiTracerFansOut(t *testing.T) {
	a, b := &countingTracer{}, &countingTracer{}
	mt := &multiTracer{tracers: []pgx.QueryTracer{a, b}}

	ctx := mt.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{})
	mt.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	assert.Equal(t, 1, a.starts)
	assert.Equal(t, 1, b.ends)
}
