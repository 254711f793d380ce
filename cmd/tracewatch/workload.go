package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/abelbrown/tracewatch/internal/bridge"
	"github.com/abelbrown/tracewatch/internal/config"
	"github.com/abelbrown/tracewatch/internal/tracing"
)

var (
	routes = []string{"/", "/login", "/api/items", "/api/items/{id}", "/healthz"}
	tables = []string{"users", "items", "sessions"}

	errCacheDown = errors.New("dial tcp 10.0.0.7:6379: connection refused")
)

const slowQuery = 40 * time.Millisecond

// workload emulates a small web service so the viewer has something to show:
// every request opens a span, runs a nested query span, and logs through
// three components with their own targets.
type workload struct {
	tracer *bridge.Tracer
	http   *slog.Logger
	db     *slog.Logger
	cache  *slog.Logger
}

func newWorkload(c *tracing.Collector) *workload {
	h := bridge.NewHandler(c)
	return &workload{
		tracer: bridge.NewTracer(c),
		http:   slog.New(h.WithTarget("demo::http")),
		db:     slog.New(h.WithTarget("demo::db::pool")),
		cache:  slog.New(h.WithTarget("demo::cache")),
	}
}

// startWorkload launches cfg.Producers goroutines on g, each paced to
// cfg.RatePerSec requests per second. It does nothing when either is zero.
func startWorkload(ctx context.Context, g *errgroup.Group, c *tracing.Collector, cfg config.DemoConfig) {
	if cfg.Producers == 0 || cfg.RatePerSec == 0 {
		return
	}
	w := newWorkload(c)
	for p := 0; p < cfg.Producers; p++ {
		limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
		g.Go(func() error {
			return w.run(ctx, p, limiter)
		})
	}
}

// run issues requests until ctx is cancelled.
func (w *workload) run(ctx context.Context, producer int, limiter *rate.Limiter) error {
	for seq := 0; ; seq++ {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		w.request(ctx, producer, seq)
	}
}

func (w *workload) request(ctx context.Context, producer, seq int) {
	ctx, req := w.tracer.Start(ctx, "request",
		slog.Int("producer", producer),
		slog.Int("seq", seq),
		slog.String("route", routes[seq%len(routes)]),
	)
	defer req.End()

	w.http.DebugContext(ctx, "request received")

	qctx, query := w.tracer.Start(ctx, "query", slog.String("table", tables[seq%len(tables)]))
	w.db.Log(qctx, bridge.LevelTrace, "connection acquired", "conn", seq%8)
	took := time.Duration(seq%50) * time.Millisecond
	query.Record(slog.Duration("took", took))
	if took > slowQuery {
		w.db.WarnContext(qctx, "slow query")
	}
	query.End()

	if seq%97 == 96 {
		w.cache.ErrorContext(ctx, "cache lookup failed", "err", errCacheDown)
	}

	status := 200
	if seq%13 == 12 {
		status = 404
	}
	req.Record(slog.Int("status", status))
	w.http.InfoContext(ctx, "request completed")
}
