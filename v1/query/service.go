package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/vexpr/v1/logger"
	"github.com/Aleph-Alpha/vexpr/v1/metrics"
	"github.com/Aleph-Alpha/vexpr/v1/tracer"
	"github.com/Aleph-Alpha/vexpr/v1/vectordb"
	"github.com/Aleph-Alpha/vexpr/v1/wrapper"
)

// Service runs filter queries through a vectordb.Executor with logging,
// metrics and tracing around every call.
type Service struct {
	cfg      Config
	executor vectordb.Executor
	logger   logger.Logger
	metrics  metrics.MetricsCollector
	tracer   *tracer.Tracer
}

// ServiceParams groups the dependencies of NewService. Metrics and Tracer
// are optional.
type ServiceParams struct {
	fx.In

	Config   Config
	Executor vectordb.Executor
	Logger   logger.Logger
	Metrics  metrics.MetricsCollector `optional:"true"`
	Tracer   *tracer.Tracer           `optional:"true"`
}

// NewService creates a query service.
func NewService(p ServiceParams) *Service {
	cfg := p.Config
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Service{
		cfg:      cfg,
		executor: p.Executor,
		logger:   p.Logger,
		metrics:  p.Metrics,
		tracer:   p.Tracer,
	}
}

// Query validates req and executes it. Each call gets a request ID that is
// attached to its log entries and span.
func (s *Service) Query(ctx context.Context, req vectordb.QueryRequest) ([]vectordb.Row, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query request: %w", err)
	}

	requestID := uuid.NewString()
	fields := map[string]interface{}{
		"request_id": requestID,
		"collection": req.Collection,
		"expr":       req.Expr,
		"limit":      req.Limit,
		"offset":     req.Offset,
	}

	ctx, span := s.startSpan(ctx, "vexpr.query")
	defer span.End()
	s.setAttributes(span, map[string]interface{}{
		"vexpr.request_id":  requestID,
		"vexpr.collection":  req.Collection,
		"vexpr.expr":        req.Expr,
		"vexpr.consistency": req.ConsistencyLevel.String(),
		"vexpr.partitions":  req.PartitionNames,
	})

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if s.metrics != nil {
		s.metrics.ObserveFilterLength(req.Collection, len(req.Expr))
	}

	start := time.Now()
	rows, err := s.executor.Query(ctx, req)
	if s.metrics != nil {
		s.metrics.RecordQueryDuration(start, req.Collection)
	}

	if err != nil {
		s.count(req.Collection, metrics.StatusError)
		if s.tracer != nil {
			s.tracer.RecordErrorOnSpan(span, err)
		}
		s.logger.ErrorWithContext(ctx, "query failed", err, fields)
		return nil, fmt.Errorf("query %s: %w", req.Collection, err)
	}

	s.count(req.Collection, metrics.StatusSuccess)
	fields["rows"] = len(rows)
	s.logger.DebugWithContext(ctx, "query executed", nil, fields)
	return rows, nil
}

// QueryAll runs reqs concurrently, at most Config.Concurrency at a time.
// Results are returned in request order. The first failure cancels the
// remaining requests and is returned.
func (s *Service) QueryAll(ctx context.Context, reqs ...vectordb.QueryRequest) ([][]vectordb.Row, error) {
	results := make([][]vectordb.Row, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			rows, err := s.Query(ctx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Run renders w into a request and executes it.
//
// Example:
//
//	rows, err := query.Run(ctx, svc, wrapper.NewQuery[Document]().
//	    Eq(true, "status", "published").
//	    Limit(50))
func Run[T any, R any](ctx context.Context, s *Service, w *wrapper.Wrapper[T, R]) ([]vectordb.Row, error) {
	req, err := w.Request()
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, req)
}

func (s *Service) count(collection, status string) {
	if s.metrics != nil {
		s.metrics.IncrementQueries(collection, status)
	}
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, noop.Span{}
	}
	return s.tracer.StartSpan(ctx, name)
}

func (s *Service) setAttributes(span trace.Span, attrs map[string]interface{}) {
	if s.tracer != nil {
		s.tracer.SetAttributes(span, attrs)
	}
}
