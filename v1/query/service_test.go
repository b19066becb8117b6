package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/vexpr/v1/logger"
	"github.com/Aleph-Alpha/vexpr/v1/metrics"
	"github.com/Aleph-Alpha/vexpr/v1/tracer"
	"github.com/Aleph-Alpha/vexpr/v1/vectordb"
	"github.com/Aleph-Alpha/vexpr/v1/wrapper"
)

type Document struct {
	ID     int64 `milvus:"primary"`
	Status string
	Age    int64
}

type fixture struct {
	svc      *Service
	executor *vectordb.MockExecutor
	logger   *logger.MockLogger
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T, cfg Config) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	executor := vectordb.NewMockExecutor(ctrl)
	mockLogger := logger.NewMockLogger(ctrl)
	m := metrics.NewMetrics(metrics.Config{ServiceName: "test"})
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "test"}, mockLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	svc := NewService(ServiceParams{
		Config:   cfg,
		Executor: executor,
		Logger:   mockLogger,
		Metrics:  m,
		Tracer:   tr,
	})
	return fixture{svc: svc, executor: executor, logger: mockLogger, metrics: m}
}

func TestService_Query(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	req := vectordb.QueryRequest{Collection: "docs", Expr: "age > 18", Limit: 10}
	want := []vectordb.Row{{ID: "1", Fields: map[string]any{"age": int64(30)}}}

	f.executor.EXPECT().Query(gomock.Any(), req).DoAndReturn(
		func(ctx context.Context, _ vectordb.QueryRequest) ([]vectordb.Row, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "query context has a deadline")
			return want, nil
		})
	f.logger.EXPECT().DebugWithContext(gomock.Any(), "query executed", nil, gomock.Any()).Do(
		func(_ context.Context, _ string, _ error, fields ...map[string]interface{}) {
			require.Len(t, fields, 1)
			assert.Equal(t, "docs", fields[0]["collection"])
			assert.Equal(t, 1, fields[0]["rows"])
			assert.NotEmpty(t, fields[0]["request_id"])
		})

	rows, err := f.svc.Query(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, want, rows)

	count, err := testutil.GatherAndCount(f.metrics.Registry, "vexpr_queries_total", "vexpr_query_duration_seconds", "vexpr_filter_length_bytes")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestService_QueryError(t *testing.T) {
	f := newFixture(t, Config{})
	boom := errors.New("backend down")
	req := vectordb.QueryRequest{Collection: "docs"}

	f.executor.EXPECT().Query(gomock.Any(), req).Return(nil, boom)
	f.logger.EXPECT().ErrorWithContext(gomock.Any(), "query failed", boom, gomock.Any())

	_, err := f.svc.Query(context.Background(), req)
	assert.ErrorIs(t, err, boom)
}

func TestService_QueryInvalid(t *testing.T) {
	f := newFixture(t, Config{})

	_, err := f.svc.Query(context.Background(), vectordb.QueryRequest{})
	assert.ErrorIs(t, err, vectordb.ErrEmptyCollection)

	_, err = f.svc.Query(context.Background(), vectordb.QueryRequest{Collection: "docs", Offset: -1})
	assert.ErrorIs(t, err, vectordb.ErrInvalidPaging)
}

func TestService_QueryAll(t *testing.T) {
	f := newFixture(t, Config{Concurrency: 2})
	f.logger.EXPECT().DebugWithContext(gomock.Any(), "query executed", nil, gomock.Any()).AnyTimes()

	var inflight, peak atomic.Int32
	f.executor.EXPECT().Query(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req vectordb.QueryRequest) ([]vectordb.Row, error) {
			n := inflight.Add(1)
			defer inflight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return []vectordb.Row{{ID: req.Collection}}, nil
		}).Times(5)

	reqs := []vectordb.QueryRequest{
		{Collection: "a"}, {Collection: "b"}, {Collection: "c"}, {Collection: "d"}, {Collection: "e"},
	}
	results, err := f.svc.QueryAll(context.Background(), reqs...)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i, rows := range results {
		assert.Equal(t, reqs[i].Collection, rows[0].ID)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestService_QueryAllError(t *testing.T) {
	f := newFixture(t, Config{Concurrency: 1})
	boom := errors.New("boom")

	f.executor.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, boom)
	f.logger.EXPECT().ErrorWithContext(gomock.Any(), "query failed", boom, gomock.Any())

	_, err := f.svc.QueryAll(context.Background(), vectordb.QueryRequest{Collection: "a"}, vectordb.QueryRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "request 0")
}

func TestRun(t *testing.T) {
	f := newFixture(t, Config{})
	f.logger.EXPECT().DebugWithContext(gomock.Any(), "query executed", nil, gomock.Any())
	f.executor.EXPECT().Query(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req vectordb.QueryRequest) ([]vectordb.Row, error) {
			assert.Equal(t, "docs", req.Collection)
			assert.Equal(t, "status == 'published' AND age > 18", req.Expr)
			assert.EqualValues(t, 5, req.Limit)
			return nil, nil
		})

	q := wrapper.NewQuery[Document](wrapper.WithCollection("docs")).
		Eq(true, "status", "published").
		Gt(true, "age", 18).
		Limit(5)
	_, err := Run(context.Background(), f.svc, q)
	require.NoError(t, err)
}

func TestRun_RequestError(t *testing.T) {
	f := newFixture(t, Config{})
	_, err := Run(context.Background(), f.svc, wrapper.NewQuery[Document]().Collection("docs").Limit(-1))
	assert.ErrorIs(t, err, vectordb.ErrInvalidPaging)
}

func TestNewService_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewService(ServiceParams{
		Executor: vectordb.NewMockExecutor(ctrl),
		Logger:   logger.NewMockLogger(ctrl),
	})
	assert.Equal(t, DefaultConcurrency, svc.cfg.Concurrency)
}

func TestService_WithoutObservability(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := vectordb.NewMockExecutor(ctrl)
	mockLogger := logger.NewMockLogger(ctrl)
	svc := NewService(ServiceParams{Executor: executor, Logger: mockLogger})

	executor.EXPECT().Query(gomock.Any(), gomock.Any()).Return([]vectordb.Row{}, nil)
	mockLogger.EXPECT().DebugWithContext(gomock.Any(), "query executed", nil, gomock.Any())

	rows, err := svc.Query(context.Background(), vectordb.QueryRequest{Collection: "docs"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFXModule(t *testing.T) {
	ctrl := gomock.NewController(t)

	var svc *Service
	app := fxtest.New(t,
		FXModule,
		fx.Supply(DefaultConfig()),
		fx.Provide(
			func() vectordb.Executor { return vectordb.NewMockExecutor(ctrl) },
			func() logger.Logger { return logger.NewMockLogger(ctrl) },
		),
		fx.Populate(&svc),
	)
	app.RequireStart()
	require.NotNil(t, svc)
	assert.Nil(t, svc.metrics)
	app.RequireStop()
}
