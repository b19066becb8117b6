package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vexpr/v1/logger"
	"github.com/Aleph-Alpha/vexpr/v1/metrics"
	"github.com/Aleph-Alpha/vexpr/v1/qdrant"
	"github.com/Aleph-Alpha/vexpr/v1/query"
	"github.com/Aleph-Alpha/vexpr/v1/tracer"
	"github.com/Aleph-Alpha/vexpr/v1/vectordb"
	"github.com/Aleph-Alpha/vexpr/v1/wrapper"
)

type queryOptions struct {
	configPath  string
	collection  string
	fields      []string
	partitions  []string
	consistency string
	limit       int64
	offset      int64
}

func newQueryCmd() *cobra.Command {
	var (
		flags predicateFlags
		opts  queryOptions
	)
	cmd := &cobra.Command{
		Use:     "query",
		Short:   "Run the filter built from the predicate flags and print matching rows as JSON",
		Example: `  vexpr query --config vexpr.yaml --collection books --eq author=ada --limit 5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			w, err := buildQuery(&flags, opts)
			if err != nil {
				return err
			}
			rows, err := runQuery(cmd.Context(), cfg, w)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		},
	}
	flags.register(cmd)

	fs := cmd.Flags()
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.collection, "collection", "", "collection to query (required)")
	fs.StringSliceVar(&opts.fields, "fields", nil, "output fields, default all")
	fs.StringSliceVar(&opts.partitions, "partitions", nil, "partitions to scan, default all")
	fs.StringVar(&opts.consistency, "consistency", vectordb.ConsistencyStrong.String(), "Strong, Session, Bounded, Eventually or Customized")
	fs.Int64Var(&opts.limit, "limit", wrapper.DefaultLimit, "maximum rows")
	fs.Int64Var(&opts.offset, "offset", 0, "rows to skip")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}

func buildQuery(flags *predicateFlags, opts queryOptions) (*queryWrapper, error) {
	level, err := vectordb.ParseConsistencyLevel(opts.consistency)
	if err != nil {
		return nil, err
	}
	fields := make([]string, 0, len(opts.fields))
	for _, f := range opts.fields {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	w := wrapper.NewQuery[record](append(flags.options(), wrapper.WithCollection(opts.collection))...).
		SetConsistencyLevel(level).
		SetPartitionNames(opts.partitions).
		Select(fields...).
		Limit(opts.limit).
		Offset(opts.offset)
	if err := flags.apply(w); err != nil {
		return nil, err
	}
	return w, nil
}

// runQuery starts the application graph for a single query and stops it
// again before returning.
func runQuery(ctx context.Context, cfg appConfig, w *queryWrapper) ([]vectordb.Row, error) {
	var svc *query.Service
	app := fx.New(
		fx.NopLogger,
		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		qdrant.FXModule,
		query.FXModule,
		fx.Supply(cfg.Logger, cfg.Metrics, cfg.Tracer, &cfg.Qdrant, cfg.Query),
		fx.Populate(&svc),
	)
	if err := app.Start(ctx); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	defer func() { _ = app.Stop(context.WithoutCancel(ctx)) }()

	return query.Run(ctx, svc, w)
}
