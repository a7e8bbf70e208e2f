package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"wbreport/internal/analysis"
	"wbreport/internal/config"
	"wbreport/internal/dataprocessing"
	apperrors "wbreport/internal/errors"
	"wbreport/internal/infrastructure"
	"wbreport/internal/regions"
	"wbreport/pkg/contracts/domain"
)

// Warnings recorded on the report for degraded but successful runs.
const (
	WarningNoCostFile = "no cost file provided; purchase cost treated as 0"
	// WarningCostIgnored prefixes the reason a supplied cost file was not used.
	WarningCostIgnored = "cost file ignored; purchase cost treated as 0: "
)

// AnalysisInput is one run request after files have been opened.
type AnalysisInput struct {
	Label   string
	Reports []dataprocessing.Source
	// Cost is the optional purchase cost workbook.
	Cost    *dataprocessing.Source
	Options analysis.Options
}

// AnalysisService drives one analysis run: load, analyse and stamp run
// metadata. It holds no per-run state and is safe for concurrent use.
type AnalysisService struct {
	loader   *dataprocessing.RecordLoader
	costs    *dataprocessing.CostLoader
	analyzer *analysis.Analyzer
	metrics  *infrastructure.AnalysisMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// NewAnalysisService creates the service. A nil analyzer uses the built-in
// lookup tables; nil metrics disable run metrics.
func NewAnalysisService(analyzer *analysis.Analyzer, metrics *infrastructure.AnalysisMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if analyzer == nil {
		analyzer = analysis.NewAnalyzer(nil, nil, logger)
	}
	return &AnalysisService{
		loader:   dataprocessing.NewRecordLoader(logger),
		costs:    dataprocessing.NewCostLoader(logger),
		analyzer: analyzer,
		metrics:  metrics,
		tracer:   tracenoop.NewTracerProvider().Tracer(""),
		logger:   infrastructure.WithComponent(logger, "analysis_service"),
		now:      time.Now,
	}
}

// NewAnalysisServiceFromConfig builds the analyzer from configuration
// (optional region table override) and instruments the service with the
// given telemetry providers.
func NewAnalysisServiceFromConfig(cfg config.AnalysisConfig, providers *infrastructure.OTelProviders, logger *slog.Logger) (*AnalysisService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if providers == nil {
		providers = infrastructure.NoopProviders(logger)
	}

	var cls regions.Classifier
	if cfg.RegionsFile != "" {
		table, err := regions.LoadFile(cfg.RegionsFile)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load region table %s", cfg.RegionsFile), err)
		}
		logger.Info("region table loaded",
			slog.String("path", cfg.RegionsFile),
			slog.Int("regions", table.Len()))
		cls = table
	}

	metrics, err := infrastructure.CreateAnalysisMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis metrics: %w", err)
	}

	svc := NewAnalysisService(analysis.NewAnalyzer(nil, cls, logger), metrics, logger)
	svc.tracer = providers.Tracer
	return svc, nil
}

// OptionsFromConfig maps the analysis configuration onto pipeline options.
func OptionsFromConfig(cfg config.AnalysisConfig) analysis.Options {
	return analysis.Options{
		EnableRegional: cfg.EnableRegional,
		PayablePolicy:  cfg.Policy(),
	}
}

// Taxonomy returns the fee taxonomy runs are classified with.
func (s *AnalysisService) Taxonomy() *analysis.Taxonomy {
	return s.analyzer.Taxonomy()
}

// Analyze loads the report workbooks and the optional cost workbook, runs
// the pipeline and stamps run id, label and generation time.
//
// An unreadable report is fatal (MISSING_STRUCTURE). A cost file that cannot
// be used is not: the run continues with an empty cost table and the report
// carries a warning.
func (s *AnalysisService) Analyze(ctx context.Context, in AnalysisInput) (report *domain.AnalysisReport, err error) {
	start := s.now()
	runID := infrastructure.GenerateRunID()
	ctx = infrastructure.WithRunID(infrastructure.EnsureTraceID(ctx), runID)
	logger := s.logger.With(slog.String("run_id", runID), slog.String("label", in.Label))

	ctx, span := s.tracer.Start(ctx, "analysis.service",
		trace.WithAttributes(
			attribute.String("analysis.run_id", runID),
			attribute.Int("analysis.report_files", len(in.Reports)),
			attribute.Bool("analysis.has_cost", in.Cost != nil),
		),
	)
	defer span.End()

	records := 0
	defer func() {
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
		infrastructure.RecordAnalysisRun(ctx, s.metrics, string(in.Options.PayablePolicy),
			len(in.Reports), records, s.now().Sub(start), err)
	}()

	logger.InfoContext(ctx, "analysis started",
		slog.Int("report_files", len(in.Reports)),
		slog.Bool("cost_file", in.Cost != nil),
		slog.String("payable_policy", string(in.Options.PayablePolicy)),
		slog.Bool("regional", in.Options.EnableRegional))

	set, err := s.loader.Load(ctx, in.Reports)
	if err != nil {
		logger.ErrorContext(ctx, "report loading failed", slog.String("error", err.Error()))
		return nil, err
	}
	records = set.Len()

	costs, warning := s.loadCosts(ctx, logger, in.Cost)

	report, err = s.analyzer.Run(ctx, set, costs, in.Options)
	if err != nil {
		return nil, err
	}

	report.RunID = runID
	report.Label = in.Label
	report.GeneratedAt = s.now().UTC()
	if warning != "" {
		// Cost warnings lead: they change every profit figure.
		report.Warnings = append([]string{warning}, report.Warnings...)
		infrastructure.AddSpanEvent(ctx, analysis.WarningEvent, attribute.String("analysis.warning", warning))
	}

	if final, ok := report.Overview.Value(domain.MetricFinalPayableAmount); ok {
		span.SetAttributes(attribute.String("analysis.final_payable", final.String()))
	}
	logHeadline(ctx, logger, report, s.now().Sub(start))
	return report, nil
}

func (s *AnalysisService) loadCosts(ctx context.Context, logger *slog.Logger, src *dataprocessing.Source) (domain.CostTable, string) {
	if src == nil {
		logger.WarnContext(ctx, "no cost file provided")
		return domain.CostTable{}, WarningNoCostFile
	}

	costs, err := s.costs.Load(ctx, src.Name, src.Reader)
	if err == nil {
		return costs, ""
	}

	logger.WarnContext(ctx, "cost file ignored",
		slog.String("source", src.Name),
		slog.Bool("schema_mismatch", apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch)),
		slog.String("error", err.Error()))
	infrastructure.RecordSchemaMismatch(ctx, s.metrics, src.Name)
	return domain.CostTable{}, WarningCostIgnored + err.Error()
}

// Headline picks the metrics printed after a run.
func Headline(o domain.Overview) []domain.Metric {
	keys := []string{
		domain.MetricTotalSalesQty,
		domain.MetricTotalReturnQty,
		domain.MetricNetSalesAmount,
		domain.MetricFinalPayableAmount,
		domain.MetricNetProfit,
	}
	out := make([]domain.Metric, 0, len(keys))
	for _, k := range keys {
		if m, ok := o.Metric(k); ok {
			out = append(out, m)
		}
	}
	return out
}

func logHeadline(ctx context.Context, logger *slog.Logger, report *domain.AnalysisReport, elapsed time.Duration) {
	attrs := []any{
		slog.Int("records", report.RecordCount),
		slog.Int("skus", len(report.NetSalesBySKU)),
		slog.Int("warnings", len(report.Warnings)),
		slog.Duration("duration", elapsed),
	}
	for _, m := range Headline(report.Overview) {
		attrs = append(attrs, slog.String(m.Key, m.Value.String()))
	}
	logger.InfoContext(ctx, "analysis finished", attrs...)
}
